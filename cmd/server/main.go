package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ytakahashi/daily-checklist/internal/app"
	"github.com/ytakahashi/daily-checklist/internal/config"
	"github.com/ytakahashi/daily-checklist/internal/database"
	"github.com/ytakahashi/daily-checklist/internal/database/migrations"
	"github.com/ytakahashi/daily-checklist/internal/services"
)

var configPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates an App. The caller must defer a.Close().
func newApp(ctx context.Context) (*app.App, *config.Config, services.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("reading config: %w", err)
	}

	l, err := app.NewLogger(cfg.Log, os.Stderr)
	if err != nil {
		return nil, nil, nil, err
	}
	logger := services.SlogLogger{L: l}

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, cfg, logger, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var rootCmd = &cobra.Command{
	Use:          "server",
	Short:        "Daily checklist server",
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, cfg, logger, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		e, err := a.Router()
		if err != nil {
			return err
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("server starting", "addr", cfg.Server.Addr, "store", cfg.Store.Type)
			errCh <- e.Start(cfg.Server.Addr)
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server failed: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		logger.Info("server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Rebuild today's checklist from the active catalog items",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, _, _, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		snapshot, err := a.Service.ResetChecklist(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(snapshot)
	},
}

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's checklist",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, _, _, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		snapshot, err := a.Service.GetTodayChecklist(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(snapshot)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending SQLite schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("reading config: %w", err)
		}
		if cfg.Store.Type != config.StoreSQLite {
			return fmt.Errorf("migrate only applies to the sqlite store, configured store is %s", cfg.Store.Type)
		}

		db, err := database.OpenConnection(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := migrations.MigrateUp(db.DB); err != nil {
			return err
		}
		version, dirty, err := migrations.Version(db.DB)
		if err != nil {
			return err
		}
		fmt.Printf("Schema version %d (dirty: %v) at %s\n", version, dirty, cfg.Store.Path)
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init PATH",
	Short: "Write a default configuration file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Init(args[0], config.Default()); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}
		fmt.Printf("Configuration initialized at %s\n", args[0])
		return nil
	},
}

func init() {
	// Without a subcommand the binary runs the server.
	rootCmd.RunE = serveCmd.RunE

	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("CHECKLIST_CONFIG"), "path to a TOML config file (env CHECKLIST_CONFIG)")

	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(todayCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(configCmd)
}
