package app

import (
	"context"
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"github.com/ytakahashi/daily-checklist/internal/config"
	"github.com/ytakahashi/daily-checklist/internal/database"
	"github.com/ytakahashi/daily-checklist/internal/handlers"
	"github.com/ytakahashi/daily-checklist/internal/services"
)

// App is the application layer between the CLI and ChecklistService.
// It constructs all dependencies from config and owns the store lifecycle.
// The caller must call Close when done.
type App struct {
	cfg     *config.Config
	store   services.Store
	logger  services.Logger
	Service *services.ChecklistService
}

// New creates a fully wired App from cfg. A nil logger discards output.
func New(ctx context.Context, cfg *config.Config, logger services.Logger) (*App, error) {
	if logger == nil {
		logger = services.NewNopLogger()
	}

	store, err := database.NewStoreFromConfig(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("creating store: %w", err)
	}
	logger.Debug("store opened", "type", cfg.Store.Type)

	return &App{
		cfg:     cfg,
		store:   store,
		logger:  logger,
		Service: services.NewChecklistService(store, store, logger, services.RealClock{}),
	}, nil
}

// Router builds the HTTP server. The LINE webhook is mounted only when both
// channel credentials are configured.
func (a *App) Router() (*echo.Echo, error) {
	var webhook *handlers.WebhookHandler
	if a.cfg.Line.Enabled() {
		bot, err := messaging_api.NewMessagingApiAPI(a.cfg.Line.ChannelToken)
		if err != nil {
			return nil, fmt.Errorf("creating LINE bot client: %w", err)
		}
		webhook = handlers.NewWebhookHandler(bot, a.Service, a.cfg.Line.ChannelSecret, a.logger)
		a.logger.Info("LINE webhook enabled")
	}

	return handlers.NewRouter(a.Service, webhook, a.logger), nil
}

func (a *App) Close() error {
	if err := a.store.Close(); err != nil {
		return fmt.Errorf("closing store: %w", err)
	}
	return nil
}
