package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config is the full server configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Store  StoreConfig  `toml:"store"`
	Line   LineConfig   `toml:"line"`
	Log    LogConfig    `toml:"log"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

// StoreConfig uses a tagged union pattern: Type decides which other fields apply.
type StoreConfig struct {
	Type      string `toml:"type"`                 // "firestore", "sqlite" or "memory"
	ProjectID string `toml:"project_id,omitempty"` // only used for type=firestore
	Path      string `toml:"path,omitempty"`       // only used for type=sqlite
}

// LineConfig enables the LINE webhook when both values are set.
type LineConfig struct {
	ChannelToken  string `toml:"channel_token,omitempty"`
	ChannelSecret string `toml:"channel_secret,omitempty"`
}

func (c LineConfig) Enabled() bool {
	return c.ChannelToken != "" && c.ChannelSecret != ""
}

type LogConfig struct {
	Level  string `toml:"level"`  // "debug", "info", "warn" or "error"
	Format string `toml:"format"` // "text" or "json"
}

const (
	StoreFirestore = "firestore"
	StoreSQLite    = "sqlite"
	StoreMemory    = "memory"
)

// Default returns the configuration used when nothing else is provided.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":8080"},
		Store:  StoreConfig{Type: StoreFirestore, Path: "checklist.db"},
		Log:    LogConfig{Level: "info", Format: "text"},
	}
}

// Read decodes TOML from r on top of the defaults.
func Read(r io.Reader) (*Config, error) {
	cfg := Default()
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Write encodes cfg as TOML.
func Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// Load builds the configuration from, in increasing priority: defaults, the
// TOML file at path (skipped when path is empty), a .env file in the working
// directory, and the process environment.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}
		defer f.Close()

		cfg, err = Read(f)
		if err != nil {
			return nil, fmt.Errorf("reading config from %s: %w", path, err)
		}
	}

	applyEnv(cfg, os.Getenv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}

	if port := getenv("PORT"); port != "" {
		cfg.Server.Addr = ":" + port
	}
	set(&cfg.Store.Type, "CHECKLIST_STORE")
	set(&cfg.Store.ProjectID, "GOOGLE_CLOUD_PROJECT")
	set(&cfg.Store.Path, "CHECKLIST_DB_PATH")
	set(&cfg.Line.ChannelToken, "LINE_CHANNEL_TOKEN")
	set(&cfg.Line.ChannelSecret, "LINE_CHANNEL_SECRET")
	set(&cfg.Log.Level, "LOG_LEVEL")
	set(&cfg.Log.Format, "LOG_FORMAT")
}

// Validate checks that the fields required by the selected options are set.
func (c *Config) Validate() error {
	switch c.Store.Type {
	case StoreFirestore:
		if c.Store.ProjectID == "" {
			return fmt.Errorf("GOOGLE_CLOUD_PROJECT (store.project_id) is required for the firestore store")
		}
	case StoreSQLite:
		if c.Store.Path == "" {
			return fmt.Errorf("store.path is required for the sqlite store")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown store type: %s", c.Store.Type)
	}

	if (c.Line.ChannelToken == "") != (c.Line.ChannelSecret == "") {
		return fmt.Errorf("LINE_CHANNEL_TOKEN and LINE_CHANNEL_SECRET must be set together")
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format: %s", c.Log.Format)
	}
	return nil
}

// Init writes cfg to path, refusing to overwrite an existing file.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}
