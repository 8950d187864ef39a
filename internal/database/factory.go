package database

import (
	"context"
	"fmt"

	"github.com/ytakahashi/daily-checklist/internal/config"
	"github.com/ytakahashi/daily-checklist/internal/services"
)

// NewStoreFromConfig creates a Store implementation based on the store config type.
func NewStoreFromConfig(ctx context.Context, cfg config.StoreConfig) (services.Store, error) {
	switch cfg.Type {
	case config.StoreFirestore:
		if cfg.ProjectID == "" {
			return nil, fmt.Errorf("project_id required for firestore store")
		}
		return services.NewFirestoreStore(ctx, cfg.ProjectID)
	case config.StoreSQLite:
		if cfg.Path == "" {
			return nil, fmt.Errorf("path required for sqlite store")
		}
		return NewSQLiteStore(cfg.Path)
	case config.StoreMemory:
		return services.NewMemoryStore(nil), nil
	default:
		return nil, fmt.Errorf("unknown store type: %s", cfg.Type)
	}
}
