package services

import (
	"context"

	"github.com/ytakahashi/daily-checklist/internal/models"
)

// CatalogStore persists checklist item templates.
type CatalogStore interface {
	// ListItems returns every catalog item in the order the store keeps them.
	ListItems(ctx context.Context) ([]models.CatalogItem, error)

	// FindItemByID returns nil, nil when no item has the given id.
	FindItemByID(ctx context.Context, id string) (*models.CatalogItem, error)

	// SaveItems upserts each item by id, assigning ids to items without one.
	// The result is in input order.
	SaveItems(ctx context.Context, items []models.CatalogItem) ([]models.CatalogItem, error)

	// DeleteItem removes an item. Deleting a missing item is not an error.
	DeleteItem(ctx context.Context, id string) error
}

// SnapshotStore persists at most one DailySnapshot per date.
type SnapshotStore interface {
	// FindSnapshotByDate returns nil, nil when no snapshot exists for date.
	FindSnapshotByDate(ctx context.Context, date string) (*models.DailySnapshot, error)

	// SaveSnapshot inserts the snapshot when it has no id, otherwise
	// replaces the stored one. The returned value has its id set.
	SaveSnapshot(ctx context.Context, snapshot *models.DailySnapshot) (*models.DailySnapshot, error)
}

// Store is implemented by backends that hold both the catalog and snapshots.
type Store interface {
	CatalogStore
	SnapshotStore
	Close() error
}
