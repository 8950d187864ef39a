package services

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ytakahashi/daily-checklist/internal/models"
)

const (
	itemsCollection     = "checklist_items"
	snapshotsCollection = "user_checklists"
)

// FirestoreStore keeps catalog items keyed by id and snapshots keyed by date,
// so a date can never hold more than one snapshot document.
type FirestoreStore struct {
	client *firestore.Client
	ids    IDGenerator
}

func NewFirestoreStore(ctx context.Context, projectID string) (*FirestoreStore, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}

	return &FirestoreStore{
		client: client,
		ids:    UUIDGenerator{},
	}, nil
}

func (fs *FirestoreStore) Close() error {
	return fs.client.Close()
}

func (fs *FirestoreStore) ListItems(ctx context.Context) ([]models.CatalogItem, error) {
	iter := fs.client.Collection(itemsCollection).Documents(ctx)
	defer iter.Stop()

	items := []models.CatalogItem{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate checklist items: %w", err)
		}

		var item models.CatalogItem
		if err := doc.DataTo(&item); err != nil {
			return nil, fmt.Errorf("failed to unmarshal checklist item %s: %w", doc.Ref.ID, err)
		}
		item.ID = doc.Ref.ID

		items = append(items, item)
	}

	return items, nil
}

func (fs *FirestoreStore) FindItemByID(ctx context.Context, id string) (*models.CatalogItem, error) {
	doc, err := fs.client.Collection(itemsCollection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get checklist item: %w", err)
	}

	var item models.CatalogItem
	if err := doc.DataTo(&item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal checklist item %s: %w", id, err)
	}
	item.ID = doc.Ref.ID
	return &item, nil
}

func (fs *FirestoreStore) SaveItems(ctx context.Context, items []models.CatalogItem) ([]models.CatalogItem, error) {
	saved := make([]models.CatalogItem, 0, len(items))
	for _, item := range items {
		if item.ID == "" {
			item.ID = fs.ids.New()
		}

		_, err := fs.client.Collection(itemsCollection).Doc(item.ID).Set(ctx, item)
		if err != nil {
			return nil, fmt.Errorf("failed to save checklist item %s: %w", item.ID, err)
		}
		saved = append(saved, item)
	}

	return saved, nil
}

func (fs *FirestoreStore) DeleteItem(ctx context.Context, id string) error {
	_, err := fs.client.Collection(itemsCollection).Doc(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete checklist item: %w", err)
	}

	return nil
}

func (fs *FirestoreStore) FindSnapshotByDate(ctx context.Context, date string) (*models.DailySnapshot, error) {
	doc, err := fs.client.Collection(snapshotsCollection).Doc(date).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get checklist for %s: %w", date, err)
	}

	var snapshot models.DailySnapshot
	if err := doc.DataTo(&snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal checklist for %s: %w", date, err)
	}
	if snapshot.Items == nil {
		snapshot.Items = []models.SnapshotItem{}
	}
	return &snapshot, nil
}

func (fs *FirestoreStore) SaveSnapshot(ctx context.Context, snapshot *models.DailySnapshot) (*models.DailySnapshot, error) {
	stored := snapshot.Clone()
	if stored.ID == "" {
		stored.ID = fs.ids.New()
	}

	_, err := fs.client.Collection(snapshotsCollection).Doc(stored.Date).Set(ctx, stored)
	if err != nil {
		return nil, fmt.Errorf("failed to save checklist for %s: %w", stored.Date, err)
	}

	return stored, nil
}
