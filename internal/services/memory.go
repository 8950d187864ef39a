package services

import (
	"context"
	"sync"

	"github.com/ytakahashi/daily-checklist/internal/models"
)

// MemoryStore is an in-memory implementation of Store.
// Items are listed in insertion order. Values are copied on the way in and
// out so callers cannot mutate stored state without saving.
// This implementation is safe for concurrent use.
type MemoryStore struct {
	ids       IDGenerator
	order     []string
	items     map[string]models.CatalogItem
	snapshots map[string]*models.DailySnapshot // date -> snapshot
	mu        sync.RWMutex
}

// NewMemoryStore creates an empty store. A nil ids uses UUIDGenerator.
func NewMemoryStore(ids IDGenerator) *MemoryStore {
	if ids == nil {
		ids = UUIDGenerator{}
	}
	return &MemoryStore{
		ids:       ids,
		items:     make(map[string]models.CatalogItem),
		snapshots: make(map[string]*models.DailySnapshot),
	}
}

func (m *MemoryStore) ListItems(_ context.Context) ([]models.CatalogItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	items := make([]models.CatalogItem, 0, len(m.order))
	for _, id := range m.order {
		items = append(items, m.items[id])
	}
	return items, nil
}

func (m *MemoryStore) FindItemByID(_ context.Context, id string) (*models.CatalogItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	item, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (m *MemoryStore) SaveItems(_ context.Context, items []models.CatalogItem) ([]models.CatalogItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	saved := make([]models.CatalogItem, 0, len(items))
	for _, item := range items {
		if item.ID == "" {
			item.ID = m.ids.New()
		}
		if _, ok := m.items[item.ID]; !ok {
			m.order = append(m.order, item.ID)
		}
		m.items[item.ID] = item
		saved = append(saved, item)
	}
	return saved, nil
}

func (m *MemoryStore) DeleteItem(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[id]; !ok {
		return nil
	}
	delete(m.items, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MemoryStore) FindSnapshotByDate(_ context.Context, date string) (*models.DailySnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshot, ok := m.snapshots[date]
	if !ok {
		return nil, nil
	}
	return snapshot.Clone(), nil
}

func (m *MemoryStore) SaveSnapshot(_ context.Context, snapshot *models.DailySnapshot) (*models.DailySnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := snapshot.Clone()
	if stored.ID == "" {
		if existing, ok := m.snapshots[stored.Date]; ok {
			stored.ID = existing.ID
		} else {
			stored.ID = m.ids.New()
		}
	}
	m.snapshots[stored.Date] = stored
	return stored.Clone(), nil
}

func (m *MemoryStore) Close() error { return nil }
