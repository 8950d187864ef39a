package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/ytakahashi/daily-checklist/internal/models"
)

// ChecklistService owns the catalog mutation rules and the daily checklist
// lifecycle. It keeps no state between calls.
type ChecklistService struct {
	catalog   CatalogStore
	snapshots SnapshotStore
	logger    Logger
	clock     Clock
}

func NewChecklistService(catalog CatalogStore, snapshots SnapshotStore, logger Logger, clock Clock) *ChecklistService {
	if logger == nil {
		logger = NewNopLogger()
	}
	if clock == nil {
		clock = RealClock{}
	}
	return &ChecklistService{
		catalog:   catalog,
		snapshots: snapshots,
		logger:    logger,
		clock:     clock,
	}
}

func (s *ChecklistService) today() string {
	return models.DateOf(s.clock.Now())
}

func (s *ChecklistService) GetAllItems(ctx context.Context) ([]models.CatalogItem, error) {
	items, err := s.catalog.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing checklist items: %w", err)
	}
	return items, nil
}

func (s *ChecklistService) CreateItems(ctx context.Context, items []models.CatalogItem) ([]models.CatalogItem, error) {
	saved, err := s.catalog.SaveItems(ctx, items)
	if err != nil {
		return nil, fmt.Errorf("creating checklist items: %w", err)
	}
	s.logger.Info("checklist items created", "count", len(saved))
	return saved, nil
}

// UpdateItems treats items as the complete desired catalog. Every item must
// already exist; stored items missing from the input are deleted before the
// input is saved. Validation runs over all items before anything is written.
func (s *ChecklistService) UpdateItems(ctx context.Context, items []models.CatalogItem) ([]models.CatalogItem, error) {
	keep := make(map[string]struct{}, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.ID) == "" {
			return nil, invalidArgumentf("item id is required for update")
		}
		existing, err := s.catalog.FindItemByID(ctx, item.ID)
		if err != nil {
			return nil, fmt.Errorf("finding checklist item %s: %w", item.ID, err)
		}
		if existing == nil {
			return nil, notFoundf("checklist item not found with id: %s", item.ID)
		}
		keep[item.ID] = struct{}{}
	}

	current, err := s.catalog.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing checklist items: %w", err)
	}
	for _, item := range current {
		if _, ok := keep[item.ID]; ok {
			continue
		}
		if err := s.catalog.DeleteItem(ctx, item.ID); err != nil {
			return nil, fmt.Errorf("deleting checklist item %s: %w", item.ID, err)
		}
		s.logger.Debug("checklist item removed by update", "id", item.ID)
	}

	saved, err := s.catalog.SaveItems(ctx, items)
	if err != nil {
		return nil, fmt.Errorf("saving checklist items: %w", err)
	}
	s.logger.Info("checklist items updated", "count", len(saved))
	return saved, nil
}

func (s *ChecklistService) DeleteItem(ctx context.Context, id string) error {
	existing, err := s.catalog.FindItemByID(ctx, id)
	if err != nil {
		return fmt.Errorf("finding checklist item %s: %w", id, err)
	}
	if existing == nil {
		return notFoundf("checklist item not found with id: %s", id)
	}
	if err := s.catalog.DeleteItem(ctx, id); err != nil {
		return fmt.Errorf("deleting checklist item %s: %w", id, err)
	}
	s.logger.Info("checklist item deleted", "id", id)
	return nil
}

func (s *ChecklistService) GetTodayChecklist(ctx context.Context) (*models.DailySnapshot, error) {
	return s.findSnapshot(ctx, s.today())
}

func (s *ChecklistService) findSnapshot(ctx context.Context, date string) (*models.DailySnapshot, error) {
	snapshot, err := s.snapshots.FindSnapshotByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("finding checklist for %s: %w", date, err)
	}
	if snapshot == nil {
		return nil, notFoundf("no checklist found for today")
	}
	return snapshot, nil
}

func (s *ChecklistService) MarkItemComplete(ctx context.Context, itemID string) (*models.DailySnapshot, error) {
	return s.SetItemCompletion(ctx, itemID, true)
}

func (s *ChecklistService) MarkItemUncomplete(ctx context.Context, itemID string) (*models.DailySnapshot, error) {
	return s.SetItemCompletion(ctx, itemID, false)
}

// SetItemCompletion updates the first entry of today's checklist whose
// ItemID matches. The catalog item itself is left untouched.
func (s *ChecklistService) SetItemCompletion(ctx context.Context, itemID string, complete bool) (*models.DailySnapshot, error) {
	snapshot, err := s.findSnapshot(ctx, s.today())
	if err != nil {
		return nil, err
	}

	found := false
	for i := range snapshot.Items {
		if snapshot.Items[i].ItemID == itemID {
			snapshot.Items[i].Complete = complete
			found = true
			break
		}
	}
	if !found {
		return nil, notFoundf("item not found in today's checklist with id: %s", itemID)
	}

	saved, err := s.snapshots.SaveSnapshot(ctx, snapshot)
	if err != nil {
		return nil, fmt.Errorf("saving checklist for %s: %w", snapshot.Date, err)
	}
	return saved, nil
}

// ResetChecklist rebuilds today's checklist from the active catalog items.
// An existing checklist for today keeps its id but loses any toggles.
func (s *ChecklistService) ResetChecklist(ctx context.Context) (*models.DailySnapshot, error) {
	date := s.today()

	catalog, err := s.catalog.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing checklist items: %w", err)
	}

	items := []models.SnapshotItem{}
	for _, item := range catalog {
		if item.Status != models.StatusActive {
			continue
		}
		items = append(items, models.SnapshotItemFrom(item))
	}

	snapshot, err := s.snapshots.FindSnapshotByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("finding checklist for %s: %w", date, err)
	}
	if snapshot != nil {
		snapshot.Items = items
	} else {
		snapshot = &models.DailySnapshot{Date: date, Items: items}
	}

	saved, err := s.snapshots.SaveSnapshot(ctx, snapshot)
	if err != nil {
		return nil, fmt.Errorf("saving checklist for %s: %w", date, err)
	}
	s.logger.Info("checklist reset", "date", date, "items", len(items))
	return saved, nil
}
