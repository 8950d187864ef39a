// Package storetest holds the behaviour every services.Store backend must share.
package storetest

import (
	"context"
	"testing"

	"github.com/ytakahashi/daily-checklist/internal/models"
	"github.com/ytakahashi/daily-checklist/internal/services"
)

// Run exercises a Store implementation. newStore must return an empty store.
func Run(t *testing.T, newStore func(t *testing.T) services.Store) {
	t.Helper()

	t.Run("save assigns ids and keeps input order", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		saved, err := s.SaveItems(ctx, []models.CatalogItem{
			{Label: "Water plants", Category: models.CategoryMorning, Order: 2, Status: models.StatusActive},
			{ID: "fixed-id", Label: "Read", Category: models.CategoryNight, Order: 1, Status: models.StatusInactive, Complete: true},
		})
		if err != nil {
			t.Fatalf("SaveItems: %v", err)
		}
		if len(saved) != 2 {
			t.Fatalf("expected 2 saved items, got %d", len(saved))
		}
		if saved[0].ID == "" {
			t.Error("expected id to be assigned")
		}
		if saved[0].Label != "Water plants" || saved[1].Label != "Read" {
			t.Errorf("saved items out of input order: %+v", saved)
		}
		if saved[1].ID != "fixed-id" {
			t.Errorf("expected supplied id to be kept, got %q", saved[1].ID)
		}

		got, err := s.FindItemByID(ctx, "fixed-id")
		if err != nil {
			t.Fatalf("FindItemByID: %v", err)
		}
		if got == nil {
			t.Fatal("expected item to be found")
		}
		if *got != saved[1] {
			t.Errorf("FindItemByID = %+v, want %+v", *got, saved[1])
		}
	})

	t.Run("find missing item returns nil", func(t *testing.T) {
		s := newStore(t)
		got, err := s.FindItemByID(context.Background(), "nope")
		if err != nil {
			t.Fatalf("FindItemByID: %v", err)
		}
		if got != nil {
			t.Errorf("expected nil, got %+v", got)
		}
	})

	t.Run("save with existing id replaces", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		saved, _ := s.SaveItems(ctx, []models.CatalogItem{{Label: "Old", Category: models.CategoryMorning, Status: models.StatusActive}})
		item := saved[0]
		item.Label = "New"
		item.Status = models.StatusInactive
		if _, err := s.SaveItems(ctx, []models.CatalogItem{item}); err != nil {
			t.Fatalf("SaveItems: %v", err)
		}

		all, err := s.ListItems(ctx)
		if err != nil {
			t.Fatalf("ListItems: %v", err)
		}
		if len(all) != 1 {
			t.Fatalf("expected 1 item, got %d", len(all))
		}
		if all[0].Label != "New" || all[0].Status != models.StatusInactive {
			t.Errorf("item not replaced: %+v", all[0])
		}
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		saved, _ := s.SaveItems(ctx, []models.CatalogItem{{Label: "Gone", Category: models.CategoryNight, Status: models.StatusActive}})
		if err := s.DeleteItem(ctx, saved[0].ID); err != nil {
			t.Fatalf("DeleteItem: %v", err)
		}
		if err := s.DeleteItem(ctx, saved[0].ID); err != nil {
			t.Fatalf("second DeleteItem: %v", err)
		}
		if err := s.DeleteItem(ctx, "never-existed"); err != nil {
			t.Fatalf("DeleteItem on missing id: %v", err)
		}

		all, _ := s.ListItems(ctx)
		if len(all) != 0 {
			t.Errorf("expected empty catalog, got %d items", len(all))
		}
	})

	t.Run("snapshot upsert keeps one per date", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		missing, err := s.FindSnapshotByDate(ctx, "2026-10-16")
		if err != nil {
			t.Fatalf("FindSnapshotByDate: %v", err)
		}
		if missing != nil {
			t.Fatalf("expected no snapshot, got %+v", missing)
		}

		first, err := s.SaveSnapshot(ctx, &models.DailySnapshot{
			Date:  "2026-10-16",
			Items: []models.SnapshotItem{{ItemID: "a", Label: "A", Category: models.CategoryMorning, Order: 1}},
		})
		if err != nil {
			t.Fatalf("SaveSnapshot: %v", err)
		}
		if first.ID == "" {
			t.Fatal("expected snapshot id to be assigned")
		}

		first.Items[0].Complete = true
		first.Items = append(first.Items, models.SnapshotItem{ItemID: "b", Label: "B", Category: models.CategoryNight, Order: 2})
		second, err := s.SaveSnapshot(ctx, first)
		if err != nil {
			t.Fatalf("SaveSnapshot update: %v", err)
		}
		if second.ID != first.ID {
			t.Errorf("expected id %q to be kept, got %q", first.ID, second.ID)
		}

		got, err := s.FindSnapshotByDate(ctx, "2026-10-16")
		if err != nil {
			t.Fatalf("FindSnapshotByDate: %v", err)
		}
		if got == nil {
			t.Fatal("expected snapshot")
		}
		if got.ID != first.ID || got.Date != "2026-10-16" {
			t.Errorf("unexpected snapshot identity: %+v", got)
		}
		if len(got.Items) != 2 || !got.Items[0].Complete || got.Items[1].ItemID != "b" {
			t.Errorf("unexpected snapshot items: %+v", got.Items)
		}

		other, _ := s.FindSnapshotByDate(ctx, "2026-10-17")
		if other != nil {
			t.Errorf("expected no snapshot for another date, got %+v", other)
		}
	})

	t.Run("empty snapshot items round trip as empty", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		if _, err := s.SaveSnapshot(ctx, &models.DailySnapshot{Date: "2026-01-01", Items: []models.SnapshotItem{}}); err != nil {
			t.Fatalf("SaveSnapshot: %v", err)
		}
		got, err := s.FindSnapshotByDate(ctx, "2026-01-01")
		if err != nil {
			t.Fatalf("FindSnapshotByDate: %v", err)
		}
		if got == nil || got.Items == nil || len(got.Items) != 0 {
			t.Errorf("expected empty non-nil items, got %+v", got)
		}
	})
}
