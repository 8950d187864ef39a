package services_test

import (
	"context"
	"testing"

	"github.com/ytakahashi/daily-checklist/internal/models"
	"github.com/ytakahashi/daily-checklist/internal/services"
	"github.com/ytakahashi/daily-checklist/internal/services/storetest"
)

func TestMemoryStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) services.Store {
		return services.NewMemoryStore(nil)
	})
}

func TestMemoryStore_ListKeepsInsertionOrder(t *testing.T) {
	s := services.NewMemoryStore(nil)
	ctx := context.Background()

	s.SaveItems(ctx, []models.CatalogItem{{ID: "c"}, {ID: "a"}, {ID: "b"}})
	s.DeleteItem(ctx, "a")
	s.SaveItems(ctx, []models.CatalogItem{{ID: "a"}})

	items, _ := s.ListItems(ctx)
	var got []string
	for _, item := range items {
		got = append(got, item.ID)
	}
	want := []string{"c", "b", "a"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestMemoryStore_FoundSnapshotIsACopy(t *testing.T) {
	s := services.NewMemoryStore(nil)
	ctx := context.Background()

	s.SaveSnapshot(ctx, &models.DailySnapshot{Date: "2026-10-16", Items: []models.SnapshotItem{{ItemID: "a"}}})

	found, _ := s.FindSnapshotByDate(ctx, "2026-10-16")
	found.Items[0].Complete = true

	again, _ := s.FindSnapshotByDate(ctx, "2026-10-16")
	if again.Items[0].Complete {
		t.Error("unsaved change leaked into the store")
	}
}
