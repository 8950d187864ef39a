package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestCategoryUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Category
		wantErr bool
	}{
		{name: "morning", input: `"MORNING"`, want: CategoryMorning},
		{name: "afternoon", input: `"AFTERNOON"`, want: CategoryAfternoon},
		{name: "night", input: `"NIGHT"`, want: CategoryNight},
		{name: "lowercase rejected", input: `"morning"`, wantErr: true},
		{name: "unknown rejected", input: `"EVENING"`, wantErr: true},
		{name: "number rejected", input: `1`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Category
			err := json.Unmarshal([]byte(tt.input), &got)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal(%s) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Unmarshal(%s) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStatusUnmarshalJSON(t *testing.T) {
	var s Status
	if err := json.Unmarshal([]byte(`"INACTIVE"`), &s); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if s != StatusInactive {
		t.Errorf("expected INACTIVE, got %q", s)
	}

	if err := json.Unmarshal([]byte(`"PAUSED"`), &s); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestCatalogItemJSONFieldNames(t *testing.T) {
	data, err := json.Marshal(CatalogItem{
		ID:       "a",
		Label:    "Stretch",
		Category: CategoryMorning,
		Order:    3,
		Status:   StatusActive,
		Complete: true,
	})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"id":"a","label":"Stretch","category":"MORNING","order":3,"status":"ACTIVE","complete":true}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}
}

func TestSnapshotItemFrom(t *testing.T) {
	item := CatalogItem{ID: "x", Label: "Vitamins", Category: CategoryNight, Order: 7, Status: StatusActive, Complete: true}
	got := SnapshotItemFrom(item)
	want := SnapshotItem{ItemID: "x", Label: "Vitamins", Category: CategoryNight, Order: 7, Complete: true}
	if got != want {
		t.Errorf("SnapshotItemFrom = %+v, want %+v", got, want)
	}
}

func TestDailySnapshotClone(t *testing.T) {
	orig := &DailySnapshot{ID: "s1", Date: "2026-10-16", Items: []SnapshotItem{{ItemID: "a"}}}
	c := orig.Clone()
	c.Items[0].Complete = true

	if orig.Items[0].Complete {
		t.Error("mutating the clone changed the original")
	}
}

func TestDateOf(t *testing.T) {
	ts := time.Date(2026, 10, 16, 23, 59, 0, 0, time.UTC)
	if got := DateOf(ts); got != "2026-10-16" {
		t.Errorf("DateOf = %q, want 2026-10-16", got)
	}
}
