package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the calendar date format used for snapshot dates.
const DateLayout = "2006-01-02"

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) string {
	return t.Format(DateLayout)
}

// Category is a descriptive tag for when a checklist item is meant to be done.
type Category string

const (
	CategoryMorning   Category = "MORNING"
	CategoryAfternoon Category = "AFTERNOON"
	CategoryNight     Category = "NIGHT"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryMorning, CategoryAfternoon, CategoryNight:
		return true
	}
	return false
}

func (c *Category) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v := Category(s)
	if !v.Valid() {
		return fmt.Errorf("unknown category %q", s)
	}
	*c = v
	return nil
}

// Status controls whether a catalog item takes part in the daily checklist.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v := Status(raw)
	if !v.Valid() {
		return fmt.Errorf("unknown status %q", raw)
	}
	*s = v
	return nil
}

// CatalogItem is a reusable checklist template entry.
// Complete is the default completion copied into each day's checklist.
type CatalogItem struct {
	ID       string   `firestore:"id" json:"id"`
	Label    string   `firestore:"label" json:"label"`
	Category Category `firestore:"category" json:"category"`
	Order    int      `firestore:"order" json:"order"`
	Status   Status   `firestore:"status" json:"status"`
	Complete bool     `firestore:"complete" json:"complete"`
}

// DailySnapshot is the checklist for one calendar date.
type DailySnapshot struct {
	ID    string         `firestore:"id" json:"id"`
	Date  string         `firestore:"date" json:"date"`
	Items []SnapshotItem `firestore:"items" json:"items"`
}

// SnapshotItem is a copy of a catalog item taken when the checklist was reset.
// ItemID refers back to the catalog item and may dangle after it is deleted.
type SnapshotItem struct {
	ItemID   string   `firestore:"itemId" json:"itemId"`
	Label    string   `firestore:"label" json:"label"`
	Category Category `firestore:"category" json:"category"`
	Order    int      `firestore:"order" json:"order"`
	Complete bool     `firestore:"complete" json:"complete"`
}

// SnapshotItemFrom copies the fields of a catalog item into a snapshot entry.
func SnapshotItemFrom(item CatalogItem) SnapshotItem {
	return SnapshotItem{
		ItemID:   item.ID,
		Label:    item.Label,
		Category: item.Category,
		Order:    item.Order,
		Complete: item.Complete,
	}
}

// Clone returns a deep copy of the snapshot.
func (s *DailySnapshot) Clone() *DailySnapshot {
	c := *s
	c.Items = append([]SnapshotItem{}, s.Items...)
	return &c
}
