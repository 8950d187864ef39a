package services

import (
	"time"

	"github.com/google/uuid"
)

// Clock abstracts time retrieval so "today" is deterministic in tests.
type Clock interface {
	Now() time.Time
}

// RealClock returns the server-local current time.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }

// IDGenerator abstracts unique ID generation for store adapters.
type IDGenerator interface {
	New() string
}

// UUIDGenerator produces random UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) New() string { return uuid.New().String() }
