// Package store provides read access to the tracking record streams (Timeline,
// CustomerTracker, DwellTime) and to the center/area directory.
package store

import (
	"context"
	"math"

	"github.com/PratikDhanave/venue-analytics-service/internal/models"
)

// Unbounded is used as To for open-ended timeline reads.
const Unbounded int64 = math.MaxInt64

// TimelineQuery selects Timeline rows with From <= epoch_second <= To.
type TimelineQuery struct {
	Centers  []string
	From     int64
	To       int64
	Identity string // optional
}

// DwellQuery selects DwellTime rows of one center.
// A nil Identities or Areas means "any"; a non-nil empty slice matches nothing.
// From and To bound the exit epoch inclusively when set.
type DwellQuery struct {
	Center     string
	Identities []string
	Areas      []string
	From       *int64
	To         *int64
}

// RecordStore is the read-only record store the analytics engine queries.
type RecordStore interface {
	CenterExists(ctx context.Context, name string) (bool, error)
	ListCenters(ctx context.Context) ([]string, error)
	ListAreas(ctx context.Context, center string) ([]models.Area, error)

	FetchTimeline(ctx context.Context, q TimelineQuery) ([]models.TrackedEvent, error)
	FetchLive(ctx context.Context, center string) ([]models.LiveSnapshot, error)
	FetchDwell(ctx context.Context, q DwellQuery) ([]models.DwellRecord, error)
}

// Backend is a RecordStore with a connection lifecycle.
type Backend interface {
	RecordStore
	Ping(ctx context.Context) error
	Close()
}

// Range returns pointers for a bounded DwellQuery.
func Range(from, to int64) (*int64, *int64) {
	return &from, &to
}

func (q DwellQuery) matchesNothing() bool {
	return (q.Identities != nil && len(q.Identities) == 0) || (q.Areas != nil && len(q.Areas) == 0)
}
