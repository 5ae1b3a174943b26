// Package analytics answers the venue analytics queries: waiting statistics,
// area attendance and dwell, customer journeys, heatmaps and historical trends.
//
// Every operation validates its inputs before touching the record store and
// returns one of the Err* kinds on bad input. Store errors are returned as is.
package analytics

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/PratikDhanave/venue-analytics-service/internal/journey"
	"github.com/PratikDhanave/venue-analytics-service/internal/logging"
	"github.com/PratikDhanave/venue-analytics-service/internal/metrics"
	"github.com/PratikDhanave/venue-analytics-service/internal/models"
	"github.com/PratikDhanave/venue-analytics-service/internal/spatial"
	"github.com/PratikDhanave/venue-analytics-service/internal/store"
)

// AllCenters selects every center in History for the privileged role.
const AllCenters = "ALL"

// Options tunes the Service. Zero values fall back to defaults.
type Options struct {
	CellSize        int
	JourneyLength   int
	DefaultEntrance string
	PrivilegedRole  string
}

// Service is the aggregation facade. It holds no per-request state and is
// safe for concurrent use.
type Service struct {
	store store.RecordStore
	opts  Options
}

// NewService creates a Service reading from st.
func NewService(st store.RecordStore, opts Options) *Service {
	if opts.CellSize <= 0 {
		opts.CellSize = spatial.DefaultCellSize
	}
	if opts.JourneyLength <= 0 {
		opts.JourneyLength = journey.DefaultLength
	}
	if opts.DefaultEntrance == "" {
		opts.DefaultEntrance = "Main Entrance"
	}
	if opts.PrivilegedRole == "" {
		opts.PrivilegedRole = "general-manager"
	}
	return &Service{store: st, opts: opts}
}

// observe records metrics and a debug line for one operation.
func (s *Service) observe(ctx context.Context, op, center string, start time.Time, errp *error) {
	var err error
	if errp != nil {
		err = *errp
	}
	metrics.RecordAnalyticsQuery(op, start, Kind(err))

	ev := logging.Ctx(ctx).Debug()
	if err != nil && !IsClientError(err) {
		ev = logging.Ctx(ctx).Error().Err(err)
	}
	ev.Str("operation", op).
		Str("center", center).
		Dur("duration", time.Since(start)).
		Str("error_kind", Kind(err)).
		Msg("analytics query")
}

func checkRange(from, to int64) error {
	if from > to {
		return ErrInvalidTimeRange
	}
	return nil
}

// requireCenter fails with ErrNullParams for an empty name and
// ErrCenterNotFound for an unknown one.
func (s *Service) requireCenter(ctx context.Context, center string) error {
	if center == "" {
		return ErrNullParams
	}
	ok, err := s.store.CenterExists(ctx, center)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCenterNotFound
	}
	return nil
}

func (s *Service) timeline(ctx context.Context, center string, from, to int64) ([]models.TrackedEvent, error) {
	return s.store.FetchTimeline(ctx, store.TimelineQuery{Centers: []string{center}, From: from, To: to})
}

// liveEvents returns the tracked part of every live snapshot of center.
func (s *Service) liveEvents(ctx context.Context, center string) ([]models.TrackedEvent, error) {
	snaps, err := s.store.FetchLive(ctx, center)
	if err != nil {
		return nil, err
	}
	events := make([]models.TrackedEvent, 0, len(snaps))
	for _, sn := range snaps {
		events = append(events, sn.TrackedEvent)
	}
	return events, nil
}

// presence returns the live snapshot rows when live is set, else the timeline window.
func (s *Service) presence(ctx context.Context, center string, from, to int64, live bool) ([]models.TrackedEvent, error) {
	if live {
		return s.liveEvents(ctx, center)
	}
	return s.timeline(ctx, center, from, to)
}

// identities returns the distinct identities of events in first-seen order.
func identities(events []models.TrackedEvent) []string {
	seen := make(map[string]struct{}, len(events))
	ids := make([]string, 0)
	for _, e := range events {
		if e.IdentityID == "" {
			continue
		}
		if _, ok := seen[e.IdentityID]; ok {
			continue
		}
		seen[e.IdentityID] = struct{}{}
		ids = append(ids, e.IdentityID)
	}
	return ids
}

type stat struct {
	sum   float64
	count int
}

func (s stat) mean() float64 {
	if s.count == 0 {
		return 0
	}
	return s.sum / float64(s.count)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// floorMinutesPer returns seconds // 60 // n, or 0 when n is 0.
func floorMinutesPer(seconds float64, n int) int64 {
	if n <= 0 {
		return 0
	}
	return int64(math.Floor(math.Floor(seconds/60) / float64(n)))
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
