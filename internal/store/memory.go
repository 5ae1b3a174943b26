package store

import (
	"context"
	"slices"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/PratikDhanave/venue-analytics-service/internal/models"
)

// MemoryStore is an in-process RecordStore for local development and tests.
// Writers are provided so fixtures can be loaded; the analytics engine only reads.
type MemoryStore struct {
	mu       sync.RWMutex
	centers  map[string]struct{}
	areas    map[string][]models.Area
	timeline []models.TrackedEvent
	live     map[string]map[string]models.LiveSnapshot
	dwell    []models.DwellRecord

	reads atomic.Int64
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		centers: make(map[string]struct{}),
		areas:   make(map[string][]models.Area),
		live:    make(map[string]map[string]models.LiveSnapshot),
	}
}

// Reads returns how many read operations were served.
func (m *MemoryStore) Reads() int64 {
	return m.reads.Load()
}

// AddCenter registers a center.
func (m *MemoryStore) AddCenter(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.centers[name] = struct{}{}
}

// PutArea creates or replaces an area keyed by (center, type, name).
func (m *MemoryStore) PutArea(a models.Area) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.areas[a.CenterID]
	for i := range list {
		if list[i].AreaType == a.AreaType && list[i].AreaName == a.AreaName {
			list[i] = a
			return
		}
	}
	m.areas[a.CenterID] = append(list, a)
}

// AppendTimeline appends Timeline rows.
func (m *MemoryStore) AppendTimeline(events ...models.TrackedEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timeline = append(m.timeline, events...)
}

// UpsertLive replaces the snapshot of an identity.
func (m *MemoryStore) UpsertLive(snaps ...models.LiveSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range snaps {
		byID, ok := m.live[s.CenterID]
		if !ok {
			byID = make(map[string]models.LiveSnapshot)
			m.live[s.CenterID] = byID
		}
		byID[s.IdentityID] = s
	}
}

// AppendDwell appends DwellTime rows.
func (m *MemoryStore) AppendDwell(records ...models.DwellRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dwell = append(m.dwell, records...)
}

func (m *MemoryStore) CenterExists(_ context.Context, name string) (bool, error) {
	m.reads.Add(1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.centers[name]
	return ok, nil
}

func (m *MemoryStore) ListCenters(_ context.Context) ([]string, error) {
	m.reads.Add(1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.centers))
	for n := range m.centers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

func (m *MemoryStore) ListAreas(_ context.Context, center string) ([]models.Area, error) {
	m.reads.Add(1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.areas[center]), nil
}

func (m *MemoryStore) FetchTimeline(_ context.Context, q TimelineQuery) ([]models.TrackedEvent, error) {
	m.reads.Add(1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.TrackedEvent
	for _, e := range m.timeline {
		if !slices.Contains(q.Centers, e.CenterID) || e.Epoch < q.From || e.Epoch > q.To {
			continue
		}
		if q.Identity != "" && e.IdentityID != q.Identity {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Epoch < out[j].Epoch })
	return out, nil
}

func (m *MemoryStore) FetchLive(_ context.Context, center string) ([]models.LiveSnapshot, error) {
	m.reads.Add(1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.LiveSnapshot, 0, len(m.live[center]))
	for _, s := range m.live[center] {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IdentityID < out[j].IdentityID })
	return out, nil
}

func (m *MemoryStore) FetchDwell(_ context.Context, q DwellQuery) ([]models.DwellRecord, error) {
	m.reads.Add(1)
	if q.matchesNothing() {
		return []models.DwellRecord{}, nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.DwellRecord
	for _, d := range m.dwell {
		switch {
		case d.CenterID != q.Center:
		case q.Identities != nil && !slices.Contains(q.Identities, d.IdentityID):
		case q.Areas != nil && !slices.Contains(q.Areas, d.AreaName):
		case q.From != nil && d.Epoch < float64(*q.From):
		case q.To != nil && d.Epoch > float64(*q.To):
		default:
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

func (m *MemoryStore) Close() {}
