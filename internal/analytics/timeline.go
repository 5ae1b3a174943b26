package analytics

import (
	"context"
	"encoding/base64"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/PratikDhanave/venue-analytics-service/internal/bucket"
	"github.com/PratikDhanave/venue-analytics-service/internal/journey"
	"github.com/PratikDhanave/venue-analytics-service/internal/models"
	"github.com/PratikDhanave/venue-analytics-service/internal/spatial"
	"github.com/PratikDhanave/venue-analytics-service/internal/store"
)

// History types.
const (
	HistoryHappiness  = "happiness"
	HistoryAttendance = "attendance"
)

// maxFanOut bounds concurrent timeline reads of an all-centers History.
const maxFanOut = 8

const footagePrefix = "data:image/png;base64,"

// journeyOrder ranks area types in a journey summary. Unknown types sort last.
var journeyOrder = map[string]int{
	models.AreaTypeEntry:       0,
	models.AreaTypeSupport:     1,
	models.AreaTypeWaiting:     2,
	models.AreaTypeInteraction: 3,
	models.AreaTypeExit:        4,
}

// History buckets the timeline of a center into intervals of interval seconds
// and reports, per bucket, the mean happiness or the row count for every
// gender, ethnicity and age band. Only rows carrying all four attributes are
// used. The privileged role may pass AllCenters to aggregate every center.
func (s *Service) History(ctx context.Context, center, historyType string, from, to, interval int64, role string) (out []models.HistoryPoint, err error) {
	defer s.observe(ctx, "history", center, time.Now(), &err)

	if center == "" || historyType == "" {
		return nil, ErrNullParams
	}
	var agg bucket.Aggregation
	switch historyType {
	case HistoryHappiness:
		agg = bucket.Mean
	case HistoryAttendance:
		agg = bucket.Count
	default:
		return nil, ErrInvalidFormat
	}
	if interval <= 0 {
		return nil, ErrInvalidFormat
	}
	if err = checkRange(from, to); err != nil {
		return nil, err
	}

	centers := []string{center}
	if center == AllCenters && role == s.opts.PrivilegedRole {
		if centers, err = s.store.ListCenters(ctx); err != nil {
			return nil, err
		}
	} else if err = s.requireCenter(ctx, center); err != nil {
		return nil, err
	}

	events, err := s.timelines(ctx, centers, from, to)
	if err != nil {
		return nil, err
	}
	complete := events[:0:0]
	for _, e := range events {
		if e.Gender != nil && e.Ethnicity != nil && e.AgeBand != nil && e.Happiness != nil {
			complete = append(complete, e)
		}
	}

	rows := bucket.Group(complete, interval, bucket.Demographics, agg, bucket.Happiness)
	out = make([]models.HistoryPoint, 0, len(rows))
	for _, r := range rows {
		if agg == bucket.Mean {
			for k, v := range r.Values {
				r.Values[k] = math.RoundToEven(v)
			}
		}
		out = append(out, models.HistoryPoint{
			Time:     r.Start,
			Values:   r.Values,
			TotalAvg: bucket.GenderTotal(r.Values),
		})
	}
	return out, nil
}

// timelines reads the timeline of several centers concurrently.
func (s *Service) timelines(ctx context.Context, centers []string, from, to int64) ([]models.TrackedEvent, error) {
	if len(centers) == 1 {
		return s.timeline(ctx, centers[0], from, to)
	}

	parts := make([][]models.TrackedEvent, len(centers))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxFanOut)
	for i, c := range centers {
		i, c := i, c
		g.Go(func() error {
			events, err := s.timeline(gctx, c, from, to)
			parts[i] = events
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var events []models.TrackedEvent
	for _, p := range parts {
		events = append(events, p...)
	}
	return events, nil
}

// JourneySummary reports the share of (identity, area) visits per area and
// the mean happiness per area type. Each identity contributes one mean per
// area it visited.
func (s *Service) JourneySummary(ctx context.Context, center string, from, to int64) (out models.JourneySummary, err error) {
	defer s.observe(ctx, "journey_summary", center, time.Now(), &err)

	if err = checkRange(from, to); err != nil {
		return out, err
	}
	if err = s.requireCenter(ctx, center); err != nil {
		return out, err
	}

	events, err := s.timeline(ctx, center, from, to)
	if err != nil {
		return out, err
	}

	type visitKey struct {
		identity string
		areaKey
	}
	visits := make(map[visitKey]stat)
	for _, e := range events {
		if e.AreaType == models.AreaTypeFree || e.Happiness == nil {
			continue
		}
		k := visitKey{e.IdentityID, areaKey{e.AreaType, e.AreaName}}
		st := visits[k]
		st.sum += float64(*e.Happiness)
		st.count++
		visits[k] = st
	}

	out.AreasJourney = []models.AreaTypeValue{}
	out.AreaUsage = []models.AreaValue{}
	if len(visits) == 0 {
		return out, nil
	}

	usage := make(map[string]int)
	byType := make(map[string]stat)
	for k, st := range visits {
		usage[k.areaName]++
		ts := byType[k.areaType]
		ts.sum += st.mean()
		ts.count++
		byType[k.areaType] = ts
	}

	for _, name := range sortedKeys(usage) {
		out.AreaUsage = append(out.AreaUsage, models.AreaValue{
			Area:  name,
			Value: float64(usage[name]) / float64(len(visits)),
		})
	}

	types := sortedKeys(byType)
	sort.SliceStable(types, func(i, j int) bool { return journeyRank(types[i]) < journeyRank(types[j]) })
	for _, t := range types {
		out.AreasJourney = append(out.AreasJourney, models.AreaTypeValue{AreaType: t, Value: byType[t].mean()})
	}
	return out, nil
}

func journeyRank(areaType string) int {
	if r, ok := journeyOrder[areaType]; ok {
		return r
	}
	return len(journeyOrder)
}

// MostTraveledJourneys returns the fixed-length paths walked through a center
// with the fraction of identities that walked each, most frequent first.
func (s *Service) MostTraveledJourneys(ctx context.Context, center string, from, to int64) (out []models.PathUsage, err error) {
	defer s.observe(ctx, "most_traveled_journeys", center, time.Now(), &err)

	if err = checkRange(from, to); err != nil {
		return nil, err
	}
	if err = s.requireCenter(ctx, center); err != nil {
		return nil, err
	}

	events, err := s.timeline(ctx, center, from, to)
	if err != nil {
		return nil, err
	}
	freqs, _ := journey.MostTraveled(events, s.opts.JourneyLength)

	out = make([]models.PathUsage, 0, len(freqs))
	if len(freqs) == 0 {
		return out, nil
	}

	areas, err := s.store.ListAreas(ctx, center)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]models.Area, len(areas))
	for _, a := range areas {
		if _, ok := byName[a.AreaName]; !ok {
			byName[a.AreaName] = a
		}
	}

	for _, f := range freqs {
		steps := make([]models.Area, len(f.Path))
		for i, name := range f.Path {
			a, ok := byName[name]
			if !ok {
				a = models.Area{CenterID: center, AreaName: name}
			}
			steps[i] = a
		}
		out = append(out, models.PathUsage{Journey: steps, Percent: f.Percent})
	}
	return out, nil
}

// Heatmap counts timeline positions per grid cell, optionally for one identity.
// Cells are reported by their midpoint, ordered by x then y.
func (s *Service) Heatmap(ctx context.Context, center string, from, to int64, identity string) (out models.Heatmap, err error) {
	defer s.observe(ctx, "heatmap", center, time.Now(), &err)

	if err = checkRange(from, to); err != nil {
		return out, err
	}
	if err = s.requireCenter(ctx, center); err != nil {
		return out, err
	}
	return s.heatmap(ctx, center, from, to, identity)
}

func (s *Service) heatmap(ctx context.Context, center string, from, to int64, identity string) (models.Heatmap, error) {
	events, err := s.store.FetchTimeline(ctx, store.TimelineQuery{
		Centers:  []string{center},
		From:     from,
		To:       to,
		Identity: identity,
	})
	if err != nil {
		return models.Heatmap{}, err
	}

	counts := make(map[spatial.CellKey]int)
	for _, e := range events {
		x, y := spatial.SnapToGrid(e.PositionX, e.PositionY, s.opts.CellSize)
		counts[spatial.CellKey{X: x, Y: y}]++
	}

	out := models.Heatmap{Values: make([]models.HeatmapCell, 0, len(counts))}
	for k, n := range counts {
		out.Values = append(out.Values, models.HeatmapCell{X: k.X, Y: k.Y, Value: n})
		out.Max = max(out.Max, n)
	}
	sort.Slice(out.Values, func(i, j int) bool {
		if out.Values[i].X != out.Values[j].X {
			return out.Values[i].X < out.Values[j].X
		}
		return out.Values[i].Y < out.Values[j].Y
	})
	return out, nil
}

// DwellHeatmap joins each heatmap cell with the first area containing its
// midpoint and reports that area's summed dwell divided by the cell count.
// Cells outside every area are dropped.
func (s *Service) DwellHeatmap(ctx context.Context, center string, from, to int64) (out models.DwellHeatmap, err error) {
	defer s.observe(ctx, "dwell_heatmap", center, time.Now(), &err)

	dwell, err := s.areaDwell(ctx, center, from, to, func(st stat) float64 { return st.sum })
	if err != nil {
		return out, err
	}
	hm, err := s.heatmap(ctx, center, from, to, "")
	if err != nil {
		return out, err
	}

	areas := make([]models.Area, len(dwell))
	for i, a := range dwell {
		areas[i] = a.Area
	}
	out.Values = []models.DwellCell{}
	for _, cell := range hm.Values {
		i := spatial.ContainingArea(cell.X, cell.Y, areas)
		if i < 0 {
			continue
		}
		d := int64(dwell[i].Dwell / float64(cell.Value))
		out.Values = append(out.Values, models.DwellCell{X: cell.X, Y: cell.Y, Dwell: d})
		out.Max = max(out.Max, d)
	}
	return out, nil
}

// HistoricAttendance counts the distinct identities seen in a center with
// their demographics and how many wore a mask, taken from each identity's
// first row.
func (s *Service) HistoricAttendance(ctx context.Context, center string, from, to int64, live bool) (out models.Attendance, err error) {
	defer s.observe(ctx, "historic_attendance", center, time.Now(), &err)

	if err = checkRange(from, to); err != nil {
		return out, err
	}
	if err = s.requireCenter(ctx, center); err != nil {
		return out, err
	}

	events, err := s.presence(ctx, center, from, to, live)
	if err != nil {
		return out, err
	}
	seen := make(map[string]struct{})
	for _, e := range events {
		if e.IdentityID == "" {
			continue
		}
		if _, ok := seen[e.IdentityID]; ok {
			continue
		}
		seen[e.IdentityID] = struct{}{}
		tally(&out.Demographics, e)
		if models.Deref(e.Mask) == models.MaskOn {
			out.MaskOn++
		}
	}
	out.TotalCustomers = len(seen)
	return out, nil
}

// customerRows returns the timeline of one identity from start onwards.
func (s *Service) customerRows(ctx context.Context, center, identity string, start int64) ([]models.TrackedEvent, error) {
	if identity == "" {
		return nil, ErrNullParams
	}
	if err := s.requireCenter(ctx, center); err != nil {
		return nil, err
	}
	events, err := s.store.FetchTimeline(ctx, store.TimelineQuery{
		Centers:  []string{center},
		From:     start,
		To:       store.Unbounded,
		Identity: identity,
	})
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, ErrCustomerNotFound
	}
	return events, nil
}

// StagesTimeline lists the areas one identity was seen in since start.
func (s *Service) StagesTimeline(ctx context.Context, center, identity string, start int64) (out []models.StagePoint, err error) {
	defer s.observe(ctx, "stages_timeline", center, time.Now(), &err)

	events, err := s.customerRows(ctx, center, identity, start)
	if err != nil {
		return nil, err
	}
	out = make([]models.StagePoint, 0, len(events))
	for _, e := range events {
		out = append(out, models.StagePoint{Timestamp: e.Epoch, Type: e.AreaType, Value: e.AreaName})
	}
	return out, nil
}

// HappinessTimeline lists the happiness of one identity since start.
func (s *Service) HappinessTimeline(ctx context.Context, center, identity string, start int64) (out []models.HappinessPoint, err error) {
	defer s.observe(ctx, "happiness_timeline", center, time.Now(), &err)

	events, err := s.customerRows(ctx, center, identity, start)
	if err != nil {
		return nil, err
	}
	out = make([]models.HappinessPoint, 0, len(events))
	for _, e := range events {
		out = append(out, models.HappinessPoint{Timestamp: e.Epoch, Value: e.Happiness})
	}
	return out, nil
}

// FootageTimeline lists the face crops of one identity since start as PNG data URIs.
// Rows without a crop are omitted.
func (s *Service) FootageTimeline(ctx context.Context, center, identity string, start int64) (out []models.FootagePoint, err error) {
	defer s.observe(ctx, "footage_timeline", center, time.Now(), &err)

	events, err := s.customerRows(ctx, center, identity, start)
	if err != nil {
		return nil, err
	}
	out = []models.FootagePoint{}
	for _, e := range events {
		if len(e.FaceCrop) == 0 {
			continue
		}
		out = append(out, models.FootagePoint{
			Timestamp: e.Epoch,
			Value:     footagePrefix + base64.StdEncoding.EncodeToString(e.FaceCrop),
		})
	}
	return out, nil
}
