package analytics

import (
	"context"
	"slices"
	"sort"
	"time"

	"github.com/PratikDhanave/venue-analytics-service/internal/logging"
	"github.com/PratikDhanave/venue-analytics-service/internal/metrics"
	"github.com/PratikDhanave/venue-analytics-service/internal/models"
	"github.com/PratikDhanave/venue-analytics-service/internal/store"
)

// WaitingStats reports time spent in the Waiting areas of a center by the
// identities seen on the timeline in [from, to]. Historical queries read
// their dwell records; live queries read their current snapshot rows.
// Minutes are floored and averaged per distinct identity.
func (s *Service) WaitingStats(ctx context.Context, center string, from, to int64, live bool) (out models.WaitingStats, err error) {
	defer s.observe(ctx, "waiting_stats", center, time.Now(), &err)

	if err = checkRange(from, to); err != nil {
		return out, err
	}
	if err = s.requireCenter(ctx, center); err != nil {
		return out, err
	}

	areas, err := s.store.ListAreas(ctx, center)
	if err != nil {
		return out, err
	}
	waiting := models.AreaNames(models.AreasOfType(areas, models.AreaTypeWaiting))

	type visit struct {
		identity, area string
		dwell          float64
	}
	events, err := s.timeline(ctx, center, from, to)
	if err != nil {
		return out, err
	}
	present := identities(events)

	var visits []visit
	if live {
		snaps, err := s.store.FetchLive(ctx, center)
		if err != nil {
			return out, err
		}
		for _, sn := range snaps {
			if slices.Contains(present, sn.IdentityID) && slices.Contains(waiting, sn.AreaName) {
				visits = append(visits, visit{sn.IdentityID, sn.AreaName, sn.LiveDwell()})
			}
		}
	} else {
		recs, err := s.store.FetchDwell(ctx, store.DwellQuery{Center: center, Identities: present, Areas: waiting})
		if err != nil {
			return out, err
		}
		for _, r := range recs {
			visits = append(visits, visit{r.IdentityID, r.AreaName, r.DwellTime})
		}
	}

	people := make(map[string]struct{})
	perArea := make(map[string]map[string]struct{})
	areaDwell := make(map[string]float64)
	var total float64
	for _, v := range visits {
		total += v.dwell
		people[v.identity] = struct{}{}
		if perArea[v.area] == nil {
			perArea[v.area] = make(map[string]struct{})
		}
		perArea[v.area][v.identity] = struct{}{}
		areaDwell[v.area] += v.dwell
	}

	out.TotalPeopleWaiting = len(people)
	out.TotalWaitingTime = floorMinutesPer(total, len(people))
	out.WaitingAreasAttendance = []models.AreaAmount{}
	out.WaitingFactors = []models.AreaAmount{}
	for _, name := range waiting {
		n := len(perArea[name])
		if n == 0 {
			continue
		}
		out.WaitingAreasAttendance = append(out.WaitingAreasAttendance, models.AreaAmount{Area: name, Amount: int64(n)})
		out.WaitingFactors = append(out.WaitingFactors, models.AreaAmount{Area: name, Amount: floorMinutesPer(areaDwell[name], n)})
	}
	return out, nil
}

// AreaStatistics counts distinct identities per area. Entry and Exit areas
// are recounted from dwell records in live mode, and any identity not
// attributed to an Entry or Exit area is credited to the default entrance.
func (s *Service) AreaStatistics(ctx context.Context, center string, from, to int64, live bool) (out models.AreaStatistics, err error) {
	defer s.observe(ctx, "area_statistics", center, time.Now(), &err)

	if err = checkRange(from, to); err != nil {
		return out, err
	}
	if err = s.requireCenter(ctx, center); err != nil {
		return out, err
	}

	areas, err := s.store.ListAreas(ctx, center)
	if err != nil {
		return out, err
	}
	out.Areas = make([]models.AreaClients, 0, len(areas))
	for _, a := range areas {
		out.Areas = append(out.Areas, models.AreaClients{Area: a})
	}

	events, err := s.presence(ctx, center, from, to, live)
	if err != nil {
		return out, err
	}
	present := make([]models.TrackedEvent, 0, len(events))
	byArea := make(map[string]map[string]struct{})
	for _, e := range events {
		if e.IdentityID == "" || e.AreaName == "" {
			continue
		}
		present = append(present, e)
		if byArea[e.AreaName] == nil {
			byArea[e.AreaName] = make(map[string]struct{})
		}
		byArea[e.AreaName][e.IdentityID] = struct{}{}
	}
	ids := identities(present)
	if len(ids) == 0 {
		return out, nil
	}

	entrance := 0
	for i := range out.Areas {
		out.Areas[i].Clients = len(byArea[out.Areas[i].AreaName])
		if out.Areas[i].IsEntrance() {
			entrance += out.Areas[i].Clients
		}
	}

	if live {
		var entranceNames []string
		for _, a := range areas {
			if a.IsEntrance() {
				entranceNames = append(entranceNames, a.AreaName)
			}
		}
		if entranceNames == nil {
			entranceNames = []string{}
		}
		lo, hi := store.Range(from, to)
		recs, err := s.store.FetchDwell(ctx, store.DwellQuery{
			Center:     center,
			Identities: ids,
			Areas:      entranceNames,
			From:       lo,
			To:         hi,
		})
		if err != nil {
			return out, err
		}
		if len(recs) > 0 {
			seen := make(map[string]map[string]struct{})
			for _, r := range recs {
				if seen[r.AreaName] == nil {
					seen[r.AreaName] = make(map[string]struct{})
				}
				seen[r.AreaName][r.IdentityID] = struct{}{}
			}
			entrance = 0
			for i := range out.Areas {
				if out.Areas[i].IsEntrance() {
					out.Areas[i].Clients = len(seen[out.Areas[i].AreaName])
					entrance += out.Areas[i].Clients
				}
			}
		}
	}

	if entrance < len(ids) {
		s.creditDefaultEntrance(ctx, center, out.Areas, len(ids)-entrance)
	}
	out.Clients = len(ids)
	return out, nil
}

func (s *Service) creditDefaultEntrance(ctx context.Context, center string, areas []models.AreaClients, shortfall int) {
	for i := range areas {
		if areas[i].AreaType == models.AreaTypeEntry && areas[i].AreaName == s.opts.DefaultEntrance {
			areas[i].Clients += shortfall
			return
		}
	}
	metrics.DefaultEntranceFallbacks.Inc()
	logging.Ctx(ctx).Warn().
		Str("center", center).
		Str("default_entrance", s.opts.DefaultEntrance).
		Int("shortfall", shortfall).
		Msg("default entrance area not found, entry counts left unreconciled")
}

// AreaDwellStatistics returns the mean dwell per area over the identities
// currently in the center, rounded to two decimals.
func (s *Service) AreaDwellStatistics(ctx context.Context, center string, from, to int64) (out models.AreaDwellStatistics, err error) {
	defer s.observe(ctx, "area_dwell_statistics", center, time.Now(), &err)
	out.Areas, err = s.areaDwell(ctx, center, from, to, stat.mean)
	return out, err
}

// AreaDwellSum is AreaDwellStatistics with dwell summed instead of averaged.
func (s *Service) AreaDwellSum(ctx context.Context, center string, from, to int64) (out models.AreaDwellStatistics, err error) {
	defer s.observe(ctx, "area_dwell_sum", center, time.Now(), &err)
	out.Areas, err = s.areaDwell(ctx, center, from, to, func(st stat) float64 { return st.sum })
	return out, err
}

func (s *Service) areaDwell(ctx context.Context, center string, from, to int64, reduce func(stat) float64) ([]models.AreaDwell, error) {
	if err := checkRange(from, to); err != nil {
		return nil, err
	}
	if err := s.requireCenter(ctx, center); err != nil {
		return nil, err
	}

	areas, err := s.store.ListAreas(ctx, center)
	if err != nil {
		return nil, err
	}
	out := make([]models.AreaDwell, 0, len(areas))
	for _, a := range areas {
		out = append(out, models.AreaDwell{Area: a})
	}

	live, err := s.liveEvents(ctx, center)
	if err != nil {
		return nil, err
	}
	ids := identities(live)
	if len(ids) == 0 {
		return out, nil
	}

	lo, hi := store.Range(from, to)
	recs, err := s.store.FetchDwell(ctx, store.DwellQuery{
		Center:     center,
		Identities: ids,
		Areas:      models.AreaNames(areas),
		From:       lo,
		To:         hi,
	})
	if err != nil {
		return nil, err
	}
	perArea := make(map[string]stat)
	for _, r := range recs {
		st := perArea[r.AreaName]
		st.sum += r.DwellTime
		st.count++
		perArea[r.AreaName] = st
	}
	for i := range out {
		if st, ok := perArea[out[i].AreaName]; ok {
			out[i].Dwell = round2(reduce(st))
		}
	}
	return out, nil
}

// AreasHappiness returns every area of a center with the mean happiness of
// the non-Free timeline rows recorded in it, 0 when there are none.
func (s *Service) AreasHappiness(ctx context.Context, center string, from, to int64) (out []models.AreaHappiness, err error) {
	defer s.observe(ctx, "areas_happiness", center, time.Now(), &err)

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
	areas, err := s.store.ListAreas(ctx, center)
	if err != nil {
		return nil, err
	}

	perArea := make(map[string]stat)
	for _, e := range events {
		if e.Happiness == nil || e.AreaType == models.AreaTypeFree {
			continue
		}
		st := perArea[e.AreaName]
		st.sum += float64(*e.Happiness)
		st.count++
		perArea[e.AreaName] = st
	}

	out = make([]models.AreaHappiness, 0, len(areas))
	for _, a := range areas {
		out = append(out, models.AreaHappiness{Area: a, HappinessAvg: perArea[a.AreaName].mean()})
	}
	return out, nil
}

// CustomerJourney lists the area visits of one identity ordered by entrance.
// Each visit carries the mean happiness observed in that area while inside it.
func (s *Service) CustomerJourney(ctx context.Context, center, identity string) (out []models.JourneyStep, err error) {
	defer s.observe(ctx, "customer_journey", center, time.Now(), &err)

	if identity == "" {
		return nil, ErrNullParams
	}
	if err = s.requireCenter(ctx, center); err != nil {
		return nil, err
	}

	areas, err := s.store.ListAreas(ctx, center)
	if err != nil {
		return nil, err
	}
	types := make(map[string]string, len(areas))
	for _, a := range areas {
		types[a.AreaName] = a.AreaType
	}

	recs, err := s.store.FetchDwell(ctx, store.DwellQuery{Center: center, Identities: []string{identity}})
	if err != nil {
		return nil, err
	}
	out = make([]models.JourneyStep, 0, len(recs))
	if len(recs) == 0 {
		return out, nil
	}

	first, last := recs[0].Entrance(), recs[0].Exit()
	for _, r := range recs {
		areaType, ok := types[r.AreaName]
		if !ok {
			areaType = "null"
		}
		out = append(out, models.JourneyStep{
			AreaName:  r.AreaName,
			AreaType:  areaType,
			Entrance:  r.Entrance(),
			DwellTime: r.DwellTime,
		})
		first = min(first, r.Entrance())
		last = max(last, r.Exit())
	}

	events, err := s.store.FetchTimeline(ctx, store.TimelineQuery{
		Centers:  []string{center},
		From:     first,
		To:       last,
		Identity: identity,
	})
	if err != nil {
		return nil, err
	}
	for i := range out {
		exit := out[i].Entrance + int64(out[i].DwellTime)
		var st stat
		for _, e := range events {
			if e.Happiness == nil || e.AreaName != out[i].AreaName || e.Epoch < out[i].Entrance || e.Epoch > exit {
				continue
			}
			st.sum += float64(*e.Happiness)
			st.count++
		}
		out[i].AvgHappiness = st.mean()
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Entrance < out[j].Entrance })
	return out, nil
}

type areaKey struct {
	areaType, areaName string
}

// CustomerList pages the identities seen in a center, most recent first.
// In live mode the snapshot defines the identities and its live dwell is
// added to the recorded dwell.
func (s *Service) CustomerList(ctx context.Context, center string, from, to int64, live bool, page, pageSize int) (out models.CustomerPage, err error) {
	defer s.observe(ctx, "customer_list", center, time.Now(), &err)

	if pageSize < 1 || page < 0 {
		return out, ErrInvalidFormat
	}
	if err = checkRange(from, to); err != nil {
		return out, err
	}
	if err = s.requireCenter(ctx, center); err != nil {
		return out, err
	}
	out.Customers = []models.CustomerSummary{}

	type latest struct {
		row       models.TrackedEvent
		liveDwell float64
	}
	var rows []models.TrackedEvent
	latestBy := make(map[string]latest)
	if live {
		snaps, err := s.store.FetchLive(ctx, center)
		if err != nil {
			return out, err
		}
		for _, sn := range snaps {
			if sn.IdentityID == "" {
				continue
			}
			rows = append(rows, sn.TrackedEvent)
			latestBy[sn.IdentityID] = latest{row: sn.TrackedEvent, liveDwell: sn.LiveDwell()}
		}
	} else {
		rows, err = s.timeline(ctx, center, from, to)
		if err != nil {
			return out, err
		}
		for _, e := range rows {
			if e.IdentityID == "" {
				continue
			}
			if cur, ok := latestBy[e.IdentityID]; !ok || e.Epoch > cur.row.Epoch {
				latestBy[e.IdentityID] = latest{row: e}
			}
		}
	}

	ids := sortedKeys(latestBy)
	sort.SliceStable(ids, func(i, j int) bool { return latestBy[ids[i]].row.Epoch > latestBy[ids[j]].row.Epoch })

	total := len(ids)
	if total == 0 {
		return out, nil
	}
	out.TotalCustomers = total
	out.TotalPages = (total + pageSize - 1) / pageSize
	if page+1 > out.TotalPages {
		return models.CustomerPage{}, ErrInvalidPage
	}
	lo := page * pageSize
	pageIDs := ids[lo:min(lo+pageSize, total)]

	areas, err := s.store.ListAreas(ctx, center)
	if err != nil {
		return out, err
	}
	dwellFrom, dwellTo := store.Range(from, to)
	recs, err := s.store.FetchDwell(ctx, store.DwellQuery{
		Center:     center,
		Identities: pageIDs,
		Areas:      models.AreaNames(areas),
		From:       dwellFrom,
		To:         dwellTo,
	})
	if err != nil {
		return out, err
	}
	dwell := make(map[string]float64)
	for _, r := range recs {
		dwell[r.IdentityID] += r.DwellTime
	}

	seenTypes := make(map[string]map[string]bool)
	seenAreas := make(map[string]map[areaKey]bool)
	for _, e := range rows {
		if seenTypes[e.IdentityID] == nil {
			seenTypes[e.IdentityID] = make(map[string]bool)
			seenAreas[e.IdentityID] = make(map[areaKey]bool)
		}
		seenTypes[e.IdentityID][e.AreaType] = true
		seenAreas[e.IdentityID][areaKey{e.AreaType, e.AreaName}] = true
	}

	for _, id := range pageIDs {
		l := latestBy[id]
		var happiness float64
		if l.row.Happiness != nil {
			happiness = float64(*l.row.Happiness)
		}
		out.Customers = append(out.Customers, models.CustomerSummary{
			ID:         id,
			Epoch:      l.row.Epoch,
			DwellTime:  dwell[id] + l.liveDwell,
			Gender:     l.row.Gender,
			Age:        l.row.AgeBand,
			Ethnicity:  l.row.Ethnicity,
			Happiness:  happiness,
			Highlights: badges(areas, seenTypes[id], seenAreas[id]),
		})
	}
	return out, nil
}

// badges builds one badge per highlighted area type and one per highlighted area name.
func badges(areas []models.Area, types map[string]bool, named map[areaKey]bool) []models.Badge {
	out := []models.Badge{}
	done := make(map[string]bool)
	for _, a := range areas {
		if a.Highlight == nil {
			continue
		}
		switch *a.Highlight {
		case models.HighlightByType:
			if done[a.AreaType] {
				continue
			}
			done[a.AreaType] = true
			out = append(out, models.Badge{AreaName: a.AreaType, Value: types[a.AreaType]})
		case models.HighlightByName:
			out = append(out, models.Badge{AreaName: a.AreaName, Value: named[areaKey{a.AreaType, a.AreaName}]})
		}
	}
	return out
}

// WaitingDemographics tallies gender and ethnicity of the distinct identities
// seen in a Waiting area.
func (s *Service) WaitingDemographics(ctx context.Context, center string, from, to int64, live bool) (out models.Demographics, err error) {
	defer s.observe(ctx, "waiting_demographics", center, time.Now(), &err)

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
		if e.AreaType != models.AreaTypeWaiting || e.IdentityID == "" {
			continue
		}
		if _, ok := seen[e.IdentityID]; ok {
			continue
		}
		seen[e.IdentityID] = struct{}{}
		tally(&out, e)
	}
	return out, nil
}

func tally(d *models.Demographics, e models.TrackedEvent) {
	switch models.Deref(e.Gender) {
	case models.GenderMale:
		d.Male++
	case models.GenderFemale:
		d.Female++
	}
	switch models.Deref(e.Ethnicity) {
	case models.EthnicityLocal:
		d.Local++
	case models.EthnicityNonlocal:
		d.Nonlocal++
	}
}
