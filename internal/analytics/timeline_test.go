package analytics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PratikDhanave/venue-analytics-service/internal/models"
)

func demo(center, id string, epoch int64, gender, ethnicity, age string, happiness *int) models.TrackedEvent {
	return models.TrackedEvent{
		CenterID:   center,
		IdentityID: id,
		Epoch:      epoch,
		Gender:     models.StrPtr(gender),
		Ethnicity:  models.StrPtr(ethnicity),
		AgeBand:    models.StrPtr(age),
		Happiness:  happiness,
	}
}

func TestHistory_Happiness(t *testing.T) {
	st, svc := newFixture(t)
	incomplete := demo("HQ", "id4", 30, models.GenderMale, models.EthnicityLocal, models.AgeBandAdult, models.IntPtr(0))
	incomplete.Ethnicity = nil
	st.AppendTimeline(
		demo("HQ", "id1", 10, models.GenderMale, models.EthnicityLocal, models.AgeBandAdult, models.IntPtr(60)),
		demo("HQ", "id2", 20, models.GenderFemale, models.EthnicityNonlocal, models.AgeBandAdult, models.IntPtr(81)),
		demo("HQ", "id3", 150, models.GenderMale, models.EthnicityLocal, models.AgeBandSenior, models.IntPtr(50)),
		incomplete,
	)

	got, err := svc.History(context.Background(), "HQ", HistoryHappiness, 0, 1000, 100, "officer")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, int64(0), got[0].Time)
	assert.Equal(t, map[string]float64{
		models.GenderMale:        60,
		models.GenderFemale:      81,
		models.EthnicityLocal:    60,
		models.EthnicityNonlocal: 81,
		models.AgeBandChild:      0,
		models.AgeBandAdult:      70,
		models.AgeBandSenior:     0,
	}, got[0].Values)
	assert.Equal(t, 70.5, got[0].TotalAvg)

	assert.Equal(t, int64(100), got[1].Time)
	assert.Equal(t, 50.0, got[1].Values[models.GenderMale])
	assert.Equal(t, 0.0, got[1].Values[models.GenderFemale])
	assert.Equal(t, 50.0, got[1].TotalAvg)
}

func TestHistory_Attendance(t *testing.T) {
	st, svc := newFixture(t)
	st.AppendTimeline(
		demo("HQ", "id1", 10, models.GenderMale, models.EthnicityLocal, models.AgeBandAdult, models.IntPtr(60)),
		demo("HQ", "id1", 11, models.GenderMale, models.EthnicityLocal, models.AgeBandAdult, models.IntPtr(65)),
		demo("HQ", "id2", 20, models.GenderFemale, models.EthnicityNonlocal, models.AgeBandChild, models.IntPtr(81)),
	)

	got, err := svc.History(context.Background(), "HQ", HistoryAttendance, 0, 1000, 60, "officer")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2.0, got[0].Values[models.GenderMale])
	assert.Equal(t, 1.0, got[0].Values[models.GenderFemale])
	assert.Equal(t, 1.0, got[0].Values[models.AgeBandChild])
	assert.Equal(t, 0.0, got[0].Values[models.AgeBandSenior])
	assert.Equal(t, 1.5, got[0].TotalAvg)
}

func TestHistory_AllCenters(t *testing.T) {
	ctx := context.Background()
	st, svc := newFixture(t)
	st.AddCenter("Branch")
	st.AppendTimeline(
		demo("HQ", "id1", 10, models.GenderMale, models.EthnicityLocal, models.AgeBandAdult, models.IntPtr(60)),
		demo("Branch", "id2", 20, models.GenderMale, models.EthnicityLocal, models.AgeBandAdult, models.IntPtr(40)),
	)

	got, err := svc.History(ctx, AllCenters, HistoryAttendance, 0, 100, 100, "general-manager")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2.0, got[0].Values[models.GenderMale])

	_, err = svc.History(ctx, AllCenters, HistoryAttendance, 0, 100, 100, "officer")
	assert.ErrorIs(t, err, ErrCenterNotFound)
}

func TestHistory_Validation(t *testing.T) {
	ctx := context.Background()
	st, svc := newFixture(t)

	_, err := svc.History(ctx, "HQ", HistoryHappiness, 0, 100, 0, "officer")
	assert.ErrorIs(t, err, ErrInvalidFormat)
	_, err = svc.History(ctx, "HQ", "mood", 0, 100, 60, "officer")
	assert.ErrorIs(t, err, ErrInvalidFormat)
	_, err = svc.History(ctx, "HQ", "", 0, 100, 60, "officer")
	assert.ErrorIs(t, err, ErrNullParams)
	assert.Zero(t, st.Reads())

	empty, err := svc.History(ctx, "HQ", HistoryHappiness, 100, 100, 60, "officer")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestJourneySummary(t *testing.T) {
	st, svc := newFixture(t)
	hx := func(id string, epoch int64, name, areaType string, h *int) models.TrackedEvent {
		e := event(id, epoch, name, areaType)
		e.Happiness = h
		return e
	}
	st.AppendTimeline(
		hx("id1", 1, "Door", models.AreaTypeEntry, models.IntPtr(80)),
		hx("id1", 2, "Door", models.AreaTypeEntry, models.IntPtr(60)),
		hx("id1", 3, "W", models.AreaTypeWaiting, models.IntPtr(50)),
		hx("id2", 4, "W", models.AreaTypeWaiting, models.IntPtr(30)),
		hx("id2", 5, "Out", models.AreaTypeExit, models.IntPtr(90)),
		hx("id2", 6, "Hall", models.AreaTypeFree, models.IntPtr(10)),
		hx("id3", 7, "W", models.AreaTypeWaiting, nil),
		hx("id3", 8, "Kiosk", "Kiosk", models.IntPtr(20)),
	)

	got, err := svc.JourneySummary(context.Background(), "HQ", 0, 100)
	require.NoError(t, err)
	assert.Equal(t, []models.AreaValue{
		{Area: "Door", Value: 0.2},
		{Area: "Kiosk", Value: 0.2},
		{Area: "Out", Value: 0.2},
		{Area: "W", Value: 0.4},
	}, got.AreaUsage)
	assert.Equal(t, []models.AreaTypeValue{
		{AreaType: models.AreaTypeEntry, Value: 70},
		{AreaType: models.AreaTypeWaiting, Value: 40},
		{AreaType: models.AreaTypeExit, Value: 90},
		{AreaType: "Kiosk", Value: 20},
	}, got.AreasJourney)
}

func TestMostTraveledJourneys(t *testing.T) {
	st, svc := newFixture(t)
	for _, name := range []string{"A", "B", "C"} {
		st.PutArea(area("HQ", models.AreaTypeInteraction, name))
	}
	st.AppendTimeline(
		event("id1", 10, "A", models.AreaTypeInteraction),
		event("id1", 11, "A", models.AreaTypeInteraction),
		event("id1", 12, "B", models.AreaTypeInteraction),
		event("id1", 13, "B", models.AreaTypeInteraction),
		event("id1", 14, "C", models.AreaTypeInteraction),
		event("id1", 15, "Hall", models.AreaTypeFree),
		event("id1", 16, "D", models.AreaTypeService),
		event("id2", 20, "A", models.AreaTypeInteraction),
	)

	got, err := svc.MostTraveledJourneys(context.Background(), "HQ", 0, 100)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, []string{"A", "B", "C"}, models.AreaNames(got[0].Journey))
	assert.Equal(t, 0.5, got[0].Percent)
	assert.Equal(t, models.AreaTypeInteraction, got[0].Journey[0].AreaType)

	assert.Equal(t, []string{"B", "C", "D"}, models.AreaNames(got[1].Journey))
	assert.Equal(t, models.Area{CenterID: "HQ", AreaName: "D"}, got[1].Journey[2])
}

func positioned(id string, epoch int64, x, y int) models.TrackedEvent {
	e := event(id, epoch, "", "")
	e.PositionX, e.PositionY = x, y
	return e
}

func TestHeatmap(t *testing.T) {
	ctx := context.Background()
	st, svc := newFixture(t)
	st.AppendTimeline(
		positioned("id1", 1, 10, 10),
		positioned("id1", 2, 20, 20),
		positioned("id2", 3, 60, 10),
	)

	got, err := svc.Heatmap(ctx, "HQ", 0, 100, "")
	require.NoError(t, err)
	assert.Equal(t, models.Heatmap{
		Values: []models.HeatmapCell{{X: 25, Y: 25, Value: 2}, {X: 75, Y: 25, Value: 1}},
		Max:    2,
	}, got)

	one, err := svc.Heatmap(ctx, "HQ", 0, 100, "id2")
	require.NoError(t, err)
	assert.Equal(t, []models.HeatmapCell{{X: 75, Y: 25, Value: 1}}, one.Values)

	empty, err := svc.Heatmap(ctx, "HQ", 500, 600, "")
	require.NoError(t, err)
	assert.Empty(t, empty.Values)
	assert.Zero(t, empty.Max)
}

func TestDwellHeatmap(t *testing.T) {
	st, svc := newFixture(t)
	st.PutArea(models.Area{CenterID: "HQ", AreaType: models.AreaTypeInteraction, AreaName: "Shop", Polygon: square(0, 0, 50, 50)})
	st.PutArea(models.Area{CenterID: "HQ", AreaType: models.AreaTypeWaiting, AreaName: "Back", Polygon: square(50, 0, 100, 50)})
	st.UpsertLive(models.LiveSnapshot{TrackedEvent: event("id1", 1, "Shop", models.AreaTypeInteraction)})
	st.AppendDwell(
		models.DwellRecord{CenterID: "HQ", IdentityID: "id1", AreaName: "Shop", Epoch: 50, DwellTime: 120},
		models.DwellRecord{CenterID: "HQ", IdentityID: "id1", AreaName: "Back", Epoch: 60, DwellTime: 30},
	)
	st.AppendTimeline(
		positioned("id1", 1, 10, 10),
		positioned("id1", 2, 20, 20),
		positioned("id2", 3, 60, 10),
		positioned("id2", 4, 260, 260),
	)

	got, err := svc.DwellHeatmap(context.Background(), "HQ", 0, 100)
	require.NoError(t, err)
	assert.Equal(t, models.DwellHeatmap{
		Max:    60,
		Values: []models.DwellCell{{X: 25, Y: 25, Dwell: 60}, {X: 75, Y: 25, Dwell: 30}},
	}, got)
}

func TestHistoricAttendance(t *testing.T) {
	ctx := context.Background()
	st, svc := newFixture(t)
	first := event("id1", 10, "Shop", models.AreaTypeInteraction)
	first.Gender = models.StrPtr(models.GenderMale)
	first.Ethnicity = models.StrPtr(models.EthnicityLocal)
	first.Mask = models.StrPtr(models.MaskOn)
	again := first
	again.Epoch = 20
	other := event("id2", 30, "Shop", models.AreaTypeInteraction)
	other.Gender = models.StrPtr(models.GenderFemale)
	other.Ethnicity = models.StrPtr(models.EthnicityNonlocal)
	anonymous := event("", 50, "Shop", models.AreaTypeInteraction)
	anonymous.Gender = models.StrPtr(models.GenderMale)
	anonymous.Mask = models.StrPtr(models.MaskOn)
	st.AppendTimeline(first, again, other, anonymous)
	st.UpsertLive(models.LiveSnapshot{TrackedEvent: event("id3", 40, "Shop", models.AreaTypeInteraction)})

	got, err := svc.HistoricAttendance(ctx, "HQ", 0, 100, false)
	require.NoError(t, err)
	assert.Equal(t, models.Attendance{
		TotalCustomers: 2,
		Demographics:   models.Demographics{Male: 1, Female: 1, Local: 1, Nonlocal: 1},
		MaskOn:         1,
	}, got)

	live, err := svc.HistoricAttendance(ctx, "HQ", 0, 0, true)
	require.NoError(t, err)
	assert.Equal(t, 1, live.TotalCustomers)
}

func TestCustomerTimelines(t *testing.T) {
	ctx := context.Background()
	st, svc := newFixture(t)
	withCrop := event("id1", 10, "Door", models.AreaTypeEntry)
	withCrop.Happiness = models.IntPtr(50)
	withCrop.FaceCrop = []byte{1, 2, 3}
	st.AppendTimeline(withCrop, event("id1", 20, "W", models.AreaTypeWaiting), event("id2", 30, "W", models.AreaTypeWaiting))

	stages, err := svc.StagesTimeline(ctx, "HQ", "id1", 15)
	require.NoError(t, err)
	assert.Equal(t, []models.StagePoint{{Timestamp: 20, Type: models.AreaTypeWaiting, Value: "W"}}, stages)

	happiness, err := svc.HappinessTimeline(ctx, "HQ", "id1", 0)
	require.NoError(t, err)
	require.Len(t, happiness, 2)
	assert.Equal(t, 50, *happiness[0].Value)
	assert.Nil(t, happiness[1].Value)

	footage, err := svc.FootageTimeline(ctx, "HQ", "id1", 0)
	require.NoError(t, err)
	assert.Equal(t, []models.FootagePoint{{Timestamp: 10, Value: "data:image/png;base64,AQID"}}, footage)

	_, err = svc.StagesTimeline(ctx, "HQ", "id1", 100)
	assert.ErrorIs(t, err, ErrCustomerNotFound)
	_, err = svc.FootageTimeline(ctx, "HQ", "ghost", 0)
	assert.ErrorIs(t, err, ErrCustomerNotFound)
	_, err = svc.HappinessTimeline(ctx, "HQ", "", 0)
	assert.ErrorIs(t, err, ErrNullParams)
}
