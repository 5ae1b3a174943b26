package bucket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PratikDhanave/venue-analytics-service/internal/models"
)

func event(epoch int64, gender, ethnicity, age string, happiness *int) models.TrackedEvent {
	return models.TrackedEvent{
		Epoch:     epoch,
		Gender:    models.StrPtr(gender),
		Ethnicity: models.StrPtr(ethnicity),
		AgeBand:   models.StrPtr(age),
		Happiness: happiness,
	}
}

func TestIndex(t *testing.T) {
	assert.Equal(t, int64(0), Index(0, 60))
	assert.Equal(t, int64(0), Index(59, 60))
	assert.Equal(t, int64(1), Index(60, 60))
	assert.Equal(t, int64(-1), Index(-1, 60))
	assert.Equal(t, int64(1000), Start(Index(1000, 1000), 1000))

	// monotonic for a fixed interval
	prev := Index(0, 7)
	for ts := int64(1); ts < 200; ts++ {
		cur := Index(ts, 7)
		assert.LessOrEqual(t, prev, cur)
		assert.Equal(t, cur, Index(ts, 7))
		prev = cur
	}
}

func TestGroup_MeanHappiness(t *testing.T) {
	events := []models.TrackedEvent{
		event(10, "Male", "Local", "19-49", models.IntPtr(80)),
		event(20, "Male", "Local", "19-49", models.IntPtr(60)),
		event(30, "Female", "Nonlocal", "50+", models.IntPtr(90)),
		event(130, "Female", "Local", "0-18", models.IntPtr(40)),
		event(140, "Female", "Local", "0-18", nil),
	}

	rows := Group(events, 100, Demographics, Mean, Happiness)
	require.Len(t, rows, 2)

	first := rows[0]
	assert.Equal(t, int64(0), first.Start)
	assert.Equal(t, 70.0, first.Values["Male"])
	assert.Equal(t, 90.0, first.Values["Female"])
	assert.Equal(t, 70.0, first.Values["Local"])
	assert.Equal(t, 90.0, first.Values["Nonlocal"])
	assert.Equal(t, 0.0, first.Values["0-18"])

	second := rows[1]
	assert.Equal(t, int64(100), second.Start)
	assert.Equal(t, 0.0, second.Values["Male"])
	assert.Equal(t, 40.0, second.Values["Female"])
	assert.Equal(t, 40.0, second.Values["0-18"])
}

func TestGroup_CountFillsEveryEnumValue(t *testing.T) {
	events := []models.TrackedEvent{
		event(5, "Male", "Local", "19-49", models.IntPtr(10)),
		event(6, "Male", "Local", "19-49", models.IntPtr(20)),
	}

	rows := Group(events, 60, Demographics, Count, Happiness)
	require.Len(t, rows, 1)

	for _, d := range Demographics {
		for _, v := range d.Values {
			_, ok := rows[0].Values[v]
			assert.True(t, ok, "missing %s", v)
		}
	}
	assert.Equal(t, 2.0, rows[0].Values["Male"])
	assert.Equal(t, 0.0, rows[0].Values["Female"])
	assert.Equal(t, 0.0, rows[0].Values["Nonlocal"])
}

func TestGroup_EmptyInput(t *testing.T) {
	assert.Empty(t, Group(nil, 60, Demographics, Mean, Happiness))
	assert.Empty(t, Group([]models.TrackedEvent{event(1, "Male", "Local", "50+", models.IntPtr(1))}, 0, Demographics, Mean, Happiness))
}

func TestGenderTotal(t *testing.T) {
	assert.Equal(t, 50.0, GenderTotal(map[string]float64{"Male": 40, "Female": 60}))
	assert.Equal(t, 40.0, GenderTotal(map[string]float64{"Male": 40, "Female": 0}))
	assert.Equal(t, 60.0, GenderTotal(map[string]float64{"Male": 0, "Female": 60}))
	assert.Equal(t, 0.0, GenderTotal(map[string]float64{}))
}
