package journey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PratikDhanave/venue-analytics-service/internal/models"
)

func visits(id string, start int64, areas ...string) []models.TrackedEvent {
	out := make([]models.TrackedEvent, 0, len(areas))
	for i, a := range areas {
		areaType := models.AreaTypeService
		if a == "Free" {
			areaType = models.AreaTypeFree
		}
		out = append(out, models.TrackedEvent{
			IdentityID: id,
			Epoch:      start + int64(i),
			AreaName:   a,
			AreaType:   areaType,
		})
	}
	return out
}

func TestSequences_DropsFreeAndRepeats(t *testing.T) {
	seqs := Sequences(visits("id1", 0, "A", "A", "B", "B", "C", "Free", "D"))
	require.Contains(t, seqs, "id1")
	assert.Equal(t, []string{"A", "B", "C", "D"}, seqs["id1"])

	assert.Equal(t, [][]string{{"A", "B", "C"}, {"B", "C", "D"}}, Windows(seqs["id1"], 3))
}

func TestSequences_OrdersByEpoch(t *testing.T) {
	events := []models.TrackedEvent{
		{IdentityID: "x", Epoch: 30, AreaName: "C"},
		{IdentityID: "x", Epoch: 10, AreaName: "A"},
		{IdentityID: "x", Epoch: 20, AreaName: "B"},
	}
	assert.Equal(t, []string{"A", "B", "C"}, Sequences(events)["x"])
}

func TestDedupe(t *testing.T) {
	assert.Equal(t, []string{"A", "B", "A"}, Dedupe([]string{"A", "A", "B", "A", "A"}))
	assert.Empty(t, Dedupe(nil))
}

func TestWindows_ShortSequence(t *testing.T) {
	assert.Nil(t, Windows([]string{"A", "B"}, 3))
	assert.Nil(t, Windows([]string{"A", "B", "C"}, 0))
	assert.Len(t, Windows([]string{"A", "B", "C"}, 3), 1)
}

func TestMostTraveled(t *testing.T) {
	var events []models.TrackedEvent
	// id1 walks A-B-C twice; it still counts once.
	events = append(events, visits("id1", 0, "A", "B", "C", "A", "B", "C")...)
	events = append(events, visits("id2", 100, "A", "B", "C", "D")...)
	events = append(events, visits("id3", 200, "A", "B")...)

	freqs, total := MostTraveled(events, 3)
	assert.Equal(t, 3, total)
	require.NotEmpty(t, freqs)

	assert.Equal(t, []string{"A", "B", "C"}, freqs[0].Path)
	assert.Equal(t, 2, freqs[0].Count)
	assert.InDelta(t, 2.0/3.0, freqs[0].Percent, 1e-9)

	for _, f := range freqs {
		assert.LessOrEqual(t, f.Count, total)
		assert.LessOrEqual(t, f.Percent, 1.0)
	}
}

func TestMostTraveled_NoIdentities(t *testing.T) {
	freqs, total := MostTraveled(visits("id1", 0, "Free", "Free"), 3)
	assert.Equal(t, 0, total)
	assert.Empty(t, freqs)
}
