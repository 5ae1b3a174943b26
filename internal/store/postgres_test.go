package store

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PratikDhanave/venue-analytics-service/internal/models"
)

// TestPostgresStore_RoundTrip requires a running Postgres.
func TestPostgresStore_RoundTrip(t *testing.T) {
	dbURL := os.Getenv("DB_URL")
	if os.Getenv("RUN_INTEGRATION_TESTS") == "" || dbURL == "" {
		t.Skip("Skipping integration test - set RUN_INTEGRATION_TESTS=1 and DB_URL to run")
	}

	ctx := context.Background()
	st, err := NewPostgresStore(dbURL)
	require.NoError(t, err)
	defer st.Close()
	require.NoError(t, st.EnsureSchema(ctx))

	center := "it-" + t.Name()
	_, err = st.pool.Exec(ctx, `DELETE FROM centers WHERE name = $1`, center)
	require.NoError(t, err)
	_, err = st.pool.Exec(ctx, `DELETE FROM timeline WHERE center_name = $1`, center)
	require.NoError(t, err)
	_, err = st.pool.Exec(ctx, `DELETE FROM dwell_time WHERE center_name = $1`, center)
	require.NoError(t, err)

	poly := models.Polygon{{0, 0}, {100, 0}, {100, 100}, {0, 100}}
	raw, err := models.EncodePolygon(poly)
	require.NoError(t, err)

	_, err = st.pool.Exec(ctx, `INSERT INTO centers(name) VALUES ($1)`, center)
	require.NoError(t, err)
	_, err = st.pool.Exec(ctx, `INSERT INTO areas(center_name, area_type, area_name, polygon) VALUES ($1,'Waiting','W',$2)`, center, raw)
	require.NoError(t, err)
	_, err = st.pool.Exec(ctx, `
		INSERT INTO timeline(center_name, epoch_second, global_identity, area, area_type, gender, happiness)
		VALUES ($1, 10, 'id1', 'W', 'Waiting', 'Male', 70), ($1, 20, 'id2', 'W', 'Waiting', NULL, NULL)
	`, center)
	require.NoError(t, err)
	_, err = st.pool.Exec(ctx, `INSERT INTO dwell_time(center_name, global_identity, area, epoch_second, dwell_time) VALUES ($1,'id1','W',50,12.5)`, center)
	require.NoError(t, err)

	ok, err := st.CenterExists(ctx, center)
	require.NoError(t, err)
	assert.True(t, ok)

	areas, err := st.ListAreas(ctx, center)
	require.NoError(t, err)
	require.Len(t, areas, 1)
	assert.Equal(t, poly, areas[0].Polygon)

	events, err := st.FetchTimeline(ctx, TimelineQuery{Centers: []string{center}, From: 0, To: 100})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Male", models.Deref(events[0].Gender))
	assert.Nil(t, events[1].Happiness)

	from, to := Range(0, 100)
	dwell, err := st.FetchDwell(ctx, DwellQuery{Center: center, Identities: []string{"id1"}, From: from, To: to})
	require.NoError(t, err)
	require.Len(t, dwell, 1)
	assert.Equal(t, 12.5, dwell[0].DwellTime)
}
