package store

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/PratikDhanave/venue-analytics-service/internal/metrics"
	"github.com/PratikDhanave/venue-analytics-service/internal/models"
)

// schemaSQL is embedded so the service can self-bootstrap its database schema.
//
//go:embed schema.sql
var schemaSQL string

// PostgresStore reads tracking records and the area directory from Postgres.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a connection pool and fails fast if DB is unreachable.
func NewPostgresStore(dbURL string) (*PostgresStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

// EnsureSchema applies schema.sql. Safe to run multiple times.
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, schemaSQL)
	return err
}

// Ping is used by readiness endpoint to validate DB connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close shuts down the connection pool.
func (p *PostgresStore) Close() {
	p.pool.Close()
}

// CenterExists reports whether a center with the given name is registered.
func (p *PostgresStore) CenterExists(ctx context.Context, name string) (bool, error) {
	start := time.Now()
	var exists bool
	err := p.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM centers WHERE name = $1)`, name).Scan(&exists)
	metrics.RecordStoreQuery("center_exists", "centers", start, 1, err)
	return exists, err
}

// ListCenters returns every registered center name.
func (p *PostgresStore) ListCenters(ctx context.Context) ([]string, error) {
	start := time.Now()
	rows, err := p.pool.Query(ctx, `SELECT name FROM centers ORDER BY name`)
	if err != nil {
		metrics.RecordStoreQuery("list", "centers", start, 0, err)
		return nil, err
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	metrics.RecordStoreQuery("list", "centers", start, len(names), err)
	return names, err
}

// ListAreas returns the areas of a center ordered by type and name.
func (p *PostgresStore) ListAreas(ctx context.Context, center string) ([]models.Area, error) {
	start := time.Now()
	rows, err := p.pool.Query(ctx, `
		SELECT center_name, area_type, area_name, polygon, highlight_on_customers
		FROM areas
		WHERE center_name = $1
		ORDER BY area_type, area_name
	`, center)
	if err != nil {
		metrics.RecordStoreQuery("list", "areas", start, 0, err)
		return nil, err
	}
	defer rows.Close()

	var areas []models.Area
	for rows.Next() {
		var (
			a   models.Area
			raw []byte
		)
		if err := rows.Scan(&a.CenterID, &a.AreaType, &a.AreaName, &raw, &a.Highlight); err != nil {
			metrics.RecordStoreQuery("list", "areas", start, 0, err)
			return nil, err
		}
		if a.Polygon, err = models.DecodePolygon(raw); err != nil {
			err = fmt.Errorf("area %s/%s: %w", a.CenterID, a.AreaName, err)
			metrics.RecordStoreQuery("list", "areas", start, 0, err)
			return nil, err
		}
		areas = append(areas, a)
	}
	err = rows.Err()
	metrics.RecordStoreQuery("list", "areas", start, len(areas), err)
	return areas, err
}

// FetchTimeline returns Timeline rows of the queried centers within [From, To].
func (p *PostgresStore) FetchTimeline(ctx context.Context, q TimelineQuery) ([]models.TrackedEvent, error) {
	start := time.Now()
	sql := `
		SELECT center_name, global_identity, epoch_second, area, COALESCE(area_type, ''),
		       COALESCE(position_x, 0), COALESCE(position_y, 0),
		       gender, age, ethnicity, happiness, mask, face_crop
		FROM timeline
		WHERE center_name = ANY($1)
		  AND epoch_second >= $2
		  AND epoch_second <= $3`
	args := []any{q.Centers, q.From, q.To}
	if q.Identity != "" {
		sql += ` AND global_identity = $4`
		args = append(args, q.Identity)
	}
	sql += ` ORDER BY epoch_second`

	rows, err := p.pool.Query(ctx, sql, args...)
	if err != nil {
		metrics.RecordStoreQuery("fetch", "timeline", start, 0, err)
		return nil, err
	}
	events, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.TrackedEvent, error) {
		var e models.TrackedEvent
		err := row.Scan(&e.CenterID, &e.IdentityID, &e.Epoch, &e.AreaName, &e.AreaType,
			&e.PositionX, &e.PositionY,
			&e.Gender, &e.AgeBand, &e.Ethnicity, &e.Happiness, &e.Mask, &e.FaceCrop)
		return e, err
	})
	metrics.RecordStoreQuery("fetch", "timeline", start, len(events), err)
	return events, err
}

// FetchLive returns the current CustomerTracker snapshot of a center.
func (p *PostgresStore) FetchLive(ctx context.Context, center string) ([]models.LiveSnapshot, error) {
	start := time.Now()
	rows, err := p.pool.Query(ctx, `
		SELECT center_name, global_identity, epoch_second, area, COALESCE(area_type, ''),
		       position_x, position_y,
		       gender, age_range, ethnicity, happiness_index, mask, live_dwell_time
		FROM customer_tracker
		WHERE center_name = $1
	`, center)
	if err != nil {
		metrics.RecordStoreQuery("fetch", "customer_tracker", start, 0, err)
		return nil, err
	}
	snaps, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.LiveSnapshot, error) {
		var s models.LiveSnapshot
		err := row.Scan(&s.CenterID, &s.IdentityID, &s.Epoch, &s.AreaName, &s.AreaType,
			&s.PositionX, &s.PositionY,
			&s.Gender, &s.AgeBand, &s.Ethnicity, &s.Happiness, &s.Mask, &s.LiveDwellTime)
		return s, err
	})
	metrics.RecordStoreQuery("fetch", "customer_tracker", start, len(snaps), err)
	return snaps, err
}

// FetchDwell returns DwellTime rows matching q.
func (p *PostgresStore) FetchDwell(ctx context.Context, q DwellQuery) ([]models.DwellRecord, error) {
	if q.matchesNothing() {
		return []models.DwellRecord{}, nil
	}

	start := time.Now()
	conds := []string{"center_name = $1"}
	args := []any{q.Center}
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if q.Identities != nil {
		add("global_identity = ANY($%d)", q.Identities)
	}
	if q.Areas != nil {
		add("area = ANY($%d)", q.Areas)
	}
	if q.From != nil {
		add("epoch_second >= $%d", *q.From)
	}
	if q.To != nil {
		add("epoch_second <= $%d", *q.To)
	}

	rows, err := p.pool.Query(ctx, `
		SELECT center_name, global_identity, area, epoch_second, dwell_time
		FROM dwell_time
		WHERE `+strings.Join(conds, " AND "), args...)
	if err != nil {
		metrics.RecordStoreQuery("fetch", "dwell_time", start, 0, err)
		return nil, err
	}
	records, err := pgx.CollectRows(rows, pgx.RowToStructByPos[models.DwellRecord])
	metrics.RecordStoreQuery("fetch", "dwell_time", start, len(records), err)
	return records, err
}
