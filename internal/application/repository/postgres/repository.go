// Package postgres is the durable event repository backed by pgx.
package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/planwise/planwise/internal/logger"
	"github.com/planwise/planwise/internal/types"
	"github.com/planwise/planwise/internal/types/interfaces"
)

// schemaSQL is embedded so the service can bootstrap its own schema.
//
//go:embed schema.sql
var schemaSQL string

const eventColumns = "id, owner_id, title, start_time, end_time, location, notes, source, enrichment, created_at"

// Repository persists events in Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a connection pool and fails fast when the
// database is unreachable.
func NewRepository(ctx context.Context, databaseURL string) (*Repository, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info(ctx, "[Postgres] connected event repository")
	return &Repository{pool: pool}, nil
}

var _ interfaces.EventRepository = (*Repository)(nil)

// EnsureSchema applies schema.sql. Safe to run repeatedly.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Ping reports database connectivity for the readiness endpoint.
func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close shuts down the connection pool.
func (r *Repository) Close() {
	r.pool.Close()
}

// Save persists a new event and returns it with its assigned id.
func (r *Repository) Save(ctx context.Context, event *types.Event) (*types.Event, error) {
	if err := event.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New().String()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO events (id, owner_id, title, start_time, end_time, location, notes, source, enrichment)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+eventColumns,
		id, event.OwnerID, event.Title, event.Start, event.End,
		event.Location, event.Notes, string(event.Source), event.Enrichment,
	)

	saved, err := scanEvent(row)
	if err != nil {
		return nil, &types.StoreError{Op: "save", Err: err}
	}
	return saved, nil
}

// GetByID fetches one event; types.ErrNotFound when the id is unknown.
func (r *Repository) GetByID(ctx context.Context, id string) (*types.Event, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+eventColumns+`
		FROM events
		WHERE id = $1
	`, id)

	ev, err := scanEvent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, &types.StoreError{Op: "get", Err: err}
	}
	return ev, nil
}

// ListByOwnerAndDate returns the owner's events whose start falls inside
// the half-open [midnight, midnight+24h) window of the given day, ordered
// by start time.
func (r *Repository) ListByOwnerAndDate(ctx context.Context, ownerID int64, day time.Time) ([]types.Event, error) {
	dayStart, dayEnd := dayWindow(day)

	rows, err := r.pool.Query(ctx, `
		SELECT `+eventColumns+`
		FROM events
		WHERE owner_id = $1
		  AND start_time >= $2
		  AND start_time <  $3
		ORDER BY start_time
	`, ownerID, dayStart, dayEnd)
	if err != nil {
		return nil, &types.StoreError{Op: "list", Err: err}
	}
	defer rows.Close()

	var events []types.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, &types.StoreError{Op: "list", Err: err}
		}
		events = append(events, *ev)
	}
	if err := rows.Err(); err != nil {
		return nil, &types.StoreError{Op: "list", Err: err}
	}
	return events, nil
}

// UpdateFields applies only the changed fields and returns the updated row.
func (r *Repository) UpdateFields(ctx context.Context, id string, changes types.EventChanges) (*types.Event, error) {
	if changes.Empty() {
		return r.GetByID(ctx, id)
	}

	set := make([]string, 0, 4)
	args := make([]interface{}, 0, 5)
	args = append(args, id)

	add := func(column string, value interface{}) {
		args = append(args, value)
		set = append(set, column+" = $"+strconv.Itoa(len(args)))
	}
	if changes.Title != nil {
		add("title", *changes.Title)
	}
	if changes.Start != nil {
		add("start_time", *changes.Start)
	}
	if changes.End != nil {
		add("end_time", *changes.End)
	}
	if changes.Location != nil {
		add("location", *changes.Location)
	}

	query := "UPDATE events SET " + joinSet(set) + " WHERE id = $1 RETURNING " + eventColumns
	row := r.pool.QueryRow(ctx, query, args...)

	ev, err := scanEvent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, &types.StoreError{Op: "update", Err: err}
	}
	return ev, nil
}

// SetEnrichment attaches research context to an already persisted event.
func (r *Repository) SetEnrichment(ctx context.Context, id string, enrichment string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE events SET enrichment = $2 WHERE id = $1`, id, enrichment)
	if err != nil {
		return &types.StoreError{Op: "enrich", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return types.ErrNotFound
	}
	return nil
}

// DeleteByOwnerAndDate removes all of the owner's events on the given day.
func (r *Repository) DeleteByOwnerAndDate(ctx context.Context, ownerID int64, day time.Time) (int64, error) {
	dayStart, dayEnd := dayWindow(day)

	tag, err := r.pool.Exec(ctx, `
		DELETE FROM events
		WHERE owner_id = $1
		  AND start_time >= $2
		  AND start_time <  $3
	`, ownerID, dayStart, dayEnd)
	if err != nil {
		return 0, &types.StoreError{Op: "delete", Err: err}
	}
	return tag.RowsAffected(), nil
}

// ListOwnersWithEventsOnDate returns the owners that have at least one
// event on the given day.
func (r *Repository) ListOwnersWithEventsOnDate(ctx context.Context, day time.Time) ([]int64, error) {
	dayStart, dayEnd := dayWindow(day)

	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT owner_id
		FROM events
		WHERE start_time >= $1
		  AND start_time <  $2
		ORDER BY owner_id
	`, dayStart, dayEnd)
	if err != nil {
		return nil, &types.StoreError{Op: "list_owners", Err: err}
	}
	defer rows.Close()

	var owners []int64
	for rows.Next() {
		var owner int64
		if err := rows.Scan(&owner); err != nil {
			return nil, &types.StoreError{Op: "list_owners", Err: err}
		}
		owners = append(owners, owner)
	}
	if err := rows.Err(); err != nil {
		return nil, &types.StoreError{Op: "list_owners", Err: err}
	}
	return owners, nil
}

// dayWindow resolves a day to its half-open [midnight, midnight+24h)
// range in the day's own location. Half-open avoids double counting at
// window boundaries.
func dayWindow(day time.Time) (time.Time, time.Time) {
	y, m, d := day.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	return start, start.AddDate(0, 0, 1)
}

func joinSet(parts []string) string {
	out := parts[0]
	for _, p := range parts[1:] {
		out += ", " + p
	}
	return out
}

func scanEvent(row pgx.Row) (*types.Event, error) {
	var (
		ev     types.Event
		end    *time.Time
		source string
	)
	err := row.Scan(&ev.ID, &ev.OwnerID, &ev.Title, &ev.Start, &end,
		&ev.Location, &ev.Notes, &source, &ev.Enrichment, &ev.CreatedAt)
	if err != nil {
		return nil, err
	}
	ev.End = end
	ev.Source = types.EventSource(source)
	return &ev, nil
}
