package eventlog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// defaultListLimit bounds List when the caller passes limit <= 0.
const defaultListLimit = 100

// Repository defines the interface for security event persistence.
// This abstraction allows for different implementations (SQLite, mock, etc.)
// and enables unit testing without database dependencies.
type Repository interface {
	// Record inserts a new event.
	// Returns ErrEventExists if an event with the same ID already exists.
	Record(ctx context.Context, event *SecurityEvent) error

	// List retrieves events newest first, up to limit rows.
	// A limit <= 0 uses the default.
	List(ctx context.Context, limit int) ([]SecurityEvent, error)

	// Get retrieves an event by its unique identifier.
	// Returns ErrEventNotFound if the event does not exist.
	Get(ctx context.Context, id string) (*SecurityEvent, error)

	// Delete removes an event by ID.
	// Returns ErrEventNotFound if the event does not exist.
	Delete(ctx context.Context, id string) error

	// Stats returns totals per status and the newest event time.
	Stats(ctx context.Context) (*Stats, error)
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
// The db parameter should be an open SQLite connection with the
// security_events migration applied.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Record inserts a new event.
func (r *SQLiteRepository) Record(ctx context.Context, event *SecurityEvent) error {
	if err := event.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO security_events (id, occurred_at, name, status, image_url, source, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		event.ID,
		event.OccurredAt.UTC().Format(time.RFC3339Nano),
		event.Name,
		string(event.Status),
		event.ImageURL,
		event.Source,
		event.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: id %s", ErrEventExists, event.ID)
		}
		return fmt.Errorf("inserting event: %w", err)
	}
	return nil
}

// List retrieves events newest first, up to limit rows.
func (r *SQLiteRepository) List(ctx context.Context, limit int) ([]SecurityEvent, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := `
		SELECT id, occurred_at, name, status, image_url, source, created_at
		FROM security_events
		ORDER BY occurred_at DESC
		LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	var events []SecurityEvent
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating events: %w", err)
	}
	return events, nil
}

// Get retrieves an event by its unique identifier.
func (r *SQLiteRepository) Get(ctx context.Context, id string) (*SecurityEvent, error) {
	query := `
		SELECT id, occurred_at, name, status, image_url, source, created_at
		FROM security_events
		WHERE id = ?`

	event, err := scanEvent(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("querying event by id: %w", err)
	}
	return event, nil
}

// Delete removes an event by ID.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM security_events WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting event: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return ErrEventNotFound
	}
	return nil
}

// Stats returns totals per status and the newest event time.
func (r *SQLiteRepository) Stats(ctx context.Context) (*Stats, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
			COALESCE(MAX(occurred_at), '')
		FROM security_events`

	var stats Stats
	var lastEvent string
	err := r.db.QueryRowContext(ctx, query,
		string(StatusAuthorized),
		string(StatusIntruder),
	).Scan(&stats.Total, &stats.Authorized, &stats.Intruders, &lastEvent)
	if err != nil {
		return nil, fmt.Errorf("querying stats: %w", err)
	}

	if lastEvent != "" {
		t, err := time.Parse(time.RFC3339Nano, lastEvent)
		if err != nil {
			return nil, fmt.Errorf("parsing last event time: %w", err)
		}
		stats.LastEventAt = t
	}
	return &stats, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for scanEvent.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanEvent scans one event row, parsing the stored RFC3339 timestamps.
func scanEvent(row rowScanner) (*SecurityEvent, error) {
	var e SecurityEvent
	var status, occurredAt, createdAt string

	if err := row.Scan(&e.ID, &occurredAt, &e.Name, &status, &e.ImageURL, &e.Source, &createdAt); err != nil {
		return nil, err
	}

	e.Status = Status(status)

	var err error
	if e.OccurredAt, err = time.Parse(time.RFC3339Nano, occurredAt); err != nil {
		return nil, fmt.Errorf("parsing occurred_at: %w", err)
	}
	if e.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &e, nil
}

// isUniqueViolation reports whether err is a SQLite unique constraint error.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
