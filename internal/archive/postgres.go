package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/sony/gobreaker"
)

// PostgresArchiver persists a RoomSnapshot as an append-only row, adapted
// from the teacher's pkg/db/postgres.go document store: same
// database/sql + lib/pq shape, repurposed from CRUD-on-a-document to a
// write-once archive of a room at teardown. Calls are wrapped in a
// circuit breaker (grounded on RoseWrightdev's internal/v1/bus/redis.go)
// so that, once it trips, a database outage makes SaveRoom return an error
// at once instead of waiting on the database; the caller counts the error
// in its archive-failure metric and does not log it.
type PostgresArchiver struct {
	db *sql.DB
	cb *gobreaker.CircuitBreaker
}

// NewPostgresArchiver opens a connection and ensures the archive table
// exists.
func NewPostgresArchiver(connStr string) (*PostgresArchiver, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	a := &PostgresArchiver{db: db}
	if err := a.createTable(); err != nil {
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	a.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "room-archiver",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})

	return a, nil
}

// Close closes the underlying database connection.
func (a *PostgresArchiver) Close() error {
	return a.db.Close()
}

func (a *PostgresArchiver) createTable() error {
	_, err := a.db.Exec(`
		CREATE TABLE IF NOT EXISTS room_archives (
			id SERIAL PRIMARY KEY,
			room_name VARCHAR(32) NOT NULL,
			closed_at TIMESTAMP WITH TIME ZONE NOT NULL,
			snapshot_json JSONB NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_room_archives_room_name ON room_archives(room_name);
		CREATE INDEX IF NOT EXISTS idx_room_archives_closed_at ON room_archives(closed_at);
	`)
	return err
}

// SaveRoom inserts the snapshot as a new row, through the circuit breaker.
func (a *PostgresArchiver) SaveRoom(ctx context.Context, snapshot RoomSnapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal room snapshot: %w", err)
	}

	_, err = a.cb.Execute(func() (any, error) {
		_, execErr := a.db.ExecContext(ctx,
			`INSERT INTO room_archives (room_name, closed_at, snapshot_json) VALUES ($1, $2, $3)`,
			snapshot.Name, snapshot.ClosedAt, payload,
		)
		return nil, execErr
	})
	if err != nil {
		return fmt.Errorf("failed to archive room %q: %w", snapshot.Name, err)
	}
	return nil
}

var _ Archiver = (*PostgresArchiver)(nil)
