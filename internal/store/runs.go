package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Get for an unknown run id.
var ErrNotFound = errors.New("run not found")

// Run is one finished propagation run.
type Run struct {
	ID        uuid.UUID
	SweepID   string
	StartedAt time.Time

	Width    int
	Height   int
	Seed     int64
	Strategy string

	Threshold     float64
	MaxIterations int
	Workers       int
	ChunkSize     int

	Iterations int
	State      string
	MaxDelta   float64
	Elapsed    time.Duration
}

const runColumns = `id, sweep_id, started_at, width, height, seed, strategy, threshold,
	max_iterations, workers, chunk_size, iterations, state, max_delta, elapsed_ns`

// Save inserts r, assigning an id and start time when they are unset.
func (s *Store) Save(ctx context.Context, r *Run) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.StartedAt.IsZero() {
		r.StartedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO runs (`+runColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID.String(), r.SweepID, r.StartedAt.UTC().Format(time.RFC3339Nano),
		r.Width, r.Height, r.Seed, r.Strategy, r.Threshold,
		r.MaxIterations, r.Workers, r.ChunkSize,
		r.Iterations, r.State, r.MaxDelta, int64(r.Elapsed))
	if err != nil {
		return fmt.Errorf("insert run %s: %w", r.ID, err)
	}
	return nil
}

// Get loads one run.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id.String())
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return r, err
}

// List returns the most recent runs first. A limit of zero or less returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs
		ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

// ListSweep returns the runs of one sweep in insertion order.
func (s *Store) ListSweep(ctx context.Context, sweepID string) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs
		WHERE sweep_id = ? ORDER BY rowid`, sweepID)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		r         Run
		id        string
		startedAt string
		elapsed   int64
	)
	err := sc.Scan(&id, &r.SweepID, &startedAt, &r.Width, &r.Height, &r.Seed, &r.Strategy,
		&r.Threshold, &r.MaxIterations, &r.Workers, &r.ChunkSize,
		&r.Iterations, &r.State, &r.MaxDelta, &elapsed)
	if err != nil {
		return Run{}, err
	}
	if r.ID, err = uuid.Parse(id); err != nil {
		return Run{}, fmt.Errorf("parse run id %q: %w", id, err)
	}
	if r.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
		return Run{}, fmt.Errorf("parse started_at %q: %w", startedAt, err)
	}
	r.Elapsed = time.Duration(elapsed)
	return r, nil
}

func collect(rows *sql.Rows) ([]Run, error) {
	defer rows.Close()
	var out []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
