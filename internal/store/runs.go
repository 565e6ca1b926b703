package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Nareshtt/motion-dom-canvas/internal/sink"
)

// ErrRunNotFound is returned when a run id is unknown.
var ErrRunNotFound = errors.New("run not found")

// Run is one offline render.
type Run struct {
	ID        string    `json:"id"`
	Project   string    `json:"project"`
	FPS       int       `json:"fps"`
	Duration  float64   `json:"duration"`
	Frames    int64     `json:"frames"`
	Truncated bool      `json:"truncated"`
	StartedAt time.Time `json:"started_at"`
}

// CreateRun inserts a run record. Duplicate ids are an error.
func (s *Store) CreateRun(ctx context.Context, r Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, project, fps, duration, frames, truncated, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		r.ID,
		r.Project,
		r.FPS,
		r.Duration,
		r.Frames,
		r.Truncated,
		r.StartedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("create run: %w", err)
	}
	return nil
}

// FinishRun records a run's final frame count and rendered duration.
func (s *Store) FinishRun(ctx context.Context, id string, frames int64, duration float64, truncated bool) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE runs SET frames = ?, duration = ?, truncated = ? WHERE id = ?
	`, frames, duration, truncated, id)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("finish run %s: %w", id, ErrRunNotFound)
	}
	return nil
}

// GetRun returns the run with the given id.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, project, fps, duration, frames, truncated, started_at
		FROM runs WHERE id = ?
	`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("get run %s: %w", id, ErrRunNotFound)
	}
	return r, err
}

// ListRuns returns every run, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, project, fps, duration, frames, truncated, started_at
		FROM runs
		ORDER BY id COLLATE BINARY DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// DeleteRun removes a run and its frames.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	return nil
}

// WriteFrames appends records to a run in one transaction. Records keep
// their order: seq continues from the run's last written record.
func (s *Store) WriteFrames(ctx context.Context, runID string, records []sink.Record) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write frames: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var next int64
	if err := tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(seq), -1) + 1 FROM frames WHERE run_id = ?
	`, runID).Scan(&next); err != nil {
		return fmt.Errorf("write frames: next seq: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO frames (run_id, seq, frame, time, scene, target, property, value)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("write frames: prepare: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.ExecContext(ctx, runID, next+int64(i), r.Frame, r.Time, r.Scene, r.Target, r.Property, r.Value); err != nil {
			return fmt.Errorf("write frames: record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write frames: commit: %w", err)
	}
	return nil
}

// ReadFrames returns every record of a run in write order.
func (s *Store) ReadFrames(ctx context.Context, runID string) ([]sink.Record, error) {
	return s.readFrames(ctx, `
		SELECT frame, time, scene, target, property, value
		FROM frames WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
}

// ReadFrame returns the records written during one frame of a run.
func (s *Store) ReadFrame(ctx context.Context, runID string, frame int64) ([]sink.Record, error) {
	return s.readFrames(ctx, `
		SELECT frame, time, scene, target, property, value
		FROM frames WHERE run_id = ? AND frame = ?
		ORDER BY seq ASC
	`, runID, frame)
}

func (s *Store) readFrames(ctx context.Context, query string, args ...any) ([]sink.Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query frames: %w", err)
	}
	defer rows.Close()

	records := []sink.Record{}
	for rows.Next() {
		var r sink.Record
		if err := rows.Scan(&r.Frame, &r.Time, &r.Scene, &r.Target, &r.Property, &r.Value); err != nil {
			return nil, fmt.Errorf("scan frame: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate frames: %w", err)
	}
	return records, nil
}

func scanRun(row scanner) (Run, error) {
	var (
		r       Run
		started string
	)
	err := row.Scan(&r.ID, &r.Project, &r.FPS, &r.Duration, &r.Frames, &r.Truncated, &started)
	if errors.Is(err, sql.ErrNoRows) {
		return r, err
	}
	if err != nil {
		return r, fmt.Errorf("scan run: %w", err)
	}
	r.StartedAt, err = time.Parse(time.RFC3339Nano, started)
	if err != nil {
		return r, fmt.Errorf("parse started_at: %w", err)
	}
	return r, nil
}
