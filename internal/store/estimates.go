package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Nareshtt/motion-dom-canvas/internal/analyzer"
	"github.com/Nareshtt/motion-dom-canvas/internal/motion"
)

// CachedEstimate is a stored estimate row.
type CachedEstimate struct {
	Hash     string
	Scene    string
	Kind     string
	Estimate analyzer.Estimate
}

// LookupEstimate returns the estimate cached under hash.
func (s *Store) LookupEstimate(ctx context.Context, hash string) (analyzer.Estimate, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT source_hash, scene, kind, duration, transition_kind, transition_duration, fallback, diagnostics
		FROM estimates
		WHERE source_hash = ?
	`, hash)

	c, err := scanEstimate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return analyzer.Estimate{}, false, nil
	}
	if err != nil {
		return analyzer.Estimate{}, false, err
	}
	return c.Estimate, true, nil
}

// SaveEstimate caches est under hash, replacing any previous entry.
func (s *Store) SaveEstimate(ctx context.Context, c CachedEstimate) error {
	diags := c.Estimate.Diagnostics
	if diags == nil {
		diags = []string{}
	}
	diagJSON, err := json.Marshal(diags)
	if err != nil {
		return fmt.Errorf("save estimate: %w", err)
	}

	var trKind string
	var trDuration float64
	if tr := c.Estimate.Transition; tr != nil {
		trKind, trDuration = string(tr.Kind), tr.Duration
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO estimates
		(source_hash, scene, kind, duration, transition_kind, transition_duration, fallback, diagnostics)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(source_hash) DO UPDATE SET
			scene = excluded.scene,
			duration = excluded.duration,
			transition_kind = excluded.transition_kind,
			transition_duration = excluded.transition_duration,
			fallback = excluded.fallback,
			diagnostics = excluded.diagnostics
	`,
		c.Hash,
		c.Scene,
		c.Kind,
		c.Estimate.Duration,
		trKind,
		trDuration,
		c.Estimate.Fallback,
		string(diagJSON),
	)
	if err != nil {
		return fmt.Errorf("save estimate: %w", err)
	}
	return nil
}

// Estimate returns the cached estimate for the scene source, computing and
// caching it on a miss. hit reports whether the cache answered.
func (s *Store) Estimate(ctx context.Context, scene, kind string, src []byte, compute func([]byte) analyzer.Estimate) (est analyzer.Estimate, hit bool, err error) {
	hash := SourceHash(kind, src)
	est, hit, err = s.LookupEstimate(ctx, hash)
	if err != nil || hit {
		return est, hit, err
	}

	est = compute(src)
	if err := s.SaveEstimate(ctx, CachedEstimate{Hash: hash, Scene: scene, Kind: kind, Estimate: est}); err != nil {
		return est, false, err
	}
	return est, false, nil
}

// SceneEstimates returns the cached estimates for a scene, one per distinct
// source seen, ordered by hash.
func (s *Store) SceneEstimates(ctx context.Context, scene string) ([]CachedEstimate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT source_hash, scene, kind, duration, transition_kind, transition_duration, fallback, diagnostics
		FROM estimates
		WHERE scene = ?
		ORDER BY source_hash COLLATE BINARY ASC
	`, scene)
	if err != nil {
		return nil, fmt.Errorf("query estimates: %w", err)
	}
	defer rows.Close()

	out := []CachedEstimate{}
	for rows.Next() {
		c, err := scanEstimate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate estimates: %w", err)
	}
	return out, nil
}

// PruneEstimates deletes cached estimates for scene whose hash is not keep.
func (s *Store) PruneEstimates(ctx context.Context, scene, keep string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM estimates WHERE scene = ? AND source_hash != ?
	`, scene, keep)
	if err != nil {
		return 0, fmt.Errorf("prune estimates: %w", err)
	}
	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEstimate(row scanner) (CachedEstimate, error) {
	var (
		c          CachedEstimate
		trKind     string
		trDuration float64
		diagJSON   string
	)
	err := row.Scan(&c.Hash, &c.Scene, &c.Kind, &c.Estimate.Duration,
		&trKind, &trDuration, &c.Estimate.Fallback, &diagJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return c, err
	}
	if err != nil {
		return c, fmt.Errorf("scan estimate: %w", err)
	}

	if trKind != "" {
		c.Estimate.Transition = &analyzer.Transition{Kind: motion.TransitionKind(trKind), Duration: trDuration}
	}
	if err := json.Unmarshal([]byte(diagJSON), &c.Estimate.Diagnostics); err != nil {
		return c, fmt.Errorf("unmarshal diagnostics: %w", err)
	}
	if len(c.Estimate.Diagnostics) == 0 {
		c.Estimate.Diagnostics = nil
	}
	return c, nil
}
