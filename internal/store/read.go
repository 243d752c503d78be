package store

import (
	"context"
	"database/sql"
	"fmt"
)

// RecentRuns returns at most limit runs, newest first.
// Returns an empty slice (not nil) if the journal is empty.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		return []Run{}, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, finished_at, fetched, candidates, status_code, outcome, error
		FROM runs
		ORDER BY started_at DESC, id COLLATE BINARY DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return runs, nil
}

// ReadRun returns the run with the given ID.
// Returns found=false if no such run exists.
func (s *Store) ReadRun(ctx context.Context, id string) (run Run, found bool, err error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, started_at, finished_at, fetched, candidates, status_code, outcome, error
		FROM runs
		WHERE id = ?
	`, id)

	run, err = scanRun(row)
	if err == sql.ErrNoRows {
		return Run{}, false, nil
	}
	if err != nil {
		return Run{}, false, err
	}
	return run, true, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		run               Run
		started, finished string
	)
	err := row.Scan(
		&run.ID,
		&started,
		&finished,
		&run.Fetched,
		&run.Candidates,
		&run.StatusCode,
		&run.Outcome,
		&run.Error,
	)
	if err == sql.ErrNoRows {
		return Run{}, err
	}
	if err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}

	if run.StartedAt, err = parseTime(started); err != nil {
		return Run{}, fmt.Errorf("parse started_at %q: %w", started, err)
	}
	if run.FinishedAt, err = parseTime(finished); err != nil {
		return Run{}, fmt.Errorf("parse finished_at %q: %w", finished, err)
	}
	return run, nil
}
