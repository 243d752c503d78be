package store

import (
	"context"
	"fmt"
	"time"
)

// WriteRun inserts a run into the journal.
// Uses ON CONFLICT(id) DO NOTHING - writing the same run twice is a no-op.
func (s *Store) WriteRun(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs
		(id, started_at, finished_at, fetched, candidates, status_code, outcome, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		formatTime(run.StartedAt),
		formatTime(run.FinishedAt),
		run.Fetched,
		run.Candidates,
		run.StatusCode,
		run.Outcome,
		run.Error,
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	return nil
}

// Timestamps are stored as fixed-width UTC strings so they sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}
