package store

import "time"

// Run is one journal row describing a finished relay invocation.
type Run struct {
	ID         string    `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Fetched    int       `json:"fetched"`
	Candidates int       `json:"candidates"`
	StatusCode int       `json:"status_code,omitempty"`
	Outcome    string    `json:"outcome"`
	Error      string    `json:"error,omitempty"`
}

// Duration returns how long the run took.
func (r Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
