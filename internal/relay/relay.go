package relay

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/roach88/namerelay/internal/destination"
	"github.com/roach88/namerelay/internal/namechange"
	"github.com/roach88/namerelay/internal/source"
	"github.com/roach88/namerelay/internal/store"
)

// Source returns the most recent name changes.
type Source interface {
	RecentNameChanges(ctx context.Context, limit int) ([]namechange.Record, error)
}

// Destination accepts a batch of name changes.
type Destination interface {
	SubmitBulk(ctx context.Context, records []namechange.Record) (destination.Response, error)
}

// Ledger is the submitted names log.
type Ledger interface {
	Load() ([]namechange.Record, error)
	Append(previous, added []namechange.Record) error
}

// Journal records finished runs.
type Journal interface {
	WriteRun(ctx context.Context, run store.Run) error
}

// Deps holds everything a Relay talks to.
type Deps struct {
	Source      Source
	Destination Destination
	Ledger      Ledger
	Logger      *slog.Logger

	// Journal is optional.
	Journal Journal
	// RunIDs defaults to UUIDv7Generator.
	RunIDs RunIDGenerator
	// Now defaults to time.Now.
	Now func() time.Time
}

// Options tune a Relay.
type Options struct {
	// DryRun stops after computing candidates: nothing is submitted or written.
	DryRun bool
}

// Relay runs the fetch, filter, submit, persist sequence.
type Relay struct {
	source      Source
	destination Destination
	ledger      Ledger
	journal     Journal
	logger      *slog.Logger
	runIDs      RunIDGenerator
	now         func() time.Time
	opts        Options
}

// New creates a Relay. Source, Destination, Ledger and Logger are required.
func New(deps Deps, opts Options) *Relay {
	r := &Relay{
		source:      deps.Source,
		destination: deps.Destination,
		ledger:      deps.Ledger,
		journal:     deps.Journal,
		logger:      deps.Logger,
		runIDs:      deps.RunIDs,
		now:         deps.Now,
		opts:        opts,
	}
	if r.runIDs == nil {
		r.runIDs = UUIDv7Generator{}
	}
	if r.now == nil {
		r.now = time.Now
	}
	return r
}

// Run performs one relay pass.
//
// Expected failures are logged and returned as typed errors that callers may
// treat as a clean finish: *source.FetchError when the source fails and
// *destination.RejectedError when the destination answers with a status
// other than 201 or 400. Any other error is an unexpected fault. In every
// failure case the log is left as it was.
//
// The returned Report is never nil.
func (r *Relay) Run(ctx context.Context) (report *Report, err error) {
	startedAt := r.now()
	report = &Report{RunID: r.runIDs.Generate()}
	logger := r.logger.With("run_id", report.RunID)

	defer func() {
		if err != nil && report.Outcome == "" {
			report.Outcome = OutcomeFailed
		}
		r.journalRun(ctx, logger, startedAt, report, err)
	}()

	submitted, err := r.ledger.Load()
	if err != nil {
		logger.Error("failed to load submitted names", "error", err)
		return report, err
	}
	logger.Debug("loaded submitted names", "count", len(submitted))

	fetched, err := r.source.RecentNameChanges(ctx, source.PageSize)
	if err != nil {
		report.Outcome = OutcomeSourceFailed
		logger.Error("something went wrong while fetching league name changes", "error", err)
		return report, err
	}
	report.Fetched = len(fetched)

	candidates := namechange.Candidates(fetched, submitted)
	report.Candidates = len(candidates)
	if len(candidates) == 0 {
		report.Outcome = OutcomeNothingNew
		logger.Info("no new name changes found to submit", "fetched", len(fetched))
		return report, nil
	}

	logger.Info("found new name changes to submit", "count", len(candidates), "fetched", len(fetched))
	for _, c := range candidates {
		logger.Debug("candidate", "old_name", c.OldName, "new_name", c.NewName)
	}

	if r.opts.DryRun {
		report.Outcome = OutcomeDryRun
		logger.Info("dry run, skipping submission")
		return report, nil
	}

	resp, err := r.destination.SubmitBulk(ctx, candidates)
	if err != nil {
		logger.Error("failed to submit name changes", "error", err)
		return report, err
	}
	report.StatusCode = resp.StatusCode

	if !resp.Accepted() {
		report.Outcome = OutcomeRejected
		logger.Error("something went wrong while submitting name changes",
			"status", resp.StatusCode,
			"body", resp.Body,
		)
		return report, &destination.RejectedError{StatusCode: resp.StatusCode, Body: resp.Body}
	}

	if err := r.ledger.Append(submitted, candidates); err != nil {
		logger.Error("failed to store submitted names", "error", err)
		return report, fmt.Errorf("destination accepted %d name change(s) but they were not stored: %w", len(candidates), err)
	}

	if resp.StatusCode == http.StatusCreated {
		report.Outcome = OutcomeSubmitted
	} else {
		report.Outcome = OutcomeAlreadyKnown
	}
	logger.Info("stored submitted names",
		"added", len(candidates),
		"total", len(submitted)+len(candidates),
		"status", resp.StatusCode,
	)
	return report, nil
}

// IsExpected reports whether err is a failure Run already logged and that
// should end the process normally: the next scheduled run retries.
func IsExpected(err error) bool {
	return source.IsFetchError(err) || destination.IsRejectedError(err)
}

func (r *Relay) journalRun(ctx context.Context, logger *slog.Logger, startedAt time.Time, report *Report, runErr error) {
	if r.journal == nil {
		return
	}

	run := store.Run{
		ID:         report.RunID,
		StartedAt:  startedAt,
		FinishedAt: r.now(),
		Fetched:    report.Fetched,
		Candidates: report.Candidates,
		StatusCode: report.StatusCode,
		Outcome:    string(report.Outcome),
	}
	if runErr != nil {
		run.Error = runErr.Error()
	}

	// The run already happened; a journal failure must not change its result.
	if err := r.journal.WriteRun(context.WithoutCancel(ctx), run); err != nil {
		logger.Warn("failed to write run journal", "error", err)
	}
}
