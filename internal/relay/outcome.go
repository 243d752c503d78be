package relay

// Outcome classifies how a run ended.
type Outcome string

const (
	// OutcomeNothingNew: every fetched record was already in the log.
	OutcomeNothingNew Outcome = "nothing_new"
	// OutcomeSubmitted: destination answered 201, log updated.
	OutcomeSubmitted Outcome = "submitted"
	// OutcomeAlreadyKnown: destination answered 400, log updated.
	OutcomeAlreadyKnown Outcome = "already_known"
	// OutcomeRejected: destination answered another status, log untouched.
	OutcomeRejected Outcome = "rejected"
	// OutcomeSourceFailed: source did not return a usable page, nothing submitted.
	OutcomeSourceFailed Outcome = "source_failed"
	// OutcomeDryRun: candidates computed and logged, nothing submitted.
	OutcomeDryRun Outcome = "dry_run"
	// OutcomeFailed: unexpected fault (ledger I/O, destination transport).
	OutcomeFailed Outcome = "failed"
)

// Persisted reports whether the outcome appended records to the log.
func (o Outcome) Persisted() bool {
	return o == OutcomeSubmitted || o == OutcomeAlreadyKnown
}

// Report summarizes a finished run.
type Report struct {
	RunID      string
	Fetched    int
	Candidates int
	// StatusCode is the destination status, 0 if nothing was submitted.
	StatusCode int
	Outcome    Outcome
}
