// Package store provides an optional SQLite journal of relay runs.
//
// Every invocation of the relay appends one row to the runs table, whatever
// its outcome. The journal is diagnostic only: the submitted names log stays
// the single source of truth for what was forwarded, and a journal failure
// never changes a run's outcome.
//
// # Database Configuration
//
//   - WAL mode: the history command can read while a run writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//
// Rows are returned newest first, ordered by started_at then id.
package store
