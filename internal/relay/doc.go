// Package relay forwards new name changes from the source system to the
// destination system.
//
// A run is strictly sequential:
//
//  1. load the submitted names log
//  2. fetch one page of recent name changes from the source
//  3. keep the records not already in the log
//  4. submit them as one batch to the destination
//  5. append them to the log if the destination answered 201 or 400
//
// The log is written at most once per run and only after the destination
// accepted the batch, so a failed run leaves it untouched and the same
// records are submitted again next time. No state survives between runs
// other than the log (and the optional journal).
package relay
