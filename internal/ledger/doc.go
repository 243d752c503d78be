// Package ledger persists the submitted names log: the list of name change
// records already accepted by the destination.
//
// The log is a single JSON array on disk, indented with two spaces. A missing
// file is an empty log. The file is only ever rewritten with the previous
// contents plus new records appended at the end; nothing is removed.
//
// All file access goes through an afero.Fs, so tests run on a memory
// filesystem and the CLI on the OS filesystem.
package ledger
