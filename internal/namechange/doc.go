// Package namechange defines the name change record shared by every stage of
// the relay.
//
// This package contains the record type, its validation and the set
// difference used to pick submission candidates. It imports nothing internal,
// so ledger, source, destination and relay can all depend on it.
//
// Key constraints:
//   - Record is comparable; equality is structural (both names equal)
//   - JSON tags use camelCase (oldName, newName) to match both remote APIs
//   - Names are compared byte-for-byte, no case folding or normalization
package namechange
