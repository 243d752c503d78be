package namechange

// Candidates returns the records of fetched that do not appear in submitted.
//
// Order of fetched is preserved. Duplicates inside fetched are kept, only
// membership in submitted is checked. The result is never nil.
func Candidates(fetched, submitted []Record) []Record {
	seen := make(map[Record]struct{}, len(submitted))
	for _, r := range submitted {
		seen[r] = struct{}{}
	}

	out := make([]Record, 0, len(fetched))
	for _, r := range fetched {
		if _, ok := seen[r]; ok {
			continue
		}
		out = append(out, r)
	}
	return out
}
