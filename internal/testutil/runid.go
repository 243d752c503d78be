package testutil

import "sync"

// FixedRunIDGenerator returns predetermined run IDs in order.
//
// This enables deterministic assertions on log lines and journal rows.
//
// Thread-safety: FixedRunIDGenerator is safe for concurrent use via internal mutex.
type FixedRunIDGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedRunIDGenerator creates a generator that returns ids in order.
//
// If no ids are given, Generate() always returns "test-run".
//
//	gen := NewFixedRunIDGenerator("run-1", "run-2")
//	gen.Generate() // "run-1"
//	gen.Generate() // "run-2"
//	gen.Generate() // panic: all run IDs exhausted
func NewFixedRunIDGenerator(ids ...string) *FixedRunIDGenerator {
	return &FixedRunIDGenerator{ids: ids}
}

// Generate returns the next predetermined run ID.
//
// Panics if all IDs have been consumed, so a test that runs the relay more
// often than expected fails loudly.
func (g *FixedRunIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.ids) == 0 {
		return "test-run"
	}
	if g.idx >= len(g.ids) {
		panic("FixedRunIDGenerator: all run IDs exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}
