package testutil

import (
	"fmt"
	"sync"
)

// RunIDs generates predictable render run ids: prefix-0001, prefix-0002 and
// so on. They sort in creation order like the UUIDv7 ids used outside tests.
//
// Thread-safety: Next is safe for concurrent use.
type RunIDs struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewRunIDs creates a generator. An empty prefix means "run".
func NewRunIDs(prefix string) *RunIDs {
	if prefix == "" {
		prefix = "run"
	}
	return &RunIDs{prefix: prefix}
}

// Next returns the next id. It never fails; the error result matches the
// signature render.Options.NewRunID expects.
func (g *RunIDs) Next() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%04d", g.prefix, g.n), nil
}
