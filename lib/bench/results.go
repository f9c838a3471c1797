package bench

import (
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"
)

// Results stores the result sets of all scenarios of a run. It is safe for
// concurrent use; All returns the sets in insertion order.
type Results struct {
	seq  atomic.Uint64
	sets *xsync.MapOf[string, storedSet]
}

type storedSet struct {
	seq uint64
	rs  ResultSet
}

// NewResults creates an empty store.
func NewResults() *Results {
	return &Results{sets: xsync.NewMapOf[string, storedSet]()}
}

// Add stores rs under its scenario name. A scenario name can only be added
// once; the first set stays and Add returns an error.
func (r *Results) Add(rs ResultSet) error {
	_, loaded := r.sets.LoadOrCompute(rs.Scenario, func() storedSet {
		return storedSet{seq: r.seq.Add(1), rs: rs}
	})
	if loaded {
		return fmt.Errorf("scenario %q already has results", rs.Scenario)
	}
	return nil
}

// Get returns the result set of scenario.
func (r *Results) Get(scenario string) (ResultSet, bool) {
	s, ok := r.sets.Load(scenario)
	return s.rs, ok
}

// Len returns the number of stored scenarios.
func (r *Results) Len() int {
	return r.sets.Size()
}

// All returns all result sets in insertion order.
func (r *Results) All() []ResultSet {
	stored := make([]storedSet, 0, r.sets.Size())
	r.sets.Range(func(_ string, s storedSet) bool {
		stored = append(stored, s)
		return true
	})
	sort.Slice(stored, func(i, j int) bool { return stored[i].seq < stored[j].seq })

	out := make([]ResultSet, len(stored))
	for i, s := range stored {
		out[i] = s.rs
	}
	return out
}
