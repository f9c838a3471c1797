package bench

import (
	"runtime"

	"github.com/ValentinKolb/aggbench/lib/codec"
)

// Entry is a registered codec with its payload type erased, so codecs of
// different payload types share one list.
type Entry[T Value[T]] struct {
	// Name is the codec name
	Name string
	run  func(value T) Row
}

// Register creates the entry of codec c.
func Register[T Value[T], P any](c codec.ICodec[T, P]) Entry[T] {
	return Entry[T]{
		Name: c.Name(),
		run: func(value T) Row {
			return Run(value, c)
		},
	}
}

// Run measures one round trip of value through the entry's codec.
func (e Entry[T]) Run(value T) Row {
	return e.run(value)
}

// ResultSet is the ordered result of one scenario.
type ResultSet struct {
	// Scenario is the name of the scenario
	Scenario string
	// Rows holds one row per codec in registration order
	Rows []Row
}

// Failed returns the rows whose value did not survive the round trip.
func (rs ResultSet) Failed() []Row {
	var failed []Row
	for _, row := range rs.Rows {
		if !row.Ok() {
			failed = append(failed, row)
		}
	}
	return failed
}

// Option configures RunScenario.
type Option func(*scenarioConfig)

type scenarioConfig struct {
	gc      bool
	metrics *Metrics
	results *Results
}

// WithGC enables or disables a garbage collection before each measurement.
func WithGC(enabled bool) Option {
	return func(c *scenarioConfig) {
		c.gc = enabled
	}
}

// WithMetrics records every row in m.
func WithMetrics(m *Metrics) Option {
	return func(c *scenarioConfig) {
		c.metrics = m
	}
}

// WithResults stores the result set in r once the scenario completes. A
// scenario name already present in r is logged and not stored again.
func WithResults(r *Results) Option {
	return func(c *scenarioConfig) {
		c.results = r
	}
}

// RunScenario runs every entry once over value, sequentially and in order.
// Every entry receives the same value and yields exactly one row, so the
// result set always has len(entries) rows, even if every codec fails.
func RunScenario[T Value[T]](name string, value T, entries []Entry[T], opts ...Option) ResultSet {
	cfg := scenarioConfig{gc: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	log.Infof("scenario %q: running %d codecs", name, len(entries))
	rs := ResultSet{Scenario: name, Rows: make([]Row, 0, len(entries))}
	for _, entry := range entries {
		if cfg.gc {
			runtime.GC()
		}
		row := entry.Run(value)
		if cfg.metrics != nil {
			cfg.metrics.Observe(name, row)
		}
		rs.Rows = append(rs.Rows, row)
	}

	if failed := len(rs.Failed()); failed > 0 {
		log.Warningf("scenario %q: %d of %d codecs failed", name, failed, len(entries))
	} else {
		log.Infof("scenario %q: all codecs ok", name)
	}

	if cfg.results != nil {
		if err := cfg.results.Add(rs); err != nil {
			log.Errorf("scenario %q: results not stored: %v", name, err)
		}
	}
	return rs
}
