// Package archive persists per-tick population statistics so runs can be
// inspected after the fact. Two stores exist: an in-memory one for tests and
// ephemeral runs, and a SQLite one for anything worth keeping.
package archive

import "context"

// TickStats is one population's summary for one tick.
type TickStats struct {
	RunID       string
	Tick        uint64
	Population  string
	Size        int
	NumOrgs     int
	MeanFitness float64
	MaxFitness  float64
}

// Store is the persistence surface for run statistics.
type Store interface {
	// Init prepares the store (creates tables, etc.).
	Init(ctx context.Context) error
	// SaveTickStats appends one statistics row.
	SaveTickStats(ctx context.Context, s TickStats) error
	// TickStats returns every row recorded for a run, in tick order.
	TickStats(ctx context.Context, runID string) ([]TickStats, error)
	// Close releases any underlying resources.
	Close() error
}
