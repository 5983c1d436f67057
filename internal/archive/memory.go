package archive

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps statistics in process memory. It is safe for concurrent
// use, though the run loop itself is single-threaded.
type MemoryStore struct {
	mu   sync.Mutex
	rows []TickStats
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) Init(ctx context.Context) error { return nil }

func (m *MemoryStore) SaveTickStats(ctx context.Context, s TickStats) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, s)
	return nil
}

func (m *MemoryStore) TickStats(ctx context.Context, runID string) ([]TickStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []TickStats
	for _, r := range m.rows {
		if r.RunID == runID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Tick < out[j].Tick })
	return out, nil
}

func (m *MemoryStore) Close() error { return nil }
