package archive

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists run statistics to a SQLite database file. The driver
// is pure Go, so no cgo toolchain is needed.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database %q: %w", path, err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS tick_stats (
	run_id       TEXT    NOT NULL,
	tick         INTEGER NOT NULL,
	population   TEXT    NOT NULL,
	size         INTEGER NOT NULL,
	num_orgs     INTEGER NOT NULL,
	mean_fitness REAL    NOT NULL,
	max_fitness  REAL    NOT NULL,
	PRIMARY KEY (run_id, tick, population)
);
CREATE INDEX IF NOT EXISTS idx_tick_stats_run ON tick_stats (run_id, tick);
`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init archive schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) SaveTickStats(ctx context.Context, st TickStats) error {
	const q = `
INSERT OR REPLACE INTO tick_stats
	(run_id, tick, population, size, num_orgs, mean_fitness, max_fitness)
VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q,
		st.RunID, st.Tick, st.Population, st.Size, st.NumOrgs, st.MeanFitness, st.MaxFitness)
	if err != nil {
		return fmt.Errorf("save tick stats: %w", err)
	}
	return nil
}

func (s *SQLiteStore) TickStats(ctx context.Context, runID string) ([]TickStats, error) {
	const q = `
SELECT run_id, tick, population, size, num_orgs, mean_fitness, max_fitness
FROM tick_stats WHERE run_id = ? ORDER BY tick, population`
	rows, err := s.db.QueryContext(ctx, q, runID)
	if err != nil {
		return nil, fmt.Errorf("query tick stats: %w", err)
	}
	defer rows.Close()

	var out []TickStats
	for rows.Next() {
		var st TickStats
		if err := rows.Scan(&st.RunID, &st.Tick, &st.Population, &st.Size,
			&st.NumOrgs, &st.MeanFitness, &st.MaxFitness); err != nil {
			return nil, fmt.Errorf("scan tick stats row: %w", err)
		}
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tick stats rows: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
