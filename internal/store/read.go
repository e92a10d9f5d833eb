package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// MaxSeq returns the highest recorded seq, or 0 for an empty ledger.
// The ingestion loop resumes its clock from here after a restart.
func (s *Store) MaxSeq(ctx context.Context) (int64, error) {
	var seq sql.NullInt64
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(seq) FROM cycles`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("max seq: %w", err)
	}
	return seq.Int64, nil
}

// RecentCycles returns up to limit of the most recent cycles, oldest first.
// A limit <= 0 returns every cycle.
//
// Returns an empty slice (not nil) if the ledger is empty.
func (s *Store) RecentCycles(ctx context.Context, limit int) ([]Cycle, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, seq, started_at, finished_at, outcome, url, raw_path, cleaned_path,
		       body_sha256, rows_fetched, rows_added, master_rows, error
		FROM (
			SELECT * FROM cycles ORDER BY seq DESC, id COLLATE BINARY DESC LIMIT ?
		)
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query cycles: %w", err)
	}
	defer rows.Close()

	cycles := []Cycle{}
	for rows.Next() {
		c, err := scanCycle(rows)
		if err != nil {
			return nil, err
		}
		cycles = append(cycles, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cycles: %w", err)
	}
	return cycles, nil
}

// CountByOutcome returns the number of cycles per outcome.
func (s *Store) CountByOutcome(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT outcome, COUNT(*) FROM cycles GROUP BY outcome ORDER BY outcome
	`)
	if err != nil {
		return nil, fmt.Errorf("count cycles: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var outcome string
		var n int
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[outcome] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate counts: %w", err)
	}
	return counts, nil
}

func scanCycle(rows *sql.Rows) (Cycle, error) {
	var c Cycle
	var started, finished string
	err := rows.Scan(
		&c.ID, &c.Seq, &started, &finished, &c.Outcome, &c.URL, &c.RawPath, &c.CleanedPath,
		&c.BodySHA256, &c.RowsFetched, &c.RowsAdded, &c.MasterRows, &c.Error,
	)
	if err != nil {
		return Cycle{}, fmt.Errorf("scan cycle: %w", err)
	}

	if c.StartedAt, err = time.Parse(timeLayout, started); err != nil {
		return Cycle{}, fmt.Errorf("parse started_at: %w", err)
	}
	if c.FinishedAt, err = time.Parse(timeLayout, finished); err != nil {
		return Cycle{}, fmt.Errorf("parse finished_at: %w", err)
	}
	return c, nil
}
