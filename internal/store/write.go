package store

import (
	"context"
	"fmt"
	"time"
)

// Outcome values stored in the cycles table.
const (
	OutcomeSuccess        = "success"
	OutcomeTransportError = "transport_error"
	OutcomeDataError      = "data_error"
)

// timeLayout stores timestamps as sortable UTC text.
const timeLayout = time.RFC3339Nano

// Cycle is one ledger row.
type Cycle struct {
	ID          string    `json:"id"`
	Seq         int64     `json:"seq"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
	Outcome     string    `json:"outcome"`
	URL         string    `json:"url"`
	RawPath     string    `json:"raw_path,omitempty"`
	CleanedPath string    `json:"cleaned_path,omitempty"`
	BodySHA256  string    `json:"body_sha256,omitempty"`
	RowsFetched int       `json:"rows_fetched"`
	RowsAdded   int       `json:"rows_added"`
	MasterRows  int       `json:"master_rows"`
	Error       string    `json:"error,omitempty"`
}

// RecordCycle inserts a cycle record.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate IDs are silently ignored.
func (s *Store) RecordCycle(ctx context.Context, c Cycle) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cycles
		(id, seq, started_at, finished_at, outcome, url, raw_path, cleaned_path,
		 body_sha256, rows_fetched, rows_added, master_rows, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		c.ID,
		c.Seq,
		c.StartedAt.UTC().Format(timeLayout),
		c.FinishedAt.UTC().Format(timeLayout),
		c.Outcome,
		c.URL,
		c.RawPath,
		c.CleanedPath,
		c.BodySHA256,
		c.RowsFetched,
		c.RowsAdded,
		c.MasterRows,
		c.Error,
	)
	if err != nil {
		return fmt.Errorf("record cycle: %w", err)
	}
	return nil
}
