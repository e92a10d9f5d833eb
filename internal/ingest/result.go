package ingest

import (
	"fmt"
	"time"

	"github.com/roach88/meteofetch/internal/fetch"
	"github.com/roach88/meteofetch/internal/snapshot"
	"github.com/roach88/meteofetch/internal/store"
)

// Outcome classifies a finished cycle.
type Outcome int

const (
	// OutcomeSuccess means the master dataset was rewritten.
	OutcomeSuccess Outcome = iota

	// OutcomeTransportError means the GET failed or returned a non-2xx status.
	OutcomeTransportError

	// OutcomeDataError covers everything else: file I/O, parsing, encoding.
	OutcomeDataError
)

// String returns the ledger name of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return store.OutcomeSuccess
	case OutcomeTransportError:
		return store.OutcomeTransportError
	case OutcomeDataError:
		return store.OutcomeDataError
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Result describes one cycle.
type Result struct {
	ID         string
	Seq        int64
	StartedAt  time.Time
	FinishedAt time.Time
	Outcome    Outcome
	Err        error

	Snapshot   snapshot.Paths
	BodySHA256 string

	RowsFetched int // rows parsed from the cleaned snapshot
	RowsAdded   int // rows new to the master dataset
	MasterRows  int // rows in the master dataset after the merge
}

// OK reports whether the cycle succeeded.
func (r Result) OK() bool {
	return r.Outcome == OutcomeSuccess
}

// Duration is the wall time the cycle took.
func (r Result) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// LogMessage is the outcome line logged when the cycle finishes.
func (r Result) LogMessage() string {
	switch r.Outcome {
	case OutcomeSuccess:
		return "New data appended successfully to master file."
	case OutcomeTransportError:
		return fmt.Sprintf("HTTP request error: %v", r.Err)
	default:
		return fmt.Sprintf("An error occurred: %v", r.Err)
	}
}

// classify maps a cycle error onto an outcome.
func classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSuccess
	case fetch.IsTransportError(err):
		return OutcomeTransportError
	default:
		return OutcomeDataError
	}
}

// ledgerRecord converts a result into a ledger row.
func (r Result) ledgerRecord(url string) store.Cycle {
	c := store.Cycle{
		ID:          r.ID,
		Seq:         r.Seq,
		StartedAt:   r.StartedAt,
		FinishedAt:  r.FinishedAt,
		Outcome:     r.Outcome.String(),
		URL:         url,
		BodySHA256:  r.BodySHA256,
		RowsFetched: r.RowsFetched,
		RowsAdded:   r.RowsAdded,
		MasterRows:  r.MasterRows,
	}
	if r.Outcome != OutcomeTransportError {
		c.RawPath = r.Snapshot.Raw
		c.CleanedPath = r.Snapshot.Cleaned
	}
	if r.Err != nil {
		c.Error = r.Err.Error()
	}
	return c
}
