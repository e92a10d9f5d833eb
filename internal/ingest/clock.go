package ingest

import (
	"context"
	"sync/atomic"
	"time"
)

// Clock supplies wall time and cancellable sleeps.
type Clock interface {
	Now() time.Time
	// Sleep blocks for d or until ctx is done, returning ctx.Err() in the latter case.
	Sleep(ctx context.Context, d time.Duration) error
}

// SystemClock is the real clock.
type SystemClock struct{}

// Now returns the local time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// Sleep waits on a timer that is stopped if ctx finishes first.
func (SystemClock) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Sequence hands out strictly increasing cycle numbers.
//
// Thread-safety: Sequence is safe for concurrent use (atomic operations),
// though the loop only calls Next from its own goroutine.
type Sequence struct {
	seq atomic.Int64
}

// NewSequenceAt creates a sequence whose next value is start+1.
// Used to resume numbering from the ledger after a restart.
func NewSequenceAt(start int64) *Sequence {
	s := &Sequence{}
	s.seq.Store(start)
	return s
}

// Next returns the next sequence number.
func (s *Sequence) Next() int64 {
	return s.seq.Add(1)
}

// Current returns the last value handed out.
func (s *Sequence) Current() int64 {
	return s.seq.Load()
}
