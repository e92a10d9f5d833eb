package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/roach88/meteofetch/internal/config"
	"github.com/roach88/meteofetch/internal/dataset"
	"github.com/roach88/meteofetch/internal/fetch"
	"github.com/roach88/meteofetch/internal/snapshot"
	"github.com/roach88/meteofetch/internal/store"
)

// Fetcher downloads the remote snapshot.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*fetch.Result, error)
}

// Recorder persists a ledger row per cycle.
type Recorder interface {
	RecordCycle(ctx context.Context, c store.Cycle) error
}

// NextDelay chooses how long to sleep after a cycle.
type NextDelay func(Result) time.Duration

// Loop runs ingestion cycles for one configuration.
type Loop struct {
	cfg       config.Config
	fetcher   Fetcher
	recorder  Recorder
	clock     Clock
	seq       *Sequence
	ids       IDGenerator
	logger    *slog.Logger
	nextDelay NextDelay
}

// Option configures a Loop.
type Option func(*Loop)

// WithFetcher replaces the HTTP fetcher.
func WithFetcher(f Fetcher) Option {
	return func(l *Loop) { l.fetcher = f }
}

// WithRecorder enables the cycle ledger.
func WithRecorder(r Recorder) Option {
	return func(l *Loop) { l.recorder = r }
}

// WithClock replaces the system clock.
func WithClock(c Clock) Option {
	return func(l *Loop) { l.clock = c }
}

// WithStartSeq resumes cycle numbering after seq.
func WithStartSeq(seq int64) Option {
	return func(l *Loop) { l.seq = NewSequenceAt(seq) }
}

// WithIDGenerator replaces the UUIDv7 cycle ID generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(l *Loop) { l.ids = g }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loop) { l.logger = logger }
}

// WithNextDelay overrides the fixed-interval policy, e.g. to back off
// after transport errors.
func WithNextDelay(f NextDelay) Option {
	return func(l *Loop) { l.nextDelay = f }
}

// New creates a Loop. The config is used as given; callers validate it.
func New(cfg config.Config, opts ...Option) *Loop {
	l := &Loop{
		cfg:   cfg,
		clock: SystemClock{},
		seq:   NewSequenceAt(0),
		ids:   UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(l)
	}

	if l.fetcher == nil {
		l.fetcher = fetch.New(fetch.Config{Timeout: cfg.Timeout, MaxBytes: cfg.MaxBodyBytes})
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	if l.nextDelay == nil {
		interval := cfg.Interval
		l.nextDelay = func(Result) time.Duration { return interval }
	}
	return l
}

// Initialize creates the input directory and an empty master file if none
// exists. An existing master file, empty or not, is never altered.
func (l *Loop) Initialize() error {
	if err := os.MkdirAll(l.cfg.InputDir, 0755); err != nil {
		return fmt.Errorf("create input directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(l.cfg.MasterPath), 0755); err != nil {
		return fmt.Errorf("create master directory: %w", err)
	}

	f, err := os.OpenFile(l.cfg.MasterPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if errors.Is(err, fs.ErrExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("create master file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("create master file: %w", err)
	}
	l.logger.Info("created empty master file", "path", l.cfg.MasterPath)
	return nil
}

// Run drives cycles until ctx is cancelled, sleeping between them.
// It returns ctx.Err().
func (l *Loop) Run(ctx context.Context) error {
	l.logger.Info("ingestion loop starting", "url", l.cfg.URL, "interval", l.cfg.Interval)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		res := l.RunCycle(ctx)

		if err := l.clock.Sleep(ctx, l.nextDelay(res)); err != nil {
			l.logger.Info("ingestion loop stopping", "reason", err)
			return err
		}
	}
}

// RunCycle performs one fetch-clean-merge cycle. It never panics on cycle
// errors and always logs exactly one outcome line.
func (l *Loop) RunCycle(ctx context.Context) Result {
	res := Result{
		ID:        l.ids.Generate(),
		Seq:       l.seq.Next(),
		StartedAt: l.clock.Now(),
	}
	res.Snapshot = snapshot.PathsFor(l.cfg.InputDir, l.cfg.SnapshotPrefix, res.StartedAt)

	res.Err = l.cycle(ctx, &res)
	res.Outcome = classify(res.Err)
	res.FinishedAt = l.clock.Now()

	// Outcome lines carry no attributes; details go to the DEBUG line and the ledger.
	if res.OK() {
		l.logger.Info(res.LogMessage())
	} else {
		l.logger.Error(res.LogMessage())
	}
	l.logger.Debug("cycle finished",
		"cycle", res.ID,
		"outcome", res.Outcome.String(),
		"rows_fetched", res.RowsFetched,
		"rows_added", res.RowsAdded,
		"master_rows", res.MasterRows,
		"duration", res.Duration(),
	)

	l.record(ctx, res)
	return res
}

func (l *Loop) cycle(ctx context.Context, res *Result) error {
	body, err := l.fetcher.Fetch(ctx, l.cfg.URL)
	if err != nil {
		return err
	}
	res.BodySHA256 = body.Hash

	if err := snapshot.WriteRaw(res.Snapshot.Raw, body.Body); err != nil {
		return err
	}
	l.logger.Info("Successfully fetched file: " + res.Snapshot.Raw)
	l.logger.Debug("snapshot written", "cycle", res.ID, "bytes", len(body.Body), "sha256", res.BodySHA256)

	kept, err := snapshot.Clean(res.Snapshot.Raw, res.Snapshot.Cleaned, snapshot.CleanOptions{
		TrailerLines: l.cfg.TrailerLines,
		Validate:     l.cfg.ValidateTrailer,
		Delimiter:    dataset.Delimiter,
	})
	if err != nil {
		return err
	}
	l.logger.Debug("snapshot cleaned", "cycle", res.ID, "lines", kept, "path", res.Snapshot.Cleaned)

	incoming, err := dataset.ReadFile(res.Snapshot.Cleaned)
	if err != nil {
		return err
	}
	res.RowsFetched = incoming.Len()

	master, err := dataset.LoadMaster(l.cfg.MasterPath)
	if err != nil {
		return err
	}

	merged, stats := dataset.Merge(master, incoming)
	if err := dataset.WriteFile(l.cfg.MasterPath, merged); err != nil {
		return err
	}
	res.RowsAdded = stats.Added
	res.MasterRows = stats.Total
	return nil
}

// record writes the ledger row. Ledger failures are logged, never returned.
func (l *Loop) record(ctx context.Context, res Result) {
	if l.recorder == nil {
		return
	}
	// A cancelled run still records the cycle that was interrupted.
	ctx = context.WithoutCancel(ctx)
	if err := l.recorder.RecordCycle(ctx, res.ledgerRecord(l.cfg.URL)); err != nil {
		l.logger.Warn("failed to record cycle", "cycle", res.ID, "error", err)
	}
}
