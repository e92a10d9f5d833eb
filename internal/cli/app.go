package cli

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/roach88/meteofetch/internal/config"
	"github.com/roach88/meteofetch/internal/ingest"
	"github.com/roach88/meteofetch/internal/logging"
	"github.com/roach88/meteofetch/internal/store"
)

// app bundles everything a command needs: config, the log file, the
// optional ledger, and the ingestion loop wired to them.
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	logFile *os.File
	ledger  *store.Store
	loop    *ingest.Loop
}

// openApp loads config and opens the log file and ledger.
// Callers must Close the returned app.
func openApp(ctx context.Context, opts *RootOptions) (*app, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}

	logFile, err := logging.OpenFile(cfg.LogPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open log file", err)
	}

	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(logging.NewHandler(logFile, level))
	slog.SetDefault(logger)

	a := &app{cfg: cfg, logger: logger, logFile: logFile}

	loopOpts := []ingest.Option{ingest.WithLogger(logger)}
	if cfg.LedgerPath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LedgerPath), 0755); err != nil {
			a.Close()
			return nil, WrapExitError(ExitCommandError, "failed to create ledger directory", err)
		}
		st, err := store.Open(cfg.LedgerPath)
		if err != nil {
			a.Close()
			return nil, WrapExitError(ExitCommandError, "failed to open ledger", err)
		}
		a.ledger = st

		seq, err := st.MaxSeq(ctx)
		if err != nil {
			a.Close()
			return nil, WrapExitError(ExitCommandError, "failed to read ledger", err)
		}
		loopOpts = append(loopOpts, ingest.WithRecorder(st), ingest.WithStartSeq(seq))
	}

	a.loop = ingest.New(cfg, loopOpts...)
	return a, nil
}

// Close releases the ledger and the log file.
func (a *app) Close() {
	if a.ledger != nil {
		if err := a.ledger.Close(); err != nil {
			a.logger.Error("error closing ledger", "error", err)
		}
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
}

// initialize runs the one-time master store initialization.
// Failure here is fatal for every command that runs cycles.
func (a *app) initialize() error {
	if err := a.loop.Initialize(); err != nil {
		a.logger.Error("An error occurred: " + err.Error())
		return WrapExitError(ExitCommandError, "failed to initialize master file", err)
	}
	return nil
}
