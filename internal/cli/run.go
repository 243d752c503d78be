package cli

import (
	"context"
	"log/slog"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/roach88/namerelay/internal/config"
	"github.com/roach88/namerelay/internal/destination"
	"github.com/roach88/namerelay/internal/ledger"
	"github.com/roach88/namerelay/internal/logging"
	"github.com/roach88/namerelay/internal/relay"
	"github.com/roach88/namerelay/internal/source"
	"github.com/roach88/namerelay/internal/store"
)

// RunOptions holds flags for a relay run.
type RunOptions struct {
	*RootOptions
	DryRun bool
}

var banner = strings.Repeat("*", 64)

// loadConfig resolves configuration for any command.
func loadConfig(opts *RootOptions) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if opts.Environ != nil {
		cfg, err = config.LoadFrom(opts.ConfigPath, opts.Environ)
	} else {
		cfg, err = config.Load(opts.ConfigPath)
	}
	if err != nil {
		return config.Config{}, WrapExitError(ExitCommandError, "failed to load configuration", err)
	}
	if opts.Verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

func runRelay(opts *RunOptions, cmd *cobra.Command) error {
	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return err
	}

	logger, closeLog, err := logging.New(logging.Options{
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		Level:      cfg.LogLevel,
		Stdout:     cmd.OutOrStdout(),
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to set up logging", err)
	}
	defer closeLog()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	logger.Info(banner)
	logger.Info("name change submitter starting", "ledger", cfg.LedgerPath, "dry_run", opts.DryRun)

	src := source.NewClient(cfg.SourceURL, cfg.UserAgent, cfg.HTTPTimeout, logger)
	dst := destination.NewClient(cfg.DestinationURL, cfg.HTTPTimeout, logger)
	if opts.Transport != nil {
		src.HTTPClient().Transport = opts.Transport
		dst.HTTPClient().Transport = opts.Transport
	}

	deps := relay.Deps{
		Source:      src,
		Destination: dst,
		Ledger:      ledger.New(opts.fs(), cfg.LedgerPath),
		Logger:      logger,
		RunIDs:      opts.RunIDs,
	}

	if cfg.HistoryDB != "" {
		st, err := store.Open(cfg.HistoryDB)
		if err != nil {
			// The journal is diagnostic only; the run goes on without it.
			logger.Warn("run journal unavailable", "path", cfg.HistoryDB, "error", err)
		} else {
			defer closeStore(st, logger)
			deps.Journal = st
		}
	}

	report, err := relay.New(deps, relay.Options{DryRun: opts.DryRun}).Run(ctx)
	if err != nil && !relay.IsExpected(err) {
		return WrapExitError(ExitFailure, "relay run failed", err)
	}

	logger.Info("name change submitter complete",
		"run_id", report.RunID,
		"outcome", report.Outcome,
	)
	logger.Info(banner)
	return nil
}

func (o *RootOptions) fs() afero.Fs {
	if o.FS != nil {
		return o.FS
	}
	return ledger.OSFs()
}

func closeStore(st *store.Store, logger *slog.Logger) {
	if err := st.Close(); err != nil {
		logger.Error("error closing run journal", "error", err)
	}
}
