package cli

import (
	"io"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/aleksaelezovic/triq/internal/library"
	"github.com/aleksaelezovic/triq/internal/storage"
	"github.com/aleksaelezovic/triq/pkg/sparql/executor"
	"github.com/aleksaelezovic/triq/pkg/store"
)

// env is everything a command needs to run queries over the sample dataset.
type env struct {
	opts     *RootOptions
	out      io.Writer
	logger   log.Logger
	registry *prometheus.Registry
	store    *store.TripleStore
	executor *executor.Executor
}

func newEnv(cmd *cobra.Command, opts *RootOptions) (*env, error) {
	cfg := opts.config
	logger := newLogger(cmd.ErrOrStderr(), cfg.Log.Level)

	ts, err := storage.NewTripleStore(storage.Options{
		IndexCacheMB: cfg.Store.IndexCacheMB,
		BlockCacheMB: cfg.Store.BlockCacheMB,
		Logger:       logger,
	})
	if err != nil {
		return nil, WrapExitError(ExitFailure, "failed to open store", err)
	}

	n, err := ts.AddAll(library.SampleDataset())
	if err != nil {
		_ = ts.Close()
		return nil, WrapExitError(ExitFailure, "failed to load sample dataset", err)
	}
	level.Debug(logger).Log("msg", "sample dataset loaded", "triples", n)

	e := &env{opts: opts, out: cmd.OutOrStdout(), logger: logger, store: ts}

	execOpts := []executor.Option{executor.WithLogger(logger)}
	if cfg.Metrics.Enabled {
		e.registry = prometheus.NewRegistry()
		execOpts = append(execOpts, executor.WithRegisterer(e.registry))
	}
	e.executor = executor.NewExecutor(ts, execOpts...)

	return e, nil
}

// close prints the counters when --stats is set and releases the store.
func (e *env) close() error {
	if e.opts.Stats {
		if e.registry == nil {
			level.Warn(e.logger).Log("msg", "stats requested but metrics are disabled")
		} else if err := writeStats(e.out, e.registry); err != nil {
			level.Error(e.logger).Log("msg", "failed to gather metrics", "err", err)
		}
	}
	return e.store.Close()
}

// newLogger builds the stderr logfmt logger filtered at the given level.
func newLogger(w io.Writer, lvl string) log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	logger = level.NewFilter(logger, levelOption(lvl))
	return log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)
}

func levelOption(lvl string) level.Option {
	switch lvl {
	case "debug":
		return level.AllowDebug()
	case "warn":
		return level.AllowWarn()
	case "error":
		return level.AllowError()
	default:
		return level.AllowInfo()
	}
}

// runEnv opens an env, runs fn against it and closes it.
func runEnv(cmd *cobra.Command, opts *RootOptions, fn func(*env) error) (err error) {
	e, err := newEnv(cmd, opts)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := e.close(); cerr != nil && err == nil {
			err = WrapExitError(ExitFailure, "failed to close store", cerr)
		}
	}()
	return fn(e)
}
