package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"codeberg.org/mutker/tempwatch/internal/config"
	"codeberg.org/mutker/tempwatch/internal/driver"
	"codeberg.org/mutker/tempwatch/internal/errors"
	"codeberg.org/mutker/tempwatch/internal/journal"
	"codeberg.org/mutker/tempwatch/internal/logger"
	"codeberg.org/mutker/tempwatch/internal/metrics"
	"codeberg.org/mutker/tempwatch/internal/monitor"
	"codeberg.org/mutker/tempwatch/internal/pid"
	"codeberg.org/mutker/tempwatch/internal/reading"
	"codeberg.org/mutker/tempwatch/internal/report"
	"codeberg.org/mutker/tempwatch/internal/threshold"
	"github.com/spf13/pflag"
)

const stdinInput = "-"

type app struct {
	cfg      *config.Config
	monitor  *monitor.Monitor
	recorder *metrics.Recorder
	journal  journal.Journal
	out      *report.Writer
}

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.LogLevel, logger.IsService()); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.Debug().Str("config_file", cfg.ConfigFile).Msg("Config loaded")

	ctx, cancel := context.WithCancel(context.Background())
	go handleSignals(cancel)

	err = run(ctx, cfg, os.Stdin, os.Stdout)
	cancel()
	if err != nil {
		logger.FatalWithCode(coded(err)).Msg("tempwatch failed")
	}
}

// coded returns the outermost coded error in err's chain, wrapping anything
// else as an internal error.
func coded(err error) errors.Error {
	var appErr errors.Error
	if errors.As(err, &appErr) {
		return appErr
	}

	return errors.New().Wrap(errors.ErrInternal, err)
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}

// run processes the configured readings and writes notifications to stdout.
func run(ctx context.Context, cfg *config.Config, stdin io.Reader, stdout io.Writer) (err error) {
	errFactory := errors.New()

	if cfg.PIDFile != "" {
		if err := pid.Write(cfg.PIDFile); err != nil {
			return err
		}
		defer func() {
			if rmErr := pid.Remove(cfg.PIDFile); rmErr != nil {
				logger.Error().Err(rmErr).Msg("failed to remove PID file")
			}
		}()
	}

	a, err := newApp(cfg, stdout)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.cleanup(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	serveCtx, stopServe := context.WithCancel(ctx)
	defer stopServe()

	var serveErr chan error
	if cfg.MetricsAddr != "" {
		serveErr = make(chan error, 1)
		go func() {
			serveErr <- a.recorder.Serve(serveCtx, cfg.MetricsAddr)
		}()
	}

	if err := a.process(ctx, stdin); err != nil {
		return err
	}

	if serveErr == nil {
		return nil
	}

	// Keep exposing metrics until asked to stop
	logger.Info().Str("addr", cfg.MetricsAddr).Msg("Readings processed, serving metrics until terminated")
	select {
	case <-ctx.Done():
		stopServe()
		err = <-serveErr
	case err = <-serveErr:
	}
	if err != nil {
		return errFactory.Wrap(errors.ErrServeMetrics, err)
	}

	return nil
}

func newApp(cfg *config.Config, stdout io.Writer) (*app, error) {
	errFactory := errors.New()

	format, err := report.ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}

	recorder := metrics.NewRecorder()

	m, err := buildMonitor(cfg.Thresholds, monitor.WithObserver(recorder))
	if err != nil {
		return nil, errFactory.Wrap(errors.ErrInitApp, err)
	}

	j, err := journal.New(journalConfig(cfg.Journal), logger.Get())
	if err != nil {
		return nil, errFactory.Wrap(errors.ErrInitJournal, err)
	}

	logger.Debug().
		Int("thresholds", len(cfg.Thresholds)).
		Str("run_id", j.RunID()).
		Msg("Monitor initialized")

	return &app{
		cfg:      cfg,
		monitor:  m,
		recorder: recorder,
		journal:  j,
		out:      report.NewWriter(stdout, format),
	}, nil
}

// buildMonitor registers thresholds in configuration order.
func buildMonitor(thresholds []config.ThresholdConfig, opts ...monitor.Option) (*monitor.Monitor, error) {
	m := monitor.New(opts...)

	for _, tc := range thresholds {
		th, err := threshold.New(tc.Name, tc.Value, tc.Unit,
			threshold.WithDirection(tc.Direction),
			threshold.WithTolerance(tc.Tolerance),
		)
		if err != nil {
			return nil, fmt.Errorf("threshold %q: %w", tc.Name, err)
		}

		if err := m.Register(th); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func journalConfig(jc config.JournalConfig) journal.Config {
	return journal.Config{
		DBPath:       jc.DBPath,
		BatchSize:    jc.BatchSize,
		BatchTimeout: jc.BatchTimeout,
		Enabled:      jc.Enabled,
	}
}

// readings picks positional arguments over configured readings, and falls
// back to the demo sequence when neither is given.
func readings(cfg *config.Config) ([]reading.Reading, error) {
	if len(cfg.Args) > 0 {
		return reading.ParseAll(cfg.Args)
	}

	if len(cfg.Readings) > 0 {
		out := make([]reading.Reading, len(cfg.Readings))
		for i, rc := range cfg.Readings {
			out[i] = reading.Reading{Value: rc.Value, Unit: rc.Unit}
		}
		return out, nil
	}

	return reading.Demo(), nil
}

func (a *app) process(ctx context.Context, stdin io.Reader) error {
	if a.cfg.Input != "" {
		return a.stream(ctx, stdin)
	}

	return a.list(ctx)
}

// list records every reading before printing the accumulated notifications.
func (a *app) list(ctx context.Context) error {
	errFactory := errors.New()

	rs, err := readings(a.cfg)
	if err != nil {
		return errFactory.Wrap(errors.ErrFeedReadings, err)
	}

	ns, err := driver.Feed(a.monitor, rs)
	if err != nil {
		return err
	}

	for _, n := range ns {
		if err := a.journal.Record(ctx, n); err != nil {
			return errFactory.Wrap(errors.ErrRecordJournal, err)
		}
	}

	if err := a.out.WriteAll(ns); err != nil {
		return errFactory.Wrap(errors.ErrWriteReport, err)
	}

	return nil
}

// stream prints notifications as soon as each reading produces them.
func (a *app) stream(ctx context.Context, stdin io.Reader) error {
	errFactory := errors.New()

	in := stdin
	if a.cfg.Input != stdinInput {
		f, err := os.Open(a.cfg.Input)
		if err != nil {
			return errFactory.Wrap(errors.ErrFeedReadings, err)
		}
		defer f.Close()
		in = f
	}

	count, err := driver.Stream(ctx, a.monitor, in, func(n monitor.Notification) error {
		if err := a.out.Write(n); err != nil {
			return err
		}
		if err := a.journal.Record(ctx, n); err != nil {
			return errFactory.Wrap(errors.ErrRecordJournal, err)
		}
		return nil
	})
	logger.Debug().Int("readings", count).Msg("Stream finished")

	return err
}

func (a *app) cleanup() error {
	if err := a.journal.Close(); err != nil {
		logger.Error().Err(err).Msg("failed to close journal")
		return errors.New().Wrap(errors.ErrCloseJournal, err)
	}
	logger.Debug().Msg("Exiting...")

	return nil
}
