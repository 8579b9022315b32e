package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"codeberg.org/mutker/tempwatch/internal/config"
	"codeberg.org/mutker/tempwatch/internal/errors"
	"codeberg.org/mutker/tempwatch/internal/journal"
	"codeberg.org/mutker/tempwatch/internal/logger"
	"codeberg.org/mutker/tempwatch/internal/monitor"
	"codeberg.org/mutker/tempwatch/internal/reading"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		LogLevel:   config.DefaultLogLevel,
		Format:     config.DefaultFormat,
		Thresholds: config.DefaultThresholds(),
		Journal: config.JournalConfig{
			DBPath:       config.DefaultJournalDB,
			BatchSize:    config.DefaultBatchSize,
			BatchTimeout: config.DefaultBatchTimeout,
		},
	}
}

func boilingConfig() *config.Config {
	cfg := testConfig()
	cfg.Thresholds = []config.ThresholdConfig{
		{Name: "Boiling Point", Value: 212, Unit: "F", Direction: "below"},
	}
	return cfg
}

var boilingArgs = []string{"300F", "212F", "200F", "212F", "211F", "212F", "180F", "212F", "211.5F"}

func lines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

func TestRunDemo(t *testing.T) {
	var out bytes.Buffer

	require.NoError(t, run(context.Background(), testConfig(), strings.NewReader(""), &out))
	assert.Equal(t,
		"Threshold 'Freezing Point' (0.00°C with a tolerance of 0.5) reached from above at index: 1.\n",
		out.String())
}

func TestRunArgs(t *testing.T) {
	cfg := boilingConfig()
	cfg.Args = boilingArgs
	var out bytes.Buffer

	require.NoError(t, run(context.Background(), cfg, strings.NewReader(""), &out))
	assert.Equal(t, []string{
		"Threshold 'Boiling Point' (212.00°F with a tolerance of 0) reached from below at index: 3.",
		"Threshold 'Boiling Point' (212.00°F with a tolerance of 0) reached from below at index: 5.",
		"Threshold 'Boiling Point' (212.00°F with a tolerance of 0) reached from below at index: 7.",
	}, lines(out.String()))
}

func TestRunConfiguredReadingsJSON(t *testing.T) {
	cfg := testConfig()
	cfg.Format = "json"
	cfg.Readings = []config.ReadingConfig{{Value: 1, Unit: "C"}, {Value: 0, Unit: "c"}}
	var out bytes.Buffer

	require.NoError(t, run(context.Background(), cfg, strings.NewReader(""), &out))

	var got map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "Freezing Point", got["threshold"])
	assert.Equal(t, "above", got["direction"])
	assert.InDelta(t, 1, got["index"], 0)
	assert.InDelta(t, 0.5, got["tolerance"], 0)
}

func TestRunStreamStdin(t *testing.T) {
	cfg := boilingConfig()
	cfg.Input = stdinInput
	in := strings.NewReader("# boiling\n" + strings.Join(boilingArgs, "\n") + "\n")
	var out bytes.Buffer

	require.NoError(t, run(context.Background(), cfg, in, &out))
	assert.Len(t, lines(out.String()), 3)
}

func TestRunStreamFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "readings.txt")
	require.NoError(t, os.WriteFile(path, []byte("1.0C\n0.0C\n-2.0C\n"), 0o600))

	cfg := testConfig()
	cfg.Input = path
	var out bytes.Buffer

	require.NoError(t, run(context.Background(), cfg, strings.NewReader(""), &out))
	assert.Contains(t, out.String(), "at index: 1.")
}

func TestRunStreamMissingFile(t *testing.T) {
	cfg := testConfig()
	cfg.Input = filepath.Join(t.TempDir(), "missing.txt")

	err := run(context.Background(), cfg, strings.NewReader(""), &bytes.Buffer{})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrFeedReadings))
}

func TestRunInvalidReading(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown unit", args: []string{"1.0C", "2.0K"}},
		{name: "missing unit", args: []string{"1.0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.Args = tt.args
			var out bytes.Buffer

			err := run(context.Background(), cfg, strings.NewReader(""), &out)
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.ErrFeedReadings))
			assert.Empty(t, out.String())
		})
	}
}

func TestRunInvalidThresholds(t *testing.T) {
	tests := []struct {
		name       string
		thresholds []config.ThresholdConfig
		code       errors.ErrorCode
	}{
		{
			name:       "unknown direction",
			thresholds: []config.ThresholdConfig{{Name: "A", Value: 1, Unit: "C", Direction: "sideways"}},
			code:       errors.ErrInitApp,
		},
		{
			name: "duplicate name",
			thresholds: []config.ThresholdConfig{
				{Name: "A", Value: 1, Unit: "C"},
				{Name: "A", Value: 2, Unit: "C"},
			},
			code: monitor.ErrDuplicateThresholdName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.Thresholds = tt.thresholds

			err := run(context.Background(), cfg, strings.NewReader(""), &bytes.Buffer{})
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, tt.code))
		})
	}
}

func TestRunJournal(t *testing.T) {
	cfg := boilingConfig()
	cfg.Args = boilingArgs
	cfg.Journal.Enabled = true
	cfg.Journal.DBPath = filepath.Join(t.TempDir(), "journal.db")
	cfg.Journal.BatchTimeout = 0

	require.NoError(t, run(context.Background(), cfg, strings.NewReader(""), &bytes.Buffer{}))

	repo, err := journal.NewRepository(journalConfig(cfg.Journal), logger.Get())
	require.NoError(t, err)
	defer repo.Close()

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestRunPIDFile(t *testing.T) {
	cfg := testConfig()
	cfg.PIDFile = filepath.Join(t.TempDir(), "tempwatch.pid")

	require.NoError(t, run(context.Background(), cfg, strings.NewReader(""), &bytes.Buffer{}))

	_, err := os.Stat(cfg.PIDFile)
	assert.True(t, os.IsNotExist(err), "PID file should be removed on exit")
}

func freeAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return addr
}

func TestRunServesMetricsUntilCancelled(t *testing.T) {
	cfg := testConfig()
	cfg.MetricsAddr = freeAddr(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var out bytes.Buffer
	done := make(chan error, 1)
	go func() {
		done <- run(ctx, cfg, strings.NewReader(""), &out)
	}()

	url := "http://" + cfg.MetricsAddr + "/metrics"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		if err != nil || resp.StatusCode != http.StatusOK {
			return false
		}
		return strings.Contains(string(body), "tempwatch_readings_total 6") &&
			strings.Contains(string(body), `tempwatch_notifications_total{direction="above",threshold="Freezing Point"} 1`)
	}, 5*time.Second, 20*time.Millisecond)

	// Still serving once the readings are exhausted
	select {
	case err := <-done:
		t.Fatalf("run returned before cancellation: %v", err)
	default:
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("run did not stop after cancel")
	}
	assert.Contains(t, out.String(), "Freezing Point")
}

func TestRunMetricsAddrInUse(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	cfg := testConfig()
	cfg.MetricsAddr = ln.Addr().String()

	err = run(context.Background(), cfg, strings.NewReader(""), &bytes.Buffer{})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrServeMetrics))
}

func TestCoded(t *testing.T) {
	appErr := errors.New().Wrap(errors.ErrFeedReadings, fmt.Errorf("reading 2: bad unit"))
	assert.Equal(t, errors.ErrFeedReadings, coded(fmt.Errorf("stream: %w", appErr)).Code())

	plain := fmt.Errorf("boom")
	got := coded(plain)
	assert.Equal(t, errors.ErrInternal, got.Code())
	assert.ErrorIs(t, got, plain)
}

func TestReadingsPrecedence(t *testing.T) {
	cfg := testConfig()

	rs, err := readings(cfg)
	require.NoError(t, err)
	assert.Equal(t, reading.Demo(), rs)

	cfg.Readings = []config.ReadingConfig{{Value: 3, Unit: "F"}}
	rs, err = readings(cfg)
	require.NoError(t, err)
	assert.Equal(t, []reading.Reading{{Value: 3, Unit: "F"}}, rs)

	cfg.Args = []string{"4C"}
	rs, err = readings(cfg)
	require.NoError(t, err)
	assert.Equal(t, []reading.Reading{{Value: 4, Unit: "C"}}, rs)
}

func TestBuildMonitorKeepsOrder(t *testing.T) {
	m, err := buildMonitor(config.DefaultThresholds())
	require.NoError(t, err)

	ths := m.Thresholds()
	require.Len(t, ths, 2)
	assert.Equal(t, "Freezing Point", ths[0].Name())
	assert.Equal(t, "Random Point", ths[1].Name())
}
