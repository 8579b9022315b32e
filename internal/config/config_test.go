package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/mutker/tempwatch/internal/config"
	"codeberg.org/mutker/tempwatch/internal/errors"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tempwatch.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const fullConfig = `
log_level = "debug"
format = "json"
metrics_addr = "127.0.0.1:9310"

[journal]
enabled = true
db_path = "/tmp/tempwatch/journal.db"
batch_size = 4
batch_timeout = 0

[[thresholds]]
name = "Boiling Point"
value = 212
unit = "F"
direction = "below"
tolerance = 1

[[thresholds]]
name = "Freezing Point"
value = 0.0
unit = "C"

[[readings]]
value = 300
unit = "F"

[[readings]]
value = 99.5
unit = "C"
`

func TestLoad(t *testing.T) {
	t.Setenv("TEMPWATCH_CONFIG", "")
	path := writeConfig(t, fullConfig)

	cfg, err := config.Load(nil, config.WithConfigFile(path))
	require.NoError(t, err)

	assert.Equal(t, path, cfg.ConfigFile)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "127.0.0.1:9310", cfg.MetricsAddr)
	assert.Equal(t, config.JournalConfig{
		Enabled:      true,
		DBPath:       "/tmp/tempwatch/journal.db",
		BatchSize:    4,
		BatchTimeout: 0,
	}, cfg.Journal)
	assert.Equal(t, []config.ThresholdConfig{
		{Name: "Boiling Point", Value: 212, Unit: "F", Direction: "below", Tolerance: 1},
		{Name: "Freezing Point", Value: 0, Unit: "C"},
	}, cfg.Thresholds)
	assert.Equal(t, []config.ReadingConfig{
		{Value: 300, Unit: "F"},
		{Value: 99.5, Unit: "C"},
	}, cfg.Readings)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TEMPWATCH_CONFIG", "")

	cfg, err := config.Load(nil)
	require.NoError(t, err)

	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, config.DefaultFormat, cfg.Format)
	assert.Empty(t, cfg.Input)
	assert.Empty(t, cfg.MetricsAddr)
	assert.Empty(t, cfg.ConfigFile)
	assert.False(t, cfg.Journal.Enabled)
	assert.Equal(t, config.DefaultJournalDB, cfg.Journal.DBPath)
	assert.Equal(t, config.DefaultBatchSize, cfg.Journal.BatchSize)
	assert.Equal(t, config.DefaultBatchTimeout, cfg.Journal.BatchTimeout)
	assert.Equal(t, config.DefaultThresholds(), cfg.Thresholds)
	assert.Empty(t, cfg.Readings)
}

func TestLoadConfigPathFromEnv(t *testing.T) {
	path := writeConfig(t, `format = "json"`)
	t.Setenv("TEMPWATCH_CONFIG", path)

	cfg, err := config.Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Format)
}

func TestFlagsOverrideFileAndEnv(t *testing.T) {
	path := writeConfig(t, fullConfig)
	t.Setenv("TEMPWATCH_CONFIG", "")
	t.Setenv("TEMPWATCH_LOG_LEVEL", "error")

	cfg, err := config.Load([]string{
		"--config", path,
		"--format", "text",
		"-i", "-",
		"--journal-db", "/tmp/other.db",
		"21.5C", "70F",
	})
	require.NoError(t, err)

	assert.Equal(t, "text", cfg.Format)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, "-", cfg.Input)
	assert.Equal(t, "/tmp/other.db", cfg.Journal.DBPath)
	assert.Equal(t, []string{"21.5C", "70F"}, cfg.Args)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, fullConfig)
	t.Setenv("TEMPWATCH_CONFIG", path)
	t.Setenv("TEMPWATCH_JOURNAL_BATCH_SIZE", "9")

	cfg, err := config.Load(nil)
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Journal.BatchSize)
}

func TestLoadConfigFileInvalidFormat(t *testing.T) {
	t.Setenv("TEMPWATCH_CONFIG", "")
	path := writeConfig(t, "This is not a valid TOML file\n")

	_, err := config.Load(nil, config.WithConfigFile(path))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrReadConfig))
	assert.Contains(t, err.Error(), "Failed to read configuration")
}

func TestLoadMissingExplicitFile(t *testing.T) {
	t.Setenv("TEMPWATCH_CONFIG", "")

	_, err := config.Load(nil, config.WithConfigFile(filepath.Join(t.TempDir(), "missing.toml")))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrReadConfig))
}

func TestInvalidLogLevel(t *testing.T) {
	t.Setenv("TEMPWATCH_CONFIG", "")
	path := writeConfig(t, `log_level = "invalid"`)

	_, err := config.Load(nil, config.WithConfigFile(path))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidLogLevel))
}

func TestInvalidOutputFormat(t *testing.T) {
	t.Setenv("TEMPWATCH_CONFIG", "")

	_, err := config.Load([]string{"--format", "xml"})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidFormat))
}

func TestJournalRequiresDBPath(t *testing.T) {
	t.Setenv("TEMPWATCH_CONFIG", "")

	_, err := config.Load([]string{"--journal", "--journal-db", ""})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidConfig))
}

func TestThresholdNeedsName(t *testing.T) {
	t.Setenv("TEMPWATCH_CONFIG", "")
	path := writeConfig(t, "[[thresholds]]\nvalue = 1\nunit = \"C\"\n")

	_, err := config.Load(nil, config.WithConfigFile(path))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidConfig))
}

func TestLogLevelFlag(t *testing.T) {
	t.Setenv("TEMPWATCH_CONFIG", "")

	cfg, err := config.Load([]string{"--log-level", "debug"})
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel, "Expected LogLevel to be set by flag")
}

func TestHelpFlag(t *testing.T) {
	t.Setenv("TEMPWATCH_CONFIG", "")

	_, err := config.Load([]string{"--help"})
	require.Error(t, err)
	assert.ErrorIs(t, err, pflag.ErrHelp)
	assert.True(t, errors.HasCode(err, errors.ErrParseFlags))
}
