package config

import (
	"os"
	"strings"

	"codeberg.org/mutker/tempwatch/internal/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultEnvPrefix    = "TEMPWATCH"
	DefaultLogLevel     = "info"
	DefaultFormat       = "text"
	DefaultJournalDB    = "/var/lib/tempwatch/journal.db"
	DefaultBatchSize    = 32
	DefaultBatchTimeout = 5

	configName = "tempwatch"
)

type Config struct {
	LogLevel    string            `mapstructure:"log_level"`
	Format      string            `mapstructure:"format"`
	Input       string            `mapstructure:"input"`
	MetricsAddr string            `mapstructure:"metrics_addr"`
	PIDFile     string            `mapstructure:"pid_file"`
	Journal     JournalConfig     `mapstructure:"journal"`
	Thresholds  []ThresholdConfig `mapstructure:"thresholds"`
	Readings    []ReadingConfig   `mapstructure:"readings"`

	// Args holds the positional command line arguments
	Args []string `mapstructure:"-"`
	// ConfigFile is the file the configuration was read from, if any
	ConfigFile string `mapstructure:"-"`
}

type JournalConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	DBPath       string `mapstructure:"db_path"`
	BatchSize    int    `mapstructure:"batch_size"`
	BatchTimeout int    `mapstructure:"batch_timeout"`
}

type ThresholdConfig struct {
	Name      string  `mapstructure:"name"`
	Value     float64 `mapstructure:"value"`
	Unit      string  `mapstructure:"unit"`
	Direction string  `mapstructure:"direction"`
	Tolerance float64 `mapstructure:"tolerance"`
}

type ReadingConfig struct {
	Value float64 `mapstructure:"value"`
	Unit  string  `mapstructure:"unit"`
}

// DefaultThresholds are registered when the configuration defines none.
func DefaultThresholds() []ThresholdConfig {
	return []ThresholdConfig{
		{Name: "Freezing Point", Value: 0, Unit: "C", Direction: "above", Tolerance: 0.5},
		{Name: "Random Point", Value: 100, Unit: "F", Direction: "any direction"},
	}
}

// Load reads the configuration from defaults, the config file, environment
// variables and args, in increasing order of precedence.
func Load(args []string, opts ...Option) (*Config, error) {
	errFactory := errors.New()

	o := &options{envPrefix: DefaultEnvPrefix}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
		}
	}

	v := viper.New()
	fs := pflag.NewFlagSet(configName, pflag.ContinueOnError)

	configFlag := fs.StringP("config", "c", "", "Path to the configuration file")
	fs.String("log-level", DefaultLogLevel, "Log level (debug, info, warn, error)")
	fs.String("format", DefaultFormat, "Output format (text, json)")
	fs.StringP("input", "i", "", "Stream readings from a file, - for stdin")
	fs.String("metrics-addr", "", "Serve prometheus metrics on this address")
	fs.String("pid-file", "", "Refuse to start while another instance holds this PID file")
	fs.Bool("journal", false, "Record notifications in the sqlite journal")
	fs.String("journal-db", DefaultJournalDB, "Path to the journal database")

	if err := fs.Parse(args); err != nil {
		return nil, errFactory.Wrap(errors.ErrParseFlags, err)
	}

	bindings := map[string]string{
		"log_level":       "log-level",
		"format":          "format",
		"input":           "input",
		"metrics_addr":    "metrics-addr",
		"pid_file":        "pid-file",
		"journal.enabled": "journal",
		"journal.db_path": "journal-db",
	}
	for key, flag := range bindings {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return nil, errFactory.Wrap(errors.ErrBindFlags, err)
		}
	}

	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("format", DefaultFormat)
	v.SetDefault("input", "")
	v.SetDefault("metrics_addr", "")
	v.SetDefault("pid_file", "")
	v.SetDefault("journal.enabled", false)
	v.SetDefault("journal.db_path", DefaultJournalDB)
	v.SetDefault("journal.batch_size", DefaultBatchSize)
	v.SetDefault("journal.batch_timeout", DefaultBatchTimeout)

	v.SetEnvPrefix(o.envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicit file: option, then flag, then environment
	configPath := o.configPath
	if configPath == "" {
		configPath = *configFlag
	}
	if configPath == "" {
		configPath = os.Getenv(o.envPrefix + "_CONFIG")
	}

	v.SetConfigType("toml")
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/tempwatch")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configPath != "" {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errFactory.Wrap(errors.ErrReadConfig, err)
	}
	cfg.Args = fs.Args()
	cfg.ConfigFile = v.ConfigFileUsed()

	if len(cfg.Thresholds) == 0 {
		cfg.Thresholds = DefaultThresholds()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks settings that do not depend on other packages
func (c *Config) Validate() error {
	errFactory := errors.New()

	if !LogLevel(strings.ToLower(c.LogLevel)).IsValid() {
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}

	switch strings.ToLower(c.Format) {
	case "text", "json":
	default:
		return errFactory.WithData(errors.ErrInvalidFormat, c.Format)
	}

	if c.Journal.Enabled {
		if c.Journal.DBPath == "" || c.Journal.BatchSize < 1 || c.Journal.BatchTimeout < 0 {
			return errFactory.WithData(errors.ErrInvalidConfig, struct {
				Field string
				Value any
			}{
				Field: "journal",
				Value: c.Journal,
			})
		}
	}

	for i, t := range c.Thresholds {
		if strings.TrimSpace(t.Name) == "" || t.Unit == "" {
			return errFactory.WithData(errors.ErrInvalidConfig, struct {
				Field string
				Index int
			}{
				Field: "thresholds",
				Index: i,
			})
		}
	}

	return nil
}
