// Package config holds the process-wide defaults for the CLI and any
// embedding program: data directory, log level, and the default fetch and
// join budgets used when a caller does not specify one explicitly.
package config

import (
	"os"
	"os/user"
	"path/filepath"
	"runtime"

	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

// Default filenames.
const (
	// DefaultBlockDir is the default name of the folder containing the
	// BadgerDB-backed block store.
	DefaultBlockDir = "blocks"
)

// Default configuration values.
const (
	DefaultLogLevel = "info"

	// DefaultFetchBudget mirrors fetch.FetchAll's budget parameter: -1
	// means unbounded.
	DefaultFetchBudget = -1

	// DefaultJoinSize mirrors causallog.Join's size parameter: -1 means
	// use the sum of both logs' lengths.
	DefaultJoinSize = -1
)

// Config holds the settings shared by the CLI commands.
type Config struct {
	// DataDir is the top-level directory containing the causal-log's
	// on-disk block store and any CLI state.
	DataDir string `mapstructure:"datadir"`

	// LogLevel determines the chattiness of log output.
	LogLevel string `mapstructure:"log"`

	// DefaultFetchBudget is used by CLI commands that fetch entries (log,
	// expand) when the user doesn't pass an explicit --fetch-budget flag.
	DefaultFetchBudget int `mapstructure:"fetch-budget"`

	// DefaultJoinSize is used by the join CLI command when the user
	// doesn't pass an explicit --join-size flag. -1 means use the sum of both
	// logs' lengths.
	DefaultJoinSize int `mapstructure:"join-size"`

	// LogFile, if set, additionally routes warning-and-above log records
	// to this file via rifflock/lfshook.
	LogFile string `mapstructure:"log-file"`

	logger *logrus.Logger
}

// NewDefaultConfig returns a Config populated with this package's
// Default* values and a data directory under the user's home directory.
func NewDefaultConfig() *Config {
	return &Config{
		DataDir:            DefaultDataDir(),
		LogLevel:           DefaultLogLevel,
		DefaultFetchBudget: DefaultFetchBudget,
		DefaultJoinSize:    DefaultJoinSize,
	}
}

// BlockStorePath returns the path of the on-disk block store under
// DataDir.
func (c *Config) BlockStorePath() string {
	return filepath.Join(c.DataDir, DefaultBlockDir)
}

// Logger returns a formatted logrus Entry, with prefix set to "causallog".
// The underlying *logrus.Logger is created lazily and cached so repeated
// calls share one instance.
func (c *Config) Logger() *logrus.Entry {
	if c.logger == nil {
		c.logger = logrus.New()
		level, err := logrus.ParseLevel(c.LogLevel)
		if err != nil {
			level = logrus.InfoLevel
		}
		c.logger.Level = level
		c.logger.Formatter = new(prefixed.TextFormatter)
	}
	return c.logger.WithField("prefix", "causallog")
}

// DefaultDataDir returns the default directory for causal-log state,
// attempting to respect OS conventions.
func DefaultDataDir() string {
	home := homeDir()
	if home == "" {
		return ".causallog"
	}
	if runtime.GOOS == "windows" {
		return filepath.Join(home, "CausalLog")
	}
	return filepath.Join(home, ".causallog")
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if u, err := user.Current(); err == nil {
		return u.HomeDir
	}
	return ""
}
