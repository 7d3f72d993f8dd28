// Package commands wires the logdag CLI's cobra root command and
// subcommands together: persistent flags bound through viper, a
// lazily-initialized config, and an Execute entry point that exits
// non-zero on failure.
package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rifflock/lfshook"

	"github.com/oriole-systems/causallog/config"
	"github.com/oriole-systems/causallog/store"
	"github.com/oriole-systems/causallog/version"
)

var cfg = config.NewDefaultConfig()

var rootCmd = &cobra.Command{
	Use:   "logdag",
	Short: "Inspect and grow a content-addressed causal log",
	Long: `logdag is a reference client for the causal-log library: it keeps a
single log's current head pointer under its data directory and exposes
commands to append to it, inspect it, expand it from the store, and join it
with another log's head.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("datadir", cfg.DataDir, "top-level directory for the block store and HEAD pointer")
	rootCmd.PersistentFlags().String("log", cfg.LogLevel, "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-file", cfg.LogFile, "additionally log warnings and above to this file")
	rootCmd.PersistentFlags().Int("fetch-budget", cfg.DefaultFetchBudget, "default entry fetch budget, -1 for unbounded")
	rootCmd.PersistentFlags().Int("join-size", cfg.DefaultJoinSize, "default join result size, -1 for unbounded")

	viper.BindPFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(appendCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(joinCmd)
	rootCmd.AddCommand(expandCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	viper.SetEnvPrefix("LOGDAG")
	viper.AutomaticEnv()

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		fmt.Fprintln(os.Stderr, "logdag: binding flags:", err)
		os.Exit(1)
	}
	if err := viper.Unmarshal(cfg); err != nil {
		fmt.Fprintln(os.Stderr, "logdag: unmarshaling config:", err)
		os.Exit(1)
	}

	if cfg.LogFile != "" {
		pathMap := lfshook.PathMap{
			logrus.WarnLevel:  cfg.LogFile,
			logrus.ErrorLevel: cfg.LogFile,
			logrus.FatalLevel: cfg.LogFile,
			logrus.PanicLevel: cfg.LogFile,
		}
		cfg.Logger().Logger.Hooks.Add(lfshook.NewHook(pathMap, &logrus.TextFormatter{}))
	}
}

// openStore opens the disk store rooted at cfg.BlockStorePath, creating the
// directory tree first since badger.Open does not create parent dirs.
func openStore() (*store.Disk, error) {
	if err := os.MkdirAll(cfg.BlockStorePath(), 0755); err != nil {
		return nil, err
	}
	return store.OpenDisk(cfg.BlockStorePath())
}

func headPath() string {
	return filepath.Join(cfg.DataDir, "HEAD")
}

func readHead() (string, error) {
	raw, err := os.ReadFile(headPath())
	if err != nil {
		return "", err
	}
	return trimNewline(string(raw)), nil
}

func writeHead(hash string) error {
	return os.WriteFile(headPath(), []byte(hash+"\n"), 0644)
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}

// Execute runs the root command, exiting with status 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "logdag:", err)
		os.Exit(1)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the logdag version",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(version.Version)
		return nil
	},
}
