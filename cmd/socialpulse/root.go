package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"socialpulse/pkg/config"
	"socialpulse/pkg/logger"
	"socialpulse/pkg/store"
	"socialpulse/pkg/store/gormstore"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string

	// Loaded in PersistentPreRunE, available to every subcommand.
	cfg *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "socialpulse",
	Short: "Cross-platform social media metrics collector",
	Long: `SocialPulse collects account and post metrics from Instagram, TikTok,
YouTube and X/Twitter into one normalized time-series store.

Features:
  - Secure API key storage using system keychain
  - Per-platform rate limiting and automatic retry with backoff
  - Append-only metric snapshots for historical tracking
  - Per-run audit log with per-account outcomes`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return err
		}
		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}
		return logger.Initialize(&cfg.Logging)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is .socialpulse.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.SetVersionTemplate(`SocialPulse {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// openStore connects to the configured database backend.
func openStore() (store.Store, error) {
	if cfg.Database.DSN == "" {
		return nil, fmt.Errorf("no database configured (set SOCIALPULSE_DATABASE_DSN or database.dsn)")
	}
	return gormstore.Open(cfg.Database.DSN)
}
