// Package main provides the sharpboard command line: a live odds board with
// movement tracking, filters and slip risk math.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/sharpboard/internal/backend"
	"github.com/yourusername/sharpboard/internal/config"
	"github.com/yourusername/sharpboard/internal/dashboard"
	applog "github.com/yourusername/sharpboard/internal/logger"
	"github.com/yourusername/sharpboard/internal/metrics"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	envFile    string
	logger     *logrus.Logger
	logCloser  io.Closer
	cfg        *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", config.DefaultPath, "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Optional dotenv file loaded before the configuration")

	rootCmd.AddCommand(watchCmd, boardCmd, exportCmd, pingCmd, ticketCmd, demoCmd, versionCmd)
}

var rootCmd = &cobra.Command{
	Use:   "sharpboard",
	Short: "Live sportsbook odds board with steam detection and slip risk math",
	Long: `sharpboard polls a board backend, tracks line movement and steam,
filters and sorts the board, and prices single or parlay slips.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == versionCmd.Name() {
			return nil
		}
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		return setupLogging()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logCloser != nil {
			return logCloser.Close()
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "sharpboard %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to load env file: %w", err)
		}
	}

	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	return config.ValidateEnvironment(cfg)
}

func setupLogging() error {
	logger = applog.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	// Keep stdout for board output
	logger.SetOutput(os.Stderr)

	closer, err := applog.AddFileOutput(logger, cfg.App.LogFile)
	if err != nil {
		return err
	}
	logCloser = closer

	metrics.InitRegistry()
	return nil
}

// newSession builds the backend client and a session wired from config.
func newSession() (*dashboard.Session, *backend.Client, error) {
	client, err := backend.NewClient(&cfg.Backend, logger)
	if err != nil {
		return nil, nil, err
	}

	session, err := dashboard.NewFromConfig(cfg, client, logger)
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	return session, client, nil
}
