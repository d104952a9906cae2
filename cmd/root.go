package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"packetchat/config"
)

var (
	configPath string
	logFile    string
	logLevel   string

	// conf is loaded before any subcommand runs
	conf       config.Config
	loadedFrom string
	logCloser  io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "packetchat",
	Short: "APRS chat client for KISS TNCs and APRS-IS",
	Long: `packetchat - A terminal APRS client.

Talks to a KISS TNC over TCP (host:port), a serial port, or a WebSocket
bridge (ws:// or wss://), or to an APRS-IS server. Without a subcommand it
starts the interactive terminal UI.

Settings are read from --config, ./packetchat.toml or ~/.packetchat.toml.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The TUI owns the terminal, so its logs go to a file
		if err := setupLogging(!cmd.HasParent() || cmd.Name() == "tui"); err != nil {
			return err
		}
		return loadConfig()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			logCloser.Close()
		}
	},
	RunE: runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default ./packetchat.toml or ~/.packetchat.toml)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "packetchat.log", "Log file used by the terminal UI")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}

func setupLogging(toFile bool) error {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}

	var w io.Writer = os.Stderr
	if toFile {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		w = f
		logCloser = f
	}

	log.SetDefault(log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
	}))
	return nil
}

func loadConfig() error {
	loadedFrom = configPath
	if loadedFrom == "" {
		loadedFrom = config.Find()
	}

	var err error
	conf, err = config.LoadConfig(loadedFrom)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log.Debug("Loaded config", "path", loadedFrom)
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
