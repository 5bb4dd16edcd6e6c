// Fluxvision connects to an InfluxDB 2.x instance and lets you pick the
// bucket to work with.
//
// Credentials are saved before connectivity is checked, either locally in the
// configuration directory or on a fluxvision-server reached with --server.
//
// Usage:
//
//	fluxvision [command] [flags]
//
// Running without arguments launches the interactive TUI.
// See 'fluxvision --help' for available commands.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/fluxvision/internal/config"
	"github.com/muurk/fluxvision/internal/logging"
	"github.com/muurk/fluxvision/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logging.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Global flags
var (
	serverURL string
	logLevel  string
)

// prefs holds the preferences loaded before every command
var prefs = config.DefaultPreferences()

var rootCmd = &cobra.Command{
	Use:   "fluxvision",
	Short: "InfluxDB credential and bucket explorer",
	Long: `Connect to an InfluxDB 2.x instance and pick the bucket to work with.

Credentials are saved before connectivity is checked. By default they live in
the local configuration directory; with --server they are kept by a
fluxvision-server instance instead (--server auto finds one over mDNS).

If no command is specified, the interactive TUI will launch automatically.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentPreRunE = setup

	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", `fluxvision-server URL ("auto" = discover over mDNS, empty = local mode)`)
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); silent when unset")

	rootCmd.AddCommand(versionCmd)
}

// setup loads preferences, fills flag defaults from them and configures
// logging. The TUI logs to a file so output never lands on its screen.
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.LoadPreferences()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: ignoring preferences: %v\n", err)
	} else {
		prefs = loaded
	}

	if !cmd.Flags().Changed("server") && prefs.ServerURL != "" {
		serverURL = prefs.ServerURL
	}
	if !cmd.Flags().Changed("log-level") && logLevel == "" {
		logLevel = prefs.LogLevel
	}

	opts := logging.Options{Level: logLevel, OutputPath: "stderr"}
	if isTUICommand(cmd) {
		if err := config.EnsureConfigDir(); err != nil {
			return err
		}
		if opts.OutputPath, err = config.GetLogPath(); err != nil {
			return err
		}
	}
	if err := logging.Configure(opts); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	logging.Debug("Starting", zap.String("command", cmd.CommandPath()), zap.String("version", version.Full()))
	return nil
}

func isTUICommand(cmd *cobra.Command) bool {
	return cmd == rootCmd || cmd == tuiCmd
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("fluxvision %s\n", version.Get())
	},
}
