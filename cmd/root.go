package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-fileprobe/internal/config"
	"github.com/deploymenttheory/go-fileprobe/internal/logger"
	"github.com/deploymenttheory/go-fileprobe/pkg/app"
	"github.com/deploymenttheory/go-fileprobe/pkg/engine"
)

var (
	// Global output flags
	verbose      bool
	quiet        bool
	outputFormat string

	// Configuration and logging
	configFile string
	logLevel   string
	logFormat  string
	logFile    string

	// Set up by PersistentPreRunE for the running command
	appCtx   *app.Context
	cfg      *config.Config
	closeLog func() error
	stopFn   context.CancelFunc
)

var rootCmd = &cobra.Command{
	Use:   "fileprobe",
	Short: "Classify, hash, scan and package files and iOS app archives",
	Long: `fileprobe identifies files by their content, decodes Mach-O headers, computes
digests, scans directory trees and performs bulk copy, move and delete operations.
It also creates and extracts ZIP archives and reads metadata from .ipa app archives.

Commands:
  classify    Detect file types from content and extension
  inspect     Show the full record for files or directories
  digest      Compute MD5, SHA-1 and SHA-256
  macho       Decode Mach-O and universal binary headers
  scan        List and filter a directory tree
  compare     Compare two files byte by byte
  verify      Check a file against an expected SHA-256
  delete      Delete files
  copy        Copy files into a directory
  move        Move files into a directory
  archive     Create, extract or validate ZIP archives
  bundle      Read metadata from an .ipa app archive
  config      Show the effective configuration`,
	Version:           "0.1.0-dev",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return teardown()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	if closeErr := teardown(); err == nil && closeErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", closeErr)
		err = closeErr
	}
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress output except errors")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format (table, json, yaml)")

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: ./fileprobe.yaml, $HOME/.fileprobe/fileprobe.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (text, json)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write logs to this rotating file")

	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
}

// setup loads configuration, applies flag overrides and builds the engine
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(configFile)
	if err != nil {
		return err
	}
	applyFlagOverrides(cmd, loaded)
	if err := loaded.Validate(); err != nil {
		return err
	}
	cfg = loaded

	log, closer, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	closeLog = closer

	eng, err := engine.New(engine.WithConfig(cfg), engine.WithLogger(log))
	if err != nil {
		return err
	}

	appCtx = app.NewContext(eng, log)
	appCtx.OutputFormat = cfg.Output.Format
	appCtx.Verbose = verbose
	appCtx.Quiet = quiet
	appCtx.Out = cmd.OutOrStdout()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	appCtx.Context = ctx
	stopFn = stop

	appCtx.Logger.Debug("command started", "command", cmd.CommandPath(), "config", configFile)
	return nil
}

// applyFlagOverrides lets explicitly set flags win over file and environment settings
func applyFlagOverrides(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("output") {
		c.Output.Format = outputFormat
	}
	if flags.Changed("log-level") {
		c.Log.Level = logLevel
	} else if quiet {
		c.Log.Level = "error"
	}
	if flags.Changed("log-format") {
		c.Log.Format = logFormat
	}
	if flags.Changed("log-file") {
		c.Log.File = logFile
	}
}

func teardown() error {
	if stopFn != nil {
		stopFn()
		stopFn = nil
	}
	if closeLog != nil {
		err := closeLog()
		closeLog = nil
		return err
	}
	return nil
}

// render writes a response with the formatter for the active output format
func render[T any](formatter func(io.Writer, T, string) error, response T) error {
	if appCtx.Quiet && appCtx.OutputFormat == app.FormatTable {
		return nil
	}
	return formatter(appCtx.Writer(), response, appCtx.OutputFormat)
}
