// Package cmd implements the CLI commands for rpipipe using Cobra.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/gaurav-prasanna/rpipipe/core"
	"github.com/gaurav-prasanna/rpipipe/core/output"
	"github.com/gaurav-prasanna/rpipipe/core/sink"
	"github.com/gaurav-prasanna/rpipipe/internal/config"
	"github.com/gaurav-prasanna/rpipipe/internal/logx"
	"github.com/spf13/cobra"
)

// Persistent flag variables.
var (
	flagConfig    string
	flagLogLevel  string
	flagLogFormat string
	flagSink      string
	flagOutputDir string
)

var rootCmd = &cobra.Command{
	Use:   "rpipipe",
	Short: "rpipipe: ingest industrial-property gazette issues into a document store",
	Long: `rpipipe is a deterministic ingestion pipeline for the industrial-property
gazette (RPI). It downloads an issue's archives, converts each publication
(trademarks, patents, software, contracts, designs) into canonical records
and bulk-inserts them, one collection per publication type.

Usage:
  rpipipe run [flags]
  rpipipe fetch [flags]
  rpipipe ingest <file|dir>... [flags]
  rpipipe last-issue <type> [flags]`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "Log format: text or json")
	rootCmd.PersistentFlags().StringVar(&flagSink, "sink", "", "Sink kind: mongo or file")
	rootCmd.PersistentFlags().StringVar(&flagOutputDir, "output_dir", "", "Output directory for the file sink")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig layers defaults, the config file, the environment and flags.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	cfg = config.ApplyEnv(cfg, os.Getenv)

	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	if flagLogFormat != "" {
		cfg.Log.Format = flagLogFormat
	}
	if flagSink != "" {
		cfg.Sink.Kind = flagSink
	}
	if flagOutputDir != "" {
		cfg.Sink.File.Dir = flagOutputDir
	}
	return cfg, cfg.Validate()
}

func newLogger(cfg config.Config) *slog.Logger {
	return logx.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
}

// openSink connects the configured sink. The returned func releases it.
func openSink(ctx context.Context, cfg config.Config) (core.Sink, func(), error) {
	switch cfg.Sink.Kind {
	case config.SinkFile:
		w, err := output.New(cfg.Sink.File.Dir)
		if err != nil {
			return nil, nil, fmt.Errorf("initializing output writer: %w", err)
		}
		return w, func() {}, nil
	default:
		s, err := sink.Connect(ctx, cfg.Sink.Mongo.URI, cfg.Sink.Mongo.Database)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close(context.Background()) }, nil
	}
}
