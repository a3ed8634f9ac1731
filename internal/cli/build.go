//-------------------------------------------------------------------------
//
// pgEdge Mart Builder
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-martbuild/internal/logging"
	"github.com/pgEdge/pgedge-martbuild/internal/mart"
)

var (
	buildInputDir  string
	buildOutputDir string
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the mart from the processed extracts",
	Long: `Read the seven processed extracts from the input directory, derive
the fact and dimension tables and write them as CSV files to the output
directory. The output directory is created if it does not exist and
existing files in it are overwritten.

Example:
  pgedge-martbuild build
  pgedge-martbuild build --input-dir data/processed --output-dir data/powerbi`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&buildInputDir, "input-dir", "",
		"directory holding the *_clean.csv extracts (default: data/processed)")
	buildCmd.Flags().StringVar(&buildOutputDir, "output-dir", "",
		"directory receiving the mart files (default: data/powerbi)")
}

func runBuild(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if buildInputDir != "" {
		cfg.InputDir = buildInputDir
	}
	if buildOutputDir != "" {
		cfg.OutputDir = buildOutputDir
	}

	if err := cfg.ValidateBuild(); err != nil {
		return err
	}

	logging.Info().
		Str("input_dir", cfg.InputDir).
		Str("output_dir", cfg.OutputDir).
		Msg("Building mart")

	ctx, cancel := signalContext()
	defer cancel()

	result, err := mart.Build(ctx, cfg.Paths())
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logging.Info().Msg("Build interrupted")
		}
		return err
	}

	return result.WriteSummary(cmd.OutOrStdout())
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigChan:
			logging.Info().
				Str("signal", sig.String()).
				Msg("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}
