//-------------------------------------------------------------------------
//
// pgEdge Mart Builder
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package cli implements the command-line interface for pgedge-martbuild.
package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-martbuild/internal/config"
	"github.com/pgEdge/pgedge-martbuild/internal/logging"
	"github.com/pgEdge/pgedge-martbuild/internal/mart"
	"github.com/pgEdge/pgedge-martbuild/pkg/version"
)

var (
	// Global flags
	cfgFile   string
	logLevel  string
	logFormat string

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "pgedge-martbuild",
		Short: "Build a Power BI star-schema mart from processed order extracts",
		Long: `pgedge-martbuild reads the cleaned e-commerce extracts (orders, order
items, payments, customers, products, sellers and reviews) and exports an
analytics-ready star schema as flat CSV files: three fact tables, three
entity dimensions and a calendar dimension covering the purchase range.

The files are meant to be loaded directly into Power BI or any other tool
that reads delimited text.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./pgedge-martbuild.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"log format (console, json)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(sampleCmd)
	rootCmd.AddCommand(tablesCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}

	// Reinitialize logger with config
	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List the tables written to the mart",
	Long: `List every table the build command exports, with its grain, its
key and the columns it carries. Columns absent from the inputs are
skipped when the mart is built.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println("Mart tables:")
		cmd.Println()
		for _, t := range mart.Catalog() {
			cmd.Printf("  %-18s - one row per %s (key: %s)\n",
				t.FileName(), t.Grain, strings.Join(t.Key, ", "))
			cmd.Printf("  %-18s   %s\n", "", strings.Join(t.Columns, ", "))
		}
		cmd.Println()
		cmd.Println("Inputs read from the input directory:")
		for _, name := range mart.InputFiles {
			cmd.Printf("  %s\n", name)
		}
	},
}
