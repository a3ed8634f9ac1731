//-------------------------------------------------------------------------
//
// pgEdge Mart Builder
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package config handles configuration management for pgedge-martbuild.
// Configuration is loaded from config files and CLI flags (no environment variables).
// CLI flags take precedence over config file values.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/pgEdge/pgedge-martbuild/internal/mart"
)

// Config holds all configuration for pgedge-martbuild.
type Config struct {
	// InputDir holds the processed *_clean.csv extracts.
	InputDir string `mapstructure:"input_dir" validate:"required"`

	// OutputDir receives the mart files. It is created if absent.
	OutputDir string `mapstructure:"output_dir" validate:"required"`

	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level" validate:"oneof=debug info warn error"`

	// LogFormat selects console or json log output.
	LogFormat string `mapstructure:"log_format" validate:"oneof=console json"`

	// Sample holds configuration for the sample subcommand.
	Sample SampleConfig `mapstructure:"sample"`
}

// SampleConfig holds configuration for synthetic input generation.
type SampleConfig struct {
	// Orders is the number of orders to generate.
	Orders int `mapstructure:"orders" validate:"gte=0"`

	// Seed makes output reproducible. Zero picks a random seed.
	Seed uint64 `mapstructure:"seed"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		InputDir:  filepath.Join("data", "processed"),
		OutputDir: filepath.Join("data", "powerbi"),
		LogLevel:  "info",
		LogFormat: "console",
		Sample: SampleConfig{
			Orders: 500,
		},
	}
}

// Load reads configuration from config files.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./pgedge-martbuild.yaml
// 3. ~/.config/pgedge-martbuild/config.yaml
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("pgedge-martbuild")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "pgedge-martbuild"))
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

var validate = validator.New()

// Validate checks field constraints common to every command.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describe(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

// ValidateBuild checks configuration required for the build command.
func (c *Config) ValidateBuild() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if filepath.Clean(c.InputDir) == filepath.Clean(c.OutputDir) {
		return fmt.Errorf("output_dir must differ from input_dir")
	}
	return nil
}

// ValidateSample checks configuration required for the sample command.
func (c *Config) ValidateSample() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Sample.Orders < 1 {
		return fmt.Errorf("sample orders must be at least 1")
	}
	return nil
}

// Paths returns the mart locations described by the configuration.
func (c *Config) Paths() mart.Paths {
	return mart.Paths{
		InputDir:  c.InputDir,
		OutputDir: c.OutputDir,
	}
}

func describe(fe validator.FieldError) string {
	name := fe.Namespace()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", name)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", name, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", name, fe.Tag())
	}
}
