//-------------------------------------------------------------------------
//
// pgEdge Mart Builder
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package mart

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pgEdge/pgedge-martbuild/internal/csvio"
	"github.com/pgEdge/pgedge-martbuild/internal/logging"
	"github.com/pgEdge/pgedge-martbuild/internal/table"
)

var (
	// ErrMissingInput is returned when a required input file does not exist.
	ErrMissingInput = errors.New("missing required file")

	// ErrMissingColumn is returned when an input lacks a column the
	// aggregation needs.
	ErrMissingColumn = errors.New("missing required column")

	// ErrEmptyDateRange is returned when no valid purchase timestamp exists
	// to bound the calendar dimension.
	ErrEmptyDateRange = errors.New("cannot build dim_date: purchase timestamp range is missing")
)

// Paths locates the processed inputs and the mart output.
type Paths struct {
	InputDir  string
	OutputDir string
}

// Input returns the path of a named input file.
func (p Paths) Input(name string) string {
	return filepath.Join(p.InputDir, name)
}

// Output returns the path of a named output file.
func (p Paths) Output(name string) string {
	return filepath.Join(p.OutputDir, name)
}

// Loader reads required input tables.
type Loader struct {
	paths Paths
}

// NewLoader creates a loader reading from paths.InputDir.
func NewLoader(paths Paths) *Loader {
	return &Loader{paths: paths}
}

// Load reads the named input and normalizes its column names. A missing
// file is reported as ErrMissingInput.
func (l *Loader) Load(name string) (*table.Table, error) {
	path := l.paths.Input(name)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingInput, path)
		}
		return nil, err
	}

	t, err := csvio.ReadFile(path, strings.TrimSuffix(name, filepath.Ext(name)))
	if err != nil {
		return nil, err
	}
	t = t.NormalizeColumns()

	logging.Debug().
		Str("file", path).
		Int("rows", t.Len()).
		Strs("columns", t.Columns()).
		Msg("Loaded input")

	return t, nil
}

// Inputs holds the seven loaded source tables.
type Inputs struct {
	Orders     *table.Table
	OrderItems *table.Table
	Customers  *table.Table
	Products   *table.Table
	Sellers    *table.Table
	Payments   *table.Table
	Reviews    *table.Table
}

// LoadAll loads every required input, stopping at the first failure.
func (l *Loader) LoadAll() (*Inputs, error) {
	in := &Inputs{}
	targets := []struct {
		name string
		dst  **table.Table
	}{
		{OrdersFile, &in.Orders},
		{OrderItemsFile, &in.OrderItems},
		{CustomersFile, &in.Customers},
		{ProductsFile, &in.Products},
		{SellersFile, &in.Sellers},
		{PaymentsFile, &in.Payments},
		{ReviewsFile, &in.Reviews},
	}
	for _, target := range targets {
		t, err := l.Load(target.name)
		if err != nil {
			return nil, err
		}
		*target.dst = t
	}
	return in, nil
}

func requireColumns(t *table.Table, cols ...string) error {
	if missing := t.Missing(cols...); len(missing) > 0 {
		return fmt.Errorf("%w: %s lacks %s",
			ErrMissingColumn, t.Name, strings.Join(missing, ", "))
	}
	return nil
}
