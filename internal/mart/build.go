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
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/pgEdge/pgedge-martbuild/internal/csvio"
	"github.com/pgEdge/pgedge-martbuild/internal/logging"
	"github.com/pgEdge/pgedge-martbuild/internal/table"
)

// Mart is the assembled export, one table per catalog entry.
type Mart struct {
	tables map[string]*table.Table
}

// Table returns the named output table, or nil.
func (m *Mart) Table(name string) *table.Table {
	return m.tables[name]
}

// Assemble coerces the inputs and builds every output table in memory.
func Assemble(in *Inputs) (*Mart, error) {
	CoerceTypes(in)

	factOrders, err := BuildFactOrders(in.Orders, in.Payments, in.OrderItems)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s: %w", FactOrders, err)
	}
	factReviews, err := BuildFactReviews(in.Reviews, factOrders)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s: %w", FactReviews, err)
	}
	dimDate, err := DimDateFromOrders(factOrders)
	if err != nil {
		return nil, err
	}

	return &Mart{tables: map[string]*table.Table{
		FactOrders:     factOrders,
		FactOrderItems: BuildFactOrderItems(in.OrderItems),
		FactReviews:    factReviews,
		DimCustomers:   BuildDimension(DimCustomers, in.Customers),
		DimProducts:    BuildDimension(DimProducts, in.Products),
		DimSellers:     BuildDimension(DimSellers, in.Sellers),
		DimDate:        dimDate,
	}}, nil
}

// TableSummary is the row count of one written file.
type TableSummary struct {
	File string
	Rows int
}

// Result describes a completed build.
type Result struct {
	OutputDir string
	Tables    []TableSummary
}

// Build runs the whole pipeline: it creates the output directory, loads all
// inputs, assembles the mart and writes every table. No output file is
// written unless every input loaded and every table was built.
func Build(ctx context.Context, paths Paths) (*Result, error) {
	if err := os.MkdirAll(paths.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	logging.Info().
		Str("input_dir", paths.InputDir).
		Msg("Loading processed inputs")

	inputs, err := NewLoader(paths).LoadAll()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logging.Info().Msg("Building mart tables")
	m, err := Assemble(inputs)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return m.Write(paths)
}

// Write exports every table to paths.OutputDir in catalog order.
func (m *Mart) Write(paths Paths) (*Result, error) {
	result := &Result{OutputDir: paths.OutputDir}
	for _, o := range catalog {
		t := m.tables[o.Name]
		path := paths.Output(o.FileName())
		if err := csvio.WriteFile(path, t); err != nil {
			return nil, err
		}

		logging.Info().
			Str("table", o.Name).
			Int("rows", t.Len()).
			Int("columns", len(t.Columns())).
			Msg("Table exported")

		result.Tables = append(result.Tables, TableSummary{File: o.FileName(), Rows: t.Len()})
	}
	return result, nil
}

// WriteSummary prints the output directory and the row count of every file.
func (r *Result) WriteSummary(w io.Writer) error {
	p := message.NewPrinter(language.English)
	if _, err := p.Fprintf(w, "Power BI mart exported to: %s\n", r.OutputDir); err != nil {
		return err
	}
	for _, t := range r.Tables {
		if _, err := p.Fprintf(w, "- %s: %d rows\n", t.File, t.Rows); err != nil {
			return err
		}
	}
	return nil
}
