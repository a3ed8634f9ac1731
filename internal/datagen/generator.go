//-------------------------------------------------------------------------
//
// pgEdge Mart Builder
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package datagen

import (
	"github.com/pgEdge/pgedge-martbuild/internal/logging"
)

// ProgressReporter tracks and reports data generation progress.
type ProgressReporter struct {
	tableName        string
	totalRows        int64
	currentRow       int64
	progressInterval int64
}

// NewProgressReporter creates a new progress reporter.
func NewProgressReporter(tableName string, totalRows int64, interval int64) *ProgressReporter {
	if interval < 1 {
		interval = 1
	}
	return &ProgressReporter{
		tableName:        tableName,
		totalRows:        totalRows,
		progressInterval: interval,
	}
}

// Update updates the progress and logs if necessary.
func (p *ProgressReporter) Update(rows int64) {
	oldRow := p.currentRow
	p.currentRow += rows

	// Check if we crossed a progress interval
	if p.currentRow/p.progressInterval > oldRow/p.progressInterval {
		pct := 100.0
		if p.totalRows > 0 {
			pct = float64(p.currentRow) / float64(p.totalRows) * 100
		}
		logging.Info().
			Str("table", p.tableName).
			Int64("rows", p.currentRow).
			Int64("total", p.totalRows).
			Float64("percent", pct).
			Msg("Generating data")
	}
}

// Rows returns the number of rows reported so far.
func (p *ProgressReporter) Rows() int64 {
	return p.currentRow
}

// Done logs completion.
func (p *ProgressReporter) Done() {
	logging.Info().
		Str("table", p.tableName).
		Int64("rows", p.currentRow).
		Msg("Table complete")
}

// TableScale relates a table's row count to the number of orders.
type TableScale struct {
	Name string

	// ScaleRatio is rows per order. A dimension with ratio 0.05 gets one
	// row per twenty orders.
	ScaleRatio float64
}

// ScaleCalculator derives per-table row counts from an order count.
type ScaleCalculator struct {
	tables []TableScale
}

// NewScaleCalculator creates a new scale calculator.
func NewScaleCalculator(tables []TableScale) *ScaleCalculator {
	return &ScaleCalculator{tables: tables}
}

// RowCounts returns the row count for each table given the order count.
// Every table gets at least one row.
func (c *ScaleCalculator) RowCounts(orders int64) map[string]int64 {
	rowCounts := make(map[string]int64, len(c.tables))
	for _, t := range c.tables {
		rows := int64(float64(orders) * t.ScaleRatio)
		if rows < 1 {
			rows = 1
		}
		rowCounts[t.Name] = rows
	}
	return rowCounts
}
