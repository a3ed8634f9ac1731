//-------------------------------------------------------------------------
//
// pgEdge Mart Builder
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package table

import (
	"fmt"
	"regexp"
	"strings"
)

// Table is an ordered set of rows sharing a fixed column list.
type Table struct {
	// Name identifies the table in logs and errors.
	Name string

	columns []string
	index   map[string]int
	rows    [][]Value
}

// New creates an empty table with the given columns. When a column name is
// repeated, lookups by name resolve to its first position.
func New(name string, columns []string) *Table {
	t := &Table{
		Name:    name,
		columns: append([]string(nil), columns...),
	}
	t.reindex()
	return t
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.columns))
	for i, c := range t.columns {
		if _, ok := t.index[c]; !ok {
			t.index[c] = i
		}
	}
}

// Columns returns a copy of the column list.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Has reports whether the table has a column with the given name.
func (t *Table) Has(col string) bool {
	_, ok := t.index[col]
	return ok
}

// Missing returns the columns from cols the table does not have.
func (t *Table) Missing(cols ...string) []string {
	var missing []string
	for _, c := range cols {
		if !t.Has(c) {
			missing = append(missing, c)
		}
	}
	return missing
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Row returns the i-th row. The slice is shared with the table.
func (t *Table) Row(i int) []Value {
	return t.rows[i]
}

// Append adds a row. The row must have one value per column.
func (t *Table) Append(row []Value) error {
	if len(row) != len(t.columns) {
		return fmt.Errorf("table %s: row has %d values, want %d",
			t.Name, len(row), len(t.columns))
	}
	t.rows = append(t.rows, row)
	return nil
}

// MustAppend is Append for rows built by the caller with a known shape.
func (t *Table) MustAppend(row ...Value) {
	if err := t.Append(row); err != nil {
		panic(err)
	}
}

// Get returns the value of col in row i, or null when the column is absent.
func (t *Table) Get(i int, col string) Value {
	idx, ok := t.index[col]
	if !ok {
		return Null()
	}
	return t.rows[i][idx]
}

// Column returns every value of col in row order, or nil when absent.
func (t *Table) Column(col string) []Value {
	idx, ok := t.index[col]
	if !ok {
		return nil
	}
	out := make([]Value, len(t.rows))
	for i, row := range t.rows {
		out[i] = row[idx]
	}
	return out
}

// AddColumn appends a column whose value for each row is computed by fill.
// An existing column of the same name is overwritten in place.
func (t *Table) AddColumn(col string, fill func(i int) Value) {
	if idx, ok := t.index[col]; ok {
		for i, row := range t.rows {
			row[idx] = fill(i)
		}
		return
	}
	t.columns = append(t.columns, col)
	t.index[col] = len(t.columns) - 1
	for i, row := range t.rows {
		t.rows[i] = append(row, fill(i))
	}
}

// FillNull replaces nulls in col with v. Absent columns are skipped.
func (t *Table) FillNull(col string, v Value) {
	idx, ok := t.index[col]
	if !ok {
		return
	}
	for _, row := range t.rows {
		if row[idx].IsNull() {
			row[idx] = v
		}
	}
}

var (
	nonWordRun    = regexp.MustCompile(`[^\p{L}\p{N}_]+`)
	underscoreRun = regexp.MustCompile(`_+`)
)

// NormalizeColumnName lower-cases and trims name, collapses every run of
// non-word characters and every run of underscores into one underscore, and
// strips leading and trailing underscores.
func NormalizeColumnName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = nonWordRun.ReplaceAllString(name, "_")
	name = underscoreRun.ReplaceAllString(name, "_")
	return strings.Trim(name, "_")
}

// NormalizeColumns renames every column with NormalizeColumnName. Row
// values are shared with the receiver.
func (t *Table) NormalizeColumns() *Table {
	cols := make([]string, len(t.columns))
	for i, c := range t.columns {
		cols[i] = NormalizeColumnName(c)
	}
	out := New(t.Name, cols)
	out.rows = append([][]Value(nil), t.rows...)
	return out
}

// Select projects the wanted columns in the order given, silently skipping
// any the table does not have.
func (t *Table) Select(name string, wanted []string) *Table {
	var cols []string
	var src []int
	seen := make(map[string]bool, len(wanted))
	for _, c := range wanted {
		idx, ok := t.index[c]
		if !ok || seen[c] {
			continue
		}
		seen[c] = true
		cols = append(cols, c)
		src = append(src, idx)
	}

	out := New(name, cols)
	out.rows = make([][]Value, len(t.rows))
	for i, row := range t.rows {
		projected := make([]Value, len(src))
		for j, idx := range src {
			projected[j] = row[idx]
		}
		out.rows[i] = projected
	}
	return out
}

// DedupeBy keeps the first row for each distinct value of key. If the table
// has no such column it is returned unchanged.
func (t *Table) DedupeBy(key string) *Table {
	idx, ok := t.index[key]
	if !ok {
		return t
	}
	return t.dedupe(func(row []Value) string { return row[idx].key() })
}

// Distinct drops rows that are exact duplicates of an earlier row.
func (t *Table) Distinct() *Table {
	return t.dedupe(rowKey)
}

func (t *Table) dedupe(keyOf func([]Value) string) *Table {
	out := New(t.Name, t.columns)
	seen := make(map[string]struct{}, len(t.rows))
	for _, row := range t.rows {
		k := keyOf(row)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out.rows = append(out.rows, row)
	}
	return out
}

func rowKey(row []Value) string {
	var b strings.Builder
	for _, v := range row {
		b.WriteString(v.key())
		b.WriteByte(0x1f)
	}
	return b.String()
}
