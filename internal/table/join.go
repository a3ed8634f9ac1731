//-------------------------------------------------------------------------
//
// pgEdge Mart Builder
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package table

import "fmt"

// LeftJoin joins right onto t on the column on. Every row of t is kept; a
// left row with several matches is repeated once per match, and a left row
// with none gets nulls in the right-hand columns. Null keys never match.
//
// Non-key columns present on both sides are renamed with _x (left) and _y
// (right) suffixes.
func (t *Table) LeftJoin(right *Table, on string) (*Table, error) {
	leftKey, ok := t.index[on]
	if !ok {
		return nil, fmt.Errorf("table %s: join key %q not found", t.Name, on)
	}
	rightKey, ok := right.index[on]
	if !ok {
		return nil, fmt.Errorf("table %s: join key %q not found", right.Name, on)
	}

	var rightCols []int
	for i := range right.columns {
		if i != rightKey {
			rightCols = append(rightCols, i)
		}
	}

	clash := make(map[string]bool)
	for _, i := range rightCols {
		if c := right.columns[i]; c != on && t.Has(c) {
			clash[c] = true
		}
	}

	cols := make([]string, 0, len(t.columns)+len(rightCols))
	for _, c := range t.columns {
		if clash[c] {
			c += "_x"
		}
		cols = append(cols, c)
	}
	for _, i := range rightCols {
		c := right.columns[i]
		if clash[c] {
			c += "_y"
		}
		cols = append(cols, c)
	}

	matches := make(map[string][]int, len(right.rows))
	for i, row := range right.rows {
		k := row[rightKey]
		if k.IsNull() {
			continue
		}
		matches[k.key()] = append(matches[k.key()], i)
	}

	out := New(t.Name, cols)
	for _, row := range t.rows {
		var hits []int
		if k := row[leftKey]; !k.IsNull() {
			hits = matches[k.key()]
		}
		if len(hits) == 0 {
			joined := make([]Value, len(cols))
			copy(joined, row)
			out.rows = append(out.rows, joined)
			continue
		}
		for _, h := range hits {
			joined := make([]Value, 0, len(cols))
			joined = append(joined, row...)
			for _, i := range rightCols {
				joined = append(joined, right.rows[h][i])
			}
			out.rows = append(out.rows, joined)
		}
	}
	return out, nil
}
