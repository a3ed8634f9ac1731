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

// AggFunc selects how an Aggregation reduces a group.
type AggFunc int

const (
	// Sum adds the numeric values of a column, ignoring nulls. A group with
	// no numeric values sums to 0.0.
	Sum AggFunc = iota

	// Count counts the non-null values of a column. With an empty Column
	// it counts rows.
	Count
)

// Aggregation describes one output column of GroupBy.
type Aggregation struct {
	Name   string
	Column string
	Func   AggFunc
}

// GroupBy groups rows by key and computes one output row per distinct
// non-null key, in order of first appearance. Rows with a null key are
// dropped.
func (t *Table) GroupBy(name, key string, aggs ...Aggregation) (*Table, error) {
	keyIdx, ok := t.index[key]
	if !ok {
		return nil, fmt.Errorf("table %s: group key %q not found", t.Name, key)
	}

	srcIdx := make([]int, len(aggs))
	cols := []string{key}
	for i, a := range aggs {
		srcIdx[i] = -1
		if a.Column != "" {
			idx, ok := t.index[a.Column]
			if !ok {
				return nil, fmt.Errorf("table %s: column %q not found", t.Name, a.Column)
			}
			srcIdx[i] = idx
		}
		cols = append(cols, a.Name)
	}

	type group struct {
		key    Value
		sums   []float64
		counts []int64
	}
	var order []*group
	groups := make(map[string]*group)

	for _, row := range t.rows {
		k := row[keyIdx]
		if k.IsNull() {
			continue
		}
		g, ok := groups[k.key()]
		if !ok {
			g = &group{
				key:    k,
				sums:   make([]float64, len(aggs)),
				counts: make([]int64, len(aggs)),
			}
			groups[k.key()] = g
			order = append(order, g)
		}
		for i, a := range aggs {
			if srcIdx[i] < 0 {
				g.counts[i]++
				continue
			}
			v := row[srcIdx[i]]
			switch a.Func {
			case Sum:
				if f, ok := v.Float64(); ok {
					g.sums[i] += f
				}
			case Count:
				if !v.IsNull() {
					g.counts[i]++
				}
			}
		}
	}

	out := New(name, cols)
	for _, g := range order {
		row := make([]Value, 0, len(cols))
		row = append(row, g.key)
		for i, a := range aggs {
			if a.Func == Sum && srcIdx[i] >= 0 {
				row = append(row, Float(g.sums[i]))
			} else {
				row = append(row, Int(g.counts[i]))
			}
		}
		out.rows = append(out.rows, row)
	}
	return out, nil
}

// MinMaxTime returns the earliest and latest timestamp in col. ok is false
// when the column is absent or holds no timestamps.
func (t *Table) MinMaxTime(col string) (lo, hi Value, ok bool) {
	idx, found := t.index[col]
	if !found {
		return Null(), Null(), false
	}
	for _, row := range t.rows {
		ts, isTime := row[idx].Time()
		if !isTime {
			continue
		}
		if !ok {
			lo, hi, ok = row[idx], row[idx], true
			continue
		}
		if lt, _ := lo.Time(); ts.Before(lt) {
			lo = row[idx]
		}
		if ht, _ := hi.Time(); ts.After(ht) {
			hi = row[idx]
		}
	}
	return lo, hi, ok
}
