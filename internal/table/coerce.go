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
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// ParseNumber parses s as an integer or a finite float. It returns false
// for empty, malformed or non-finite input.
func ParseNumber(s string) (Value, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Null(), false
	}
	if strings.Contains(s, "_") {
		return Null(), false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(i), true
	}
	f, err := cast.ToFloat64E(s)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return Null(), false
	}
	return Float(f), true
}

// Layouts tried when cast does not recognize a timestamp.
var extraTimestampLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"2006/01/02",
}

// ParseTimestamp parses s as a calendar timestamp. Input without a zone
// offset is read as UTC. It returns false for empty or unparsable input.
func ParseTimestamp(s string) (Value, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Null(), false
	}
	if t, err := cast.ToTimeInDefaultLocationE(s, time.UTC); err == nil {
		return Timestamp(t), true
	}
	for _, layout := range extraTimestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return Timestamp(t), true
		}
	}
	return Null(), false
}

// CoerceNumeric converts the named columns to numbers in place. Columns the
// table does not have are skipped. Values that fail to parse become null.
// It returns the number of non-null values that were nulled.
func (t *Table) CoerceNumeric(cols ...string) int {
	return t.coerce(cols, func(v Value) (Value, bool) {
		switch v.Kind() {
		case KindInt, KindFloat:
			return v, true
		case KindString:
			return ParseNumber(v.Str())
		default:
			return Null(), false
		}
	})
}

// CoerceTimestamps converts the named columns to timestamps in place, with
// the same skip and null rules as CoerceNumeric.
func (t *Table) CoerceTimestamps(cols ...string) int {
	return t.coerce(cols, func(v Value) (Value, bool) {
		switch v.Kind() {
		case KindTimestamp:
			return v, true
		case KindString:
			return ParseTimestamp(v.Str())
		default:
			return Null(), false
		}
	})
}

func (t *Table) coerce(cols []string, parse func(Value) (Value, bool)) int {
	nulled := 0
	for _, col := range cols {
		idx, ok := t.index[col]
		if !ok {
			continue
		}
		for _, row := range t.rows {
			if row[idx].IsNull() {
				continue
			}
			v, ok := parse(row[idx])
			if !ok {
				nulled++
			}
			row[idx] = v
		}
	}
	return nulled
}
