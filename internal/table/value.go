//-------------------------------------------------------------------------
//
// pgEdge Mart Builder
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package table provides a small in-memory typed table used by the mart
// builder: nullable cell values, column normalization, per-column type
// coercion, projection, deduplication, grouping and left joins.
package table

import (
	"strconv"
	"strings"
	"time"
)

// Kind identifies the semantic type held by a Value.
type Kind uint8

// Value kinds.
const (
	KindNull Kind = iota
	KindString
	KindInt
	KindFloat
	KindTimestamp
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindTimestamp:
		return "timestamp"
	default:
		return "unknown"
	}
}

// TimestampLayout is the layout used when writing timestamp values.
// Fractional seconds are printed only when present.
const TimestampLayout = "2006-01-02 15:04:05.999999999"

// DateLayout is the layout used when a timestamp column holds only dates.
const DateLayout = "2006-01-02"

// Value is a single nullable cell. The zero Value is null.
type Value struct {
	kind Kind
	s    string
	i    int64
	f    float64
	t    time.Time
}

// Null returns the null value.
func Null() Value { return Value{} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Int returns an integer value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float returns a floating point value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Timestamp returns a timestamp value normalized to UTC.
func Timestamp(t time.Time) Value { return Value{kind: KindTimestamp, t: t.UTC()} }

// Kind returns the value kind.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Str returns the value as text. Non-string kinds are formatted with
// Format.
func (v Value) Str() string {
	if v.kind == KindString {
		return v.s
	}
	return v.Format()
}

// Int64 returns the integer held by an Int value.
func (v Value) Int64() (int64, bool) {
	if v.kind == KindInt {
		return v.i, true
	}
	return 0, false
}

// Float64 returns the value as a float. Int values are widened.
func (v Value) Float64() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	default:
		return 0, false
	}
}

// Time returns the time held by a Timestamp value.
func (v Value) Time() (time.Time, bool) {
	if v.kind == KindTimestamp {
		return v.t, true
	}
	return time.Time{}, false
}

// IsMidnight reports whether the value is a timestamp with no time-of-day
// component.
func (v Value) IsMidnight() bool {
	if v.kind != KindTimestamp {
		return false
	}
	h, m, s := v.t.Clock()
	return h == 0 && m == 0 && s == 0 && v.t.Nanosecond() == 0
}

// Format renders the value as delimited-text output. Null renders as the
// empty string and floats always carry a decimal point.
func (v Value) Format() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return formatFloat(v.f)
	case KindTimestamp:
		return v.t.Format(TimestampLayout)
	default:
		return ""
	}
}

// FormatDate renders a timestamp as a bare date; other kinds fall back to
// Format.
func (v Value) FormatDate() string {
	if v.kind == KindTimestamp {
		return v.t.Format(DateLayout)
	}
	return v.Format()
}

// Equal reports whether two values have the same kind and content.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.s == o.s
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f
	case KindTimestamp:
		return v.t.Equal(o.t)
	}
	return false
}

// key returns a string that identifies the value for hashing.
func (v Value) key() string {
	if v.kind == KindNull {
		return "\x00"
	}
	return string(rune('0'+v.kind)) + v.Format()
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}
