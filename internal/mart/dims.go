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
	"time"

	"github.com/pgEdge/pgedge-martbuild/internal/table"
)

// BuildDimension projects a descriptive table and keeps the first row seen
// for each natural key. Conflicting attributes on later rows are dropped.
func BuildDimension(name string, source *table.Table) *table.Table {
	for _, o := range catalog {
		if o.Name == name {
			return source.Select(name, o.Columns).DedupeBy(o.Key[0])
		}
	}
	return source.Select(name, nil)
}

var dimDateColumns = []string{
	"date",
	"year",
	"quarter",
	"month",
	"month_name",
	"year_month",
	"week",
	"weekday",
	"weekday_name",
	"is_weekend",
}

// BuildDimDate returns one row per calendar day from the day of start to
// the day of end, inclusive.
func BuildDimDate(start, end time.Time) *table.Table {
	t := table.New(DimDate, dimDateColumns)
	for day := floorDay(start); !day.After(floorDay(end)); day = day.AddDate(0, 0, 1) {
		_, week := day.ISOWeek()
		weekday := isoWeekday(day)
		weekend := int64(0)
		if weekday >= 6 {
			weekend = 1
		}
		t.MustAppend(
			table.Timestamp(day),
			table.Int(int64(day.Year())),
			table.Int(int64((int(day.Month())-1)/3+1)),
			table.Int(int64(day.Month())),
			table.String(day.Format("Jan")),
			table.String(day.Format("2006-01")),
			table.Int(int64(week)),
			table.Int(int64(weekday)),
			table.String(day.Format("Mon")),
			table.Int(weekend),
		)
	}
	return t
}

// DimDateFromOrders builds the calendar over the purchase timestamps of
// fact_orders. It fails with ErrEmptyDateRange when no order has one.
func DimDateFromOrders(factOrders *table.Table) (*table.Table, error) {
	lo, hi, ok := factOrders.MinMaxTime("order_purchase_timestamp")
	if !ok {
		return nil, ErrEmptyDateRange
	}
	start, _ := lo.Time()
	end, _ := hi.Time()
	return BuildDimDate(start, end), nil
}

func floorDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// isoWeekday numbers Monday 1 through Sunday 7.
func isoWeekday(t time.Time) int {
	if wd := t.Weekday(); wd != time.Sunday {
		return int(wd)
	}
	return 7
}
