//-------------------------------------------------------------------------
//
// pgEdge Mart Builder
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package csvio

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgEdge/pgedge-martbuild/internal/table"
)

func TestReadNullsAndPadding(t *testing.T) {
	in := "\ufefforder_id,price,freight_value\no1,10.5,2\no2,,\no3,7\n"

	tbl, err := Read(strings.NewReader(in), "order_items")
	require.NoError(t, err)

	assert.Equal(t, []string{"order_id", "price", "freight_value"}, tbl.Columns())
	require.Equal(t, 3, tbl.Len())
	assert.Equal(t, "10.5", tbl.Get(0, "price").Str())
	assert.True(t, tbl.Get(1, "price").IsNull())
	assert.True(t, tbl.Get(2, "freight_value").IsNull())
}

func TestReadErrors(t *testing.T) {
	_, err := Read(strings.NewReader(""), "empty")
	assert.ErrorIs(t, err, ErrNoHeader)

	_, err = Read(strings.NewReader("a,b\n1,2,3\n"), "wide")
	assert.Error(t, err)

	_, err = ReadFile(filepath.Join(t.TempDir(), "nope.csv"), "nope")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWrite(t *testing.T) {
	midnight := time.Date(2017, 1, 5, 0, 0, 0, 0, time.UTC)
	morning := time.Date(2017, 1, 5, 9, 15, 0, 0, time.UTC)

	tbl := table.New("fact_orders", []string{"order_id", "purchased", "estimated", "revenue", "is_late", "note"})
	tbl.MustAppend(table.String("o1"), table.Timestamp(morning), table.Timestamp(midnight),
		table.Float(10), table.Int(1), table.String("needs, quoting"))
	tbl.MustAppend(table.String("o2"), table.Timestamp(midnight), table.Null(),
		table.Float(0.5), table.Null(), table.Null())

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, tbl))

	want := "order_id,purchased,estimated,revenue,is_late,note\n" +
		"o1,2017-01-05 09:15:00,2017-01-05,10.0,1,\"needs, quoting\"\n" +
		"o2,2017-01-05 00:00:00,,0.5,,\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dim_sellers.csv")

	tbl := table.New("dim_sellers", []string{"seller_id", "seller_zip_code_prefix"})
	tbl.MustAppend(table.String("s1"), table.String("01234"))
	require.NoError(t, WriteFile(path, tbl))

	back, err := ReadFile(path, "dim_sellers")
	require.NoError(t, err)
	assert.Equal(t, "01234", back.Get(0, "seller_zip_code_prefix").Str())
}

func TestWriteKeepsFractionalSeconds(t *testing.T) {
	in, err := Read(strings.NewReader("order_id,purchased\no1,2017-01-05 10:00:00.5\no2,2017-01-05 10:00:01\n"), "orders")
	require.NoError(t, err)
	in.CoerceTimestamps("purchased")

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, in))
	assert.Equal(t, "order_id,purchased\n"+
		"o1,2017-01-05 10:00:00.5\n"+
		"o2,2017-01-05 10:00:01\n", buf.String())
}
