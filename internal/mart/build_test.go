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
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgEdge/pgedge-martbuild/internal/testutil"
)

func newPaths(t *testing.T) Paths {
	t.Helper()
	root := t.TempDir()
	in := filepath.Join(root, "processed")
	require.NoError(t, os.MkdirAll(in, 0o755))
	return Paths{
		InputDir:  in,
		OutputDir: filepath.Join(root, "mart", "powerbi"),
	}
}

func byKey(rows []map[string]string, key string) map[string]map[string]string {
	out := make(map[string]map[string]string, len(rows))
	for _, r := range rows {
		out[r[key]] = r
	}
	return out
}

func TestBuildSmallDataset(t *testing.T) {
	paths := newPaths(t)
	testutil.WriteDataset(t, paths.InputDir, testutil.SmallDataset())

	result, err := Build(context.Background(), paths)
	require.NoError(t, err)

	require.Len(t, result.Tables, 7)
	counts := make(map[string]int)
	for _, s := range result.Tables {
		counts[s.File] = s.Rows
	}
	assert.Equal(t, map[string]int{
		"fact_orders.csv":      3,
		"fact_order_items.csv": 3,
		"fact_reviews.csv":     2,
		"dim_customers.csv":    2,
		"dim_products.csv":     2,
		"dim_sellers.csv":      2,
		"dim_date.csv":         3,
	}, counts)

	orderRecords := testutil.ReadCSV(t, paths.OutputDir, "fact_orders.csv")
	assert.Equal(t, columnsOf(FactOrders), orderRecords[0])

	orders := byKey(testutil.Records(orderRecords), "order_id")
	require.Len(t, orders, 3)

	o1 := orders["o1"]
	assert.Equal(t, "90.75", o1["revenue"])
	assert.Equal(t, "2", o1["item_count"])
	assert.Equal(t, "75.5", o1["items_gmv"])
	assert.Equal(t, "15.25", o1["freight_total"])
	assert.Equal(t, "6.0", o1["delivery_days"])
	assert.Equal(t, "1.0", o1["delay_days"])
	assert.Equal(t, "1", o1["is_late"])
	assert.Equal(t, "2017-01-05 10:00:00", o1["order_purchase_timestamp"])

	o2 := orders["o2"]
	assert.Equal(t, "0.0", o2["revenue"])
	assert.Equal(t, "1", o2["item_count"])
	assert.Equal(t, "0.0", o2["items_gmv"], "N/A price is treated as missing")
	assert.Equal(t, "7.5", o2["freight_total"])
	assert.Equal(t, "0.0", o2["delay_days"])
	assert.Equal(t, "0", o2["is_late"])
	days, err := strconv.ParseFloat(o2["delivery_days"], 64)
	require.NoError(t, err)
	assert.InDelta(t, 5.0+15.5/24.0, days, 1e-9)

	o3 := orders["o3"]
	assert.Equal(t, "0", o3["item_count"])
	assert.Equal(t, "0.0", o3["items_gmv"])
	assert.Equal(t, "0.0", o3["freight_total"])
	assert.Equal(t, "", o3["delivery_days"])
	assert.Equal(t, "", o3["delay_days"])
	assert.Equal(t, "", o3["is_late"])

	items := testutil.Records(testutil.ReadCSV(t, paths.OutputDir, "fact_order_items.csv"))
	require.Len(t, items, 3)
	assert.Equal(t, "", items[2]["price"])
	assert.Equal(t, "1", items[2]["order_item_id"])

	reviews := byKey(testutil.Records(testutil.ReadCSV(t, paths.OutputDir, "fact_reviews.csv")), "review_id")
	require.Len(t, reviews, 2)
	assert.Equal(t, "1", reviews["r1"]["is_late"])
	assert.Equal(t, "0", reviews["r2"]["is_late"])
	assert.NotContains(t, reviews["r1"], "review_comment_message")

	customers := byKey(testutil.Records(testutil.ReadCSV(t, paths.OutputDir, "dim_customers.csv")), "customer_id")
	assert.Equal(t, "01310", customers["c1"]["customer_zip_code_prefix"])

	dates := testutil.Records(testutil.ReadCSV(t, paths.OutputDir, "dim_date.csv"))
	require.Len(t, dates, 3)
	for i, want := range []struct{ date, weekday, weekend string }{
		{"2017-01-05", "4", "0"},
		{"2017-01-06", "5", "0"},
		{"2017-01-07", "6", "1"},
	} {
		assert.Equal(t, want.date, dates[i]["date"])
		assert.Equal(t, want.weekday, dates[i]["weekday"])
		assert.Equal(t, want.weekend, dates[i]["is_weekend"])
	}
}

func TestBuildMissingInputAbortsBeforeOutput(t *testing.T) {
	paths := newPaths(t)
	testutil.WriteDataset(t, paths.InputDir, testutil.SmallDataset(), OrdersFile)

	_, err := Build(context.Background(), paths)
	require.ErrorIs(t, err, ErrMissingInput)
	assert.Contains(t, err.Error(), filepath.Join(paths.InputDir, OrdersFile))

	entries, err := os.ReadDir(paths.OutputDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestBuildEmptyPurchaseRange(t *testing.T) {
	paths := newPaths(t)
	d := testutil.SmallDataset()
	for _, row := range d.Orders {
		row[3] = "not a timestamp"
	}
	testutil.WriteDataset(t, paths.InputDir, d)

	_, err := Build(context.Background(), paths)
	assert.ErrorIs(t, err, ErrEmptyDateRange)
}

func TestBuildSchemaDrift(t *testing.T) {
	paths := newPaths(t)
	testutil.WriteDataset(t, paths.InputDir, testutil.SmallDataset(), CustomersFile)
	testutil.WriteCSV(t, paths.InputDir, CustomersFile,
		[]string{"Customer ID", "customer_city", "customer_state"},
		[]string{"c1", "sao paulo", "SP"},
	)

	_, err := Build(context.Background(), paths)
	require.NoError(t, err)

	records := testutil.ReadCSV(t, paths.OutputDir, "dim_customers.csv")
	assert.Equal(t, []string{"customer_id", "customer_city", "customer_state"}, records[0])
	assert.Len(t, records, 2)
}

func TestBuildCancelled(t *testing.T) {
	paths := newPaths(t)
	testutil.WriteDataset(t, paths.InputDir, testutil.SmallDataset())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Build(ctx, paths)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoaderNormalizesColumns(t *testing.T) {
	paths := newPaths(t)
	testutil.WriteCSV(t, paths.InputDir, OrdersFile,
		[]string{" Order ID ", "Order-Status"},
		[]string{"o1", "delivered"},
	)

	tbl, err := NewLoader(paths).Load(OrdersFile)
	require.NoError(t, err)
	assert.Equal(t, "orders_clean", tbl.Name)
	assert.Equal(t, []string{"order_id", "order_status"}, tbl.Columns())
}

func TestWriteSummary(t *testing.T) {
	result := &Result{
		OutputDir: "/data/powerbi",
		Tables: []TableSummary{
			{File: "fact_orders.csv", Rows: 99441},
			{File: "dim_date.csv", Rows: 12},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, result.WriteSummary(&buf))
	assert.Equal(t, "Power BI mart exported to: /data/powerbi\n"+
		"- fact_orders.csv: 99,441 rows\n"+
		"- dim_date.csv: 12 rows\n", buf.String())
}

func TestCatalog(t *testing.T) {
	out := Catalog()
	require.Len(t, out, 7)
	assert.Equal(t, FactOrders, out[0].Name)
	assert.Equal(t, "dim_date.csv", out[6].FileName())

	out[0].Name = "changed"
	assert.Equal(t, FactOrders, Catalog()[0].Name)
}
