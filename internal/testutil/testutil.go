//-------------------------------------------------------------------------
//
// pgEdge Mart Builder
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package testutil provides fixture helpers for tests that run the mart
// builder against temporary directories.
package testutil

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
)

// WriteCSV writes a header and rows to dir/name.
func WriteCSV(t *testing.T, dir, name string, header []string, rows ...[]string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create %s: %v", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(header); err != nil {
		t.Fatalf("Failed to write header to %s: %v", path, err)
	}
	if err := w.WriteAll(rows); err != nil {
		t.Fatalf("Failed to write rows to %s: %v", path, err)
	}
	return path
}

// ReadCSV reads dir/name back as raw records, header first.
func ReadCSV(t *testing.T, dir, name string) [][]string {
	t.Helper()

	path := filepath.Join(dir, name)
	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open %s: %v", path, err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("Failed to parse %s: %v", path, err)
	}
	return records
}

// Records indexes data records by column name for easy assertions.
func Records(records [][]string) []map[string]string {
	if len(records) == 0 {
		return nil
	}
	header := records[0]
	out := make([]map[string]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		out = append(out, row)
	}
	return out
}

// Dataset is a minimal consistent set of processed inputs.
type Dataset struct {
	Orders     [][]string
	OrderItems [][]string
	Customers  [][]string
	Products   [][]string
	Sellers    [][]string
	Payments   [][]string
	Reviews    [][]string
}

// Header rows for each input, in the raw (pre-normalization) style the
// upstream cleaning stage is allowed to produce.
var (
	OrdersHeader = []string{
		"Order ID", "customer_id", "order_status", "order_purchase_timestamp",
		"order_approved_at", "order_delivered_carrier_date",
		"order_delivered_customer_date", "order_estimated_delivery_date",
	}
	OrderItemsHeader = []string{
		"order_id", "order_item_id", "product_id", "seller_id",
		"shipping_limit_date", "price", "freight_value",
	}
	CustomersHeader = []string{
		"customer_id", "customer_unique_id", "customer_zip_code_prefix",
		"customer_city", "customer_state",
	}
	ProductsHeader = []string{
		"product_id", "product_category_name", "product_name_lenght",
		"product_description_lenght", "product_photos_qty", "product_weight_g",
		"product_length_cm", "product_height_cm", "product_width_cm",
	}
	SellersHeader = []string{
		"seller_id", "seller_zip_code_prefix", "seller_city", "seller_state",
	}
	PaymentsHeader = []string{
		"order_id", "payment_sequential", "payment_type",
		"payment_installments", "payment_value",
	}
	ReviewsHeader = []string{
		"review_id", "order_id", "review_score", "review_comment_message",
		"review_creation_date", "review_answer_timestamp",
	}
)

// SmallDataset returns three orders spanning 2017-01-05 to 2017-01-07:
// o1 delivered one day late with two items and split payments, o2
// delivered exactly on the estimate with no payments, o3 undelivered with
// no items.
func SmallDataset() Dataset {
	return Dataset{
		Orders: [][]string{
			{"o1", "c1", "delivered", "2017-01-05 10:00:00", "2017-01-05 11:00:00",
				"2017-01-06 09:00:00", "2017-01-11 10:00:00", "2017-01-10 10:00:00"},
			{"o2", "c2", "delivered", "2017-01-06 08:30:00", "", "",
				"2017-01-12 00:00:00", "2017-01-12 00:00:00"},
			{"o3", "c1", "shipped", "2017-01-07 23:59:59", "", "", "", "2017-01-20 00:00:00"},
		},
		OrderItems: [][]string{
			{"o1", "1", "p1", "s1", "2017-01-09 10:00:00", "50.00", "10.00"},
			{"o1", "2", "p2", "s1", "2017-01-09 10:00:00", "25.50", "5.25"},
			{"o2", "1", "p1", "s2", "2017-01-10 10:00:00", "N/A", "7.50"},
		},
		Customers: [][]string{
			{"c1", "u1", "01310", "sao paulo", "SP"},
			{"c2", "u2", "20040", "rio de janeiro", "RJ"},
			{"c1", "u1", "99999", "elsewhere", "XX"},
		},
		Products: [][]string{
			{"p1", "perfumaria", "40", "287", "1", "225", "16", "10", "14"},
			{"p2", "artes", "44", "276", "1", "1000", "30", "18", "20"},
		},
		Sellers: [][]string{
			{"s1", "13023", "campinas", "SP"},
			{"s2", "13844", "mogi guacu", "SP"},
		},
		Payments: [][]string{
			{"o1", "1", "credit_card", "8", "60.00"},
			{"o1", "2", "voucher", "1", "30.75"},
		},
		Reviews: [][]string{
			{"r1", "o1", "2", "late!", "2017-01-12 00:00:00", "2017-01-13 10:00:00"},
			{"r1", "o1", "2", "late!", "2017-01-12 00:00:00", "2017-01-13 10:00:00"},
			{"r2", "o2", "5", "", "2017-01-13 00:00:00", "2017-01-13 12:00:00"},
		},
	}
}

// WriteDataset writes every input of d into dir, creating it if needed.
// Inputs listed in skip are not written.
func WriteDataset(t *testing.T, dir string, d Dataset, skip ...string) {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("Failed to create %s: %v", dir, err)
	}

	files := []struct {
		name   string
		header []string
		rows   [][]string
	}{
		{"orders_clean.csv", OrdersHeader, d.Orders},
		{"order_items_clean.csv", OrderItemsHeader, d.OrderItems},
		{"customers_clean.csv", CustomersHeader, d.Customers},
		{"products_clean.csv", ProductsHeader, d.Products},
		{"sellers_clean.csv", SellersHeader, d.Sellers},
		{"payments_clean.csv", PaymentsHeader, d.Payments},
		{"reviews_clean.csv", ReviewsHeader, d.Reviews},
	}

	skipped := make(map[string]bool, len(skip))
	for _, s := range skip {
		skipped[s] = true
	}
	for _, f := range files {
		if skipped[f.name] {
			continue
		}
		WriteCSV(t, dir, f.name, f.header, f.rows...)
	}
}
