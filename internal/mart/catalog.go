//-------------------------------------------------------------------------
//
// pgEdge Mart Builder
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package mart builds the BI star-schema export from the cleaned
// relational extracts: fact tables for orders, order items and reviews,
// dimension tables for customers, products and sellers, and a generated
// calendar dimension.
package mart

// Input file names, resolved under Paths.InputDir.
const (
	OrdersFile     = "orders_clean.csv"
	OrderItemsFile = "order_items_clean.csv"
	CustomersFile  = "customers_clean.csv"
	ProductsFile   = "products_clean.csv"
	SellersFile    = "sellers_clean.csv"
	PaymentsFile   = "payments_clean.csv"
	ReviewsFile    = "reviews_clean.csv"
)

// InputFiles lists every required input in load order.
var InputFiles = []string{
	OrdersFile,
	OrderItemsFile,
	CustomersFile,
	ProductsFile,
	SellersFile,
	PaymentsFile,
	ReviewsFile,
}

// Output table names.
const (
	FactOrders     = "fact_orders"
	FactOrderItems = "fact_order_items"
	FactReviews    = "fact_reviews"
	DimCustomers   = "dim_customers"
	DimProducts    = "dim_products"
	DimSellers     = "dim_sellers"
	DimDate        = "dim_date"
)

// OutputTable describes one table of the export.
type OutputTable struct {
	// Name is the table name; the file is Name + ".csv".
	Name string

	// Grain is what one row represents.
	Grain string

	// Key lists the columns that identify a row.
	Key []string

	// Columns is the ordered projection list. Columns missing from the
	// source are skipped at build time.
	Columns []string
}

// FileName returns the output file name.
func (o OutputTable) FileName() string {
	return o.Name + ".csv"
}

var catalog = []OutputTable{
	{
		Name:  FactOrders,
		Grain: "order",
		Key:   []string{"order_id"},
		Columns: []string{
			"order_id",
			"customer_id",
			"order_status",
			"order_purchase_timestamp",
			"order_delivered_customer_date",
			"order_estimated_delivery_date",
			"revenue",
			"item_count",
			"items_gmv",
			"freight_total",
			"delivery_days",
			"delay_days",
			"is_late",
		},
	},
	{
		Name:  FactOrderItems,
		Grain: "order item",
		Key:   []string{"order_id", "order_item_id"},
		Columns: []string{
			"order_id",
			"order_item_id",
			"product_id",
			"seller_id",
			"shipping_limit_date",
			"price",
			"freight_value",
		},
	},
	{
		Name:  FactReviews,
		Grain: "review",
		Key:   []string{"review_id"},
		Columns: []string{
			"review_id",
			"order_id",
			"review_score",
			"review_creation_date",
			"review_answer_timestamp",
			"delivery_days",
			"delay_days",
			"is_late",
		},
	},
	{
		Name:  DimCustomers,
		Grain: "customer",
		Key:   []string{"customer_id"},
		Columns: []string{
			"customer_id",
			"customer_unique_id",
			"customer_zip_code_prefix",
			"customer_city",
			"customer_state",
		},
	},
	{
		Name:  DimProducts,
		Grain: "product",
		Key:   []string{"product_id"},
		Columns: []string{
			"product_id",
			"product_category_name",
			"product_photos_qty",
			"product_weight_g",
			"product_length_cm",
			"product_height_cm",
			"product_width_cm",
			"product_name_lenght",
			"product_description_lenght",
		},
	},
	{
		Name:  DimSellers,
		Grain: "seller",
		Key:   []string{"seller_id"},
		Columns: []string{
			"seller_id",
			"seller_zip_code_prefix",
			"seller_city",
			"seller_state",
		},
	},
	{
		Name:    DimDate,
		Grain:   "calendar day",
		Key:     []string{"date"},
		Columns: dimDateColumns,
	},
}

// Catalog returns the output tables in export order.
func Catalog() []OutputTable {
	out := make([]OutputTable, len(catalog))
	copy(out, catalog)
	return out
}

func columnsOf(name string) []string {
	for _, o := range catalog {
		if o.Name == name {
			return o.Columns
		}
	}
	return nil
}
