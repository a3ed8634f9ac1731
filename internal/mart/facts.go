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
	"github.com/pgEdge/pgedge-martbuild/internal/logging"
	"github.com/pgEdge/pgedge-martbuild/internal/table"
)

const secondsPerDay = 24 * 3600

// Columns coerced on load. Absent columns are skipped.
var (
	orderTimestampColumns = []string{
		"order_purchase_timestamp",
		"order_approved_at",
		"order_delivered_carrier_date",
		"order_delivered_customer_date",
		"order_estimated_delivery_date",
	}
	orderItemTimestampColumns = []string{"shipping_limit_date"}
	orderItemNumericColumns   = []string{"order_item_id", "price", "freight_value"}
	paymentNumericColumns     = []string{"payment_sequential", "payment_installments", "payment_value"}
	reviewTimestampColumns    = []string{"review_creation_date", "review_answer_timestamp"}
	reviewNumericColumns      = []string{"review_score"}
)

// CoerceTypes converts the typed columns of each input in place.
// Unparsable values become null; the counts are only logged.
func CoerceTypes(in *Inputs) {
	report := func(t *table.Table, kind string, nulled int) {
		if nulled == 0 {
			return
		}
		logging.Debug().
			Str("table", t.Name).
			Str("kind", kind).
			Int("nulled", nulled).
			Msg("Unparsable values set to null")
	}

	report(in.Orders, "timestamp", in.Orders.CoerceTimestamps(orderTimestampColumns...))
	report(in.OrderItems, "timestamp", in.OrderItems.CoerceTimestamps(orderItemTimestampColumns...))
	report(in.OrderItems, "numeric", in.OrderItems.CoerceNumeric(orderItemNumericColumns...))
	report(in.Payments, "numeric", in.Payments.CoerceNumeric(paymentNumericColumns...))
	report(in.Reviews, "timestamp", in.Reviews.CoerceTimestamps(reviewTimestampColumns...))
	report(in.Reviews, "numeric", in.Reviews.CoerceNumeric(reviewNumericColumns...))
}

// RevenueByOrder sums payment_value per order_id into a revenue column.
func RevenueByOrder(payments *table.Table) (*table.Table, error) {
	if err := requireColumns(payments, "order_id", "payment_value"); err != nil {
		return nil, err
	}
	return payments.GroupBy("revenue_by_order", "order_id",
		table.Aggregation{Name: "revenue", Column: "payment_value", Func: table.Sum},
	)
}

// ItemsByOrder rolls order items up to item_count, items_gmv and
// freight_total per order_id. item_count counts rows with a non-null
// order_item_id, or every row when that column is absent.
func ItemsByOrder(items *table.Table) (*table.Table, error) {
	if err := requireColumns(items, "order_id", "price", "freight_value"); err != nil {
		return nil, err
	}
	countCol := ""
	if items.Has("order_item_id") {
		countCol = "order_item_id"
	}
	return items.GroupBy("items_by_order", "order_id",
		table.Aggregation{Name: "item_count", Column: countCol, Func: table.Count},
		table.Aggregation{Name: "items_gmv", Column: "price", Func: table.Sum},
		table.Aggregation{Name: "freight_total", Column: "freight_value", Func: table.Sum},
	)
}

// DeliveryMetrics derives delivery_days, delay_days and is_late from the
// purchase, delivered-to-customer and estimated-delivery timestamps. Each
// result is null when an operand it needs is null.
func DeliveryMetrics(purchased, delivered, estimated table.Value) (deliveryDays, delayDays, isLate table.Value) {
	deliveryDays = daysBetween(purchased, delivered)
	delayDays = daysBetween(estimated, delivered)

	isLate = table.Null()
	if delay, ok := delayDays.Float64(); ok {
		if delay > 0 {
			isLate = table.Int(1)
		} else {
			isLate = table.Int(0)
		}
	}
	return deliveryDays, delayDays, isLate
}

func daysBetween(from, to table.Value) table.Value {
	start, ok := from.Time()
	if !ok {
		return table.Null()
	}
	end, ok := to.Time()
	if !ok {
		return table.Null()
	}
	return table.Float(end.Sub(start).Seconds() / secondsPerDay)
}

// BuildFactOrders left-joins orders with payment revenue and the item
// rollup, fills missing aggregates with zero, derives delivery metrics,
// projects the fact_orders columns and keeps the first row per order_id.
func BuildFactOrders(orders, payments, items *table.Table) (*table.Table, error) {
	if err := requireColumns(orders, "order_id"); err != nil {
		return nil, err
	}
	revenue, err := RevenueByOrder(payments)
	if err != nil {
		return nil, err
	}
	rollup, err := ItemsByOrder(items)
	if err != nil {
		return nil, err
	}

	fact, err := orders.LeftJoin(revenue, "order_id")
	if err != nil {
		return nil, err
	}
	fact, err = fact.LeftJoin(rollup, "order_id")
	if err != nil {
		return nil, err
	}

	fact.FillNull("revenue", table.Float(0))
	fact.FillNull("item_count", table.Int(0))
	fact.FillNull("items_gmv", table.Float(0))
	fact.FillNull("freight_total", table.Float(0))

	n := fact.Len()
	delivery := make([]table.Value, n)
	delay := make([]table.Value, n)
	late := make([]table.Value, n)
	for i := 0; i < n; i++ {
		delivery[i], delay[i], late[i] = DeliveryMetrics(
			fact.Get(i, "order_purchase_timestamp"),
			fact.Get(i, "order_delivered_customer_date"),
			fact.Get(i, "order_estimated_delivery_date"),
		)
	}
	fact.AddColumn("delivery_days", func(i int) table.Value { return delivery[i] })
	fact.AddColumn("delay_days", func(i int) table.Value { return delay[i] })
	fact.AddColumn("is_late", func(i int) table.Value { return late[i] })

	return fact.Select(FactOrders, columnsOf(FactOrders)).DedupeBy("order_id"), nil
}

// BuildFactOrderItems projects the item-grain fact. Rows are kept as is.
func BuildFactOrderItems(items *table.Table) *table.Table {
	return items.Select(FactOrderItems, columnsOf(FactOrderItems))
}

// BuildFactReviews enriches reviews with the delivery metrics of their
// order, projects the fact_reviews columns and drops exact duplicate rows.
func BuildFactReviews(reviews, factOrders *table.Table) (*table.Table, error) {
	enriched := reviews
	if reviews.Has("order_id") {
		delivery := factOrders.Select("order_delivery",
			[]string{"order_id", "delivery_days", "delay_days", "is_late"})
		var err error
		enriched, err = reviews.LeftJoin(delivery, "order_id")
		if err != nil {
			return nil, err
		}
	}
	return enriched.Select(FactReviews, columnsOf(FactReviews)).Distinct(), nil
}
