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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgEdge/pgedge-martbuild/internal/table"
)

func ts(s string) table.Value {
	v, ok := table.ParseTimestamp(s)
	if !ok {
		panic("bad timestamp in test: " + s)
	}
	return v
}

func TestDeliveryMetrics(t *testing.T) {
	tests := []struct {
		name      string
		purchased table.Value
		delivered table.Value
		estimated table.Value
		delivery  table.Value
		delay     table.Value
		late      table.Value
	}{
		{
			name:      "not delivered",
			purchased: ts("2017-01-05 10:00:00"),
			delivered: table.Null(),
			estimated: ts("2017-01-10 00:00:00"),
			delivery:  table.Null(),
			delay:     table.Null(),
			late:      table.Null(),
		},
		{
			name:      "on the estimated date",
			purchased: ts("2017-01-05 00:00:00"),
			delivered: ts("2017-01-10 00:00:00"),
			estimated: ts("2017-01-10 00:00:00"),
			delivery:  table.Float(5),
			delay:     table.Float(0),
			late:      table.Int(0),
		},
		{
			name:      "one day late",
			purchased: ts("2017-01-05 00:00:00"),
			delivered: ts("2017-01-11 00:00:00"),
			estimated: ts("2017-01-10 00:00:00"),
			delivery:  table.Float(6),
			delay:     table.Float(1),
			late:      table.Int(1),
		},
		{
			name:      "early by half a day",
			purchased: ts("2017-01-05 00:00:00"),
			delivered: ts("2017-01-09 12:00:00"),
			estimated: ts("2017-01-10 00:00:00"),
			delivery:  table.Float(4.5),
			delay:     table.Float(-0.5),
			late:      table.Int(0),
		},
		{
			name:      "no estimate",
			purchased: ts("2017-01-05 00:00:00"),
			delivered: ts("2017-01-06 06:00:00"),
			estimated: table.Null(),
			delivery:  table.Float(1.25),
			delay:     table.Null(),
			late:      table.Null(),
		},
		{
			name:      "no purchase timestamp",
			purchased: table.Null(),
			delivered: ts("2017-01-06 00:00:00"),
			estimated: ts("2017-01-07 00:00:00"),
			delivery:  table.Null(),
			delay:     table.Float(-1),
			late:      table.Int(0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			delivery, delay, late := DeliveryMetrics(tt.purchased, tt.delivered, tt.estimated)
			assert.Equal(t, tt.delivery, delivery)
			assert.Equal(t, tt.delay, delay)
			assert.Equal(t, tt.late, late)
		})
	}
}

func TestBuildFactOrdersLeftJoinDefaults(t *testing.T) {
	orders := table.New("orders_clean", []string{"order_id", "order_purchase_timestamp"})
	orders.MustAppend(table.String("o1"), ts("2017-01-05 10:00:00"))
	orders.MustAppend(table.String("o2"), ts("2017-01-06 10:00:00"))
	orders.MustAppend(table.String("o1"), ts("2017-01-07 10:00:00"))

	payments := table.New("payments_clean", []string{"order_id", "payment_value"})
	payments.MustAppend(table.String("o1"), table.Float(10))
	payments.MustAppend(table.String("o1"), table.Float(2.5))

	items := table.New("order_items_clean", []string{"order_id", "order_item_id", "price", "freight_value"})
	items.MustAppend(table.String("o1"), table.Int(1), table.Float(9), table.Float(1))

	fact, err := BuildFactOrders(orders, payments, items)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"order_id", "order_purchase_timestamp", "revenue", "item_count",
		"items_gmv", "freight_total", "delivery_days", "delay_days", "is_late",
	}, fact.Columns())
	require.Equal(t, 2, fact.Len())

	assert.Equal(t, table.Float(12.5), fact.Get(0, "revenue"))
	assert.Equal(t, ts("2017-01-05 10:00:00"), fact.Get(0, "order_purchase_timestamp"))
	assert.Equal(t, table.Int(1), fact.Get(0, "item_count"))

	assert.Equal(t, table.Float(0), fact.Get(1, "revenue"))
	assert.Equal(t, table.Int(0), fact.Get(1, "item_count"))
	assert.Equal(t, table.Float(0), fact.Get(1, "items_gmv"))
	assert.Equal(t, table.Float(0), fact.Get(1, "freight_total"))
	assert.True(t, fact.Get(1, "is_late").IsNull())
}

func TestBuildFactOrdersMinutePrecisionTimestamps(t *testing.T) {
	orders := table.New("orders_clean", []string{
		"order_id", "order_purchase_timestamp",
		"order_delivered_customer_date", "order_estimated_delivery_date",
	})
	orders.MustAppend(table.String("o1"), table.String("2017-01-05 10:00:00"),
		table.String("2017-01-08 10:00"), table.String("2017/01/07"))
	in := &Inputs{
		Orders:     orders,
		OrderItems: table.New("order_items_clean", []string{"order_id", "price", "freight_value"}),
		Payments:   table.New("payments_clean", []string{"order_id", "payment_value"}),
		Reviews:    table.New("reviews_clean", []string{"review_id"}),
	}
	CoerceTypes(in)

	fact, err := BuildFactOrders(in.Orders, in.Payments, in.OrderItems)
	require.NoError(t, err)
	require.Equal(t, 1, fact.Len())

	assert.Equal(t, ts("2017-01-08 10:00:00"), fact.Get(0, "order_delivered_customer_date"))
	assert.Equal(t, table.Float(3), fact.Get(0, "delivery_days"))
	delay, ok := fact.Get(0, "delay_days").Float64()
	require.True(t, ok)
	assert.InDelta(t, 34.0/24, delay, 1e-9)
	assert.Equal(t, table.Int(1), fact.Get(0, "is_late"))
}

func TestBuildFactOrdersRequiresAggregateColumns(t *testing.T) {
	orders := table.New("orders_clean", []string{"order_id"})
	payments := table.New("payments_clean", []string{"order_id"})
	items := table.New("order_items_clean", []string{"order_id", "price", "freight_value"})

	_, err := BuildFactOrders(orders, payments, items)
	assert.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), "payment_value")
}

func TestItemsByOrderWithoutItemID(t *testing.T) {
	items := table.New("order_items_clean", []string{"order_id", "price", "freight_value"})
	items.MustAppend(table.String("o1"), table.Float(1), table.Null())
	items.MustAppend(table.String("o1"), table.Null(), table.Float(2))

	rollup, err := ItemsByOrder(items)
	require.NoError(t, err)
	assert.Equal(t, table.Int(2), rollup.Get(0, "item_count"))
	assert.Equal(t, table.Float(1), rollup.Get(0, "items_gmv"))
	assert.Equal(t, table.Float(2), rollup.Get(0, "freight_total"))
}

func TestBuildFactReviewsEnrichesAndDedupes(t *testing.T) {
	reviews := table.New("reviews_clean", []string{"review_id", "order_id", "review_score", "review_comment_message"})
	reviews.MustAppend(table.String("r1"), table.String("o1"), table.Int(1), table.String("slow"))
	reviews.MustAppend(table.String("r1"), table.String("o1"), table.Int(1), table.String("slow"))
	reviews.MustAppend(table.String("r2"), table.String("o9"), table.Int(5), table.Null())

	factOrders := table.New(FactOrders, []string{"order_id", "delivery_days", "delay_days", "is_late"})
	factOrders.MustAppend(table.String("o1"), table.Float(6), table.Float(1), table.Int(1))

	fact, err := BuildFactReviews(reviews, factOrders)
	require.NoError(t, err)

	assert.Equal(t, []string{"review_id", "order_id", "review_score", "delivery_days", "delay_days", "is_late"}, fact.Columns())
	require.Equal(t, 2, fact.Len())
	assert.Equal(t, table.Int(1), fact.Get(0, "is_late"))
	assert.True(t, fact.Get(1, "delay_days").IsNull())
}

func TestBuildFactReviewsWithoutOrderID(t *testing.T) {
	reviews := table.New("reviews_clean", []string{"review_id", "review_score"})
	reviews.MustAppend(table.String("r1"), table.Int(4))

	fact, err := BuildFactReviews(reviews, table.New(FactOrders, []string{"order_id"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"review_id", "review_score"}, fact.Columns())
}

func TestBuildDimDate(t *testing.T) {
	start := time.Date(2017, 1, 5, 10, 0, 0, 0, time.UTC)
	end := time.Date(2017, 1, 7, 23, 59, 59, 0, time.UTC)

	dim := BuildDimDate(start, end)
	require.Equal(t, 3, dim.Len())
	assert.Equal(t, dimDateColumns, dim.Columns())

	wantWeekday := []int64{4, 5, 6}
	wantName := []string{"Thu", "Fri", "Sat"}
	wantWeekend := []int64{0, 0, 1}
	for i := 0; i < 3; i++ {
		day, _ := dim.Get(i, "date").Time()
		assert.Equal(t, time.Date(2017, 1, 5+i, 0, 0, 0, 0, time.UTC), day)
		assert.Equal(t, table.Int(wantWeekday[i]), dim.Get(i, "weekday"))
		assert.Equal(t, wantName[i], dim.Get(i, "weekday_name").Str())
		assert.Equal(t, table.Int(wantWeekend[i]), dim.Get(i, "is_weekend"))
		assert.Equal(t, table.Int(2017), dim.Get(i, "year"))
		assert.Equal(t, table.Int(1), dim.Get(i, "quarter"))
		assert.Equal(t, table.Int(1), dim.Get(i, "month"))
		assert.Equal(t, "Jan", dim.Get(i, "month_name").Str())
		assert.Equal(t, "2017-01", dim.Get(i, "year_month").Str())
		assert.Equal(t, table.Int(1), dim.Get(i, "week"))
	}
}

func TestBuildDimDateAcrossYearEnd(t *testing.T) {
	dim := BuildDimDate(
		time.Date(2016, 12, 30, 0, 0, 0, 0, time.UTC),
		time.Date(2017, 1, 2, 0, 0, 0, 0, time.UTC),
	)
	require.Equal(t, 4, dim.Len())

	// 2017-01-01 is a Sunday in ISO week 52 of 2016.
	assert.Equal(t, table.Int(7), dim.Get(2, "weekday"))
	assert.Equal(t, table.Int(52), dim.Get(2, "week"))
	assert.Equal(t, table.Int(1), dim.Get(2, "is_weekend"))
	assert.Equal(t, table.Int(4), dim.Get(0, "quarter"))
	assert.Equal(t, table.Int(1), dim.Get(3, "week"))

	seen := make(map[string]bool)
	for i := 0; i < dim.Len(); i++ {
		d := dim.Get(i, "date").FormatDate()
		assert.False(t, seen[d], "duplicate date %s", d)
		seen[d] = true
	}
}

func TestDimDateFromOrdersEmptyRange(t *testing.T) {
	fact := table.New(FactOrders, []string{"order_id", "order_purchase_timestamp"})
	fact.MustAppend(table.String("o1"), table.Null())

	_, err := DimDateFromOrders(fact)
	assert.ErrorIs(t, err, ErrEmptyDateRange)

	_, err = DimDateFromOrders(table.New(FactOrders, []string{"order_id"}))
	assert.ErrorIs(t, err, ErrEmptyDateRange)
}

func TestBuildDimensionKeepsFirstByKey(t *testing.T) {
	sellers := table.New("sellers_clean", []string{"seller_state", "seller_id", "seller_city"})
	sellers.MustAppend(table.String("SP"), table.String("s1"), table.String("campinas"))
	sellers.MustAppend(table.String("RJ"), table.String("s1"), table.String("niteroi"))

	dim := BuildDimension(DimSellers, sellers)
	assert.Equal(t, []string{"seller_id", "seller_city", "seller_state"}, dim.Columns())
	require.Equal(t, 1, dim.Len())
	assert.Equal(t, "campinas", dim.Get(0, "seller_city").Str())
}
