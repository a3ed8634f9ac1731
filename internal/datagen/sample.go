//-------------------------------------------------------------------------
//
// pgEdge Mart Builder
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package datagen

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pgEdge/pgedge-martbuild/internal/csvio"
	"github.com/pgEdge/pgedge-martbuild/internal/logging"
	"github.com/pgEdge/pgedge-martbuild/internal/mart"
	"github.com/pgEdge/pgedge-martbuild/internal/table"
)

const timestampLayout = "2006-01-02 15:04:05"

// SampleConfig controls synthetic dataset generation.
type SampleConfig struct {
	// OutputDir receives the *_clean.csv files.
	OutputDir string

	// Orders is the number of orders to generate.
	Orders int

	// Seed makes output reproducible. Zero picks a random seed.
	Seed uint64
}

// Imperfection rates mirror what the cleaned extracts still contain.
const (
	undeliveredRate     = 0.06
	noPaymentRate       = 0.02
	noItemsRate         = 0.01
	badPriceRate        = 0.005
	noReviewRate        = 0.03
	duplicateReviewRate = 0.01
	duplicateDimRate    = 0.01
)

var sampleScale = []TableScale{
	{Name: mart.CustomersFile, ScaleRatio: 0.95},
	{Name: mart.ProductsFile, ScaleRatio: 0.3},
	{Name: mart.SellersFile, ScaleRatio: 0.03},
}

var (
	orderStatuses = []string{"delivered", "shipped", "canceled", "invoiced", "processing"}
	statusWeights = []int{90, 4, 3, 2, 1}

	paymentTypes   = []string{"credit_card", "boleto", "voucher", "debit_card"}
	paymentWeights = []int{74, 19, 5, 2}

	reviewScores  = []int{5, 4, 3, 2, 1}
	reviewWeights = []int{57, 19, 8, 3, 13}

	itemsPerOrder = []int{1, 2, 3, 4}
	itemsWeights  = []int{88, 9, 2, 1}
)

var (
	purchaseStart = time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC)
	purchaseEnd   = time.Date(2018, 8, 31, 23, 59, 59, 0, time.UTC)
)

// Sample is a generated dataset, one table per input file.
type Sample struct {
	Tables map[string]*table.Table
}

// GenerateSample builds a referentially consistent dataset in memory.
func GenerateSample(cfg SampleConfig) *Sample {
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
		logging.Info().Uint64("seed", seed).Msg("Using random seed")
	}
	g := &sampleGen{
		f:      NewFakerWithSeed(seed),
		counts: NewScaleCalculator(sampleScale).RowCounts(int64(cfg.Orders)),
	}
	return g.generate(cfg.Orders)
}

// WriteSample generates a dataset and writes it to cfg.OutputDir. It
// returns the row count per file.
func WriteSample(ctx context.Context, cfg SampleConfig) (map[string]int, error) {
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	sample := GenerateSample(cfg)
	paths := mart.Paths{InputDir: cfg.OutputDir}
	counts := make(map[string]int, len(mart.InputFiles))

	for _, name := range mart.InputFiles {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		t := sample.Tables[name]
		if err := csvio.WriteFile(paths.Input(name), t); err != nil {
			return nil, err
		}
		counts[name] = t.Len()
	}
	return counts, nil
}

type sampleGen struct {
	f      *Faker
	counts map[string]int64

	customers []string
	products  []string
	sellers   []string
}

func (g *sampleGen) generate(orders int) *Sample {
	s := &Sample{Tables: map[string]*table.Table{
		mart.CustomersFile: g.customerTable(),
		mart.ProductsFile:  g.productTable(),
		mart.SellersFile:   g.sellerTable(),
	}}

	ordersT := table.New(mart.OrdersFile, []string{
		"order_id", "customer_id", "order_status", "order_purchase_timestamp",
		"order_approved_at", "order_delivered_carrier_date",
		"order_delivered_customer_date", "order_estimated_delivery_date",
	})
	itemsT := table.New(mart.OrderItemsFile, []string{
		"order_id", "order_item_id", "product_id", "seller_id",
		"shipping_limit_date", "price", "freight_value",
	})
	paymentsT := table.New(mart.PaymentsFile, []string{
		"order_id", "payment_sequential", "payment_type",
		"payment_installments", "payment_value",
	})
	reviewsT := table.New(mart.ReviewsFile, []string{
		"review_id", "order_id", "review_score", "review_comment_title",
		"review_comment_message", "review_creation_date", "review_answer_timestamp",
	})

	progress := NewProgressReporter(mart.OrdersFile, int64(orders), int64(max(orders/10, 1)))
	for i := 0; i < orders; i++ {
		g.order(ordersT, itemsT, paymentsT, reviewsT)
		progress.Update(1)
	}
	progress.Done()

	s.Tables[mart.OrdersFile] = ordersT
	s.Tables[mart.OrderItemsFile] = itemsT
	s.Tables[mart.PaymentsFile] = paymentsT
	s.Tables[mart.ReviewsFile] = reviewsT
	return s
}

func (g *sampleGen) order(orders, items, payments, reviews *table.Table) {
	f := g.f
	orderID := f.ID()
	status := ChooseWeighted(f, orderStatuses, statusWeights)

	purchased := f.DateRange(purchaseStart, purchaseEnd).UTC().Truncate(time.Second)
	estimated := floorDay(purchased.AddDate(0, 0, f.Int(10, 40)))
	approved := purchased.Add(time.Duration(f.Int(10, 48*60)) * time.Minute)

	var carrier, delivered time.Time
	if status != "canceled" {
		carrier = approved.Add(time.Duration(f.Int(12, 120)) * time.Hour)
	}
	if status == "delivered" && !f.Chance(undeliveredRate) {
		delivered = carrier.Add(time.Duration(f.Int(24, 30*24)) * time.Hour)
	}

	orders.MustAppend(
		table.String(orderID),
		table.String(Choose(f, g.customers)),
		table.String(status),
		stamp(purchased),
		stamp(approved),
		stamp(carrier),
		stamp(delivered),
		stamp(estimated),
	)

	total := 0.0
	if !f.Chance(noItemsRate) {
		n := ChooseWeighted(f, itemsPerOrder, itemsWeights)
		seller := Choose(f, g.sellers)
		for k := 1; k <= n; k++ {
			price := f.Price(5, 500)
			freight := f.Price(5, 60)
			total += price + freight

			priceCell := money(price)
			if f.Chance(badPriceRate) {
				priceCell = table.String("N/A")
			}
			items.MustAppend(
				table.String(orderID),
				table.String(strconv.Itoa(k)),
				table.String(Choose(f, g.products)),
				table.String(seller),
				stamp(purchased.AddDate(0, 0, 6)),
				priceCell,
				money(freight),
			)
		}
	}

	if total > 0 && !f.Chance(noPaymentRate) {
		g.payments(payments, orderID, total)
	}

	if f.Chance(noReviewRate) {
		return
	}
	reviewAt := estimated
	if !delivered.IsZero() {
		reviewAt = floorDay(delivered).AddDate(0, 0, 1)
	}
	row := []table.Value{
		table.String(f.ID()),
		table.String(orderID),
		table.String(strconv.Itoa(ChooseWeighted(f, reviewScores, reviewWeights))),
		nullable(f.NullableString(f.Sentence(2), 0.85)),
		nullable(f.NullableString(f.Sentence(12), 0.6)),
		stamp(reviewAt),
		stamp(reviewAt.Add(time.Duration(f.Int(60, 72*60)) * time.Minute)),
	}
	reviews.MustAppend(row...)
	if f.Chance(duplicateReviewRate) {
		reviews.MustAppend(append([]table.Value(nil), row...)...)
	}
}

// payments splits total into one card payment or a card plus voucher.
func (g *sampleGen) payments(payments *table.Table, orderID string, total float64) {
	f := g.f
	kind := ChooseWeighted(f, paymentTypes, paymentWeights)
	installments := 1
	if kind == "credit_card" {
		installments = f.Int(1, 10)
	}

	if kind == "voucher" || !f.Chance(0.03) {
		payments.MustAppend(table.String(orderID), table.String("1"), table.String(kind),
			table.String(strconv.Itoa(installments)), money(total))
		return
	}

	voucher := float64(int(total*f.Float64(0.1, 0.5)*100)) / 100
	payments.MustAppend(table.String(orderID), table.String("1"), table.String(kind),
		table.String(strconv.Itoa(installments)), money(total-voucher))
	payments.MustAppend(table.String(orderID), table.String("2"), table.String("voucher"),
		table.String("1"), money(voucher))
}

func (g *sampleGen) customerTable() *table.Table {
	t := table.New(mart.CustomersFile, []string{
		"customer_id", "customer_unique_id", "customer_zip_code_prefix",
		"customer_city", "customer_state",
	})
	n := int(g.counts[mart.CustomersFile])
	progress := NewProgressReporter(mart.CustomersFile, int64(n), int64(max(n/4, 1)))
	for i := 0; i < n; i++ {
		id := g.f.ID()
		row := []table.Value{
			table.String(id),
			table.String(g.f.ID()),
			table.String(g.f.ZipPrefix()),
			table.String(g.f.City()),
			table.String(g.f.State()),
		}
		g.customers = append(g.customers, id)
		t.MustAppend(row...)
		if g.f.Chance(duplicateDimRate) {
			t.MustAppend(row[0], row[1], row[2], table.String(g.f.City()), row[4])
		}
		progress.Update(1)
	}
	progress.Done()
	return t
}

func (g *sampleGen) productTable() *table.Table {
	t := table.New(mart.ProductsFile, []string{
		"product_id", "product_category_name", "product_name_lenght",
		"product_description_lenght", "product_photos_qty", "product_weight_g",
		"product_length_cm", "product_height_cm", "product_width_cm",
	})
	n := int(g.counts[mart.ProductsFile])
	for i := 0; i < n; i++ {
		id := g.f.ID()
		g.products = append(g.products, id)
		t.MustAppend(
			table.String(id),
			nullable(g.f.NullableString(g.f.ProductCategory(), 0.02)),
			integer(g.f.Int(5, 76)),
			integer(g.f.Int(4, 3992)),
			integer(g.f.Int(1, 10)),
			integer(g.f.Int(50, 30000)),
			integer(g.f.Int(7, 105)),
			integer(g.f.Int(2, 105)),
			integer(g.f.Int(6, 118)),
		)
	}
	return t
}

func (g *sampleGen) sellerTable() *table.Table {
	t := table.New(mart.SellersFile, []string{
		"seller_id", "seller_zip_code_prefix", "seller_city", "seller_state",
	})
	n := int(g.counts[mart.SellersFile])
	for i := 0; i < n; i++ {
		id := g.f.ID()
		g.sellers = append(g.sellers, id)
		row := []table.Value{
			table.String(id),
			table.String(g.f.ZipPrefix()),
			table.String(g.f.City()),
			table.String(g.f.State()),
		}
		t.MustAppend(row...)
		if g.f.Chance(duplicateDimRate) {
			t.MustAppend(append([]table.Value(nil), row...)...)
		}
	}
	return t
}

func stamp(t time.Time) table.Value {
	if t.IsZero() {
		return table.Null()
	}
	return table.String(t.Format(timestampLayout))
}

func money(v float64) table.Value {
	return table.String(strconv.FormatFloat(v, 'f', 2, 64))
}

func integer(v int) table.Value {
	return table.String(strconv.Itoa(v))
}

func nullable(s string) table.Value {
	if s == "" {
		return table.Null()
	}
	return table.String(s)
}

func floorDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
