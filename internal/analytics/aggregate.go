package analytics

import (
	"sort"

	"salon-pos/internal/models"

	"github.com/shopspring/decimal"
)

// KPIs are the headline numbers of the dashboard. "Transactions" counts line
// items, not checkouts; "customers" counts distinct names.
type KPIs struct {
	TotalSales              int64 `json:"total_sales"`
	TransactionCount        int   `json:"transaction_count"`
	AverageTransactionValue int64 `json:"average_transaction_value"`
	CustomerCount           int   `json:"customer_count"`
	AverageSpendPerCustomer int64 `json:"average_spend_per_customer"`
	CheckoutCount           int   `json:"checkout_count"`
}

// PaymentStat is one row of the payment matrix. Count is checkouts (one per sale).
type PaymentStat struct {
	Method        models.PaymentMethod `json:"method"`
	Count         int                  `json:"count"`
	Amount        int64                `json:"amount"`
	Percent       float64              `json:"percent"`
	AverageAmount int64                `json:"average_amount"`
}

// DailyBucket aggregates one populated date. Deltas compare against the previous
// populated date and are nil on the first bucket.
type DailyBucket struct {
	Date                        string   `json:"date"`
	Weekday                     int      `json:"weekday"` // 0 = Sunday
	DayKind                     DayKind  `json:"day_kind"`
	SalesTotal                  int64    `json:"sales_total"`
	LineItemCount               int      `json:"line_item_count"`
	UniqueCustomerCount         int      `json:"unique_customer_count"`
	MovingAvg7                  int64    `json:"moving_avg_7"`
	MovingAvg30                 int64    `json:"moving_avg_30"`
	DeltaFromPreviousDay        *int64   `json:"delta_from_previous_day"`
	DeltaPercentFromPreviousDay *float64 `json:"delta_percent_from_previous_day"`
}

type Rankings struct {
	Category []RankingEntry `json:"category"`
	Product  []RankingEntry `json:"product"`
	Customer []RankingEntry `json:"customer"`
}

// Report is everything the dashboard derives from one window of sales.
type Report struct {
	Range    DateRange     `json:"range"`
	KPIs     KPIs          `json:"kpis"`
	Payments []PaymentStat `json:"payments"`
	Daily    []DailyBucket `json:"daily"`
	Rankings Rankings      `json:"rankings"`
}

// Option configures Aggregate.
type Option func(*options)

type options struct {
	rankingLimit int
}

// WithRankingLimit sets how many entries each ranking keeps.
func WithRankingLimit(n int) Option {
	return func(o *options) {
		o.rankingLimit = n
	}
}

func applyOptions(opts []Option) *options {
	o := &options{rankingLimit: DefaultRankingLimit}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Aggregate computes the dashboard report for the sales inside rng.
// records is only read, never modified or reordered.
func Aggregate(records []models.Sale, rng DateRange, opts ...Option) Report {
	o := applyOptions(opts)
	sales := FilterByRange(records, rng)

	return Report{
		Range:    rng,
		KPIs:     computeKPIs(sales),
		Payments: paymentMatrix(sales),
		Daily:    dailySeries(sales),
		Rankings: Rankings{
			Category: Rank(sales, ByCategory, o.rankingLimit),
			Product:  Rank(sales, ByProduct, o.rankingLimit),
			Customer: Rank(sales, ByCustomer, o.rankingLimit),
		},
	}
}

// FilterByRange keeps the sales dated inside rng. Records without an ID or a
// readable date are dropped rather than failing the whole report.
func FilterByRange(records []models.Sale, rng DateRange) []models.Sale {
	out := make([]models.Sale, 0, len(records))
	for _, s := range records {
		if s.ID == "" {
			continue
		}
		d, err := ParseDate(s.Date)
		if err != nil {
			continue
		}
		// Grouping and range checks compare the canonical form
		s.Date = FormatDate(d)
		if rng.Contains(s.Date) {
			out = append(out, s)
		}
	}
	return out
}

func computeKPIs(sales []models.Sale) KPIs {
	var k KPIs
	customers := make(map[string]struct{})

	for _, s := range sales {
		k.TotalSales += s.TotalAmount
		k.TransactionCount += len(s.Items)
		customers[s.CustomerName] = struct{}{}
	}

	k.CheckoutCount = len(sales)
	k.CustomerCount = len(customers)
	k.AverageTransactionValue = floorDiv(k.TotalSales, int64(k.TransactionCount))
	k.AverageSpendPerCustomer = floorDiv(k.TotalSales, int64(k.CustomerCount))
	return k
}

func paymentMatrix(sales []models.Sale) []PaymentStat {
	stats := make([]PaymentStat, len(models.PaymentMethods))
	pos := make(map[models.PaymentMethod]int, len(models.PaymentMethods))
	for i, m := range models.PaymentMethods {
		stats[i].Method = m
		pos[m] = i
	}

	var total int64
	for _, s := range sales {
		total += s.TotalAmount
		// Methods outside the enumeration still count towards the total
		i, ok := pos[s.PaymentMethod]
		if !ok {
			continue
		}
		stats[i].Count++
		stats[i].Amount += s.TotalAmount
	}

	for i := range stats {
		stats[i].Percent = percentOf(stats[i].Amount, total)
		stats[i].AverageAmount = floorDiv(stats[i].Amount, int64(stats[i].Count))
	}
	return stats
}

func dailySeries(sales []models.Sale) []DailyBucket {
	type day struct {
		total     int64
		lines     int
		customers map[string]struct{}
	}

	// 1. Group by date
	days := make(map[string]*day)
	for _, s := range sales {
		d, ok := days[s.Date]
		if !ok {
			d = &day{customers: make(map[string]struct{})}
			days[s.Date] = d
		}
		d.total += s.TotalAmount
		d.lines += len(s.Items)
		d.customers[s.CustomerName] = struct{}{}
	}

	dates := make([]string, 0, len(days))
	for date := range days {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	totals := make([]int64, len(dates))
	for i, date := range dates {
		totals[i] = days[date].total
	}

	// 2. Windows run over populated dates only, never over calendar gaps
	buckets := make([]DailyBucket, len(dates))
	for i, date := range dates {
		d := days[date]
		t, _ := ParseDate(date)

		b := DailyBucket{
			Date:                date,
			Weekday:             int(t.Weekday()),
			DayKind:             DayKindOf(t),
			SalesTotal:          d.total,
			LineItemCount:       d.lines,
			UniqueCustomerCount: len(d.customers),
			MovingAvg7:          trailingMean(totals, i, 7),
			MovingAvg30:         trailingMean(totals, i, 30),
		}

		if i > 0 {
			prev := totals[i-1]
			delta := d.total - prev
			pct := 0.0
			if prev > 0 {
				pct = percentOf(delta, prev)
			}
			b.DeltaFromPreviousDay = &delta
			b.DeltaPercentFromPreviousDay = &pct
		}
		buckets[i] = b
	}
	return buckets
}

// trailingMean is the floored mean of values[i-width+1 .. i], clipped at 0.
func trailingMean(values []int64, i, width int) int64 {
	from := i - width + 1
	if from < 0 {
		from = 0
	}
	var sum int64
	for j := from; j <= i; j++ {
		sum += values[j]
	}
	return floorDiv(sum, int64(i-from+1))
}

var hundred = decimal.NewFromInt(100)

// percentOf returns part/whole as a percentage rounded to one decimal place,
// or 0 when whole is 0.
func percentOf(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return decimal.NewFromInt(part).Mul(hundred).DivRound(decimal.NewFromInt(whole), 1).InexactFloat64()
}

// floorDiv divides rounding toward negative infinity; a zero divisor yields 0.
func floorDiv(a, b int64) int64 {
	if b == 0 {
		return 0
	}
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
