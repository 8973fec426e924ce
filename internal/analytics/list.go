package analytics

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"salon-pos/internal/models"
)

var ErrUnknownSortKey = errors.New("unknown sort key")

type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(strings.TrimSpace(s))) {
	case "", Desc:
		return Desc, nil
	case Asc:
		return Asc, nil
	default:
		return "", fmt.Errorf("%w: order %q", ErrUnknownSortKey, s)
	}
}

// SalesSortKey picks the column the sales list is ordered by.
type SalesSortKey string

const (
	SortSalesByDate     SalesSortKey = "date"
	SortSalesByCustomer SalesSortKey = "customer"
	SortSalesByAmount   SalesSortKey = "amount"
	SortSalesByPayment  SalesSortKey = "payment"
)

func ParseSalesSortKey(s string) (SalesSortKey, error) {
	switch k := SalesSortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return SortSalesByDate, nil
	case SortSalesByDate, SortSalesByCustomer, SortSalesByAmount, SortSalesByPayment:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSortKey, s)
	}
}

// SalesQuery is the state of the sales list view.
type SalesQuery struct {
	Range  DateRange
	Search string
	Sort   SalesSortKey
	Order  SortOrder
}

// QuerySales filters and orders a copy of records. The search matches,
// case-insensitively, the customer name or any item's category or product name.
func QuerySales(records []models.Sale, q SalesQuery) []models.Sale {
	needle := strings.ToLower(strings.TrimSpace(q.Search))

	out := make([]models.Sale, 0, len(records))
	for _, s := range records {
		if !q.Range.Contains(s.Date) {
			continue
		}
		if needle != "" && !matchesSearch(&s, needle) {
			continue
		}
		out = append(out, s)
	}

	less := salesLess(q.Sort)
	desc := q.Order != Asc
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return less(&out[j], &out[i])
		}
		return less(&out[i], &out[j])
	})
	return out
}

func matchesSearch(s *models.Sale, needle string) bool {
	if strings.Contains(strings.ToLower(s.CustomerName), needle) {
		return true
	}
	for _, it := range s.Items {
		if strings.Contains(strings.ToLower(string(it.Category)), needle) ||
			strings.Contains(strings.ToLower(it.ProductName), needle) {
			return true
		}
	}
	return false
}

func salesLess(key SalesSortKey) func(a, b *models.Sale) bool {
	switch key {
	case SortSalesByCustomer:
		return func(a, b *models.Sale) bool { return a.CustomerName < b.CustomerName }
	case SortSalesByAmount:
		return func(a, b *models.Sale) bool { return a.TotalAmount < b.TotalAmount }
	case SortSalesByPayment:
		return func(a, b *models.Sale) bool { return a.PaymentMethod < b.PaymentMethod }
	default:
		return func(a, b *models.Sale) bool { return a.Date < b.Date }
	}
}

// DailySortKey picks the column the dashboard's daily table is ordered by.
type DailySortKey string

const (
	SortDailyByDate  DailySortKey = "date"
	SortDailyBySales DailySortKey = "sales"
	SortDailyByCount DailySortKey = "count"
)

func ParseDailySortKey(s string) (DailySortKey, error) {
	switch k := DailySortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return SortDailyByDate, nil
	case SortDailyByDate, SortDailyBySales, SortDailyByCount:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSortKey, s)
	}
}

// SortDaily returns a sorted copy; the input stays in date order.
func SortDaily(buckets []DailyBucket, key DailySortKey, order SortOrder) []DailyBucket {
	out := make([]DailyBucket, len(buckets))
	copy(out, buckets)

	var less func(a, b *DailyBucket) bool
	switch key {
	case SortDailyBySales:
		less = func(a, b *DailyBucket) bool { return a.SalesTotal < b.SalesTotal }
	case SortDailyByCount:
		less = func(a, b *DailyBucket) bool { return a.LineItemCount < b.LineItemCount }
	default:
		less = func(a, b *DailyBucket) bool { return a.Date < b.Date }
	}

	desc := order != Asc
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return less(&out[j], &out[i])
		}
		return less(&out[i], &out[j])
	})
	return out
}
