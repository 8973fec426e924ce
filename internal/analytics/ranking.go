package analytics

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"salon-pos/internal/models"
)

const DefaultRankingLimit = 5

var ErrUnknownDimension = errors.New("unknown ranking dimension")

// Dimension is a closed set of ranking groupings. Each one carries its own key
// extraction; item-level dimensions flatten line items, the rest group whole sales.
type Dimension struct {
	name         string
	perItem      bool
	withCategory bool
	key          func(sale *models.Sale, item *models.SaleItem) string
}

var (
	ByCategory = Dimension{
		name:    "category",
		perItem: true,
		key:     func(_ *models.Sale, item *models.SaleItem) string { return string(item.Category) },
	}
	ByProduct = Dimension{
		name:         "product",
		perItem:      true,
		withCategory: true,
		key:          func(_ *models.Sale, item *models.SaleItem) string { return item.ProductName },
	}
	ByCustomer = Dimension{
		name: "customer",
		key:  func(sale *models.Sale, _ *models.SaleItem) string { return sale.CustomerName },
	}
)

// Dimensions lists every ranking in the order the dashboard shows them.
var Dimensions = []Dimension{ByCategory, ByProduct, ByCustomer}

func ParseDimension(s string) (Dimension, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, d := range Dimensions {
		if d.name == name {
			return d, nil
		}
	}
	return Dimension{}, fmt.Errorf("%w: %q", ErrUnknownDimension, s)
}

func (d Dimension) String() string {
	return d.name
}

func (d Dimension) MarshalText() ([]byte, error) {
	return []byte(d.name), nil
}

// RankingEntry is one row of a top-sellers table.
type RankingEntry struct {
	Rank       int             `json:"rank"`
	Name       string          `json:"name"`
	Category   models.Category `json:"category,omitempty"`
	TotalSales int64           `json:"total_sales"`
	Count      int             `json:"count"` // line items, or checkouts for customers
}

// Rank groups records by dimension and returns the top entries by sales.
// Equal totals keep the order in which their keys were first seen.
func Rank(records []models.Sale, dim Dimension, limit int) []RankingEntry {
	if dim.key == nil {
		return nil
	}
	if limit <= 0 {
		limit = DefaultRankingLimit
	}

	// 1. Group, remembering first-seen order
	index := make(map[string]int)
	entries := make([]RankingEntry, 0)

	add := func(key string, category models.Category, amount int64) {
		i, seen := index[key]
		if !seen {
			i = len(entries)
			index[key] = i
			entries = append(entries, RankingEntry{Name: key})
			if dim.withCategory {
				entries[i].Category = category
			}
		}
		entries[i].TotalSales += amount
		entries[i].Count++
	}

	for s := range records {
		sale := &records[s]
		if !dim.perItem {
			add(dim.key(sale, nil), "", sale.TotalAmount)
			continue
		}
		for it := range sale.Items {
			item := &sale.Items[it]
			add(dim.key(sale, item), item.Category, item.Subtotal)
		}
	}

	// 2. Sort (stable) and truncate
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TotalSales > entries[j].TotalSales
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
