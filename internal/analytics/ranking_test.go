package analytics

import (
	"errors"
	"fmt"
	"testing"

	"salon-pos/internal/models"
)

func itemSale(id, customer string, items ...models.SaleItem) models.Sale {
	s := models.Sale{ID: id, Date: "2024-06-01", CustomerName: customer, PaymentMethod: models.PaymentCash, Items: items}
	s.TotalAmount = models.SumItems(s.Items)
	return s
}

func item(category models.Category, product string, qty int, price int64) models.SaleItem {
	return models.SaleItem{Category: category, ProductName: product, Quantity: qty, UnitPrice: price}
}

func TestRank_TiesKeepFirstSeenOrder(t *testing.T) {
	records := []models.Sale{
		itemSale("1", "A", item(models.CategoryBellman, "b", 1, 1000)),
		itemSale("2", "B", item(models.CategoryCleansia, "c", 1, 1000)),
		itemSale("3", "C", item(models.CategoryTreatment, "t", 1, 2000)),
	}

	for run := 0; run < 3; run++ {
		got := Rank(records, ByCategory, 5)
		want := []models.Category{models.CategoryTreatment, models.CategoryBellman, models.CategoryCleansia}
		if len(got) != len(want) {
			t.Fatalf("expected %d entries, got %d", len(want), len(got))
		}
		for i, w := range want {
			if got[i].Name != string(w) || got[i].Rank != i+1 {
				t.Fatalf("run %d: entry %d = %+v, want %s at rank %d", run, i, got[i], w, i+1)
			}
		}
	}
}

func TestRank_Customer(t *testing.T) {
	records := []models.Sale{
		itemSale("1", "Sato", item(models.CategoryOther, "x", 1, 1000), item(models.CategoryOther, "y", 1, 500)),
		itemSale("2", "Ito", item(models.CategoryOther, "x", 1, 3000)),
		itemSale("3", "Sato", item(models.CategoryOther, "x", 2, 1000)),
	}

	got := Rank(records, ByCustomer, 0)

	if len(got) != 2 {
		t.Fatalf("expected 2 customers, got %d", len(got))
	}
	if got[0].Name != "Sato" || got[0].TotalSales != 3500 || got[0].Count != 2 {
		t.Fatalf("unexpected top customer %+v", got[0])
	}
	if got[0].Category != "" {
		t.Fatalf("customer entries carry no category")
	}
}

func TestRank_ProductCarriesCategory(t *testing.T) {
	records := []models.Sale{
		itemSale("1", "A", item(models.CategoryHydrogen, "水素水", 3, 500)),
		itemSale("2", "B", item(models.CategoryHydrogen, "水素水", 1, 500), item(models.CategoryTreatment, "フェイシャル", 1, 6000)),
	}

	got := Rank(records, ByProduct, 5)

	if got[0].Name != "フェイシャル" || got[0].Category != models.CategoryTreatment {
		t.Fatalf("unexpected first product %+v", got[0])
	}
	if got[1].Name != "水素水" || got[1].TotalSales != 2000 || got[1].Count != 2 {
		t.Fatalf("unexpected second product %+v", got[1])
	}
}

func TestRank_DefaultLimit(t *testing.T) {
	var records []models.Sale
	for i := 0; i < 8; i++ {
		records = append(records, itemSale(fmt.Sprint(i), fmt.Sprintf("customer-%d", i),
			item(models.CategoryOther, "x", 1, int64(1000*(i+1)))))
	}

	got := Rank(records, ByCustomer, -1)

	if len(got) != DefaultRankingLimit {
		t.Fatalf("expected %d entries, got %d", DefaultRankingLimit, len(got))
	}
	if got[0].Name != "customer-7" || got[4].Name != "customer-3" {
		t.Fatalf("unexpected order: %+v", got)
	}
	if got := Rank(records, ByCustomer, 2); len(got) != 2 {
		t.Fatalf("expected explicit limit to apply, got %d", len(got))
	}
}

func TestParseDimension(t *testing.T) {
	for _, name := range []string{"category", "Product", " customer "} {
		d, err := ParseDimension(name)
		if err != nil {
			t.Fatalf("ParseDimension(%q) error: %v", name, err)
		}
		if d.key == nil {
			t.Fatalf("ParseDimension(%q) returned an empty dimension", name)
		}
	}
	if _, err := ParseDimension("region"); !errors.Is(err, ErrUnknownDimension) {
		t.Fatalf("expected ErrUnknownDimension, got %v", err)
	}
	if got := Rank(nil, Dimension{}, 5); got != nil {
		t.Fatalf("zero dimension should rank nothing")
	}
}
