package database

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"salon-pos/internal/analytics"
	"salon-pos/internal/models"

	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := Open("sqlite", dsn, logger.Silent)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	prev := DB
	DB = db
	t.Cleanup(func() {
		DB = prev
		sqlDB.Close()
	})
}

func testSale(date, customer string, items ...models.SaleItem) *models.Sale {
	return &models.Sale{
		Date:          date,
		CustomerName:  customer,
		PaymentMethod: models.PaymentCash,
		Items:         items,
	}
}

func line(product string, qty int, price int64) models.SaleItem {
	return models.SaleItem{Category: models.CategoryTreatment, ProductName: product, Quantity: qty, UnitPrice: price}
}

func TestCreateAndGetSale(t *testing.T) {
	setupTestDB(t)

	sale := testSale("2024-06-01", "Sato", line("first", 2, 1000), line("second", 1, 500), line("third", 3, 100))
	if err := CreateSale(sale); err != nil {
		t.Fatalf("CreateSale: %v", err)
	}
	if sale.ID == "" {
		t.Fatalf("expected an ID to be assigned")
	}
	if sale.TotalAmount != 2800 {
		t.Fatalf("expected total 2800, got %d", sale.TotalAmount)
	}

	got, err := GetSale(sale.ID)
	if err != nil {
		t.Fatalf("GetSale: %v", err)
	}
	if len(got.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(got.Items))
	}
	for i, want := range []string{"first", "second", "third"} {
		if got.Items[i].ProductName != want {
			t.Fatalf("item %d = %s, want %s", i, got.Items[i].ProductName, want)
		}
	}

	if _, err := GetSale("missing"); !errors.Is(err, ErrSaleNotFound) {
		t.Fatalf("expected ErrSaleNotFound, got %v", err)
	}
}

func TestUpdateSale_PreservesIdentity(t *testing.T) {
	setupTestDB(t)

	created := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	sale := testSale("2024-06-01", "Sato", line("a", 1, 1000))
	sale.CreatedAt = created
	if err := CreateSale(sale); err != nil {
		t.Fatalf("CreateSale: %v", err)
	}

	edit := testSale("2024-06-02", "Suzuki", line("b", 2, 700), line("c", 1, 100))
	edit.PaymentMethod = models.PaymentCreditCard
	if err := UpdateSale(sale.ID, edit); err != nil {
		t.Fatalf("UpdateSale: %v", err)
	}

	got, err := GetSale(sale.ID)
	if err != nil {
		t.Fatalf("GetSale: %v", err)
	}
	if !got.CreatedAt.Equal(created) {
		t.Fatalf("CreatedAt changed: %s", got.CreatedAt)
	}
	if got.Date != "2024-06-02" || got.CustomerName != "Suzuki" || got.PaymentMethod != models.PaymentCreditCard {
		t.Fatalf("header not replaced: %+v", got)
	}
	if len(got.Items) != 2 || got.TotalAmount != 1500 {
		t.Fatalf("items not replaced: %d items, total %d", len(got.Items), got.TotalAmount)
	}

	if err := UpdateSale("missing", edit); !errors.Is(err, ErrSaleNotFound) {
		t.Fatalf("expected ErrSaleNotFound, got %v", err)
	}
}

func TestDeleteSale(t *testing.T) {
	setupTestDB(t)

	sale := testSale("2024-06-01", "Sato", line("a", 1, 1000))
	if err := CreateSale(sale); err != nil {
		t.Fatalf("CreateSale: %v", err)
	}
	if err := DeleteSale(sale.ID); err != nil {
		t.Fatalf("DeleteSale: %v", err)
	}
	if err := DeleteSale(sale.ID); !errors.Is(err, ErrSaleNotFound) {
		t.Fatalf("expected ErrSaleNotFound on second delete, got %v", err)
	}

	var orphans int64
	DB.Model(&models.SaleItem{}).Count(&orphans)
	if orphans != 0 {
		t.Fatalf("expected items to be removed, %d left", orphans)
	}
}

func TestLoadSalesInRange(t *testing.T) {
	setupTestDB(t)

	for _, d := range []string{"2024-05-31", "2024-06-01", "2024-06-15", "2024-06-30", "2024-07-01"} {
		if err := CreateSale(testSale(d, "A", line("x", 1, 100))); err != nil {
			t.Fatalf("CreateSale: %v", err)
		}
	}

	june := analytics.Month{Year: 2024, Month: time.June}.Dates()
	sales, err := LoadSalesInRange(june)
	if err != nil {
		t.Fatalf("LoadSalesInRange: %v", err)
	}
	if len(sales) != 3 || sales[0].Date != "2024-06-01" || sales[2].Date != "2024-06-30" {
		t.Fatalf("unexpected June sales: %d", len(sales))
	}

	all, err := LoadSalesInRange(analytics.AllTime())
	if err != nil || len(all) != 5 {
		t.Fatalf("expected 5 sales for an open range, got %d (%v)", len(all), err)
	}

	totals, err := GetSalesTotals(june)
	if err != nil {
		t.Fatalf("GetSalesTotals: %v", err)
	}
	if totals.TotalRevenue != 300 || totals.CheckoutCount != 3 || totals.LineItemCount != 3 {
		t.Fatalf("unexpected totals %+v", totals)
	}
}

func TestReplaceAllSales(t *testing.T) {
	setupTestDB(t)

	if err := CreateSale(testSale("2024-01-01", "Old", line("x", 1, 100))); err != nil {
		t.Fatalf("CreateSale: %v", err)
	}

	incoming := []models.Sale{
		{ID: "r1", Date: "2024-06-01", CustomerName: "A", PaymentMethod: models.PaymentCash, TotalAmount: 1000,
			Items: []models.SaleItem{line("a", 1, 1000)}},
		{ID: "r2", Date: "2024-06-02", CustomerName: "B", PaymentMethod: models.PaymentCash, TotalAmount: 0},
		{ID: "r1", Date: "2024-06-03", CustomerName: "dup", PaymentMethod: models.PaymentCash},
	}
	n, err := ReplaceAllSales(incoming)
	if err != nil {
		t.Fatalf("ReplaceAllSales: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 stored sales, got %d", n)
	}

	count, _ := CountSales()
	if count != 2 {
		t.Fatalf("expected the old sale to be gone, have %d", count)
	}
	got, err := GetSale("r1")
	if err != nil || got.CustomerName != "A" || len(got.Items) != 1 {
		t.Fatalf("first record should win: %+v, %v", got, err)
	}

	deleted, err := DeleteAllSales()
	if err != nil || deleted != 2 {
		t.Fatalf("DeleteAllSales = %d, %v", deleted, err)
	}
}

func TestCreateUser_FirstIsAdmin(t *testing.T) {
	setupTestDB(t)

	first, err := CreateUser("owner", "hash")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	second, err := CreateUser("staff", "hash")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if first.Role != models.RoleAdmin || second.Role != models.RoleStaff {
		t.Fatalf("unexpected roles %s / %s", first.Role, second.Role)
	}
	if _, err := CreateUser("owner", "hash"); err == nil {
		t.Fatalf("expected duplicate username to fail")
	}
	if _, err := FindUserByUsername("nobody"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
