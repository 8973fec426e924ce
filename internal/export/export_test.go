package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"salon-pos/internal/analytics"
	"salon-pos/internal/models"

	"github.com/xuri/excelize/v2"
)

func exportFixture() []models.Sale {
	return []models.Sale{
		{
			ID: "1", Date: "2024-06-01", CustomerName: "佐藤", PaymentMethod: models.PaymentCash, TotalAmount: 4500,
			Items: []models.SaleItem{
				{Category: models.CategoryTreatment, ProductName: "フェイシャル", Quantity: 1, UnitPrice: 4000, Subtotal: 4000},
				{Category: models.CategoryOther, ProductName: "ドリンク", Quantity: 2, UnitPrice: 250, Subtotal: 500},
			},
		},
		{
			ID: "2", Date: "2024-06-02", CustomerName: "鈴木", PaymentMethod: models.PaymentCreditCard, TotalAmount: 3000,
			Items: []models.SaleItem{
				{Category: models.CategoryBellman, ProductName: "クリーム", Quantity: 1, UnitPrice: 3000, Subtotal: 3000},
			},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, exportFixture()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "\uFEFF") {
		t.Fatalf("expected a UTF-8 BOM")
	}
	lines := strings.Split(strings.TrimRight(strings.TrimPrefix(out, "\uFEFF"), "\n"), "\n")

	want := []string{
		"日付,お客様名,カテゴリー,商品名,個数,単価,小計,合計金額,決済方法",
		"2024-06-01,佐藤,施術,フェイシャル,1,4000,4000,4500,現金",
		"2024-06-01,佐藤,その他,ドリンク,2,250,500,,",
		"2024-06-02,鈴木,ベルマン,クリーム,1,3000,3000,3000,クレジットカード",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d:\n%s", len(want), len(lines), out)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d:\n got %q\nwant %q", i, lines[i], want[i])
		}
	}
}

func TestWriteExcel(t *testing.T) {
	sales := exportFixture()
	report := analytics.Aggregate(sales, analytics.Month{Year: 2024, Month: time.June}.Dates())

	var buf bytes.Buffer
	if err := WriteExcel(&buf, sales, report); err != nil {
		t.Fatalf("WriteExcel: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	lines, err := f.GetRows(SheetLines)
	if err != nil {
		t.Fatalf("GetRows(%s): %v", SheetLines, err)
	}
	if len(lines) != 4 || lines[1][7] != "4500" || lines[1][8] != "現金" {
		t.Fatalf("unexpected line sheet %v", lines)
	}

	daily, _ := f.GetRows(SheetDaily)
	if len(daily) != 3 || daily[2][6] != "-1500" {
		t.Fatalf("unexpected daily sheet %v", daily)
	}

	payments, _ := f.GetRows(SheetPayments)
	if len(payments) != 4 || payments[1][0] != string(models.PaymentCash) {
		t.Fatalf("unexpected payment sheet %v", payments)
	}

	ranking, _ := f.GetRows(SheetRanking)
	if len(ranking) < 2 || ranking[1][2] != string(models.CategoryTreatment) {
		t.Fatalf("unexpected ranking sheet %v", ranking)
	}
}

func TestFileName(t *testing.T) {
	now := time.Date(2024, 6, 1, 23, 0, 0, 0, time.UTC)
	if got := FileName(now, "csv"); got != "sales_export_2024-06-01.csv" {
		t.Fatalf("unexpected file name %s", got)
	}
}
