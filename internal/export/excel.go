package export

import (
	"io"

	"salon-pos/internal/analytics"
	"salon-pos/internal/models"

	"github.com/xuri/excelize/v2"
)

const (
	SheetLines    = "売上明細"
	SheetDaily    = "日別"
	SheetPayments = "決済方法"
	SheetRanking  = "ランキング"
)

// WriteExcel writes a workbook with the line-item list plus the report's
// daily series, payment matrix and rankings.
func WriteExcel(w io.Writer, sales []models.Sale, report analytics.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	// 1. Line items, same layout as the CSV
	if err := f.SetSheetName("Sheet1", SheetLines); err != nil {
		return err
	}
	rows := [][]any{toAny(lineHeader)}
	for _, s := range sales {
		for i, it := range s.Items {
			var total, method any = "", ""
			if i == 0 {
				total, method = s.TotalAmount, string(s.PaymentMethod)
			}
			rows = append(rows, []any{s.Date, s.CustomerName, string(it.Category), it.ProductName,
				it.Quantity, it.UnitPrice, it.Subtotal, total, method})
		}
	}
	if err := writeRows(f, SheetLines, rows); err != nil {
		return err
	}

	// 2. Daily series
	rows = [][]any{{"日付", "売上", "件数", "客数", "7日平均", "30日平均", "前日比", "前日比(%)"}}
	for _, d := range report.Daily {
		var delta, pct any = "", ""
		if d.DeltaFromPreviousDay != nil {
			delta, pct = *d.DeltaFromPreviousDay, *d.DeltaPercentFromPreviousDay
		}
		rows = append(rows, []any{d.Date, d.SalesTotal, d.LineItemCount, d.UniqueCustomerCount,
			d.MovingAvg7, d.MovingAvg30, delta, pct})
	}
	if err := addSheet(f, SheetDaily, rows); err != nil {
		return err
	}

	// 3. Payment matrix
	rows = [][]any{{"決済方法", "件数", "金額", "構成比(%)", "平均単価"}}
	for _, p := range report.Payments {
		rows = append(rows, []any{string(p.Method), p.Count, p.Amount, p.Percent, p.AverageAmount})
	}
	if err := addSheet(f, SheetPayments, rows); err != nil {
		return err
	}

	// 4. Rankings, one block per dimension
	rows = [][]any{{"区分", "順位", "名前", "カテゴリー", "売上", "件数"}}
	blocks := []struct {
		label   string
		entries []analytics.RankingEntry
	}{
		{"カテゴリー", report.Rankings.Category},
		{"商品", report.Rankings.Product},
		{"顧客", report.Rankings.Customer},
	}
	for _, b := range blocks {
		for _, e := range b.entries {
			rows = append(rows, []any{b.label, e.Rank, e.Name, string(e.Category), e.TotalSales, e.Count})
		}
	}
	if err := addSheet(f, SheetRanking, rows); err != nil {
		return err
	}

	return f.Write(w)
}

func addSheet(f *excelize.File, name string, rows [][]any) error {
	if _, err := f.NewSheet(name); err != nil {
		return err
	}
	return writeRows(f, name, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
