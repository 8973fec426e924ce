package analytics

import (
	"errors"
	"testing"
	"time"

	"salon-pos/internal/models"
)

func TestBuildDashboard_DefaultsToCurrentMonth(t *testing.T) {
	now := time.Date(2024, time.June, 20, 10, 0, 0, 0, time.UTC)
	records := []models.Sale{
		newSale("1", "2024-06-01", "A", models.PaymentCash, 1000),
		newSale("2", "2024-06-05", "B", models.PaymentCreditCard, 3000),
		newSale("3", "2024-05-30", "C", models.PaymentCash, 700),
		newSale("4", "2023-11-11", "C", models.PaymentCash, 100),
	}

	d, err := BuildDashboard(records, DashboardRequest{}, now)
	if err != nil {
		t.Fatalf("BuildDashboard error: %v", err)
	}

	if d.Window.Start.String() != "2024-06" || d.Window.End.String() != "2024-06" {
		t.Fatalf("unexpected window %s..%s", d.Window.Start, d.Window.End)
	}
	if d.Report.KPIs.TotalSales != 4000 {
		t.Fatalf("expected June total 4000, got %d", d.Report.KPIs.TotalSales)
	}
	if len(d.DailyTable) != 2 || d.DailyTable[0].Date != "2024-06-05" {
		t.Fatalf("daily table should default to newest first: %+v", d.DailyTable)
	}
	if d.Report.Daily[0].Date != "2024-06-01" {
		t.Fatalf("report series must stay in date order")
	}
	if d.YearChart.Year != 2024 || d.YearChart.Total != 4700 {
		t.Fatalf("unexpected year chart %+v", d.YearChart)
	}
	if d.MonthChart.Month.String() != "2024-06" || d.MonthChart.CheckoutCount != 2 {
		t.Fatalf("unexpected month chart %+v", d.MonthChart.Month)
	}
	if len(d.Years) != 2 || d.Years[0] != 2024 || d.Years[1] != 2023 {
		t.Fatalf("unexpected years %v", d.Years)
	}
}

func TestBuildDashboard_ExplicitMonthsAndOptions(t *testing.T) {
	now := time.Date(2024, time.June, 20, 0, 0, 0, 0, time.UTC)
	var records []models.Sale
	for i, cat := range models.Categories {
		s := newSale(string(rune('a'+i)), "2024-04-10", "A", models.PaymentCash, int64(100*(i+1)))
		s.Items[0].Category = cat
		records = append(records, s)
	}

	d, err := BuildDashboard(records, DashboardRequest{
		Months:       &MonthRange{Start: Month{2024, time.March}, End: Month{2024, time.April}},
		RankingLimit: 3,
		Year:         2023,
	}, now)
	if err != nil {
		t.Fatalf("BuildDashboard error: %v", err)
	}

	if len(d.Report.Rankings.Category) != 3 {
		t.Fatalf("expected 3 category entries, got %d", len(d.Report.Rankings.Category))
	}
	if d.Report.Rankings.Category[0].Name != string(models.CategoryOther) {
		t.Fatalf("expected the largest category first, got %+v", d.Report.Rankings.Category[0])
	}
	if d.YearChart.Year != 2023 || d.YearChart.Total != 0 {
		t.Fatalf("expected an empty 2023 chart, got %+v", d.YearChart)
	}
	if d.MonthChart.Month.String() != "2024-03" {
		t.Fatalf("month chart follows the window start, got %s", d.MonthChart.Month)
	}
}

func TestBuildDashboard_Errors(t *testing.T) {
	now := time.Now()

	_, err := BuildDashboard(nil, DashboardRequest{
		Months: &MonthRange{Start: Month{2024, time.May}, End: Month{2024, time.March}},
	}, now)
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}

	_, err = BuildDashboard(nil, DashboardRequest{Preset: "forever"}, now)
	if !errors.Is(err, ErrUnknownPreset) {
		t.Fatalf("expected ErrUnknownPreset, got %v", err)
	}
}
