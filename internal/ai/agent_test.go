package ai

import (
	"testing"
	"time"

	"salon-pos/internal/analytics"
	"salon-pos/internal/database"
	"salon-pos/internal/models"

	"github.com/google/generative-ai-go/genai"
	"gorm.io/gorm/logger"
)

func setupStore(t *testing.T) {
	t.Helper()
	db, err := database.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared", logger.Silent)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	prev := database.DB
	database.DB = db
	t.Cleanup(func() {
		database.DB = prev
		sqlDB.Close()
	})

	sales := []models.Sale{
		{Date: "2024-06-01", CustomerName: "山田", PaymentMethod: models.PaymentCash, Items: []models.SaleItem{
			{Category: models.CategoryTreatment, ProductName: "フェイシャル", Quantity: 1, UnitPrice: 5000},
		}},
		{Date: "2024-06-02", CustomerName: "佐藤", PaymentMethod: models.PaymentCreditCard, Items: []models.SaleItem{
			{Category: models.CategoryBellman, ProductName: "ローション", Quantity: 2, UnitPrice: 1500},
		}},
		{Date: "2024-07-01", CustomerName: "山田", PaymentMethod: models.PaymentCash, Items: []models.SaleItem{
			{Category: models.CategoryTreatment, ProductName: "フェイシャル", Quantity: 1, UnitPrice: 5000},
		}},
	}
	for i := range sales {
		if err := database.CreateSale(&sales[i]); err != nil {
			t.Fatalf("create sale: %v", err)
		}
	}
}

func june() map[string]any {
	return map[string]any{"start_date": "2024-06-01", "end_date": "2024-06-30"}
}

func TestToolkit_SalesReport(t *testing.T) {
	setupStore(t)
	tk := toolkit{now: time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC), rankingLimit: 5}

	out := tk.execute("get_sales_report", june())
	if out["revenue"] != int64(8000) || out["checkout_count"] != int64(2) || out["line_item_count"] != int64(2) {
		t.Fatalf("unexpected report %v", out)
	}
}

func TestToolkit_TopSellers(t *testing.T) {
	setupStore(t)
	tk := toolkit{rankingLimit: 5}

	args := june()
	args["dimension"] = "category"
	args["limit"] = float64(1)
	out := tk.execute("get_top_sellers", args)

	entries, ok := out["entries"].([]analytics.RankingEntry)
	if !ok || len(entries) != 1 {
		t.Fatalf("unexpected entries %v", out)
	}
	if entries[0].Name != string(models.CategoryTreatment) || entries[0].TotalSales != 5000 {
		t.Fatalf("unexpected top entry %+v", entries[0])
	}

	args["dimension"] = "staff"
	if out := tk.execute("get_top_sellers", args); out["error"] == nil {
		t.Fatalf("expected an error for an unknown dimension, got %v", out)
	}
}

func TestToolkit_DashboardKPIs(t *testing.T) {
	setupStore(t)
	out := toolkit{}.execute("get_dashboard_kpis", june())

	kpis, ok := out["kpis"].(analytics.KPIs)
	if !ok {
		t.Fatalf("unexpected payload %v", out)
	}
	if kpis.TotalSales != 8000 || kpis.CustomerCount != 2 {
		t.Fatalf("unexpected kpis %+v", kpis)
	}
}

func TestToolkit_CheckHolidayAndErrors(t *testing.T) {
	tk := toolkit{}

	out := tk.execute("check_holiday", map[string]any{"date": "2024-05-06"})
	if out["is_holiday"] != true || out["day_kind"] != string(analytics.DayHoliday) {
		t.Fatalf("expected 2024-05-06 to be a holiday, got %v", out)
	}

	if out := tk.execute("check_holiday", map[string]any{"date": "06/05/2024"}); out["error"] == nil {
		t.Fatalf("expected a date format error, got %v", out)
	}
	if out := tk.execute("get_sales_report", map[string]any{"start_date": "2024-06-30", "end_date": "2024-06-01"}); out["error"] == nil {
		t.Fatalf("expected an inverted range error, got %v", out)
	}
	if out := tk.execute("drop_tables", nil); out["error"] == nil {
		t.Fatalf("expected an unknown tool error, got %v", out)
	}
}

func TestPrintResponse(t *testing.T) {
	if _, err := printResponse(&genai.GenerateContentResponse{}); err != ErrNoAnswer {
		t.Fatalf("expected ErrNoAnswer, got %v", err)
	}

	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Parts: []genai.Part{
			genai.FunctionCall{Name: "check_holiday", Args: map[string]any{"date": "2024-01-01"}},
			genai.Text("元日です"),
		}},
	}}}
	call, ok := firstFunctionCall(resp)
	if !ok || call.Name != "check_holiday" {
		t.Fatalf("expected the function call to be found, got %+v", call)
	}
	txt, err := printResponse(resp)
	if err != nil || txt != "元日です" {
		t.Fatalf("unexpected text %q (%v)", txt, err)
	}
}
