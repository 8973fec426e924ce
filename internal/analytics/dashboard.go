package analytics

import (
	"time"

	"salon-pos/internal/models"
)

// DashboardRequest describes one dashboard view. Months wins over Preset;
// with neither set the current month is shown.
type DashboardRequest struct {
	Months       *MonthRange
	Preset       MonthPreset
	RankingLimit int
	DailySort    DailySortKey
	DailyOrder   SortOrder
	Year         int // yearly chart; 0 means the year of the window start
}

// Dashboard is the full derived state the dashboard screen renders.
type Dashboard struct {
	Window     MonthRange    `json:"window"`
	Report     Report        `json:"report"`
	DailyTable []DailyBucket `json:"daily_table"`
	YearChart  YearChart     `json:"year_chart"`
	MonthChart MonthChart    `json:"month_chart"`
	Summary    Summary       `json:"summary"`
	Years      []int         `json:"years"`
}

func BuildDashboard(records []models.Sale, req DashboardRequest, now time.Time) (Dashboard, error) {
	// 1. Window
	var window MonthRange
	switch {
	case req.Months != nil:
		w, err := NewMonthRange(req.Months.Start, req.Months.End)
		if err != nil {
			return Dashboard{}, err
		}
		window = w
	case req.Preset != "":
		w, err := ResolveMonths(req.Preset, now)
		if err != nil {
			return Dashboard{}, err
		}
		window = w
	default:
		cur := MonthOf(now)
		window = MonthRange{Start: cur, End: cur}
	}

	// 2. Aggregates
	var opts []Option
	if req.RankingLimit > 0 {
		opts = append(opts, WithRankingLimit(req.RankingLimit))
	}
	report := Aggregate(records, window.Dates(), opts...)

	// 3. Charts
	year := req.Year
	if year == 0 {
		year = window.Start.Year
	}

	return Dashboard{
		Window:     window,
		Report:     report,
		DailyTable: SortDaily(report.Daily, req.DailySort, req.DailyOrder),
		YearChart:  YearlyChart(records, year),
		MonthChart: MonthlyChart(records, window.Start),
		Summary:    Summarize(records, now),
		Years:      AvailableYears(records, now),
	}, nil
}
