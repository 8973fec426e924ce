package analytics

import (
	"sort"
	"time"

	"salon-pos/internal/models"
)

// YearChart holds one total per calendar month of a year.
type YearChart struct {
	Year    int       `json:"year"`
	Monthly [12]int64 `json:"monthly"`
	Total   int64     `json:"total"`
}

func YearlyChart(records []models.Sale, year int) YearChart {
	chart := YearChart{Year: year}
	for _, s := range records {
		t, err := ParseDate(s.Date)
		if err != nil || t.Year() != year {
			continue
		}
		chart.Monthly[t.Month()-1] += s.TotalAmount
		chart.Total += s.TotalAmount
	}
	return chart
}

type DayPoint struct {
	Day     int     `json:"day"`
	Date    string  `json:"date"`
	DayKind DayKind `json:"day_kind"`
	Total   int64   `json:"total"`
}

// MonthChart has a point for every calendar day of the month, sold or not.
type MonthChart struct {
	Month         Month      `json:"month"`
	Days          []DayPoint `json:"days"`
	Total         int64      `json:"total"`
	CheckoutCount int        `json:"checkout_count"`
}

func MonthlyChart(records []models.Sale, m Month) MonthChart {
	last := m.LastDay().Day()
	chart := MonthChart{Month: m, Days: make([]DayPoint, last)}

	for i := range chart.Days {
		day := civil(m.Year, m.Month, i+1)
		chart.Days[i] = DayPoint{Day: i + 1, Date: FormatDate(day), DayKind: DayKindOf(day)}
	}

	for _, s := range records {
		t, err := ParseDate(s.Date)
		if err != nil || MonthOf(t) != m {
			continue
		}
		chart.Days[t.Day()-1].Total += s.TotalAmount
		chart.Total += s.TotalAmount
		chart.CheckoutCount++
	}
	return chart
}

// AvailableYears lists every year that has a sale, plus the current year, newest first.
func AvailableYears(records []models.Sale, now time.Time) []int {
	seen := map[int]struct{}{now.Year(): {}}
	for _, s := range records {
		if t, err := ParseDate(s.Date); err == nil {
			seen[t.Year()] = struct{}{}
		}
	}

	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}
