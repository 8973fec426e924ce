package analytics

import (
	"time"

	"salon-pos/internal/models"
)

// Tally is a sales total with its line-item count.
type Tally struct {
	Sales int64 `json:"sales"`
	Count int   `json:"count"`
}

// Summary backs the three chips above the sales list.
type Summary struct {
	Today     Tally `json:"today"`
	ThisWeek  Tally `json:"this_week"`
	ThisMonth Tally `json:"this_month"`
}

// Summarize counts sales for today, the week so far (from Sunday) and the month so far.
// Sales dated after now are ignored.
func Summarize(records []models.Sale, now time.Time) Summary {
	today := ToDate(now)
	todayStr := FormatDate(today)
	weekStart := FormatDate(today.AddDate(0, 0, -int(today.Weekday())))
	monthStart := FormatDate(MonthOf(today).FirstDay())

	var sum Summary
	for _, s := range records {
		if s.Date > todayStr {
			continue
		}
		lines := len(s.Items)
		if s.Date == todayStr {
			sum.Today.Sales += s.TotalAmount
			sum.Today.Count += lines
		}
		if s.Date >= weekStart {
			sum.ThisWeek.Sales += s.TotalAmount
			sum.ThisWeek.Count += lines
		}
		if s.Date >= monthStart {
			sum.ThisMonth.Sales += s.TotalAmount
			sum.ThisMonth.Count += lines
		}
	}
	return sum
}
