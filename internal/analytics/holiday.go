package analytics

import (
	"math"
	"time"
)

type monthDay struct {
	month time.Month
	day   int
}

var fixedHolidays = []monthDay{
	{time.January, 1},   // New Year's Day
	{time.February, 11}, // National Foundation Day
	{time.February, 23}, // Emperor's Birthday
	{time.April, 29},    // Showa Day
	{time.May, 3},       // Constitution Day
	{time.May, 4},       // Greenery Day
	{time.May, 5},       // Children's Day
	{time.August, 11},   // Mountain Day
	{time.November, 3},  // Culture Day
	{time.November, 23}, // Labor Thanksgiving Day
}

// Happy Monday holidays: the n-th Monday of a month.
var nthMondayHolidays = []struct {
	month time.Month
	n     int
}{
	{time.January, 2},   // Coming of Age Day
	{time.July, 3},      // Marine Day
	{time.September, 3}, // Respect for the Aged Day
	{time.October, 2},   // Sports Day
}

// IsHoliday reports whether date is a Japanese public holiday.
// Only the calendar date of the argument is used; its clock and location are ignored.
func IsHoliday(date time.Time) bool {
	y, m, d := date.Date()
	day := civil(y, m, d)

	if isBasicHoliday(day) {
		return true
	}
	if day.Weekday() == time.Sunday {
		return false
	}

	// Substitute holiday for a Sunday holiday. Only the previous day is checked.
	prev := day.AddDate(0, 0, -1)
	if prev.Weekday() == time.Sunday && isBasicHoliday(prev) {
		return true
	}

	// Golden Week: a Sunday on May 3-5 pushes the holiday out to May 6.
	if m == time.May && d == 6 {
		for gw := 3; gw <= 5; gw++ {
			candidate := civil(y, time.May, gw)
			if candidate.Weekday() == time.Sunday && isBasicHoliday(candidate) {
				return true
			}
		}
	}

	return false
}

func isBasicHoliday(day time.Time) bool {
	y, m, d := day.Date()

	for _, h := range fixedHolidays {
		if h.month == m && h.day == d {
			return true
		}
	}

	if day.Weekday() == time.Monday {
		for _, h := range nthMondayHolidays {
			if h.month == m && d >= (h.n-1)*7+1 && d <= h.n*7 {
				return true
			}
		}
	}

	if m == time.March && d == VernalEquinoxDay(y) {
		return true
	}
	if m == time.September && d == AutumnalEquinoxDay(y) {
		return true
	}
	return false
}

// VernalEquinoxDay returns the March day of the vernal equinox holiday.
// The approximation was fitted for 1980-2099 and drifts outside that window.
func VernalEquinoxDay(year int) int {
	return equinoxDay(20.8431, year)
}

// AutumnalEquinoxDay returns the September day of the autumnal equinox holiday.
// Same validity window as VernalEquinoxDay.
func AutumnalEquinoxDay(year int) int {
	return equinoxDay(23.2488, year)
}

func equinoxDay(base float64, year int) int {
	offset := float64(year - 1980)
	return int(math.Floor(base + 0.242194*offset - math.Floor(offset/4)))
}

// DayKind classifies a calendar day for chart colouring.
type DayKind string

const (
	DayWeekday  DayKind = "weekday"
	DaySaturday DayKind = "saturday"
	DayHoliday  DayKind = "holiday" // Sundays and public holidays
)

func DayKindOf(date time.Time) DayKind {
	day := civil(date.Date())
	switch {
	case day.Weekday() == time.Sunday || IsHoliday(day):
		return DayHoliday
	case day.Weekday() == time.Saturday:
		return DaySaturday
	default:
		return DayWeekday
	}
}

// HolidaysInMonth lists the public holidays of a month in calendar order.
func HolidaysInMonth(year int, month time.Month) []time.Time {
	var out []time.Time
	for day := civil(year, month, 1); day.Month() == month; day = day.AddDate(0, 0, 1) {
		if IsHoliday(day) {
			out = append(out, day)
		}
	}
	return out
}
