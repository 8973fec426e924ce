package analytics

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
)

var (
	ErrInvalidRange  = errors.New("start is after end")
	ErrUnknownPreset = errors.New("unknown period preset")
	ErrInvalidDate   = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidMonth  = errors.New("invalid month, expected YYYY-MM")
)

// civil builds a midnight-UTC value so calendar arithmetic never crosses a DST edge.
func civil(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ToDate drops the clock and location, keeping the calendar date as seen in t's location.
func ToDate(t time.Time) time.Time {
	return civil(t.Date())
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DateRange is an inclusive pair of calendar dates. A zero bound is open.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange takes the bounds verbatim; start after end is an error, never swapped.
func NewDateRange(start, end time.Time) (DateRange, error) {
	start, end = ToDate(start), ToDate(end)
	if start.After(end) {
		return DateRange{}, fmt.Errorf("%w: %s > %s", ErrInvalidRange, FormatDate(start), FormatDate(end))
	}
	return DateRange{Start: start, End: end}, nil
}

// AllTime is the open range used by the sales list.
func AllTime() DateRange {
	return DateRange{}
}

func (r DateRange) IsOpen() bool {
	return r.Start.IsZero() || r.End.IsZero()
}

// Contains compares ISO date strings; they order the same way the calendar does.
func (r DateRange) Contains(date string) bool {
	date = strings.TrimSpace(date)
	if !r.Start.IsZero() && date < FormatDate(r.Start) {
		return false
	}
	if !r.End.IsZero() && date > FormatDate(r.End) {
		return false
	}
	return true
}

func (r DateRange) IsSingleDay() bool {
	return !r.IsOpen() && r.Start.Equal(r.End)
}

// IsFullMonth reports whether the range is exactly one calendar month.
func (r DateRange) IsFullMonth() bool {
	if r.IsOpen() {
		return false
	}
	m := MonthOf(r.Start)
	return r.Start.Day() == 1 && r.End.Equal(m.LastDay())
}

func (r DateRange) MarshalJSON() ([]byte, error) {
	out := struct {
		Start *string `json:"start"`
		End   *string `json:"end"`
	}{}
	if !r.Start.IsZero() {
		s := FormatDate(r.Start)
		out.Start = &s
	}
	if !r.End.IsZero() {
		e := FormatDate(r.End)
		out.End = &e
	}
	return json.Marshal(out)
}

// Preset names a day-granularity window relative to a reference date.
type Preset string

const (
	PresetToday        Preset = "today"
	PresetYesterday    Preset = "yesterday"
	PresetThisWeek     Preset = "this-week"
	PresetLast7Days    Preset = "last-7-days"
	PresetLast30Days   Preset = "last-30-days"
	PresetCurrentMonth Preset = "current-month"
	PresetLastMonth    Preset = "last-month"
	PresetTwoMonthsAgo Preset = "2-months-ago"
	PresetAll          Preset = "all"
	PresetCustom       Preset = "custom"
)

// Period is either a named preset or, with PresetCustom, explicit bounds.
type Period struct {
	Preset Preset
	Start  time.Time
	End    time.Time
}

// ParsePeriod builds a Period from query-string values. Explicit bounds win over
// an empty preset; with nothing given the current month is used.
func ParsePeriod(preset, start, end string) (Period, error) {
	p := Preset(strings.TrimSpace(preset))
	if p == "2months-ago" {
		p = PresetTwoMonthsAgo
	}
	if p == "" && (start != "" || end != "") {
		p = PresetCustom
	}
	if p == "" {
		p = PresetCurrentMonth
	}
	if p != PresetCustom {
		return Period{Preset: p}, nil
	}

	s, err := ParseDate(start)
	if err != nil {
		return Period{}, err
	}
	e, err := ParseDate(end)
	if err != nil {
		return Period{}, err
	}
	return Period{Preset: PresetCustom, Start: s, End: e}, nil
}

// Resolve turns a Period into concrete bounds relative to ref (today).
func Resolve(p Period, ref time.Time) (DateRange, error) {
	today := ToDate(ref)
	y, m, _ := today.Date()

	switch p.Preset {
	case PresetToday:
		return DateRange{Start: today, End: today}, nil
	case PresetYesterday:
		d := today.AddDate(0, 0, -1)
		return DateRange{Start: d, End: d}, nil
	case PresetThisWeek:
		// Weeks start on Sunday
		start := today.AddDate(0, 0, -int(today.Weekday()))
		return DateRange{Start: start, End: start.AddDate(0, 0, 6)}, nil
	case PresetLast7Days:
		return DateRange{Start: today.AddDate(0, 0, -6), End: today}, nil
	case PresetLast30Days:
		return DateRange{Start: today.AddDate(0, 0, -29), End: today}, nil
	case PresetCurrentMonth:
		return Month{Year: y, Month: m}.Dates(), nil
	case PresetLastMonth:
		return Month{Year: y, Month: m}.AddMonths(-1).Dates(), nil
	case PresetTwoMonthsAgo:
		return Month{Year: y, Month: m}.AddMonths(-2).Dates(), nil
	case PresetAll:
		return AllTime(), nil
	case PresetCustom:
		return NewDateRange(p.Start, p.End)
	default:
		return DateRange{}, fmt.Errorf("%w: %q", ErrUnknownPreset, p.Preset)
	}
}

// Month is a calendar month, the granularity of the dashboard window.
type Month struct {
	Year  int
	Month time.Month
}

func MonthOf(t time.Time) Month {
	y, m, _ := t.Date()
	return Month{Year: y, Month: m}
}

func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(MonthLayout, strings.TrimSpace(s))
	if err != nil {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	return MonthOf(t), nil
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

func (m Month) FirstDay() time.Time {
	return civil(m.Year, m.Month, 1)
}

func (m Month) LastDay() time.Time {
	return civil(m.Year, m.Month+1, 0)
}

func (m Month) AddMonths(n int) Month {
	return MonthOf(civil(m.Year, m.Month+time.Month(n), 1))
}

func (m Month) Before(o Month) bool {
	if m.Year != o.Year {
		return m.Year < o.Year
	}
	return m.Month < o.Month
}

func (m Month) Dates() DateRange {
	return DateRange{Start: m.FirstDay(), End: m.LastDay()}
}

func (m Month) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *Month) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseMonth(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// MonthPreset names a month-granularity dashboard window.
type MonthPreset string

const (
	MonthsThisMonth MonthPreset = "this-month"
	MonthsLastMonth MonthPreset = "last-month"
	MonthsLastThree MonthPreset = "last-3-months"
	MonthsThisYear  MonthPreset = "this-year"
	MonthsLastYear  MonthPreset = "last-year"
)

// MonthRange is an inclusive range of whole months.
type MonthRange struct {
	Start Month `json:"start"`
	End   Month `json:"end"`
}

func NewMonthRange(start, end Month) (MonthRange, error) {
	if end.Before(start) {
		return MonthRange{}, fmt.Errorf("%w: %s > %s", ErrInvalidRange, start, end)
	}
	return MonthRange{Start: start, End: end}, nil
}

// ResolveMonths maps a dashboard preset to month bounds relative to ref.
func ResolveMonths(p MonthPreset, ref time.Time) (MonthRange, error) {
	cur := MonthOf(ref)

	switch p {
	case MonthsThisMonth:
		return MonthRange{Start: cur, End: cur}, nil
	case MonthsLastMonth:
		last := cur.AddMonths(-1)
		return MonthRange{Start: last, End: last}, nil
	case MonthsLastThree:
		return MonthRange{Start: cur.AddMonths(-2), End: cur}, nil
	case MonthsThisYear:
		return MonthRange{Start: Month{Year: cur.Year, Month: time.January}, End: cur}, nil
	case MonthsLastYear:
		return MonthRange{
			Start: Month{Year: cur.Year - 1, Month: time.January},
			End:   Month{Year: cur.Year - 1, Month: time.December},
		}, nil
	default:
		return MonthRange{}, fmt.Errorf("%w: %q", ErrUnknownPreset, p)
	}
}

// Dates expands the range to the first day of Start and the last day of End.
func (r MonthRange) Dates() DateRange {
	return DateRange{Start: r.Start.FirstDay(), End: r.End.LastDay()}
}
