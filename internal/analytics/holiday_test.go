package analytics

import (
	"testing"
	"time"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

func TestIsHoliday(t *testing.T) {
	cases := []struct {
		date string
		want bool
		why  string
	}{
		{"2024-01-01", true, "new year"},
		{"2024-01-08", true, "coming of age, 2nd monday"},
		{"2024-02-11", true, "foundation day on a sunday"},
		{"2024-02-12", true, "transfer for foundation day"},
		{"2024-02-23", true, "emperor's birthday"},
		{"2024-03-20", true, "vernal equinox"},
		{"2024-05-03", true, "constitution day"},
		{"2024-05-06", true, "children's day fell on a sunday"},
		{"2025-05-06", true, "greenery day fell on a sunday"},
		{"2024-07-15", true, "marine day, 3rd monday"},
		{"2024-09-16", true, "respect for the aged, 3rd monday"},
		{"2024-09-22", true, "autumnal equinox"},
		{"2024-09-23", true, "transfer for the equinox"},
		{"2024-10-14", true, "sports day, 2nd monday"},
		{"2024-11-04", true, "transfer for culture day"},
		{"2024-01-02", false, "ordinary tuesday"},
		{"2024-01-15", false, "3rd monday of january"},
		{"2024-03-21", false, "day after equinox"},
		{"2024-05-07", false, "after golden week"},
		{"2024-06-02", false, "plain sunday"},
		{"2024-06-03", false, "monday after a plain sunday"},
	}
	for _, tc := range cases {
		got := IsHoliday(mustDate(t, tc.date))
		if got != tc.want {
			t.Errorf("IsHoliday(%s) = %v, want %v (%s)", tc.date, got, tc.want, tc.why)
		}
	}
}

func TestIsHoliday_IgnoresClockAndLocation(t *testing.T) {
	jst := time.FixedZone("JST", 9*60*60)
	late := time.Date(2024, time.January, 1, 23, 59, 0, 0, jst)
	if !IsHoliday(late) {
		t.Fatalf("expected 2024-01-01 23:59 JST to be a holiday")
	}
}

func TestEquinoxDays(t *testing.T) {
	cases := []struct {
		year             int
		vernal, autumnal int
	}{
		{2023, 21, 23},
		{2024, 20, 22},
		{2025, 20, 23},
	}
	for _, tc := range cases {
		if got := VernalEquinoxDay(tc.year); got != tc.vernal {
			t.Errorf("VernalEquinoxDay(%d) = %d, want %d", tc.year, got, tc.vernal)
		}
		if got := AutumnalEquinoxDay(tc.year); got != tc.autumnal {
			t.Errorf("AutumnalEquinoxDay(%d) = %d, want %d", tc.year, got, tc.autumnal)
		}
	}
}

func TestDayKindOf(t *testing.T) {
	cases := map[string]DayKind{
		"2024-06-01": DaySaturday,
		"2024-06-02": DayHoliday,
		"2024-06-03": DayWeekday,
		"2024-01-01": DayHoliday,
	}
	for date, want := range cases {
		if got := DayKindOf(mustDate(t, date)); got != want {
			t.Errorf("DayKindOf(%s) = %s, want %s", date, got, want)
		}
	}
}

func TestHolidaysInMonth(t *testing.T) {
	got := HolidaysInMonth(2024, time.May)
	want := []string{"2024-05-03", "2024-05-04", "2024-05-05", "2024-05-06"}
	if len(got) != len(want) {
		t.Fatalf("expected %d holidays, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if FormatDate(got[i]) != want[i] {
			t.Errorf("holiday %d = %s, want %s", i, FormatDate(got[i]), want[i])
		}
	}

	if got := HolidaysInMonth(2024, time.June); len(got) != 0 {
		t.Fatalf("expected no holidays in June, got %v", got)
	}
}
