package workday

import (
	"errors"
	"math"
	"testing"
	"time"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestCalendar_CountWorkingDays(t *testing.T) {
	t.Parallel()

	// 2025-10-06 は月曜日
	cases := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"same working day", date(2025, 10, 6), date(2025, 10, 6), 1},
		{"same weekend day", date(2025, 10, 11), date(2025, 10, 11), 0},
		{"one week", date(2025, 10, 6), date(2025, 10, 12), 5},
		{"friday to monday", date(2025, 10, 10), date(2025, 10, 13), 2},
		{"full month", date(2025, 10, 1), date(2025, 10, 31), 23},
		{"time of day ignored", time.Date(2025, 10, 6, 23, 59, 0, 0, time.UTC), date(2025, 10, 7), 2},
	}

	cal := DefaultCalendar()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := cal.CountWorkingDays(tc.start, tc.end)
			if err != nil {
				t.Fatalf("CountWorkingDays returned error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestCalendar_CountWorkingDays_Holidays(t *testing.T) {
	t.Parallel()

	cal, err := NewCalendar(nil, []time.Time{
		date(2025, 10, 9),  // 木曜日
		date(2025, 10, 11), // 土曜日は数えない
		date(2025, 12, 25), // 範囲外
	})
	if err != nil {
		t.Fatalf("NewCalendar returned error: %v", err)
	}

	got, err := cal.CountWorkingDays(date(2025, 10, 6), date(2025, 10, 12))
	if err != nil {
		t.Fatalf("CountWorkingDays returned error: %v", err)
	}
	if got != 4 {
		t.Fatalf("expected 4, got %d", got)
	}
}

func TestCalendar_CountWorkingDays_InvalidRange(t *testing.T) {
	t.Parallel()

	if _, err := DefaultCalendar().CountWorkingDays(date(2025, 10, 7), date(2025, 10, 6)); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}

func TestCalendar_CountWorkingDays_MatchesDayByDay(t *testing.T) {
	t.Parallel()

	cal, err := NewCalendar([]time.Weekday{time.Friday}, []time.Time{date(2025, 1, 1), date(2025, 3, 8)})
	if err != nil {
		t.Fatalf("NewCalendar returned error: %v", err)
	}

	start := date(2025, 1, 1)
	for span := 0; span < 60; span++ {
		end := start.AddDate(0, 0, span)

		want := 0
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			if cal.IsWorkingDay(d) {
				want++
			}
		}

		got, err := cal.CountWorkingDays(start, end)
		if err != nil {
			t.Fatalf("CountWorkingDays returned error: %v", err)
		}
		if got != want {
			t.Fatalf("span %d: expected %d, got %d", span, want, got)
		}
	}
}

func TestCalendar_AddWorkingDays(t *testing.T) {
	t.Parallel()

	cal, err := NewCalendar(nil, []time.Time{date(2025, 10, 9)})
	if err != nil {
		t.Fatalf("NewCalendar returned error: %v", err)
	}

	cases := []struct {
		name  string
		start time.Time
		n     int
		want  time.Time
	}{
		{"zero on working day", date(2025, 10, 6), 0, date(2025, 10, 6)},
		{"zero on saturday rolls forward", date(2025, 10, 11), 0, date(2025, 10, 13)},
		{"skips holiday", date(2025, 10, 8), 1, date(2025, 10, 10)},
		{"skips weekend", date(2025, 10, 10), 1, date(2025, 10, 13)},
		{"two weeks", date(2025, 10, 13), 10, date(2025, 10, 27)},
		{"backwards over weekend", date(2025, 10, 13), -1, date(2025, 10, 10)},
		{"backwards over holiday", date(2025, 10, 10), -1, date(2025, 10, 8)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := cal.AddWorkingDays(tc.start, tc.n)
			if err != nil {
				t.Fatalf("AddWorkingDays returned error: %v", err)
			}
			if !got.Equal(tc.want) {
				t.Fatalf("expected %s, got %s", tc.want.Format(time.DateOnly), got.Format(time.DateOnly))
			}
		})
	}
}

func TestCalendar_AddWorkingDays_Bounds(t *testing.T) {
	t.Parallel()

	cal := DefaultCalendar()

	got, err := cal.AddWorkingDays(date(2025, 1, 1), MaxWorkingDayOffset)
	if err != nil {
		t.Fatalf("expected the maximum offset to be accepted, got %v", err)
	}
	if got.Year() != 2039 {
		t.Fatalf("expected a date in 2039, got %s", got.Format(time.DateOnly))
	}
	if _, err := cal.AddWorkingDays(date(2025, 1, 1), -MaxWorkingDayOffset); err != nil {
		t.Fatalf("expected the minimum offset to be accepted, got %v", err)
	}

	cases := []struct {
		name  string
		start time.Time
		n     int
	}{
		{"offset above bound", date(2025, 1, 1), MaxWorkingDayOffset + 1},
		{"offset below bound", date(2025, 1, 1), -MaxWorkingDayOffset - 1},
		{"max int32", date(2025, 1, 1), math.MaxInt32},
		{"past year 9999", date(9999, 12, 30), 5},
		{"before year 1", date(1, 1, 3), -5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := cal.AddWorkingDays(tc.start, tc.n); !errors.Is(err, ErrOffsetOutOfRange) {
				t.Fatalf("expected ErrOffsetOutOfRange, got %v", err)
			}
		})
	}

	// 9999-12-31 は金曜日
	closing, err := NewCalendar(nil, []time.Time{date(9999, 12, 31)})
	if err != nil {
		t.Fatalf("NewCalendar returned error: %v", err)
	}
	if _, err := closing.AddWorkingDays(date(9999, 12, 31), 0); !errors.Is(err, ErrOffsetOutOfRange) {
		t.Fatalf("expected rolling past year 9999 to fail, got %v", err)
	}
}

func TestNewCalendar_AllWeekend(t *testing.T) {
	t.Parallel()

	all := []time.Weekday{time.Sunday, time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday}
	if _, err := NewCalendar(all, nil); !errors.Is(err, ErrNoWorkingDays) {
		t.Fatalf("expected ErrNoWorkingDays, got %v", err)
	}
}

func TestCalendar_Holidays_Sorted(t *testing.T) {
	t.Parallel()

	cal, err := NewCalendar(nil, []time.Time{date(2025, 12, 25), time.Date(2025, 1, 1, 15, 0, 0, 0, time.UTC)})
	if err != nil {
		t.Fatalf("NewCalendar returned error: %v", err)
	}

	got := cal.Holidays()
	if len(got) != 2 || !got[0].Equal(date(2025, 1, 1)) || !got[1].Equal(date(2025, 12, 25)) {
		t.Fatalf("unexpected holidays: %v", got)
	}
}
