package workday

import (
	"sort"
	"time"
)

const daysPerWeek = 7

// MaxWorkingDayOffset は AddWorkingDays が受け付ける稼働日数の絶対値の上限です。
const MaxWorkingDayOffset = 3660

const (
	minYear = 1
	maxYear = 9999
)

// Calendar は週末と祝日から稼働日を判定します。日付は UTC の暦日として扱います。
type Calendar struct {
	weekend  map[time.Weekday]bool
	holidays map[time.Time]bool
}

// NewCalendar は Calendar を生成します。weekend が空の場合は土日を週末とします。
func NewCalendar(weekend []time.Weekday, holidays []time.Time) (*Calendar, error) {
	if len(weekend) == 0 {
		weekend = []time.Weekday{time.Saturday, time.Sunday}
	}

	c := &Calendar{
		weekend:  make(map[time.Weekday]bool, len(weekend)),
		holidays: make(map[time.Time]bool, len(holidays)),
	}
	for _, d := range weekend {
		c.weekend[d] = true
	}
	if len(c.weekend) >= daysPerWeek {
		return nil, ErrNoWorkingDays
	}
	for _, h := range holidays {
		c.holidays[DateOf(h)] = true
	}
	return c, nil
}

// DefaultCalendar は土日を週末とし、祝日を持たない Calendar を返します。
func DefaultCalendar() *Calendar {
	c, _ := NewCalendar(nil, nil)
	return c
}

// DateOf は時刻を同じ暦日の UTC 0 時に丸めます。
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Holidays は登録済みの祝日を昇順で返します。
func (c *Calendar) Holidays() []time.Time {
	out := make([]time.Time, 0, len(c.holidays))
	for h := range c.holidays {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// IsWorkingDay は週末でも祝日でもない日かどうかを返します。
func (c *Calendar) IsWorkingDay(date time.Time) bool {
	d := DateOf(date)
	return !c.weekend[d.Weekday()] && !c.holidays[d]
}

// CountWorkingDays は start から end まで (両端を含む) の稼働日数を返します。
func (c *Calendar) CountWorkingDays(start, end time.Time) (int, error) {
	from, to := DateOf(start), DateOf(end)
	if to.Before(from) {
		return 0, ErrInvalidRange
	}

	days := int(to.Sub(from).Hours()/24) + 1
	fullWeeks := days / daysPerWeek
	count := fullWeeks * (daysPerWeek - len(c.weekend))

	for d := from.AddDate(0, 0, fullWeeks*daysPerWeek); !d.After(to); d = d.AddDate(0, 0, 1) {
		if !c.weekend[d.Weekday()] {
			count++
		}
	}

	for h := range c.holidays {
		if h.Before(from) || h.After(to) || c.weekend[h.Weekday()] {
			continue
		}
		count--
	}

	return count, nil
}

// AddWorkingDays は start から n 稼働日後の日付を返します。n が負の場合は前に戻ります。
// n が 0 で start が稼働日でない場合は次の稼働日を返します。
// |n| が MaxWorkingDayOffset を超える場合や結果が 1 年から 9999 年に収まらない場合は ErrOffsetOutOfRange を返します。
func (c *Calendar) AddWorkingDays(start time.Time, n int) (time.Time, error) {
	if n > MaxWorkingDayOffset || n < -MaxWorkingDayOffset {
		return time.Time{}, ErrOffsetOutOfRange
	}

	d := DateOf(start)
	if n == 0 {
		for !c.IsWorkingDay(d) {
			d = d.AddDate(0, 0, 1)
		}
		return inYearRange(d)
	}

	step := 1
	if n < 0 {
		step = -1
		n = -n
	}
	for n > 0 {
		d = d.AddDate(0, 0, step)
		if d.Year() < minYear || d.Year() > maxYear {
			return time.Time{}, ErrOffsetOutOfRange
		}
		if c.IsWorkingDay(d) {
			n--
		}
	}
	return inYearRange(d)
}

func inYearRange(d time.Time) (time.Time, error) {
	if d.Year() < minYear || d.Year() > maxYear {
		return time.Time{}, ErrOffsetOutOfRange
	}
	return d, nil
}
