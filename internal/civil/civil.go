// Package civil handles calendar dates and wall-clock times with no time zone
// attached. Values are built from and rendered to their year/month/day fields
// directly, so a date never shifts because of the host's UTC offset.
package civil

import (
	"fmt"
	"time"

	gcivil "cloud.google.com/go/civil"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// Date is a calendar day. The zero value means "no date".
type Date gcivil.Date

// DateOf returns the calendar day t falls on in t's own location.
func DateOf(t time.Time) Date { return Date(gcivil.DateOf(t)) }

// ParseDate reads a strict YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	d, err := gcivil.ParseDate(s)
	if err != nil || len(s) != len(DateLayout) {
		return Date{}, fmt.Errorf("civil: invalid date %q", s)
	}
	return Date(d), nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return gcivil.Date(d).String()
}

func (d Date) IsZero() bool { return d == Date{} }

func (d Date) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText accepts YYYY-MM-DD or an empty string for the zero Date.
func (d *Date) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Date{}
		return nil
	}
	v, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// AddDays moves d by n days, rolling over months and years.
func (d Date) AddDays(n int) Date { return Date(gcivil.Date(d).AddDays(n)) }

func (d Date) Weekday() time.Weekday { return gcivil.Date(d).In(time.UTC).Weekday() }

func (d Date) Before(o Date) bool { return gcivil.Date(d).Before(gcivil.Date(o)) }
func (d Date) After(o Date) bool  { return gcivil.Date(d).After(gcivil.Date(o)) }

// DateTime is a wall-clock minute on a civil date.
type DateTime struct {
	Date
	Hour   int
	Minute int
}

// ParseClock reads HH:MM.
func ParseClock(s string) (hour, minute int, err error) {
	t, perr := time.Parse(ClockLayout, s)
	if perr != nil || len(s) != len(ClockLayout) {
		return 0, 0, fmt.Errorf("civil: invalid time %q", s)
	}
	return t.Hour(), t.Minute(), nil
}

// At combines a date with an HH:MM wall-clock time.
func (d Date) At(clock string) (DateTime, error) {
	h, m, err := ParseClock(clock)
	if err != nil {
		return DateTime{}, err
	}
	return DateTime{Date: d, Hour: h, Minute: m}, nil
}

func (dt DateTime) String() string {
	return fmt.Sprintf("%sT%02d:%02d", dt.Date.String(), dt.Hour, dt.Minute)
}

// AddMinutes advances the wall clock by n minutes. Daylight-saving transitions
// are not considered.
func (dt DateTime) AddMinutes(n int) DateTime {
	t := gcivil.DateTime{
		Date: gcivil.Date(dt.Date),
		Time: gcivil.Time{Hour: dt.Hour, Minute: dt.Minute},
	}.In(time.UTC).Add(time.Duration(n) * time.Minute)
	return DateTime{Date: DateOf(t), Hour: t.Hour(), Minute: t.Minute()}
}

// Range is an inclusive span of dates.
type Range struct {
	Min Date
	Max Date
}

// WeekRange spans from today to the Sunday that closes the current
// Monday-based week.
func WeekRange(now time.Time) Range {
	today := DateOf(now)
	diffToMonday := int(today.Weekday()) - 1
	if today.Weekday() == time.Sunday {
		diffToMonday = 6
	}
	monday := today.AddDays(-diffToMonday)
	return Range{Min: today, Max: monday.AddDays(6)}
}
