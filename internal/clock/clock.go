// Package clock is the time source for everything that asks "what day is it".
// Booking rules and the default date window read the clock instead of time.Now so
// tests can pin "now".
package clock

import "time"

type Clock interface {
	Now() time.Time
}

// Local reports the current time in a fixed location. The booking calendar is the
// municipality's civil calendar, not the host's.
type Local struct {
	Loc *time.Location
}

func (c Local) Now() time.Time {
	if c.Loc == nil {
		return time.Now()
	}
	return time.Now().In(c.Loc)
}

// Fixed always returns T.
type Fixed struct {
	T time.Time
}

func (c Fixed) Now() time.Time { return c.T }

var (
	_ Clock = Local{}
	_ Clock = Fixed{}
)
