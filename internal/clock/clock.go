// Package clock supplies the current instant to services so that status
// classification and report windows can be tested against a fixed time.
package clock

import "time"

type Clock interface {
	Now() time.Time
}

// System reads the wall clock and expresses it in a fixed location. Calendar
// boundaries of reports are computed in that location.
type System struct {
	Location *time.Location
}

func (s System) Now() time.Time {
	if s.Location == nil {
		return time.Now()
	}
	return time.Now().In(s.Location)
}

// Fixed always returns the same instant.
type Fixed time.Time

func (f Fixed) Now() time.Time { return time.Time(f) }
