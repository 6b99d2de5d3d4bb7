package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// WindowKind selects how a report window is interpreted.
type WindowKind string

const (
	WindowDaily   WindowKind = "DAILY"
	WindowWeekly  WindowKind = "WEEKLY"
	WindowMonthly WindowKind = "MONTHLY"
	WindowDate    WindowKind = "DATE"
	WindowRange   WindowKind = "RANGE"
)

var ErrInvalidWindow = errors.New("invalid report window")

// Date is a calendar date with no time zone attached. It is resolved against
// a location only when compared with an instant.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

const dateLayout = "2006-01-02"

// ParseDate reads a YYYY-MM-DD string as a calendar date. The result is not an
// instant, so no zone shift can move it to a neighbouring day.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", ErrInvalidWindow, s)
	}
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Start is midnight at the beginning of d in loc.
func (d Date) Start(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// End is the last millisecond of d in loc (23:59:59.999).
func (d Date) End(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 23, 59, 59, int(999*time.Millisecond), loc)
}

// AddDays returns the date n calendar days after d.
func (d Date) AddDays(n int) Date {
	return DateOf(time.Date(d.Year, d.Month, d.Day+n, 12, 0, 0, 0, time.UTC))
}

// DaysUntil counts calendar days from d to other (negative when other is earlier).
func (d Date) DaysUntil(other Date) int {
	from := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
	to := time.Date(other.Year, other.Month, other.Day, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from) / (24 * time.Hour))
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Window is a reporting window: a granularity relative to now, a single
// calendar date, or an inclusive range of calendar dates.
type Window struct {
	Kind  WindowKind
	Date  Date
	Start Date
	End   Date
}

func Daily() Window   { return Window{Kind: WindowDaily} }
func Weekly() Window  { return Window{Kind: WindowWeekly} }
func Monthly() Window { return Window{Kind: WindowMonthly} }

func OnDate(d Date) Window { return Window{Kind: WindowDate, Date: d} }

func Between(start, end Date) Window { return Window{Kind: WindowRange, Start: start, End: end} }

// ParseWindow builds a window from request parameters. date is used by DATE,
// start and end by RANGE; the others ignore them.
func ParseWindow(kind, date, start, end string) (Window, error) {
	switch WindowKind(strings.ToUpper(strings.TrimSpace(kind))) {
	case WindowDaily:
		return Daily(), nil
	case WindowWeekly, "":
		return Weekly(), nil
	case WindowMonthly:
		return Monthly(), nil
	case WindowDate:
		d, err := ParseDate(date)
		if err != nil {
			return Window{}, err
		}
		return OnDate(d), nil
	case WindowRange:
		s, err := ParseDate(start)
		if err != nil {
			return Window{}, err
		}
		e, err := ParseDate(end)
		if err != nil {
			return Window{}, err
		}
		return Between(s, e), nil
	}
	return Window{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidWindow, kind)
}

// Describe is a human readable label of the window, e.g. for export file names.
func (w Window) Describe() string {
	switch w.Kind {
	case WindowDate:
		return w.Date.String()
	case WindowRange:
		return w.Start.String() + "_" + w.End.String()
	}
	return strings.ToLower(string(w.Kind))
}

// Contains reports whether t falls inside the window. Calendar boundaries are
// taken in now's location.
//
// WEEKLY has no upper bound: an event dated after now is still inside it.
func (w Window) Contains(t, now time.Time) bool {
	loc := now.Location()
	local := t.In(loc)

	switch w.Kind {
	case WindowDaily:
		return DateOf(local) == DateOf(now)
	case WindowWeekly:
		return !local.Before(now.AddDate(0, 0, -7))
	case WindowMonthly:
		return local.Year() == now.Year() && local.Month() == now.Month()
	case WindowDate:
		return DateOf(local) == w.Date
	case WindowRange:
		return !local.Before(w.Start.Start(loc)) && !local.After(w.End.End(loc))
	}
	return false
}

// Filter returns the events inside the window, preserving their order.
// An empty result is valid.
func Filter(events []SaleEvent, w Window, now time.Time) []SaleEvent {
	out := make([]SaleEvent, 0, len(events))
	for _, e := range events {
		if w.Contains(e.Date, now) {
			out = append(out, e)
		}
	}
	return out
}
