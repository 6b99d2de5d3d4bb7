package domain

import (
	"math"
	"time"
)

// MembershipStatus is the standing of a membership relative to "now".
// It is never stored; it is always derived from the expiry date.
type MembershipStatus string

const (
	StatusActive       MembershipStatus = "ACTIVE"
	StatusExpiringSoon MembershipStatus = "EXPIRING_SOON"
	StatusExpired      MembershipStatus = "EXPIRED"
)

// ExpiringSoonDays is the inclusive number of remaining days at which a
// membership is flagged as expiring soon.
const ExpiringSoonDays = 5

const day = 24 * time.Hour

// ClassifyStatus maps an expiry instant to a status relative to now.
// A membership is expired as soon as its expiry lies strictly before now.
func ClassifyStatus(expiry, now time.Time) MembershipStatus {
	if expiry.Before(now) {
		return StatusExpired
	}
	if DaysBetween(now, expiry) <= ExpiringSoonDays {
		return StatusExpiringSoon
	}
	return StatusActive
}

// DaysBetween returns ceil((to - from) / 1 day). Negative when to is before from.
func DaysBetween(from, to time.Time) int {
	diff := to.Sub(from)
	return int(math.Ceil(float64(diff) / float64(day)))
}

// IsValid reports whether s is one of the known statuses.
func (s MembershipStatus) IsValid() bool {
	switch s {
	case StatusActive, StatusExpiringSoon, StatusExpired:
		return true
	}
	return false
}
