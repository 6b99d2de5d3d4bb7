package domain

import "errors"

var (
	ErrInvalidDuration     = errors.New("extension days must be between 0 and 36500")
	ErrInvalidPlanDuration = errors.New("plan duration must be between 1 and 36500 days")
	ErrInvalidAmount       = errors.New("amount must not be negative")
	ErrMissingProductName  = errors.New("product name is required")
	ErrMissingMemberFields = errors.New("member name and gym are required")
)
