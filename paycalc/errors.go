/*
errors.go - Centralized error types for the pay engine

PURPOSE:
  All sentinel errors of the core in one place. Callers branch with
  errors.Is(); higher layers map them to HTTP status codes.
*/
package paycalc

import "errors"

var (
	// ErrInvalidClock is returned when a time-of-day is not strict 24-hour HH:mm.
	ErrInvalidClock = errors.New("invalid clock time, want HH:mm")

	// ErrInvalidDate is returned when a calendar date is not YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date, want YYYY-MM-DD")

	// ErrInvalidHoliday is returned for an unknown holiday classification.
	ErrInvalidHoliday = errors.New("invalid holiday classification")
)

// IsClientError returns true if the error is due to invalid input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidClock) ||
		errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidHoliday)
}
