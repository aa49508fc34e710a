/*
clock.go - Wall-clock parsing and worked-hours computation

PURPOSE:
  Converts a shift's clock-in/clock-out/break into worked hours.

OVERNIGHT SHIFTS:
  End times earlier than start times wrap to the next calendar day:
  22:00 -> 06:00 is 8 hours. A zero-length span (start == end) stays zero;
  the wrap only triggers on a strictly negative difference.

INPUT CONTRACT:
  Times are strict 24-hour HH:mm. Anything else is a reported error, never
  a silent zero.

SEE ALSO:
  - pay.go: Turns the resulting hours into pay
*/
package paycalc

import (
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"
)

const minutesPerDay = 24 * 60

var clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):([0-5][0-9])$`)

// ParseClock parses a strict 24-hour HH:mm time-of-day into minutes since
// midnight. Malformed input returns ErrInvalidClock.
func ParseClock(s string) (int, error) {
	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	// Submatches are digit-only; atoi cannot fail.
	hours := int(s[0]-'0')*10 + int(s[1]-'0')
	minutes := int(s[3]-'0')*10 + int(s[4]-'0')
	return hours*60 + minutes, nil
}

// ComputeWorkedHours converts a clock span and break into worked hours,
// rounded to two decimals.
//
// Rules:
//   - end < start wraps across midnight (+24h)
//   - start == end yields 0 hours, not 24
//   - the break is subtracted and the result clamped to >= 0
func ComputeWorkedHours(startTime, endTime string, breakMinutes int) (decimal.Decimal, error) {
	start, err := ParseClock(startTime)
	if err != nil {
		return decimal.Zero, fmt.Errorf("start time: %w", err)
	}
	end, err := ParseClock(endTime)
	if err != nil {
		return decimal.Zero, fmt.Errorf("end time: %w", err)
	}

	raw := end - start
	if raw < 0 {
		raw += minutesPerDay
	}

	minutes := raw - breakMinutes
	if minutes < 0 {
		minutes = 0
	}

	return decimal.NewFromInt(int64(minutes)).
		Div(decimal.NewFromInt(60)).
		Round(2), nil
}
