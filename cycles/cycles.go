/*
Package cycles aggregates shift pay across months and pay cycles.

PURPOSE:
  Given a set of computed shift records and a pay-cycle configuration
  (1 to 4 paydays per month), partitions a month into day ranges and sums
  total pay per range and per month. Pure functions over their inputs;
  nothing here touches storage or the wall clock.

SPLIT POLICY:
  The split points are a fixed policy, not a generic divide-by-N formula:
    1 cycle:  [1, lastDay]
    2 cycles: [1, 15] and [16, lastDay] regardless of configured paydays
    3 cycles: splits at floor(lastDay/3) and floor(2*lastDay/3)
    4 cycles: splits at floor(lastDay/4), floor(lastDay/2), floor(3*lastDay/4)
  Configured paydays are carried through as labels only.

SEE ALSO:
  - paycalc: ShiftRecord and PayCycleConfig definitions
*/
package cycles

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tally/timesheet-engine/paycalc"
)

// Cycle is one sub-month date range with its payday label and, once summed,
// the total pay of the shifts falling inside it.
type Cycle struct {
	Index    int
	StartDay int
	EndDay   int
	Payday   int
	Amount   decimal.Decimal
}

// MonthTotals sums total pay per month, keyed YYYY-MM (the first seven
// characters of each record's date). Records with shorter dates are skipped.
func MonthTotals(records []paycalc.ShiftRecord) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for _, r := range records {
		month := r.Month()
		if month == "" {
			continue
		}
		totals[month] = totals[month].Add(r.TotalPay)
	}
	return totals
}

// LastDayOfMonth returns the last calendar day of the month, leap-aware.
func LastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1).Day()
}

// ForMonth partitions a month into the configured number of cycles.
// CyclesPerMonth outside 1..4 falls back to a single cycle.
func ForMonth(cfg paycalc.PayCycleConfig, year int, month time.Month) []Cycle {
	last := LastDayOfMonth(year, month)

	var bounds [][2]int
	switch cfg.CyclesPerMonth {
	case 2:
		// Fixed mid-month split; payday values do not move it.
		bounds = [][2]int{{1, 15}, {16, last}}
	case 3:
		a, b := last/3, 2*last/3
		bounds = [][2]int{{1, a}, {a + 1, b}, {b + 1, last}}
	case 4:
		a, b, c := last/4, last/2, 3*last/4
		bounds = [][2]int{{1, a}, {a + 1, b}, {b + 1, c}, {c + 1, last}}
	default:
		bounds = [][2]int{{1, last}}
	}

	result := make([]Cycle, len(bounds))
	for i, bd := range bounds {
		result[i] = Cycle{
			Index:    i,
			StartDay: bd[0],
			EndDay:   bd[1],
			Payday:   cfg.PaydayFor(i),
			Amount:   decimal.Zero,
		}
	}
	return result
}

// PayPerCycle fills each cycle's Amount with the sum of total pay for the
// records whose date falls inside [StartDay, EndDay] of the given month.
// Sums are accumulated in full precision and rounded to the nearest integer
// currency unit once, at the end. Records outside the month, or with dates
// that do not parse, contribute nothing.
func PayPerCycle(records []paycalc.ShiftRecord, year int, month time.Month, cs []Cycle) []Cycle {
	result := make([]Cycle, len(cs))
	copy(result, cs)

	sums := make([]decimal.Decimal, len(result))
	for _, r := range records {
		d, err := time.Parse("2006-01-02", r.Date)
		if err != nil || d.Year() != year || d.Month() != month {
			continue
		}
		for i, c := range result {
			if d.Day() >= c.StartDay && d.Day() <= c.EndDay {
				sums[i] = sums[i].Add(r.TotalPay)
				break
			}
		}
	}

	for i := range result {
		result[i].Amount = sums[i].Round(0)
	}
	return result
}
