/*
Package paycalc provides the core pay calculation engine.

PURPOSE:
  This package contains the pure types and algorithms for turning a shift
  entry (clock-in, clock-out, break) into worked hours and pay. It has no
  storage, no I/O, and no clock dependence: every function is a pure
  mapping from inputs to outputs.

KEY CONCEPTS IN THIS FILE (types.go):
  - ShiftRecord: One worked shift, with derived hours and pay snapshotted in
  - OvertimeRule: Tiered multiplier schedule for hours past the threshold
  - Holiday: Flat-doubling day classifications (typhoon, national)
  - PayCycleConfig: How a month is partitioned for payroll reporting

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal to avoid floating-point errors
  2. Snapshots: Wage and pay are copied into the record at computation time,
     never resolved from live settings afterwards
  3. Purity: Identical inputs always produce identical outputs

SEE ALSO:
  - clock.go: HH:mm parsing and worked-hours computation
  - pay.go: Tiered overtime and holiday-doubling pay
*/
package paycalc

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// HOLIDAY - Day classification for flat wage doubling
// =============================================================================

// Holiday classifies a shift's day. Typhoon and national days both double
// the full shift's wage; the distinction exists only for display.
type Holiday string

const (
	HolidayNone     Holiday = "none"
	HolidayTyphoon  Holiday = "typhoon"
	HolidayNational Holiday = "national"
)

// Doubles reports whether the classification triggers flat wage doubling.
func (h Holiday) Doubles() bool { return h == HolidayTyphoon || h == HolidayNational }

// Valid reports whether h is one of the known classifications.
func (h Holiday) Valid() bool {
	return h == HolidayNone || h == HolidayTyphoon || h == HolidayNational
}

// =============================================================================
// OVERTIME RULE - Tiered multiplier schedule
// =============================================================================

// OvertimeRule defines when overtime starts and how each band is multiplied.
// Overtime hours are consumed additively: the first two hours past the
// threshold at Level1Rate, the next two at Level2Rate, and everything beyond
// at Level3Rate. Rates are multipliers >= 1; the threshold is > 0.
type OvertimeRule struct {
	ThresholdHours decimal.Decimal
	Level1Rate     decimal.Decimal
	Level2Rate     decimal.Decimal
	Level3Rate     decimal.Decimal
}

// DefaultOvertimeRule returns the statutory default schedule:
// overtime after 8 hours, rates 1.33 / 1.67 / 2.67.
func DefaultOvertimeRule() OvertimeRule {
	return OvertimeRule{
		ThresholdHours: decimal.NewFromInt(8),
		Level1Rate:     decimal.NewFromFloat(1.33),
		Level2Rate:     decimal.NewFromFloat(1.67),
		Level3Rate:     decimal.NewFromFloat(2.67),
	}
}

// =============================================================================
// SHIFT RECORD - One worked shift
// =============================================================================

// ShiftRecord is one recorded work interval for one calendar date.
// Hours, OvertimePay and TotalPay are derived at creation/edit time from the
// clock fields and the wage snapshot; they are stored, not recomputed on read.
type ShiftRecord struct {
	ID           string          // opaque, stable across edits
	Date         string          // YYYY-MM-DD, the aggregation key
	StartTime    string          // HH:mm, 24-hour
	EndTime      string          // HH:mm, 24-hour
	BreakMinutes int             // non-negative, deducted from the worked span
	Hours        decimal.Decimal // worked hours, two decimals, >= 0
	Wage         decimal.Decimal // hourly wage snapshot
	Holiday      Holiday
	OvertimePay  decimal.Decimal
	TotalPay     decimal.Decimal
	Note         string
}

// Month returns the YYYY-MM aggregation key for the record, or "" when the
// date is too short to carry one.
func (r ShiftRecord) Month() string {
	if len(r.Date) < 7 {
		return ""
	}
	return r.Date[:7]
}

// PayBreakdown is the result of a pay computation.
type PayBreakdown struct {
	RegularPay  decimal.Decimal
	OvertimePay decimal.Decimal
	TotalPay    decimal.Decimal
}

// =============================================================================
// PAY CYCLE CONFIG - Month partitioning for payroll reporting
// =============================================================================

// DefaultPayday is used when a cycle has no configured payday.
const DefaultPayday = 5

// PayCycleConfig describes how many paydays a month has (1 to 4) and which
// day-of-month each one falls on. It labels and splits months for reporting
// only; it never shifts the dates of the shifts themselves.
type PayCycleConfig struct {
	CyclesPerMonth int
	Paydays        []int // ordered, length matching CyclesPerMonth
}

// DefaultPayCycleConfig returns a single monthly cycle paid on the 5th.
func DefaultPayCycleConfig() PayCycleConfig {
	return PayCycleConfig{CyclesPerMonth: 1, Paydays: []int{DefaultPayday}}
}

// PaydayFor returns the configured payday for a cycle index, falling back to
// DefaultPayday when the index has no configured value.
func (c PayCycleConfig) PaydayFor(index int) int {
	if index >= 0 && index < len(c.Paydays) && c.Paydays[index] > 0 {
		return c.Paydays[index]
	}
	return DefaultPayday
}
