// Package timesheet implements the shift-entry domain over the pay engine.
// It owns per-user settings, the storage contracts, and the service that
// turns raw shift input into computed, persisted records.
package timesheet

import (
	"github.com/shopspring/decimal"
	"github.com/tally/timesheet-engine/paycalc"
)

// =============================================================================
// SETTINGS - Per-user configuration
// =============================================================================

// DefaultBaseWage is the hourly wage applied when a user has never saved
// settings and a shift carries no explicit wage.
var DefaultBaseWage = decimal.NewFromInt(190)

// Settings holds a user's pay configuration. The core calculator and
// aggregator never load these themselves; settings are loaded once and
// passed down as plain values.
type Settings struct {
	Rule     paycalc.OvertimeRule
	BaseWage decimal.Decimal
	Cycle    paycalc.PayCycleConfig
}

// DefaultSettings returns the configuration a user starts with: the default
// overtime rule, the default base wage, and one monthly pay cycle.
func DefaultSettings() Settings {
	return Settings{
		Rule:     paycalc.DefaultOvertimeRule(),
		BaseWage: DefaultBaseWage,
		Cycle:    paycalc.DefaultPayCycleConfig(),
	}
}

// ShiftInput is the raw material for one shift entry before derivation.
// Wage is optional; when nil the user's base wage is snapshotted in.
type ShiftInput struct {
	Date         string // YYYY-MM-DD
	StartTime    string // HH:mm
	EndTime      string // HH:mm
	BreakMinutes int
	Holiday      paycalc.Holiday
	Wage         *decimal.Decimal
	Note         string
}

// MonthReport is the aggregation output for one YYYY-MM month.
type MonthReport struct {
	Month  string
	Total  decimal.Decimal
	Cycles []CycleAmount
}

// CycleAmount is one pay cycle's share of a month's total.
type CycleAmount struct {
	Index    int
	StartDay int
	EndDay   int
	Payday   int
	Amount   decimal.Decimal
}
