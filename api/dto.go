/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract. Monetary values
  travel as float64 at this boundary only; everything inside the engine is
  decimal.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"github.com/shopspring/decimal"
	"github.com/tally/timesheet-engine/paycalc"
	"github.com/tally/timesheet-engine/timesheet"
)

// =============================================================================
// SHIFTS
// =============================================================================

// ShiftDTO represents a shift record in API responses.
type ShiftDTO struct {
	ID           string  `json:"id"`
	Date         string  `json:"date"`
	StartTime    string  `json:"start_time"`
	EndTime      string  `json:"end_time"`
	BreakMinutes int     `json:"break_minutes"`
	Hours        float64 `json:"hours"`
	Wage         float64 `json:"wage"`
	Holiday      string  `json:"holiday"`
	OvertimePay  float64 `json:"overtime_pay"`
	TotalPay     float64 `json:"total_pay"`
	Note         string  `json:"note,omitempty"`
}

func shiftDTO(r paycalc.ShiftRecord) ShiftDTO {
	return ShiftDTO{
		ID:           r.ID,
		Date:         r.Date,
		StartTime:    r.StartTime,
		EndTime:      r.EndTime,
		BreakMinutes: r.BreakMinutes,
		Hours:        r.Hours.InexactFloat64(),
		Wage:         r.Wage.InexactFloat64(),
		Holiday:      string(r.Holiday),
		OvertimePay:  r.OvertimePay.InexactFloat64(),
		TotalPay:     r.TotalPay.InexactFloat64(),
		Note:         r.Note,
	}
}

// CreateShiftRequest is the request to add or replace a shift.
// Wage is optional; absent means the user's base wage.
type CreateShiftRequest struct {
	Date         string   `json:"date"`
	StartTime    string   `json:"start_time"`
	EndTime      string   `json:"end_time"`
	BreakMinutes int      `json:"break_minutes"`
	Holiday      string   `json:"holiday"`
	Wage         *float64 `json:"wage,omitempty"`
	Note         string   `json:"note"`
}

// =============================================================================
// SETTINGS
// =============================================================================

// SettingsDTO is the per-user configuration, both as response and request
// body. The same shape round-trips through GET and PUT.
type SettingsDTO struct {
	ThresholdHours float64 `json:"threshold_hours"`
	Level1Rate     float64 `json:"level1_rate"`
	Level2Rate     float64 `json:"level2_rate"`
	Level3Rate     float64 `json:"level3_rate"`
	BaseWage       float64 `json:"base_wage"`
	CyclesPerMonth int     `json:"cycles_per_month"`
	Paydays        []int   `json:"paydays"`
}

func settingsDTO(s timesheet.Settings) SettingsDTO {
	return SettingsDTO{
		ThresholdHours: s.Rule.ThresholdHours.InexactFloat64(),
		Level1Rate:     s.Rule.Level1Rate.InexactFloat64(),
		Level2Rate:     s.Rule.Level2Rate.InexactFloat64(),
		Level3Rate:     s.Rule.Level3Rate.InexactFloat64(),
		BaseWage:       s.BaseWage.InexactFloat64(),
		CyclesPerMonth: s.Cycle.CyclesPerMonth,
		Paydays:        s.Cycle.Paydays,
	}
}

func (d SettingsDTO) toSettings() timesheet.Settings {
	return timesheet.Settings{
		Rule: paycalc.OvertimeRule{
			ThresholdHours: decimal.NewFromFloat(d.ThresholdHours),
			Level1Rate:     decimal.NewFromFloat(d.Level1Rate),
			Level2Rate:     decimal.NewFromFloat(d.Level2Rate),
			Level3Rate:     decimal.NewFromFloat(d.Level3Rate),
		},
		BaseWage: decimal.NewFromFloat(d.BaseWage),
		Cycle: paycalc.PayCycleConfig{
			CyclesPerMonth: d.CyclesPerMonth,
			Paydays:        d.Paydays,
		},
	}
}

// =============================================================================
// REPORTS
// =============================================================================

// CycleDTO is one pay cycle's share of a month.
type CycleDTO struct {
	Index    int     `json:"index"`
	StartDay int     `json:"start_day"`
	EndDay   int     `json:"end_day"`
	Payday   int     `json:"payday"`
	Amount   float64 `json:"amount"`
}

// MonthReportDTO is the aggregation response for one month.
type MonthReportDTO struct {
	Month  string     `json:"month"`
	Total  float64    `json:"total"`
	Cycles []CycleDTO `json:"cycles"`
}

// ImportResultDTO reports how an upload went: how many rows became records
// and which spreadsheet rows were dropped as incomplete.
type ImportResultDTO struct {
	Imported    int   `json:"imported"`
	SkippedRows []int `json:"skipped_rows,omitempty"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
