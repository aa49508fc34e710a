/*
service.go - Shift lifecycle over the stores

PURPOSE:
  Wires the pure pay engine to the storage contracts. The service validates
  raw input, snapshots the wage from settings, derives hours and pay, and
  upserts the result at (user, date). Edits are the same operation as adds:
  writing a date that already holds a record replaces it in place.

WAGE SNAPSHOT:
  The wage applied to a shift is copied into the record at creation/edit
  time. Changing the base wage in settings afterwards never rewrites
  existing records.

SEE ALSO:
  - paycalc: Derivation of hours and pay
  - cycles: Month and pay-cycle aggregation used by MonthReport
*/
package timesheet

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tally/timesheet-engine/cycles"
	"github.com/tally/timesheet-engine/paycalc"
)

// Service implements shift CRUD, import replacement, and reporting.
type Service struct {
	shifts   ShiftStore
	settings SettingsStore
}

// NewService creates a service over the given stores.
func NewService(shifts ShiftStore, settings SettingsStore) *Service {
	return &Service{shifts: shifts, settings: settings}
}

// =============================================================================
// SHIFT LIFECYCLE
// =============================================================================

// AddShift validates input, derives hours and pay under the user's saved
// rule, and upserts the record. A shift already stored for the same date is
// replaced; the returned record carries the ID of the record it replaced so
// the identifier stays stable across edits.
func (s *Service) AddShift(ctx context.Context, userID string, in ShiftInput) (paycalc.ShiftRecord, error) {
	if err := validateDate(in.Date); err != nil {
		return paycalc.ShiftRecord{}, err
	}
	if !in.Holiday.Valid() {
		return paycalc.ShiftRecord{}, fmt.Errorf("%w: %q", paycalc.ErrInvalidHoliday, in.Holiday)
	}
	if in.BreakMinutes < 0 {
		return paycalc.ShiftRecord{}, fmt.Errorf("break minutes must be non-negative, got %d", in.BreakMinutes)
	}

	hours, err := paycalc.ComputeWorkedHours(in.StartTime, in.EndTime, in.BreakMinutes)
	if err != nil {
		return paycalc.ShiftRecord{}, err
	}

	cfg, err := s.settings.Load(ctx, userID)
	if err != nil {
		return paycalc.ShiftRecord{}, fmt.Errorf("load settings: %w", err)
	}

	wage := cfg.BaseWage
	if in.Wage != nil {
		wage = *in.Wage
	}

	pay := paycalc.ComputePay(hours, wage, in.Holiday, cfg.Rule)

	record := paycalc.ShiftRecord{
		ID:           uuid.NewString(),
		Date:         in.Date,
		StartTime:    in.StartTime,
		EndTime:      in.EndTime,
		BreakMinutes: in.BreakMinutes,
		Hours:        hours,
		Wage:         wage,
		Holiday:      in.Holiday,
		OvertimePay:  pay.OvertimePay,
		TotalPay:     pay.TotalPay,
		Note:         in.Note,
	}

	// Edit-in-place by date: keep the existing ID stable across edits.
	if existing, err := s.shifts.Get(ctx, userID, in.Date); err == nil {
		record.ID = existing.ID
	}

	if err := s.shifts.Upsert(ctx, userID, record); err != nil {
		return paycalc.ShiftRecord{}, fmt.Errorf("store shift: %w", err)
	}
	return record, nil
}

// DeleteShift removes the record at (user, date).
func (s *Service) DeleteShift(ctx context.Context, userID, date string) error {
	if err := validateDate(date); err != nil {
		return err
	}
	return s.shifts.Delete(ctx, userID, date)
}

// ListShifts returns all of a user's records ordered by date.
func (s *Service) ListShifts(ctx context.Context, userID string) ([]paycalc.ShiftRecord, error) {
	return s.shifts.List(ctx, userID)
}

// ImportShifts writes an imported batch into the store. Duplicate dates in
// the batch collapse to last-one-wins through the upsert contract; later
// rows replace earlier ones. Returns the number of records written.
func (s *Service) ImportShifts(ctx context.Context, userID string, records []paycalc.ShiftRecord) (int, error) {
	for i, r := range records {
		if err := validateDate(r.Date); err != nil {
			return i, fmt.Errorf("record %d: %w", i, err)
		}
		if err := s.shifts.Upsert(ctx, userID, r); err != nil {
			return i, fmt.Errorf("record %d: %w", i, err)
		}
	}
	return len(records), nil
}

// =============================================================================
// SETTINGS
// =============================================================================

// LoadSettings returns the user's settings, defaulting when never saved.
func (s *Service) LoadSettings(ctx context.Context, userID string) (Settings, error) {
	return s.settings.Load(ctx, userID)
}

// SaveSettings validates and persists the user's settings.
func (s *Service) SaveSettings(ctx context.Context, userID string, cfg Settings) error {
	if !cfg.Rule.ThresholdHours.IsPositive() {
		return fmt.Errorf("overtime threshold must be positive")
	}
	one := decimal.NewFromInt(1)
	for name, rate := range map[string]decimal.Decimal{
		"level1": cfg.Rule.Level1Rate,
		"level2": cfg.Rule.Level2Rate,
		"level3": cfg.Rule.Level3Rate,
	} {
		if rate.LessThan(one) {
			return fmt.Errorf("%s rate must be a multiplier >= 1, got %s", name, rate)
		}
	}
	if cfg.Cycle.CyclesPerMonth < 1 || cfg.Cycle.CyclesPerMonth > 4 {
		return fmt.Errorf("cycles per month must be 1..4, got %d", cfg.Cycle.CyclesPerMonth)
	}
	return s.settings.Save(ctx, userID, cfg)
}

// =============================================================================
// REPORTING
// =============================================================================

// Report aggregates one month: the month total and the per-cycle breakdown
// under the user's pay-cycle configuration. Month is YYYY-MM.
func (s *Service) Report(ctx context.Context, userID, month string) (MonthReport, error) {
	year, m, err := parseMonth(month)
	if err != nil {
		return MonthReport{}, err
	}

	records, err := s.shifts.ListMonth(ctx, userID, month)
	if err != nil {
		return MonthReport{}, fmt.Errorf("list shifts: %w", err)
	}

	cfg, err := s.settings.Load(ctx, userID)
	if err != nil {
		return MonthReport{}, fmt.Errorf("load settings: %w", err)
	}

	filled := cycles.PayPerCycle(records, year, m, cycles.ForMonth(cfg.Cycle, year, m))

	report := MonthReport{
		Month:  month,
		Total:  cycles.MonthTotals(records)[month],
		Cycles: make([]CycleAmount, len(filled)),
	}
	for i, c := range filled {
		report.Cycles[i] = CycleAmount{
			Index:    c.Index,
			StartDay: c.StartDay,
			EndDay:   c.EndDay,
			Payday:   c.Payday,
			Amount:   c.Amount,
		}
	}
	return report, nil
}

// =============================================================================
// VALIDATION HELPERS
// =============================================================================

func validateDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("%w: %q", paycalc.ErrInvalidDate, date)
	}
	return nil
}

func parseMonth(month string) (int, time.Month, error) {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q (want YYYY-MM)", paycalc.ErrInvalidDate, month)
	}
	return t.Year(), t.Month(), nil
}
