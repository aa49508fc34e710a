/*
Package sqlite provides a SQLite-backed implementation of the storage
contracts.

PURPOSE:
  Implements timesheet.ShiftStore and timesheet.SettingsStore using SQLite.
  In production the same patterns apply to PostgreSQL - only minor SQL
  dialect differences.

KEY TABLES:
  shifts:   One row per (user_id, date). The composite primary key plus
            ON CONFLICT DO UPDATE is what enforces the one-shift-per-date
            invariant: writes replace, never append.
  settings: One row per user. Missing rows mean defaults.

DECIMAL STORAGE:
  Monetary and hour values are stored as TEXT and parsed back with
  shopspring/decimal, so no precision is lost to floating point.

WAL MODE:
  SQLite is opened with WAL for better concurrency: multiple readers
  don't block, single writer at a time.

USAGE:
  store, err := sqlite.New("./data/timesheet.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - timesheet/store.go: Contract definitions
  - timesheet/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/tally/timesheet-engine/paycalc"
	"github.com/tally/timesheet-engine/timesheet"
)

// Store implements both storage contracts using SQLite.
type Store struct {
	db *sql.DB
}

var (
	_ timesheet.ShiftStore    = (*Store)(nil)
	_ timesheet.SettingsStore = (*Store)(nil)
)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Shift records, one per (user, date)
	CREATE TABLE IF NOT EXISTS shifts (
		user_id       TEXT NOT NULL,
		date          TEXT NOT NULL,
		id            TEXT NOT NULL,
		start_time    TEXT NOT NULL,
		end_time      TEXT NOT NULL,
		break_minutes INTEGER NOT NULL DEFAULT 0,
		hours         TEXT NOT NULL,
		wage          TEXT NOT NULL,
		holiday       TEXT NOT NULL,
		overtime_pay  TEXT NOT NULL,
		total_pay     TEXT NOT NULL,
		note          TEXT NOT NULL DEFAULT '',
		updated_at    TEXT NOT NULL,
		PRIMARY KEY (user_id, date)
	);

	-- Month listing (user_id, YYYY-MM prefix of date)
	CREATE INDEX IF NOT EXISTS idx_shifts_user_month
		ON shifts(user_id, substr(date, 1, 7));

	-- Per-user settings (singleton row per user)
	CREATE TABLE IF NOT EXISTS settings (
		user_id          TEXT PRIMARY KEY,
		threshold_hours  TEXT NOT NULL,
		level1_rate      TEXT NOT NULL,
		level2_rate      TEXT NOT NULL,
		level3_rate      TEXT NOT NULL,
		base_wage        TEXT NOT NULL,
		cycles_per_month INTEGER NOT NULL,
		paydays_json     TEXT NOT NULL,
		updated_at       TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// SHIFT STORE
// =============================================================================

// Upsert writes a record, replacing any existing row at (user, date).
func (s *Store) Upsert(ctx context.Context, userID string, r paycalc.ShiftRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO shifts (user_id, date, id, start_time, end_time, break_minutes,
		                    hours, wage, holiday, overtime_pay, total_pay, note, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, date) DO UPDATE SET
			id = excluded.id,
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			break_minutes = excluded.break_minutes,
			hours = excluded.hours,
			wage = excluded.wage,
			holiday = excluded.holiday,
			overtime_pay = excluded.overtime_pay,
			total_pay = excluded.total_pay,
			note = excluded.note,
			updated_at = excluded.updated_at`,
		userID, r.Date, r.ID, r.StartTime, r.EndTime, r.BreakMinutes,
		r.Hours.String(), r.Wage.String(), string(r.Holiday),
		r.OvertimePay.String(), r.TotalPay.String(), r.Note,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upsert shift: %w", err)
	}
	return nil
}

// Get returns the record at (user, date).
func (s *Store) Get(ctx context.Context, userID, date string) (paycalc.ShiftRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, date, start_time, end_time, break_minutes,
		       hours, wage, holiday, overtime_pay, total_pay, note
		FROM shifts WHERE user_id = ? AND date = ?`, userID, date)

	record, err := scanShift(row)
	if errors.Is(err, sql.ErrNoRows) {
		return paycalc.ShiftRecord{}, timesheet.ErrShiftNotFound
	}
	return record, err
}

// Delete removes the record at (user, date).
func (s *Store) Delete(ctx context.Context, userID, date string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM shifts WHERE user_id = ? AND date = ?`, userID, date)
	if err != nil {
		return fmt.Errorf("delete shift: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return timesheet.ErrShiftNotFound
	}
	return nil
}

// List returns all of a user's records ordered by date.
func (s *Store) List(ctx context.Context, userID string) ([]paycalc.ShiftRecord, error) {
	return s.query(ctx, `
		SELECT id, date, start_time, end_time, break_minutes,
		       hours, wage, holiday, overtime_pay, total_pay, note
		FROM shifts WHERE user_id = ? ORDER BY date`, userID)
}

// ListMonth returns the user's records for one YYYY-MM month.
func (s *Store) ListMonth(ctx context.Context, userID, month string) ([]paycalc.ShiftRecord, error) {
	return s.query(ctx, `
		SELECT id, date, start_time, end_time, break_minutes,
		       hours, wage, holiday, overtime_pay, total_pay, note
		FROM shifts WHERE user_id = ? AND substr(date, 1, 7) = ? ORDER BY date`,
		userID, month)
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]paycalc.ShiftRecord, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query shifts: %w", err)
	}
	defer rows.Close()

	var records []paycalc.ShiftRecord
	for rows.Next() {
		record, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanShift(row scanner) (paycalc.ShiftRecord, error) {
	var (
		r                                  paycalc.ShiftRecord
		hours, wage, overtimePay, totalPay string
		holiday                            string
	)
	err := row.Scan(&r.ID, &r.Date, &r.StartTime, &r.EndTime, &r.BreakMinutes,
		&hours, &wage, &holiday, &overtimePay, &totalPay, &r.Note)
	if err != nil {
		return paycalc.ShiftRecord{}, err
	}

	r.Holiday = paycalc.Holiday(holiday)
	if r.Hours, err = decimal.NewFromString(hours); err != nil {
		return paycalc.ShiftRecord{}, fmt.Errorf("parse hours: %w", err)
	}
	if r.Wage, err = decimal.NewFromString(wage); err != nil {
		return paycalc.ShiftRecord{}, fmt.Errorf("parse wage: %w", err)
	}
	if r.OvertimePay, err = decimal.NewFromString(overtimePay); err != nil {
		return paycalc.ShiftRecord{}, fmt.Errorf("parse overtime pay: %w", err)
	}
	if r.TotalPay, err = decimal.NewFromString(totalPay); err != nil {
		return paycalc.ShiftRecord{}, fmt.Errorf("parse total pay: %w", err)
	}
	return r, nil
}

// =============================================================================
// SETTINGS STORE
// =============================================================================

// Load returns the user's settings, or defaults when none were ever saved.
func (s *Store) Load(ctx context.Context, userID string) (timesheet.Settings, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT threshold_hours, level1_rate, level2_rate, level3_rate,
		       base_wage, cycles_per_month, paydays_json
		FROM settings WHERE user_id = ?`, userID)

	var (
		threshold, l1, l2, l3, baseWage string
		cyclesPerMonth                  int
		paydaysJSON                     string
	)
	err := row.Scan(&threshold, &l1, &l2, &l3, &baseWage, &cyclesPerMonth, &paydaysJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return timesheet.DefaultSettings(), nil
	}
	if err != nil {
		return timesheet.Settings{}, fmt.Errorf("load settings: %w", err)
	}

	cfg := timesheet.Settings{
		Cycle: paycalc.PayCycleConfig{CyclesPerMonth: cyclesPerMonth},
	}
	if cfg.Rule.ThresholdHours, err = decimal.NewFromString(threshold); err != nil {
		return timesheet.Settings{}, fmt.Errorf("parse threshold: %w", err)
	}
	if cfg.Rule.Level1Rate, err = decimal.NewFromString(l1); err != nil {
		return timesheet.Settings{}, fmt.Errorf("parse level1 rate: %w", err)
	}
	if cfg.Rule.Level2Rate, err = decimal.NewFromString(l2); err != nil {
		return timesheet.Settings{}, fmt.Errorf("parse level2 rate: %w", err)
	}
	if cfg.Rule.Level3Rate, err = decimal.NewFromString(l3); err != nil {
		return timesheet.Settings{}, fmt.Errorf("parse level3 rate: %w", err)
	}
	if cfg.BaseWage, err = decimal.NewFromString(baseWage); err != nil {
		return timesheet.Settings{}, fmt.Errorf("parse base wage: %w", err)
	}
	if err := json.Unmarshal([]byte(paydaysJSON), &cfg.Cycle.Paydays); err != nil {
		return timesheet.Settings{}, fmt.Errorf("parse paydays: %w", err)
	}
	return cfg, nil
}

// Save overwrites the user's settings.
func (s *Store) Save(ctx context.Context, userID string, cfg timesheet.Settings) error {
	paydays, err := json.Marshal(cfg.Cycle.Paydays)
	if err != nil {
		return fmt.Errorf("encode paydays: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO settings (user_id, threshold_hours, level1_rate, level2_rate,
		                      level3_rate, base_wage, cycles_per_month, paydays_json, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			threshold_hours = excluded.threshold_hours,
			level1_rate = excluded.level1_rate,
			level2_rate = excluded.level2_rate,
			level3_rate = excluded.level3_rate,
			base_wage = excluded.base_wage,
			cycles_per_month = excluded.cycles_per_month,
			paydays_json = excluded.paydays_json,
			updated_at = excluded.updated_at`,
		userID,
		cfg.Rule.ThresholdHours.String(), cfg.Rule.Level1Rate.String(),
		cfg.Rule.Level2Rate.String(), cfg.Rule.Level3Rate.String(),
		cfg.BaseWage.String(), cfg.Cycle.CyclesPerMonth, string(paydays),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
