/*
store.go - Persistence contracts for shifts and settings

PURPOSE:
  Defines the interface between the domain logic and the database.
  Different implementations can use SQLite or in-memory storage.

UPSERT CONTRACT:
  Shift records are keyed (user, date). Upsert REPLACES the record at that
  key; it never appends. This is how the one-record-per-date invariant is
  enforced, and it makes duplicate dates in imported batches collapse to
  last-one-wins without the domain layer reasoning about them.

SETTINGS CONTRACT:
  Load returns defaults for users who never saved settings; a missing row
  is not an error. Settings are never deleted, only overwritten.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: Production SQLite
  - timesheet/store/memory.go: In-memory for testing
*/
package timesheet

import (
	"context"
	"errors"

	"github.com/tally/timesheet-engine/paycalc"
)

var (
	// ErrShiftNotFound is returned when no record exists at (user, date).
	ErrShiftNotFound = errors.New("shift not found")
)

// ShiftStore persists shift records keyed by (user, date).
type ShiftStore interface {
	// Upsert writes a record, replacing any existing record for the same
	// user and date. Last write wins.
	Upsert(ctx context.Context, userID string, record paycalc.ShiftRecord) error

	// Get returns the record at (user, date), or ErrShiftNotFound.
	Get(ctx context.Context, userID, date string) (paycalc.ShiftRecord, error)

	// Delete removes the record at (user, date). Returns ErrShiftNotFound
	// when nothing is stored there.
	Delete(ctx context.Context, userID, date string) error

	// List returns all of a user's records ordered by date ascending.
	List(ctx context.Context, userID string) ([]paycalc.ShiftRecord, error)

	// ListMonth returns the user's records for one YYYY-MM month, ordered
	// by date ascending.
	ListMonth(ctx context.Context, userID, month string) ([]paycalc.ShiftRecord, error)
}

// SettingsStore persists per-user settings.
type SettingsStore interface {
	// Load returns the user's settings, or DefaultSettings() when the user
	// has never saved any. Absence is not an error.
	Load(ctx context.Context, userID string) (Settings, error)

	// Save overwrites the user's settings.
	Save(ctx context.Context, userID string, s Settings) error
}
