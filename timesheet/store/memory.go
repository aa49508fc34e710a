// Package store provides in-memory implementations of the timesheet
// storage contracts, for tests and development.
package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/tally/timesheet-engine/paycalc"
	"github.com/tally/timesheet-engine/timesheet"
)

// =============================================================================
// MEMORY SHIFT STORE
// =============================================================================

type Memory struct {
	mu       sync.RWMutex
	shifts   map[shiftKey]paycalc.ShiftRecord
	settings map[string]timesheet.Settings
}

type shiftKey struct {
	UserID string
	Date   string
}

func NewMemory() *Memory {
	return &Memory{
		shifts:   make(map[shiftKey]paycalc.ShiftRecord),
		settings: make(map[string]timesheet.Settings),
	}
}

// Upsert replaces the record at (user, date). Last write wins.
func (m *Memory) Upsert(_ context.Context, userID string, record paycalc.ShiftRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shifts[shiftKey{UserID: userID, Date: record.Date}] = record
	return nil
}

func (m *Memory) Get(_ context.Context, userID, date string) (paycalc.ShiftRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.shifts[shiftKey{UserID: userID, Date: date}]
	if !ok {
		return paycalc.ShiftRecord{}, timesheet.ErrShiftNotFound
	}
	return record, nil
}

func (m *Memory) Delete(_ context.Context, userID, date string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := shiftKey{UserID: userID, Date: date}
	if _, ok := m.shifts[k]; !ok {
		return timesheet.ErrShiftNotFound
	}
	delete(m.shifts, k)
	return nil
}

func (m *Memory) List(_ context.Context, userID string) ([]paycalc.ShiftRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collect(userID, ""), nil
}

func (m *Memory) ListMonth(_ context.Context, userID, month string) ([]paycalc.ShiftRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collect(userID, month), nil
}

func (m *Memory) collect(userID, monthPrefix string) []paycalc.ShiftRecord {
	var result []paycalc.ShiftRecord
	for k, r := range m.shifts {
		if k.UserID != userID {
			continue
		}
		if monthPrefix != "" && !strings.HasPrefix(r.Date, monthPrefix) {
			continue
		}
		result = append(result, r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date < result[j].Date })
	return result
}

// =============================================================================
// MEMORY SETTINGS STORE
// =============================================================================

// Load returns saved settings, or defaults when the user never saved any.
func (m *Memory) Load(_ context.Context, userID string) (timesheet.Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if s, ok := m.settings[userID]; ok {
		return s, nil
	}
	return timesheet.DefaultSettings(), nil
}

func (m *Memory) Save(_ context.Context, userID string, s timesheet.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings[userID] = s
	return nil
}
