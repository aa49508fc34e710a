package sheet_test

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tally/timesheet-engine/paycalc"
	"github.com/tally/timesheet-engine/sheet"
	"github.com/xuri/excelize/v2"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func computedShift(t *testing.T, date, start, end string, breakMinutes int, wage string, holiday paycalc.Holiday, note string) paycalc.ShiftRecord {
	t.Helper()
	hours, err := paycalc.ComputeWorkedHours(start, end, breakMinutes)
	require.NoError(t, err)
	pay := paycalc.ComputePay(hours, dec(wage), holiday, paycalc.DefaultOvertimeRule())
	return paycalc.ShiftRecord{
		ID:           "shift-" + date,
		Date:         date,
		StartTime:    start,
		EndTime:      end,
		BreakMinutes: breakMinutes,
		Hours:        hours,
		Wage:         dec(wage),
		Holiday:      holiday,
		OvertimePay:  pay.OvertimePay,
		TotalPay:     pay.TotalPay,
		Note:         note,
	}
}

// =============================================================================
// EXPORT
// =============================================================================

func TestExport_HeaderAndRowOrder(t *testing.T) {
	records := []paycalc.ShiftRecord{
		computedShift(t, "2025-03-02", "09:00", "18:00", 60, "190", paycalc.HolidayNone, "second"),
		computedShift(t, "2025-03-01", "10:00", "19:00", 60, "190", paycalc.HolidayNone, "first"),
	}

	var buf bytes.Buffer
	require.NoError(t, sheet.Export(&buf, records))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"日期", "上班時間", "下班時間", "休息時間", "工作時數", "時薪", "工資", "備註"}, rows[0])
	// Input order preserved, not sorted by date.
	assert.Equal(t, "2025-03-02", rows[1][0])
	assert.Equal(t, "2025-03-01", rows[2][0])
}

func TestExport_Empty_HeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sheet.Export(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

// =============================================================================
// IMPORT
// =============================================================================

func TestImport_RoundTrip(t *testing.T) {
	// GIVEN: Exported normal-day shifts
	// THEN: Date, clock fields, break and note survive the round trip.
	// Hours come back verbatim from the hours column.

	original := []paycalc.ShiftRecord{
		computedShift(t, "2025-03-01", "09:00", "18:00", 60, "190", paycalc.HolidayNone, "weekday"),
		computedShift(t, "2025-03-02", "22:00", "06:00", 30, "200", paycalc.HolidayNone, ""),
	}

	var buf bytes.Buffer
	require.NoError(t, sheet.Export(&buf, original))

	imported, skipped, err := sheet.Import(&buf, paycalc.DefaultOvertimeRule())
	require.NoError(t, err)
	assert.Empty(t, skipped)
	require.Len(t, imported, 2)

	for i, got := range imported {
		want := original[i]
		assert.Equal(t, want.Date, got.Date)
		assert.Equal(t, want.StartTime, got.StartTime)
		assert.Equal(t, want.EndTime, got.EndTime)
		assert.Equal(t, want.BreakMinutes, got.BreakMinutes)
		assert.Equal(t, want.Note, got.Note)
		assert.True(t, got.Hours.Equal(want.Hours), "hours: want %s got %s", want.Hours, got.Hours)
		assert.True(t, got.TotalPay.Equal(want.TotalPay), "total: want %s got %s", want.TotalPay, got.TotalPay)
		assert.NotEmpty(t, got.ID)
	}
}

func TestImport_HolidayTypeIsLossy(t *testing.T) {
	// Export writes no holiday column. A typhoon shift with a plain note
	// comes back as holiday=none with pay recomputed under the tiered rule.
	original := []paycalc.ShiftRecord{
		computedShift(t, "2025-03-03", "09:00", "14:00", 0, "200", paycalc.HolidayTyphoon, "no marker"),
	}

	var buf bytes.Buffer
	require.NoError(t, sheet.Export(&buf, original))

	imported, _, err := sheet.Import(&buf, paycalc.DefaultOvertimeRule())
	require.NoError(t, err)
	require.Len(t, imported, 1)

	assert.Equal(t, paycalc.HolidayNone, imported[0].Holiday)
	assert.False(t, imported[0].TotalPay.Equal(original[0].TotalPay), "doubled pay should not survive")
}

func TestImport_HolidayInferredFromNoteMarkers(t *testing.T) {
	original := []paycalc.ShiftRecord{
		computedShift(t, "2025-03-04", "09:00", "14:00", 0, "200", paycalc.HolidayTyphoon, "颱風假"),
		computedShift(t, "2025-03-05", "09:00", "14:00", 0, "200", paycalc.HolidayNational, "國定假日"),
		computedShift(t, "2025-03-06", "09:00", "14:00", 0, "200", paycalc.HolidayNone, "一般日"),
	}

	var buf bytes.Buffer
	require.NoError(t, sheet.Export(&buf, original))

	imported, _, err := sheet.Import(&buf, paycalc.DefaultOvertimeRule())
	require.NoError(t, err)
	require.Len(t, imported, 3)

	assert.Equal(t, paycalc.HolidayTyphoon, imported[0].Holiday)
	assert.Equal(t, paycalc.HolidayNational, imported[1].Holiday)
	assert.Equal(t, paycalc.HolidayNone, imported[2].Holiday)

	// Marker present, so the doubled pay survives the round trip.
	assert.True(t, imported[0].TotalPay.Equal(original[0].TotalPay))
}

func TestImport_IncompleteRowsDropped(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	rows := [][]any{
		{"日期", "上班時間", "下班時間", "休息時間", "工作時數", "時薪", "工資", "備註"},
		{"2025-03-01", "09:00", "18:00", 60, "", "190", "", "kept"},
		{"", "09:00", "18:00", 0, "", "190", "", "no date"},
		{"2025-03-03", "", "18:00", 0, "", "190", "", "no start"},
		{"2025-03-04", "09:00", "18:00", 0, "", "190", "", "kept too"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	imported, skipped, err := sheet.Import(&buf, paycalc.DefaultOvertimeRule())
	require.NoError(t, err)

	require.Len(t, imported, 2)
	assert.Equal(t, []int{3, 4}, skipped)
	assert.Equal(t, "2025-03-01", imported[0].Date)
	assert.Equal(t, "2025-03-04", imported[1].Date)
}

func TestImport_RecomputesHoursWhenColumnEmpty(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	rows := [][]any{
		{"日期", "上班時間", "下班時間", "休息時間", "工作時數", "時薪", "工資", "備註"},
		{"2025-03-01", "09:00", "18:00", 60, "", "190", "", ""},
		{"2025-03-02", "09:00", "18:00", 60, "12.5", "190", "", ""},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	imported, _, err := sheet.Import(&buf, paycalc.DefaultOvertimeRule())
	require.NoError(t, err)
	require.Len(t, imported, 2)

	// Empty hours column: recomputed from the clock fields.
	assert.True(t, imported[0].Hours.Equal(dec("8")), "got %s", imported[0].Hours)
	// Non-empty hours column: taken verbatim, even when it disagrees.
	assert.True(t, imported[1].Hours.Equal(dec("12.5")), "got %s", imported[1].Hours)
}

func TestImport_UniqueIDsPerBatch(t *testing.T) {
	original := []paycalc.ShiftRecord{
		computedShift(t, "2025-03-01", "09:00", "18:00", 0, "190", paycalc.HolidayNone, ""),
		computedShift(t, "2025-03-02", "09:00", "18:00", 0, "190", paycalc.HolidayNone, ""),
	}

	var buf bytes.Buffer
	require.NoError(t, sheet.Export(&buf, original))

	imported, _, err := sheet.Import(&buf, paycalc.DefaultOvertimeRule())
	require.NoError(t, err)
	require.Len(t, imported, 2)
	assert.NotEqual(t, imported[0].ID, imported[1].ID)
}
