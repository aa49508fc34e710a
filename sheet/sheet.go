/*
Package sheet serializes shift records to and from xlsx workbooks.

PURPOSE:
  Implements the spreadsheet round-trip contract: export a list of computed
  shift records to a tabular file, and parse one back into shift records,
  recomputing derived fields when absent. Files are plain xlsx readable by
  common spreadsheet tooling (excelize).

FILE LAYOUT:
  First sheet only. Fixed eight-column header row:
    日期, 上班時間, 下班時間, 休息時間, 工作時數, 時薪, 工資, 備註
  One data row per shift, in input order. Overtime pay, holiday type and
  record IDs are not written.

LOSSY ROUND-TRIP:
  Holiday type is inferred on import from note-text markers (颱風 / 國定).
  Since export never writes the holiday column, re-importing an exported
  file yields holiday=none unless the note happens to carry a marker.
  Overtime pay is likewise recomputed, not read back.

SEE ALSO:
  - paycalc: Hours and pay recomputation on import
*/
package sheet

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tally/timesheet-engine/paycalc"
	"github.com/xuri/excelize/v2"
)

// Column labels, fixed order. Matched by name on import so reordered or
// extended files still parse.
const (
	colDate  = "日期"
	colStart = "上班時間"
	colEnd   = "下班時間"
	colBreak = "休息時間"
	colHours = "工作時數"
	colWage  = "時薪"
	colPay   = "工資"
	colNote  = "備註"
)

var header = []string{colDate, colStart, colEnd, colBreak, colHours, colWage, colPay, colNote}

const sheetName = "timesheet"

// Markers used to infer the holiday classification from free-text notes.
const (
	markerTyphoon  = "颱風"
	markerNational = "國定"
)

// =============================================================================
// EXPORT
// =============================================================================

// Export writes records as an xlsx workbook. Row order follows input order.
// An empty record set produces a header-only file, not an error.
func Export(w io.Writer, records []paycalc.ShiftRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headerRow := make([]any, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &headerRow); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			r.Date,
			r.StartTime,
			r.EndTime,
			r.BreakMinutes,
			r.Hours.String(),
			r.Wage.String(),
			r.TotalPay.String(),
			r.Note,
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// =============================================================================
// IMPORT
// =============================================================================

// Import parses the first sheet of an xlsx workbook into shift records.
//
// Rows missing any of date, start time or end time are dropped without
// failing the whole import; their 1-based spreadsheet row numbers come back
// in the second return value. The hours column is used verbatim when
// present and non-empty, otherwise hours are recomputed from the clock
// fields (rows whose clock fields do not parse are dropped too). Overtime
// and total pay are always recomputed with the given rule. Each record gets
// a fresh unique ID; the file carries none.
func Import(r io.Reader, rule paycalc.OvertimeRule) ([]paycalc.ShiftRecord, []int, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	name := f.GetSheetName(0)
	if name == "" {
		return nil, nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(name)
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %q: %w", name, err)
	}
	if len(rows) == 0 {
		return nil, nil, nil
	}

	cols := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		cols[strings.TrimSpace(h)] = i
	}

	var (
		records []paycalc.ShiftRecord
		skipped []int
	)

	for i, row := range rows[1:] {
		rowNum := i + 2 // 1-based, after the header

		date := cell(row, cols, colDate)
		start := cell(row, cols, colStart)
		end := cell(row, cols, colEnd)
		if date == "" || start == "" || end == "" {
			skipped = append(skipped, rowNum)
			continue
		}

		breakMinutes := parseIntDefault(cell(row, cols, colBreak), 0)
		note := cell(row, cols, colNote)
		wage := parseDecimalDefault(cell(row, cols, colWage), decimal.Zero)

		hours, ok := parseDecimal(cell(row, cols, colHours))
		if !ok {
			hours, err = paycalc.ComputeWorkedHours(start, end, breakMinutes)
			if err != nil {
				skipped = append(skipped, rowNum)
				continue
			}
		}

		holiday := inferHoliday(note)
		pay := paycalc.ComputePay(hours, wage, holiday, rule)

		records = append(records, paycalc.ShiftRecord{
			ID:           uuid.NewString(),
			Date:         date,
			StartTime:    start,
			EndTime:      end,
			BreakMinutes: breakMinutes,
			Hours:        hours,
			Wage:         wage,
			Holiday:      holiday,
			OvertimePay:  pay.OvertimePay,
			TotalPay:     pay.TotalPay,
			Note:         note,
		})
	}

	return records, skipped, nil
}

// inferHoliday guesses the classification from note text. Lossy: export
// never writes the holiday, so this marker match is all import has.
func inferHoliday(note string) paycalc.Holiday {
	switch {
	case strings.Contains(note, markerTyphoon):
		return paycalc.HolidayTyphoon
	case strings.Contains(note, markerNational):
		return paycalc.HolidayNational
	default:
		return paycalc.HolidayNone
	}
}

func cell(row []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseIntDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func parseDecimal(s string) (decimal.Decimal, bool) {
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func parseDecimalDefault(s string, def decimal.Decimal) decimal.Decimal {
	if d, ok := parseDecimal(s); ok {
		return d
	}
	return def
}
