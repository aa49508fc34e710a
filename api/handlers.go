/*
handlers.go - HTTP API handlers for the timesheet engine

PURPOSE:
  Exposes the pay engine via REST API. Handles HTTP request/response, JSON
  serialization, and delegates to the timesheet service. All endpoints are
  scoped to a user ID path segment; authentication is out of scope and
  belongs to a fronting layer.

ENDPOINTS:
  Shifts:
    GET    /api/users/{id}/shifts          List shifts
    POST   /api/users/{id}/shifts          Add/replace shift (upsert by date)
    DELETE /api/users/{id}/shifts/{date}   Delete shift

  Settings:
    GET    /api/users/{id}/settings        Load settings (defaults on absence)
    PUT    /api/users/{id}/settings        Save settings

  Reports:
    GET    /api/users/{id}/report/{month}  Month total + cycle breakdown

  Spreadsheet:
    GET    /api/users/{id}/export          Download xlsx
    POST   /api/users/{id}/import          Upload xlsx, replaces records

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Shift not found
  - 500: Internal errors

IMPORT RULE:
  Uploaded rows get their pay recomputed under the DEFAULT overtime rule,
  not the user's saved rule. The file carries wages but no rule, and this
  keeps an imported file meaning the same thing for every user.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/tally/timesheet-engine/paycalc"
	"github.com/tally/timesheet-engine/sheet"
	"github.com/tally/timesheet-engine/timesheet"
)

// maxImportSize bounds uploaded workbooks (10 MiB).
const maxImportSize = 10 << 20

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service *timesheet.Service
}

// NewHandler creates a new handler over the timesheet service.
func NewHandler(svc *timesheet.Service) *Handler {
	return &Handler{Service: svc}
}

// =============================================================================
// SHIFT HANDLERS
// =============================================================================

// ListShifts returns all of a user's shifts.
func (h *Handler) ListShifts(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	records, err := h.Service.ListShifts(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list shifts", err)
		return
	}

	dtos := make([]ShiftDTO, len(records))
	for i, rec := range records {
		dtos[i] = shiftDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateShift adds a shift, replacing any existing shift on the same date.
func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	var req CreateShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	in := timesheet.ShiftInput{
		Date:         req.Date,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		BreakMinutes: req.BreakMinutes,
		Holiday:      paycalc.Holiday(req.Holiday),
		Note:         req.Note,
	}
	if in.Holiday == "" {
		in.Holiday = paycalc.HolidayNone
	}
	if req.Wage != nil {
		wage := decimal.NewFromFloat(*req.Wage)
		in.Wage = &wage
	}

	record, err := h.Service.AddShift(r.Context(), userID, in)
	if err != nil {
		status := http.StatusInternalServerError
		if paycalc.IsClientError(err) {
			status = http.StatusBadRequest
		}
		writeError(w, status, "Failed to add shift", err)
		return
	}

	writeJSON(w, http.StatusCreated, shiftDTO(record))
}

// DeleteShift removes the shift on the given date.
func (h *Handler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	date := chi.URLParam(r, "date")

	err := h.Service.DeleteShift(r.Context(), userID, date)
	switch {
	case errors.Is(err, timesheet.ErrShiftNotFound):
		writeError(w, http.StatusNotFound, "Shift not found", err)
	case paycalc.IsClientError(err):
		writeError(w, http.StatusBadRequest, "Invalid date", err)
	case err != nil:
		writeError(w, http.StatusInternalServerError, "Failed to delete shift", err)
	default:
		writeJSON(w, http.StatusOK, map[string]any{"deleted": date})
	}
}

// =============================================================================
// SETTINGS HANDLERS
// =============================================================================

// GetSettings returns the user's settings, defaults included.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	cfg, err := h.Service.LoadSettings(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings", err)
		return
	}
	writeJSON(w, http.StatusOK, settingsDTO(cfg))
}

// SaveSettings overwrites the user's settings.
func (h *Handler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	var req SettingsDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.Service.SaveSettings(r.Context(), userID, req.toSettings()); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid settings", err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// MonthReport returns the month total and cycle breakdown for YYYY-MM.
func (h *Handler) MonthReport(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	month := chi.URLParam(r, "month")

	report, err := h.Service.Report(r.Context(), userID, month)
	if err != nil {
		status := http.StatusInternalServerError
		if paycalc.IsClientError(err) {
			status = http.StatusBadRequest
		}
		writeError(w, status, "Failed to build report", err)
		return
	}

	dto := MonthReportDTO{
		Month:  report.Month,
		Total:  report.Total.InexactFloat64(),
		Cycles: make([]CycleDTO, len(report.Cycles)),
	}
	for i, c := range report.Cycles {
		dto.Cycles[i] = CycleDTO{
			Index:    c.Index,
			StartDay: c.StartDay,
			EndDay:   c.EndDay,
			Payday:   c.Payday,
			Amount:   c.Amount.InexactFloat64(),
		}
	}
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// SPREADSHEET HANDLERS
// =============================================================================

// ExportShifts streams the user's shifts as an xlsx download.
// An empty record set yields a header-only workbook.
func (h *Handler) ExportShifts(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	records, err := h.Service.ListShifts(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list shifts", err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "timesheet.xlsx"))
	if err := sheet.Export(w, records); err != nil {
		// Headers are gone already; all we can do is log via the middleware.
		return
	}
}

// ImportShifts accepts an xlsx upload (multipart field "file") and writes
// the parsed records into the store, last-one-wins per date.
func (h *Handler) ImportShifts(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form", err)
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing file field", err)
		return
	}
	defer file.Close()

	records, skipped, err := sheet.Import(file, paycalc.DefaultOvertimeRule())
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to parse workbook", err)
		return
	}

	n, err := h.Service.ImportShifts(r.Context(), userID, records)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store imported shifts", err)
		return
	}

	writeJSON(w, http.StatusOK, ImportResultDTO{Imported: n, SkippedRows: skipped})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
