/*
handlers_test.go - HTTP-level tests for the API handlers

Tests run against the full chi router with an in-memory store, driving the
endpoints through httptest the way a frontend would.
*/
package api

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tally/timesheet-engine/timesheet"
	"github.com/tally/timesheet-engine/timesheet/store"
)

func newTestServer(t *testing.T) *httptest.Server {
	mem := store.NewMemory()
	handler := NewHandler(timesheet.NewService(mem, mem))
	srv := httptest.NewServer(NewRouter(handler))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// =============================================================================
// SHIFTS
// =============================================================================

func TestAPI_CreateAndListShifts(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/users/u1/shifts", CreateShiftRequest{
		Date:         "2025-03-10",
		StartTime:    "09:00",
		EndTime:      "18:00",
		BreakMinutes: 60,
		Holiday:      "none",
		Note:         "weekday",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	created := decode[ShiftDTO](t, resp)
	assert.NotEmpty(t, created.ID)
	assert.InDelta(t, 8.0, created.Hours, 1e-9)
	assert.InDelta(t, 1520.0, created.TotalPay, 1e-9)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/users/u1/shifts", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	list := decode[[]ShiftDTO](t, resp)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
}

func TestAPI_CreateShift_UpsertsByDate(t *testing.T) {
	srv := newTestServer(t)

	first := doJSON(t, http.MethodPost, srv.URL+"/api/users/u1/shifts", CreateShiftRequest{
		Date: "2025-03-10", StartTime: "09:00", EndTime: "18:00", Holiday: "none",
	})
	require.Equal(t, http.StatusCreated, first.StatusCode)
	first.Body.Close()

	second := doJSON(t, http.MethodPost, srv.URL+"/api/users/u1/shifts", CreateShiftRequest{
		Date: "2025-03-10", StartTime: "10:00", EndTime: "20:00", Holiday: "none",
	})
	require.Equal(t, http.StatusCreated, second.StatusCode)
	second.Body.Close()

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/users/u1/shifts", nil)
	list := decode[[]ShiftDTO](t, resp)
	require.Len(t, list, 1)
	assert.Equal(t, "10:00", list[0].StartTime)
}

func TestAPI_CreateShift_BadInput(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/users/u1/shifts", CreateShiftRequest{
		Date: "2025-03-10", StartTime: "9am", EndTime: "18:00", Holiday: "none",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_DeleteShift(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/users/u1/shifts", CreateShiftRequest{
		Date: "2025-03-10", StartTime: "09:00", EndTime: "18:00", Holiday: "none",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/users/u1/shifts/2025-03-10", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/users/u1/shifts/2025-03-10", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

// =============================================================================
// SETTINGS
// =============================================================================

func TestAPI_Settings_DefaultsAndRoundTrip(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/users/u1/settings", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	defaults := decode[SettingsDTO](t, resp)
	assert.InDelta(t, 8.0, defaults.ThresholdHours, 1e-9)
	assert.InDelta(t, 190.0, defaults.BaseWage, 1e-9)
	assert.Equal(t, 1, defaults.CyclesPerMonth)

	custom := SettingsDTO{
		ThresholdHours: 6,
		Level1Rate:     1.5,
		Level2Rate:     2,
		Level3Rate:     3,
		BaseWage:       220,
		CyclesPerMonth: 2,
		Paydays:        []int{10, 25},
	}
	resp = doJSON(t, http.MethodPut, srv.URL+"/api/users/u1/settings", custom)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/users/u1/settings", nil)
	saved := decode[SettingsDTO](t, resp)
	assert.InDelta(t, 220.0, saved.BaseWage, 1e-9)
	assert.Equal(t, []int{10, 25}, saved.Paydays)
}

func TestAPI_Settings_RejectsInvalid(t *testing.T) {
	srv := newTestServer(t)

	bad := SettingsDTO{
		ThresholdHours: 0, // must be positive
		Level1Rate:     1.33, Level2Rate: 1.67, Level3Rate: 2.67,
		BaseWage: 190, CyclesPerMonth: 1,
	}
	resp := doJSON(t, http.MethodPut, srv.URL+"/api/users/u1/settings", bad)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// =============================================================================
// REPORTS
// =============================================================================

func TestAPI_MonthReport(t *testing.T) {
	srv := newTestServer(t)

	custom := SettingsDTO{
		ThresholdHours: 8, Level1Rate: 1.33, Level2Rate: 1.67, Level3Rate: 2.67,
		BaseWage: 190, CyclesPerMonth: 2, Paydays: []int{10, 25},
	}
	resp := doJSON(t, http.MethodPut, srv.URL+"/api/users/u1/settings", custom)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	for _, req := range []CreateShiftRequest{
		{Date: "2025-03-05", StartTime: "09:00", EndTime: "17:00", Holiday: "none"},
		{Date: "2025-03-20", StartTime: "09:00", EndTime: "17:00", Holiday: "none"},
	} {
		resp := doJSON(t, http.MethodPost, srv.URL+"/api/users/u1/shifts", req)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/users/u1/report/2025-03", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	report := decode[MonthReportDTO](t, resp)
	assert.Equal(t, "2025-03", report.Month)
	assert.InDelta(t, 3040.0, report.Total, 1e-9)
	require.Len(t, report.Cycles, 2)
	assert.InDelta(t, 1520.0, report.Cycles[0].Amount, 1e-9)
	assert.InDelta(t, 1520.0, report.Cycles[1].Amount, 1e-9)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/users/u1/report/bogus", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

// =============================================================================
// SPREADSHEET ROUND TRIP
// =============================================================================

func TestAPI_ExportImportRoundTrip(t *testing.T) {
	srv := newTestServer(t)

	for _, req := range []CreateShiftRequest{
		{Date: "2025-03-05", StartTime: "09:00", EndTime: "18:00", BreakMinutes: 60, Holiday: "none", Note: "a"},
		{Date: "2025-03-06", StartTime: "22:00", EndTime: "06:00", Holiday: "none", Note: "b"},
	} {
		resp := doJSON(t, http.MethodPost, srv.URL+"/api/users/u1/shifts", req)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	// Export
	resp, err := http.Get(srv.URL + "/api/users/u1/export")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "spreadsheetml")

	workbook, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	require.NotEmpty(t, workbook)

	// Import into a fresh user
	var form bytes.Buffer
	mw := multipart.NewWriter(&form)
	part, err := mw.CreateFormFile("file", "timesheet.xlsx")
	require.NoError(t, err)
	_, err = part.Write(workbook)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/users/u2/import", &form)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	result := decode[ImportResultDTO](t, resp)
	assert.Equal(t, 2, result.Imported)
	assert.Empty(t, result.SkippedRows)

	listResp := doJSON(t, http.MethodGet, srv.URL+"/api/users/u2/shifts", nil)
	list := decode[[]ShiftDTO](t, listResp)
	require.Len(t, list, 2)
	assert.Equal(t, "2025-03-05", list[0].Date)
	assert.Equal(t, "a", list[0].Note)
}

func TestAPI_ImportMissingFile(t *testing.T) {
	srv := newTestServer(t)

	var form bytes.Buffer
	mw := multipart.NewWriter(&form)
	require.NoError(t, mw.WriteField("unrelated", "x"))
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/users/u1/import", &form)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
