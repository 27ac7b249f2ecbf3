package scheduling

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func newTestHandler(t *testing.T) (*Handler, *mockConfigRepo, *mockApptRepo) {
	t.Helper()
	svc, configs, appts := newTestService(t)
	return NewHandler(svc), configs, appts
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *echo.HTTPError, got %T: %v", err, err)
	}
	return httpErr.Code
}

func TestHandler_ProposeBooking_Created(t *testing.T) {
	h, _, _ := newTestHandler(t)
	e := echo.New()

	body := `{"patient_id":"` + uuid.New().String() + `","professional_id":"` + uuid.New().String() +
		`","date":"2024-01-01","time":"09:00","duration_minutes":30,"title":"Consultation"}`
	req := httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ProposeBooking(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
	var apt Appointment
	if err := json.Unmarshal(rec.Body.Bytes(), &apt); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if apt.Status != StatusScheduled {
		t.Errorf("expected scheduled, got %s", apt.Status)
	}
}

func TestHandler_ProposeBooking_Validation(t *testing.T) {
	h, _, _ := newTestHandler(t)
	e := echo.New()

	body := `{"professional_id":"` + uuid.New().String() + `","date":"2024-01-01","time":"09:00","duration_minutes":30,"title":"x"}`
	req := httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.ProposeBooking(c)
	if code := httpCode(t, err); code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", code)
	}
}

func TestHandler_ProposeBooking_PastSlot(t *testing.T) {
	h, _, _ := newTestHandler(t)
	e := echo.New()

	body := `{"patient_id":"` + uuid.New().String() + `","professional_id":"` + uuid.New().String() +
		`","date":"2023-12-31","time":"09:00","duration_minutes":30,"title":"x"}`
	req := httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.ProposeBooking(c)
	if code := httpCode(t, err); code != http.StatusConflict {
		t.Errorf("expected 409 for past slot, got %d", code)
	}
}

func TestHandler_ProposeBooking_Conflict(t *testing.T) {
	h, _, appts := newTestHandler(t)
	e := echo.New()

	profID := uuid.New()
	existing := apt(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), 30, StatusScheduled)
	existing.ProfessionalID = profID
	appts.items[existing.ID] = existing

	body := `{"patient_id":"` + uuid.New().String() + `","professional_id":"` + profID.String() +
		`","date":"2024-01-01","time":"09:15","duration_minutes":30,"title":"x"}`
	req := httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.ProposeBooking(c)
	if code := httpCode(t, err); code != http.StatusConflict {
		t.Errorf("expected 409 for conflict, got %d", code)
	}
}

func TestHandler_ProposeBooking_StoreError(t *testing.T) {
	h, _, appts := newTestHandler(t)
	appts.err = errors.New("connection refused")
	e := echo.New()

	body := `{"patient_id":"` + uuid.New().String() + `","professional_id":"` + uuid.New().String() +
		`","date":"2024-01-01","time":"09:00","duration_minutes":30,"title":"x"}`
	req := httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.ProposeBooking(c)
	if code := httpCode(t, err); code != http.StatusBadGateway {
		t.Errorf("expected 502 for store failure, got %d", code)
	}
}

func TestHandler_ChangeStatus(t *testing.T) {
	h, _, appts := newTestHandler(t)
	e := echo.New()

	existing := apt(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), 30, StatusScheduled)
	appts.items[existing.ID] = existing

	req := httptest.NewRequest(http.MethodPatch, "/appointments/"+existing.ID.String()+"/status",
		strings.NewReader(`{"status":"confirmed"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(existing.ID.String())

	if err := h.ChangeStatus(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if appts.items[existing.ID].Status != StatusConfirmed {
		t.Errorf("expected stored status confirmed, got %s", appts.items[existing.ID].Status)
	}
}

func TestHandler_ChangeStatus_BadTransition(t *testing.T) {
	h, _, appts := newTestHandler(t)
	e := echo.New()

	existing := apt(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), 30, StatusCancelled)
	appts.items[existing.ID] = existing

	req := httptest.NewRequest(http.MethodPatch, "/x", strings.NewReader(`{"status":"confirmed"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(existing.ID.String())

	err := h.ChangeStatus(c)
	if code := httpCode(t, err); code != http.StatusBadRequest {
		t.Errorf("expected 400 for terminal transition, got %d", code)
	}
}

func TestHandler_ChangeStatus_NotFound(t *testing.T) {
	h, _, _ := newTestHandler(t)
	e := echo.New()

	req := httptest.NewRequest(http.MethodPatch, "/x", strings.NewReader(`{"status":"confirmed"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())

	err := h.ChangeStatus(c)
	if code := httpCode(t, err); code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown appointment, got %d", code)
	}
}

func TestHandler_DayView(t *testing.T) {
	h, _, _ := newTestHandler(t)
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/agenda/day?clinic_id="+uuid.New().String()+"&date=2024-01-01", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.DayView(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	var view DayList
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(view.Slots) != 18 {
		t.Errorf("expected 18 slots, got %d", len(view.Slots))
	}
}

func TestHandler_DayView_BadParams(t *testing.T) {
	h, _, _ := newTestHandler(t)
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/agenda/day?clinic_id=nope&date=2024-01-01", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if code := httpCode(t, h.DayView(c)); code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad clinic id, got %d", code)
	}

	req = httptest.NewRequest(http.MethodGet, "/agenda/day?clinic_id="+uuid.New().String()+"&date=January", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	if code := httpCode(t, h.DayView(c)); code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad date, got %d", code)
	}
}

func TestHandler_WeekView(t *testing.T) {
	h, _, _ := newTestHandler(t)
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/agenda/week?clinic_id="+uuid.New().String()+"&date=2024-01-03", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.WeekView(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var grid WeekGrid
	if err := json.Unmarshal(rec.Body.Bytes(), &grid); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(grid.Columns) != 7 {
		t.Errorf("expected 7 columns, got %d", len(grid.Columns))
	}
	// The week containing Wednesday Jan 3 starts Monday Jan 1.
	if grid.Columns[0].Date.Format("2006-01-02") != "2024-01-01" {
		t.Errorf("expected week to start Jan 1, got %s", grid.Columns[0].Date.Format("2006-01-02"))
	}
}

func TestHandler_MonthView(t *testing.T) {
	h, _, _ := newTestHandler(t)
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/agenda/month?clinic_id="+uuid.New().String()+"&year=2024&month=1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.MonthView(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var grid MonthGrid
	if err := json.Unmarshal(rec.Body.Bytes(), &grid); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(grid.Weeks) != 5 {
		t.Errorf("expected 5 weeks, got %d", len(grid.Weeks))
	}
}

func TestHandler_MonthView_BadMonth(t *testing.T) {
	h, _, _ := newTestHandler(t)
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/agenda/month?clinic_id="+uuid.New().String()+"&year=2024&month=13", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if code := httpCode(t, h.MonthView(c)); code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", code)
	}
}

func TestHandler_SaveClinicDay(t *testing.T) {
	h, configs, _ := newTestHandler(t)
	e := echo.New()
	clinicID := uuid.New()

	body := `{"active":true,"start":"09:00","end":"17:00","lunch_start":"12:00","lunch_end":"13:00"}`
	req := httptest.NewRequest(http.MethodPut, "/x", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("clinicID", "weekday")
	c.SetParamValues(clinicID.String(), "monday")

	if err := h.SaveClinicDay(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	saved := configs.schedule.Days[time.Monday]
	if saved.Start != mustTime(t, "09:00") || saved.End != mustTime(t, "17:00") {
		t.Errorf("unexpected saved window: %s-%s", saved.Start, saved.End)
	}
}

func TestHandler_SaveClinicDay_Invalid(t *testing.T) {
	h, _, _ := newTestHandler(t)
	e := echo.New()

	body := `{"active":true,"start":"17:00","end":"09:00"}`
	req := httptest.NewRequest(http.MethodPut, "/x", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("clinicID", "weekday")
	c.SetParamValues(uuid.New().String(), "monday")

	if code := httpCode(t, h.SaveClinicDay(c)); code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", code)
	}
}

func TestHandler_SaveProfessionalDay(t *testing.T) {
	h, configs, _ := newTestHandler(t)
	e := echo.New()
	profID := uuid.New()

	body := `{"active":true,"start":"10:00","end":"14:00","slot_minutes":60}`
	req := httptest.NewRequest(http.MethodPut, "/x", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id", "weekday")
	c.SetParamValues(profID.String(), "tuesday")

	if err := h.SaveProfessionalDay(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(configs.overrides) != 1 {
		t.Fatalf("expected one override row, got %d", len(configs.overrides))
	}
	row := configs.overrides[0]
	if row.Weekday != time.Tuesday || row.SlotMinutes != 60 {
		t.Errorf("unexpected row: %+v", row)
	}
}

func TestHandler_DeleteProfessionalDay(t *testing.T) {
	h, configs, _ := newTestHandler(t)
	e := echo.New()
	profID := uuid.New()
	configs.overrides = []OverrideRow{
		{ProfessionalID: profID, Weekday: time.Monday, SlotMinutes: 30,
			Hours: DayHours{Active: true, Start: 480, End: 720}},
	}

	req := httptest.NewRequest(http.MethodDelete, "/x", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id", "weekday")
	c.SetParamValues(profID.String(), "monday")

	if err := h.DeleteProfessionalDay(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
	if len(configs.overrides) != 0 {
		t.Errorf("expected override removed, got %d rows", len(configs.overrides))
	}
}
