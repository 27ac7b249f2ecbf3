package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinio/clinio/internal/platform/clock"
)

// Service orchestrates configuration resolution, slot generation, occupancy
// and the booking gateway. Every view is recomputed from its inputs on each
// call; nothing is cached.
type Service struct {
	configs   ScheduleConfigRepository
	appts     AppointmentRepository
	clock     clock.Clock
	weekStart WeekStart
}

func NewService(configs ScheduleConfigRepository, appts AppointmentRepository, clk clock.Clock, weekStart WeekStart) *Service {
	if weekStart != WeekStartSunday {
		weekStart = WeekStartMonday
	}
	return &Service{configs: configs, appts: appts, clock: clk, weekStart: weekStart}
}

// ViewOptions restrict and shape calendar views.
type ViewOptions struct {
	// ProfessionalID narrows occupancy matching and config resolution to
	// one professional.
	ProfessionalID *uuid.UUID
	// HideCancelled drops cancelled appointments before occupancy is
	// computed. Off by default: a cancellation does not free its slot
	// unless the viewer asks for it.
	HideCancelled bool
}

// MonthView composes the month grid covering (year, month).
func (s *Service) MonthView(ctx context.Context, clinicID uuid.UUID, year int, month time.Month, selected time.Time, opts ViewOptions) (*MonthGrid, error) {
	if month < time.January || month > time.December {
		return nil, &ValidationError{Field: "month", Reason: "month out of range"}
	}
	now := s.clock.Now()
	from, to := MonthRange(year, month, s.weekStart, now.Location())

	appts, err := s.appts.ListRange(ctx, from, to, opts.ProfessionalID)
	if err != nil {
		return nil, storeErr("list appointments", err)
	}
	if opts.HideCancelled {
		appts = FilterCancelled(appts)
	}

	grid := ComposeMonth(year, month, s.weekStart, selected, appts, now)
	return &grid, nil
}

// WeekView composes the week grid containing anchor. With professionals in
// scope, each day's columns resolve per professional and occupancy matching
// is restricted to them; with none, the clinic default schedule applies and
// all appointments overlay.
func (s *Service) WeekView(ctx context.Context, clinicID uuid.UUID, anchor time.Time, professionalIDs []uuid.UUID, opts ViewOptions) (*WeekGrid, error) {
	now := s.clock.Now()
	weekFrom := s.weekStart.startOfWeek(anchor.In(now.Location()))
	weekTo := weekFrom.AddDate(0, 0, 7)

	clinicSched, err := s.configs.ClinicSchedule(ctx, clinicID)
	if err != nil {
		return nil, storeErr("load clinic schedule", err)
	}
	var overrides []OverrideRow
	if len(professionalIDs) > 0 {
		overrides, err = s.configs.ProfessionalOverrides(ctx, professionalIDs)
		if err != nil {
			return nil, storeErr("load professional overrides", err)
		}
	}

	days := make([]WeekDayPlan, 0, 7)
	for d := weekFrom; d.Before(weekTo); d = d.AddDate(0, 0, 1) {
		plan := WeekDayPlan{Date: d}
		if len(professionalIDs) == 0 {
			plan.Configs = []DayConfig{ResolveDayConfig(clinicSched, nil, d.Weekday(), nil)}
		} else {
			for i := range professionalIDs {
				plan.Configs = append(plan.Configs,
					ResolveDayConfig(clinicSched, overrides, d.Weekday(), &professionalIDs[i]))
			}
		}
		days = append(days, plan)
	}

	appts, err := s.appts.ListRange(ctx, weekFrom, weekTo, nil)
	if err != nil {
		return nil, storeErr("list appointments", err)
	}
	appts = filterScope(appts, professionalIDs)
	if opts.HideCancelled {
		appts = FilterCancelled(appts)
	}

	grid := ComposeWeek(days, appts, now)
	return &grid, nil
}

// DayView composes the slot list for one date.
func (s *Service) DayView(ctx context.Context, clinicID uuid.UUID, date time.Time, opts ViewOptions) (*DayList, error) {
	now := s.clock.Now()
	day := dateOnly(date.In(now.Location()))

	clinicSched, err := s.configs.ClinicSchedule(ctx, clinicID)
	if err != nil {
		return nil, storeErr("load clinic schedule", err)
	}
	var overrides []OverrideRow
	if opts.ProfessionalID != nil {
		overrides, err = s.configs.ProfessionalOverrides(ctx, []uuid.UUID{*opts.ProfessionalID})
		if err != nil {
			return nil, storeErr("load professional overrides", err)
		}
	}
	cfg := ResolveDayConfig(clinicSched, overrides, day.Weekday(), opts.ProfessionalID)

	appts, err := s.appts.ListRange(ctx, day, day.AddDate(0, 0, 1), opts.ProfessionalID)
	if err != nil {
		return nil, storeErr("list appointments", err)
	}
	if opts.HideCancelled {
		appts = FilterCancelled(appts)
	}

	view := ComposeDay(day, cfg, appts, now)
	return &view, nil
}

// BookingRequest is the raw booking form input. Fields arrive as strings so
// the gateway owns all validation.
type BookingRequest struct {
	PatientID       string `json:"patient_id"`
	ProfessionalID  string `json:"professional_id"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	DurationMinutes int    `json:"duration_minutes"`
	Title           string `json:"title"`
}

// ProposeBooking validates a booking and inserts it with status scheduled.
// Preconditions run in order and the first failure wins: field validation,
// then the past check against the clock at submission time, then the
// overlap check against the professional's existing appointments.
func (s *Service) ProposeBooking(ctx context.Context, req BookingRequest) (*Appointment, error) {
	patientID, professionalID, start, err := s.validateBooking(req)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if !start.After(now) {
		return nil, &PastSlotError{Slot: start}
	}

	end := start.Add(time.Duration(req.DurationMinutes) * time.Minute)
	existing, err := s.appts.ListOverlapping(ctx, professionalID, start, end)
	if err != nil {
		return nil, storeErr("check conflicts", err)
	}
	if len(existing) > 0 {
		return nil, &ConflictError{ProfessionalID: professionalID, ExistingID: existing[0].ID}
	}

	apt := &Appointment{
		PatientID:       patientID,
		ProfessionalID:  professionalID,
		Start:           start,
		DurationMinutes: req.DurationMinutes,
		Status:          StatusScheduled,
		Title:           req.Title,
	}
	if err := s.appts.Insert(ctx, apt); err != nil {
		return nil, storeErr("insert appointment", err)
	}
	return apt, nil
}

func (s *Service) validateBooking(req BookingRequest) (uuid.UUID, uuid.UUID, time.Time, error) {
	fail := func(field, reason string) (uuid.UUID, uuid.UUID, time.Time, error) {
		return uuid.Nil, uuid.Nil, time.Time{}, &ValidationError{Field: field, Reason: reason}
	}

	if req.PatientID == "" {
		return fail("patient_id", "required")
	}
	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return fail("patient_id", "must be a valid UUID")
	}
	if req.ProfessionalID == "" {
		return fail("professional_id", "required")
	}
	professionalID, err := uuid.Parse(req.ProfessionalID)
	if err != nil {
		return fail("professional_id", "must be a valid UUID")
	}
	if req.Title == "" {
		return fail("title", "required")
	}
	if req.Date == "" {
		return fail("date", "required")
	}
	if req.Time == "" {
		return fail("time", "required")
	}
	if req.DurationMinutes <= 0 {
		return fail("duration_minutes", "must be positive")
	}

	loc := s.clock.Now().Location()
	date, err := time.ParseInLocation("2006-01-02", req.Date, loc)
	if err != nil {
		return fail("date", "must be YYYY-MM-DD")
	}
	tod, err := ParseTimeOfDay(req.Time)
	if err != nil {
		return fail("time", "must be HH:MM")
	}
	return patientID, professionalID, tod.At(date), nil
}

// ChangeStatus moves an appointment through its lifecycle state machine.
func (s *Service) ChangeStatus(ctx context.Context, id uuid.UUID, target Status) (*Appointment, error) {
	if !target.Valid() {
		return nil, &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", target)}
	}
	apt, err := s.appts.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, storeErr("load appointment", err)
	}
	if !apt.Status.CanTransition(target) {
		return nil, &ValidationError{Field: "status", Reason: fmt.Sprintf("cannot move from %s to %s", apt.Status, target)}
	}
	if err := s.appts.UpdateStatus(ctx, id, target); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, storeErr("update status", err)
	}
	apt.Status = target
	return apt, nil
}

// ClinicSchedule returns the clinic's default weekly hours.
func (s *Service) ClinicSchedule(ctx context.Context, clinicID uuid.UUID) (*WeeklySchedule, error) {
	ws, err := s.configs.ClinicSchedule(ctx, clinicID)
	if err != nil {
		return nil, storeErr("load clinic schedule", err)
	}
	return ws, nil
}

// SaveClinicDay validates and upserts one weekday of the clinic default.
func (s *Service) SaveClinicDay(ctx context.Context, clinicID uuid.UUID, weekday time.Weekday, hours DayHours) error {
	if err := hours.Validate(); err != nil {
		return err
	}
	if err := s.configs.SaveClinicDay(ctx, clinicID, weekday, hours); err != nil {
		return storeErr("save clinic day", err)
	}
	return nil
}

// SaveClinicSlotMinutes sets the clinic-wide slot duration.
func (s *Service) SaveClinicSlotMinutes(ctx context.Context, clinicID uuid.UUID, minutes int) error {
	if minutes <= 0 {
		return &ValidationError{Field: "slot_minutes", Reason: "must be positive"}
	}
	if err := s.configs.SaveClinicSlotMinutes(ctx, clinicID, minutes); err != nil {
		return storeErr("save slot minutes", err)
	}
	return nil
}

// ProfessionalOverrides returns one professional's override rows.
func (s *Service) ProfessionalOverrides(ctx context.Context, professionalID uuid.UUID) ([]OverrideRow, error) {
	rows, err := s.configs.ProfessionalOverrides(ctx, []uuid.UUID{professionalID})
	if err != nil {
		return nil, storeErr("load professional overrides", err)
	}
	return rows, nil
}

// SaveProfessionalDay validates and upserts one professional override row.
func (s *Service) SaveProfessionalDay(ctx context.Context, row OverrideRow) error {
	if row.ProfessionalID == uuid.Nil {
		return &ValidationError{Field: "professional_id", Reason: "required"}
	}
	if row.SlotMinutes <= 0 {
		return &ValidationError{Field: "slot_minutes", Reason: "must be positive"}
	}
	if err := row.Hours.Validate(); err != nil {
		return err
	}
	if err := s.configs.SaveProfessionalDay(ctx, row); err != nil {
		return storeErr("save professional day", err)
	}
	return nil
}

// DeleteProfessionalDay removes one professional override row.
func (s *Service) DeleteProfessionalDay(ctx context.Context, professionalID uuid.UUID, weekday time.Weekday) error {
	if err := s.configs.DeleteProfessionalDay(ctx, professionalID, weekday); err != nil {
		return storeErr("delete professional day", err)
	}
	return nil
}

func filterScope(appts []*Appointment, professionalIDs []uuid.UUID) []*Appointment {
	if len(professionalIDs) == 0 {
		return appts
	}
	scope := make(map[uuid.UUID]bool, len(professionalIDs))
	for _, id := range professionalIDs {
		scope[id] = true
	}
	out := make([]*Appointment, 0, len(appts))
	for _, apt := range appts {
		if scope[apt.ProfessionalID] {
			out = append(out, apt)
		}
	}
	return out
}
