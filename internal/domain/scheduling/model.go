package scheduling

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TimeOfDay is a wall-clock time expressed as minutes since midnight.
// It is the unit the working-hours tables store and the slot generator
// steps in.
type TimeOfDay int

// ParseTimeOfDay parses "HH:MM" (24-hour) into a TimeOfDay.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("time of day %q out of range", s)
	}
	return TimeOfDay(h*60 + m), nil
}

func (t TimeOfDay) Hour() int    { return int(t) / 60 }
func (t TimeOfDay) Minute() int  { return int(t) % 60 }
func (t TimeOfDay) Minutes() int { return int(t) }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// At anchors the time of day on a calendar date, in that date's location.
func (t TimeOfDay) At(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, date.Location())
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// DayHours is one weekday's working window. Lunch is optional; when set it
// is a dead zone inside the working window, not a split shift.
type DayHours struct {
	Active     bool       `json:"active"`
	Start      TimeOfDay  `json:"start"`
	End        TimeOfDay  `json:"end"`
	LunchStart *TimeOfDay `json:"lunch_start,omitempty"`
	LunchEnd   *TimeOfDay `json:"lunch_end,omitempty"`
}

// Validate checks the window invariants. Inactive days carry no constraints.
func (d DayHours) Validate() error {
	if !d.Active {
		return nil
	}
	if d.Start >= d.End {
		return &ValidationError{Field: "start", Reason: "start must be before end"}
	}
	if (d.LunchStart == nil) != (d.LunchEnd == nil) {
		return &ValidationError{Field: "lunch_start", Reason: "lunch start and end must be set together"}
	}
	if d.LunchStart != nil {
		if *d.LunchStart >= *d.LunchEnd {
			return &ValidationError{Field: "lunch_start", Reason: "lunch start must be before lunch end"}
		}
		if *d.LunchStart < d.Start || *d.LunchEnd > d.End {
			return &ValidationError{Field: "lunch_start", Reason: "lunch window must fall within working hours"}
		}
	}
	return nil
}

// WeeklySchedule is the clinic-wide default: one DayHours per weekday plus
// the clinic's slot duration. Days is indexed by time.Weekday (Sunday = 0).
type WeeklySchedule struct {
	ClinicID    uuid.UUID   `json:"clinic_id"`
	SlotMinutes int         `json:"slot_minutes"`
	Days        [7]DayHours `json:"days"`
}

// OverrideRow is one professional's working hours for one weekday. A
// professional with any override rows is scheduled entirely by their rows;
// the clinic default no longer applies to them on any day.
type OverrideRow struct {
	ProfessionalID uuid.UUID    `json:"professional_id"`
	Weekday        time.Weekday `json:"weekday"`
	Hours          DayHours     `json:"hours"`
	SlotMinutes    int          `json:"slot_minutes"`
}

// DayConfig is the resolved schedule for one professional (or the clinic)
// on one weekday. It is the sole input to slot generation.
type DayConfig struct {
	Active      bool       `json:"active"`
	Start       TimeOfDay  `json:"start"`
	End         TimeOfDay  `json:"end"`
	LunchStart  *TimeOfDay `json:"lunch_start,omitempty"`
	LunchEnd    *TimeOfDay `json:"lunch_end,omitempty"`
	SlotMinutes int        `json:"slot_minutes"`
}

// Status is the appointment lifecycle state.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no_show"
)

var validStatuses = map[Status]bool{
	StatusScheduled: true,
	StatusConfirmed: true,
	StatusCompleted: true,
	StatusCancelled: true,
	StatusNoShow:    true,
}

func (s Status) Valid() bool { return validStatuses[s] }

// statusTransitions holds the allowed state machine edges.
var statusTransitions = map[Status][]Status{
	StatusScheduled: {StatusConfirmed, StatusCancelled, StatusNoShow},
	StatusConfirmed: {StatusCompleted, StatusCancelled, StatusNoShow},
}

// CanTransition reports whether an appointment may move from s to target.
// Completed, cancelled and no_show are terminal.
func (s Status) CanTransition(target Status) bool {
	for _, next := range statusTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Appointment is a booked interval for one professional. Display fields are
// joined from the patient and professional rows on read and never written
// back.
type Appointment struct {
	ID              uuid.UUID `json:"id"`
	PatientID       uuid.UUID `json:"patient_id"`
	ProfessionalID  uuid.UUID `json:"professional_id"`
	Start           time.Time `json:"start"`
	DurationMinutes int       `json:"duration_minutes"`
	Status          Status    `json:"status"`
	Title           string    `json:"title"`

	PatientName       string `json:"patient_name,omitempty"`
	ProfessionalName  string `json:"professional_name,omitempty"`
	ProfessionalColor string `json:"professional_color,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// End returns the exclusive end of the appointment's interval.
func (a *Appointment) End() time.Time {
	return a.Start.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

// Overlaps reports whether two half-open intervals [start, end) intersect.
func (a *Appointment) Overlaps(start, end time.Time) bool {
	return a.Start.Before(end) && start.Before(a.End())
}

// Covers reports whether instant t falls inside [start, start+duration).
func (a *Appointment) Covers(t time.Time) bool {
	return !t.Before(a.Start) && t.Before(a.End())
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday accepts a lowercase English weekday name.
func ParseWeekday(s string) (time.Weekday, error) {
	wd, ok := weekdayNames[strings.ToLower(s)]
	if !ok {
		return 0, fmt.Errorf("invalid weekday %q", s)
	}
	return wd, nil
}
