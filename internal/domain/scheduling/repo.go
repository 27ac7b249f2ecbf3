package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ScheduleConfigRepository stores the clinic's weekly hours and the
// per-professional override rows.
type ScheduleConfigRepository interface {
	// ClinicSchedule returns the clinic default. Weekdays without a stored
	// row come back inactive.
	ClinicSchedule(ctx context.Context, clinicID uuid.UUID) (*WeeklySchedule, error)
	SaveClinicDay(ctx context.Context, clinicID uuid.UUID, weekday time.Weekday, hours DayHours) error
	SaveClinicSlotMinutes(ctx context.Context, clinicID uuid.UUID, minutes int) error

	// ProfessionalOverrides returns every override row for the given
	// professionals. An empty professional list returns all rows.
	ProfessionalOverrides(ctx context.Context, professionalIDs []uuid.UUID) ([]OverrideRow, error)
	SaveProfessionalDay(ctx context.Context, row OverrideRow) error
	DeleteProfessionalDay(ctx context.Context, professionalID uuid.UUID, weekday time.Weekday) error
}

// AppointmentRepository stores appointments. List methods join patient and
// professional display fields onto each row.
type AppointmentRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	// ListRange returns appointments starting in [from, to), optionally
	// restricted to one professional, ordered by start time.
	ListRange(ctx context.Context, from, to time.Time, professionalID *uuid.UUID) ([]*Appointment, error)
	// ListOverlapping returns the professional's non-cancelled appointments
	// whose interval intersects [start, end).
	ListOverlapping(ctx context.Context, professionalID uuid.UUID, start, end time.Time) ([]*Appointment, error)
	Insert(ctx context.Context, apt *Appointment) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
}
