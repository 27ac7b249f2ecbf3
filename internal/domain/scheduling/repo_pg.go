package scheduling

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// =========== Schedule Config Repository ===========

type configRepoPG struct{ pool *pgxpool.Pool }

func NewConfigRepoPG(pool *pgxpool.Pool) ScheduleConfigRepository { return &configRepoPG{pool: pool} }

func (r *configRepoPG) conn(ctx context.Context) queryable { return r.pool }

func (r *configRepoPG) ClinicSchedule(ctx context.Context, clinicID uuid.UUID) (*WeeklySchedule, error) {
	ws := &WeeklySchedule{ClinicID: clinicID, SlotMinutes: 30}

	err := r.conn(ctx).QueryRow(ctx,
		`SELECT slot_minutes FROM clinic_settings WHERE clinic_id = $1`, clinicID).
		Scan(&ws.SlotMinutes)
	if err != nil && err != pgx.ErrNoRows {
		return nil, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT weekday, active, start_minutes, end_minutes, lunch_start_minutes, lunch_end_minutes
		FROM clinic_hours WHERE clinic_id = $1`, clinicID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var weekday int
		var day DayHours
		var lunchStart, lunchEnd *int
		if err := rows.Scan(&weekday, &day.Active, &day.Start, &day.End, &lunchStart, &lunchEnd); err != nil {
			return nil, err
		}
		if lunchStart != nil && lunchEnd != nil {
			ls, le := TimeOfDay(*lunchStart), TimeOfDay(*lunchEnd)
			day.LunchStart, day.LunchEnd = &ls, &le
		}
		if weekday >= 0 && weekday < 7 {
			ws.Days[weekday] = day
		}
	}
	return ws, rows.Err()
}

func (r *configRepoPG) SaveClinicDay(ctx context.Context, clinicID uuid.UUID, weekday time.Weekday, hours DayHours) error {
	var lunchStart, lunchEnd *int
	if hours.LunchStart != nil {
		ls, le := hours.LunchStart.Minutes(), hours.LunchEnd.Minutes()
		lunchStart, lunchEnd = &ls, &le
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO clinic_hours (clinic_id, weekday, active, start_minutes, end_minutes, lunch_start_minutes, lunch_end_minutes)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (clinic_id, weekday) DO UPDATE SET
			active = EXCLUDED.active,
			start_minutes = EXCLUDED.start_minutes,
			end_minutes = EXCLUDED.end_minutes,
			lunch_start_minutes = EXCLUDED.lunch_start_minutes,
			lunch_end_minutes = EXCLUDED.lunch_end_minutes,
			updated_at = NOW()`,
		clinicID, int(weekday), hours.Active, hours.Start.Minutes(), hours.End.Minutes(), lunchStart, lunchEnd)
	return err
}

func (r *configRepoPG) SaveClinicSlotMinutes(ctx context.Context, clinicID uuid.UUID, minutes int) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO clinic_settings (clinic_id, slot_minutes)
		VALUES ($1,$2)
		ON CONFLICT (clinic_id) DO UPDATE SET slot_minutes = EXCLUDED.slot_minutes, updated_at = NOW()`,
		clinicID, minutes)
	return err
}

func (r *configRepoPG) ProfessionalOverrides(ctx context.Context, professionalIDs []uuid.UUID) ([]OverrideRow, error) {
	query := `
		SELECT professional_id, weekday, active, start_minutes, end_minutes,
			lunch_start_minutes, lunch_end_minutes, slot_minutes
		FROM professional_hours`
	var args []interface{}
	if len(professionalIDs) > 0 {
		query += ` WHERE professional_id = ANY($1)`
		args = append(args, professionalIDs)
	}
	query += ` ORDER BY professional_id, weekday`

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OverrideRow
	for rows.Next() {
		var row OverrideRow
		var weekday int
		var lunchStart, lunchEnd *int
		if err := rows.Scan(&row.ProfessionalID, &weekday, &row.Hours.Active, &row.Hours.Start,
			&row.Hours.End, &lunchStart, &lunchEnd, &row.SlotMinutes); err != nil {
			return nil, err
		}
		row.Weekday = time.Weekday(weekday)
		if lunchStart != nil && lunchEnd != nil {
			ls, le := TimeOfDay(*lunchStart), TimeOfDay(*lunchEnd)
			row.Hours.LunchStart, row.Hours.LunchEnd = &ls, &le
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *configRepoPG) SaveProfessionalDay(ctx context.Context, row OverrideRow) error {
	var lunchStart, lunchEnd *int
	if row.Hours.LunchStart != nil {
		ls, le := row.Hours.LunchStart.Minutes(), row.Hours.LunchEnd.Minutes()
		lunchStart, lunchEnd = &ls, &le
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO professional_hours (professional_id, weekday, active, start_minutes, end_minutes,
			lunch_start_minutes, lunch_end_minutes, slot_minutes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (professional_id, weekday) DO UPDATE SET
			active = EXCLUDED.active,
			start_minutes = EXCLUDED.start_minutes,
			end_minutes = EXCLUDED.end_minutes,
			lunch_start_minutes = EXCLUDED.lunch_start_minutes,
			lunch_end_minutes = EXCLUDED.lunch_end_minutes,
			slot_minutes = EXCLUDED.slot_minutes,
			updated_at = NOW()`,
		row.ProfessionalID, int(row.Weekday), row.Hours.Active, row.Hours.Start.Minutes(),
		row.Hours.End.Minutes(), lunchStart, lunchEnd, row.SlotMinutes)
	return err
}

func (r *configRepoPG) DeleteProfessionalDay(ctx context.Context, professionalID uuid.UUID, weekday time.Weekday) error {
	_, err := r.conn(ctx).Exec(ctx,
		`DELETE FROM professional_hours WHERE professional_id = $1 AND weekday = $2`,
		professionalID, int(weekday))
	return err
}

// =========== Appointment Repository ===========

type appointmentRepoPG struct{ pool *pgxpool.Pool }

func NewAppointmentRepoPG(pool *pgxpool.Pool) AppointmentRepository {
	return &appointmentRepoPG{pool: pool}
}

func (r *appointmentRepoPG) conn(ctx context.Context) queryable { return r.pool }

const aptCols = `a.id, a.patient_id, a.professional_id, a.start_at, a.duration_minutes,
	a.status, a.title, p.full_name, pr.name, pr.color, a.created_at, a.updated_at`

const aptJoins = `
	FROM appointments a
	JOIN patients p ON p.id = a.patient_id
	JOIN professionals pr ON pr.id = a.professional_id`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.PatientID, &a.ProfessionalID, &a.Start, &a.DurationMinutes,
		&a.Status, &a.Title, &a.PatientName, &a.ProfessionalName, &a.ProfessionalColor,
		&a.CreatedAt, &a.UpdatedAt)
	return &a, err
}

func (r *appointmentRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	apt, err := scanAppointment(r.conn(ctx).QueryRow(ctx,
		`SELECT `+aptCols+aptJoins+` WHERE a.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return apt, nil
}

func (r *appointmentRepoPG) ListRange(ctx context.Context, from, to time.Time, professionalID *uuid.UUID) ([]*Appointment, error) {
	query := `SELECT ` + aptCols + aptJoins + ` WHERE a.start_at >= $1 AND a.start_at < $2`
	args := []interface{}{from, to}
	if professionalID != nil {
		query += ` AND a.professional_id = $3`
		args = append(args, *professionalID)
	}
	query += ` ORDER BY a.start_at`

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *appointmentRepoPG) ListOverlapping(ctx context.Context, professionalID uuid.UUID, start, end time.Time) ([]*Appointment, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+aptCols+aptJoins+`
		WHERE a.professional_id = $1
			AND a.status <> 'cancelled'
			AND a.start_at < $3
			AND a.start_at + make_interval(mins => a.duration_minutes) > $2
		ORDER BY a.start_at`,
		professionalID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *appointmentRepoPG) Insert(ctx context.Context, apt *Appointment) error {
	if apt.ID == uuid.Nil {
		apt.ID = uuid.New()
	}
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO appointments (id, patient_id, professional_id, start_at, duration_minutes, status, title)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at, updated_at`,
		apt.ID, apt.PatientID, apt.ProfessionalID, apt.Start, apt.DurationMinutes, apt.Status, apt.Title).
		Scan(&apt.CreatedAt, &apt.UpdatedAt)
}

func (r *appointmentRepoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE appointments SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
