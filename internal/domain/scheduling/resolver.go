package scheduling

import (
	"time"

	"github.com/google/uuid"
)

// ResolveDayConfig produces the effective schedule for one weekday.
//
// A professional with any override rows is scheduled entirely by those rows:
// the row for the target weekday replaces the clinic default wholesale,
// including its active flag and slot duration. There is no field-level merge.
// A professional whose rows do not cover the target weekday is closed that
// day. Without a professional, or for a professional with no rows, the
// clinic default applies.
func ResolveDayConfig(clinic *WeeklySchedule, overrides []OverrideRow, weekday time.Weekday, professionalID *uuid.UUID) DayConfig {
	if professionalID != nil {
		hasRows := false
		for _, row := range overrides {
			if row.ProfessionalID != *professionalID {
				continue
			}
			hasRows = true
			if row.Weekday == weekday {
				return DayConfig{
					Active:      row.Hours.Active,
					Start:       row.Hours.Start,
					End:         row.Hours.End,
					LunchStart:  row.Hours.LunchStart,
					LunchEnd:    row.Hours.LunchEnd,
					SlotMinutes: row.SlotMinutes,
				}
			}
		}
		if hasRows {
			return DayConfig{Active: false, SlotMinutes: clinic.SlotMinutes}
		}
	}

	day := clinic.Days[weekday]
	return DayConfig{
		Active:      day.Active,
		Start:       day.Start,
		End:         day.End,
		LunchStart:  day.LunchStart,
		LunchEnd:    day.LunchEnd,
		SlotMinutes: clinic.SlotMinutes,
	}
}
