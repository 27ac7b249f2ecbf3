package scheduling

import (
	"sort"
	"time"
)

// WeekStart selects which weekday begins calendar rows.
type WeekStart string

const (
	WeekStartMonday WeekStart = "monday"
	WeekStartSunday WeekStart = "sunday"
)

func (w WeekStart) weekday() time.Weekday {
	if w == WeekStartSunday {
		return time.Sunday
	}
	return time.Monday
}

// startOfWeek returns the most recent week-start day at or before date.
func (w WeekStart) startOfWeek(date time.Time) time.Time {
	d := dateOnly(date)
	offset := (int(d.Weekday()) - int(w.weekday()) + 7) % 7
	return d.AddDate(0, 0, -offset)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// AppointmentSummary is the compact form rendered in month cells.
type AppointmentSummary struct {
	ID                string `json:"id"`
	Time              string `json:"time"`
	Title             string `json:"title"`
	PatientName       string `json:"patient_name,omitempty"`
	ProfessionalColor string `json:"professional_color,omitempty"`
	Status            Status `json:"status"`
}

// maxMonthSummaries is how many appointments a month cell lists before
// collapsing the rest into an overflow count.
const maxMonthSummaries = 2

// MonthCell is one day square in the month grid.
type MonthCell struct {
	Date          time.Time            `json:"date"`
	InMonth       bool                 `json:"in_month"`
	Today         bool                 `json:"today"`
	Selected      bool                 `json:"selected"`
	Free          bool                 `json:"free"`
	Appointments  []AppointmentSummary `json:"appointments"`
	OverflowCount int                  `json:"overflow_count"`
}

// MonthGrid is the month view: full weeks covering the month, including
// leading and trailing days from adjacent months.
type MonthGrid struct {
	Year  int           `json:"year"`
	Month time.Month    `json:"month"`
	Weeks [][7]MonthCell `json:"weeks"`
}

// MonthRange returns the half-open date range [from, to) the month grid
// covers, including the leading and trailing days that fill full weeks.
func MonthRange(year int, month time.Month, weekStart WeekStart, loc *time.Location) (time.Time, time.Time) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	last := first.AddDate(0, 1, -1)
	from := weekStart.startOfWeek(first)
	to := weekStart.startOfWeek(last).AddDate(0, 0, 7)
	return from, to
}

// ComposeMonth lays out the month containing (year, month) as full weeks.
// Each in-month day with no appointments is tagged free; days with more
// than two appointments collapse the remainder into an overflow count.
func ComposeMonth(year int, month time.Month, weekStart WeekStart, selected time.Time, appointments []*Appointment, now time.Time) MonthGrid {
	cursor, end := MonthRange(year, month, weekStart, now.Location())

	byDay := make(map[string][]*Appointment)
	for _, apt := range appointments {
		key := apt.Start.Format("2006-01-02")
		byDay[key] = append(byDay[key], apt)
	}
	for _, day := range byDay {
		sort.Slice(day, func(i, j int) bool { return day[i].Start.Before(day[j].Start) })
	}

	grid := MonthGrid{Year: year, Month: month}
	for cursor.Before(end) {
		var week [7]MonthCell
		for i := 0; i < 7; i++ {
			day := byDay[cursor.Format("2006-01-02")]
			cell := MonthCell{
				Date:     cursor,
				InMonth:  cursor.Month() == month,
				Today:    sameDay(cursor, now),
				Selected: !selected.IsZero() && sameDay(cursor, selected),
			}
			cell.Free = cell.InMonth && len(day) == 0
			for _, apt := range day {
				if len(cell.Appointments) == maxMonthSummaries {
					cell.OverflowCount = len(day) - maxMonthSummaries
					break
				}
				cell.Appointments = append(cell.Appointments, AppointmentSummary{
					ID:                apt.ID.String(),
					Time:              apt.Start.Format("15:04"),
					Title:             apt.Title,
					PatientName:       apt.PatientName,
					ProfessionalColor: apt.ProfessionalColor,
					Status:            apt.Status,
				})
			}
			week[i] = cell
			cursor = cursor.AddDate(0, 0, 1)
		}
		grid.Weeks = append(grid.Weeks, week)
	}
	return grid
}

// WeekDayPlan is one day's input to the week composer: the date plus the
// effective config of every professional in scope for that weekday.
type WeekDayPlan struct {
	Date    time.Time
	Configs []DayConfig
}

// Active reports whether any professional in scope works that day.
func (p WeekDayPlan) Active() bool {
	for _, c := range p.Configs {
		if c.Active {
			return true
		}
	}
	return false
}

// WeekColumn describes one weekday column. Inactive columns render dead
// with no bookable cells.
type WeekColumn struct {
	Date    time.Time    `json:"date"`
	Weekday time.Weekday `json:"weekday"`
	Active  bool         `json:"active"`
}

// WeekCell is one (time, day) intersection. Dead cells are times that exist
// on the row axis but are not a valid slot of that day's own config; Label
// distinguishes a lunch window from closed hours.
type WeekCell struct {
	State       SlotState    `json:"state"`
	Label       string       `json:"label,omitempty"`
	Appointment *Appointment `json:"appointment,omitempty"`
}

// WeekGrid is the week view. Rows is the union of all distinct slot times
// across the active days in scope; Cells is indexed [row][column].
type WeekGrid struct {
	Columns []WeekColumn `json:"columns"`
	Rows    []TimeOfDay  `json:"rows"`
	Cells   [][]WeekCell `json:"cells"`
}

// ComposeWeek builds the union-of-times grid. The union is a presentation
// axis only: whether a row time is bookable on a given day is always decided
// by that day's own configs, never by membership in the union.
func ComposeWeek(days []WeekDayPlan, appointments []*Appointment, now time.Time) WeekGrid {
	grid := WeekGrid{}

	var allConfigs []DayConfig
	for _, p := range days {
		grid.Columns = append(grid.Columns, WeekColumn{
			Date:    dateOnly(p.Date),
			Weekday: p.Date.Weekday(),
			Active:  p.Active(),
		})
		if p.Active() {
			allConfigs = append(allConfigs, p.Configs...)
		}
	}
	grid.Rows = UnionSlotTimes(allConfigs...)

	grid.Cells = make([][]WeekCell, len(grid.Rows))
	for ri, rowTime := range grid.Rows {
		grid.Cells[ri] = make([]WeekCell, len(days))
		for ci, p := range days {
			grid.Cells[ri][ci] = composeWeekCell(p, rowTime, appointments, now)
		}
	}
	return grid
}

func composeWeekCell(p WeekDayPlan, rowTime TimeOfDay, appointments []*Appointment, now time.Time) WeekCell {
	valid := false
	lunch := false
	for _, c := range p.Configs {
		if c.IsSlot(rowTime) {
			valid = true
			break
		}
		if c.Active && c.inLunch(rowTime) {
			lunch = true
		}
	}
	if !valid {
		label := "closed"
		if lunch {
			label = "lunch"
		}
		return WeekCell{State: StateDead, Label: label}
	}

	// Past wins over occupancy, as in the day view: a past cell never
	// carries an appointment reference.
	t := rowTime.At(p.Date)
	if !t.After(now) {
		return WeekCell{State: StatePast}
	}
	if apt := appointmentStartingAt(appointments, t); apt != nil {
		return WeekCell{State: StateOccupied, Appointment: apt}
	}
	for _, apt := range appointments {
		if apt.Covers(t) {
			return WeekCell{State: StateBlocked}
		}
	}
	return WeekCell{State: StateFree}
}

func appointmentStartingAt(appointments []*Appointment, t time.Time) *Appointment {
	for _, apt := range appointments {
		if apt.Start.Equal(t) {
			return apt
		}
	}
	return nil
}

// DayList is the single-day view: every slot classified, plus the
// aggregate occupancy rate and idle-gap banner data.
type DayList struct {
	Date time.Time `json:"date"`
	OccupancyView
}

// ComposeDay classifies one day's slots for the day view.
func ComposeDay(date time.Time, cfg DayConfig, appointments []*Appointment, now time.Time) DayList {
	slots := GenerateSlots(date, cfg)
	return DayList{
		Date:          dateOnly(date),
		OccupancyView: ComputeOccupancy(slots, appointments, now),
	}
}
