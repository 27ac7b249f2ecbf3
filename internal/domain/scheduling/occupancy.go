package scheduling

import "time"

// SlotState classifies one slot in an occupancy view.
type SlotState string

const (
	StateFree     SlotState = "free"
	StateOccupied SlotState = "occupied"
	StateBlocked  SlotState = "blocked"
	StatePast     SlotState = "past"
	// StateDead marks week-view cells whose time is not a valid slot of
	// that day's config. It never appears in a day occupancy view.
	StateDead SlotState = "dead"
)

// SlotView is one classified slot. Appointment is set only for occupied
// slots, i.e. the slot an appointment starts on; blocked slots inside a
// running appointment carry no reference.
type SlotView struct {
	Time        time.Time    `json:"time"`
	State       SlotState    `json:"state"`
	Appointment *Appointment `json:"appointment,omitempty"`
}

// IdleGap is a maximal run of consecutive free, non-past slots long enough
// to flag as an underutilized window.
type IdleGap struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	SlotCount int       `json:"slot_count"`
}

// OccupancyView is the derived availability picture for one day.
type OccupancyView struct {
	Slots         []SlotView `json:"slots"`
	OccupancyRate float64    `json:"occupancy_rate"`
	IdleGaps      []IdleGap  `json:"idle_gaps"`
}

// minIdleRun is the shortest free run reported as an idle gap. Fixed at
// three slots regardless of slot duration.
const minIdleRun = 3

// ComputeOccupancy classifies each slot against the appointment set and the
// current time. Rules apply in order, first match wins:
//
//  1. a slot at or before now is past and permanently non-bookable
//  2. a slot an appointment starts on is occupied and carries the
//     appointment
//  3. a slot inside another appointment's interval is blocked
//  4. otherwise the slot is free
//
// Every status occupies its interval; cancelled appointments still hold
// their slots unless the caller filters them out first. The occupancy rate
// is 1 - free/total, so past slots count against availability.
func ComputeOccupancy(slots []time.Time, appointments []*Appointment, now time.Time) OccupancyView {
	view := OccupancyView{Slots: make([]SlotView, 0, len(slots))}
	free := 0

	for _, t := range slots {
		sv := SlotView{Time: t, State: StateFree}
		switch {
		case !t.After(now):
			sv.State = StatePast
		default:
			for _, apt := range appointments {
				if apt.Start.Equal(t) {
					sv.State = StateOccupied
					sv.Appointment = apt
					break
				}
			}
			if sv.State == StateFree {
				for _, apt := range appointments {
					if apt.Covers(t) {
						sv.State = StateBlocked
						break
					}
				}
			}
		}
		if sv.State == StateFree {
			free++
		}
		view.Slots = append(view.Slots, sv)
	}

	if len(slots) > 0 {
		view.OccupancyRate = 1 - float64(free)/float64(len(slots))
	}
	view.IdleGaps = findIdleGaps(view.Slots)
	return view
}

// findIdleGaps scans for maximal runs of at least minIdleRun consecutive
// free slots. Shorter runs are not reported.
func findIdleGaps(slots []SlotView) []IdleGap {
	var gaps []IdleGap
	runStart := -1

	flush := func(end int) {
		if runStart < 0 {
			return
		}
		if count := end - runStart; count >= minIdleRun {
			gaps = append(gaps, IdleGap{
				Start:     slots[runStart].Time,
				End:       slots[end-1].Time,
				SlotCount: count,
			})
		}
		runStart = -1
	}

	for i, sv := range slots {
		if sv.State == StateFree {
			if runStart < 0 {
				runStart = i
			}
			continue
		}
		flush(i)
	}
	flush(len(slots))
	return gaps
}

// FilterCancelled returns the appointments that still hold their slots when
// the caller chooses to hide cancellations. A view-level filter, not a
// scheduling rule.
func FilterCancelled(appointments []*Appointment) []*Appointment {
	out := make([]*Appointment, 0, len(appointments))
	for _, apt := range appointments {
		if apt.Status != StatusCancelled {
			out = append(out, apt)
		}
	}
	return out
}
