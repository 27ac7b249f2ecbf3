package scheduling

import (
	"sort"
	"time"
)

// SlotTimes derives the bookable times of day for a resolved config.
//
// The cursor starts at Start and advances by SlotMinutes until it reaches
// End (exclusive). Times inside the lunch window [LunchStart, LunchEnd) are
// skipped but the cursor still advances: lunch is a dead zone in the grid,
// not compressed out. The result is strictly increasing and duplicate free;
// inactive days and non-positive slot durations yield nothing.
func (c DayConfig) SlotTimes() []TimeOfDay {
	if !c.Active || c.SlotMinutes <= 0 {
		return nil
	}
	var out []TimeOfDay
	for t := c.Start; t < c.End; t += TimeOfDay(c.SlotMinutes) {
		if c.inLunch(t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func (c DayConfig) inLunch(t TimeOfDay) bool {
	return c.LunchStart != nil && t >= *c.LunchStart && t < *c.LunchEnd
}

// IsSlot reports whether t is one of the config's bookable times.
func (c DayConfig) IsSlot(t TimeOfDay) bool {
	if !c.Active || c.SlotMinutes <= 0 {
		return false
	}
	if t < c.Start || t >= c.End || c.inLunch(t) {
		return false
	}
	return (t-c.Start)%TimeOfDay(c.SlotMinutes) == 0
}

// GenerateSlots anchors the config's slot times on a calendar date.
func GenerateSlots(date time.Time, c DayConfig) []time.Time {
	times := c.SlotTimes()
	out := make([]time.Time, 0, len(times))
	for _, t := range times {
		out = append(out, t.At(date))
	}
	return out
}

// UnionSlotTimes merges several configs' slot times into one sorted,
// deduplicated row axis. Used by the week view, where each day may run on a
// different grid; membership of a time in a specific day is always
// re-checked against that day's own config.
func UnionSlotTimes(configs ...DayConfig) []TimeOfDay {
	seen := make(map[TimeOfDay]bool)
	var out []TimeOfDay
	for _, c := range configs {
		for _, t := range c.SlotTimes() {
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
