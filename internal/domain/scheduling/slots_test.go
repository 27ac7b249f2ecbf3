package scheduling

import (
	"testing"
	"time"
)

func mondayConfig(t *testing.T) DayConfig {
	t.Helper()
	return DayConfig{
		Active:      true,
		Start:       mustTime(t, "08:00"),
		End:         mustTime(t, "18:00"),
		LunchStart:  todPtr(mustTime(t, "12:00")),
		LunchEnd:    todPtr(mustTime(t, "13:00")),
		SlotMinutes: 30,
	}
}

func TestSlotTimes_FullDayWithLunch(t *testing.T) {
	// 08:00-18:00 at 30 minutes with lunch 12:00-13:00 yields 18 slots:
	// 08:00..11:30 (8) and 13:00..17:30 (10). The two lunch times are
	// skipped, not compressed out.
	times := mondayConfig(t).SlotTimes()

	if len(times) != 18 {
		t.Fatalf("expected 18 slots, got %d", len(times))
	}
	if times[0] != mustTime(t, "08:00") {
		t.Errorf("first slot: expected 08:00, got %s", times[0])
	}
	if times[7] != mustTime(t, "11:30") {
		t.Errorf("slot before lunch: expected 11:30, got %s", times[7])
	}
	if times[8] != mustTime(t, "13:00") {
		t.Errorf("slot after lunch: expected 13:00, got %s", times[8])
	}
	if times[len(times)-1] != mustTime(t, "17:30") {
		t.Errorf("last slot: expected 17:30, got %s", times[len(times)-1])
	}
	for _, tod := range times {
		if tod >= mustTime(t, "12:00") && tod < mustTime(t, "13:00") {
			t.Errorf("slot %s falls inside the lunch window", tod)
		}
	}
}

func TestSlotTimes_StrictlyIncreasingAndSpaced(t *testing.T) {
	cfg := mondayConfig(t)
	times := cfg.SlotTimes()
	for i := 1; i < len(times); i++ {
		if times[i] <= times[i-1] {
			t.Fatalf("slots not strictly increasing at %d: %s <= %s", i, times[i], times[i-1])
		}
		gap := times[i].Minutes() - times[i-1].Minutes()
		if gap%cfg.SlotMinutes != 0 {
			t.Errorf("gap between %s and %s is not a multiple of the slot length", times[i-1], times[i])
		}
	}
}

func TestSlotTimes_InactiveDay(t *testing.T) {
	cfg := mondayConfig(t)
	cfg.Active = false
	if times := cfg.SlotTimes(); len(times) != 0 {
		t.Errorf("expected no slots for inactive day, got %d", len(times))
	}
}

func TestSlotTimes_BoundsRespected(t *testing.T) {
	cfg := mondayConfig(t)
	for _, tod := range cfg.SlotTimes() {
		if tod < cfg.Start || tod >= cfg.End {
			t.Errorf("slot %s outside [%s, %s)", tod, cfg.Start, cfg.End)
		}
	}
}

func TestSlotTimes_EndExclusive(t *testing.T) {
	cfg := DayConfig{Active: true, Start: mustTime(t, "08:00"), End: mustTime(t, "09:00"), SlotMinutes: 30}
	times := cfg.SlotTimes()
	if len(times) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(times))
	}
	if times[1] != mustTime(t, "08:30") {
		t.Errorf("expected last slot 08:30, got %s", times[1])
	}
}

func TestSlotTimes_ZeroSlotMinutes(t *testing.T) {
	cfg := DayConfig{Active: true, Start: mustTime(t, "08:00"), End: mustTime(t, "09:00")}
	if times := cfg.SlotTimes(); times != nil {
		t.Errorf("expected no slots for zero slot duration, got %v", times)
	}
}

func TestIsSlot(t *testing.T) {
	cfg := mondayConfig(t)
	tests := []struct {
		in   string
		want bool
	}{
		{"08:00", true},
		{"08:30", true},
		{"17:30", true},
		{"18:00", false}, // end exclusive
		{"07:30", false}, // before start
		{"12:00", false}, // lunch
		{"12:30", false}, // lunch
		{"13:00", true},  // first slot after lunch
		{"08:15", false}, // off-grid
	}
	for _, tt := range tests {
		if got := cfg.IsSlot(mustTime(t, tt.in)); got != tt.want {
			t.Errorf("IsSlot(%s) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestGenerateSlots_AnchorsOnDate(t *testing.T) {
	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	slots := GenerateSlots(date, mondayConfig(t))
	if len(slots) != 18 {
		t.Fatalf("expected 18 slots, got %d", len(slots))
	}
	want := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	if !slots[0].Equal(want) {
		t.Errorf("first slot: expected %v, got %v", want, slots[0])
	}
}

func TestUnionSlotTimes(t *testing.T) {
	a := DayConfig{Active: true, Start: mustTime(t, "08:00"), End: mustTime(t, "10:00"), SlotMinutes: 60}
	b := DayConfig{Active: true, Start: mustTime(t, "08:30"), End: mustTime(t, "10:00"), SlotMinutes: 30}

	union := UnionSlotTimes(a, b)
	want := []string{"08:00", "08:30", "09:00", "09:30"}
	if len(union) != len(want) {
		t.Fatalf("expected %d times, got %d (%v)", len(want), len(union), union)
	}
	for i, s := range want {
		if union[i] != mustTime(t, s) {
			t.Errorf("union[%d]: expected %s, got %s", i, s, union[i])
		}
	}
}
