package engine

import (
	"fmt"
	"testing"
	"time"

	"rendezvous/pkg/model"
)

func sequentialIDs(prefix string) IDFunc {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

func TestMergeSlots_PreservesBookingByTime(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	existing := day("d1", "2025-06-10", slot("A", "09:00", true))

	merged, err := MergeSlots(existing, []model.SlotSpec{{Time: "09:00"}, {Time: "11:00"}}, now, sequentialIDs("new"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(merged.Slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(merged.Slots))
	}
	first, second := merged.Slots[0], merged.Slots[1]
	if first.ID != "A" || !first.IsBooked || first.Time.String() != "09:00" {
		t.Errorf("09:00 slot not preserved: %+v", first)
	}
	if second.ID != "new1" || second.IsBooked || second.Time.String() != "11:00" {
		t.Errorf("11:00 slot not fresh: %+v", second)
	}
	if second.DurationMin != model.DefaultSlotDurationMin {
		t.Errorf("expected default duration, got %d", second.DurationMin)
	}
	if merged.UpdatedAt == nil || !merged.UpdatedAt.Equal(now) {
		t.Errorf("updatedAt not bumped: %v", merged.UpdatedAt)
	}
}

func TestMergeSlots_AdoptsIncomingDuration(t *testing.T) {
	now := time.Now()
	existing := day("d1", "2025-06-10", model.Slot{ID: "A", Time: model.MustParseTimeOfDay("09:00"), DurationMin: 30})

	merged, err := MergeSlots(existing, []model.SlotSpec{{Time: "09:00", DurationMin: 90}}, now, sequentialIDs("n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if merged.Slots[0].DurationMin != 90 {
		t.Errorf("duration = %d, want 90", merged.Slots[0].DurationMin)
	}

	merged, err = MergeSlots(existing, []model.SlotSpec{{Time: "09:00"}}, now, sequentialIDs("n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if merged.Slots[0].DurationMin != model.DefaultSlotDurationMin {
		t.Errorf("absent duration should default to 60, got %d", merged.Slots[0].DurationMin)
	}
}

func TestMergeSlots_DropsOmittedTimesEvenIfBooked(t *testing.T) {
	existing := day("d1", "2025-06-10", slot("A", "09:00", true), slot("B", "10:00", false))

	merged, err := MergeSlots(existing, []model.SlotSpec{{Time: "10:00"}}, time.Now(), sequentialIDs("n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(merged.Slots) != 1 || merged.Slots[0].ID != "B" {
		t.Errorf("expected only slot B, got %+v", merged.Slots)
	}
}

func TestMergeSlots_RejectsBadTime(t *testing.T) {
	existing := day("d1", "2025-06-10", slot("A", "09:00", false))

	if _, err := MergeSlots(existing, []model.SlotSpec{{Time: "9h"}}, time.Now(), sequentialIDs("n")); err == nil {
		t.Fatal("expected error for malformed time")
	}
}

func TestCreateOrAppend_NewDay(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	days, entry, err := CreateOrAppend(nil, model.MustParseDate("2025-06-10"),
		[]model.SlotSpec{{Time: "09:00"}, {Time: "10:00", DurationMin: 30}}, now, sequentialIDs("id"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(days) != 1 {
		t.Fatalf("expected one day, got %d", len(days))
	}
	if days[0].ID != entry.ID || len(entry.Slots) != 2 {
		t.Errorf("unexpected entry: %+v", entry)
	}
	for _, s := range entry.Slots {
		if s.IsBooked {
			t.Errorf("fresh slot %s is booked", s.ID)
		}
	}
	if entry.Slots[1].DurationMin != 30 {
		t.Errorf("duration = %d, want 30", entry.Slots[1].DurationMin)
	}
}

func TestCreateOrAppend_AppendsWithoutDedup(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	existing := []model.AvailabilityDay{day("d1", "2025-06-10", slot("A", "09:00", true))}

	days, entry, err := CreateOrAppend(existing, model.MustParseDate("2025-06-10"),
		[]model.SlotSpec{{Time: "09:00"}, {Time: "11:00"}}, now, sequentialIDs("id"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.ID != "d1" {
		t.Errorf("entry id = %q, want the stored day id d1", entry.ID)
	}
	if len(entry.Slots) != 2 || entry.Slots[0].ID != days[0].Slots[1].ID {
		t.Errorf("entry should hold only the appended slots: %+v", entry.Slots)
	}

	if len(days) != 1 {
		t.Fatalf("expected the day to be reused, got %d days", len(days))
	}
	got := days[0]
	if got.ID != "d1" || len(got.Slots) != 3 {
		t.Fatalf("expected 3 slots on d1, got %+v", got)
	}
	if got.Slots[0].ID != "A" || !got.Slots[0].IsBooked {
		t.Errorf("existing slot changed: %+v", got.Slots[0])
	}
	if got.Slots[1].Time.String() != "09:00" || got.Slots[1].IsBooked {
		t.Errorf("appended duplicate time should be a fresh free slot: %+v", got.Slots[1])
	}
	if got.UpdatedAt == nil {
		t.Error("expected updatedAt on append")
	}
	if len(existing[0].Slots) != 1 {
		t.Error("input collection must not be modified")
	}
}
