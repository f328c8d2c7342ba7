package engine

import (
	"time"

	"rendezvous/pkg/model"
)

// IDFunc generates identifiers for new days and slots.
type IDFunc func() string

// MergeSlots replaces day's slot list with incoming, keyed by time of day.
// A slot whose time already exists keeps its id and booking state and takes the
// incoming duration. Existing slots whose time is absent from incoming are dropped,
// booked or not; callers must resend every time they want to keep.
func MergeSlots(day model.AvailabilityDay, incoming []model.SlotSpec, now time.Time, newID IDFunc) (model.AvailabilityDay, error) {
	byTime := make(map[model.TimeOfDay]model.Slot, len(day.Slots))
	for _, s := range day.Slots {
		byTime[s.Time] = s
	}

	merged := make([]model.Slot, 0, len(incoming))
	for _, spec := range incoming {
		t, err := model.ParseTimeOfDay(spec.Time)
		if err != nil {
			return day, err
		}
		slot := model.Slot{
			Time:        t,
			DurationMin: durationOrDefault(spec.DurationMin),
		}
		if existing, ok := byTime[t]; ok {
			slot.ID = existing.ID
			slot.IsBooked = existing.IsBooked
		} else {
			slot.ID = newID()
		}
		merged = append(merged, slot)
	}

	day.Slots = merged
	day.Touch(now)
	return day, nil
}

// CreateOrAppend adds fresh slots for date. A missing day is created; an existing day
// gets the new slots appended as-is, without matching on time.
// It returns the updated collection and the entry describing what was added.
func CreateOrAppend(days []model.AvailabilityDay, date model.Date, specs []model.SlotSpec, now time.Time, newID IDFunc) ([]model.AvailabilityDay, model.AvailabilityDay, error) {
	fresh, err := freshSlots(specs, newID)
	if err != nil {
		return days, model.AvailabilityDay{}, err
	}

	out := make([]model.AvailabilityDay, len(days))
	copy(out, days)

	if i := model.FindDayByDate(out, date); i >= 0 {
		existing := out[i]
		slots := make([]model.Slot, 0, len(existing.Slots)+len(fresh))
		slots = append(slots, existing.Slots...)
		slots = append(slots, fresh...)
		existing.Slots = slots
		existing.Touch(now)
		out[i] = existing

		// The entry names the stored day so its id can be used for later merges.
		entry := existing
		entry.Slots = fresh
		return out, entry, nil
	}

	entry := model.AvailabilityDay{
		ID:        newID(),
		Date:      date,
		Slots:     fresh,
		CreatedAt: now.UTC(),
	}
	return append(out, entry), entry, nil
}

func freshSlots(specs []model.SlotSpec, newID IDFunc) ([]model.Slot, error) {
	slots := make([]model.Slot, 0, len(specs))
	for _, spec := range specs {
		t, err := model.ParseTimeOfDay(spec.Time)
		if err != nil {
			return nil, err
		}
		slots = append(slots, model.Slot{
			ID:          newID(),
			Time:        t,
			DurationMin: durationOrDefault(spec.DurationMin),
		})
	}
	return slots, nil
}

func durationOrDefault(minutes int) int {
	if minutes <= 0 {
		return model.DefaultSlotDurationMin
	}
	return minutes
}
