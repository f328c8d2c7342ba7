// Package engine holds the pure availability rules: slot expiry, the sweep that
// prunes expired slots and empty days, and the two ways of writing a day's slots.
package engine

import (
	"time"

	"rendezvous/pkg/model"
)

// DefaultCutoff is how close to its start an unbooked slot on the current day may get
// before it is withdrawn.
const DefaultCutoff = 5 * time.Hour

type SweepResult struct {
	Days         []model.AvailabilityDay
	DeletedSlots int
	ModifiedDays int
	DeletedDays  int
	Expired      []ExpiredSlot
}

type ExpiredSlot struct {
	Date model.Date
	Time model.TimeOfDay
}

// Changed reports whether the sweep removed anything and the collection needs rewriting.
func (r SweepResult) Changed() bool {
	return r.DeletedSlots > 0 || r.DeletedDays > 0
}

type Lifecycle struct {
	Cutoff time.Duration
}

func NewLifecycle(cutoff time.Duration) Lifecycle {
	if cutoff < 0 {
		cutoff = DefaultCutoff
	}
	return Lifecycle{Cutoff: cutoff}
}

// IsExpired decides whether slot, offered on date, should be withdrawn at now.
// Booked slots never expire.
func (l Lifecycle) IsExpired(slot model.Slot, date model.Date, now time.Time) bool {
	if slot.IsBooked {
		return false
	}

	today := model.DateOf(now)
	if date.Before(today) {
		return true
	}
	if date.Equal(today) {
		minutesUntilSlot := slot.Time.Minutes() - model.TimeOfDayOf(now).Minutes()
		return minutesUntilSlot <= int(l.Cutoff/time.Minute)
	}
	return false
}

// Sweep filters expired slots out of days and drops days left empty.
// The input slice is not modified.
func (l Lifecycle) Sweep(days []model.AvailabilityDay, now time.Time) SweepResult {
	result := SweepResult{Days: make([]model.AvailabilityDay, 0, len(days))}

	for _, day := range days {
		kept := make([]model.Slot, 0, len(day.Slots))
		for _, slot := range day.Slots {
			if l.IsExpired(slot, day.Date, now) {
				result.DeletedSlots++
				result.Expired = append(result.Expired, ExpiredSlot{Date: day.Date, Time: slot.Time})
				continue
			}
			kept = append(kept, slot)
		}

		if len(kept) != len(day.Slots) {
			result.ModifiedDays++
			day.Touch(now)
		}
		if len(kept) == 0 {
			result.DeletedDays++
			continue
		}
		day.Slots = kept
		result.Days = append(result.Days, day)
	}

	return result
}

// Sweep applies the default five-hour cutoff.
func Sweep(days []model.AvailabilityDay, now time.Time) SweepResult {
	return NewLifecycle(DefaultCutoff).Sweep(days, now)
}

// PrunePastDays drops whole days dated strictly before now's date, booked or not.
func PrunePastDays(days []model.AvailabilityDay, now time.Time) ([]model.AvailabilityDay, int) {
	today := model.DateOf(now)
	kept := make([]model.AvailabilityDay, 0, len(days))
	for _, day := range days {
		if day.Date.Before(today) {
			continue
		}
		kept = append(kept, day)
	}
	return kept, len(days) - len(kept)
}
