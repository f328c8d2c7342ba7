package model

import "time"

const DefaultSlotDurationMin = 60

type Slot struct {
	ID          string    `json:"id"`
	Time        TimeOfDay `json:"time"`
	DurationMin int       `json:"duration"`
	IsBooked    bool      `json:"isBooked"`
}

// SlotSpec is the caller-supplied shape of a slot when creating or replacing availability.
type SlotSpec struct {
	Time        string `json:"time" validate:"required,time_of_day"`
	DurationMin int    `json:"duration,omitempty" validate:"omitempty,min=1,max=1440"`
}

type AvailabilityDay struct {
	ID        string     `json:"id"`
	Date      Date       `json:"date"`
	Slots     []Slot     `json:"slots"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

type AvailabilityCreate struct {
	Date  string     `json:"date" validate:"required,datetime=2006-01-02"`
	Slots []SlotSpec `json:"slots" validate:"required,min=1,dive"`
}

type AvailabilitySlotsUpdate struct {
	Slots []SlotSpec `json:"slots" validate:"required,dive"`
}

func (d *AvailabilityDay) Touch(now time.Time) {
	t := now.UTC()
	d.UpdatedAt = &t
}

func (d *AvailabilityDay) SlotIndex(slotID string) int {
	for i := range d.Slots {
		if d.Slots[i].ID == slotID {
			return i
		}
	}
	return -1
}

func FindDayByDate(days []AvailabilityDay, date Date) int {
	for i := range days {
		if days[i].Date.Equal(date) {
			return i
		}
	}
	return -1
}

func FindDayByID(days []AvailabilityDay, id string) int {
	for i := range days {
		if days[i].ID == id {
			return i
		}
	}
	return -1
}
