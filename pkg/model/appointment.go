package model

import "time"

const (
	StatusConfirmed = "confirmed"

	DefaultService = "unspecified"
)

// Appointment carries a copy of the slot schedule as agreed at booking time.
// It is never re-synced when the slot is later edited.
type Appointment struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address"`
	Service     string    `json:"service"`
	Notes       string    `json:"notes"`
	Date        Date      `json:"date"`
	SlotID      string    `json:"slotId"`
	Time        TimeOfDay `json:"time"`
	DurationMin int       `json:"duration"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

type BookingRequest struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,max=254"`
	Phone     string `json:"phone" validate:"required,max=32"`
	Address   string `json:"address,omitempty" validate:"omitempty,max=300"`
	Service   string `json:"service,omitempty" validate:"omitempty,max=100"`
	Notes     string `json:"notes,omitempty" validate:"omitempty,max=2000"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	SlotID    string `json:"slotId" validate:"required"`
}

func FindAppointment(appointments []Appointment, id string) int {
	for i := range appointments {
		if appointments[i].ID == id {
			return i
		}
	}
	return -1
}
