package errors

import "errors"

var (
	ErrDateNotFound = errors.New("date has no availability")

	ErrSlotNotFound = errors.New("slot not found")

	ErrSlotAlreadyBooked = errors.New("slot already booked")

	ErrAppointmentNotFound = errors.New("appointment not found")
)
