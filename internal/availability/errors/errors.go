package errors

import "errors"

var (
	ErrDayNotFound = errors.New("availability day not found")

	ErrInvalidDateRange = errors.New("start date must not be after end date")
)
