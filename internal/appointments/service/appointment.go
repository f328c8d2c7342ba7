package service

import (
	"context"
	"errors"
	"strings"
	"time"

	appointmentserrors "rendezvous/internal/appointments/errors"
	"rendezvous/internal/appointments/validator"
	"rendezvous/pkg/config"
	apperrors "rendezvous/pkg/errors"
	"rendezvous/pkg/metrics"
	"rendezvous/pkg/model"
	"rendezvous/pkg/sanitizer"
	"rendezvous/pkg/store"

	"github.com/google/uuid"
)

type Store interface {
	UpdateDays(ctx context.Context, fn func([]model.AvailabilityDay) ([]model.AvailabilityDay, error)) error
	Appointments(ctx context.Context) ([]model.Appointment, error)
	UpdateAppointments(ctx context.Context, fn func([]model.Appointment) ([]model.Appointment, error)) error
	Settings(ctx context.Context) (model.Settings, error)
}

// Notifier is told about completed bookings and cancellations. It must not block.
type Notifier interface {
	NotifyConfirmed(ctx context.Context, appt model.Appointment, settings model.Settings)
	NotifyCancelled(ctx context.Context, appt model.Appointment, settings model.Settings)
}

type AppointmentService interface {
	List(ctx context.Context) ([]model.Appointment, error)
	Book(ctx context.Context, req *model.BookingRequest) (*model.Appointment, error)
	Cancel(ctx context.Context, id string) error
}

type appointmentService struct {
	store     Store
	validator *validator.AppointmentValidator
	notifier  Notifier
	cfg       *config.Config
	now       func() time.Time
	newID     func() string
}

func NewAppointmentService(
	store Store,
	validator *validator.AppointmentValidator,
	notifier Notifier,
	cfg *config.Config,
) AppointmentService {
	return &appointmentService{
		store:     store,
		validator: validator,
		notifier:  notifier,
		cfg:       cfg,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

func (s *appointmentService) List(ctx context.Context) ([]model.Appointment, error) {
	appointments, err := s.store.Appointments(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list appointments", "error", err)
		return nil, apperrors.Internal("Failed to retrieve appointments", err)
	}
	return appointments, nil
}

// Book reserves the slot and records the appointment. The slot flip is written
// first; if the appointment write then fails the flip is reverted, and a failed
// revert leaves an orphaned booked slot for manual reconciliation.
func (s *appointmentService) Book(ctx context.Context, req *model.BookingRequest) (*model.Appointment, error) {
	s.sanitize(req)
	if err := s.validate(req); err != nil {
		metrics.Bookings.WithLabelValues("invalid").Inc()
		return nil, err
	}
	date, err := model.ParseDate(req.Date)
	if err != nil {
		metrics.Bookings.WithLabelValues("invalid").Inc()
		return nil, apperrors.InvalidInput(err.Error())
	}

	var slot model.Slot
	err = s.store.UpdateDays(ctx, func(days []model.AvailabilityDay) ([]model.AvailabilityDay, error) {
		d := model.FindDayByDate(days, date)
		if d < 0 {
			return nil, appointmentserrors.ErrDateNotFound
		}
		i := days[d].SlotIndex(req.SlotID)
		if i < 0 {
			return nil, appointmentserrors.ErrSlotNotFound
		}
		if days[d].Slots[i].IsBooked {
			return nil, appointmentserrors.ErrSlotAlreadyBooked
		}
		days[d].Slots[i].IsBooked = true
		slot = days[d].Slots[i]
		return days, nil
	})
	if err != nil {
		metrics.Bookings.WithLabelValues(bookingOutcome(err)).Inc()
		id := req.SlotID
		if errors.Is(err, appointmentserrors.ErrDateNotFound) {
			id = req.Date
		}
		return nil, s.translate(err, "Failed to book slot", id)
	}

	appt := s.newAppointment(req, date, slot)
	err = s.store.UpdateAppointments(ctx, func(appointments []model.Appointment) ([]model.Appointment, error) {
		return append(appointments, appt), nil
	})
	if err != nil {
		metrics.Bookings.WithLabelValues("error").Inc()
		s.cfg.Log.Error("Failed to record appointment, releasing slot",
			"date", date,
			"slot_id", slot.ID,
			"error", err,
		)
		s.releaseSlot(ctx, date, slot.ID)
		return nil, apperrors.Internal("Failed to create appointment", err)
	}

	metrics.Bookings.WithLabelValues("booked").Inc()
	s.cfg.Log.Info("Appointment booked successfully",
		"appointment_id", appt.ID,
		"date", appt.Date,
		"time", appt.Time,
		"slot_id", appt.SlotID,
	)

	s.notify(ctx, appt, false)
	return &appt, nil
}

func (s *appointmentService) newAppointment(req *model.BookingRequest, date model.Date, slot model.Slot) model.Appointment {
	service := req.Service
	if service == "" {
		service = model.DefaultService
	}
	return model.Appointment{
		ID:          s.newID(),
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		Service:     service,
		Notes:       req.Notes,
		Date:        date,
		SlotID:      slot.ID,
		Time:        slot.Time,
		DurationMin: slot.DurationMin,
		Status:      model.StatusConfirmed,
		CreatedAt:   s.now().UTC(),
	}
}

// releaseSlot undoes a slot flip whose appointment could not be written.
func (s *appointmentService) releaseSlot(ctx context.Context, date model.Date, slotID string) {
	err := s.store.UpdateDays(context.WithoutCancel(ctx), func(days []model.AvailabilityDay) ([]model.AvailabilityDay, error) {
		if !freeSlot(days, date, slotID) {
			return nil, store.ErrSkipWrite
		}
		return days, nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to release slot, booked slot has no appointment",
			"date", date,
			"slot_id", slotID,
			"error", err,
		)
	}
}

// Cancel frees the appointment's slot, if it still exists, and deletes the
// appointment. The slot is written before the appointment is removed.
func (s *appointmentService) Cancel(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Appointment ID cannot be empty")
	}

	var cancelled model.Appointment
	slotFreed := false
	err := s.store.UpdateAppointments(ctx, func(appointments []model.Appointment) ([]model.Appointment, error) {
		i := model.FindAppointment(appointments, id)
		if i < 0 {
			return nil, appointmentserrors.ErrAppointmentNotFound
		}
		cancelled = appointments[i]

		err := s.store.UpdateDays(ctx, func(days []model.AvailabilityDay) ([]model.AvailabilityDay, error) {
			if !freeSlot(days, cancelled.Date, cancelled.SlotID) {
				return nil, store.ErrSkipWrite
			}
			slotFreed = true
			return days, nil
		})
		if err != nil {
			return nil, err
		}

		return append(appointments[:i:i], appointments[i+1:]...), nil
	})
	if err != nil {
		if slotFreed {
			s.cfg.Log.Error("Failed to remove appointment, re-booking its slot",
				"appointment_id", id,
				"date", cancelled.Date,
				"slot_id", cancelled.SlotID,
				"error", err,
			)
			s.rebookSlot(ctx, cancelled)
		}
		outcome := "error"
		if errors.Is(err, appointmentserrors.ErrAppointmentNotFound) {
			outcome = "not_found"
		}
		metrics.Cancellations.WithLabelValues(outcome).Inc()
		return s.translate(err, "Failed to cancel appointment", id)
	}

	metrics.Cancellations.WithLabelValues("cancelled").Inc()
	if !slotFreed {
		s.cfg.Log.Info("Cancelled appointment had no slot left to free",
			"appointment_id", id,
			"date", cancelled.Date,
			"slot_id", cancelled.SlotID,
		)
	}
	s.cfg.Log.Info("Appointment cancelled successfully",
		"appointment_id", id,
		"date", cancelled.Date,
		"time", cancelled.Time,
	)

	s.notify(ctx, cancelled, true)
	return nil
}

// rebookSlot restores a slot freed by a cancellation whose appointment could not
// be removed. A slot that was taken in between now has two appointments.
func (s *appointmentService) rebookSlot(ctx context.Context, appt model.Appointment) {
	takenMeanwhile := false
	err := s.store.UpdateDays(context.WithoutCancel(ctx), func(days []model.AvailabilityDay) ([]model.AvailabilityDay, error) {
		d := model.FindDayByDate(days, appt.Date)
		if d < 0 {
			return nil, store.ErrSkipWrite
		}
		i := days[d].SlotIndex(appt.SlotID)
		if i < 0 {
			return nil, store.ErrSkipWrite
		}
		if days[d].Slots[i].IsBooked {
			takenMeanwhile = true
			return nil, store.ErrSkipWrite
		}
		days[d].Slots[i].IsBooked = true
		return days, nil
	})
	switch {
	case err != nil:
		s.cfg.Log.Error("Failed to re-book slot, live appointment has a free slot",
			"appointment_id", appt.ID,
			"date", appt.Date,
			"slot_id", appt.SlotID,
			"error", err,
		)
	case takenMeanwhile:
		s.cfg.Log.Error("Slot was booked again before it could be restored",
			"appointment_id", appt.ID,
			"date", appt.Date,
			"slot_id", appt.SlotID,
		)
	}
}

// freeSlot clears isBooked on the slot and reports whether anything changed.
func freeSlot(days []model.AvailabilityDay, date model.Date, slotID string) bool {
	d := model.FindDayByDate(days, date)
	if d < 0 {
		return false
	}
	i := days[d].SlotIndex(slotID)
	if i < 0 || !days[d].Slots[i].IsBooked {
		return false
	}
	days[d].Slots[i].IsBooked = false
	return true
}

func (s *appointmentService) notify(ctx context.Context, appt model.Appointment, cancelled bool) {
	if s.notifier == nil {
		return
	}
	settings, err := s.store.Settings(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to read settings, skipping notification",
			"appointment_id", appt.ID,
			"error", err,
		)
		return
	}
	ctx = context.WithoutCancel(ctx)
	if cancelled {
		s.notifier.NotifyCancelled(ctx, appt, settings)
		return
	}
	s.notifier.NotifyConfirmed(ctx, appt, settings)
}

func (s *appointmentService) sanitize(req *model.BookingRequest) {
	req.FirstName = sanitizer.NormalizeName(req.FirstName)
	req.LastName = sanitizer.NormalizeName(req.LastName)
	req.Email = sanitizer.NormalizeEmail(req.Email)
	req.Address = sanitizer.CollapseSpaces(req.Address)
	req.Service = sanitizer.CollapseSpaces(req.Service)
	req.Notes = sanitizer.NormalizeNotes(req.Notes)
	req.Date = strings.TrimSpace(req.Date)
	req.SlotID = strings.TrimSpace(req.SlotID)
	req.Phone = strings.TrimSpace(req.Phone)
}

func (s *appointmentService) validate(req *model.BookingRequest) error {
	if err := s.validator.Validate(req); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

func bookingOutcome(err error) string {
	switch {
	case errors.Is(err, appointmentserrors.ErrDateNotFound):
		return "date_not_found"
	case errors.Is(err, appointmentserrors.ErrSlotNotFound):
		return "slot_not_found"
	case errors.Is(err, appointmentserrors.ErrSlotAlreadyBooked):
		return "already_booked"
	default:
		return "error"
	}
}

func (s *appointmentService) translate(err error, message, id string) error {
	switch {
	case errors.Is(err, appointmentserrors.ErrDateNotFound):
		return apperrors.DateNotAvailable(id).WithCause(err)
	case errors.Is(err, appointmentserrors.ErrSlotNotFound):
		return apperrors.NotFoundWithID("Slot", id)
	case errors.Is(err, appointmentserrors.ErrSlotAlreadyBooked):
		return apperrors.SlotTaken(id).WithCause(err)
	case errors.Is(err, appointmentserrors.ErrAppointmentNotFound):
		return apperrors.NotFoundWithID("Appointment", id)
	}
	var ioErr *store.IOError
	if errors.As(err, &ioErr) {
		s.cfg.Log.Error(message, "collection", ioErr.Collection, "id", id, "error", err)
	} else {
		s.cfg.Log.Error(message, "id", id, "error", err)
	}
	return apperrors.Internal(message, err)
}
