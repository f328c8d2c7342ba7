package service

import (
	"context"
	"errors"
	"time"

	"rendezvous/internal/availability/engine"
	availabilityerrors "rendezvous/internal/availability/errors"
	"rendezvous/internal/availability/validator"
	"rendezvous/pkg/config"
	apperrors "rendezvous/pkg/errors"
	"rendezvous/pkg/metrics"
	"rendezvous/pkg/model"
	"rendezvous/pkg/store"

	"github.com/google/uuid"
)

const (
	SweepExpiry = "expiry"
	SweepPrune  = "prune"
)

// DayStore is the slice of the store the availability service needs.
type DayStore interface {
	Days(ctx context.Context) ([]model.AvailabilityDay, error)
	UpdateDays(ctx context.Context, fn func([]model.AvailabilityDay) ([]model.AvailabilityDay, error)) error
}

type AvailabilityService interface {
	List(ctx context.Context, start, end string) ([]model.AvailabilityDay, error)
	Create(ctx context.Context, req *model.AvailabilityCreate) (model.AvailabilityDay, error)
	ReplaceSlots(ctx context.Context, id string, req *model.AvailabilitySlotsUpdate) (model.AvailabilityDay, error)
	Delete(ctx context.Context, id string) error
	Sweep(ctx context.Context) (engine.SweepResult, error)
	PrunePastDays(ctx context.Context) (int, error)
}

type availabilityService struct {
	store     DayStore
	validator *validator.AvailabilityValidator
	lifecycle engine.Lifecycle
	cfg       *config.Config
	now       func() time.Time
	newID     engine.IDFunc
}

func NewAvailabilityService(
	store DayStore,
	validator *validator.AvailabilityValidator,
	cfg *config.Config,
) AvailabilityService {
	return &availabilityService{
		store:     store,
		validator: validator,
		lifecycle: engine.NewLifecycle(cfg.ExpiryCutoff),
		cfg:       cfg,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// localNow is the wall clock of the business; every date comparison uses it.
func (s *availabilityService) localNow() time.Time {
	loc := s.cfg.Location
	if loc == nil {
		loc = time.Local
	}
	return s.now().In(loc)
}

// List returns all days, optionally restricted to the inclusive range [start, end].
// Either bound may be empty.
func (s *availabilityService) List(ctx context.Context, start, end string) ([]model.AvailabilityDay, error) {
	from, to, err := parseRange(start, end)
	if err != nil {
		return nil, err
	}

	days, err := s.store.Days(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list availabilities", "error", err)
		return nil, apperrors.Internal("Failed to retrieve availabilities", err)
	}

	if from == nil && to == nil {
		return days, nil
	}

	filtered := make([]model.AvailabilityDay, 0, len(days))
	for _, day := range days {
		if from != nil && day.Date.Before(*from) {
			continue
		}
		if to != nil && day.Date.After(*to) {
			continue
		}
		filtered = append(filtered, day)
	}
	return filtered, nil
}

func parseRange(start, end string) (*model.Date, *model.Date, error) {
	var from, to *model.Date
	if start != "" {
		d, err := model.ParseDate(start)
		if err != nil {
			return nil, nil, apperrors.InvalidInput("invalid start parameter, must be YYYY-MM-DD")
		}
		from = &d
	}
	if end != "" {
		d, err := model.ParseDate(end)
		if err != nil {
			return nil, nil, apperrors.InvalidInput("invalid end parameter, must be YYYY-MM-DD")
		}
		to = &d
	}
	if from != nil && to != nil && from.After(*to) {
		return nil, nil, apperrors.InvalidInput(availabilityerrors.ErrInvalidDateRange.Error())
	}
	return from, to, nil
}

// Create adds the requested slots to the day, creating the day when absent.
// The returned entry holds only the slots added by this call.
func (s *availabilityService) Create(ctx context.Context, req *model.AvailabilityCreate) (model.AvailabilityDay, error) {
	if err := s.validator.ValidateCreate(req); err != nil {
		s.cfg.Log.Warn("Availability validation failed", "error", err)
		return model.AvailabilityDay{}, apperrors.Validation("Availability validation failed", map[string]any{"error": err.Error()})
	}
	date, err := model.ParseDate(req.Date)
	if err != nil {
		return model.AvailabilityDay{}, apperrors.InvalidInput(err.Error())
	}

	var entry model.AvailabilityDay
	err = s.store.UpdateDays(ctx, func(days []model.AvailabilityDay) ([]model.AvailabilityDay, error) {
		updated, added, err := engine.CreateOrAppend(days, date, req.Slots, s.localNow(), s.newID)
		if err != nil {
			return nil, err
		}
		entry = added
		return updated, nil
	})
	if err != nil {
		return model.AvailabilityDay{}, s.translate(err, "Failed to create availability", "")
	}

	s.cfg.Log.Info("Availability created successfully",
		"date", date,
		"slots", len(entry.Slots),
	)
	return entry, nil
}

// ReplaceSlots merges req into the day by time of day. Replacing with an empty list
// removes the day altogether.
func (s *availabilityService) ReplaceSlots(ctx context.Context, id string, req *model.AvailabilitySlotsUpdate) (model.AvailabilityDay, error) {
	if id == "" {
		return model.AvailabilityDay{}, apperrors.InvalidInput("Availability ID cannot be empty")
	}
	if err := s.validator.ValidateSlots(req); err != nil {
		s.cfg.Log.Warn("Availability validation failed", "id", id, "error", err)
		return model.AvailabilityDay{}, apperrors.Validation("Availability validation failed", map[string]any{"error": err.Error()})
	}

	var merged model.AvailabilityDay
	err := s.store.UpdateDays(ctx, func(days []model.AvailabilityDay) ([]model.AvailabilityDay, error) {
		i := model.FindDayByID(days, id)
		if i < 0 {
			return nil, availabilityerrors.ErrDayNotFound
		}
		day, err := engine.MergeSlots(days[i], req.Slots, s.localNow(), s.newID)
		if err != nil {
			return nil, err
		}
		merged = day

		out := make([]model.AvailabilityDay, 0, len(days))
		out = append(out, days[:i]...)
		if len(day.Slots) > 0 {
			out = append(out, day)
		}
		return append(out, days[i+1:]...), nil
	})
	if err != nil {
		return model.AvailabilityDay{}, s.translate(err, "Failed to update availability slots", id)
	}

	if len(merged.Slots) == 0 {
		s.cfg.Log.Info("Availability emptied and removed", "id", id, "date", merged.Date)
	} else {
		s.cfg.Log.Info("Availability slots updated successfully",
			"id", id,
			"date", merged.Date,
			"slots", len(merged.Slots),
		)
	}
	return merged, nil
}

func (s *availabilityService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Availability ID cannot be empty")
	}

	var removed model.AvailabilityDay
	err := s.store.UpdateDays(ctx, func(days []model.AvailabilityDay) ([]model.AvailabilityDay, error) {
		i := model.FindDayByID(days, id)
		if i < 0 {
			return nil, availabilityerrors.ErrDayNotFound
		}
		removed = days[i]
		return append(days[:i:i], days[i+1:]...), nil
	})
	if err != nil {
		return s.translate(err, "Failed to delete availability", id)
	}

	booked := 0
	for _, slot := range removed.Slots {
		if slot.IsBooked {
			booked++
		}
	}
	if booked > 0 {
		s.cfg.Log.Warn("Deleted availability still had booked slots",
			"id", id,
			"date", removed.Date,
			"booked_slots", booked,
		)
	}
	s.cfg.Log.Info("Availability deleted successfully", "id", id, "date", removed.Date)
	return nil
}

// Sweep withdraws expired unbooked slots and drops days left empty. The collection
// is left untouched when nothing expired or when anything fails.
func (s *availabilityService) Sweep(ctx context.Context) (engine.SweepResult, error) {
	now := s.localNow()

	var result engine.SweepResult
	err := s.store.UpdateDays(ctx, func(days []model.AvailabilityDay) ([]model.AvailabilityDay, error) {
		result = s.lifecycle.Sweep(days, now)
		if !result.Changed() {
			return nil, store.ErrSkipWrite
		}
		return result.Days, nil
	})
	if err != nil {
		metrics.SweepRuns.WithLabelValues(SweepExpiry, "error").Inc()
		s.cfg.Log.Error("Availability sweep failed", "error", err)
		return engine.SweepResult{}, err
	}

	metrics.SweepRuns.WithLabelValues(SweepExpiry, "ok").Inc()
	if !result.Changed() {
		s.cfg.Log.Debug("Availability sweep found nothing to remove")
		return result, nil
	}

	metrics.SweptSlots.Add(float64(result.DeletedSlots))
	metrics.SweptDays.WithLabelValues(SweepExpiry).Add(float64(result.DeletedDays))
	for _, expired := range result.Expired {
		s.cfg.Log.Debug("Slot expired", "date", expired.Date, "time", expired.Time)
	}
	s.cfg.Log.Info("Availability sweep completed",
		"deleted_slots", result.DeletedSlots,
		"modified_days", result.ModifiedDays,
		"deleted_days", result.DeletedDays,
	)
	return result, nil
}

// PrunePastDays drops every day dated before today, booked slots included.
func (s *availabilityService) PrunePastDays(ctx context.Context) (int, error) {
	now := s.localNow()

	removed := 0
	err := s.store.UpdateDays(ctx, func(days []model.AvailabilityDay) ([]model.AvailabilityDay, error) {
		kept, n := engine.PrunePastDays(days, now)
		removed = n
		if n == 0 {
			return nil, store.ErrSkipWrite
		}
		return kept, nil
	})
	if err != nil {
		metrics.SweepRuns.WithLabelValues(SweepPrune, "error").Inc()
		s.cfg.Log.Error("Past-day prune failed", "error", err)
		return 0, err
	}

	metrics.SweepRuns.WithLabelValues(SweepPrune, "ok").Inc()
	metrics.SweptDays.WithLabelValues(SweepPrune).Add(float64(removed))
	s.cfg.Log.Info("Past-day prune completed", "deleted_days", removed, "today", model.DateOf(now))
	return removed, nil
}

func (s *availabilityService) translate(err error, message, id string) error {
	if errors.Is(err, availabilityerrors.ErrDayNotFound) {
		return apperrors.NotFoundWithID("Availability", id)
	}
	s.cfg.Log.Error(message, "id", id, "error", err)
	return apperrors.Internal(message, err)
}
