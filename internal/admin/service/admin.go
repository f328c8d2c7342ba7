package service

import (
	"context"
	"crypto/subtle"
	"time"

	"rendezvous/internal/admin/validator"
	"rendezvous/pkg/config"
	apperrors "rendezvous/pkg/errors"
	"rendezvous/pkg/model"
	"rendezvous/pkg/sanitizer"
)

type Store interface {
	Days(ctx context.Context) ([]model.AvailabilityDay, error)
	Appointments(ctx context.Context) ([]model.Appointment, error)
	AdminToken(ctx context.Context) (model.AdminToken, error)
	RotateAdminToken(ctx context.Context) (model.AdminToken, error)
	Settings(ctx context.Context) (model.Settings, error)
	ReplaceSettings(ctx context.Context, settings model.Settings) error
}

type AdminService interface {
	IsValidAdminToken(ctx context.Context, token string) bool
	Token(ctx context.Context) (model.AdminToken, error)
	RotateToken(ctx context.Context) (model.AdminToken, error)
	Stats(ctx context.Context) (model.Stats, error)
	Settings(ctx context.Context) (model.Settings, error)
	UpdateSettings(ctx context.Context, settings *model.Settings) (model.Settings, error)
}

type adminService struct {
	store     Store
	validator *validator.SettingsValidator
	cfg       *config.Config
	now       func() time.Time
}

func NewAdminService(store Store, validator *validator.SettingsValidator, cfg *config.Config) AdminService {
	return &adminService{
		store:     store,
		validator: validator,
		cfg:       cfg,
		now:       time.Now,
	}
}

// IsValidAdminToken compares in constant time. An unreadable token denies access.
func (s *adminService) IsValidAdminToken(ctx context.Context, token string) bool {
	if token == "" {
		return false
	}
	current, err := s.store.AdminToken(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to read admin token", "error", err)
		return false
	}
	if current.Token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(current.Token), []byte(token)) == 1
}

func (s *adminService) Token(ctx context.Context) (model.AdminToken, error) {
	tok, err := s.store.AdminToken(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to read admin token", "error", err)
		return model.AdminToken{}, apperrors.Internal("Failed to read admin token", err)
	}
	return tok, nil
}

// RotateToken invalidates the current admin token immediately.
func (s *adminService) RotateToken(ctx context.Context) (model.AdminToken, error) {
	tok, err := s.store.RotateAdminToken(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to rotate admin token", "error", err)
		return model.AdminToken{}, apperrors.Internal("Failed to rotate admin token", err)
	}
	s.cfg.Log.Info("Admin token rotated", "created_at", tok.CreatedAt)
	return tok, nil
}

// Stats counts appointments relative to today in the business timezone.
// A booked slot with no matching appointment is reported as orphaned.
func (s *adminService) Stats(ctx context.Context) (model.Stats, error) {
	appointments, err := s.store.Appointments(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to read appointments for stats", "error", err)
		return model.Stats{}, apperrors.Internal("Failed to compute stats", err)
	}
	days, err := s.store.Days(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to read availabilities for stats", "error", err)
		return model.Stats{}, apperrors.Internal("Failed to compute stats", err)
	}

	today := model.DateOf(s.localNow())
	stats := model.Stats{TotalAppointments: len(appointments)}

	type slotKey struct {
		date   model.Date
		slotID string
	}
	held := make(map[slotKey]struct{}, len(appointments))
	for _, a := range appointments {
		held[slotKey{a.Date, a.SlotID}] = struct{}{}
		if a.Date.Equal(today) {
			stats.TodayAppointments++
		}
		if !a.Date.Before(today) {
			stats.UpcomingAppointments++
		}
	}

	for _, day := range days {
		for _, slot := range day.Slots {
			stats.TotalSlots++
			if !slot.IsBooked {
				continue
			}
			stats.BookedSlots++
			if _, ok := held[slotKey{day.Date, slot.ID}]; !ok {
				stats.OrphanedSlots++
			}
		}
	}
	stats.AvailableSlots = stats.TotalSlots - stats.BookedSlots

	return stats, nil
}

func (s *adminService) Settings(ctx context.Context) (model.Settings, error) {
	settings, err := s.store.Settings(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to read settings", "error", err)
		return model.Settings{}, apperrors.Internal("Failed to read settings", err)
	}
	return settings, nil
}

// UpdateSettings replaces the settings wholesale.
func (s *adminService) UpdateSettings(ctx context.Context, settings *model.Settings) (model.Settings, error) {
	settings.BusinessName = sanitizer.CollapseSpaces(settings.BusinessName)
	settings.BusinessPhone = sanitizer.CollapseSpaces(settings.BusinessPhone)
	settings.BusinessEmail = sanitizer.NormalizeEmail(settings.BusinessEmail)
	settings.BusinessAddress = sanitizer.CollapseSpaces(settings.BusinessAddress)

	if err := s.validator.Validate(settings); err != nil {
		s.cfg.Log.Warn("Settings validation failed", "error", err)
		return model.Settings{}, apperrors.Validation("Settings validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.store.ReplaceSettings(ctx, *settings); err != nil {
		s.cfg.Log.Error("Failed to save settings", "error", err)
		return model.Settings{}, apperrors.Internal("Failed to save settings", err)
	}

	s.cfg.Log.Info("Settings updated",
		"business_name", settings.BusinessName,
		"email_notifications", settings.EmailNotifications,
		"sms_notifications", settings.SMSNotifications,
	)
	return *settings, nil
}

func (s *adminService) localNow() time.Time {
	if s.cfg.Location == nil {
		return s.now()
	}
	return s.now().In(s.cfg.Location)
}
