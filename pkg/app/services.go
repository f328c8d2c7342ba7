package app

import (
	adminservice "rendezvous/internal/admin/service"
	adminvalidator "rendezvous/internal/admin/validator"
	appointmentservice "rendezvous/internal/appointments/service"
	appointmentvalidator "rendezvous/internal/appointments/validator"
	availabilityservice "rendezvous/internal/availability/service"
	availabilityvalidator "rendezvous/internal/availability/validator"
	"rendezvous/internal/notification"
	"rendezvous/pkg/config"
	"rendezvous/pkg/store"
)

// Services is the domain layer over one store. The API and rdvctl share it.
type Services struct {
	Store        *store.Store
	Availability availabilityservice.AvailabilityService
	Appointments appointmentservice.AppointmentService
	Admin        adminservice.AdminService
}

// NewServices wires the domain services. A nil queue disables notifications.
func NewServices(cfg *config.Config, st *store.Store, queue notification.Queue) *Services {
	var notifier appointmentservice.Notifier
	if queue != nil {
		notifier = notification.NewNotifier(queue, st, cfg.AdminBaseURL, cfg.Log)
	}

	return &Services{
		Store: st,
		Availability: availabilityservice.NewAvailabilityService(
			st,
			availabilityvalidator.NewAvailabilityValidator(cfg.Log),
			cfg,
		),
		Appointments: appointmentservice.NewAppointmentService(
			st,
			appointmentvalidator.NewAppointmentValidator(cfg.Log),
			notifier,
			cfg,
		),
		Admin: adminservice.NewAdminService(
			st,
			adminvalidator.NewSettingsValidator(cfg.Log),
			cfg,
		),
	}
}
