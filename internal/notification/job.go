// Package notification delivers booking confirmations and cancellations by email
// and SMS. Requests enqueue jobs; workers (in-process or behind Kafka) dispatch them.
package notification

import (
	"context"
	"time"

	"rendezvous/pkg/logger"
	"rendezvous/pkg/model"

	"github.com/google/uuid"
)

type Kind string

const (
	KindConfirmation Kind = "appointment.confirmed"
	KindCancellation Kind = "appointment.cancelled"
)

// Job is everything a worker needs to deliver one notification without touching the store.
type Job struct {
	ID          string            `json:"id"`
	Kind        Kind              `json:"kind"`
	Appointment model.Appointment `json:"appointment"`
	Settings    model.Settings    `json:"settings"`
	AdminURL    string            `json:"adminUrl,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
}

// TokenSource yields the current admin token for the link sent to the business.
type TokenSource interface {
	AdminToken(ctx context.Context) (model.AdminToken, error)
}

// Notifier turns booking events into queued jobs. It never fails the caller.
type Notifier struct {
	queue   Queue
	tokens  TokenSource
	baseURL string
	log     *logger.Logger
	now     func() time.Time
}

func NewNotifier(queue Queue, tokens TokenSource, adminBaseURL string, log *logger.Logger) *Notifier {
	return &Notifier{
		queue:   queue,
		tokens:  tokens,
		baseURL: adminBaseURL,
		log:     log,
		now:     time.Now,
	}
}

// Enabled reports whether settings allow any channel at all.
func Enabled(settings model.Settings) bool {
	return settings.EmailNotifications || settings.SMSNotifications
}

func (n *Notifier) NotifyConfirmed(ctx context.Context, appt model.Appointment, settings model.Settings) {
	n.enqueue(ctx, KindConfirmation, appt, settings)
}

func (n *Notifier) NotifyCancelled(ctx context.Context, appt model.Appointment, settings model.Settings) {
	n.enqueue(ctx, KindCancellation, appt, settings)
}

func (n *Notifier) enqueue(ctx context.Context, kind Kind, appt model.Appointment, settings model.Settings) {
	if !Enabled(settings) {
		n.log.Debug("Notifications disabled, skipping", "kind", kind, "appointment_id", appt.ID)
		return
	}

	job := Job{
		ID:          uuid.NewString(),
		Kind:        kind,
		Appointment: appt,
		Settings:    settings,
		CreatedAt:   n.now().UTC(),
	}
	if kind == KindConfirmation && settings.SMSNotifications {
		job.AdminURL = n.adminURL(ctx)
	}

	if err := n.queue.Enqueue(ctx, job); err != nil {
		n.log.Error("Failed to enqueue notification",
			"kind", kind,
			"appointment_id", appt.ID,
			"error", err,
		)
	}
}

func (n *Notifier) adminURL(ctx context.Context) string {
	if n.tokens == nil || n.baseURL == "" {
		return n.baseURL
	}
	tok, err := n.tokens.AdminToken(ctx)
	if err != nil {
		n.log.Warn("Admin token unavailable for notification link", "error", err)
		return n.baseURL + "/admin"
	}
	return AdminLink(n.baseURL, tok.Token)
}

// AdminLink is the back-office URL that authenticates with token.
func AdminLink(baseURL, token string) string {
	return baseURL + "/admin/" + token
}
