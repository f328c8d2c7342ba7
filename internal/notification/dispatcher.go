package notification

import (
	"context"

	"rendezvous/pkg/config"
	"rendezvous/pkg/logger"
	"rendezvous/pkg/metrics"
	"rendezvous/pkg/sanitizer"
)

const (
	channelEmail       = "email"
	channelSMS         = "sms"
	channelBusinessSMS = "sms_business"
)

// Dispatcher renders and delivers one job over every channel its settings enable.
type Dispatcher struct {
	email  EmailSender
	sms    SMSSender
	phones sanitizer.PhoneNormalizer
	log    *logger.Logger
}

func NewDispatcher(email EmailSender, sms SMSSender, region string, log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		email:  email,
		sms:    sms,
		phones: sanitizer.PhoneNormalizer{Region: region},
		log:    log,
	}
}

// NewDispatcherFromConfig picks the senders named by cfg. Without an SMTP host, mail
// is only logged.
func NewDispatcherFromConfig(cfg *config.Config) *Dispatcher {
	var email EmailSender = NewLogEmailSender(cfg.Log)
	if cfg.SMTPHost != "" {
		email = NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
	}

	var sms SMSSender
	switch cfg.SMSProvider {
	case config.SMSProviderTwilio:
		sms = NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFrom)
	case config.SMSProviderWebhook:
		sms = NewWebhookSender(cfg.SMSWebhookURL, cfg.SMSWebhookToken)
	default:
		sms = NewLogSMSSender(cfg.Log)
	}

	cfg.Log.Info("Notification dispatcher configured",
		"email_provider", email.ProviderID(),
		"sms_provider", sms.ProviderID(),
	)
	return NewDispatcher(email, sms, cfg.DefaultPhoneRegion, cfg.Log)
}

// Dispatch reports whether every enabled channel succeeded. Unknown kinds are dropped.
func (d *Dispatcher) Dispatch(ctx context.Context, job Job) bool {
	switch job.Kind {
	case KindConfirmation:
		return d.SendConfirmation(ctx, job)
	case KindCancellation:
		return d.SendCancellation(ctx, job)
	default:
		d.log.Error("Unknown notification kind", "kind", job.Kind, "job_id", job.ID)
		return false
	}
}

func (d *Dispatcher) SendConfirmation(ctx context.Context, job Job) bool {
	data := newMessageData(job)
	ok := true

	if job.Settings.EmailNotifications {
		ok = d.sendEmail(ctx, job, confirmationSubject, func() (string, error) {
			return renderHTML(confirmationEmail, data)
		}) && ok
	}
	if job.Settings.SMSNotifications {
		ok = d.sendSMS(ctx, job, channelSMS, job.Appointment.Phone, func() (string, error) {
			return renderText(clientConfirmationSMS, data)
		}) && ok
		if job.Settings.BusinessPhone != "" {
			ok = d.sendSMS(ctx, job, channelBusinessSMS, job.Settings.BusinessPhone, func() (string, error) {
				return renderText(businessConfirmationSMS, data)
			}) && ok
		}
	}
	return ok
}

func (d *Dispatcher) SendCancellation(ctx context.Context, job Job) bool {
	data := newMessageData(job)
	ok := true

	if job.Settings.EmailNotifications {
		ok = d.sendEmail(ctx, job, cancellationSubject, func() (string, error) {
			return renderHTML(cancellationEmail, data)
		}) && ok
	}
	if job.Settings.SMSNotifications {
		ok = d.sendSMS(ctx, job, channelSMS, job.Appointment.Phone, func() (string, error) {
			return renderText(clientCancellationSMS, data)
		}) && ok
	}
	return ok
}

func (d *Dispatcher) sendEmail(ctx context.Context, job Job, subject string, body func() (string, error)) bool {
	to := job.Appointment.Email
	if to == "" {
		d.record(job, channelEmail, "skipped")
		return true
	}

	html, err := body()
	if err != nil {
		d.fail(job, channelEmail, err)
		return false
	}
	from := Address{Name: job.Settings.BusinessName}
	if err := d.email.Send(ctx, to, subject, html, from); err != nil {
		d.fail(job, channelEmail, err)
		return false
	}

	d.record(job, channelEmail, "sent")
	d.log.Info("Email sent", "kind", job.Kind, "appointment_id", job.Appointment.ID, "provider", d.email.ProviderID())
	return true
}

func (d *Dispatcher) sendSMS(ctx context.Context, job Job, channel, phone string, body func() (string, error)) bool {
	to := d.phones.Normalize(phone)
	if to == "" {
		d.log.Warn("SMS recipient is not a valid phone number",
			"kind", job.Kind,
			"appointment_id", job.Appointment.ID,
			"channel", channel,
		)
		d.record(job, channel, "invalid_recipient")
		return false
	}

	text, err := body()
	if err != nil {
		d.fail(job, channel, err)
		return false
	}
	if err := d.sms.Send(ctx, to, text); err != nil {
		d.fail(job, channel, err)
		return false
	}

	d.record(job, channel, "sent")
	d.log.Info("SMS sent",
		"kind", job.Kind,
		"appointment_id", job.Appointment.ID,
		"channel", channel,
		"provider", d.sms.ProviderID(),
	)
	return true
}

func (d *Dispatcher) fail(job Job, channel string, err error) {
	d.record(job, channel, "failed")
	d.log.Error("Notification delivery failed",
		"kind", job.Kind,
		"appointment_id", job.Appointment.ID,
		"channel", channel,
		"error", err,
	)
}

func (d *Dispatcher) record(job Job, channel, outcome string) {
	metrics.Notifications.WithLabelValues(string(job.Kind), channel, outcome).Inc()
}
