package notification

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"rendezvous/pkg/model"
)

const (
	confirmationSubject = "Your appointment is confirmed"
	cancellationSubject = "Your appointment has been cancelled"
)

type messageData struct {
	Appointment model.Appointment
	Settings    model.Settings
	LongDate    string
	AdminURL    string
}

func newMessageData(job Job) messageData {
	return messageData{
		Appointment: job.Appointment,
		Settings:    job.Settings,
		LongDate:    longDate(job.Appointment.Date),
		AdminURL:    job.AdminURL,
	}
}

// longDate renders d as e.g. "Tuesday 10 June 2025".
func longDate(d model.Date) string {
	return d.In(time.UTC).Format("Monday 2 January 2006")
}

var confirmationEmail = htmltemplate.Must(htmltemplate.New("confirmation").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <div style="background: #F26440; color: white; padding: 20px; text-align: center;">
    <h1 style="margin: 0;">{{.Settings.BusinessName}}</h1>
  </div>
  <div style="padding: 20px; background: #f9f9f9;">
    <h2 style="color: #333;">Hello {{.Appointment.FirstName}},</h2>
    <p>Your appointment is confirmed.</p>
    <div style="background: white; padding: 20px; border-radius: 8px; margin: 20px 0;">
      <h3 style="color: #F26440; margin-top: 0;">Appointment details</h3>
      <p><strong>Date:</strong> {{.LongDate}}</p>
      <p><strong>Time:</strong> {{.Appointment.Time}}</p>
      <p><strong>Service:</strong> {{.Appointment.Service}}</p>
      <p><strong>Estimated duration:</strong> {{.Appointment.DurationMin}} minutes</p>
    </div>
    <div style="background: white; padding: 20px; border-radius: 8px; margin: 20px 0;">
      <h3 style="color: #F26440; margin-top: 0;">Where to find us</h3>
      <p>{{.Settings.BusinessAddress}}</p>
      <p><strong>Phone:</strong> {{.Settings.BusinessPhone}}</p>
    </div>
    <p style="color: #666; font-size: 14px;">To change or cancel your appointment, call us on {{.Settings.BusinessPhone}}.</p>
  </div>
</div>
`))

var cancellationEmail = htmltemplate.Must(htmltemplate.New("cancellation").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <div style="background: #333; color: white; padding: 20px; text-align: center;">
    <h1 style="margin: 0;">{{.Settings.BusinessName}}</h1>
  </div>
  <div style="padding: 20px; background: #f9f9f9;">
    <h2 style="color: #333;">Hello {{.Appointment.FirstName}},</h2>
    <p>Your appointment on {{.LongDate}} at {{.Appointment.Time}} has been cancelled.</p>
    <p style="color: #666; font-size: 14px;">For any question, call us on {{.Settings.BusinessPhone}}.</p>
  </div>
</div>
`))

var clientConfirmationSMS = texttemplate.Must(texttemplate.New("client-confirmation").Parse(
	`{{.Settings.BusinessName}}: your appointment is confirmed on {{.Appointment.Date}} at {{.Appointment.Time}}.
Reason: {{.Appointment.Service}}.
See you soon!

To change it, call us on {{.Settings.BusinessPhone}}.`))

var businessConfirmationSMS = texttemplate.Must(texttemplate.New("business-confirmation").Parse(
	`{{.Settings.BusinessName}}: new appointment on {{.Appointment.Date}} at {{.Appointment.Time}}.
- By: {{.Appointment.FirstName}} {{.Appointment.LastName}}
- Reason: {{.Appointment.Service}}
- Phone: {{.Appointment.Phone}}
- Address: {{.Appointment.Address}}
{{- if .AdminURL}}

Manage your appointments: {{.AdminURL}}{{end}}`))

var clientCancellationSMS = texttemplate.Must(texttemplate.New("client-cancellation").Parse(
	`{{.Settings.BusinessName}}: your appointment on {{.Appointment.Date}} at {{.Appointment.Time}} has been cancelled.

For any question, call us on {{.Settings.BusinessPhone}}.`))

func render(name string, execute func(*bytes.Buffer) error) (string, error) {
	var buf bytes.Buffer
	if err := execute(&buf); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func renderHTML(t *htmltemplate.Template, data messageData) (string, error) {
	return render(t.Name(), func(buf *bytes.Buffer) error { return t.Execute(buf, data) })
}

func renderText(t *texttemplate.Template, data messageData) (string, error) {
	return render(t.Name(), func(buf *bytes.Buffer) error { return t.Execute(buf, data) })
}
