package notification

import (
	"context"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"rendezvous/pkg/logger"
)

type EmailSender interface {
	Send(ctx context.Context, to, subject, htmlBody string, from Address) error
	ProviderID() string
}

// Address is a display name plus mailbox, e.g. the business as sender.
type Address struct {
	Name  string
	Email string
}

func (a Address) String() string {
	if a.Name == "" {
		return a.Email
	}
	return fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", a.Name), a.Email)
}

// SMTPSender delivers mail through one relay, authenticating with PLAIN when a
// username is configured.
type SMTPSender struct {
	addr     string
	host     string
	from     string
	username string
	password string
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPSender(host string, port int, username, password, from string) *SMTPSender {
	host = strings.TrimSpace(host)
	return &SMTPSender{
		addr:     net.JoinHostPort(host, strconv.Itoa(port)),
		host:     host,
		from:     strings.TrimSpace(from),
		username: username,
		password: password,
		sendMail: smtp.SendMail,
	}
}

func (s *SMTPSender) ProviderID() string {
	return "smtp"
}

// Send uses the configured envelope sender; from only sets the visible From header.
func (s *SMTPSender) Send(ctx context.Context, to, subject, htmlBody string, from Address) error {
	if from.Email == "" {
		from.Email = s.from
	}

	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	msg := buildMessage(from.String(), to, subject, htmlBody, time.Now())

	done := make(chan error, 1)
	go func() {
		done <- s.sendMail(s.addr, auth, s.from, []string{to}, []byte(msg))
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func buildMessage(from, to, subject, body string, date time.Time) string {
	return fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nDate: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=utf-8\r\n\r\n%s\r\n",
		from,
		to,
		mime.QEncoding.Encode("utf-8", subject),
		date.Format(time.RFC1123Z),
		body,
	)
}

// LogEmailSender only logs; it stands in when no SMTP relay is configured.
type LogEmailSender struct {
	log *logger.Logger
}

func NewLogEmailSender(log *logger.Logger) *LogEmailSender {
	return &LogEmailSender{log: log}
}

func (s *LogEmailSender) ProviderID() string {
	return "email-log"
}

func (s *LogEmailSender) Send(_ context.Context, to, subject, _ string, _ Address) error {
	s.log.Info("Email simulated", "to", to, "subject", subject)
	return nil
}
