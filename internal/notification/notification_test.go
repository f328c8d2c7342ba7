package notification

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"rendezvous/pkg/kafka"
	"rendezvous/pkg/logger"
	"rendezvous/pkg/model"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Output: io.Discard})
}

type sentSMS struct {
	to   string
	body string
}

type fakeSMS struct {
	mu       sync.Mutex
	sent     []sentSMS
	sendFunc func(to, body string) error
}

func (f *fakeSMS) ProviderID() string { return "fake-sms" }

func (f *fakeSMS) Send(_ context.Context, to, body string) error {
	f.mu.Lock()
	f.sent = append(f.sent, sentSMS{to: to, body: body})
	f.mu.Unlock()
	if f.sendFunc != nil {
		return f.sendFunc(to, body)
	}
	return nil
}

type sentEmail struct {
	to      string
	subject string
	body    string
	from    Address
}

type fakeEmail struct {
	sent     []sentEmail
	sendFunc func(to string) error
}

func (f *fakeEmail) ProviderID() string { return "fake-email" }

func (f *fakeEmail) Send(_ context.Context, to, subject, body string, from Address) error {
	f.sent = append(f.sent, sentEmail{to: to, subject: subject, body: body, from: from})
	if f.sendFunc != nil {
		return f.sendFunc(to)
	}
	return nil
}

func testJob(kind Kind, settings model.Settings) Job {
	return Job{
		ID:   "job-1",
		Kind: kind,
		Appointment: model.Appointment{
			ID:          "appt-1",
			FirstName:   "Marie",
			LastName:    "Curie",
			Email:       "marie@example.com",
			Phone:       "06 12 34 56 78",
			Address:     "1 rue de Paris",
			Service:     "Boiler service",
			Date:        model.MustParseDate("2025-06-10"),
			SlotID:      "A",
			Time:        model.MustParseTimeOfDay("09:00"),
			DurationMin: 60,
			Status:      model.StatusConfirmed,
		},
		Settings: settings,
		AdminURL: "https://example.com/admin/tok",
	}
}

func allChannels() model.Settings {
	return model.Settings{
		BusinessName:       "Plomberie Martin",
		BusinessPhone:      "06 98 76 54 32",
		BusinessAddress:    "2 avenue du Lac",
		EmailNotifications: true,
		SMSNotifications:   true,
	}
}

func TestSendConfirmation_AllChannels(t *testing.T) {
	email, sms := &fakeEmail{}, &fakeSMS{}
	d := NewDispatcher(email, sms, "FR", testLogger())

	if ok := d.SendConfirmation(context.Background(), testJob(KindConfirmation, allChannels())); !ok {
		t.Fatal("expected success")
	}

	if len(email.sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(email.sent))
	}
	mail := email.sent[0]
	if mail.to != "marie@example.com" || mail.subject != confirmationSubject {
		t.Errorf("unexpected email: %+v", mail)
	}
	for _, want := range []string{"Tuesday 10 June 2025", "09:00", "Boiler service", "60 minutes", "2 avenue du Lac"} {
		if !strings.Contains(mail.body, want) {
			t.Errorf("email body missing %q", want)
		}
	}
	if mail.from.Name != "Plomberie Martin" {
		t.Errorf("expected business name as sender, got %q", mail.from.Name)
	}

	if len(sms.sent) != 2 {
		t.Fatalf("expected client and business SMS, got %d", len(sms.sent))
	}
	if sms.sent[0].to != "+33612345678" {
		t.Errorf("client SMS not sent to E.164 number: %q", sms.sent[0].to)
	}
	if sms.sent[1].to != "+33698765432" {
		t.Errorf("business SMS not sent to business phone: %q", sms.sent[1].to)
	}
	if !strings.Contains(sms.sent[1].body, "Marie Curie") || !strings.Contains(sms.sent[1].body, "https://example.com/admin/tok") {
		t.Errorf("business SMS missing client details or admin link: %q", sms.sent[1].body)
	}
}

func TestSendConfirmation_RespectsFlags(t *testing.T) {
	tests := []struct {
		name      string
		email     bool
		sms       bool
		wantEmail int
		wantSMS   int
	}{
		{name: "all off", wantEmail: 0, wantSMS: 0},
		{name: "email only", email: true, wantEmail: 1, wantSMS: 0},
		{name: "sms only", sms: true, wantEmail: 0, wantSMS: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			email, sms := &fakeEmail{}, &fakeSMS{}
			d := NewDispatcher(email, sms, "FR", testLogger())
			settings := allChannels()
			settings.EmailNotifications = tt.email
			settings.SMSNotifications = tt.sms

			d.SendConfirmation(context.Background(), testJob(KindConfirmation, settings))

			if len(email.sent) != tt.wantEmail {
				t.Errorf("emails = %d, want %d", len(email.sent), tt.wantEmail)
			}
			if len(sms.sent) != tt.wantSMS {
				t.Errorf("sms = %d, want %d", len(sms.sent), tt.wantSMS)
			}
		})
	}
}

func TestSendCancellation_ClientOnly(t *testing.T) {
	email, sms := &fakeEmail{}, &fakeSMS{}
	d := NewDispatcher(email, sms, "FR", testLogger())

	if ok := d.Dispatch(context.Background(), testJob(KindCancellation, allChannels())); !ok {
		t.Fatal("expected success")
	}
	if len(sms.sent) != 1 || sms.sent[0].to != "+33612345678" {
		t.Fatalf("expected one SMS to the client, got %+v", sms.sent)
	}
	if !strings.Contains(sms.sent[0].body, "cancelled") {
		t.Errorf("unexpected cancellation text: %q", sms.sent[0].body)
	}
	if len(email.sent) != 1 || email.sent[0].subject != cancellationSubject {
		t.Errorf("expected cancellation email, got %+v", email.sent)
	}
}

func TestDispatch_FailuresAreReportedNotPropagated(t *testing.T) {
	email := &fakeEmail{sendFunc: func(string) error { return errors.New("relay down") }}
	sms := &fakeSMS{}
	d := NewDispatcher(email, sms, "FR", testLogger())

	if ok := d.SendConfirmation(context.Background(), testJob(KindConfirmation, allChannels())); ok {
		t.Error("expected partial failure to be reported")
	}
	if len(sms.sent) != 2 {
		t.Errorf("SMS should still go out after an email failure, got %d", len(sms.sent))
	}
}

func TestDispatch_InvalidPhoneSkipsSMS(t *testing.T) {
	sms := &fakeSMS{}
	d := NewDispatcher(&fakeEmail{}, sms, "FR", testLogger())
	job := testJob(KindCancellation, model.Settings{SMSNotifications: true})
	job.Appointment.Phone = "not a phone"

	if ok := d.SendCancellation(context.Background(), job); ok {
		t.Error("expected failure for invalid recipient")
	}
	if len(sms.sent) != 0 {
		t.Errorf("nothing should be sent, got %+v", sms.sent)
	}
}

type recordingQueue struct {
	jobs []Job
	err  error
}

func (q *recordingQueue) Enqueue(_ context.Context, job Job) error {
	q.jobs = append(q.jobs, job)
	return q.err
}

type staticTokens string

func (s staticTokens) AdminToken(context.Context) (model.AdminToken, error) {
	return model.AdminToken{Token: string(s)}, nil
}

func TestNotifier_GatesAndLinksAdmin(t *testing.T) {
	q := &recordingQueue{}
	n := NewNotifier(q, staticTokens("tok"), "https://example.com", testLogger())
	appt := testJob(KindConfirmation, model.Settings{}).Appointment

	n.NotifyConfirmed(context.Background(), appt, model.Settings{})
	if len(q.jobs) != 0 {
		t.Fatalf("disabled settings must not enqueue, got %d jobs", len(q.jobs))
	}

	n.NotifyConfirmed(context.Background(), appt, model.Settings{SMSNotifications: true})
	n.NotifyCancelled(context.Background(), appt, model.Settings{EmailNotifications: true})
	if len(q.jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(q.jobs))
	}
	if q.jobs[0].Kind != KindConfirmation || q.jobs[0].AdminURL != "https://example.com/admin/tok" {
		t.Errorf("unexpected confirmation job: %+v", q.jobs[0])
	}
	if q.jobs[1].Kind != KindCancellation || q.jobs[1].AdminURL != "" {
		t.Errorf("unexpected cancellation job: %+v", q.jobs[1])
	}
}

func TestNotifier_SwallowsQueueErrors(t *testing.T) {
	q := &recordingQueue{err: ErrQueueFull}
	n := NewNotifier(q, nil, "", testLogger())

	n.NotifyCancelled(context.Background(), model.Appointment{ID: "a"}, allChannels())
	if len(q.jobs) != 1 {
		t.Errorf("expected one enqueue attempt, got %d", len(q.jobs))
	}
}

type handlerFunc func(ctx context.Context, job Job) bool

func (f handlerFunc) Dispatch(ctx context.Context, job Job) bool { return f(ctx, job) }

func TestWorkerPool_DeliversAndDrainsOnStop(t *testing.T) {
	var mu sync.Mutex
	var delivered []string
	pool := NewWorkerPool(handlerFunc(func(_ context.Context, job Job) bool {
		time.Sleep(5 * time.Millisecond)
		mu.Lock()
		delivered = append(delivered, job.ID)
		mu.Unlock()
		return true
	}), 2, 10, time.Second, testLogger())
	pool.Start()

	for _, id := range []string{"a", "b", "c", "d"} {
		if err := pool.Enqueue(context.Background(), Job{ID: id}); err != nil {
			t.Fatalf("enqueue %s: %v", id, err)
		}
	}
	pool.Stop()

	mu.Lock()
	defer mu.Unlock()
	if len(delivered) != 4 {
		t.Errorf("expected all 4 jobs delivered before Stop returned, got %v", delivered)
	}
	if err := pool.Enqueue(context.Background(), Job{ID: "late"}); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("expected ErrPoolClosed after Stop, got %v", err)
	}
}

func TestWorkerPool_DropsWhenFull(t *testing.T) {
	pool := NewWorkerPool(handlerFunc(func(context.Context, Job) bool { return true }), 1, 1, time.Second, testLogger())

	// Not started: the single buffer slot fills and the next job is dropped.
	if err := pool.Enqueue(context.Background(), Job{ID: "a"}); err != nil {
		t.Fatalf("first enqueue: %v", err)
	}
	if err := pool.Enqueue(context.Background(), Job{ID: "b"}); !errors.Is(err, ErrQueueFull) {
		t.Errorf("expected ErrQueueFull, got %v", err)
	}
	pool.Stop()
}

func TestWorkerPool_RecoversFromPanics(t *testing.T) {
	done := make(chan struct{}, 2)
	pool := NewWorkerPool(handlerFunc(func(_ context.Context, job Job) bool {
		defer func() { done <- struct{}{} }()
		if job.ID == "boom" {
			panic("boom")
		}
		return true
	}), 1, 2, time.Second, testLogger())
	pool.Start()
	defer pool.Stop()

	_ = pool.Enqueue(context.Background(), Job{ID: "boom"})
	_ = pool.Enqueue(context.Background(), Job{ID: "ok"})

	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("worker did not survive the panic")
		}
	}
}

type publishFunc func(ctx context.Context, msg kafka.Message) error

func (f publishFunc) Publish(ctx context.Context, msg kafka.Message) error { return f(ctx, msg) }

func TestKafkaQueueRoundTrip(t *testing.T) {
	var published kafka.Message
	q := NewKafkaQueue(publishFunc(func(_ context.Context, msg kafka.Message) error {
		published = msg
		return nil
	}), "rendezvous-api")

	job := testJob(KindConfirmation, allChannels())
	if err := q.Enqueue(context.Background(), job); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if published.Key != "appt-1" || published.EventType() != string(KindConfirmation) || published.EventID() != "job-1" {
		t.Errorf("unexpected message envelope: key=%q headers=%v", published.Key, published.Headers)
	}

	var got Job
	handler := NewKafkaHandler(handlerFunc(func(_ context.Context, j Job) bool {
		got = j
		return false
	}), testLogger())
	if err := handler(context.Background(), published); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if got.Appointment.ID != "appt-1" || got.Appointment.Time.String() != "09:00" || got.Settings.BusinessName != "Plomberie Martin" {
		t.Errorf("job not decoded: %+v", got)
	}
}

func TestKafkaHandler_BadPayloadIsPermanent(t *testing.T) {
	handler := NewKafkaHandler(handlerFunc(func(context.Context, Job) bool {
		t.Error("dispatcher must not be called")
		return true
	}), testLogger())

	err := handler(context.Background(), kafka.Message{Value: []byte("{nope"), Headers: map[string]string{}})
	if kafka.ClassifyError(err) != kafka.ErrorTypePermanent {
		t.Errorf("expected permanent error, got %v", err)
	}
}

func TestWebhookSender_SignsBody(t *testing.T) {
	var gotAuth, gotSig string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotSig = r.Header.Get(SignatureHeader)
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	s := NewWebhookSender(srv.URL, "s3cret")
	if err := s.Send(context.Background(), "+33612345678", "hello"); err != nil {
		t.Fatalf("send: %v", err)
	}

	if gotAuth != "Bearer s3cret" {
		t.Errorf("unexpected auth header %q", gotAuth)
	}
	if !VerifySignature(gotBody, gotSig, "s3cret") {
		t.Errorf("signature %q does not verify", gotSig)
	}
	var payload map[string]string
	if err := json.Unmarshal(gotBody, &payload); err != nil || payload["to"] != "+33612345678" || payload["body"] != "hello" {
		t.Errorf("unexpected payload %s", gotBody)
	}
}

func TestWebhookSender_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	if err := NewWebhookSender(srv.URL, "").Send(context.Background(), "+1", "x"); err == nil {
		t.Error("expected error for 502")
	}
}

func TestTwilioSender(t *testing.T) {
	var gotPath, gotTo, gotFrom, gotUser string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, _, _ = r.BasicAuth()
		_ = r.ParseForm()
		gotTo, gotFrom = r.PostForm.Get("To"), r.PostForm.Get("From")
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	s := NewTwilioSender("AC123", "token", "+33700000000")
	s.baseURL = srv.URL
	if err := s.Send(context.Background(), "+33612345678", "hi"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if gotPath != "/Accounts/AC123/Messages.json" || gotUser != "AC123" {
		t.Errorf("unexpected request path=%q user=%q", gotPath, gotUser)
	}
	if gotTo != "+33612345678" || gotFrom != "+33700000000" {
		t.Errorf("unexpected form to=%q from=%q", gotTo, gotFrom)
	}
}

func TestBuildMessage(t *testing.T) {
	msg := buildMessage(Address{Name: "Shop", Email: "shop@example.com"}.String(), "a@example.com", "Hi", "<p>x</p>", time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC))

	for _, want := range []string{"From: Shop <shop@example.com>\r\n", "To: a@example.com\r\n", "Content-Type: text/html; charset=utf-8\r\n", "\r\n\r\n<p>x</p>"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
}
