package kafka_middleware

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"rendezvous/pkg/kafka"
	"rendezvous/pkg/logger"
)

func TestLoggingConsumerMiddleware(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Output: &buf})

	msg, err := kafka.NewMessage().WithKey("a1").WithValue(map[string]string{"id": "a1"}).WithEventType("appointment.confirmed").Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	boom := errors.New("smtp down")
	mw := LoggingConsumerMiddleware(log)
	got := mw(context.Background(), msg, func(ctx context.Context, m kafka.Message) error {
		return boom
	})

	if !errors.Is(got, boom) {
		t.Fatalf("expected handler error to propagate, got %v", got)
	}
	if !strings.Contains(buf.String(), "Failed to process kafka message") {
		t.Errorf("expected failure log, got %s", buf.String())
	}
	if !strings.Contains(buf.String(), "appointment.confirmed") {
		t.Errorf("expected event type in log, got %s", buf.String())
	}
}

func TestMetricsProducerMiddleware_PassesThrough(t *testing.T) {
	msg, err := kafka.NewMessage().WithKey("a1").WithValue("x").Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	called := false
	mw := MetricsProducerMiddleware()
	if err := mw(context.Background(), msg, func(ctx context.Context, m kafka.Message) error {
		called = true
		return nil
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Error("expected next to be called")
	}
}
