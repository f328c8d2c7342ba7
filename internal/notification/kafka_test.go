package notification

import (
	"context"
	"testing"

	"rendezvous/pkg/kafka"
	"rendezvous/pkg/middleware"
)

func TestKafkaQueue_CarriesRequestID(t *testing.T) {
	var published kafka.Message
	q := NewKafkaQueue(publishFunc(func(_ context.Context, msg kafka.Message) error {
		published = msg
		return nil
	}), "rendezvous-api")

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-42")
	if err := q.Enqueue(context.WithoutCancel(ctx), testJob(KindCancellation, allChannels())); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if got := published.CorrelationID(); got != "req-42" {
		t.Errorf("expected correlation id req-42, got %q", got)
	}
	if published.Headers[kafka.HeaderSchemaVersion] != jobSchemaVersion {
		t.Errorf("expected schema version header, got %v", published.Headers)
	}
}

func TestKafkaQueue_NoRequestIDLeavesHeaderUnset(t *testing.T) {
	var published kafka.Message
	q := NewKafkaQueue(publishFunc(func(_ context.Context, msg kafka.Message) error {
		published = msg
		return nil
	}), "rendezvous-scheduler")

	if err := q.Enqueue(context.Background(), testJob(KindConfirmation, allChannels())); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if _, ok := published.Headers[kafka.HeaderCorrelationID]; ok {
		t.Errorf("correlation header should be absent, got %v", published.Headers)
	}
}
