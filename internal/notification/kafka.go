package notification

import (
	"context"
	"fmt"

	"rendezvous/pkg/kafka"
	"rendezvous/pkg/logger"
	"rendezvous/pkg/middleware"
)

const jobSchemaVersion = "1"

type Publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// KafkaQueue publishes jobs for cmd/notifier to deliver.
type KafkaQueue struct {
	producer Publisher
	source   string
}

func NewKafkaQueue(producer Publisher, source string) *KafkaQueue {
	return &KafkaQueue{producer: producer, source: source}
}

func (q *KafkaQueue) Enqueue(ctx context.Context, job Job) error {
	msg, err := kafka.NewMessage().
		WithKey(job.Appointment.ID).
		WithValue(job).
		WithEventID(job.ID).
		WithEventType(string(job.Kind)).
		WithCorrelationID(middleware.RequestIDFromContext(ctx)).
		WithSchemaVersion(jobSchemaVersion).
		WithSource(q.source).
		Build()
	if err != nil {
		return fmt.Errorf("build notification message: %w", err)
	}
	return q.producer.Publish(ctx, msg)
}

// NewKafkaHandler decodes jobs and dispatches them. Undecodable messages are
// permanent failures and go to the DLQ. Delivery failures are logged, not retried,
// so channels that already succeeded are not sent twice.
func NewKafkaHandler(handler JobHandler, log *logger.Logger) kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		var job Job
		if err := msg.DecodeValue(&job); err != nil {
			return kafka.NewPermanentError("invalid notification payload", err)
		}
		if job.Kind == "" || job.Appointment.ID == "" {
			return kafka.NewPermanentError("incomplete notification payload", nil).
				WithDetail("event_id", msg.EventID())
		}

		if !handler.Dispatch(ctx, job) {
			log.Warn("Notification delivered partially or not at all",
				"job_id", job.ID,
				"request_id", msg.CorrelationID(),
				"kind", job.Kind,
				"appointment_id", job.Appointment.ID,
			)
		}
		return nil
	}
}
