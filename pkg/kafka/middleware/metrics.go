package kafka_middleware

import (
	"context"
	"time"

	"rendezvous/pkg/kafka"
	"rendezvous/pkg/metrics"
)

const (
	directionPublish = "publish"
	directionConsume = "consume"
)

func MetricsProducerMiddleware() kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next kafka.PublishFunc) error {
		start := time.Now()
		err := next(ctx, msg)
		observe(directionPublish, msg, start, err)
		return err
	}
}

func MetricsConsumerMiddleware() kafka.ConsumerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next kafka.MessageHandler) error {
		start := time.Now()
		err := next(ctx, msg)
		observe(directionConsume, msg, start, err)
		return err
	}
}

func observe(direction string, msg kafka.Message, start time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	metrics.KafkaMessages.WithLabelValues(direction, msg.Topic, outcome).Inc()
	metrics.KafkaDuration.WithLabelValues(direction, msg.Topic).Observe(time.Since(start).Seconds())
}
