package kafka_config

import "time"

const (
	// Empty means Kafka is disabled and notifications are dispatched in-process.
	DefaultKafkaBrokers = ""

	DefaultNotificationsTopic = "appointment-notifications"
	DefaultNotificationsDLQ   = "appointment-notifications-dlq"
	DefaultConsumerGroup      = "rendezvous-notifier"

	DefaultProducerMaxAttempts  = 3
	DefaultProducerBatchTimeout = 10 * time.Millisecond
	DefaultProducerRequireAcks  = -1
	DefaultProducerCompression  = "snappy"

	DefaultConsumerStartOffset    = -2 // oldest, so jobs published before the notifier started are not lost
	DefaultConsumerMaxWait        = 500 * time.Millisecond
	DefaultConsumerCommitInterval = 1 * time.Second
	DefaultConsumerSessionTimeout = 10 * time.Second
	DefaultConsumerMaxRetries     = 3
	DefaultConsumerRetryBackoff   = 2 * time.Second
)
