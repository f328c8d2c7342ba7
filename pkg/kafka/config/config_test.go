package kafka_config

import (
	"strings"
	"testing"
)

func TestLoad_DisabledWithoutBrokers(t *testing.T) {
	t.Setenv(EnvKafkaBrokers, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Enabled() {
		t.Errorf("expected kafka to be disabled without brokers")
	}
}

func TestLoad_SplitsBrokers(t *testing.T) {
	t.Setenv(EnvKafkaBrokers, " kafka-1:9092, ,kafka-2:9092 ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.Brokers) != 2 || cfg.Brokers[0] != "kafka-1:9092" || cfg.Brokers[1] != "kafka-2:9092" {
		t.Errorf("unexpected brokers: %v", cfg.Brokers)
	}
	if cfg.NotificationsTopic != DefaultNotificationsTopic {
		t.Errorf("expected default topic, got %s", cfg.NotificationsTopic)
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := &Config{
		Brokers:                []string{"localhost:9092"},
		NotificationsTopic:     "jobs",
		NotificationsDLQ:       "jobs",
		ConsumerGroup:          "",
		ProducerMaxAttempts:    0,
		ProducerBatchTimeout:   DefaultProducerBatchTimeout,
		ProducerRequireAcks:    2,
		ProducerCompression:    "brotli",
		ConsumerStartOffset:    -1,
		ConsumerMaxWait:        DefaultConsumerMaxWait,
		ConsumerSessionTimeout: DefaultConsumerSessionTimeout,
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}

	for _, want := range []string{"NotificationsDLQ", "ConsumerGroup", "ProducerMaxAttempts", "ProducerRequireAcks", "ProducerCompression"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected error to mention %s, got:\n%s", want, err)
		}
	}
}
