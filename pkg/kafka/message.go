package kafka

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Message is the transport-neutral form of a kafka record. Values are JSON.
type Message struct {
	Key       string
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
}

// MessageHandler processes one message; a nil return commits it.
type MessageHandler func(ctx context.Context, msg Message) error

const (
	HeaderEventID       = "event-id"
	HeaderEventType     = "event-type"
	HeaderCorrelationID = "correlation-id"
	HeaderSchemaVersion = "schema-version"
	HeaderSource        = "source"
	HeaderTimestamp     = "timestamp"
	HeaderRetryCount    = "retry-count"
	HeaderOriginalTopic = "original-topic"
	HeaderDLQError      = "dlq-error"
	HeaderDLQTimestamp  = "dlq-timestamp"
	HeaderDLQGroup      = "dlq-consumer-group"
)

type MessageBuilder struct {
	msg Message
	err error
}

func NewMessage() *MessageBuilder {
	return &MessageBuilder{
		msg: Message{
			Headers:   make(map[string]string),
			Timestamp: time.Now(),
		},
	}
}

func (b *MessageBuilder) WithKey(key string) *MessageBuilder {
	b.msg.Key = key
	return b
}

// WithValue JSON-encodes value; an encoding failure surfaces from Build.
func (b *MessageBuilder) WithValue(value any) *MessageBuilder {
	data, err := json.Marshal(value)
	if err != nil {
		b.err = err
		return b
	}
	b.msg.Value = data
	return b
}

// WithHeader ignores empty values so optional headers can be chained unconditionally.
func (b *MessageBuilder) WithHeader(key, value string) *MessageBuilder {
	if value != "" {
		b.msg.Headers[key] = value
	}
	return b
}

func (b *MessageBuilder) WithEventID(id string) *MessageBuilder {
	return b.WithHeader(HeaderEventID, id)
}

func (b *MessageBuilder) WithEventType(eventType string) *MessageBuilder {
	return b.WithHeader(HeaderEventType, eventType)
}

func (b *MessageBuilder) WithCorrelationID(id string) *MessageBuilder {
	return b.WithHeader(HeaderCorrelationID, id)
}

func (b *MessageBuilder) WithSchemaVersion(version string) *MessageBuilder {
	return b.WithHeader(HeaderSchemaVersion, version)
}

func (b *MessageBuilder) WithSource(source string) *MessageBuilder {
	return b.WithHeader(HeaderSource, source)
}

// Build fills in a random event id and the timestamp header when missing.
func (b *MessageBuilder) Build() (Message, error) {
	if b.err != nil {
		return Message{}, NewPermanentError("encode message value", b.err)
	}
	if b.msg.Headers[HeaderEventID] == "" {
		b.msg.Headers[HeaderEventID] = uuid.NewString()
	}
	if b.msg.Headers[HeaderTimestamp] == "" {
		b.msg.Headers[HeaderTimestamp] = b.msg.Timestamp.UTC().Format(time.RFC3339)
	}
	return b.msg, nil
}

func (m *Message) DecodeValue(v any) error {
	return json.Unmarshal(m.Value, v)
}

func (m *Message) EventID() string       { return m.Headers[HeaderEventID] }
func (m *Message) EventType() string     { return m.Headers[HeaderEventType] }
func (m *Message) CorrelationID() string { return m.Headers[HeaderCorrelationID] }

func (m *Message) RetryCount() int {
	count, err := strconv.Atoi(m.Headers[HeaderRetryCount])
	if err != nil {
		return 0
	}
	return count
}

func (m *Message) IncrementRetryCount() {
	m.Headers[HeaderRetryCount] = strconv.Itoa(m.RetryCount() + 1)
}
