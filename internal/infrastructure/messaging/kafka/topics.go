package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/turtacn/KeyMark-Search/internal/config"
	"github.com/turtacn/KeyMark-Search/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyMark-Search/pkg/errors"
)

// Topic Constants
const (
	TopicRegistryUpdates    = config.DefaultKafkaTopic
	TopicDeadLetterRegistry = config.DefaultKafkaDeadLetterTopic
)

// Event types
const (
	EventRegistryUpdated = "registry.updated"
)

// EventEnvelope standardizes event messages.
type EventEnvelope struct {
	EventID       string            `json:"event_id"`
	EventType     string            `json:"event_type"`
	Source        string            `json:"source"`
	Timestamp     time.Time         `json:"timestamp"`
	SchemaVersion string            `json:"schema_version"`
	TraceID       string            `json:"trace_id,omitempty"`
	Payload       json.RawMessage   `json:"payload"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// RegistryUpdatedPayload announces a registry load. An empty
// ApplicationNumbers list means the update touched an unknown set.
type RegistryUpdatedPayload struct {
	ApplicationNumbers []string  `json:"application_numbers,omitempty"`
	Tables             []string  `json:"tables,omitempty"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func NewEventEnvelope(eventType string, source string, payload interface{}) (*EventEnvelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal payload")
	}
	return &EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		SchemaVersion: "v1",
		Payload:       data,
	}, nil
}

func (e *EventEnvelope) DecodePayload(target interface{}) error {
	if len(e.Payload) == 0 || string(e.Payload) == "null" {
		return nil
	}
	if err := json.Unmarshal(e.Payload, target); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to unmarshal payload")
	}
	return nil
}

func (e *EventEnvelope) ToMessage(topic string) (*ProducerMessage, error) {
	val, err := json.Marshal(e)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal envelope")
	}
	headers := map[string]string{
		"event_type":     e.EventType,
		"source_service": e.Source,
		"schema_version": e.SchemaVersion,
	}
	if e.TraceID != "" {
		headers["trace_id"] = e.TraceID
	}
	return &ProducerMessage{
		Topic:     topic,
		Key:       []byte(e.EventID),
		Value:     val,
		Headers:   headers,
		Timestamp: e.Timestamp,
	}, nil
}

func MessageToEventEnvelope(msg *Message) (*EventEnvelope, error) {
	if len(msg.Value) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "empty message value")
	}
	var env EventEnvelope
	if err := json.Unmarshal(msg.Value, &env); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to unmarshal envelope")
	}
	return &env, nil
}

// ConnInterface abstracts kafka.Conn for testing.
type ConnInterface interface {
	CreateTopics(topics ...kafka.TopicConfig) error
	ReadPartitions(topics ...string) ([]kafka.Partition, error)
	Close() error
}

// TopicManager creates the topics the worker depends on.
type TopicManager struct {
	conn   ConnInterface
	logger logging.Logger
}

func NewTopicManager(brokers []string, logger logging.Logger) (*TopicManager, error) {
	if len(brokers) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "brokers required")
	}
	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeServiceUnavailable, "failed to dial kafka")
	}
	return NewTopicManagerWithConn(conn, logger), nil
}

// NewTopicManagerWithConn wraps an existing connection (for testing).
func NewTopicManagerWithConn(conn ConnInterface, logger logging.Logger) *TopicManager {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &TopicManager{conn: conn, logger: logger}
}

func (m *TopicManager) CreateTopic(ctx context.Context, cfg TopicConfig) error {
	if cfg.Name == "" {
		return errors.New(errors.ErrCodeValidation, "topic name required")
	}
	if cfg.NumPartitions <= 0 {
		return errors.New(errors.ErrCodeValidation, "NumPartitions must be > 0")
	}
	if cfg.ReplicationFactor <= 0 {
		return errors.New(errors.ErrCodeValidation, "ReplicationFactor must be > 0")
	}

	kCfg := kafka.TopicConfig{
		Topic:             cfg.Name,
		NumPartitions:     cfg.NumPartitions,
		ReplicationFactor: cfg.ReplicationFactor,
	}
	if cfg.RetentionMs > 0 {
		kCfg.ConfigEntries = append(kCfg.ConfigEntries, kafka.ConfigEntry{ConfigName: "retention.ms", ConfigValue: fmt.Sprintf("%d", cfg.RetentionMs)})
	}
	if cfg.CleanupPolicy != "" {
		kCfg.ConfigEntries = append(kCfg.ConfigEntries, kafka.ConfigEntry{ConfigName: "cleanup.policy", ConfigValue: cfg.CleanupPolicy})
	}

	if err := m.conn.CreateTopics(kCfg); err != nil {
		if exists, _ := m.TopicExists(ctx, cfg.Name); exists {
			return nil
		}
		return errors.Wrap(err, errors.ErrCodeServiceUnavailable, "failed to create topic "+cfg.Name)
	}
	m.logger.Info("Topic created", logging.String("topic", cfg.Name))
	return nil
}

func (m *TopicManager) TopicExists(ctx context.Context, name string) (bool, error) {
	partitions, err := m.conn.ReadPartitions(name)
	if err != nil {
		return false, nil
	}
	return len(partitions) > 0, nil
}

func (m *TopicManager) EnsureTopics(ctx context.Context, topics []TopicConfig) error {
	for _, topic := range topics {
		if err := m.CreateTopic(ctx, topic); err != nil {
			return err
		}
	}
	return nil
}

func (m *TopicManager) Close() error {
	return m.conn.Close()
}

// DefaultTopics returns the update topic and its dead-letter companion.
func DefaultTopics(cfg config.KafkaConfig) []TopicConfig {
	topics := []TopicConfig{
		{Name: cfg.Topic, NumPartitions: 3, ReplicationFactor: 1, RetentionMs: 7 * 24 * 3600 * 1000},
	}
	if cfg.DeadLetter != "" {
		topics = append(topics, TopicConfig{Name: cfg.DeadLetter, NumPartitions: 1, ReplicationFactor: 1, RetentionMs: 30 * 24 * 3600 * 1000})
	}
	return topics
}

//Personal.AI order the ending
