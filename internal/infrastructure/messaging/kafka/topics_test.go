package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/KeyMark-Search/internal/config"
	pkgerrors "github.com/turtacn/KeyMark-Search/pkg/errors"
)

type mockKafkaConn struct {
	createFunc func(topics ...kafka.TopicConfig) error
	readFunc   func(topics ...string) ([]kafka.Partition, error)
	created    []kafka.TopicConfig
}

func (m *mockKafkaConn) CreateTopics(topics ...kafka.TopicConfig) error {
	if m.createFunc != nil {
		if err := m.createFunc(topics...); err != nil {
			return err
		}
	}
	m.created = append(m.created, topics...)
	return nil
}

func (m *mockKafkaConn) ReadPartitions(topics ...string) ([]kafka.Partition, error) {
	if m.readFunc != nil {
		return m.readFunc(topics...)
	}
	return nil, nil
}

func (m *mockKafkaConn) Close() error { return nil }

func TestTopicConstants(t *testing.T) {
	assert.Equal(t, "registry.updates", TopicRegistryUpdates)
	assert.Equal(t, "dead_letter.registry", TopicDeadLetterRegistry)
}

func TestDefaultTopics(t *testing.T) {
	topics := DefaultTopics(config.KafkaConfig{Topic: "updates", DeadLetter: "dlq"})
	require.Len(t, topics, 2)
	assert.Equal(t, "updates", topics[0].Name)
	assert.Equal(t, "dlq", topics[1].Name)

	assert.Len(t, DefaultTopics(config.KafkaConfig{Topic: "updates"}), 1)
}

func TestEnsureTopics(t *testing.T) {
	conn := &mockKafkaConn{}
	m := NewTopicManagerWithConn(conn, nil)

	err := m.EnsureTopics(context.Background(), DefaultTopics(config.KafkaConfig{Topic: "updates", DeadLetter: "dlq"}))
	require.NoError(t, err)
	require.Len(t, conn.created, 2)
	assert.Equal(t, "retention.ms", conn.created[0].ConfigEntries[0].ConfigName)
}

func TestCreateTopic_AlreadyExists(t *testing.T) {
	conn := &mockKafkaConn{
		createFunc: func(topics ...kafka.TopicConfig) error { return errors.New("topic exists") },
		readFunc: func(topics ...string) ([]kafka.Partition, error) {
			return []kafka.Partition{{Topic: topics[0]}}, nil
		},
	}
	m := NewTopicManagerWithConn(conn, nil)
	assert.NoError(t, m.CreateTopic(context.Background(), TopicConfig{Name: "updates", NumPartitions: 1, ReplicationFactor: 1}))
}

func TestCreateTopic_Invalid(t *testing.T) {
	m := NewTopicManagerWithConn(&mockKafkaConn{}, nil)
	ctx := context.Background()

	assert.True(t, pkgerrors.IsValidation(m.CreateTopic(ctx, TopicConfig{})))
	assert.True(t, pkgerrors.IsValidation(m.CreateTopic(ctx, TopicConfig{Name: "x", ReplicationFactor: 1})))
	assert.True(t, pkgerrors.IsValidation(m.CreateTopic(ctx, TopicConfig{Name: "x", NumPartitions: 1})))
}

func TestEventEnvelope_RoundTrip(t *testing.T) {
	env, err := NewEventEnvelope(EventRegistryUpdated, "loader", RegistryUpdatedPayload{Tables: []string{"jiken_c_t"}})
	require.NoError(t, err)
	assert.NotEmpty(t, env.EventID)
	assert.Equal(t, "v1", env.SchemaVersion)

	pm, err := env.ToMessage(TopicRegistryUpdates)
	require.NoError(t, err)
	assert.Equal(t, EventRegistryUpdated, pm.Headers["event_type"])

	back, err := MessageToEventEnvelope(&Message{Value: pm.Value})
	require.NoError(t, err)
	assert.Equal(t, env.EventID, back.EventID)
}

func TestMessageToEventEnvelope_Errors(t *testing.T) {
	_, err := MessageToEventEnvelope(&Message{})
	assert.True(t, pkgerrors.IsValidation(err))

	_, err = MessageToEventEnvelope(&Message{Value: []byte("{")})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeSerialization))
}

//Personal.AI order the ending
