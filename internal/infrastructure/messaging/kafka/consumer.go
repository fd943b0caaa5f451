package kafka

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/KeyMark-Search/internal/config"
	"github.com/turtacn/KeyMark-Search/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyMark-Search/pkg/errors"
)

var ErrAlreadyRunning = errors.New(errors.ErrCodeValidation, "consumer already running")

// RetryConfig defines retry behavior.
type RetryConfig struct {
	MaxRetries      int
	RetryBackoff    time.Duration
	MaxRetryBackoff time.Duration
	DeadLetterTopic string
}

// ConsumerConfig holds configuration for the Consumer.
type ConsumerConfig struct {
	Brokers         []string
	GroupID         string
	Topics          []string
	AutoOffsetReset string
	CommitInterval  time.Duration
	SessionTimeout  time.Duration
	MaxWait         time.Duration
	RetryConfig     RetryConfig
}

// ConsumerConfigFrom maps the service configuration onto a ConsumerConfig.
func ConsumerConfigFrom(cfg config.KafkaConfig) ConsumerConfig {
	return ConsumerConfig{
		Brokers: cfg.Brokers,
		GroupID: cfg.GroupID,
		Topics:  []string{cfg.Topic},
		RetryConfig: RetryConfig{
			MaxRetries:      cfg.MaxRetries,
			RetryBackoff:    cfg.RetryBackoff,
			DeadLetterTopic: cfg.DeadLetter,
		},
	}
}

// ConsumerMetrics holds consumer metrics.
type ConsumerMetrics struct {
	MessagesConsumed     atomic.Int64
	MessagesProcessed    atomic.Int64
	MessagesFailed       atomic.Int64
	MessagesRetried      atomic.Int64
	MessagesDeadLettered atomic.Int64
	Lag                  atomic.Int64
}

// ReaderInterface abstracts kafka.Reader for testing.
type ReaderInterface interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// publisher is the dead-letter sink.
type publisher interface {
	Publish(ctx context.Context, msg *ProducerMessage) error
	Close() error
}

// Consumer fetches messages and dispatches them to per-topic handlers.
// Offsets are committed after a message is handled, retried out or
// dead-lettered.
type Consumer struct {
	reader ReaderInterface
	config ConsumerConfig
	logger logging.Logger

	handlers map[string]MessageHandler
	mu       sync.RWMutex

	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	deadLetter publisher
	metrics    *ConsumerMetrics
}

// NewConsumer creates a new Consumer.
func NewConsumer(cfg ConsumerConfig, logger logging.Logger) (*Consumer, error) {
	if err := ValidateConsumerConfig(cfg); err != nil {
		return nil, err
	}
	applyConsumerDefaults(&cfg)

	readerCfg := kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		GroupID:        cfg.GroupID,
		GroupTopics:    cfg.Topics,
		MinBytes:       1,
		MaxBytes:       10 * 1024 * 1024,
		MaxWait:        cfg.MaxWait,
		CommitInterval: cfg.CommitInterval,
		SessionTimeout: cfg.SessionTimeout,
		StartOffset:    kafka.FirstOffset,
		Dialer:         &kafka.Dialer{Timeout: 10 * time.Second, DualStack: true},
	}
	if cfg.AutoOffsetReset == "latest" {
		readerCfg.StartOffset = kafka.LastOffset
	}

	var dl publisher
	if cfg.RetryConfig.DeadLetterTopic != "" {
		p, err := NewProducer(ProducerConfig{Brokers: cfg.Brokers}, logger)
		if err != nil {
			return nil, err
		}
		dl = p
	}

	return newConsumer(kafka.NewReader(readerCfg), dl, cfg, logger), nil
}

func newConsumer(reader ReaderInterface, dl publisher, cfg ConsumerConfig, logger logging.Logger) *Consumer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	applyConsumerDefaults(&cfg)
	return &Consumer{
		reader:     reader,
		config:     cfg,
		logger:     logger,
		handlers:   make(map[string]MessageHandler),
		deadLetter: dl,
		metrics:    &ConsumerMetrics{},
	}
}

func applyConsumerDefaults(cfg *ConsumerConfig) {
	if cfg.AutoOffsetReset == "" {
		cfg.AutoOffsetReset = "earliest"
	}
	if cfg.SessionTimeout == 0 {
		cfg.SessionTimeout = 30 * time.Second
	}
	if cfg.MaxWait == 0 {
		cfg.MaxWait = 10 * time.Second
	}
	if cfg.RetryConfig.RetryBackoff == 0 {
		cfg.RetryConfig.RetryBackoff = time.Second
	}
	if cfg.RetryConfig.MaxRetryBackoff == 0 {
		cfg.RetryConfig.MaxRetryBackoff = 30 * time.Second
	}
}

// Subscribe registers handler for topic.
func (c *Consumer) Subscribe(topic string, handler MessageHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[topic] = handler
	c.logger.Info("Subscribed to topic", logging.String("topic", topic))
}

// Start starts the consumer loop.
func (c *Consumer) Start(ctx context.Context) error {
	if c.running.Swap(true) {
		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.wg.Add(1)
	go c.consumeLoop(ctx)

	c.logger.Info("Kafka consumer started",
		logging.String("group", c.config.GroupID),
		logging.Strings("topics", c.config.Topics))
	return nil
}

func (c *Consumer) consumeLoop(ctx context.Context) {
	defer c.wg.Done()

	for {
		if ctx.Err() != nil {
			return
		}

		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Error("FetchMessage error", logging.Err(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		c.metrics.MessagesConsumed.Add(1)
		if m.HighWaterMark > 0 {
			c.metrics.Lag.Store(m.HighWaterMark - m.Offset - 1)
		}

		msg := &Message{
			Topic:     m.Topic,
			Partition: m.Partition,
			Offset:    m.Offset,
			Key:       m.Key,
			Value:     m.Value,
			Timestamp: m.Time,
			Headers:   make(map[string]string, len(m.Headers)),
		}
		for _, h := range m.Headers {
			msg.Headers[h.Key] = string(h.Value)
		}

		c.mu.RLock()
		handler, ok := c.handlers[m.Topic]
		c.mu.RUnlock()

		if !ok {
			c.logger.Warn("No handler for topic", logging.String("topic", m.Topic))
		} else if err := c.processMessage(ctx, msg, handler); err != nil {
			if ctx.Err() != nil {
				return
			}
			c.metrics.MessagesFailed.Add(1)
		} else {
			c.metrics.MessagesProcessed.Add(1)
		}

		if err := c.reader.CommitMessages(ctx, m); err != nil && ctx.Err() == nil {
			c.logger.Error("CommitMessages failed", logging.Err(err))
		}
	}
}

// processMessage runs handler with exponential backoff. A message that still
// fails is dead-lettered when a dead-letter topic is configured.
func (c *Consumer) processMessage(ctx context.Context, msg *Message, handler MessageHandler) error {
	err := handler(ctx, msg)
	if err == nil {
		return nil
	}

	backoff := c.config.RetryConfig.RetryBackoff
	for i := 0; i < c.config.RetryConfig.MaxRetries; i++ {
		c.metrics.MessagesRetried.Add(1)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		if err = handler(ctx, msg); err == nil {
			return nil
		}

		backoff *= 2
		if backoff > c.config.RetryConfig.MaxRetryBackoff {
			backoff = c.config.RetryConfig.MaxRetryBackoff
		}
	}

	c.logger.Error("Message processing failed after retries",
		logging.String("topic", msg.Topic),
		logging.Int64("offset", msg.Offset),
		logging.Err(err))

	if c.deadLetter != nil && c.config.RetryConfig.DeadLetterTopic != "" {
		headers := make(map[string]string, len(msg.Headers)+2)
		for k, v := range msg.Headers {
			headers[k] = v
		}
		headers["original_topic"] = msg.Topic
		headers["error_message"] = err.Error()

		dlMsg := &ProducerMessage{
			Topic:   c.config.RetryConfig.DeadLetterTopic,
			Key:     msg.Key,
			Value:   msg.Value,
			Headers: headers,
		}
		if dlErr := c.deadLetter.Publish(ctx, dlMsg); dlErr != nil {
			c.logger.Error("Failed to send to dead letter queue", logging.Err(dlErr))
		} else {
			c.metrics.MessagesDeadLettered.Add(1)
		}
	}
	return err
}

// GetMetrics returns a snapshot of metrics.
func (c *Consumer) GetMetrics() ConsumerMetrics {
	m := ConsumerMetrics{}
	m.MessagesConsumed.Store(c.metrics.MessagesConsumed.Load())
	m.MessagesProcessed.Store(c.metrics.MessagesProcessed.Load())
	m.MessagesFailed.Store(c.metrics.MessagesFailed.Load())
	m.MessagesRetried.Store(c.metrics.MessagesRetried.Load())
	m.MessagesDeadLettered.Store(c.metrics.MessagesDeadLettered.Load())
	m.Lag.Store(c.metrics.Lag.Load())
	return m
}

// Close stops the loop and releases the reader.
func (c *Consumer) Close() error {
	if !c.running.CompareAndSwap(true, false) {
		return nil
	}

	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()

	var err error
	if c.reader != nil {
		err = c.reader.Close()
	}
	if c.deadLetter != nil {
		_ = c.deadLetter.Close()
	}

	c.logger.Info("Kafka consumer closed",
		logging.Int64("consumed", c.metrics.MessagesConsumed.Load()))
	return err
}

// ValidateConsumerConfig validates configuration.
func ValidateConsumerConfig(cfg ConsumerConfig) error {
	if len(cfg.Brokers) == 0 {
		return errors.New(errors.ErrCodeValidation, "Brokers required")
	}
	if cfg.GroupID == "" {
		return errors.New(errors.ErrCodeValidation, "GroupID required")
	}
	if len(cfg.Topics) == 0 {
		return errors.New(errors.ErrCodeValidation, "Topics required")
	}
	if cfg.AutoOffsetReset != "" && cfg.AutoOffsetReset != "earliest" && cfg.AutoOffsetReset != "latest" {
		return errors.New(errors.ErrCodeValidation, "Invalid AutoOffsetReset")
	}
	if cfg.RetryConfig.MaxRetries < 0 {
		return errors.New(errors.ErrCodeValidation, "MaxRetries must be >= 0")
	}
	return nil
}

//Personal.AI order the ending
