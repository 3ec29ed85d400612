package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/mfgsight/qualitycast/internal/utils"
)

// KafkaConfig represents Apache Kafka producer configuration
type KafkaConfig struct {
	Brokers      []string      // Kafka broker addresses
	BatchSize    int           // Batch size for producer (default: 100)
	BatchTimeout time.Duration // Batch timeout for producer (default: 10ms)
	RequiredAcks int           // Required acks: 0=none, 1=leader, -1=all (default: 1)
	MaxRetries   int           // Max attempts per write (default: 3)
}

// KafkaPublisher implements Publisher using Apache Kafka
type KafkaPublisher struct {
	config  KafkaConfig
	writers map[string]*kafka.Writer
	mu      sync.Mutex
}

// newKafkaPublisher validates the configuration; writers connect lazily
func newKafkaPublisher(cfg KafkaConfig) (*KafkaPublisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers not configured")
	}

	if cfg.BatchSize == 0 {
		cfg.BatchSize = utils.KafkaBatchSize
	}
	if cfg.BatchTimeout == 0 {
		cfg.BatchTimeout = utils.KafkaBatchTimeout
	}
	if cfg.RequiredAcks == 0 {
		cfg.RequiredAcks = int(kafka.RequireOne)
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = utils.DefaultMaxRetries
	}

	return &KafkaPublisher{
		config:  cfg,
		writers: make(map[string]*kafka.Writer),
	}, nil
}

// writer returns the topic's writer, creating it on first use
func (q *KafkaPublisher) writer(topic string) *kafka.Writer {
	q.mu.Lock()
	defer q.mu.Unlock()

	if w, exists := q.writers[topic]; exists {
		return w
	}

	w := &kafka.Writer{
		Addr:                   kafka.TCP(q.config.Brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchSize:              q.config.BatchSize,
		BatchTimeout:           q.config.BatchTimeout,
		RequiredAcks:           kafka.RequiredAcks(q.config.RequiredAcks),
		MaxAttempts:            q.config.MaxRetries,
		AllowAutoTopicCreation: true,
	}

	q.writers[topic] = w
	return w
}

// Publish publishes a message to a Kafka topic
func (q *KafkaPublisher) Publish(ctx context.Context, subject string, data []byte) error {
	msg := kafka.Message{
		Value: data,
		Time:  time.Now(),
	}

	if err := q.writer(subject).WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish to kafka topic %s: %w", subject, err)
	}
	return nil
}

// PublishBatch groups messages by topic and writes each group at once
func (q *KafkaPublisher) PublishBatch(ctx context.Context, messages []BatchMessage) (int, error) {
	if len(messages) == 0 {
		return 0, nil
	}

	now := time.Now()
	topicMessages := make(map[string][]kafka.Message)
	for _, msg := range messages {
		topicMessages[msg.Subject] = append(topicMessages[msg.Subject], kafka.Message{
			Value: msg.Data,
			Time:  now,
		})
	}

	successCount := 0
	var lastErr error

	for topic, msgs := range topicMessages {
		if err := q.writer(topic).WriteMessages(ctx, msgs...); err != nil {
			lastErr = err
			continue
		}
		successCount += len(msgs)
	}

	if lastErr != nil && successCount == 0 {
		return 0, fmt.Errorf("failed to publish batch: %w", lastErr)
	}
	return successCount, nil
}

// Stats returns writer stats for a topic
func (q *KafkaPublisher) Stats(topic string) kafka.WriterStats {
	q.mu.Lock()
	defer q.mu.Unlock()

	if w, exists := q.writers[topic]; exists {
		return w.Stats()
	}
	return kafka.WriterStats{}
}

// Close closes all Kafka writers
func (q *KafkaPublisher) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	var lastErr error
	for topic, w := range q.writers {
		if err := w.Close(); err != nil {
			lastErr = err
		}
		delete(q.writers, topic)
	}
	return lastErr
}
