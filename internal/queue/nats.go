package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"

	"github.com/mfgsight/qualitycast/internal/utils"
)

// NATSConfig represents NATS JetStream configuration
type NATSConfig struct {
	URL      string // NATS URL (e.g., nats://localhost:4222)
	Username string // Optional user
	Password string // Optional password
	Stream   string // Stream name prefix (default: "qualitycast")
}

// NATSPublisher implements Publisher using NATS JetStream
type NATSPublisher struct {
	conn    *nats.Conn
	js      nats.JetStreamContext
	prefix  string
	streams map[string]bool
	mu      sync.Mutex
}

// newNATSPublisher connects to NATS and enables JetStream
func newNATSPublisher(cfg NATSConfig) (*NATSPublisher, error) {
	opts := []nats.Option{
		nats.Name("qualitycast"),
		nats.Timeout(utils.BrokerConnectTimeout),
	}
	if cfg.Username != "" {
		opts = append(opts, nats.UserInfo(cfg.Username, cfg.Password))
	}

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	q, err := newNATSPublisherWithConn(conn, cfg.Stream)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return q, nil
}

// newNATSPublisherWithConn wraps an existing connection (used in tests)
func newNATSPublisherWithConn(conn *nats.Conn, prefix string) (*NATSPublisher, error) {
	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}
	if prefix == "" {
		prefix = "qualitycast"
	}

	return &NATSPublisher{
		conn:    conn,
		js:      js,
		prefix:  prefix,
		streams: make(map[string]bool),
	}, nil
}

// streamName returns the JetStream stream that captures subject
func (q *NATSPublisher) streamName(subject string) string {
	return sanitizeName(q.prefix + "-" + subject)
}

// ensureStream creates the subject's stream the first time it is used
func (q *NATSPublisher) ensureStream(subject string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.streams[subject] {
		return nil
	}

	name := q.streamName(subject)
	_, err := q.js.StreamInfo(name)
	if errors.Is(err, nats.ErrStreamNotFound) {
		_, err = q.js.AddStream(&nats.StreamConfig{
			Name:     name,
			Subjects: []string{subject},
			Storage:  nats.FileStorage,
		})
	}
	if err != nil {
		return fmt.Errorf("failed to ensure stream for subject %s: %w", subject, err)
	}

	q.streams[subject] = true
	return nil
}

// Publish publishes a message and waits for the JetStream ack
func (q *NATSPublisher) Publish(ctx context.Context, subject string, data []byte) error {
	if err := q.ensureStream(subject); err != nil {
		return err
	}

	if _, err := q.js.Publish(subject, data, nats.Context(ctx)); err != nil {
		return fmt.Errorf("failed to publish to subject %s: %w", subject, err)
	}
	return nil
}

// PublishBatch queues all messages asynchronously and waits for their acks
func (q *NATSPublisher) PublishBatch(ctx context.Context, messages []BatchMessage) (int, error) {
	if len(messages) == 0 {
		return 0, nil
	}

	futures := make([]nats.PubAckFuture, 0, len(messages))
	var lastErr error

	for _, msg := range messages {
		if err := q.ensureStream(msg.Subject); err != nil {
			lastErr = err
			continue
		}
		future, err := q.js.PublishAsync(msg.Subject, msg.Data)
		if err != nil {
			lastErr = err
			continue
		}
		futures = append(futures, future)
	}

	select {
	case <-q.js.PublishAsyncComplete():
	case <-ctx.Done():
		return 0, fmt.Errorf("timeout waiting for batch publish: %w", ctx.Err())
	}

	successCount := 0
	for _, future := range futures {
		select {
		case <-future.Ok():
			successCount++
		case err := <-future.Err():
			lastErr = err
		}
	}

	if successCount == 0 && lastErr != nil {
		return 0, fmt.Errorf("failed to publish batch: %w", lastErr)
	}
	return successCount, nil
}

// Close drains pending publishes and closes the connection
func (q *NATSPublisher) Close() error {
	if err := q.conn.Drain(); err != nil {
		q.conn.Close()
		return err
	}
	return nil
}

// sanitizeName replaces characters JetStream does not allow in stream names.
// Names can only contain: A-Z, a-z, 0-9, dash (-) and underscore (_)
func sanitizeName(name string) string {
	result := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '-' || c == '_' {
			result = append(result, c)
		} else {
			result = append(result, '_')
		}
	}
	return string(result)
}
