package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mfgsight/qualitycast/internal/utils"
)

// ErrClosed is returned when publishing to a closed publisher
var ErrClosed = errors.New("publisher closed")

// MemoryPublisher buffers messages per subject in process. It backs the
// default configuration and tests.
type MemoryPublisher struct {
	channels map[string]chan []byte
	capacity int
	closed   bool
	mu       sync.RWMutex
}

// newMemoryPublisher creates a new in-memory publisher
func newMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{
		channels: make(map[string]chan []byte),
		capacity: utils.MemoryQueueCapacity,
	}
}

// channel returns the subject's buffer, creating it on first use
func (q *MemoryPublisher) channel(subject string) (chan []byte, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil, ErrClosed
	}
	if ch, exists := q.channels[subject]; exists {
		return ch, nil
	}

	ch := make(chan []byte, q.capacity)
	q.channels[subject] = ch
	return ch, nil
}

// Publish copies data into the subject's buffer
func (q *MemoryPublisher) Publish(ctx context.Context, subject string, data []byte) error {
	ch, err := q.channel(subject)
	if err != nil {
		return err
	}

	dataCopy := make([]byte, len(data))
	copy(dataCopy, data)

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	select {
	case ch <- dataCopy:
		return nil
	default:
		return fmt.Errorf("channel full for subject: %s", subject)
	}
}

// PublishBatch publishes messages in order, skipping ones that fail
func (q *MemoryPublisher) PublishBatch(ctx context.Context, messages []BatchMessage) (int, error) {
	successCount := 0
	var lastErr error

	for _, msg := range messages {
		if err := q.Publish(ctx, msg.Subject, msg.Data); err != nil {
			lastErr = err
			continue
		}
		successCount++
	}

	if successCount == 0 && lastErr != nil {
		return 0, fmt.Errorf("failed to publish batch: %w", lastErr)
	}
	return successCount, nil
}

// Drain removes and returns every message buffered for subject
func (q *MemoryPublisher) Drain(subject string) [][]byte {
	q.mu.RLock()
	ch, exists := q.channels[subject]
	q.mu.RUnlock()
	if !exists {
		return nil
	}

	var messages [][]byte
	for {
		select {
		case data, ok := <-ch:
			if !ok {
				return messages
			}
			messages = append(messages, data)
		default:
			return messages
		}
	}
}

// PendingCount returns the number of buffered messages for a subject
func (q *MemoryPublisher) PendingCount(subject string) int {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if ch, exists := q.channels[subject]; exists {
		return len(ch)
	}
	return 0
}

// Close drops all buffers; later publishes fail with ErrClosed
func (q *MemoryPublisher) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	for subject := range q.channels {
		delete(q.channels, subject)
	}
	return nil
}
