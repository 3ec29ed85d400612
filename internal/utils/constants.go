package utils

import "time"

// =============================================================================
// Timeout Constants
// =============================================================================

const (
	// DefaultRequestTimeout bounds a single analytics request
	DefaultRequestTimeout = 30 * time.Second

	// BrokerConnectTimeout bounds the initial broker handshake
	BrokerConnectTimeout = 5 * time.Second

	// ShutdownTimeout bounds graceful server shutdown
	ShutdownTimeout = 10 * time.Second
)

// =============================================================================
// Buffer and Batch Size Constants
// =============================================================================

const (
	// MemoryQueueCapacity is the per-subject buffer of the in-memory publisher
	MemoryQueueCapacity = 1000

	// KafkaBatchSize is the producer batch size
	KafkaBatchSize = 100

	// KafkaBatchTimeout is the producer batch flush interval
	KafkaBatchTimeout = 10 * time.Millisecond

	// DefaultMaxRetries is the default number of publish attempts
	DefaultMaxRetries = 3
)

// =============================================================================
// Queue Type Constants
// =============================================================================

// QueueType represents the type of message queue
type QueueType string

const (
	// QueueTypeNATS represents NATS JetStream queue
	QueueTypeNATS QueueType = "nats"

	// QueueTypeRedis represents Redis Streams queue
	QueueTypeRedis QueueType = "redis"

	// QueueTypeKafka represents Apache Kafka queue
	QueueTypeKafka QueueType = "kafka"

	// QueueTypeMemory represents in-memory queue (default)
	QueueTypeMemory QueueType = "memory"
)
