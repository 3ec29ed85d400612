package queue

import (
	"fmt"
	"strings"

	"github.com/mfgsight/qualitycast/internal/config"
	"github.com/mfgsight/qualitycast/internal/utils"
)

// NewPublisher creates a Publisher based on configuration.
// Default is the in-memory queue if type is not specified
func NewPublisher(cfg config.QueueConfig) (Publisher, error) {
	queueType := utils.QueueType(strings.ToLower(cfg.Type))

	if queueType == "" {
		queueType = utils.QueueTypeMemory
	}

	switch queueType {
	case utils.QueueTypeNATS:
		return newNATSPublisher(NATSConfig{
			URL:      cfg.URL,
			Username: cfg.Username,
			Password: cfg.Password,
			Stream:   cfg.NATSStream,
		})

	case utils.QueueTypeRedis:
		return newRedisPublisher(RedisConfig{
			URL:      cfg.URL,
			Password: cfg.Password,
			DB:       cfg.RedisDB,
			Stream:   cfg.RedisStream,
			MaxLen:   cfg.RedisMaxLen,
		})

	case utils.QueueTypeKafka:
		return newKafkaPublisher(KafkaConfig{
			Brokers: cfg.KafkaBrokers,
		})

	case utils.QueueTypeMemory:
		return newMemoryPublisher(), nil

	default:
		return nil, fmt.Errorf("unsupported queue type: %s (supported: memory, nats, redis, kafka)", queueType)
	}
}
