package queue

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupTestRedis(t *testing.T, cfg RedisConfig) (*miniredis.Miniredis, *RedisPublisher) {
	t.Helper()

	s := miniredis.RunT(t)
	cfg.URL = s.Addr()

	q, err := newRedisPublisher(cfg)
	if err != nil {
		t.Fatalf("Failed to create Redis publisher: %v", err)
	}
	t.Cleanup(func() { _ = q.Close() })

	return s, q
}

func TestNewRedisPublisher_Defaults(t *testing.T) {
	_, q := setupTestRedis(t, RedisConfig{})

	if q.config.Stream != "qualitycast" {
		t.Errorf("Expected default stream prefix 'qualitycast', got %q", q.config.Stream)
	}
	if got := q.streamName("anomalies"); got != "qualitycast:anomalies" {
		t.Errorf("Expected 'qualitycast:anomalies', got %q", got)
	}
}

func TestNewRedisPublisher_Unreachable(t *testing.T) {
	q, err := newRedisPublisher(RedisConfig{URL: "127.0.0.1:1"})
	if err == nil {
		_ = q.Close()
		t.Fatal("Expected error with unreachable server")
	}
}

func TestRedisPublisher_Publish(t *testing.T) {
	s, q := setupTestRedis(t, RedisConfig{Stream: "qc"})
	ctx := context.Background()

	if err := q.Publish(ctx, "anomalies", []byte(`{"index":3}`)); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer func() { _ = client.Close() }()

	entries, err := client.XRange(ctx, "qc:anomalies", "-", "+").Result()
	if err != nil {
		t.Fatalf("XRange failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	if entries[0].Values["data"] != `{"index":3}` {
		t.Errorf("Unexpected payload: %v", entries[0].Values["data"])
	}
}

func TestRedisPublisher_PublishBatch(t *testing.T) {
	s, q := setupTestRedis(t, RedisConfig{})
	ctx := context.Background()

	count, err := q.PublishBatch(ctx, []BatchMessage{
		{Subject: "a", Data: []byte("1")},
		{Subject: "a", Data: []byte("2")},
		{Subject: "b", Data: []byte("3")},
	})
	if err != nil {
		t.Fatalf("PublishBatch failed: %v", err)
	}
	if count != 3 {
		t.Errorf("Expected 3 published, got %d", count)
	}

	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer func() { _ = client.Close() }()

	if n := client.XLen(ctx, "qualitycast:a").Val(); n != 2 {
		t.Errorf("Expected 2 entries in stream a, got %d", n)
	}
	if n := client.XLen(ctx, "qualitycast:b").Val(); n != 1 {
		t.Errorf("Expected 1 entry in stream b, got %d", n)
	}
}

func TestRedisPublisher_MaxLen(t *testing.T) {
	_, q := setupTestRedis(t, RedisConfig{MaxLen: 100})

	args := q.addArgs("s", []byte("x"))
	if args.MaxLen != 100 || !args.Approx {
		t.Errorf("Expected approximate MaxLen 100, got %d approx=%v", args.MaxLen, args.Approx)
	}

	if err := q.Publish(context.Background(), "s", []byte("x")); err != nil {
		t.Fatalf("Publish with MaxLen failed: %v", err)
	}
}
