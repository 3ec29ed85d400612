package queue

import (
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
)

// setupTestNATS creates an embedded JetStream-enabled NATS server
func setupTestNATS(t *testing.T) (*server.Server, string, func()) {
	t.Helper()

	opts := &server.Options{
		Host:      "127.0.0.1",
		Port:      -1, // Random port
		JetStream: true,
		StoreDir:  t.TempDir(),
	}

	ns, err := server.NewServer(opts)
	if err != nil {
		t.Fatalf("Failed to create NATS server: %v", err)
	}

	go ns.Start()

	if !ns.ReadyForConnections(5 * time.Second) {
		t.Fatal("NATS server not ready")
	}

	cleanup := func() {
		ns.Shutdown()
		ns.WaitForShutdown()
	}

	return ns, ns.ClientURL(), cleanup
}
