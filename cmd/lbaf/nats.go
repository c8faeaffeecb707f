package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/nats-io/nats-server/v2/server"
)

// startEmbeddedNATS starts a JetStream-enabled server on a random local port.
//
// An empty storeDir uses a temporary directory that is removed when the
// server shuts down, so published runs do not outlive the process.
func startEmbeddedNATS(storeDir string) (*server.Server, error) {
	temporary := storeDir == ""
	if temporary {
		dir, err := os.MkdirTemp("", "lbaf-nats-*")
		if err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
		storeDir = dir
	}

	srv, err := server.NewServer(&server.Options{
		Host:      "127.0.0.1",
		Port:      server.RANDOM_PORT,
		JetStream: true,
		StoreDir:  storeDir,
		NoLog:     true,
		NoSigs:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("create NATS server: %w", err)
	}

	go srv.Start()

	if !srv.ReadyForConnections(10 * time.Second) {
		srv.Shutdown()
		return nil, errors.New("embedded NATS server not ready within timeout")
	}

	if temporary {
		go func() {
			srv.WaitForShutdown()
			_ = os.RemoveAll(storeDir) // Best effort cleanup
		}()
	}

	return srv, nil
}
