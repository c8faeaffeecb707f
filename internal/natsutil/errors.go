// Package natsutil classifies NATS client errors for the exporters.
package natsutil

import (
	"context"
	"errors"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// connectivityErrors are failures of the link to the server, not of the request.
var connectivityErrors = []error{
	nats.ErrTimeout,
	nats.ErrNoServers,
	nats.ErrDisconnected,
	nats.ErrConnectionClosed,
	nats.ErrNoResponders,
	jetstream.ErrNoStreamResponse,
	jetstream.ErrJetStreamNotEnabled,
	context.DeadlineExceeded,
}

// connectivityMessages match dial errors that the client does not wrap in a sentinel.
var connectivityMessages = []string{
	"connection refused",
	"i/o timeout",
}

// notFoundErrors report a missing key or bucket.
var notFoundErrors = []error{
	jetstream.ErrKeyNotFound,
	jetstream.ErrKeyDeleted,
	jetstream.ErrBucketNotFound,
	jetstream.ErrNoKeysFound,
}

// IsConnectivityError reports whether err was caused by the connection to
// the server rather than by the request itself.
//
// Exporters wrap these in their unavailable sentinel so callers can retry
// once the server is back.
//
// Parameters:
//   - err: Error to check
//
// Returns:
//   - bool: true if err indicates a connectivity issue
func IsConnectivityError(err error) bool {
	if err == nil {
		return false
	}

	if matchesAny(err, connectivityErrors) {
		return true
	}

	msg := err.Error()
	for _, fragment := range connectivityMessages {
		if strings.Contains(msg, fragment) {
			return true
		}
	}

	return false
}

// IsNotFound reports whether err means the key or bucket does not exist.
func IsNotFound(err error) bool {
	return err != nil && matchesAny(err, notFoundErrors)
}

func matchesAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}
