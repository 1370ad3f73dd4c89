// Package store provides the key-value persistence layer for server and
// client session records.
//
// Records serialize to JSON under flat keys: servers as server:<id>, clients
// as client:<id>_server:<serverID> so that a server's clients can be found
// (and cascade-deleted) with a single pattern query. Two backends are
// provided: an in-process MemoryStore and a Redis-backed RedisStore.
package store

import (
	"context"
	"errors"
)

var (
	// ErrServerAlreadyRunning is returned when starting a server whose name
	// is already bound to a running server record. Not retryable: the
	// operator must stop the existing instance first.
	ErrServerAlreadyRunning = errors.New("server already running")

	// ErrNotFound is returned when a record key does not exist.
	ErrNotFound = errors.New("record not found")
)

// KV is the minimal key-value contract both backends implement. Pattern
// queries use Redis KEYS glob syntax ('*' wildcard).
//
// Each key is written by at most one connection or one server process, so
// backends only need per-key atomicity, not cross-key transactions.
type KV interface {
	// Get returns the value stored under key, with found=false when absent.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Keys returns every key matching the glob pattern.
	Keys(ctx context.Context, pattern string) ([]string, error)
	// Flush removes every key.
	Flush(ctx context.Context) error
	// Close releases backend resources.
	Close() error
}
