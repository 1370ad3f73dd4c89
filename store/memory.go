package store

import (
	"context"
	"path"

	"github.com/puzpuzpuz/xsync/v3"
)

// MemoryStore is an in-process KV backed by a concurrent map. It is the
// default backend for single-process deployments and for tests.
type MemoryStore struct {
	data *xsync.MapOf[string, []byte]
}

var _ KV = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: xsync.NewMapOf[string, []byte]()}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	value, ok := s.data.Load(key)
	return value, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	s.data.Store(key, value)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.data.Delete(key)
	return nil
}

func (s *MemoryStore) Keys(_ context.Context, pattern string) ([]string, error) {
	var keys []string
	s.data.Range(func(key string, _ []byte) bool {
		// record keys never contain separators that glob treats specially,
		// so path.Match implements the same '*' semantics as Redis KEYS
		if ok, err := path.Match(pattern, key); err == nil && ok {
			keys = append(keys, key)
		}
		return true
	})
	return keys, nil
}

func (s *MemoryStore) Flush(_ context.Context) error {
	s.data.Clear()
	return nil
}

func (s *MemoryStore) Close() error { return nil }
