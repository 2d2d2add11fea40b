package storage

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// Keys held by the console, matching the browser storefront's local storage.
const (
	KeyAuthToken = "authToken"
	KeyUsername  = "username"
	KeyUser      = "user"
	KeyRole      = "role"
)

// SessionKeys are cleared together on logout or an authorization failure.
var SessionKeys = []string{KeyAuthToken, KeyUsername, KeyUser, KeyRole}

var ErrInvalidKey = errors.New("storage key must not be empty")

// Storage is a durable key/value store that survives console restarts.
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, keys ...string) error
	Clear(ctx context.Context) error
}

// InMemoryStorage is used for tests and the memory driver.
type InMemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewInMemoryStorage(seed map[string]string) *InMemoryStorage {
	s := &InMemoryStorage{values: make(map[string]string, len(seed))}
	for k, v := range seed {
		s.values[k] = v
	}
	return s
}

func (s *InMemoryStorage) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *InMemoryStorage) Set(_ context.Context, key, value string) error {
	if key == "" {
		return ErrInvalidKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *InMemoryStorage) Remove(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.values, k)
	}
	return nil
}

func (s *InMemoryStorage) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = make(map[string]string)
	return nil
}

// Keys returns the stored keys in sorted order.
func (s *InMemoryStorage) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.values))
	for k := range s.values {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
