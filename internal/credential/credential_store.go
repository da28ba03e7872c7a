// Package credential persists the signed-in user record between runs.
//
// The secure file store encrypts every value with AES-256-GCM. The plain file
// store is the weaker fallback for hosts without a key (the browser
// localStorage analogue); it is kept on purpose and warns when constructed.
package credential

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// UserKey is the key the auth context stores its serialized identity under.
const UserKey = "user"

var (
	ErrInvalidKey = errors.New("credential: invalid key")
	// ErrCorrupt means a stored value exists but cannot be read back.
	ErrCorrupt = errors.New("credential: stored value is unreadable")
)

//go:generate mockgen -source=credential_store.go -destination=mock/credential_store_mock.go -package=mock
type Store interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

func validateKey(key string) error {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return ErrInvalidKey
	}
	return nil
}

// MemoryStore keeps values for the lifetime of the process.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	if err := validateKey(key); err != nil {
		return "", false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	m.data[key] = value
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Remove(_ context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}
