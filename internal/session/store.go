package session

import (
	"encoding/json"
	"fmt"
	"sync"
)

const (
	TokenKey = "authToken"
	UserKey  = "user"
)

// Store persists session values by key.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// MemoryStore is a Store backed by a map.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// Load derives the session from store, clearing corrupted data.
func Load(store Store) (Session, error) {
	token, _ := store.Get(TokenKey)
	user, _ := store.Get(UserKey)
	s := Derive(Snapshot{Token: token, User: user})
	if s.Reset {
		if err := Clear(store); err != nil {
			return s, err
		}
	}
	return s, nil
}

// Save persists a signed-in session and returns its derived state.
func Save(store Store, token string, user User) (Session, error) {
	raw, err := json.Marshal(user)
	if err != nil {
		return Session{}, fmt.Errorf("encode session user: %w", err)
	}
	if err := store.Set(TokenKey, token); err != nil {
		return Session{}, err
	}
	if err := store.Set(UserKey, string(raw)); err != nil {
		return Session{}, err
	}
	return Derive(Snapshot{Token: token, User: string(raw)}), nil
}

// UpdateUser merges patch into the stored user. Fields present in the stored
// record but absent from patch are kept.
func UpdateUser(store Store, patch map[string]any) (Session, error) {
	current := map[string]any{}
	if raw, ok := store.Get(UserKey); ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &current); err != nil {
			current = map[string]any{}
		}
	}
	for k, v := range patch {
		current[k] = v
	}
	merged, err := json.Marshal(current)
	if err != nil {
		return Session{}, fmt.Errorf("encode session user: %w", err)
	}
	if err := store.Set(UserKey, string(merged)); err != nil {
		return Session{}, err
	}
	return Load(store)
}

// Clear removes all session data.
func Clear(store Store) error {
	if err := store.Delete(TokenKey); err != nil {
		return err
	}
	return store.Delete(UserKey)
}
