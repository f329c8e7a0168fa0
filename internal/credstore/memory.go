package credstore

import (
	"context"
	"sync"
)

// Memory is an in-memory credential store with the same contract as Store.
// Used by tests and by callers that do not want durable token slots.
type Memory struct {
	mu    sync.Mutex
	slots map[string]string
}

// NewMemory creates an empty in-memory credential store.
func NewMemory() *Memory {
	return &Memory{slots: make(map[string]string)}
}

// Get returns the token stored in the slot, if any.
func (m *Memory) Get(_ context.Context, slot string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	token, ok := m.slots[slot]
	return token, ok, nil
}

// Put stores the token in the slot, replacing any previous value.
func (m *Memory) Put(_ context.Context, slot, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[slot] = token
	return nil
}

// Delete removes the slot. Deleting an absent slot is not an error.
func (m *Memory) Delete(_ context.Context, slot string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, slot)
	return nil
}
