package session

import (
	"context"
	"sync"

	a2anet "github.com/a2anet/a2anet-go"
)

// Memory is an in-memory transcript store.
type Memory struct {
	mu    sync.RWMutex
	items []a2anet.Item
}

// NewMemory creates an empty in-memory session.
func NewMemory() *Memory {
	return &Memory{}
}

// Items returns a copy of the stored transcript.
func (m *Memory) Items(ctx context.Context) ([]a2anet.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	items := make([]a2anet.Item, len(m.items))
	copy(items, m.items)
	return items, nil
}

// AddItems appends items to the transcript.
func (m *Memory) AddItems(ctx context.Context, items ...a2anet.Item) error {
	if len(items) == 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, items...)
	return nil
}

// Len returns the number of stored items.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// InMemory returns a provider that creates a fresh Memory session per
// context. The caller is expected to memoize sessions by context ID.
func InMemory() a2anet.SessionProvider {
	return func(ctx context.Context, contextID string) (a2anet.Session, error) {
		return NewMemory(), nil
	}
}

var _ a2anet.Session = (*Memory)(nil)
