package cache

import (
	"context"
	"slices"
	"sync"
	"time"
)

var _ Cache = (*Memory)(nil)

// Memory is a process-local cache. Expired entries are treated as misses but
// stay in the map until Clear removes them; the set of keys is bounded by
// owners times views.
//
// Replicas do not share it: a write served by another process is only seen
// here after the TTL. Deployments with several replicas configure Redis.
type Memory struct {
	mu      sync.RWMutex
	ttl     time.Duration
	clock   func() time.Time
	entries map[string]entry
}

type entry struct {
	data     []byte
	storedAt time.Time
}

// MemoryOption configures a Memory cache.
type MemoryOption func(*Memory)

// WithClock overrides the time source, for tests.
func WithClock(clock func() time.Time) MemoryOption {
	return func(m *Memory) {
		if clock != nil {
			m.clock = clock
		}
	}
}

func NewMemory(ttl time.Duration, opts ...MemoryOption) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	m := &Memory{
		ttl:     ttl,
		clock:   time.Now,
		entries: make(map[string]entry),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) Get(_ context.Context, ownerID string, view View) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[Key(ownerID, view)]
	if !ok || m.clock().Sub(e.storedAt) >= m.ttl {
		return nil, false, nil
	}
	return slices.Clone(e.data), true, nil
}

func (m *Memory) Set(_ context.Context, ownerID string, view View, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[Key(ownerID, view)] = entry{data: slices.Clone(data), storedAt: m.clock()}
	return nil
}

func (m *Memory) Clear(_ context.Context, ownerID string, views ...View) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range views {
		delete(m.entries, Key(ownerID, v))
	}
	return nil
}

// Len reports the number of stored entries, expired ones included.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
