// Package cache provides the read-through cache used in front of the store.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"checkintracker/internal/domain"
)

type memoryEntry struct {
	data  []byte
	setAt time.Time
	ttl   time.Duration
}

// Memory is an in-process cache with lazy expiry. Entries are stored encoded so
// callers never share mutable values with the cache.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

var _ domain.Cache = (*Memory)(nil)

// NewMemory returns an empty Memory cache. A nil clock uses time.Now.
func NewMemory(clock func() time.Time) *Memory {
	if clock == nil {
		clock = time.Now
	}
	return &Memory{
		entries: make(map[string]memoryEntry),
		now:     clock,
	}
}

// Get decodes the live entry for key into dest. An entry older than its TTL is
// dropped and reported as absent. A TTL of zero or less never expires.
func (m *Memory) Get(_ context.Context, key string, dest any) (bool, error) {
	m.mu.Lock()
	entry, ok := m.entries[key]
	if ok && entry.ttl > 0 && m.now().Sub(entry.setAt) > entry.ttl {
		delete(m.entries, key)
		ok = false
	}
	m.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(entry.data, dest); err != nil {
		return false, fmt.Errorf("decode cache entry %q: %w", key, err)
	}
	return true, nil
}

func (m *Memory) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cache entry %q: %w", key, err)
	}
	m.mu.Lock()
	m.entries[key] = memoryEntry{data: data, setAt: m.now(), ttl: ttl}
	m.mu.Unlock()
	return nil
}

// Invalidate removes every entry whose key starts with keyPrefix.
func (m *Memory) Invalidate(_ context.Context, keyPrefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.entries {
		if strings.HasPrefix(key, keyPrefix) {
			delete(m.entries, key)
		}
	}
	return nil
}

// Len returns the number of stored entries, expired or not.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Disabled is a cache that never stores anything.
type Disabled struct{}

var _ domain.Cache = Disabled{}

func (Disabled) Get(context.Context, string, any) (bool, error) { return false, nil }

func (Disabled) Set(context.Context, string, any, time.Duration) error { return nil }

func (Disabled) Invalidate(context.Context, string) error { return nil }
