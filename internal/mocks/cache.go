package mocks

import (
	"context"
	"strconv"
	"sync"
	"time"
)

// MockCache implements the agenda cache interface with an in-memory map.
// TTLs are recorded but not enforced; tests expire entries explicitly by
// deleting them. Error fields force the corresponding operation to fail so
// fail-open behavior can be exercised.
type MockCache struct {
	mu       sync.Mutex
	Data     map[string][]byte
	TTLs     map[string]time.Duration
	Counters map[string]int64

	GetErr    error
	SetErr    error
	DeleteErr error
	IncrErr   error

	GetCalls int
	SetCalls int
}

// NewMockCache creates an empty mock cache.
func NewMockCache() *MockCache {
	return &MockCache{
		Data:     make(map[string][]byte),
		TTLs:     make(map[string]time.Duration),
		Counters: make(map[string]int64),
	}
}

// Get returns the cached value, or (nil, nil) on a miss. Counter keys are
// served from the counter map as decimal strings.
func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls++

	if m.GetErr != nil {
		return nil, m.GetErr
	}
	if n, ok := m.Counters[key]; ok {
		return []byte(strconv.FormatInt(n, 10)), nil
	}
	val, ok := m.Data[key]
	if !ok {
		return nil, nil
	}
	return val, nil
}

// Set stores a value with its TTL.
func (m *MockCache) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetCalls++

	if m.SetErr != nil {
		return m.SetErr
	}
	m.Data[key] = val
	m.TTLs[key] = ttl
	return nil
}

// Delete removes the given keys.
func (m *MockCache) Delete(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	for _, key := range keys {
		delete(m.Data, key)
		delete(m.TTLs, key)
		delete(m.Counters, key)
	}
	return nil
}

// Incr increments and returns the counter stored at key.
func (m *MockCache) Incr(ctx context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.IncrErr != nil {
		return 0, m.IncrErr
	}
	m.Counters[key]++
	return m.Counters[key], nil
}
