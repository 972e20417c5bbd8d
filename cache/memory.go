package cache

import (
	"context"
	"sync"
	"time"
)

type memoryItem struct {
	value    []byte
	expireAt time.Time
}

// Memory is an in-process TTL cache. A background janitor drops expired
// entries; Get also checks expiry so stale reads cannot occur between
// sweeps.
type Memory struct {
	mu     sync.RWMutex
	data   map[string]memoryItem
	ticker *time.Ticker
	done   chan struct{}
}

// NewMemory creates an in-memory cache with the given janitor interval.
func NewMemory(cleanupInterval time.Duration) *Memory {
	if cleanupInterval <= 0 {
		cleanupInterval = 5 * time.Minute
	}
	m := &Memory{
		data:   make(map[string]memoryItem),
		ticker: time.NewTicker(cleanupInterval),
		done:   make(chan struct{}),
	}
	go m.janitor()
	return m
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	item, ok := m.data[key]
	m.mu.RUnlock()
	if !ok || time.Now().After(item.expireAt) {
		return nil, ErrMiss
	}
	return item.value, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = time.Minute
	}
	m.mu.Lock()
	m.data[key] = memoryItem{value: value, expireAt: time.Now().Add(ttl)}
	m.mu.Unlock()
	return nil
}

func (m *Memory) Close() error {
	m.ticker.Stop()
	close(m.done)
	return nil
}

func (m *Memory) janitor() {
	for {
		select {
		case <-m.done:
			return
		case <-m.ticker.C:
			now := time.Now()
			m.mu.Lock()
			for k, item := range m.data {
				if now.After(item.expireAt) {
					delete(m.data, k)
				}
			}
			m.mu.Unlock()
		}
	}
}
