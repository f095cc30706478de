package cache

import (
	"context"
	"sync"
	"time"
)

type counter struct {
	value     int64
	expiresAt time.Time
}

func (c counter) alive(now time.Time) bool {
	return now.Before(c.expiresAt)
}

// InMemoryCounterStore implements CounterStore with a map.
// State is per process, so limits are per instance when several run.
type InMemoryCounterStore struct {
	mu        sync.Mutex
	entries   map[string]counter
	now       func() time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryCounterStore creates the store and starts its cleanup goroutine
func NewInMemoryCounterStore() *InMemoryCounterStore {
	s := &InMemoryCounterStore{
		entries:  make(map[string]counter),
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
	s.wg.Add(1)
	go s.cleanupLoop()
	return s
}

// Incr increments key inside its window
func (s *InMemoryCounterStore) Incr(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	c, ok := s.entries[key]
	if !ok || !c.alive(now) {
		c = counter{expiresAt: now.Add(window)}
	}
	c.value++
	s.entries[key] = c
	return c.value, c.expiresAt.Sub(now), nil
}

// Get returns the counter value
func (s *InMemoryCounterStore) Get(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.entries[key]
	if !ok || !c.alive(s.now()) {
		return 0, nil
	}
	return c.value, nil
}

// SetFlag stores key with ttl
func (s *InMemoryCounterStore) SetFlag(_ context.Context, key string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = counter{value: 1, expiresAt: s.now().Add(ttl)}
	return nil
}

// TTL returns the remaining lifetime of key
func (s *InMemoryCounterStore) TTL(_ context.Context, key string) (time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	c, ok := s.entries[key]
	if !ok || !c.alive(now) {
		return 0, nil
	}
	return c.expiresAt.Sub(now), nil
}

// Delete removes keys
func (s *InMemoryCounterStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, k := range keys {
		delete(s.entries, k)
	}
	return nil
}

// Close stops the cleanup goroutine. Safe to call more than once.
func (s *InMemoryCounterStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

// Size returns the number of stored keys, expired ones included until the next cleanup
func (s *InMemoryCounterStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *InMemoryCounterStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

func (s *InMemoryCounterStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, c := range s.entries {
		if !c.alive(now) {
			delete(s.entries, k)
		}
	}
}

var _ CounterStore = (*InMemoryCounterStore)(nil)
