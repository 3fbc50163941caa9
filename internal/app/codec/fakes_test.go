package codec

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"hashids.local/internal/app/codec/cache"
	"hashids.local/internal/app/codec/stats"
)

type memStore struct {
	mu       sync.Mutex
	profiles map[string]Profile
	gets     atomic.Int32
	delay    time.Duration
	usage    []UsageTotal
}

func newMemStore(ps ...Profile) *memStore {
	s := &memStore{profiles: make(map[string]Profile)}
	for _, p := range ps {
		s.profiles[p.Name] = p
	}
	return s
}

func (s *memStore) Get(ctx context.Context, name string) (Profile, error) {
	s.gets.Add(1)
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return Profile{}, ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[name]
	if !ok {
		return Profile{}, ErrProfileNotFound
	}
	return p, nil
}

func (s *memStore) Create(_ context.Context, p Profile) (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[p.Name]; ok {
		return Profile{}, ErrProfileExists
	}
	s.profiles[p.Name] = p
	return p, nil
}

func (s *memStore) List(_ context.Context, limit int) ([]Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memStore) Disable(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[name]
	if !ok {
		return ErrProfileNotFound
	}
	p.Disabled = true
	s.profiles[name] = p
	return nil
}

func (s *memStore) UsageSummary(_ context.Context, _ string, _ time.Time) ([]UsageTotal, error) {
	return s.usage, nil
}

type memCache struct {
	mu      sync.Mutex
	entries map[string]cache.Entry
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string]cache.Entry)}
}

func (c *memCache) Get(_ context.Context, key string) (cache.Entry, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	return e, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, numbers []uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cache.Entry{Numbers: numbers}
	return nil
}

func (c *memCache) SetInvalid(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cache.Entry{Invalid: true}
	return nil
}

type memCollector struct {
	mu     sync.Mutex
	events []stats.UsageEvent
}

func (c *memCollector) Collect(e stats.UsageEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

func (c *memCollector) Close() {}

func (c *memCollector) all() []stats.UsageEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]stats.UsageEvent(nil), c.events...)
}
