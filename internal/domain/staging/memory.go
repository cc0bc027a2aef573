package staging

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	entry     Entry
	expiresAt time.Time
}

// MemoryStore is an in-process Store. It backs single-node deployments and
// serves as the fallback tier when the primary store is unavailable. A
// background janitor sweeps expired entries opportunistically; reads never
// depend on the sweep.
type MemoryStore struct {
	mu      sync.RWMutex
	buffers map[string]map[string]memoryEntry

	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemoryStore creates a store and starts its janitor.
func NewMemoryStore(sweepInterval time.Duration) *MemoryStore {
	if sweepInterval <= 0 {
		sweepInterval = time.Minute
	}
	s := &MemoryStore{
		buffers: make(map[string]map[string]memoryEntry),
		stop:    make(chan struct{}),
	}
	go s.janitor(sweepInterval)
	return s
}

// Close stops the janitor.
func (s *MemoryStore) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *MemoryStore) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sweep(time.Now())
		}
	}
}

func (s *MemoryStore) sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for name, buf := range s.buffers {
		for key, me := range buf {
			if now.After(me.expiresAt) {
				delete(buf, key)
			}
		}
		if len(buf) == 0 {
			delete(s.buffers, name)
		}
	}
}

// Set implements Store.
func (s *MemoryStore) Set(ctx context.Context, buffer, key string, e Entry, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	buf, ok := s.buffers[buffer]
	if !ok {
		buf = make(map[string]memoryEntry)
		s.buffers[buffer] = buf
	}
	buf[key] = memoryEntry{entry: e, expiresAt: time.Now().Add(ttl)}
	return nil
}

// Get implements Store. Expired entries are invisible even before the
// janitor removes them.
func (s *MemoryStore) Get(ctx context.Context, buffer, key string) (Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	me, ok := s.buffers[buffer][key]
	if !ok || time.Now().After(me.expiresAt) {
		return Entry{}, false, nil
	}
	return me.entry, true, nil
}

// Remove implements Store.
func (s *MemoryStore) Remove(ctx context.Context, buffer, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.buffers[buffer], key)
	return nil
}

// ListLiveKeys implements Store.
func (s *MemoryStore) ListLiveKeys(ctx context.Context, buffer string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	now := time.Now()
	keys := make([]string, 0, len(s.buffers[buffer]))
	for key, me := range s.buffers[buffer] {
		if now.After(me.expiresAt) {
			continue
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// ListLive implements Store.
func (s *MemoryStore) ListLive(ctx context.Context, buffer string) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	now := time.Now()
	entries := make([]Entry, 0, len(s.buffers[buffer]))
	for _, me := range s.buffers[buffer] {
		if now.After(me.expiresAt) {
			continue
		}
		entries = append(entries, me.entry)
	}
	return entries, nil
}

var _ Store = (*MemoryStore)(nil)
