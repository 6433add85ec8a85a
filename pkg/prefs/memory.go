package prefs

import (
	"context"
	"sync"
)

type memKey struct {
	client string
	view   View
}

// MemoryStore keeps preferences in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	prefs map[memKey]Pref
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{prefs: make(map[memKey]Pref)}
}

func (s *MemoryStore) Get(ctx context.Context, client string, view View) (*Pref, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.prefs[memKey{client, view}]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *MemoryStore) Set(ctx context.Context, p *Pref) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prefs[memKey{p.Client, p.View}] = *p
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, client string, view View) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.prefs, memKey{client, view})
	return nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
