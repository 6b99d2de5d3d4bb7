// Package testutil provides in-memory repository implementations for tests.
package testutil

import (
	"context"
	"sync"

	"alcyxob/gymledger/internal/repository"
)

// InMemoryStore is a generic keyed store guarded by a mutex. Callers are
// responsible for copying values in and out.
type InMemoryStore[T any] struct {
	mu    sync.RWMutex
	items map[string]T
	order []string
}

func NewInMemoryStore[T any]() *InMemoryStore[T] {
	return &InMemoryStore[T]{items: make(map[string]T)}
}

func (s *InMemoryStore[T]) Create(_ context.Context, id string, item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[id]; exists {
		return repository.ErrDuplicate
	}
	s.items[id] = item
	s.order = append(s.order, id)
	return nil
}

func (s *InMemoryStore[T]) Get(_ context.Context, id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		var zero T
		return zero, repository.ErrNotFound
	}
	return item, nil
}

// Put stores item under id, inserting it if absent.
func (s *InMemoryStore[T]) Put(_ context.Context, id string, item T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[id]; !exists {
		s.order = append(s.order, id)
	}
	s.items[id] = item
}

func (s *InMemoryStore[T]) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.items, id)
	for i, key := range s.order {
		if key == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// List returns the items matching filter in insertion order. A nil filter
// matches everything.
func (s *InMemoryStore[T]) List(_ context.Context, filter func(T) bool) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, 0, len(s.items))
	for _, id := range s.order {
		item := s.items[id]
		if filter == nil || filter(item) {
			out = append(out, item)
		}
	}
	return out
}

// Mutate applies fn to every item under the write lock. fn returns the
// replacement and whether it changed.
func (s *InMemoryStore[T]) Mutate(fn func(T) (T, bool)) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := 0
	for id, item := range s.items {
		if next, ok := fn(item); ok {
			s.items[id] = next
			changed++
		}
	}
	return changed
}

// WithLock runs fn while holding the write lock, for read-modify-write
// operations that must be atomic.
func (s *InMemoryStore[T]) WithLock(fn func(items map[string]T) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.items)
}

func (s *InMemoryStore[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]T)
	s.order = nil
}
