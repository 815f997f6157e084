// Package memstore is the process-local backing used when no database is
// configured. Contents are lost on restart.
package memstore

import "sync"

// Store is a thread-safe map that remembers insertion order.
type Store[T any] struct {
	mu    sync.RWMutex
	items map[string]T
	order []string
}

func New[T any]() *Store[T] {
	return &Store[T]{items: make(map[string]T)}
}

// Set inserts or overwrites; overwrites keep their original position.
func (s *Store[T]) Set(id string, item T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setLocked(id, item)
}

func (s *Store[T]) setLocked(id string, item T) {
	if _, ok := s.items[id]; !ok {
		s.order = append(s.order, id)
	}
	s.items[id] = item
}

// Insert stores item only if id is free and reports whether it did.
func (s *Store[T]) Insert(id string, item T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; ok {
		return false
	}
	s.setLocked(id, item)
	return true
}

func (s *Store[T]) Get(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	return item, ok
}

// Update runs fn on the current value under the write lock. fn returning an
// error leaves the stored value untouched.
func (s *Store[T]) Update(id string, fn func(T) (T, error)) (T, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.items[id]
	if !ok {
		var zero T
		return zero, false, nil
	}
	next, err := fn(cur)
	if err != nil {
		return cur, true, err
	}
	s.items[id] = next
	return next, true, nil
}

func (s *Store[T]) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return false
	}
	delete(s.items, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// List returns items in insertion order, optionally filtered.
func (s *Store[T]) List(keep func(T) bool) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, 0, len(s.order))
	for _, id := range s.order {
		it := s.items[id]
		if keep == nil || keep(it) {
			out = append(out, it)
		}
	}
	return out
}

func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Trim drops the oldest entries until at most n remain.
func (s *Store[T]) Trim(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for len(s.order) > n {
		delete(s.items, s.order[0])
		s.order = s.order[1:]
	}
}
