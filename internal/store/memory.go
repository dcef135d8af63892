// Package store provides the in-memory record collections owned by each
// resource service. Nothing is persisted; a store lives exactly as long as
// the process that created it.
package store

import (
	"errors"
	"sync"
)

// ErrNotFound is returned when no record has the requested id.
var ErrNotFound = errors.New("record not found")

// Record is anything addressable by a stable string id.
type Record interface {
	GetID() string
}

// Memory is an insertion-ordered collection of records.
// It is safe for concurrent use.
type Memory[T Record] struct {
	mu    sync.RWMutex
	items []T
}

// NewMemory creates an empty store.
func NewMemory[T Record]() *Memory[T] {
	return &Memory[T]{items: make([]T, 0)}
}

// List returns a copy of every record in insertion order.
// The result is never nil.
func (s *Memory[T]) List() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Filter returns the records matching keep, in insertion order.
// The result is never nil.
func (s *Memory[T]) Filter(keep func(T) bool) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, 0)
	for _, item := range s.items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// Get returns the record with the given id.
func (s *Memory[T]) Get(id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.items[i], nil
	}
	var zero T
	return zero, ErrNotFound
}

// Append adds a record at the end of the collection.
func (s *Memory[T]) Append(item T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = append(s.items, item)
}

// Update replaces the record with the given id by the result of fn,
// keeping its position. If fn returns an error the store is left untouched
// and the error is returned as is.
func (s *Memory[T]) Update(id string, fn func(T) (T, error)) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	i := s.indexOf(id)
	if i < 0 {
		return zero, ErrNotFound
	}

	updated, err := fn(s.items[i])
	if err != nil {
		return zero, err
	}
	s.items[i] = updated
	return updated, nil
}

// Remove deletes the record with the given id and returns it.
func (s *Memory[T]) Remove(id string) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	i := s.indexOf(id)
	if i < 0 {
		return zero, ErrNotFound
	}

	removed := s.items[i]
	s.items = append(s.items[:i], s.items[i+1:]...)
	return removed, nil
}

// Clear removes every record and reports how many were dropped.
func (s *Memory[T]) Clear() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.items)
	s.items = make([]T, 0)
	return n
}

// Len returns the number of records.
func (s *Memory[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.items)
}

// indexOf must be called with mu held.
func (s *Memory[T]) indexOf(id string) int {
	for i, item := range s.items {
		if item.GetID() == id {
			return i
		}
	}
	return -1
}
