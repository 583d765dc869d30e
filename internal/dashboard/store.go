package dashboard

import (
	"context"
	"sync"
)

// Params are the server-side filters of one page load.
type Params map[string]string

type Loader[T any] func(ctx context.Context, params Params) ([]T, error)

// Store is one page's in-memory record list. Every Load re-fetches; nothing
// is cached across pages. Concurrent loads are memory safe but the last
// response to arrive wins.
type Store[T any] struct {
	mu      sync.RWMutex
	load    Loader[T]
	records []T
	params  Params
	err     error
}

func NewStore[T any](load Loader[T]) *Store[T] {
	return &Store[T]{load: load}
}

// Load fetches with params. On failure the previous list stays in place and
// the error is returned and kept for Err.
func (s *Store[T]) Load(ctx context.Context, params Params) ([]T, error) {
	records, err := s.load(ctx, params)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.params = params
	if err != nil {
		s.err = err
		return s.copyLocked(), err
	}
	s.records = records
	s.err = nil
	return s.copyLocked(), nil
}

// Refresh repeats the last Load.
func (s *Store[T]) Refresh(ctx context.Context) ([]T, error) {
	s.mu.RLock()
	params := s.params
	s.mu.RUnlock()
	return s.Load(ctx, params)
}

func (s *Store[T]) Records() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyLocked()
}

// Replace swaps in a list produced locally, for example after a mutation
// returned the new row.
func (s *Store[T]) Replace(records []T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append([]T(nil), records...)
}

func (s *Store[T]) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *Store[T]) copyLocked() []T {
	return append([]T(nil), s.records...)
}
