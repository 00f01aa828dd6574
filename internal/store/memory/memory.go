// Package memory provides a mutex-guarded in-memory ledger store. It is
// the default backend and the test double for the service layer.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"ledger/internal/core"
)

type Store struct {
	mu    sync.Mutex
	items []core.Transaction
	index map[string]int // id -> position in items

	// now is swappable so tests can control the edit-window clock.
	now func() time.Time
}

func New() *Store {
	return &Store{
		index: make(map[string]int),
		now:   time.Now,
	}
}

// NewWithClock returns a store whose createdAt stamps come from clock.
func NewWithClock(clock func() time.Time) *Store {
	s := New()
	s.now = clock
	return s
}

func (s *Store) Append(_ context.Context, tx core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx.ID = uuid.NewString()
	tx.CreatedAt = s.now().UTC()
	s.index[tx.ID] = len(s.items)
	s.items = append(s.items, tx)
	return tx, nil
}

func (s *Store) Get(_ context.Context, id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[id]
	if !ok {
		return core.Transaction{}, &core.NotFoundError{ID: id}
	}
	return s.items[pos], nil
}

func (s *Store) Scan(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.Transaction, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *Store) Replace(_ context.Context, id string, tx core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[id]
	if !ok {
		return core.Transaction{}, &core.NotFoundError{ID: id}
	}
	// id and createdAt are assigned exactly once, at creation.
	tx.ID = s.items[pos].ID
	tx.CreatedAt = s.items[pos].CreatedAt
	s.items[pos] = tx
	return tx, nil
}

func (s *Store) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.index = make(map[string]int)
	return nil
}

func (s *Store) Close() error {
	return nil
}
