// Package memory is an in-process implementation of the repository contract.
// It backs the unit tests and the STORE_DRIVER=memory demo mode.
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/smarttest/internal/repository"
	"github.com/google/uuid"
)

// table keeps rows in insertion order; every read hands out a clone.
type table[T any] struct {
	mu      sync.RWMutex
	rows    map[uuid.UUID]T
	order   []uuid.UUID
	idOf    func(*T) *uuid.UUID
	clone   func(T) T
	created func(*T) time.Time
}

func newTable[T any](idOf func(*T) *uuid.UUID, created func(*T) time.Time, clone func(T) T) *table[T] {
	return &table[T]{
		rows:    make(map[uuid.UUID]T),
		idOf:    idOf,
		clone:   clone,
		created: created,
	}
}

func (t *table[T]) insert(row *T) error {
	id := t.idOf(row)
	if *id == uuid.Nil {
		*id = uuid.New()
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.rows[*id]; exists {
		return repository.ErrConflict
	}
	t.rows[*id] = t.clone(*row)
	t.order = append(t.order, *id)
	return nil
}

func (t *table[T]) save(row *T) error {
	id := *t.idOf(row)
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.rows[id]; !exists {
		t.order = append(t.order, id)
	}
	t.rows[id] = t.clone(*row)
	return nil
}

func (t *table[T]) remove(id uuid.UUID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.rows[id]; !exists {
		return repository.ErrNotFound
	}
	delete(t.rows, id)
	for i, existing := range t.order {
		if existing == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return nil
}

func (t *table[T]) get(id uuid.UUID) (*T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	row, ok := t.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := t.clone(row)
	return &c, nil
}

func (t *table[T]) first(match func(*T) bool) (*T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, id := range t.order {
		row := t.rows[id]
		if match(&row) {
			c := t.clone(row)
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

// ascending returns matching rows oldest first, ties in insertion order.
func (t *table[T]) ascending(match func(*T) bool) []T {
	out := t.filter(match, false)
	sort.SliceStable(out, func(i, j int) bool {
		return t.created(&out[i]).Before(t.created(&out[j]))
	})
	return out
}

// descending returns matching rows newest first, ties latest insert first.
func (t *table[T]) descending(match func(*T) bool) []T {
	out := t.filter(match, true)
	sort.SliceStable(out, func(i, j int) bool {
		return t.created(&out[i]).After(t.created(&out[j]))
	})
	return out
}

func (t *table[T]) filter(match func(*T) bool, reverse bool) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]T, 0, len(t.order))
	for i := range t.order {
		idx := i
		if reverse {
			idx = len(t.order) - 1 - i
		}
		row := t.rows[t.order[idx]]
		if match == nil || match(&row) {
			out = append(out, t.clone(row))
		}
	}
	return out
}
