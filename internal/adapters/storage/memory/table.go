package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// Table es un repo in-memory genérico con ids autoincrementales.
type Table[T any] struct {
	mu   sync.RWMutex
	byID map[int64]T
	next int64
}

func NewTable[T any]() *Table[T] {
	return &Table[T]{byID: make(map[int64]T)}
}

// Create asigna el próximo id y guarda lo que devuelve build.
func (t *Table[T]) Create(ctx context.Context, build func(id int64) T) T {
	v, _ := t.CreateIf(ctx, nil, build)
	return v
}

// CreateIf es Create atómico con chequeo previo: si conflict devuelve true
// para alguna fila existente, no crea nada y retorna ErrConflict.
func (t *Table[T]) CreateIf(ctx context.Context, conflict func(T) bool, build func(id int64) T) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if conflict != nil {
		for _, v := range t.byID {
			if conflict(v) {
				var zero T
				return zero, ErrConflict
			}
		}
	}

	t.next++
	v := build(t.next)
	t.byID[t.next] = v
	return v, nil
}

func (t *Table[T]) Get(ctx context.Context, id int64) (T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	v, ok := t.byID[id]
	if !ok {
		var zero T
		return zero, ErrNotFound
	}
	return v, nil
}

// Update aplica fn sobre la fila id bajo lock.
func (t *Table[T]) Update(ctx context.Context, id int64, fn func(T) (T, error)) (T, error) {
	return t.UpdateIf(ctx, id, nil, fn)
}

// UpdateIf es Update atómico con chequeo previo: si conflict devuelve true
// para alguna otra fila, no cambia nada y retorna ErrConflict.
func (t *Table[T]) UpdateIf(ctx context.Context, id int64, conflict func(T) bool, fn func(T) (T, error)) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cur, ok := t.byID[id]
	if !ok {
		var zero T
		return zero, ErrNotFound
	}
	if conflict != nil {
		for other, v := range t.byID {
			if other != id && conflict(v) {
				return cur, ErrConflict
			}
		}
	}
	next, err := fn(cur)
	if err != nil {
		return cur, err
	}
	t.byID[id] = next
	return next, nil
}

func (t *Table[T]) Delete(ctx context.Context, id int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.byID[id]; !ok {
		return ErrNotFound
	}
	delete(t.byID, id)
	return nil
}

// List devuelve las filas que cumplen match (nil = todas), ordenadas por id.
func (t *Table[T]) List(ctx context.Context, match func(T) bool) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ids := make([]int64, 0, len(t.byID))
	for id, v := range t.byID {
		if match == nil || match(v) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, t.byID[id])
	}
	return out
}

// Find devuelve la primera fila (por id) que cumple match.
func (t *Table[T]) Find(ctx context.Context, match func(T) bool) (T, error) {
	rows := t.List(ctx, match)
	if len(rows) == 0 {
		var zero T
		return zero, ErrNotFound
	}
	return rows[0], nil
}
