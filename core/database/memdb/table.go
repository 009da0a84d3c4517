package memdb

import (
	"context"
	"database/sql"
	"fmt"
)

type row[T any] struct {
	value T
	// lock is a one-slot semaphore; the transaction that sent into it owns the row.
	lock chan struct{}
}

type uniqueIndex[T any] struct {
	name string
	key  func(T) string
	ids  map[string]string
}

// Table is a set of rows of type T keyed by id, registered on one DB.
type Table[T any] struct {
	db      *DB
	name    string
	rows    map[string]*row[T]
	order   []string
	uniques []*uniqueIndex[T]
}

func NewTable[T any](db *DB, name string) *Table[T] {
	return &Table[T]{
		db:   db,
		name: name,
		rows: make(map[string]*row[T]),
	}
}

// Unique adds a unique index over key. Must be called before any insert.
func (t *Table[T]) Unique(name string, key func(T) string) *Table[T] {
	t.uniques = append(t.uniques, &uniqueIndex[T]{name: name, key: key, ids: make(map[string]string)})
	return t
}

func (t *Table[T]) Name() string {
	return t.name
}

func (t *Table[T]) Get(id string) (T, bool) {
	t.db.rw.RLock()
	defer t.db.rw.RUnlock()

	r, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, false
	}
	return r.value, true
}

// Select returns the committed rows matching filter in insertion order. A nil
// filter matches everything.
func (t *Table[T]) Select(filter func(T) bool) []T {
	t.db.rw.RLock()
	defer t.db.rw.RUnlock()

	out := make([]T, 0, len(t.order))
	for _, id := range t.order {
		v := t.rows[id].value
		if filter == nil || filter(v) {
			out = append(out, v)
		}
	}
	return out
}

func (t *Table[T]) Len() int {
	t.db.rw.RLock()
	defer t.db.rw.RUnlock()
	return len(t.rows)
}

// FindUnique looks a row up through a unique index.
func (t *Table[T]) FindUnique(index, key string) (T, bool) {
	t.db.rw.RLock()
	defer t.db.rw.RUnlock()

	for _, u := range t.uniques {
		if u.name != index {
			continue
		}
		if id, ok := u.ids[key]; ok {
			return t.rows[id].value, true
		}
	}
	var zero T
	return zero, false
}

// LockForUpdate acquires the exclusive lock on row id for tx and returns the
// row's committed value. It blocks while another transaction holds the lock
// and returns ctx's error when the wait is abandoned. found is false when no
// such row exists; nothing is locked in that case.
func (t *Table[T]) LockForUpdate(ctx context.Context, tx *Tx, id string) (value T, found bool, err error) {
	if tx.isDone() {
		return value, false, sql.ErrTxDone
	}

	t.db.rw.RLock()
	r, ok := t.rows[id]
	t.db.rw.RUnlock()
	if !ok {
		return value, false, nil
	}

	if !tx.holds(r.lock) {
		select {
		case r.lock <- struct{}{}:
		case <-ctx.Done():
			return value, false, ctx.Err()
		case <-tx.ctx.Done():
			return value, false, tx.ctx.Err()
		}
		if !tx.hold(r.lock) {
			<-r.lock
			return value, false, sql.ErrTxDone
		}
	}

	t.db.rw.RLock()
	defer t.db.rw.RUnlock()
	return r.value, true, nil
}

// Update stages fn against row id. tx must hold the row's lock.
func (t *Table[T]) Update(tx *Tx, id string, fn func(v *T)) error {
	t.db.rw.RLock()
	r, ok := t.rows[id]
	t.db.rw.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s %s", ErrRowNotFound, t.name, id)
	}
	if !tx.holds(r.lock) {
		return fmt.Errorf("%w: %s %s", ErrNotLocked, t.name, id)
	}

	return tx.stage(write{apply: func() (func(), error) {
		prev := r.value
		next := prev
		fn(&next)
		if err := t.reindex(id, prev, next); err != nil {
			return nil, err
		}
		r.value = next
		return func() {
			_ = t.reindex(id, next, prev)
			r.value = prev
		}, nil
	}})
}

// Insert stages a new row. Duplicate ids and unique index violations are
// reported by Commit.
func (t *Table[T]) Insert(tx *Tx, id string, v T) error {
	return tx.stage(write{apply: func() (func(), error) {
		if _, exists := t.rows[id]; exists {
			return nil, fmt.Errorf("%w: %s.id=%s", ErrDuplicateKey, t.name, id)
		}
		for _, u := range t.uniques {
			if other, taken := u.ids[u.key(v)]; taken && other != id {
				return nil, fmt.Errorf("%w: %s.%s=%s", ErrDuplicateKey, t.name, u.name, u.key(v))
			}
		}

		t.rows[id] = &row[T]{value: v, lock: make(chan struct{}, 1)}
		t.order = append(t.order, id)
		for _, u := range t.uniques {
			u.ids[u.key(v)] = id
		}

		return func() {
			delete(t.rows, id)
			t.order = t.order[:len(t.order)-1]
			for _, u := range t.uniques {
				delete(u.ids, u.key(v))
			}
		}, nil
	}})
}

// reindex moves unique index entries from prev to next. Caller holds db.rw.
func (t *Table[T]) reindex(id string, prev, next T) error {
	for _, u := range t.uniques {
		oldKey, newKey := u.key(prev), u.key(next)
		if oldKey == newKey {
			continue
		}
		if other, taken := u.ids[newKey]; taken && other != id {
			return fmt.Errorf("%w: %s.%s=%s", ErrDuplicateKey, t.name, u.name, newKey)
		}
	}
	for _, u := range t.uniques {
		oldKey, newKey := u.key(prev), u.key(next)
		if oldKey == newKey {
			continue
		}
		delete(u.ids, oldKey)
		u.ids[newKey] = id
	}
	return nil
}
