// Package memdb is a small in-process transactional row store.
//
// Tables hold rows keyed by id. A transaction stages its writes and applies
// them atomically on Commit; nothing it writes is visible before that. Rows can
// be locked exclusively with LockForUpdate, which blocks while another
// transaction holds the lock and gives up when the caller's context is done.
// A transaction whose context ends is rolled back and its locks released.
package memdb

import (
	"context"
	"database/sql"
	"errors"
	"sync"
)

var (
	ErrDuplicateKey = errors.New("memdb: duplicate key")
	ErrRowNotFound  = errors.New("memdb: row not found")
	ErrNotLocked    = errors.New("memdb: row not locked by transaction")
)

type DB struct {
	// rw guards the contents of every table registered on this DB.
	rw sync.RWMutex

	hookMu     sync.RWMutex
	commitHook func() error
}

func New() *DB {
	return &DB{}
}

// SetCommitHook installs a function run at the start of every Commit. A non-nil
// error aborts the commit and rolls the transaction back.
func (db *DB) SetCommitHook(hook func() error) {
	db.hookMu.Lock()
	defer db.hookMu.Unlock()
	db.commitHook = hook
}

func (db *DB) hook() func() error {
	db.hookMu.RLock()
	defer db.hookMu.RUnlock()
	return db.commitHook
}

// Begin starts a transaction bound to ctx.
func (db *DB) Begin(ctx context.Context) (*Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tx := &Tx{
		db:       db,
		ctx:      ctx,
		held:     make(map[chan struct{}]struct{}),
		finished: make(chan struct{}),
	}

	go func() {
		select {
		case <-ctx.Done():
			_ = tx.Rollback()
		case <-tx.finished:
		}
	}()

	return tx, nil
}

// Exec runs fn inside a transaction and commits when fn returns nil.
func (db *DB) Exec(ctx context.Context, fn func(tx *Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

type write struct {
	// apply mutates table state under db.rw and returns an undo for the change.
	apply func() (undo func(), err error)
}

type Tx struct {
	db  *DB
	ctx context.Context

	mu       sync.Mutex
	done     bool
	writes   []write
	held     map[chan struct{}]struct{}
	finished chan struct{}
}

func (tx *Tx) stage(w write) error {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	if tx.done {
		return sql.ErrTxDone
	}
	tx.writes = append(tx.writes, w)
	return nil
}

func (tx *Tx) holds(lock chan struct{}) bool {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	_, ok := tx.held[lock]
	return ok
}

// hold records an acquired row lock. It reports false when the transaction has
// already finished, in which case the caller must release the lock itself.
func (tx *Tx) hold(lock chan struct{}) bool {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	if tx.done {
		return false
	}
	tx.held[lock] = struct{}{}
	return true
}

func (tx *Tx) isDone() bool {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	return tx.done
}

// Commit applies every staged write atomically, then releases the row locks.
func (tx *Tx) Commit() error {
	tx.mu.Lock()
	if tx.done {
		tx.mu.Unlock()
		return sql.ErrTxDone
	}
	tx.done = true
	writes := tx.writes
	tx.mu.Unlock()

	defer tx.finish()

	if err := tx.ctx.Err(); err != nil {
		return err
	}
	if hook := tx.db.hook(); hook != nil {
		if err := hook(); err != nil {
			return err
		}
	}

	tx.db.rw.Lock()
	defer tx.db.rw.Unlock()

	undos := make([]func(), 0, len(writes))
	for _, w := range writes {
		undo, err := w.apply()
		if err != nil {
			for i := len(undos) - 1; i >= 0; i-- {
				undos[i]()
			}
			return err
		}
		undos = append(undos, undo)
	}
	return nil
}

// Rollback discards staged writes and releases the row locks.
func (tx *Tx) Rollback() error {
	tx.mu.Lock()
	if tx.done {
		tx.mu.Unlock()
		return sql.ErrTxDone
	}
	tx.done = true
	tx.writes = nil
	tx.mu.Unlock()

	tx.finish()
	return nil
}

func (tx *Tx) finish() {
	tx.mu.Lock()
	held := tx.held
	tx.held = map[chan struct{}]struct{}{}
	tx.mu.Unlock()

	for lock := range held {
		<-lock
	}
	close(tx.finished)
}
