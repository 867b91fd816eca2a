// Package memorydb implements the key-value store layer on top of an in-memory
// goleveldb skiplist. It is used for tests and ephemeral state.
package memorydb

import (
	"errors"
	"sync"

	"github.com/syndtr/goleveldb/leveldb/comparer"
	"github.com/syndtr/goleveldb/leveldb/memdb"
	"github.com/tos-network/ddc/ddcdb"
)

var errMemorydbClosed = errors.New("database closed")

// Database is an ephemeral key-value store.
type Database struct {
	db   *memdb.DB
	lock sync.RWMutex
}

// New returns a wrapped in-memory store.
func New() *Database {
	return &Database{db: memdb.New(comparer.DefaultComparer, 0)}
}

// Close deallocates the internal skiplist. Any later access fails.
func (db *Database) Close() error {
	db.lock.Lock()
	defer db.lock.Unlock()

	db.db = nil
	return nil
}

// Has retrieves if a key is present in the key-value store.
func (db *Database) Has(key []byte) (bool, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.db == nil {
		return false, errMemorydbClosed
	}
	return db.db.Contains(key), nil
}

// Get retrieves the given key if it's present in the key-value store.
func (db *Database) Get(key []byte) ([]byte, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.db == nil {
		return nil, errMemorydbClosed
	}
	value, err := db.db.Get(key)
	if errors.Is(err, memdb.ErrNotFound) {
		return nil, ddcdb.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return append([]byte{}, value...), nil
}

// Put inserts the given value into the key-value store.
func (db *Database) Put(key []byte, value []byte) error {
	db.lock.Lock()
	defer db.lock.Unlock()

	if db.db == nil {
		return errMemorydbClosed
	}
	return db.db.Put(key, value)
}

// Delete removes the key from the key-value store.
func (db *Database) Delete(key []byte) error {
	db.lock.Lock()
	defer db.lock.Unlock()

	if db.db == nil {
		return errMemorydbClosed
	}
	if err := db.db.Delete(key); err != nil && !errors.Is(err, memdb.ErrNotFound) {
		return err
	}
	return nil
}

// Len returns the number of entries currently present in the store.
func (db *Database) Len() int {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.db == nil {
		return 0
	}
	return db.db.Len()
}

// NewBatch creates a write-only key-value store that buffers changes to its host
// database until a final write is called.
func (db *Database) NewBatch() ddcdb.Batch {
	return &batch{db: db}
}

type keyvalue struct {
	key    []byte
	value  []byte
	delete bool
}

// batch is a write-only memory batch that commits changes to its host
// database when Write is called. A batch cannot be used concurrently.
type batch struct {
	db     *Database
	writes []keyvalue
	size   int
}

func (b *batch) Put(key, value []byte) error {
	b.writes = append(b.writes, keyvalue{append([]byte{}, key...), append([]byte{}, value...), false})
	b.size += len(key) + len(value)
	return nil
}

func (b *batch) Delete(key []byte) error {
	b.writes = append(b.writes, keyvalue{append([]byte{}, key...), nil, true})
	b.size += len(key)
	return nil
}

func (b *batch) ValueSize() int { return b.size }

// Write flushes any accumulated data to the memory database.
func (b *batch) Write() error {
	b.db.lock.Lock()
	defer b.db.lock.Unlock()

	if b.db.db == nil {
		return errMemorydbClosed
	}
	for _, kv := range b.writes {
		if kv.delete {
			if err := b.db.db.Delete(kv.key); err != nil && !errors.Is(err, memdb.ErrNotFound) {
				return err
			}
			continue
		}
		if err := b.db.db.Put(kv.key, kv.value); err != nil {
			return err
		}
	}
	return nil
}

func (b *batch) Reset() {
	b.writes = b.writes[:0]
	b.size = 0
}
