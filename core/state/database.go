// Copyright 2024 The ddc Authors
// This file is part of the ddc library.
//
// The ddc library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The ddc library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the ddc library. If not, see <http://www.gnu.org/licenses/>.

package state

import (
	lru "github.com/hashicorp/golang-lru"

	"github.com/tos-network/ddc/common"
	"github.com/tos-network/ddc/core/rawdb"
	"github.com/tos-network/ddc/ddcdb"
)

// Number of storage words to keep in the read cache.
const storageCacheSize = 64 * 1024

// storageRef addresses one storage word.
type storageRef struct {
	addr common.Address
	slot common.Hash
}

// Database wraps access to the persistent storage words.
type Database interface {
	// Storage returns the committed value of a storage word.
	Storage(addr common.Address, slot common.Hash) (common.Hash, error)

	// WriteStorage queues a storage word into batch and updates the read cache.
	WriteStorage(batch ddcdb.KeyValueWriter, addr common.Address, slot, value common.Hash)

	// Purge drops every cached word.
	Purge()

	// DiskDB returns the underlying key-value disk database.
	DiskDB() ddcdb.KeyValueStore
}

// NewDatabase creates a backing store for state with an LRU read cache in
// front of disk.
func NewDatabase(disk ddcdb.KeyValueStore) Database {
	cache, _ := lru.New(storageCacheSize)
	return &cachingDB{disk: disk, cache: cache}
}

type cachingDB struct {
	disk  ddcdb.KeyValueStore
	cache *lru.Cache
}

func (db *cachingDB) Storage(addr common.Address, slot common.Hash) (common.Hash, error) {
	ref := storageRef{addr, slot}
	if v, ok := db.cache.Get(ref); ok {
		storageCacheHitMeter.Inc()
		return v.(common.Hash), nil
	}
	storageCacheMissMeter.Inc()
	value, err := rawdb.ReadStorage(db.disk, addr, slot)
	if err != nil {
		return common.Hash{}, err
	}
	db.cache.Add(ref, value)
	return value, nil
}

func (db *cachingDB) WriteStorage(batch ddcdb.KeyValueWriter, addr common.Address, slot, value common.Hash) {
	rawdb.WriteStorage(batch, addr, slot, value)
	db.cache.Add(storageRef{addr, slot}, value)
}

func (db *cachingDB) Purge() { db.cache.Purge() }

func (db *cachingDB) DiskDB() ddcdb.KeyValueStore { return db.disk }
