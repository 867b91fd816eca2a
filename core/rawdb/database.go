package rawdb

import (
	"github.com/tos-network/ddc/ddcdb"
	"github.com/tos-network/ddc/ddcdb/leveldb"
	"github.com/tos-network/ddc/ddcdb/memorydb"
)

// NewMemoryDatabase creates an ephemeral in-memory key-value database.
func NewMemoryDatabase() ddcdb.KeyValueStore {
	return memorydb.New()
}

// NewLevelDBDatabase creates a persistent key-value database.
func NewLevelDBDatabase(file string, cache int, handles int, readonly bool) (ddcdb.KeyValueStore, error) {
	db, err := leveldb.New(file, cache, handles, readonly)
	if err != nil {
		return nil, err
	}
	return db, nil
}
