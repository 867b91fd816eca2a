package rawdb

import (
	"encoding/binary"
	"errors"

	"github.com/tos-network/ddc/common"
	"github.com/tos-network/ddc/ddcdb"
	"github.com/tos-network/ddc/log"
)

// ReadStorage retrieves a storage word. Absent words read as zero.
func ReadStorage(db ddcdb.KeyValueReader, addr common.Address, slot common.Hash) (common.Hash, error) {
	data, err := db.Get(storageKey(addr, slot))
	if errors.Is(err, ddcdb.ErrNotFound) {
		return common.Hash{}, nil
	}
	if err != nil {
		return common.Hash{}, err
	}
	return common.BytesToHash(data), nil
}

// WriteStorage stores a storage word. Zero words are deleted instead so that
// clearing a record leaves no residue on disk.
func WriteStorage(db ddcdb.KeyValueWriter, addr common.Address, slot, value common.Hash) {
	var err error
	if value.IsZero() {
		err = db.Delete(storageKey(addr, slot))
	} else {
		err = db.Put(storageKey(addr, slot), value[:])
	}
	if err != nil {
		log.Crit("Failed to store storage word", "addr", addr, "slot", slot, "err", err)
	}
}

// ReadLastEra retrieves the highest era a committed action executed at.
func ReadLastEra(db ddcdb.KeyValueReader) (uint64, bool) {
	data, _ := db.Get(lastEraKey)
	if len(data) != 8 {
		return 0, false
	}
	return binary.BigEndian.Uint64(data), true
}

// WriteLastEra stores the highest era a committed action executed at.
func WriteLastEra(db ddcdb.KeyValueWriter, era uint64) {
	var enc [8]byte
	binary.BigEndian.PutUint64(enc[:], era)
	if err := db.Put(lastEraKey, enc[:]); err != nil {
		log.Crit("Failed to store last era", "err", err)
	}
}
