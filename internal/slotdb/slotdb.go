// Package slotdb contains the helpers system-action handlers use to lay out
// records over 32-byte storage words.
package slotdb

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"

	"github.com/tos-network/ddc/common"
	"github.com/tos-network/ddc/core/vm"
	"github.com/tos-network/ddc/crypto"
)

const chunkSize = common.HashLength

// Slot derives a storage slot from a namespace tag and a list of key parts.
// Each part is length prefixed so that distinct part lists never collide.
func Slot(tag string, parts ...[]byte) common.Hash {
	var l [8]byte
	size := len(tag)
	for _, p := range parts {
		size += 8 + len(p)
	}
	buf := make([]byte, 0, size)
	buf = append(buf, tag...)
	for _, p := range parts {
		binary.BigEndian.PutUint64(l[:], uint64(len(p)))
		buf = append(buf, l[:]...)
		buf = append(buf, p...)
	}
	return common.BytesToHash(crypto.Keccak256(buf))
}

// Field derives the slot of a named field below base.
func Field(base common.Hash, field string) common.Hash {
	buf := make([]byte, 0, len(base)+1+len(field))
	buf = append(buf, base[:]...)
	buf = append(buf, 0x00)
	buf = append(buf, field...)
	return common.BytesToHash(crypto.Keccak256(buf))
}

// Index derives the slot of the i-th element of a list rooted at base.
func Index(base common.Hash, i uint64) common.Hash {
	var idx [8]byte
	binary.BigEndian.PutUint64(idx[:], i)
	buf := make([]byte, 0, len(base)+1+8)
	buf = append(buf, base[:]...)
	buf = append(buf, 0x01)
	buf = append(buf, idx[:]...)
	return common.BytesToHash(crypto.Keccak256(buf))
}

func ReadUint64(db vm.StateDB, owner common.Address, slot common.Hash) uint64 {
	raw := db.GetState(owner, slot)
	return binary.BigEndian.Uint64(raw[24:])
}

func WriteUint64(db vm.StateDB, owner common.Address, slot common.Hash, n uint64) {
	var word common.Hash
	binary.BigEndian.PutUint64(word[24:], n)
	db.SetState(owner, slot, word)
}

func ReadBool(db vm.StateDB, owner common.Address, slot common.Hash) bool {
	return db.GetState(owner, slot)[31] != 0
}

func WriteBool(db vm.StateDB, owner common.Address, slot common.Hash, v bool) {
	var word common.Hash
	if v {
		word[31] = 1
	}
	db.SetState(owner, slot, word)
}

func ReadAddress(db vm.StateDB, owner common.Address, slot common.Hash) common.Address {
	return common.Address(db.GetState(owner, slot))
}

func WriteAddress(db vm.StateDB, owner common.Address, slot common.Hash, a common.Address) {
	db.SetState(owner, slot, common.Hash(a))
}

func ReadAmount(db vm.StateDB, owner common.Address, slot common.Hash) *uint256.Int {
	raw := db.GetState(owner, slot)
	return new(uint256.Int).SetBytes32(raw[:])
}

func WriteAmount(db vm.StateDB, owner common.Address, slot common.Hash, v *uint256.Int) {
	db.SetState(owner, slot, common.Hash(v.Bytes32()))
}

func chunkCount(n uint64) uint64 {
	return (n + chunkSize - 1) / chunkSize
}

// ReadBytes loads a variable length value stored as a length word at base
// followed by 32-byte chunks. A missing value reads as nil.
func ReadBytes(db vm.StateDB, owner common.Address, base common.Hash) []byte {
	n := ReadUint64(db, owner, base)
	if n == 0 {
		return nil
	}
	value := make([]byte, n)
	for i := uint64(0); i < chunkCount(n); i++ {
		word := db.GetState(owner, Index(base, i))
		start := i * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		copy(value[start:end], word[:end-start])
	}
	return value
}

// WriteBytes stores value at base, clearing chunks left over from a longer
// previous value. Writing an empty value clears the record.
func WriteBytes(db vm.StateDB, owner common.Address, base common.Hash, value []byte) {
	oldLen := ReadUint64(db, owner, base)
	newLen := uint64(len(value))
	for i := uint64(0); i < chunkCount(newLen); i++ {
		start := i * chunkSize
		end := start + chunkSize
		if end > newLen {
			end = newLen
		}
		var word common.Hash
		copy(word[:], value[start:end])
		db.SetState(owner, Index(base, i), word)
	}
	for i := chunkCount(newLen); i < chunkCount(oldLen); i++ {
		db.SetState(owner, Index(base, i), common.Hash{})
	}
	WriteUint64(db, owner, base, newLen)
}

// DeleteBytes clears the value stored at base.
func DeleteBytes(db vm.StateDB, owner common.Address, base common.Hash) {
	WriteBytes(db, owner, base, nil)
}

// ReadRLP decodes the record stored at base into dst. It reports false when
// no record is stored.
func ReadRLP(db vm.StateDB, owner common.Address, base common.Hash, dst interface{}) (bool, error) {
	enc := ReadBytes(db, owner, base)
	if len(enc) == 0 {
		return false, nil
	}
	if err := rlp.DecodeBytes(enc, dst); err != nil {
		return true, err
	}
	return true, nil
}

// WriteRLP encodes val and stores it at base.
func WriteRLP(db vm.StateDB, owner common.Address, base common.Hash, val interface{}) error {
	enc, err := rlp.EncodeToBytes(val)
	if err != nil {
		return err
	}
	WriteBytes(db, owner, base, enc)
	return nil
}
