package slotdb

import (
	"github.com/tos-network/ddc/common"
	"github.com/tos-network/ddc/core/vm"
)

// AddressSet is an ordered set of accounts laid out as a length word, one
// word per element and a 1-based position word per member.
type AddressSet struct {
	Owner common.Address
	Base  common.Hash
}

func (s AddressSet) posSlot(a common.Address) common.Hash {
	return Slot("pos", s.Base[:], a[:])
}

// Len returns the number of members.
func (s AddressSet) Len(db vm.StateDB) uint64 {
	return ReadUint64(db, s.Owner, s.Base)
}

// Contains reports whether a is a member.
func (s AddressSet) Contains(db vm.StateDB, a common.Address) bool {
	return ReadUint64(db, s.Owner, s.posSlot(a)) != 0
}

// Members returns the members in insertion order, modulo swap-removals.
func (s AddressSet) Members(db vm.StateDB) []common.Address {
	n := s.Len(db)
	out := make([]common.Address, 0, n)
	for i := uint64(0); i < n; i++ {
		out = append(out, ReadAddress(db, s.Owner, Index(s.Base, i)))
	}
	return out
}

// Add appends a. It reports false if a was already a member.
func (s AddressSet) Add(db vm.StateDB, a common.Address) bool {
	if s.Contains(db, a) {
		return false
	}
	n := s.Len(db)
	WriteAddress(db, s.Owner, Index(s.Base, n), a)
	WriteUint64(db, s.Owner, s.posSlot(a), n+1)
	WriteUint64(db, s.Owner, s.Base, n+1)
	return true
}

// SwapRemove deletes a by moving the last member into its position. It
// reports false if a was not a member.
func (s AddressSet) SwapRemove(db vm.StateDB, a common.Address) bool {
	pos := ReadUint64(db, s.Owner, s.posSlot(a))
	if pos == 0 {
		return false
	}
	last := s.Len(db) - 1
	if pos-1 != last {
		moved := ReadAddress(db, s.Owner, Index(s.Base, last))
		WriteAddress(db, s.Owner, Index(s.Base, pos-1), moved)
		WriteUint64(db, s.Owner, s.posSlot(moved), pos)
	}
	db.SetState(s.Owner, Index(s.Base, last), common.Hash{})
	db.SetState(s.Owner, s.posSlot(a), common.Hash{})
	WriteUint64(db, s.Owner, s.Base, last)
	return true
}

// Remove deletes a and shifts the following members down so that insertion
// order is preserved. It reports false if a was not a member.
func (s AddressSet) Remove(db vm.StateDB, a common.Address) bool {
	pos := ReadUint64(db, s.Owner, s.posSlot(a))
	if pos == 0 {
		return false
	}
	n := s.Len(db)
	for i := pos; i < n; i++ {
		next := ReadAddress(db, s.Owner, Index(s.Base, i))
		WriteAddress(db, s.Owner, Index(s.Base, i-1), next)
		WriteUint64(db, s.Owner, s.posSlot(next), i)
	}
	db.SetState(s.Owner, Index(s.Base, n-1), common.Hash{})
	db.SetState(s.Owner, s.posSlot(a), common.Hash{})
	WriteUint64(db, s.Owner, s.Base, n-1)
	return true
}
