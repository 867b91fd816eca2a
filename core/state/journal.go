package state

import "github.com/tos-network/ddc/common"

// storageChange records the previous dirty value of a storage word so that
// it can be rolled back.
type storageChange struct {
	ref      storageRef
	prev     common.Hash
	hadDirty bool
}

type revision struct {
	id           int
	journalIndex int
}

// journal contains the list of state modifications applied since the last
// commit, in application order.
type journal struct {
	entries []storageChange
}

func (j *journal) append(c storageChange) { j.entries = append(j.entries, c) }

func (j *journal) length() int { return len(j.entries) }

// revert undoes a batch of journalled modifications down to snapshot.
func (j *journal) revert(s *StateDB, snapshot int) {
	for i := len(j.entries) - 1; i >= snapshot; i-- {
		c := j.entries[i]
		if c.hadDirty {
			s.dirty[c.ref] = c.prev
		} else {
			delete(s.dirty, c.ref)
		}
	}
	j.entries = j.entries[:snapshot]
}

func (j *journal) reset() { j.entries = j.entries[:0] }
