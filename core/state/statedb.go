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

// Package state provides the transactional storage-word view every system
// action reads and writes.
package state

import (
	"fmt"
	"sort"

	"github.com/tos-network/ddc/common"
	"github.com/tos-network/ddc/log"
)

// StateDB buffers storage writes on top of a Database. Writes stay in memory
// until Commit, and any suffix of them can be undone with RevertToSnapshot.
type StateDB struct {
	db    Database
	dirty map[storageRef]common.Hash

	journal        *journal
	validRevisions []revision
	nextRevisionID int

	// DB error.
	// State objects are used by the consensus core which are unable to deal
	// with database-level errors. Any error that occurs during a read is
	// memoized here and will eventually be returned by StateDB.Commit.
	dbErr error
}

// New creates a new state view over db.
func New(db Database) (*StateDB, error) {
	if db == nil {
		return nil, fmt.Errorf("state: nil database")
	}
	return &StateDB{
		db:      db,
		dirty:   make(map[storageRef]common.Hash),
		journal: new(journal),
	}, nil
}

// setError remembers the first non-nil error it is called with.
func (s *StateDB) setError(err error) {
	if s.dbErr == nil {
		s.dbErr = err
	}
}

// Error returns the memorized database failure occurred earlier.
func (s *StateDB) Error() error {
	return s.dbErr
}

// Database retrieves the backing storage.
func (s *StateDB) Database() Database {
	return s.db
}

// GetState retrieves a value from the given account's storage.
func (s *StateDB) GetState(addr common.Address, slot common.Hash) common.Hash {
	if v, ok := s.dirty[storageRef{addr, slot}]; ok {
		return v
	}
	v, err := s.db.Storage(addr, slot)
	if err != nil {
		s.setError(fmt.Errorf("state: read %x/%x: %w", addr, slot, err))
		return common.Hash{}
	}
	return v
}

// SetState updates a value in the given account's storage.
func (s *StateDB) SetState(addr common.Address, slot, value common.Hash) {
	ref := storageRef{addr, slot}
	prev, hadDirty := s.dirty[ref]
	s.journal.append(storageChange{ref: ref, prev: prev, hadDirty: hadDirty})
	s.dirty[ref] = value
}

// Snapshot returns an identifier for the current revision of the state.
func (s *StateDB) Snapshot() int {
	id := s.nextRevisionID
	s.nextRevisionID++
	s.validRevisions = append(s.validRevisions, revision{id, s.journal.length()})
	return id
}

// RevertToSnapshot reverts all state changes made since the given revision.
func (s *StateDB) RevertToSnapshot(revid int) {
	// Find the snapshot in the stack of valid snapshots.
	idx := sort.Search(len(s.validRevisions), func(i int) bool {
		return s.validRevisions[i].id >= revid
	})
	if idx == len(s.validRevisions) || s.validRevisions[idx].id != revid {
		panic(fmt.Errorf("revision id %v cannot be reverted", revid))
	}
	snapshot := s.validRevisions[idx].journalIndex

	// Replay the journal to undo changes and remove invalidated snapshots
	s.journal.revert(s, snapshot)
	s.validRevisions = s.validRevisions[:idx]
	storageRevertMeter.Inc()
}

// DirtyCount returns the number of storage words written since the last
// commit.
func (s *StateDB) DirtyCount() int {
	return len(s.dirty)
}

// Commit writes every dirty storage word to disk in one batch. Zero words
// are deleted. The view stays usable after a successful commit.
func (s *StateDB) Commit() error {
	if s.dbErr != nil {
		return fmt.Errorf("commit aborted due to earlier error: %v", s.dbErr)
	}
	disk := s.db.DiskDB()
	batch := disk.NewBatch()

	var updated, deleted int
	for ref, value := range s.dirty {
		s.db.WriteStorage(batch, ref.addr, ref.slot, value)
		if value.IsZero() {
			deleted++
		} else {
			updated++
		}
	}
	if err := batch.Write(); err != nil {
		// The cache already holds the new words; drop it so reads fall
		// back to disk.
		s.db.Purge()
		return fmt.Errorf("state: commit: %w", err)
	}
	storageUpdatedMeter.Add(float64(updated))
	storageDeletedMeter.Add(float64(deleted))
	log.Debug("Committed state", "updated", updated, "deleted", deleted)

	s.dirty = make(map[storageRef]common.Hash)
	s.journal.reset()
	s.validRevisions = s.validRevisions[:0]
	return nil
}
