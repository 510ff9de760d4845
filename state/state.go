// Copyright (c) 2025 The Sled developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/sledhq/sled/sled"
	"github.com/sledhq/sled/stackedmap"
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.cause
}

// storageKey addresses a single storage slot of an account.
type storageKey struct {
	addr sled.Address
	key  sled.Bytes32
}

// State manages keyed storage in a save-restore manner.
// All writes land on a stacked map, so any range of mutations can be
// reverted to a previously taken checkpoint. Durability is the concern
// of the hosting environment, not of this layer.
type State struct {
	committed map[storageKey]rlp.RawValue
	sm        *stackedmap.StackedMap[storageKey, rlp.RawValue]
}

// New create a state object backed by in-memory committed storage.
func New() *State {
	state := &State{committed: make(map[storageKey]rlp.RawValue)}
	state.sm = stackedmap.New(func(k storageKey) (rlp.RawValue, bool) {
		v, ok := state.committed[k]
		return v, ok
	})
	// base level to host writes taken outside any checkpoint
	state.sm.Push()
	return state
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr sled.Address, key sled.Bytes32) rlp.RawValue {
	raw, _ := s.sm.Get(storageKey{addr, key})
	return raw
}

// SetRawStorage set storage value in rlp raw.
func (s *State) SetRawStorage(addr sled.Address, key sled.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
// An empty encoded value deletes the slot.
func (s *State) EncodeStorage(addr sled.Address, key sled.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
func (s *State) DecodeStorage(addr sled.Address, key sled.Bytes32, dec func([]byte) error) error {
	raw := s.GetRawStorage(addr, key)
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo reverts state to given revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
}

// Commit settles all outstanding writes into committed storage and
// collapses the checkpoint stack. A reverted write never reaches here.
func (s *State) Commit() {
	s.sm.Journal(func(k storageKey, v rlp.RawValue) bool {
		if len(v) == 0 {
			delete(s.committed, k)
		} else {
			s.committed[k] = v
		}
		return true
	})
	s.sm.PopTo(0)
	s.sm.Push()
}
