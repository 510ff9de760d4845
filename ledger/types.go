// Copyright (c) 2025 The Sled developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"encoding/binary"
	"math/big"
)

// StakeType is a named lock policy. The entry at index 0 is a reserved
// sentinel with an empty name and zero duration; a zero-duration result from
// a lookup means "unregistered", never a valid zero-length lock.
type StakeType struct {
	Name     string `json:"name"`
	LockDays uint32 `json:"lockDays"`
}

// IsSentinel returns whether the entry is the reserved index-0 sentinel.
func (t *StakeType) IsSentinel() bool {
	return t.Name == "" && t.LockDays == 0
}

// Stake is a single deposit position. A live position always has a positive
// amount; a record that decodes with a nil or zero amount is not live.
type Stake struct {
	Amount      *big.Int // deposited amount, > 0 while live
	TypeName    string   // name of the lock policy the position was minted under
	DepositedAt uint64   // unix seconds of the deposit
	LockedUntil uint64   // unix seconds until which funds are contractually locked
	Compounding bool     // whether yield is reinvested rather than paid out
}

// IsEmpty returns whether the record can be treated as not live.
func (s *Stake) IsEmpty() bool {
	return s.Amount == nil || s.Amount.Sign() == 0
}

// idKey adapts a position id to a storage mapping key.
type idKey uint64

func (k idKey) Bytes() []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(k))
	return b[:]
}

// nameKey adapts a stake type name to a storage mapping key.
type nameKey string

func (k nameKey) Bytes() []byte {
	return []byte(k)
}
