// Copyright (c) 2025 The Sled developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math/big"

	"github.com/sledhq/sled/sled"
)

// Event names as delivered to subscribers.
const (
	EventPositionCreated      = "position-created"
	EventAmountDecreased      = "position-amount-decreased"
	EventAmountIncreased      = "position-amount-increased"
	EventAmountIncreasedBatch = "position-amounts-increased"
	EventPositionDestroyed    = "position-destroyed"
)

// Event is a ledger notification. Events are emitted only after the
// triggering operation fully settled; a rejected operation emits nothing.
type Event struct {
	Name    string        `json:"name"`
	ID      uint64        `json:"id,omitempty"`
	Owner   *sled.Address `json:"owner,omitempty"`
	Amount  *big.Int      `json:"amount,omitempty"`
	IDs     []uint64      `json:"ids,omitempty"`
	Amounts []*big.Int    `json:"amounts,omitempty"`
}

func newPositionCreated(id uint64, owner sled.Address, amount *big.Int) *Event {
	return &Event{Name: EventPositionCreated, ID: id, Owner: &owner, Amount: amount}
}

func newAmountDecreased(id uint64, amount *big.Int) *Event {
	return &Event{Name: EventAmountDecreased, ID: id, Amount: amount}
}

func newAmountIncreased(id uint64, amount *big.Int) *Event {
	return &Event{Name: EventAmountIncreased, ID: id, Amount: amount}
}

func newAmountIncreasedBatch(ids []uint64, amounts []*big.Int) *Event {
	return &Event{Name: EventAmountIncreasedBatch, IDs: ids, Amounts: amounts}
}

func newPositionDestroyed(id uint64, owner sled.Address) *Event {
	return &Event{Name: EventPositionDestroyed, ID: id, Owner: &owner}
}
