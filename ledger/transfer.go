// Copyright (c) 2025 The Sled developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"github.com/sledhq/sled/ledger/errs"
	"github.com/sledhq/sled/sled"
)

// transferCoordinator keeps the per-owner index synchronized whenever a
// position changes owner. Amount, type, timestamps and compounding
// membership are untouched by a transfer.
type transferCoordinator struct {
	store *store
}

func newTransferCoordinator(store *store) *transferCoordinator {
	return &transferCoordinator{store: store}
}

// Transfer moves id from from's index to to's index. It fails with a
// not-found error when id has no live Stake or is not currently owned by from.
func (t *transferCoordinator) Transfer(from, to sled.Address, id uint64) error {
	entry, err := t.store.GetStake(id)
	if err != nil {
		return err
	}
	if entry.IsEmpty() {
		return errs.NotFound("no stake with id %d", id)
	}

	owner, err := t.store.GetOwner(id)
	if err != nil {
		return err
	}
	if owner != from {
		return errs.NotFound("stake %d is not owned by %s", id, from)
	}

	if err := t.store.removeOwnerIndex(from, id); err != nil {
		return err
	}
	if err := t.store.appendOwnerIndex(to, id); err != nil {
		return err
	}
	return t.store.SetOwner(id, to)
}
