// Copyright (c) 2025 The Sled developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"github.com/sledhq/sled/ledger/errs"
)

// compoundingSet tracks the subset of live ids flagged as auto-compounding.
// Invariant: id is a member exactly when the stored Stake has the flag set.
type compoundingSet struct {
	store     *store
	positions *positions
}

func newCompoundingSet(store *store, positions *positions) *compoundingSet {
	return &compoundingSet{store: store, positions: positions}
}

// Set flips the compounding flag of the position to desired.
// Setting the current value is a no-op.
func (c *compoundingSet) Set(id uint64, desired bool) error {
	entry, err := c.positions.Get(id)
	if err != nil {
		return err
	}
	if entry.Compounding == desired {
		return nil
	}

	entry.Compounding = desired
	if err := c.store.SetStake(id, entry); err != nil {
		return err
	}

	set, err := c.store.GetCompoundingSet()
	if err != nil {
		return err
	}
	if desired {
		return c.store.SetCompoundingSet(append(set, id))
	}
	trimmed, found := removeID(set, id)
	if !found {
		return errs.NotFound("id %d missing from compounding set", id)
	}
	return c.store.SetCompoundingSet(trimmed)
}

// IsCompounding returns the flag of the live position.
func (c *compoundingSet) IsCompounding(id uint64) (bool, error) {
	entry, err := c.positions.Get(id)
	if err != nil {
		return false, err
	}
	return entry.Compounding, nil
}

// List returns the raw set contents, unordered.
func (c *compoundingSet) List() ([]uint64, error) {
	return c.store.GetCompoundingSet()
}
