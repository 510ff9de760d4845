// Copyright (c) 2025 The Sled developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

// issuer hands out position identifiers and tracks the live count.
// Identifiers start at 1, increase strictly with no gaps and are never
// reused, even after a position is retired.
type issuer struct {
	store *store
}

func newIssuer(store *store) *issuer {
	return &issuer{store: store}
}

// NextID issues a fresh position identifier.
func (i *issuer) NextID() (uint64, error) {
	return i.store.ids.Increment()
}

// HighWater returns the most recently issued identifier, 0 before any mint.
func (i *issuer) HighWater() (uint64, error) {
	return i.store.ids.Get()
}

// LiveCount returns the current supply: total minted minus total retired.
func (i *issuer) LiveCount() (uint64, error) {
	return i.store.supply.Get()
}

func (i *issuer) incrementSupply() error {
	_, err := i.store.supply.Increment()
	return err
}

func (i *issuer) decrementSupply() error {
	return i.store.supply.Decrement()
}
