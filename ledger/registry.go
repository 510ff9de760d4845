// Copyright (c) 2025 The Sled developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"github.com/sledhq/sled/ledger/errs"
)

// registry keeps the named lock policies. Lookups go through an explicit
// name to index mapping; index 0 is the reserved sentinel, so a missing
// lookup entry naturally resolves to "unregistered".
type registry struct {
	store *store
}

func newRegistry(store *store) *registry {
	return &registry{store: store}
}

// AddType appends a new lock policy. The sentinel entry is installed lazily
// on the first registration.
func (r *registry) AddType(name string, lockDays uint32) error {
	if name == "" {
		return errs.Validation("stake type name must not be empty")
	}
	if lockDays == 0 {
		return errs.Validation("lock duration must be greater than zero")
	}

	count, err := r.store.typeCount.Get()
	if err != nil {
		return err
	}
	if count == 0 {
		// reserved sentinel at index 0
		if err := r.store.types.Set(idKey(0), &StakeType{}); err != nil {
			return err
		}
		count = 1
	}

	index, err := r.store.typeLookup.Get(nameKey(name))
	if err != nil {
		return err
	}
	if index != 0 {
		return errs.Validation("stake type %q already registered", name)
	}

	if err := r.store.types.Set(idKey(count), &StakeType{Name: name, LockDays: lockDays}); err != nil {
		return err
	}
	if err := r.store.typeLookup.Set(nameKey(name), count); err != nil {
		return err
	}
	return r.store.typeCount.Set(count + 1)
}

// GetType resolves a policy by name. An unregistered name resolves to the
// sentinel; callers must treat a zero duration as "unregistered".
func (r *registry) GetType(name string) (*StakeType, error) {
	if name == "" {
		return nil, errs.Validation("stake type name must not be empty")
	}
	index, err := r.store.typeLookup.Get(nameKey(name))
	if err != nil {
		return nil, err
	}
	if index == 0 {
		return &StakeType{}, nil
	}
	entry, err := r.store.types.Get(idKey(index))
	if err != nil {
		return nil, err
	}
	if entry.Name != name {
		// lookup table desync, treat as unregistered
		return &StakeType{}, nil
	}
	return entry, nil
}

// LockDays returns the lock duration of the named policy, 0 when unregistered.
func (r *registry) LockDays(name string) (uint32, error) {
	entry, err := r.GetType(name)
	if err != nil {
		return 0, err
	}
	return entry.LockDays, nil
}

// ListTypes returns all registered policies in registration order,
// including the sentinel at index 0.
func (r *registry) ListTypes() ([]*StakeType, error) {
	count, err := r.store.typeCount.Get()
	if err != nil {
		return nil, err
	}
	types := make([]*StakeType, 0, count)
	for i := uint64(0); i < count; i++ {
		entry, err := r.store.types.Get(idKey(i))
		if err != nil {
			return nil, err
		}
		types = append(types, entry)
	}
	return types, nil
}
