// Copyright (c) 2025 The Sled developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"github.com/pkg/errors"

	"github.com/sledhq/sled/sled"
	"github.com/sledhq/sled/state"
	"github.com/sledhq/sled/storage"
)

var (
	slotStakes     = nameToSlot("stakes")
	slotOwners     = nameToSlot("stake-owners")
	slotOwnerIndex = nameToSlot("owner-stakes")
	// stake type registry
	slotTypes      = nameToSlot("stake-types")
	slotTypeCount  = nameToSlot("stake-type-count")
	slotTypeLookup = nameToSlot("stake-type-lookup")
	// compounding membership
	slotCompounding = nameToSlot("compounding-set")
	// identity issuance
	slotIDCounter = nameToSlot("id-counter")
	slotSupply    = nameToSlot("supply")
)

func nameToSlot(name string) sled.Bytes32 {
	return sled.BytesToBytes32([]byte(name))
}

// store is the root storage for the ledger.
type store struct {
	context     *storage.Context
	stakes      *storage.Mapping[idKey, *Stake]
	owners      *storage.Mapping[idKey, sled.Address]
	ownerIndex  *storage.Mapping[sled.Address, []uint64]
	types       *storage.Mapping[idKey, *StakeType]
	typeCount   *storage.Counter
	typeLookup  *storage.Mapping[nameKey, uint64]
	compounding *storage.Value[[]uint64]
	ids         *storage.Counter
	supply      *storage.Counter
}

// newStore creates a new instance of store.
func newStore(addr sled.Address, state *state.State) *store {
	context := storage.NewContext(addr, state)
	return &store{
		context:     context,
		stakes:      storage.NewMapping[idKey, *Stake](context, slotStakes),
		owners:      storage.NewMapping[idKey, sled.Address](context, slotOwners),
		ownerIndex:  storage.NewMapping[sled.Address, []uint64](context, slotOwnerIndex),
		types:       storage.NewMapping[idKey, *StakeType](context, slotTypes),
		typeCount:   storage.NewCounter(context, slotTypeCount),
		typeLookup:  storage.NewMapping[nameKey, uint64](context, slotTypeLookup),
		compounding: storage.NewValue[[]uint64](context, slotCompounding),
		ids:         storage.NewCounter(context, slotIDCounter),
		supply:      storage.NewCounter(context, slotSupply),
	}
}

func (s *store) GetStake(id uint64) (*Stake, error) {
	entry, err := s.stakes.Get(idKey(id))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get stake")
	}
	return entry, nil
}

func (s *store) SetStake(id uint64, entry *Stake) error {
	if err := s.stakes.Set(idKey(id), entry); err != nil {
		return errors.Wrap(err, "failed to set stake")
	}
	return nil
}

func (s *store) DeleteStake(id uint64) error {
	if err := s.stakes.Delete(idKey(id)); err != nil {
		return errors.Wrap(err, "failed to delete stake")
	}
	return nil
}

func (s *store) GetOwner(id uint64) (sled.Address, error) {
	owner, err := s.owners.Get(idKey(id))
	if err != nil {
		return sled.Address{}, errors.Wrap(err, "failed to get stake owner")
	}
	return owner, nil
}

func (s *store) SetOwner(id uint64, owner sled.Address) error {
	if err := s.owners.Set(idKey(id), owner); err != nil {
		return errors.Wrap(err, "failed to set stake owner")
	}
	return nil
}

func (s *store) DeleteOwner(id uint64) error {
	if err := s.owners.Delete(idKey(id)); err != nil {
		return errors.Wrap(err, "failed to delete stake owner")
	}
	return nil
}

func (s *store) GetOwnerIndex(owner sled.Address) ([]uint64, error) {
	ids, err := s.ownerIndex.Get(owner)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get owner index")
	}
	return ids, nil
}

func (s *store) SetOwnerIndex(owner sled.Address, ids []uint64) error {
	if len(ids) == 0 {
		if err := s.ownerIndex.Delete(owner); err != nil {
			return errors.Wrap(err, "failed to clear owner index")
		}
		return nil
	}
	if err := s.ownerIndex.Set(owner, ids); err != nil {
		return errors.Wrap(err, "failed to set owner index")
	}
	return nil
}

// appendOwnerIndex appends id to the owner's id sequence.
func (s *store) appendOwnerIndex(owner sled.Address, id uint64) error {
	ids, err := s.GetOwnerIndex(owner)
	if err != nil {
		return err
	}
	return s.SetOwnerIndex(owner, append(ids, id))
}

// removeOwnerIndex removes id from the owner's id sequence via
// swap-with-last-and-truncate. Order among remaining ids is not preserved.
func (s *store) removeOwnerIndex(owner sled.Address, id uint64) error {
	ids, err := s.GetOwnerIndex(owner)
	if err != nil {
		return err
	}
	ids, found := removeID(ids, id)
	if !found {
		return errors.New("id missing from owner index")
	}
	return s.SetOwnerIndex(owner, ids)
}

func (s *store) GetCompoundingSet() ([]uint64, error) {
	ids, err := s.compounding.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get compounding set")
	}
	return ids, nil
}

func (s *store) SetCompoundingSet(ids []uint64) error {
	if err := s.compounding.Set(ids); err != nil {
		return errors.Wrap(err, "failed to set compounding set")
	}
	return nil
}

// removeID removes id from ids by overwriting its slot with the last element
// and shrinking the slice by one. The second return reports whether id was found.
func removeID(ids []uint64, id uint64) ([]uint64, bool) {
	for i, candidate := range ids {
		if candidate == id {
			last := len(ids) - 1
			if i != last {
				ids[i] = ids[last]
			}
			return ids[:last], true
		}
	}
	return ids, false
}
