// Copyright (c) 2025 The Sled developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package ledger implements a position-bound staking ledger: uniquely
// numbered, transferable deposit records carrying an amount, a named lock
// policy, timestamps and a compounding flag. Every mutation either fully
// applies or leaves no trace.
package ledger

import (
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/event"

	"github.com/sledhq/sled/ledger/auth"
	"github.com/sledhq/sled/ledger/errs"
	"github.com/sledhq/sled/ledger/metadata"
	"github.com/sledhq/sled/log"
	"github.com/sledhq/sled/metrics"
	"github.com/sledhq/sled/sled"
	"github.com/sledhq/sled/state"
)

var logger = log.WithContext("pkg", "ledger")

// SetLogger swaps the package logger, mainly for tests.
func SetLogger(l log.Logger) {
	logger = l
}

const secondsPerDay = 24 * 60 * 60

// Ledger is the consumer surface over the staking state. All mutations are
// checkpointed against the underlying state and reverted on error.
type Ledger struct {
	mu    sync.RWMutex
	state *state.State
	auth  auth.Authority

	store       *store
	registry    *registry
	issuer      *issuer
	positions   *positions
	compounding *compoundingSet
	transfers   *transferCoordinator
	metadata    *metadata.Store

	nowFn func() uint64

	feed  event.Feed
	scope event.SubscriptionScope

	opCounter   metrics.CountVecMeter
	supplyGauge metrics.GaugeMeter
}

// New creates a ledger rooted at addr in st, gated by authority.
func New(addr sled.Address, st *state.State, authority auth.Authority) *Ledger {
	store := newStore(addr, st)
	issuer := newIssuer(store)
	positions := newPositions(store, issuer)
	return &Ledger{
		state:       st,
		auth:        authority,
		store:       store,
		registry:    newRegistry(store),
		issuer:      issuer,
		positions:   positions,
		compounding: newCompoundingSet(store, positions),
		transfers:   newTransferCoordinator(store),
		metadata:    metadata.New(addr, st),
		nowFn:       func() uint64 { return uint64(time.Now().Unix()) },
		opCounter:   metrics.CounterVec("ledger_ops_total", []string{"op", "outcome"}),
		supplyGauge: metrics.Gauge("ledger_live_positions"),
	}
}

// Close terminates all event subscriptions.
func (l *Ledger) Close() {
	l.scope.Close()
}

// SubscribeEvents registers ch to receive ledger events. Events are sent
// only after the mutation that produced them has committed.
func (l *Ledger) SubscribeEvents(ch chan *Event) event.Subscription {
	return l.scope.Track(l.feed.Subscribe(ch))
}

// run executes fn inside a state checkpoint. On error the checkpoint is
// reverted and nothing is published; on success the state commits and the
// returned events go out on the feed, outside the lock.
func (l *Ledger) run(op string, fn func() ([]*Event, error)) error {
	l.mu.Lock()
	checkpoint := l.state.NewCheckpoint()
	events, err := fn()
	if err != nil {
		l.state.RevertTo(checkpoint)
		l.mu.Unlock()
		l.opCounter.AddWithLabel(1, map[string]string{"op": op, "outcome": "failed"})
		return err
	}
	l.state.Commit()
	l.mu.Unlock()
	l.opCounter.AddWithLabel(1, map[string]string{"op": op, "outcome": "committed"})
	for _, ev := range events {
		l.feed.Send(ev)
	}
	return nil
}

// AddStakeType registers a named lock policy. Restricted to admins.
func (l *Ledger) AddStakeType(caller sled.Address, name string, lockDays uint32) error {
	logger.Debug("adding stake type", "caller", caller, "name", name, "lockDays", lockDays)
	if !l.auth.IsAdmin(caller) {
		return errs.Authorization("caller %s is not an admin", caller)
	}
	err := l.run("addStakeType", func() ([]*Event, error) {
		return nil, l.registry.AddType(name, lockDays)
	})
	if err != nil {
		logger.Info("add stake type failed", "name", name, "error", err)
		return err
	}
	logger.Info("added stake type", "name", name, "lockDays", lockDays)
	return nil
}

// GetStakeTypes returns all registered types in registration order,
// including the sentinel at index 0.
func (l *Ledger) GetStakeTypes() ([]*StakeType, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.registry.ListTypes()
}

// GetStakeTypeInfo returns the named policy, or the sentinel when the name
// was never registered. A zero lock duration means "unregistered".
func (l *Ledger) GetStakeTypeInfo(name string) (*StakeType, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.registry.GetType(name)
}

// LockDays returns the lock duration of the named policy, 0 when unregistered.
func (l *Ledger) LockDays(name string) (uint32, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.registry.LockDays(name)
}

// Mint creates a new position for owner and returns its id. The lock horizon
// is depositedAt plus the type's lock duration. Restricted to operators.
func (l *Ledger) Mint(
	caller sled.Address,
	owner sled.Address,
	amount *big.Int,
	typeName string,
	depositedAt uint64,
	autoCompound bool,
) (uint64, error) {
	logger.Debug("minting position", "caller", caller, "owner", owner, "type", typeName, "amount", amount)
	if !l.auth.IsOperator(caller) {
		return 0, errs.Authorization("caller %s is not an operator", caller)
	}
	var id uint64
	err := l.run("mint", func() ([]*Event, error) {
		entry, err := l.registry.GetType(typeName)
		if err != nil {
			return nil, err
		}
		if entry.IsSentinel() {
			return nil, errs.Validation("stake type %q is not registered", typeName)
		}
		lockedUntil := depositedAt + uint64(entry.LockDays)*secondsPerDay
		id, err = l.positions.Mint(owner, amount, typeName, depositedAt, lockedUntil, autoCompound)
		if err != nil {
			return nil, err
		}
		return []*Event{newPositionCreated(id, owner, amount)}, nil
	})
	if err != nil {
		logger.Info("mint failed", "owner", owner, "error", err)
		return 0, err
	}
	l.updateSupplyGauge()
	logger.Info("minted position", "id", id, "owner", owner, "type", typeName)
	return id, nil
}

// Burn retires the position unconditionally. Restricted to operators.
func (l *Ledger) Burn(caller sled.Address, id uint64) error {
	logger.Debug("burning position", "caller", caller, "id", id)
	if !l.auth.IsOperator(caller) {
		return errs.Authorization("caller %s is not an operator", caller)
	}
	err := l.run("burn", func() ([]*Event, error) {
		owner, err := l.positions.Burn(id)
		if err != nil {
			return nil, err
		}
		if err := l.metadata.Clear(id); err != nil {
			return nil, err
		}
		return []*Event{newPositionDestroyed(id, owner)}, nil
	})
	if err != nil {
		logger.Info("burn failed", "id", id, "error", err)
		return err
	}
	l.updateSupplyGauge()
	logger.Info("burned position", "id", id)
	return nil
}

// DecreaseAmount subtracts amount from the position. Subtracting the exact
// stored amount retires the position instead of leaving a zero record.
// Restricted to operators.
func (l *Ledger) DecreaseAmount(caller sled.Address, id uint64, amount *big.Int) error {
	logger.Debug("decreasing amount", "caller", caller, "id", id, "amount", amount)
	if !l.auth.IsOperator(caller) {
		return errs.Authorization("caller %s is not an operator", caller)
	}
	var retired bool
	err := l.run("decreaseAmount", func() ([]*Event, error) {
		owner, wasRetired, err := l.positions.Decrease(id, amount)
		if err != nil {
			return nil, err
		}
		retired = wasRetired
		events := []*Event{newAmountDecreased(id, amount)}
		if wasRetired {
			if err := l.metadata.Clear(id); err != nil {
				return nil, err
			}
			events = append(events, newPositionDestroyed(id, owner))
		}
		return events, nil
	})
	if err != nil {
		logger.Info("decrease amount failed", "id", id, "error", err)
		return err
	}
	if retired {
		l.updateSupplyGauge()
	}
	logger.Info("decreased amount", "id", id, "retired", retired)
	return nil
}

// IncreaseAmount adds amount to the position. Restricted to operators.
func (l *Ledger) IncreaseAmount(caller sled.Address, id uint64, amount *big.Int) error {
	logger.Debug("increasing amount", "caller", caller, "id", id, "amount", amount)
	if !l.auth.IsOperator(caller) {
		return errs.Authorization("caller %s is not an operator", caller)
	}
	err := l.run("increaseAmount", func() ([]*Event, error) {
		if err := l.positions.Increase(id, amount); err != nil {
			return nil, err
		}
		return []*Event{newAmountIncreased(id, amount)}, nil
	})
	if err != nil {
		logger.Info("increase amount failed", "id", id, "error", err)
		return err
	}
	logger.Info("increased amount", "id", id)
	return nil
}

// IncreaseAmounts applies per-position increases as a single atomic batch:
// either every position is credited or none are. Restricted to operators.
func (l *Ledger) IncreaseAmounts(caller sled.Address, ids []uint64, amounts []*big.Int) error {
	logger.Debug("increasing amounts", "caller", caller, "count", len(ids))
	if !l.auth.IsOperator(caller) {
		return errs.Authorization("caller %s is not an operator", caller)
	}
	err := l.run("increaseAmounts", func() ([]*Event, error) {
		if len(ids) != len(amounts) {
			return nil, errs.Validation("ids and amounts length mismatch: %d vs %d", len(ids), len(amounts))
		}
		for i, id := range ids {
			if err := l.positions.Increase(id, amounts[i]); err != nil {
				return nil, err
			}
		}
		return []*Event{newAmountIncreasedBatch(ids, amounts)}, nil
	})
	if err != nil {
		logger.Info("increase amounts failed", "count", len(ids), "error", err)
		return err
	}
	logger.Info("increased amounts", "count", len(ids))
	return nil
}

// SetCompounding flips the compounding flag of the position. Allowed for the
// current owner and for operators.
func (l *Ledger) SetCompounding(caller sled.Address, id uint64, desired bool) error {
	logger.Debug("setting compounding", "caller", caller, "id", id, "desired", desired)
	err := l.run("setCompounding", func() ([]*Event, error) {
		if _, err := l.positions.Get(id); err != nil {
			return nil, err
		}
		owner, err := l.store.GetOwner(id)
		if err != nil {
			return nil, err
		}
		if caller != owner && !l.auth.IsOperator(caller) {
			return nil, errs.Authorization("caller %s is neither owner nor operator of position %d", caller, id)
		}
		return nil, l.compounding.Set(id, desired)
	})
	if err != nil {
		logger.Info("set compounding failed", "id", id, "error", err)
		return err
	}
	logger.Info("set compounding", "id", id, "desired", desired)
	return nil
}

// IsCompounding returns the flag of the live position.
func (l *Ledger) IsCompounding(id uint64) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.compounding.IsCompounding(id)
}

// ListCompoundingIDs returns the raw membership set, unordered.
func (l *Ledger) ListCompoundingIDs() ([]uint64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.compounding.List()
}

// Transfer moves the position from from to to, keeping both owner indices
// consistent. Existence and authorization are the caller's concern; this is
// the hook invoked right after an ownership change is authorized.
func (l *Ledger) Transfer(from, to sled.Address, id uint64) error {
	logger.Debug("transferring position", "id", id, "from", from, "to", to)
	err := l.run("transfer", func() ([]*Event, error) {
		return nil, l.transfers.Transfer(from, to, id)
	})
	if err != nil {
		logger.Info("transfer failed", "id", id, "error", err)
		return err
	}
	logger.Info("transferred position", "id", id, "from", from, "to", to)
	return nil
}

// GetStakeInfo returns the full record of the live position.
func (l *Ledger) GetStakeInfo(id uint64) (*Stake, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.positions.Get(id)
}

// OwnerOf returns the current owner of the live position.
func (l *Ledger) OwnerOf(id uint64) (sled.Address, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if _, err := l.positions.Get(id); err != nil {
		return sled.Address{}, err
	}
	return l.store.GetOwner(id)
}

// Exists reports whether id has a live record.
func (l *Ledger) Exists(id uint64) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	entry, err := l.store.GetStake(id)
	if err != nil {
		return false, err
	}
	return !entry.IsEmpty(), nil
}

// GetStakeTokenIDs returns the owner's current id sequence. Order is not
// meaningful.
func (l *Ledger) GetStakeTokenIDs(owner sled.Address) ([]uint64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.positions.OwnerStakeIDs(owner)
}

// GetStakeAmount returns the sum of amounts over all of the owner's positions.
func (l *Ledger) GetStakeAmount(owner sled.Address) (*big.Int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.positions.OwnerTotalAmount(owner)
}

// IsHolder reports whether the owner holds at least one position.
func (l *Ledger) IsHolder(owner sled.Address) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	ids, err := l.positions.OwnerStakeIDs(owner)
	if err != nil {
		return false, err
	}
	return len(ids) > 0, nil
}

// GetEligibleStakeAmount sums amounts of positions deposited at or before
// cutoff. The cutoff must not be in the future.
func (l *Ledger) GetEligibleStakeAmount(cutoff uint64) (*big.Int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.positions.EligibleAmountBefore(cutoff, l.nowFn())
}

// CurrentSupply returns the count of live positions.
func (l *Ledger) CurrentSupply() (uint64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.issuer.LiveCount()
}

// SetBaseURI sets the metadata base URI. Restricted to admins.
func (l *Ledger) SetBaseURI(caller sled.Address, uri string) error {
	if !l.auth.IsAdmin(caller) {
		return errs.Authorization("caller %s is not an admin", caller)
	}
	return l.run("setBaseURI", func() ([]*Event, error) {
		return nil, l.metadata.SetBaseURI(uri)
	})
}

// SetTokenURI sets a per-position metadata override. Restricted to admins.
func (l *Ledger) SetTokenURI(caller sled.Address, id uint64, uri string) error {
	if !l.auth.IsAdmin(caller) {
		return errs.Authorization("caller %s is not an admin", caller)
	}
	return l.run("setTokenURI", func() ([]*Event, error) {
		if _, err := l.positions.Get(id); err != nil {
			return nil, err
		}
		return nil, l.metadata.SetTokenURI(id, uri)
	})
}

// TokenURI returns the metadata URI of the live position.
func (l *Ledger) TokenURI(id uint64) (string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if _, err := l.positions.Get(id); err != nil {
		return "", err
	}
	return l.metadata.TokenURI(id)
}

func (l *Ledger) updateSupplyGauge() {
	l.mu.RLock()
	supply, err := l.issuer.LiveCount()
	l.mu.RUnlock()
	if err != nil {
		return
	}
	l.supplyGauge.Set(int64(supply)) //#nosec G115
}
