// Copyright (c) 2025 The Sled developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sledhq/sled/ledger/auth"
	"github.com/sledhq/sled/ledger/errs"
	"github.com/sledhq/sled/sled"
	"github.com/sledhq/sled/state"
	"github.com/sledhq/sled/test/datagen"
)

func M(a ...any) []any {
	return a
}

const testNow = uint64(1_000_000)

type env struct {
	ledger   *Ledger
	admin    sled.Address
	operator sled.Address
}

func newEnv(t *testing.T) *env {
	st := state.New()
	admin := datagen.RandAddress()
	operator := datagen.RandAddress()
	roles := auth.NewRoles(admin)
	require.NoError(t, roles.GrantOperator(admin, operator))

	l := New(sled.BytesToAddress([]byte("ledger")), st, roles)
	l.nowFn = func() uint64 { return testNow }
	require.NoError(t, l.AddStakeType(admin, "30-day", 30))
	return &env{ledger: l, admin: admin, operator: operator}
}

func (e *env) mint(t *testing.T, owner sled.Address, amount int64, depositedAt uint64, compound bool) uint64 {
	id, err := e.ledger.Mint(e.operator, owner, big.NewInt(amount), "30-day", depositedAt, compound)
	require.NoError(t, err)
	return id
}

func TestStakeTypeRegistry(t *testing.T) {
	e := newEnv(t)
	l := e.ledger

	tests := []struct {
		name     string
		lockDays uint32
		expected error
	}{
		{"", 10, errs.Validation("stake type name must not be empty")},
		{"x", 0, errs.Validation("lock duration must be greater than zero")},
		{"90-day", 90, nil},
		{"30-day", 31, errs.Validation("stake type \"30-day\" already registered")},
	}
	for _, tt := range tests {
		err := l.AddStakeType(e.admin, tt.name, tt.lockDays)
		if tt.expected == nil {
			assert.NoError(t, err)
		} else {
			assert.EqualError(t, err, tt.expected.Error())
			assert.True(t, errs.IsValidation(err))
		}
	}

	assert.Equal(t, M(&StakeType{Name: "90-day", LockDays: 90}, nil), M(l.GetStakeTypeInfo("90-day")))
	assert.Equal(t, M(uint32(30), nil), M(l.LockDays("30-day")))

	// an unregistered name reads as the sentinel, not an error
	entry, err := l.GetStakeTypeInfo("never-registered")
	require.NoError(t, err)
	assert.True(t, entry.IsSentinel())
	assert.Equal(t, M(uint32(0), nil), M(l.LockDays("never-registered")))

	types, err := l.GetStakeTypes()
	require.NoError(t, err)
	require.Len(t, types, 3)
	assert.True(t, types[0].IsSentinel())
	assert.Equal(t, "30-day", types[1].Name)
	assert.Equal(t, "90-day", types[2].Name)

	err = l.AddStakeType(datagen.RandAddress(), "intruder", 10)
	assert.True(t, errs.IsAuthorization(err))
}

func TestMintIssuesSequentialIDs(t *testing.T) {
	e := newEnv(t)
	owner := datagen.RandAddress()

	for want := uint64(1); want <= 5; want++ {
		assert.Equal(t, want, e.mint(t, owner, 100, testNow-100, false))
	}
	require.NoError(t, e.ledger.Burn(e.operator, 3))

	// retirement leaves no gap and no reuse
	assert.Equal(t, uint64(6), e.mint(t, owner, 100, testNow-100, false))
	assert.Equal(t, M(uint64(5), nil), M(e.ledger.CurrentSupply()))
}

func TestMintValidation(t *testing.T) {
	e := newEnv(t)
	owner := datagen.RandAddress()

	_, err := e.ledger.Mint(e.operator, owner, big.NewInt(0), "30-day", testNow, false)
	assert.True(t, errs.IsValidation(err))

	_, err = e.ledger.Mint(e.operator, owner, big.NewInt(100), "unknown-type", testNow, false)
	assert.True(t, errs.IsValidation(err))

	_, err = e.ledger.Mint(datagen.RandAddress(), owner, big.NewInt(100), "30-day", testNow, false)
	assert.True(t, errs.IsAuthorization(err))

	// nothing leaked into state
	assert.Equal(t, M(uint64(0), nil), M(e.ledger.CurrentSupply()))
	assert.Equal(t, M(big.NewInt(0), nil), M(e.ledger.GetStakeAmount(owner)))
}

func TestMintStoresLockHorizon(t *testing.T) {
	e := newEnv(t)
	owner := datagen.RandAddress()
	depositedAt := testNow - 500

	id := e.mint(t, owner, 100, depositedAt, true)
	entry, err := e.ledger.GetStakeInfo(id)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(100), entry.Amount)
	assert.Equal(t, "30-day", entry.TypeName)
	assert.Equal(t, depositedAt, entry.DepositedAt)
	assert.Equal(t, depositedAt+30*secondsPerDay, entry.LockedUntil)
	assert.True(t, entry.Compounding)

	assert.Equal(t, M(owner, nil), M(e.ledger.OwnerOf(id)))
	assert.Equal(t, M(true, nil), M(e.ledger.Exists(id)))
	assert.Equal(t, M(true, nil), M(e.ledger.IsHolder(owner)))
}

func TestDecreaseToZeroRetires(t *testing.T) {
	e := newEnv(t)
	owner := datagen.RandAddress()

	id := e.mint(t, owner, 100, testNow-100, true)
	assert.Equal(t, M(big.NewInt(100), nil), M(e.ledger.GetStakeAmount(owner)))

	require.NoError(t, e.ledger.DecreaseAmount(e.operator, id, big.NewInt(100)))

	assert.Equal(t, M(big.NewInt(0), nil), M(e.ledger.GetStakeAmount(owner)))
	assert.Equal(t, M(uint64(0), nil), M(e.ledger.CurrentSupply()))
	assert.Equal(t, M(false, nil), M(e.ledger.Exists(id)))

	_, err := e.ledger.GetStakeInfo(id)
	assert.True(t, errs.IsNotFound(err))
	_, err = e.ledger.IsCompounding(id)
	assert.True(t, errs.IsNotFound(err))

	ids, err := e.ledger.GetStakeTokenIDs(owner)
	require.NoError(t, err)
	assert.Empty(t, ids)
	set, err := e.ledger.ListCompoundingIDs()
	require.NoError(t, err)
	assert.Empty(t, set)
}

func TestDecreasePartial(t *testing.T) {
	e := newEnv(t)
	owner := datagen.RandAddress()
	id := e.mint(t, owner, 100, testNow-100, false)

	require.NoError(t, e.ledger.DecreaseAmount(e.operator, id, big.NewInt(40)))
	entry, err := e.ledger.GetStakeInfo(id)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(60), entry.Amount)
	assert.Equal(t, M(uint64(1), nil), M(e.ledger.CurrentSupply()))
}

func TestDecreaseExceedingAmount(t *testing.T) {
	e := newEnv(t)
	owner := datagen.RandAddress()
	id := e.mint(t, owner, 100, testNow-100, false)

	err := e.ledger.DecreaseAmount(e.operator, id, big.NewInt(101))
	assert.True(t, errs.IsValidation(err))

	// record untouched
	entry, err := e.ledger.GetStakeInfo(id)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(100), entry.Amount)

	err = e.ledger.DecreaseAmount(e.operator, 99, big.NewInt(1))
	assert.True(t, errs.IsNotFound(err))
}

func TestRetireMiddlePosition(t *testing.T) {
	e := newEnv(t)
	owner := datagen.RandAddress()

	first := e.mint(t, owner, 10, testNow-300, false)
	second := e.mint(t, owner, 20, testNow-200, false)
	third := e.mint(t, owner, 30, testNow-100, false)

	require.NoError(t, e.ledger.Burn(e.operator, second))

	ids, err := e.ledger.GetStakeTokenIDs(owner)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint64{first, third}, ids)
	assert.Equal(t, M(big.NewInt(40), nil), M(e.ledger.GetStakeAmount(owner)))
	assert.Equal(t, M(uint64(2), nil), M(e.ledger.CurrentSupply()))
}

func TestIncreaseAmount(t *testing.T) {
	e := newEnv(t)
	owner := datagen.RandAddress()
	id := e.mint(t, owner, 100, testNow-100, false)

	require.NoError(t, e.ledger.IncreaseAmount(e.operator, id, big.NewInt(50)))
	entry, err := e.ledger.GetStakeInfo(id)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(150), entry.Amount)

	err = e.ledger.IncreaseAmount(e.operator, id, big.NewInt(0))
	assert.True(t, errs.IsValidation(err))
	err = e.ledger.IncreaseAmount(e.operator, 99, big.NewInt(1))
	assert.True(t, errs.IsNotFound(err))
}

func TestIncreaseAmountsBatch(t *testing.T) {
	e := newEnv(t)
	owner := datagen.RandAddress()
	first := e.mint(t, owner, 10, testNow-200, false)
	second := e.mint(t, owner, 20, testNow-100, false)

	require.NoError(t, e.ledger.IncreaseAmounts(
		e.operator,
		[]uint64{first, second},
		[]*big.Int{big.NewInt(1), big.NewInt(2)},
	))
	assert.Equal(t, M(big.NewInt(33), nil), M(e.ledger.GetStakeAmount(owner)))

	err := e.ledger.IncreaseAmounts(e.operator, []uint64{first}, []*big.Int{big.NewInt(1), big.NewInt(2)})
	assert.True(t, errs.IsValidation(err))
}

func TestIncreaseAmountsBatchIsAtomic(t *testing.T) {
	e := newEnv(t)
	owner := datagen.RandAddress()
	id := e.mint(t, owner, 10, testNow-100, false)

	// second entry refers to a dead id, so the whole batch must roll back
	err := e.ledger.IncreaseAmounts(
		e.operator,
		[]uint64{id, 99},
		[]*big.Int{big.NewInt(5), big.NewInt(5)},
	)
	assert.True(t, errs.IsNotFound(err))

	entry, err := e.ledger.GetStakeInfo(id)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(10), entry.Amount)
}

func TestTransfer(t *testing.T) {
	e := newEnv(t)
	from := datagen.RandAddress()
	to := datagen.RandAddress()

	kept := e.mint(t, from, 10, testNow-200, false)
	moved := e.mint(t, from, 20, testNow-100, true)

	require.NoError(t, e.ledger.Transfer(from, to, moved))

	fromIDs, err := e.ledger.GetStakeTokenIDs(from)
	require.NoError(t, err)
	assert.Equal(t, []uint64{kept}, fromIDs)
	toIDs, err := e.ledger.GetStakeTokenIDs(to)
	require.NoError(t, err)
	assert.Equal(t, []uint64{moved}, toIDs)
	assert.Equal(t, M(to, nil), M(e.ledger.OwnerOf(moved)))

	// amount, type, timestamps and compounding are untouched
	entry, err := e.ledger.GetStakeInfo(moved)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(20), entry.Amount)
	assert.True(t, entry.Compounding)
	set, err := e.ledger.ListCompoundingIDs()
	require.NoError(t, err)
	assert.Equal(t, []uint64{moved}, set)

	err = e.ledger.Transfer(from, to, moved)
	assert.True(t, errs.IsNotFound(err))
	err = e.ledger.Transfer(from, to, 99)
	assert.True(t, errs.IsNotFound(err))
}

func TestSetCompounding(t *testing.T) {
	e := newEnv(t)
	owner := datagen.RandAddress()

	older := e.mint(t, owner, 10, testNow-300, false)
	newer := e.mint(t, owner, 20, testNow-200, false)

	// enabling on the older position must register that exact id
	require.NoError(t, e.ledger.SetCompounding(owner, older, true))
	set, err := e.ledger.ListCompoundingIDs()
	require.NoError(t, err)
	assert.Equal(t, []uint64{older}, set)
	assert.Equal(t, M(true, nil), M(e.ledger.IsCompounding(older)))
	assert.Equal(t, M(false, nil), M(e.ledger.IsCompounding(newer)))

	// no-op when already at the desired value
	require.NoError(t, e.ledger.SetCompounding(owner, older, true))
	set, err = e.ledger.ListCompoundingIDs()
	require.NoError(t, err)
	assert.Equal(t, []uint64{older}, set)

	require.NoError(t, e.ledger.SetCompounding(owner, older, false))
	set, err = e.ledger.ListCompoundingIDs()
	require.NoError(t, err)
	assert.Empty(t, set)

	err = e.ledger.SetCompounding(datagen.RandAddress(), newer, true)
	assert.True(t, errs.IsAuthorization(err))
	// operators may toggle on behalf of the owner
	require.NoError(t, e.ledger.SetCompounding(e.operator, newer, true))

	err = e.ledger.SetCompounding(owner, 99, true)
	assert.True(t, errs.IsNotFound(err))
}

func TestEligibleStakeAmount(t *testing.T) {
	e := newEnv(t)
	owner := datagen.RandAddress()

	e.mint(t, owner, 10, testNow-300, false)
	e.mint(t, owner, 20, testNow-200, false)
	e.mint(t, owner, 30, testNow-100, false)

	tests := []struct {
		cutoff   uint64
		expected *big.Int
	}{
		{testNow - 400, big.NewInt(0)},
		{testNow - 300, big.NewInt(10)},
		{testNow - 200, big.NewInt(30)},
		{testNow - 150, big.NewInt(30)},
		{testNow, big.NewInt(60)},
	}
	for _, tt := range tests {
		assert.Equal(t, M(tt.expected, nil), M(e.ledger.GetEligibleStakeAmount(tt.cutoff)))
	}

	_, err := e.ledger.GetEligibleStakeAmount(testNow + 1)
	assert.True(t, errs.IsValidation(err))
}

func TestEligibleScanStopsAtFirstLaterDeposit(t *testing.T) {
	e := newEnv(t)
	owner := datagen.RandAddress()

	// the scan assumes deposit times are non-decreasing in id order; a
	// backdated deposit behind a later one is not counted
	e.mint(t, owner, 10, testNow-100, false)
	e.mint(t, owner, 20, testNow-500, false)

	assert.Equal(t, M(big.NewInt(0), nil), M(e.ledger.GetEligibleStakeAmount(testNow-200)))
}

func TestEligibleScanSkipsRetiredIDs(t *testing.T) {
	e := newEnv(t)
	owner := datagen.RandAddress()

	first := e.mint(t, owner, 10, testNow-300, false)
	e.mint(t, owner, 20, testNow-200, false)
	require.NoError(t, e.ledger.Burn(e.operator, first))

	assert.Equal(t, M(big.NewInt(20), nil), M(e.ledger.GetEligibleStakeAmount(testNow)))
}

func TestOperatorGating(t *testing.T) {
	e := newEnv(t)
	owner := datagen.RandAddress()
	stranger := datagen.RandAddress()
	id := e.mint(t, owner, 100, testNow-100, false)

	assert.True(t, errs.IsAuthorization(e.ledger.Burn(stranger, id)))
	assert.True(t, errs.IsAuthorization(e.ledger.DecreaseAmount(stranger, id, big.NewInt(1))))
	assert.True(t, errs.IsAuthorization(e.ledger.IncreaseAmount(stranger, id, big.NewInt(1))))
	assert.True(t, errs.IsAuthorization(e.ledger.IncreaseAmounts(stranger, []uint64{id}, []*big.Int{big.NewInt(1)})))

	// admins hold the operator capability implicitly
	assert.NoError(t, e.ledger.IncreaseAmount(e.admin, id, big.NewInt(1)))
}

func TestFailedMutationLeavesNoTrace(t *testing.T) {
	e := newEnv(t)
	owner := datagen.RandAddress()
	id := e.mint(t, owner, 100, testNow-100, true)

	before, err := e.ledger.GetStakeInfo(id)
	require.NoError(t, err)

	err = e.ledger.DecreaseAmount(e.operator, id, big.NewInt(500))
	assert.True(t, errs.IsValidation(err))

	after, err := e.ledger.GetStakeInfo(id)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, M(uint64(1), nil), M(e.ledger.CurrentSupply()))
	set, err := e.ledger.ListCompoundingIDs()
	require.NoError(t, err)
	assert.Equal(t, []uint64{id}, set)
}

func TestEventsDeliveredAfterCommit(t *testing.T) {
	e := newEnv(t)
	defer e.ledger.Close()
	owner := datagen.RandAddress()

	ch := make(chan *Event, 16)
	sub := e.ledger.SubscribeEvents(ch)
	defer sub.Unsubscribe()

	id := e.mint(t, owner, 100, testNow-100, false)
	ev := <-ch
	assert.Equal(t, "position-created", ev.Name)
	assert.Equal(t, id, ev.ID)
	require.NotNil(t, ev.Owner)
	assert.Equal(t, owner, *ev.Owner)
	assert.Equal(t, big.NewInt(100), ev.Amount)

	// a failed mutation publishes nothing
	err := e.ledger.DecreaseAmount(e.operator, id, big.NewInt(500))
	assert.True(t, errs.IsValidation(err))
	assert.Empty(t, ch)

	require.NoError(t, e.ledger.DecreaseAmount(e.operator, id, big.NewInt(100)))
	ev = <-ch
	assert.Equal(t, "position-amount-decreased", ev.Name)
	ev = <-ch
	assert.Equal(t, "position-destroyed", ev.Name)
	assert.Equal(t, id, ev.ID)
}

func TestMetadata(t *testing.T) {
	e := newEnv(t)
	owner := datagen.RandAddress()
	id := e.mint(t, owner, 100, testNow-100, false)

	require.NoError(t, e.ledger.SetBaseURI(e.admin, "https://sled.example/positions/"))
	assert.Equal(t, M("https://sled.example/positions/1", nil), M(e.ledger.TokenURI(id)))

	require.NoError(t, e.ledger.SetTokenURI(e.admin, id, "ipfs://QmOverride"))
	assert.Equal(t, M("ipfs://QmOverride", nil), M(e.ledger.TokenURI(id)))

	assert.True(t, errs.IsAuthorization(e.ledger.SetBaseURI(owner, "x")))
	assert.True(t, errs.IsAuthorization(e.ledger.SetTokenURI(owner, id, "x")))
	err := e.ledger.SetTokenURI(e.admin, 99, "x")
	assert.True(t, errs.IsNotFound(err))

	_, err = e.ledger.TokenURI(99)
	assert.True(t, errs.IsNotFound(err))
}
