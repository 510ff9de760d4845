// Copyright (c) 2025 The Sled developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sledhq/sled/ledger"
	"github.com/sledhq/sled/ledger/auth"
	"github.com/sledhq/sled/sled"
	"github.com/sledhq/sled/state"
	"github.com/sledhq/sled/test/datagen"
)

type testEnv struct {
	ledger *ledger.Ledger
	server *httptest.Server
	owner  sled.Address
	id     uint64
}

func newTestEnv(t *testing.T) *testEnv {
	admin := datagen.RandAddress()
	roles := auth.NewRoles(admin)
	l := ledger.New(sled.BytesToAddress([]byte("ledger")), state.New(), roles)

	require.NoError(t, l.AddStakeType(admin, "30-day", 30))
	owner := datagen.RandAddress()
	depositedAt := uint64(time.Now().Unix()) - 1000
	id, err := l.Mint(admin, owner, big.NewInt(1000), "30-day", depositedAt, true)
	require.NoError(t, err)

	router := mux.NewRouter()
	handler := New(l)
	handler.Mount(router, "/stakes")
	handler.MountAccounts(router, "/accounts")
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return &testEnv{ledger: l, server: server, owner: owner, id: id}
}

func (e *testEnv) get(t *testing.T, path string) (int, []byte) {
	res, err := http.Get(e.server.URL + path)
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, body
}

func TestGetStake(t *testing.T) {
	e := newTestEnv(t)

	status, body := e.get(t, "/stakes/1")
	require.Equal(t, http.StatusOK, status)

	var stake Stake
	require.NoError(t, json.Unmarshal(body, &stake))
	assert.Equal(t, e.id, stake.ID)
	assert.Equal(t, e.owner, stake.Owner)
	assert.Equal(t, "30-day", stake.Type)
	assert.True(t, stake.Compounding)

	status, _ = e.get(t, "/stakes/99")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = e.get(t, "/stakes/not-a-number")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestGetSupply(t *testing.T) {
	e := newTestEnv(t)

	status, body := e.get(t, "/stakes/supply")
	require.Equal(t, http.StatusOK, status)

	var supply struct {
		Supply uint64 `json:"supply"`
	}
	require.NoError(t, json.Unmarshal(body, &supply))
	assert.Equal(t, uint64(1), supply.Supply)
}

func TestGetCompounding(t *testing.T) {
	e := newTestEnv(t)

	status, body := e.get(t, "/stakes/compounding")
	require.Equal(t, http.StatusOK, status)

	var set struct {
		IDs []uint64 `json:"ids"`
	}
	require.NoError(t, json.Unmarshal(body, &set))
	assert.Equal(t, []uint64{e.id}, set.IDs)
}

func TestGetEligible(t *testing.T) {
	e := newTestEnv(t)

	status, _ := e.get(t, "/stakes/eligible")
	assert.Equal(t, http.StatusBadRequest, status)

	// a cutoff far in the future is rejected
	status, _ = e.get(t, "/stakes/eligible?cutoff=99999999999")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestGetAccount(t *testing.T) {
	e := newTestEnv(t)

	status, body := e.get(t, "/accounts/"+e.owner.String()+"/stakes")
	require.Equal(t, http.StatusOK, status)

	var account Account
	require.NoError(t, json.Unmarshal(body, &account))
	assert.Equal(t, e.owner, account.Owner)
	assert.Equal(t, []uint64{e.id}, account.IDs)
	assert.True(t, account.Holder)

	status, body = e.get(t, "/accounts/"+datagen.RandAddress().String()+"/stakes")
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &account))
	assert.Empty(t, account.IDs)
	assert.False(t, account.Holder)

	status, _ = e.get(t, "/accounts/invalid/stakes")
	assert.Equal(t, http.StatusBadRequest, status)
}
