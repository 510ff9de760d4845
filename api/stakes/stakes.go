// Copyright (c) 2025 The Sled developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/sledhq/sled/api/restutil"
	"github.com/sledhq/sled/ledger"
	"github.com/sledhq/sled/sled"
)

type Stakes struct {
	ledger *ledger.Ledger
}

func New(ledger *ledger.Ledger) *Stakes {
	return &Stakes{ledger}
}

func (s *Stakes) handleGetStake(w http.ResponseWriter, req *http.Request) error {
	id, err := strconv.ParseUint(mux.Vars(req)["id"], 10, 64)
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "id"))
	}
	entry, err := s.ledger.GetStakeInfo(id)
	if err != nil {
		return restutil.ConvertErr(err)
	}
	owner, err := s.ledger.OwnerOf(id)
	if err != nil {
		return restutil.ConvertErr(err)
	}
	uri, err := s.ledger.TokenURI(id)
	if err != nil {
		return restutil.ConvertErr(err)
	}
	return restutil.WriteJSON(w, convertStake(id, owner, entry, uri))
}

func (s *Stakes) handleGetSupply(w http.ResponseWriter, _ *http.Request) error {
	supply, err := s.ledger.CurrentSupply()
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, restutil.M{"supply": supply})
}

func (s *Stakes) handleGetEligible(w http.ResponseWriter, req *http.Request) error {
	cutoff, err := strconv.ParseUint(req.URL.Query().Get("cutoff"), 10, 64)
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "cutoff"))
	}
	amount, err := s.ledger.GetEligibleStakeAmount(cutoff)
	if err != nil {
		return restutil.ConvertErr(err)
	}
	return restutil.WriteJSON(w, restutil.M{"amount": (*math.HexOrDecimal256)(amount)})
}

func (s *Stakes) handleGetCompounding(w http.ResponseWriter, _ *http.Request) error {
	ids, err := s.ledger.ListCompoundingIDs()
	if err != nil {
		return err
	}
	if ids == nil {
		ids = []uint64{}
	}
	return restutil.WriteJSON(w, restutil.M{"ids": ids})
}

func (s *Stakes) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	owner, err := sled.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "address"))
	}
	ids, err := s.ledger.GetStakeTokenIDs(owner)
	if err != nil {
		return restutil.ConvertErr(err)
	}
	if ids == nil {
		ids = []uint64{}
	}
	total, err := s.ledger.GetStakeAmount(owner)
	if err != nil {
		return restutil.ConvertErr(err)
	}
	return restutil.WriteJSON(w, &Account{
		Owner:  owner,
		IDs:    ids,
		Total:  (*math.HexOrDecimal256)(total),
		Holder: len(ids) > 0,
	})
}

func (s *Stakes) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/supply").Methods(http.MethodGet).HandlerFunc(restutil.WrapHandlerFunc(s.handleGetSupply))
	sub.Path("/eligible").Methods(http.MethodGet).HandlerFunc(restutil.WrapHandlerFunc(s.handleGetEligible))
	sub.Path("/compounding").Methods(http.MethodGet).HandlerFunc(restutil.WrapHandlerFunc(s.handleGetCompounding))
	sub.Path("/{id:[0-9]+}").Methods(http.MethodGet).HandlerFunc(restutil.WrapHandlerFunc(s.handleGetStake))
}

// MountAccounts exposes the per-account aggregate view.
func (s *Stakes) MountAccounts(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}/stakes").Methods(http.MethodGet).HandlerFunc(restutil.WrapHandlerFunc(s.handleGetAccount))
}
