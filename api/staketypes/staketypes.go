// Copyright (c) 2025 The Sled developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staketypes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/sledhq/sled/api/restutil"
	"github.com/sledhq/sled/ledger"
)

type StakeTypes struct {
	ledger *ledger.Ledger
}

func New(ledger *ledger.Ledger) *StakeTypes {
	return &StakeTypes{ledger}
}

func (s *StakeTypes) handleList(w http.ResponseWriter, _ *http.Request) error {
	types, err := s.ledger.GetStakeTypes()
	if err != nil {
		return err
	}
	// the index-0 sentinel is an implementation detail, not a policy
	registered := make([]*ledger.StakeType, 0, len(types))
	for _, t := range types {
		if t.IsSentinel() {
			continue
		}
		registered = append(registered, t)
	}
	return restutil.WriteJSON(w, registered)
}

func (s *StakeTypes) handleGet(w http.ResponseWriter, req *http.Request) error {
	name := mux.Vars(req)["name"]
	entry, err := s.ledger.GetStakeTypeInfo(name)
	if err != nil {
		return restutil.ConvertErr(err)
	}
	if entry.IsSentinel() {
		return restutil.NotFound(errors.Errorf("stake type %q is not registered", name))
	}
	return restutil.WriteJSON(w, entry)
}

func (s *StakeTypes) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods(http.MethodGet).HandlerFunc(restutil.WrapHandlerFunc(s.handleList))
	sub.Path("/{name}").Methods(http.MethodGet).HandlerFunc(restutil.WrapHandlerFunc(s.handleGet))
}
