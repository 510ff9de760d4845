// Copyright (c) 2025 The Sled developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/sledhq/sled/ledger"
	"github.com/sledhq/sled/sled"
)

// Stake is the response shape of a single position.
type Stake struct {
	ID          uint64                `json:"id"`
	Owner       sled.Address          `json:"owner"`
	Amount      *math.HexOrDecimal256 `json:"amount"`
	Type        string                `json:"type"`
	DepositedAt uint64                `json:"depositedAt"`
	LockedUntil uint64                `json:"lockedUntil"`
	Compounding bool                  `json:"compounding"`
	URI         string                `json:"uri,omitempty"`
}

func convertStake(id uint64, owner sled.Address, entry *ledger.Stake, uri string) *Stake {
	return &Stake{
		ID:          id,
		Owner:       owner,
		Amount:      (*math.HexOrDecimal256)(entry.Amount),
		Type:        entry.TypeName,
		DepositedAt: entry.DepositedAt,
		LockedUntil: entry.LockedUntil,
		Compounding: entry.Compounding,
		URI:         uri,
	}
}

// Account aggregates an owner's positions.
type Account struct {
	Owner  sled.Address          `json:"owner"`
	IDs    []uint64              `json:"ids"`
	Total  *math.HexOrDecimal256 `json:"total"`
	Holder bool                  `json:"holder"`
}
