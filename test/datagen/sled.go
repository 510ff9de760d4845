// Copyright (c) 2025 The Sled developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	"crypto/rand"
	"math/big"
	mathrand "math/rand/v2"

	"github.com/sledhq/sled/sled"
)

func RandAddress() (addr sled.Address) {
	rand.Read(addr[:])
	return
}

func RandBytes32() (b sled.Bytes32) {
	rand.Read(b[:])
	return
}

// RandAmount returns a random positive amount below 1e18.
func RandAmount() *big.Int {
	return big.NewInt(mathrand.Int64N(1e18-1) + 1) //#nosec G404
}

func RandIntN(n int) int {
	return mathrand.N(n) //#nosec G404
}
