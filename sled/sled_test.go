// Copyright (c) 2025 The Sled developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package sled

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddress(t *testing.T) {
	addr := BytesToAddress([]byte("addr"))
	assert.False(t, addr.IsZero())
	assert.True(t, Address{}.IsZero())

	parsed, err := ParseAddress(addr.String())
	require.NoError(t, err)
	assert.Equal(t, addr, parsed)

	_, err = ParseAddress("0x1234")
	assert.Error(t, err)
	_, err = ParseAddress("invalid")
	assert.Error(t, err)

	data, err := json.Marshal(&addr)
	require.NoError(t, err)
	var back Address
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, addr, back)
}

func TestBytes32(t *testing.T) {
	b := BytesToBytes32([]byte("slot"))
	parsed, err := ParseBytes32(b.String())
	require.NoError(t, err)
	assert.Equal(t, b, parsed)

	_, err = ParseBytes32("0xabcd")
	assert.Error(t, err)
}

func TestBlake2b(t *testing.T) {
	h1 := Blake2b([]byte("hello"))
	h2 := Blake2b([]byte("hello"))
	assert.Equal(t, h1, h2)

	// split input hashes the concatenation
	h3 := Blake2b([]byte("he"), []byte("llo"))
	assert.Equal(t, h1, h3)

	assert.NotEqual(t, h1, Blake2b([]byte("world")))
}
