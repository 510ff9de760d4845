// Copyright (c) 2025 The Sled developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"

	"github.com/sledhq/sled/sled"
)

func TestStateReadWrite(t *testing.T) {
	st := New()

	addr := sled.BytesToAddress([]byte("addr"))
	key := sled.BytesToBytes32([]byte("key"))

	assert.Empty(t, st.GetRawStorage(addr, key))

	err := st.EncodeStorage(addr, key, func() ([]byte, error) {
		return rlp.EncodeToBytes("value")
	})
	assert.NoError(t, err)

	var decoded string
	err = st.DecodeStorage(addr, key, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &decoded)
	})
	assert.NoError(t, err)
	assert.Equal(t, "value", decoded)

	// same key under another address is a distinct slot
	assert.Empty(t, st.GetRawStorage(sled.BytesToAddress([]byte("other")), key))
}

func TestStateCheckpointRevert(t *testing.T) {
	st := New()

	addr := sled.BytesToAddress([]byte("addr"))
	k1 := sled.BytesToBytes32([]byte("k1"))
	k2 := sled.BytesToBytes32([]byte("k2"))

	st.SetRawStorage(addr, k1, []byte{0x01})

	checkpoint := st.NewCheckpoint()
	st.SetRawStorage(addr, k1, []byte{0x02})
	st.SetRawStorage(addr, k2, []byte{0x03})
	assert.Equal(t, rlp.RawValue{0x02}, st.GetRawStorage(addr, k1))

	st.RevertTo(checkpoint)
	assert.Equal(t, rlp.RawValue{0x01}, st.GetRawStorage(addr, k1))
	assert.Empty(t, st.GetRawStorage(addr, k2))
}

func TestStateCommit(t *testing.T) {
	st := New()

	addr := sled.BytesToAddress([]byte("addr"))
	k1 := sled.BytesToBytes32([]byte("k1"))
	k2 := sled.BytesToBytes32([]byte("k2"))

	checkpoint := st.NewCheckpoint()
	st.SetRawStorage(addr, k1, []byte{0x01})
	st.SetRawStorage(addr, k2, []byte{0x02})
	st.Commit()

	assert.Equal(t, rlp.RawValue{0x01}, st.GetRawStorage(addr, k1))

	// deleting via empty raw removes the slot on commit
	st.SetRawStorage(addr, k2, nil)
	st.Commit()
	assert.Empty(t, st.GetRawStorage(addr, k2))

	// reverting past a commit must not resurrect old values
	st.RevertTo(checkpoint)
	assert.Equal(t, rlp.RawValue{0x01}, st.GetRawStorage(addr, k1))
}
