// Copyright (c) 2025 The Sled developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"reflect"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/sledhq/sled/sled"
)

// Key constrains mapping keys to types with a byte representation.
type Key interface {
	Bytes() []byte
}

// Mapping is a keyed record store rooted at a base slot. Record positions
// are derived from the key and the base slot, values are rlp encoded.
type Mapping[K Key, V any] struct {
	context *Context
	basePos sled.Bytes32
}

func NewMapping[K Key, V any](context *Context, pos sled.Bytes32) *Mapping[K, V] {
	return &Mapping[K, V]{context: context, basePos: pos}
}

func (m *Mapping[K, V]) position(key K) sled.Bytes32 {
	return sled.Blake2b(key.Bytes(), m.basePos.Bytes())
}

// Get decodes the record stored under key. A missing record decodes to the
// zero value; pointer-typed values decode to a pointer at an empty record.
func (m *Mapping[K, V]) Get(key K) (value V, err error) {
	err = m.context.state.DecodeStorage(m.context.address, m.position(key), func(raw []byte) error {
		if reflect.ValueOf(value).Kind() == reflect.Ptr {
			value = reflect.New(reflect.TypeOf(value).Elem()).Interface().(V)
		}
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

// Set stores the rlp encoded value under key.
func (m *Mapping[K, V]) Set(key K, value V) error {
	return m.context.state.EncodeStorage(m.context.address, m.position(key), func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}

// Delete clears the record stored under key.
func (m *Mapping[K, V]) Delete(key K) error {
	return m.context.state.EncodeStorage(m.context.address, m.position(key), func() ([]byte, error) {
		return nil, nil
	})
}
