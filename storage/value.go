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

// Value is a single rlp encoded record at a fixed slot.
type Value[V any] struct {
	context *Context
	pos     sled.Bytes32
}

func NewValue[V any](context *Context, slot sled.Bytes32) *Value[V] {
	return &Value[V]{context: context, pos: slot}
}

// Get decodes the stored record. A missing record decodes to the zero value;
// pointer-typed values decode to a pointer at an empty record.
func (v *Value[V]) Get() (value V, err error) {
	err = v.context.state.DecodeStorage(v.context.address, v.pos, func(raw []byte) error {
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

// Set stores the rlp encoded value.
func (v *Value[V]) Set(value V) error {
	return v.context.state.EncodeStorage(v.context.address, v.pos, func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}
