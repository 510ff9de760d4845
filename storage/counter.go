// Copyright (c) 2025 The Sled developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/sledhq/sled/sled"
)

// Counter is a single uint64 slot, similar to storing a counter variable
// in a contract. A never-written slot reads as zero.
type Counter struct {
	context *Context
	pos     sled.Bytes32
}

func NewCounter(context *Context, slot sled.Bytes32) *Counter {
	return &Counter{context: context, pos: slot}
}

func (c *Counter) Get() (value uint64, err error) {
	err = c.context.state.DecodeStorage(c.context.address, c.pos, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

func (c *Counter) Set(value uint64) error {
	return c.context.state.EncodeStorage(c.context.address, c.pos, func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}

// Increment adds one to the slot and returns the new value.
func (c *Counter) Increment() (uint64, error) {
	value, err := c.Get()
	if err != nil {
		return 0, err
	}
	value++
	if err := c.Set(value); err != nil {
		return 0, err
	}
	return value, nil
}

// Decrement subtracts one from the slot.
func (c *Counter) Decrement() error {
	value, err := c.Get()
	if err != nil {
		return err
	}
	if value == 0 {
		return errors.New("counter underflow")
	}
	return c.Set(value - 1)
}
