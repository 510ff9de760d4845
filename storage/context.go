// Copyright (c) 2025 The Sled developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"github.com/sledhq/sled/sled"
	"github.com/sledhq/sled/state"
)

// Context binds slot accessors to the ledger's storage space within a state.
type Context struct {
	address sled.Address
	state   *state.State
}

func NewContext(address sled.Address, state *state.State) *Context {
	return &Context{
		address: address,
		state:   state,
	}
}

func (c *Context) State() *state.State {
	return c.state
}

func (c *Context) Address() sled.Address {
	return c.address
}
