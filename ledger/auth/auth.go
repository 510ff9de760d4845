// Copyright (c) 2025 The Sled developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package auth is the ledger's authorization collaborator. The ledger only
// consumes the capability checks; how roles are granted is this package's
// concern alone.
package auth

import (
	"sync"

	"github.com/sledhq/sled/ledger/errs"
	"github.com/sledhq/sled/sled"
)

// Authority answers capability checks for administrative entry points.
type Authority interface {
	IsAdmin(caller sled.Address) bool
	IsOperator(caller sled.Address) bool
}

// Roles is an in-process role table. Admins hold every capability;
// operators may mint, burn and adjust amounts but not manage roles.
type Roles struct {
	mu        sync.RWMutex
	admins    map[sled.Address]bool
	operators map[sled.Address]bool
}

// NewRoles creates a role table with a single initial admin.
func NewRoles(admin sled.Address) *Roles {
	return &Roles{
		admins:    map[sled.Address]bool{admin: true},
		operators: make(map[sled.Address]bool),
	}
}

func (r *Roles) IsAdmin(caller sled.Address) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.admins[caller]
}

func (r *Roles) IsOperator(caller sled.Address) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.operators[caller] || r.admins[caller]
}

// GrantOperator adds target to the operator set. Caller must be an admin.
func (r *Roles) GrantOperator(caller, target sled.Address) error {
	if !r.IsAdmin(caller) {
		return errs.Authorization("caller %s is not an admin", caller)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.operators[target] = true
	return nil
}

// RevokeOperator removes target from the operator set. Caller must be an admin.
func (r *Roles) RevokeOperator(caller, target sled.Address) error {
	if !r.IsAdmin(caller) {
		return errs.Authorization("caller %s is not an admin", caller)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.operators, target)
	return nil
}

// GrantAdmin adds target to the admin set. Caller must be an admin.
func (r *Roles) GrantAdmin(caller, target sled.Address) error {
	if !r.IsAdmin(caller) {
		return errs.Authorization("caller %s is not an admin", caller)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.admins[target] = true
	return nil
}
