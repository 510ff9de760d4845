// Copyright (c) 2025 The Sled developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package metadata stores display URIs for positions, independent from the
// ledger bookkeeping itself.
package metadata

import (
	"encoding/binary"
	"strconv"

	"github.com/sledhq/sled/sled"
	"github.com/sledhq/sled/state"
	"github.com/sledhq/sled/storage"
)

var (
	slotBaseURI = sled.BytesToBytes32([]byte("metadata-base-uri"))
	slotURIs    = sled.BytesToBytes32([]byte("metadata-uris"))
)

type idKey uint64

func (k idKey) Bytes() []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(k))
	return b[:]
}

// Store keeps a base URI plus per-position overrides.
type Store struct {
	baseURI *storage.Value[string]
	uris    *storage.Mapping[idKey, string]
}

func New(addr sled.Address, state *state.State) *Store {
	context := storage.NewContext(addr, state)
	return &Store{
		baseURI: storage.NewValue[string](context, slotBaseURI),
		uris:    storage.NewMapping[idKey, string](context, slotURIs),
	}
}

func (s *Store) SetBaseURI(uri string) error {
	return s.baseURI.Set(uri)
}

func (s *Store) BaseURI() (string, error) {
	return s.baseURI.Get()
}

func (s *Store) SetTokenURI(id uint64, uri string) error {
	return s.uris.Set(idKey(id), uri)
}

// TokenURI returns the per-position override when present, otherwise the
// base URI with the decimal id appended.
func (s *Store) TokenURI(id uint64) (string, error) {
	uri, err := s.uris.Get(idKey(id))
	if err != nil {
		return "", err
	}
	if uri != "" {
		return uri, nil
	}
	base, err := s.baseURI.Get()
	if err != nil {
		return "", err
	}
	if base == "" {
		return "", nil
	}
	return base + strconv.FormatUint(id, 10), nil
}

// Clear removes the override of a retired position.
func (s *Store) Clear(id uint64) error {
	return s.uris.Delete(idKey(id))
}
