// Copyright 2014 by the Authors
// This file is part of the go-avm library.
//
// The go-avm library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-avm library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-avm library. If not, see <http://www.gnu.org/licenses/>.

// Package memstore is a volatile objectgraph.Store, the map-backed
// analogue of ethdb/memorydb used throughout go-core's own test suite in
// place of a disk-backed database.
package memstore

import (
	"encoding/binary"
	"sort"
	"sync"

	"github.com/core-coin/go-avm/crypto"
)

// Store is a goroutine-safe, in-memory objectgraph.Store. It never
// returns an error from FlushWrites: there is nothing to flush.
type Store struct {
	mu      sync.RWMutex
	records map[uint64][]byte
}

// New returns an empty Store.
func New() *Store {
	return &Store{records: make(map[uint64][]byte)}
}

// Read returns the record at id, if any.
func (s *Store) Read(id uint64) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.records[id]
	if !ok {
		return nil, false
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, true
}

// Write overwrites the record at id.
func (s *Store) Write(id uint64, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	s.records[id] = cp
}

// FlushWrites is a no-op: writes are already visible to readers.
func (s *Store) FlushWrites() error { return nil }

// SimpleHashCode returns a deterministic keccak256 digest over every
// record, sorted by instance id so the result does not depend on
// iteration or insertion order (spec section 6, "storageRootHash").
func (s *Store) SimpleHashCode() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]uint64, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var keyBuf [8]byte
	var chunks [][]byte
	for _, id := range ids {
		binary.BigEndian.PutUint64(keyBuf[:], id)
		key := make([]byte, 8)
		copy(key, keyBuf[:])
		chunks = append(chunks, key, s.records[id])
	}
	return crypto.Keccak256(chunks...)
}

// Len reports the number of records currently held, for test assertions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
