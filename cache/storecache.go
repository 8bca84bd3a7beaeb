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

package cache

import (
	"encoding/binary"

	"github.com/VictoriaMetrics/fastcache"

	"github.com/core-coin/go-avm/objectgraph"
)

// StoreCache wraps an objectgraph.Store with a fastcache byte-cache,
// the same read-through-cache-in-front-of-a-KV-store shape go-core uses
// fastcache for (core/state/snapshot's trie-node cache). Writes go
// through to the underlying store and are mirrored into the cache so a
// read immediately after a write never misses.
type StoreCache struct {
	inner objectgraph.Store
	fc    *fastcache.Cache
}

// NewStoreCache wraps inner with an in-memory cache capped at maxBytes.
func NewStoreCache(inner objectgraph.Store, maxBytes int) *StoreCache {
	return &StoreCache{inner: inner, fc: fastcache.New(maxBytes)}
}

var _ objectgraph.Store = (*StoreCache)(nil)

// Read returns id's record, consulting the byte-cache before falling
// through to the wrapped store.
func (s *StoreCache) Read(id uint64) ([]byte, bool) {
	key := encodeKey(id)
	if v := s.fc.Get(nil, key); v != nil {
		return v, true
	}
	data, ok := s.inner.Read(id)
	if !ok {
		return nil, false
	}
	s.fc.Set(key, data)
	return data, true
}

// Write stores id's record in both the wrapped store and the byte-cache.
func (s *StoreCache) Write(id uint64, data []byte) {
	s.inner.Write(id, data)
	s.fc.Set(encodeKey(id), data)
}

// FlushWrites delegates to the wrapped store.
func (s *StoreCache) FlushWrites() error { return s.inner.FlushWrites() }

// SimpleHashCode delegates to the wrapped store.
func (s *StoreCache) SimpleHashCode() []byte { return s.inner.SimpleHashCode() }

func encodeKey(id uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], id)
	return b[:]
}
