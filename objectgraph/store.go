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

package objectgraph

import (
	"github.com/core-coin/go-avm/params"
	"github.com/core-coin/go-avm/wireformat"
)

// Store is the abstract key-value map from instance id to opaque byte
// payload (spec section 6). A concrete implementation (store/leveldb,
// store/memstore) need not be thread-safe across tasks; each task owns
// one Store handle.
type Store interface {
	Read(id uint64) ([]byte, bool)
	Write(id uint64, data []byte)
	FlushWrites() error
	SimpleHashCode() []byte
}

// EnvironmentRecord is the reserved store entry (key params.EnvironmentStoreKey)
// holding the next-instance-id and next-hashcode counters (spec section
// 3: "storage record").
type EnvironmentRecord struct {
	NextInstanceID uint64
	NextHashCode   int32
}

// ReadEnvironment loads the environment record, defaulting to the first
// real instance id and a zero hashcode counter for a never-before-used
// store.
func ReadEnvironment(s Store) EnvironmentRecord {
	b, ok := s.Read(params.EnvironmentStoreKey)
	if !ok {
		return EnvironmentRecord{NextInstanceID: params.FirstRealInstanceID, NextHashCode: 0}
	}
	id, hc, err := wireformat.DecodeEnvironment(b)
	if err != nil {
		return EnvironmentRecord{NextInstanceID: params.FirstRealInstanceID, NextHashCode: 0}
	}
	return EnvironmentRecord{NextInstanceID: id, NextHashCode: hc}
}

// WriteEnvironment persists the environment record.
func WriteEnvironment(s Store, env EnvironmentRecord) {
	s.Write(params.EnvironmentStoreKey, wireformat.EncodeEnvironment(env.NextInstanceID, env.NextHashCode))
}
