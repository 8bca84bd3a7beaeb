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

// Package leveldb is the disk-backed objectgraph.Store, mirroring
// go-core's own reliance on goleveldb across its storage stack. Record
// values are snappy-compressed before being written, the same tradeoff
// go-core's own database layer makes for large repeated byte blobs.
package leveldb

import (
	"encoding/binary"
	"sort"

	"github.com/golang/snappy"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/core-coin/go-avm/crypto"
)

// Store is a goleveldb-backed objectgraph.Store keyed by big-endian
// instance id.
type Store struct {
	db *leveldb.DB
}

// Open opens (creating if absent) the database at path with the given
// in-memory cache budget (MB) and file-handle budget, following the same
// two knobs go-core's own rawdb leveldb opener exposes.
func Open(path string, cacheMB int, handles int) (*Store, error) {
	if cacheMB < 16 {
		cacheMB = 16
	}
	if handles < 16 {
		handles = 16
	}
	db, err := leveldb.OpenFile(path, &opt.Options{
		OpenFilesCacheCapacity: handles,
		BlockCacheCapacity:     cacheMB / 2 * opt.MiB,
		WriteBuffer:            cacheMB / 4 * opt.MiB,
		Filter:                 nil,
	})
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

func keyFor(id uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], id)
	return b[:]
}

// Read returns the decompressed record at id, if any.
func (s *Store) Read(id uint64) ([]byte, bool) {
	raw, err := s.db.Get(keyFor(id), nil)
	if err != nil {
		if err == errors.ErrNotFound {
			return nil, false
		}
		return nil, false
	}
	data, err := snappy.Decode(nil, raw)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Write compresses and stores data at id. The write is buffered by
// goleveldb's own write buffer until FlushWrites (or Close) forces it.
func (s *Store) Write(id uint64, data []byte) {
	_ = s.db.Put(keyFor(id), snappy.Encode(nil, data), nil)
}

// FlushWrites asks goleveldb to compact the in-memory write buffer down
// to the lowest level, surfacing any write-path error synchronously
// instead of leaving it to be discovered on the next Get.
func (s *Store) FlushWrites() error {
	return s.db.CompactRange(util.Range{})
}

// SimpleHashCode returns a deterministic keccak256 digest over every
// record, iterating keys in ascending instance-id order (spec section 6,
// "storageRootHash").
func (s *Store) SimpleHashCode() []byte {
	iter := s.db.NewIterator(nil, nil)
	defer iter.Release()

	var ids []uint64
	raws := map[uint64][]byte{}
	for iter.Next() {
		id := binary.BigEndian.Uint64(iter.Key())
		v := make([]byte, len(iter.Value()))
		copy(v, iter.Value())
		ids = append(ids, id)
		raws[id] = v
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var chunks [][]byte
	for _, id := range ids {
		chunks = append(chunks, keyFor(id), raws[id])
	}
	return crypto.Keccak256(chunks...)
}
