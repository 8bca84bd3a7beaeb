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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/core-coin/go-avm/store/memstore"
)

func TestStoreCacheReadMissFallsThroughToInner(t *testing.T) {
	inner := memstore.New()
	inner.Write(7, []byte("payload"))
	sc := NewStoreCache(inner, 1<<20)

	data, ok := sc.Read(7)
	require.True(t, ok)
	assert.Equal(t, []byte("payload"), data)
}

func TestStoreCacheReadAbsentIsMiss(t *testing.T) {
	sc := NewStoreCache(memstore.New(), 1<<20)
	_, ok := sc.Read(99)
	assert.False(t, ok)
}

func TestStoreCacheWriteIsVisibleToInner(t *testing.T) {
	inner := memstore.New()
	sc := NewStoreCache(inner, 1<<20)
	sc.Write(3, []byte("value"))

	data, ok := inner.Read(3)
	require.True(t, ok)
	assert.Equal(t, []byte("value"), data)
}

func TestStoreCacheSecondReadServedFromCache(t *testing.T) {
	inner := memstore.New()
	inner.Write(1, []byte("first"))
	sc := NewStoreCache(inner, 1<<20)

	data1, ok := sc.Read(1)
	require.True(t, ok)
	assert.Equal(t, []byte("first"), data1)

	data2, ok := sc.Read(1)
	require.True(t, ok)
	assert.Equal(t, []byte("first"), data2)
}

func TestStoreCacheFlushAndHashDelegate(t *testing.T) {
	inner := memstore.New()
	sc := NewStoreCache(inner, 1<<20)
	sc.Write(1, []byte("x"))

	require.NoError(t, sc.FlushWrites())
	assert.Equal(t, inner.SimpleHashCode(), sc.SimpleHashCode())
}
