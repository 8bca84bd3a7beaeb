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

	"github.com/core-coin/go-avm/common"
	"github.com/core-coin/go-avm/pipeline"
)

func TestArtifactCacheAddAndGet(t *testing.T) {
	c, err := NewArtifactCache(2)
	require.NoError(t, err)

	addr := common.BytesToAddress([]byte{0x01})
	_, ok := c.Get(addr)
	assert.False(t, ok)

	entry := Entry{Artifact: &pipeline.Artifact{MainClass: "Main"}}
	c.Add(addr, entry)

	got, ok := c.Get(addr)
	require.True(t, ok)
	assert.Equal(t, "Main", got.Artifact.MainClass)
	assert.Equal(t, 1, c.Len())
}

func TestArtifactCacheEvictsBeyondCapacity(t *testing.T) {
	c, err := NewArtifactCache(1)
	require.NoError(t, err)

	a1 := common.BytesToAddress([]byte{0x01})
	a2 := common.BytesToAddress([]byte{0x02})
	c.Add(a1, Entry{Artifact: &pipeline.Artifact{MainClass: "One"}})
	c.Add(a2, Entry{Artifact: &pipeline.Artifact{MainClass: "Two"}})

	assert.Equal(t, 1, c.Len())
	_, ok := c.Get(a1)
	assert.False(t, ok, "oldest entry should have been evicted")
	_, ok = c.Get(a2)
	assert.True(t, ok)
}

func TestArtifactCacheRemove(t *testing.T) {
	c, err := NewArtifactCache(2)
	require.NoError(t, err)

	addr := common.BytesToAddress([]byte{0x01})
	c.Add(addr, Entry{Artifact: &pipeline.Artifact{MainClass: "Main"}})
	c.Remove(addr)

	_, ok := c.Get(addr)
	assert.False(t, ok)
}
