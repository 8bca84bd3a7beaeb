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

package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/core-coin/go-avm/common"
)

func TestKeccak256Deterministic(t *testing.T) {
	a := Keccak256([]byte("hello"))
	b := Keccak256([]byte("hello"))
	assert.Equal(t, a, b)
	assert.Len(t, a, 32)
}

func TestSHA256AndBlake2bDiffer(t *testing.T) {
	data := []byte("energy")
	assert.NotEqual(t, SHA256(data), Blake2b(data))
	assert.Len(t, SHA256(data), 32)
	assert.Len(t, Blake2b(data), 32)
}

func TestCreateAddressDeterministicAndNonceSensitive(t *testing.T) {
	creator := common.BytesToAddress([]byte{0x01})
	a1 := CreateAddress(creator, 0)
	a2 := CreateAddress(creator, 0)
	a3 := CreateAddress(creator, 1)
	assert.Equal(t, a1, a2)
	assert.NotEqual(t, a1, a3)
}
