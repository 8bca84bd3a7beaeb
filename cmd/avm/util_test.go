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

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHexAcceptsPrefixedAndBare(t *testing.T) {
	b1, err := parseHex("0xdead")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xde, 0xad}, b1)

	b2, err := parseHex("dead")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xde, 0xad}, b2)
}

func TestParseHexPadsOddLength(t *testing.T) {
	b, err := parseHex("0xf")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x0f}, b)
}

func TestParseHexEmptyIsNil(t *testing.T) {
	b, err := parseHex("")
	require.NoError(t, err)
	assert.Nil(t, b)
}

func TestParseValueDefaultsToZero(t *testing.T) {
	v, err := parseValue("")
	require.NoError(t, err)
	assert.True(t, v.IsZero())
}

func TestParseValueDecodesHex(t *testing.T) {
	v, err := parseValue("0x2a")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), v.Uint64())
}

func TestParseAddressRoundTrips(t *testing.T) {
	addr, err := parseAddress("0x0102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f20")
	require.NoError(t, err)
	assert.Equal(t, "0x0102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f20", addr.String())
}
