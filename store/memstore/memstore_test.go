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

package memstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteReadRoundTrip(t *testing.T) {
	s := New()
	s.Write(1, []byte("hello"))
	got, ok := s.Read(1)
	assert.True(t, ok)
	assert.Equal(t, []byte("hello"), got)
	assert.Equal(t, 1, s.Len())
}

func TestReadMissingReturnsFalse(t *testing.T) {
	s := New()
	_, ok := s.Read(99)
	assert.False(t, ok)
}

func TestWriteCopiesInput(t *testing.T) {
	s := New()
	buf := []byte("mutable")
	s.Write(1, buf)
	buf[0] = 'X'
	got, _ := s.Read(1)
	assert.Equal(t, []byte("mutable"), got, "Write must not alias the caller's slice")
}

func TestReadReturnsIndependentCopy(t *testing.T) {
	s := New()
	s.Write(1, []byte("hello"))
	got, _ := s.Read(1)
	got[0] = 'X'
	got2, _ := s.Read(1)
	assert.Equal(t, []byte("hello"), got2, "Read must not let callers mutate stored bytes")
}

func TestSimpleHashCodeOrderIndependent(t *testing.T) {
	a := New()
	a.Write(3, []byte("c"))
	a.Write(1, []byte("a"))
	a.Write(2, []byte("b"))

	b := New()
	b.Write(1, []byte("a"))
	b.Write(2, []byte("b"))
	b.Write(3, []byte("c"))

	assert.Equal(t, a.SimpleHashCode(), b.SimpleHashCode())
}

func TestSimpleHashCodeChangesWithContent(t *testing.T) {
	s := New()
	s.Write(1, []byte("a"))
	before := s.SimpleHashCode()
	s.Write(1, []byte("a-modified"))
	after := s.SimpleHashCode()
	assert.NotEqual(t, before, after)
}
