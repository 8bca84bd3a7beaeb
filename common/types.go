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

// Package common holds the small fixed-size value types shared across the
// transformation pipeline, the persistence engine and the executor.
package common

import (
	"encoding/hex"
	"fmt"
)

const (
	// HashLength is the byte length of a cryptographic hash used throughout
	// the object store and the runtime bridge.
	HashLength = 32
	// AddressLength is the byte length of a DApp address.
	AddressLength = 32
)

// Hash is a fixed-size 32 byte array used for state roots and digests.
type Hash [HashLength]byte

// BytesToHash converts b to a Hash, left-padding or truncating as needed.
func BytesToHash(b []byte) Hash {
	var h Hash
	if len(b) > HashLength {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
	return h
}

func (h Hash) Bytes() []byte { return h[:] }

func (h Hash) String() string { return "0x" + hex.EncodeToString(h[:]) }

// Address identifies a DApp (or any other account) on the chain.
type Address [AddressLength]byte

// BytesToAddress converts b to an Address, left-padding or truncating as needed.
func BytesToAddress(b []byte) Address {
	var a Address
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
	return a
}

func (a Address) Bytes() []byte { return a[:] }

func (a Address) String() string { return "0x" + hex.EncodeToString(a[:]) }

func (a Address) IsZero() bool { return a == Address{} }

// CopyBytes returns an independent copy of b.
func CopyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// Bytes2Hex is a thin convenience wrapper kept for symmetry with the rest of
// the ecosystem's common packages.
func Bytes2Hex(b []byte) string { return hex.EncodeToString(b) }

// ErrorF is a small helper for building sentinel-style formatted errors
// of the shape "kind: detail".
func ErrorF(kind string, format string, args ...interface{}) error {
	return fmt.Errorf("%s: %s", kind, fmt.Sprintf(format, args...))
}
