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

// Package crypto collects the hash primitives used by the runtime bridge
// (spec section 4.12's sha256/blake2b/keccak256 host calls) and by
// create()'s contract-address derivation. There are no accounts or
// signatures in this VM's scope, so this package carries none of the
// teacher's EdDSA keypair machinery — see DESIGN.md for that call.
package crypto

import (
	"crypto/sha256"
	"encoding/binary"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"

	"github.com/core-coin/go-avm/common"
)

// Keccak256 calculates and returns the Keccak256 hash of the input data.
func Keccak256(data ...[]byte) []byte {
	d := sha3.NewLegacyKeccak256()
	for _, b := range data {
		d.Write(b)
	}
	return d.Sum(nil)
}

// SHA256 calculates the SHA-256 hash of data (spec section 4.12's
// `sha256` host call).
func SHA256(data []byte) []byte {
	h := sha256.Sum256(data)
	return h[:]
}

// Blake2b calculates the 32-byte Blake2b hash of data (spec section
// 4.12's `blake2b` host call).
func Blake2b(data []byte) []byte {
	h := blake2b.Sum256(data)
	return h[:]
}

// CreateAddress derives the address of a DApp instantiated by creator at
// the given creation nonce: keccak256(creator || big-endian nonce),
// truncated to common.AddressLength bytes. There is no checksum byte in
// this VM's address scheme — one 32-byte digest, unlike the teacher's
// 20-byte EIP-55-style address with a prepended checksum.
func CreateAddress(creator common.Address, nonce uint64) common.Address {
	var nonceBuf [8]byte
	binary.BigEndian.PutUint64(nonceBuf[:], nonce)
	return common.BytesToAddress(Keccak256(creator.Bytes(), nonceBuf[:]))
}
