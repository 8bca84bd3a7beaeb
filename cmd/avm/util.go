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
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/core-coin/uint256"

	"github.com/core-coin/go-avm/common"
	"github.com/core-coin/go-avm/objectgraph"
	"github.com/core-coin/go-avm/store/leveldb"
	"github.com/core-coin/go-avm/store/memstore"
)

// parseHex decodes a "0x"-prefixed or bare hex string, the same lenient
// form cvm's own hex flags accept.
func parseHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	if s == "" {
		return nil, nil
	}
	if len(s)%2 != 0 {
		s = "0" + s
	}
	return hex.DecodeString(s)
}

func parseAddress(s string) (common.Address, error) {
	b, err := parseHex(s)
	if err != nil {
		return common.Address{}, fmt.Errorf("invalid address %q: %w", s, err)
	}
	return common.BytesToAddress(b), nil
}

func parseValue(s string) (*uint256.Int, error) {
	if s == "" {
		return uint256.NewInt(0), nil
	}
	b, err := parseHex(s)
	if err != nil {
		return nil, fmt.Errorf("invalid value %q: %w", s, err)
	}
	return new(uint256.Int).SetBytes(b), nil
}

// openStore opens a disk-backed store at dataDir, or a volatile
// memstore when dataDir is empty — the same memory/disk fork cvm's
// runner.go makes between a genesis-backed statedb and the in-memory
// default.
func openStore(dataDir string) (objectgraph.Store, error) {
	if dataDir == "" {
		return memstore.New(), nil
	}
	return leveldb.Open(dataDir, 16, 16)
}
