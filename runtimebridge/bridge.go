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

// Package runtimebridge implements the runtime bridge of spec section 6:
// the host-call surface user bytecode reaches through the shadow runtime
// root, metered through energyhelper exactly like every other observable
// action (section 4.6's "every field read and write... is reported to
// the fee processor" rule applies equally here). Grounded on
// core/vm/runtime/env.go's Config/NewEnv wiring, generalized from one
// fixed CVM construction to an interface any executor can implement.
package runtimebridge

import (
	"context"
	"errors"

	"github.com/core-coin/uint256"

	"github.com/core-coin/go-avm/common"
)

// CallResult is the outcome of the call(address, value, data,
// energyLimit) host primitive.
type CallResult struct {
	Success    bool
	ReturnData []byte
}

// CreateResult is the outcome of the create(value, code, energyLimit)
// host primitive.
type CreateResult struct {
	Success         bool
	ContractAddress common.Address
}

// LogEntry is one log(topics…, data) emission, retained on the Env until
// the executor attaches it to the transaction result.
type LogEntry struct {
	Topics [][]byte
	Data   []byte
}

// Dispatcher performs the nested-call primitive on behalf of a Bridge. It
// is implemented by the executor/callstack pair rather than by this
// package, so runtimebridge never imports executor (which itself
// constructs a Bridge per frame) — the same inversion core/vm/cvm.go
// achieves by taking a StateDB interface instead of importing core/state.
type Dispatcher interface {
	Call(ctx context.Context, from, to common.Address, value *uint256.Int, data []byte, energyLimit uint64) (CallResult, error)
	Create(ctx context.Context, from common.Address, value *uint256.Int, code []byte, energyLimit uint64) (CreateResult, error)
}

// Bridge is the complete host-call surface of spec section 6.
type Bridge interface {
	GetSender() common.Address
	GetAddress() common.Address
	GetOrigin() common.Address
	GetData() []byte
	GetValue() *uint256.Int

	GetBlockEpochSeconds() uint64
	GetBlockNumber() uint64
	GetBlockDifficulty() *uint256.Int

	GetRemainingEnergy() uint64

	Call(ctx context.Context, address common.Address, value *uint256.Int, data []byte, energyLimit uint64) (CallResult, error)
	Create(ctx context.Context, value *uint256.Int, code []byte, energyLimit uint64) (CreateResult, error)

	GetStorage(key []byte) ([]byte, bool)
	PutStorage(key, value []byte)

	Log(topics [][]byte, data []byte)
	Revert() error
	Invalid() error

	SHA256(data []byte) []byte
	Blake2b(data []byte) []byte
	Keccak256(data []byte) []byte
}

// ErrReverted and ErrInvalid are the control-flow sentinels raised by
// Revert/Invalid (spec section 7): they are never caught by user code,
// only by the executor's status mapping.
var (
	ErrReverted = errors.New("runtimebridge: user revert")
	ErrInvalid  = errors.New("runtimebridge: user invalid")
)
