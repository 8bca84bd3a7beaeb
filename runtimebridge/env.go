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

package runtimebridge

import (
	"context"

	"github.com/core-coin/uint256"

	"github.com/core-coin/go-avm/common"
	"github.com/core-coin/go-avm/crypto"
	"github.com/core-coin/go-avm/energyhelper"
	"github.com/core-coin/go-avm/params"
)

// Config bundles the per-call wiring of one frame's runtime bridge, the
// Go analogue of core/vm/runtime.Config plus its TxContext/BlockContext
// split, flattened since this VM has no separate CVM construction step.
type Config struct {
	Sender  common.Address
	Address common.Address
	Origin  common.Address
	Data    []byte
	Value   *uint256.Int

	BlockEpochSeconds uint64
	BlockNumber       uint64
	BlockDifficulty   *uint256.Int
}

// Env is the concrete Bridge implementation attached to one executor
// frame (spec section 4.9 step 4: "Attach a runtime bridge exposing
// sender, data, value, block epoch, and the nested-call primitive").
type Env struct {
	cfg    Config
	helper *energyhelper.Helper
	disp   Dispatcher

	storage map[string][]byte
	logs    []LogEntry
}

// NewEnv wires a fresh Env for one frame.
func NewEnv(cfg Config, helper *energyhelper.Helper, disp Dispatcher) *Env {
	return &Env{cfg: cfg, helper: helper, disp: disp, storage: map[string][]byte{}}
}

// chargeContextRead meters a frame-context getter (section 6: "all
// runtime-bridge operations are metered"). A failed charge is absorbed
// the same way PutStorage absorbs one: these getters have no error
// return, so exhaustion surfaces at the next metered checkpoint instead.
func (e *Env) chargeContextRead() { _ = e.helper.Charge(params.ContextReadEnergy) }

func (e *Env) GetSender() common.Address {
	e.chargeContextRead()
	return e.cfg.Sender
}

func (e *Env) GetAddress() common.Address {
	e.chargeContextRead()
	return e.cfg.Address
}

func (e *Env) GetOrigin() common.Address {
	e.chargeContextRead()
	return e.cfg.Origin
}

func (e *Env) GetData() []byte {
	e.chargeContextRead()
	return common.CopyBytes(e.cfg.Data)
}

// GetValue returns the call's attached value, or zero if the frame was
// built without one (e.g. a nested same-address call, section 4.10).
func (e *Env) GetValue() *uint256.Int {
	e.chargeContextRead()
	if e.cfg.Value == nil {
		return new(uint256.Int)
	}
	return new(uint256.Int).SetBytes(e.cfg.Value.Bytes())
}

func (e *Env) GetBlockEpochSeconds() uint64 {
	e.chargeContextRead()
	return e.cfg.BlockEpochSeconds
}

func (e *Env) GetBlockNumber() uint64 {
	e.chargeContextRead()
	return e.cfg.BlockNumber
}

// GetBlockDifficulty returns the block's difficulty, or zero if the frame
// was built without one.
func (e *Env) GetBlockDifficulty() *uint256.Int {
	e.chargeContextRead()
	if e.cfg.BlockDifficulty == nil {
		return new(uint256.Int)
	}
	return new(uint256.Int).SetBytes(e.cfg.BlockDifficulty.Bytes())
}

func (e *Env) GetRemainingEnergy() uint64 {
	e.chargeContextRead()
	return e.helper.RemainingEnergy()
}

// Call charges the base nested-call overhead, then hands off to the
// Dispatcher (the executor, consulting the reentrant stack per spec
// section 4.10) which runs the callee and returns its own leftover
// energy bookkeeping via the callee's own helper — this Env only meters
// the decision to make the call at all.
func (e *Env) Call(ctx context.Context, address common.Address, value *uint256.Int, data []byte, energyLimit uint64) (CallResult, error) {
	if err := e.helper.Charge(params.CallBaseEnergy); err != nil {
		return CallResult{}, err
	}
	return e.disp.Call(ctx, e.cfg.Address, address, value, data, energyLimit)
}

// Create charges the base contract-creation overhead and dispatches.
func (e *Env) Create(ctx context.Context, value *uint256.Int, code []byte, energyLimit uint64) (CreateResult, error) {
	if err := e.helper.Charge(params.CreateBaseEnergy); err != nil {
		return CreateResult{}, err
	}
	return e.disp.Create(ctx, e.cfg.Address, value, code, energyLimit)
}

// GetStorage reads the user-space key-value store, distinct from the
// object store (spec section 6).
func (e *Env) GetStorage(key []byte) ([]byte, bool) {
	if err := e.helper.Charge(params.StorageReadEnergy); err != nil {
		return nil, false
	}
	v, ok := e.storage[string(key)]
	if !ok {
		return nil, false
	}
	return common.CopyBytes(v), true
}

// PutStorage writes the user-space key-value store. A failed charge is
// silently absorbed here; the next metered site downstream (every host
// call charges) will observe the same exhausted helper and fail loudly,
// matching section 4.6's "exhaustion raises... at the next metered
// checkpoint" rather than requiring every setter to propagate an error.
func (e *Env) PutStorage(key, value []byte) {
	if err := e.helper.Charge(params.StorageWriteEnergy); err != nil {
		return
	}
	e.storage[string(key)] = common.CopyBytes(value)
}

// Log records one log entry, charged per spec section 6's log(topics…,
// data), proportional to the topic count the way core/vm/energy_table.go
// charges LOG0..LOG4 by topic count.
func (e *Env) Log(topics [][]byte, data []byte) {
	cost := params.LogBaseEnergy + uint64(len(topics))*params.LogTopicEnergy
	if err := e.helper.Charge(cost); err != nil {
		return
	}
	cp := make([][]byte, len(topics))
	for i, t := range topics {
		cp[i] = common.CopyBytes(t)
	}
	e.logs = append(e.logs, LogEntry{Topics: cp, Data: common.CopyBytes(data)})
}

// Logs returns the entries recorded so far, for the executor to attach
// to the transaction result.
func (e *Env) Logs() []LogEntry { return e.logs }

// Revert raises the uncatchable user-revert control-flow error (spec
// section 7: status REVERT, energy charged only for what was used so
// far — Revert itself charges nothing additional).
func (e *Env) Revert() error { return ErrReverted }

// Invalid raises the uncatchable user-invalid control-flow error (spec
// section 7: status INVALID, full budget charged by the executor).
func (e *Env) Invalid() error { return ErrInvalid }

func (e *Env) SHA256(data []byte) []byte {
	if err := e.helper.Charge(params.HashEnergy); err != nil {
		return nil
	}
	return crypto.SHA256(data)
}

func (e *Env) Blake2b(data []byte) []byte {
	if err := e.helper.Charge(params.HashEnergy); err != nil {
		return nil
	}
	return crypto.Blake2b(data)
}

func (e *Env) Keccak256(data []byte) []byte {
	if err := e.helper.Charge(params.HashEnergy); err != nil {
		return nil
	}
	return crypto.Keccak256(data)
}
