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

package executor

import (
	"context"

	"github.com/core-coin/uint256"

	"github.com/core-coin/go-avm/callstack"
	"github.com/core-coin/go-avm/common"
	"github.com/core-coin/go-avm/crypto"
	"github.com/core-coin/go-avm/energyhelper"
	"github.com/core-coin/go-avm/objectgraph"
	"github.com/core-coin/go-avm/params"
	"github.com/core-coin/go-avm/runtimebridge"
)

// Executor implements runtimebridge.Dispatcher: the nested-call
// primitive consults the reentrant stack (spec section 4.10) to decide
// between resuming an already-running frame on the same address and
// performing a fresh hydration at an address with no active frame.

var _ runtimebridge.Dispatcher = (*Executor)(nil)

// Call implements runtimebridge.Dispatcher.
func (e *Executor) Call(ctx context.Context, from, to common.Address, value *uint256.Int, data []byte, energyLimit uint64) (runtimebridge.CallResult, error) {
	dapp, ok := e.dapps[to]
	if !ok {
		return runtimebridge.CallResult{Success: false}, nil
	}

	if existing := e.stack.TopOfAddress(to); existing != nil {
		return e.callReentrant(ctx, existing, from, data)
	}
	return e.callFreshAddress(ctx, dapp, from, to, data, energyLimit)
}

// callReentrant implements the "reuses that frame's DApp instance and
// environment" branch of spec section 4.10 via objectgraph.Processor's
// capture/commit/revert duality (spec section 4.7). The shared Helper
// carries over unmodified — "recursive entry from reentrant calls
// shares the same counter" (energyhelper doc, spec section 4.4).
func (e *Executor) callReentrant(ctx context.Context, existing *callstack.Frame, from common.Address, data []byte) (runtimebridge.CallResult, error) {
	if existing.State() != callstack.Running {
		return runtimebridge.CallResult{}, callstack.ErrNotRunning
	}

	dapp := existing.DApp.(*DApp)
	if existing.Processor == nil {
		existing.Processor = objectgraph.NewProcessor()
	}
	proc := existing.Processor
	if err := proc.Capture(existing.Root); err != nil {
		return runtimebridge.CallResult{}, err
	}

	nested := callstack.NewFrame(existing.Address, dapp, existing.Root, existing.Helper)
	if err := e.stack.Push(nested); err != nil {
		proc.Revert(existing.Root) // nolint: errcheck // best-effort unwind of the capture above
		return runtimebridge.CallResult{}, err
	}
	defer e.stack.Pop()
	nested.MarkHydrated() // nolint: errcheck // always legal: nested starts CREATED
	nested.MarkRunning()  // nolint: errcheck // always legal: was just HYDRATED

	bridge := runtimebridge.NewEnv(runtimebridge.Config{
		Sender:  from,
		Address: existing.Address,
		Origin:  from,
		Data:    data,
	}, existing.Helper, e)

	returnData, err := dapp.EntryPoint(ctx, bridge, existing.Helper, data)
	if err != nil {
		proc.Revert(existing.Root) // nolint: errcheck
		nested.MarkReverted()       // nolint: errcheck
		return runtimebridge.CallResult{Success: false}, err
	}

	if err := proc.Commit(existing.Root); err != nil {
		nested.MarkReverted() // nolint: errcheck
		return runtimebridge.CallResult{Success: false}, err
	}
	nested.MarkCommitted() // nolint: errcheck
	return runtimebridge.CallResult{Success: true, ReturnData: returnData}, nil
}

// callFreshAddress implements the "otherwise a fresh top-level
// hydration is performed" branch of spec section 4.10: the callee's
// statics are hydrated from its own store under its own environment
// record and saved back (but not flushed — flush happens once, at the
// outer top-level transaction's own step 7) rather than routed through
// the reentrant processor, since there is no existing frame whose graph
// needs isolating.
func (e *Executor) callFreshAddress(ctx context.Context, dapp *DApp, from, to common.Address, data []byte, energyLimit uint64) (runtimebridge.CallResult, error) {
	store := e.storeOf(to)
	nestedEnv := objectgraph.ReadEnvironment(store)
	helper := energyhelper.New(energyLimit, 0, nestedEnv.NextInstanceID, nestedEnv.NextHashCode)

	root := dapp.NewRoot()
	frame := callstack.NewFrame(to, dapp, root, helper)
	if err := e.stack.Push(frame); err != nil {
		return runtimebridge.CallResult{}, err
	}
	defer e.stack.Pop()

	codec := objectgraph.NewCodec(store, dapp.Types, helper)
	hydrateRoot(codec, store, root)
	frame.MarkHydrated() // nolint: errcheck

	bridge := runtimebridge.NewEnv(runtimebridge.Config{
		Sender:  from,
		Address: to,
		Origin:  from,
		Data:    data,
	}, helper, e)

	frame.MarkRunning() // nolint: errcheck
	returnData, err := dapp.EntryPoint(ctx, bridge, helper, data)
	if err != nil {
		frame.MarkReverted() // nolint: errcheck
		return runtimebridge.CallResult{Success: false}, err
	}

	if err := codec.SaveStatics(root); err != nil {
		frame.MarkReverted() // nolint: errcheck
		return runtimebridge.CallResult{Success: false}, err
	}
	objectgraph.WriteEnvironment(store, objectgraph.EnvironmentRecord{
		NextInstanceID: helper.PeekNextInstanceID(),
		NextHashCode:   helper.PeekNextHashCode(),
	})
	frame.MarkCommitted() // nolint: errcheck
	return runtimebridge.CallResult{Success: true, ReturnData: returnData}, nil
}

// Create implements runtimebridge.Dispatcher, the spec section 6
// create(value, code, energyLimit) primitive: deploy a fresh instance
// of from's registered Creatable template at a deterministically
// derived address (crypto.CreateAddress, the contract-address-from-nonce
// scheme of core/vm/cvm.go's Create) and run its entry point as a
// constructor. Pushing the new frame is what enforces the call-depth
// ceiling of seed scenario 6: once the stack is at capacity, Push fails
// with callstack.ErrCallDepthLimitExceeded, which this method returns
// uncaught so it propagates through every enclosing EntryPoint call
// exactly as an un-catchable control-flow error must (spec section 4.2).
func (e *Executor) Create(ctx context.Context, from common.Address, value *uint256.Int, code []byte, energyLimit uint64) (runtimebridge.CreateResult, error) {
	caller, ok := e.dapps[from]
	if !ok || caller.Creatable == nil {
		return runtimebridge.CreateResult{Success: false}, nil
	}
	template := caller.Creatable

	addr := crypto.CreateAddress(from, e.nextCreateNonce())
	instance := &DApp{
		Address:    addr,
		EntryPoint: template.EntryPoint,
		Types:      template.Types,
		NewRoot:    template.NewRoot,
		Creatable:  template.Creatable,
	}

	helper := energyhelper.New(energyLimit, 0, params.FirstRealInstanceID, 0)
	root := instance.NewRoot()
	frame := callstack.NewFrame(addr, instance, root, helper)
	if err := e.stack.Push(frame); err != nil {
		return runtimebridge.CreateResult{Success: false}, err
	}
	defer e.stack.Pop()

	e.Register(instance)

	store := e.storeOf(addr)
	codec := objectgraph.NewCodec(store, instance.Types, helper)
	hydrateRoot(codec, store, root)
	frame.MarkHydrated() // nolint: errcheck

	bridge := runtimebridge.NewEnv(runtimebridge.Config{
		Sender:  from,
		Address: addr,
		Origin:  from,
		Data:    code,
		Value:   value,
	}, helper, e)

	frame.MarkRunning() // nolint: errcheck
	_, err := instance.EntryPoint(ctx, bridge, helper, code)
	if err != nil {
		delete(e.dapps, addr)
		frame.MarkReverted() // nolint: errcheck
		return runtimebridge.CreateResult{Success: false}, err
	}

	if err := codec.SaveStatics(root); err != nil {
		delete(e.dapps, addr)
		frame.MarkReverted() // nolint: errcheck
		return runtimebridge.CreateResult{Success: false}, err
	}
	objectgraph.WriteEnvironment(store, objectgraph.EnvironmentRecord{
		NextInstanceID: helper.PeekNextInstanceID(),
		NextHashCode:   helper.PeekNextHashCode(),
	})
	frame.MarkCommitted() // nolint: errcheck
	return runtimebridge.CreateResult{Success: true, ContractAddress: addr}, nil
}

func (e *Executor) nextCreateNonce() uint64 {
	n := e.createNonce
	e.createNonce++
	return n
}
