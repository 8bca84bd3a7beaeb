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

// Package executor drives one top-level transaction or nested call
// through the ten steps of spec section 4.9, the Go analogue of
// core/state_transition.go's TransitionDb: obtain environment state,
// push a stack frame, seed a helper, attach a runtime bridge, hydrate
// statics, invoke the entry point, and on return either flush (top
// level) or commit/revert the reentrant processor (nested), mapping
// every control-flow error to the result status table of spec section 7.
//
// A DApp's "already-executing-bytecode" is never interpreted here (see
// SPEC_FULL.md section 4.9): each registered DApp supplies an
// EntryPoint function invoked in place of running transformed bytecode,
// the same way core/vm/contracts.go substitutes native Go for a handful
// of precompiled contracts.
package executor

import (
	"context"
	"errors"

	"github.com/core-coin/uint256"

	"github.com/core-coin/go-avm/callstack"
	"github.com/core-coin/go-avm/common"
	"github.com/core-coin/go-avm/energyhelper"
	"github.com/core-coin/go-avm/objectgraph"
	"github.com/core-coin/go-avm/params"
	"github.com/core-coin/go-avm/runtimebridge"
)

// StatusCode is the transaction result status of spec section 6.
type StatusCode int

const (
	StatusSuccess StatusCode = iota
	StatusFailed
	StatusFailedOutOfEnergy
	StatusFailedOutOfStack
	StatusFailedCallDepthLimitExceeded
	StatusFailedRevert
	StatusFailedInvalid
	StatusFailedAbort
	StatusFailedException
)

func (s StatusCode) String() string {
	switch s {
	case StatusSuccess:
		return "SUCCESS"
	case StatusFailed:
		return "FAILED"
	case StatusFailedOutOfEnergy:
		return "FAILED_OUT_OF_ENERGY"
	case StatusFailedOutOfStack:
		return "FAILED_OUT_OF_STACK"
	case StatusFailedCallDepthLimitExceeded:
		return "FAILED_CALL_DEPTH_LIMIT_EXCEEDED"
	case StatusFailedRevert:
		return "FAILED_REVERT"
	case StatusFailedInvalid:
		return "FAILED_INVALID"
	case StatusFailedAbort:
		return "FAILED_ABORT"
	case StatusFailedException:
		return "FAILED_EXCEPTION"
	default:
		return "UNKNOWN"
	}
}

// Result is the transaction result of spec section 6.
type Result struct {
	Status            StatusCode
	ReturnData        []byte
	EnergyUsed        uint64
	StorageRootHash   []byte
	UncaughtException error
	Logs              []runtimebridge.LogEntry
}

// ErrAborted is the early-abort control-flow sentinel (spec section 7):
// task cancellation observed at the next metered checkpoint.
var ErrAborted = errors.New("executor: aborted")

// EntryPoint is what a DApp registers in place of transformed bytecode a
// JVM would otherwise run (see the package doc and SPEC_FULL.md section
// 4.9).
type EntryPoint func(ctx context.Context, bridge runtimebridge.Bridge, helper *energyhelper.Helper, data []byte) ([]byte, error)

// DApp is one registered address's code and persistent-statics shape.
type DApp struct {
	Address    common.Address
	EntryPoint EntryPoint
	Types      objectgraph.TypeRegistry
	// NewRoot constructs a zero-value statics root for a store that has
	// never held this DApp's environment record before.
	NewRoot func() objectgraph.Persistable
	// Creatable, when non-nil, is the template create() deploys a fresh
	// instance of when called from this DApp (spec section 6's
	// create(value, code, energyLimit); seed scenario 6's "clinit
	// creates another of itself" sets a DApp's own Creatable to itself).
	Creatable *DApp
}

// RunConfig is the caller-supplied context of one top-level call (spec
// section 6's runtime bridge getters, flattened into one struct the way
// runtimebridge.Config does per frame).
type RunConfig struct {
	Sender common.Address
	Origin common.Address
	Data   []byte
	Value  *uint256.Int

	EnergyLimit uint64

	BlockEpochSeconds uint64
	BlockNumber       uint64
	BlockDifficulty   *uint256.Int
}

// StoreFactory mints a fresh Store for a DApp address the Executor has
// not seen before. Each DApp address owns its own independent store
// (spec section 3's instance ids, in particular the root-statics
// sentinel params.RootStaticsInstanceID, are meaningful only within one
// DApp's own storage — the same shape as one contract owning one
// storage trie, not a flat store shared by every deployed DApp).
type StoreFactory func(address common.Address) objectgraph.Store

// Executor owns one task's per-DApp stores, reentrant stack and DApp
// registry (spec section 5: "one transaction task owns one helper, one
// reentrant stack, and one in-memory graph" — generalized here to one
// graph per DApp address active within the task).
type Executor struct {
	storeFor    StoreFactory
	stores      map[common.Address]objectgraph.Store
	stack       *callstack.Stack
	dapps       map[common.Address]*DApp
	createNonce uint64
}

// New returns an Executor that mints a store per DApp address via storeFor.
func New(storeFor StoreFactory) *Executor {
	return &Executor{
		storeFor: storeFor,
		stores:   map[common.Address]objectgraph.Store{},
		stack:    callstack.New(),
		dapps:    map[common.Address]*DApp{},
	}
}

// Register installs a DApp so Run/Call/Create can dispatch to it.
func (e *Executor) Register(dapp *DApp) {
	e.dapps[dapp.Address] = dapp
}

// storeOf returns address's store, minting one on first use.
func (e *Executor) storeOf(address common.Address) objectgraph.Store {
	if s, ok := e.stores[address]; ok {
		return s
	}
	s := e.storeFor(address)
	e.stores[address] = s
	return s
}

// hydrateRoot installs root's lazy loader from store if store already
// holds a root-statics record, or leaves root as the zero-value
// container if this is the address's first-ever activation — spec.md is
// silent on the deploy/call distinction the way it specifies
// ReadEnvironment's first-use defaults, so this mirrors that same
// "absent record means fresh state" convention for the statics root.
func hydrateRoot(codec *objectgraph.Codec, store objectgraph.Store, root objectgraph.Persistable) {
	if _, ok := store.Read(params.RootStaticsInstanceID); ok {
		codec.LoadStatics(root)
		return
	}
	root.PersistentHeader().InstanceID = params.RootStaticsInstanceID
}

// Run drives one top-level transaction against address (spec section
// 4.9 steps 1-10, top-level path).
func (e *Executor) Run(ctx context.Context, address common.Address, cfg RunConfig) *Result {
	dapp, ok := e.dapps[address]
	if !ok {
		return &Result{Status: StatusFailedException, UncaughtException: errors.New("executor: no dapp registered at address")}
	}
	store := e.storeOf(address)

	// Step 1: obtain environment state from the store (top-level).
	env := objectgraph.ReadEnvironment(store)

	// Step 3: seed the helper.
	helper := energyhelper.New(cfg.EnergyLimit, 0, env.NextInstanceID, env.NextHashCode)

	root := dapp.NewRoot()

	// Step 2: push the stack frame.
	frame := callstack.NewFrame(address, dapp, root, helper)
	if err := e.stack.Push(frame); err != nil {
		return &Result{Status: StatusFailedCallDepthLimitExceeded, EnergyUsed: helper.EnergyUsed()}
	}
	defer e.stack.Pop()

	// Step 5: hydrate statics from disk (top-level).
	codec := objectgraph.NewCodec(store, dapp.Types, helper)
	hydrateRoot(codec, store, root)
	if err := frame.MarkHydrated(); err != nil {
		return &Result{Status: StatusFailedException, UncaughtException: err}
	}

	// Step 4: attach the runtime bridge.
	bridge := runtimebridge.NewEnv(runtimebridge.Config{
		Sender:            cfg.Sender,
		Address:           address,
		Origin:            cfg.Origin,
		Data:              cfg.Data,
		Value:             cfg.Value,
		BlockEpochSeconds: cfg.BlockEpochSeconds,
		BlockNumber:       cfg.BlockNumber,
		BlockDifficulty:   cfg.BlockDifficulty,
	}, helper, e)

	if err := frame.MarkRunning(); err != nil {
		return &Result{Status: StatusFailedException, UncaughtException: err}
	}

	// Step 6: invoke the main entry point.
	returnData, runErr := dapp.EntryPoint(ctx, bridge, helper, cfg.Data)

	if runErr != nil {
		status := statusForError(runErr)
		if status == StatusFailedOutOfEnergy || status == StatusFailedInvalid || status == StatusFailedException || status == StatusFailed || status == StatusFailedOutOfStack || status == StatusFailedCallDepthLimitExceeded {
			helper.Charge(helper.RemainingEnergy()) // nolint: errcheck // draining to 0 cannot itself fail
		}
		frame.MarkReverted() // nolint: errcheck // best-effort terminal marker on a failed top-level run
		// Step 9: a top-level failure simply does not flush the store.
		return &Result{Status: status, EnergyUsed: helper.EnergyUsed(), UncaughtException: unwrapControlFlow(runErr)}
	}

	// Step 7: top-level normal return — save statics, persist the
	// environment record, flush.
	if err := codec.SaveStatics(root); err != nil {
		frame.MarkReverted() // nolint: errcheck
		status := statusForError(err)
		if status == StatusFailedOutOfEnergy {
			helper.Charge(helper.RemainingEnergy()) // nolint: errcheck
		}
		return &Result{Status: status, EnergyUsed: helper.EnergyUsed(), UncaughtException: unwrapControlFlow(err)}
	}
	objectgraph.WriteEnvironment(store, objectgraph.EnvironmentRecord{
		NextInstanceID: helper.PeekNextInstanceID(),
		NextHashCode:   helper.PeekNextHashCode(),
	})
	if err := store.FlushWrites(); err != nil {
		frame.MarkReverted() // nolint: errcheck
		return &Result{Status: StatusFailed, EnergyUsed: helper.EnergyUsed(), UncaughtException: err}
	}
	frame.MarkCommitted() // nolint: errcheck

	// Step 8: build the final result.
	return &Result{
		Status:          StatusSuccess,
		ReturnData:      returnData,
		EnergyUsed:      helper.EnergyUsed(),
		StorageRootHash: store.SimpleHashCode(),
		Logs:            bridgeLogs(bridge),
	}
}

func bridgeLogs(b runtimebridge.Bridge) []runtimebridge.LogEntry {
	if env, ok := b.(*runtimebridge.Env); ok {
		return env.Logs()
	}
	return nil
}

func statusForError(err error) StatusCode {
	switch {
	case errors.Is(err, energyhelper.ErrOutOfEnergy):
		return StatusFailedOutOfEnergy
	case errors.Is(err, energyhelper.ErrStackOverflow):
		return StatusFailedOutOfStack
	case errors.Is(err, callstack.ErrCallDepthLimitExceeded):
		return StatusFailedCallDepthLimitExceeded
	case errors.Is(err, runtimebridge.ErrReverted):
		return StatusFailedRevert
	case errors.Is(err, runtimebridge.ErrInvalid):
		return StatusFailedInvalid
	case errors.Is(err, ErrAborted):
		return StatusFailedAbort
	default:
		return StatusFailedException
	}
}

// unwrapControlFlow reports the uncaughtException field (spec section
// 6): the expected control-flow sentinels (revert/invalid/out-of-energy)
// are not "uncaught exceptions" in the user sense, only genuine escapes
// are.
func unwrapControlFlow(err error) error {
	switch {
	case errors.Is(err, energyhelper.ErrOutOfEnergy),
		errors.Is(err, energyhelper.ErrStackOverflow),
		errors.Is(err, callstack.ErrCallDepthLimitExceeded),
		errors.Is(err, runtimebridge.ErrReverted),
		errors.Is(err, runtimebridge.ErrInvalid),
		errors.Is(err, ErrAborted):
		return nil
	default:
		return err
	}
}
