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

// Package callstack implements the per-task reentrant DApp stack of spec
// section 4.10: a LIFO of frames supporting push, pop and
// topOfAddress(a), plus the call-depth ceiling core/vm/cvm.go enforces
// with its own depth counter (ErrDepth at params.CallCreateDepth). The
// nested-call primitive consults topOfAddress before deciding whether a
// call is a fresh top-level hydration or a reentrant resume into an
// already-running frame.
package callstack

import (
	"errors"
	"fmt"

	"github.com/core-coin/go-avm/common"
	"github.com/core-coin/go-avm/energyhelper"
	"github.com/core-coin/go-avm/objectgraph"
	"github.com/core-coin/go-avm/params"
)

// State is a Frame's position in the CREATED → HYDRATED → RUNNING →
// (COMMITTED | REVERTED) state machine (spec section 4.10).
type State int

const (
	Created State = iota
	Hydrated
	Running
	Committed
	Reverted
)

func (s State) String() string {
	switch s {
	case Created:
		return "CREATED"
	case Hydrated:
		return "HYDRATED"
	case Running:
		return "RUNNING"
	case Committed:
		return "COMMITTED"
	case Reverted:
		return "REVERTED"
	default:
		return "UNKNOWN"
	}
}

// ErrIllegalTransition is raised by an out-of-order State change attempt.
var ErrIllegalTransition = errors.New("callstack: illegal frame state transition")

// ErrCallDepthLimitExceeded is raised by Push once the configured depth
// ceiling would be exceeded (spec section 7's FAILED_CALL_DEPTH_LIMIT_EXCEEDED).
var ErrCallDepthLimitExceeded = errors.New("callstack: call depth limit exceeded")

// ErrNotRunning is raised when a nested call targets an address whose
// frame exists but has not reached RUNNING — spec section 4.10: "Nested
// calls on the same address are legal only from RUNNING."
var ErrNotRunning = errors.New("callstack: target frame is not running")

// Frame carries one (address, dapp, environment) activation, the unit
// spec section 4.9 step 2 pushes per call.
type Frame struct {
	Address common.Address
	DApp    interface{}
	Root    objectgraph.Persistable

	Helper    *energyhelper.Helper
	Processor *objectgraph.Processor

	state State
}

// NewFrame constructs a frame in the CREATED state.
func NewFrame(address common.Address, dapp interface{}, root objectgraph.Persistable, helper *energyhelper.Helper) *Frame {
	return &Frame{Address: address, DApp: dapp, Root: root, Helper: helper, state: Created}
}

// State reports the frame's current position in the state machine.
func (f *Frame) State() State { return f.state }

// MarkHydrated transitions CREATED → HYDRATED.
func (f *Frame) MarkHydrated() error {
	return f.transition(Created, Hydrated)
}

// MarkRunning transitions HYDRATED → RUNNING. Once RUNNING, the
// transition is irreversible for the remainder of the frame's life
// (spec section 4.10).
func (f *Frame) MarkRunning() error {
	return f.transition(Hydrated, Running)
}

// MarkCommitted transitions RUNNING → COMMITTED, a terminal state.
func (f *Frame) MarkCommitted() error {
	return f.transition(Running, Committed)
}

// MarkReverted transitions RUNNING → REVERTED, a terminal state.
func (f *Frame) MarkReverted() error {
	return f.transition(Running, Reverted)
}

func (f *Frame) transition(from, to State) error {
	if f.state != from {
		return fmt.Errorf("%w: %s -> %s (expected from %s)", ErrIllegalTransition, f.state, to, from)
	}
	f.state = to
	return nil
}

// Stack is the per-task FIFO-of-frames used as a LIFO, per spec section
// 4.10.
type Stack struct {
	frames []*Frame
}

// New returns an empty Stack.
func New() *Stack {
	return &Stack{}
}

// Push appends a new frame, enforcing the call-depth ceiling
// (params.CallDepthLimit, the Go analogue of cvm.depth vs.
// params.CallCreateDepth).
func (s *Stack) Push(f *Frame) error {
	if uint64(len(s.frames)) >= params.CallDepthLimit {
		return ErrCallDepthLimitExceeded
	}
	s.frames = append(s.frames, f)
	return nil
}

// Pop removes and returns the top-of-stack frame, or nil if empty —
// spec section 4.9 step 10: "Always pop the stack frame."
func (s *Stack) Pop() *Frame {
	n := len(s.frames)
	if n == 0 {
		return nil
	}
	f := s.frames[n-1]
	s.frames = s.frames[:n-1]
	return f
}

// Top returns the current top-of-stack frame without removing it, or
// nil if empty.
func (s *Stack) Top() *Frame {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

// Depth reports the number of frames currently on the stack.
func (s *Stack) Depth() int { return len(s.frames) }

// TopOfAddress returns the most recently pushed frame for address, or
// nil if no frame for that address is active — the lookup the
// nested-call primitive consults to decide between a reentrant resume
// and a fresh top-level hydration (spec section 4.10).
func (s *Stack) TopOfAddress(address common.Address) *Frame {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if s.frames[i].Address == address {
			return s.frames[i]
		}
	}
	return nil
}
