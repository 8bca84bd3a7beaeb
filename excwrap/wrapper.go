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

// Package excwrap implements the exception wrapping pass of spec section
// 4.2: every throw site is rewritten to box the thrown value into its
// shadow counterpart, and every catch handler is rewritten to first
// rethrow any VM-internal control-flow exception before handing a shadow
// object to user code. It also defines the control-flow error kinds
// themselves (section 7), the same way core/vm/errors.go defines the
// sentinel errors the interpreter's Run loop returns.
package excwrap

import "errors"

// ControlFlowError marks an error as VM-internal and uncatchable by user
// code: excwrap rewrites every catch handler to rethrow anything
// implementing this interface before user code ever sees the caught
// value (spec section 4.2/7).
type ControlFlowError interface {
	error
	controlFlow()
}

type cfError struct{ msg string }

func (e cfError) Error() string  { return e.msg }
func (e cfError) controlFlow()   {}

// The six uncatchable control-flow kinds of spec section 7. Each is
// its own named value (rather than one generic error carrying a status
// code) so callers can errors.Is against the specific kind, mirroring
// core/vm/errors.go's one-sentinel-per-condition style.
var (
	ErrOutOfEnergy     ControlFlowError = cfError{"out of energy"}
	ErrStackOverflow   ControlFlowError = cfError{"stack overflow"}
	ErrCallDepthLimit  ControlFlowError = cfError{"call depth limit exceeded"}
	ErrRevert          ControlFlowError = cfError{"revert"}
	ErrInvalid         ControlFlowError = cfError{"invalid"}
	ErrAbort           ControlFlowError = cfError{"abort"}
)

// UncaughtException is the single kind uncaught shadow exceptions surface
// as to the executor (section 4.2): it carries the original shadow
// object rather than being a distinct kind per user exception type.
type UncaughtException struct {
	Shadow interface{}
}

func (e *UncaughtException) Error() string { return "uncaught exception" }

// WrapName is the reserved static helper invoked on every throw site to
// box a user value into its shadow exception counterpart before it is
// thrown (section 4.2).
const WrapName = "wrapAsShadowThrowable"

// RethrowIfControlFlow is the prologue injected at the top of every catch
// handler: if the caught value is a ControlFlowError it propagates
// unconditionally, otherwise the handler proceeds with the (already
// shadow-boxed) value. Callers of this package use it at runtime (this
// is the Go-level realization of the catch-site
// rewrite, since there is no real bytecode interpreter to instrument
// beneath the class-file IR in this repository).
func RethrowIfControlFlow(caught error) error {
	var cf ControlFlowError
	if errors.As(caught, &cf) {
		return cf
	}
	return nil
}
