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

// Package objectgraph implements the persistence and reentrancy engine of
// spec sections 3, 4.6, 4.7 and 4.8: a reflection-based field codec that
// walks a shadow object's declared fields, assigns instance ids (never
// reused), installs lazy-loading stubs for forward references, and — during a
// nested same-DApp call — maintains a callee-space shadow of the statics
// graph with content-wise copy-back on commit and verbatim restoration on
// revert. This mirrors core/state/snapshot/account.go's reflective
// field-walk shape (there over an `rlp`-tagged account struct; here over
// any struct embedding Header), generalized to arbitrary object graphs
// instead of one fixed account record.
package objectgraph

import "errors"

// Header is embedded by every Go struct that stands in for a shadow
// instance. InstanceID is the object's 64-bit id (spec section 3). A new
// object carries 0 until the codec gives it the helper's next id on its
// first save; no id is assigned at construction. loader is non-nil exactly when the object is a stub
// whose fields are not yet populated.
type Header struct {
	InstanceID uint64
	loader     func(Persistable) error
	loading    bool
}

// ID returns the header's instance id.
func (h *Header) ID() uint64 { return h.InstanceID }

// IsStub reports whether the object still has an uncleared loader.
func (h *Header) IsStub() bool { return h.loader != nil }

// Persistable is implemented by every struct embedding Header, the unit
// the reflection codec and reentrant processor operate over.
type Persistable interface {
	PersistentHeader() *Header
}

// ErrReentrantLoad is fatal: a stub's loader re-entering the same
// instance it is already populating violates the single-fire lazy-load
// contract of spec section 4.6.
var ErrReentrantLoad = errors.New("objectgraph: loader re-entered its own instance")

// ErrDoneMarkerViolated signals a callee instance was enqueued for
// commit more than once (spec section 4.7's "done marker" guard).
var ErrDoneMarkerViolated = errors.New("objectgraph: callee instance committed twice")

// ErrUnregisteredType means the codec encountered a type name at load
// time with no registered factory — a malformed or foreign record.
var ErrUnregisteredType = errors.New("objectgraph: no factory registered for stored type")

// setLoader installs l as p's lazy loader, marking p a stub.
func setLoader(p Persistable, l func(Persistable) error) {
	p.PersistentHeader().loader = l
}

// EnsureResident triggers p's loader if one is pending, exactly once,
// guarding against the loader re-entering the same instance before it
// clears (spec section 4.6: "re-entry... is forbidden and is a fatal
// internal error").
func EnsureResident(p Persistable) error {
	h := p.PersistentHeader()
	if h.loader == nil {
		return nil
	}
	if h.loading {
		return ErrReentrantLoad
	}
	h.loading = true
	l := h.loader
	err := l(p)
	h.loading = false
	if err != nil {
		return err
	}
	h.loader = nil
	return nil
}

// TypeRegistry maps a stored type name to a factory producing a fresh,
// zero-valued instance of that Go type, used to materialize stubs whose
// concrete type is not statically known at the call site (the
// declared field only carries a Persistable interface value).
type TypeRegistry map[string]func() Persistable
