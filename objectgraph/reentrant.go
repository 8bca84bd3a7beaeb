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

package objectgraph

import (
	"reflect"

	"github.com/core-coin/go-avm/params"
)

// Processor is the reentrant graph processor of spec section 4.7: it
// freezes the caller-space statics graph behind a back-buffer and hands
// the nested call a callee-space shadow built from content-translated
// copies, content-wise copying mutations back on commit and restoring
// the caller graph verbatim on revert.
//
// Bidirectional caller/callee identity is kept as plain Go maps keyed on
// Persistable values (interface holding a pointer compares by identity),
// not on instance id, because every callee stub shares the single
// ephemeral sentinel id (spec section 3) and so cannot be distinguished
// by id alone. This is the resolution to the open question in section
// 9: a two-path diamond (the same caller object reachable via two
// distinct fields) must still map to exactly one callee counterpart,
// which an id-keyed table could not guarantee but a pointer-keyed one
// does, by construction of calleeFor's "uniqued on request" lookup.
type Processor struct {
	callerOfCallee map[Persistable]Persistable
	calleeOfCaller map[Persistable]Persistable
	backBuffer     *Loopback
}

// NewProcessor returns a Processor ready for one nested call.
func NewProcessor() *Processor {
	return &Processor{
		callerOfCallee: map[Persistable]Persistable{},
		calleeOfCaller: map[Persistable]Persistable{},
	}
}

// Capture freezes root's current field values into the back-buffer and
// replaces every reference field with a callee-space stub
// (captureAndReplaceStaticState, spec section 4.7).
func (rp *Processor) Capture(root Persistable) error {
	lb := NewLoopback()
	if err := Fill(lb, root); err != nil {
		return err
	}
	rp.backBuffer = lb
	return rp.replaceReferencesWithStubs(root)
}

func (rp *Processor) replaceReferencesWithStubs(root Persistable) error {
	v := reflect.ValueOf(root).Elem()
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)
		if isHeaderField(v.Type().Field(i)) || !isReferenceField(f) {
			continue
		}
		if f.IsNil() {
			continue
		}
		caller := f.Interface().(Persistable)
		callee := rp.calleeFor(caller)
		f.Set(reflect.ValueOf(callee))
	}
	return nil
}

// calleeFor returns caller's unique callee-space counterpart, creating
// one (same concrete type, ephemeral sentinel id, lazy fault loader) on
// first request.
func (rp *Processor) calleeFor(caller Persistable) Persistable {
	if callee, ok := rp.calleeOfCaller[caller]; ok {
		return callee
	}
	concrete := reflect.New(reflect.TypeOf(caller).Elem())
	callee := concrete.Interface().(Persistable)
	callee.PersistentHeader().InstanceID = params.EphemeralInstanceID
	setLoader(callee, rp.faultLoader(caller))
	rp.calleeOfCaller[caller] = callee
	rp.callerOfCallee[callee] = caller
	return callee
}

// faultLoader realizes startDeserializeInstance (spec section 4.7): on
// first touch of a callee stub, ensure its caller is resident, then pipe
// the caller's fields through the loopback codec, translating every
// reference read out of the caller into a callee stub.
func (rp *Processor) faultLoader(caller Persistable) func(Persistable) error {
	return func(callee Persistable) error {
		if err := EnsureResident(caller); err != nil {
			return err
		}
		lb := NewLoopback()
		if err := Fill(lb, caller); err != nil {
			return err
		}
		return Drain(lb, callee, func(ref Persistable) (Persistable, error) {
			if ref == nil {
				return nil, nil
			}
			return rp.calleeFor(ref), nil
		})
	}
}

// Revert drains the back-buffer over root, restoring the exact
// pre-capture primitives and references (revertToStoredFields, spec
// section 4.7). The callee graph becomes unreachable.
func (rp *Processor) Revert(root Persistable) error {
	identity := func(p Persistable) (Persistable, error) { return p, nil }
	if err := Drain(rp.backBuffer, root, identity); err != nil {
		return err
	}
	rp.discard()
	return nil
}

func (rp *Processor) discard() {
	rp.callerOfCallee = map[Persistable]Persistable{}
	rp.calleeOfCaller = map[Persistable]Persistable{}
	rp.backBuffer = nil
}

// Commit runs commitGraphToStoredFieldsAndRestore (spec section 4.7):
// the back-buffer is dropped, every callee reference reachable from
// root's post-call fields is resolved to its caller counterpart (if one
// exists) or promoted as a newly stitched object, and every visited
// callee's mutated content is transcribed, through the callee→caller
// map, into its destination (the caller counterpart, or itself when
// newly stitched).
func (rp *Processor) Commit(root Persistable) error {
	rp.backBuffer = nil

	var queue []Persistable
	enqueued := map[Persistable]bool{}
	enqueue := func(p Persistable) {
		if p == nil || enqueued[p] {
			return
		}
		enqueued[p] = true
		queue = append(queue, p)
	}

	v := reflect.ValueOf(root).Elem()
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)
		if isHeaderField(v.Type().Field(i)) || !isReferenceField(f) {
			continue
		}
		if f.IsNil() {
			continue
		}
		callee := f.Interface().(Persistable)
		if caller, ok := rp.callerOfCallee[callee]; ok {
			f.Set(reflect.ValueOf(caller))
		}
		// Enqueue regardless: even a callee with a caller counterpart
		// still needs its mutated content transcribed into that caller.
		enqueue(callee)
	}

	done := map[Persistable]bool{}
	for len(queue) > 0 {
		callee := queue[0]
		queue = queue[1:]
		if done[callee] {
			return ErrDoneMarkerViolated
		}
		done[callee] = true

		dest := callee
		if caller, ok := rp.callerOfCallee[callee]; ok {
			dest = caller
		}
		if err := EnsureResident(callee); err != nil {
			return err
		}
		lb := NewLoopback()
		if err := Fill(lb, callee); err != nil {
			return err
		}
		if err := Drain(lb, dest, func(ref Persistable) (Persistable, error) {
			if ref == nil {
				return nil, nil
			}
			enqueue(ref)
			if caller, ok := rp.callerOfCallee[ref]; ok {
				return caller, nil
			}
			return ref, nil
		}); err != nil {
			return err
		}
	}

	rp.discard()
	return nil
}
