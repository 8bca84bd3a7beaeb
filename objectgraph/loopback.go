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
	"errors"
	"reflect"
)

// ErrLoopbackNotDrained is fatal: the queue was non-empty at verifyDone,
// meaning the serializer and deserializer walked structurally different
// field sequences (spec section 4.8).
var ErrLoopbackNotDrained = errors.New("objectgraph: loopback queue not drained")

// loopbackEntry is one queued primitive or reference field value.
type loopbackEntry struct {
	isReference bool
	primitive   reflect.Value
	reference   Persistable // nil means a null reference
}

// Loopback is the single-use in-memory pipe of spec section 4.8: a
// serializer drains a source object's fields into it, and a deserializer
// later drains the same queue into a destination object, translating
// each reference through a caller-supplied function. It never touches
// Store.
type Loopback struct {
	queue []loopbackEntry
}

// NewLoopback returns an empty pipe.
func NewLoopback() *Loopback { return &Loopback{} }

// Fill walks src's declared fields (mirroring reflect_codec's own field
// walk) and pushes each value onto the queue in declaration order.
func Fill(lb *Loopback, src Persistable) error {
	v := reflect.ValueOf(src).Elem()
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)
		if isHeaderField(v.Type().Field(i)) {
			continue
		}
		if isReferenceField(f) {
			if f.IsNil() {
				lb.queue = append(lb.queue, loopbackEntry{isReference: true, reference: nil})
				continue
			}
			lb.queue = append(lb.queue, loopbackEntry{isReference: true, reference: f.Interface().(Persistable)})
			continue
		}
		// Queue a copy, so later writes to src leave the queued value intact.
		cp := reflect.New(f.Type()).Elem()
		cp.Set(f)
		lb.queue = append(lb.queue, loopbackEntry{primitive: cp})
	}
	return nil
}

// Drain pops the queue into dst's matching fields in order, calling
// translate on each non-nil reference entry to obtain the value actually
// written into dst (e.g. a caller→callee stub lookup, or the reverse).
func Drain(lb *Loopback, dst Persistable, translate func(Persistable) (Persistable, error)) error {
	v := reflect.ValueOf(dst).Elem()
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)
		if isHeaderField(v.Type().Field(i)) {
			continue
		}
		if len(lb.queue) == 0 {
			return ErrLoopbackNotDrained
		}
		entry := lb.queue[0]
		lb.queue = lb.queue[1:]

		if isReferenceField(f) {
			if !entry.isReference {
				return ErrLoopbackNotDrained
			}
			if entry.reference == nil {
				f.Set(reflect.Zero(f.Type()))
				continue
			}
			translated, err := translate(entry.reference)
			if err != nil {
				return err
			}
			f.Set(reflect.ValueOf(translated))
			continue
		}
		if entry.isReference {
			return ErrLoopbackNotDrained
		}
		f.Set(entry.primitive)
	}
	return nil
}

// VerifyDone reports the structural-mismatch error described in section
// 4.8 if the queue is not empty after a drain.
func (lb *Loopback) VerifyDone() error {
	if len(lb.queue) != 0 {
		return ErrLoopbackNotDrained
	}
	return nil
}
