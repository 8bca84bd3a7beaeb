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
	"fmt"
	"reflect"

	"github.com/core-coin/go-avm/energyhelper"
	"github.com/core-coin/go-avm/params"
	"github.com/core-coin/go-avm/wireformat"
)

// fieldByteCharge approximates "every byte of payload is reported to the
// fee processor" (spec section 4.6) without requiring a real per-opcode
// trace through this package; metering of bytecode-level field access
// itself happens in the metering pass, this is the codec's own save/load
// traffic charge.
const fieldByteCharge = 1

// Codec is the reflection-based structure codec of spec section 4.6. One
// Codec instance is scoped to a single transaction: it owns the id
// table built up as objects are first touched, and charges every field
// access through helper.
type Codec struct {
	Store  Store
	Types  TypeRegistry
	Helper *energyhelper.Helper
	byID   map[uint64]Persistable
}

// NewCodec returns a Codec ready to save or load a graph against store.
func NewCodec(store Store, types TypeRegistry, helper *energyhelper.Helper) *Codec {
	return &Codec{Store: store, Types: types, Helper: helper, byID: map[uint64]Persistable{}}
}

// Resolve returns the instance already known to this codec under id, if
// any.
func (c *Codec) Resolve(id uint64) (Persistable, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// assignID gives p a fresh instance id from the helper and records it.
func (c *Codec) assignID(p Persistable) {
	h := p.PersistentHeader()
	h.InstanceID = c.Helper.NextInstanceID()
	c.byID[h.InstanceID] = p
}

// SaveStatics serializes the statics vector to the store. root is the
// "root statics container" of spec section 3: a single Persistable whose
// declared fields, in class-load-then-declared-field order, are the
// statics vector itself; its instance id is always the sentinel
// params.RootStaticsInstanceID. Every object transitively reachable from
// root is enqueued and flushed alongside it (spec section 9: work queue,
// not native recursion).
func (c *Codec) SaveStatics(root Persistable) error {
	root.PersistentHeader().InstanceID = params.RootStaticsInstanceID
	c.byID[params.RootStaticsInstanceID] = root
	return c.drainSaveQueue([]Persistable{root})
}

func (c *Codec) drainSaveQueue(queue []Persistable) error {
	visited := map[uint64]bool{}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		id := p.PersistentHeader().ID()
		if visited[id] {
			continue
		}
		visited[id] = true

		if err := EnsureResident(p); err != nil {
			return err
		}
		w := wireformat.NewWriter()
		w.WriteString(typeNameOf(p))
		if _, err := c.serializeFields(p, w, &queue); err != nil {
			return err
		}
		c.Store.Write(id, w.Bytes())
	}
	return nil
}

// serializeFields writes p's declared non-Header fields to w, assigning
// ids and enqueuing any not-yet-visited reference as it is encountered
// (spec section 4.6 step 2, done via a work queue rather than native
// recursion per section 9's design note).
func (c *Codec) serializeFields(p Persistable, w *wireformat.Writer, queue *[]Persistable) (int, error) {
	v := reflect.ValueOf(p).Elem()
	n := 0
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)
		if isHeaderField(v.Type().Field(i)) {
			continue
		}
		if err := c.Helper.Charge(fieldByteCharge); err != nil {
			return n, err
		}
		if err := c.serializeOneField(f, w, queue); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func (c *Codec) serializeOneField(f reflect.Value, w *wireformat.Writer, queue *[]Persistable) error {
	if isReferenceField(f) {
		if f.IsNil() {
			w.WriteBool(false)
			return nil
		}
		ref := f.Interface().(Persistable)
		h := ref.PersistentHeader()
		if h.InstanceID == 0 {
			c.assignID(ref)
			*queue = append(*queue, ref)
		} else if _, known := c.byID[h.InstanceID]; !known {
			c.byID[h.InstanceID] = ref
			*queue = append(*queue, ref)
		}
		w.WriteBool(true)
		w.WriteUint64(h.InstanceID)
		return nil
	}
	return writePrimitive(f, w)
}

// LoadStatics rebuilds the statics vector from the store: for each slot,
// either the top-level root-statics record (instance id
// params.RootStaticsInstanceID) or a nested object, installing stubs for
// every reference field it contains (spec section 4.6).
func (c *Codec) LoadStatics(root Persistable) {
	c.Hydrate(root, params.RootStaticsInstanceID)
}

// Hydrate installs a lazy loader on p for the record stored at id,
// without eagerly loading it; the first field access triggers the load
// (spec section 3: "Loaded stub").
func (c *Codec) Hydrate(p Persistable, id uint64) {
	p.PersistentHeader().InstanceID = id
	setLoader(p, c.makeLoader(id))
	c.byID[id] = p
}

func (c *Codec) makeLoader(id uint64) func(Persistable) error {
	return func(p Persistable) error {
		raw, ok := c.Store.Read(id)
		if !ok {
			return fmt.Errorf("objectgraph: no record for instance %d", id)
		}
		r := wireformat.NewReader(raw)
		if _, err := r.ReadString(); err != nil { // stored type name, already known by caller
			return err
		}
		return c.deserializeFields(p, r)
	}
}

func (c *Codec) deserializeFields(p Persistable, r *wireformat.Reader) error {
	v := reflect.ValueOf(p).Elem()
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)
		if isHeaderField(v.Type().Field(i)) {
			continue
		}
		if err := c.Helper.Charge(fieldByteCharge); err != nil {
			return err
		}
		if err := c.deserializeOneField(f, r); err != nil {
			return err
		}
	}
	return nil
}

func (c *Codec) deserializeOneField(f reflect.Value, r *wireformat.Reader) error {
	if isReferenceField(f) {
		present, err := r.ReadBool()
		if err != nil {
			return err
		}
		if !present {
			f.Set(reflect.Zero(f.Type()))
			return nil
		}
		id, err := r.ReadUint64()
		if err != nil {
			return err
		}
		ref, err := c.stubFor(f.Type(), id)
		if err != nil {
			return err
		}
		f.Set(reflect.ValueOf(ref))
		return nil
	}
	return readPrimitive(f, r)
}

// stubFor returns the already-known instance for id, or installs a fresh
// stub of the field's declared type.
func (c *Codec) stubFor(fieldType reflect.Type, id uint64) (Persistable, error) {
	if existing, ok := c.byID[id]; ok {
		return existing, nil
	}
	factory, ok := c.Types[typeNameForFieldType(fieldType)]
	if !ok {
		return nil, ErrUnregisteredType
	}
	p := factory()
	c.Hydrate(p, id)
	return p, nil
}

func isHeaderField(f reflect.StructField) bool {
	return f.Anonymous && f.Type == reflect.TypeOf(Header{})
}

var persistableType = reflect.TypeOf((*Persistable)(nil)).Elem()

func isReferenceField(f reflect.Value) bool {
	t := f.Type()
	return t.Kind() == reflect.Ptr && t.Implements(persistableType)
}

func typeNameOf(p Persistable) string {
	t := reflect.TypeOf(p).Elem()
	return t.PkgPath() + "." + t.Name()
}

func typeNameForFieldType(t reflect.Type) string {
	return t.Elem().PkgPath() + "." + t.Elem().Name()
}

func writePrimitive(f reflect.Value, w *wireformat.Writer) error {
	switch f.Kind() {
	case reflect.Bool:
		w.WriteBool(f.Bool())
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int, reflect.Int64:
		w.WriteUint64(uint64(f.Int()))
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint, reflect.Uint64:
		w.WriteUint64(f.Uint())
	case reflect.String:
		w.WriteString(f.String())
	case reflect.Slice:
		if f.Type().Elem().Kind() == reflect.Uint8 {
			w.WriteBytes(f.Bytes())
			return nil
		}
		return fmt.Errorf("objectgraph: unsupported primitive slice element kind %s", f.Type().Elem().Kind())
	default:
		return fmt.Errorf("objectgraph: unsupported primitive field kind %s", f.Kind())
	}
	return nil
}

func readPrimitive(f reflect.Value, r *wireformat.Reader) error {
	switch f.Kind() {
	case reflect.Bool:
		v, err := r.ReadBool()
		if err != nil {
			return err
		}
		f.SetBool(v)
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int, reflect.Int64:
		v, err := r.ReadUint64()
		if err != nil {
			return err
		}
		f.SetInt(int64(v))
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint, reflect.Uint64:
		v, err := r.ReadUint64()
		if err != nil {
			return err
		}
		f.SetUint(v)
	case reflect.String:
		v, err := r.ReadString()
		if err != nil {
			return err
		}
		f.SetString(v)
	case reflect.Slice:
		if f.Type().Elem().Kind() == reflect.Uint8 {
			v, err := r.ReadBytes()
			if err != nil {
				return err
			}
			f.SetBytes(v)
			return nil
		}
		return fmt.Errorf("objectgraph: unsupported primitive slice element kind %s", f.Type().Elem().Kind())
	default:
		return fmt.Errorf("objectgraph: unsupported primitive field kind %s", f.Kind())
	}
	return nil
}
