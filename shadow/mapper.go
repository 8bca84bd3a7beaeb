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

// Package shadow implements the type-name mapper of spec section 4.1: it
// rewrites every reference to a host runtime type into the shadow
// namespace, prefixes host method invocations with a reserved marker, and
// rewrites both field and method descriptors accordingly.
package shadow

import (
	"errors"
	"strings"

	"github.com/core-coin/go-avm/classfile"
)

// ErrDynamicConstant is fatal per section 4.1's edge policy: a
// method-handle or dynamic-invocation opcode in user code cannot be
// given deterministic, metered shadow semantics.
var ErrDynamicConstant = errors.New("shadow: method handle / invokedynamic not supported")

// ErrArraySort is fatal per section 4.1's edge policy: sorting within a
// constant array is rejected as unimplemented.
var ErrArraySort = errors.New("shadow: array sort in constants unimplemented")

// ConstructorName is preserved verbatim by the method-prefixing rule
// (spec section 4.1: "except constructor sentinel names").
const ConstructorName = "<init>"

// WrapStringMethod and WrapClassMethod are the reserved static helper
// names written into LDC string/class-literal instructions (section 4.1).
// The LDC instruction itself carries the helper's owner and name; no
// separate call instruction is inserted after it.
const (
	WrapStringMethod = "wrapAsShadowString"
	WrapClassMethod  = "wrapAsShadowClass"
)

// Mapper holds the host/shadow root prefixes and the reserved method
// marker. Making these configurable (rather than hard-coding one host
// runtime, e.g. a JVM's java/lang) lets the pipeline stage be exercised
// without a real host runtime present, per SPEC_FULL's supplement note.
type Mapper struct {
	HostRoot      string // e.g. "java/lang"
	ShadowRoot    string // e.g. "shadow/java/lang"
	MethodPrefix  string // e.g. "avm_"
}

// New returns a Mapper with the spec's default host/shadow roots.
func New() *Mapper {
	return &Mapper{
		HostRoot:     "host/lang",
		ShadowRoot:   "shadow/host/lang",
		MethodPrefix: "avm_",
	}
}

func (m *Mapper) inHostRoot(internalName string) bool {
	return strings.HasPrefix(internalName, m.HostRoot)
}

// renameType rewrites one internal type name, leaving names outside the
// host root untouched.
func (m *Mapper) renameType(internalName string) string {
	if !m.inHostRoot(internalName) {
		return internalName
	}
	return m.ShadowRoot + internalName[len(m.HostRoot):]
}

// renameMethod prefixes a method name invoked on a host-root owner,
// preserving the constructor sentinel.
func (m *Mapper) renameMethod(name string) string {
	if name == ConstructorName {
		return name
	}
	return m.MethodPrefix + name
}

// Rewrite produces a new ClassFile with every host-root type reference
// replaced by its shadow counterpart, every host-root method invocation
// renamed, every descriptor rewritten token-by-token, and the advisory
// signature attribute dropped.
func (m *Mapper) Rewrite(c *classfile.ClassFile) (*classfile.ClassFile, error) {
	out := c.Clone()
	out.Super = m.renameType(out.Super)
	for i, iface := range out.Interfaces {
		out.Interfaces[i] = m.renameType(iface)
	}
	// Signature attributes are advisory only; drop them (section 4.1).
	out.Signature = ""

	for i := range out.Fields {
		rewritten, err := classfile.RewriteDescriptor(out.Fields[i].Descriptor, m.renameType)
		if err != nil {
			return nil, err
		}
		out.Fields[i].Descriptor = rewritten
	}

	for mi := range out.Methods {
		meth := &out.Methods[mi]
		rewritten, err := classfile.RewriteDescriptor(meth.Descriptor, m.renameType)
		if err != nil {
			return nil, err
		}
		meth.Descriptor = rewritten

		for i := range meth.Code {
			ins := &meth.Code[i]
			switch ins.Op {
			case classfile.INVOKEDYNAMIC, classfile.INVOKEHANDLE:
				return nil, ErrDynamicConstant
			case classfile.ARRAYSORT:
				return nil, ErrArraySort
			case classfile.INVOKEVIRTUAL, classfile.INVOKESPECIAL, classfile.INVOKESTATIC, classfile.INVOKEINTERFACE:
				owner := ins.Owner
				ins.Owner = m.renameType(owner)
				if m.inHostRoot(owner) {
					ins.Name = m.renameMethod(ins.Name)
				}
				if d, err := classfile.RewriteDescriptor(ins.Descriptor, m.renameType); err == nil {
					ins.Descriptor = d
				} else if ins.Descriptor != "" {
					return nil, err
				}
			case classfile.GETFIELD, classfile.PUTFIELD, classfile.GETSTATIC, classfile.PUTSTATIC:
				ins.Owner = m.renameType(ins.Owner)
				if d, err := classfile.RewriteDescriptor(ins.Descriptor, m.renameType); err == nil {
					ins.Descriptor = d
				} else if ins.Descriptor != "" {
					return nil, err
				}
			case classfile.NEW, classfile.ANEWARRAY:
				ins.Owner = m.renameType(ins.Owner)
			case classfile.LDCSTRING:
				// LDC of a string literal is tagged in place with the
				// mapper's helper owner and wrapping method name; no
				// instruction is inserted, so later passes see the same
				// instruction count and branch offsets.
				ins.Owner = m.ShadowRoot
				ins.Name = WrapStringMethod
			case classfile.LDCCLASS:
				ins.Owner = m.ShadowRoot
				ins.Name = WrapClassMethod
			}
		}
	}
	return out, nil
}
