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

// Package classfile is the in-memory class-file IR the transformation
// chain of spec sections 4.1-4.5 operates on. Real bytecode instrumentors
// (ASM and friends) expose a tree API over parsed classfiles rather than
// rewriting raw bytes in place; this package follows the same shape
// (design note, spec section 9: "pipeline of passes... not a dynamic
// visitor chain") and the IR is opaque to the DApp author, who only ever
// sees the resulting Artifact bytes (spec section 6).
package classfile

// Instruction is one bytecode instruction. Operands are interpreted
// according to Op: NEW/ANEWARRAY/GETFIELD/PUTFIELD/GETSTATIC/PUTSTATIC
// carry an owner+name+descriptor in Owner/Name/Descriptor;
// INVOKE* carry the same plus an IsStatic marker is implied by the
// opcode itself; NEWARRAY carries the element Descriptor only;
// LDCSTRING/LDCCLASS carry the literal in Name; branch opcodes carry a
// Target relative to the branch instruction's own index.
type Instruction struct {
	Op         OpCode
	Owner      string
	Name       string
	Descriptor string
	Target     int
	IntValue   int64
}

// ExceptionHandler is one entry of a method's exception table: code in
// [StartPC, EndPC) that, on a matching throw, transfers control to
// HandlerPC. CatchType empty means "catches everything" (a finally
// block).
type ExceptionHandler struct {
	StartPC, EndPC, HandlerPC int
	CatchType                 string
}

// FieldInfo is one declared field.
type FieldInfo struct {
	Name       string
	Descriptor string
	IsStatic   bool
}

// MethodInfo is one declared method.
type MethodInfo struct {
	Name       string
	Descriptor string
	IsStatic   bool
	IsNative   bool
	IsClinit   bool
	Code       []Instruction
	Handlers   []ExceptionHandler
}

// ClassFile is the whole-class IR: one user-supplied class, its
// hierarchy links, declared fields (the persistent statics vector is
// built from every class's static FieldInfo entries in class-load order,
// then declared-field order) and methods.
type ClassFile struct {
	Name       string
	Super      string
	Interfaces []string
	Fields     []FieldInfo
	Methods    []MethodInfo

	// Signature is an advisory generics signature attribute, dropped by
	// the type-name mapper (section 4.1) since it carries no runtime
	// meaning once types are shadowed.
	Signature string
}

// StaticFields returns the class's own static fields in declared order,
// the per-class contribution to the statics vector (section 3).
func (c *ClassFile) StaticFields() []FieldInfo {
	var out []FieldInfo
	for _, f := range c.Fields {
		if f.IsStatic {
			out = append(out, f)
		}
	}
	return out
}

// InstanceFields returns the class's own non-static fields in declared
// order, the unit the reflection codec walks (section 4.6).
func (c *ClassFile) InstanceFields() []FieldInfo {
	var out []FieldInfo
	for _, f := range c.Fields {
		if !f.IsStatic {
			out = append(out, f)
		}
	}
	return out
}

// Method looks up a method by name+descriptor.
func (c *ClassFile) Method(name, descriptor string) *MethodInfo {
	for i := range c.Methods {
		if c.Methods[i].Name == name && c.Methods[i].Descriptor == descriptor {
			return &c.Methods[i]
		}
	}
	return nil
}

// Clone returns a deep-enough copy of c for a pipeline pass to mutate
// without aliasing the input; every pass in sections 4.1-4.4 returns a
// transformed copy rather than mutating in place, so the caller always
// holds the pre-pass class file too.
func (c *ClassFile) Clone() *ClassFile {
	out := &ClassFile{
		Name:      c.Name,
		Super:     c.Super,
		Signature: c.Signature,
	}
	out.Interfaces = append(out.Interfaces, c.Interfaces...)
	out.Fields = append(out.Fields, c.Fields...)
	out.Methods = make([]MethodInfo, len(c.Methods))
	for i, m := range c.Methods {
		nm := m
		nm.Code = append([]Instruction(nil), m.Code...)
		nm.Handlers = append([]ExceptionHandler(nil), m.Handlers...)
		out.Methods[i] = nm
	}
	return out
}
