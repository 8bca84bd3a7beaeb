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

package classfile

import "github.com/core-coin/go-avm/wireformat"

// Encode renders c to the deterministic byte form stored in a transformed
// Artifact (spec section 6: "the output of the full transformation chain
// ... no source-form classes are retained"). The encoding is this
// project's own fixed class-file wire format, not a real JVM .class file
// — the spec treats concrete bytecode bodies as opaque test fixtures, so
// only a deterministic, round-trippable encoding matters here.
func Encode(c *ClassFile) []byte {
	w := wireformat.NewWriter()
	w.WriteString(c.Name)
	w.WriteString(c.Super)
	w.WriteString(c.Signature)
	w.WriteUint32(uint32(len(c.Interfaces)))
	for _, i := range c.Interfaces {
		w.WriteString(i)
	}
	w.WriteUint32(uint32(len(c.Fields)))
	for _, f := range c.Fields {
		w.WriteString(f.Name)
		w.WriteString(f.Descriptor)
		w.WriteBool(f.IsStatic)
	}
	w.WriteUint32(uint32(len(c.Methods)))
	for _, m := range c.Methods {
		encodeMethod(w, &m)
	}
	return w.Bytes()
}

func encodeMethod(w *wireformat.Writer, m *MethodInfo) {
	w.WriteString(m.Name)
	w.WriteString(m.Descriptor)
	w.WriteBool(m.IsStatic)
	w.WriteBool(m.IsNative)
	w.WriteBool(m.IsClinit)
	w.WriteUint32(uint32(len(m.Code)))
	for _, ins := range m.Code {
		w.WriteUint8(uint8(ins.Op))
		w.WriteString(ins.Owner)
		w.WriteString(ins.Name)
		w.WriteString(ins.Descriptor)
		w.WriteUint32(uint32(int32(ins.Target)))
		w.WriteUint64(uint64(ins.IntValue))
	}
	w.WriteUint32(uint32(len(m.Handlers)))
	for _, h := range m.Handlers {
		w.WriteUint32(uint32(h.StartPC))
		w.WriteUint32(uint32(h.EndPC))
		w.WriteUint32(uint32(h.HandlerPC))
		w.WriteString(h.CatchType)
	}
}

// Decode parses the byte form written by Encode.
func Decode(b []byte) (*ClassFile, error) {
	r := wireformat.NewReader(b)
	c := &ClassFile{}
	var err error
	if c.Name, err = r.ReadString(); err != nil {
		return nil, err
	}
	if c.Super, err = r.ReadString(); err != nil {
		return nil, err
	}
	if c.Signature, err = r.ReadString(); err != nil {
		return nil, err
	}
	nIfaces, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < nIfaces; i++ {
		iface, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		c.Interfaces = append(c.Interfaces, iface)
	}
	nFields, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < nFields; i++ {
		var f FieldInfo
		if f.Name, err = r.ReadString(); err != nil {
			return nil, err
		}
		if f.Descriptor, err = r.ReadString(); err != nil {
			return nil, err
		}
		if f.IsStatic, err = r.ReadBool(); err != nil {
			return nil, err
		}
		c.Fields = append(c.Fields, f)
	}
	nMethods, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < nMethods; i++ {
		m, err := decodeMethod(r)
		if err != nil {
			return nil, err
		}
		c.Methods = append(c.Methods, *m)
	}
	return c, nil
}

func decodeMethod(r *wireformat.Reader) (*MethodInfo, error) {
	m := &MethodInfo{}
	var err error
	if m.Name, err = r.ReadString(); err != nil {
		return nil, err
	}
	if m.Descriptor, err = r.ReadString(); err != nil {
		return nil, err
	}
	if m.IsStatic, err = r.ReadBool(); err != nil {
		return nil, err
	}
	if m.IsNative, err = r.ReadBool(); err != nil {
		return nil, err
	}
	if m.IsClinit, err = r.ReadBool(); err != nil {
		return nil, err
	}
	nCode, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < nCode; i++ {
		var ins Instruction
		op, err := r.ReadUint8()
		if err != nil {
			return nil, err
		}
		ins.Op = OpCode(op)
		if ins.Owner, err = r.ReadString(); err != nil {
			return nil, err
		}
		if ins.Name, err = r.ReadString(); err != nil {
			return nil, err
		}
		if ins.Descriptor, err = r.ReadString(); err != nil {
			return nil, err
		}
		target, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}
		ins.Target = int(int32(target))
		iv, err := r.ReadUint64()
		if err != nil {
			return nil, err
		}
		ins.IntValue = int64(iv)
		m.Code = append(m.Code, ins)
	}
	nHandlers, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < nHandlers; i++ {
		var h ExceptionHandler
		start, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}
		end, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}
		handler, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}
		h.StartPC, h.EndPC, h.HandlerPC = int(start), int(end), int(handler)
		if h.CatchType, err = r.ReadString(); err != nil {
			return nil, err
		}
		m.Handlers = append(m.Handlers, h)
	}
	return m, nil
}
