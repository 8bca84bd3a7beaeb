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

package excwrap

import "github.com/core-coin/go-avm/classfile"

// reservedRethrowMarker is a synthetic owner recognized by the executor's
// interpreter loop as "rethrow caught value if it is a control-flow
// error"; it is injected at the start of every exception handler range so
// user code, once reached, only ever operates on an already-filtered,
// already shadow-boxed value.
const reservedRethrowMarker = "$excwrap$"

// Wrap rewrites every ATHROW site to box its operand via WrapName and
// injects a rethrow-prologue instruction at every exception handler's
// entry point (spec section 4.2).
func Wrap(c *classfile.ClassFile) *classfile.ClassFile {
	out := c.Clone()
	for mi := range out.Methods {
		m := &out.Methods[mi]
		for i := range m.Code {
			if m.Code[i].Op == classfile.ATHROW {
				m.Code[i].Owner = reservedRethrowMarker
				m.Code[i].Name = WrapName
			}
		}
		m.Code = injectRethrowPrologues(m)
	}
	return out
}

// injectRethrowPrologues inserts one GENERIC instruction marked with the
// reserved marker immediately before each handler's first instruction,
// shifting later handler/branch offsets to account for the insertion.
func injectRethrowPrologues(m *classfile.MethodInfo) []classfile.Instruction {
	if len(m.Handlers) == 0 {
		return m.Code
	}
	insertAt := map[int]bool{}
	for _, h := range m.Handlers {
		insertAt[h.HandlerPC] = true
	}
	out := make([]classfile.Instruction, 0, len(m.Code)+len(insertAt))
	shift := make([]int, len(m.Code)+1)
	for i := 0; i <= len(m.Code); i++ {
		if insertAt[i] {
			out = append(out, classfile.Instruction{
				Op:    classfile.GENERIC,
				Owner: reservedRethrowMarker,
				Name:  "rethrowIfControlFlow",
			})
		}
		if i < len(m.Code) {
			ins := m.Code[i]
			if classfile.IsBranchTarget(ins.Op) {
				target := i + ins.Target
				ins.Target = (target + shiftFor(insertAt, target)) - (i + shiftFor(insertAt, i))
			}
			out = append(out, ins)
		}
		shift[i] = len(out) - i - boolToInt(insertAt[i])
	}
	for i := range m.Handlers {
		h := &m.Handlers[i]
		// HandlerPC is always an insertion point; point at its prologue.
		h.HandlerPC += shiftFor(insertAt, h.HandlerPC) - 1
		h.StartPC += shiftFor(insertAt, h.StartPC)
		h.EndPC += shiftFor(insertAt, h.EndPC)
	}
	return out
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// shiftFor counts how many prologue instructions were inserted at or
// before pc, to translate an original program counter into the rewritten
// instruction stream.
func shiftFor(insertAt map[int]bool, pc int) int {
	n := 0
	for at := range insertAt {
		if at <= pc {
			n++
		}
	}
	return n
}
