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

// Package stacktrack implements the stack tracking pass of spec section
// 4.4: at every method entry, insert a charge against a per-frame-depth
// counter maintained by the helper, failing with stack-overflow once a
// configured ceiling is exceeded. This mirrors the CVM interpreter's own
// cvm.depth++ / depth-limit check in interpreter.go, generalized from a
// single shared call-depth counter to a per-method-entry instrumented
// charge so the check lives in the transformed bytecode itself rather
// than in the driving interpreter.
package stacktrack

import "github.com/core-coin/go-avm/classfile"

// FrameEntryOwner is the synthetic instruction owner the interpreter
// recognizes as "enter a frame, failing with stack-overflow past the
// ceiling".
const FrameEntryOwner = "$stacktrack$"
const FrameEntryName = "enterFrame"

// Track prepends a frame-entry instruction to every non-native method of
// c. Static initializers are tracked like any other method, so a clinit
// that triggers nested construction (seed scenario 6) also passes through
// the frame-entry check.
func Track(c *classfile.ClassFile) *classfile.ClassFile {
	out := c.Clone()
	for mi := range out.Methods {
		m := &out.Methods[mi]
		if m.IsNative {
			continue
		}
		entry := classfile.Instruction{
			Op:    classfile.GENERIC,
			Owner: FrameEntryOwner,
			Name:  FrameEntryName,
		}
		m.Code = append([]classfile.Instruction{entry}, m.Code...)
		for i := range m.Handlers {
			m.Handlers[i].StartPC++
			m.Handlers[i].EndPC++
			m.Handlers[i].HandlerPC++
		}
		// Branch targets are relative offsets, not absolute indices;
		// prepending one instruction shifts every index uniformly so no
		// target needs adjusting.
	}
	return out
}
