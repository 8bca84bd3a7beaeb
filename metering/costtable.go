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

// Package metering implements the class metering pass of spec section
// 4.3: before each basic block, insert a charge proportional to a
// per-opcode cost vector summed across the block; for every
// new/newarray/anewarray, insert a charge proportional to the computed
// object size. The cost table itself is intentionally a plain data table
// (mirroring core/vm/energy_table.go), since spec.md treats the concrete
// fee table as an opaque external input.
package metering

import (
	"github.com/core-coin/go-avm/classfile"
	"github.com/core-coin/go-avm/params"
)

// CostTable is the per-opcode cost vector used to compute a basic
// block's flat charge, plus the per-byte/per-element costs used for
// allocation charges.
type CostTable struct {
	OpCost           map[classfile.OpCode]uint64
	FieldByteCost    uint64 // per declared instance field, toward object size
	ArrayElementCost map[string]uint64
}

// DefaultCostTable returns a cost table with the same shape a real
// deployment's would have; the exact values are not consensus-critical
// per spec.md's scope note.
func DefaultCostTable() CostTable {
	return CostTable{
		OpCost: map[classfile.OpCode]uint64{
			classfile.NOP:             0,
			classfile.NEW:             3,
			classfile.NEWARRAY:        3,
			classfile.ANEWARRAY:       3,
			classfile.ARRAYLENGTH:     1,
			classfile.GETFIELD:        2,
			classfile.PUTFIELD:        3,
			classfile.GETSTATIC:       2,
			classfile.PUTSTATIC:       3,
			classfile.INVOKEVIRTUAL:   10,
			classfile.INVOKESPECIAL:   8,
			classfile.INVOKESTATIC:    8,
			classfile.INVOKEINTERFACE: 12,
			classfile.ATHROW:          5,
			classfile.LDCSTRING:       2,
			classfile.LDCCLASS:        2,
			classfile.LDCINT:          1,
			classfile.GOTO:            1,
			classfile.IFEQ:            2,
			classfile.IFNE:            2,
			classfile.RETURN:          1,
			classfile.ARETURN:         1,
			classfile.IRETURN:         1,
			classfile.GENERIC:         1,
		},
		FieldByteCost: 8,
		ArrayElementCost: map[string]uint64{
			"I": 4,
			"J": 8,
			"B": 1,
			"Z": 1,
			"default": 8,
		},
	}
}

// elementCost returns the per-element charge for an array of the given
// element descriptor, falling back to the reference-type default.
func (t CostTable) elementCost(elementDescriptor string) uint64 {
	if c, ok := t.ArrayElementCost[elementDescriptor]; ok {
		return c
	}
	return t.ArrayElementCost["default"]
}

// ElementCost exposes elementCost to other packages (arraywrap needs the
// same per-element rate metering.Meter uses for NEWARRAY/ANEWARRAY
// sites, so the two stay consistent).
func (t CostTable) ElementCost(elementDescriptor string) uint64 {
	return t.elementCost(elementDescriptor)
}

// arraySize computes header + length*elementSize for a newly allocated
// array (spec section 4.3).
func (t CostTable) arraySize(elementDescriptor string, length uint64) uint64 {
	return params.ArrayHeaderEnergy + length*t.elementCost(elementDescriptor)
}
