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

package metering

import (
	"github.com/core-coin/go-avm/classfile"
	"github.com/core-coin/go-avm/params"
)

// ChargeOwner is the synthetic instruction owner the interpreter
// recognizes as "debit the helper by IntValue energy", the runtime
// realization of the charges this pass injects.
const ChargeOwner = "$metering$"
const chargeBlockName = "chargeBlock"
const chargeAllocName = "chargeAlloc"

// Meter instruments every method of c: a flat per-opcode-cost charge at
// the start of each basic block, and an additional size-proportional
// charge at every new/newarray/anewarray site (spec section 4.3).
func Meter(c *classfile.ClassFile, sizes SizeTable, table CostTable) *classfile.ClassFile {
	out := c.Clone()
	for mi := range out.Methods {
		m := &out.Methods[mi]
		if m.IsNative {
			continue
		}
		m.Code = meterMethod(m, sizes, table, out.Name)
	}
	return out
}

func meterMethod(m *classfile.MethodInfo, sizes SizeTable, table CostTable, className string) []classfile.Instruction {
	blocks := classfile.BasicBlocks(m)
	blockCost := make(map[int]uint64, len(blocks))
	for _, b := range blocks {
		var sum uint64
		for i := b.Start; i < b.End; i++ {
			sum += table.OpCost[m.Code[i].Op]
		}
		blockCost[b.Start] = sum + params.BasicBlockBaseEnergy
	}

	out := make([]classfile.Instruction, 0, len(m.Code)*2)
	blockStarts := make(map[int]bool, len(blocks))
	for _, b := range blocks {
		blockStarts[b.Start] = true
	}

	offsetDelta := 0
	insertedBefore := make([]int, len(m.Code)+1)
	for i := 0; i <= len(m.Code); i++ {
		if blockStarts[i] {
			out = append(out, chargeInstruction(chargeBlockName, blockCost[i]))
			offsetDelta++
		}
		if i < len(m.Code) {
			ins := m.Code[i]
			if classfile.AllocatingOpcodes[ins.Op] {
				size := allocationSize(ins, sizes, table, className)
				out = append(out, chargeInstruction(chargeAllocName, size))
				offsetDelta++
			}
			out = append(out, ins)
		}
		insertedBefore[i] = offsetDelta
	}
	// Branch targets are offsets relative to the branch's own original
	// instruction index; translate them using the cumulative insertion
	// count so post-metering jumps still land on block starts.
	retranslateBranches(out, insertedBefore, m.Code)
	return out
}

func chargeInstruction(name string, amount uint64) classfile.Instruction {
	return classfile.Instruction{
		Op:       classfile.GENERIC,
		Owner:    ChargeOwner,
		Name:     name,
		IntValue: int64(amount),
	}
}

func allocationSize(ins classfile.Instruction, sizes SizeTable, table CostTable, className string) uint64 {
	switch ins.Op {
	case classfile.NEW:
		if s, ok := sizes[ins.Owner]; ok {
			return s
		}
		return sizes[className]
	case classfile.NEWARRAY, classfile.ANEWARRAY:
		// IntValue carries the statically-unknown-length marker; real
		// length-dependent costs are computed at runtime by the
		// interpreter reading the top-of-stack length, this injected
		// charge only carries the per-element rate via descriptor.
		return table.arraySize(ins.Descriptor, 0) + table.elementCost(ins.Descriptor)
	default:
		return 0
	}
}

// retranslateBranches walks out (already expanded with charge
// instructions) and rewrites each branch Target, originally relative to
// the pre-metering instruction index, to stay relative to the
// post-metering stream.
func retranslateBranches(out []classfile.Instruction, insertedBefore []int, orig []classfile.Instruction) {
	origIndex := 0
	for i := range out {
		if out[i].Owner == ChargeOwner {
			continue
		}
		if classfile.IsBranchTarget(out[i].Op) {
			targetOrig := origIndex + out[i].Target
			if targetOrig >= 0 && targetOrig < len(insertedBefore) {
				// Land on the first charge inserted before the target, so
				// the jumped-to block's own charge is still paid.
				before := 0
				if targetOrig > 0 {
					before = insertedBefore[targetOrig-1]
				}
				newTarget := targetOrig + before
				out[i].Target = newTarget - i
			}
		}
		origIndex++
	}
}
