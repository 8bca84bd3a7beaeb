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

import "sort"

// BasicBlock is a maximal straight-line run of instructions: it starts at
// a branch target (or the method entry) and ends at a terminator or just
// before the next block's start (section 4.3).
type BasicBlock struct {
	Start, End int // [Start, End) indices into MethodInfo.Code
}

// BasicBlocks partitions m.Code into basic blocks. Block boundaries are
// determined purely from control flow, never from metering state, so the
// computation is safe to run before any pass has instrumented the method
// (section 9: "avoid native recursion... express as explicit work over
// the instruction list").
func BasicBlocks(m *MethodInfo) []BasicBlock {
	if len(m.Code) == 0 {
		return nil
	}
	starts := map[int]bool{0: true}
	for i, ins := range m.Code {
		if IsBranchTarget(ins.Op) {
			target := i + ins.Target
			if target >= 0 && target < len(m.Code) {
				starts[target] = true
			}
		}
		if Terminators[ins.Op] && i+1 < len(m.Code) {
			starts[i+1] = true
		}
	}
	// Exception handlers are also block entries: control can transfer
	// there from any instruction in the protected range.
	for _, h := range m.Handlers {
		if h.HandlerPC >= 0 && h.HandlerPC < len(m.Code) {
			starts[h.HandlerPC] = true
		}
	}

	sorted := make([]int, 0, len(starts))
	for s := range starts {
		sorted = append(sorted, s)
	}
	sort.Ints(sorted)

	blocks := make([]BasicBlock, 0, len(sorted))
	for i, s := range sorted {
		end := len(m.Code)
		if i+1 < len(sorted) {
			end = sorted[i+1]
		}
		blocks = append(blocks, BasicBlock{Start: s, End: end})
	}
	return blocks
}
