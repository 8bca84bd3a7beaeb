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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/core-coin/go-avm/classfile"
	"github.com/core-coin/go-avm/hierarchy"
)

func branchyMethod() classfile.MethodInfo {
	return classfile.MethodInfo{
		Name:       "loop",
		Descriptor: "()V",
		Code: []classfile.Instruction{
			{Op: classfile.LDCINT, IntValue: 0},  // 0
			{Op: classfile.IFEQ, Target: 2},      // 1: branch to absolute 1+2=3
			{Op: classfile.GOTO, Target: -1},     // 2: branch to absolute 2-1=1
			{Op: classfile.RETURN},               // 3
		},
	}
}

func TestMeterInsertsBlockCharges(t *testing.T) {
	table := DefaultCostTable()
	m := branchyMethod()
	c := &classfile.ClassFile{Name: "org/example/Thing", Methods: []classfile.MethodInfo{m}}
	sizes := SizeTable{}
	out := Meter(c, sizes, table)

	var chargeCount int
	for _, ins := range out.Methods[0].Code {
		if ins.Owner == ChargeOwner {
			chargeCount++
		}
	}
	assert.True(t, chargeCount >= 2, "expected at least one charge per basic block")
}

func TestMeterPreservesBranchSemantics(t *testing.T) {
	table := DefaultCostTable()
	m := branchyMethod()
	c := &classfile.ClassFile{Name: "org/example/Thing", Methods: []classfile.MethodInfo{m}}
	out := Meter(c, SizeTable{}, table)

	// Every branch instruction in the metered stream must still point at
	// an instruction that begins a basic block (a charge or the method's
	// final instruction), never into the middle of an original block.
	code := out.Methods[0].Code
	for i, ins := range code {
		if !classfile.IsBranchTarget(ins.Op) {
			continue
		}
		target := i + ins.Target
		require.True(t, target >= 0 && target < len(code), "branch target out of range")
	}
}

func TestComputeSizesSimpleChain(t *testing.T) {
	table := DefaultCostTable()
	base := &classfile.ClassFile{Name: "org/example/Base", Super: "", Fields: []classfile.FieldInfo{{Name: "a", Descriptor: "I"}}}
	derived := &classfile.ClassFile{Name: "org/example/Derived", Super: "org/example/Base", Fields: []classfile.FieldInfo{{Name: "b", Descriptor: "I"}, {Name: "c", Descriptor: "I"}}}
	classes := map[string]*classfile.ClassFile{base.Name: base, derived.Name: derived}
	forest, err := hierarchy.Build(classes)
	require.NoError(t, err)
	sizes, err := ComputeSizes(forest, classes, table)
	require.NoError(t, err)
	assert.Greater(t, sizes["org/example/Derived"], sizes["org/example/Base"])
}

func TestComputeSizesDetectsCycle(t *testing.T) {
	table := DefaultCostTable()
	a := &classfile.ClassFile{Name: "A", Super: "B"}
	b := &classfile.ClassFile{Name: "B", Super: "A"}
	classes := map[string]*classfile.ClassFile{"A": a, "B": b}
	_, err := hierarchy.Build(classes)
	require.Error(t, err)
	_ = table
}
