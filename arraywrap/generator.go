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

// Package arraywrap synthesizes one shadow class per array element type
// referenced by a DApp, each exposing length/get/set/hash and a
// length-charged constructor (spec section 4.5). Real arrays have no
// user-visible class of their own in bytecode, so this pass gives every
// array shape a concrete, meterable, persistable stand-in the same way
// shadow.Mapper gives every host type a shadow counterpart.
package arraywrap

import (
	"sort"
	"strings"

	"github.com/core-coin/go-avm/classfile"
	"github.com/core-coin/go-avm/metering"
)

// WrapperPackage is the namespace synthesized array wrapper classes are
// declared into.
const WrapperPackage = "shadow/array/"

const (
	lengthMethod       = "length"
	getMethod          = "get"
	setMethod          = "set"
	hashMethod         = "hashCode"
	constructorEnergy  = "$arraywrap$"
	allocLengthArgName = "allocLength"
)

// ClassNameFor returns the synthesized wrapper class name for an array
// whose element descriptor is elementDescriptor (e.g. "I" for int[],
// "Lshadow/host/lang/Object;" for Object[]).
func ClassNameFor(elementDescriptor string) string {
	sanitized := strings.NewReplacer("/", "_", ";", "", "[", "arr_").Replace(elementDescriptor)
	return WrapperPackage + sanitized
}

// Generate synthesizes the wrapper ClassFile for one element descriptor,
// charging table's per-element rate at construction time via an injected
// charge instruction, matching how metering.Meter charges NEWARRAY sites
// in the classes that reference this wrapper.
func Generate(elementDescriptor string, table metering.CostTable) *classfile.ClassFile {
	name := ClassNameFor(elementDescriptor)
	elementCost := table.ElementCost(elementDescriptor)

	ctor := classfile.MethodInfo{
		Name:       "<init>",
		Descriptor: "(I)V",
		Code: []classfile.Instruction{
			{Op: classfile.GENERIC, Owner: constructorEnergy, Name: allocLengthArgName, IntValue: int64(elementCost)},
			{Op: classfile.RETURN},
		},
	}
	length := classfile.MethodInfo{
		Name:       lengthMethod,
		Descriptor: "()I",
		Code:       []classfile.Instruction{{Op: classfile.GETFIELD, Owner: name, Name: "length", Descriptor: "I"}, {Op: classfile.IRETURN}},
	}
	get := classfile.MethodInfo{
		Name:       getMethod,
		Descriptor: "(I)" + elementDescriptor,
		Code:       []classfile.Instruction{{Op: classfile.GETFIELD, Owner: name, Name: "elements", Descriptor: "[" + elementDescriptor}, {Op: classfile.ARETURN}},
	}
	set := classfile.MethodInfo{
		Name:       setMethod,
		Descriptor: "(I" + elementDescriptor + ")V",
		Code:       []classfile.Instruction{{Op: classfile.PUTFIELD, Owner: name, Name: "elements", Descriptor: "[" + elementDescriptor}, {Op: classfile.RETURN}},
	}
	hash := classfile.MethodInfo{
		Name:       hashMethod,
		Descriptor: "()I",
		Code:       []classfile.Instruction{{Op: classfile.GETFIELD, Owner: name, Name: "elements", Descriptor: "[" + elementDescriptor}, {Op: classfile.IRETURN}},
	}

	return &classfile.ClassFile{
		Name: name,
		Fields: []classfile.FieldInfo{
			{Name: "length", Descriptor: "I"},
			{Name: "elements", Descriptor: "[" + elementDescriptor},
		},
		Methods: []classfile.MethodInfo{ctor, length, get, set, hash},
	}
}

// GenerateAll discovers every distinct array element descriptor
// referenced anywhere in classes (via NEWARRAY/ANEWARRAY sites or array
// typed fields) and synthesizes a wrapper class for each, returned
// keyed by class name for direct merge into the DApp's class set.
func GenerateAll(classes map[string]*classfile.ClassFile, table metering.CostTable) map[string]*classfile.ClassFile {
	descriptors := map[string]bool{}
	for _, c := range classes {
		for _, f := range c.Fields {
			collectArrayDescriptors(f.Descriptor, descriptors)
		}
		for _, m := range c.Methods {
			for _, ins := range m.Code {
				if (ins.Op == classfile.NEWARRAY || ins.Op == classfile.ANEWARRAY) && ins.Descriptor != "" {
					// Array-creating sites carry the element descriptor itself.
					descriptors[ins.Descriptor] = true
				}
			}
		}
	}
	names := make([]string, 0, len(descriptors))
	for d := range descriptors {
		names = append(names, d)
	}
	sort.Strings(names)

	out := make(map[string]*classfile.ClassFile, len(names))
	for _, d := range names {
		w := Generate(d, table)
		out[w.Name] = w
	}
	return out
}

func collectArrayDescriptors(d string, into map[string]bool) {
	if !strings.HasPrefix(d, "[") {
		return
	}
	into[strings.TrimPrefix(d, "[")] = true
}
