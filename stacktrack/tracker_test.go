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

package stacktrack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/core-coin/go-avm/classfile"
)

func TestTrackPrependsFrameEntry(t *testing.T) {
	c := &classfile.ClassFile{
		Name: "org/example/Thing",
		Methods: []classfile.MethodInfo{
			{
				Name:       "run",
				Descriptor: "()V",
				Code:       []classfile.Instruction{{Op: classfile.RETURN}},
				Handlers:   []classfile.ExceptionHandler{{StartPC: 0, EndPC: 1, HandlerPC: 0}},
			},
		},
	}
	out := Track(c)
	m := out.Methods[0]
	require.Len(t, m.Code, 2)
	assert.Equal(t, FrameEntryOwner, m.Code[0].Owner)
	assert.Equal(t, FrameEntryName, m.Code[0].Name)
	assert.Equal(t, classfile.RETURN, m.Code[1].Op)
	assert.Equal(t, 1, m.Handlers[0].StartPC)
	assert.Equal(t, 2, m.Handlers[0].EndPC)
	assert.Equal(t, 1, m.Handlers[0].HandlerPC)
}

func TestTrackSkipsNativeMethods(t *testing.T) {
	c := &classfile.ClassFile{
		Name: "org/example/Thing",
		Methods: []classfile.MethodInfo{
			{Name: "native_op", Descriptor: "()V", IsNative: true, Code: []classfile.Instruction{{Op: classfile.RETURN}}},
		},
	}
	out := Track(c)
	assert.Len(t, out.Methods[0].Code, 1)
}

func TestTrackDoesNotMutateInput(t *testing.T) {
	c := &classfile.ClassFile{
		Name:    "org/example/Thing",
		Methods: []classfile.MethodInfo{{Name: "run", Descriptor: "()V", Code: []classfile.Instruction{{Op: classfile.RETURN}}}},
	}
	Track(c)
	assert.Len(t, c.Methods[0].Code, 1)
}
