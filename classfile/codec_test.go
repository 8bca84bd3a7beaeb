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

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleClass() *ClassFile {
	return &ClassFile{
		Name:       "org/example/Counter",
		Super:      "host/lang/Object",
		Interfaces: []string{"org/example/Incrementable"},
		Fields: []FieldInfo{
			{Name: "count", Descriptor: "I"},
			{Name: "total", Descriptor: "J", IsStatic: true},
		},
		Methods: []MethodInfo{
			{
				Name:       "<init>",
				Descriptor: "()V",
				Code: []Instruction{
					{Op: NEW, Owner: "host/lang/Object"},
					{Op: RETURN},
				},
				Handlers: []ExceptionHandler{
					{StartPC: 0, EndPC: 1, HandlerPC: 1, CatchType: "host/lang/Throwable"},
				},
			},
			{
				Name:       "increment",
				Descriptor: "()V",
				Code: []Instruction{
					{Op: GETFIELD, Owner: "org/example/Counter", Name: "count", Descriptor: "I"},
					{Op: PUTFIELD, Owner: "org/example/Counter", Name: "count", Descriptor: "I"},
					{Op: RETURN},
				},
			},
		},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	c := sampleClass()
	b := Encode(c)
	require.NotEmpty(t, b)

	decoded, err := Decode(b)
	require.NoError(t, err)
	assert.Equal(t, c, decoded)
}

func TestDecodeTruncated(t *testing.T) {
	c := sampleClass()
	b := Encode(c)
	_, err := Decode(b[:len(b)-1])
	require.Error(t, err)
}

func TestCloneIsIndependent(t *testing.T) {
	c := sampleClass()
	clone := c.Clone()
	clone.Methods[1].Code[0].Owner = "mutated"
	assert.Equal(t, "org/example/Counter", c.Methods[1].Code[0].Owner)
}

func TestStaticAndInstanceFields(t *testing.T) {
	c := sampleClass()
	assert.Len(t, c.StaticFields(), 1)
	assert.Len(t, c.InstanceFields(), 1)
	assert.Equal(t, "total", c.StaticFields()[0].Name)
	assert.Equal(t, "count", c.InstanceFields()[0].Name)
}

func TestMethodLookup(t *testing.T) {
	c := sampleClass()
	m := c.Method("increment", "()V")
	require.NotNil(t, m)
	assert.Nil(t, c.Method("missing", "()V"))
}
