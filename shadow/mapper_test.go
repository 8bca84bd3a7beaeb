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

package shadow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/core-coin/go-avm/classfile"
)

func TestRewriteSuperAndInterfaces(t *testing.T) {
	m := New()
	c := &classfile.ClassFile{
		Name:       "org/example/Thing",
		Super:      "host/lang/Object",
		Interfaces: []string{"host/lang/Comparable", "org/example/Other"},
	}
	out, err := m.Rewrite(c)
	require.NoError(t, err)
	assert.Equal(t, "shadow/host/lang/Object", out.Super)
	assert.Equal(t, "shadow/host/lang/Comparable", out.Interfaces[0])
	assert.Equal(t, "org/example/Other", out.Interfaces[1])
}

func TestRewriteInvokeRenamesHostMethodNotUserMethod(t *testing.T) {
	m := New()
	c := &classfile.ClassFile{
		Name: "org/example/Thing",
		Methods: []classfile.MethodInfo{
			{
				Name:       "run",
				Descriptor: "()V",
				Code: []classfile.Instruction{
					{Op: classfile.INVOKEVIRTUAL, Owner: "host/lang/Object", Name: "toString", Descriptor: "()Lhost/lang/String;"},
					{Op: classfile.INVOKEVIRTUAL, Owner: "org/example/Other", Name: "frobnicate", Descriptor: "()V"},
					{Op: classfile.RETURN},
				},
			},
		},
	}
	out, err := m.Rewrite(c)
	require.NoError(t, err)
	hostCall := out.Methods[0].Code[0]
	userCall := out.Methods[0].Code[1]
	assert.Equal(t, "shadow/host/lang/Object", hostCall.Owner)
	assert.Equal(t, "avm_toString", hostCall.Name)
	assert.Equal(t, "org/example/Other", userCall.Owner)
	assert.Equal(t, "frobnicate", userCall.Name)
}

func TestRewriteConstructorNamePreserved(t *testing.T) {
	m := New()
	c := &classfile.ClassFile{
		Name: "org/example/Thing",
		Methods: []classfile.MethodInfo{
			{
				Name:       "<init>",
				Descriptor: "()V",
				Code: []classfile.Instruction{
					{Op: classfile.INVOKESPECIAL, Owner: "host/lang/Object", Name: "<init>", Descriptor: "()V"},
					{Op: classfile.RETURN},
				},
			},
		},
	}
	out, err := m.Rewrite(c)
	require.NoError(t, err)
	assert.Equal(t, "<init>", out.Methods[0].Code[0].Name)
}

func TestRewriteRejectsDynamicConstant(t *testing.T) {
	m := New()
	c := &classfile.ClassFile{
		Name: "org/example/Thing",
		Methods: []classfile.MethodInfo{
			{Name: "run", Descriptor: "()V", Code: []classfile.Instruction{{Op: classfile.INVOKEDYNAMIC}}},
		},
	}
	_, err := m.Rewrite(c)
	assert.ErrorIs(t, err, ErrDynamicConstant)
}

func TestRewriteLDCStringWraps(t *testing.T) {
	m := New()
	c := &classfile.ClassFile{
		Name: "org/example/Thing",
		Methods: []classfile.MethodInfo{
			{Name: "run", Descriptor: "()V", Code: []classfile.Instruction{{Op: classfile.LDCSTRING, Name: "hello"}, {Op: classfile.RETURN}}},
		},
	}
	out, err := m.Rewrite(c)
	require.NoError(t, err)
	assert.Equal(t, m.ShadowRoot, out.Methods[0].Code[0].Owner)
	assert.Equal(t, WrapStringMethod, out.Methods[0].Code[0].Name)
}
