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

package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/core-coin/go-avm/classfile"
	"github.com/core-coin/go-avm/common"
	"github.com/core-coin/go-avm/pipeline"
)

func sampleDApp() (map[string]*classfile.ClassFile, string) {
	main := &classfile.ClassFile{
		Name:  "org/example/Main",
		Super: "host/lang/Object",
		Fields: []classfile.FieldInfo{
			{Name: "counter", Descriptor: "I"},
		},
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
	return map[string]*classfile.ClassFile{"org/example/Main": main}, "org/example/Main"
}

func TestDeployThenResolveIsServedFromCache(t *testing.T) {
	reg, err := New(4)
	require.NoError(t, err)

	addr := common.BytesToAddress([]byte{0x01})
	classes, main := sampleDApp()
	entry, err := reg.Deploy(addr, classes, main, pipeline.Default())
	require.NoError(t, err)
	require.NotNil(t, entry.Forest)
	require.Equal(t, main, entry.Artifact.MainClass)

	resolved, err := reg.Resolve(addr, entry.Artifact)
	require.NoError(t, err)
	assert.Same(t, entry.Forest, resolved.Forest)
}

func TestResolveOnMissDecodesAndBuildsForest(t *testing.T) {
	reg, err := New(4)
	require.NoError(t, err)

	addr := common.BytesToAddress([]byte{0x02})
	classes, main := sampleDApp()
	artifact, err := pipeline.Transform(classes, main, pipeline.Default())
	require.NoError(t, err)

	entry, err := reg.Resolve(addr, artifact)
	require.NoError(t, err)
	assert.NotNil(t, entry.Forest)

	cached, ok := reg.artifacts.Get(addr)
	require.True(t, ok)
	assert.Same(t, entry.Forest, cached.Forest)
}

func TestInvalidateEvictsEntry(t *testing.T) {
	reg, err := New(4)
	require.NoError(t, err)

	addr := common.BytesToAddress([]byte{0x03})
	classes, main := sampleDApp()
	_, err = reg.Deploy(addr, classes, main, pipeline.Default())
	require.NoError(t, err)

	reg.Invalidate(addr)
	_, ok := reg.artifacts.Get(addr)
	assert.False(t, ok)
}
