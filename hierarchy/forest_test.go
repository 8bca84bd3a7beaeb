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

package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/core-coin/go-avm/classfile"
)

func TestBuildAndAncestors(t *testing.T) {
	classes := map[string]*classfile.ClassFile{
		"A": {Name: "A"},
		"B": {Name: "B", Super: "A"},
		"C": {Name: "C", Super: "B"},
	}
	f, err := Build(classes)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, f.Ancestors("C"))
	assert.True(t, f.IsSubclassOf("C", "A"))
	assert.False(t, f.IsSubclassOf("A", "C"))
}

func TestBuildRejectsKeyNameMismatch(t *testing.T) {
	classes := map[string]*classfile.ClassFile{
		"Wrong": {Name: "Actual"},
	}
	_, err := Build(classes)
	require.Error(t, err)
}

func TestBuildDetectsCycle(t *testing.T) {
	classes := map[string]*classfile.ClassFile{
		"A": {Name: "A", Super: "B"},
		"B": {Name: "B", Super: "A"},
	}
	_, err := Build(classes)
	require.Error(t, err)
}

func TestNodeLookup(t *testing.T) {
	classes := map[string]*classfile.ClassFile{"A": {Name: "A", Interfaces: []string{"I"}}}
	f, err := Build(classes)
	require.NoError(t, err)
	n, ok := f.Node("A")
	require.True(t, ok)
	assert.Equal(t, []string{"I"}, n.Interfaces)
	_, ok = f.Node("Missing")
	assert.False(t, ok)
}
