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

package objectgraph

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/core-coin/go-avm/energyhelper"
	"github.com/core-coin/go-avm/store/memstore"
)

// assertNodeValue checks one leaf's Value field, dumping the whole node
// (pointers/capacities suppressed for a stable diff) on mismatch rather
// than just the scalar that differs, following the same spew.ConfigState
// pattern the teacher uses for its own structural test failures.
func assertNodeValue(t *testing.T, want int64, got *node, msg string) {
	t.Helper()
	if got.Value != want {
		cfg := spew.ConfigState{DisablePointerAddresses: true, DisableCapacities: true}
		t.Errorf("%s: want value %d, got node %s", msg, want, cfg.Sdump(got))
	}
}

// node mimics a small shadow class: one primitive and one reference
// field, reachable from a diamond-shaped graph (seed scenario 3).
type node struct {
	Header
	Value int64
	Next  *node
}

func (n *node) PersistentHeader() *Header { return &n.Header }

// root is the statics container: two reference roots, left and right,
// forming R -> {A,B}; A->C; B->D; C->E; D->E.
type root struct {
	Header
	Left  *node
	Right *node
}

func (r *root) PersistentHeader() *Header { return &r.Header }

func newMemHelper() *energyhelper.Helper {
	return energyhelper.New(1<<32, 0, 2, 0)
}

func typeRegistry() TypeRegistry {
	return TypeRegistry{
		"github.com/core-coin/go-avm/objectgraph.node": func() Persistable { return &node{} },
		"github.com/core-coin/go-avm/objectgraph.root": func() Persistable { return &root{} },
	}
}

func newMemStore() *memstore.Store {
	return memstore.New()
}

func buildDiamond() *root {
	e := &node{Value: 5}
	c := &node{Value: 3, Next: e}
	d := &node{Value: 4, Next: e}
	a := &node{Value: 1, Next: c}
	b := &node{Value: 2, Next: d}
	return &root{Left: a, Right: b}
}

func TestSaveLoadDiamondPreservesIdentity(t *testing.T) {
	store := newMemStore()
	helper := newMemHelper()
	codec := NewCodec(store, typeRegistry(), helper)

	r := buildDiamond()
	require.NoError(t, codec.SaveStatics(r))

	env := EnvironmentRecord{NextInstanceID: helper.PeekNextInstanceID(), NextHashCode: helper.PeekNextHashCode()}
	WriteEnvironment(store, env)

	// Fresh task: new codec, new helper seeded from the persisted
	// environment, fresh root to load into.
	loadedEnv := ReadEnvironment(store)
	loadHelper := energyhelper.New(1<<32, 0, loadedEnv.NextInstanceID, loadedEnv.NextHashCode)
	loadCodec := NewCodec(store, typeRegistry(), loadHelper)

	fresh := &root{}
	loadCodec.LoadStatics(fresh)
	require.NoError(t, EnsureResident(fresh))

	require.NoError(t, EnsureResident(fresh.Left))
	leftNode := fresh.Left
	require.NoError(t, EnsureResident(leftNode))
	require.NoError(t, EnsureResident(leftNode.Next))
	leftMid := leftNode.Next
	require.NoError(t, EnsureResident(leftMid.Next))
	leftLeaf := leftMid.Next

	require.NoError(t, EnsureResident(fresh.Right))
	rightNode := fresh.Right
	require.NoError(t, EnsureResident(rightNode))
	require.NoError(t, EnsureResident(rightNode.Next))
	rightMid := rightNode.Next
	require.NoError(t, EnsureResident(rightMid.Next))
	rightLeaf := rightMid.Next

	assert.Same(t, leftLeaf, rightLeaf, "R.left.next.next and R.right.next.next must be the same instance, not two equal copies")
	assertNodeValue(t, 5, leftLeaf, "reloaded diamond leaf")
}

func TestStubIdempotentLoad(t *testing.T) {
	store := newMemStore()
	helper := newMemHelper()
	codec := NewCodec(store, typeRegistry(), helper)
	r := buildDiamond()
	require.NoError(t, codec.SaveStatics(r))

	fresh := &root{}
	codec.LoadStatics(fresh)
	assert.True(t, fresh.Header.IsStub())
	require.NoError(t, EnsureResident(fresh))
	assert.False(t, fresh.Header.IsStub())
	// A second EnsureResident must be a cheap no-op, not a second store read.
	require.NoError(t, EnsureResident(fresh))
}

func TestReentrantCommitPropagatesMutation(t *testing.T) {
	r := buildDiamond()
	proc := NewProcessor()
	require.NoError(t, proc.Capture(r))

	// Nested call reaches the shared leaf E through the left path
	// (left.next.next) and mutates it via its callee stub. Since the
	// same caller object must map to exactly one callee counterpart
	// however it is reached, walking in through the right path
	// (right.next.next) afterward must yield that same mutated stub.
	leftCallee := r.Left
	require.NoError(t, EnsureResident(leftCallee))
	midCallee := leftCallee.Next
	require.NoError(t, EnsureResident(midCallee))
	leafCallee := midCallee.Next
	require.NoError(t, EnsureResident(leafCallee))
	leafCallee.Value = 9

	rightCallee := r.Right
	require.NoError(t, EnsureResident(rightCallee))
	rightMidCallee := rightCallee.Next
	require.NoError(t, EnsureResident(rightMidCallee))
	require.NoError(t, EnsureResident(rightMidCallee.Next))
	assert.Same(t, leafCallee, rightMidCallee.Next, "both paths must resolve to the same callee-space leaf")

	require.NoError(t, proc.Commit(r))

	require.NoError(t, EnsureResident(r.Right))
	rightNode := r.Right
	require.NoError(t, EnsureResident(rightNode))
	require.NoError(t, EnsureResident(rightNode.Next))
	rightMid := rightNode.Next
	require.NoError(t, EnsureResident(rightMid.Next))
	assertNodeValue(t, 9, rightMid.Next, "right-path leaf after commit")
}

func TestReentrantRevertRestoresCallerGraph(t *testing.T) {
	r := buildDiamond()
	originalLeft := r.Left
	originalRight := r.Right
	proc := NewProcessor()
	require.NoError(t, proc.Capture(r))

	leftCallee := r.Left
	require.NoError(t, EnsureResident(leftCallee))
	midCallee := leftCallee.Next
	require.NoError(t, EnsureResident(midCallee))
	leafCallee := midCallee.Next
	require.NoError(t, EnsureResident(leafCallee))
	leafCallee.Value = 999

	require.NoError(t, proc.Revert(r))

	assert.Same(t, originalLeft, r.Left)
	assert.Same(t, originalRight, r.Right)
	assertNodeValue(t, 5, r.Left.Next.Next, "left-path leaf after revert")
}

func TestLoopbackStructuralMismatchIsFatal(t *testing.T) {
	lb := NewLoopback()
	n := &node{Value: 1}
	require.NoError(t, Fill(lb, n))
	// Draining into a type with more fields than were filled must fail
	// once the queue runs dry.
	r := &root{}
	err := Drain(lb, r, func(p Persistable) (Persistable, error) { return p, nil })
	require.Error(t, err)
}
