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

package callstack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/core-coin/go-avm/common"
	"github.com/core-coin/go-avm/energyhelper"
	"github.com/core-coin/go-avm/objectgraph"
)

type dummyRoot struct {
	objectgraph.Header
}

func newFrame(addr byte) *Frame {
	root := &dummyRoot{}
	helper := energyhelper.New(1000, 0, 2, 0)
	return NewFrame(common.BytesToAddress([]byte{addr}), nil, root, helper)
}

func TestFrameStateMachineHappyPath(t *testing.T) {
	f := newFrame(0x01)
	assert.Equal(t, Created, f.State())

	require.NoError(t, f.MarkHydrated())
	assert.Equal(t, Hydrated, f.State())

	require.NoError(t, f.MarkRunning())
	assert.Equal(t, Running, f.State())

	require.NoError(t, f.MarkCommitted())
	assert.Equal(t, Committed, f.State())
}

func TestFrameStateMachineRevertPath(t *testing.T) {
	f := newFrame(0x01)
	require.NoError(t, f.MarkHydrated())
	require.NoError(t, f.MarkRunning())
	require.NoError(t, f.MarkReverted())
	assert.Equal(t, Reverted, f.State())
}

func TestFrameRejectsOutOfOrderTransitions(t *testing.T) {
	f := newFrame(0x01)
	assert.ErrorIs(t, f.MarkRunning(), ErrIllegalTransition)

	require.NoError(t, f.MarkHydrated())
	require.NoError(t, f.MarkRunning())
	assert.ErrorIs(t, f.MarkHydrated(), ErrIllegalTransition)
}

func TestFrameTerminalStatesAreSticky(t *testing.T) {
	f := newFrame(0x01)
	require.NoError(t, f.MarkHydrated())
	require.NoError(t, f.MarkRunning())
	require.NoError(t, f.MarkCommitted())

	assert.ErrorIs(t, f.MarkReverted(), ErrIllegalTransition)
	assert.ErrorIs(t, f.MarkCommitted(), ErrIllegalTransition)
}

func TestStackPushPopOrder(t *testing.T) {
	s := New()
	a := newFrame(0x01)
	b := newFrame(0x02)
	require.NoError(t, s.Push(a))
	require.NoError(t, s.Push(b))
	assert.Equal(t, 2, s.Depth())
	assert.Same(t, b, s.Top())
	assert.Same(t, b, s.Pop())
	assert.Same(t, a, s.Pop())
	assert.Nil(t, s.Pop())
}

func TestStackTopOfAddressFindsMostRecentMatch(t *testing.T) {
	s := New()
	a1 := newFrame(0x01)
	b := newFrame(0x02)
	a2 := newFrame(0x01)
	require.NoError(t, s.Push(a1))
	require.NoError(t, s.Push(b))
	require.NoError(t, s.Push(a2))

	assert.Same(t, a2, s.TopOfAddress(common.BytesToAddress([]byte{0x01})))
	assert.Same(t, b, s.TopOfAddress(common.BytesToAddress([]byte{0x02})))
	assert.Nil(t, s.TopOfAddress(common.BytesToAddress([]byte{0x03})))
}

func TestStackEnforcesCallDepthLimit(t *testing.T) {
	s := New()
	for i := 0; i < 10; i++ {
		require.NoError(t, s.Push(newFrame(byte(i))))
	}
	err := s.Push(newFrame(0xFF))
	assert.ErrorIs(t, err, ErrCallDepthLimitExceeded)
}
