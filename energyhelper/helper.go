// Copyright 2020 by the Authors
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

// Package energyhelper implements the per-task "helper" of spec section 9:
// remaining energy, the next-instance-id and next-hashcode counters, and
// the stack-depth accounting, bundled into one handle that is threaded
// explicitly through every metered call site instead of living in a
// goroutine-local. This mirrors core/vm's EnergyPool / Contract.UseEnergy
// pattern, generalized to also own id and frame-depth state so the
// executor can hand one value to the codec, the runtime bridge and the
// interpreter alike.
package energyhelper

import (
	"errors"

	"github.com/core-coin/go-avm/params"
)

// ErrOutOfEnergy is raised when a metered site would drive remaining
// energy negative.
var ErrOutOfEnergy = errors.New("out of energy")

// ErrStackOverflow is raised by EnterFrame when the configured depth
// ceiling would be exceeded.
var ErrStackOverflow = errors.New("stack overflow")

// Helper is the per-task meter described by spec section 9 / the
// glossary. It is not safe for concurrent use; one Helper belongs to
// exactly one task for the duration of one top-level transaction,
// including every nested reentrant call within it (section 4.4: "Recursive
// entry from reentrant calls shares the same counter").
type Helper struct {
	remainingEnergy uint64
	energyLimit     uint64

	nextInstanceID uint64
	nextHashCode   int32

	frameDepth   int
	frameCeiling int
}

// New creates a Helper seeded with remainingEnergy = energyLimit -
// alreadyUsed, matching executor step 3.
func New(energyLimit, alreadyUsed, nextInstanceID uint64, nextHashCode int32) *Helper {
	remaining := uint64(0)
	if energyLimit > alreadyUsed {
		remaining = energyLimit - alreadyUsed
	}
	return &Helper{
		remainingEnergy: remaining,
		energyLimit:     energyLimit,
		nextInstanceID:  nextInstanceID,
		nextHashCode:    nextHashCode,
		frameCeiling:    int(params.StackDepthLimit),
	}
}

// Charge debits amount from the remaining energy. Every field read/write,
// every stub instantiation, every byte of payload (section 4.6) and every
// opcode/allocation charge (section 4.3) funnels through this one method.
func (h *Helper) Charge(amount uint64) error {
	if h.remainingEnergy < amount {
		h.remainingEnergy = 0
		return ErrOutOfEnergy
	}
	h.remainingEnergy -= amount
	return nil
}

// RemainingEnergy returns the energy left in the budget.
func (h *Helper) RemainingEnergy() uint64 { return h.remainingEnergy }

// EnergyUsed returns energyLimit - remainingEnergy, the value the
// executor reports as energyUsed on success.
func (h *Helper) EnergyUsed() uint64 {
	if h.energyLimit < h.remainingEnergy {
		return 0
	}
	return h.energyLimit - h.remainingEnergy
}

// NextInstanceID hands out the next monotonic instance id; ids are never
// recycled within a transaction (section 4.6).
func (h *Helper) NextInstanceID() uint64 {
	id := h.nextInstanceID
	h.nextInstanceID++
	return id
}

// PeekNextInstanceID reports the counter value without advancing it, used
// when persisting the environment record.
func (h *Helper) PeekNextInstanceID() uint64 { return h.nextInstanceID }

// NextHashCode hands out the next identity hash code value.
func (h *Helper) NextHashCode() int32 {
	hc := h.nextHashCode
	h.nextHashCode++
	return hc
}

// PeekNextHashCode reports the counter value without advancing it.
func (h *Helper) PeekNextHashCode() int32 { return h.nextHashCode }

// EnterFrame increments the stack-depth counter maintained for
// stacktrack's injected method-entry charge (section 4.4), failing once
// the configured ceiling is exceeded. Reentrant nested calls into the
// same DApp share this counter rather than resetting it, so a deeply
// recursive callee cannot dodge the ceiling by hiding behind a fresh
// call boundary.
func (h *Helper) EnterFrame() error {
	if h.frameDepth >= h.frameCeiling {
		return ErrStackOverflow
	}
	h.frameDepth++
	return nil
}

// ExitFrame pops one frame off the depth counter; it is always safe to
// call on every return path, mirroring the interpreter's depth-- defer.
func (h *Helper) ExitFrame() {
	if h.frameDepth > 0 {
		h.frameDepth--
	}
}

// FrameDepth reports the current stack depth, for tests.
func (h *Helper) FrameDepth() int { return h.frameDepth }
