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

// Package pipeline orchestrates the bytecode transformation chain of
// spec section 4 end to end: validate, build the hierarchy forest,
// compute sizes, synthesize array wrappers, then run every user class
// through shadow.Mapper, excwrap.Wrap and metering.Meter and
// stacktrack.Track in that fixed order, finally encoding the result into
// an Artifact. Section 9's design note is explicit that this is a
// straight-line pipeline of passes, not a dynamically dispatched visitor
// chain, so Load has no hook for reordering or skipping a stage.
package pipeline

import (
	"fmt"

	"github.com/core-coin/go-avm/arraywrap"
	"github.com/core-coin/go-avm/classfile"
	"github.com/core-coin/go-avm/excwrap"
	"github.com/core-coin/go-avm/hierarchy"
	"github.com/core-coin/go-avm/metering"
	"github.com/core-coin/go-avm/shadow"
	"github.com/core-coin/go-avm/stacktrack"
	"github.com/core-coin/go-avm/validate"
)

// Artifact is the encoded, load-ready output of the transformation
// chain: one entry point class plus every class's transformed and
// encoded bytes (spec section 6).
type Artifact struct {
	MainClass string
	Classes   map[string][]byte
}

// Config bundles the tunables every stage of the chain needs; the zero
// value is not usable, use Default.
type Config struct {
	ValidateOptions validate.Options
	CostTable       metering.CostTable
	Mapper          *shadow.Mapper
}

// Default returns the configuration a production deployment would use.
func Default() Config {
	return Config{
		ValidateOptions: validate.Default(),
		CostTable:       metering.DefaultCostTable(),
		Mapper:          shadow.New(),
	}
}

// Transform runs the full chain over one DApp's raw class set, returning
// the deployable Artifact. classes is keyed by class name and must
// include mainClass.
func Transform(classes map[string]*classfile.ClassFile, mainClass string, cfg Config) (*Artifact, error) {
	if _, ok := classes[mainClass]; !ok {
		return nil, fmt.Errorf("pipeline: main class %q not present in class set", mainClass)
	}
	if err := validate.ValidateAll(classes, cfg.ValidateOptions); err != nil {
		return nil, err
	}
	forest, err := hierarchy.Build(classes)
	if err != nil {
		return nil, err
	}
	sizes, err := metering.ComputeSizes(forest, classes, cfg.CostTable)
	if err != nil {
		return nil, err
	}

	merged := make(map[string]*classfile.ClassFile, len(classes))
	for name, c := range classes {
		merged[name] = c
	}
	for name, w := range arraywrap.GenerateAll(classes, cfg.CostTable) {
		merged[name] = w
		sizes[name] = 0 // wrapper classes are header-only; their cost is charged at NEWARRAY sites instead.
	}

	out := &Artifact{MainClass: mainClass, Classes: make(map[string][]byte, len(merged))}
	for name, c := range merged {
		transformed, err := cfg.Mapper.Rewrite(c)
		if err != nil {
			return nil, fmt.Errorf("pipeline: class %q: %w", name, err)
		}
		transformed = excwrap.Wrap(transformed)
		transformed = metering.Meter(transformed, sizes, cfg.CostTable)
		transformed = stacktrack.Track(transformed)
		out.Classes[transformed.Name] = classfile.Encode(transformed)
	}
	return out, nil
}

// Load decodes every class of a previously transformed Artifact back
// into the IR, the inverse of Transform's final encoding step. The
// executor calls this once per DApp hydration (spec section 4.9 step 2)
// rather than re-running Transform, since an Artifact's bytes are already
// fully instrumented.
func Load(a *Artifact) (map[string]*classfile.ClassFile, error) {
	out := make(map[string]*classfile.ClassFile, len(a.Classes))
	for name, b := range a.Classes {
		c, err := classfile.Decode(b)
		if err != nil {
			return nil, fmt.Errorf("pipeline: decoding class %q: %w", name, err)
		}
		out[name] = c
	}
	return out, nil
}
