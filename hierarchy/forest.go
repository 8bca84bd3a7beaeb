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

// Package hierarchy builds the parent/interface graph used by metering
// (object size needs a class's full ancestor chain) and validate (spec
// section 4.5/2). It is a plain graph build over the class set, the same
// shape as core/block_validator.go's ancestor walks, just over classes
// instead of blocks.
package hierarchy

import (
	"fmt"

	"github.com/core-coin/go-avm/classfile"
)

// Node is one class's position in the forest.
type Node struct {
	Name       string
	Super      string
	Interfaces []string
}

// Forest is the parent/interface graph across every class of one DApp.
type Forest struct {
	nodes map[string]*Node
}

// Build constructs the forest from the DApp's class set. Classes whose
// declared super is not itself part of the DApp are assumed to root at
// the (external, already-shadowed) runtime root and are recorded as
// leaves with no further ancestor resolution required locally.
func Build(classes map[string]*classfile.ClassFile) (*Forest, error) {
	f := &Forest{nodes: make(map[string]*Node, len(classes))}
	for name, c := range classes {
		if name != c.Name {
			return nil, fmt.Errorf("hierarchy: class map key %q does not match declared name %q", name, c.Name)
		}
		f.nodes[name] = &Node{Name: c.Name, Super: c.Super, Interfaces: c.Interfaces}
	}
	// Detect cycles in the superclass chain: a class file format has no
	// legitimate way to express one, so a cycle here means a malformed
	// or adversarial artifact.
	for name := range f.nodes {
		seen := map[string]bool{}
		cur := name
		for {
			if seen[cur] {
				return nil, fmt.Errorf("hierarchy: cyclic superclass chain at %q", name)
			}
			seen[cur] = true
			n, ok := f.nodes[cur]
			if !ok || n.Super == "" {
				break
			}
			cur = n.Super
		}
	}
	return f, nil
}

// Ancestors returns name's superclass chain, nearest first, stopping at
// the first ancestor not present in this DApp's class set.
func (f *Forest) Ancestors(name string) []string {
	var out []string
	cur := name
	for {
		n, ok := f.nodes[cur]
		if !ok || n.Super == "" {
			break
		}
		out = append(out, n.Super)
		cur = n.Super
	}
	return out
}

// IsSubclassOf reports whether name descends from ancestor within this
// DApp's class set.
func (f *Forest) IsSubclassOf(name, ancestor string) bool {
	for _, a := range f.Ancestors(name) {
		if a == ancestor {
			return true
		}
	}
	return false
}

// Node looks up one class's forest entry.
func (f *Forest) Node(name string) (*Node, bool) {
	n, ok := f.nodes[name]
	return n, ok
}
