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

package metering

import (
	"fmt"

	"github.com/core-coin/go-avm/classfile"
	"github.com/core-coin/go-avm/hierarchy"
	"github.com/core-coin/go-avm/params"
)

// SizeTable maps class name to its computed object size: the sum of
// declared instance fields plus the cached size of the parent class
// (spec section 4.3).
type SizeTable map[string]uint64

// ComputeSizes computes every class's object size using the forest to
// resolve parent sizes bottom-up. A superclass outside this DApp's class
// set (i.e. a shadowed runtime root) contributes only the fixed object
// header to its subclass's size.
func ComputeSizes(forest *hierarchy.Forest, classes map[string]*classfile.ClassFile, table CostTable) (SizeTable, error) {
	sizes := make(SizeTable, len(classes))
	var resolve func(name string, visiting map[string]bool) (uint64, error)
	resolve = func(name string, visiting map[string]bool) (uint64, error) {
		if s, ok := sizes[name]; ok {
			return s, nil
		}
		if visiting[name] {
			return 0, fmt.Errorf("metering: cyclic size dependency at %q", name)
		}
		c, ok := classes[name]
		if !ok {
			// External (already shadowed) root: header only.
			return params.ObjectHeaderEnergy, nil
		}
		visiting[name] = true
		var parentSize uint64
		if c.Super != "" {
			ps, err := resolve(c.Super, visiting)
			if err != nil {
				return 0, err
			}
			parentSize = ps
		} else {
			parentSize = params.ObjectHeaderEnergy
		}
		own := uint64(len(c.InstanceFields())) * table.FieldByteCost
		total := parentSize + own
		sizes[name] = total
		delete(visiting, name)
		return total, nil
	}
	for name := range classes {
		if _, err := resolve(name, map[string]bool{}); err != nil {
			return nil, err
		}
	}
	return sizes, nil
}
