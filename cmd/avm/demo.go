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

package main

import (
	"context"
	"fmt"

	"github.com/core-coin/go-avm/common"
	"github.com/core-coin/go-avm/energyhelper"
	"github.com/core-coin/go-avm/executor"
	"github.com/core-coin/go-avm/objectgraph"
	"github.com/core-coin/go-avm/runtimebridge"
	"github.com/core-coin/go-avm/wireformat"
)

// Demo DApps stand in for bytecode an interpreter would otherwise run
// (executor's own EntryPoint design, SPEC_FULL.md section 4.9): this CLI
// has no bytecode interpreter to execute a deployed artifact's methods
// against, so --dapp selects one of a small fixed set of entry points
// built directly in Go, the same way cmd/cvm's own "run" command can
// execute raw code with no genesis/consensus context at all.

type emptyStatics struct{ objectgraph.Header }

func (e *emptyStatics) PersistentHeader() *objectgraph.Header { return &e.Header }

func emptyTypes() objectgraph.TypeRegistry {
	return objectgraph.TypeRegistry{
		"github.com/core-coin/go-avm/cmd/avm.emptyStatics": func() objectgraph.Persistable { return &emptyStatics{} },
	}
}

type counterStatics struct {
	objectgraph.Header
	Value int64
}

func (c *counterStatics) PersistentHeader() *objectgraph.Header { return &c.Header }

func counterTypes() objectgraph.TypeRegistry {
	return objectgraph.TypeRegistry{
		"github.com/core-coin/go-avm/cmd/avm.counterStatics": func() objectgraph.Persistable { return &counterStatics{} },
	}
}

func echoEntryPoint(ctx context.Context, bridge runtimebridge.Bridge, helper *energyhelper.Helper, data []byte) ([]byte, error) {
	if err := helper.Charge(10); err != nil {
		return nil, err
	}
	return data, nil
}

func sumEntryPoint(ctx context.Context, bridge runtimebridge.Bridge, helper *energyhelper.Helper, data []byte) ([]byte, error) {
	r := wireformat.NewReader(data)
	a, err := r.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("sum: reading first operand: %w", err)
	}
	b, err := r.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("sum: reading second operand: %w", err)
	}
	if err := helper.Charge(25); err != nil {
		return nil, err
	}
	w := wireformat.NewWriter()
	w.WriteUint32(a + b)
	return w.Bytes(), nil
}

func counterEntryPoint(ctx context.Context, bridge runtimebridge.Bridge, helper *energyhelper.Helper, data []byte) ([]byte, error) {
	if err := helper.Charge(50); err != nil {
		return nil, err
	}
	return nil, nil
}

// buildDemoDApp constructs the named built-in DApp at address, or
// reports an error for an unrecognized name.
func buildDemoDApp(name string, address common.Address) (*executor.DApp, error) {
	switch name {
	case "echo":
		return &executor.DApp{
			Address:    address,
			Types:      emptyTypes(),
			NewRoot:    func() objectgraph.Persistable { return &emptyStatics{} },
			EntryPoint: echoEntryPoint,
		}, nil
	case "sum":
		return &executor.DApp{
			Address:    address,
			Types:      emptyTypes(),
			NewRoot:    func() objectgraph.Persistable { return &emptyStatics{} },
			EntryPoint: sumEntryPoint,
		}, nil
	case "counter":
		return &executor.DApp{
			Address:    address,
			Types:      counterTypes(),
			NewRoot:    func() objectgraph.Persistable { return &counterStatics{} },
			EntryPoint: counterEntryPoint,
		}, nil
	default:
		return nil, fmt.Errorf("unknown --dapp %q (want echo, sum or counter)", name)
	}
}
