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
	"encoding/hex"
	"fmt"

	"gopkg.in/urfave/cli.v1"

	"github.com/core-coin/go-avm/avmlog"
	"github.com/core-coin/go-avm/common"
	"github.com/core-coin/go-avm/executor"
	"github.com/core-coin/go-avm/objectgraph"
)

var (
	DAppFlag = cli.StringFlag{
		Name:  "dapp",
		Usage: "built-in demo DApp to call (echo, sum, counter)",
		Value: "echo",
	}
	ReceiverFlag = cli.StringFlag{
		Name:  "receiver",
		Usage: "the DApp address to call",
	}
	SenderFlag = cli.StringFlag{
		Name:  "sender",
		Usage: "the caller address",
	}
	ValueFlag = cli.StringFlag{
		Name:  "value",
		Usage: "hex value attached to the call",
	}
	InputFlag = cli.StringFlag{
		Name:  "input",
		Usage: "hex call data",
	}
	EnergyFlag = cli.Uint64Flag{
		Name:  "energy",
		Usage: "energy limit for the call",
		Value: 1_000_000,
	}
	DataDirFlag = cli.StringFlag{
		Name:  "datadir",
		Usage: "leveldb directory to persist DApp storage in (volatile memstore if unset)",
	}
)

var callCommand = cli.Command{
	Name:      "call",
	Usage:     "call a built-in demo DApp's entry point and print the transaction result",
	ArgsUsage: " ",
	Action:    callAction,
	Flags: []cli.Flag{
		DAppFlag,
		ReceiverFlag,
		SenderFlag,
		ValueFlag,
		InputFlag,
		EnergyFlag,
		DataDirFlag,
	},
}

func callAction(ctx *cli.Context) error {
	log := avmlog.New("cmd", "call")

	receiver, err := parseAddress(ctx.String(ReceiverFlag.Name))
	if err != nil {
		return err
	}
	if receiver == (common.Address{}) {
		receiver = common.BytesToAddress([]byte("avm-demo-receiver"))
	}
	sender, err := parseAddress(ctx.String(SenderFlag.Name))
	if err != nil {
		return err
	}
	value, err := parseValue(ctx.String(ValueFlag.Name))
	if err != nil {
		return err
	}
	input, err := parseHex(ctx.String(InputFlag.Name))
	if err != nil {
		return fmt.Errorf("invalid --input: %w", err)
	}

	dapp, err := buildDemoDApp(ctx.String(DAppFlag.Name), receiver)
	if err != nil {
		return err
	}

	dataDir := ctx.String(DataDirFlag.Name)
	store, err := openStore(dataDir)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}

	exec := executor.New(func(common.Address) objectgraph.Store { return store })
	exec.Register(dapp)

	log.Info("calling dapp", "address", receiver.String(), "dapp", ctx.String(DAppFlag.Name), "energyLimit", ctx.Uint64(EnergyFlag.Name))

	res := exec.Run(context.Background(), receiver, executor.RunConfig{
		Sender:      sender,
		Origin:      sender,
		Data:        input,
		Value:       value,
		EnergyLimit: ctx.Uint64(EnergyFlag.Name),
	})

	fmt.Printf("status:          %s\n", res.Status)
	fmt.Printf("energyUsed:      %d\n", res.EnergyUsed)
	fmt.Printf("returnData:      0x%s\n", hex.EncodeToString(res.ReturnData))
	if res.StorageRootHash != nil {
		fmt.Printf("storageRootHash: 0x%s\n", hex.EncodeToString(res.StorageRootHash))
	}
	if res.UncaughtException != nil {
		fmt.Printf("uncaughtException: %v\n", res.UncaughtException)
	}
	for _, l := range res.Logs {
		fmt.Printf("log: %d topics, %d data bytes\n", len(l.Topics), len(l.Data))
	}

	return nil
}
