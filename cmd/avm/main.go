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

// avm is the thin command-line front end of the go-avm library: deploy a
// DApp's raw class set through the real transformation chain, or call one
// of the built-in demo DApps and print the transaction result, the
// go-avm analogue of cmd/cvm's compile/run pair. A deployed class set is
// transformed but not executed by the CLI.
package main

import (
	"fmt"
	"os"

	"gopkg.in/urfave/cli.v1"

	"github.com/core-coin/go-avm/avmlog"
)

var (
	gitCommit = ""
	gitDate   = ""
)

var app = cli.NewApp()

func init() {
	app.Name = "avm"
	app.Usage = "the go-avm command line interface"
	app.Version = versionString()
	app.Flags = []cli.Flag{
		VerbosityFlag,
	}
	app.Commands = []cli.Command{
		deployCommand,
		callCommand,
	}
	app.Before = func(ctx *cli.Context) error {
		lvl := avmlog.Lvl(ctx.GlobalInt(VerbosityFlag.Name))
		avmlog.Root().SetHandler(avmlog.LvlFilterHandler(lvl, avmlog.StreamHandler(os.Stderr, avmlog.TerminalFormat(true))))
		return nil
	}
}

func versionString() string {
	if gitCommit == "" {
		return "dev"
	}
	return fmt.Sprintf("%s-%s", gitCommit, gitDate)
}

var VerbosityFlag = cli.IntFlag{
	Name:  "verbosity",
	Usage: "sets the avmlog verbosity (0=crit .. 5=trace)",
	Value: int(avmlog.LvlInfo),
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
