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
	"encoding/json"
	"fmt"
	"io/ioutil"

	"gopkg.in/urfave/cli.v1"

	"github.com/core-coin/go-avm/classfile"
	"github.com/core-coin/go-avm/pipeline"
)

var (
	ClassFileFlag = cli.StringFlag{
		Name:  "classfile",
		Usage: "JSON file describing the DApp's raw class set (map of class name to classfile.ClassFile)",
	}
	MainClassFlag = cli.StringFlag{
		Name:  "mainclass",
		Usage: "name of the class holding the DApp's entry points",
	}
	ArtifactOutFlag = cli.StringFlag{
		Name:  "out",
		Usage: "path to write the transformed artifact's JSON encoding",
	}
)

var deployCommand = cli.Command{
	Name:      "deploy",
	Usage:     "run a DApp's raw class set through the transform chain and write the resulting artifact",
	ArgsUsage: " ",
	Action:    deployAction,
	Flags: []cli.Flag{
		ClassFileFlag,
		MainClassFlag,
		ArtifactOutFlag,
	},
}

type classSetFile map[string]*classfile.ClassFile

func deployAction(ctx *cli.Context) error {
	classPath := ctx.String(ClassFileFlag.Name)
	if classPath == "" {
		return cli.NewExitError("deploy: --classfile is required", 1)
	}
	mainClass := ctx.String(MainClassFlag.Name)
	if mainClass == "" {
		return cli.NewExitError("deploy: --mainclass is required", 1)
	}

	raw, err := ioutil.ReadFile(classPath)
	if err != nil {
		return fmt.Errorf("deploy: reading class set: %w", err)
	}
	var classes classSetFile
	if err := json.Unmarshal(raw, &classes); err != nil {
		return fmt.Errorf("deploy: decoding class set: %w", err)
	}

	artifact, err := pipeline.Transform(classes, mainClass, pipeline.Default())
	if err != nil {
		return fmt.Errorf("deploy: transform failed: %w", err)
	}

	encoded, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return fmt.Errorf("deploy: encoding artifact: %w", err)
	}

	if out := ctx.String(ArtifactOutFlag.Name); out != "" {
		if err := ioutil.WriteFile(out, encoded, 0644); err != nil {
			return fmt.Errorf("deploy: writing artifact: %w", err)
		}
	} else {
		fmt.Println(string(encoded))
	}

	fmt.Printf("deployed %d classes, main class %q\n", len(artifact.Classes), artifact.MainClass)
	return nil
}
