// Copyright The raster6502 Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"
	"os"

	"github.com/raster6502/compiler/pkg/sema"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] file1.json file2.json ...",
	Short: "Run semantic and timing analysis without generating code.",
	Long:  "Run the module orchestrator and timing analyzer and report diagnostics, without invoking code generation or the external assembler.",
	Run:   runCheckCmd,
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheckCmd(cmd *cobra.Command, args []string) {
	configureLogging(cmd)

	if len(args) == 0 {
		fmt.Println("check requires at least one module file")
		os.Exit(4)
	}

	arch, err := parseArchitecture(GetString(cmd, "target"))
	if err != nil {
		fmt.Println(err)
		os.Exit(4)
	}

	reg, err := loadRegistry(GetString(cmd, "target-overrides"))
	if err != nil {
		fmt.Println(err)
		os.Exit(4)
	}

	cfg, ok := reg.Get(arch)
	if !ok {
		fmt.Printf("no config registered for target %s\n", arch)
		os.Exit(4)
	}

	program, err := loadProgram(args)
	if err != nil {
		fmt.Println(err)
		os.Exit(4)
	}

	result, err := sema.Run(program)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	ok = result.Ok

	for _, mr := range result.Modules {
		analyzeTiming(mr, cfg, mr.Diagnostics)

		diags := mr.Diagnostics.All()
		printDiagnostics(mr.Module.Name, diags)

		if mr.Diagnostics.HasErrors() {
			ok = false
		}
	}

	if !ok {
		os.Exit(1)
	}

	fmt.Println("ok")
}
