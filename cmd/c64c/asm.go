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

	"github.com/raster6502/compiler/pkg/assemble"
	"github.com/spf13/cobra"
)

var asmCmd = &cobra.Command{
	Use:   "asm [flags] file.asm",
	Short: "Assemble an existing ACME source file with the external assembler.",
	Long:  "Invoke the external 6502 assembler directly on an already-generated assembly file, bypassing semantic analysis and code generation.",
	Run:   runAsmCmd,
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(asmCmd)
	asmCmd.Flags().String("assembler", "", "path to the external ACME assembler (searched on $PATH if empty)")
	asmCmd.Flags().Bool("bin", false, "produce a headerless binary instead of a PRG")
	asmCmd.Flags().String("out", "", "output binary path (defaults to the input path with its extension replaced)")
}

func runAsmCmd(cmd *cobra.Command, args []string) {
	configureLogging(cmd)

	if len(args) != 1 {
		fmt.Println("asm takes exactly one assembly file")
		os.Exit(4)
	}

	source, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Println(err)
		os.Exit(4)
	}

	format := assemble.FormatPRG
	ext := ".prg"

	if GetFlag(cmd, "bin") {
		format = assemble.FormatBin
		ext = ".bin"
	}

	opts := assemble.Options{AssemblerPath: GetString(cmd, "assembler"), Format: format}

	res, err := assemble.Run(string(source), opts)
	if err != nil {
		fmt.Println(err)
		os.Exit(assembleExitCode(err))
	}

	out := GetString(cmd, "out")
	if out == "" {
		out = outputPathWithExt(args[0], ext)
	}

	if err := os.WriteFile(out, res.Binary, 0o644); err != nil {
		fmt.Println(err)
		os.Exit(4)
	}
}

// assembleExitCode maps an error from pkg/assemble to the CLI's
// assembler-specific exit codes.
func assembleExitCode(err error) int {
	switch err.(type) {
	case *assemble.NotFoundError:
		return 3
	default:
		return 2
	}
}

func outputPathWithExt(path, ext string) string {
	for i := len(path) - 1; i >= 0 && path[i] != '/'; i-- {
		if path[i] == '.' {
			return path[:i] + ext
		}
	}

	return path + ext
}
