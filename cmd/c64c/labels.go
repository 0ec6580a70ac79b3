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

var labelsCmd = &cobra.Command{
	Use:   "labels [flags] file.asm",
	Short: "Assemble a file and write only the emulator-monitor label file.",
	Long:  "Invoke the external assembler requesting its label-file output, and write that alongside the input; the binary itself is discarded.",
	Run:   runLabelsCmd,
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(labelsCmd)
	labelsCmd.Flags().String("assembler", "", "path to the external ACME assembler (searched on $PATH if empty)")
	labelsCmd.Flags().String("out", "", "output label-file path (defaults to the input path with its extension replaced by .lbl)")
}

func runLabelsCmd(cmd *cobra.Command, args []string) {
	configureLogging(cmd)

	if len(args) != 1 {
		fmt.Println("labels takes exactly one assembly file")
		os.Exit(4)
	}

	source, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Println(err)
		os.Exit(4)
	}

	opts := assemble.Options{AssemblerPath: GetString(cmd, "assembler"), Format: assemble.FormatPRG, LabelFile: true}

	res, err := assemble.Run(string(source), opts)
	if err != nil {
		fmt.Println(err)
		os.Exit(assembleExitCode(err))
	}

	out := GetString(cmd, "out")
	if out == "" {
		out = outputPathWithExt(args[0], ".lbl")
	}

	if err := os.WriteFile(out, res.Labels, 0o644); err != nil {
		fmt.Println(err)
		os.Exit(4)
	}
}
