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

// Command c64c drives the 6502/C64 mid-end pipeline (module orchestration,
// hardware timing analysis, code generation, and optionally the external
// ACME assembler) over an already-parsed AST. The lexer, parser, and
// diagnostic pretty-printer are external collaborators; c64c consumes their
// JSON-encoded AST contract (pkg/ast.DecodeModule) and reports diagnostics
// as plain text.
package main

import (
	"fmt"
	"os"
	"runtime/debug"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version is filled when building with make, but not when installing via
// "go install".
var Version string

var rootCmd = &cobra.Command{
	Use:   "c64c",
	Short: "A 6502/C64 mid-end: semantic analysis, timing, and code generation.",
	Long:  "A 6502/C64 mid-end compiler: multi-module semantic analysis, VIC-II timing analysis, instruction selection, and code generation, with an optional external-assembler invocation.",
	Run: func(cmd *cobra.Command, args []string) {
		if GetFlag(cmd, "version") {
			fmt.Print("c64c ")

			if Version != "" {
				fmt.Printf("%s", Version)
			} else if info, ok := debug.ReadBuildInfo(); ok {
				fmt.Printf("%s", info.Main.Version)
			} else {
				fmt.Printf("(unknown version)")
			}

			fmt.Println()
		}
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Called once by main.main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:errcheck
func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")
	rootCmd.PersistentFlags().Bool("version", false, "print version and exit")
	rootCmd.PersistentFlags().String("target", "c64pal", "target architecture: c64pal, c64ntsc, c128, x16, generic")
	rootCmd.PersistentFlags().String("target-overrides", "", "YAML file layering target descriptor overrides on top of the built-ins")

	log.SetFormatter(&log.TextFormatter{FullTimestamp: false})
}

func configureLogging(cmd *cobra.Command) {
	if GetFlag(cmd, "verbose") {
		log.SetLevel(log.DebugLevel)
	}
}
