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
	"strconv"
	"strings"

	"github.com/raster6502/compiler/pkg/assemble"
	"github.com/raster6502/compiler/pkg/codegen"
	"github.com/raster6502/compiler/pkg/sema"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build [flags] file1.json file2.json ...",
	Short: "Compile a set of module files into assembly and, optionally, a binary.",
	Long: "Compile a set of JSON-encoded module files (pkg/ast's external AST contract) through semantic " +
		"analysis, timing analysis and code generation, optionally invoking the external assembler.",
	Run: runBuildCmd,
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().String("format", "asm", "output format: asm, prg, both, crt")
	buildCmd.Flags().String("debug", "none", "debug info: none, inline, vice, both")
	buildCmd.Flags().Bool("source-map", false, "report the source map entry count")
	buildCmd.Flags().Bool("basic-stub", true, "emit the BASIC \"10 SYS\" loader stub")
	buildCmd.Flags().String("load-address", "$0801", "raw load address used when --basic-stub=false")
	buildCmd.Flags().String("assembler", "", "path to the external ACME assembler (searched on $PATH if empty)")
	buildCmd.Flags().String("out", "a.out", "output base path; .asm/.prg/.labels are appended")
}

func runBuildCmd(cmd *cobra.Command, args []string) {
	configureLogging(cmd)

	if len(args) == 0 {
		fmt.Println("build requires at least one module file")
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
		printDiagnostics(mr.Module.Name, mr.Diagnostics.All())

		if mr.Diagnostics.HasErrors() {
			ok = false
		}
	}

	if !ok {
		os.Exit(1)
	}

	debugMode := GetString(cmd, "debug")
	debugLabels := debugMode != "none"

	genResults := generateModules(result.Modules, cfg, debugLabels)

	for _, r := range genResults {
		for _, d := range r.Diagnostics {
			fmt.Println(d.Error())
		}
	}

	if GetFlag(cmd, "source-map") {
		reportSourceMapCount(genResults)
	}

	reportCodegenStats(genResults)

	format := GetString(cmd, "format")
	if format == "crt" {
		log.Warn("crt format requested: emitting assembly only, the core does not build cartridge images")
	}

	loadAddr, err := parseAddress(GetString(cmd, "load-address"))
	if err != nil {
		fmt.Println(err)
		os.Exit(4)
	}

	basicStub := GetFlag(cmd, "basic-stub")
	asmText := assembleOutput(genResults, basicStub, loadAddr)
	outBase := GetString(cmd, "out")

	if err := os.WriteFile(outBase+".asm", []byte(asmText), 0o644); err != nil {
		fmt.Println(err)
		os.Exit(4)
	}

	if debugMode == "vice" || debugMode == "both" || debugMode == "inline" {
		labels := collectDebugLabels(genResults)

		if err := os.WriteFile(outBase+".labels", []byte(strings.Join(labels, "\n")+"\n"), 0o644); err != nil {
			fmt.Println(err)
			os.Exit(4)
		}
	}

	if format == "asm" {
		return
	}

	assembleAndWrite(cmd, asmText, outBase)
}

// assembleAndWrite invokes the external assembler and writes the
// resulting binary, exiting with the assembler-specific exit codes.
func assembleAndWrite(cmd *cobra.Command, asmText, outBase string) {
	opts := assemble.Options{AssemblerPath: GetString(cmd, "assembler"), Format: assemble.FormatPRG}

	res, err := assemble.Run(asmText, opts)
	if err != nil {
		fmt.Println(err)
		os.Exit(assembleExitCode(err))
	}

	if err := os.WriteFile(outBase+".prg", res.Binary, 0o644); err != nil {
		fmt.Println(err)
		os.Exit(4)
	}
}

// reportCodegenStats logs the aggregate code/data/zero-page size statistics.
func reportCodegenStats(results []*codegen.Result) {
	var code, data, total, zp, functions, globals int

	for _, r := range results {
		code += r.CodeBytes
		data += r.DataBytes
		total += r.TotalBytes
		zp += r.ZPBytesUsed
		functions += r.Functions
		globals += r.Globals
	}

	log.Debug(fmt.Sprintf("codegen: code_size=%d data_size=%d total_size=%d zp_bytes_used=%d function_count=%d global_count=%d",
		code, data, total, zp, functions, globals))
}

// reportSourceMapCount prints the total number of source map entries
// produced across all modules.
func reportSourceMapCount(results []*codegen.Result) {
	total := 0
	for _, r := range results {
		total += r.SourceMap.Len()
	}

	fmt.Printf("source map: %d entries\n", total)
}

func parseAddress(s string) (uint16, error) {
	s = strings.TrimSpace(s)

	switch {
	case strings.HasPrefix(s, "$"):
		v, err := strconv.ParseUint(s[1:], 16, 16)
		return uint16(v), err
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		v, err := strconv.ParseUint(s[2:], 16, 16)
		return uint16(v), err
	default:
		v, err := strconv.ParseUint(s, 10, 16)
		return uint16(v), err
	}
}
