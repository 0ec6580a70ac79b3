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
	"strings"

	"github.com/raster6502/compiler/internal/termio"
	"github.com/raster6502/compiler/pkg/ast"
	"github.com/raster6502/compiler/pkg/diag"
	"github.com/raster6502/compiler/pkg/target"
	log "github.com/sirupsen/logrus"
)

// architectureByName maps the --target flag's accepted spellings to their
// target.Architecture value.
var architectureByName = map[string]target.Architecture{
	"c64pal":  target.ArchC64PAL,
	"c64ntsc": target.ArchC64NTSC,
	"c128":    target.ArchC128,
	"x16":     target.ArchX16,
	"generic": target.ArchGeneric,
}

// UnknownArchitectureError reports a --target value this repo doesn't
// recognize.
type UnknownArchitectureError struct {
	Name string
}

// Error implements the error interface.
func (e *UnknownArchitectureError) Error() string {
	return fmt.Sprintf("unknown target %q (want one of c64pal, c64ntsc, c128, x16, generic)", e.Name)
}

func parseArchitecture(name string) (target.Architecture, error) {
	a, ok := architectureByName[name]
	if !ok {
		return 0, &UnknownArchitectureError{Name: name}
	}

	return a, nil
}

// loadRegistry builds the target config registry, layering a YAML override
// file on top of the built-ins when one was given.
func loadRegistry(overridePath string) (*target.Registry, error) {
	reg := target.NewRegistry()

	if overridePath == "" {
		return reg, nil
	}

	if err := reg.LoadOverrides(overridePath); err != nil {
		return nil, err
	}

	return reg, nil
}

// loadProgram reads each named source file as one JSON-encoded module
// document (pkg/ast's external AST contract) and assembles them into a
// single Program, in the order given.
func loadProgram(filenames []string) (*ast.Program, error) {
	prog := &ast.Program{}

	for _, name := range filenames {
		log.Debug(fmt.Sprintf("reading source file %s", name))

		data, err := os.ReadFile(name)
		if err != nil {
			return nil, err
		}

		mod, err := ast.DecodeModule(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}

		if mod.Filename == "" {
			mod.Filename = name
		}

		prog.Modules = append(prog.Modules, mod)
	}

	return prog, nil
}

// printDiagnostics renders a module's diagnostics one per line, word-wrapped
// to the terminal width when one is known.
func printDiagnostics(moduleName string, diags []*diag.Diagnostic) {
	width := int(termio.Width())

	for _, d := range diags {
		line := d.Error()
		if moduleName != "" {
			line = fmt.Sprintf("%s: %s", moduleName, line)
		}

		for _, wrapped := range wrapLine(line, width) {
			fmt.Println(wrapped)
		}
	}
}

// wrapLine breaks s into width-limited lines on word boundaries. A single
// word longer than width is left unbroken rather than split mid-word.
func wrapLine(s string, width int) []string {
	if width <= 0 || len(s) <= width {
		return []string{s}
	}

	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{s}
	}

	var lines []string

	current := words[0]

	for _, w := range words[1:] {
		if len(current)+1+len(w) > width {
			lines = append(lines, current)
			current = w

			continue
		}

		current += " " + w
	}

	return append(lines, current)
}
