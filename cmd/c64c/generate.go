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
	"strings"

	"github.com/raster6502/compiler/pkg/asmwriter"
	"github.com/raster6502/compiler/pkg/codegen"
	"github.com/raster6502/compiler/pkg/sema"
	"github.com/raster6502/compiler/pkg/target"
)

// ramStart resolves where non-zero-page Default-storage globals begin: the
// start of the target's "ram" memory region, or the BASIC stub's default
// code start when the target declares no such region.
func ramStart(cfg target.Config) uint16 {
	for _, r := range cfg.MemoryRegions {
		if r.Name == "ram" {
			return r.Start
		}
	}

	return asmwriter.DefaultCodeStart
}

// generateModules runs code generation over every module result in
// order, returning each module's Result alongside it.
func generateModules(results []*sema.ModuleResult, cfg target.Config, debugLabels bool) []*codegen.Result {
	out := make([]*codegen.Result, len(results))

	for i, mr := range results {
		out[i] = codegen.Generate(mr.IL, mr.Table, cfg, ramStart(cfg), debugLabels)
	}

	return out
}

// assembleOutput stitches together the optional BASIC stub (or a bare
// origin directive) and every module's generated assembly text, in order.
func assembleOutput(results []*codegen.Result, basicStub bool, loadAddress uint16) string {
	w := asmwriter.NewWriter()

	if basicStub {
		w.EmitBasicStub(asmwriter.DefaultCodeStart)
	} else {
		w.EmitRawOrigin(loadAddress)
	}

	var b strings.Builder

	b.WriteString(w.String())

	for _, r := range results {
		b.WriteString(r.Assembly)
	}

	return b.String()
}

// collectDebugLabels concatenates every module's debug-label lines, in
// order.
func collectDebugLabels(results []*codegen.Result) []string {
	var labels []string

	for _, r := range results {
		labels = append(labels, r.DebugLabels...)
	}

	return labels
}
