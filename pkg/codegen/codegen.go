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
package codegen

import (
	"fmt"

	"github.com/raster6502/compiler/pkg/asmwriter"
	"github.com/raster6502/compiler/pkg/diag"
	"github.com/raster6502/compiler/pkg/il"
	"github.com/raster6502/compiler/pkg/symbols"
	"github.com/raster6502/compiler/pkg/target"
)

// Result is everything codegen produced for one module, including the size
// statistics the pipeline reports.
type Result struct {
	Assembly    string
	SourceMap   il.SourceMap
	DebugLabels []string
	Diagnostics []*diag.Diagnostic
	Functions   int
	Globals     int
	CodeBytes   int
	DataBytes   int
	TotalBytes  int
	ZPBytesUsed int
}

// generator holds the mutable state threaded through one module's emission.
type generator struct {
	w               *asmwriter.Writer
	cfg             target.Config
	storage         *storagePlan
	sourceMap       il.SourceMap
	debugLabels     []string
	emitDebugLabels bool
	diags           diag.Bag
	blockLabels     map[string]string
}

// Generate translates one lowered IL module to assembly text. ramStart is
// where non-zero-page Default-storage globals begin (the c64c command passes
// the start of cfg's "ram" memory region, or the default code start when
// there is none);
// debugLabels enables the "al <address> .label" stream.
func Generate(mod *il.Module, table *symbols.Table, cfg target.Config, ramStart uint16, debugLabels bool) *Result {
	g := &generator{
		w:               asmwriter.NewWriter(),
		cfg:             cfg,
		storage:         planStorage(table, cfg, ramStart),
		emitDebugLabels: debugLabels,
	}

	g.w.SectionBanner(asmwriter.SectionData)
	g.emitGlobals(mod, table)

	g.w.SectionBanner(asmwriter.SectionCode)

	for _, f := range mod.Functions {
		g.emitFunction(f)
	}

	functions, codeBytes := g.w.Stats()
	dataBytes := moduleDataBytes(mod)

	return &Result{
		Assembly: g.w.String(), SourceMap: g.sourceMap, DebugLabels: g.debugLabels,
		Diagnostics: g.diags.All(), Functions: functions, Globals: len(mod.Globals),
		CodeBytes: codeBytes, DataBytes: dataBytes, TotalBytes: codeBytes + dataBytes,
		ZPBytesUsed: int(g.storage.zpUsed),
	}
}

// moduleDataBytes sums the storage width of every global that actually
// reserves bytes; memory-mapped symbols alias existing addresses and count
// nothing.
func moduleDataBytes(mod *il.Module) int {
	total := 0

	for _, global := range mod.Globals {
		if global.Symbol.IsMemoryMapped() {
			continue
		}

		total += int(symbolWidth(global.Symbol))
	}

	return total
}

// emitFunction emits one header banner, the function label, its blocks in
// reverse-postorder (block 0 unlabeled, falling through from the function
// label; every other block gets a ".block_<label>:" local label), and
// updates the running function/code-size stats.
func (g *generator) emitFunction(f *il.Function) {
	order := reversePostorder(f)
	g.blockLabels = make(map[string]string, len(order))

	funcLabel := "_" + f.Name

	for i, b := range order {
		if i == 0 {
			g.blockLabels[b.Label] = funcLabel
		} else {
			g.blockLabels[b.Label] = ".block_" + b.Label
		}
	}

	g.w.Blank()
	g.w.Comment(fmt.Sprintf("function %s(%s) -> %s", f.Name, paramList(f), f.ReturnType.Kind()))
	g.w.Label(funcLabel)

	if g.emitDebugLabels {
		g.debugLabels = append(g.debugLabels, fmt.Sprintf("al $0000 .%s", funcLabel))
	}

	bytesBefore := len(g.w.String())

	for i, b := range order {
		if i > 0 {
			g.w.LocalLabel("block_" + b.Label)
		}

		for _, ins := range b.Instructions {
			g.emitInstruction(ins)
		}
	}

	g.w.RecordFunction(len(g.w.String()) - bytesBefore)
}

func paramList(f *il.Function) string {
	s := ""

	for i, p := range f.Params {
		if i > 0 {
			s += ", "
		}

		s += p.Name + ": " + p.Reg.Type.Kind().String()
	}

	return s
}

// reversePostorder walks f's CFG from the entry block via Successors,
// returning blocks in reverse-postorder. The entry block is always first.
func reversePostorder(f *il.Function) []*il.Block {
	entry := f.EntryBlock()
	if entry == nil {
		return nil
	}

	visited := make(map[string]bool)

	var postorder []*il.Block

	var visit func(b *il.Block)
	visit = func(b *il.Block) {
		if b == nil || visited[b.Label] {
			return
		}

		visited[b.Label] = true

		for _, succLabel := range b.Successors() {
			visit(f.Block(succLabel))
		}

		postorder = append(postorder, b)
	}

	visit(entry)

	rpo := make([]*il.Block, len(postorder))
	for i, b := range postorder {
		rpo[len(postorder)-1-i] = b
	}

	return rpo
}
