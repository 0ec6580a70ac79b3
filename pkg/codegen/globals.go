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

	"github.com/raster6502/compiler/pkg/il"
	"github.com/raster6502/compiler/pkg/symbols"
	"github.com/raster6502/compiler/pkg/types"
)

// emitGlobals emits every module-level global: zero-page globals reserve
// their bytes under a labeled "* = $zp" block, RAM globals appear as labeled
// reservations or initialized !byte/!word, and mapped globals become label
// aliases to their declared hardware address with no storage reserved.
func (g *generator) emitGlobals(mod *il.Module, table *symbols.Table) {
	for _, global := range mod.Globals {
		sym := global.Symbol

		if sym.IsMemoryMapped() {
			g.emitMappedGlobal(sym)

			continue
		}

		loc, ok := g.storage.lookup(sym.Name)
		if !ok {
			continue
		}

		g.w.Origin(loc.address)
		g.w.Label(sym.Name)

		if global.Initializer != nil {
			g.emitInitializedGlobal(sym, *global.Initializer)
		} else {
			g.emitUninitializedGlobal(sym)
		}

		if g.emitDebugLabels {
			g.debugLabels = append(g.debugLabels, fmt.Sprintf("al %s .%s", hexWord(loc.address), sym.Name))
		}
	}
}

func (g *generator) emitMappedGlobal(sym *symbols.Symbol) {
	g.w.Equate(sym.Name, sym.Map.Address, "memory-mapped, no storage reserved")

	if g.emitDebugLabels {
		g.debugLabels = append(g.debugLabels, fmt.Sprintf("al %s .%s", hexWord(sym.Map.Address), sym.Name))
	}
}

func (g *generator) emitInitializedGlobal(sym *symbols.Symbol, v il.ConstValue) {
	if sym.Type.Kind() == types.KindWord {
		g.w.Word("", v.Word())
	} else {
		g.w.Byte("", v.Byte())
	}
}

func (g *generator) emitUninitializedGlobal(sym *symbols.Symbol) {
	width := 1
	if sym.Type.Kind() == types.KindWord {
		width = 2
	}

	if sym.Type.Kind() == types.KindArray {
		width = int(symbolArrayBytes(sym))
	}

	g.w.Fill(width, 0x00, "")
}

func symbolArrayBytes(sym *symbols.Symbol) uint16 {
	elemWidth := uint16(1)
	if sym.Type.Element().Kind() == types.KindWord {
		elemWidth = 2
	}

	return uint16(sym.Type.Size()) * elemWidth
}
