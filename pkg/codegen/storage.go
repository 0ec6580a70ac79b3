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

// Package codegen implements instruction selection and assembly emission:
// three-tier IL-to-6502 translation, zero-page/absolute
// storage resolution, function and global emission, source-map population,
// and the debugger-label stream.
package codegen

import (
	"github.com/raster6502/compiler/pkg/symbols"
	"github.com/raster6502/compiler/pkg/target"
	"github.com/raster6502/compiler/pkg/types"
)

// location is where a symbol's storage was finally placed.
type location struct {
	zeroPage bool
	address  uint16
}

// storagePlan resolves every variable/const symbol in a module's table to a
// concrete address: a symbol already pinned to an explicit address keeps it;
// otherwise Default storage is handed zero-page space while it lasts, then
// falls back to ordinary RAM above the code region.
type storagePlan struct {
	locations map[string]location
	zpUsed    uint16
}

// planStorage assigns addresses for every non-memory-mapped symbol in
// table, using cfg's zero-page range and starting RAM address. Memory-mapped
// symbols are not included: their address comes directly from sym.Map.
func planStorage(table *symbols.Table, cfg target.Config, ramStart uint16) *storagePlan {
	plan := &storagePlan{locations: make(map[string]location)}

	zp := cfg.ZeroPageSafeLow
	ram := ramStart

	for _, sym := range table.All() {
		if sym.Kind != symbols.KindVariable && sym.Kind != symbols.KindConst {
			continue
		}

		if sym.IsMemoryMapped() {
			continue
		}

		width := symbolWidth(sym)

		if sym.Address != nil {
			zeroPage := *sym.Address <= cfg.ZeroPageSafeHigh
			plan.locations[sym.Name] = location{zeroPage: zeroPage, address: *sym.Address}

			if zeroPage {
				plan.zpUsed += width
			}

			continue
		}

		switch sym.Storage {
		case symbols.ZeroPage:
			plan.locations[sym.Name] = location{zeroPage: true, address: zp}
			zp += width
			plan.zpUsed += width
		case symbols.RAM, symbols.Data:
			plan.locations[sym.Name] = location{zeroPage: false, address: ram}
			ram += width
		default: // Default: prefer zero-page while there's room
			if zp+width-1 <= cfg.ZeroPageSafeHigh {
				plan.locations[sym.Name] = location{zeroPage: true, address: zp}
				zp += width
				plan.zpUsed += width
			} else {
				plan.locations[sym.Name] = location{zeroPage: false, address: ram}
				ram += width
			}
		}
	}

	return plan
}

func symbolWidth(sym *symbols.Symbol) uint16 {
	switch sym.Type.Kind() {
	case types.KindWord:
		return 2
	case types.KindArray:
		return symbolArrayBytes(sym)
	default:
		return 1
	}
}

// lookup returns where a symbol was placed.
func (p *storagePlan) lookup(name string) (location, bool) {
	loc, ok := p.locations[name]
	return loc, ok
}
