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
package sema

import "github.com/raster6502/compiler/pkg/symbols"

// GlobalSymbolTable aggregates every module's local symbol table into a
// single cross-module lookup structure, keyed by
// (module, name).
type GlobalSymbolTable struct {
	modules map[string]*symbols.Table
	order   []string
}

// NewGlobalSymbolTable constructs an empty global table.
func NewGlobalSymbolTable() *GlobalSymbolTable {
	return &GlobalSymbolTable{modules: make(map[string]*symbols.Table)}
}

// AddModule registers a completed module's local symbol table. Once the
// orchestrator returns, the global table is not mutated further.
func (g *GlobalSymbolTable) AddModule(t *symbols.Table) {
	name := t.Module()
	if _, exists := g.modules[name]; !exists {
		g.order = append(g.order, name)
	}

	g.modules[name] = t
}

// Lookup resolves name as seen from requestingModule: first within that
// module (any visibility), then across every other module restricted to
// exported symbols. A symbol resolved cross-module retains its defining
// module name (symbols.Symbol.Module is set at Declare time).
func (g *GlobalSymbolTable) Lookup(name, requestingModule string) (*symbols.Symbol, bool) {
	if local, ok := g.modules[requestingModule]; ok {
		if sym, ok := local.Lookup(name); ok {
			return sym, true
		}
	}

	for _, modName := range g.order {
		if modName == requestingModule {
			continue
		}

		for _, sym := range g.modules[modName].Exports() {
			if sym.Name == name {
				return sym, true
			}
		}
	}

	return nil, false
}

// GetExportedSymbols returns only the named module's exported symbols, in
// declaration order.
func (g *GlobalSymbolTable) GetExportedSymbols(module string) []*symbols.Symbol {
	t, ok := g.modules[module]
	if !ok {
		return nil
	}

	return t.Exports()
}

// Module returns the local symbol table for the named module, or nil.
func (g *GlobalSymbolTable) Module(name string) *symbols.Table {
	return g.modules[name]
}
