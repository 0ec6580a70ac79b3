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
package il

import "github.com/raster6502/compiler/pkg/symbols"

// Global is a module-level variable or constant lowered to storage: its
// symbol, and an optional constant initializer.
type Global struct {
	Symbol      *symbols.Symbol
	Initializer *ConstValue
}

// Module is one source module lowered to IL: its globals and functions.
// Cross-module calls and memory-map accesses keep their source names here;
// codegen emits them as assembly labels, not rewritten addresses.
type Module struct {
	Name      string
	Filename  string
	Globals   []*Global
	Functions []*Function
}

// NewModule constructs an empty IL module.
func NewModule(name, filename string) *Module {
	return &Module{Name: name, Filename: filename}
}

// AddGlobal appends a new global to the module.
func (m *Module) AddGlobal(g *Global) {
	m.Globals = append(m.Globals, g)
}

// AddFunction appends a new function to the module.
func (m *Module) AddFunction(f *Function) {
	m.Functions = append(m.Functions, f)
}

// Function returns the function with the given name, or nil if none
// exists.
func (m *Module) Function(name string) *Function {
	for _, f := range m.Functions {
		if f.Name == name {
			return f
		}
	}

	return nil
}
