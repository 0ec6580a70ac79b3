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

// Package symbols implements the per-module symbol model:
// symbol kinds, storage classes, and the four forms of memory-mapped
// declaration. Symbols are created during semantic analysis and are
// immutable afterwards.
package symbols

import "github.com/raster6502/compiler/pkg/types"

// Kind identifies what a Symbol denotes.
type Kind uint8

const (
	// KindVariable is a mutable named storage location.
	KindVariable Kind = iota
	// KindConst is an immutable, constant-foldable named value.
	KindConst
	// KindFunction is a callable function.
	KindFunction
	// KindType is a named type (reserved for future type aliases).
	KindType
	// KindParameter is a function parameter.
	KindParameter
	// KindMemoryMap is a memory-mapped hardware register or register block.
	KindMemoryMap
)

// StorageClass identifies where a variable's storage lives.
type StorageClass uint8

const (
	// Default storage is allocated by the code generator (zero-page if
	// available, otherwise absolute RAM).
	Default StorageClass = iota
	// ZeroPage pins the variable to the zero-page region.
	ZeroPage
	// RAM pins the variable to ordinary (non zero-page) RAM.
	RAM
	// Data places the variable in the read-only data section with an
	// initializer.
	Data
	// Map indicates the symbol is a memory-mapped hardware register; it has
	// no allocated storage of its own.
	Map
)

// String renders a StorageClass using the source-language keyword.
func (s StorageClass) String() string {
	switch s {
	case ZeroPage:
		return "zeropage"
	case RAM:
		return "ram"
	case Data:
		return "data"
	case Map:
		return "map"
	default:
		return "default"
	}
}

// MemoryMapForm identifies which of the four memory-map declaration shapes a
// symbol uses.
type MemoryMapForm uint8

const (
	// FormSingle is a single address plus type: "map byte BORDER = $D020".
	FormSingle MemoryMapForm = iota
	// FormRange is an address range of a uniform element type:
	// "map byte SPRITES[8] = $D000..$D00F".
	FormRange
	// FormSequentialStruct is a sequential struct at a base address with
	// named fields laid out back-to-back.
	FormSequentialStruct
	// FormExplicitStruct is an explicit struct with a per-field offset or
	// sub-range.
	FormExplicitStruct
)

// StructField is one named field of a mapped struct, used by FormSequentialStruct
// (Offset only) and FormExplicitStruct (Offset and optional RangeLen).
type StructField struct {
	Name string
	Type types.Type
	// Offset is the field's byte offset from the struct's base address.
	Offset uint16
	// RangeLen is non-zero when this field is itself a sub-range of
	// contiguous registers (FormExplicitStruct only).
	RangeLen uint16
}

// MemoryMap describes a memory-mapped symbol's hardware address encoding.
type MemoryMap struct {
	Form MemoryMapForm
	// Address is the base (or single) address. Always valid.
	Address uint16
	// RangeLen is the number of elements, valid only for FormRange.
	RangeLen uint16
	// Fields is the field list, valid for FormSequentialStruct and
	// FormExplicitStruct.
	Fields []StructField
}

// Symbol is an entry in a module's symbol table. Once constructed during
// semantic analysis, a Symbol is never mutated.
type Symbol struct {
	Name    string
	Kind    Kind
	Type    types.Type
	Storage StorageClass
	// Address is set when Storage == Map, or when a zero-page/RAM address
	// has already been pinned explicitly by the source program.
	Address *uint16
	// Map carries the full memory-map encoding when Kind == KindMemoryMap.
	Map *MemoryMap
	// Exported indicates the symbol is visible to importing modules.
	Exported bool
	// Module is the name of the module in which this symbol was declared.
	// It is preserved across cross-module lookups.
	Module string
}

// IsMemoryMapped reports whether this symbol denotes hardware, rather than
// ordinary variable storage.
func (s *Symbol) IsMemoryMapped() bool {
	return s.Kind == KindMemoryMap || s.Storage == Map
}

// Table is a single module's flat symbol table, keyed by unqualified name.
type Table struct {
	module  string
	symbols map[string]*Symbol
	// order preserves declaration order for deterministic iteration (e.g.
	// stable export listings).
	order []string
}

// NewTable constructs an empty symbol table owned by the named module.
func NewTable(module string) *Table {
	return &Table{module: module, symbols: make(map[string]*Symbol)}
}

// Module returns the name of the module that owns this table.
func (t *Table) Module() string {
	return t.module
}

// Declare adds a new symbol to the table. Returns false if a symbol of the
// same name already exists (the caller is responsible for raising the
// appropriate diagnostic; this table does not itself report duplicates).
func (t *Table) Declare(sym *Symbol) bool {
	if _, exists := t.symbols[sym.Name]; exists {
		return false
	}

	sym.Module = t.module
	t.symbols[sym.Name] = sym
	t.order = append(t.order, sym.Name)

	return true
}

// Lookup finds a symbol by name within this module only, regardless of its
// export visibility.
func (t *Table) Lookup(name string) (*Symbol, bool) {
	sym, ok := t.symbols[name]
	return sym, ok
}

// Exports returns, in declaration order, every symbol in this table marked
// exported.
func (t *Table) Exports() []*Symbol {
	var out []*Symbol

	for _, name := range t.order {
		if sym := t.symbols[name]; sym.Exported {
			out = append(out, sym)
		}
	}

	return out
}

// All returns, in declaration order, every symbol in this table.
func (t *Table) All() []*Symbol {
	out := make([]*Symbol, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, t.symbols[name])
	}

	return out
}
