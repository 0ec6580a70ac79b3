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

import (
	"github.com/raster6502/compiler/pkg/ast"
	"github.com/raster6502/compiler/pkg/diag"
	"github.com/raster6502/compiler/pkg/il"
	"github.com/raster6502/compiler/pkg/ilbuild"
	"github.com/raster6502/compiler/pkg/symbols"
	"github.com/raster6502/compiler/pkg/types"
)

// ModuleResult carries everything one module's analysis produced: its
// local symbol table, its lowered and verified IL, and the diagnostics
// raised while building it.
type ModuleResult struct {
	Module      *ast.Module
	Table       *symbols.Table
	IL          *il.Module
	Diagnostics *diag.Bag
	// Ok is false if this module's diagnostics contain an error, or if an
	// IL-invariant violation was caught (a compiler bug, not a user error).
	Ok bool
}

// RunResult is the orchestrator's overall output: the global symbol table
// and every module's individual result, plus the AND of every module's
// success flag.
type RunResult struct {
	Globals *GlobalSymbolTable
	Modules []*ModuleResult
	Ok      bool
}

// Run executes the full multi-module pipeline: build the
// dependency graph, detect cycles, topologically order the modules, then
// run symbols -> types -> IL -> SSA verify per module in that order,
// aggregating a global symbol table as each module completes.
func Run(program *ast.Program) (*RunResult, error) {
	byName := make(map[string]*ast.Module, len(program.Modules))
	imports := make(map[string][]string, len(program.Modules))

	for _, m := range program.Modules {
		byName[m.Name] = m

		names := make([]string, len(m.Imports))
		for i, imp := range m.Imports {
			names[i] = imp.Module
		}

		imports[m.Name] = names
	}

	graph, err := BuildGraph(imports)
	if err != nil {
		return nil, err
	}

	if cyc := graph.DetectCycle(); cyc != nil {
		return nil, cyc
	}

	order := graph.TopoOrder()

	globals := NewGlobalSymbolTable()
	result := &RunResult{Globals: globals, Ok: true}

	for _, name := range order {
		mr := analyzeModule(byName[name], globals)
		result.Modules = append(result.Modules, mr)

		if !mr.Ok {
			result.Ok = false
		}
	}

	return result, nil
}

// RunSingle is the backward-compatible single-module entry point:
// analyzing one module is equivalent to running the multi-module path with
// a one-element list.
func RunSingle(mod *ast.Module) (*RunResult, error) {
	return Run(&ast.Program{Modules: []*ast.Module{mod}})
}

// analyzeModule runs the fixed per-module pipeline: symbol
// table build, type resolution (folded into symbol-table build here, since
// pkg/symbols.Symbol already carries a resolved pkg/types.Type), type
// checking, IL generation, the constant-address hardware rewrite, then SSA
// verification of every function. The module's table joins the global
// table before its function bodies are analyzed, so a function can resolve
// its own module's globals the same way it resolves imported exports.
func analyzeModule(mod *ast.Module, globals *GlobalSymbolTable) *ModuleResult {
	diags := &diag.Bag{}
	table := buildSymbolTable(mod, diags)
	globals.AddModule(table)

	typeCheckModule(mod, table, globals, diags)

	ilMod := ilbuild.BuildModule(mod, table, globals, diags)
	ilbuild.RewriteConstantHardwareAccess(ilMod)

	ok := !diags.HasErrors()

	for _, fn := range ilMod.Functions {
		if verr := il.Verify(fn); verr != nil {
			diags.Add(diag.New(diag.KindILInvariant, fn.Loc, "%s", verr))
			ok = false
		}
	}

	return &ModuleResult{Module: mod, Table: table, IL: ilMod, Diagnostics: diags, Ok: ok}
}

// buildSymbolTable declares every top-level symbol of a module, in source
// order, resolving each declaration's type expression and memory-map
// encoding as it goes.
func buildSymbolTable(mod *ast.Module, diags *diag.Bag) *symbols.Table {
	table := symbols.NewTable(mod.Name)

	for _, d := range mod.Declarations {
		var sym *symbols.Symbol

		switch decl := d.(type) {
		case *ast.VarDecl:
			sym = declareVar(decl)
		case *ast.ConstDecl:
			sym = declareConst(decl)
		case *ast.FuncDecl:
			sym = declareFunc(decl)
		case *ast.MemoryMapDecl:
			sym = declareMemoryMap(decl)
		}

		if sym == nil {
			continue
		}

		if !table.Declare(sym) {
			diags.Add(diag.New(diag.KindSemantic, d.DeclLoc(), "duplicate declaration of %q", d.DeclName()))
		}
	}

	return table
}

func resolveType(t ast.TypeExpr) types.Type {
	switch t.Kind {
	case ast.TypeByte:
		return types.Byte
	case ast.TypeWord:
		return types.Word
	case ast.TypeBool:
		return types.Bool
	case ast.TypeArray:
		elem := resolveType(*t.Element)
		return types.NewArray(elem, t.Size)
	default:
		return types.Void
	}
}

func declareVar(decl *ast.VarDecl) *symbols.Symbol {
	storage := symbols.Default

	switch decl.Storage {
	case ast.StorageZeroPage:
		storage = symbols.ZeroPage
	case ast.StorageRAM:
		storage = symbols.RAM
	case ast.StorageData:
		storage = symbols.Data
	}

	return &symbols.Symbol{
		Name: decl.Name, Kind: symbols.KindVariable, Type: resolveType(decl.Type),
		Storage: storage, Exported: decl.Exported,
	}
}

func declareConst(decl *ast.ConstDecl) *symbols.Symbol {
	return &symbols.Symbol{
		Name: decl.Name, Kind: symbols.KindConst, Type: resolveType(decl.Type), Exported: decl.Exported,
	}
}

func declareFunc(decl *ast.FuncDecl) *symbols.Symbol {
	params := make([]types.Type, len(decl.Params))
	for i, p := range decl.Params {
		params[i] = resolveType(p.Type)
	}

	return &symbols.Symbol{
		Name: decl.Name, Kind: symbols.KindFunction,
		Type: types.NewFunction(params, resolveType(decl.ReturnType)), Exported: decl.Exported,
	}
}

func declareMemoryMap(decl *ast.MemoryMapDecl) *symbols.Symbol {
	var form symbols.MemoryMapForm

	switch decl.Form {
	case ast.MapRange:
		form = symbols.FormRange
	case ast.MapSequentialStruct:
		form = symbols.FormSequentialStruct
	case ast.MapExplicitStruct:
		form = symbols.FormExplicitStruct
	default:
		form = symbols.FormSingle
	}

	addr, _ := foldWordAddress(decl.Address)

	fields := make([]symbols.StructField, len(decl.Fields))
	for i, f := range decl.Fields {
		fields[i] = symbols.StructField{Name: f.Name, Type: resolveType(f.Type), Offset: f.Offset, RangeLen: f.RangeLen}
	}

	sym := &symbols.Symbol{
		Name: decl.Name, Kind: symbols.KindMemoryMap, Storage: symbols.Map, Exported: decl.Exported,
		Address: &addr,
		Map:     &symbols.MemoryMap{Form: form, Address: addr, RangeLen: decl.RangeLen, Fields: fields},
	}

	if decl.Form == ast.MapRange {
		sym.Type = types.NewArray(resolveType(decl.ElementType), uint32(decl.RangeLen))
	} else if decl.Form == ast.MapSingle {
		sym.Type = resolveType(decl.ElementType)
	}

	return sym
}

// foldWordAddress constant-folds a memory-map base-address expression. Only
// integer literals are supported here; a fuller constant folder belongs to
// the (out-of-scope) front end, but "address must be a numeric word
// expression" still has to be enforced here, so the minimal literal case
// is handled directly.
func foldWordAddress(e ast.Expr) (uint16, bool) {
	if lit, ok := e.(*ast.IntLiteral); ok {
		return uint16(lit.Value), true
	}

	return 0, false
}
