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
package ilbuild

import (
	"testing"

	"github.com/raster6502/compiler/internal/assert"
	"github.com/raster6502/compiler/pkg/ast"
	"github.com/raster6502/compiler/pkg/diag"
	"github.com/raster6502/compiler/pkg/il"
	"github.com/raster6502/compiler/pkg/symbols"
	"github.com/raster6502/compiler/pkg/types"
)

// tableGlobals is a GlobalResolver backed by a single module's table, the
// way pkg/sema's global table resolves a module's own symbols.
type tableGlobals struct{ table *symbols.Table }

func (g tableGlobals) Lookup(name, requestingModule string) (*symbols.Symbol, bool) {
	return g.table.Lookup(name)
}

func byteType() ast.TypeExpr { return ast.TypeExpr{Kind: ast.TypeByte} }

// buildTestModule declares a single global "BORDER" (byte, initialized) and
// lowers a module containing it plus the given function declarations.
func buildTestModule(t *testing.T, fn *ast.FuncDecl) (*il.Module, *diag.Bag) {
	t.Helper()

	mod := &ast.Module{
		Name: "m",
		Declarations: []ast.Declaration{
			&ast.VarDecl{
				Name: "BORDER", Type: byteType(),
				Initializer: &ast.IntLiteral{Value: 5},
			},
			fn,
		},
	}

	table := symbols.NewTable("m")
	table.Declare(&symbols.Symbol{Name: "BORDER", Kind: symbols.KindVariable, Type: types.Byte})
	table.Declare(&symbols.Symbol{Name: fn.Name, Kind: symbols.KindFunction, Type: types.NewFunction(nil, types.Void)})

	diags := &diag.Bag{}
	ilMod := BuildModule(mod, table, tableGlobals{table: table}, diags)

	return ilMod, diags
}

func TestBuildModuleLowersInitializedGlobal(t *testing.T) {
	ilMod, _ := buildTestModule(t, &ast.FuncDecl{Name: "main", ReturnType: ast.TypeExpr{Kind: ast.TypeVoid}})

	assert.Equal(t, 1, len(ilMod.Globals))
	assert.Equal(t, "BORDER", ilMod.Globals[0].Symbol.Name)

	if ilMod.Globals[0].Initializer == nil {
		t.Fatalf("expected a constant initializer")
	}

	assert.Equal(t, uint8(5), ilMod.Globals[0].Initializer.Byte())
}

func TestBuildFunctionImplicitVoidReturn(t *testing.T) {
	fn := &ast.FuncDecl{Name: "main", ReturnType: ast.TypeExpr{Kind: ast.TypeVoid}}

	ilMod, diags := buildTestModule(t, fn)

	f := ilMod.Function("main")
	if f == nil {
		t.Fatalf("expected function \"main\" in the lowered module")
	}

	if err := il.Verify(f); err != nil {
		t.Fatalf("built function failed verification: %v", err)
	}

	assert.False(t, diags.HasErrors())

	term := f.Blocks[len(f.Blocks)-1].Terminator()
	if term == nil {
		t.Fatalf("expected an implicit terminator")
	}

	assert.Equal(t, il.OpReturnVoid, term.Op)
}

func TestBuildFunctionLocalAssignIfAndReturn(t *testing.T) {
	fn := &ast.FuncDecl{
		Name:       "main",
		ReturnType: ast.TypeExpr{Kind: ast.TypeVoid},
		Body: []ast.Stmt{
			&ast.LocalDecl{Name: "x", Type: byteType(), Initializer: &ast.IntLiteral{Value: 1}},
			&ast.If{
				Cond: &ast.Binary{Op: ast.OpEq, Lhs: &ast.Identifier{Name: "x"}, Rhs: &ast.IntLiteral{Value: 1}},
				Then: []ast.Stmt{
					&ast.Assign{Target: &ast.Identifier{Name: "x"}, Value: &ast.IntLiteral{Value: 2}},
				},
			},
			&ast.ExprStmt{Expr: &ast.Call{Callee: "poke", Args: []ast.Expr{&ast.Identifier{Name: "BORDER"}, &ast.IntLiteral{Value: 0}}}},
			&ast.Return{},
		},
	}

	ilMod, diags := buildTestModule(t, fn)

	f := ilMod.Function("main")
	if f == nil {
		t.Fatalf("expected function \"main\" in the lowered module")
	}

	if err := il.Verify(f); err != nil {
		t.Fatalf("built function failed verification: %v", err)
	}

	assert.False(t, diags.HasErrors())

	assert.True(t, len(f.Blocks) >= 3)
}

// TestBuildFunctionIfElseMergesDivergentAssignment exercises phi
// insertion directly: "x" is assigned a different literal in
// each branch of an if/else, so code after the join must read a merged
// value, not whichever branch happened to be lowered last.
func TestBuildFunctionIfElseMergesDivergentAssignment(t *testing.T) {
	fn := &ast.FuncDecl{
		Name:       "main",
		ReturnType: ast.TypeExpr{Kind: ast.TypeByte},
		Body: []ast.Stmt{
			&ast.LocalDecl{Name: "x", Type: byteType(), Initializer: &ast.IntLiteral{Value: 1}},
			&ast.If{
				Cond: &ast.Binary{Op: ast.OpEq, Lhs: &ast.Identifier{Name: "x"}, Rhs: &ast.IntLiteral{Value: 1}},
				Then: []ast.Stmt{
					&ast.Assign{Target: &ast.Identifier{Name: "x"}, Value: &ast.IntLiteral{Value: 2}},
				},
				Else: []ast.Stmt{
					&ast.Assign{Target: &ast.Identifier{Name: "x"}, Value: &ast.IntLiteral{Value: 3}},
				},
			},
			&ast.Return{Value: &ast.Identifier{Name: "x"}},
		},
	}

	ilMod, diags := buildTestModule(t, fn)

	f := ilMod.Function("main")
	if f == nil {
		t.Fatalf("expected function \"main\" in the lowered module")
	}

	if err := il.Verify(f); err != nil {
		t.Fatalf("built function failed verification: %v", err)
	}

	assert.False(t, diags.HasErrors())

	var join *il.Block

	for _, b := range f.Blocks {
		if len(b.Merges) > 0 {
			join = b
		}
	}

	if join == nil {
		t.Fatalf("expected a merge block for the divergently-assigned local")
	}

	assert.Equal(t, 1, len(join.Merges))
	assert.Equal(t, 2, len(join.Merges[0].Incoming))
	assert.Equal(t, 2, len(join.Merges[0].Predecessors))

	ret := f.Blocks[len(f.Blocks)-1].Terminator()
	if ret == nil || ret.Op != il.OpReturn {
		t.Fatalf("expected the final block to return")
	}

	assert.Equal(t, join.Merges[0].Result.ID, ret.Value.Register().ID)
}

// An array-element assignment lowers to STORE_ARRAY carrying both the index
// and the value, so downstream consumers see the index as a real operand.
func TestBuildFunctionArrayElementAssignment(t *testing.T) {
	fn := &ast.FuncDecl{
		Name:       "fill",
		ReturnType: ast.TypeExpr{Kind: ast.TypeVoid},
		Body: []ast.Stmt{
			&ast.Assign{
				Target: &ast.Index{Array: &ast.Identifier{Name: "table"}, Index: &ast.IntLiteral{Value: 2}},
				Value:  &ast.IntLiteral{Value: 7},
			},
			&ast.Return{},
		},
	}

	elem := ast.TypeExpr{Kind: ast.TypeByte}
	mod := &ast.Module{
		Name: "m",
		Declarations: []ast.Declaration{
			&ast.VarDecl{Name: "table", Type: ast.TypeExpr{Kind: ast.TypeArray, Element: &elem, HasSize: true, Size: 8}},
			fn,
		},
	}

	table := symbols.NewTable("m")
	table.Declare(&symbols.Symbol{Name: "table", Kind: symbols.KindVariable, Type: types.NewArray(types.Byte, 8)})
	table.Declare(&symbols.Symbol{Name: "fill", Kind: symbols.KindFunction, Type: types.NewFunction(nil, types.Void)})

	diags := &diag.Bag{}
	ilMod := BuildModule(mod, table, tableGlobals{table: table}, diags)

	assert.False(t, diags.HasErrors())

	f := ilMod.Function("fill")
	if err := il.Verify(f); err != nil {
		t.Fatalf("built function failed verification: %v", err)
	}

	var store *il.Instruction

	for _, ins := range f.EntryBlock().Instructions {
		if ins.Op == il.OpStoreArray {
			store = ins
		}
	}

	if store == nil {
		t.Fatalf("expected a STORE_ARRAY instruction")
	}

	assert.Equal(t, "table", store.VarName)
	assert.True(t, store.Index.IsConst())
	assert.Equal(t, uint8(2), store.Index.Const().Byte())
	assert.Equal(t, uint8(7), store.Value.Const().Byte())
}
