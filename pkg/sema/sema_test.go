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
	"regexp"
	"strings"
	"testing"

	"github.com/raster6502/compiler/internal/assert"
	"github.com/raster6502/compiler/pkg/ast"
)

func TestBuildGraphReportsMissingImport(t *testing.T) {
	_, err := BuildGraph(map[string][]string{"main": {"missing"}})
	if err == nil {
		t.Fatalf("expected a missing-import error")
	}

	assert.Equal(t, `Module "missing" not found`, err.Error())
}

func TestDetectCycleReportsCyclePath(t *testing.T) {
	g, err := BuildGraph(map[string][]string{"a": {"b"}, "b": {"a"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cyc := g.DetectCycle()
	if cyc == nil {
		t.Fatalf("expected a cycle to be detected")
	}

	matched, err := regexp.MatchString(`Circular import detected: a.*b.*a`, cyc.Error())
	if err != nil {
		t.Fatal(err)
	}

	assert.True(t, matched, "cycle message was %q", cyc.Error())
}

func TestRunRejectsCircularImports(t *testing.T) {
	prog := &ast.Program{Modules: []*ast.Module{
		{Name: "a", Imports: []ast.Import{{Module: "b"}}},
		{Name: "b", Imports: []ast.Import{{Module: "a"}}},
	}}

	_, err := Run(prog)
	if err == nil {
		t.Fatalf("expected a circular-import error")
	}

	if _, ok := err.(*CycleError); !ok {
		t.Fatalf("expected *CycleError, got %T", err)
	}

	assert.True(t, strings.Contains(err.Error(), "Circular import detected"), "got %q", err.Error())
}

func TestTopoOrderPutsDependenciesFirst(t *testing.T) {
	g, err := BuildGraph(map[string][]string{"app": {"hardware"}, "hardware": nil})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	order := g.TopoOrder()
	assert.Equal(t, []string{"hardware", "app"}, order)
}

func TestGlobalSymbolTableLookupPrefersLocalThenExports(t *testing.T) {
	g := NewGlobalSymbolTable()

	prog := &ast.Program{Modules: []*ast.Module{
		{Name: "hardware", Declarations: []ast.Declaration{
			&ast.VarDecl{Name: "border", Type: ast.TypeExpr{Kind: ast.TypeByte}, Exported: true},
		}},
		{Name: "app", Declarations: []ast.Declaration{
			&ast.VarDecl{Name: "counter", Type: ast.TypeExpr{Kind: ast.TypeByte}},
		}},
	}}

	result, err := Run(prog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assert.True(t, result.Ok)

	g = result.Globals

	local, ok := g.Lookup("counter", "app")
	assert.True(t, ok)
	assert.Equal(t, "app", local.Module)

	cross, ok := g.Lookup("border", "app")
	assert.True(t, ok)
	assert.Equal(t, "hardware", cross.Module)

	_, ok = g.Lookup("nonexistent", "app")
	assert.False(t, ok)

	// Private symbols stay invisible outside their module.
	_, ok = g.Lookup("counter", "hardware")
	assert.False(t, ok)
}

func TestRunCrossModuleFunctionLookup(t *testing.T) {
	prog := &ast.Program{Modules: []*ast.Module{
		{Name: "a", Imports: []ast.Import{{Module: "b"}}, Declarations: []ast.Declaration{
			&ast.FuncDecl{Name: "main", ReturnType: ast.TypeExpr{Kind: ast.TypeVoid}, Body: []ast.Stmt{
				&ast.ExprStmt{Expr: &ast.Call{Callee: "helper"}},
			}},
		}},
		{Name: "b", Declarations: []ast.Declaration{
			&ast.FuncDecl{Name: "helper", ReturnType: ast.TypeExpr{Kind: ast.TypeByte}, Exported: true,
				Body: []ast.Stmt{&ast.Return{Value: &ast.IntLiteral{Value: 42}}}},
		}},
	}}

	result, err := Run(prog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assert.True(t, result.Ok)
	assert.Equal(t, 2, len(result.Modules))
	// Dependencies analyze first.
	assert.Equal(t, "b", result.Modules[0].Module.Name)

	sym, ok := result.Globals.Lookup("helper", "a")
	assert.True(t, ok)
	assert.Equal(t, "b", sym.Module)
}

func TestRunS1MinimalVoidMain(t *testing.T) {
	prog := &ast.Program{Modules: []*ast.Module{
		{Name: "main", Filename: "main.r6", Declarations: []ast.Declaration{
			&ast.FuncDecl{Name: "main", ReturnType: ast.TypeExpr{Kind: ast.TypeVoid}, Exported: true},
		}},
	}}

	result, err := Run(prog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assert.True(t, result.Ok)
	assert.Equal(t, 1, len(result.Modules))

	mod := result.Modules[0]
	assert.Equal(t, 1, len(mod.IL.Functions))

	fn := mod.IL.Functions[0]
	assert.Equal(t, 1, len(fn.Blocks))
	assert.Equal(t, "main", fn.Name)
}
