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
	"strings"
	"testing"

	"github.com/raster6502/compiler/internal/assert"
	"github.com/raster6502/compiler/pkg/ast"
	"github.com/raster6502/compiler/pkg/diag"
	"github.com/raster6502/compiler/pkg/sema"
)

// Full-pipeline scenario: "function main(): void { poke($D020, 1); }". The
// constant-address rewrite turns the POKE into a HARDWARE_WRITE, which
// codegen translates as an immediate load followed by an absolute store,
// with a source-map entry pointing back at the poke call's source line.
func TestHardwareWriteScenarioEndToEnd(t *testing.T) {
	pokeLoc := diag.Location{File: "main.r6", Line: 2, Column: 3}

	mod := &ast.Module{Name: "main", Filename: "main.r6", Declarations: []ast.Declaration{
		&ast.FuncDecl{Name: "main", ReturnType: ast.TypeExpr{Kind: ast.TypeVoid}, Body: []ast.Stmt{
			&ast.ExprStmt{Expr: &ast.Call{
				Callee: "poke",
				Args:   []ast.Expr{&ast.IntLiteral{Value: 0xD020, IsHex: true}, &ast.IntLiteral{Value: 1}},
				Loc:    pokeLoc,
			}, Loc: pokeLoc},
		}},
	}}

	result, err := sema.RunSingle(mod)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assert.True(t, result.Ok, "diagnostics: %v", result.Modules[0].Diagnostics.All())

	mr := result.Modules[0]
	gen := Generate(mr.IL, mr.Table, testConfig(), 0x0900, false)

	assert.True(t, strings.Contains(gen.Assembly, "LDA #$01"), "assembly was:\n%s", gen.Assembly)
	assert.True(t, strings.Contains(gen.Assembly, "STA $D020"), "assembly was:\n%s", gen.Assembly)
	assert.True(t, strings.Contains(gen.Assembly, "RTS"))

	var found bool

	for _, e := range gen.SourceMap.Entries() {
		if e.Note == "HARDWARE_WRITE" && e.SourceFile == "main.r6" && e.SourceLine == 2 {
			found = true
		}
	}

	assert.True(t, found, "expected a source-map entry for the poke's HARDWARE_WRITE")
}
