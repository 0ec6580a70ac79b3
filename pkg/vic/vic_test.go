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
package vic

import (
	"testing"

	"github.com/raster6502/compiler/internal/assert"
	"github.com/raster6502/compiler/pkg/ast"
	"github.com/raster6502/compiler/pkg/diag"
	"github.com/raster6502/compiler/pkg/il"
	"github.com/raster6502/compiler/pkg/target"
	"github.com/raster6502/compiler/pkg/types"
)

func byteLocal(name string, value uint64) *ast.LocalDecl {
	return &ast.LocalDecl{
		Name: name, Type: ast.TypeExpr{Kind: ast.TypeByte}, Initializer: &ast.IntLiteral{Value: value},
	}
}

// Worked example: "for i in 0 to 5 { let x: byte = 42; }"
// should produce setup=9, body=7, overhead=5, per_iter=12, total=69.
func TestForLoopWorkedExample(t *testing.T) {
	loop := &ast.ForNumeric{
		Var:   "i",
		Start: &ast.IntLiteral{Value: 0},
		End:   &ast.IntLiteral{Value: 5},
		Body:  []ast.Stmt{byteLocal("x", 42)},
	}

	cost := EstimateFor(loop)

	assert.Equal(t, uint32(9), cost.Setup)
	assert.Equal(t, uint32(7), cost.Body)
	assert.Equal(t, uint32(5), cost.Overhead)
	assert.Equal(t, uint32(12), cost.PerIter)
	assert.True(t, cost.IterationsKnown)
	assert.Equal(t, uint32(5), cost.Iterations)
	assert.Equal(t, uint32(69), cost.Total)
}

// START > END must estimate zero iterations and total cycles
// equal to setup only.
func TestForLoopDescendingBoundsIsZeroIterations(t *testing.T) {
	loop := &ast.ForNumeric{
		Var: "i", Start: &ast.IntLiteral{Value: 5}, End: &ast.IntLiteral{Value: 0},
		Body: []ast.Stmt{byteLocal("x", 42)},
	}

	cost := EstimateFor(loop)

	assert.True(t, cost.IterationsKnown)
	assert.Equal(t, uint32(0), cost.Iterations)
	assert.Equal(t, cost.Setup, cost.Total)
}

// A for loop with a non-literal bound
// falls back to DefaultLoopIterations and reports IterationsKnown = false.
func TestForLoopNonLiteralBoundUsesDefaultIterations(t *testing.T) {
	loop := &ast.ForNumeric{
		Var: "i", Start: &ast.IntLiteral{Value: 0}, End: &ast.Identifier{Name: "limit"},
		Body: nil,
	}

	cost := EstimateFor(loop)

	assert.False(t, cost.IterationsKnown)
	assert.Equal(t, DefaultLoopIterations, cost.Iterations)
}

func TestWhileLoopAlwaysUsesDefaultIterations(t *testing.T) {
	loop := &ast.While{Cond: &ast.BoolLiteral{Value: true}, Body: nil}

	cost := EstimateWhile(loop)

	assert.False(t, cost.IterationsKnown)
	assert.Equal(t, DefaultLoopIterations, cost.Iterations)
}

// max_cycles(S) >= avg_cycles(S) >= min_cycles(S) must hold for every
// statement.
func TestStatementCostOrdering(t *testing.T) {
	stmts := []ast.Stmt{
		byteLocal("x", 1),
		&ast.Assign{Target: &ast.Identifier{Name: "x"}, Value: &ast.Binary{Op: ast.OpAdd, Lhs: &ast.Identifier{Name: "x"}, Rhs: &ast.IntLiteral{Value: 1}}},
		&ast.Return{Value: &ast.Identifier{Name: "x"}},
	}

	for _, s := range stmts {
		c := EstimateStatement(s)
		assert.True(t, c.Max >= c.Avg)
		assert.True(t, c.Avg >= c.Min)
	}
}

// estimateCyclesWithPenalties(S, sprites, badline=true) must equal
// estimateCyclesWithPenalties(S, sprites, badline=false) + badline_penalty.
func TestBadlinePenaltyInvariant(t *testing.T) {
	analyzer := NewAnalyzer(target.Config{CyclesPerLine: 63, BadlinePenalty: 40})
	assert.Equal(t, uint32(23), analyzer.badlineCycles())

	stmts := []ast.Stmt{
		byteLocal("x", 1),
		&ast.Assign{
			Target: &ast.Identifier{Name: "x"},
			Value:  &ast.Binary{Op: ast.OpAdd, Lhs: &ast.Identifier{Name: "x"}, Rhs: &ast.IntLiteral{Value: 1}},
		},
		&ast.ForNumeric{Var: "i", Start: &ast.IntLiteral{Value: 0}, End: &ast.IntLiteral{Value: 3}},
	}

	for _, sprites := range []uint32{0, 2, MaxSprites, MaxSprites + 5} {
		withoutBadline := analyzer.estimateCyclesWithPenalties(stmts, sprites, false)
		withBadline := analyzer.estimateCyclesWithPenalties(stmts, sprites, true)

		assert.Equal(t, withoutBadline+analyzer.cfg.BadlinePenalty, withBadline)
	}
}

// TestEstimateStatementWithPenaltiesSetsFlag exercises the
// pkg/vic/penalties.go sprite-DMA/RMW computation through a real caller: a
// compound assignment ("x = x + 1") counts as one RMW site, contributing
// RMWPenalty on top of the plain statement cost, and the estimate is
// flagged as penalty-inclusive.
func TestEstimateStatementWithPenaltiesSetsFlag(t *testing.T) {
	analyzer := NewAnalyzer(target.Config{CyclesPerLine: 63, BadlinePenalty: 40})

	stmt := &ast.Assign{
		Target: &ast.Identifier{Name: "x"},
		Value:  &ast.Binary{Op: ast.OpAdd, Lhs: &ast.Identifier{Name: "x"}, Rhs: &ast.IntLiteral{Value: 1}},
	}

	plain := analyzer.EstimateStatement(stmt)
	assert.False(t, plain.IncludesHardwarePenalties)

	withPenalties := analyzer.EstimateStatementWithPenalties(stmt, 0, 0)
	assert.True(t, withPenalties.IncludesHardwarePenalties)
	assert.Equal(t, plain.Avg+RMWPenalty, withPenalties.Avg)
}

// TestEstimateFunctionWithSpritesReducesBudget exercises the sprite-DMA
// budget reduction through the classifier: a function whose 16-cycle
// estimate fits the 23-cycle badline budget loses that safety margin once
// four sprites (8 DMA cycles) are declared active.
func TestEstimateFunctionWithSpritesReducesBudget(t *testing.T) {
	analyzer := NewAnalyzer(target.Config{CyclesPerLine: 63, BadlinePenalty: 40})

	fn := il.NewFunction("raster_irq", types.Void, false, diag.Location{})
	entry := fn.AddBlock("entry")

	for i := 0; i < 2; i++ {
		entry.Append(il.NewStoreVar("x", il.ConstOperand(il.ConstByte(1))))
	}

	entry.Append(il.NewReturnVoid())

	baseline := analyzer.EstimateFunctionWithSprites(fn, 0)
	assert.True(t, baseline.BadlineAware)

	withSprites := analyzer.EstimateFunctionWithSprites(fn, 4)
	assert.False(t, withSprites.BadlineAware)
}

// Badline warning: estimated cycles in (23, 63] produces a warning
// containing "badline"; exceeding 63 produces an additional error
// containing "exceeds raster line cycle budget".
func TestClassifyWarningsBadlineAndOverBudget(t *testing.T) {
	var badlineOnly WarningList
	classifyWarnings(&badlineOnly, 40, 63, 23)

	warnings := badlineOnly.Warnings()
	if len(warnings) != 1 {
		t.Fatalf("expected exactly one warning, got %d", len(warnings))
	}

	assert.Equal(t, SeverityWarning, warnings[0].Severity)
	assert.True(t, containsSubstring(warnings[0].Message, "badline"))

	var overBudget WarningList
	classifyWarnings(&overBudget, 80, 63, 23)

	warnings = overBudget.Warnings()
	if len(warnings) != 2 {
		t.Fatalf("expected two warnings, got %d", len(warnings))
	}

	assert.Equal(t, SeverityError, warnings[1].Severity)
	assert.True(t, containsSubstring(warnings[1].Message, "exceeds raster line cycle budget"))
}

func containsSubstring(haystack, needle string) bool {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return true
		}
	}

	return false
}

func TestAnalyzerRegisteredForC64Architectures(t *testing.T) {
	reg := target.NewRegistry()

	palCfg, _ := reg.Get(target.ArchC64PAL)
	pal, err := target.CreateHardwareAnalyzer(target.ArchC64PAL, palCfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := pal.(*Analyzer); !ok {
		t.Fatalf("expected a *vic.Analyzer for C64 PAL, got %T", pal)
	}

	ntscCfg, _ := reg.Get(target.ArchC64NTSC)
	ntsc, err := target.CreateHardwareAnalyzer(target.ArchC64NTSC, ntscCfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := ntsc.(*Analyzer); !ok {
		t.Fatalf("expected a *vic.Analyzer for C64 NTSC, got %T", ntsc)
	}
}
