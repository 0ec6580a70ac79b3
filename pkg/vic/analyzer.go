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
	"github.com/raster6502/compiler/pkg/ast"
	"github.com/raster6502/compiler/pkg/il"
	"github.com/raster6502/compiler/pkg/target"
)

func init() {
	target.RegisterAnalyzerFactory(target.ArchC64PAL, func(cfg target.Config) target.HardwareAnalyzer {
		return NewAnalyzer(cfg)
	})
	target.RegisterAnalyzerFactory(target.ArchC64NTSC, func(cfg target.Config) target.HardwareAnalyzer {
		return NewAnalyzer(cfg)
	})
}

// Analyzer implements target.HardwareAnalyzer for the C64 PAL/NTSC VIC-II
// timing model.
type Analyzer struct {
	cfg      target.Config
	Warnings WarningList
}

// NewAnalyzer constructs an Analyzer bound to a resolved target config.
func NewAnalyzer(cfg target.Config) *Analyzer {
	return &Analyzer{cfg: cfg}
}

// Name implements target.HardwareAnalyzer.
func (a *Analyzer) Name() string {
	return a.cfg.Architecture.String()
}

// badlineCycles is the per-line budget left after the VIC-II's character-
// matrix DMA on a badline.
func (a *Analyzer) badlineCycles() uint32 {
	if a.cfg.CyclesPerLine <= a.cfg.BadlinePenalty {
		return 0
	}

	return a.cfg.CyclesPerLine - a.cfg.BadlinePenalty
}

// EstimateFunction implements target.HardwareAnalyzer: it sums the IL
// cost-table attribution across every instruction in f and classifies the
// result against this target's raster-line budget. No sprite
// count is available at this call site, so the classification budget is
// not reduced by sprite DMA; EstimateFunctionWithSprites does that for a
// caller that knows how many sprites are active while f runs. Warnings
// accumulate on the Analyzer across calls (append-only).
func (a *Analyzer) EstimateFunction(f *il.Function) il.RasterSafety {
	return a.EstimateFunctionWithSprites(f, 0)
}

// EstimateFunctionWithSprites is EstimateFunction with an explicit active-
// sprite count folded into the classification budget: every active sprite
// steals SpriteDMAPerSprite cycles from the line regardless of whether it
// is also a badline.
func (a *Analyzer) EstimateFunctionWithSprites(f *il.Function, activeSprites uint32) il.RasterSafety {
	estimated, rasterCritical := functionCycles(f)
	spriteDMA := clampSprites(activeSprites) * SpriteDMAPerSprite

	classifyWarnings(&a.Warnings, estimated, a.cfg.CyclesPerLine, a.badlineCycles())

	return il.Classify(estimated, a.cfg.CyclesPerLine, a.cfg.BadlinePenalty, spriteDMA, rasterCritical)
}

// clampSprites caps a requested sprite count at the VIC-II's hardware limit.
func clampSprites(activeSprites uint32) uint32 {
	if activeSprites > MaxSprites {
		return MaxSprites
	}

	return activeSprites
}

// EstimateStatement implements target.HardwareAnalyzer, delegating to the
// AST-level cost table. It carries no hardware-penalty contribution (no
// sprite/page-crossing context is available through this signature); use
// EstimateStatementWithPenalties when that context is known.
func (a *Analyzer) EstimateStatement(s ast.Stmt) target.StatementEstimate {
	return toStatementEstimate(EstimateStatement(s))
}

// EstimateStatementWithPenalties folds sprite-DMA, page-crossing and RMW
// penalties (pkg/vic/penalties.go) into a single statement's cost
// estimate and marks IncludesHardwarePenalties so a caller can tell
// the two estimate methods apart.
func (a *Analyzer) EstimateStatementWithPenalties(s ast.Stmt, activeSprites, pageCrossings uint32) target.StatementEstimate {
	c := EstimateStatement(s)
	penalties := EstimatePenalties([]ast.Stmt{s}, activeSprites, pageCrossings)

	c.Other += penalties.Total
	c.Min += penalties.Total
	c.Avg += penalties.Total
	c.Max += penalties.Total
	c.IncludesHardwarePenalties = true

	return toStatementEstimate(c)
}

// estimateCyclesWithPenalties computes a statement list's base cost, plus
// sprite-DMA/page-crossing/RMW penalties for the given sprite count, plus
// the badline penalty when badline is true. Only the trailing term differs
// between a badline and a non-badline call, so the two always differ by
// exactly BadlinePenalty.
func (a *Analyzer) estimateCyclesWithPenalties(stmts []ast.Stmt, activeSprites uint32, badline bool) uint32 {
	cost := EstimateBlock(stmts)
	cost += EstimatePenalties(stmts, activeSprites, 0).Total

	if badline {
		cost += a.cfg.BadlinePenalty
	}

	return cost
}

func toStatementEstimate(c StatementCost) target.StatementEstimate {
	return target.StatementEstimate{
		Min: c.Min, Avg: c.Avg, Max: c.Max,
		Assignments: c.Assignments, BinaryOps: c.BinaryOps, FunctionCalls: c.FunctionCalls,
		Branches: c.Branches, Other: c.Other, IncludesHardwarePenalties: c.IncludesHardwarePenalties,
	}
}

// GetWarnings implements target.HardwareAnalyzer: a defensive copy of every
// badline/over-budget warning classifyWarnings has accumulated across all
// EstimateFunction calls so far.
func (a *Analyzer) GetWarnings() []target.Warning {
	warnings := a.Warnings.Warnings()
	out := make([]target.Warning, len(warnings))

	for i, w := range warnings {
		out[i] = target.Warning{Severity: w.Severity.String(), Message: w.Message}
	}

	return out
}

// GetTargetConfig implements target.HardwareAnalyzer.
func (a *Analyzer) GetTargetConfig() target.Config {
	return a.cfg
}

// EstimateLoop picks EstimateFor or EstimateWhile for a loop statement,
// so either loop form gets the loop-estimation treatment.
func EstimateLoop(s ast.Stmt) (LoopCost, bool) {
	switch stmt := s.(type) {
	case *ast.ForNumeric:
		return EstimateFor(stmt), true
	case *ast.While:
		return EstimateWhile(stmt), true
	default:
		return LoopCost{}, false
	}
}
