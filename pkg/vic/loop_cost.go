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

import "github.com/raster6502/compiler/pkg/ast"

// LoopCost is the cycle-cost estimate of a loop: total = setup +
// iterations * per_iter, where per_iter = body + overhead.
type LoopCost struct {
	Total           uint32
	PerIter         uint32
	Iterations      uint32
	IterationsKnown bool
	Setup           uint32
	Body            uint32
	Overhead        uint32
}

// EstimateWhile estimates a While loop. While loops never have a
// statically known iteration count, so DefaultLoopIterations is always
// used.
func EstimateWhile(w *ast.While) LoopCost {
	setup := CostBranch + ExprCost(w.Cond)
	body := EstimateBlock(w.Body)

	return finishLoop(setup, body, DefaultLoopIterations, false)
}

// EstimateFor estimates a "for i in start to end" loop. When both bounds
// are literal, iterations = max(0, end - start) and IterationsKnown is
// true; otherwise DefaultLoopIterations is used.
func EstimateFor(f *ast.ForNumeric) LoopCost {
	setup := CostAssignment + ExprCost(f.Start) + ExprCost(f.End)
	body := EstimateBlock(f.Body)

	startLit, startOK := f.Start.(*ast.IntLiteral)
	endLit, endOK := f.End.(*ast.IntLiteral)

	if startOK && endOK {
		var iterations uint32
		if endLit.Value > startLit.Value {
			iterations = uint32(endLit.Value - startLit.Value)
		}

		return finishLoop(setup, body, iterations, true)
	}

	return finishLoop(setup, body, DefaultLoopIterations, false)
}

func finishLoop(setup, body, iterations uint32, known bool) LoopCost {
	overhead := CostLoopOverhead
	perIter := body + overhead

	return LoopCost{
		Total: setup + iterations*perIter, PerIter: perIter, Iterations: iterations,
		IterationsKnown: known, Setup: setup, Body: body, Overhead: overhead,
	}
}
