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

// StatementCost is the cycle-cost estimate of one statement: min/avg/max and
// a stable category breakdown.
// max = min + PAGE_CROSSING by default, unless a statement explicitly widens
// the range further (none do, in this estimator).
type StatementCost struct {
	Min, Avg, Max             uint32
	Assignments               uint32
	BinaryOps                 uint32
	FunctionCalls             uint32
	Branches                  uint32
	Other                     uint32
	IncludesHardwarePenalties bool
}

// total sums the category breakdown; Avg is always exactly this sum.
func (c *StatementCost) total() uint32 {
	return c.Assignments + c.BinaryOps + c.FunctionCalls + c.Branches + c.Other
}

// EstimateStatement computes the cost of a single statement. Loop
// statements (While, ForNumeric) delegate their per-iteration cost to
// EstimateLoop and report only their setup-and-condition contribution here;
// callers that need the full loop cost should use EstimateLoop directly.
func EstimateStatement(s ast.Stmt) StatementCost {
	c := StatementCost{}

	switch stmt := s.(type) {
	case *ast.LocalDecl:
		if stmt.Initializer != nil {
			c.Assignments = AssignmentCost(stmt.Initializer)
		} else {
			c.Assignments = CostAssignment
		}
	case *ast.Assign:
		c.Assignments = AssignmentCost(stmt.Value)
	case *ast.ExprStmt:
		if call, ok := stmt.Expr.(*ast.Call); ok {
			c.FunctionCalls = ExprCost(call)
		} else {
			c.Other = ExprCost(stmt.Expr)
		}
	case *ast.If:
		c.Branches = CostBranch + ExprCost(stmt.Cond)

		for _, inner := range stmt.Then {
			add(&c, EstimateStatement(inner))
		}

		for _, inner := range stmt.Else {
			add(&c, EstimateStatement(inner))
		}
	case *ast.While:
		c.Branches = CostBranch + ExprCost(stmt.Cond)
	case *ast.ForNumeric:
		c.Assignments = CostAssignment + ExprCost(stmt.Start)
		c.Branches = CostBranch + ExprCost(stmt.End)
	case *ast.Return:
		c.Other = CostReturn
		if stmt.Value != nil {
			c.Other += ExprCost(stmt.Value)
		}
	case *ast.Break, *ast.Continue:
		c.Other = CostDefault
	}

	c.Min = c.total()
	c.Avg = c.Min
	c.Max = c.Min + PageCrossing

	return c
}

// add accumulates src's category buckets into dst, used when a statement
// (e.g. "if") contains nested statements whose costs roll up into the
// parent's breakdown.
func add(dst *StatementCost, src StatementCost) {
	dst.Assignments += src.Assignments
	dst.BinaryOps += src.BinaryOps
	dst.FunctionCalls += src.FunctionCalls
	dst.Branches += src.Branches
	dst.Other += src.Other
}

// EstimateBlock sums EstimateStatement over a statement list, returning the
// block's total avg cost — the "body" figure loop estimation needs.
func EstimateBlock(stmts []ast.Stmt) uint32 {
	var total uint32

	for _, s := range stmts {
		total += EstimateStatement(s).Avg
	}

	return total
}
