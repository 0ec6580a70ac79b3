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

// ExprCost computes the recursive structural cost of an expression, per
// the expression cost table.
func ExprCost(e ast.Expr) uint32 {
	switch expr := e.(type) {
	case *ast.IntLiteral, *ast.BoolLiteral:
		return CostDefault
	case *ast.Identifier:
		return 3
	case *ast.Member:
		return 4
	case *ast.Index:
		return 5 + ExprCost(expr.Index)
	case *ast.Unary:
		return CostUnaryOp + ExprCost(expr.Operand)
	case *ast.Binary:
		return CostBinaryOp + ExprCost(expr.Lhs) + ExprCost(expr.Rhs)
	case *ast.Call:
		total := CostFunctionCall
		for _, a := range expr.Args {
			total += ExprCost(a) + 3
		}

		return total
	case *ast.Cast:
		return ExprCost(expr.Operand)
	case *ast.AddressOf:
		return 3
	case *ast.ArrayLiteral:
		if len(expr.Elements) == 0 {
			return 0
		}

		var total uint32
		for _, el := range expr.Elements {
			total += ExprCost(el) + 4
		}

		return total
	default:
		return CostDefault
	}
}

// AssignmentCost computes "assignment = 5 + rhs" from the same table.
func AssignmentCost(rhs ast.Expr) uint32 {
	return CostAssignment + ExprCost(rhs)
}
