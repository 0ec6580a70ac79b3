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

// HardwarePenalties is the additional cycle cost contributed by sprite DMA,
// page-crossing accesses and read-modify-write sites.
type HardwarePenalties struct {
	Total         uint32
	SpriteDMA     uint32
	PageCrossing  uint32
	RMW           uint32
	ActiveSprites uint32
	PageCrossings uint32
	RMWOperations uint32
}

// EstimatePenalties computes the hardware-penalty contribution for a block
// of statements given the number of sprites active during it and an
// explicit page-crossing count (the estimator has no memory layout to
// derive page crossings from; callers that know the target addresses pass
// the count they observed).
func EstimatePenalties(stmts []ast.Stmt, activeSprites, pageCrossings uint32) HardwarePenalties {
	sprites := activeSprites
	if sprites > MaxSprites {
		sprites = MaxSprites
	}

	rmwCount := countRMWSites(stmts)

	spriteDMA := sprites * SpriteDMAPerSprite
	pageCrossingCost := pageCrossings * PageCrossing
	rmwCost := rmwCount * RMWPenalty

	return HardwarePenalties{
		Total:         spriteDMA + pageCrossingCost + rmwCost,
		SpriteDMA:     spriteDMA,
		PageCrossing:  pageCrossingCost,
		RMW:           rmwCost,
		ActiveSprites: sprites,
		PageCrossings: pageCrossings,
		RMWOperations: rmwCount,
	}
}

// countRMWSites counts statements that are a read-modify-write at the
// source level: a for-loop's implicit increment, and any assignment whose
// target identifier also appears somewhere in its value expression (e.g.
// "x = x + 1").
func countRMWSites(stmts []ast.Stmt) uint32 {
	var count uint32

	for _, s := range stmts {
		switch stmt := s.(type) {
		case *ast.ForNumeric:
			count++
			count += countRMWSites(stmt.Body)
		case *ast.Assign:
			if name, ok := stmt.Target.(*ast.Identifier); ok && exprReferences(stmt.Value, name.Name) {
				count++
			}
		case *ast.While:
			count += countRMWSites(stmt.Body)
		case *ast.If:
			count += countRMWSites(stmt.Then)
			count += countRMWSites(stmt.Else)
		}
	}

	return count
}

// exprReferences reports whether name appears as an identifier anywhere
// within e.
func exprReferences(e ast.Expr, name string) bool {
	switch expr := e.(type) {
	case *ast.Identifier:
		return expr.Name == name
	case *ast.Binary:
		return exprReferences(expr.Lhs, name) || exprReferences(expr.Rhs, name)
	case *ast.Unary:
		return exprReferences(expr.Operand, name)
	case *ast.Index:
		return exprReferences(expr.Array, name) || exprReferences(expr.Index, name)
	case *ast.Member:
		return exprReferences(expr.Base, name)
	case *ast.Cast:
		return exprReferences(expr.Operand, name)
	case *ast.Call:
		for _, a := range expr.Args {
			if exprReferences(a, name) {
				return true
			}
		}

		return false
	case *ast.ArrayLiteral:
		for _, el := range expr.Elements {
			if exprReferences(el, name) {
				return true
			}
		}

		return false
	default:
		return false
	}
}
