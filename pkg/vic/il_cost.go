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

import "github.com/raster6502/compiler/pkg/il"

// instructionCost attributes the statement-level cost table to an already-
// lowered IL instruction, mirroring the attribution ExprCost/StatementCost
// apply at the AST level. EstimateFunction sums this over every
// instruction in a function to get its estimated_cycles.
func instructionCost(ins *il.Instruction) uint32 {
	switch ins.Op {
	case il.OpAdd, il.OpSub, il.OpMul, il.OpDiv, il.OpMod,
		il.OpAnd, il.OpOr, il.OpXor, il.OpShl, il.OpShr,
		il.OpCmpEq, il.OpCmpNe, il.OpCmpLt, il.OpCmpLe, il.OpCmpGt, il.OpCmpGe:
		return CostBinaryOp
	case il.OpNeg, il.OpNot, il.OpLogicalNot:
		return CostUnaryOp
	case il.OpLoadVar, il.OpStoreVar, il.OpLoadArray, il.OpStoreArray:
		return CostAssignment
	case il.OpJump, il.OpBranch:
		return CostBranch
	case il.OpReturn, il.OpReturnVoid:
		return CostReturn
	case il.OpCall, il.OpCallVoid:
		cost := CostFunctionCall
		cost += uint32(len(ins.Args)) * 3

		return cost
	case il.OpHardwareRead, il.OpHardwareWrite:
		return CostAssignment
	case il.OpPeek, il.OpPoke, il.OpPeekw, il.OpPokew:
		return CostAssignment + RMWPenalty
	case il.OpLoadAddress:
		return 3
	case il.OpCPUSei, il.OpCPUCli, il.OpCPUNop, il.OpCPUPha, il.OpCPUPla, il.OpCPUPhp, il.OpCPUPlp:
		return CostDefault
	case il.OpOptBarrier:
		return 0
	default: // OpConst
		return CostDefault
	}
}

// functionCycles sums instructionCost over every instruction of f, and
// reports whether any instruction was flagged raster-critical.
func functionCycles(f *il.Function) (estimated uint32, rasterCritical bool) {
	for _, b := range f.Blocks {
		for _, ins := range b.Instructions {
			estimated += instructionCost(ins)

			if ins.Meta.RasterCritical {
				rasterCritical = true
			}
		}
	}

	return estimated, rasterCritical
}
