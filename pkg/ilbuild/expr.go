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
	"github.com/raster6502/compiler/pkg/ast"
	"github.com/raster6502/compiler/pkg/diag"
	"github.com/raster6502/compiler/pkg/il"
	"github.com/raster6502/compiler/pkg/symbols"
	"github.com/raster6502/compiler/pkg/types"
)

var binaryOpcodes = map[ast.BinaryOp]il.Opcode{
	ast.OpAdd: il.OpAdd, ast.OpSub: il.OpSub, ast.OpMul: il.OpMul, ast.OpDiv: il.OpDiv, ast.OpMod: il.OpMod,
	ast.OpAnd: il.OpAnd, ast.OpOr: il.OpOr, ast.OpXor: il.OpXor, ast.OpShl: il.OpShl, ast.OpShr: il.OpShr,
	ast.OpEq: il.OpCmpEq, ast.OpNe: il.OpCmpNe, ast.OpLt: il.OpCmpLt, ast.OpLe: il.OpCmpLe,
	ast.OpGt: il.OpCmpGt, ast.OpGe: il.OpCmpGe,
}

var comparisonOps = map[ast.BinaryOp]bool{
	ast.OpEq: true, ast.OpNe: true, ast.OpLt: true, ast.OpLe: true, ast.OpGt: true, ast.OpGe: true,
}

// lowerExpr lowers an expression into the given block, appending whatever
// instructions are needed to compute it, and returns the operand that holds
// its value. Because the source language's only logical operators are the
// bitwise AND/OR/XOR (there is no short-circuiting "&&"/"||"), expression
// lowering never needs to branch: every expression lowers to a straight-line
// instruction sequence in its current block.
func (b *builder) lowerExpr(e ast.Expr, block *il.Block) il.Operand {
	switch expr := e.(type) {
	case *ast.IntLiteral:
		return b.lowerIntLiteral(expr, block)
	case *ast.BoolLiteral:
		return il.ConstOperand(il.ConstBool(expr.Value))
	case *ast.Identifier:
		return b.lowerIdentifier(expr, block)
	case *ast.AddressOf:
		return b.lowerAddressOf(expr, block)
	case *ast.Binary:
		return b.lowerBinary(expr, block)
	case *ast.Unary:
		return b.lowerUnary(expr, block)
	case *ast.Index:
		return b.lowerIndex(expr, block)
	case *ast.Call:
		return b.lowerCall(expr, block)
	case *ast.Cast:
		return b.lowerCast(expr, block)
	case *ast.Member:
		return b.lowerMember(expr, block)
	case *ast.ArrayLiteral:
		// Array literals are only meaningful as an initializer for a global
		// or local array declaration; lowerStmts/lowerGlobal handle that case
		// directly and never call lowerExpr on an ArrayLiteral in value
		// position.
		b.diags.Add(diag.New(diag.KindSemantic, expr.Loc, "array literal is not valid in expression position"))
		return il.ConstOperand(il.ConstByte(0))
	default:
		b.diags.Add(diag.New(diag.KindSemantic, e.ExprLoc(), "unsupported expression node"))
		return il.ConstOperand(il.ConstByte(0))
	}
}

func (b *builder) lowerIntLiteral(lit *ast.IntLiteral, block *il.Block) il.Operand {
	t, err := types.TypeOfIntegerLiteral(uint32(lit.Value))
	if err != nil {
		b.diags.Add(diag.New(diag.KindSemantic, lit.Loc, "%s", err))
		t = types.Word
	}

	if t.Equals(types.Word) {
		return il.ConstOperand(il.ConstWord(uint16(lit.Value)))
	}

	return il.ConstOperand(il.ConstByte(uint8(lit.Value)))
}

func (b *builder) lowerIdentifier(id *ast.Identifier, block *il.Block) il.Operand {
	if val, ok := b.vars[id.Name]; ok {
		return val
	}

	sym, ok := b.globals.Lookup(id.Name, b.module)
	if !ok {
		b.diags.Add(diag.New(diag.KindSemantic, id.Loc, "unresolved name %q", id.Name))
		return il.ConstOperand(il.ConstByte(0))
	}

	result := b.fn.NewRegister(sym.Type, id.Name)
	b.emit(block, il.NewLoadVar(result, id.Name))

	return il.RegOperand(result)
}

func (b *builder) lowerAddressOf(expr *ast.AddressOf, block *il.Block) il.Operand {
	id, ok := expr.Operand.(*ast.Identifier)
	if !ok {
		b.diags.Add(diag.New(diag.KindSemantic, expr.Loc, "address-of operand must be a named symbol"))
		return il.ConstOperand(il.ConstWord(0))
	}

	kind := il.SymVariable
	if sym, found := b.globals.Lookup(id.Name, b.module); found && sym.Kind == symbols.KindFunction {
		kind = il.SymFunction
	}

	result := b.fn.NewRegister(types.Word, id.Name+"_addr")
	b.emit(block, il.NewLoadAddress(result, id.Name, kind))

	return il.RegOperand(result)
}

func (b *builder) lowerBinary(expr *ast.Binary, block *il.Block) il.Operand {
	lhs := b.lowerExpr(expr.Lhs, block)
	rhs := b.lowerExpr(expr.Rhs, block)

	op := binaryOpcodes[expr.Op]

	resultType := lhs.Type()
	if comparisonOps[expr.Op] {
		resultType = types.Bool
	} else if rhs.Type().BitWidth() > resultType.BitWidth() {
		resultType = rhs.Type()
	}

	result := b.fn.NewRegister(resultType, "")
	b.emit(block, il.NewBinary(op, result, lhs, rhs))

	return il.RegOperand(result)
}

func (b *builder) lowerUnary(expr *ast.Unary, block *il.Block) il.Operand {
	operand := b.lowerExpr(expr.Operand, block)

	var op il.Opcode

	resultType := operand.Type()

	switch expr.Op {
	case ast.OpNeg:
		op = il.OpNeg
	case ast.OpBitNot:
		op = il.OpNot
	default:
		op = il.OpLogicalNot
		resultType = types.Bool
	}

	result := b.fn.NewRegister(resultType, "")
	b.emit(block, il.NewUnary(op, result, operand))

	return il.RegOperand(result)
}

func (b *builder) lowerIndex(expr *ast.Index, block *il.Block) il.Operand {
	id, ok := expr.Array.(*ast.Identifier)
	if !ok {
		b.diags.Add(diag.New(diag.KindSemantic, expr.Loc, "array index target must be a named array"))
		return il.ConstOperand(il.ConstByte(0))
	}

	index := b.lowerExpr(expr.Index, block)

	elemType := types.Byte
	if sym, found := b.globals.Lookup(id.Name, b.module); found && sym.Type.Kind() == types.KindArray {
		elemType = sym.Type.Element()
	}

	result := b.fn.NewRegister(elemType, "")
	b.emit(block, il.NewLoadArray(result, id.Name, index))

	return il.RegOperand(result)
}

func (b *builder) lowerCast(expr *ast.Cast, block *il.Block) il.Operand {
	operand := b.lowerExpr(expr.Operand, block)
	target := resolveTypeExpr(expr.Target)

	if operand.IsConst() {
		switch target.Kind() {
		case types.KindByte:
			return il.ConstOperand(il.ConstByte(operand.Const().Byte()))
		case types.KindWord:
			return il.ConstOperand(il.ConstWord(operand.Const().Word()))
		case types.KindBool:
			return il.ConstOperand(il.ConstBool(operand.Const().Bool()))
		}
	}

	// A register narrowing/widening cast is a no-op at the IL level: the
	// register already carries a type, and codegen selects the right
	// load/store width. A widening cast returns the operand unchanged; a
	// narrowing cast defines a fresh register of the target type via a
	// trivial AND-with-mask, keeping SSA's "one definition per register"
	// invariant intact.
	if target.BitWidth() >= operand.Type().BitWidth() {
		return operand
	}

	result := b.fn.NewRegister(target, "")
	mask := il.ConstOperand(il.ConstWord(0x00FF))
	b.emit(block, il.NewBinary(il.OpAnd, result, operand, mask))

	return il.RegOperand(result)
}

func (b *builder) lowerMember(expr *ast.Member, block *il.Block) il.Operand {
	id, ok := expr.Base.(*ast.Identifier)
	if !ok {
		b.diags.Add(diag.New(diag.KindSemantic, expr.Loc, "member access target must be a named symbol"))
		return il.ConstOperand(il.ConstByte(0))
	}

	fieldName := id.Name + "." + expr.Field
	result := b.fn.NewRegister(types.Byte, fieldName)
	b.emit(block, il.NewLoadVar(result, fieldName))

	return il.RegOperand(result)
}

// lowerCall recognizes the memory/CPU intrinsics and otherwise lowers a
// real function call, returning the value-producing variant's operand.
func (b *builder) lowerCall(expr *ast.Call, block *il.Block) il.Operand {
	switch expr.Callee {
	case intrinsicPeek:
		addr := b.lowerExpr(expr.Args[0], block)
		result := b.fn.NewRegister(types.Byte, "")
		b.emit(block, il.NewPeek(result, addr))

		return il.RegOperand(result)
	case intrinsicPeekw:
		addr := b.lowerExpr(expr.Args[0], block)
		result := b.fn.NewRegister(types.Word, "")
		b.emit(block, il.NewPeekw(result, addr))

		return il.RegOperand(result)
	}

	args := make([]il.Operand, len(expr.Args))
	for i, a := range expr.Args {
		args[i] = b.lowerExpr(a, block)
	}

	retType := types.Byte
	if sym, ok := b.globals.Lookup(expr.Callee, b.module); ok && sym.Type.Kind() == types.KindFunction {
		retType = sym.Type.Return()
	}

	result := b.fn.NewRegister(retType, "")
	b.emit(block, il.NewCall(result, expr.Callee, args))

	return il.RegOperand(result)
}
