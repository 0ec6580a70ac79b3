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
	"github.com/raster6502/compiler/pkg/types"
)

// lowerStmts lowers a statement list into cur, returning the block that
// control falls through to after the last statement (which may be a fresh
// block if the list branched). If the list ends in a terminator, the
// returned block is already terminated and the caller must not append to
// it.
func (b *builder) lowerStmts(stmts []ast.Stmt, cur *il.Block) *il.Block {
	for _, s := range stmts {
		if cur.Terminator() != nil {
			// Unreachable code after a return/break/continue in the same
			// block; nothing further can be appended to a terminated block.
			break
		}

		cur = b.lowerStmt(s, cur)
	}

	return cur
}

func (b *builder) lowerStmt(s ast.Stmt, cur *il.Block) *il.Block {
	b.loc = s.StmtLoc()

	switch stmt := s.(type) {
	case *ast.LocalDecl:
		return b.lowerLocalDecl(stmt, cur)
	case *ast.Assign:
		return b.lowerAssign(stmt, cur)
	case *ast.ExprStmt:
		b.lowerCallOrIntrinsicStmt(stmt, cur)
		return cur
	case *ast.If:
		return b.lowerIf(stmt, cur)
	case *ast.While:
		return b.lowerWhile(stmt, cur)
	case *ast.ForNumeric:
		return b.lowerFor(stmt, cur)
	case *ast.Return:
		return b.lowerReturn(stmt, cur)
	case *ast.Break:
		return b.lowerBreak(stmt, cur)
	case *ast.Continue:
		return b.lowerContinue(stmt, cur)
	default:
		b.diags.Add(diag.New(diag.KindSemantic, s.StmtLoc(), "unsupported statement node"))
		return cur
	}
}

func (b *builder) lowerLocalDecl(decl *ast.LocalDecl, cur *il.Block) *il.Block {
	t := resolveTypeExpr(decl.Type)

	if decl.Initializer != nil {
		val := b.lowerExpr(decl.Initializer, cur)
		b.vars[decl.Name] = materialize(b, cur, val, decl.Name)
	} else {
		b.vars[decl.Name] = il.RegOperand(b.fn.NewRegister(t, decl.Name))
	}

	return cur
}

// materialize ensures a named local always resolves to something with
// useful debug identity: a register operand is kept as-is (SSA values are
// already single-assignment, so no copy is needed), while a bare constant
// is wrapped in a CONST instruction so later disassembly can see the
// variable's name at its definition site.
func materialize(b *builder, cur *il.Block, val il.Operand, name string) il.Operand {
	if val.IsRegister() {
		return val
	}

	result := b.fn.NewRegister(val.Type(), name)
	b.emit(cur, il.NewConst(result, val.Const()))

	return il.RegOperand(result)
}

func (b *builder) lowerAssign(stmt *ast.Assign, cur *il.Block) *il.Block {
	val := b.lowerExpr(stmt.Value, cur)

	switch target := stmt.Target.(type) {
	case *ast.Identifier:
		if _, isLocal := b.vars[target.Name]; isLocal {
			b.vars[target.Name] = materialize(b, cur, val, target.Name)
		} else {
			b.emit(cur, il.NewStoreVar(target.Name, val))
		}
	case *ast.Index:
		id, ok := target.Array.(*ast.Identifier)
		if !ok {
			b.diags.Add(diag.New(diag.KindSemantic, target.Loc, "array index target must be a named array"))
			return cur
		}

		index := b.lowerExpr(target.Index, cur)
		b.emit(cur, il.NewStoreArray(id.Name, index, val))
	case *ast.Member:
		id, ok := target.Base.(*ast.Identifier)
		if !ok {
			b.diags.Add(diag.New(diag.KindSemantic, target.Loc, "member assignment target must be a named symbol"))
			return cur
		}

		b.emit(cur, il.NewStoreVar(id.Name+"."+target.Field, val))
	default:
		b.diags.Add(diag.New(diag.KindSemantic, stmt.Loc, "unsupported assignment target"))
	}

	return cur
}

// lowerCallOrIntrinsicStmt lowers a bare expression statement, recognizing
// the void-valued memory and CPU intrinsics that have no result.
func (b *builder) lowerCallOrIntrinsicStmt(stmt *ast.ExprStmt, cur *il.Block) {
	call, ok := stmt.Expr.(*ast.Call)
	if !ok {
		b.lowerExpr(stmt.Expr, cur)
		return
	}

	switch call.Callee {
	case intrinsicPoke:
		addr := b.lowerExpr(call.Args[0], cur)
		val := b.lowerExpr(call.Args[1], cur)
		b.emit(cur, il.NewPoke(addr, val))
	case intrinsicPokew:
		addr := b.lowerExpr(call.Args[0], cur)
		val := b.lowerExpr(call.Args[1], cur)
		b.emit(cur, il.NewPokew(addr, val))
	default:
		if op, isCPU := cpuIntrinsics[call.Callee]; isCPU {
			b.emit(cur, il.NewCPUOp(op))
			return
		}

		args := make([]il.Operand, len(call.Args))
		for i, a := range call.Args {
			args[i] = b.lowerExpr(a, cur)
		}

		b.emit(cur, il.NewCallVoid(call.Callee, args))
	}
}

func (b *builder) lowerIf(stmt *ast.If, cur *il.Block) *il.Block {
	cond := b.lowerExpr(stmt.Cond, cur)

	thenLabel := b.newBlockLabel("if_then")
	elseLabel := b.newBlockLabel("if_else")
	joinLabel := b.newBlockLabel("if_join")

	b.emit(cur, il.NewBranch(cond, thenLabel, elseLabel))

	preVars := cloneVars(b.vars)

	thenBlock := b.fn.AddBlock(thenLabel)
	thenTail := b.lowerStmts(stmt.Then, thenBlock)
	thenVars := cloneVars(b.vars)

	b.vars = cloneVars(preVars)

	elseBlock := b.fn.AddBlock(elseLabel)
	elseTail := elseBlock
	if stmt.Else != nil {
		elseTail = b.lowerStmts(stmt.Else, elseBlock)
	}
	elseVars := cloneVars(b.vars)

	b.vars = preVars

	thenFallsThrough := thenTail.Terminator() == nil
	elseFallsThrough := elseTail.Terminator() == nil

	join := b.fn.AddBlock(joinLabel)

	if thenFallsThrough {
		b.emit(thenTail, il.NewJump(joinLabel))
	}

	if elseFallsThrough {
		b.emit(elseTail, il.NewJump(joinLabel))
	}

	switch {
	case thenFallsThrough && elseFallsThrough:
		// Both branches fall through to join: a variable assigned
		// differently in each branch needs a real phi here, or code after
		// the if would silently observe whichever branch happened to be
		// lowered last rather than whichever branch actually ran.
		b.mergeAtBlock(join, []string{thenLabel, elseLabel}, []map[string]il.Operand{thenVars, elseVars})
	case thenFallsThrough:
		// Only the then-branch reaches join; its state is join's only
		// predecessor state, so it needs no phi.
		b.vars = thenVars
	case elseFallsThrough:
		b.vars = elseVars
	}

	return join
}

func (b *builder) lowerWhile(stmt *ast.While, cur *il.Block) *il.Block {
	headerLabel := b.newBlockLabel("while_header")
	bodyLabel := b.newBlockLabel("while_body")
	exitLabel := b.newBlockLabel("while_exit")

	b.emit(cur, il.NewJump(headerLabel))

	header := b.fn.AddBlock(headerLabel)
	cond := b.lowerExpr(stmt.Cond, header)
	b.emit(header, il.NewBranch(cond, bodyLabel, exitLabel))

	body := b.fn.AddBlock(bodyLabel)
	b.loops = append(b.loops, loopContext{headerLabel: headerLabel, exitLabel: exitLabel})
	bodyTail := b.lowerStmts(stmt.Body, body)
	b.loops = b.loops[:len(b.loops)-1]

	if bodyTail.Terminator() == nil {
		b.emit(bodyTail, il.NewJump(headerLabel))
	}

	return b.fn.AddBlock(exitLabel)
}

func (b *builder) lowerFor(stmt *ast.ForNumeric, cur *il.Block) *il.Block {
	start := b.lowerExpr(stmt.Start, cur)
	end := b.lowerExpr(stmt.End, cur)

	preLoopVar := materialize(b, cur, start, stmt.Var)
	b.vars[stmt.Var] = preLoopVar

	headerLabel := b.newBlockLabel("for_header")
	bodyLabel := b.newBlockLabel("for_body")
	incrLabel := b.newBlockLabel("for_incr")
	exitLabel := b.newBlockLabel("for_exit")

	b.emit(cur, il.NewJump(headerLabel))

	header := b.fn.AddBlock(headerLabel)

	// The loop variable's register is allocated before the body/incr blocks
	// exist, so the header's comparison and every body read resolve to one
	// phi register rather than the pre-loop register the old value would
	// otherwise stay pinned to for the whole loop.
	loopVar := b.fn.NewRegister(types.Byte, stmt.Var)
	b.vars[stmt.Var] = il.RegOperand(loopVar)

	condResult := b.fn.NewRegister(types.Bool, "")
	b.emit(header, il.NewBinary(il.OpCmpLt, condResult, il.RegOperand(loopVar), end))
	b.emit(header, il.NewBranch(il.RegOperand(condResult), bodyLabel, exitLabel))

	body := b.fn.AddBlock(bodyLabel)
	b.loops = append(b.loops, loopContext{headerLabel: incrLabel, exitLabel: exitLabel})
	bodyTail := b.lowerStmts(stmt.Body, body)
	b.loops = b.loops[:len(b.loops)-1]

	if bodyTail.Terminator() == nil {
		b.emit(bodyTail, il.NewJump(incrLabel))
	}

	incr := b.fn.AddBlock(incrLabel)
	one := il.ConstOperand(il.ConstByte(1))
	next := b.fn.NewRegister(types.Byte, stmt.Var)
	b.emit(incr, il.NewBinary(il.OpAdd, next, b.vars[stmt.Var], one))
	b.emit(incr, il.NewJump(headerLabel))

	header.Merges = append(header.Merges, &il.MergeOperand{
		Result:       loopVar,
		Predecessors: []string{cur.Label, incrLabel},
		Incoming:     []il.VirtualRegister{preLoopVar.Register(), next},
	})

	// Code after the loop sees whatever the header's last (failing) check
	// held, i.e. the phi register itself, not the incremented value that
	// only ever flows back into another header check.
	b.vars[stmt.Var] = il.RegOperand(loopVar)

	return b.fn.AddBlock(exitLabel)
}

func (b *builder) lowerReturn(stmt *ast.Return, cur *il.Block) *il.Block {
	if stmt.Value == nil {
		b.emit(cur, il.NewReturnVoid())
		return cur
	}

	val := b.lowerExpr(stmt.Value, cur)
	b.emit(cur, il.NewReturn(val))

	return cur
}

func (b *builder) lowerBreak(stmt *ast.Break, cur *il.Block) *il.Block {
	if len(b.loops) == 0 {
		b.diags.Add(diag.New(diag.KindSemantic, stmt.Loc, "break outside of a loop"))
		return cur
	}

	b.emit(cur, il.NewJump(b.loops[len(b.loops)-1].exitLabel))

	return cur
}

func (b *builder) lowerContinue(stmt *ast.Continue, cur *il.Block) *il.Block {
	if len(b.loops) == 0 {
		b.diags.Add(diag.New(diag.KindSemantic, stmt.Loc, "continue outside of a loop"))
		return cur
	}

	b.emit(cur, il.NewJump(b.loops[len(b.loops)-1].headerLabel))

	return cur
}
