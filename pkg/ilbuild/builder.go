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

// Package ilbuild lowers a resolved AST into the IL:
// variable declarations become globals with a storage class, expressions
// become typed operand trees, statements become a control-flow graph of
// terminated blocks, and intrinsics (peek/poke/peekw/pokew, "@name", and the
// CPU escapes) map to dedicated opcodes.
package ilbuild

import (
	"fmt"

	"github.com/raster6502/compiler/pkg/ast"
	"github.com/raster6502/compiler/pkg/diag"
	"github.com/raster6502/compiler/pkg/il"
	"github.com/raster6502/compiler/pkg/symbols"
	"github.com/raster6502/compiler/pkg/types"
)

// GlobalResolver is the cross-module lookup this package needs from the
// orchestrator (pkg/sema). It is expressed as a local interface, rather
// than an import of pkg/sema, so that pkg/sema (which drives pkg/ilbuild)
// and pkg/ilbuild never import one another. *sema.GlobalSymbolTable
// satisfies this interface.
type GlobalResolver interface {
	Lookup(name, requestingModule string) (*symbols.Symbol, bool)
}

// intrinsics recognized by name at call sites.
const (
	intrinsicPeek  = "peek"
	intrinsicPoke  = "poke"
	intrinsicPeekw = "peekw"
	intrinsicPokew = "pokew"
	intrinsicSei   = "sei"
	intrinsicCli   = "cli"
	intrinsicNop   = "nop"
	intrinsicPha   = "pha"
	intrinsicPla   = "pla"
	intrinsicPhp   = "php"
	intrinsicPlp   = "plp"
)

var cpuIntrinsics = map[string]il.Opcode{
	intrinsicSei: il.OpCPUSei,
	intrinsicCli: il.OpCPUCli,
	intrinsicNop: il.OpCPUNop,
	intrinsicPha: il.OpCPUPha,
	intrinsicPla: il.OpCPUPla,
	intrinsicPhp: il.OpCPUPhp,
	intrinsicPlp: il.OpCPUPlp,
}

// loopContext carries the labels a break/continue statement inside a loop
// body must jump to.
type loopContext struct {
	headerLabel string
	exitLabel   string
}

// builder holds the mutable state for lowering a single function.
type builder struct {
	module  string
	globals GlobalResolver
	fn      *il.Function
	diags   *diag.Bag
	// vars maps a local variable or parameter name to the operand currently
	// holding its value. Because every local is itself a single-assignment
	// SSA value (re-pointing the map entry on each assignment, rather than
	// mutating a register in place), no explicit copy/move opcode is needed:
	// reading a local is just reading whatever operand is in the map.
	vars map[string]il.Operand
	// loc is the source location of the statement currently being lowered;
	// emit stamps it onto every instruction so codegen can populate the
	// source map.
	loc      diag.Location
	blockSeq int
	loops    []loopContext
}

// emit appends inst to block, carrying the current statement's source
// location on the instruction's metadata.
func (b *builder) emit(block *il.Block, inst *il.Instruction) {
	inst.Meta.Loc = b.loc
	block.Append(inst)
}

// BuildModule lowers every declaration of an AST module into an IL module.
// Types must already be resolved (callers run pkg/types/pkg/symbols
// resolution first); BuildModule assumes every TypeExpr it encounters
// resolves without error.
func BuildModule(mod *ast.Module, table *symbols.Table, globals GlobalResolver, diags *diag.Bag) *il.Module {
	out := il.NewModule(mod.Name, mod.Filename)

	for _, d := range mod.Declarations {
		switch decl := d.(type) {
		case *ast.VarDecl:
			out.AddGlobal(lowerGlobal(decl, table))
		case *ast.FuncDecl:
			out.AddFunction(buildFunction(mod.Name, decl, table, globals, diags))
		case *ast.ConstDecl, *ast.MemoryMapDecl:
			// Constants are folded at use sites by the type/symbol resolver;
			// memory maps contribute only a symbol-table entry, not IL
			// globals or storage.
		}
	}

	return out
}

func lowerGlobal(decl *ast.VarDecl, table *symbols.Table) *il.Global {
	sym, _ := table.Lookup(decl.Name)

	g := &il.Global{Symbol: sym}

	if lit, ok := decl.Initializer.(*ast.IntLiteral); ok && sym != nil {
		switch sym.Type.Kind() {
		case types.KindWord:
			v := il.ConstWord(uint16(lit.Value))
			g.Initializer = &v
		case types.KindBool:
			v := il.ConstBool(lit.Value != 0)
			g.Initializer = &v
		default:
			v := il.ConstByte(uint8(lit.Value))
			g.Initializer = &v
		}
	}

	return g
}

// buildFunction lowers one function declaration into an IL function with a
// fully-terminated control-flow graph.
func buildFunction(module string, decl *ast.FuncDecl, table *symbols.Table, globals GlobalResolver, diags *diag.Bag) *il.Function {
	retType := resolveTypeExpr(decl.ReturnType)
	f := il.NewFunction(decl.Name, retType, decl.Exported, decl.Loc)

	b := &builder{module: module, globals: globals, fn: f, diags: diags, vars: map[string]il.Operand{}}

	for _, p := range decl.Params {
		t := resolveTypeExpr(p.Type)
		reg := f.AddParam(p.Name, t)
		b.vars[p.Name] = il.RegOperand(reg)
	}

	entry := f.AddBlock("entry")
	tail := b.lowerStmts(decl.Body, entry)

	if tail.Terminator() == nil {
		// An implicit fall-through return is always RETURN_VOID, also in a
		// non-void function: no return value is fabricated, and type
		// checking does not reject a non-void function that can fall off
		// its end without an explicit return.
		b.emit(tail, il.NewReturnVoid())
	}

	return f
}

func resolveTypeExpr(t ast.TypeExpr) types.Type {
	switch t.Kind {
	case ast.TypeByte:
		return types.Byte
	case ast.TypeWord:
		return types.Word
	case ast.TypeBool:
		return types.Bool
	case ast.TypeArray:
		elem := resolveTypeExpr(*t.Element)
		return types.NewArray(elem, t.Size)
	default:
		return types.Void
	}
}

func (b *builder) newBlockLabel(prefix string) string {
	b.blockSeq++
	return fmt.Sprintf("%s_%d", prefix, b.blockSeq)
}
