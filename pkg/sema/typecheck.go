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
package sema

import (
	"github.com/raster6502/compiler/pkg/ast"
	"github.com/raster6502/compiler/pkg/diag"
	"github.com/raster6502/compiler/pkg/symbols"
	"github.com/raster6502/compiler/pkg/types"
)

// typeCheckModule is the type-checking step of the per-module pipeline: it
// runs after symbol-table construction and before IL generation, enforcing
// the conversion lattice (narrowing requires an explicit
// cast), array size inference, and the numeric-word requirement on
// memory-map addresses. Inferred array sizes are patched onto the module's
// symbols here, so lowering and storage planning see the final type.
func typeCheckModule(mod *ast.Module, table *symbols.Table, globals *GlobalSymbolTable, diags *diag.Bag) {
	c := &checker{module: mod.Name, globals: globals, diags: diags}

	for _, d := range mod.Declarations {
		switch decl := d.(type) {
		case *ast.VarDecl:
			c.checkVarDecl(decl, table)
		case *ast.ConstDecl:
			c.checkConstDecl(decl)
		case *ast.MemoryMapDecl:
			c.checkMemoryMapDecl(decl)
		case *ast.FuncDecl:
			c.checkFuncDecl(decl)
		}
	}
}

type checker struct {
	module  string
	globals *GlobalSymbolTable
	diags   *diag.Bag
}

func (c *checker) errorf(loc diag.Location, format string, args ...any) {
	c.diags.Add(diag.New(diag.KindSemantic, loc, format, args...))
}

func (c *checker) checkVarDecl(decl *ast.VarDecl, table *symbols.Table) {
	if decl.Type.Kind == ast.TypeArray {
		c.checkArrayDecl(decl.Type, decl.Initializer, decl.Loc, func(size uint32) {
			if sym, ok := table.Lookup(decl.Name); ok {
				sym.Type = types.NewArray(resolveType(*decl.Type.Element), size)
			}
		})
	} else if decl.Initializer != nil {
		c.checkAssignable(c.exprType(decl.Initializer, nil), resolveType(decl.Type), decl.Loc)
	}

	if decl.Address != nil {
		addr, ok := foldWordAddress(decl.Address)
		if !ok {
			c.errorf(decl.Loc, "address must be a numeric word expression")
		} else if sym, found := table.Lookup(decl.Name); found {
			sym.Address = &addr
		}
	}
}

// checkArrayDecl validates an array declaration's element type and, for
// empty brackets, infers the size from the initializer.
// onSize is invoked with the inferred size so the caller can patch its
// symbol or scope entry.
func (c *checker) checkArrayDecl(t ast.TypeExpr, init ast.Expr, loc diag.Location, onSize func(uint32)) {
	switch t.Element.Kind {
	case ast.TypeByte, ast.TypeWord, ast.TypeBool:
	default:
		c.errorf(loc, "array element type must be a primitive type")
		return
	}

	if t.HasSize {
		return
	}

	lit, isLit := init.(*ast.ArrayLiteral)

	length := 0
	if isLit {
		length = len(lit.Elements)
	}

	size, err := types.InferArraySize(init != nil, isLit, length)
	if err != nil {
		c.errorf(loc, "%s", err)
		return
	}

	onSize(size)
}

func (c *checker) checkConstDecl(decl *ast.ConstDecl) {
	if decl.Value != nil {
		c.checkAssignable(c.exprType(decl.Value, nil), resolveType(decl.Type), decl.Loc)
	}
}

func (c *checker) checkMemoryMapDecl(decl *ast.MemoryMapDecl) {
	if _, ok := foldWordAddress(decl.Address); !ok {
		c.errorf(decl.Loc, "address must be a numeric word expression")
	}
}

func (c *checker) checkFuncDecl(decl *ast.FuncDecl) {
	scope := make(map[string]types.Type, len(decl.Params))
	for _, p := range decl.Params {
		scope[p.Name] = resolveType(p.Type)
	}

	c.checkStmts(decl.Body, scope, resolveType(decl.ReturnType))
}

func (c *checker) checkStmts(stmts []ast.Stmt, scope map[string]types.Type, ret types.Type) {
	for _, s := range stmts {
		c.checkStmt(s, scope, ret)
	}
}

func (c *checker) checkStmt(s ast.Stmt, scope map[string]types.Type, ret types.Type) {
	switch stmt := s.(type) {
	case *ast.LocalDecl:
		c.checkLocalDecl(stmt, scope)
	case *ast.Assign:
		c.checkAssign(stmt, scope)
	case *ast.ExprStmt:
		c.exprType(stmt.Expr, scope)
	case *ast.If:
		c.checkCondition(stmt.Cond, scope)
		c.checkStmts(stmt.Then, cloneScope(scope), ret)
		c.checkStmts(stmt.Else, cloneScope(scope), ret)
	case *ast.While:
		c.checkCondition(stmt.Cond, scope)
		c.checkStmts(stmt.Body, cloneScope(scope), ret)
	case *ast.ForNumeric:
		c.checkAssignable(c.exprType(stmt.Start, scope), types.Word, stmt.Loc)
		c.checkAssignable(c.exprType(stmt.End, scope), types.Word, stmt.Loc)

		body := cloneScope(scope)
		body[stmt.Var] = types.Byte
		c.checkStmts(stmt.Body, body, ret)
	case *ast.Return:
		c.checkReturn(stmt, scope, ret)
	}
}

func (c *checker) checkLocalDecl(decl *ast.LocalDecl, scope map[string]types.Type) {
	t := resolveType(decl.Type)

	if decl.Type.Kind == ast.TypeArray {
		c.checkArrayDecl(decl.Type, decl.Initializer, decl.Loc, func(size uint32) {
			t = types.NewArray(resolveType(*decl.Type.Element), size)
		})
	} else if decl.Initializer != nil {
		c.checkAssignable(c.exprType(decl.Initializer, scope), t, decl.Loc)
	}

	scope[decl.Name] = t
}

func (c *checker) checkAssign(stmt *ast.Assign, scope map[string]types.Type) {
	value := c.exprType(stmt.Value, scope)

	switch target := stmt.Target.(type) {
	case *ast.Identifier:
		if t, ok := scope[target.Name]; ok {
			c.checkAssignable(value, t, stmt.Loc)
		} else if sym, found := c.globals.Lookup(target.Name, c.module); found {
			c.checkAssignable(value, sym.Type, stmt.Loc)
		}
	case *ast.Index:
		c.checkAssignable(value, c.elementType(target.Array, scope), stmt.Loc)
	case *ast.Member:
		c.checkAssignable(value, c.memberType(target), stmt.Loc)
	}
}

func (c *checker) checkReturn(stmt *ast.Return, scope map[string]types.Type, ret types.Type) {
	isVoid := ret.Equals(types.Void)

	if stmt.Value == nil {
		if !isVoid {
			c.errorf(stmt.Loc, "missing return value in function returning %s", ret)
		}

		return
	}

	if isVoid {
		c.errorf(stmt.Loc, "cannot return a value from a void function")
		return
	}

	c.checkAssignable(c.exprType(stmt.Value, scope), ret, stmt.Loc)
}

func (c *checker) checkCondition(cond ast.Expr, scope map[string]types.Type) {
	t := c.exprType(cond, scope)
	if isValueType(t) && !t.ConvertibleTo(types.Bool) {
		c.errorf(cond.ExprLoc(), "condition must be a bool or byte expression, got %s", t)
	}
}

// checkAssignable enforces the conversion lattice at an assignment-shaped
// site. An unknown type (Void, from an unresolved name the IL builder will
// report) is skipped rather than double-reported.
func (c *checker) checkAssignable(value, target types.Type, loc diag.Location) {
	if value.Equals(types.Void) || target.Equals(types.Void) {
		return
	}

	if value.ConvertibleTo(target) {
		return
	}

	if value.NarrowableTo(target) {
		c.errorf(loc, "cannot narrow %s to %s without an explicit cast", value, target)
		return
	}

	c.errorf(loc, "type mismatch: cannot assign %s to %s", value, target)
}

// exprType computes an expression's semantic type. Unresolvable parts
// return Void, which every check treats as "unknown, already reported
// elsewhere" — the IL builder owns unresolved-name and out-of-range-literal
// diagnostics, so this walk stays silent on them.
func (c *checker) exprType(e ast.Expr, scope map[string]types.Type) types.Type {
	switch expr := e.(type) {
	case *ast.IntLiteral:
		t, err := types.TypeOfIntegerLiteral(uint32(expr.Value))
		if err != nil {
			return types.Word
		}

		return t
	case *ast.BoolLiteral:
		return types.Bool
	case *ast.Identifier:
		if t, ok := scope[expr.Name]; ok {
			return t
		}

		if sym, ok := c.globals.Lookup(expr.Name, c.module); ok {
			return sym.Type
		}

		return types.Void
	case *ast.AddressOf:
		return types.Word
	case *ast.Binary:
		return c.binaryType(expr, scope)
	case *ast.Unary:
		if expr.Op == ast.OpLogicalNot {
			c.exprType(expr.Operand, scope)
			return types.Bool
		}

		return c.exprType(expr.Operand, scope)
	case *ast.Index:
		c.exprType(expr.Index, scope)
		return c.elementType(expr.Array, scope)
	case *ast.Member:
		return c.memberType(expr)
	case *ast.Call:
		return c.callType(expr, scope)
	case *ast.Cast:
		return c.castType(expr, scope)
	default:
		return types.Void
	}
}

func (c *checker) binaryType(expr *ast.Binary, scope map[string]types.Type) types.Type {
	lhs := c.exprType(expr.Lhs, scope)
	rhs := c.exprType(expr.Rhs, scope)

	switch expr.Op {
	case ast.OpEq, ast.OpNe, ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe:
		return types.Bool
	}

	if !isValueType(lhs) {
		return rhs
	}

	if isValueType(rhs) && rhs.BitWidth() > lhs.BitWidth() {
		return rhs
	}

	return lhs
}

func (c *checker) callType(expr *ast.Call, scope map[string]types.Type) types.Type {
	for _, a := range expr.Args {
		c.exprType(a, scope)
	}

	switch expr.Callee {
	case "peek":
		return types.Byte
	case "peekw":
		return types.Word
	case "poke", "pokew", "sei", "cli", "nop", "pha", "pla", "php", "plp":
		return types.Void
	}

	sym, ok := c.globals.Lookup(expr.Callee, c.module)
	if !ok || sym.Type.Kind() != types.KindFunction {
		return types.Void
	}

	params := sym.Type.Params()
	if len(expr.Args) != len(params) {
		c.errorf(expr.Loc, "%q expects %d argument(s), got %d", expr.Callee, len(params), len(expr.Args))
	}

	return sym.Type.Return()
}

func (c *checker) castType(expr *ast.Cast, scope map[string]types.Type) types.Type {
	operand := c.exprType(expr.Operand, scope)
	target := resolveType(expr.Target)

	if isValueType(operand) && isValueType(target) && !operand.NarrowableTo(target) {
		c.errorf(expr.Loc, "cannot cast %s to %s", operand, target)
	}

	return target
}

// elementType resolves the element type of an indexed array expression.
func (c *checker) elementType(array ast.Expr, scope map[string]types.Type) types.Type {
	id, ok := array.(*ast.Identifier)
	if !ok {
		return types.Void
	}

	if t, found := scope[id.Name]; found && t.Kind() == types.KindArray {
		return t.Element()
	}

	if sym, found := c.globals.Lookup(id.Name, c.module); found && sym.Type.Kind() == types.KindArray {
		return sym.Type.Element()
	}

	return types.Void
}

// memberType resolves a memory-mapped struct field access to the field's
// declared type.
func (c *checker) memberType(expr *ast.Member) types.Type {
	id, ok := expr.Base.(*ast.Identifier)
	if !ok {
		return types.Void
	}

	sym, found := c.globals.Lookup(id.Name, c.module)
	if !found || sym.Map == nil {
		return types.Void
	}

	for _, f := range sym.Map.Fields {
		if f.Name == expr.Field {
			return f.Type
		}
	}

	c.errorf(expr.Loc, "%q has no field %q", id.Name, expr.Field)

	return types.Void
}

func isValueType(t types.Type) bool {
	switch t.Kind() {
	case types.KindByte, types.KindWord, types.KindBool:
		return true
	default:
		return false
	}
}

func cloneScope(scope map[string]types.Type) map[string]types.Type {
	out := make(map[string]types.Type, len(scope))
	for k, v := range scope {
		out[k] = v
	}

	return out
}
