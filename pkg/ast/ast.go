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

// Package ast defines the shape of the AST produced by the (external) lexer
// and parser. This package owns no parsing logic: it is the contract between
// the out-of-scope front-end and this compiler's semantic orchestrator
// and IL builder. Every node carries a source location for diagnostics
// and for the source map emitted by codegen.
//
// Names are not yet resolved to symbols at this stage: Identifier,
// Call and AddressOf nodes carry plain strings, resolved by pkg/sema and
// pkg/ilbuild.
package ast

import "github.com/raster6502/compiler/pkg/diag"

// TypeExprKind identifies the textual type-expression shape the parser
// produced, before pkg/types resolves it.
type TypeExprKind uint8

const (
	// TypeByte names the "byte" primitive.
	TypeByte TypeExprKind = iota
	// TypeWord names the "word" primitive.
	TypeWord
	// TypeBool names the "bool" primitive.
	TypeBool
	// TypeVoid names the "void" primitive (function returns only).
	TypeVoid
	// TypeArray names an "elem[size]" or "elem[]" array type.
	TypeArray
)

// TypeExpr is the unresolved, source-level spelling of a type.
type TypeExpr struct {
	Kind TypeExprKind
	// Element is set when Kind == TypeArray.
	Element *TypeExpr
	// HasSize indicates the brackets were not empty.
	HasSize bool
	// Size is the declared array length, valid when HasSize is true.
	Size uint32
	Loc  diag.Location
}

// Program is the top-level parse result: an unordered bag of modules, in the
// order the (external) driver discovered their source files.
type Program struct {
	Modules []*Module
}

// Import names another module this module's declarations may reference.
type Import struct {
	Module string
	Loc    diag.Location
}

// Module is a single compilation unit: a name, its imports, and its ordered
// top-level declarations.
type Module struct {
	Name         string
	Imports      []Import
	Declarations []Declaration
	// Filename is the originating source file, carried through to the IL
	// module and the source map.
	Filename string
}

// Declaration is any top-level construct a module can contain.
type Declaration interface {
	DeclName() string
	DeclLoc() diag.Location
	IsExported() bool
}

// Param is one function parameter.
type Param struct {
	Name string
	Type TypeExpr
}

// VarDecl declares a global variable, optionally pinned to a storage class
// and/or an explicit address, optionally initialized.
type VarDecl struct {
	Name        string
	Type        TypeExpr
	Storage     StorageKeyword
	Address     Expr // non-nil iff the declaration pinned an explicit address
	Initializer Expr // may be nil
	Exported    bool
	Loc         diag.Location
}

// StorageKeyword is the source-level storage-class keyword, or its absence.
type StorageKeyword uint8

const (
	// StorageNone means no keyword was given (the "Default" storage class).
	StorageNone StorageKeyword = iota
	StorageZeroPage
	StorageRAM
	StorageData
)

// DeclName implements Declaration.
func (d *VarDecl) DeclName() string { return d.Name }

// DeclLoc implements Declaration.
func (d *VarDecl) DeclLoc() diag.Location { return d.Loc }

// IsExported implements Declaration.
func (d *VarDecl) IsExported() bool { return d.Exported }

// ConstDecl declares a compile-time constant.
type ConstDecl struct {
	Name     string
	Type     TypeExpr
	Value    Expr
	Exported bool
	Loc      diag.Location
}

// DeclName implements Declaration.
func (d *ConstDecl) DeclName() string { return d.Name }

// DeclLoc implements Declaration.
func (d *ConstDecl) DeclLoc() diag.Location { return d.Loc }

// IsExported implements Declaration.
func (d *ConstDecl) IsExported() bool { return d.Exported }

// FuncDecl declares a function.
type FuncDecl struct {
	Name       string
	Params     []Param
	ReturnType TypeExpr
	Body       []Stmt
	Exported   bool
	Loc        diag.Location
}

// DeclName implements Declaration.
func (d *FuncDecl) DeclName() string { return d.Name }

// DeclLoc implements Declaration.
func (d *FuncDecl) DeclLoc() diag.Location { return d.Loc }

// IsExported implements Declaration.
func (d *FuncDecl) IsExported() bool { return d.Exported }

// MemoryMapField is one named field of a "map" declaration's struct forms.
type MemoryMapField struct {
	Name string
	Type TypeExpr
	// Offset is given explicitly (FormExplicit) or computed sequentially
	// (FormSequential) by the resolver.
	Offset   uint16
	HasRange bool
	RangeLen uint16
}

// MemoryMapForm mirrors symbols.MemoryMapForm at the AST level, before
// addresses have been constant-folded.
type MemoryMapForm uint8

const (
	MapSingle MemoryMapForm = iota
	MapRange
	MapSequentialStruct
	MapExplicitStruct
)

// MemoryMapDecl declares a memory-mapped hardware register or register
// block, in one of the four supported address-encoding forms.
type MemoryMapDecl struct {
	Name        string
	Form        MemoryMapForm
	ElementType TypeExpr // valid for MapSingle, MapRange
	Address     Expr     // base/single address expression; must be numeric-word foldable
	RangeLen    uint16   // valid for MapRange
	Fields      []MemoryMapField
	Exported    bool
	Loc         diag.Location
}

// DeclName implements Declaration.
func (d *MemoryMapDecl) DeclName() string { return d.Name }

// DeclLoc implements Declaration.
func (d *MemoryMapDecl) DeclLoc() diag.Location { return d.Loc }

// IsExported implements Declaration.
func (d *MemoryMapDecl) IsExported() bool { return d.Exported }

// ============================================================================
// Expressions
// ============================================================================

// BinaryOp enumerates the binary operators, matching the IL's binary opcodes
// one-for-one.
type BinaryOp uint8

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpAnd
	OpOr
	OpXor
	OpShl
	OpShr
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

// UnaryOp enumerates the unary operators.
type UnaryOp uint8

const (
	OpNeg UnaryOp = iota
	OpBitNot
	OpLogicalNot
)

// Expr is any expression node.
type Expr interface {
	ExprLoc() diag.Location
}

// IntLiteral is a decimal or hexadecimal integer literal. IsHex is retained
// only for pretty-printing; typing is value-based for both forms.
type IntLiteral struct {
	Value uint64
	IsHex bool
	Loc   diag.Location
}

// ExprLoc implements Expr.
func (e *IntLiteral) ExprLoc() diag.Location { return e.Loc }

// BoolLiteral is a "true"/"false" literal.
type BoolLiteral struct {
	Value bool
	Loc   diag.Location
}

// ExprLoc implements Expr.
func (e *BoolLiteral) ExprLoc() diag.Location { return e.Loc }

// ArrayLiteral is a bracketed list of element expressions, e.g. "[1,2,3]".
type ArrayLiteral struct {
	Elements []Expr
	Loc      diag.Location
}

// ExprLoc implements Expr.
func (e *ArrayLiteral) ExprLoc() diag.Location { return e.Loc }

// Identifier references a named symbol: a variable, constant, or function.
type Identifier struct {
	Name string
	Loc  diag.Location
}

// ExprLoc implements Expr.
func (e *Identifier) ExprLoc() diag.Location { return e.Loc }

// AddressOf is the "@name" operator. The operand must be
// a bare named symbol; "@literal" and "@(expr)" are rejected during semantic
// analysis, but the parser is permitted to produce them here so that
// rejection can carry a precise diagnostic.
type AddressOf struct {
	Operand Expr
	Loc     diag.Location
}

// ExprLoc implements Expr.
func (e *AddressOf) ExprLoc() diag.Location { return e.Loc }

// Binary is a binary operator expression.
type Binary struct {
	Op  BinaryOp
	Lhs Expr
	Rhs Expr
	Loc diag.Location
}

// ExprLoc implements Expr.
func (e *Binary) ExprLoc() diag.Location { return e.Loc }

// Unary is a unary operator expression.
type Unary struct {
	Op      UnaryOp
	Operand Expr
	Loc     diag.Location
}

// ExprLoc implements Expr.
func (e *Unary) ExprLoc() diag.Location { return e.Loc }

// Index is an array element access, "arr[index]".
type Index struct {
	Array Expr
	Index Expr
	Loc   diag.Location
}

// ExprLoc implements Expr.
func (e *Index) ExprLoc() diag.Location { return e.Loc }

// Member is a memory-mapped struct field access, "reg.field".
type Member struct {
	Base  Expr
	Field string
	Loc   diag.Location
}

// ExprLoc implements Expr.
func (e *Member) ExprLoc() diag.Location { return e.Loc }

// Call is a function call or a recognized intrinsic (peek/poke/peekw/pokew,
// sei/cli/nop/pha/pla/php/plp). Intrinsic recognition happens by name in
// pkg/ilbuild, not here.
type Call struct {
	Callee string
	Args   []Expr
	Loc    diag.Location
}

// ExprLoc implements Expr.
func (e *Call) ExprLoc() diag.Location { return e.Loc }

// Cast is an explicit type-narrowing conversion, "target(expr)".
type Cast struct {
	Target  TypeExpr
	Operand Expr
	Loc     diag.Location
}

// ExprLoc implements Expr.
func (e *Cast) ExprLoc() diag.Location { return e.Loc }

// ============================================================================
// Statements
// ============================================================================

// Stmt is any statement node.
type Stmt interface {
	StmtLoc() diag.Location
}

// LocalDecl declares a function-local variable with "let".
type LocalDecl struct {
	Name        string
	Type        TypeExpr
	Initializer Expr
	Loc         diag.Location
}

// StmtLoc implements Stmt.
func (s *LocalDecl) StmtLoc() diag.Location { return s.Loc }

// Assign assigns a value to a variable, array element, or mapped register.
type Assign struct {
	Target Expr
	Value  Expr
	Loc    diag.Location
}

// StmtLoc implements Stmt.
func (s *Assign) StmtLoc() diag.Location { return s.Loc }

// ExprStmt evaluates an expression for its side effects (e.g. a bare
// "poke(...)" or function call).
type ExprStmt struct {
	Expr Expr
	Loc  diag.Location
}

// StmtLoc implements Stmt.
func (s *ExprStmt) StmtLoc() diag.Location { return s.Loc }

// If is a conditional statement with an optional else branch.
type If struct {
	Cond Expr
	Then []Stmt
	Else []Stmt // nil if there is no else branch
	Loc  diag.Location
}

// StmtLoc implements Stmt.
func (s *If) StmtLoc() diag.Location { return s.Loc }

// While is a pre-tested loop.
type While struct {
	Cond Expr
	Body []Stmt
	Loc  diag.Location
}

// StmtLoc implements Stmt.
func (s *While) StmtLoc() diag.Location { return s.Loc }

// ForNumeric is a "for i in start to end { ... }" loop.
type ForNumeric struct {
	Var   string
	Start Expr
	End   Expr
	Body  []Stmt
	Loc   diag.Location
}

// StmtLoc implements Stmt.
func (s *ForNumeric) StmtLoc() diag.Location { return s.Loc }

// Return returns from the enclosing function, with or without a value.
type Return struct {
	Value Expr // nil for a void return
	Loc   diag.Location
}

// StmtLoc implements Stmt.
func (s *Return) StmtLoc() diag.Location { return s.Loc }

// Break exits the nearest enclosing loop.
type Break struct {
	Loc diag.Location
}

// StmtLoc implements Stmt.
func (s *Break) StmtLoc() diag.Location { return s.Loc }

// Continue jumps to the nearest enclosing loop's header.
type Continue struct {
	Loc diag.Location
}

// StmtLoc implements Stmt.
func (s *Continue) StmtLoc() diag.Location { return s.Loc }
