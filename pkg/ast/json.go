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
package ast

import (
	"encoding/json"
	"fmt"
)

// DecodeProgram parses the JSON interchange format this repo's CLI reads: a
// tagged-union encoding ({"kind": "...", ...}) for every Declaration/Expr/Stmt
// node, standing in for whatever wire format the out-of-scope front end
// actually produces. Declaration and expression/statement order within a
// module is preserved.
func DecodeProgram(data []byte) (*Program, error) {
	var wire struct {
		Modules []json.RawMessage `json:"modules"`
	}

	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("decoding program: %w", err)
	}

	prog := &Program{}

	for _, raw := range wire.Modules {
		mod, err := decodeModule(raw)
		if err != nil {
			return nil, err
		}

		prog.Modules = append(prog.Modules, mod)
	}

	return prog, nil
}

// DecodeModule parses a single module document: the CLI reads one source
// file per module, each encoding the
// same module shape DecodeProgram's "modules" entries use.
func DecodeModule(data []byte) (*Module, error) {
	return decodeModule(data)
}

func decodeModule(raw json.RawMessage) (*Module, error) {
	var wire struct {
		Name         string            `json:"name"`
		Filename     string            `json:"filename"`
		Imports      []Import          `json:"imports"`
		Declarations []json.RawMessage `json:"declarations"`
	}

	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("decoding module: %w", err)
	}

	mod := &Module{Name: wire.Name, Filename: wire.Filename, Imports: wire.Imports}

	for _, declRaw := range wire.Declarations {
		decl, err := decodeDecl(declRaw)
		if err != nil {
			return nil, fmt.Errorf("module %q: %w", wire.Name, err)
		}

		mod.Declarations = append(mod.Declarations, decl)
	}

	return mod, nil
}

// kindTag is the discriminator every tagged-union wire node carries.
type kindTag struct {
	Kind string `json:"kind"`
}

func decodeDecl(raw json.RawMessage) (Declaration, error) {
	var tag kindTag
	if err := json.Unmarshal(raw, &tag); err != nil {
		return nil, err
	}

	switch tag.Kind {
	case "var":
		var wire struct {
			VarDecl
			Address     *json.RawMessage `json:"address"`
			Initializer *json.RawMessage `json:"initializer"`
		}

		if err := json.Unmarshal(raw, &wire); err != nil {
			return nil, err
		}

		d := wire.VarDecl

		if wire.Address != nil {
			expr, err := decodeExpr(*wire.Address)
			if err != nil {
				return nil, err
			}

			d.Address = expr
		}

		if wire.Initializer != nil {
			expr, err := decodeExpr(*wire.Initializer)
			if err != nil {
				return nil, err
			}

			d.Initializer = expr
		}

		return &d, nil

	case "const":
		var wire struct {
			ConstDecl
			Value json.RawMessage `json:"value"`
		}

		if err := json.Unmarshal(raw, &wire); err != nil {
			return nil, err
		}

		d := wire.ConstDecl

		value, err := decodeExpr(wire.Value)
		if err != nil {
			return nil, err
		}

		d.Value = value

		return &d, nil

	case "func":
		var wire struct {
			FuncDecl
			Body []json.RawMessage `json:"body"`
		}

		if err := json.Unmarshal(raw, &wire); err != nil {
			return nil, err
		}

		d := wire.FuncDecl

		body, err := decodeStmtList(wire.Body)
		if err != nil {
			return nil, err
		}

		d.Body = body

		return &d, nil

	case "map":
		// Address is the only node-bearing field; fold expressions for map
		// declarations must be a literal/const expression, decoded the same
		// way as any other expression field.
		var wire struct {
			MemoryMapDecl
			Address json.RawMessage `json:"address"`
		}

		if err := json.Unmarshal(raw, &wire); err != nil {
			return nil, err
		}

		d := wire.MemoryMapDecl

		addr, err := decodeExpr(wire.Address)
		if err != nil {
			return nil, err
		}

		d.Address = addr

		return &d, nil

	default:
		return nil, fmt.Errorf("unknown declaration kind %q", tag.Kind)
	}
}

func decodeStmtList(raw []json.RawMessage) ([]Stmt, error) {
	if raw == nil {
		return nil, nil
	}

	stmts := make([]Stmt, 0, len(raw))

	for _, r := range raw {
		s, err := decodeStmt(r)
		if err != nil {
			return nil, err
		}

		stmts = append(stmts, s)
	}

	return stmts, nil
}

func decodeStmt(raw json.RawMessage) (Stmt, error) {
	var tag kindTag
	if err := json.Unmarshal(raw, &tag); err != nil {
		return nil, err
	}

	switch tag.Kind {
	case "local":
		var wire struct {
			LocalDecl
			Initializer *json.RawMessage `json:"initializer"`
		}

		if err := json.Unmarshal(raw, &wire); err != nil {
			return nil, err
		}

		s := wire.LocalDecl

		if wire.Initializer != nil {
			expr, err := decodeExpr(*wire.Initializer)
			if err != nil {
				return nil, err
			}

			s.Initializer = expr
		}

		return &s, nil

	case "assign":
		var wire struct {
			Assign
			Target json.RawMessage `json:"target"`
			Value  json.RawMessage `json:"value"`
		}

		if err := json.Unmarshal(raw, &wire); err != nil {
			return nil, err
		}

		s := wire.Assign

		target, err := decodeExpr(wire.Target)
		if err != nil {
			return nil, err
		}

		value, err := decodeExpr(wire.Value)
		if err != nil {
			return nil, err
		}

		s.Target, s.Value = target, value

		return &s, nil

	case "exprstmt":
		var wire struct {
			ExprStmt
			Expr json.RawMessage `json:"expr"`
		}

		if err := json.Unmarshal(raw, &wire); err != nil {
			return nil, err
		}

		s := wire.ExprStmt

		expr, err := decodeExpr(wire.Expr)
		if err != nil {
			return nil, err
		}

		s.Expr = expr

		return &s, nil

	case "if":
		var wire struct {
			If
			Cond json.RawMessage   `json:"cond"`
			Then []json.RawMessage `json:"then"`
			Else []json.RawMessage `json:"else"`
		}

		if err := json.Unmarshal(raw, &wire); err != nil {
			return nil, err
		}

		s := wire.If

		cond, err := decodeExpr(wire.Cond)
		if err != nil {
			return nil, err
		}

		then, err := decodeStmtList(wire.Then)
		if err != nil {
			return nil, err
		}

		els, err := decodeStmtList(wire.Else)
		if err != nil {
			return nil, err
		}

		s.Cond, s.Then, s.Else = cond, then, els

		return &s, nil

	case "while":
		var wire struct {
			While
			Cond json.RawMessage   `json:"cond"`
			Body []json.RawMessage `json:"body"`
		}

		if err := json.Unmarshal(raw, &wire); err != nil {
			return nil, err
		}

		s := wire.While

		cond, err := decodeExpr(wire.Cond)
		if err != nil {
			return nil, err
		}

		body, err := decodeStmtList(wire.Body)
		if err != nil {
			return nil, err
		}

		s.Cond, s.Body = cond, body

		return &s, nil

	case "fornumeric":
		var wire struct {
			ForNumeric
			Start json.RawMessage   `json:"start"`
			End   json.RawMessage   `json:"end"`
			Body  []json.RawMessage `json:"body"`
		}

		if err := json.Unmarshal(raw, &wire); err != nil {
			return nil, err
		}

		s := wire.ForNumeric

		start, err := decodeExpr(wire.Start)
		if err != nil {
			return nil, err
		}

		end, err := decodeExpr(wire.End)
		if err != nil {
			return nil, err
		}

		body, err := decodeStmtList(wire.Body)
		if err != nil {
			return nil, err
		}

		s.Start, s.End, s.Body = start, end, body

		return &s, nil

	case "return":
		var wire struct {
			Return
			Value *json.RawMessage `json:"value"`
		}

		if err := json.Unmarshal(raw, &wire); err != nil {
			return nil, err
		}

		s := wire.Return

		if wire.Value != nil {
			value, err := decodeExpr(*wire.Value)
			if err != nil {
				return nil, err
			}

			s.Value = value
		}

		return &s, nil

	case "break":
		var s Break
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}

		return &s, nil

	case "continue":
		var s Continue
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}

		return &s, nil

	default:
		return nil, fmt.Errorf("unknown statement kind %q", tag.Kind)
	}
}

func decodeExpr(raw json.RawMessage) (Expr, error) {
	var tag kindTag
	if err := json.Unmarshal(raw, &tag); err != nil {
		return nil, err
	}

	switch tag.Kind {
	case "int":
		var e IntLiteral
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, err
		}

		return &e, nil

	case "bool":
		var e BoolLiteral
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, err
		}

		return &e, nil

	case "array":
		var wire struct {
			ArrayLiteral
			Elements []json.RawMessage `json:"elements"`
		}

		if err := json.Unmarshal(raw, &wire); err != nil {
			return nil, err
		}

		e := wire.ArrayLiteral

		elems := make([]Expr, 0, len(wire.Elements))

		for _, r := range wire.Elements {
			elem, err := decodeExpr(r)
			if err != nil {
				return nil, err
			}

			elems = append(elems, elem)
		}

		e.Elements = elems

		return &e, nil

	case "ident":
		var e Identifier
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, err
		}

		return &e, nil

	case "addressof":
		var wire struct {
			AddressOf
			Operand json.RawMessage `json:"operand"`
		}

		if err := json.Unmarshal(raw, &wire); err != nil {
			return nil, err
		}

		e := wire.AddressOf

		operand, err := decodeExpr(wire.Operand)
		if err != nil {
			return nil, err
		}

		e.Operand = operand

		return &e, nil

	case "binary":
		var wire struct {
			Binary
			Lhs json.RawMessage `json:"lhs"`
			Rhs json.RawMessage `json:"rhs"`
		}

		if err := json.Unmarshal(raw, &wire); err != nil {
			return nil, err
		}

		e := wire.Binary

		lhs, err := decodeExpr(wire.Lhs)
		if err != nil {
			return nil, err
		}

		rhs, err := decodeExpr(wire.Rhs)
		if err != nil {
			return nil, err
		}

		e.Lhs, e.Rhs = lhs, rhs

		return &e, nil

	case "unary":
		var wire struct {
			Unary
			Operand json.RawMessage `json:"operand"`
		}

		if err := json.Unmarshal(raw, &wire); err != nil {
			return nil, err
		}

		e := wire.Unary

		operand, err := decodeExpr(wire.Operand)
		if err != nil {
			return nil, err
		}

		e.Operand = operand

		return &e, nil

	case "index":
		var wire struct {
			Index
			Array      json.RawMessage `json:"array"`
			IndexValue json.RawMessage `json:"index"`
		}

		if err := json.Unmarshal(raw, &wire); err != nil {
			return nil, err
		}

		e := wire.Index

		array, err := decodeExpr(wire.Array)
		if err != nil {
			return nil, err
		}

		index, err := decodeExpr(wire.IndexValue)
		if err != nil {
			return nil, err
		}

		e.Array, e.Index = array, index

		return &e, nil

	case "member":
		var wire struct {
			Member
			Base json.RawMessage `json:"base"`
		}

		if err := json.Unmarshal(raw, &wire); err != nil {
			return nil, err
		}

		e := wire.Member

		base, err := decodeExpr(wire.Base)
		if err != nil {
			return nil, err
		}

		e.Base = base

		return &e, nil

	case "call":
		var wire struct {
			Call
			Args []json.RawMessage `json:"args"`
		}

		if err := json.Unmarshal(raw, &wire); err != nil {
			return nil, err
		}

		e := wire.Call

		args := make([]Expr, 0, len(wire.Args))

		for _, r := range wire.Args {
			arg, err := decodeExpr(r)
			if err != nil {
				return nil, err
			}

			args = append(args, arg)
		}

		e.Args = args

		return &e, nil

	case "cast":
		var wire struct {
			Cast
			Operand json.RawMessage `json:"operand"`
		}

		if err := json.Unmarshal(raw, &wire); err != nil {
			return nil, err
		}

		e := wire.Cast

		operand, err := decodeExpr(wire.Operand)
		if err != nil {
			return nil, err
		}

		e.Operand = operand

		return &e, nil

	default:
		return nil, fmt.Errorf("unknown expression kind %q", tag.Kind)
	}
}
