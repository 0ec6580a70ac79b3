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
	"testing"

	"github.com/raster6502/compiler/internal/assert"
)

const sampleProgram = `{
  "modules": [
    {
      "name": "main",
      "filename": "main.r6502",
      "imports": [],
      "declarations": [
        {
          "kind": "const",
          "name": "BORDER",
          "exported": false,
          "value": {"kind": "int", "value": 53280, "isHex": false}
        },
        {
          "kind": "func",
          "name": "main",
          "exported": true,
          "body": [
            {
              "kind": "local",
              "name": "x",
              "initializer": {"kind": "int", "value": 1, "isHex": false}
            },
            {
              "kind": "if",
              "cond": {
                "kind": "binary",
                "op": 10,
                "lhs": {"kind": "ident", "name": "x"},
                "rhs": {"kind": "int", "value": 0, "isHex": false}
              },
              "then": [
                {
                  "kind": "assign",
                  "target": {"kind": "ident", "name": "x"},
                  "value": {"kind": "int", "value": 2, "isHex": false}
                }
              ],
              "else": null
            },
            {
              "kind": "exprstmt",
              "expr": {
                "kind": "call",
                "callee": "poke",
                "args": [
                  {"kind": "ident", "name": "BORDER"},
                  {"kind": "int", "value": 0, "isHex": false}
                ]
              }
            },
            {"kind": "return", "value": null}
          ]
        }
      ]
    }
  ]
}`

func TestDecodeProgramBuildsModuleAndFuncBody(t *testing.T) {
	prog, err := DecodeProgram([]byte(sampleProgram))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assert.Equal(t, 1, len(prog.Modules))

	mod := prog.Modules[0]
	assert.Equal(t, "main", mod.Name)
	assert.Equal(t, 2, len(mod.Declarations))

	constDecl, ok := mod.Declarations[0].(*ConstDecl)
	if !ok {
		t.Fatalf("expected *ConstDecl, got %T", mod.Declarations[0])
	}

	assert.Equal(t, "BORDER", constDecl.Name)

	lit, ok := constDecl.Value.(*IntLiteral)
	if !ok {
		t.Fatalf("expected *IntLiteral, got %T", constDecl.Value)
	}

	assert.Equal(t, uint64(53280), lit.Value)

	fn, ok := mod.Declarations[1].(*FuncDecl)
	if !ok {
		t.Fatalf("expected *FuncDecl, got %T", mod.Declarations[1])
	}

	assert.Equal(t, 4, len(fn.Body))

	local, ok := fn.Body[0].(*LocalDecl)
	if !ok {
		t.Fatalf("expected *LocalDecl, got %T", fn.Body[0])
	}

	assert.Equal(t, "x", local.Name)

	ifStmt, ok := fn.Body[1].(*If)
	if !ok {
		t.Fatalf("expected *If, got %T", fn.Body[1])
	}

	assert.Equal(t, 1, len(ifStmt.Then))
	assert.True(t, ifStmt.Else == nil)

	call, ok := fn.Body[2].(*ExprStmt)
	if !ok {
		t.Fatalf("expected *ExprStmt, got %T", fn.Body[2])
	}

	callExpr, ok := call.Expr.(*Call)
	if !ok {
		t.Fatalf("expected *Call, got %T", call.Expr)
	}

	assert.Equal(t, "poke", callExpr.Callee)
	assert.Equal(t, 2, len(callExpr.Args))

	ret, ok := fn.Body[3].(*Return)
	if !ok {
		t.Fatalf("expected *Return, got %T", fn.Body[3])
	}

	assert.True(t, ret.Value == nil)
}

func TestDecodeProgramRejectsUnknownExprKind(t *testing.T) {
	_, err := DecodeProgram([]byte(`{"modules":[{"name":"m","declarations":[
		{"kind":"const","name":"C","value":{"kind":"bogus"}}
	]}]}`))
	if err == nil {
		t.Fatalf("expected an error for an unknown expression kind")
	}
}
