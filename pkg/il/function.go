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
package il

import (
	"github.com/raster6502/compiler/pkg/diag"
	"github.com/raster6502/compiler/pkg/types"
)

// Param is a function parameter: a pre-allocated virtual register plus its
// source name.
type Param struct {
	Name string
	Reg  VirtualRegister
}

// Function is a single IL function: its signature, its register factory,
// and its blocks in declaration order. The first block is always the entry
// block.
type Function struct {
	Name       string
	Params     []Param
	ReturnType types.Type
	Exported   bool
	Loc        diag.Location

	regs   registerFactory
	Blocks []*Block
}

// NewFunction constructs an empty function with the given signature. Block
// bodies and parameter registers are added by the caller (typically
// pkg/ilbuild) via NewRegister and AddBlock.
func NewFunction(name string, returnType types.Type, exported bool, loc diag.Location) *Function {
	return &Function{Name: name, ReturnType: returnType, Exported: exported, Loc: loc}
}

// NewRegister allocates a fresh virtual register unique within this
// function.
func (f *Function) NewRegister(t types.Type, name string) VirtualRegister {
	return f.regs.New(t, name)
}

// AddParam allocates a parameter register and records it as the function's
// next parameter, in declaration order.
func (f *Function) AddParam(name string, t types.Type) VirtualRegister {
	r := f.NewRegister(t, name)
	f.Params = append(f.Params, Param{Name: name, Reg: r})

	return r
}

// AddBlock appends a new block to the function and returns it.
func (f *Function) AddBlock(label string) *Block {
	b := NewBlock(label)
	f.Blocks = append(f.Blocks, b)

	return b
}

// Block returns the block with the given label, or nil if none exists.
func (f *Function) Block(label string) *Block {
	for _, b := range f.Blocks {
		if b.Label == label {
			return b
		}
	}

	return nil
}

// EntryBlock returns the function's first block, or nil if it has none.
func (f *Function) EntryBlock() *Block {
	if len(f.Blocks) == 0 {
		return nil
	}

	return f.Blocks[0]
}

// IsVoid reports whether this function returns no value.
func (f *Function) IsVoid() bool {
	return f.ReturnType.Equals(types.Void)
}
