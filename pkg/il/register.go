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

// Package il implements the typed SSA-form intermediate language: virtual
// registers, operands, the instruction set, basic blocks, functions,
// modules, SSA construction and verification.
package il

import (
	"fmt"

	"github.com/raster6502/compiler/pkg/types"
)

// VirtualRegister is a single SSA value: an identifier, unique within its
// owning function, a type, and an optional debug name.
type VirtualRegister struct {
	ID   uint32
	Type types.Type
	// Name is an optional debug name (e.g. the source variable this register
	// was assigned from); empty for purely synthetic temporaries.
	Name string
}

// String renders the register in the canonical "r<id>" textual form used
// throughout disassembly and error messages.
func (r VirtualRegister) String() string {
	if r.Name != "" {
		return fmt.Sprintf("r%d(%s)", r.ID, r.Name)
	}

	return fmt.Sprintf("r%d", r.ID)
}

// registerFactory is the unique source of register IDs for one function.
// The common bug this design prevents is using per-variable
// "version numbers" as register IDs, which collide across distinct variables
// that are each first assigned version 0. A monotonic counter shared by the
// whole function cannot collide.
type registerFactory struct {
	next uint32
}

// New allocates and returns a fresh virtual register of the given type and
// optional debug name.
func (f *registerFactory) New(t types.Type, name string) VirtualRegister {
	id := f.next
	f.next++

	return VirtualRegister{ID: id, Type: t, Name: name}
}
