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
	"fmt"

	"github.com/raster6502/compiler/pkg/types"
)

// ConstValue is a typed constant: a byte, word, or bool value. Values are
// stored widened into a uint64 for simplicity; Type determines how many bits
// are significant.
type ConstValue struct {
	Type types.Type
	raw  uint64
}

// ConstByte constructs a byte-typed constant.
func ConstByte(v uint8) ConstValue { return ConstValue{Type: types.Byte, raw: uint64(v)} }

// ConstWord constructs a word-typed constant.
func ConstWord(v uint16) ConstValue { return ConstValue{Type: types.Word, raw: uint64(v)} }

// ConstBool constructs a bool-typed constant.
func ConstBool(v bool) ConstValue {
	var raw uint64
	if v {
		raw = 1
	}

	return ConstValue{Type: types.Bool, raw: raw}
}

// Uint64 returns the constant's raw value widened to 64 bits.
func (c ConstValue) Uint64() uint64 { return c.raw }

// Byte returns the constant's value truncated to 8 bits.
func (c ConstValue) Byte() uint8 { return uint8(c.raw) }

// Word returns the constant's value truncated to 16 bits.
func (c ConstValue) Word() uint16 { return uint16(c.raw) }

// Bool returns the constant's value as a Go bool (non-zero is true).
func (c ConstValue) Bool() bool { return c.raw != 0 }

// String renders the constant using its natural decimal form.
func (c ConstValue) String() string {
	switch c.Type.Kind() {
	case types.KindBool:
		return fmt.Sprintf("%t", c.Bool())
	case types.KindWord:
		return fmt.Sprintf("%d", c.Word())
	default:
		return fmt.Sprintf("%d", c.Byte())
	}
}

// Operand is either a virtual register or a typed constant value.
type Operand struct {
	isConst bool
	reg     VirtualRegister
	value   ConstValue
}

// RegOperand wraps a virtual register as an operand.
func RegOperand(r VirtualRegister) Operand {
	return Operand{reg: r}
}

// ConstOperand wraps a constant value as an operand.
func ConstOperand(v ConstValue) Operand {
	return Operand{isConst: true, value: v}
}

// IsConst reports whether this operand is a constant (as opposed to a
// register reference).
func (o Operand) IsConst() bool { return o.isConst }

// IsRegister reports whether this operand references a virtual register.
func (o Operand) IsRegister() bool { return !o.isConst }

// Register returns the referenced register. Panics if this operand is a
// constant.
func (o Operand) Register() VirtualRegister {
	if o.isConst {
		panic("Register() called on a constant operand")
	}

	return o.reg
}

// Const returns the constant value. Panics if this operand is a register.
func (o Operand) Const() ConstValue {
	if !o.isConst {
		panic("Const() called on a register operand")
	}

	return o.value
}

// Type returns the static type of whichever value this operand holds.
func (o Operand) Type() types.Type {
	if o.isConst {
		return o.value.Type
	}

	return o.reg.Type
}

// String renders the operand in canonical textual form.
func (o Operand) String() string {
	if o.isConst {
		return o.value.String()
	}

	return o.reg.String()
}
