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

import "github.com/raster6502/compiler/pkg/il"

// RewriteConstantHardwareAccess is the constant-address folding pass: a
// PEEK whose address operand is a compile-time constant becomes a
// HARDWARE_READ, and a constant-address POKE becomes a HARDWARE_WRITE. It
// runs once per module, after BuildModule and before il.Verify, so codegen's Tier 1 HARDWARE_READ/WRITE
// branch - not the simplified indirect $FB/$FC addressing - handles every
// peek/poke whose address happens to be known at compile time.
//
// PEEKW/POKEW follow the same rewrite policy only when both the address
// and the value are constant: HARDWARE_READ/HARDWARE_WRITE are single-byte
// hardware accesses, so a POKEW with a constant value splits cleanly into
// a low-byte and
// a high-byte HARDWARE_WRITE at addr and addr+1. A PEEKW, or a POKEW whose
// value lives in a register, cannot be rewritten this way: there is no
// opcode in this IL to recombine two byte-sized hardware reads into one
// word register, so those keep the indirect lowering regardless of their
// address.
func RewriteConstantHardwareAccess(mod *il.Module) {
	for _, fn := range mod.Functions {
		for _, b := range fn.Blocks {
			b.Instructions = rewriteBlock(b.Instructions)
		}
	}
}

func rewriteBlock(instructions []*il.Instruction) []*il.Instruction {
	out := make([]*il.Instruction, 0, len(instructions))

	for _, ins := range instructions {
		out = append(out, rewriteInstruction(ins)...)
	}

	return out
}

func rewriteInstruction(ins *il.Instruction) []*il.Instruction {
	switch ins.Op {
	case il.OpPeek:
		if !ins.AddrReg.IsConst() {
			return []*il.Instruction{ins}
		}

		rewritten := il.NewHardwareRead(*ins.Result, ins.AddrReg.Const().Word())
		rewritten.Meta = ins.Meta

		return []*il.Instruction{rewritten}

	case il.OpPoke:
		if !ins.AddrReg.IsConst() {
			return []*il.Instruction{ins}
		}

		rewritten := il.NewHardwareWrite(ins.AddrReg.Const().Word(), ins.Value)
		rewritten.Meta = ins.Meta

		return []*il.Instruction{rewritten}

	case il.OpPokew:
		if !ins.AddrReg.IsConst() || !ins.Value.IsConst() {
			return []*il.Instruction{ins}
		}

		addr := ins.AddrReg.Const().Word()
		value := ins.Value.Const().Word()

		low := il.NewHardwareWrite(addr, il.ConstOperand(il.ConstByte(uint8(value))))
		low.Meta = ins.Meta

		high := il.NewHardwareWrite(addr+1, il.ConstOperand(il.ConstByte(uint8(value>>8))))
		high.Meta = ins.Meta

		return []*il.Instruction{low, high}

	default:
		return []*il.Instruction{ins}
	}
}
