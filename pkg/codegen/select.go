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
package codegen

import (
	"fmt"

	"github.com/raster6502/compiler/pkg/diag"
	"github.com/raster6502/compiler/pkg/il"
	"github.com/raster6502/compiler/pkg/types"
)

// zpPointerLow/High name the reserved zero-page pointer pair used for
// indirect PEEK/POKE lowering.
const (
	zpPointerLow  = 0xFB
	zpPointerHigh = 0xFC
)

// cpuMnemonics maps the CPU-level escape opcodes to their literal 6502
// mnemonics; these are Tier 1 since the translation is exact.
var cpuMnemonics = map[il.Opcode]string{
	il.OpCPUSei: "SEI", il.OpCPUCli: "CLI", il.OpCPUNop: "NOP",
	il.OpCPUPha: "PHA", il.OpCPUPla: "PLA", il.OpCPUPhp: "PHP", il.OpCPUPlp: "PLP",
}

// tier2Mnemonics maps a binary opcode to the conservative stub mnemonic
// Tier 2 emits.
var tier2Mnemonics = map[il.Opcode]string{
	il.OpAdd: "ADC", il.OpSub: "SBC",
	il.OpAnd: "AND", il.OpOr: "ORA", il.OpXor: "EOR",
}

// emitInstruction lowers one IL instruction, following the three-tier
// translation scheme, into the function currently being emitted (whose
// block-label resolution is held in g.blockLabels). It records a source map
// entry when the instruction carries a known source location.
func (g *generator) emitInstruction(ins *il.Instruction) {
	line := g.w.LineCount()

	switch ins.Op {
	case il.OpConst:
		g.emitConst(ins)
	case il.OpHardwareWrite:
		g.loadValueIfConst(ins.Value)
		g.w.Instruction("STA", hexWord(ins.Addr), "value presumed in A")
	case il.OpHardwareRead:
		g.w.Instruction("LDA", hexWord(ins.Addr), "")
	case il.OpReturnVoid:
		g.w.Instruction("RTS", "", "")
	case il.OpReturn:
		g.w.Instruction("RTS", "", "value-in-A convention")
	case il.OpJump:
		g.w.Instruction("JMP", g.blockLabels[ins.Target], "")
	case il.OpBranch:
		g.w.Instruction("JMP", g.blockLabels[ins.Then], fmt.Sprintf("true branch; false -> %s", g.blockLabels[ins.Else]))
		g.warn(diag.KindCodegen, "conditional branch simplified to an unconditional jump pending register allocation")
	case il.OpLoadAddress:
		g.w.Instruction("LDA", "#<"+ins.VarName, "#>"+ins.VarName+" holds the high byte")
	case il.OpLoadVar:
		g.emitVarAccess("LDA", ins.VarName)
	case il.OpStoreVar:
		g.loadValueIfConst(ins.Value)
		g.emitVarAccess("STA", ins.VarName)
	case il.OpLoadArray:
		g.emitArrayAccess("LDA", ins.VarName, ins.Index, elementWidth(resultType(ins)))
	case il.OpStoreArray:
		g.loadValueIfConst(ins.Value)
		g.emitArrayAccess("STA", ins.VarName, ins.Index, elementWidth(ins.Value.Type()))
	case il.OpAdd, il.OpSub, il.OpAnd, il.OpOr, il.OpXor:
		g.emitTier2Binary(ins)
	case il.OpNot:
		g.w.Instruction("EOR", "#$FF", "NOT")
		g.warn(diag.KindCodegen, "unary NOT lowered to a conservative EOR stub")
	case il.OpCall, il.OpCallVoid:
		g.w.Instruction("JSR", "_"+ins.VarName, "")
	case il.OpPeek:
		g.emitIndirect("LDA", "PEEK")
	case il.OpPoke:
		g.loadValueIfConst(ins.Value)
		g.emitIndirect("STA", "POKE")
	case il.OpPeekw:
		g.emitIndirectWord("LDA", "PEEKW")
	case il.OpPokew:
		g.emitIndirectWord("STA", "POKEW")
	case il.OpCPUSei, il.OpCPUCli, il.OpCPUNop, il.OpCPUPha, il.OpCPUPla, il.OpCPUPhp, il.OpCPUPlp:
		g.w.Instruction(cpuMnemonics[ins.Op], "", "")
	default:
		g.emitTier3Placeholder(ins)
	}

	if !ins.Meta.Loc.IsZero() {
		g.sourceMap.Add(il.SourceMapEntry{
			AssemblyLine: line, SourceFile: ins.Meta.Loc.File,
			SourceLine: ins.Meta.Loc.Line, SourceColumn: ins.Meta.Loc.Column,
			Note: ins.Op.String(),
		})
	}
}

// emitConst lowers CONST to an LDA immediate (or a low/high-byte sequence
// for word constants, since Tier 1's accumulator-centric model can only
// carry one byte at a time).
func (g *generator) emitConst(ins *il.Instruction) {
	g.emitConstValue(ins.ConstVal)
}

func (g *generator) emitConstValue(v il.ConstValue) {
	if v.Type.Kind() == types.KindWord {
		g.w.Instruction("LDA", fmt.Sprintf("#%s", hexByte(uint8(v.Word()&0xFF))), "low byte")
		g.w.Instruction("LDA", fmt.Sprintf("#%s", hexByte(uint8(v.Word()>>8))), "high byte")

		return
	}

	g.w.Instruction("LDA", fmt.Sprintf("#%s", hexByte(v.Byte())), "")
}

// loadValueIfConst materializes a constant store value into the
// accumulator. Register values arrive in A by the producer contract and
// need nothing here.
func (g *generator) loadValueIfConst(op il.Operand) {
	if op.IsConst() {
		g.emitConstValue(op.Const())
	}
}

// emitVarAccess resolves a variable to its storage address and emits
// LDA/STA against zero-page or absolute addressing accordingly.
func (g *generator) emitVarAccess(mnemonic, name string) {
	if loc, ok := g.storage.lookup(name); ok {
		if loc.zeroPage {
			g.w.Instruction(mnemonic, hexByte(uint8(loc.address)), "")
		} else {
			g.w.Instruction(mnemonic, hexWord(loc.address), "")
		}

		return
	}

	// Memory-mapped or cross-module: resolved by label, not an address we
	// planned ourselves.
	g.w.Instruction(mnemonic, name, "")
}

// emitArrayAccess lowers an indexed array element access. A constant index
// folds into the element's address and is exact; a register index uses
// absolute,Y addressing with the index presumed staged in Y by the
// producer — the same kind of unenforced contract as "value in A", so it
// carries a warning until register allocation pins it down.
func (g *generator) emitArrayAccess(mnemonic, name string, index il.Operand, elemWidth uint16) {
	base, known := g.storage.lookup(name)

	if index.IsConst() {
		offset := index.Const().Word() * elemWidth

		if known {
			g.w.Instruction(mnemonic, hexWord(base.address+offset), name+" element")
		} else {
			g.w.Instruction(mnemonic, fmt.Sprintf("%s+%d", name, offset), "")
		}

		return
	}

	operand := name
	if known {
		operand = hexWord(base.address)
	}

	g.w.Instruction(mnemonic, operand+",Y", "index presumed in Y")
	g.warn(diag.KindCodegen, "indexed array access assumes the index is staged in Y pending register allocation")
}

// resultType is the type of the register an instruction defines, or byte
// when it defines none.
func resultType(ins *il.Instruction) types.Type {
	if ins.Result != nil {
		return ins.Result.Type
	}

	return types.Byte
}

func elementWidth(t types.Type) uint16 {
	if t.Kind() == types.KindWord {
		return 2
	}

	return 1
}

func (g *generator) emitTier2Binary(ins *il.Instruction) {
	mnemonic := tier2Mnemonics[ins.Op]
	g.w.Comment(fmt.Sprintf("%s: simplified binary lowering, full register allocation pending", ins.Op))

	if ins.Op == il.OpAdd || ins.Op == il.OpSub {
		g.w.Instruction("CLC", "", "")
	}

	g.w.Instruction(mnemonic, "", "operands resolved by register allocation")
	g.warn(diag.KindCodegen, fmt.Sprintf("%s lowered to a conservative %s stub", ins.Op, mnemonic))
}

func (g *generator) emitIndirect(mnemonic, name string) {
	g.w.Instruction("LDY", "#$00", "")
	g.w.Instruction(mnemonic, fmt.Sprintf("(%s),Y", hexByte(zpPointerLow)), name)
	g.warn(diag.KindCodegen, name+" uses simplified indirect addressing")
}

func (g *generator) emitIndirectWord(mnemonic, name string) {
	g.w.Instruction("LDY", "#$00", "")
	g.w.Instruction(mnemonic, fmt.Sprintf("(%s),Y", hexByte(zpPointerLow)), name+" low byte")
	g.w.Instruction("INY", "", "")
	g.w.Instruction(mnemonic, fmt.Sprintf("(%s),Y", hexByte(zpPointerLow)), name+" high byte")
	g.warn(diag.KindCodegen, name+" uses simplified indirect addressing")
}

// emitTier3Placeholder handles any opcode with no Tier 1/2 translation: a
// comment naming the unsupported instruction, a NOP, and a warning.
func (g *generator) emitTier3Placeholder(ins *il.Instruction) {
	g.w.Comment(fmt.Sprintf("STUB: %s", ins.Op))
	g.w.Instruction("NOP", "", "")
	g.warn(diag.KindCodegen, fmt.Sprintf("no codegen translation for %s; emitted a placeholder NOP", ins.Op))
}

func (g *generator) warn(kind diag.Kind, message string) {
	g.diags.Add(diag.NewWarning(kind, diag.Location{}, "%s", message))
}

func hexByte(v uint8) string  { return fmt.Sprintf("$%02X", v) }
func hexWord(v uint16) string { return fmt.Sprintf("$%04X", v) }
