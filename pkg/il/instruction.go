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
	"strings"

	"github.com/raster6502/compiler/pkg/diag"
)

// Opcode tags the variant of an Instruction.
type Opcode uint8

const (
	OpConst Opcode = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpAnd
	OpOr
	OpXor
	OpShl
	OpShr
	OpCmpEq
	OpCmpNe
	OpCmpLt
	OpCmpLe
	OpCmpGt
	OpCmpGe
	OpNeg
	OpNot
	OpLogicalNot
	OpLoadVar
	OpStoreVar
	OpLoadArray
	OpStoreArray
	OpJump
	OpBranch
	OpReturn
	OpReturnVoid
	OpCall
	OpCallVoid
	OpHardwareRead
	OpHardwareWrite
	OpPeek
	OpPoke
	OpPeekw
	OpPokew
	OpLoadAddress
	OpCPUSei
	OpCPUCli
	OpCPUNop
	OpCPUPha
	OpCPUPla
	OpCPUPhp
	OpCPUPlp
	OpOptBarrier
)

var opcodeNames = map[Opcode]string{
	OpConst: "CONST", OpAdd: "ADD", OpSub: "SUB", OpMul: "MUL", OpDiv: "DIV", OpMod: "MOD",
	OpAnd: "AND", OpOr: "OR", OpXor: "XOR", OpShl: "SHL", OpShr: "SHR",
	OpCmpEq: "CMP_EQ", OpCmpNe: "CMP_NE", OpCmpLt: "CMP_LT", OpCmpLe: "CMP_LE", OpCmpGt: "CMP_GT", OpCmpGe: "CMP_GE",
	OpNeg: "NEG", OpNot: "NOT", OpLogicalNot: "LOGICAL_NOT",
	OpLoadVar: "LOAD_VAR", OpStoreVar: "STORE_VAR", OpLoadArray: "LOAD_ARRAY", OpStoreArray: "STORE_ARRAY",
	OpJump: "JUMP", OpBranch: "BRANCH", OpReturn: "RETURN", OpReturnVoid: "RETURN_VOID",
	OpCall: "CALL", OpCallVoid: "CALL_VOID",
	OpHardwareRead: "HARDWARE_READ", OpHardwareWrite: "HARDWARE_WRITE",
	OpPeek: "PEEK", OpPoke: "POKE", OpPeekw: "PEEKW", OpPokew: "POKEW",
	OpLoadAddress: "LOAD_ADDRESS",
	OpCPUSei:      "CPU_SEI", OpCPUCli: "CPU_CLI", OpCPUNop: "CPU_NOP",
	OpCPUPha: "CPU_PHA", OpCPUPla: "CPU_PLA", OpCPUPhp: "CPU_PHP", OpCPUPlp: "CPU_PLP",
	OpOptBarrier: "OPT_BARRIER",
}

// String returns the canonical uppercase mnemonic of this opcode.
func (o Opcode) String() string {
	if n, ok := opcodeNames[o]; ok {
		return n
	}

	return "?"
}

// SymbolKind distinguishes what a LOAD_ADDRESS instruction's symbol refers
// to.
type SymbolKind uint8

const (
	SymVariable SymbolKind = iota
	SymFunction
)

// String implements fmt.Stringer.
func (k SymbolKind) String() string {
	if k == SymFunction {
		return "function"
	}

	return "variable"
}

// Meta is the metadata shared by every instruction: source
// location, raster-critical flag, estimated cycle cost, and free-form
// target-specific hints (e.g. the addressing mode codegen chose).
type Meta struct {
	Loc             diag.Location
	RasterCritical  bool
	EstimatedCycles uint32
	Hints           map[string]string
}

// Instruction is a single IL instruction. It is a flat, tagged-union-style
// struct rather than one interface implementation per opcode: every field
// beyond Op and Meta is only meaningful for a subset of opcodes, as
// documented per constructor below. Use the constructor functions to build a
// well-formed Instruction for a given opcode; do not populate the struct
// literally.
type Instruction struct {
	Op   Opcode
	Meta Meta

	// Result is the register this instruction defines, or nil.
	Result *VirtualRegister

	// A and B are the generic binary/unary operand slots: A is the unary
	// operand, or the lhs of a binary/comparison op; B is the rhs.
	A, B Operand

	// ConstVal holds the literal for OpConst.
	ConstVal ConstValue

	// VarName holds the variable name for LOAD_VAR/STORE_VAR, the array name
	// for LOAD_ARRAY/STORE_ARRAY, the callee name for CALL/CALL_VOID, and
	// the symbol name for LOAD_ADDRESS.
	VarName string

	// Index holds the LOAD_ARRAY/STORE_ARRAY index operand.
	Index Operand

	// Value holds the value operand for STORE_VAR, HARDWARE_WRITE, POKE,
	// POKEW, and RETURN.
	Value Operand

	// Addr holds the fixed 16-bit address for HARDWARE_READ/HARDWARE_WRITE.
	Addr uint16

	// AddrReg holds the dynamic address operand for PEEK/POKE/PEEKW/POKEW.
	AddrReg Operand

	// Args holds the call-argument list for CALL/CALL_VOID.
	Args []Operand

	// SymKind holds the symbol kind for LOAD_ADDRESS.
	SymKind SymbolKind

	// Target holds the JUMP destination label.
	Target string

	// Then and Else hold the BRANCH destination labels.
	Then, Else string

	// Cond holds the BRANCH condition operand.
	Cond Operand
}

// Operands returns every operand this instruction reads, in a stable,
// opcode-specific order.
func (i *Instruction) Operands() []Operand {
	switch i.Op {
	case OpAdd, OpSub, OpMul, OpDiv, OpMod, OpAnd, OpOr, OpXor, OpShl, OpShr,
		OpCmpEq, OpCmpNe, OpCmpLt, OpCmpLe, OpCmpGt, OpCmpGe:
		return []Operand{i.A, i.B}
	case OpNeg, OpNot, OpLogicalNot:
		return []Operand{i.A}
	case OpStoreVar, OpHardwareWrite:
		return []Operand{i.Value}
	case OpLoadArray:
		return []Operand{i.Index}
	case OpStoreArray:
		return []Operand{i.Index, i.Value}
	case OpPeek, OpPeekw:
		return []Operand{i.AddrReg}
	case OpPoke, OpPokew:
		return []Operand{i.AddrReg, i.Value}
	case OpBranch:
		return []Operand{i.Cond}
	case OpReturn:
		return []Operand{i.Value}
	case OpCall, OpCallVoid:
		return append([]Operand(nil), i.Args...)
	default:
		return nil
	}
}

// UsedRegisters returns the distinct registers read by this instruction.
func (i *Instruction) UsedRegisters() []VirtualRegister {
	var regs []VirtualRegister

	for _, op := range i.Operands() {
		if op.IsRegister() {
			regs = append(regs, op.Register())
		}
	}

	return regs
}

// ResultOption returns the result register and true, or the zero value and
// false if this instruction produces no result.
func (i *Instruction) ResultOption() (VirtualRegister, bool) {
	if i.Result == nil {
		return VirtualRegister{}, false
	}

	return *i.Result, true
}

// HasSideEffects reports whether this instruction must not be reordered or
// eliminated even if its result is unused.
func (i *Instruction) HasSideEffects() bool {
	switch i.Op {
	case OpStoreVar, OpStoreArray, OpHardwareWrite, OpPoke, OpPokew, OpCall, OpCallVoid, OpOptBarrier,
		OpCPUSei, OpCPUCli, OpCPUNop, OpCPUPha, OpCPUPla, OpCPUPhp, OpCPUPlp,
		OpJump, OpBranch, OpReturn, OpReturnVoid:
		return true
	default:
		// HARDWARE_READ, PEEK and PEEKW are pure, as is every arithmetic,
		// comparison, load, and address-of opcode.
		return false
	}
}

// IsTerminator reports whether this instruction ends a basic block.
func (i *Instruction) IsTerminator() bool {
	switch i.Op {
	case OpJump, OpBranch, OpReturn, OpReturnVoid:
		return true
	default:
		return false
	}
}

// SuccessorLabels returns the block labels this instruction can transfer
// control to, if it is a terminator.
func (i *Instruction) SuccessorLabels() []string {
	switch i.Op {
	case OpJump:
		return []string{i.Target}
	case OpBranch:
		return []string{i.Then, i.Else}
	default:
		return nil
	}
}

// String renders the instruction in a canonical, disassembly-like textual
// form.
func (i *Instruction) String() string {
	var b strings.Builder

	if i.Result != nil {
		fmt.Fprintf(&b, "%s = ", i.Result)
	}

	b.WriteString(i.Op.String())

	switch i.Op {
	case OpConst:
		fmt.Fprintf(&b, " %s", i.ConstVal)
	case OpAdd, OpSub, OpMul, OpDiv, OpMod, OpAnd, OpOr, OpXor, OpShl, OpShr,
		OpCmpEq, OpCmpNe, OpCmpLt, OpCmpLe, OpCmpGt, OpCmpGe:
		fmt.Fprintf(&b, " %s, %s", i.A, i.B)
	case OpNeg, OpNot, OpLogicalNot:
		fmt.Fprintf(&b, " %s", i.A)
	case OpLoadVar:
		fmt.Fprintf(&b, " %s", i.VarName)
	case OpStoreVar:
		fmt.Fprintf(&b, " %s, %s", i.VarName, i.Value)
	case OpLoadArray:
		fmt.Fprintf(&b, " %s[%s]", i.VarName, i.Index)
	case OpStoreArray:
		fmt.Fprintf(&b, " %s[%s], %s", i.VarName, i.Index, i.Value)
	case OpJump:
		fmt.Fprintf(&b, " %s", i.Target)
	case OpBranch:
		fmt.Fprintf(&b, " %s, %s, %s", i.Cond, i.Then, i.Else)
	case OpReturn:
		fmt.Fprintf(&b, " %s", i.Value)
	case OpCall, OpCallVoid:
		fmt.Fprintf(&b, " %s(", i.VarName)

		for idx, a := range i.Args {
			if idx != 0 {
				b.WriteString(", ")
			}

			b.WriteString(a.String())
		}

		b.WriteString(")")
	case OpHardwareRead:
		fmt.Fprintf(&b, " $%04X", i.Addr)
	case OpHardwareWrite:
		fmt.Fprintf(&b, " $%04X, %s", i.Addr, i.Value)
	case OpPeek, OpPeekw:
		fmt.Fprintf(&b, " [%s]", i.AddrReg)
	case OpPoke, OpPokew:
		fmt.Fprintf(&b, " [%s], %s", i.AddrReg, i.Value)
	case OpLoadAddress:
		fmt.Fprintf(&b, " %s(%s)", i.VarName, i.SymKind)
	}

	return b.String()
}

// ============================================================================
// Constructors
// ============================================================================

// NewConst builds a CONST instruction.
func NewConst(result VirtualRegister, v ConstValue) *Instruction {
	r := result
	return &Instruction{Op: OpConst, Result: &r, ConstVal: v}
}

var binaryOpcodes = map[Opcode]bool{
	OpAdd: true, OpSub: true, OpMul: true, OpDiv: true, OpMod: true,
	OpAnd: true, OpOr: true, OpXor: true, OpShl: true, OpShr: true,
	OpCmpEq: true, OpCmpNe: true, OpCmpLt: true, OpCmpLe: true, OpCmpGt: true, OpCmpGe: true,
}

// NewBinary builds any binary arithmetic/logic/comparison instruction.
func NewBinary(op Opcode, result VirtualRegister, lhs, rhs Operand) *Instruction {
	if !binaryOpcodes[op] {
		panic(fmt.Sprintf("NewBinary: %s is not a binary opcode", op))
	}

	r := result

	return &Instruction{Op: op, Result: &r, A: lhs, B: rhs}
}

// NewUnary builds NEG, NOT, or LOGICAL_NOT.
func NewUnary(op Opcode, result VirtualRegister, operand Operand) *Instruction {
	if op != OpNeg && op != OpNot && op != OpLogicalNot {
		panic(fmt.Sprintf("NewUnary: %s is not a unary opcode", op))
	}

	r := result

	return &Instruction{Op: op, Result: &r, A: operand}
}

// NewLoadVar builds a LOAD_VAR instruction.
func NewLoadVar(result VirtualRegister, name string) *Instruction {
	r := result
	return &Instruction{Op: OpLoadVar, Result: &r, VarName: name}
}

// NewStoreVar builds a STORE_VAR instruction.
func NewStoreVar(name string, value Operand) *Instruction {
	return &Instruction{Op: OpStoreVar, VarName: name, Value: value}
}

// NewLoadArray builds a LOAD_ARRAY instruction.
func NewLoadArray(result VirtualRegister, arrayName string, index Operand) *Instruction {
	r := result
	return &Instruction{Op: OpLoadArray, Result: &r, VarName: arrayName, Index: index}
}

// NewStoreArray builds a STORE_ARRAY instruction; Index selects the
// element, Value is what is stored.
func NewStoreArray(arrayName string, index, value Operand) *Instruction {
	return &Instruction{Op: OpStoreArray, VarName: arrayName, Index: index, Value: value}
}

// NewJump builds a JUMP instruction.
func NewJump(target string) *Instruction {
	return &Instruction{Op: OpJump, Target: target}
}

// NewBranch builds a BRANCH instruction.
func NewBranch(cond Operand, thenLabel, elseLabel string) *Instruction {
	return &Instruction{Op: OpBranch, Cond: cond, Then: thenLabel, Else: elseLabel}
}

// NewReturn builds a RETURN instruction carrying a value.
func NewReturn(value Operand) *Instruction {
	return &Instruction{Op: OpReturn, Value: value}
}

// NewReturnVoid builds a RETURN_VOID instruction.
func NewReturnVoid() *Instruction {
	return &Instruction{Op: OpReturnVoid}
}

// NewCall builds a CALL instruction (value-producing).
func NewCall(result VirtualRegister, name string, args []Operand) *Instruction {
	r := result
	return &Instruction{Op: OpCall, Result: &r, VarName: name, Args: args}
}

// NewCallVoid builds a CALL_VOID instruction.
func NewCallVoid(name string, args []Operand) *Instruction {
	return &Instruction{Op: OpCallVoid, VarName: name, Args: args}
}

// NewHardwareRead builds a HARDWARE_READ instruction.
func NewHardwareRead(result VirtualRegister, addr uint16) *Instruction {
	r := result
	return &Instruction{Op: OpHardwareRead, Result: &r, Addr: addr}
}

// NewHardwareWrite builds a HARDWARE_WRITE instruction.
func NewHardwareWrite(addr uint16, value Operand) *Instruction {
	return &Instruction{Op: OpHardwareWrite, Addr: addr, Value: value}
}

// NewPeek builds a PEEK instruction.
func NewPeek(result VirtualRegister, addrReg Operand) *Instruction {
	r := result
	return &Instruction{Op: OpPeek, Result: &r, AddrReg: addrReg}
}

// NewPoke builds a POKE instruction.
func NewPoke(addrReg Operand, value Operand) *Instruction {
	return &Instruction{Op: OpPoke, AddrReg: addrReg, Value: value}
}

// NewPeekw builds a PEEKW instruction.
func NewPeekw(result VirtualRegister, addrReg Operand) *Instruction {
	r := result
	return &Instruction{Op: OpPeekw, Result: &r, AddrReg: addrReg}
}

// NewPokew builds a POKEW instruction.
func NewPokew(addrReg Operand, value Operand) *Instruction {
	return &Instruction{Op: OpPokew, AddrReg: addrReg, Value: value}
}

// NewLoadAddress builds a LOAD_ADDRESS instruction.
func NewLoadAddress(result VirtualRegister, name string, kind SymbolKind) *Instruction {
	r := result
	return &Instruction{Op: OpLoadAddress, Result: &r, VarName: name, SymKind: kind}
}

// NewCPUOp builds one of the zero-operand CPU escape instructions.
func NewCPUOp(op Opcode) *Instruction {
	switch op {
	case OpCPUSei, OpCPUCli, OpCPUNop, OpCPUPha, OpCPUPla, OpCPUPhp, OpCPUPlp:
		return &Instruction{Op: op}
	default:
		panic(fmt.Sprintf("NewCPUOp: %s is not a CPU opcode", op))
	}
}

// NewOptBarrier builds an OPT_BARRIER instruction.
func NewOptBarrier() *Instruction {
	return &Instruction{Op: OpOptBarrier}
}
