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
	"strings"
	"testing"

	"github.com/raster6502/compiler/internal/assert"
	"github.com/raster6502/compiler/pkg/diag"
	"github.com/raster6502/compiler/pkg/il"
	"github.com/raster6502/compiler/pkg/symbols"
	"github.com/raster6502/compiler/pkg/target"
	"github.com/raster6502/compiler/pkg/types"
)

func testConfig() target.Config {
	reg := target.NewRegistry()
	cfg, _ := reg.Get(target.ArchC64PAL)

	return cfg
}

// Minimal module: one global byte counter, one void main function
// that stores a constant into it and returns.
func buildMinimalModule() (*il.Module, *symbols.Table) {
	table := symbols.NewTable("main")
	table.Declare(&symbols.Symbol{Name: "counter", Kind: symbols.KindVariable, Type: types.Byte, Storage: symbols.Default})

	mod := il.NewModule("main", "main.rsc")
	mod.AddGlobal(&il.Global{Symbol: mustLookup(table, "counter")})

	f := il.NewFunction("main", types.Void, true, diag.Location{})
	entry := f.AddBlock("entry")
	entry.Append(il.NewStoreVar("counter", il.ConstOperand(il.ConstByte(42))))
	entry.Append(il.NewReturnVoid())
	mod.AddFunction(f)

	return mod, table
}

func mustLookup(table *symbols.Table, name string) *symbols.Symbol {
	sym, _ := table.Lookup(name)
	return sym
}

func TestGenerateEmitsFunctionLabelAndReturn(t *testing.T) {
	mod, table := buildMinimalModule()

	result := Generate(mod, table, testConfig(), 0x0900, false)

	assert.True(t, strings.Contains(result.Assembly, "_main:"))
	assert.True(t, strings.Contains(result.Assembly, "RTS"))
	assert.Equal(t, 1, result.Functions)
}

func TestGenerateResolvesZeroPageStorageWhenAvailable(t *testing.T) {
	mod, table := buildMinimalModule()

	result := Generate(mod, table, testConfig(), 0x0900, false)

	assert.True(t, strings.Contains(result.Assembly, "STA $02"))
}

func TestGenerateDebugLabelsOptIn(t *testing.T) {
	mod, table := buildMinimalModule()

	without := Generate(mod, table, testConfig(), 0x0900, false)
	assert.Equal(t, 0, len(without.DebugLabels))

	with := Generate(mod, table, testConfig(), 0x0900, true)
	if len(with.DebugLabels) == 0 {
		t.Fatalf("expected at least one debug label entry")
	}
}

func TestGenerateMappedGlobalEmitsEquateWithoutStorage(t *testing.T) {
	table := symbols.NewTable("m")
	addr := uint16(0xD020)
	table.Declare(&symbols.Symbol{
		Name: "border", Kind: symbols.KindMemoryMap, Type: types.Byte, Storage: symbols.Map,
		Address: &addr, Map: &symbols.MemoryMap{Form: symbols.FormSingle, Address: addr},
	})

	mod := il.NewModule("m", "m.rsc")
	mod.AddGlobal(&il.Global{Symbol: mustLookup(table, "border")})

	result := Generate(mod, table, testConfig(), 0x0900, false)

	assert.True(t, strings.Contains(result.Assembly, "border = $D020"))
	assert.True(t, !strings.Contains(result.Assembly, "!fill"), "mapped globals reserve no storage")
	assert.Equal(t, 0, result.DataBytes)
}

func TestGenerateStatsCountGlobalsAndZeroPageBytes(t *testing.T) {
	table := symbols.NewTable("m")
	table.Declare(&symbols.Symbol{Name: "counter", Kind: symbols.KindVariable, Type: types.Byte, Storage: symbols.ZeroPage})
	table.Declare(&symbols.Symbol{Name: "score", Kind: symbols.KindVariable, Type: types.Word, Storage: symbols.RAM})

	mod := il.NewModule("m", "m.rsc")
	mod.AddGlobal(&il.Global{Symbol: mustLookup(table, "counter")})
	mod.AddGlobal(&il.Global{Symbol: mustLookup(table, "score")})

	f := il.NewFunction("main", types.Void, true, diag.Location{})
	f.AddBlock("entry").Append(il.NewReturnVoid())
	mod.AddFunction(f)

	result := Generate(mod, table, testConfig(), 0x0900, false)

	assert.Equal(t, 2, result.Globals)
	assert.Equal(t, 1, result.Functions)
	assert.Equal(t, 3, result.DataBytes)
	assert.Equal(t, 1, result.ZPBytesUsed)
	assert.Equal(t, result.CodeBytes+result.DataBytes, result.TotalBytes)
	assert.True(t, result.CodeBytes >= 1)
}

func TestGenerateArrayLoadAndStore(t *testing.T) {
	table := symbols.NewTable("m")
	table.Declare(&symbols.Symbol{Name: "table", Kind: symbols.KindVariable, Type: types.NewArray(types.Byte, 8), Storage: symbols.RAM})

	f := il.NewFunction("touch", types.Void, true, diag.Location{})
	entry := f.AddBlock("entry")
	idx := f.NewRegister(types.Byte, "i")
	loaded := f.NewRegister(types.Byte, "")
	entry.Append(il.NewConst(idx, il.ConstByte(2)))
	entry.Append(il.NewLoadArray(loaded, "table", il.ConstOperand(il.ConstByte(3))))
	entry.Append(il.NewStoreArray("table", il.RegOperand(idx), il.RegOperand(loaded)))
	entry.Append(il.NewReturnVoid())

	mod := il.NewModule("m", "m.rsc")
	mod.AddGlobal(&il.Global{Symbol: mustLookup(table, "table")})
	mod.AddFunction(f)

	result := Generate(mod, table, testConfig(), 0x0900, false)

	// A constant index folds into the element's absolute address.
	assert.True(t, strings.Contains(result.Assembly, "LDA $0903"), "assembly was:\n%s", result.Assembly)
	// A register index goes through absolute,Y addressing, with a warning.
	assert.True(t, strings.Contains(result.Assembly, "STA $0900,Y"), "assembly was:\n%s", result.Assembly)

	var warned bool

	for _, d := range result.Diagnostics {
		if strings.Contains(d.Message, "staged in Y") {
			warned = true
		}
	}

	assert.True(t, warned, "expected an indexed-array-access warning")
}

func TestGenerateCPUEscapeOpsAreTier1(t *testing.T) {
	table := symbols.NewTable("m")

	f := il.NewFunction("critical", types.Void, true, diag.Location{})
	entry := f.AddBlock("entry")
	entry.Append(il.NewCPUOp(il.OpCPUSei))
	entry.Append(il.NewCPUOp(il.OpCPUCli))
	entry.Append(il.NewReturnVoid())

	mod := il.NewModule("m", "m.rsc")
	mod.AddFunction(f)

	result := Generate(mod, table, testConfig(), 0x0900, false)

	assert.True(t, strings.Contains(result.Assembly, "SEI"))
	assert.True(t, strings.Contains(result.Assembly, "CLI"))
	assert.True(t, !strings.Contains(result.Assembly, "STUB: CPU_SEI"))
}

func TestGenerateBinaryOpProducesTier2WarningAndStub(t *testing.T) {
	table := symbols.NewTable("m")

	f := il.NewFunction("add", types.Byte, true, diag.Location{})
	entry := f.AddBlock("entry")
	r := f.NewRegister(types.Byte, "")
	entry.Append(il.NewBinary(il.OpAdd, r, il.ConstOperand(il.ConstByte(1)), il.ConstOperand(il.ConstByte(2))))
	entry.Append(il.NewReturn(il.RegOperand(r)))

	mod := il.NewModule("m", "m.rsc")
	mod.AddFunction(f)

	result := Generate(mod, table, testConfig(), 0x0900, false)

	assert.True(t, strings.Contains(result.Assembly, "ADC"))

	if len(result.Diagnostics) == 0 {
		t.Fatalf("expected a Tier 2 simplification warning")
	}

	assert.Equal(t, diag.Warning, result.Diagnostics[0].Severity)
}

func TestGenerateUnsupportedOpcodeEmitsTier3Placeholder(t *testing.T) {
	table := symbols.NewTable("m")

	f := il.NewFunction("barrier", types.Void, true, diag.Location{})
	entry := f.AddBlock("entry")
	entry.Append(il.NewOptBarrier())
	entry.Append(il.NewReturnVoid())

	mod := il.NewModule("m", "m.rsc")
	mod.AddFunction(f)

	result := Generate(mod, table, testConfig(), 0x0900, false)

	assert.True(t, strings.Contains(result.Assembly, "STUB:"))
	assert.True(t, strings.Contains(result.Assembly, "NOP"))
}

func TestGenerateIndirectPeekWarns(t *testing.T) {
	table := symbols.NewTable("m")

	f := il.NewFunction("peek_one", types.Byte, true, diag.Location{})
	entry := f.AddBlock("entry")
	ptr := f.NewRegister(types.Word, "")
	r := f.NewRegister(types.Byte, "")
	entry.Append(il.NewConst(ptr, il.ConstWord(0xC000)))
	entry.Append(il.NewPeek(r, il.RegOperand(ptr)))
	entry.Append(il.NewReturn(il.RegOperand(r)))

	mod := il.NewModule("m", "m.rsc")
	mod.AddFunction(f)

	result := Generate(mod, table, testConfig(), 0x0900, false)

	assert.True(t, strings.Contains(result.Assembly, "LDA ("+hexByte(zpPointerLow)+"),Y"))

	var found bool

	for _, d := range result.Diagnostics {
		if strings.Contains(d.Message, "simplified indirect addressing") {
			found = true
		}
	}

	if !found {
		t.Fatalf("expected a simplified-indirect-addressing warning")
	}
}
