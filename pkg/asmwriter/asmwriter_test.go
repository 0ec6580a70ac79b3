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
package asmwriter

import (
	"strings"
	"testing"

	"github.com/raster6502/compiler/internal/assert"
)

func TestInstructionCommentRightAligned(t *testing.T) {
	w := NewWriter()
	w.Instruction("LDA", "#$00", "clear accumulator")

	lines := w.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}

	idx := strings.Index(lines[0].Text, ";")
	if idx < commentColumn {
		t.Fatalf("comment starts at column %d, want >= %d", idx, commentColumn)
	}
}

func TestInstructionWithoutCommentHasNoTrailingPadding(t *testing.T) {
	w := NewWriter()
	w.Instruction("RTS", "", "")

	assert.Equal(t, "  RTS", w.Lines()[0].Text)
}

func TestHexFormattingWidthsAndCase(t *testing.T) {
	assert.Equal(t, "$0A", hexByte(10))
	assert.Equal(t, "$00FF", hexWord(0x00FF))
}

func TestLabelAndLocalLabelStartColumnZero(t *testing.T) {
	w := NewWriter()
	w.Label("main")
	w.LocalLabel("loop")

	lines := w.Lines()
	assert.Equal(t, "main:", lines[0].Text)
	assert.Equal(t, ".loop:", lines[1].Text)
}

func TestOriginDirective(t *testing.T) {
	w := NewWriter()
	w.Origin(0x0810)

	assert.Equal(t, "* = $0810", w.Lines()[0].Text)
}

func TestEmitBasicStubAdvancesToCodeStart(t *testing.T) {
	w := NewWriter()
	w.EmitBasicStub(DefaultCodeStart)

	var sawOrigin bool

	for _, l := range w.Lines() {
		if l.Text == "* = $0810" {
			sawOrigin = true
		}
	}

	if !sawOrigin {
		t.Fatalf("expected the code section to open at $0810")
	}
}

func TestEmitRawOriginSkipsStub(t *testing.T) {
	w := NewWriter()
	w.EmitRawOrigin(0x2000)

	lines := w.Lines()
	if len(lines) != 2 {
		t.Fatalf("expected exactly a banner and an origin line, got %d", len(lines))
	}

	assert.Equal(t, "* = $2000", lines[1].Text)
}

func TestRecordFunctionAccumulatesStats(t *testing.T) {
	w := NewWriter()
	w.RecordFunction(10)
	w.RecordFunction(20)

	functions, bytes := w.Stats()
	assert.Equal(t, 2, functions)
	assert.Equal(t, 30, bytes)
}
