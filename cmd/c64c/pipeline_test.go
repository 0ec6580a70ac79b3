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
package main

import (
	"testing"

	"github.com/raster6502/compiler/internal/assert"
	"github.com/raster6502/compiler/pkg/assemble"
	"github.com/raster6502/compiler/pkg/target"
)

func TestParseArchitectureAcceptsKnownNames(t *testing.T) {
	a, err := parseArchitecture("c64pal")
	assert.True(t, err == nil, "unexpected error: %v", err)
	assert.Equal(t, target.ArchC64PAL, a)

	a, err = parseArchitecture("generic")
	assert.True(t, err == nil, "unexpected error: %v", err)
	assert.Equal(t, target.ArchGeneric, a)
}

func TestParseArchitectureRejectsUnknownName(t *testing.T) {
	_, err := parseArchitecture("amiga500")
	if err == nil {
		t.Fatalf("expected an error for an unknown target")
	}

	if _, ok := err.(*UnknownArchitectureError); !ok {
		t.Fatalf("expected *UnknownArchitectureError, got %T", err)
	}
}

func TestParseAddressAcceptsDollarHexOXHexAndDecimal(t *testing.T) {
	cases := []struct {
		in   string
		want uint16
	}{
		{"$0801", 0x0801},
		{"0x0801", 0x0801},
		{"0X0801", 0x0801},
		{"2049", 2049},
	}

	for _, c := range cases {
		got, err := parseAddress(c.in)
		assert.True(t, err == nil, "unexpected error for %q: %v", c.in, err)
		assert.Equal(t, c.want, got)
	}
}

func TestParseAddressRejectsGarbage(t *testing.T) {
	if _, err := parseAddress("not-an-address"); err == nil {
		t.Fatalf("expected an error for a non-numeric address")
	}
}

func TestWrapLineLeavesShortLinesAlone(t *testing.T) {
	lines := wrapLine("short line", 80)
	assert.Equal(t, 1, len(lines))
	assert.Equal(t, "short line", lines[0])
}

func TestWrapLineBreaksOnWordBoundaries(t *testing.T) {
	lines := wrapLine("one two three four five", 10)

	for _, l := range lines {
		if len(l) > 10 {
			// a single overlong word is allowed to exceed width, but none of
			// these words individually exceed 10 characters.
			t.Fatalf("line exceeds width: %q", l)
		}
	}

	joined := ""
	for i, l := range lines {
		if i > 0 {
			joined += " "
		}

		joined += l
	}

	assert.Equal(t, "one two three four five", joined)
}

func TestWrapLineZeroWidthReturnsOriginal(t *testing.T) {
	lines := wrapLine("whatever", 0)
	assert.Equal(t, 1, len(lines))
	assert.Equal(t, "whatever", lines[0])
}

func TestOutputPathWithExtReplacesExtension(t *testing.T) {
	assert.Equal(t, "build/out.prg", outputPathWithExt("build/out.asm", ".prg"))
}

func TestOutputPathWithExtAppendsWhenNoExtension(t *testing.T) {
	assert.Equal(t, "build/out.prg", outputPathWithExt("build/out", ".prg"))
}

func TestAssembleExitCodeMapsNotFoundToThree(t *testing.T) {
	assert.Equal(t, 3, assembleExitCode(&assemble.NotFoundError{}))
}

func TestAssembleExitCodeMapsOtherErrorsToTwo(t *testing.T) {
	assert.Equal(t, 2, assembleExitCode(&assemble.ExitError{Command: "acme", ExitCode: 1}))
}
