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
package target

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/raster6502/compiler/internal/assert"
)

func TestBuiltinC64Timings(t *testing.T) {
	reg := NewRegistry()

	pal, ok := reg.Get(ArchC64PAL)
	assert.True(t, ok, "no builtin config for C64 PAL")
	assert.Equal(t, uint32(63), pal.CyclesPerLine)
	assert.Equal(t, uint32(312), pal.LinesPerFrame)
	assert.Equal(t, uint32(40), pal.BadlinePenalty)
	assert.Equal(t, uint32(63*312), pal.CyclesPerFrame())
	assert.Equal(t, uint32(23), pal.BadlineCycles())

	ntsc, ok := reg.Get(ArchC64NTSC)
	assert.True(t, ok, "no builtin config for C64 NTSC")
	assert.Equal(t, uint32(65), ntsc.CyclesPerLine)
	assert.Equal(t, uint32(262), ntsc.LinesPerFrame)
}

func TestZeroPageSafeRange(t *testing.T) {
	reg := NewRegistry()

	pal, _ := reg.Get(ArchC64PAL)
	assert.Equal(t, uint16(0x02), pal.ZeroPageSafeLow)
	assert.Equal(t, uint16(0x8F), pal.ZeroPageSafeHigh)
}

func TestGenericHasNoAnalyzer(t *testing.T) {
	reg := NewRegistry()
	cfg, _ := reg.Get(ArchGeneric)

	_, err := CreateHardwareAnalyzer(ArchGeneric, cfg)
	if err == nil {
		t.Fatalf("expected an error for the Generic target")
	}

	if _, ok := err.(*NoAnalyzerError); !ok {
		t.Fatalf("expected *NoAnalyzerError, got %T", err)
	}

	assert.True(t, !IsHardwareAnalyzerAvailable(ArchGeneric), "Generic must report no analyzer")
}

func TestC128GetsPlaceholderAnalyzer(t *testing.T) {
	reg := NewRegistry()
	cfg, _ := reg.Get(ArchC128)

	analyzer, err := CreateHardwareAnalyzer(ArchC128, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assert.True(t, strings.Contains(analyzer.Name(), "(Not Implemented)"),
		"placeholder name was %q", analyzer.Name())
	assert.True(t, IsHardwareAnalyzerAvailable(ArchC128), "C128 is known but incomplete")

	safety := analyzer.EstimateFunction(nil)
	assert.True(t, safety.RasterSafe, "placeholder must default to raster-safe")
	assert.Equal(t, "UNKNOWN", safety.Recommendation.String())
	assert.Equal(t, 0, len(analyzer.GetWarnings()))
	assert.Equal(t, ArchC128, analyzer.GetTargetConfig().Architecture)
}

func TestLoadOverridesLayersOnBuiltin(t *testing.T) {
	doc := `targets:
  c64pal:
    cycles_per_line: 64
    memory_regions:
      - name: ram
        start: 0xA000
        end: 0xBFFF
`

	path := filepath.Join(t.TempDir(), "overrides.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}

	reg := NewRegistry()
	if err := reg.LoadOverrides(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pal, _ := reg.Get(ArchC64PAL)
	assert.Equal(t, uint32(64), pal.CyclesPerLine)
	// Untouched fields keep their builtin values.
	assert.Equal(t, uint32(312), pal.LinesPerFrame)
	assert.Equal(t, uint32(40), pal.BadlinePenalty)
	// The regions list replaces the builtin list wholesale.
	assert.Equal(t, 1, len(pal.MemoryRegions))
	assert.Equal(t, "ram", pal.MemoryRegions[0].Name)
	assert.Equal(t, uint16(0xA000), pal.MemoryRegions[0].Start)

	// Other architectures are untouched.
	ntsc, _ := reg.Get(ArchC64NTSC)
	assert.Equal(t, uint32(65), ntsc.CyclesPerLine)
}

func TestLoadOverridesRejectsUnknownTarget(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.yaml")
	if err := os.WriteFile(path, []byte("targets:\n  amiga500:\n    cycles_per_line: 1\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	reg := NewRegistry()
	if err := reg.LoadOverrides(path); err == nil {
		t.Fatalf("expected an error for an unknown target key")
	}
}
