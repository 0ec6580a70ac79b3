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

// Package target holds the target-machine descriptors: the
// architecture enum, the per-architecture timing and memory configuration,
// a YAML-overridable registry of built-in configs, and the HardwareAnalyzer
// interface with its per-architecture factory dispatch.
package target

// Architecture identifies one of the supported (or recognized) target
// machines.
type Architecture uint8

const (
	// ArchC64PAL is a PAL Commodore 64 (63 cycles/line, 312 lines/frame).
	ArchC64PAL Architecture = iota
	// ArchC64NTSC is an NTSC Commodore 64 (65 cycles/line, 262 lines/frame).
	ArchC64NTSC
	// ArchC128 is a Commodore 128 in C64-compatible mode. Recognized but
	// without a timing model of its own.
	ArchC128
	// ArchX16 is a Commander X16. Recognized but without a timing model.
	ArchX16
	// ArchGeneric is a bare 6502 with no video chip and no timing model.
	ArchGeneric
)

// String renders the architecture's display name.
func (a Architecture) String() string {
	switch a {
	case ArchC64PAL:
		return "C64 PAL"
	case ArchC64NTSC:
		return "C64 NTSC"
	case ArchC128:
		return "C128"
	case ArchX16:
		return "X16"
	default:
		return "Generic"
	}
}

// MemoryRegion names a usable address range on the target.
type MemoryRegion struct {
	Name  string `yaml:"name"`
	Start uint16 `yaml:"start"`
	End   uint16 `yaml:"end"`
}

// Config is one target machine's descriptor: its raster timing constants
// and its memory layout. Configs are plain values, threaded by value
// through the pipeline; the Registry owns the built-in set.
type Config struct {
	Architecture     Architecture
	ZeroPageSafeLow  uint16
	ZeroPageSafeHigh uint16
	CyclesPerLine    uint32
	LinesPerFrame    uint32
	BadlinePenalty   uint32
	MemoryRegions    []MemoryRegion
}

// CyclesPerFrame is the total CPU cycle budget of one video frame.
func (c Config) CyclesPerFrame() uint32 {
	return c.CyclesPerLine * c.LinesPerFrame
}

// BadlineCycles is the per-line budget left once the video chip's
// character-matrix DMA has stolen its share. Zero on targets with no
// raster model.
func (c Config) BadlineCycles() uint32 {
	if c.CyclesPerLine <= c.BadlinePenalty {
		return 0
	}

	return c.CyclesPerLine - c.BadlinePenalty
}
