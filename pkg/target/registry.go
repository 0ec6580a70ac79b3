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

// architectureKeys maps the YAML override file's target keys to their
// Architecture value. The spellings match the CLI's --target flag.
var architectureKeys = map[string]Architecture{
	"c64pal":  ArchC64PAL,
	"c64ntsc": ArchC64NTSC,
	"c128":    ArchC128,
	"x16":     ArchX16,
	"generic": ArchGeneric,
}

// Registry holds the resolved Config for every recognized architecture:
// the built-in descriptors, optionally layered with a YAML override file.
type Registry struct {
	configs map[Architecture]Config
}

// NewRegistry returns a registry populated with the built-in descriptors.
func NewRegistry() *Registry {
	r := &Registry{configs: make(map[Architecture]Config)}

	for _, cfg := range builtinConfigs() {
		r.configs[cfg.Architecture] = cfg
	}

	return r
}

// Get returns the architecture's config, if one is registered.
func (r *Registry) Get(arch Architecture) (Config, bool) {
	cfg, ok := r.configs[arch]
	return cfg, ok
}

// builtinConfigs returns the descriptors this repo ships with. The C64
// zero-page safe range is $02-$8F; $FB/$FC inside the BASIC free area is
// reserved separately by codegen for PEEK/POKE indirection.
func builtinConfigs() []Config {
	return []Config{
		{
			Architecture:     ArchC64PAL,
			ZeroPageSafeLow:  0x02,
			ZeroPageSafeHigh: 0x8F,
			CyclesPerLine:    63,
			LinesPerFrame:    312,
			BadlinePenalty:   40,
			MemoryRegions:    c64Regions(),
		},
		{
			Architecture:     ArchC64NTSC,
			ZeroPageSafeLow:  0x02,
			ZeroPageSafeHigh: 0x8F,
			CyclesPerLine:    65,
			LinesPerFrame:    262,
			BadlinePenalty:   40,
			MemoryRegions:    c64Regions(),
		},
		{
			// C64-compatible mode on 1 MHz; the VIC-II timing constants
			// carry over even though no analyzer is implemented yet.
			Architecture:     ArchC128,
			ZeroPageSafeLow:  0x02,
			ZeroPageSafeHigh: 0x8F,
			CyclesPerLine:    63,
			LinesPerFrame:    312,
			BadlinePenalty:   40,
			MemoryRegions:    c64Regions(),
		},
		{
			// VERA has no badlines; no raster timing model applies.
			Architecture:     ArchX16,
			ZeroPageSafeLow:  0x22,
			ZeroPageSafeHigh: 0x7F,
			MemoryRegions: []MemoryRegion{
				{Name: "code", Start: 0x0810, End: 0x9EFF},
			},
		},
		{
			Architecture:     ArchGeneric,
			ZeroPageSafeLow:  0x02,
			ZeroPageSafeHigh: 0xFF,
		},
	}
}

func c64Regions() []MemoryRegion {
	return []MemoryRegion{
		{Name: "zeropage", Start: 0x0002, End: 0x008F},
		{Name: "code", Start: 0x0810, End: 0x9FFF},
		{Name: "ram", Start: 0xC000, End: 0xCFFF},
	}
}
