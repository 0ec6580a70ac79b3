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
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// overrideFile is the shape of a --target-overrides YAML document: a map
// from architecture key (the --target spellings) to a partial config.
type overrideFile struct {
	Targets map[string]configOverride `yaml:"targets"`
}

// configOverride is a partial Config. Absent scalar fields keep the
// built-in value; a present memory_regions list replaces the built-in list
// wholesale rather than merging entry by entry.
type configOverride struct {
	ZeroPageSafeLow  *uint16        `yaml:"zero_page_safe_low"`
	ZeroPageSafeHigh *uint16        `yaml:"zero_page_safe_high"`
	CyclesPerLine    *uint32        `yaml:"cycles_per_line"`
	LinesPerFrame    *uint32        `yaml:"lines_per_frame"`
	BadlinePenalty   *uint32        `yaml:"badline_penalty"`
	MemoryRegions    []MemoryRegion `yaml:"memory_regions"`
}

// LoadOverrides reads a YAML override file and layers it field-by-field
// onto the registry's built-in configs. An unknown target key is an error;
// fields the file leaves out keep their built-in value.
func (r *Registry) LoadOverrides(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var file overrideFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	for key, ov := range file.Targets {
		arch, ok := architectureKeys[key]
		if !ok {
			return fmt.Errorf("%s: unknown target %q", path, key)
		}

		cfg := r.configs[arch]
		applyOverride(&cfg, ov)
		r.configs[arch] = cfg
	}

	return nil
}

func applyOverride(cfg *Config, ov configOverride) {
	if ov.ZeroPageSafeLow != nil {
		cfg.ZeroPageSafeLow = *ov.ZeroPageSafeLow
	}

	if ov.ZeroPageSafeHigh != nil {
		cfg.ZeroPageSafeHigh = *ov.ZeroPageSafeHigh
	}

	if ov.CyclesPerLine != nil {
		cfg.CyclesPerLine = *ov.CyclesPerLine
	}

	if ov.LinesPerFrame != nil {
		cfg.LinesPerFrame = *ov.LinesPerFrame
	}

	if ov.BadlinePenalty != nil {
		cfg.BadlinePenalty = *ov.BadlinePenalty
	}

	if ov.MemoryRegions != nil {
		cfg.MemoryRegions = ov.MemoryRegions
	}
}
