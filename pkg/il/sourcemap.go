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

// SourceMapEntry associates one emitted assembly line with the source
// location that produced it.
type SourceMapEntry struct {
	AssemblyLine  int
	AsmLabel      string
	AsmAddress    uint16
	HasAsmAddress bool
	SourceFile    string
	SourceLine    int
	SourceColumn  int
	Note          string
}

// SourceMap is the ordered, append-only list of entries produced by
// codegen. It is never mutated once codegen completes.
type SourceMap struct {
	entries []SourceMapEntry
}

// Add appends an entry to the map.
func (m *SourceMap) Add(e SourceMapEntry) {
	m.entries = append(m.entries, e)
}

// Entries returns a defensive copy of the map's entries in emission order.
func (m *SourceMap) Entries() []SourceMapEntry {
	out := make([]SourceMapEntry, len(m.entries))
	copy(out, m.entries)

	return out
}

// Len returns the number of entries recorded.
func (m *SourceMap) Len() int {
	return len(m.entries)
}
