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
package vic

import "fmt"

// Severity distinguishes an informational timing note from a hard budget
// violation.
type Severity uint8

const (
	SeverityWarning Severity = iota
	SeverityError
)

// String renders the severity as a lowercase word.
func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}

	return "warning"
}

// Warning is one entry in a raster-safety warning list.
type Warning struct {
	Severity Severity
	Message  string
}

// WarningList is an append-only list of Warnings; Warnings returns a
// defensive copy so callers cannot mutate the analyzer's internal state.
type WarningList struct {
	entries []Warning
}

// Add appends a warning.
func (w *WarningList) Add(severity Severity, message string) {
	w.entries = append(w.entries, Warning{Severity: severity, Message: message})
}

// Warnings returns a copy of the accumulated warning list.
func (w *WarningList) Warnings() []Warning {
	out := make([]Warning, len(w.entries))
	copy(out, w.entries)

	return out
}

// classifyWarnings appends the badline/over-budget warnings for a block
// whose estimate exceeds the badline budget: a warning mentioning
// "badline" when it still fits in a normal line, plus an
// additional error mentioning "exceeds raster line cycle budget" once it
// exceeds the normal-line budget too.
func classifyWarnings(w *WarningList, estimatedCycles, cyclesPerLine, badlineCycles uint32) {
	if estimatedCycles <= badlineCycles {
		return
	}

	w.Add(SeverityWarning, fmt.Sprintf(
		"estimated %d cycles exceeds the badline budget of %d cycles", estimatedCycles, badlineCycles))

	if estimatedCycles > cyclesPerLine {
		w.Add(SeverityError, fmt.Sprintf(
			"estimated %d cycles exceeds raster line cycle budget of %d cycles", estimatedCycles, cyclesPerLine))
	}
}
