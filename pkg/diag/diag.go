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

// Package diag provides the structured diagnostic type shared by every stage
// of the compiler, from semantic analysis through to the external assembler
// driver.  The lexer, parser and final diagnostic renderer are external
// collaborators; this package only defines the wire shape they agree on.
package diag

import "fmt"

// Severity classifies how serious a Diagnostic is.
type Severity int

const (
	// Warning indicates a non-fatal observation (e.g. a codegen placeholder,
	// a badline-budget overrun).
	Warning Severity = iota
	// Error indicates the overall pipeline run must be considered failed.
	Error
)

// String implements fmt.Stringer.
func (s Severity) String() string {
	if s == Warning {
		return "warning"
	}

	return "error"
}

// Kind identifies which stage of the pipeline raised a Diagnostic, per the
// taxonomy of error categories the compiler distinguishes.
type Kind int

const (
	// KindSemantic covers unresolved names, type mismatches, narrowing
	// errors, and array size-inference failures.
	KindSemantic Kind = iota
	// KindModuleGraph covers missing-import and circular-import failures.
	KindModuleGraph
	// KindILInvariant covers fatal IL builder/verifier bugs.
	KindILInvariant
	// KindCodegen covers unsupported-opcode placeholders and simplified
	// indirect-addressing lowering.
	KindCodegen
	// KindTiming covers VIC-II badline and raster-line budget diagnostics.
	KindTiming
	// KindAssembler covers external assembler driver failures.
	KindAssembler
)

// Location identifies a point in an original source file.  Line and Column
// count from 1; Column is a rune offset within Line, not a byte offset.
type Location struct {
	File   string
	Line   int
	Column int
}

// String renders the location as "file:line:column".
func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// IsZero reports whether this location carries no information (the source
// AST node did not provide one).
func (l Location) IsZero() bool {
	return l.File == "" && l.Line == 0 && l.Column == 0
}

// Diagnostic is a single structured message produced by the compiler. It
// carries enough information for an external formatter to render it without
// this package needing to know anything about terminal colours, JSON
// encodings, or LSP protocol shapes.
type Diagnostic struct {
	Severity Severity
	Kind     Kind
	Location Location
	Message  string
	// Module is the name of the module this diagnostic was raised while
	// analyzing, or empty if it predates module attribution (e.g. a missing
	// top-level module during dependency-graph construction).
	Module string
}

// Error implements the error interface so a Diagnostic can be returned (or
// wrapped) anywhere a Go error is expected.
func (d *Diagnostic) Error() string {
	if d.Location.IsZero() {
		return fmt.Sprintf("%s: %s", d.Severity, d.Message)
	}

	return fmt.Sprintf("%s: %s: %s", d.Location, d.Severity, d.Message)
}

// New constructs an error-severity Diagnostic.
func New(kind Kind, loc Location, format string, args ...any) *Diagnostic {
	return &Diagnostic{Severity: Error, Kind: kind, Location: loc, Message: fmt.Sprintf(format, args...)}
}

// NewWarning constructs a warning-severity Diagnostic.
func NewWarning(kind Kind, loc Location, format string, args ...any) *Diagnostic {
	return &Diagnostic{Severity: Warning, Kind: kind, Location: loc, Message: fmt.Sprintf(format, args...)}
}

// Bag is an append-only, copy-on-read collection of diagnostics, matching the
// "warning lists are append-only; reads return copies" rule of the
// concurrency model.
type Bag struct {
	items []*Diagnostic
}

// Add appends one or more diagnostics to the bag.
func (b *Bag) Add(ds ...*Diagnostic) {
	b.items = append(b.items, ds...)
}

// All returns a defensive copy of the diagnostics accumulated so far.
func (b *Bag) All() []*Diagnostic {
	out := make([]*Diagnostic, len(b.items))
	copy(out, b.items)

	return out
}

// HasErrors reports whether any diagnostic in the bag has Error severity.
func (b *Bag) HasErrors() bool {
	for _, d := range b.items {
		if d.Severity == Error {
			return true
		}
	}

	return false
}

// Len returns the number of diagnostics currently in the bag.
func (b *Bag) Len() int {
	return len(b.items)
}
