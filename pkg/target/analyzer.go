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

	"github.com/raster6502/compiler/pkg/ast"
	"github.com/raster6502/compiler/pkg/il"
)

// StatementEstimate is the architecture-neutral form of a statement-level
// cycle estimate. It lives here rather than in an
// architecture package so the HardwareAnalyzer interface does not force
// every caller to import a specific timing model.
type StatementEstimate struct {
	Min, Avg, Max             uint32
	Assignments               uint32
	BinaryOps                 uint32
	FunctionCalls             uint32
	Branches                  uint32
	Other                     uint32
	IncludesHardwarePenalties bool
}

// Warning is one architecture-neutral timing warning. Severity is
// "warning" or "error".
type Warning struct {
	Severity string
	Message  string
}

// HardwareAnalyzer is the capability set every architecture's timing model
// exposes.
type HardwareAnalyzer interface {
	// Name identifies the analyzer; placeholder analyzers append
	// "(Not Implemented)".
	Name() string
	// EstimateFunction classifies a lowered function's cycle cost against
	// this target's raster-line budget.
	EstimateFunction(f *il.Function) il.RasterSafety
	// EstimateStatement estimates one source statement's cycle cost.
	EstimateStatement(s ast.Stmt) StatementEstimate
	// GetWarnings returns a copy of the warnings accumulated so far.
	GetWarnings() []Warning
	// GetTargetConfig returns the config the analyzer was built with.
	GetTargetConfig() Config
}

// AnalyzerFactory builds an architecture's HardwareAnalyzer from its
// resolved config.
type AnalyzerFactory func(cfg Config) HardwareAnalyzer

// analyzerFactories is populated by architecture packages from their
// init(), which keeps this package free of imports on any of them.
var analyzerFactories = map[Architecture]AnalyzerFactory{}

// RegisterAnalyzerFactory installs arch's analyzer factory. Called from an
// architecture package's init(); a second registration for the same
// architecture replaces the first.
func RegisterAnalyzerFactory(arch Architecture, factory AnalyzerFactory) {
	analyzerFactories[arch] = factory
}

// NoAnalyzerError reports an architecture with no hardware analyzer at all
// (Generic).
type NoAnalyzerError struct {
	Architecture Architecture
}

// Error implements the error interface.
func (e *NoAnalyzerError) Error() string {
	return fmt.Sprintf("no hardware analyzer for target %s", e.Architecture)
}

// CreateHardwareAnalyzer dispatches to the architecture's registered
// factory. Generic has no analyzer and errors; a recognized architecture
// with no registered factory (C128, X16) gets a placeholder whose methods
// return safe defaults, so "known but incomplete" targets still analyze
// without diagnostics.
func CreateHardwareAnalyzer(arch Architecture, cfg Config) (HardwareAnalyzer, error) {
	if arch == ArchGeneric {
		return nil, &NoAnalyzerError{Architecture: arch}
	}

	if factory, ok := analyzerFactories[arch]; ok {
		return factory(cfg), nil
	}

	return &placeholderAnalyzer{cfg: cfg}, nil
}

// IsHardwareAnalyzerAvailable reports whether an architecture has any
// analyzer, real or placeholder: true for every recognized target except
// Generic.
func IsHardwareAnalyzerAvailable(arch Architecture) bool {
	return arch != ArchGeneric
}

// placeholderAnalyzer stands in for a recognized architecture whose timing
// model has not been written. Every estimate is a safe default; it never
// produces warnings.
type placeholderAnalyzer struct {
	cfg Config
}

func (p *placeholderAnalyzer) Name() string {
	return fmt.Sprintf("%s (Not Implemented)", p.cfg.Architecture)
}

func (p *placeholderAnalyzer) EstimateFunction(f *il.Function) il.RasterSafety {
	return il.RasterSafety{
		RasterSafe:     true,
		BadlineAware:   true,
		Recommendation: il.RecommendUnknown,
	}
}

func (p *placeholderAnalyzer) EstimateStatement(s ast.Stmt) StatementEstimate {
	return StatementEstimate{}
}

func (p *placeholderAnalyzer) GetWarnings() []Warning {
	return nil
}

func (p *placeholderAnalyzer) GetTargetConfig() Config {
	return p.cfg
}
