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
	"fmt"

	"github.com/raster6502/compiler/pkg/diag"
	"github.com/raster6502/compiler/pkg/il"
	"github.com/raster6502/compiler/pkg/sema"
	"github.com/raster6502/compiler/pkg/target"
)

// analyzeTiming runs the target's hardware analyzer over every function
// of a module result and appends the badline/raster-line
// verdicts to diags. A target with no registered analyzer (Generic) is
// silently skipped: it has no timing model to violate.
func analyzeTiming(mr *sema.ModuleResult, cfg target.Config, diags *diag.Bag) {
	analyzer, err := target.CreateHardwareAnalyzer(cfg.Architecture, cfg)
	if err != nil {
		return
	}

	for _, fn := range mr.IL.Functions {
		safety := analyzer.EstimateFunction(fn)
		reportRasterSafety(fn.Name, fn.Loc, safety, diags)
	}
}

func reportRasterSafety(funcName string, loc diag.Location, safety il.RasterSafety, diags *diag.Bag) {
	switch safety.Recommendation {
	case il.RecommendSafe, il.RecommendUnknown:
		return
	case il.RecommendTooLong:
		diags.Add(diag.New(diag.KindTiming, loc,
			"function %q estimated at %d cycles exceeds %d raster lines' budget",
			funcName, safety.EstimatedCycles, safety.LinesRequired))
	default:
		diags.Add(diag.NewWarning(diag.KindTiming, loc,
			"function %q estimated at %d cycles: %s", funcName, safety.EstimatedCycles, describeRecommendation(safety)))
	}
}

func describeRecommendation(safety il.RasterSafety) string {
	return fmt.Sprintf("recommend %s (%d line(s) required)", safety.Recommendation, safety.LinesRequired)
}
