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

// Package vic implements the VIC-II raster timing analyzer:
// expression/statement/loop cycle estimation, sprite-DMA and badline
// penalties, and raster-safety classification. It implements
// pkg/target.HardwareAnalyzer for the C64 PAL and NTSC architectures.
package vic

// Statement-level cost-table constants.
const (
	CostAssignment   uint32 = 5
	CostBinaryOp     uint32 = 8
	CostUnaryOp      uint32 = 6
	CostBranch       uint32 = 3
	CostFunctionCall uint32 = 12
	CostReturn       uint32 = 6
	CostLoopOverhead uint32 = 5
	CostDefault      uint32 = 2
)

// Hardware penalty constants.
const (
	SpriteDMAPerSprite uint32 = 2
	PageCrossing       uint32 = 1
	RMWPenalty         uint32 = 2
	MaxSprites         uint32 = 8
)

// DefaultLoopIterations is the unknown-iteration-count estimate used for any
// while loop, or a for loop whose bound is not a literal.
const DefaultLoopIterations uint32 = 10
