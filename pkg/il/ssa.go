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

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

// MergeOperand is the synthetic phi-like assignment the SSA builder inserts
// at a control-flow merge block: it references each
// predecessor's last-defining register for one source variable. Incoming[i]
// is the register live on entry from Predecessors[i]; the two slices are
// parallel and must be the same length.
type MergeOperand struct {
	Result       VirtualRegister
	Predecessors []string
	Incoming     []VirtualRegister
}

// VerifyError reports a single IL-invariant violation. IL-invariant
// violations are compiler bugs rather than user errors; the orchestrator
// (pkg/sema) reports this error as a KindILInvariant diagnostic and marks
// the module as failed.
type VerifyError struct {
	Function string
	Message  string
}

// Error implements the error interface.
func (e *VerifyError) Error() string {
	return fmt.Sprintf("il: function %q: %s", e.Function, e.Message)
}

// Verify checks a function against the IL structural invariants:
// unique result registers, a terminator at the end of every block and
// nowhere else, terminator/successor agreement, that a reverse-postorder
// walk from the entry block reaches every block exactly once, and that
// every operand's definition dominates its use. It returns the first
// violation found, or nil if the function is well-formed.
func Verify(f *Function) error {
	if err := verifyUniqueResults(f); err != nil {
		return err
	}

	if err := verifyTerminators(f); err != nil {
		return err
	}

	if err := verifySuccessors(f); err != nil {
		return err
	}

	if err := verifyMerges(f); err != nil {
		return err
	}

	if err := verifyReachability(f); err != nil {
		return err
	}

	return verifyDominance(f)
}

// verifyUniqueResults enforces single definition: every register id introduced in
// F is the result of exactly one instruction or merge.
func verifyUniqueResults(f *Function) error {
	seen := bitset.New(0)

	for _, b := range f.Blocks {
		for _, inst := range b.Instructions {
			if inst.Result == nil {
				continue
			}

			id := uint(inst.Result.ID)
			if seen.Test(id) {
				return &VerifyError{
					Function: f.Name,
					Message:  fmt.Sprintf("duplicate result register r%d in block %q", id, b.Label),
				}
			}

			seen.Set(id)
		}

		for _, m := range b.Merges {
			id := uint(m.Result.ID)
			if seen.Test(id) {
				return &VerifyError{
					Function: f.Name,
					Message:  fmt.Sprintf("duplicate result register r%d in block %q merge", id, b.Label),
				}
			}

			seen.Set(id)
		}
	}

	return nil
}

// verifyMerges enforces "one incoming value per predecessor": every
// MergeOperand's Incoming and Predecessors slices are the same length, and its Predecessors set matches the block's actual
// predecessor set (derived from every other block's terminator) exactly.
func verifyMerges(f *Function) error {
	preds := predecessorsOf(f)

	for _, b := range f.Blocks {
		for _, m := range b.Merges {
			if len(m.Incoming) != len(m.Predecessors) {
				return &VerifyError{
					Function: f.Name,
					Message: fmt.Sprintf("block %q: merge for r%d has %d incoming value(s) but %d predecessor label(s)",
						b.Label, m.Result.ID, len(m.Incoming), len(m.Predecessors)),
				}
			}

			want := preds[b.Label]
			if len(m.Predecessors) != len(want) {
				return &VerifyError{
					Function: f.Name,
					Message: fmt.Sprintf("block %q: merge for r%d lists %d predecessor(s), block has %d",
						b.Label, m.Result.ID, len(m.Predecessors), len(want)),
				}
			}

			declared := make(map[string]bool, len(m.Predecessors))
			for _, p := range m.Predecessors {
				declared[p] = true
			}

			for _, p := range want {
				if !declared[p] {
					return &VerifyError{
						Function: f.Name,
						Message:  fmt.Sprintf("block %q: merge for r%d is missing predecessor %q", b.Label, m.Result.ID, p),
					}
				}
			}
		}
	}

	return nil
}

// predecessorsOf maps every block label to the labels of blocks whose
// terminator can transfer control to it.
func predecessorsOf(f *Function) map[string][]string {
	out := make(map[string][]string, len(f.Blocks))

	for _, b := range f.Blocks {
		for _, succ := range b.Successors() {
			out[succ] = append(out[succ], b.Label)
		}
	}

	return out
}

// verifyTerminators enforces that every block ends with exactly one
// terminator, and no non-terminator instruction follows it.
func verifyTerminators(f *Function) error {
	for _, b := range f.Blocks {
		if len(b.Instructions) == 0 {
			return &VerifyError{Function: f.Name, Message: fmt.Sprintf("block %q has no terminator", b.Label)}
		}

		for idx, inst := range b.Instructions {
			isLast := idx == len(b.Instructions)-1

			if inst.IsTerminator() && !isLast {
				return &VerifyError{
					Function: f.Name,
					Message:  fmt.Sprintf("block %q: non-terminal %s before end of block", b.Label, inst.Op),
				}
			}

			if isLast && !inst.IsTerminator() {
				return &VerifyError{Function: f.Name, Message: fmt.Sprintf("block %q has no terminator", b.Label)}
			}
		}
	}

	return nil
}

// verifySuccessors enforces that a block's successor set, as
// derived from its terminator, must reference only blocks that exist in the
// function.
func verifySuccessors(f *Function) error {
	for _, b := range f.Blocks {
		for _, label := range b.Successors() {
			if f.Block(label) == nil {
				return &VerifyError{
					Function: f.Name,
					Message:  fmt.Sprintf("block %q: dangling successor reference %q", b.Label, label),
				}
			}
		}
	}

	return nil
}

// verifyReachability enforces that a reverse-postorder traversal
// from the entry block visits every block in the function exactly once
// (equivalently: every block is reachable from the entry, and there are no
// duplicate labels).
func verifyReachability(f *Function) error {
	entry := f.EntryBlock()
	if entry == nil {
		return nil
	}

	visited := make(map[string]bool, len(f.Blocks))
	order := reversePostorder(f, entry, visited)

	if len(order) != len(f.Blocks) {
		for _, b := range f.Blocks {
			if !visited[b.Label] {
				return &VerifyError{
					Function: f.Name,
					Message:  fmt.Sprintf("block %q is unreachable from entry %q", b.Label, entry.Label),
				}
			}
		}
	}

	return nil
}

// reversePostorder returns the function's blocks in reverse-postorder
// starting from entry.
func reversePostorder(f *Function, entry *Block, visited map[string]bool) []*Block {
	var postorder []*Block

	var visit func(b *Block)
	visit = func(b *Block) {
		if b == nil || visited[b.Label] {
			return
		}

		visited[b.Label] = true

		for _, succ := range b.Successors() {
			visit(f.Block(succ))
		}

		postorder = append(postorder, b)
	}

	visit(entry)

	out := make([]*Block, len(postorder))
	for i, b := range postorder {
		out[len(postorder)-1-i] = b
	}

	return out
}

// defSite locates a register's single definition: the block it lives in and
// its instruction index, or -1 for definitions that precede every
// instruction of the block (parameters at the entry, merge results at their
// join block).
type defSite struct {
	block string
	index int
}

// definitionSites maps every register id defined in f to its definition
// site.
func definitionSites(f *Function) map[uint32]defSite {
	defs := make(map[uint32]defSite)

	if entry := f.EntryBlock(); entry != nil {
		for _, p := range f.Params {
			defs[p.Reg.ID] = defSite{block: entry.Label, index: -1}
		}
	}

	for _, b := range f.Blocks {
		for _, m := range b.Merges {
			defs[m.Result.ID] = defSite{block: b.Label, index: -1}
		}

		for idx, inst := range b.Instructions {
			if inst.Result != nil {
				defs[inst.Result.ID] = defSite{block: b.Label, index: idx}
			}
		}
	}

	return defs
}

// dominatorSets computes, for every block, the set of blocks that dominate
// it, by the standard iterative dataflow: dom(entry) = {entry}, and
// dom(b) = {b} ∪ ⋂ dom(p) over b's predecessors, repeated to a fixed point.
func dominatorSets(f *Function, preds map[string][]string) map[string]map[string]bool {
	all := make(map[string]bool, len(f.Blocks))
	for _, b := range f.Blocks {
		all[b.Label] = true
	}

	entry := f.EntryBlock()
	dom := make(map[string]map[string]bool, len(f.Blocks))

	for _, b := range f.Blocks {
		if b == entry {
			dom[b.Label] = map[string]bool{b.Label: true}
			continue
		}

		full := make(map[string]bool, len(all))
		for label := range all {
			full[label] = true
		}

		dom[b.Label] = full
	}

	changed := true
	for changed {
		changed = false

		for _, b := range f.Blocks {
			if b == entry {
				continue
			}

			next := make(map[string]bool)

			for i, p := range preds[b.Label] {
				if i == 0 {
					for label := range dom[p] {
						next[label] = true
					}

					continue
				}

				for label := range next {
					if !dom[p][label] {
						delete(next, label)
					}
				}
			}

			next[b.Label] = true

			if len(next) != len(dom[b.Label]) {
				dom[b.Label] = next
				changed = true
			}
		}
	}

	return dom
}

// verifyDominance enforces that every operand refers to a register whose
// definition dominates the use: within one block the definition must come
// first, and across blocks the defining block must dominate the using
// block. A merge's incoming value is checked against its corresponding
// predecessor instead, since the value only needs to be live on that edge.
func verifyDominance(f *Function) error {
	if f.EntryBlock() == nil {
		return nil
	}

	defs := definitionSites(f)
	preds := predecessorsOf(f)
	dom := dominatorSets(f, preds)

	dominates := func(a, b string) bool {
		return a == b || dom[b][a]
	}

	for _, b := range f.Blocks {
		for _, m := range b.Merges {
			for i, in := range m.Incoming {
				d, ok := defs[in.ID]
				if !ok {
					return &VerifyError{
						Function: f.Name,
						Message:  fmt.Sprintf("block %q: merge reads r%d, which is never defined", b.Label, in.ID),
					}
				}

				if !dominates(d.block, m.Predecessors[i]) {
					return &VerifyError{
						Function: f.Name,
						Message: fmt.Sprintf("block %q: merge incoming r%d (defined in %q) does not dominate predecessor %q",
							b.Label, in.ID, d.block, m.Predecessors[i]),
					}
				}
			}
		}

		for idx, inst := range b.Instructions {
			for _, use := range inst.UsedRegisters() {
				d, ok := defs[use.ID]
				if !ok {
					return &VerifyError{
						Function: f.Name,
						Message:  fmt.Sprintf("block %q: %s reads r%d, which is never defined", b.Label, inst.Op, use.ID),
					}
				}

				if d.block == b.Label {
					if d.index >= idx {
						return &VerifyError{
							Function: f.Name,
							Message:  fmt.Sprintf("block %q: r%d is used before its definition", b.Label, use.ID),
						}
					}

					continue
				}

				if !dominates(d.block, b.Label) {
					return &VerifyError{
						Function: f.Name,
						Message: fmt.Sprintf("definition of r%d in block %q does not dominate its use in block %q",
							use.ID, d.block, b.Label),
					}
				}
			}
		}
	}

	return nil
}
