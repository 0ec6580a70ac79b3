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
package ilbuild

import "github.com/raster6502/compiler/pkg/il"

// cloneVars returns a shallow copy of a variable-name-to-operand snapshot, so
// one branch's lowering can mutate its own copy without corrupting the state
// a sibling branch needs to start from.
func cloneVars(vars map[string]il.Operand) map[string]il.Operand {
	out := make(map[string]il.Operand, len(vars))
	for k, v := range vars {
		out[k] = v
	}

	return out
}

// mergeAtBlock inserts a MergeOperand on block for every variable whose
// register differs across the given predecessor states, and
// updates b.vars so that code lowered after this join observes the merged
// value rather than whichever branch happened to run last. A variable whose
// register agrees across every state needs no merge; its entry in b.vars is
// left at the shared, pre-join value.
//
// states must be in the same order as labels, one entry per predecessor.
func (b *builder) mergeAtBlock(block *il.Block, labels []string, states []map[string]il.Operand) {
	names := map[string]bool{}
	for _, st := range states {
		for name := range st {
			names[name] = true
		}
	}

	for name := range names {
		incoming := make([]il.VirtualRegister, 0, len(states))

		var first il.VirtualRegister

		haveFirst := false
		diverges := false
		missing := false

		for _, st := range states {
			op, ok := st[name]
			if !ok {
				missing = true
				break
			}

			reg := op.Register()
			incoming = append(incoming, reg)

			if !haveFirst {
				first = reg
				haveFirst = true
			} else if reg.ID != first.ID {
				diverges = true
			}
		}

		// A variable only one predecessor even knows about is local to that
		// branch (e.g. declared inside it) and cannot be read past the join;
		// nothing to merge.
		if missing || !diverges {
			continue
		}

		result := b.fn.NewRegister(first.Type, name)
		block.Merges = append(block.Merges, &il.MergeOperand{
			Result:       result,
			Predecessors: append([]string(nil), labels...),
			Incoming:     incoming,
		})
		b.vars[name] = il.RegOperand(result)
	}
}
