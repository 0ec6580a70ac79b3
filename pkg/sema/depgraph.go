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

// Package sema implements the multi-module orchestrator:
// dependency-graph construction, cycle detection, topological ordering, the
// global symbol table, and the per-module analysis pipeline.
package sema

import (
	"fmt"
	"sort"

	"github.com/bits-and-blooms/bitset"
	"github.com/raster6502/compiler/pkg/util/collection/stack"
)

// DependencyGraph is the module import graph: nodes are module names, and
// an edge A -> B means A imports from B.
type DependencyGraph struct {
	nodes []string
	index map[string]int
	edges map[string][]string
}

// NewDependencyGraph constructs an empty graph.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{index: make(map[string]int), edges: make(map[string][]string)}
}

// AddModule registers a module name as a node, if not already present.
func (g *DependencyGraph) AddModule(name string) {
	if _, ok := g.index[name]; ok {
		return
	}

	g.index[name] = len(g.nodes)
	g.nodes = append(g.nodes, name)
}

// AddImport records that module "from" imports module "to". The target must
// already be a known module; callers detect missing imports before calling
// this (see BuildGraph).
func (g *DependencyGraph) AddImport(from, to string) {
	g.edges[from] = append(g.edges[from], to)
}

// MissingImportError reports an import whose target module was never
// declared.
type MissingImportError struct {
	From   string
	Target string
}

// Error implements the error interface.
func (e *MissingImportError) Error() string {
	return fmt.Sprintf("Module %q not found", e.Target)
}

// CycleError reports a circular import chain, rendered as
// "Circular import detected: A -> B -> ... -> A".
type CycleError struct {
	Path []string
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	msg := "Circular import detected: "

	for i, m := range e.Path {
		if i != 0 {
			msg += " -> "
		}

		msg += m
	}

	return msg
}

// BuildGraph constructs a DependencyGraph from a set of modules and their
// declared imports, in one step: every module is registered first (so
// import-order does not matter), then every edge is added, failing fast on
// the first import whose target was never declared.
func BuildGraph(modules map[string][]string) (*DependencyGraph, error) {
	g := NewDependencyGraph()

	names := make([]string, 0, len(modules))
	for name := range modules {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		g.AddModule(name)
	}

	for _, name := range names {
		for _, target := range modules[name] {
			if _, ok := g.index[target]; !ok {
				return nil, &MissingImportError{From: name, Target: target}
			}

			g.AddImport(name, target)
		}
	}

	return g, nil
}

// DetectCycle runs a DFS over the graph and returns the first import cycle
// found, or nil if the graph is acyclic.
func (g *DependencyGraph) DetectCycle() *CycleError {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	color := make(map[string]int, len(g.nodes))
	path := stack.NewStack[string]()

	var visit func(node string) *CycleError
	visit = func(node string) *CycleError {
		color[node] = gray
		path.Push(node)

		for _, next := range g.edges[node] {
			switch color[next] {
			case white:
				if cyc := visit(next); cyc != nil {
					return cyc
				}
			case gray:
				items := path.Items()
				start := 0

				for i, n := range items {
					if n == next {
						start = i
						break
					}
				}

				return &CycleError{Path: append(append([]string(nil), items[start:]...), next)}
			}
		}

		path.Pop()
		color[node] = black

		return nil
	}

	for _, n := range g.nodes {
		if color[n] == white {
			if cyc := visit(n); cyc != nil {
				return cyc
			}
		}
	}

	return nil
}

// TopoOrder returns the graph's modules in dependency-first order:
// dependencies before dependents. Mutually independent modules appear in a
// stable (lexical) order relative to each other — the
// overall order is otherwise an implementation choice, so lexical order
// within a rank is this implementation's deterministic choice.
//
// TopoOrder assumes the graph is acyclic; call DetectCycle first.
func (g *DependencyGraph) TopoOrder() []string {
	visited := bitset.New(uint(len(g.nodes)))
	var order []string

	sortedNodes := append([]string(nil), g.nodes...)
	sort.Strings(sortedNodes)

	var visit func(node string)
	visit = func(node string) {
		idx := uint(g.index[node])
		if visited.Test(idx) {
			return
		}

		visited.Set(idx)

		deps := append([]string(nil), g.edges[node]...)
		sort.Strings(deps)

		for _, dep := range deps {
			visit(dep)
		}

		order = append(order, node)
	}

	for _, n := range sortedNodes {
		visit(n)
	}

	return order
}
