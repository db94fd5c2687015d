// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package callctx

import (
	"github.com/awslabs/ar-go-sdg/analysis/sdg"
	"github.com/awslabs/ar-go-sdg/internal/graphutil"
)

// StaticManager precomputes the call strings of every procedure when it is created.
//
// Recursion is folded: the strongly connected components of the call graph are collapsed, and a call site between
// two procedures of the same component never changes the call string. Call strings are bounded by maxDepth;
// pushing a call site on a full call string drops its outermost call site, and the result is rooted in Unknown
// since its outermost callers are no longer known.
type StaticManager struct {
	g        *sdg.Graph
	cg       *graphutil.CallGraph
	maxDepth int
	stacks   *stackTable

	// recursive contains the call sites whose caller and callee are in the same component
	recursive *sdg.NodeSet

	// procStacks maps each procedure to the call strings it can be reached with
	procStacks map[sdg.ProcID][]StackID
}

// NewStaticManager returns a static context manager for g with call strings of length at most maxDepth.
// If maxDepth <= 0, call strings have length at most 1.
func NewStaticManager(g *sdg.Graph, maxDepth int) *StaticManager {
	if maxDepth <= 0 {
		maxDepth = 1
	}
	m := &StaticManager{
		g:          g,
		cg:         graphutil.NewCallGraph(g),
		maxDepth:   maxDepth,
		stacks:     newStackTable(),
		recursive:  &sdg.NodeSet{},
		procStacks: map[sdg.ProcID][]StackID{},
	}
	m.precompute()
	return m
}

type componentStack struct {
	component int
	stack     StackID
}

// precompute folds the recursive call sites and enumerates the call strings of every component, starting from the
// components no other component calls.
func (m *StaticManager) precompute() {
	components := m.cg.StrongComponents()
	componentOf := make([]int, m.cg.Order())
	for i, component := range components {
		for _, v := range component {
			componentOf[v] = i
		}
	}

	external := make([]bool, len(components))
	for v := 0; v < m.cg.Order(); v++ {
		for _, cs := range m.cg.CallSitesFrom(v) {
			if componentOf[cs.Caller] == componentOf[cs.Callee] {
				m.recursive.Add(cs.Site)
			} else {
				external[componentOf[cs.Callee]] = true
			}
		}
	}

	seen := map[componentStack]bool{}
	var queue []componentStack
	for i := range components {
		if !external[i] {
			cur := componentStack{component: i, stack: Root}
			seen[cur] = true
			queue = append(queue, cur)
		}
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, v := range components[cur.component] {
			proc := m.cg.Proc(v)
			m.procStacks[proc] = append(m.procStacks[proc], cur.stack)
			for _, cs := range m.cg.CallSitesFrom(v) {
				if m.recursive.Has(cs.Site) {
					continue
				}
				next := componentStack{component: componentOf[cs.Callee], stack: m.push(cur.stack, cs.Site)}
				if !seen[next] {
					seen[next] = true
					queue = append(queue, next)
				}
			}
		}
	}
}

// push pushes site on s, dropping the outermost call site if the result would be longer than maxDepth
func (m *StaticManager) push(s StackID, site sdg.NodeID) StackID {
	if m.stacks.depth(s) < m.maxDepth {
		return m.stacks.push(s, site)
	}
	sites := m.stacks.sites(s)
	return m.stacks.intern(Unknown, append(sites[1:], site))
}

// Graph implements Manager
func (m *StaticManager) Graph() *sdg.Graph {
	return m.g
}

// TopLevel implements Manager
func (m *StaticManager) TopLevel(n sdg.NodeID) []Context {
	return topLevel(m.g, n)
}

// AllContextsOf implements Manager. It returns one context per precomputed call string of the procedure of n and
// per thread of n.
func (m *StaticManager) AllContextsOf(n sdg.NodeID) []Context {
	node := m.g.Node(n)
	stacks := m.procStacks[node.Proc]
	if len(stacks) == 0 {
		return topLevel(m.g, n)
	}
	contexts := make([]Context, 0, len(stacks)*len(node.Threads))
	for _, t := range node.Threads {
		for _, s := range stacks {
			contexts = append(contexts, Context{Node: n, Stack: s, Thread: t})
		}
	}
	return contexts
}

// Level implements Manager
func (m *StaticManager) Level(n sdg.NodeID, ctx Context) Context {
	return Context{Node: n, Stack: ctx.Stack, Thread: ctx.Thread}
}

// Descend implements Manager
func (m *StaticManager) Descend(n sdg.NodeID, call sdg.NodeID, ctx Context) Context {
	if m.recursive.Has(call) {
		return Context{Node: n, Stack: ctx.Stack, Thread: ctx.Thread}
	}
	return Context{Node: n, Stack: m.push(ctx.Stack, call), Thread: ctx.Thread}
}

// Ascend implements Manager
func (m *StaticManager) Ascend(n sdg.NodeID, call sdg.NodeID, ctx Context) []Context {
	if m.recursive.Has(call) {
		return []Context{{Node: n, Stack: ctx.Stack, Thread: ctx.Thread}}
	}
	top, ok := m.stacks.top(ctx.Stack)
	if !ok {
		if m.stacks.base(ctx.Stack) == Root {
			return nil
		}
		return []Context{{Node: n, Stack: Unknown, Thread: ctx.Thread}}
	}
	if top != call {
		return nil
	}
	return []Context{{Node: n, Stack: m.stacks.pop(ctx.Stack), Thread: ctx.Thread}}
}

// CallString implements Manager
func (m *StaticManager) CallString(ctx Context) []sdg.NodeID {
	return m.stacks.sites(ctx.Stack)
}

// Owns implements Manager
func (m *StaticManager) Owns(ctx Context) bool {
	return m.g.Contains(ctx.Node) && m.stacks.valid(ctx.Stack)
}

// IsRecursiveCallSite returns true if call is folded: its caller and callee are mutually recursive
func (m *StaticManager) IsRecursiveCallSite(call sdg.NodeID) bool {
	return m.recursive.Has(call)
}

// NumCallStrings returns the number of call strings interned so far
func (m *StaticManager) NumCallStrings() int {
	return m.stacks.size()
}
