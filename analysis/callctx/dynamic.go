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
)

// DynamicManager grows call strings lazily, without bounding their length. Contexts only distinguish the call
// strings that a slice actually reaches, at the cost of memory on deep call chains.
//
// When a call site is descended into while it is already on the call string, the call string is folded back to
// its first occurrence of that site: the cycle between the two occurrences is a recursion that the call string
// already describes, and folding it keeps the set of contexts finite.
type DynamicManager struct {
	g      *sdg.Graph
	stacks *stackTable
}

// NewDynamicManager returns a dynamic context manager bound to g
func NewDynamicManager(g *sdg.Graph) *DynamicManager {
	return &DynamicManager{g: g, stacks: newStackTable()}
}

// Graph implements Manager
func (m *DynamicManager) Graph() *sdg.Graph {
	return m.g
}

// TopLevel implements Manager
func (m *DynamicManager) TopLevel(n sdg.NodeID) []Context {
	return topLevel(m.g, n)
}

// AllContextsOf implements Manager. Dynamic contexts are not enumerated ahead of time: the contexts of a node are
// its top-level contexts.
func (m *DynamicManager) AllContextsOf(n sdg.NodeID) []Context {
	return topLevel(m.g, n)
}

// Level implements Manager
func (m *DynamicManager) Level(n sdg.NodeID, ctx Context) Context {
	return Context{Node: n, Stack: ctx.Stack, Thread: ctx.Thread}
}

// Descend implements Manager
func (m *DynamicManager) Descend(n sdg.NodeID, call sdg.NodeID, ctx Context) Context {
	if prefix, ok := m.stacks.find(ctx.Stack, call); ok {
		return Context{Node: n, Stack: prefix, Thread: ctx.Thread}
	}
	return Context{Node: n, Stack: m.stacks.push(ctx.Stack, call), Thread: ctx.Thread}
}

// Ascend implements Manager
func (m *DynamicManager) Ascend(n sdg.NodeID, call sdg.NodeID, ctx Context) []Context {
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
func (m *DynamicManager) CallString(ctx Context) []sdg.NodeID {
	return m.stacks.sites(ctx.Stack)
}

// Owns implements Manager
func (m *DynamicManager) Owns(ctx Context) bool {
	return m.g.Contains(ctx.Node) && m.stacks.valid(ctx.Stack)
}

// NumCallStrings returns the number of call strings interned so far
func (m *DynamicManager) NumCallStrings() int {
	return m.stacks.size()
}
