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

package slicing_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/awslabs/ar-go-sdg/analysis/callctx"
	"github.com/awslabs/ar-go-sdg/analysis/config"
	"github.com/awslabs/ar-go-sdg/analysis/sdg"
	"github.com/awslabs/ar-go-sdg/analysis/slicing"
	"github.com/stretchr/testify/require"
)

type namedManager struct {
	name string
	m    callctx.Manager
}

// managers returns one manager of each kind for g
func managers(g *sdg.Graph) []namedManager {
	return []namedManager{
		{"static", callctx.NewStaticManager(g, config.DefaultMaxCallStringDepth)},
		{"dynamic", callctx.NewDynamicManager(g)},
	}
}

func newSlicer(t *testing.T, m callctx.Manager, dir slicing.Direction) *slicing.Slicer {
	t.Helper()
	s, err := slicing.New(m, slicing.Params{Direction: dir})
	require.NoError(t, err)
	return s
}

func slice(t *testing.T, s *slicing.Slicer, criteria ...sdg.NodeID) *sdg.NodeSet {
	t.Helper()
	result, err := s.Slice(context.Background(), criteria)
	require.NoError(t, err)
	return result
}

// referenceSlice is a context-sensitive search that keeps complete call stacks and ignores summary edges: it enters
// every callee and returns from it through the matching call site. Criteria start with an empty stack, from which
// any caller can be reached. The graph must not be recursive.
func referenceSlice(t *testing.T, g *sdg.Graph, dir slicing.Direction, criteria []sdg.NodeID) *sdg.NodeSet {
	type state struct {
		node  sdg.NodeID
		stack []sdg.NodeID
	}
	key := func(s state) string { return fmt.Sprint(s.node, s.stack) }
	seen := map[string]bool{}
	result := &sdg.NodeSet{}
	var work []state
	add := func(s state) {
		if !seen[key(s)] {
			seen[key(s)] = true
			result.Add(s.node)
			work = append(work, s)
		}
	}
	for _, n := range criteria {
		add(state{node: n})
	}
	for len(work) > 0 {
		cur := work[len(work)-1]
		work = work[:len(work)-1]
		edges := g.In(cur.node)
		if dir.IsForward() {
			edges = g.Out(cur.node)
		}
		for _, eid := range edges {
			e := g.Edge(eid)
			if e.Kind.IsFlow() || e.Kind.IsConcurrency() || e.Kind == sdg.Summary {
				continue
			}
			reached := e.Source
			if dir.IsForward() {
				reached = e.Target
			}
			switch {
			case g.IsInitializerTrigger(eid):
				add(state{node: reached})
			case dir.Ascends(e.Kind):
				call, err := g.CallSiteForEdge(eid)
				require.NoError(t, err)
				switch n := len(cur.stack); {
				case n == 0:
					add(state{node: reached})
				case cur.stack[n-1] == call:
					add(state{node: reached, stack: cur.stack[:n-1]})
				}
			case dir.Descends(e.Kind):
				call, err := g.CallSiteForEdge(eid)
				require.NoError(t, err)
				stack := append(append([]sdg.NodeID(nil), cur.stack...), call)
				add(state{node: reached, stack: stack})
			default:
				add(state{node: reached, stack: cur.stack})
			}
		}
	}
	return result
}

// reverse returns a copy of g where every edge is reversed
func reverse(t *testing.T, g *sdg.Graph) *sdg.Graph {
	b := sdg.NewBuilder()
	for _, p := range g.Procedures() {
		pid := b.AddProcedure(p.Name)
		for _, n := range g.ProcNodes(p.ID) {
			node := g.Node(n)
			require.Equal(t, n, b.AddNode(pid, node.Kind, node.Label, node.Threads...))
		}
	}
	for e := sdg.EdgeID(0); int(e) < g.NumEdges(); e++ {
		edge := g.Edge(e)
		b.AddEdge(edge.Target, edge.Source, edge.Kind)
	}
	r, err := b.Build()
	require.NoError(t, err)
	return r
}
