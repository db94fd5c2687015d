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

package sdg

import (
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/iterator"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"
)

// DependenceView is a gonum graph.Directed view of the graph restricted to the edges accepted by a filter.
// If Reversed is set, every edge is seen in the opposite direction.
type DependenceView struct {
	g        *Graph
	accept   func(Edge) bool
	Reversed bool
}

// View returns a gonum view of g that only contains the edges accepted by accept. A nil filter accepts every
// dependence edge (flow edges are never part of the view).
func (g *Graph) View(accept func(Edge) bool) *DependenceView {
	if accept == nil {
		accept = func(e Edge) bool { return !e.Kind.IsFlow() }
	}
	return &DependenceView{g: g, accept: accept}
}

func (v *DependenceView) succEdges(id NodeID) []EdgeID {
	if v.Reversed {
		return v.g.in[id]
	}
	return v.g.out[id]
}

func (v *DependenceView) predEdges(id NodeID) []EdgeID {
	if v.Reversed {
		return v.g.out[id]
	}
	return v.g.in[id]
}

func (v *DependenceView) other(e Edge, forward bool) NodeID {
	if forward != v.Reversed {
		return e.Target
	}
	return e.Source
}

func (v *DependenceView) collect(id int64, forward bool) graph.Nodes {
	n := NodeID(id)
	if !v.g.Contains(n) {
		return graph.Empty
	}
	edges := v.predEdges(n)
	if forward {
		edges = v.succEdges(n)
	}
	seen := &NodeSet{}
	var nodes []graph.Node
	for _, eid := range edges {
		e := v.g.edges[eid]
		m := v.other(e, forward)
		if v.accept(e) && v.g.Contains(m) && seen.Add(m) {
			nodes = append(nodes, simple.Node(m))
		}
	}
	if len(nodes) == 0 {
		return graph.Empty
	}
	return iterator.NewOrderedNodes(nodes)
}

// Node implements graph.Graph
func (v *DependenceView) Node(id int64) graph.Node {
	if !v.g.Contains(NodeID(id)) {
		return nil
	}
	return simple.Node(id)
}

// Nodes implements graph.Graph
func (v *DependenceView) Nodes() graph.Nodes {
	ids := v.g.Nodes()
	nodes := make([]graph.Node, len(ids))
	for i, id := range ids {
		nodes[i] = simple.Node(id)
	}
	return iterator.NewOrderedNodes(nodes)
}

// From implements graph.Graph
func (v *DependenceView) From(id int64) graph.Nodes {
	return v.collect(id, true)
}

// To implements graph.Directed
func (v *DependenceView) To(id int64) graph.Nodes {
	return v.collect(id, false)
}

// HasEdgeFromTo implements graph.Directed
func (v *DependenceView) HasEdgeFromTo(uid, vid int64) bool {
	u := NodeID(uid)
	if !v.g.Contains(u) || !v.g.Contains(NodeID(vid)) {
		return false
	}
	for _, eid := range v.succEdges(u) {
		e := v.g.edges[eid]
		if v.accept(e) && v.other(e, true) == NodeID(vid) {
			return true
		}
	}
	return false
}

// HasEdgeBetween implements graph.Graph
func (v *DependenceView) HasEdgeBetween(xid, yid int64) bool {
	return v.HasEdgeFromTo(xid, yid) || v.HasEdgeFromTo(yid, xid)
}

// Edge implements graph.Graph
func (v *DependenceView) Edge(uid, vid int64) graph.Edge {
	if !v.HasEdgeFromTo(uid, vid) {
		return nil
	}
	return simple.Edge{F: simple.Node(uid), T: simple.Node(vid)}
}

// Reachable returns the nodes reachable from the nodes in from in the view, ignoring calling contexts.
// This over-approximates every context-sensitive slice computed with the same edges.
func (v *DependenceView) Reachable(from []NodeID) *NodeSet {
	reached := &NodeSet{}
	bfs := traverse.BreadthFirst{
		Visit: func(n graph.Node) { reached.Add(NodeID(n.ID())) },
	}
	for _, n := range from {
		if !v.g.Contains(n) || reached.Has(n) {
			continue
		}
		bfs.Walk(v, simple.Node(n), nil)
	}
	return reached
}
