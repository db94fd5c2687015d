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

package graphutil

import (
	"sort"

	"github.com/awslabs/ar-go-sdg/analysis/sdg"
	ybgraph "github.com/yourbasic/graph"
)

// CallSite is an edge of the procedure call graph: Site is the call node in procedure Caller that calls the
// procedure Callee. Caller and Callee are vertex indexes of the call graph.
type CallSite struct {
	Site   sdg.NodeID
	Caller int
	Callee int
}

// CallGraph is the procedure-level call graph of a dependence graph. Vertices are numbered 0..Order()-1.
// Only call edges are considered: procedures spawned by fork edges are thread roots, not callees.
//
// CallGraph implements the yourbasic graph.Iterator interface.
type CallGraph struct {
	procs []sdg.ProcID
	index map[sdg.ProcID]int
	out   [][]CallSite
	in    [][]CallSite
}

// NewCallGraph extracts the call graph of g.
func NewCallGraph(g *sdg.Graph) *CallGraph {
	procs := g.Procedures()
	cg := &CallGraph{
		procs: make([]sdg.ProcID, len(procs)),
		index: make(map[sdg.ProcID]int, len(procs)),
		out:   make([][]CallSite, len(procs)),
		in:    make([][]CallSite, len(procs)),
	}
	for i, p := range procs {
		cg.procs[i] = p.ID
		cg.index[p.ID] = i
	}
	for _, n := range g.Nodes() {
		if g.Node(n).Kind != sdg.Call {
			continue
		}
		for _, eid := range g.Out(n) {
			e := g.Edge(eid)
			if e.Kind != sdg.CallEdge || !g.Contains(e.Target) {
				continue
			}
			cs := CallSite{
				Site:   n,
				Caller: cg.index[g.Node(n).Proc],
				Callee: cg.index[g.Node(e.Target).Proc],
			}
			cg.out[cs.Caller] = append(cg.out[cs.Caller], cs)
			cg.in[cs.Callee] = append(cg.in[cs.Callee], cs)
		}
	}
	return cg
}

// Order returns the number of procedures. It implements the yourbasic graph.Iterator interface.
func (c *CallGraph) Order() int {
	return len(c.procs)
}

// Visit calls do for every callee of v. It implements the yourbasic graph.Iterator interface.
func (c *CallGraph) Visit(v int, do func(w int, c int64) (skip bool)) (aborted bool) {
	if v < 0 || v >= len(c.procs) {
		return false
	}
	for _, cs := range c.out[v] {
		if do(cs.Callee, 1) {
			return true
		}
	}
	return false
}

// Vertex returns the vertex index of procedure p
func (c *CallGraph) Vertex(p sdg.ProcID) (int, bool) {
	i, ok := c.index[p]
	return i, ok
}

// Proc returns the procedure of vertex v
func (c *CallGraph) Proc(v int) sdg.ProcID {
	return c.procs[v]
}

// CallSitesFrom returns the call sites in the procedure of vertex v
func (c *CallGraph) CallSitesFrom(v int) []CallSite {
	return c.out[v]
}

// CallSitesTo returns the call sites calling the procedure of vertex v
func (c *CallGraph) CallSitesTo(v int) []CallSite {
	return c.in[v]
}

// StrongComponents returns the strongly connected components of the call graph, as vertex indexes.
func (c *CallGraph) StrongComponents() [][]int {
	components := ybgraph.StrongComponents(c)
	for _, component := range components {
		sort.Ints(component)
	}
	return components
}
