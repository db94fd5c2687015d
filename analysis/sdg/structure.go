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

// EntryOf returns the entry node of the procedure of n.
//
// The entry is found by a search backwards along intraprocedural control edges, bounded by the size of the
// procedure; isolated nodes without control predecessors fall back to the procedure's node index. The result is
// memoized per procedure, so only the first query on a procedure costs more than a map lookup.
func (g *Graph) EntryOf(n NodeID) (NodeID, error) {
	if !g.Contains(n) {
		return -1, structuralf("entry", n, "node is not in the graph")
	}
	node := &g.nodes[n]
	if node.Kind == Entry {
		return n, nil
	}
	if e, ok := g.memo.lookup(g.memo.entries, node.Proc); ok {
		return e, nil
	}
	e, ok := g.searchControl(n, Entry, true)
	if !ok {
		return -1, structuralf("entry", n, "no entry node in procedure %s", g.ProcName(n))
	}
	g.memo.store(g.memo.entries, node.Proc, e)
	return e, nil
}

// ExitOf returns the exit node of the procedure of n. See EntryOf.
func (g *Graph) ExitOf(n NodeID) (NodeID, error) {
	if !g.Contains(n) {
		return -1, structuralf("exit", n, "node is not in the graph")
	}
	node := &g.nodes[n]
	if node.Kind == Exit {
		return n, nil
	}
	if e, ok := g.memo.lookup(g.memo.exits, node.Proc); ok {
		return e, nil
	}
	e, ok := g.searchControl(n, Exit, false)
	if !ok {
		return -1, structuralf("exit", n, "no exit node in procedure %s", g.ProcName(n))
	}
	g.memo.store(g.memo.exits, node.Proc, e)
	return e, nil
}

// searchControl looks for a node of kind target in the procedure of start, following intraprocedural control
// edges backwards (or forwards if backwards is false).
func (g *Graph) searchControl(start NodeID, target NodeKind, backwards bool) (NodeID, bool) {
	proc := g.nodes[start].Proc
	bound := len(g.ProcNodes(proc))
	seen := NewNodeSet(start)
	queue := []NodeID{start}
	for len(queue) > 0 && seen.Len() <= bound {
		cur := queue[0]
		queue = queue[1:]
		edges := g.out[cur]
		if backwards {
			edges = g.in[cur]
		}
		for _, eid := range edges {
			e := g.edges[eid]
			if !e.Kind.IsControl() {
				continue
			}
			next := e.Target
			if backwards {
				next = e.Source
			}
			if g.nodes[next].Proc != proc || !seen.Add(next) {
				continue
			}
			if g.nodes[next].Kind == target {
				return next, true
			}
			queue = append(queue, next)
		}
	}
	// Synthetic nodes may have no control edges at all
	for _, m := range g.ProcNodes(proc) {
		if g.nodes[m].Kind == target {
			return m, true
		}
	}
	return -1, false
}

// CallSiteFor returns the call site owning n: n itself if it is a call or fork node, otherwise the call node
// reached by walking control-dependence-expression edges backwards (actual parameter trees hang below their call
// node). Returns a StructuralError if there is none.
func (g *Graph) CallSiteFor(n NodeID) (NodeID, error) {
	if !g.Contains(n) {
		return -1, structuralf("call site", n, "node is not in the graph")
	}
	if g.nodes[n].Kind.IsCallSite() {
		return n, nil
	}
	seen := NewNodeSet(n)
	queue := []NodeID{n}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, eid := range g.in[cur] {
			e := g.edges[eid]
			if e.Kind != ControlDepExpr || !seen.Add(e.Source) {
				continue
			}
			if g.nodes[e.Source].Kind.IsCallSite() {
				return e.Source, nil
			}
			queue = append(queue, e.Source)
		}
	}
	return -1, structuralf("call site", n, "no call node above %s", g.nodes[n].String())
}

// CallSiteForEdge returns the call site of an interprocedural edge: the endpoint of e that lies in the caller,
// resolved to its call node.
func (g *Graph) CallSiteForEdge(eid EdgeID) (NodeID, error) {
	e := g.edges[eid]
	switch e.Kind {
	case CallEdge, ForkEdge:
		return e.Source, nil
	case ParamIn, ForkInEdge, Summary:
		return g.CallSiteFor(e.Source)
	case ParamOut, ForkOutEdge:
		return g.CallSiteFor(e.Target)
	default:
		return -1, structuralf("call site", e.Source, "%s edge has no call site", e.Kind)
	}
}

// IsInitializerTrigger returns true if eid is a call or parameter-in edge leaving a formal-out node. These edges
// link the formal-out of a static initializer to the program point that triggers the initializer; they have no call
// site, and the initializer runs in no particular calling context.
func (g *Graph) IsInitializerTrigger(eid EdgeID) bool {
	e := g.edges[eid]
	return (e.Kind == CallEdge || e.Kind == ParamIn) && g.nodes[e.Source].Kind == FormalOut
}

// CallEntryFor returns the call node and the callee entry node an interprocedural edge goes through.
func (g *Graph) CallEntryFor(eid EdgeID) (call NodeID, entry NodeID, err error) {
	e := g.edges[eid]
	switch e.Kind {
	case CallEdge, ForkEdge:
		return e.Source, e.Target, nil
	case ParamIn, ForkInEdge:
		if call, err = g.CallSiteFor(e.Source); err != nil {
			return -1, -1, err
		}
		entry, err = g.EntryOf(e.Target)
	case ParamOut, ForkOutEdge:
		if call, err = g.CallSiteFor(e.Target); err != nil {
			return -1, -1, err
		}
		entry, err = g.EntryOf(e.Source)
	default:
		return -1, -1, structuralf("call entry", e.Source, "%s edge does not cross a call", e.Kind)
	}
	if err != nil {
		return -1, -1, err
	}
	return call, entry, nil
}

// parameterTree returns the nodes below root through control-dependence-expression edges that satisfy keep.
// The walk only continues through nodes that satisfy keep.
func (g *Graph) parameterTree(root NodeID, keep func(NodeKind) bool) []NodeID {
	var params []NodeID
	seen := NewNodeSet(root)
	queue := []NodeID{root}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, eid := range g.out[cur] {
			e := g.edges[eid]
			if e.Kind != ControlDepExpr || !keep(g.nodes[e.Target].Kind) || !seen.Add(e.Target) {
				continue
			}
			params = append(params, e.Target)
			queue = append(queue, e.Target)
		}
	}
	return params
}

// FormalsOf returns the formal parameter nodes of the procedure whose entry is entry
func (g *Graph) FormalsOf(entry NodeID) []NodeID {
	return g.parameterTree(entry, NodeKind.IsFormal)
}

// ActualsOf returns the actual parameter nodes of the call site call
func (g *Graph) ActualsOf(call NodeID) []NodeID {
	return g.parameterTree(call, NodeKind.IsActual)
}

// SummaryEdgesOf returns the summary edges rooted in the actual parameters of call
func (g *Graph) SummaryEdgesOf(call NodeID) []EdgeID {
	var summaries []EdgeID
	for _, a := range g.ActualsOf(call) {
		for _, eid := range g.out[a] {
			if g.edges[eid].Kind == Summary && g.Contains(g.edges[eid].Target) {
				summaries = append(summaries, eid)
			}
		}
	}
	return summaries
}

// Callees returns the entries of the procedures called (or spawned) at call
func (g *Graph) Callees(call NodeID) []NodeID {
	var entries []NodeID
	for _, eid := range g.out[call] {
		if k := g.edges[eid].Kind; k == CallEdge || k == ForkEdge {
			entries = append(entries, g.edges[eid].Target)
		}
	}
	return entries
}

// CallersOf returns the call sites that call the procedure whose entry is entry. Fork sites are not included.
func (g *Graph) CallersOf(entry NodeID) []NodeID {
	var calls []NodeID
	for _, eid := range g.in[entry] {
		if g.edges[eid].Kind == CallEdge {
			calls = append(calls, g.edges[eid].Source)
		}
	}
	return calls
}

// IsCalleeOf returns true if call has a call edge to the entry of procedure p
func (g *Graph) IsCalleeOf(call NodeID, p ProcID) bool {
	for _, eid := range g.out[call] {
		e := g.edges[eid]
		if e.Kind == CallEdge && g.nodes[e.Target].Proc == p {
			return true
		}
	}
	return false
}

// Subgraph returns the subgraph of g induced by nodes. The subgraph keeps the ids of g; edges with an endpoint
// outside nodes are dropped.
func (g *Graph) Subgraph(nodes *NodeSet) *Graph {
	members := nodes.Copy()
	if g.members != nil {
		members = members.Intersection(g.members)
	}
	return newGraph(g.nodes, g.edges, g.procs, members)
}
