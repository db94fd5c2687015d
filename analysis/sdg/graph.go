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

// Package sdg contains the system dependence graph model: a flat store of typed nodes and edges over the program
// points of all procedures and threads of a program, together with the structural queries the slicers need
// (procedure entries and exits, call sites of interprocedural edges, formal and actual parameters, summary edges).
//
// A graph is built once with a [Builder] and is read-only afterwards. The only mutable state is the memoization of
// procedure entries and exits, which is synchronized: a *Graph can be shared by concurrent slicing calls.
package sdg

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/awslabs/ar-go-sdg/internal/formatutil"
	"github.com/awslabs/ar-go-sdg/internal/funcutil"
)

// NodeID identifies a node of a graph. Ids are dense: a graph with n nodes uses ids 0..n-1.
type NodeID int32

// EdgeID identifies an edge of a graph
type EdgeID int32

// ProcID identifies a procedure
type ProcID int32

// ThreadID identifies a modeled program thread
type ThreadID int32

// MainThread is the thread nodes belong to when no thread is specified
const MainThread ThreadID = 0

// Node is a program point.
type Node struct {
	ID      NodeID
	Kind    NodeKind
	Proc    ProcID
	Threads []ThreadID
	Label   string
}

// InThread returns true if the node belongs to thread t
func (n Node) InThread(t ThreadID) bool {
	return funcutil.Contains(n.Threads, t)
}

func (n Node) String() string {
	if n.Label != "" {
		return fmt.Sprintf("%d[%s %s]", n.ID, n.Kind, formatutil.Sanitize(n.Label))
	}
	return fmt.Sprintf("%d[%s]", n.ID, n.Kind)
}

// Edge is a directed, kind-tagged dependence or flow edge
type Edge struct {
	ID     EdgeID
	Source NodeID
	Target NodeID
	Kind   EdgeKind
}

func (e Edge) String() string {
	return fmt.Sprintf("%d -%s-> %d", e.Source, e.Kind, e.Target)
}

// Procedure is a named procedure and the nodes it owns
type Procedure struct {
	ID    ProcID
	Name  string
	nodes []NodeID
}

// Graph is a system dependence graph. Use a Builder to create one.
type Graph struct {
	nodes []Node
	edges []Edge
	in    [][]EdgeID
	out   [][]EdgeID
	procs map[ProcID]*Procedure

	// threads is the sorted list of threads that own at least one node
	threads []ThreadID

	// members is non-nil for subgraphs. Only nodes in members are part of the graph.
	members *NodeSet

	// memo caches procedure entries and exits
	memo procMemo
}

type procMemo struct {
	sync.RWMutex
	entries map[ProcID]NodeID
	exits   map[ProcID]NodeID
}

func (m *procMemo) lookup(table map[ProcID]NodeID, p ProcID) (NodeID, bool) {
	m.RLock()
	defer m.RUnlock()
	n, ok := table[p]
	return n, ok
}

func (m *procMemo) store(table map[ProcID]NodeID, p ProcID, n NodeID) {
	m.Lock()
	defer m.Unlock()
	table[p] = n
}

func newGraph(nodes []Node, edges []Edge, procs map[ProcID]*Procedure, members *NodeSet) *Graph {
	g := &Graph{
		nodes:   nodes,
		edges:   edges,
		in:      make([][]EdgeID, len(nodes)),
		out:     make([][]EdgeID, len(nodes)),
		procs:   procs,
		members: members,
		memo: procMemo{
			entries: map[ProcID]NodeID{},
			exits:   map[ProcID]NodeID{},
		},
	}
	for _, e := range edges {
		if members != nil && !(members.Has(e.Source) && members.Has(e.Target)) {
			continue
		}
		g.out[e.Source] = append(g.out[e.Source], e.ID)
		g.in[e.Target] = append(g.in[e.Target], e.ID)
	}
	threadSet := map[ThreadID]bool{}
	for _, n := range nodes {
		if members != nil && !members.Has(n.ID) {
			continue
		}
		for _, t := range n.Threads {
			threadSet[t] = true
		}
	}
	g.threads = funcutil.SetToOrderedSlice(threadSet)
	return g
}

// NumNodes returns the size of the node id space of the graph
func (g *Graph) NumNodes() int {
	return len(g.nodes)
}

// NumEdges returns the size of the edge id space of the graph. Subgraphs share the id space of their parent.
func (g *Graph) NumEdges() int {
	return len(g.edges)
}

// Contains returns true if n is a node of g
func (g *Graph) Contains(n NodeID) bool {
	if n < 0 || int(n) >= len(g.nodes) {
		return false
	}
	return g.members == nil || g.members.Has(n)
}

// Node returns the node with id n. The caller must ensure g.Contains(n).
func (g *Graph) Node(n NodeID) *Node {
	return &g.nodes[n]
}

// Edge returns the edge with id e
func (g *Graph) Edge(e EdgeID) Edge {
	return g.edges[e]
}

// In returns the ids of the edges whose target is n
func (g *Graph) In(n NodeID) []EdgeID {
	return g.in[n]
}

// Out returns the ids of the edges whose source is n
func (g *Graph) Out(n NodeID) []EdgeID {
	return g.out[n]
}

// Nodes returns the ids of all the nodes of g, in increasing order
func (g *Graph) Nodes() []NodeID {
	if g.members != nil {
		return g.members.Nodes()
	}
	ids := make([]NodeID, len(g.nodes))
	for i := range g.nodes {
		ids[i] = NodeID(i)
	}
	return ids
}

// Procedure returns the procedure with id p, or nil
func (g *Graph) Procedure(p ProcID) *Procedure {
	return g.procs[p]
}

// Procedures returns all the procedures of g ordered by id
func (g *Graph) Procedures() []*Procedure {
	procs := make([]*Procedure, 0, len(g.procs))
	for _, p := range g.procs {
		procs = append(procs, p)
	}
	sort.Slice(procs, func(i, j int) bool { return procs[i].ID < procs[j].ID })
	return procs
}

// ProcNodes returns the nodes of procedure p that are part of g
func (g *Graph) ProcNodes(p ProcID) []NodeID {
	proc := g.procs[p]
	if proc == nil {
		return nil
	}
	if g.members == nil {
		return proc.nodes
	}
	var ids []NodeID
	for _, n := range proc.nodes {
		if g.members.Has(n) {
			ids = append(ids, n)
		}
	}
	return ids
}

// Threads returns the threads that own at least one node of g
func (g *Graph) Threads() []ThreadID {
	return g.threads
}

// HasThread returns true if some node of g belongs to thread t
func (g *Graph) HasThread(t ThreadID) bool {
	i := sort.Search(len(g.threads), func(i int) bool { return g.threads[i] >= t })
	return i < len(g.threads) && g.threads[i] == t
}

// ProcName returns the name of the procedure of node n
func (g *Graph) ProcName(n NodeID) string {
	if p := g.procs[g.nodes[n].Proc]; p != nil {
		return p.Name
	}
	return fmt.Sprintf("proc#%d", g.nodes[n].Proc)
}

func (g *Graph) String() string {
	return fmt.Sprintf("SDG{%d nodes, %d edges, %d procedures, %d threads}",
		len(g.nodes), len(g.edges), len(g.procs), len(g.threads))
}

// Print writes the graph in the dot format, one cluster per procedure
func (g *Graph) Print(w io.Writer) {
	fmt.Fprintf(w, "digraph sdg {\n")
	fmt.Fprintf(w, "\tcompound=true;\n")
	for _, p := range g.Procedures() {
		fmt.Fprintf(w, "\tsubgraph \"cluster_%d\" {\n", p.ID)
		fmt.Fprintf(w, "\t\tlabel=%q;\n", p.Name)
		for _, n := range g.ProcNodes(p.ID) {
			fmt.Fprintf(w, "\t\t%d [label=%q];\n", n, g.nodes[n].String())
		}
		fmt.Fprintf(w, "\t}\n")
	}
	for _, e := range g.edges {
		if !g.Contains(e.Source) || !g.Contains(e.Target) {
			continue
		}
		style := "solid"
		if e.Kind.IsFlow() {
			style = "dotted"
		} else if e.Kind.IsConcurrency() {
			style = "dashed"
		}
		fmt.Fprintf(w, "\t%d -> %d [label=%q, style=%s];\n", e.Source, e.Target, e.Kind.String(), style)
	}
	fmt.Fprintf(w, "}\n")
}

// Builder accumulates nodes and edges. Errors are reported by Build.
type Builder struct {
	nodes []Node
	edges []Edge
	procs map[ProcID]*Procedure
	errs  []string
}

// NewBuilder returns an empty graph builder
func NewBuilder() *Builder {
	return &Builder{procs: map[ProcID]*Procedure{}}
}

// AddProcedure declares a new procedure and returns its id
func (b *Builder) AddProcedure(name string) ProcID {
	id := ProcID(len(b.procs))
	b.procs[id] = &Procedure{ID: id, Name: name}
	return id
}

// AddNode adds a node of kind k to procedure p. If no thread is given, the node belongs to MainThread.
func (b *Builder) AddNode(p ProcID, k NodeKind, label string, threads ...ThreadID) NodeID {
	id := NodeID(len(b.nodes))
	if len(threads) == 0 {
		threads = []ThreadID{MainThread}
	}
	b.nodes = append(b.nodes, Node{ID: id, Kind: k, Proc: p, Threads: threads, Label: label})
	if proc, ok := b.procs[p]; ok {
		proc.nodes = append(proc.nodes, id)
	} else {
		b.errs = append(b.errs, fmt.Sprintf("node %d: unknown procedure %d", id, p))
	}
	return id
}

// AddEdge adds an edge of kind k from src to dst
func (b *Builder) AddEdge(src, dst NodeID, k EdgeKind) EdgeID {
	id := EdgeID(len(b.edges))
	if !k.Valid() {
		b.errs = append(b.errs, fmt.Sprintf("edge %d: invalid kind %d", id, k))
	}
	if src < 0 || int(src) >= len(b.nodes) || dst < 0 || int(dst) >= len(b.nodes) {
		b.errs = append(b.errs, fmt.Sprintf("edge %d: dangling endpoint (%d -> %d)", id, src, dst))
	}
	b.edges = append(b.edges, Edge{ID: id, Source: src, Target: dst, Kind: k})
	return id
}

// Build returns the graph. The builder must not be used afterwards.
func (b *Builder) Build() (*Graph, error) {
	if len(b.errs) > 0 {
		return nil, structuralf("build", -1, "%s", strings.Join(b.errs, "; "))
	}
	return newGraph(b.nodes, b.edges, b.procs, nil), nil
}
