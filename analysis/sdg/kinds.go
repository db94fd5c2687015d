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
	"fmt"
	"strings"
)

// NodeKind is the kind of program point a node represents. The set of kinds is closed.
type NodeKind uint8

const (
	// Entry is the unique entry node of a procedure
	Entry NodeKind = iota
	// Exit is the unique exit node of a procedure
	Exit
	// Call is a call site. Its actual parameters hang below it through control-dependence-expression edges.
	Call
	// ActualIn is an argument passed at a call site
	ActualIn
	// ActualOut is a value returned to a call site (return value, modified heap location)
	ActualOut
	// FormalIn is a parameter received by a procedure
	FormalIn
	// FormalOut is a value a procedure passes back to its callers
	FormalOut
	// Expression is an expression node
	Expression
	// Predicate is a branching condition
	Predicate
	// Normal is any other statement
	Normal
	// Fork is a thread creation site. It behaves as a call site for structural queries.
	Fork
	// Join is a thread join point
	Join
	// ForkIn is an argument passed to a spawned thread
	ForkIn
	// ForkOut is a value flowing back from a spawned thread
	ForkOut
	// Synchronization is a monitor enter/exit or similar synchronization point
	Synchronization

	numNodeKinds
)

var nodeKindNames = [numNodeKinds]string{
	Entry:           "entry",
	Exit:            "exit",
	Call:            "call",
	ActualIn:        "actual-in",
	ActualOut:       "actual-out",
	FormalIn:        "formal-in",
	FormalOut:       "formal-out",
	Expression:      "expression",
	Predicate:       "predicate",
	Normal:          "normal",
	Fork:            "fork",
	Join:            "join",
	ForkIn:          "fork-in",
	ForkOut:         "fork-out",
	Synchronization: "synchronization",
}

func (k NodeKind) String() string {
	if k < numNodeKinds {
		return nodeKindNames[k]
	}
	return fmt.Sprintf("NodeKind(%d)", uint8(k))
}

// IsCallSite returns true for the node kinds that own actual parameters (calls and forks)
func (k NodeKind) IsCallSite() bool {
	return k == Call || k == Fork
}

// IsActual returns true for actual parameter nodes of call and fork sites
func (k NodeKind) IsActual() bool {
	return k == ActualIn || k == ActualOut || k == ForkIn || k == ForkOut
}

// IsFormal returns true for formal parameter nodes
func (k NodeKind) IsFormal() bool {
	return k == FormalIn || k == FormalOut
}

// ParseNodeKind returns the node kind named s.
func ParseNodeKind(s string) (NodeKind, error) {
	for k, name := range nodeKindNames {
		if strings.EqualFold(name, s) {
			return NodeKind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown node kind %q", s)
}

// EdgeKind is the kind of dependence an edge represents. The set of kinds is closed.
//
// The kinds fall in three families:
//   - intraprocedural edges never cross a call boundary. The flow edges (ControlFlow, NoFlow, ReturnFlow) describe
//     the control flow graph and are never traversed by slicing.
//   - call-boundary edges (Call, ParamIn, ParamOut) and Summary edges, which are precomputed shortcuts from
//     actual-in to actual-out nodes of the same call site.
//   - concurrency edges, which connect program points of different threads.
type EdgeKind uint8

const (
	// ControlFlow is an intraprocedural control flow edge
	ControlFlow EdgeKind = iota
	// NoFlow is a control flow edge that is never taken at runtime
	NoFlow
	// ReturnFlow is a control flow edge from a return statement to the exit
	ReturnFlow
	// ControlDep is a control dependence
	ControlDep
	// ControlDepExpr is a control dependence between a node and its sub-expressions or parameters
	ControlDepExpr
	// ControlDepUncond is an unconditional control dependence
	ControlDepUncond
	// DataDep is a data dependence through local variables
	DataDep
	// DataHeap is a data dependence through the heap
	DataHeap
	// DataAlias is a data dependence through possibly aliased locations
	DataAlias
	// CallEdge links a call site to the entry of a callee
	CallEdge
	// ParamIn links an actual-in node to a formal-in node of a callee
	ParamIn
	// ParamOut links a formal-out node of a callee to an actual-out node
	ParamOut
	// Summary is a precomputed transitive dependence from an actual-in to an actual-out of the same call site
	Summary
	// ForkEdge links a fork site to the entry of the spawned thread
	ForkEdge
	// ForkInEdge links a fork-in node to a formal-in node of the spawned thread's entry procedure
	ForkInEdge
	// ForkOutEdge links a formal-out node of a spawned thread to a fork-out node
	ForkOutEdge
	// JoinEdge links the exit of a thread to a join point
	JoinEdge
	// Interference is a read-write dependence between threads
	Interference
	// InterferenceWrite is a write-write dependence between threads
	InterferenceWrite

	numEdgeKinds
)

var edgeKindNames = [numEdgeKinds]string{
	ControlFlow:       "CF",
	NoFlow:            "NF",
	ReturnFlow:        "RF",
	ControlDep:        "CD",
	ControlDepExpr:    "CE",
	ControlDepUncond:  "UN",
	DataDep:           "DD",
	DataHeap:          "DH",
	DataAlias:         "DA",
	CallEdge:          "CL",
	ParamIn:           "PI",
	ParamOut:          "PO",
	Summary:           "SU",
	ForkEdge:          "FORK",
	ForkInEdge:        "FORK_IN",
	ForkOutEdge:       "FORK_OUT",
	JoinEdge:          "JOIN",
	Interference:      "ID",
	InterferenceWrite: "IW",
}

func (k EdgeKind) String() string {
	if k < numEdgeKinds {
		return edgeKindNames[k]
	}
	return fmt.Sprintf("EdgeKind(%d)", uint8(k))
}

// ParseEdgeKind returns the edge kind whose short name (e.g. "PI", "SU") is s.
func ParseEdgeKind(s string) (EdgeKind, error) {
	for k, name := range edgeKindNames {
		if strings.EqualFold(name, s) {
			return EdgeKind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown edge kind %q", s)
}

// Valid returns true if k is one of the declared edge kinds
func (k EdgeKind) Valid() bool {
	return k < numEdgeKinds
}

// IsFlow returns true for control flow edges. Flow edges are not dependences.
func (k EdgeKind) IsFlow() bool {
	return k == ControlFlow || k == NoFlow || k == ReturnFlow
}

// IsControl returns true for intraprocedural control edges, flow or dependence.
func (k EdgeKind) IsControl() bool {
	switch k {
	case ControlFlow, NoFlow, ReturnFlow, ControlDep, ControlDepExpr, ControlDepUncond:
		return true
	}
	return false
}

// IsIntraprocedural returns true for edges that never cross a call boundary
func (k EdgeKind) IsIntraprocedural() bool {
	return k <= DataAlias
}

// IsCallBoundary returns true for call, parameter and summary edges
func (k EdgeKind) IsCallBoundary() bool {
	return k >= CallEdge && k <= Summary
}

// IsConcurrency returns true for edges between threads
func (k EdgeKind) IsConcurrency() bool {
	return k >= ForkEdge && k < numEdgeKinds
}

// EdgeKindSet is a set of edge kinds
type EdgeKindSet uint32

// KindsOf returns the set containing the kinds provided
func KindsOf(kinds ...EdgeKind) EdgeKindSet {
	var s EdgeKindSet
	for _, k := range kinds {
		s = s.With(k)
	}
	return s
}

// ConcurrencyKinds is the set of all concurrency edge kinds
var ConcurrencyKinds = KindsOf(ForkEdge, ForkInEdge, ForkOutEdge, JoinEdge, Interference, InterferenceWrite)

// Has returns true if k is in s
func (s EdgeKindSet) Has(k EdgeKind) bool {
	return s&(1<<k) != 0
}

// With returns s with k added
func (s EdgeKindSet) With(k EdgeKind) EdgeKindSet {
	return s | 1<<k
}

// Union returns the union of s and o
func (s EdgeKindSet) Union(o EdgeKindSet) EdgeKindSet {
	return s | o
}

// Without returns s minus the kinds in o
func (s EdgeKindSet) Without(o EdgeKindSet) EdgeKindSet {
	return s &^ o
}

// Kinds returns the kinds in s in declaration order
func (s EdgeKindSet) Kinds() []EdgeKind {
	var kinds []EdgeKind
	for k := EdgeKind(0); k < numEdgeKinds; k++ {
		if s.Has(k) {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

func (s EdgeKindSet) String() string {
	names := make([]string, 0, numEdgeKinds)
	for _, k := range s.Kinds() {
		names = append(names, k.String())
	}
	return "{" + strings.Join(names, ",") + "}"
}

// Valid returns true if every kind in s is a valid edge kind
func (s EdgeKindSet) Valid() bool {
	return s>>numEdgeKinds == 0
}
