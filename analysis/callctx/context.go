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

// Package callctx implements calling contexts for context-sensitive slicing.
//
// A [Context] is a node together with the call string that describes how the activation of its procedure was
// reached, and the thread it runs in. Call strings are interned by a [Manager]: two contexts are equal if and only
// if they are equal Go values, so contexts can be used directly as map keys and a worklist visits each of them once.
//
// Two managers are provided. The [StaticManager] folds recursion and bounds the length of call strings; all
// the call strings of each procedure are computed when the manager is created. The [DynamicManager] grows call
// strings lazily and does not bound their length.
package callctx

import (
	"fmt"
	"sort"
	"strings"

	"github.com/awslabs/ar-go-sdg/analysis/sdg"
)

// StackID identifies an interned call string
type StackID int32

const (
	// Unknown is the empty call string of a context whose callers are not constrained: ascending from it is
	// possible to any caller. Criteria of node-level slices start with Unknown.
	Unknown StackID = 0
	// Root is the empty call string of a context that is known to be at the bottom of its thread's stack
	Root StackID = 1
)

// Context is a calling context attached to a node
type Context struct {
	Node   sdg.NodeID
	Stack  StackID
	Thread sdg.ThreadID
}

func (c Context) String() string {
	return fmt.Sprintf("(%d, s%d, t%d)", c.Node, c.Stack, c.Thread)
}

// Manager creates and transforms contexts of a graph. Managers are safe for concurrent use.
type Manager interface {
	// Graph returns the graph the manager is bound to
	Graph() *sdg.Graph

	// TopLevel returns the canonical top-level contexts of n: one context per thread of n, with the Unknown call
	// string.
	TopLevel(n sdg.NodeID) []Context

	// AllContextsOf returns all the contexts the manager distinguishes for n
	AllContextsOf(n sdg.NodeID) []Context

	// Level moves ctx to node n of the same activation
	Level(n sdg.NodeID, ctx Context) Context

	// Descend moves ctx into a callee through call site call, n being the reached node in the callee
	Descend(n sdg.NodeID, call sdg.NodeID, ctx Context) Context

	// Ascend moves ctx out of its procedure to node n in the caller through call site call. It returns no context
	// when the top of the call string of ctx is not call: the corresponding call/return path is not realizable.
	Ascend(n sdg.NodeID, call sdg.NodeID, ctx Context) []Context

	// CallString returns the call sites of the call string of ctx, outermost first
	CallString(ctx Context) []sdg.NodeID

	// Owns returns true if ctx was created by this manager: its node is in the graph and its call string is known
	Owns(ctx Context) bool
}

func topLevel(g *sdg.Graph, n sdg.NodeID) []Context {
	node := g.Node(n)
	contexts := make([]Context, len(node.Threads))
	for i, t := range node.Threads {
		contexts[i] = Context{Node: n, Stack: Unknown, Thread: t}
	}
	return contexts
}

// ContextSet is a set of contexts
type ContextSet map[Context]struct{}

// NewContextSet returns a set containing contexts
func NewContextSet(contexts ...Context) ContextSet {
	s := make(ContextSet, len(contexts))
	for _, c := range contexts {
		s[c] = struct{}{}
	}
	return s
}

// Add inserts c and returns true if it was not present
func (s ContextSet) Add(c Context) bool {
	if _, ok := s[c]; ok {
		return false
	}
	s[c] = struct{}{}
	return true
}

// Has returns true if c is in s
func (s ContextSet) Has(c Context) bool {
	_, ok := s[c]
	return ok
}

// Nodes returns the set of nodes of the contexts in s
func (s ContextSet) Nodes() *sdg.NodeSet {
	nodes := &sdg.NodeSet{}
	for c := range s {
		nodes.Add(c.Node)
	}
	return nodes
}

// Sorted returns the contexts of s ordered by node, then thread, then call string id
func (s ContextSet) Sorted() []Context {
	contexts := make([]Context, 0, len(s))
	for c := range s {
		contexts = append(contexts, c)
	}
	sort.Slice(contexts, func(i, j int) bool {
		a, b := contexts[i], contexts[j]
		if a.Node != b.Node {
			return a.Node < b.Node
		}
		if a.Thread != b.Thread {
			return a.Thread < b.Thread
		}
		return a.Stack < b.Stack
	})
	return contexts
}

// Format returns a human-readable representation of the contexts in s, with call strings resolved by m
func (s ContextSet) Format(m Manager) string {
	var b strings.Builder
	for _, c := range s.Sorted() {
		fmt.Fprintf(&b, "%d@t%d %v\n", c.Node, c.Thread, m.CallString(c))
	}
	return b.String()
}
