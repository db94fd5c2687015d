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
	"errors"
)

// Validate checks the structural invariants the slicers rely on and returns all the violations found, joined:
//   - every procedure has an entry and an exit;
//   - every node belongs to at least one thread;
//   - every non-entry node has an intraprocedural predecessor, except formal-out nodes, which may be isolated
//     synthetic nodes;
//   - every interprocedural parameter edge resolves to a call site, and every call edge whose callee has formal
//     parameters has at least one matching parameter edge on the same call site. Initializer triggers (see
//     IsInitializerTrigger) have no call site and are not checked.
//
//gocyclo:ignore
func (g *Graph) Validate() error {
	var errs []error
	for _, p := range g.Procedures() {
		nodes := g.ProcNodes(p.ID)
		if len(nodes) == 0 {
			continue
		}
		if _, err := g.EntryOf(nodes[0]); err != nil {
			errs = append(errs, err)
		}
		if _, err := g.ExitOf(nodes[0]); err != nil {
			errs = append(errs, err)
		}
	}

	for _, n := range g.Nodes() {
		node := &g.nodes[n]
		if len(node.Threads) == 0 {
			errs = append(errs, structuralf("validate", n, "node belongs to no thread"))
		}
		if node.Kind == Entry || node.Kind == FormalOut {
			continue
		}
		if !g.hasIntraPredecessor(n) {
			errs = append(errs, structuralf("validate", n, "%s has no intraprocedural predecessor", node))
		}
	}

	for _, n := range g.Nodes() {
		for _, eid := range g.out[n] {
			if g.IsInitializerTrigger(eid) {
				continue
			}
			e := g.edges[eid]
			switch e.Kind {
			case ParamIn, ParamOut, ForkInEdge, ForkOutEdge, Summary:
				if _, err := g.CallSiteForEdge(eid); err != nil {
					errs = append(errs, err)
				}
			case CallEdge:
				if err := g.checkParameterEdges(e); err != nil {
					errs = append(errs, err)
				}
			}
		}
	}
	return errors.Join(errs...)
}

func (g *Graph) hasIntraPredecessor(n NodeID) bool {
	for _, eid := range g.in[n] {
		e := g.edges[eid]
		if e.Kind.IsIntraprocedural() && g.nodes[e.Source].Proc == g.nodes[n].Proc {
			return true
		}
	}
	return false
}

// checkParameterEdges verifies that a call edge whose callee has formal parameters is matched by parameter edges
// leaving the actual parameters of the same call site.
func (g *Graph) checkParameterEdges(call Edge) error {
	formals := g.FormalsOf(call.Target)
	if len(formals) == 0 {
		return nil
	}
	for _, a := range g.ActualsOf(call.Source) {
		for _, eid := range g.out[a] {
			if k := g.edges[eid].Kind; k == ParamIn && g.nodes[g.edges[eid].Target].Proc == g.nodes[call.Target].Proc {
				return nil
			}
		}
		for _, eid := range g.in[a] {
			if k := g.edges[eid].Kind; k == ParamOut && g.nodes[g.edges[eid].Source].Proc == g.nodes[call.Target].Proc {
				return nil
			}
		}
	}
	return structuralf("validate", call.Source, "call to %s has no matching parameter edges",
		g.ProcName(call.Target))
}
