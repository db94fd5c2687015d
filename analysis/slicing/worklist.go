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

package slicing

import (
	"context"
	"time"

	"github.com/awslabs/ar-go-sdg/analysis/callctx"
	"github.com/awslabs/ar-go-sdg/analysis/sdg"
	"github.com/awslabs/ar-go-sdg/internal/formatutil"
)

// phase of a context in the worklist algorithm
type phase int

const (
	// callingSide contexts may still ascend out of the activation they started in
	callingSide phase = iota
	// calledSide contexts were reached by descending into a callee and never ascend
	calledSide
)

func (p phase) String() string {
	if p == callingSide {
		return "phase 1"
	}
	return "phase 2"
}

// request is the state of a single slicing request. Nothing in a request is shared.
type request struct {
	criteria []callctx.Context

	// region, if non-nil, restricts the visited nodes
	region *sdg.NodeSet

	// allowed, if non-nil, restricts the visited contexts
	allowed callctx.ContextSet

	visited [2]callctx.ContextSet
	work    [2][]callctx.Context
}

// push adds c to the worklist of phase p if it has not been visited in p. Contexts visited on the calling side
// are not visited again on the called side: the calling side already follows every edge the called side does.
func (r *request) push(s *Slicer, p phase, c callctx.Context) {
	if r.allowed != nil && !r.allowed.Has(c) {
		return
	}
	if p == calledSide && r.visited[callingSide].Has(c) {
		return
	}
	if r.visited[p].Add(c) {
		r.work[p] = append(r.work[p], c)
		if s.logger.LogsTrace() {
			s.logger.Tracef("%s %s %v", p, c, s.graph.Node(c.Node))
		}
	}
}

// next pops a context, preferring the calling side
func (r *request) next() (callctx.Context, phase, bool) {
	for _, p := range []phase{callingSide, calledSide} {
		if n := len(r.work[p]); n > 0 {
			c := r.work[p][n-1]
			r.work[p] = r.work[p][:n-1]
			return c, p, true
		}
	}
	return callctx.Context{}, callingSide, false
}

// run is the two-phase worklist algorithm shared by all the slicing operations.
//
// The calling side starts from the criteria. Edges that leave the current activation towards a caller are only
// followed on the calling side, and only when the call site matches the context; edges that enter a callee move the
// reached context to the called side, which never ascends. Every other dependence edge keeps the context.
//
// The result is either complete or nil: on cancellation the partial result is discarded, and a structural error in
// the graph aborts the request.
func (s *Slicer) run(ctx context.Context, r *request) (callctx.ContextSet, error) {
	start := time.Now()
	r.visited = [2]callctx.ContextSet{callctx.NewContextSet(), callctx.NewContextSet()}
	for _, c := range r.criteria {
		if r.visited[callingSide].Add(c) {
			r.work[callingSide] = append(r.work[callingSide], c)
		}
	}

	iterations := 0
	for {
		if iterations%s.pollInterval == 0 {
			if err := ctx.Err(); err != nil {
				s.logger.Debugf("%s slice cancelled after %d iterations", s.dir, iterations)
				return nil, cancelled(err)
			}
		}
		cur, p, ok := r.next()
		if !ok {
			break
		}
		iterations++
		if err := s.visitEdges(r, cur, p); err != nil {
			return nil, err
		}
	}

	result := r.visited[callingSide]
	for c := range r.visited[calledSide] {
		result[c] = struct{}{}
	}
	s.logger.Debugf("%s slice of %d criteria: %d contexts (%d called side) in %d iterations %s",
		s.dir, len(r.criteria), len(result), len(r.visited[calledSide]), iterations,
		formatutil.Faint(time.Since(start).String()))
	return result, nil
}

// visitEdges classifies the edges of cur and pushes the contexts they reach
func (s *Slicer) visitEdges(r *request, cur callctx.Context, p phase) error {
	g := s.graph
	for _, eid := range s.dir.edges(g, cur.Node) {
		e := g.Edge(eid)
		if e.Kind.IsFlow() || s.omit.Has(e.Kind) {
			continue
		}
		reached := s.dir.adjacent(e)
		if r.region != nil && !r.region.Has(reached) {
			continue
		}

		switch {
		case g.IsInitializerTrigger(eid):
			// static initializer: neither end runs in a calling context of the other
			for _, c := range s.manager.TopLevel(reached) {
				r.push(s, callingSide, c)
			}

		case e.Kind.IsConcurrency():
			// Switching threads: the other thread's stack is unrelated to the current one
			for _, c := range s.manager.TopLevel(reached) {
				r.push(s, callingSide, c)
			}

		case s.dir.Ascends(e.Kind):
			if p == calledSide {
				continue
			}
			call, err := g.CallSiteForEdge(eid)
			if err != nil {
				return err
			}
			if !g.Node(reached).InThread(cur.Thread) || !g.IsCalleeOf(call, g.Node(cur.Node).Proc) {
				continue
			}
			for _, c := range s.manager.Ascend(reached, call, cur) {
				r.push(s, callingSide, c)
			}

		case s.dir.Descends(e.Kind):
			call, err := g.CallSiteForEdge(eid)
			if err != nil {
				return err
			}
			r.push(s, calledSide, s.manager.Descend(reached, call, cur))

		default:
			r.push(s, p, s.manager.Level(reached, cur))
		}
	}
	return nil
}
