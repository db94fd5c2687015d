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

	"github.com/awslabs/ar-go-sdg/analysis/callctx"
	"github.com/awslabs/ar-go-sdg/analysis/sdg"
)

// Chop returns the nodes that lie on a dependence path from some source to some sink: the intersection of the
// forward slice of sources and the backward slice of sinks. The direction in p is ignored.
func Chop(ctx context.Context, m callctx.Manager, p Params, sources, sinks []sdg.NodeID) (*sdg.NodeSet, error) {
	p.Direction = Forward
	forward, err := New(m, p)
	if err != nil {
		return nil, err
	}
	p.Direction = Backward
	backward, err := New(m, p)
	if err != nil {
		return nil, err
	}

	fwd, err := forward.Slice(ctx, sources)
	if err != nil {
		return nil, err
	}
	if fwd.IsEmpty() {
		return fwd, nil
	}
	bwd, err := backward.Slice(ctx, sinks)
	if err != nil {
		return nil, err
	}
	return fwd.Intersection(bwd), nil
}

// view returns the context-insensitive view of the graph with the edges the slicer traverses, oriented in the
// slicer's direction
func (s *Slicer) view() *sdg.DependenceView {
	v := s.graph.View(func(e sdg.Edge) bool {
		return !e.Kind.IsFlow() && !s.omit.Has(e.Kind)
	})
	v.Reversed = !s.dir.IsForward()
	return v
}

// Reaches returns true if to is in the slice of from. For a backward slicer, this means to may affect from; for a
// forward slicer, from may affect to.
//
// A context-insensitive search runs first: when it does not find to, the context-sensitive slice is skipped.
func (s *Slicer) Reaches(ctx context.Context, from, to sdg.NodeID) (bool, error) {
	if !s.graph.Contains(from) || !s.graph.Contains(to) {
		return false, invalidf("nodes %d and %d must be in the graph", from, to)
	}
	if !s.view().Reachable([]sdg.NodeID{from}).Has(to) {
		return false, nil
	}
	slice, err := s.Slice(ctx, []sdg.NodeID{from})
	if err != nil {
		return false, err
	}
	return slice.Has(to), nil
}

// Bound returns the context-insensitive over-approximation of the slice of criteria: every node reachable through
// the edges the slicer traverses, ignoring calling contexts.
func (s *Slicer) Bound(criteria []sdg.NodeID) *sdg.NodeSet {
	return s.view().Reachable(criteria)
}
