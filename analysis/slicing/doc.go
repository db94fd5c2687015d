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

/*
Package slicing implements context-sensitive slicing of system dependence graphs.

A backward slice contains every node that can affect the criteria, a forward slice every node the criteria can
affect. The slicer only follows paths on which calls and returns match: a path that enters a procedure from one call
site never leaves it through the return of another call site. Summary edges let the slicer step over calls on the
side of the criteria without entering the callee.

A typical use:

	g, err := builder.Build()
	...
	m := callctx.NewStaticManager(g, config.DefaultMaxCallStringDepth)
	s, err := slicing.New(m, slicing.Params{Direction: slicing.Backward})
	...
	slice, err := s.Slice(ctx, []sdg.NodeID{criterion})

Concurrency edges are not traversed unless Params.IncludeConcurrency is set; traversing one switches threads and
restarts in the top-level contexts of the reached node.

Requests are all-or-nothing: when the request's context is done, the slicer stops and returns an error wrapping
ErrCancelled and no result. A malformed graph aborts the request with an *sdg.StructuralError.
*/
package slicing
