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
	"fmt"
	"strings"

	"github.com/awslabs/ar-go-sdg/analysis/config"
	"github.com/awslabs/ar-go-sdg/analysis/sdg"
)

// Direction describes how the slicer walks the graph. A direction is a descriptor, not a variant of the slicer:
// it tells which edges to examine at each node, which endpoint of an edge is reached, and which edge kinds leave
// the current procedure towards a caller (ascending) or enter a callee (descending).
type Direction struct {
	name string

	// edges returns the edges examined at n
	edges func(g *sdg.Graph, n sdg.NodeID) []sdg.EdgeID

	// adjacent returns the endpoint of e reached when e is traversed
	adjacent func(e sdg.Edge) sdg.NodeID

	ascending  sdg.EdgeKindSet
	descending sdg.EdgeKindSet
}

var (
	// Backward slices compute what can affect the criteria. Incoming edges are traversed from target to source:
	// parameter-in and call edges lead to callers, parameter-out edges lead into callees.
	Backward = Direction{
		name:       config.DirectionBackward,
		edges:      (*sdg.Graph).In,
		adjacent:   func(e sdg.Edge) sdg.NodeID { return e.Source },
		ascending:  sdg.KindsOf(sdg.ParamIn, sdg.CallEdge),
		descending: sdg.KindsOf(sdg.ParamOut),
	}

	// Forward slices compute what the criteria can affect. Outgoing edges are traversed from source to target:
	// parameter-out edges lead to callers, parameter-in and call edges lead into callees.
	Forward = Direction{
		name:       config.DirectionForward,
		edges:      (*sdg.Graph).Out,
		adjacent:   func(e sdg.Edge) sdg.NodeID { return e.Target },
		ascending:  sdg.KindsOf(sdg.ParamOut),
		descending: sdg.KindsOf(sdg.ParamIn, sdg.CallEdge),
	}
)

// ParseDirection returns the direction named s ("backward" or "forward", case insensitive)
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case config.DirectionBackward, "":
		return Backward, nil
	case config.DirectionForward:
		return Forward, nil
	}
	return Direction{}, fmt.Errorf("%w: unknown direction %q", ErrInvalidArgument, s)
}

func (d Direction) String() string {
	if d.name == "" {
		return "<no direction>"
	}
	return d.name
}

// IsForward returns true for the forward direction
func (d Direction) IsForward() bool {
	return d.name == config.DirectionForward
}

// Reverse returns the opposite direction
func (d Direction) Reverse() Direction {
	if d.IsForward() {
		return Backward
	}
	return Forward
}

func (d Direction) valid() bool {
	return d.edges != nil && d.adjacent != nil
}

// Ascends returns true if traversing an edge of kind k in direction d leaves the current procedure to a caller
func (d Direction) Ascends(k sdg.EdgeKind) bool {
	return d.ascending.Has(k)
}

// Descends returns true if traversing an edge of kind k in direction d enters a callee
func (d Direction) Descends(k sdg.EdgeKind) bool {
	return d.descending.Has(k)
}
