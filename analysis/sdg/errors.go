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
	"fmt"
)

// ErrMalformed is the error wrapped by every StructuralError. Use errors.Is(err, ErrMalformed) to recognize a
// malformed input graph.
var ErrMalformed = errors.New("malformed dependence graph")

// StructuralError reports an inconsistency in the input graph: a missing entry or exit, a call site that cannot be
// resolved, a thread that does not exist. These errors are fatal for any query on the graph.
type StructuralError struct {
	// Op is the query that detected the inconsistency
	Op string
	// Node is the node at which it was detected, or -1
	Node NodeID
	// Reason describes the inconsistency
	Reason string
}

func (e *StructuralError) Error() string {
	if e.Node < 0 {
		return fmt.Sprintf("%v: %s: %s", ErrMalformed, e.Op, e.Reason)
	}
	return fmt.Sprintf("%v: %s at node %d: %s", ErrMalformed, e.Op, e.Node, e.Reason)
}

func (e *StructuralError) Unwrap() error {
	return ErrMalformed
}

func structuralf(op string, n NodeID, format string, args ...any) error {
	return &StructuralError{Op: op, Node: n, Reason: fmt.Sprintf(format, args...)}
}
