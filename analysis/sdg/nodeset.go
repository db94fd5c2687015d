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

	"golang.org/x/tools/container/intsets"
)

// NodeSet is a set of node ids backed by a sparse bit vector. The zero value is an empty set ready to use.
// A NodeSet must not be copied after first use; use Copy.
type NodeSet struct {
	bits intsets.Sparse
}

// NewNodeSet returns a set containing ids
func NewNodeSet(ids ...NodeID) *NodeSet {
	s := &NodeSet{}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts n in the set and returns true if it was not already present
func (s *NodeSet) Add(n NodeID) bool {
	return s.bits.Insert(int(n))
}

// Remove deletes n from the set and returns true if it was present
func (s *NodeSet) Remove(n NodeID) bool {
	return s.bits.Remove(int(n))
}

// Has returns true if n is in the set. A nil set is empty.
func (s *NodeSet) Has(n NodeID) bool {
	return s != nil && s.bits.Has(int(n))
}

// Len returns the number of elements of the set
func (s *NodeSet) Len() int {
	if s == nil {
		return 0
	}
	return s.bits.Len()
}

// IsEmpty returns true if the set is nil or has no elements
func (s *NodeSet) IsEmpty() bool {
	return s == nil || s.bits.IsEmpty()
}

// Nodes returns the elements of the set in increasing order
func (s *NodeSet) Nodes() []NodeID {
	if s == nil {
		return nil
	}
	ints := s.bits.AppendTo(nil)
	ids := make([]NodeID, len(ints))
	for i, x := range ints {
		ids[i] = NodeID(x)
	}
	return ids
}

// Copy returns a fresh copy of s
func (s *NodeSet) Copy() *NodeSet {
	c := &NodeSet{}
	if s != nil {
		c.bits.Copy(&s.bits)
	}
	return c
}

// UnionWith adds the elements of o to s and returns true if s changed
func (s *NodeSet) UnionWith(o *NodeSet) bool {
	if o == nil {
		return false
	}
	return s.bits.UnionWith(&o.bits)
}

// Intersection returns a new set with the elements both in s and o
func (s *NodeSet) Intersection(o *NodeSet) *NodeSet {
	r := &NodeSet{}
	if s == nil || o == nil {
		return r
	}
	r.bits.Intersection(&s.bits, &o.bits)
	return r
}

// SubsetOf returns true if every element of s is in o
func (s *NodeSet) SubsetOf(o *NodeSet) bool {
	if s.IsEmpty() {
		return true
	}
	if o == nil {
		return false
	}
	return s.bits.SubsetOf(&o.bits)
}

// Equals returns true if s and o have the same elements
func (s *NodeSet) Equals(o *NodeSet) bool {
	return s.SubsetOf(o) && o.SubsetOf(s)
}

func (s *NodeSet) String() string {
	ids := s.Nodes()
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return "{" + strings.Join(parts, " ") + "}"
}
