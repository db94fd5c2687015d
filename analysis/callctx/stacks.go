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

package callctx

import (
	"sync"

	"github.com/awslabs/ar-go-sdg/analysis/sdg"
	"github.com/awslabs/ar-go-sdg/internal/funcutil"
)

// stackEntry is a node of the call string trie. The call string of an entry is the sequence of sites on the path
// from its base (Unknown or Root) to the entry.
type stackEntry struct {
	parent   StackID
	base     StackID
	site     sdg.NodeID
	depth    int
	children map[sdg.NodeID]StackID
}

// stackTable interns call strings in a trie. Pushing a call site is a child lookup and popping is a parent
// lookup, so both are O(1) and equal call strings always get the same id.
type stackTable struct {
	mu      sync.RWMutex
	entries []stackEntry
}

func newStackTable() *stackTable {
	t := &stackTable{}
	for _, base := range []StackID{Unknown, Root} {
		t.entries = append(t.entries, stackEntry{
			parent:   base,
			base:     base,
			site:     -1,
			depth:    0,
			children: map[sdg.NodeID]StackID{},
		})
	}
	return t
}

func (t *stackTable) valid(s StackID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return s >= 0 && int(s) < len(t.entries)
}

func (t *stackTable) size() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// push returns the id of the call string s followed by site
func (t *stackTable) push(s StackID, site sdg.NodeID) StackID {
	t.mu.RLock()
	child, ok := t.entries[s].children[site]
	t.mu.RUnlock()
	if ok {
		return child
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if child, ok := t.entries[s].children[site]; ok {
		return child
	}
	child = StackID(len(t.entries))
	t.entries = append(t.entries, stackEntry{
		parent:   s,
		base:     t.entries[s].base,
		site:     site,
		depth:    t.entries[s].depth + 1,
		children: map[sdg.NodeID]StackID{},
	})
	t.entries[s].children[site] = child
	return child
}

// pop returns the call string s without its last call site. The empty call strings are their own parents.
func (t *stackTable) pop(s StackID) StackID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.entries[s].parent
}

// top returns the last call site of s, if s is not empty
func (t *stackTable) top(s StackID) (sdg.NodeID, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e := t.entries[s]
	return e.site, e.depth > 0
}

func (t *stackTable) depth(s StackID) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.entries[s].depth
}

func (t *stackTable) base(s StackID) StackID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.entries[s].base
}

// sites returns the call sites of s, outermost first
func (t *stackTable) sites(s StackID) []sdg.NodeID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var sites []sdg.NodeID
	for cur := s; t.entries[cur].depth > 0; cur = t.entries[cur].parent {
		sites = append(sites, t.entries[cur].site)
	}
	funcutil.Reverse(sites)
	return sites
}

// find returns the prefix of s that ends with site, if site occurs in s
func (t *stackTable) find(s StackID, site sdg.NodeID) (StackID, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for cur := s; t.entries[cur].depth > 0; cur = t.entries[cur].parent {
		if t.entries[cur].site == site {
			return cur, true
		}
	}
	return s, false
}

// intern returns the id of the call string made of sites on top of base
func (t *stackTable) intern(base StackID, sites []sdg.NodeID) StackID {
	s := base
	for _, site := range sites {
		s = t.push(s, site)
	}
	return s
}
