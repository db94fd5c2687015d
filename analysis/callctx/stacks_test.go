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
	"testing"

	"github.com/awslabs/ar-go-sdg/analysis/sdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStackTable(t *testing.T) {
	st := newStackTable()
	assert.Equal(t, 2, st.size())
	assert.Equal(t, Unknown, st.pop(Unknown))
	assert.Equal(t, Root, st.pop(Root))
	_, ok := st.top(Root)
	assert.False(t, ok)

	s1 := st.push(Root, 10)
	s2 := st.push(s1, 20)
	assert.Equal(t, s1, st.push(Root, 10), "equal call strings are interned once")
	assert.NotEqual(t, s1, st.push(Unknown, 10), "call strings on different bases are different")
	assert.Equal(t, []sdg.NodeID{10, 20}, st.sites(s2))
	assert.Equal(t, 2, st.depth(s2))
	assert.Equal(t, Root, st.base(s2))
	top, ok := st.top(s2)
	assert.True(t, ok)
	assert.Equal(t, sdg.NodeID(20), top)
	assert.Equal(t, s1, st.pop(s2))
	assert.Equal(t, Root, st.pop(s1))

	prefix, found := st.find(s2, 10)
	assert.True(t, found)
	assert.Equal(t, s1, prefix)
	_, found = st.find(s2, 30)
	assert.False(t, found)

	assert.Equal(t, s2, st.intern(Root, []sdg.NodeID{10, 20}))
	assert.Equal(t, Unknown, st.intern(Unknown, nil))
	assert.True(t, st.valid(s2))
	assert.False(t, st.valid(StackID(st.size())))
	assert.False(t, st.valid(-1))
}

func TestStackTableConcurrentInterning(t *testing.T) {
	st := newStackTable()
	const routines = 8
	results := make([][]StackID, routines)
	var wg sync.WaitGroup
	for i := 0; i < routines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for site := sdg.NodeID(0); site < 50; site++ {
				results[i] = append(results[i], st.intern(Unknown, []sdg.NodeID{site, site + 1, site + 2}))
			}
		}(i)
	}
	wg.Wait()
	for i := 1; i < routines; i++ {
		require.Equal(t, results[0], results[i])
	}
	// 50 distinct first sites, each with a single path of length 3, plus the two bases
	assert.Equal(t, 2+50*3, st.size())
}
