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
	"strings"
	"testing"

	"github.com/awslabs/ar-go-sdg/analysis/config"
	"github.com/awslabs/ar-go-sdg/analysis/sdg"
	"github.com/awslabs/ar-go-sdg/internal/analysistest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopLevel(t *testing.T) {
	f := analysistest.LoadTest(t, "fork.yaml")
	for _, m := range []Manager{NewStaticManager(f.Graph, 3), NewDynamicManager(f.Graph)} {
		contexts := m.TopLevel(f.N("w_read"))
		require.Len(t, contexts, 1)
		assert.Equal(t, Context{Node: f.N("w_read"), Stack: Unknown, Thread: 1}, contexts[0])
		assert.Empty(t, m.CallString(contexts[0]))
		assert.True(t, m.Owns(contexts[0]))
		assert.False(t, m.Owns(Context{Node: f.N("w_read"), Stack: 1000, Thread: 1}))
		assert.False(t, m.Owns(Context{Node: 1000, Stack: Unknown}))
		assert.Same(t, f.Graph, m.Graph())
		assert.Equal(t, f.N("w_exit"), m.Level(f.N("w_exit"), contexts[0]).Node)
	}
}

func TestDynamicManager(t *testing.T) {
	f := analysistest.LoadTest(t, "recursion.yaml")
	m := NewDynamicManager(f.Graph)
	ca, cb, cr := f.N("ca"), f.N("cb"), f.N("cr")

	start := m.TopLevel(f.N("ca_in"))[0]
	d1 := m.Descend(f.N("p_in"), ca, start)
	assert.Equal(t, []sdg.NodeID{ca}, m.CallString(d1))
	d2 := m.Descend(f.N("p_in"), cr, d1)
	assert.Equal(t, []sdg.NodeID{ca, cr}, m.CallString(d2))
	d3 := m.Descend(f.N("p_in"), cr, d2)
	assert.Equal(t, d2, d3, "descending again through a call site on the call string folds the recursion")
	d4 := m.Descend(f.N("p_in"), ca, d2)
	assert.Equal(t, d1.Stack, d4.Stack)

	up := m.Ascend(f.N("cr_in"), cr, d2)
	require.Len(t, up, 1)
	assert.Equal(t, Context{Node: f.N("cr_in"), Stack: d1.Stack, Thread: 0}, up[0])
	up = m.Ascend(f.N("ca_in"), ca, d1)
	require.Len(t, up, 1)
	assert.Equal(t, Unknown, up[0].Stack)
	assert.Empty(t, m.Ascend(f.N("cb_in"), cb, d1), "the call string of d1 does not end with cb")

	unconstrained := m.Ascend(f.N("cb_in"), cb, m.TopLevel(f.N("p_in"))[0])
	require.Len(t, unconstrained, 1)
	assert.Equal(t, Unknown, unconstrained[0].Stack)
	assert.Empty(t, m.Ascend(f.N("cb_in"), cb, Context{Node: f.N("p_in"), Stack: Root}))

	assert.Equal(t, m.TopLevel(f.N("p_out")), m.AllContextsOf(f.N("p_out")))
	assert.Equal(t, 4, m.NumCallStrings())
}

func TestStaticManagerScenario(t *testing.T) {
	f := analysistest.LoadTest(t, "scenario.yaml")
	m := NewStaticManager(f.Graph, config.DefaultMaxCallStringDepth)

	mainContexts := m.AllContextsOf(f.N("main_a"))
	require.Len(t, mainContexts, 1)
	assert.Equal(t, Root, mainContexts[0].Stack)

	barContexts := m.AllContextsOf(f.N("bar_body"))
	require.Len(t, barContexts, 1)
	bar := barContexts[0]
	assert.Equal(t, f.Nodes("main_call_foo", "foo_call_bar"), m.CallString(bar))

	fooContexts := m.AllContextsOf(f.N("foo_call_bar"))
	require.Len(t, fooContexts, 1)
	up := m.Ascend(f.N("foo_call_bar"), f.N("foo_call_bar"), bar)
	require.Len(t, up, 1)
	assert.Equal(t, fooContexts[0], up[0])

	down := m.Descend(f.N("bar_body"), f.N("foo_call_bar"), fooContexts[0])
	assert.Equal(t, bar, down)

	assert.Empty(t, m.Ascend(f.N("main_call_baz"), f.N("main_call_baz"), bar))
	assert.Empty(t, m.Ascend(f.N("main_a"), f.N("main_call_foo"), mainContexts[0]),
		"nothing is above the bottom of the stack")
	assert.False(t, m.IsRecursiveCallSite(f.N("foo_call_bar")))
}

func TestStaticManagerTruncation(t *testing.T) {
	f := analysistest.LoadTest(t, "scenario.yaml")
	m := NewStaticManager(f.Graph, 1)

	barContexts := m.AllContextsOf(f.N("bar_body"))
	require.Len(t, barContexts, 1)
	bar := barContexts[0]
	assert.Equal(t, f.Nodes("foo_call_bar"), m.CallString(bar), "the oldest call site is dropped")

	up := m.Ascend(f.N("foo_call_bar"), f.N("foo_call_bar"), bar)
	require.Len(t, up, 1)
	assert.Equal(t, Unknown, up[0].Stack, "a truncated call string does not know its outer callers")
	upper := m.Ascend(f.N("main_call_foo"), f.N("main_call_foo"), up[0])
	require.Len(t, upper, 1)
	assert.Equal(t, Unknown, upper[0].Stack)

	foo := m.AllContextsOf(f.N("foo_call_bar"))[0]
	assert.Equal(t, bar.Stack, m.Descend(f.N("bar_body"), f.N("foo_call_bar"), foo).Stack)
}

func TestStaticManagerFoldsRecursion(t *testing.T) {
	f := analysistest.LoadTest(t, "recursion.yaml")
	m := NewStaticManager(f.Graph, 2)
	assert.True(t, m.IsRecursiveCallSite(f.N("cr")))
	assert.False(t, m.IsRecursiveCallSite(f.N("ca")))

	contexts := m.AllContextsOf(f.N("p_in"))
	require.Len(t, contexts, 2)
	var callStrings [][]sdg.NodeID
	for _, c := range contexts {
		callStrings = append(callStrings, m.CallString(c))
	}
	assert.ElementsMatch(t, [][]sdg.NodeID{f.Nodes("ca"), f.Nodes("cb")}, callStrings)

	inner := m.Descend(f.N("p_in"), f.N("cr"), contexts[0])
	assert.Equal(t, contexts[0].Stack, inner.Stack)
	up := m.Ascend(f.N("cr_in"), f.N("cr"), contexts[0])
	require.Len(t, up, 1)
	assert.Equal(t, contexts[0].Stack, up[0].Stack)
}

func TestNewManager(t *testing.T) {
	f := analysistest.LoadTest(t, "scenario.yaml")
	m, err := NewManager(f.Graph, nil)
	require.NoError(t, err)
	assert.IsType(t, &StaticManager{}, m)

	cfg := config.NewDefault()
	cfg.Slicing.ContextManager = config.ContextManagerDynamic
	m, err = NewManager(f.Graph, cfg)
	require.NoError(t, err)
	assert.IsType(t, &DynamicManager{}, m)

	cfg.Slicing.ContextManager = "magic"
	_, err = NewManager(f.Graph, cfg)
	assert.Error(t, err)
	_, err = NewManager(nil, nil)
	assert.Error(t, err)
}

func TestContextSet(t *testing.T) {
	f := analysistest.LoadTest(t, "scenario.yaml")
	m := NewDynamicManager(f.Graph)
	a := m.TopLevel(f.N("main_a"))[0]
	d := m.Descend(f.N("bar_body"), f.N("foo_call_bar"), m.TopLevel(f.N("foo_call_bar"))[0])

	s := NewContextSet(d, a)
	assert.False(t, s.Add(a))
	assert.True(t, s.Add(m.Level(f.N("main_b"), a)))
	assert.True(t, s.Has(d))
	assert.Equal(t, []Context{a, m.Level(f.N("main_b"), a), d}, s.Sorted())
	assert.True(t, s.Nodes().Equals(f.Set("main_a", "main_b", "bar_body")))

	out := s.Format(m)
	assert.Equal(t, 3, strings.Count(out, "\n"))
	assert.Contains(t, out, "@t0 [")
}
