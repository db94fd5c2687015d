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

package sdg_test

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/awslabs/ar-go-sdg/analysis/sdg"
	"github.com/awslabs/ar-go-sdg/internal/analysistest"
)

func edgeOf(t *testing.T, f *analysistest.Fixture, src, dst string, k sdg.EdgeKind) sdg.EdgeID {
	t.Helper()
	for _, eid := range f.Graph.Out(f.N(src)) {
		e := f.Graph.Edge(eid)
		if e.Target == f.N(dst) && e.Kind == k {
			return eid
		}
	}
	t.Fatalf("no %s edge %s -> %s", k, src, dst)
	return -1
}

func sortedNames(f *analysistest.Fixture, ids []sdg.NodeID) []string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = f.Name(id)
	}
	sort.Strings(names)
	return names
}

func TestEntryExitOf(t *testing.T) {
	f := analysistest.LoadTest(t, "scenario.yaml")
	g := f.Graph
	for _, test := range []struct {
		node, entry, exit string
	}{
		{"main_foo_aout", "main_entry", "main_exit"},
		{"main_entry", "main_entry", "main_exit"},
		{"foo_bar_ain", "foo_entry", "foo_exit"},
		{"bar_fout", "bar_entry", "bar_exit"},
		{"baz_exit", "baz_entry", "baz_exit"},
	} {
		entry, err := g.EntryOf(f.N(test.node))
		if err != nil || entry != f.N(test.entry) {
			t.Errorf("EntryOf(%s) = %s, %v; expected %s", test.node, f.Name(entry), err, test.entry)
		}
		exit, err := g.ExitOf(f.N(test.node))
		if err != nil || exit != f.N(test.exit) {
			t.Errorf("ExitOf(%s) = %s, %v; expected %s", test.node, f.Name(exit), err, test.exit)
		}
	}
}

func TestEntryOfConcurrentQueries(t *testing.T) {
	f := analysistest.LoadTest(t, "scenario.yaml")
	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for _, n := range f.Graph.Nodes() {
				if _, err := f.Graph.EntryOf(n); err != nil {
					errs[i] = err
				}
			}
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	}
}

func TestMissingEntryIsStructuralError(t *testing.T) {
	b := sdg.NewBuilder()
	p := b.AddProcedure("p")
	n := b.AddNode(p, sdg.Normal, "lonely")
	g, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	_, err = g.EntryOf(n)
	var serr *sdg.StructuralError
	if !errors.As(err, &serr) || serr.Node != n {
		t.Fatalf("expected a structural error at node %d, got %v", n, err)
	}
	if !errors.Is(err, sdg.ErrMalformed) {
		t.Errorf("structural errors should wrap ErrMalformed")
	}
	if _, err := g.ExitOf(n); err == nil {
		t.Errorf("expected an error for a procedure without exit")
	}
	if _, err := g.EntryOf(42); err == nil {
		t.Errorf("expected an error for a node that is not in the graph")
	}
}

func TestCallSiteFor(t *testing.T) {
	f := analysistest.LoadTest(t, "scenario.yaml")
	g := f.Graph
	for node, call := range map[string]string{
		"main_foo_ain":  "main_call_foo",
		"main_foo_aout": "main_call_foo",
		"main_call_baz": "main_call_baz",
		"foo_bar_aout":  "foo_call_bar",
	} {
		c, err := g.CallSiteFor(f.N(node))
		if err != nil || c != f.N(call) {
			t.Errorf("CallSiteFor(%s) = %s, %v; expected %s", node, f.Name(c), err, call)
		}
	}
	if _, err := g.CallSiteFor(f.N("main_a")); err == nil {
		t.Errorf("main_a is not below a call node")
	}

	for _, test := range []struct {
		src, dst string
		kind     sdg.EdgeKind
		call     string
	}{
		{"main_call_foo", "foo_entry", sdg.CallEdge, "main_call_foo"},
		{"main_foo_ain", "foo_fin", sdg.ParamIn, "main_call_foo"},
		{"foo_fout", "main_foo_aout", sdg.ParamOut, "main_call_foo"},
		{"foo_bar_ain", "foo_bar_aout", sdg.Summary, "foo_call_bar"},
	} {
		c, err := g.CallSiteForEdge(edgeOf(t, f, test.src, test.dst, test.kind))
		if err != nil || c != f.N(test.call) {
			t.Errorf("CallSiteForEdge(%s -%s-> %s) = %s, %v", test.src, test.kind, test.dst, f.Name(c), err)
		}
	}
	if _, err := g.CallSiteForEdge(edgeOf(t, f, "main_a", "main_foo_ain", sdg.DataDep)); err == nil {
		t.Errorf("data dependence edges have no call site")
	}
}

func TestInitializerTrigger(t *testing.T) {
	f := analysistest.LoadTest(t, "initializer.yaml")
	g := f.Graph
	trigger := edgeOf(t, f, "init_static", "q_fin", sdg.ParamIn)
	if !g.IsInitializerTrigger(trigger) {
		t.Errorf("init_static -PI-> q_fin should trigger an initializer")
	}
	if _, err := g.CallSiteForEdge(trigger); !errors.Is(err, sdg.ErrMalformed) {
		t.Errorf("an initializer trigger has no call site, got %v", err)
	}
	for _, eid := range []sdg.EdgeID{
		edgeOf(t, f, "q_ain", "q_fin", sdg.ParamIn),
		edgeOf(t, f, "call_q", "q_entry", sdg.CallEdge),
		edgeOf(t, f, "q_fout", "q_aout", sdg.ParamOut),
	} {
		if g.IsInitializerTrigger(eid) {
			t.Errorf("%s should not trigger an initializer", g.Edge(eid))
		}
	}
	if err := g.Validate(); err != nil {
		t.Errorf("initializer triggers should be valid: %v", err)
	}
}

func TestCallEntryFor(t *testing.T) {
	f := analysistest.LoadTest(t, "scenario.yaml")
	for _, eid := range []sdg.EdgeID{
		edgeOf(t, f, "foo_call_bar", "bar_entry", sdg.CallEdge),
		edgeOf(t, f, "foo_bar_ain", "bar_fin", sdg.ParamIn),
		edgeOf(t, f, "bar_fout", "foo_bar_aout", sdg.ParamOut),
	} {
		call, entry, err := f.Graph.CallEntryFor(eid)
		if err != nil || call != f.N("foo_call_bar") || entry != f.N("bar_entry") {
			t.Errorf("CallEntryFor(%v) = %s, %s, %v", f.Graph.Edge(eid), f.Name(call), f.Name(entry), err)
		}
	}

	fork := analysistest.LoadTest(t, "fork.yaml")
	call, entry, err := fork.Graph.CallEntryFor(edgeOf(t, fork, "spawn_in", "w_fin", sdg.ForkInEdge))
	if err != nil || call != fork.N("spawn") || entry != fork.N("w_entry") {
		t.Errorf("CallEntryFor(fork-in) = %s, %s, %v", fork.Name(call), fork.Name(entry), err)
	}
	if _, _, err := f.Graph.CallEntryFor(edgeOf(t, f, "main_a", "main_foo_ain", sdg.DataDep)); err == nil {
		t.Errorf("expected an error for an intraprocedural edge")
	}
}

func TestParametersAndSummaries(t *testing.T) {
	f := analysistest.LoadTest(t, "scenario.yaml")
	g := f.Graph
	formals := sortedNames(f, g.FormalsOf(f.N("foo_entry")))
	if strings.Join(formals, ",") != "foo_fin,foo_fin2,foo_fout" {
		t.Errorf("unexpected formals of foo: %v", formals)
	}
	actuals := sortedNames(f, g.ActualsOf(f.N("main_call_foo")))
	if strings.Join(actuals, ",") != "main_foo_ain,main_foo_ain2,main_foo_aout" {
		t.Errorf("unexpected actuals of the call to foo: %v", actuals)
	}
	summaries := g.SummaryEdgesOf(f.N("main_call_foo"))
	if len(summaries) != 1 || g.Edge(summaries[0]).Source != f.N("main_foo_ain") ||
		g.Edge(summaries[0]).Target != f.N("main_foo_aout") {
		t.Errorf("unexpected summary edges %v", summaries)
	}
	if callees := g.Callees(f.N("main_call_baz")); len(callees) != 1 || callees[0] != f.N("baz_entry") {
		t.Errorf("unexpected callees %v", callees)
	}
	if callers := g.CallersOf(f.N("bar_entry")); len(callers) != 1 || callers[0] != f.N("foo_call_bar") {
		t.Errorf("unexpected callers %v", callers)
	}
	if !g.IsCalleeOf(f.N("main_call_foo"), f.Proc("foo")) || g.IsCalleeOf(f.N("main_call_foo"), f.Proc("bar")) {
		t.Errorf("main_call_foo calls foo only")
	}
}

func TestSubgraph(t *testing.T) {
	f := analysistest.LoadTest(t, "scenario.yaml")
	region := f.ProcSet("bar")
	region.Add(f.N("foo_call_bar"))
	sub := f.Graph.Subgraph(region)

	if sub.NumNodes() != f.Graph.NumNodes() {
		t.Errorf("subgraphs keep the id space of their parent")
	}
	if !sub.Contains(f.N("bar_body")) || sub.Contains(f.N("foo_entry")) {
		t.Errorf("subgraph should contain exactly the region")
	}
	if len(sub.Nodes()) != region.Len() {
		t.Errorf("expected %d nodes, got %d", region.Len(), len(sub.Nodes()))
	}
	for _, eid := range sub.In(f.N("bar_fin")) {
		if e := sub.Edge(eid); !region.Has(e.Source) {
			t.Errorf("edge %v leaves the subgraph", e)
		}
	}
	if len(sub.In(f.N("bar_entry"))) != 1 {
		t.Errorf("the call edge from foo_call_bar should be kept")
	}
	if len(sub.ProcNodes(f.Proc("foo"))) != 1 {
		t.Errorf("only the call node of foo is in the subgraph")
	}
	if entry, err := sub.EntryOf(f.N("bar_body")); err != nil || entry != f.N("bar_entry") {
		t.Errorf("EntryOf in subgraph = %d, %v", entry, err)
	}
	nested := sub.Subgraph(sdg.NewNodeSet(f.N("bar_entry"), f.N("main_entry")))
	if nested.Contains(f.N("main_entry")) {
		t.Errorf("nested subgraphs are included in their parent")
	}
}

func TestThreads(t *testing.T) {
	f := analysistest.LoadTest(t, "fork.yaml")
	g := f.Graph
	if threads := g.Threads(); len(threads) != 2 || threads[0] != 0 || threads[1] != 1 {
		t.Errorf("expected threads [0 1], got %v", threads)
	}
	if !g.HasThread(1) || g.HasThread(2) {
		t.Errorf("unexpected HasThread results")
	}
	if !g.Node(f.N("w_read")).InThread(1) || g.Node(f.N("w_read")).InThread(0) {
		t.Errorf("w_read runs in thread 1 only")
	}
}

func TestPrint(t *testing.T) {
	f := analysistest.LoadTest(t, "scenario.yaml")
	var b strings.Builder
	f.Graph.Print(&b)
	out := b.String()
	for _, expected := range []string{"digraph sdg {", "label=\"bar\"", "label=\"SU\"", "style=dotted"} {
		if !strings.Contains(out, expected) {
			t.Errorf("%q missing from dot output", expected)
		}
	}
	if !strings.HasPrefix(f.Graph.String(), "SDG{") {
		t.Errorf("unexpected graph string %s", f.Graph)
	}
}
