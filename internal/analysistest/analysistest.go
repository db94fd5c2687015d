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

// Package analysistest loads the dependence graphs used by tests. Graphs are described in yaml files where nodes are
// named, and tests refer to nodes by their names:
//
//	procedures:
//	  - name: main
//	    threads: [0]
//	    nodes:
//	      - main_entry entry
//	      - main_call call
//	edges:
//	  - main_entry -CD-> main_call
//
// A node line is a name followed by a node kind. An edge line is a source name, the short name of the edge kind
// between dashes and a target name. Node names are also used as node labels.
package analysistest

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"
	"testing"

	"github.com/awslabs/ar-go-sdg/analysis/sdg"
	"github.com/awslabs/ar-go-sdg/internal/funcutil"
	"gopkg.in/yaml.v3"
)

//go:embed testdata/*.yaml
var testdata embed.FS

type procedureSpec struct {
	Name    string         `yaml:"name"`
	Threads []sdg.ThreadID `yaml:"threads"`
	Nodes   []string       `yaml:"nodes"`
}

type graphFile struct {
	Procedures []procedureSpec `yaml:"procedures"`
	Edges      []string        `yaml:"edges"`
}

// Fixture is a graph loaded from a yaml description, with its node names
type Fixture struct {
	Graph *sdg.Graph
	ids   map[string]sdg.NodeID
	names map[sdg.NodeID]string
	procs map[string]sdg.ProcID
}

// Parse builds the graph described in b
func Parse(b []byte) (*Fixture, error) {
	var desc graphFile
	if err := yaml.Unmarshal(b, &desc); err != nil {
		return nil, fmt.Errorf("could not unmarshal graph: %w", err)
	}
	f := &Fixture{
		ids:   map[string]sdg.NodeID{},
		names: map[sdg.NodeID]string{},
		procs: map[string]sdg.ProcID{},
	}
	builder := sdg.NewBuilder()
	for _, p := range desc.Procedures {
		pid := builder.AddProcedure(p.Name)
		f.procs[p.Name] = pid
		for _, line := range p.Nodes {
			fields := strings.Fields(line)
			if len(fields) != 2 {
				return nil, fmt.Errorf("procedure %s: node %q should be \"name kind\"", p.Name, line)
			}
			kind, err := sdg.ParseNodeKind(fields[1])
			if err != nil {
				return nil, fmt.Errorf("procedure %s: %w", p.Name, err)
			}
			if _, ok := f.ids[fields[0]]; ok {
				return nil, fmt.Errorf("duplicate node name %q", fields[0])
			}
			id := builder.AddNode(pid, kind, fields[0], p.Threads...)
			f.ids[fields[0]] = id
			f.names[id] = fields[0]
		}
	}
	for _, line := range desc.Edges {
		fields := strings.Fields(line)
		if len(fields) != 3 || !strings.HasPrefix(fields[1], "-") || !strings.HasSuffix(fields[1], "->") {
			return nil, fmt.Errorf("edge %q should be \"source -KIND-> target\"", line)
		}
		kind, err := sdg.ParseEdgeKind(strings.TrimSuffix(strings.TrimPrefix(fields[1], "-"), "->"))
		if err != nil {
			return nil, fmt.Errorf("edge %q: %w", line, err)
		}
		src, ok1 := f.ids[fields[0]]
		dst, ok2 := f.ids[fields[2]]
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("edge %q: unknown node", line)
		}
		builder.AddEdge(src, dst, kind)
	}
	g, err := builder.Build()
	if err != nil {
		return nil, err
	}
	f.Graph = g
	return f, nil
}

// LoadTest loads the graph described in the file name of the testdata directory of this package. The test fails if
// the file cannot be loaded.
func LoadTest(t testing.TB, name string) *Fixture {
	t.Helper()
	b, err := testdata.ReadFile(path.Join("testdata", name))
	if err != nil {
		t.Fatalf("could not read graph %s: %v", name, err)
	}
	f, err := Parse(b)
	if err != nil {
		t.Fatalf("could not load graph %s: %v", name, err)
	}
	return f
}

// N returns the id of the node called name. It panics if there is no such node.
func (f *Fixture) N(name string) sdg.NodeID {
	id, ok := f.ids[name]
	if !ok {
		panic(fmt.Sprintf("no node named %q", name))
	}
	return id
}

// Nodes returns the ids of the nodes called names
func (f *Fixture) Nodes(names ...string) []sdg.NodeID {
	return funcutil.Map(names, f.N)
}

// Set returns the set of nodes called names
func (f *Fixture) Set(names ...string) *sdg.NodeSet {
	return sdg.NewNodeSet(f.Nodes(names...)...)
}

// Proc returns the id of the procedure called name. It panics if there is no such procedure.
func (f *Fixture) Proc(name string) sdg.ProcID {
	id, ok := f.procs[name]
	if !ok {
		panic(fmt.Sprintf("no procedure named %q", name))
	}
	return id
}

// Name returns the name of node n
func (f *Fixture) Name(n sdg.NodeID) string {
	return f.names[n]
}

// Names returns the sorted names of the nodes in s
func (f *Fixture) Names(s *sdg.NodeSet) []string {
	names := funcutil.Map(s.Nodes(), f.Name)
	sort.Strings(names)
	return names
}

// ProcSet returns the set of all the nodes of the procedure called name
func (f *Fixture) ProcSet(name string) *sdg.NodeSet {
	return sdg.NewNodeSet(f.Graph.ProcNodes(f.Proc(name))...)
}
