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
	"github.com/awslabs/ar-go-sdg/analysis/config"
	"github.com/awslabs/ar-go-sdg/analysis/sdg"
)

// Params configures a Slicer
type Params struct {
	// Direction of the slice. The zero value is Backward.
	Direction Direction

	// Omit is the set of edge kinds the slicer never traverses. Flow edges are never traversed.
	Omit sdg.EdgeKindSet

	// IncludeConcurrency makes the slicer traverse concurrency edges that are not in Omit. By default, all the
	// concurrency edge kinds are omitted.
	IncludeConcurrency bool

	// PollInterval is the number of worklist iterations between two checks of the request's context.
	// If <= 0, config.DefaultCancelPollInterval is used.
	PollInterval int

	// Parallelism is the number of requests SliceBatch runs at the same time. If <= 0, there is no limit.
	Parallelism int

	// Logger receives per-request statistics at debug level and visited contexts at trace level.
	// If nil, a logger with the default configuration is used.
	Logger *config.LogGroup
}

// Slicer computes context-sensitive slices over the graph of a context manager.
//
// A Slicer holds no state across requests: requests only share the graph and the context manager, which are both
// safe for concurrent use, and a Slicer may serve several requests at the same time.
type Slicer struct {
	manager      callctx.Manager
	graph        *sdg.Graph
	dir          Direction
	omit         sdg.EdgeKindSet
	pollInterval int
	parallelism  int
	logger       *config.LogGroup
}

// New returns a slicer over the graph of m. It returns an error wrapping ErrInvalidArgument when the parameters
// are unsound: omitting summary edges while parameter edges are still traversed would lose the effects of calls
// made from the calling side of the slice.
func New(m callctx.Manager, p Params) (*Slicer, error) {
	if m == nil || m.Graph() == nil {
		return nil, invalidf("no context manager")
	}
	dir := p.Direction
	if !dir.valid() {
		dir = Backward
	}
	if !p.Omit.Valid() {
		return nil, invalidf("omitted edge kinds %#x contain invalid kinds", uint32(p.Omit))
	}
	omit := p.Omit
	if !p.IncludeConcurrency {
		omit = omit.Union(sdg.ConcurrencyKinds)
	}
	if omit.Has(sdg.Summary) && !(omit.Has(sdg.ParamIn) && omit.Has(sdg.ParamOut)) {
		return nil, invalidf("summary edges cannot be omitted while parameter edges are traversed (omitted: %s)",
			omit)
	}
	poll := p.PollInterval
	if poll <= 0 {
		poll = config.DefaultCancelPollInterval
	}
	parallelism := p.Parallelism
	if parallelism < 0 {
		parallelism = 0
	}
	logger := p.Logger
	if logger == nil {
		logger = config.NewLogGroup(config.NewDefault())
	}
	return &Slicer{
		manager:      m,
		graph:        m.Graph(),
		dir:          dir,
		omit:         omit,
		pollInterval: poll,
		parallelism:  parallelism,
		logger:       logger,
	}, nil
}

// NewFromConfig returns a slicer over the graph of m configured by the slicing options of cfg
func NewFromConfig(m callctx.Manager, cfg *config.Config) (*Slicer, error) {
	if cfg == nil {
		cfg = config.NewDefault()
	}
	dir, err := ParseDirection(cfg.Slicing.Direction)
	if err != nil {
		return nil, err
	}
	return New(m, Params{
		Direction:          dir,
		Omit:               cfg.OmittedEdges(),
		IncludeConcurrency: cfg.Slicing.IncludeConcurrency,
		PollInterval:       cfg.Slicing.CancelPollInterval,
		Parallelism:        cfg.NumRoutines(),
		Logger:             config.NewLogGroup(cfg),
	})
}

// Direction returns the direction of the slicer
func (s *Slicer) Direction() Direction {
	return s.dir
}

// Manager returns the context manager of the slicer
func (s *Slicer) Manager() callctx.Manager {
	return s.manager
}

// Parallelism returns the number of requests SliceBatch runs at the same time, or 0 if there is no limit
func (s *Slicer) Parallelism() int {
	return s.parallelism
}

// Omitted returns the edge kinds the slicer does not traverse, concurrency kinds included when they are omitted
func (s *Slicer) Omitted() sdg.EdgeKindSet {
	return s.omit
}

// Slice returns the nodes reachable from the criteria nodes. Each criterion starts in its top-level contexts, so
// the slice may ascend to any caller of the criteria.
func (s *Slicer) Slice(ctx context.Context, criteria []sdg.NodeID) (*sdg.NodeSet, error) {
	return s.SubgraphSlice(ctx, criteria, nil)
}

// ContextSlice returns the contexts reachable from the criteria contexts
func (s *Slicer) ContextSlice(ctx context.Context, criteria []callctx.Context) (callctx.ContextSet, error) {
	return s.ContextSubgraphSlice(ctx, criteria, nil)
}

// SubgraphSlice is Slice where only the nodes of region are visited. A nil region is the whole graph.
func (s *Slicer) SubgraphSlice(ctx context.Context, criteria []sdg.NodeID,
	region *sdg.NodeSet) (*sdg.NodeSet, error) {
	contexts, err := s.topLevelCriteria(criteria, region)
	if err != nil {
		return nil, err
	}
	result, err := s.run(ctx, &request{criteria: contexts, region: region})
	if err != nil {
		return nil, err
	}
	return result.Nodes(), nil
}

// ContextSubgraphSlice is ContextSlice where only the nodes of region are visited. A nil region is the whole graph.
func (s *Slicer) ContextSubgraphSlice(ctx context.Context, criteria []callctx.Context,
	region *sdg.NodeSet) (callctx.ContextSet, error) {
	if err := s.checkContexts(criteria, region); err != nil {
		return nil, err
	}
	return s.run(ctx, &request{criteria: criteria, region: region})
}

// ContextRestrictedSlice is ContextSlice where only the contexts in allowed are visited. The criteria are always
// part of the result.
func (s *Slicer) ContextRestrictedSlice(ctx context.Context, criteria []callctx.Context,
	allowed callctx.ContextSet) (callctx.ContextSet, error) {
	if allowed == nil {
		return nil, invalidf("nil context restriction")
	}
	if err := s.checkContexts(criteria, nil); err != nil {
		return nil, err
	}
	return s.run(ctx, &request{criteria: criteria, allowed: allowed})
}

func (s *Slicer) topLevelCriteria(criteria []sdg.NodeID, region *sdg.NodeSet) ([]callctx.Context, error) {
	var contexts []callctx.Context
	for _, n := range criteria {
		if !s.graph.Contains(n) {
			return nil, invalidf("criterion %d is not a node of the graph", n)
		}
		if region != nil && !region.Has(n) {
			return nil, invalidf("criterion %d is outside of the slicing region", n)
		}
		contexts = append(contexts, s.manager.TopLevel(n)...)
	}
	return contexts, nil
}

func (s *Slicer) checkContexts(criteria []callctx.Context, region *sdg.NodeSet) error {
	for _, c := range criteria {
		if !s.manager.Owns(c) {
			return invalidf("context %s does not belong to the context manager of the slicer", c)
		}
		if region != nil && !region.Has(c.Node) {
			return invalidf("criterion %s is outside of the slicing region", c)
		}
		if !s.graph.HasThread(c.Thread) {
			return &sdg.StructuralError{Op: "slice", Node: c.Node, Reason: "thread of criterion is not in the graph"}
		}
	}
	return nil
}
