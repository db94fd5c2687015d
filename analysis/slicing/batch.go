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
	"fmt"

	"github.com/awslabs/ar-go-sdg/analysis/sdg"
	"golang.org/x/sync/errgroup"
)

// SliceEach computes one independent slice per criteria set, running at most parallelism requests at the same
// time (no limit if parallelism <= 0). The i-th result is the slice of queries[i].
//
// The first failing request cancels the others, and its error is returned with no results.
func SliceEach(ctx context.Context, s *Slicer, queries [][]sdg.NodeID, parallelism int) ([]*sdg.NodeSet, error) {
	results := make([]*sdg.NodeSet, len(queries))
	group, groupCtx := errgroup.WithContext(ctx)
	if parallelism > 0 {
		group.SetLimit(parallelism)
	}
	for i, criteria := range queries {
		i, criteria := i, criteria
		group.Go(func() error {
			slice, err := s.Slice(groupCtx, criteria)
			if err != nil {
				return fmt.Errorf("query %d: %w", i, err)
			}
			results[i] = slice
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	s.logger.Debugf("%d %s slices computed", len(queries), s.dir)
	return results, nil
}

// SliceBatch is SliceEach with the parallelism of the slicer's parameters
func (s *Slicer) SliceBatch(ctx context.Context, queries [][]sdg.NodeID) ([]*sdg.NodeSet, error) {
	return SliceEach(ctx, s, queries, s.parallelism)
}
