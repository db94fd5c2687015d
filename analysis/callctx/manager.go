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
	"fmt"

	"github.com/awslabs/ar-go-sdg/analysis/config"
	"github.com/awslabs/ar-go-sdg/analysis/sdg"
)

// NewManager returns the context manager for g selected by the slicing options of cfg. A nil cfg selects the
// default static manager.
func NewManager(g *sdg.Graph, cfg *config.Config) (Manager, error) {
	if g == nil {
		return nil, fmt.Errorf("cannot create a context manager for a nil graph")
	}
	if cfg == nil {
		cfg = config.NewDefault()
	}
	switch cfg.Slicing.ContextManager {
	case config.ContextManagerStatic, "":
		return NewStaticManager(g, cfg.Slicing.MaxCallStringDepth), nil
	case config.ContextManagerDynamic:
		return NewDynamicManager(g), nil
	default:
		return nil, fmt.Errorf("unknown context manager %q", cfg.Slicing.ContextManager)
	}
}
