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

package config

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/awslabs/ar-go-sdg/analysis/sdg"
	"gopkg.in/yaml.v3"
)

// Config is the configuration of the slicing engine.
// To add elements to a config file, add fields to this struct.
// If some field is not defined in the config file, it will be empty/zero in the struct.
// private fields are not populated from a yaml file, but computed after initialization
type Config struct {
	Options

	// Slicing contains the options of the slicers
	Slicing SlicingOptions `yaml:"slicing"`

	// omitted is the parsed version of Slicing.OmitEdges
	omitted sdg.EdgeKindSet
}

// Options are the general options of the tool
type Options struct {
	// Loglevel controls the verbosity of the tool
	LogLevel int `yaml:"log-level"`

	// Suppress warnings
	SilenceWarn bool `yaml:"silence-warn"`

	// Parallelism is the number of slicing queries that may run at the same time in batch mode.
	// If <= 0, the number of CPUs minus one is used.
	Parallelism int `yaml:"parallelism"`
}

// SlicingOptions configures the context-sensitive slicers
type SlicingOptions struct {
	// Direction is either "backward" (default) or "forward"
	Direction string `yaml:"direction"`

	// ContextManager selects how calling contexts are represented: "static" (default) precomputes bounded call
	// strings with recursion folded, "dynamic" grows unbounded call strings lazily.
	ContextManager string `yaml:"context-manager"`

	// MaxCallStringDepth bounds the length of the call strings of the static context manager.
	// If <= 0, DefaultMaxCallStringDepth is used.
	MaxCallStringDepth int `yaml:"max-call-string-depth"`

	// OmitEdges lists edge kinds (short names, e.g. "DH", "DA") the slicer must not traverse
	OmitEdges []string `yaml:"omit-edges"`

	// IncludeConcurrency makes the slicer traverse concurrency edges (fork, join, interference), which are omitted
	// by default
	IncludeConcurrency bool `yaml:"include-concurrency"`

	// CancelPollInterval is the number of worklist iterations between two checks for cancellation.
	// If <= 0, DefaultCancelPollInterval is used.
	CancelPollInterval int `yaml:"cancel-poll-interval"`
}

// NewDefault returns an empty default config.
func NewDefault() *Config {
	return &Config{
		Options: Options{
			LogLevel:    int(InfoLevel),
			SilenceWarn: false,
			Parallelism: 0,
		},
		Slicing: SlicingOptions{
			Direction:          DirectionBackward,
			ContextManager:     ContextManagerStatic,
			MaxCallStringDepth: DefaultMaxCallStringDepth,
			OmitEdges:          nil,
			IncludeConcurrency: false,
			CancelPollInterval: DefaultCancelPollInterval,
		},
	}
}

// Load reads the config in filename
func Load(filename string) (*Config, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}
	return Parse(filename, b)
}

// Parse parses the yaml config contained in b. filename only appears in error messages.
func Parse(filename string, b []byte) (*Config, error) {
	cfg := NewDefault()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("could not unmarshal config file: %w", err)
	}

	// If logLevel has not been specified (i.e. it is 0) set the default to Info
	if cfg.LogLevel == 0 {
		cfg.LogLevel = int(InfoLevel)
	}
	if cfg.Slicing.MaxCallStringDepth <= 0 {
		cfg.Slicing.MaxCallStringDepth = DefaultMaxCallStringDepth
	}
	if cfg.Slicing.CancelPollInterval <= 0 {
		cfg.Slicing.CancelPollInterval = DefaultCancelPollInterval
	}
	if err := cfg.normalize(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", filename, err)
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	c.Slicing.Direction = strings.ToLower(strings.TrimSpace(c.Slicing.Direction))
	if c.Slicing.Direction == "" {
		c.Slicing.Direction = DirectionBackward
	}
	if c.Slicing.Direction != DirectionBackward && c.Slicing.Direction != DirectionForward {
		return fmt.Errorf("unknown direction %q", c.Slicing.Direction)
	}

	c.Slicing.ContextManager = strings.ToLower(strings.TrimSpace(c.Slicing.ContextManager))
	if c.Slicing.ContextManager == "" {
		c.Slicing.ContextManager = ContextManagerStatic
	}
	if c.Slicing.ContextManager != ContextManagerStatic && c.Slicing.ContextManager != ContextManagerDynamic {
		return fmt.Errorf("unknown context manager %q", c.Slicing.ContextManager)
	}

	c.omitted = 0
	for _, name := range c.Slicing.OmitEdges {
		k, err := sdg.ParseEdgeKind(strings.TrimSpace(name))
		if err != nil {
			return err
		}
		c.omitted = c.omitted.With(k)
	}
	return nil
}

// OmittedEdges returns the set of edge kinds listed in the omit-edges option. Concurrency edges are not included
// unless listed explicitly; see IncludeConcurrency.
func (c Config) OmittedEdges() sdg.EdgeKindSet {
	return c.omitted
}

// NumRoutines returns the number of goroutines batch slicing may use
func (c Config) NumRoutines() int {
	if c.Parallelism > 0 {
		return c.Parallelism
	}
	n := runtime.NumCPU() - 1
	if n <= 0 {
		n = 1
	}
	return n
}
