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

/*
Package config provides a simple way to manage configuration files.

Use [Load](filename) to load a configuration from a specific filename.

Use [Parse] to read a configuration held in memory, and [NewDefault] for the default configuration.

A config file should be in yaml format. The top-level fields can be any of the fields defined in the Config
struct type. The other fields are defined by the types of the fields of [Config] and nested struct types.
For example, a valid config file is as follows:

	options:
	  log-level: 4
	  parallelism: 2
	slicing:
	  direction: forward
	  context-manager: dynamic
	  omit-edges: [DH, DA]
	  include-concurrency: true

# Soundness

Omitting edge kinds makes slices smaller. The slicers reject omission sets that break the two-phase algorithm
(omitting summary edges while parameter edges are traversed), but any other omission is taken as the user's
intent.
*/
package config
