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

const (
	// DirectionBackward selects backward slicing: what can affect the criterion
	DirectionBackward = "backward"
	// DirectionForward selects forward slicing: what the criterion can affect
	DirectionForward = "forward"
	// ContextManagerStatic selects precomputed, bounded call strings
	ContextManagerStatic = "static"
	// ContextManagerDynamic selects lazily grown, unbounded call strings
	ContextManagerDynamic = "dynamic"
	// DefaultMaxCallStringDepth sets a call string length that is usually safe in terms of algorithm performance.
	DefaultMaxCallStringDepth = 5
	// DefaultCancelPollInterval is the default number of worklist iterations between cancellation checks
	DefaultCancelPollInterval = 1024
)
