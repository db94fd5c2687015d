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
	"errors"
	"fmt"
)

var (
	// ErrCancelled is returned when the context of a slicing request is done before the slice is complete.
	// The error also wraps the context's error, so errors.Is(err, context.DeadlineExceeded) works as expected.
	ErrCancelled = errors.New("slicing cancelled")

	// ErrInvalidArgument is returned when a request is rejected before any work: criteria that are not part of
	// the graph, contexts of another manager, or slicer parameters that would make the slice unsound.
	ErrInvalidArgument = errors.New("invalid slicing argument")
)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func cancelled(cause error) error {
	return fmt.Errorf("%w: %w", ErrCancelled, cause)
}
