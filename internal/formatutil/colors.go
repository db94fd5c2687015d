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

// Package formatutil colors the strings printed in log messages.
package formatutil

import (
	"fmt"
	"os"
	"sync/atomic"

	"golang.org/x/term"
)

// Faint dims secondary information, such as timings, in log messages
var Faint = Color("\033[2m%s\033[0m")

// colors is 0 when colors follow the terminal detection, 1 when forced on, 2 when forced off
var colors atomic.Int32

// SetColors forces colors on or off, regardless of whether the logs are written to a terminal
func SetColors(enabled bool) {
	if enabled {
		colors.Store(1)
	} else {
		colors.Store(2)
	}
}

// Enabled returns true if Color functions produce escape sequences
func Enabled() bool {
	switch colors.Load() {
	case 1:
		return true
	case 2:
		return false
	}
	// logs are written to stderr
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// Color returns a function that formats its arguments like fmt.Sprint, wrapped in the escape sequence
// colorString when colors are enabled.
func Color(colorString string) func(...interface{}) string {
	return func(args ...interface{}) string {
		if Enabled() {
			return fmt.Sprintf(colorString, fmt.Sprint(args...))
		}
		return fmt.Sprint(args...)
	}
}

// Sanitize removes escape sequences from s
func Sanitize(s string) string {
	r := fmt.Sprintf("%q", s)
	if len(r) >= 2 {
		return r[1 : len(r)-1]
	}
	return r
}
