// Copyright 2020-2021 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package itemset

import "gopkg.in/src-d/go-errors.v1"

// Error kinds surfaced by the mining core. Every other failure mode
// (counter overflow, measure boundary, missing child) is handled
// locally by the algorithm and never escapes as one of these.
var (
	// ErrOutOfMemory is returned when an allocation failed while
	// building or extending the item-set tree or a vertical structure.
	// The caller may retry with tighter thresholds.
	ErrOutOfMemory = errors.NewKind("out of memory")

	// ErrNoItems is returned when, after recoding, zero frequent items
	// remain. Not a failure: callers should report an empty result.
	ErrNoItems = errors.NewKind("no frequent items")

	// ErrInvalidConfig is returned when the configuration surface is
	// rejected before mining begins (unknown measure id, empty size
	// window, confidence outside [0,1], ...).
	ErrInvalidConfig = errors.NewKind("invalid configuration: %s")

	// ErrAborted is returned when cooperative cancellation was observed.
	// Partial results already handed to the reporter remain intact.
	ErrAborted = errors.NewKind("mining aborted")

	// ErrReporterRejected wraps a "stop" status returned by a report-*
	// sink callback; mining stops and the error propagates unchanged.
	ErrReporterRejected = errors.NewKind("reporter rejected further output")
)
