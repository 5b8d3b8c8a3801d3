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

import (
	"context"

	opentracing "github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"
	uuid "github.com/satori/go.uuid"
)

// Context threads cancellation, structured logging and an optional
// tracer through one mining invocation. It replaces the original's
// global abort flag (Design Notes §9): every recursive routine in the
// tree and Eclat engines takes a *Context and polls Done() at entry.
// Modeled on the teacher's *sql.Context carrying a context.Context,
// logger and tracer through the engine (enginetest/engine_test.go's
// mockSpan/tracer plumbing).
type Context struct {
	context.Context

	RunID  string
	Log    *logrus.Entry
	Tracer opentracing.Tracer

	stats *Stats
}

// Stats are benchmark counters (node/counter/pointer tallies) guarded
// by a runtime flag per Design Notes' "unconditionally compiled,
// conditionally updated" guidance.
type Stats struct {
	Collect bool

	Nodes      int64
	Counters   int64
	Pointers   int64
	Candidates int64
}

func (s *Stats) addNode() {
	if s != nil && s.Collect {
		s.Nodes++
	}
}

func (s *Stats) addCounters(n int64) {
	if s != nil && s.Collect {
		s.Counters += n
	}
}

func (s *Stats) addPointers(n int64) {
	if s != nil && s.Collect {
		s.Pointers += n
	}
}

func (s *Stats) addCandidate() {
	if s != nil && s.Collect {
		s.Candidates++
	}
}

// NewContext builds a mining Context stamped with a fresh run id and a
// logrus logger tagged with it. parent supplies cancellation.
func NewContext(parent context.Context, log *logrus.Logger) *Context {
	if parent == nil {
		parent = context.Background()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	runID := uuid.NewV4().String()
	return &Context{
		Context: parent,
		RunID:   runID,
		Log:     log.WithField("run_id", runID),
		stats:   &Stats{},
	}
}

// WithStats enables benchmark-counter collection on the context.
func (c *Context) WithStats(collect bool) *Context {
	c.stats.Collect = collect
	return c
}

// StatsSnapshot returns the benchmark counters accumulated so far.
func (c *Context) StatsSnapshot() Stats {
	if c.stats == nil {
		return Stats{}
	}
	return *c.stats
}

// aborted reports whether cooperative cancellation has been observed.
// Every deep-recursion entry point in tree.go and eclat.go calls this
// instead of checking a package-level flag.
func (c *Context) aborted() bool {
	if c == nil || c.Context == nil {
		return false
	}
	select {
	case <-c.Done():
		return true
	default:
		return false
	}
}

// span starts a tracer span for one tree-level expansion or Eclat
// recursion frame when a Tracer is configured; it is a no-op
// otherwise, so call sites never need a nil check.
func (c *Context) span(op string) opentracing.Span {
	if c == nil || c.Tracer == nil {
		return opentracing.NoopTracer{}.StartSpan(op)
	}
	return c.Tracer.StartSpan(op)
}
