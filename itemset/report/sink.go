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

package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
)

// ItemName resolves an ItemID back to its external key for formatting;
// WriterSink is agnostic to how that mapping is built (the caller
// supplies it, typically itemset.ItemBase.Key).
type ItemName func(ItemID) string

// WriterSink is the default Sink implementation: item sets and rules
// written to an io.Writer as columns that text/tabwriter aligns by
// padding with spaces (no tab characters reach the output), grounded
// on the original's tract/src/tabwrite.h and on the teacher's absence
// of a templating dependency for tabular CLI output (SPEC_FULL.md
// §4.4 notes stdlib is the idiomatic choice here).
type WriterSink struct {
	tw   *tabwriter.Writer
	name ItemName

	// PerSize, when non-nil, routes each reported set's line to the
	// writer bucketed by size instead of w, realizing the original's
	// -B-style output-file-per-size batching (SPEC_FULL.md §9).
	PerSize map[int]io.Writer
	perSize map[int]*tabwriter.Writer
}

// NewWriterSink wraps w in a tabwriter and resolves item names via name.
func NewWriterSink(w io.Writer, name ItemName) *WriterSink {
	if name == nil {
		name = func(id ItemID) string { return strconv.Itoa(int(id)) }
	}
	return &WriterSink{tw: tabwriter.NewWriter(w, 0, 4, 1, ' ', 0), name: name}
}

func (s *WriterSink) writerFor(size int) *tabwriter.Writer {
	if s.PerSize == nil {
		return s.tw
	}
	if s.perSize == nil {
		s.perSize = make(map[int]*tabwriter.Writer)
	}
	if tw, ok := s.perSize[size]; ok {
		return tw
	}
	w, ok := s.PerSize[size]
	if !ok {
		return s.tw
	}
	tw := tabwriter.NewWriter(w, 0, 4, 1, ' ', 0)
	s.perSize[size] = tw
	return tw
}

func (s *WriterSink) joinItems(items []ItemID) string {
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = s.name(it)
	}
	return strings.Join(names, " ")
}

// ReportSet writes one "items\tsupport\teval" line.
func (s *WriterSink) ReportSet(items []ItemID, supp Support, evalVal float64) error {
	w := s.writerFor(len(items))
	_, err := fmt.Fprintf(w, "%s\t%d\t%.6g\n", s.joinItems(items), supp, evalVal)
	return err
}

// ReportRule writes one "body -> head\tbody-supp\tjoint-supp\thead-supp\teval" line.
func (s *WriterSink) ReportRule(body []ItemID, head ItemID, bodySupp, jointSupp, headSupp Support, evalVal float64) error {
	_, err := fmt.Fprintf(s.tw, "%s -> %s\t%d\t%d\t%d\t%.6g\n",
		s.joinItems(body), s.name(head), bodySupp, jointSupp, headSupp, evalVal)
	return err
}

// AddSpectrumCell is a no-op for WriterSink; callers that want a
// pattern-spectrum table attach a *Spectrum to the Reporter's Config
// instead (the reporter increments it directly).
func (s *WriterSink) AddSpectrumCell(size int, supp Support, delta int64) {}

// Flush flushes every tabwriter the sink has buffered (the default
// writer plus any per-size writers opened on demand).
func (s *WriterSink) Flush() error {
	if err := s.tw.Flush(); err != nil {
		return err
	}
	for _, tw := range s.perSize {
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}
