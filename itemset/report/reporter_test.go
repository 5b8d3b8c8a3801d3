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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	sets  [][]ItemID
	supps []Support
	rules int
	fail  bool
}

func (s *recordingSink) ReportSet(items []ItemID, supp Support, evalVal float64) error {
	if s.fail {
		return errors.New("sink rejected")
	}
	s.sets = append(s.sets, append([]ItemID(nil), items...))
	s.supps = append(s.supps, supp)
	return nil
}

func (s *recordingSink) ReportRule(body []ItemID, head ItemID, bodySupp, jointSupp, headSupp Support, evalVal float64) error {
	if s.fail {
		return errors.New("sink rejected")
	}
	s.rules++
	return nil
}

func (s *recordingSink) AddSpectrumCell(size int, supp Support, delta int64) {}

func TestAddRemoveReportCurrent(t *testing.T) {
	sink := &recordingSink{}
	rep := NewReporter(Config{ZMin: 0, ZMax: 10, SMin: 1, SMax: 100}, sink)

	require.Equal(t, StatusRecurse, rep.Add(1, 5))
	require.NoError(t, rep.ReportCurrent())
	rep.Remove(1)

	require.Len(t, sink.sets, 1)
	assert.Equal(t, []ItemID{1}, sink.sets[0])
	assert.Equal(t, Support(5), sink.supps[0])
}

func TestReportCurrentExpandsPerfectExtensions(t *testing.T) {
	sink := &recordingSink{}
	rep := NewReporter(Config{ZMin: 0, ZMax: 10, SMin: 1, SMax: 100, Expand: true}, sink)

	rep.Add(1, 5)
	rep.AddPex(2)
	rep.AddPex(3)
	require.NoError(t, rep.ReportCurrent())

	require.Len(t, sink.sets, 4, "base + 3 non-empty pex subsets = 2^2 combinations")
	var sawBase, sawPair, sawTriple bool
	for _, s := range sink.sets {
		switch len(s) {
		case 1:
			sawBase = true
		case 2:
			sawPair = true
		case 3:
			sawTriple = true
		}
	}
	assert.True(t, sawBase)
	assert.True(t, sawPair)
	assert.True(t, sawTriple)
}

func TestReportCurrentNoExpansionWhenDisabled(t *testing.T) {
	sink := &recordingSink{}
	rep := NewReporter(Config{ZMin: 0, ZMax: 10, SMin: 1, SMax: 100, Expand: false}, sink)

	rep.Add(1, 5)
	rep.AddPex(2)
	require.NoError(t, rep.ReportCurrent())

	require.Len(t, sink.sets, 1, "Expand=false must emit only the bare prefix")
	assert.Equal(t, []ItemID{1}, sink.sets[0])
}

func TestPexMarkTruncateScopesOneLevel(t *testing.T) {
	sink := &recordingSink{}
	rep := NewReporter(Config{ZMin: 0, ZMax: 10, SMin: 1, SMax: 100, Expand: true}, sink)

	rep.AddPex(1)
	mark := rep.PexMark()
	rep.AddPex(2)
	rep.AddPex(3)
	assert.Equal(t, 3, len(rep.pexs))

	rep.TruncatePex(mark)
	assert.Equal(t, 1, len(rep.pexs), "truncating must drop only what was added after the mark")
}

func TestRemoveDoesNotTouchPex(t *testing.T) {
	sink := &recordingSink{}
	rep := NewReporter(Config{ZMin: 0, ZMax: 10, SMin: 1, SMax: 100, Expand: true}, sink)

	rep.Add(1, 5)
	rep.AddPex(2)
	rep.Remove(1)
	assert.Equal(t, 1, len(rep.pexs), "Remove must pop only the regular-item prefix, not perfect extensions")
}

func TestReportCurrentSinceSkipsAlreadyCoveredCombinations(t *testing.T) {
	sink := &recordingSink{}
	rep := NewReporter(Config{ZMin: 0, ZMax: 10, SMin: 1, SMax: 100, Expand: true}, sink)

	rep.AddPex(1) // pretend an ancestor already reported this one alone
	since := rep.PexMark()
	rep.AddPex(2)

	require.NoError(t, rep.ReportCurrentSince(since, 7))

	// Only combinations that draw from index >= since (item 2) should
	// appear: {2} and {1,2}, never {1} alone (already covered upstream).
	require.Len(t, sink.sets, 2)
	for _, s := range sink.sets {
		found2 := false
		for _, it := range s {
			if it == 2 {
				found2 = true
			}
		}
		assert.True(t, found2, "every emitted combination must include the newly discovered item")
	}
}

func TestReportCurrentSinceNoopWhenNothingNew(t *testing.T) {
	sink := &recordingSink{}
	rep := NewReporter(Config{ZMin: 0, ZMax: 10, SMin: 1, SMax: 100, Expand: true}, sink)

	rep.AddPex(1)
	mark := rep.PexMark()
	require.NoError(t, rep.ReportCurrentSince(mark, 7))
	assert.Empty(t, sink.sets, "no new pex items since mark means nothing to report")
}

func TestReportEmptyBypassesPexExpansion(t *testing.T) {
	sink := &recordingSink{}
	rep := NewReporter(Config{ZMin: 0, ZMax: 10, SMin: 1, SMax: 100, Expand: true}, sink)

	rep.AddPex(1)
	require.NoError(t, rep.ReportEmpty(42))

	require.Len(t, sink.sets, 1)
	assert.Empty(t, sink.sets[0])
	assert.Equal(t, Support(42), sink.supps[0])
}

func TestEmitRespectsSizeAndSupportWindow(t *testing.T) {
	sink := &recordingSink{}
	rep := NewReporter(Config{ZMin: 2, ZMax: 2, SMin: 5, SMax: 10}, sink)

	require.NoError(t, rep.emit([]ItemID{1}, 5))       // too small
	require.NoError(t, rep.emit([]ItemID{1, 2, 3}, 5)) // too large
	require.NoError(t, rep.emit([]ItemID{1, 2}, 4))    // below SMin
	require.NoError(t, rep.emit([]ItemID{1, 2}, 11))   // above SMax
	assert.Empty(t, sink.sets)

	require.NoError(t, rep.emit([]ItemID{1, 2}, 7))
	require.Len(t, sink.sets, 1)
}

func TestEmitRespectsSizeBorder(t *testing.T) {
	sink := &recordingSink{}
	rep := NewReporter(Config{ZMin: 0, ZMax: 10, SMin: 1, SMax: 100, SizeBorder: map[int]Support{2: 10}}, sink)

	require.NoError(t, rep.emit([]ItemID{1, 2}, 5)) // below the size-2 border
	assert.Empty(t, sink.sets)

	require.NoError(t, rep.emit([]ItemID{1, 2}, 10))
	require.Len(t, sink.sets, 1)
}

func TestAddSkipsSubsumedForClosedTarget(t *testing.T) {
	repo := NewRepository(0, nil)
	repo.Store([]ItemID{1, 2}, 10)

	sink := &recordingSink{}
	rep := NewReporter(Config{ZMin: 0, ZMax: 10, SMin: 1, SMax: 100, Target: TargetClosed, Repository: repo}, sink)

	code := rep.Add(1, 10)
	assert.Equal(t, StatusSkip, code, "a subset of an equal-support stored set must be skipped")
}

func TestAddNCBypassesClosedCheck(t *testing.T) {
	repo := NewRepository(0, nil)
	repo.Store([]ItemID{1, 2}, 10)

	sink := &recordingSink{}
	rep := NewReporter(Config{ZMin: 0, ZMax: 10, SMin: 1, SMax: 100, Target: TargetClosed, Repository: repo}, sink)

	code := rep.AddNC(1, 10)
	assert.Equal(t, StatusRecurse, code, "AddNC never consults the repository")
}

func TestSinkRejectionPropagatesAsError(t *testing.T) {
	sink := &recordingSink{fail: true}
	rep := NewReporter(Config{ZMin: 0, ZMax: 10, SMin: 1, SMax: 100}, sink)

	err := rep.emit([]ItemID{1}, 5)
	require.Error(t, err)
}

func TestAddPexPackedRegistersEachBit(t *testing.T) {
	sink := &recordingSink{}
	rep := NewReporter(Config{Expand: true}, sink)
	rep.AddPexPacked(0b101)
	require.Equal(t, []ItemID{0, 2}, rep.pexs)
}

func TestReportedCountTracksEmissions(t *testing.T) {
	sink := &recordingSink{}
	rep := NewReporter(Config{ZMin: 0, ZMax: 10, SMin: 1, SMax: 100}, sink)
	assert.Equal(t, int64(0), rep.ReportedCount())

	rep.Add(1, 5)
	require.NoError(t, rep.ReportCurrent())
	assert.Equal(t, int64(1), rep.ReportedCount())

	rep.Remove(1)
	rep.Add(2, 5)
	require.NoError(t, rep.ReportCurrent())
	assert.Equal(t, int64(2), rep.ReportedCount())
}

func TestReportRuleStatusCodes(t *testing.T) {
	ok := &recordingSink{}
	rep := NewReporter(Config{}, ok)
	assert.Equal(t, StatusRecurse, rep.ReportRule([]ItemID{1}, 2, 5, 3, 4, 0.9))
	assert.Equal(t, 1, ok.rules)

	bad := &recordingSink{fail: true}
	rep2 := NewReporter(Config{}, bad)
	assert.Equal(t, StatusAbort, rep2.ReportRule([]ItemID{1}, 2, 5, 3, 4, 0.9))
}
