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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freqmine/engine/itemset/report"
)

// runVariant mines scenario 3 ({a,b,c},{a,b},{a,c},{b,c}) through a
// pinned Eclat algorithm variant and returns the sizes+supports found.
func runVariant(t *testing.T, algo Algorithm) *recordingSink {
	t.Helper()
	base, bag, _, _, _ := buildScenario3(t)
	opt := DefaultOptions()
	opt.SMin = 2
	opt.ZMin = 1
	opt.Algo = algo
	sink, _ := mineAll(t, base, bag, opt)
	return sink
}

// Every vertical-DB variant must agree on the same frequent sets for
// the same data: 3 singletons (a,b,c, each support 3) and 3 pairs
// (ab,ac,bc, each support 2), no triple (support 1 < smin).
func assertScenarioThreeShape(t *testing.T, sink *recordingSink) {
	t.Helper()
	var ones, twos, threes int
	for _, s := range sink.sets {
		switch len(s) {
		case 1:
			ones++
		case 2:
			twos++
		case 3:
			threes++
		}
	}
	assert.Equal(t, 3, ones)
	assert.Equal(t, 3, twos)
	assert.Equal(t, 0, threes)
}

func TestEclatVariantsAgreeTidListBasic(t *testing.T) {
	assertScenarioThreeShape(t, runVariant(t, AlgoTidListBasic))
}

func TestEclatVariantsAgreeTidListOpt(t *testing.T) {
	assertScenarioThreeShape(t, runVariant(t, AlgoTidListOpt))
}

func TestEclatVariantsAgreeBitVector(t *testing.T) {
	assertScenarioThreeShape(t, runVariant(t, AlgoBitVector))
}

func TestEclatVariantsAgreeOccTable(t *testing.T) {
	assertScenarioThreeShape(t, runVariant(t, AlgoOccTable))
}

func TestEclatVariantsAgreeSimpleTable(t *testing.T) {
	assertScenarioThreeShape(t, runVariant(t, AlgoSimpleTable))
}

func TestEclatVariantsAgreeTidRanges(t *testing.T) {
	assertScenarioThreeShape(t, runVariant(t, AlgoTidRanges))
}

func TestEclatVariantsAgreeOccDeliver(t *testing.T) {
	assertScenarioThreeShape(t, runVariant(t, AlgoOccDeliver))
}

func TestEclatVariantsAgreeDiffSets(t *testing.T) {
	assertScenarioThreeShape(t, runVariant(t, AlgoDiffSets))
}

func TestChooseAutoPicksOccDeliverWhenNotClosed(t *testing.T) {
	base, bag, _, _, _ := buildScenario3(t)
	opt := DefaultOptions()
	opt.Target = TargetAll
	eng := NewEclatEngine(base, bag, opt, report.NewReporter(report.Config{ZMax: 100, SMax: 100}, &recordingSink{}))
	assert.Equal(t, AlgoOccDeliver, eng.chooseAuto())
}

func TestChooseAutoPicksTidListOptWhenClosedAndDense(t *testing.T) {
	base, bag, _, _, _ := buildScenario3(t)
	opt := DefaultOptions()
	opt.Target = TargetClosed
	opt.Density = 0 // force density > threshold
	eng := NewEclatEngine(base, bag, opt, report.NewReporter(report.Config{ZMax: 100, SMax: 100}, &recordingSink{}))
	assert.Equal(t, AlgoTidListOpt, eng.chooseAuto())
}

func TestReorderDisabledForClosedTarget(t *testing.T) {
	base, bag, _, _, _ := buildScenario3(t)
	opt := DefaultOptions()
	opt.Target = TargetClosed
	eng := NewEclatEngine(base, bag, opt, report.NewReporter(report.Config{}, &recordingSink{}))
	assert.False(t, eng.reorderAllowed())

	opt.Target = TargetMaximal
	eng = NewEclatEngine(base, bag, opt, report.NewReporter(report.Config{}, &recordingSink{}))
	assert.False(t, eng.reorderAllowed())

	opt.Target = TargetAll
	eng = NewEclatEngine(base, bag, opt, report.NewReporter(report.Config{}, &recordingSink{}))
	assert.True(t, eng.reorderAllowed())
}

func TestRunBelowTotalWeightEmitsNothing(t *testing.T) {
	base, bag, _, _, _ := buildScenario3(t)
	opt := DefaultOptions()
	opt.SMin = 100 // above total transaction weight (4)
	sink := &recordingSink{}
	eng := NewEclatEngine(base, bag, opt, report.NewReporter(report.Config{ZMax: 100, SMax: 100}, sink))
	require.NoError(t, eng.Run(NewContext(nil, nil)))
	assert.Empty(t, sink.sets)
}

// Four weighted transactions, each missing a different one of a..d,
// give occurrence-deliver several overlapping buckets; mining twice
// checks its collate/uncollate bookkeeping survives a full run without
// leaking state across siblings.
func TestEclatOccDeliverRepeatedRuns(t *testing.T) {
	base := NewItemBase()
	a := base.Intern("a")
	b := base.Intern("b")
	c := base.Intern("c")
	d := base.Intern("d")
	bag := NewBag(base.Items())
	bag.Add(base, []ItemID{a, b, c}, 2)
	bag.Add(base, []ItemID{a, b, d}, 1)
	bag.Add(base, []ItemID{a, c, d}, 3)
	bag.Add(base, []ItemID{b, c, d}, 1)

	opt := DefaultOptions()
	opt.SMin = 2
	opt.ZMin = 1
	opt.Algo = AlgoOccDeliver
	sink1, _ := mineAll(t, base, bag, opt)

	sink2, _ := mineAll(t, base, bag, opt)
	require.Equal(t, len(sink1.sets), len(sink2.sets), "re-running the same mine call must be deterministic")
}

func TestPackedMachineAgreesWithVerticalRecursion(t *testing.T) {
	base, bag, _, _, _ := buildScenario3(t)
	opt := DefaultOptions()
	opt.SMin = 2
	opt.ZMin = 1
	opt.PackK = 3 // base has exactly 3 items: a, b, c
	sink, _ := mineAll(t, base, bag, opt)
	assertScenarioThreeShape(t, sink)
}

func TestPackedMachineDoesNotMutateOriginalBag(t *testing.T) {
	base, bag, a, _, _ := buildScenario3(t)
	before := bag.Transaction(0)
	require.Contains(t, before.Items, a)

	opt := DefaultOptions()
	opt.SMin = 2
	opt.ZMin = 1
	opt.PackK = 3
	_, _ = mineAll(t, base, bag, opt)

	after := bag.Transaction(0)
	assert.Equal(t, before.Items, after.Items, "runPacked must not mutate the caller's bag in place")
	assert.Zero(t, after.PackMask, "the original bag was never packed")
}
