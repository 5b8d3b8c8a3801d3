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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freqmine/engine/itemset/report"
)

// buildScenario3 builds spec.md §8 scenario 3: {a,b,c},{a,b},{a,c},{b,c}
// with smin=2 -- every pair of {a,b,c} has support 2, the triple has
// support 1 and is therefore infrequent.
func buildScenario3(t *testing.T) (*ItemBase, *Bag, ItemID, ItemID, ItemID) {
	t.Helper()
	base := NewItemBase()
	a := base.Intern("a")
	b := base.Intern("b")
	c := base.Intern("c")
	bag := NewBag(base.Items())
	bag.Add(base, []ItemID{a, b, c}, 1)
	bag.Add(base, []ItemID{a, b}, 1)
	bag.Add(base, []ItemID{a, c}, 1)
	bag.Add(base, []ItemID{b, c}, 1)
	return base, bag, a, b, c
}

type recordingSink struct {
	sets  [][]report.ItemID
	supps []report.Support
	rules int
}

func (s *recordingSink) ReportSet(items []report.ItemID, supp report.Support, evalVal float64) error {
	s.sets = append(s.sets, append([]report.ItemID(nil), items...))
	s.supps = append(s.supps, supp)
	return nil
}

func (s *recordingSink) ReportRule(body []report.ItemID, head report.ItemID, bodySupp, jointSupp, headSupp report.Support, evalVal float64) error {
	s.rules++
	return nil
}

func (s *recordingSink) AddSpectrumCell(size int, supp report.Support, delta int64) {}

func mineAll(t *testing.T, base *ItemBase, bag *Bag, opt Options) (*recordingSink, *report.Reporter) {
	t.Helper()
	sink := &recordingSink{}
	rep, err := Mine(nil, base, bag, opt, sink)
	require.NoError(t, err)
	return sink, rep
}

func TestScenarioThreeFrequentPairs(t *testing.T) {
	base, bag, _, _, _ := buildScenario3(t)
	opt := DefaultOptions()
	opt.SMin = 2
	opt.ZMin = 1
	sink, _ := mineAll(t, base, bag, opt)

	var pairs, triples int
	for _, s := range sink.sets {
		switch len(s) {
		case 2:
			pairs++
		case 3:
			triples++
		}
	}
	assert.Equal(t, 3, pairs, "ab, ac, bc should all be frequent at smin=2")
	assert.Equal(t, 0, triples, "abc has support 1 < smin")
}

func TestScenarioThreeRuleConfidence(t *testing.T) {
	base, bag, _, _, _ := buildScenario3(t)
	opt := DefaultOptions()
	opt.SMin = 1
	opt.ZMin = 2
	opt.Target = TargetRules
	opt.Conf = 0.6
	sink, _ := mineAll(t, base, bag, opt)
	assert.Greater(t, sink.rules, 0, "a->b style rules at confidence 2/3 should clear a 0.6 threshold")
}

func TestEmptySetReportedOnce(t *testing.T) {
	base, bag, _, _, _ := buildScenario3(t)
	opt := DefaultOptions()
	opt.SMin = 1
	opt.ZMin = 0
	sink, _ := mineAll(t, base, bag, opt)

	var empties int
	for _, s := range sink.sets {
		if len(s) == 0 {
			empties++
		}
	}
	require.Equal(t, 1, empties, "the empty set must be reported exactly once, with zero items")
	for _, s := range sink.sets {
		for _, it := range s {
			assert.NotEqual(t, report.ItemID(NoItem), it, "no reported set may contain the NoItem sentinel")
		}
	}
}

func TestNoItemsErrorOnEmptyBase(t *testing.T) {
	base := NewItemBase()
	bag := NewBag(0)
	opt := DefaultOptions()
	_, err := Mine(nil, base, bag, opt, &recordingSink{})
	require.Error(t, err)
	assert.True(t, ErrNoItems.Is(err))
}

func TestClosedTargetDropsNonClosed(t *testing.T) {
	// {a,b,c},{a,b},{a,c} -- {a} has support 3, {a,b} has support 2,
	// {a,c} has support 2, {a,b,c} has support 1, {b} and {c} have
	// support 2. No superset of {a} reaches support 3, so {a} is
	// closed, as are {a,b}, {a,c} and {a,b,c}; {b}, {c} and {b,c} are
	// not, since {a,b}, {a,c} and {a,b,c} match their supports, while
	// plain frequent-set mining would report all seven sets.
	base := NewItemBase()
	a := base.Intern("a")
	b := base.Intern("b")
	c := base.Intern("c")
	bag := NewBag(base.Items())
	bag.Add(base, []ItemID{a, b, c}, 1)
	bag.Add(base, []ItemID{a, b}, 1)
	bag.Add(base, []ItemID{a, c}, 1)

	opt := DefaultOptions()
	opt.SMin = 1
	opt.ZMin = 1
	opt.Target = TargetClosed
	sink, _ := mineAll(t, base, bag, opt)
	assert.Less(t, len(sink.sets), 7, "closed mining must report fewer sets than the full 2^3-1 powerset")
}

func TestPerfectExtensionExpansion(t *testing.T) {
	// Every transaction contains both a and b together, so {a} and
	// {a,b} always have equal support: b is a perfect extension of a,
	// and with PerfectExt+expansion on, {a} and {a,b} both get emitted
	// by the reporter's perfect-extension expansion rather than by
	// recursing into b.
	base := NewItemBase()
	a := base.Intern("a")
	b := base.Intern("b")
	c := base.Intern("c")
	bag := NewBag(base.Items())
	bag.Add(base, []ItemID{a, b, c}, 1)
	bag.Add(base, []ItemID{a, b}, 1)
	bag.Add(base, []ItemID{a, b}, 1)

	opt := DefaultOptions()
	opt.SMin = 1
	opt.ZMin = 1
	opt.PerfectExt = true
	sink, _ := mineAll(t, base, bag, opt)

	foundA, foundAB := false, false
	for _, s := range sink.sets {
		if len(s) == 1 && s[0] == report.ItemID(a) {
			foundA = true
		}
		if len(s) == 2 && containsBoth(s, report.ItemID(a), report.ItemID(b)) {
			foundAB = true
		}
	}
	assert.True(t, foundA, "{a} should be reported")
	assert.True(t, foundAB, "{a,b} should be reported via perfect-extension expansion")
}

func containsBoth(s []report.ItemID, x, y report.ItemID) bool {
	hasX, hasY := false, false
	for _, it := range s {
		if it == x {
			hasX = true
		}
		if it == y {
			hasY = true
		}
	}
	return hasX && hasY
}

func TestAbortedContextStopsEarly(t *testing.T) {
	base, bag, _, _, _ := buildScenario3(t)
	opt := DefaultOptions()
	opt.SMin = 1
	opt.ZMin = 1

	stdCtx, cancel := context.WithCancel(context.Background())
	cancel()
	canceledCtx := NewContext(stdCtx, nil)

	sink := &recordingSink{}
	_, err := Mine(canceledCtx, base, bag, opt, sink)
	require.Error(t, err)
	assert.True(t, ErrAborted.Is(err))
}

func TestTreeNavigationAPI(t *testing.T) {
	base, bag, a, b, _ := buildScenario3(t)
	opt := DefaultOptions()
	opt.SMin = 1
	tree := NewISTree(base, opt)
	require.NoError(t, tree.Count(NewContext(nil, nil), bag))
	tree.Commit()

	root := tree.Root()
	suppA := tree.Get(root, a)
	assert.Equal(t, Support(3), suppA, "a appears in 3 of 4 transactions")
	suppB := tree.Get(root, b)
	assert.Equal(t, Support(3), suppB)

	require.Equal(t, []ItemID{}, tree.Path(root))
}
