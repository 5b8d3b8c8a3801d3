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

import "github.com/freqmine/engine/itemset/eval"

// Count scans the whole bag once, incrementing counters at the
// current deepest level for every transaction that can reach them.
// Per spec.md §4.1, a transaction shorter than the current height is
// skipped outright, and descent abandons a branch as soon as the
// remaining tail is shorter than the remaining depth to a leaf.
func (t *ISTree) Count(ctx *Context, bag *Bag) error {
	span := ctx.span("itemset.count")
	defer span.Finish()

	if t.height < 2 {
		// The root's counters already hold each item's total weight
		// from NewISTree; counting again would double them.
		return nil
	}
	for i := 0; i < bag.Count(); i++ {
		if ctx.aborted() {
			return ErrAborted.New()
		}
		tx := bag.Transaction(i)
		if len(tx.Items) < t.height {
			continue
		}
		t.countOne(t.rootID(), tx.Items, tx.Weight)
	}
	return nil
}

// countOne recurses from node id over the tail of a transaction.
func (t *ISTree) countOne(id NodeID, tail []ItemID, wgt Support) {
	nd := t.n(id)
	depth := t.Depth(id)
	remaining := t.height - depth // levels still to descend, inclusive of this one's leaf scan

	if nd.chcnt == 0 {
		// Leaf level: scan the tail and bump every counter it hits.
		ti := 0
		for ci := 0; ci < nd.size() && ti < len(tail); ci++ {
			item := nd.itemAt(ci)
			for ti < len(tail) && tail[ti] < item {
				ti++
			}
			if ti < len(tail) && tail[ti] == item {
				nd.counters[ci].Supp += wgt
				ti++
			}
		}
		return
	}

	if nd.unnecessary {
		return
	}

	// Interior node: for each item in tail, locate the matching child
	// (if any) and recurse on the transaction suffix after it.
	for i, item := range tail {
		if len(tail)-i < remaining {
			break // not enough items left to reach a leaf
		}
		ch := t.Down(id, item)
		if ch == NoNode {
			continue
		}
		t.countOne(ch, tail[i+1:], wgt)
	}
}

// Commit applies spec.md §4.1's "Commit" pass after counting a level:
// every leaf counter below smin, or (when an evaluation measure is
// active at this depth) below the measure's threshold, is flagged
// skipped rather than removed outright — pruning is a separate pass.
func (t *ISTree) Commit() {
	for _, id := range t.DeepestLevel() {
		nd := t.n(id)
		if nd.chcnt != 0 {
			continue
		}
		depth := t.Depth(id)
		for i := range nd.counters {
			c := &nd.counters[i]
			if c.Skipped {
				continue
			}
			if c.Supp < t.smin {
				c.Skipped = true
				continue
			}
			if t.opt.Eval != eval.MeasureNone && depth+1 >= t.opt.PruneDepth {
				if !t.evalAccepts(id, i) {
					c.Skipped = true
				}
			}
		}
	}
}

// evalAccepts applies the configured measure to the set formed by
// node id's path plus its counter i, accepting iff value >= Thresh for
// a maximised measure and value <= Thresh for a minimised one.
func (t *ISTree) evalAccepts(id NodeID, i int) bool {
	fn, dir, err := eval.Resolve(t.opt.Eval)
	if err != nil {
		return true
	}
	nd := t.n(id)
	item := nd.itemAt(i)
	s := float64(nd.counters[i].Supp)
	bodyItems := t.Path(id)
	bsupp, ok := t.Supp(bodyItems)
	if !ok {
		return true
	}
	hsupp := t.base.Frequency(item)
	n := float64(t.wgt)
	v := fn(s, float64(bsupp), float64(hsupp), n)
	want := t.opt.Thresh
	if dir == eval.Minimise {
		return v <= want
	}
	return v >= want
}
