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

// AddLevel extends the tree by one level: for every node at the
// current deepest level, and every surviving counter in it, a child
// node is generated out of the counters that also survive the full-
// subset check (spec.md §4.1 "Level extension"). Returns the number of
// nodes created; on an error (ErrAborted when the context is cancelled)
// the tree is left at its previous height, with no partially built nodes.
func (t *ISTree) AddLevel(ctx *Context) (int, error) {
	span := ctx.span("itemset.add_level")
	defer span.Finish()

	deepest := t.DeepestLevel()
	before := len(t.nodes)
	rollback := func(done []NodeID) {
		for _, pid := range done {
			t.n(pid).children, t.n(pid).chcnt = nil, 0
		}
		t.nodes = t.nodes[:before]
	}
	created := 0
	for i, id := range deepest {
		if ctx.aborted() {
			rollback(deepest[:i])
			return 0, ErrAborted.New()
		}
		n, err := t.addChildren(ctx, id)
		if err != nil {
			rollback(deepest[:i+1])
			return 0, err
		}
		created += n
	}
	if created > 0 {
		t.height++
	}
	t.propagateUnnecessary(deepest)
	t.invalidateLevels()
	return created, nil
}

// addChildren expands a single node's surviving counters into child
// nodes, per spec.md §4.1's candidate rule (numbered 1-4 below).
func (t *ISTree) addChildren(ctx *Context, id NodeID) (int, error) {
	nd := t.n(id)
	if nd.chcnt != 0 {
		return 0, nil // already expanded
	}
	children := make([]NodeID, nd.size())
	for i := range children {
		children[i] = NoNode
	}
	created := 0
	for i := 0; i < nd.size(); i++ {
		ci := nd.counters[i]
		if ci.Skipped || ci.Supp < t.smin {
			continue
		}
		item := nd.itemAt(i)
		if t.base.Appearance(item) == AppearIgnore {
			continue
		}
		headOnly := nd.edge.HeadOnly || t.base.Appearance(item) == AppearHeadOnly
		if nd.edge.HeadOnly && t.base.Appearance(item) == AppearHeadOnly {
			continue // two head-only items in one set, rule 1
		}

		child, ok, err := t.buildChild(ctx, id, i, item, headOnly)
		if err != nil {
			return created, err
		}
		if !ok {
			continue
		}
		nid := NodeID(len(t.nodes))
		t.nodes = append(t.nodes, child)
		children[i] = nid
		created++
		ctx.stats.addNode()
	}
	nd.children = children
	nd.chcnt = created
	ctx.stats.addPointers(int64(created))
	return created, nil
}

// buildChild considers every counter j > i (or j < i when the reverse
// order flag is set) of the parent as a candidate item for the child
// formed by extending the parent's path with item i.
func (t *ISTree) buildChild(ctx *Context, parentID NodeID, i int, pivot ItemID, parentHeadOnly bool) (*node, bool, error) {
	nd := t.n(parentID)
	parentSupp := nd.counters[i].Supp

	type cand struct {
		item ItemID
		supp Support
	}
	var cands []cand

	indices := make([]int, 0, nd.size())
	if t.opt.Direction == Descending {
		for j := i - 1; j >= 0; j-- {
			indices = append(indices, j)
		}
	} else {
		for j := i + 1; j < nd.size(); j++ {
			indices = append(indices, j)
		}
	}

	for _, j := range indices {
		cj := nd.counters[j]
		k := nd.itemAt(j)
		if t.base.Appearance(k) == AppearIgnore {
			continue
		}
		if parentHeadOnly && t.base.Appearance(k) == AppearHeadOnly {
			continue
		}
		if cj.Skipped || cj.Supp < t.smin {
			continue
		}
		if t.opt.PerfectExt && cj.Supp == parentSupp {
			// Perfect extensions never become tree children; the
			// reporter absorbs them at report time (spec.md §4.1).
			continue
		}
		path := append(append([]ItemID{}, t.Path(parentID)...), pivot, k)
		if !t.opt.OrigSupp && !t.fullSubsetCheck(path) {
			continue
		}
		if !t.hasBodyCandidate(path) {
			continue
		}
		cands = append(cands, cand{item: k, supp: cj.Supp})
		ctx.stats.addCandidate()
	}
	if len(cands) == 0 {
		return nil, false, nil
	}

	minID, maxID := cands[0].item, cands[0].item
	for _, c := range cands {
		if c.item < minID {
			minID = c.item
		}
		if c.item > maxID {
			maxID = c.item
		}
	}
	span := int(maxID-minID) + 1
	dense := span <= 2*len(cands)

	var ch *node
	if dense {
		counters := make([]Counter, span)
		for k := range counters {
			counters[k] = Counter{Skipped: true}
		}
		for _, c := range cands {
			counters[int(c.item-minID)] = Counter{Supp: 0}
		}
		ch = &node{offset: int32(minID), counters: counters}
		ctx.stats.addCounters(int64(span))
	} else {
		ids := make([]int32, len(cands))
		counters := make([]Counter, len(cands))
		for k, c := range cands {
			ids[k] = int32(c.item)
			counters[k] = Counter{Supp: 0}
		}
		ch = &node{offset: -1, itemIDs: ids, counters: counters}
		ctx.stats.addCounters(int64(len(cands)))
	}
	ch.parent = parentID
	ch.edge = EdgeItem{ID: pivot, HeadOnly: parentHeadOnly}
	return ch, true, nil
}

// fullSubsetCheck looks each subset up from the root via Supp,
// verifying that every subset of size |S|+1 obtained by dropping one item from
// path has support >= smin (spec.md §4.1 rule 3). Unless the
// partial-check flag (OrigSupp) is set, this full check runs.
func (t *ISTree) fullSubsetCheck(path []ItemID) bool {
	n := len(path)
	if n <= 2 {
		return true
	}
	for drop := 0; drop < n; drop++ {
		sub := make([]ItemID, 0, n-1)
		for i, it := range path {
			if i != drop {
				sub = append(sub, it)
			}
		}
		s, ok := t.Supp(sub)
		if !ok || s < t.smin {
			return false
		}
	}
	return true
}

// hasBodyCandidate checks rule 4: at least one size-(|S|+1) subset of
// path must clear the body-support threshold, so the eventual set can
// still serve as a rule body.
func (t *ISTree) hasBodyCandidate(path []ItemID) bool {
	if t.body <= 0 {
		return true
	}
	n := len(path)
	for drop := 0; drop < n; drop++ {
		sub := make([]ItemID, 0, n-1)
		for i, it := range path {
			if i != drop {
				sub = append(sub, it)
			}
		}
		if s, ok := t.Supp(sub); ok && s >= t.body {
			return true
		}
	}
	return false
}

// propagateUnnecessary sets the "unnecessary" flag of each given
// parent iff every child it has is itself flagged unnecessary and has
// children of its own. A leaf child always leaves its parent
// necessary, the children's counters are not inspected, and the flag
// is not propagated further up than the given parents.
func (t *ISTree) propagateUnnecessary(parents []NodeID) {
	for _, id := range parents {
		nd := t.n(id)
		if nd.chcnt == 0 {
			continue
		}
		allUnnecessary := true
		for _, ch := range nd.children {
			if ch == NoNode {
				continue
			}
			cn := t.n(ch)
			if !cn.unnecessary || cn.chcnt == 0 {
				allUnnecessary = false
				break
			}
		}
		nd.unnecessary = allUnnecessary
	}
}
