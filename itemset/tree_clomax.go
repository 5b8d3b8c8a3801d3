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

// ClomaxFilter applies the closed/maximal/generator restriction named
// by t.opt.Target over every counter in the tree, marking the Skipped
// flag on sets that fail the restriction (spec.md §4.1 "clomax").
// Call after the tree is fully built (all levels added and committed).
func (t *ISTree) ClomaxFilter() {
	switch t.opt.Target {
	case TargetGenerators:
		t.filterGenerators()
	case TargetClosed:
		t.filterSuperset(false)
		if t.opt.SafeClomax {
			t.safeRestore(false)
		}
	case TargetMaximal:
		t.filterSuperset(true)
		if t.opt.SafeClomax {
			t.safeRestore(true)
		}
	}
}

// filterGenerators marks a set skipped iff any proper subset has the
// same support: direct parent first, then walk to the root through
// every subset reachable by dropping one path item at a time.
func (t *ISTree) filterGenerators() {
	t.walkAll(func(id NodeID, i int) {
		nd := t.n(id)
		c := &nd.counters[i]
		if c.Skipped {
			return
		}
		item := nd.itemAt(i)
		path := append(t.Path(id), item)
		// Direct parent (path minus last item) first.
		if s, ok := t.Supp(path[:len(path)-1]); ok && s == c.Supp {
			c.Skipped = true
			return
		}
		for drop := 0; drop < len(path)-1; drop++ {
			sub := make([]ItemID, 0, len(path)-1)
			for k, it := range path {
				if k != drop {
					sub = append(sub, it)
				}
			}
			if s, ok := t.Supp(sub); ok && s == c.Supp {
				c.Skipped = true
				return
			}
		}
	})
}

// filterSuperset marks a set skipped iff a proper superset exists with
// support >= set's support (closed, maximal=false) or >= smin
// (maximal, maximal=true). Supersets are located first among the
// node's own children (items after the set's last item), then via
// ancestors: walk the path to the root and, at each ancestor, try
// forming a superset from items not on the path.
func (t *ISTree) filterSuperset(maximal bool) {
	t.walkAll(func(id NodeID, i int) {
		nd := t.n(id)
		c := &nd.counters[i]
		if c.Skipped {
			return
		}
		item := nd.itemAt(i)
		threshold := c.Supp
		if maximal {
			threshold = t.smin
		}
		if t.hasChildSuperset(id, i, threshold) {
			c.Skipped = true
			return
		}
		path := append(t.Path(id), item)
		if t.hasAncestorSuperset(id, path, threshold) {
			c.Skipped = true
		}
	})
}

// hasChildSuperset looks for a superset among id's own child (the
// node formed by extending the current set with counter i's item, if
// it was materialised) by checking whether any of that child's own
// counters reach the threshold.
func (t *ISTree) hasChildSuperset(id NodeID, i int, threshold Support) bool {
	nd := t.n(id)
	if nd.chcnt == 0 || i >= len(nd.children) {
		return false
	}
	ch := nd.children[i]
	if ch == NoNode {
		return false
	}
	cn := t.n(ch)
	for _, c := range cn.counters {
		if !c.Skipped && c.Supp >= threshold {
			return true
		}
	}
	return false
}

// hasAncestorSuperset checks, in one pass via scanSupersets, every item
// not already on path as a one-item superset extension whose support is
// resolved via Supp (explicit path lookup from the root).
func (t *ISTree) hasAncestorSuperset(id NodeID, path []ItemID, threshold Support) bool {
	onPath := make(map[ItemID]bool, len(path))
	for _, it := range path {
		onPath[it] = true
	}
	cur := id
	for cur != t.rootID() {
		cur = t.n(cur).parent
	}
	return t.scanSupersets(t.rootID(), path, onPath, threshold)
}

// scanSupersets tries every item of the item base not on path as a
// one-item extension of path and reports whether any such extension
// has support >= threshold; it does not recurse. This is the path-traversal
// fallback spec.md §4.1 describes for locating ancestor-rooted
// supersets when no direct tree child is available.
func (t *ISTree) scanSupersets(rootID NodeID, path []ItemID, onPath map[ItemID]bool, threshold Support) bool {
	m := t.base.Items()
	items := make([]ItemID, 0, m)
	lo, hi := 0, m-1
	order := func(i int) int { return i }
	if t.opt.Direction == Descending {
		order = func(i int) int { return hi - i }
	}
	for k := lo; k <= hi; k++ {
		id := ItemID(order(k))
		if !onPath[id] {
			items = append(items, id)
		}
	}
	for _, extra := range items {
		ext := append(append([]ItemID{}, path...), extra)
		sortItems(ext)
		if s, ok := t.Supp(ext); ok && s >= threshold {
			return true
		}
	}
	return false
}

func sortItems(items []ItemID) {
	for i := 1; i < len(items); i++ {
		for j := i; j > 0 && items[j-1] > items[j]; j-- {
			items[j-1], items[j] = items[j], items[j-1]
		}
	}
}

// safeRestore propagates a "do not skip" clear to all strict subsets
// of every surviving set whose support is <= that set's support
// (closed) or <= smin (maximal), restoring sets whose skip flag was
// set purely by evaluation-based Commit filtering rather than by
// clomax itself (spec.md §4.1 "Safe mode").
func (t *ISTree) safeRestore(maximal bool) {
	t.walkAll(func(id NodeID, i int) {
		nd := t.n(id)
		c := nd.counters[i]
		if c.Skipped {
			return
		}
		item := nd.itemAt(i)
		path := append(t.Path(id), item)
		limit := c.Supp
		if maximal {
			limit = t.smin
		}
		for sz := 1; sz < len(path); sz++ {
			t.clearSubsetsOfSize(path, sz, limit)
		}
	})
}

func (t *ISTree) clearSubsetsOfSize(path []ItemID, size int, limit Support) {
	n := len(path)
	idx := make([]int, size)
	for i := range idx {
		idx[i] = i
	}
	for {
		sub := make([]ItemID, size)
		for i, p := range idx {
			sub[i] = path[p]
		}
		t.clearSkipIfLE(sub, limit)
		// advance idx (combinations)
		i := size - 1
		for i >= 0 && idx[i] == n-size+i {
			i--
		}
		if i < 0 {
			break
		}
		idx[i]++
		for j := i + 1; j < size; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

func (t *ISTree) clearSkipIfLE(sub []ItemID, limit Support) {
	id := t.rootID()
	for i := 0; i < len(sub)-1; i++ {
		id = t.Down(id, sub[i])
		if id == NoNode {
			return
		}
	}
	nd := t.n(id)
	idx := nd.indexOf(sub[len(sub)-1])
	if idx < 0 {
		return
	}
	if nd.counters[idx].Supp <= limit {
		nd.counters[idx].Skipped = false
	}
}

// walkAll visits every (node, counter-index) pair in the tree whose
// counter represents a size>=1 item set (i.e. every node's counters,
// the root's included).
func (t *ISTree) walkAll(fn func(id NodeID, i int)) {
	var walk func(id NodeID)
	walk = func(id NodeID) {
		nd := t.n(id)
		if id != t.rootID() {
			// nd's own counters represent depth+1 sized sets; the
			// set corresponding to *this node itself* (path+edge) is
			// represented by the parent's counter for nd.edge.ID.
		}
		for i := range nd.counters {
			if id != t.rootID() {
				fn(id, i)
			} else if len(nd.counters) > 0 {
				fn(id, i)
			}
		}
		for _, ch := range nd.children {
			if ch != NoNode {
				walk(ch)
			}
		}
	}
	walk(t.rootID())
}
