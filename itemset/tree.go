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

import "github.com/freqmine/engine/itemset/internal/sortutil"

// NodeID indexes into ISTree.nodes. Per Design Notes §9 the tree's
// parent/child/succ links are node indices into an arena, not raw
// pointers: the whole tree is one slice and a failed level expansion
// is undone by truncating it back to its prior length.
type NodeID int32

// NoNode is the NodeID sentinel for "no such node" (the root's parent).
const NoNode NodeID = -1

// node is one item-set tree node (spec.md §3 "Item-set tree node").
// Layout is dense (Offset >= 0, ItemIDs nil) or mapped (Offset == -1,
// ItemIDs holds the counter-index -> item-identifier map).
type node struct {
	offset   int32
	itemIDs  []int32 // mapped layout only; nil for dense
	counters []Counter

	chcnt       int // number of children; 0 if not yet expanded
	unnecessary bool // "subtree known unnecessary, do not descend"

	edge   EdgeItem // edge item labeling parent -> this node
	parent NodeID
	children []NodeID // length chcnt once expanded
}

func (n *node) size() int { return len(n.counters) }

// itemAt returns the item identifier for counter index i.
func (n *node) itemAt(i int) ItemID {
	if n.offset >= 0 {
		return ItemID(n.offset) + ItemID(i)
	}
	return ItemID(n.itemIDs[i])
}

// indexOf returns the counter index for item id, or -1 if not present.
func (n *node) indexOf(id ItemID) int {
	if n.offset >= 0 {
		i := int(id) - int(n.offset)
		if i < 0 || i >= len(n.counters) {
			return -1
		}
		return i
	}
	return sortutil.SearchInt32(n.itemIDs, int32(id))
}

// ISTree is the Apriori-style breadth-first item-set tree (spec.md
// §3/§4.1). Mutations go through ISTree methods only; external callers
// use the Navigation API (root/up/down/next/get-set-inc-supp/...).
type ISTree struct {
	base *ItemBase
	opt  Options

	nodes  []*node
	height int // number of populated levels, >= 1

	levels      [][]NodeID // derived succ chains, one slice per depth
	levelsValid bool

	wgt Support // total transaction weight, cached on the root

	zmin, zmax Support
	smin, body Support
	conf       float64
}

// NewISTree builds the tree's root: one counter per item of base,
// seeded with each item's total weight contribution (spec.md §4.1
// "Construction"). Height starts at 1.
func NewISTree(base *ItemBase, opt Options) *ISTree {
	m := base.Items()
	counters := make([]Counter, m)
	for i := 0; i < m; i++ {
		counters[i] = Counter{Supp: base.Frequency(ItemID(i))}
	}
	root := &node{
		offset:   0,
		counters: counters,
		parent:   NoNode,
		edge:     EdgeItem{ID: NoItem},
	}
	t := &ISTree{
		base:   base,
		opt:    opt,
		nodes:  []*node{root},
		height: 1,
		wgt:    base.TotalWeight(),
		zmin:   opt.ZMin,
		zmax:   opt.ZMax,
		smin:   opt.SMin,
		body:   opt.Body,
		conf:   opt.Conf - 1e-10, // stored slightly under, per spec.md §3
	}
	return t
}

func (t *ISTree) rootID() NodeID { return 0 }
func (t *ISTree) n(id NodeID) *node { return t.nodes[id] }

// Root returns the root node's id.
func (t *ISTree) Root() NodeID { return t.rootID() }

// Up returns id's parent, or NoNode at the root.
func (t *ISTree) Up(id NodeID) NodeID { return t.n(id).parent }

// Down returns the child of id reached by item, or NoNode if absent.
func (t *ISTree) Down(id NodeID, item ItemID) NodeID {
	nd := t.n(id)
	idx := nd.indexOf(item)
	if idx < 0 || nd.chcnt == 0 || idx >= len(nd.children) {
		return NoNode
	}
	ch := nd.children[idx]
	if ch == NoNode {
		// addChildren indexes children by counter position for both
		// layouts, so an empty slot means no child; downMapped's scan
		// by edge item is a fallback lookup.
		return t.downMapped(id, item)
	}
	return ch
}

func (t *ISTree) downMapped(id NodeID, item ItemID) NodeID {
	nd := t.n(id)
	for _, ch := range nd.children {
		if ch == NoNode {
			continue
		}
		if t.n(ch).edge.ID == item {
			return ch
		}
	}
	return NoNode
}

// Next returns the next counter's item identifier after item, in
// ascending identifier order, or NoItem if item is the last.
func (t *ISTree) Next(id NodeID, item ItemID) ItemID {
	nd := t.n(id)
	idx := nd.indexOf(item)
	if idx < 0 || idx+1 >= nd.size() {
		return NoItem
	}
	return nd.itemAt(idx + 1)
}

// Get returns the support of the counter for item at node id.
func (t *ISTree) Get(id NodeID, item ItemID) Support {
	nd := t.n(id)
	idx := nd.indexOf(item)
	if idx < 0 {
		return 0
	}
	return nd.counters[idx].Supp
}

// Set assigns the support of the counter for item at node id.
func (t *ISTree) Set(id NodeID, item ItemID, s Support) {
	nd := t.n(id)
	idx := nd.indexOf(item)
	if idx >= 0 {
		nd.counters[idx].Supp = s
	}
}

// IncSupp adds wgt to the counter for item at node id.
func (t *ISTree) IncSupp(id NodeID, item ItemID, wgt Support) {
	nd := t.n(id)
	idx := nd.indexOf(item)
	if idx >= 0 {
		nd.counters[idx].Supp += wgt
	}
}

// Depth returns the depth (root = 0) of node id.
func (t *ISTree) Depth(id NodeID) int {
	d := 0
	for id != t.rootID() {
		id = t.n(id).parent
		d++
	}
	return d
}

// Path returns the items on the path from root to id (not including
// any counter at id itself), in the order they were added.
func (t *ISTree) Path(id NodeID) []ItemID {
	var rev []ItemID
	for id != t.rootID() {
		nd := t.n(id)
		rev = append(rev, nd.edge.ID)
		id = nd.parent
	}
	out := make([]ItemID, len(rev))
	for i, it := range rev {
		out[len(rev)-1-i] = it
	}
	return out
}

// Supp looks up the support of an explicit item set by walking from
// the root down the path implied by items (which must be sorted
// ascending); returns (0, false) if any edge is missing.
func (t *ISTree) Supp(items []ItemID) (Support, bool) {
	if len(items) == 0 {
		return t.wgt, true
	}
	id := t.rootID()
	for i := 0; i < len(items)-1; i++ {
		next := t.Down(id, items[i])
		if next == NoNode {
			return 0, false
		}
		id = next
	}
	last := items[len(items)-1]
	nd := t.n(id)
	idx := nd.indexOf(last)
	if idx < 0 {
		return 0, false
	}
	return nd.counters[idx].Supp, true
}

// invalidateLevels clears the derived succ chains; both structural
// mutations (AddLevel and Prune) call this so the only way to
// read a succ chain is through rebuildLevels, which always recomputes
// from the current tree (Design Notes §9's open question resolved by
// "recomputation is the only read path").
func (t *ISTree) invalidateLevels() { t.levelsValid = false }

// rebuildLevels recomputes the per-depth node-id lists from scratch.
func (t *ISTree) rebuildLevels() {
	if t.levelsValid {
		return
	}
	levels := make([][]NodeID, t.height)
	var walk func(id NodeID, depth int)
	walk = func(id NodeID, depth int) {
		levels[depth] = append(levels[depth], id)
		nd := t.n(id)
		for _, ch := range nd.children {
			if ch != NoNode {
				walk(ch, depth+1)
			}
		}
	}
	walk(t.rootID(), 0)
	t.levels = levels
	t.levelsValid = true
}

// DeepestLevel returns every node at depth height-1.
func (t *ISTree) DeepestLevel() []NodeID {
	t.rebuildLevels()
	return t.levels[t.height-1]
}

// Height returns the number of populated levels.
func (t *ISTree) Height() int { return t.height }
