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

// tidEntry is one item's sorted tid list within a tidListDB, kept in
// itemOrder (ascending identifiers unless opt.Direction is Descending)
// alongside its siblings so iteration
// matches the lexicographic extension tree spec.md §4.2 describes.
type tidEntry struct {
	item ItemID
	tids []TID
	supp Support
}

// tidListDB is the "tid-list basic"/"tid-list optimised" vertical
// representation: for each item, the sorted list of tids containing
// it, with a sentinel-free slice (spec.md calls for a sentinel; a Go
// slice's length serves that role). The optimised variant additionally
// uses a reusable boolean mark buffer to turn repeated intersections
// against one pivot item into a single linear scan per sibling instead
// of a merge per pair, per spec.md §4.2's "intersection with mark
// array when many items remain".
type tidListDB struct {
	base *ItemBase
	bag  *Bag
	opt  Options

	prefixSupp Support
	entries    []tidEntry // remaining candidate items, in itemOrder
	useMark    bool
	markBuf    []bool // scratch sized bag.Count(), reused across intersect calls
}

// newTidListRoot builds the root database; optimised selects the
// mark-buffer intersection strategy ("tid-list optimised" vs "basic").
func newTidListRoot(base *ItemBase, bag *Bag, opt Options, optimised bool) *tidListDB {
	m := base.Items()
	lists := make([][]TID, m)
	supps := make([]Support, m)
	for i := 0; i < bag.Count(); i++ {
		tx := bag.Transaction(i)
		for _, it := range tx.Items {
			lists[it] = append(lists[it], TID(i))
			supps[it] += tx.Weight
		}
	}
	entries := make([]tidEntry, 0, m)
	order := itemOrder(m, opt.Direction)
	for _, id := range order {
		if supps[id] < opt.SMin {
			continue
		}
		if base.Appearance(ItemID(id)) == AppearIgnore {
			continue
		}
		entries = append(entries, tidEntry{item: ItemID(id), tids: lists[id], supp: supps[id]})
	}
	return &tidListDB{
		base:       base,
		bag:        bag,
		opt:        opt,
		prefixSupp: bag.Weight(),
		entries:    entries,
		useMark:    optimised,
		markBuf:    make([]bool, bag.Count()),
	}
}

func itemOrder(m int, dir SortDirection) []int {
	order := make([]int, m)
	if dir == Descending {
		for i := range order {
			order[i] = m - 1 - i
		}
	} else {
		for i := range order {
			order[i] = i
		}
	}
	return order
}

func (d *tidListDB) frequentItems() []vdbItem {
	out := make([]vdbItem, 0, len(d.entries))
	for _, e := range d.entries {
		out = append(out, vdbItem{Item: e.item, Supp: e.supp})
	}
	return out
}

func (d *tidListDB) support() Support { return d.prefixSupp }

func (d *tidListDB) close() {}

func (d *tidListDB) forbidsReorder() bool { return false }

// intersect builds the conditional database for prefix+x: the pivot's
// own tid list becomes the new prefix support set, and every sibling
// item after the pivot (in the configured direction) is restricted to
// that set.
func (d *tidListDB) intersect(ctx *Context, x ItemID) (verticalDB, error) {
	var pivot tidEntry
	pivotIdx := -1
	for i, e := range d.entries {
		if e.item == x {
			pivot = e
			pivotIdx = i
			break
		}
	}
	if pivotIdx < 0 {
		return &tidListDB{base: d.base, bag: d.bag, opt: d.opt}, nil
	}

	child := &tidListDB{base: d.base, bag: d.bag, opt: d.opt, prefixSupp: pivot.supp, useMark: d.useMark, markBuf: d.markBuf}

	siblings := d.entries[pivotIdx+1:]
	if d.useMark && len(siblings) > 4 {
		for _, t := range pivot.tids {
			d.markBuf[t] = true
		}
		for _, s := range siblings {
			var inter []TID
			var supp Support
			for _, t := range s.tids {
				if d.markBuf[t] {
					inter = append(inter, t)
					supp += d.bag.Transaction(int(t)).Weight
				}
			}
			for _, t := range pivot.tids {
				d.markBuf[t] = false
			}
			if supp >= d.opt.SMin {
				child.entries = append(child.entries, tidEntry{item: s.item, tids: inter, supp: supp})
			}
			for _, t := range pivot.tids {
				d.markBuf[t] = true
			}
		}
		for _, t := range pivot.tids {
			d.markBuf[t] = false
		}
		return child, nil
	}

	for _, s := range siblings {
		inter, supp := intersectSortedTids(pivot.tids, s.tids, d.bag)
		if supp >= d.opt.SMin {
			child.entries = append(child.entries, tidEntry{item: s.item, tids: inter, supp: supp})
		}
	}
	return child, nil
}

// intersectSortedTids merges two ascending tid lists and returns the
// common tids plus the summed transaction weight (the item's support
// in the conditional database formed by the pivot).
func intersectSortedTids(a, b []TID, bag *Bag) ([]TID, Support) {
	var out []TID
	var supp Support
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			out = append(out, a[i])
			supp += bag.Transaction(int(a[i])).Weight
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return out, supp
}
