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

// tidRange is a contiguous run [Lo, Hi] of transaction identifiers all
// containing the owning item, per spec.md §4.2's "(min-tid, max-tid,
// weight)" representation for reduced/collated data. The per-range
// weight is not cached here: Bag.Reduce() already collapses duplicate
// transactions, so a run of consecutive tids usually has length one
// or two and recomputing its weight by summing the (few) underlying
// transaction weights costs nothing extra, while staying exact for
// transactions whose weights differ within a run.
type tidRange struct {
	Lo, Hi TID
}

type rangeEntry struct {
	item   ItemID
	ranges []tidRange
	supp   Support
}

// rangeDB is the tid-ranges Eclat variant: best suited to data that
// has already been Bag.Reduce()-collated, so most items occupy a
// handful of contiguous runs instead of a scattered tid list.
type rangeDB struct {
	base *ItemBase
	bag  *Bag
	opt  Options

	prefixSupp Support
	entries    []rangeEntry
}

func newRangeRoot(base *ItemBase, bag *Bag, opt Options) *rangeDB {
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
	entries := make([]rangeEntry, 0, m)
	for _, id := range itemOrder(m, opt.Direction) {
		if supps[id] < opt.SMin || base.Appearance(ItemID(id)) == AppearIgnore {
			continue
		}
		entries = append(entries, rangeEntry{item: ItemID(id), ranges: coalesceTids(lists[id]), supp: supps[id]})
	}
	return &rangeDB{base: base, bag: bag, opt: opt, prefixSupp: bag.Weight(), entries: entries}
}

// coalesceTids groups a sorted tid list into contiguous runs.
func coalesceTids(tids []TID) []tidRange {
	if len(tids) == 0 {
		return nil
	}
	var out []tidRange
	lo, hi := tids[0], tids[0]
	for _, t := range tids[1:] {
		if t == hi+1 {
			hi = t
			continue
		}
		out = append(out, tidRange{Lo: lo, Hi: hi})
		lo, hi = t, t
	}
	out = append(out, tidRange{Lo: lo, Hi: hi})
	return out
}

func (d *rangeDB) frequentItems() []vdbItem {
	out := make([]vdbItem, 0, len(d.entries))
	for _, e := range d.entries {
		out = append(out, vdbItem{Item: e.item, Supp: e.supp})
	}
	return out
}

func (d *rangeDB) support() Support      { return d.prefixSupp }
func (d *rangeDB) close()                {}
func (d *rangeDB) forbidsReorder() bool  { return false }

func (d *rangeDB) intersect(ctx *Context, x ItemID) (verticalDB, error) {
	pivotIdx := -1
	for i, e := range d.entries {
		if e.item == x {
			pivotIdx = i
			break
		}
	}
	if pivotIdx < 0 {
		return &rangeDB{base: d.base, bag: d.bag, opt: d.opt}, nil
	}
	pivot := d.entries[pivotIdx]
	child := &rangeDB{base: d.base, bag: d.bag, opt: d.opt, prefixSupp: pivot.supp}
	for _, s := range d.entries[pivotIdx+1:] {
		overlap := intersectRanges(pivot.ranges, s.ranges)
		supp := d.sumWeight(overlap)
		if supp >= d.opt.SMin {
			child.entries = append(child.entries, rangeEntry{item: s.item, ranges: overlap, supp: supp})
		}
	}
	return child, nil
}

// intersectRanges computes the overlap of two sorted, non-overlapping
// range lists via the standard two-pointer interval-intersection walk
// (spec.md §4.2's "range-list intersection op").
func intersectRanges(a, b []tidRange) []tidRange {
	var out []tidRange
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		lo := a[i].Lo
		if b[j].Lo > lo {
			lo = b[j].Lo
		}
		hi := a[i].Hi
		if b[j].Hi < hi {
			hi = b[j].Hi
		}
		if lo <= hi {
			out = append(out, tidRange{Lo: lo, Hi: hi})
		}
		if a[i].Hi < b[j].Hi {
			i++
		} else {
			j++
		}
	}
	return out
}

func (d *rangeDB) sumWeight(ranges []tidRange) Support {
	var supp Support
	for _, r := range ranges {
		for t := r.Lo; t <= r.Hi; t++ {
			supp += d.bag.Transaction(int(t)).Weight
		}
	}
	return supp
}
