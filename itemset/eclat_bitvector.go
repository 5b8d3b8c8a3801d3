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
	"github.com/pilosa/pilosa/roaring"
)

// bitEntry pairs an item with its tid bitmap and weighted support
// under the current prefix.
type bitEntry struct {
	item   ItemID
	bitmap *roaring.Bitmap
	supp   Support
}

// bitVectorDB is the bit-vector Eclat variant: one roaring bitmap of
// tids per item, AND-ed (not popcount-summed, since transactions carry
// integer weights rather than being unit weight) to compute supports.
// Best for dense, near-unit-weight data (spec.md §4.2's variants
// table); wired onto github.com/pilosa/pilosa/roaring per
// SPEC_FULL.md's domain-stack table rather than a hand-rolled bitset.
type bitVectorDB struct {
	base *ItemBase
	bag  *Bag
	opt  Options

	prefixSupp Support
	entries    []bitEntry
}

func newBitVectorRoot(base *ItemBase, bag *Bag, opt Options) *bitVectorDB {
	m := base.Items()
	bitmaps := make([]*roaring.Bitmap, m)
	supps := make([]Support, m)
	for i := range bitmaps {
		bitmaps[i] = roaring.NewBitmap()
	}
	for i := 0; i < bag.Count(); i++ {
		tx := bag.Transaction(i)
		for _, it := range tx.Items {
			bitmaps[it].Add(uint64(i))
			supps[it] += tx.Weight
		}
	}
	entries := make([]bitEntry, 0, m)
	for _, id := range itemOrder(m, opt.Direction) {
		if supps[id] < opt.SMin || base.Appearance(ItemID(id)) == AppearIgnore {
			continue
		}
		entries = append(entries, bitEntry{item: ItemID(id), bitmap: bitmaps[id], supp: supps[id]})
	}
	return &bitVectorDB{base: base, bag: bag, opt: opt, prefixSupp: bag.Weight(), entries: entries}
}

func (d *bitVectorDB) frequentItems() []vdbItem {
	out := make([]vdbItem, 0, len(d.entries))
	for _, e := range d.entries {
		out = append(out, vdbItem{Item: e.item, Supp: e.supp})
	}
	return out
}

func (d *bitVectorDB) support() Support { return d.prefixSupp }

func (d *bitVectorDB) close() {}

func (d *bitVectorDB) forbidsReorder() bool { return false }

func (d *bitVectorDB) intersect(ctx *Context, x ItemID) (verticalDB, error) {
	pivotIdx := -1
	for i, e := range d.entries {
		if e.item == x {
			pivotIdx = i
			break
		}
	}
	if pivotIdx < 0 {
		return &bitVectorDB{base: d.base, bag: d.bag, opt: d.opt}, nil
	}
	pivot := d.entries[pivotIdx]
	child := &bitVectorDB{base: d.base, bag: d.bag, opt: d.opt, prefixSupp: pivot.supp}
	for _, s := range d.entries[pivotIdx+1:] {
		and := pivot.bitmap.Intersect(s.bitmap)
		var supp Support
		itr := and.Iterator()
		itr.Seek(0)
		for v, eof := itr.Next(); !eof; v, eof = itr.Next() {
			supp += d.bag.Transaction(int(v)).Weight
		}
		if supp >= d.opt.SMin {
			child.entries = append(child.entries, bitEntry{item: s.item, bitmap: and, supp: supp})
		}
	}
	return child, nil
}
