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

// occEntry is one item's dense row of per-tid weights, parallel to
// occTableDB.tids: row[i] is the item's weight in transaction tids[i],
// or 0 if the item is absent from it.
type occEntry struct {
	item ItemID
	row  []Support
	supp Support
}

// occTableDB is the occurrence-table / simple-table Eclat variant: a
// dense per-item row of per-tid support over the surviving transaction
// set, filtered by masking rather than merging (spec.md §4.2: "very
// dense data"/"small dense data"). The simple-table variant shares the
// same representation but never reorders items before recursing.
type occTableDB struct {
	base   *ItemBase
	bag    *Bag
	opt    Options
	simple bool

	tids       []TID // surviving transaction indices, ascending
	entries    []occEntry
	prefixSupp Support
}

func newOccTableRoot(base *ItemBase, bag *Bag, opt Options, simple bool) *occTableDB {
	n := bag.Count()
	tids := make([]TID, n)
	for i := range tids {
		tids[i] = TID(i)
	}
	m := base.Items()
	rows := make([][]Support, m)
	supps := make([]Support, m)
	for i := range rows {
		rows[i] = make([]Support, n)
	}
	for i := 0; i < n; i++ {
		tx := bag.Transaction(i)
		for _, it := range tx.Items {
			rows[it][i] = tx.Weight
			supps[it] += tx.Weight
		}
	}
	entries := make([]occEntry, 0, m)
	for _, id := range itemOrder(m, opt.Direction) {
		if supps[id] < opt.SMin || base.Appearance(ItemID(id)) == AppearIgnore {
			continue
		}
		entries = append(entries, occEntry{item: ItemID(id), row: rows[id], supp: supps[id]})
	}
	return &occTableDB{base: base, bag: bag, opt: opt, simple: simple, tids: tids, entries: entries, prefixSupp: bag.Weight()}
}

func (d *occTableDB) frequentItems() []vdbItem {
	out := make([]vdbItem, 0, len(d.entries))
	for _, e := range d.entries {
		out = append(out, vdbItem{Item: e.item, Supp: e.supp})
	}
	return out
}

func (d *occTableDB) support() Support { return d.prefixSupp }

func (d *occTableDB) close() {}

func (d *occTableDB) forbidsReorder() bool { return d.simple }

func (d *occTableDB) intersect(ctx *Context, x ItemID) (verticalDB, error) {
	pivotIdx := -1
	for i, e := range d.entries {
		if e.item == x {
			pivotIdx = i
			break
		}
	}
	if pivotIdx < 0 {
		return &occTableDB{base: d.base, bag: d.bag, opt: d.opt, simple: d.simple}, nil
	}
	pivot := d.entries[pivotIdx]

	var newTids []TID
	var keep []int
	for i, w := range pivot.row {
		if w > 0 {
			newTids = append(newTids, d.tids[i])
			keep = append(keep, i)
		}
	}

	child := &occTableDB{base: d.base, bag: d.bag, opt: d.opt, simple: d.simple, tids: newTids, prefixSupp: pivot.supp}
	for _, s := range d.entries[pivotIdx+1:] {
		row := make([]Support, len(keep))
		var supp Support
		for j, i := range keep {
			row[j] = s.row[i]
			supp += s.row[i]
		}
		if supp >= d.opt.SMin {
			child.entries = append(child.entries, occEntry{item: s.item, row: row, supp: supp})
		}
	}
	return child, nil
}
