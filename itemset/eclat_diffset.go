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

// diffEntry holds item's diff-set relative to the *current* prefix P:
// the tids of P that do not contain item, per spec.md's "tid-set
// differences" (glossary: "Diff set"). Support shrinks as the search
// deepens, so this shrinks too, which is the variant's whole point
// ("shrinking supports" in the variants table).
type diffEntry struct {
	item ItemID
	diff []TID // sorted ascending
	supp Support
}

// diffSetDB is the diff-set Eclat variant. At the root, diff(x) is the
// complement of x's tid list within the full transaction universe (no
// parent to diff against yet); every deeper level computes
// d(Pxy) = d(Py) - d(Px), the standard diffset recursion, which never
// needs to revisit the raw tid lists again.
type diffSetDB struct {
	base *ItemBase
	bag  *Bag
	opt  Options

	prefixSupp Support
	entries    []diffEntry
}

func newDiffSetRoot(base *ItemBase, bag *Bag, opt Options) *diffSetDB {
	m := base.Items()
	n := bag.Count()
	lists := make([][]TID, m)
	supps := make([]Support, m)
	for i := 0; i < n; i++ {
		tx := bag.Transaction(i)
		for _, it := range tx.Items {
			lists[it] = append(lists[it], TID(i))
			supps[it] += tx.Weight
		}
	}
	allTids := make([]TID, n)
	for i := range allTids {
		allTids[i] = TID(i)
	}
	entries := make([]diffEntry, 0, m)
	for _, id := range itemOrder(m, opt.Direction) {
		if supps[id] < opt.SMin || base.Appearance(ItemID(id)) == AppearIgnore {
			continue
		}
		diff := sortedSetDiff(allTids, lists[id])
		entries = append(entries, diffEntry{item: ItemID(id), diff: diff, supp: supps[id]})
	}
	return &diffSetDB{base: base, bag: bag, opt: opt, prefixSupp: bag.Weight(), entries: entries}
}

func (d *diffSetDB) frequentItems() []vdbItem {
	out := make([]vdbItem, 0, len(d.entries))
	for _, e := range d.entries {
		out = append(out, vdbItem{Item: e.item, Supp: e.supp})
	}
	return out
}

func (d *diffSetDB) support() Support      { return d.prefixSupp }
func (d *diffSetDB) close()                {}
func (d *diffSetDB) forbidsReorder() bool  { return false }

func (d *diffSetDB) intersect(ctx *Context, x ItemID) (verticalDB, error) {
	pivotIdx := -1
	for i, e := range d.entries {
		if e.item == x {
			pivotIdx = i
			break
		}
	}
	if pivotIdx < 0 {
		return &diffSetDB{base: d.base, bag: d.bag, opt: d.opt}, nil
	}
	pivot := d.entries[pivotIdx]
	child := &diffSetDB{base: d.base, bag: d.bag, opt: d.opt, prefixSupp: pivot.supp}
	for _, s := range d.entries[pivotIdx+1:] {
		diff := sortedSetDiff(s.diff, pivot.diff) // d(Pxy) = d(Py) - d(Px)
		supp := pivot.supp - d.sumWeight(diff)
		if supp >= d.opt.SMin {
			child.entries = append(child.entries, diffEntry{item: s.item, diff: diff, supp: supp})
		}
	}
	return child, nil
}

func (d *diffSetDB) sumWeight(tids []TID) Support {
	var w Support
	for _, t := range tids {
		w += d.bag.Transaction(int(t)).Weight
	}
	return w
}

// sortedSetDiff returns the elements of a not present in b (both
// sorted ascending, result sorted ascending).
func sortedSetDiff(a, b []TID) []TID {
	var out []TID
	i, j := 0, 0
	for i < len(a) {
		for j < len(b) && b[j] < a[i] {
			j++
		}
		if j < len(b) && b[j] == a[i] {
			i++
			continue
		}
		out = append(out, a[i])
		i++
	}
	return out
}
