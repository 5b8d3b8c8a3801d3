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

import "github.com/mitchellh/hashstructure"

// occTx is one transaction's projection onto the items still under
// consideration: the items after some delivery point, plus its weight
// (shared, possibly temporarily merged during collate()).
type occTx struct {
	items  []ItemID
	weight Support
}

// occDeliverDB is the occurrence-deliver Eclat variant (spec.md's
// "LCM-style technique that distributes the current prefix's
// transactions into per-next-item lists in a single pass"). Best for
// sparse data, per the variants table.
type occDeliverDB struct {
	base *ItemBase
	bag  *Bag
	opt  Options

	prefixSupp Support
	txs        []occTx

	delivered bool
	buckets   map[ItemID][]occTx
	supps     map[ItemID]Support
	order     []ItemID
}

func newOccDeliverRoot(base *ItemBase, bag *Bag, opt Options) *occDeliverDB {
	m := base.Items()
	itemSupp := make([]Support, m)
	for i := 0; i < bag.Count(); i++ {
		tx := bag.Transaction(i)
		for _, it := range tx.Items {
			itemSupp[it] += tx.Weight
		}
	}
	txs := make([]occTx, 0, bag.Count())
	for i := 0; i < bag.Count(); i++ {
		tx := bag.Transaction(i)
		var kept []ItemID
		for _, it := range tx.Items {
			if itemSupp[it] >= opt.SMin && base.Appearance(it) != AppearIgnore {
				kept = append(kept, it)
			}
		}
		if len(kept) > 0 {
			txs = append(txs, occTx{items: kept, weight: tx.Weight})
		}
	}
	return &occDeliverDB{base: base, bag: bag, opt: opt, prefixSupp: bag.Weight(), txs: txs}
}

// deliver distributes every surviving transaction's suffix to every
// item it still contains, in one pass: bucket[x] accumulates the
// projection of each transaction after removing x and everything
// before it, and supps[x] accumulates x's total weight. The pass first
// collate()s equal transactions (merging their weight into one
// representative) and uncollate()s them before returning, so the
// collate/uncollate stack discipline spec.md §5 requires holds within
// this single call.
func (d *occDeliverDB) deliver() {
	if d.delivered {
		return
	}
	saved := d.collate()
	d.buckets = make(map[ItemID][]occTx)
	d.supps = make(map[ItemID]Support)
	seen := make(map[ItemID]bool)
	for _, id := range itemOrder(d.base.Items(), d.opt.Direction) {
		seen[ItemID(id)] = true
	}
	for _, tx := range d.txs {
		if tx.weight == 0 {
			continue // collated away
		}
		for i, it := range tx.items {
			d.supps[it] += tx.weight
			suffix := tx.items[i+1:]
			if len(suffix) > 0 {
				d.buckets[it] = append(d.buckets[it], occTx{items: suffix, weight: tx.weight})
			}
		}
	}
	d.uncollate(saved)
	d.order = itemOrder(d.base.Items(), d.opt.Direction)
	d.delivered = true
}

// collate merges transactions with identical remaining item sets,
// accumulating weight into the first occurrence and zeroing the rest,
// so deliver() walks fewer, heavier rows. Returns the original weights
// so uncollate can restore them exactly.
func (d *occDeliverDB) collate() []Support {
	saved := make([]Support, len(d.txs))
	for i, tx := range d.txs {
		saved[i] = tx.weight
	}
	byHash := make(map[uint64]int) // hash -> representative index
	for i := range d.txs {
		h, _ := hashstructure.Hash(d.txs[i].items, nil)
		if rep, ok := byHash[h]; ok && equalItems(asItemIDs(d.txs[rep].items), asItemIDs(d.txs[i].items)) {
			d.txs[rep].weight += d.txs[i].weight
			d.txs[i].weight = 0
		} else {
			byHash[h] = i
		}
	}
	return saved
}

// uncollate restores the per-transaction weights collate() merged,
// matching every collate with exactly one uncollate on the same stack
// frame (spec.md §5).
func (d *occDeliverDB) uncollate(saved []Support) {
	for i := range d.txs {
		d.txs[i].weight = saved[i]
	}
}

func asItemIDs(items []ItemID) []ItemID { return items }

func (d *occDeliverDB) frequentItems() []vdbItem {
	d.deliver()
	out := make([]vdbItem, 0, len(d.supps))
	for _, id := range d.order {
		s, ok := d.supps[id]
		if !ok || s < d.opt.SMin {
			continue
		}
		out = append(out, vdbItem{Item: id, Supp: s})
	}
	return out
}

func (d *occDeliverDB) support() Support { return d.prefixSupp }

func (d *occDeliverDB) close() {}

func (d *occDeliverDB) forbidsReorder() bool { return false }

func (d *occDeliverDB) intersect(ctx *Context, x ItemID) (verticalDB, error) {
	d.deliver()
	bucket := d.buckets[x]
	child := &occDeliverDB{base: d.base, bag: d.bag, opt: d.opt, prefixSupp: d.supps[x], txs: bucket}
	return child, nil
}
