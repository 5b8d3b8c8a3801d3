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
	"sort"

	"github.com/mitchellh/hashstructure"
)

// Transaction is one weighted, item-id-sorted row of a Bag. Items is
// always kept sorted ascending by the owning Bag; PackMask is zero
// unless Bag.Pack folded low items < k into a bitmask prefix.
type Transaction struct {
	Weight   Support
	Items    []ItemID
	PackMask uint32 // low 16 bits: occurrence bitmask over items [0,16)
	Packed   bool
}

// Bag is the transaction bag container spec.md §3/§6 specifies as an
// opaque sequence of weighted, sorted transactions with auxiliary
// caches. Modeled on memory.Table's in-memory row storage (no source
// for memory/table.go ships in the pack, only its test; the shape
// below matches that test's observed NewTable/Insert/iteration API).
type Bag struct {
	txs        []Transaction
	totalWgt   Support
	itemCounts []Support
	maxSize    int
	extent     int64
}

// NewBag creates an empty bag sized for an item base of n items.
func NewBag(n int) *Bag {
	return &Bag{itemCounts: make([]Support, n)}
}

// Add appends a transaction. items need not be pre-sorted; Add sorts a
// defensive copy and de-duplicates (repeated items are folded, their
// weight counted once per distinct item as spec.md's "multiset of
// items with an integer weight" requires at the item-base level).
func (b *Bag) Add(base *ItemBase, items []ItemID, weight Support) {
	cp := append([]ItemID(nil), items...)
	sort.Slice(cp, func(i, j int) bool { return cp[i] < cp[j] })
	cp = dedupItems(cp)

	b.txs = append(b.txs, Transaction{Weight: weight, Items: cp})
	b.totalWgt += weight
	b.extent += int64(len(cp))
	if len(cp) > b.maxSize {
		b.maxSize = len(cp)
	}
	for _, it := range cp {
		if int(it) >= len(b.itemCounts) {
			grown := make([]Support, int(it)+1)
			copy(grown, b.itemCounts)
			b.itemCounts = grown
		}
		b.itemCounts[it] += weight
		if base != nil {
			base.AddOccurrence(it, weight)
		}
	}
	if base != nil {
		base.AddTransactionWeight(weight)
	}
}

func dedupItems(sorted []ItemID) []ItemID {
	if len(sorted) < 2 {
		return sorted
	}
	out := sorted[:1]
	for _, it := range sorted[1:] {
		if it != out[len(out)-1] {
			out = append(out, it)
		}
	}
	return out
}

// Count returns N, the number of transactions in the bag.
func (b *Bag) Count() int { return len(b.txs) }

// Weight returns W, the total transaction weight.
func (b *Bag) Weight() Support { return b.totalWgt }

// Transaction returns the i-th transaction.
func (b *Bag) Transaction(i int) Transaction { return b.txs[i] }

// ItemCounts returns the per-item occurrence (weighted) count.
func (b *Bag) ItemCounts() []Support { return b.itemCounts }

// Extent returns the total item-instance count across all transactions.
func (b *Bag) Extent() int64 { return b.extent }

// MaxSize returns the largest transaction size in the bag.
func (b *Bag) MaxSize() int { return b.maxSize }

// Recode applies an ItemBase.Recode remap to every transaction,
// dropping items mapped to NoItem and re-sorting (the remap need not
// be order preserving when the recode direction differs from the
// original encoding).
func (b *Bag) Recode(remap map[ItemID]ItemID, newN int) {
	counts := make([]Support, newN)
	var maxSize int
	var extent int64
	kept := b.txs[:0]
	for _, t := range b.txs {
		nt := make([]ItemID, 0, len(t.Items))
		for _, it := range t.Items {
			if nid, ok := remap[it]; ok && nid != NoItem {
				nt = append(nt, nid)
			}
		}
		sort.Slice(nt, func(i, j int) bool { return nt[i] < nt[j] })
		if len(nt) == 0 {
			continue
		}
		for _, it := range nt {
			counts[it] += t.Weight
		}
		if len(nt) > maxSize {
			maxSize = len(nt)
		}
		extent += int64(len(nt))
		kept = append(kept, Transaction{Weight: t.Weight, Items: nt})
	}
	b.txs = kept
	b.itemCounts = counts
	b.maxSize = maxSize
	b.extent = extent
}

// Reduce collapses duplicate transactions (identical item sets),
// summing their weights. Two transactions are duplicates iff their
// sorted item slices are equal; equality is tested via a content hash
// (github.com/mitchellh/hashstructure, the same library the
// closed/maximal repository uses for candidate-set keys) to avoid an
// O(N^2) comparison pass.
func (b *Bag) Reduce() {
	type bucket struct {
		items []ItemID
		wgt   Support
	}
	byHash := make(map[uint64][]*bucket)
	order := make([]uint64, 0, len(b.txs))
	for _, t := range b.txs {
		h, _ := hashstructure.Hash(t.Items, nil)
		buckets := byHash[h]
		var found *bucket
		for _, bk := range buckets {
			if equalItems(bk.items, t.Items) {
				found = bk
				break
			}
		}
		if found == nil {
			found = &bucket{items: t.Items}
			byHash[h] = append(byHash[h], found)
			order = append(order, h)
		}
		found.wgt += t.Weight
	}
	out := make([]Transaction, 0, len(order))
	seen := make(map[uint64]bool, len(order))
	for _, t := range b.txs {
		h, _ := hashstructure.Hash(t.Items, nil)
		if seen[h] {
			continue
		}
		for _, bk := range byHash[h] {
			if equalItems(bk.items, t.Items) {
				out = append(out, Transaction{Weight: bk.wgt, Items: bk.items})
			}
		}
		seen[h] = true
	}
	b.txs = out
}

func equalItems(a, b []ItemID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Pack folds items with identifier < k out of each transaction:
// PackMask carries the bit-OR of occurrences over [0,k), Packed reports
// whether any occurred, and Items keeps only identifiers >= k (in a
// fresh slice). No synthetic pack item is inserted into Items.
// k must be <= 16 (spec.md §3's "16-item machine").
func (b *Bag) Pack(k int) {
	if k <= 0 || k > 16 {
		return
	}
	for i, t := range b.txs {
		var mask uint32
		rest := t.Items[:0:0]
		for _, it := range t.Items {
			if int(it) < k {
				mask |= 1 << uint(it)
			} else {
				rest = append(rest, it)
			}
		}
		b.txs[i].PackMask = mask
		b.txs[i].Packed = mask != 0
		b.txs[i].Items = rest
	}
}

// Sort reorders each transaction's items in the given direction; the
// item identifiers themselves are unchanged, only scan order within a
// transaction (used by descending-direction tree/Eclat configurations).
func (b *Bag) Sort(dir SortDirection) {
	for i := range b.txs {
		items := b.txs[i].Items
		sort.Slice(items, func(a, c int) bool {
			if dir == Descending {
				return items[a] > items[c]
			}
			return items[a] < items[c]
		})
	}
}
