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

import "sort"

// itemEntry is one row of the item base: an external key mapped to a
// dense identifier, its aggregated weight, and its appearance role.
// Modeled on the original's symtab.c hash table, generalized to a Go
// map (no ecosystem hash-table library appears anywhere in the pack,
// so the standard map is the justified choice here; see DESIGN.md).
type itemEntry struct {
	key        string
	weight     Support
	sizeSum    int64
	appear     Appearance
	penalty    int
}

// ItemBase is the symbol table mapping external item keys to dense
// identifiers, tracking per-item weight and appearance role. It is
// the "item base" spec.md §3/§6 specifies as an external collaborator.
type ItemBase struct {
	byKey  map[string]ItemID
	rows   []itemEntry
	txwgt  Support
}

// NewItemBase creates an empty item base.
func NewItemBase() *ItemBase {
	return &ItemBase{byKey: make(map[string]ItemID)}
}

// Intern returns the dense identifier for key, creating one with
// AppearBoth if key has not been seen before.
func (b *ItemBase) Intern(key string) ItemID {
	if id, ok := b.byKey[key]; ok {
		return id
	}
	id := ItemID(len(b.rows))
	b.rows = append(b.rows, itemEntry{key: key, appear: AppearBoth})
	b.byKey[key] = id
	return id
}

// Items returns M, the number of distinct items registered.
func (b *ItemBase) Items() int { return len(b.rows) }

// Key returns the external key for id.
func (b *ItemBase) Key(id ItemID) string { return b.rows[id].key }

// Lookup returns the identifier for an already-interned key.
func (b *ItemBase) Lookup(key string) (ItemID, bool) {
	id, ok := b.byKey[key]
	return id, ok
}

// Frequency returns the total weight contribution of id.
func (b *ItemBase) Frequency(id ItemID) Support { return b.rows[id].weight }

// Appearance returns the appearance role of id.
func (b *ItemBase) Appearance(id ItemID) Appearance { return b.rows[id].appear }

// SetAppearance sets the appearance role of id.
func (b *ItemBase) SetAppearance(id ItemID, a Appearance) { b.rows[id].appear = a }

// TotalWeight returns the total transaction weight accumulated by
// AddOccurrence, i.e. the base weight used throughout the rule
// evaluation kernel.
func (b *ItemBase) TotalWeight() Support { return b.txwgt }

// AddOccurrence records that item id occurred once with weight wgt in
// a transaction; called by Bag as transactions are ingested.
func (b *ItemBase) AddOccurrence(id ItemID, wgt Support) {
	b.rows[id].weight += wgt
	b.rows[id].sizeSum += int64(wgt)
}

// AddTransactionWeight accumulates wgt into the base weight; called
// once per transaction (not per item).
func (b *ItemBase) AddTransactionWeight(wgt Support) { b.txwgt += wgt }

// recodeEntry is scratch state used by Recode.
type recodeEntry struct {
	old ItemID
	wgt Support
}

// Recode renumbers items by descending (or ascending) weight, dropping
// any item whose frequency falls outside [minSupp, maxSupp]. It
// returns a map from old to new identifiers (NoItem for dropped items)
// and the new item count. Appearance-ignored items are always dropped.
func (b *ItemBase) Recode(minSupp, maxSupp Support, dir SortDirection) (map[ItemID]ItemID, int) {
	kept := make([]recodeEntry, 0, len(b.rows))
	for i, row := range b.rows {
		if row.appear == AppearIgnore {
			continue
		}
		if row.weight < minSupp || row.weight > maxSupp {
			continue
		}
		kept = append(kept, recodeEntry{old: ItemID(i), wgt: row.weight})
	}
	sort.SliceStable(kept, func(i, j int) bool {
		if dir == Descending {
			return kept[i].wgt > kept[j].wgt
		}
		return kept[i].wgt < kept[j].wgt
	})

	remap := make(map[ItemID]ItemID, len(b.rows))
	for i := range b.rows {
		remap[ItemID(i)] = NoItem
	}
	newRows := make([]itemEntry, len(kept))
	newByKey := make(map[string]ItemID, len(kept))
	for newID, k := range kept {
		remap[k.old] = ItemID(newID)
		newRows[newID] = b.rows[k.old]
		newByKey[newRows[newID].key] = ItemID(newID)
	}
	b.rows = newRows
	b.byKey = newByKey
	return remap, len(kept)
}
