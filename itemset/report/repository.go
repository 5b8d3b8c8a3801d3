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

package report

import "github.com/mitchellh/hashstructure"

// entry is one stored closed/maximal set.
type entry struct {
	items []ItemID
	supp  Support
}

// Repository stores reported closed/maximal sets and answers
// subsumption queries: a candidate set is rejected iff it is a subset
// of an already-stored set with a qualifying support, or (for
// generators) iff a stored set is an equal-support subset of it.
// Adapted from the teacher's sql.Cache (sql/cache.go) LRU: the same
// fixed-capacity, evict-on-pressure structure, generalized from a
// single-key cache to a hash-bucketed multi-map.
type Repository struct {
	limit   int
	buckets map[uint64][]entry
	order   []uint64 // insertion order, for eviction
	hashFn  func([]ItemID) uint64
}

// NewRepository builds an empty repository capped at limit entries
// in total across all buckets (0 = unlimited). hashFn computes the bucket key for a
// sorted item-id slice; the default (used by itemset.NewRepository)
// is github.com/mitchellh/hashstructure.Hash.
func NewRepository(limit int, hashFn func([]ItemID) uint64) *Repository {
	if hashFn == nil {
		hashFn = defaultHash
	}
	return &Repository{limit: limit, buckets: make(map[uint64][]entry), hashFn: hashFn}
}

func defaultHash(items []ItemID) uint64 {
	h, err := hashstructure.Hash(items, nil)
	if err != nil {
		return 0
	}
	return h
}

// Subsumed reports whether candidate (already sorted ascending) is a
// proper subset of a stored set whose support qualifies: for closed
// targets, a stored set with support == candSupp; for maximal targets
// (maximalMode=true), any stored superset with support >= smin (the
// caller passes its own threshold folded into candSupp's comparison
// by always storing frequent sets only, so "stored" already implies
// "frequent").
func (r *Repository) Subsumed(cand []ItemID, candSupp Support, maximalMode bool) bool {
	for _, bucket := range r.buckets {
		for _, e := range bucket {
			if len(e.items) <= len(cand) {
				continue
			}
			if !isSubset(cand, e.items) {
				continue
			}
			if maximalMode {
				return true // any frequent proper superset disqualifies
			}
			if e.supp >= candSupp {
				return true
			}
		}
	}
	return false
}

// HasEqualSubset reports whether any stored set is a proper subset of
// cand with equal support (the generator-target disqualifier).
func (r *Repository) HasEqualSubset(cand []ItemID, candSupp Support) bool {
	for _, bucket := range r.buckets {
		for _, e := range bucket {
			if len(e.items) >= len(cand) {
				continue
			}
			if e.supp == candSupp && isSubset(e.items, cand) {
				return true
			}
		}
	}
	return false
}

// Store records cand (sorted ascending) with its support.
func (r *Repository) Store(cand []ItemID, supp Support) {
	key := r.hashFn(cand)
	r.buckets[key] = append(r.buckets[key], entry{items: append([]ItemID(nil), cand...), supp: supp})
	r.order = append(r.order, key)
	if r.limit > 0 && len(r.order) > r.limit {
		r.evictOldest()
	}
}

func (r *Repository) evictOldest() {
	key := r.order[0]
	r.order = r.order[1:]
	if b := r.buckets[key]; len(b) > 0 {
		r.buckets[key] = b[1:]
		if len(r.buckets[key]) == 0 {
			delete(r.buckets, key)
		}
	}
}

// isSubset reports whether every element of a (sorted ascending)
// appears in b (sorted ascending).
func isSubset(a, b []ItemID) bool {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			i++
			j++
		case a[i] > b[j]:
			j++
		default:
			return false
		}
	}
	return i == len(a)
}
