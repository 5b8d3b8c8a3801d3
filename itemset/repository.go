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
	"github.com/mitchellh/hashstructure"

	"github.com/freqmine/engine/itemset/report"
)

// NewRepository builds an empty closed/maximal repository, adapted
// from the teacher's sql.Cache (sql/cache.go): a fixed-capacity,
// evict-on-pressure LRU generalized here into a multi-map keyed by a
// content hash of the sorted item-id slice, capped at limit entries
// in total before the oldest is evicted.
func NewRepository(limit int) *report.Repository {
	return report.NewRepository(limit, hashItems)
}

func hashItems(items []report.ItemID) uint64 {
	h, err := hashstructure.Hash(items, nil)
	if err != nil {
		return 0
	}
	return h
}
