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

// Package itemset implements the vertical enumeration core of a
// frequent-itemset and association-rule mining engine: the item-set
// tree used by the Apriori-style breadth-first search, the Eclat
// family of vertical algorithms, and the item-set reporter that
// mediates between enumeration and the outside world.
package itemset

import "fmt"

// ItemID is a dense item identifier in [0, M). NoItem marks "absent".
type ItemID int32

// NoItem is the reserved "absent" item identifier.
const NoItem ItemID = -1

// Support is the total weight of transactions containing an item set.
// spec.md's "numeric-support build" (a float64-weighted variant) is a
// documented open point rather than a second code path: every call
// site in this package reaches Support only through plain arithmetic
// and the accessor methods on Counter/EdgeItem, so retargeting this
// alias to float64 would not require touching call sites, but no
// float64 build is shipped (see DESIGN.md Open Questions).
type Support = int64

// EdgeItem labels the edge from a node to its parent. The original C
// implementation folded the head-only flag into the sign bit of the
// item identifier; Design Notes §9 asks for an explicit field instead.
type EdgeItem struct {
	ID       ItemID
	HeadOnly bool
}

func (e EdgeItem) String() string {
	if e.HeadOnly {
		return fmt.Sprintf("%d*", e.ID)
	}
	return fmt.Sprintf("%d", e.ID)
}

// Counter is one support count in a node's counter array. The skip
// flag replaces the original's sign-bit/signed-zero encoding (Design
// Notes §9): arithmetic never needs to look past Supp.
type Counter struct {
	Supp    Support
	Skipped bool
}

// Appearance is the role an item is allowed to play in a rule.
type Appearance int

const (
	// AppearBoth is the default: the item may appear in a rule body or
	// head, or in a plain item set.
	AppearBoth Appearance = iota
	// AppearBodyOnly restricts the item to rule bodies (antecedents).
	AppearBodyOnly
	// AppearHeadOnly restricts the item to rule heads (consequents).
	AppearHeadOnly
	// AppearIgnore excludes the item from mining entirely.
	AppearIgnore
)

func (a Appearance) String() string {
	switch a {
	case AppearBodyOnly:
		return "body-only"
	case AppearHeadOnly:
		return "head-only"
	case AppearIgnore:
		return "ignore"
	default:
		return "both"
	}
}

// Target selects what the engine reports.
type Target int

const (
	// TargetAll reports every frequent item set.
	TargetAll Target = iota
	// TargetClosed reports only closed frequent item sets.
	TargetClosed
	// TargetMaximal reports only maximal frequent item sets.
	TargetMaximal
	// TargetGenerators reports only generator item sets.
	TargetGenerators
	// TargetRules reports association rules derived from frequent sets.
	TargetRules
)

// SortDirection controls ascending vs descending item-identifier
// traversal order used by level extension, clomax filtering and the
// Eclat recursion.
type SortDirection int

const (
	Ascending SortDirection = iota
	Descending
)

// Aggregation selects how a set's evaluation value is derived when
// more than one head choice is possible (first/min/max/avg).
type Aggregation int

const (
	AggFirst Aggregation = iota
	AggMin
	AggMax
	AggAvg
)

// TID is a transaction identifier (an index into a Bag).
type TID int32
