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

import "github.com/freqmine/engine/itemset/report"

// packedRow is one transaction's projection onto the packed universe
// (items with identifier < k, folded by Bag.Pack into PackMask).
type packedRow struct {
	mask   uint16
	weight Support
}

// enumeratePacked is the 16-item machine (spec.md §4.2/glossary): it
// enumerates every frequent subset of a <=16-item universe directly
// from (bitmask, weight) rows using bit manipulation only, without
// recursing over the tree or building per-item vertical structures.
// It handles the packed-items-only sets (every item identifier < k)
// and is used only when k covers the whole item base (see Run). No
// vertical representation carries a pack identifier, so sets that mix
// packed and unpacked items are never produced by this path; with a
// smaller k the pack option is not applied and the normal recursion
// runs over the unpacked items (see DESIGN.md for this scope decision).
func enumeratePacked(ctx *Context, rows []packedRow, k int, opt Options, rep *report.Reporter) error {
	if k <= 0 || k > 16 {
		return nil
	}
	size := 1 << uint(k)
	cnt := make([]Support, size)
	for _, r := range rows {
		cnt[r.mask] += r.weight
	}
	// Zeta transform: propagate each row's weight down to every subset
	// mask, so cnt[mask] becomes support({items in mask}) -- the total
	// weight of every transaction whose packed occurrence is a
	// superset of mask.
	for b := 0; b < k; b++ {
		bit := 1 << uint(b)
		for mask := 0; mask < size; mask++ {
			if mask&bit == 0 {
				cnt[mask] += cnt[mask|bit]
			}
		}
	}

	for mask := 1; mask < size; mask++ {
		if ctx.aborted() {
			return ErrAborted.New()
		}
		supp := cnt[mask]
		if supp < opt.SMin {
			continue
		}
		sz := popcount16(uint16(mask))
		if Support(sz) < opt.ZMin || Support(sz) > opt.ZMax {
			continue
		}
		if !packedPassesTarget(cnt, mask, supp, opt) {
			continue
		}
		items := maskItems(mask)
		for _, it := range items {
			if code := rep.AddNC(report.ItemID(it), int64(supp)); code < 0 {
				return ErrReporterRejected.New()
			}
		}
		if err := rep.ReportCurrent(); err != nil {
			rep.Remove(len(items))
			return ErrReporterRejected.New()
		}
		rep.Remove(len(items))
	}
	return nil
}

// packedPassesTarget applies the closed/maximal/generator restriction
// exactly, since the full support-by-mask table is already in hand:
// every superset/subset mask is tested directly rather than walked
// incrementally, which is affordable at the 16-item machine's scale.
func packedPassesTarget(cnt []Support, mask int, supp Support, opt Options) bool {
	size := len(cnt)
	switch opt.Target {
	case TargetClosed:
		for m := mask + 1; m < size; m++ {
			if m&mask == mask && cnt[m] >= supp {
				return false
			}
		}
		return true
	case TargetMaximal:
		for m := mask + 1; m < size; m++ {
			if m&mask == mask && cnt[m] >= opt.SMin {
				return false
			}
		}
		return true
	case TargetGenerators:
		for sub := mask; ; sub = (sub - 1) & mask {
			if sub != mask && cnt[sub] == supp {
				return false
			}
			if sub == 0 {
				break
			}
		}
		return true
	default:
		return true
	}
}

func maskItems(mask int) []ItemID {
	var out []ItemID
	for b := 0; b < 16; b++ {
		if mask&(1<<uint(b)) != 0 {
			out = append(out, ItemID(b))
		}
	}
	return out
}

func popcount16(v uint16) int {
	n := 0
	for v != 0 {
		v &= v - 1
		n++
	}
	return n
}
