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

	"github.com/freqmine/engine/itemset/report"
)

// vdbItem is one surviving item of a conditional vertical database,
// together with its support under the current prefix.
type vdbItem struct {
	Item ItemID
	Supp Support
}

// verticalDB is the narrow interface every Eclat representation
// (tid-list, bit-vector, occurrence table, tid-ranges, occurrence
// deliver, diff-set, 16-item packed) implements, so eclat.go's
// recursion is variant-agnostic -- mirroring the teacher's pattern of
// a narrow interface (sql.Table, sql.RowIter) consumed by engine-wide
// generic code (SPEC_FULL.md §4.2).
type verticalDB interface {
	// frequentItems returns, in the item order set by opt.Direction
	// (ascending identifiers by default), every item whose support
	// under the current prefix is >= smin.
	frequentItems() []vdbItem
	// support returns the support of the current prefix itself (the
	// conditional database's base weight).
	support() Support
	// intersect builds the conditional database obtained by extending
	// the current prefix with x (spec.md §4.2 step 4 "extension op").
	intersect(ctx *Context, x ItemID) (verticalDB, error)
	// close releases any per-extension scratch the representation
	// holds (collate/uncollate discipline for occurrence-deliver).
	close()
	// forbidsReorder reports whether this representation must keep
	// items in identifier order regardless of opt.Reorder (only the
	// simple-table variant; closed/maximal targets are excluded
	// separately by reorderAllowed).
	forbidsReorder() bool
}

// EclatEngine runs the vertical enumeration variants of spec.md §4.2.
// It bypasses the item-set tree entirely: the target must be plain
// frequent sets, closed, maximal or generators with no rule-level
// evaluation (rule mining always goes through ISTree, since rules need
// the tree's body/head bookkeeping).
type EclatEngine struct {
	base *ItemBase
	bag  *Bag
	opt  Options
	rep  *report.Reporter
}

// NewEclatEngine builds an engine bound to base/bag/opt, reporting
// through rep.
func NewEclatEngine(base *ItemBase, bag *Bag, opt Options, rep *report.Reporter) *EclatEngine {
	return &EclatEngine{base: base, bag: bag, opt: opt, rep: rep}
}

// Run enumerates every frequent (or closed/maximal/generator) item set
// through the reporter exactly once, depth-first, per spec.md §4.2's
// "Common skeleton".
func (e *EclatEngine) Run(ctx *Context) error {
	total := e.bag.Weight()
	if total < e.opt.SMin {
		return nil // step 1: "if < smin, emit nothing"
	}

	if e.opt.PackK > 0 && e.opt.PackK >= e.base.Items() {
		if err := e.runPacked(ctx); err != nil {
			return err
		}
		if e.opt.ZMin <= 0 && total >= e.opt.SMin {
			if err := e.rep.ReportEmpty(int64(total)); err != nil {
				return ErrReporterRejected.New()
			}
		}
		return nil
	}

	algo := e.opt.Algo
	if algo == AlgoAuto {
		algo = e.chooseAuto()
	}

	root, err := e.buildRoot(ctx, algo)
	if err != nil {
		return err
	}
	defer root.close()

	if err := e.recurse(ctx, root); err != nil {
		return err
	}

	if e.opt.ZMin <= 0 && total >= e.opt.SMin {
		if err := e.rep.ReportEmpty(int64(total)); err != nil {
			return ErrReporterRejected.New()
		}
	}
	return nil
}

// runPacked drives the 16-item machine (eclat_packed.go) directly over
// the whole item universe when every item fits the pack (opt.PackK
// covers base.Items()): a full bitmask sweep replaces vertical-DB
// recursion entirely, per spec.md §4.2's "pack identifier" fast path
// (see DESIGN.md for the packed-items-only scope this covers).
func (e *EclatEngine) runPacked(ctx *Context) error {
	clone := &Bag{
		txs:        append([]Transaction(nil), e.bag.txs...),
		totalWgt:   e.bag.totalWgt,
		itemCounts: e.bag.itemCounts,
		maxSize:    e.bag.maxSize,
		extent:     e.bag.extent,
	}
	clone.Pack(e.opt.PackK)

	rows := make([]packedRow, 0, clone.Count())
	for i := 0; i < clone.Count(); i++ {
		tx := clone.Transaction(i)
		rows = append(rows, packedRow{mask: uint16(tx.PackMask), weight: tx.Weight})
	}
	return enumeratePacked(ctx, rows, e.opt.PackK, e.opt, e.rep)
}

// recurse implements steps 3-4 of the common skeleton: drop infrequent
// items and collect perfect extensions, then for each surviving item
// push it to the reporter, recurse into the intersection, and pop.
func (e *EclatEngine) recurse(ctx *Context, db verticalDB) error {
	span := ctx.span("itemset.eclat_recurse")
	defer span.Finish()

	if ctx.aborted() {
		return ErrAborted.New()
	}
	items := db.frequentItems()
	base := db.support()

	mark := e.rep.PexMark()
	defer e.rep.TruncatePex(mark)

	normal := items[:0:0]
	for _, it := range items {
		ctx.stats.addCandidate()
		if e.opt.PerfectExt && it.Supp == base && base > 0 {
			if code := e.rep.AddPex(report.ItemID(it.Item)); code < 0 {
				return ErrReporterRejected.New()
			}
			continue
		}
		normal = append(normal, it)
	}

	if err := e.rep.ReportCurrentSince(mark, base); err != nil {
		return ErrReporterRejected.New()
	}

	if e.opt.Reorder && len(normal) >= 5 && e.reorderAllowed() && !db.forbidsReorder() {
		sort.SliceStable(normal, func(i, j int) bool { return normal[i].Supp < normal[j].Supp })
	}

	for _, it := range normal {
		if ctx.aborted() {
			return ErrAborted.New()
		}
		code := e.rep.Add(report.ItemID(it.Item), int64(it.Supp))
		if code < 0 {
			return ErrReporterRejected.New()
		}
		if code == report.StatusRecurse {
			if err := e.rep.ReportCurrent(); err != nil {
				e.rep.Remove(1)
				return ErrReporterRejected.New()
			}
			child, err := db.intersect(ctx, it.Item)
			if err != nil {
				e.rep.Remove(1)
				return err
			}
			if err := e.recurse(ctx, child); err != nil {
				child.close()
				e.rep.Remove(1)
				return err
			}
			child.close()
		}
		e.rep.Remove(1)
	}
	return nil
}

// reorderAllowed reports whether the re-ordering flag may engage: it
// is always disabled for closed/maximal targets because reordering
// breaks the ascending-identifier invariant the repository relies on
// (spec.md §4.2 "Re-ordering").
func (e *EclatEngine) reorderAllowed() bool {
	return e.opt.Target != TargetClosed && e.opt.Target != TargetMaximal
}

// chooseAuto implements spec.md §4.2's "Automatic variant choice":
// occurrence-deliver by default, optimised tid-lists when the target
// is closed/maximal and the database is dense. Only the representation
// is chosen here: extension checks and the 16-item machine are set up
// the same way whichever variant is picked, and buildRoot adds no
// special handling for closed/maximal with occurrence-deliver.
func (e *EclatEngine) chooseAuto() Algorithm {
	density := float64(e.bag.Extent()) / (float64(e.base.Items()) * float64(e.bag.Weight()))
	closedOrMax := e.opt.Target == TargetClosed || e.opt.Target == TargetMaximal
	if closedOrMax && density > e.opt.Density {
		return AlgoTidListOpt
	}
	return AlgoOccDeliver
}

// buildRoot constructs the initial (empty-prefix) conditional database
// for the chosen algorithm variant.
func (e *EclatEngine) buildRoot(ctx *Context, algo Algorithm) (verticalDB, error) {
	switch algo {
	case AlgoTidListBasic:
		return newTidListRoot(e.base, e.bag, e.opt, false), nil
	case AlgoTidListOpt:
		return newTidListRoot(e.base, e.bag, e.opt, true), nil
	case AlgoBitVector:
		return newBitVectorRoot(e.base, e.bag, e.opt), nil
	case AlgoOccTable:
		return newOccTableRoot(e.base, e.bag, e.opt, false), nil
	case AlgoSimpleTable:
		return newOccTableRoot(e.base, e.bag, e.opt, true), nil
	case AlgoTidRanges:
		return newRangeRoot(e.base, e.bag, e.opt), nil
	case AlgoOccDeliver:
		return newOccDeliverRoot(e.base, e.bag, e.opt), nil
	case AlgoDiffSets:
		return newDiffSetRoot(e.base, e.bag, e.opt), nil
	default:
		return newTidListRoot(e.base, e.bag, e.opt, false), nil
	}
}
