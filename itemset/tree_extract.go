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
	"github.com/freqmine/engine/itemset/eval"
	"github.com/freqmine/engine/itemset/report"
)

// Report performs the recursive (depth-first) extraction mode: every
// qualifying set is emitted through sink in post-order, with perfect
// extensions collected from equal-support children and handed to the
// reporter for combinatorial expansion (spec.md §4.1 "Recursive
// report"). Returns ErrReporterRejected if sink signals "stop".
func (t *ISTree) Report(ctx *Context, rep *report.Reporter) error {
	if t.zmin <= 0 {
		if w, ok := t.Supp(nil); ok {
			if err := rep.ReportEmpty(int64(w)); err != nil {
				return ErrReporterRejected.New()
			}
		}
	}
	return t.reportNode(ctx, rep, t.rootID())
}

// reportItems converts a slice of itemset.ItemID to report.ItemID; the
// two packages deliberately keep distinct item-id types (report has no
// dependency on itemset) so every boundary crossing converts explicitly.
func reportItems(items []ItemID) []report.ItemID {
	out := make([]report.ItemID, len(items))
	for i, it := range items {
		out[i] = report.ItemID(it)
	}
	return out
}

func (t *ISTree) reportNode(ctx *Context, rep *report.Reporter, id NodeID) error {
	if ctx.aborted() {
		return ErrAborted.New()
	}
	nd := t.n(id)
	parentSupp, _ := t.Supp(t.Path(id))

	mark := rep.PexMark()
	defer rep.TruncatePex(mark)

	type regular struct {
		idx  int
		item ItemID
		supp Support
	}
	var normal []regular
	for i := range nd.counters {
		c := nd.counters[i]
		if c.Skipped {
			continue
		}
		item := nd.itemAt(i)
		isPex := t.opt.PerfectExt && id != t.rootID() && c.Supp == parentSupp
		if isPex {
			if code := rep.AddPex(report.ItemID(item)); code < 0 {
				return ErrReporterRejected.New()
			}
			continue
		}
		normal = append(normal, regular{i, item, c.Supp})
	}

	if err := rep.ReportCurrentSince(mark, parentSupp); err != nil {
		return ErrReporterRejected.New()
	}

	for _, r := range normal {
		code := rep.Add(report.ItemID(r.item), int64(r.supp))
		if code < 0 {
			return ErrReporterRejected.New()
		}
		if code == 1 {
			if nd.chcnt != 0 && r.idx < len(nd.children) && nd.children[r.idx] != NoNode {
				if err := t.reportNode(ctx, rep, nd.children[r.idx]); err != nil {
					rep.Remove(1)
					return err
				}
			}
			if err := rep.ReportCurrent(); err != nil {
				rep.Remove(1)
				return ErrReporterRejected.New()
			}
		}
		rep.Remove(1)
	}
	return nil
}

// ExtractRules walks every frequent set of size >= 2 and, for each
// item eligible to be a head, emits a rule if it clears the body
// support threshold, the confidence bound, and (when set) the
// evaluation measure (spec.md §4.1 "Rule extraction").
func (t *ISTree) ExtractRules(ctx *Context, rep *report.Reporter) error {
	return t.extractRulesNode(ctx, rep, t.rootID(), nil)
}

func (t *ISTree) extractRulesNode(ctx *Context, rep *report.Reporter, id NodeID, prefix []ItemID) error {
	if ctx.aborted() {
		return ErrAborted.New()
	}
	nd := t.n(id)
	for i := range nd.counters {
		c := nd.counters[i]
		if c.Skipped {
			continue
		}
		item := nd.itemAt(i)
		set := append(append([]ItemID{}, prefix...), item)
		if len(set) >= 2 {
			if err := t.emitRulesForSet(rep, set, c.Supp); err != nil {
				return err
			}
		}
		if nd.chcnt != 0 && i < len(nd.children) && nd.children[i] != NoNode {
			if err := t.extractRulesNode(ctx, rep, nd.children[i], set); err != nil {
				return err
			}
		}
	}
	return nil
}

// emitRulesForSet considers every item h in set as a rule head, body =
// set \ {h}.
func (t *ISTree) emitRulesForSet(rep *report.Reporter, set []ItemID, setSupp Support) error {
	fn, dir, _ := eval.Resolve(t.opt.Eval)
	n := float64(t.wgt)

	for hi, h := range set {
		if t.base.Appearance(h) == AppearBodyOnly || t.base.Appearance(h) == AppearIgnore {
			continue
		}
		body := make([]ItemID, 0, len(set)-1)
		for i, it := range set {
			if i != hi {
				body = append(body, it)
			}
		}
		bodySupp, ok := t.Supp(body)
		if !ok || bodySupp < t.body {
			continue
		}
		if float64(setSupp) < float64(bodySupp)*t.conf {
			continue
		}
		headSupp := t.base.Frequency(h)
		var evalVal float64
		if t.opt.Eval != eval.MeasureNone {
			evalVal = fn(float64(setSupp), float64(bodySupp), float64(headSupp), n)
			if t.opt.InvBXS && float64(setSupp)*n <= float64(bodySupp)*float64(headSupp) {
				if dir == eval.Maximise {
					evalVal = 0
				} else {
					evalVal = 1
				}
			}
			want := t.opt.Thresh
			if dir == eval.Minimise {
				if evalVal > want {
					continue
				}
			} else if evalVal < want {
				continue
			}
		}
		code := rep.ReportRule(reportItems(body), report.ItemID(h), int64(bodySupp), int64(setSupp), int64(headSupp), evalVal)
		if code < 0 {
			return ErrReporterRejected.New()
		}
	}
	return nil
}
