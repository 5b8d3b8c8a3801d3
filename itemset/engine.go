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

// Mine is the single entry point spec.md §6's configuration surface
// describes: given an item base, a transaction bag and an Options
// record, it enumerates the requested target (frequent/closed/
// maximal/generator sets, or rules) through sink, dispatching to the
// Apriori item-set tree when rule-level evaluation is needed and to
// the Eclat vertical engines otherwise (spec.md §4.2 "Eclat engine
// bypasses the tree when the target is plain frequent sets with no
// rule-level evaluation").
func Mine(ctx *Context, base *ItemBase, bag *Bag, opt Options, sink report.Sink) (*report.Reporter, error) {
	if err := opt.Validate(); err != nil {
		return nil, err
	}
	if base.Items() == 0 || bag.Weight() < opt.SMin {
		return nil, ErrNoItems.New()
	}

	var repo *report.Repository
	if opt.Target == TargetClosed || opt.Target == TargetMaximal || opt.Target == TargetGenerators {
		repo = NewRepository(opt.RepoLimit)
	}
	var spectrum *report.Spectrum
	if opt.CollectSpectrum {
		spectrum = report.NewSpectrum(false)
	}

	cfg := report.Config{
		Target:     reportTarget(opt.Target),
		ZMin:       int(opt.ZMin),
		ZMax:       int(opt.ZMax),
		SMin:       opt.SMin,
		SMax:       opt.SMax,
		Expand:     opt.PerfectExt,
		Sort:       opt.Reorder,
		Repository: repo,
		Spectrum:   spectrum,
	}
	rep := report.NewReporter(cfg, sink)

	if ctx == nil {
		ctx = NewContext(nil, nil)
	}

	if opt.Target == TargetRules || opt.Eval != eval.MeasureNone {
		if err := mineWithTree(ctx, base, bag, opt, rep); err != nil {
			return rep, err
		}
		return rep, nil
	}

	eng := NewEclatEngine(base, bag, opt, rep)
	if err := eng.Run(ctx); err != nil {
		return rep, err
	}
	return rep, nil
}

func reportTarget(t Target) report.Target {
	switch t {
	case TargetClosed:
		return report.TargetClosed
	case TargetMaximal:
		return report.TargetMaximal
	case TargetGenerators:
		return report.TargetGenerators
	default:
		return report.TargetAll
	}
}

// mineWithTree builds the Apriori item-set tree level by level
// (count/commit/prune/extend, spec.md §4.1), then either extracts
// rules or reports the frequent/closed/maximal/generator sets found.
func mineWithTree(ctx *Context, base *ItemBase, bag *Bag, opt Options, rep *report.Reporter) error {
	tree := NewISTree(base, opt)
	for {
		if ctx.aborted() {
			return ErrAborted.New()
		}
		if err := tree.Count(ctx, bag); err != nil {
			return err
		}
		tree.Commit()
		tree.Prune()
		if Support(tree.Height()) >= opt.ZMax {
			break
		}
		created, err := tree.AddLevel(ctx)
		if err != nil {
			return err
		}
		if created == 0 {
			break
		}
	}
	tree.ClomaxFilter()

	if opt.Target == TargetRules {
		return tree.ExtractRules(ctx, rep)
	}
	return tree.Report(ctx, rep)
}
