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
	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"

	"github.com/freqmine/engine/itemset/eval"
)

// Algorithm selects the Eclat vertical representation, or "auto" to
// let the engine decide (spec.md §4.2 "Automatic variant choice").
type Algorithm int

const (
	AlgoAuto Algorithm = iota
	AlgoTidListBasic
	AlgoTidListOpt
	AlgoBitVector
	AlgoOccTable
	AlgoSimpleTable
	AlgoTidRanges
	AlgoOccDeliver
	AlgoDiffSets
)

// Options is the single configuration record spec.md §6 names: target,
// algorithm variant, mode flags, windows, confidence, measure id,
// aggregation mode, threshold and prune depth. Decoded from a generic
// map[string]interface{} (as loaded from YAML or CLI flags) via
// github.com/spf13/cast, grounded on the teacher's use of cast for
// coercing loosely typed driver/session configuration values.
type Options struct {
	Target Target
	Algo   Algorithm

	// Mode flags.
	PerfectExt  bool
	Reorder     bool
	Tail        bool
	PackK       int
	OrigSupp    bool
	ExtCheckH   bool
	ExtCheckV   bool
	TidsNeeded  bool
	SafeClomax  bool

	// Windows.
	ZMin, ZMax Support // size window; Support reused as a plain count here
	SMin, SMax Support // joint support window
	Body       Support // minimum body support (rules only)
	Conf       float64 // minimum confidence

	Eval        eval.MeasureID
	Agg         Aggregation
	Thresh      float64
	InvBXS      bool
	PruneDepth  int
	Direction   SortDirection
	Density     float64 // auto-variant density threshold, default 0.02

	CollectStats    bool
	CollectSpectrum bool // attach a pattern-spectrum sink to the reporter
	RepoLimit       int  // closed/maximal/generator repository capacity, 0 = unlimited
}

// DefaultOptions returns the zero-configuration baseline: target all,
// algorithm auto, full size/support windows, no evaluation measure.
func DefaultOptions() Options {
	return Options{
		Target:  TargetAll,
		Algo:    AlgoAuto,
		ZMin:    0,
		ZMax:    1 << 30,
		SMin:    1,
		SMax:    1 << 62,
		Conf:    0.8,
		Density: 0.02,
		Eval:    eval.MeasureNone,
	}
}

// DecodeOptions builds an Options from a generic config map, as
// produced by unmarshalling YAML or merging CLI flags. Unknown keys
// are ignored; missing keys keep their DefaultOptions() value. cast's
// permissive coercions (string "0.8" -> float64, "true" -> bool, …)
// match the looseness of a hand-edited config file or flag set.
func DecodeOptions(raw map[string]interface{}) (Options, error) {
	opt := DefaultOptions()

	if v, ok := raw["target"]; ok {
		t, err := parseTarget(cast.ToString(v))
		if err != nil {
			return opt, err
		}
		opt.Target = t
	}
	if v, ok := raw["algo"]; ok {
		a, err := parseAlgorithm(cast.ToString(v))
		if err != nil {
			return opt, err
		}
		opt.Algo = a
	}
	if v, ok := raw["zmin"]; ok {
		opt.ZMin = Support(cast.ToInt64(v))
	}
	if v, ok := raw["zmax"]; ok {
		opt.ZMax = Support(cast.ToInt64(v))
	}
	if v, ok := raw["smin"]; ok {
		opt.SMin = Support(cast.ToInt64(v))
	}
	if v, ok := raw["smax"]; ok {
		opt.SMax = Support(cast.ToInt64(v))
	}
	if v, ok := raw["body"]; ok {
		opt.Body = Support(cast.ToInt64(v))
	}
	if v, ok := raw["conf"]; ok {
		opt.Conf = cast.ToFloat64(v)
	}
	if v, ok := raw["measure"]; ok {
		m, err := eval.ParseMeasure(cast.ToString(v))
		if err != nil {
			return opt, err
		}
		opt.Eval = m
	}
	if v, ok := raw["thresh"]; ok {
		opt.Thresh = cast.ToFloat64(v)
	}
	if v, ok := raw["invbxs"]; ok {
		opt.InvBXS = cast.ToBool(v)
	}
	if v, ok := raw["prune_depth"]; ok {
		opt.PruneDepth = cast.ToInt(v)
	}
	if v, ok := raw["perfect"]; ok {
		opt.PerfectExt = cast.ToBool(v)
	}
	if v, ok := raw["reorder"]; ok {
		opt.Reorder = cast.ToBool(v)
	}
	if v, ok := raw["pack_k"]; ok {
		opt.PackK = cast.ToInt(v)
	}
	if v, ok := raw["density"]; ok {
		opt.Density = cast.ToFloat64(v)
	}
	if v, ok := raw["collect_stats"]; ok {
		opt.CollectStats = cast.ToBool(v)
	}
	if v, ok := raw["spectrum"]; ok {
		opt.CollectSpectrum = cast.ToBool(v)
	}
	if v, ok := raw["repo_limit"]; ok {
		opt.RepoLimit = cast.ToInt(v)
	}

	if err := opt.Validate(); err != nil {
		return opt, err
	}
	return opt, nil
}

// DecodeOptionsYAML unmarshals a YAML document into a generic map and
// delegates to DecodeOptions; this is the path cmd/freqmine uses for
// --config files.
func DecodeOptionsYAML(doc []byte) (Options, error) {
	raw := map[string]interface{}{}
	if err := yaml.Unmarshal(doc, &raw); err != nil {
		return Options{}, ErrInvalidConfig.New(err.Error())
	}
	return DecodeOptions(raw)
}

// Validate rejects a configuration before mining begins: unknown
// measure id, empty size window, confidence outside [0,1] — spec.md
// §7's "invalid-config" row.
func (o Options) Validate() error {
	if o.ZMin > o.ZMax {
		return ErrInvalidConfig.New("empty size window")
	}
	if o.SMin > o.SMax {
		return ErrInvalidConfig.New("empty support window")
	}
	if o.Conf < 0 || o.Conf > 1 {
		return ErrInvalidConfig.New("confidence outside [0,1]")
	}
	if o.Eval != eval.MeasureNone {
		if _, _, err := eval.Resolve(o.Eval); err != nil {
			return ErrInvalidConfig.New(err.Error())
		}
	}
	return nil
}

func parseTarget(s string) (Target, error) {
	switch s {
	case "", "all", "frequent":
		return TargetAll, nil
	case "closed":
		return TargetClosed, nil
	case "maximal":
		return TargetMaximal, nil
	case "generators":
		return TargetGenerators, nil
	case "rules":
		return TargetRules, nil
	default:
		return TargetAll, ErrInvalidConfig.New("unknown target: " + s)
	}
}

func parseAlgorithm(s string) (Algorithm, error) {
	switch s {
	case "", "auto":
		return AlgoAuto, nil
	case "basic":
		return AlgoTidListBasic, nil
	case "lists":
		return AlgoTidListOpt, nil
	case "bits":
		return AlgoBitVector, nil
	case "table":
		return AlgoOccTable, nil
	case "simple":
		return AlgoSimpleTable, nil
	case "ranges":
		return AlgoTidRanges, nil
	case "occdlv":
		return AlgoOccDeliver, nil
	case "diffs":
		return AlgoDiffSets, nil
	default:
		return AlgoAuto, ErrInvalidConfig.New("unknown algorithm: " + s)
	}
}
