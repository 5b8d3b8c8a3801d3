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

// Package eval implements the rule-evaluation kernel: a fixed, closed
// catalogue of interest measures over (joint support, body support,
// head support, base weight), each with a declared optimisation
// direction. Modeled on the teacher's sql.FunctionRegistry — a
// closed, validated-at-lookup table of named callables
// (sql/functionregistry_test.go) — generalized from SQL functions to
// rule measures.
package eval

import (
	"math"

	errors "gopkg.in/src-d/go-errors.v1"
)

// MeasureID names one catalogue entry.
type MeasureID int

const (
	MeasureNone MeasureID = iota
	Support
	Confidence
	ConfidenceDiff
	Lift
	LiftAbsDev
	LiftInvDev
	Conviction
	ConvictionAbsDev
	ConvictionInvDev
	CondProbRatio
	CondProbRatioLog
	CertaintyFactor
	Chi2
	Chi2PValue
	YatesChi2
	YatesPValue
	InfoGain
	InfoGainPValue
	FisherProb
	FisherChi2Agg
	FisherInfoGainAgg
	FisherSupportAgg
)

// Direction is the optimisation direction a measure declares: +1 means
// larger values are better (interest measures), -1 means smaller
// values are better (p-values).
type Direction int

const (
	Maximise Direction = 1
	Minimise Direction = -1
)

// MeasureFn evaluates one catalogue entry over (joint support s, body
// support b, head support h, base weight n).
type MeasureFn func(s, b, h, n float64) float64

// ErrUnknownMeasure is returned by Resolve/ParseMeasure for an id or
// name outside the closed catalogue.
var ErrUnknownMeasure = errors.NewKind("unknown measure: %v")

type measure struct {
	name string
	fn   MeasureFn
	dir  Direction
}

var catalogue = map[MeasureID]measure{
	Support:           {"support", func(s, b, h, n float64) float64 { return s }, Maximise},
	Confidence:        {"confidence", mConfidence, Maximise},
	ConfidenceDiff:    {"confidence-diff", mConfidenceDiff, Maximise},
	Lift:              {"lift", mLift, Maximise},
	LiftAbsDev:        {"lift-absdev", mLiftAbsDev, Maximise},
	LiftInvDev:        {"lift-invdev", mLiftInvDev, Maximise},
	Conviction:        {"conviction", mConviction, Maximise},
	ConvictionAbsDev:  {"conviction-absdev", mConvictionAbsDev, Maximise},
	ConvictionInvDev:  {"conviction-invdev", mConvictionInvDev, Maximise},
	CondProbRatio:     {"cpr", mCondProbRatio, Maximise},
	CondProbRatioLog:  {"cpr-log2", mCondProbRatioLog, Maximise},
	CertaintyFactor:   {"certainty-factor", mCertaintyFactor, Maximise},
	Chi2:              {"chi2", mChi2, Maximise},
	Chi2PValue:        {"chi2-pvalue", mChi2PValue, Minimise},
	YatesChi2:         {"yates-chi2", mYatesChi2, Maximise},
	YatesPValue:       {"yates-pvalue", mYatesPValue, Minimise},
	InfoGain:          {"info-gain", mInfoGain, Maximise},
	InfoGainPValue:    {"info-gain-pvalue", mInfoGainPValue, Minimise},
	FisherProb:        {"fisher-prob", mFisherProb, Minimise},
	FisherChi2Agg:     {"fisher-chi2-agg", mFisherChi2Agg, Minimise},
	FisherInfoGainAgg: {"fisher-infogain-agg", mFisherInfoGainAgg, Minimise},
	FisherSupportAgg:  {"fisher-support-agg", mFisherSupportAgg, Minimise},
}

var byName map[string]MeasureID

func init() {
	byName = make(map[string]MeasureID, len(catalogue))
	for id, m := range catalogue {
		byName[m.name] = id
	}
	byName["none"] = MeasureNone
}

// Resolve returns the function and direction for id, or
// ErrUnknownMeasure if id is not in the catalogue.
func Resolve(id MeasureID) (MeasureFn, Direction, error) {
	if id == MeasureNone {
		return func(s, b, h, n float64) float64 { return 0 }, Maximise, nil
	}
	m, ok := catalogue[id]
	if !ok {
		return nil, 0, ErrUnknownMeasure.New(int(id))
	}
	return m.fn, m.dir, nil
}

// Dir returns the optimisation direction for id.
func Dir(id MeasureID) Direction {
	_, dir, err := Resolve(id)
	if err != nil {
		return Maximise
	}
	return dir
}

// ParseMeasure resolves a human-readable measure name to its id.
func ParseMeasure(name string) (MeasureID, error) {
	if id, ok := byName[name]; ok {
		return id, nil
	}
	return MeasureNone, ErrUnknownMeasure.New(name)
}

// degenerate reports whether a measure's marginals vanish (h in {0,n}
// or b in {0,n}), the boundary condition spec.md §4.3 says must return
// 0 (or 1 for p-values) rather than dividing by zero.
func degenerate(b, h, n float64) bool {
	return h <= 0 || h >= n || b <= 0 || b >= n
}

func mConfidence(s, b, h, n float64) float64 {
	if b <= 0 {
		return 0
	}
	return s / b
}

func mConfidenceDiff(s, b, h, n float64) float64 {
	if degenerate(b, h, n) {
		return 0
	}
	return s/b - h/n
}

func mLift(s, b, h, n float64) float64 {
	if degenerate(b, h, n) {
		return 0
	}
	return s * n / (b * h)
}

func mLiftAbsDev(s, b, h, n float64) float64 {
	l := mLift(s, b, h, n)
	return math.Abs(l - 1)
}

func mLiftInvDev(s, b, h, n float64) float64 {
	l := mLift(s, b, h, n)
	if l <= 0 {
		return 0
	}
	return 1 - math.Min(l, 1/l)
}

func mConviction(s, b, h, n float64) float64 {
	if degenerate(b, h, n) {
		return 0
	}
	if b <= s {
		return math.Inf(1)
	}
	denom := (b - s) * n
	if denom == 0 {
		return math.Inf(1)
	}
	return b * (n - h) / denom
}

func mConvictionAbsDev(s, b, h, n float64) float64 {
	c := mConviction(s, b, h, n)
	return math.Abs(c - 1)
}

func mConvictionInvDev(s, b, h, n float64) float64 {
	c := mConviction(s, b, h, n)
	if math.IsInf(c, 1) {
		return 0
	}
	if c <= 0 {
		return 0
	}
	return 1 - math.Min(c, 1/c)
}

func mCondProbRatio(s, b, h, n float64) float64 {
	if degenerate(b, h, n) {
		return 0
	}
	denom := b * (h - s)
	if denom == 0 {
		return 0
	}
	return s * (n - b) / denom
}

func mCondProbRatioLog(s, b, h, n float64) float64 {
	r := mCondProbRatio(s, b, h, n)
	if r <= 0 {
		return 0
	}
	return math.Log2(r)
}

func mCertaintyFactor(s, b, h, n float64) float64 {
	if degenerate(b, h, n) {
		return 0
	}
	conf := s / b
	hr := h / n
	if conf >= hr {
		denom := 1 - hr
		if denom == 0 {
			return 0
		}
		return (conf - hr) / denom
	}
	if hr == 0 {
		return 0
	}
	return (conf - hr) / hr
}

// chi2raw computes the normalised chi-square statistic for the 2x2
// contingency table implied by (s,b,h,n).
func chi2raw(s, b, h, n float64) float64 {
	if degenerate(b, h, n) {
		return 0
	}
	num := h*b - s*n
	num *= num
	denom := h * (n - h) * b * (n - b)
	if denom == 0 {
		return 0
	}
	return num / denom
}

func mChi2(s, b, h, n float64) float64 { return chi2raw(s, b, h, n) * n }

func mChi2PValue(s, b, h, n float64) float64 {
	return chi2SurvivalDF1(mChi2(s, b, h, n))
}

// yatesRaw applies Yates' continuity correction to |O-E| before
// squaring: 0.5 is subtracted from |O-E| (floored at zero).
func yatesRaw(s, b, h, n float64) float64 {
	if degenerate(b, h, n) {
		return 0
	}
	e := b * h / n
	dev := math.Abs(s - e)
	dev = math.Max(0, dev-0.5)
	denom := e * (1 - b/n) * (1 - h/n)
	if denom == 0 {
		return 0
	}
	return dev * dev / denom
}

func mYatesChi2(s, b, h, n float64) float64 { return yatesRaw(s, b, h, n) }

func mYatesPValue(s, b, h, n float64) float64 {
	return chi2SurvivalDF1(mYatesChi2(s, b, h, n))
}

// mInfoGain is the G statistic (information gain) in bits.
func mInfoGain(s, b, h, n float64) float64 {
	if degenerate(b, h, n) {
		return 0
	}
	g := 0.0
	cells := [4][2]float64{
		{s, b * h / n},
		{b - s, b * (n - h) / n},
		{h - s, (n - b) * h / n},
		{n - b - h + s, (n - b) * (n - h) / n},
	}
	for _, c := range cells {
		o, e := c[0], c[1]
		if o > 0 && e > 0 {
			g += o * math.Log2(o/e)
		}
	}
	return 2 * g
}

func mInfoGainPValue(s, b, h, n float64) float64 {
	return chi2SurvivalDF1(mInfoGain(s, b, h, n))
}
