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

package eval

import "math"

// chi2SurvivalDF1 is the upper-tail chi-square survival function with
// one degree of freedom, i.e. P(X >= x) = erfc(sqrt(x/2)). No
// ecosystem library in the retrieval pack provides a chi-square
// survival or hypergeometric tail function, so this corner of the
// kernel is deliberately stdlib-only (math.Erfc, math.Lgamma); see
// DESIGN.md for the justification.
func chi2SurvivalDF1(x float64) float64 {
	if x <= 0 {
		return 1
	}
	return math.Erfc(math.Sqrt(x / 2))
}

// lchoose returns log(C(n,k)) via the log-gamma function, the common
// term every hypergeometric-tail summation below shares.
func lchoose(n, k float64) float64 {
	if k < 0 || k > n {
		return math.Inf(-1)
	}
	ln, _ := math.Lgamma(n + 1)
	lk, _ := math.Lgamma(k + 1)
	lnk, _ := math.Lgamma(n - k + 1)
	return ln - lk - lnk
}

// hyperLogProb is the log-probability of observing exactly s successes
// in a hypergeometric(n, b, h) table: log( C(h,s) C(n-h,b-s) / C(n,b) ).
func hyperLogProb(s, b, h, n float64) float64 {
	return lchoose(h, s) + lchoose(n-h, b-s) - lchoose(n, b)
}

// fisherTailProb sums hypergeometric probabilities over every table
// at least as extreme as the observed one (table log-probability <=
// the observed log-probability times (1-eps), absorbing float roundoff per
// spec.md §4.3). lo/hi bound the feasible range of s for fixed b,h,n.
func fisherTailProb(s, b, h, n float64, weight func(s, b, h, n float64) float64) float64 {
	const eps = 1e-9
	cut := hyperLogProb(s, b, h, n) * (1 - eps)
	lo := math.Max(0, b+h-n)
	hi := math.Min(b, h)
	var total float64
	for x := lo; x <= hi+0.5; x++ {
		lp := hyperLogProb(x, b, h, n)
		if lp <= cut {
			total += weight(x, b, h, n)
		}
	}
	return total
}

// mFisherProb is Fisher's exact test, "table probability" flavour:
// sums raw hypergeometric probability over every table at least as
// extreme as the observed one.
func mFisherProb(s, b, h, n float64) float64 {
	if degenerate(b, h, n) {
		return 1
	}
	return fisherTailProb(s, b, h, n, func(x, b, h, n float64) float64 {
		return math.Exp(hyperLogProb(x, b, h, n))
	})
}

// mFisherChi2Agg aggregates by chi2 instead of raw probability: the
// returned value is the probability mass of tables whose own chi2 is
// at least the observed chi2 (an alternate extremeness ordering).
func mFisherChi2Agg(s, b, h, n float64) float64 {
	if degenerate(b, h, n) {
		return 1
	}
	obs := chi2raw(s, b, h, n) * n
	lo := math.Max(0, b+h-n)
	hi := math.Min(b, h)
	var total float64
	for x := lo; x <= hi+0.5; x++ {
		if chi2raw(x, b, h, n)*n >= obs-1e-9 {
			total += math.Exp(hyperLogProb(x, b, h, n))
		}
	}
	return total
}

// mFisherInfoGainAgg aggregates over tables whose information gain is
// at least the observed one.
func mFisherInfoGainAgg(s, b, h, n float64) float64 {
	if degenerate(b, h, n) {
		return 1
	}
	obs := mInfoGain(s, b, h, n)
	lo := math.Max(0, b+h-n)
	hi := math.Min(b, h)
	var total float64
	for x := lo; x <= hi+0.5; x++ {
		if mInfoGain(x, b, h, n) >= obs-1e-9 {
			total += math.Exp(hyperLogProb(x, b, h, n))
		}
	}
	return total
}

// mFisherSupportAgg aggregates over tables with joint support at least
// the observed value (the simplest, monotone-in-s extremeness order).
func mFisherSupportAgg(s, b, h, n float64) float64 {
	if degenerate(b, h, n) {
		return 1
	}
	hi := math.Min(b, h)
	var total float64
	for x := s; x <= hi+0.5; x++ {
		total += math.Exp(hyperLogProb(x, b, h, n))
	}
	return total
}
