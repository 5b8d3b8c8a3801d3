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

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveUnknown(t *testing.T) {
	_, _, err := Resolve(MeasureID(9999))
	require.Error(t, err)
}

func TestParseMeasureRoundTrip(t *testing.T) {
	for id, m := range catalogue {
		got, err := ParseMeasure(m.name)
		require.NoError(t, err)
		assert.Equal(t, id, got)
	}
}

func TestConfidenceAndLift(t *testing.T) {
	// scenario 3 from spec.md §8: {a,b,c},{a,b},{a,c},{b,c}, smin=2,
	// every 2-item rule has confidence 2/3 and lift (2*4)/(3*3).
	fn, dir, err := Resolve(Confidence)
	require.NoError(t, err)
	assert.Equal(t, Maximise, dir)
	assert.InDelta(t, 2.0/3.0, fn(2, 3, 3, 4), 1e-9)

	fn, _, err = Resolve(Lift)
	require.NoError(t, err)
	assert.InDelta(t, 8.0/9.0, fn(2, 3, 3, 4), 1e-9)
}

func TestDegenerateMarginalsReturnZero(t *testing.T) {
	fn, _, _ := Resolve(Lift)
	assert.Equal(t, 0.0, fn(0, 3, 0, 10))
	assert.Equal(t, 0.0, fn(0, 3, 10, 10))
}

func TestConvictionPerfectRule(t *testing.T) {
	fn, _, _ := Resolve(Conviction)
	// b <= s means a perfect rule: conviction is +Inf per spec.md §4.3.
	assert.True(t, math.IsInf(fn(5, 5, 3, 10), 1))
}

func TestChi2PValueMonotone(t *testing.T) {
	fn, _, _ := Resolve(Chi2PValue)
	small := fn(1, 5, 5, 20)
	large := fn(5, 5, 5, 20)
	assert.GreaterOrEqual(t, small, large)
}

func TestFisherProbBounds(t *testing.T) {
	fn, dir, _ := Resolve(FisherProb)
	assert.Equal(t, Minimise, dir)
	p := fn(2, 3, 3, 4)
	assert.True(t, p >= 0 && p <= 1+1e-9)
}

func TestPValuesNeverNaN(t *testing.T) {
	ids := []MeasureID{Chi2PValue, YatesPValue, InfoGainPValue, FisherProb, FisherChi2Agg, FisherInfoGainAgg, FisherSupportAgg}
	for _, id := range ids {
		fn, _, _ := Resolve(id)
		v := fn(3, 5, 4, 10)
		assert.False(t, math.IsNaN(v), "measure %v returned NaN", id)
	}
}
