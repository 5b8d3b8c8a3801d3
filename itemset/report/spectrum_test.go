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

package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpectrumAddAndGet(t *testing.T) {
	sp := NewSpectrum(false)
	sp.Add(2, 5, 1)
	sp.Add(2, 5, 1)
	sp.Add(2, 7, 1)
	sp.Add(3, 1, 1)

	assert.Equal(t, int64(2), sp.Get(2, 5))
	assert.Equal(t, int64(1), sp.Get(2, 7))
	assert.Equal(t, int64(1), sp.Get(3, 1))
	assert.Equal(t, int64(0), sp.Get(2, 100), "unseen cell reads as 0")
	assert.Equal(t, int64(0), sp.Get(5, 1), "unseen size reads as 0")
}

func TestSpectrumRowGrowsBothDirections(t *testing.T) {
	sp := NewSpectrum(false)
	sp.Add(1, 10, 1)
	sp.Add(1, 3, 2) // below the first support seen: row must rebase downward
	sp.Add(1, 20, 3) // above: row must grow upward

	assert.Equal(t, int64(1), sp.Get(1, 10))
	assert.Equal(t, int64(2), sp.Get(1, 3))
	assert.Equal(t, int64(3), sp.Get(1, 20))
}

func TestSpectrumSignatureCountOnlyNewCells(t *testing.T) {
	sp := NewSpectrum(false)
	sp.Add(1, 5, 1)
	assert.Equal(t, int64(1), sp.SignatureCount())
	sp.Add(1, 5, 1) // same cell again: not a new signature
	assert.Equal(t, int64(1), sp.SignatureCount())
	sp.Add(1, 6, 1)
	assert.Equal(t, int64(2), sp.SignatureCount())
}

func TestSpectrumSet(t *testing.T) {
	sp := NewSpectrum(false)
	sp.Set(2, 5, 42)
	assert.Equal(t, int64(42), sp.Get(2, 5))
	sp.Set(2, 5, 7)
	assert.Equal(t, int64(7), sp.Get(2, 5), "Set overwrites rather than accumulates")
}

func TestSpectrumClear(t *testing.T) {
	sp := NewSpectrum(false)
	sp.Add(1, 5, 1)
	sp.Add(2, 5, 1)
	require.NotZero(t, sp.SignatureCount())

	sp.Clear()
	assert.Equal(t, int64(0), sp.SignatureCount())
	assert.Equal(t, int64(0), sp.Get(1, 5))
	assert.Equal(t, 0, sp.Rows())
}

func TestSpectrumTableRendersAscending(t *testing.T) {
	sp := NewSpectrum(false)
	sp.Add(1, 5, 2)
	sp.Add(1, 3, 1)
	sp.Add(2, 9, 4)

	table := sp.Table()
	require.Len(t, table, 3)
	for _, row := range table {
		size, supp, count := row[0], row[1], row[2]
		switch {
		case size == 1 && supp == 5:
			assert.Equal(t, int64(2), count)
		case size == 1 && supp == 3:
			assert.Equal(t, int64(1), count)
		case size == 2 && supp == 9:
			assert.Equal(t, int64(4), count)
		default:
			t.Fatalf("unexpected table row %v", row)
		}
	}
}

func TestSpectrumAddPSPMergesIntegerRows(t *testing.T) {
	a := NewSpectrum(false)
	a.Add(1, 5, 2)
	b := NewSpectrum(false)
	b.Add(1, 5, 3)
	b.Add(2, 1, 1)

	a.AddPSP(b)
	assert.Equal(t, int64(5), a.Get(1, 5), "matching cells add component-wise")
	assert.Equal(t, int64(1), a.Get(2, 1), "cells only present in the other spectrum are adopted")
}

func TestSpectrumAddPSPNilIsNoop(t *testing.T) {
	a := NewSpectrum(false)
	a.Add(1, 5, 2)
	a.AddPSP(nil)
	assert.Equal(t, int64(2), a.Get(1, 5))
}

func TestSpectrumRealSupportCollapse(t *testing.T) {
	sp := NewSpectrum(true)
	sp.Add(2, 10, 1)
	sp.Add(2, 4, 1)
	sp.Add(2, 7, 1)

	min, max, sum, n, ok := sp.RealRow(2)
	require.True(t, ok)
	assert.Equal(t, float64(4), min)
	assert.Equal(t, float64(10), max)
	assert.Equal(t, float64(21), sum)
	assert.Equal(t, int64(3), n)

	_, _, _, _, ok = sp.RealRow(99)
	assert.False(t, ok, "unseen size reports not-ok")
}

func TestSpectrumAddPSPMergesRealRows(t *testing.T) {
	a := NewSpectrum(true)
	a.Add(1, 10, 1)
	b := NewSpectrum(true)
	b.Add(1, 2, 1)
	b.Add(1, 20, 1)

	a.AddPSP(b)
	min, max, sum, n, ok := a.RealRow(1)
	require.True(t, ok)
	assert.Equal(t, float64(2), min)
	assert.Equal(t, float64(20), max)
	assert.Equal(t, float64(32), sum)
	assert.Equal(t, int64(3), n)
}
