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

// row is one size's support histogram, lazily grown in both
// directions. base is the support value counter[0] represents, so a
// row never needs to be reallocated from index 0 -- only rebased, per
// Design Notes §9's "arena over pointer" guidance replacing the
// original's pointer-rebasing scheme.
type row struct {
	base    Support
	counter []int64
}

func (r *row) ensure(supp Support) {
	if len(r.counter) == 0 {
		r.base = supp
		r.counter = []int64{0}
		return
	}
	if supp < r.base {
		grow := int(r.base - supp)
		grown := make([]int64, grow+len(r.counter))
		copy(grown[grow:], r.counter)
		r.counter = grown
		r.base = supp
	}
	top := r.base + Support(len(r.counter)) - 1
	if supp > top {
		grow := int(supp - top)
		r.counter = append(r.counter, make([]int64, grow)...)
	}
}

func (r *row) get(supp Support) int64 {
	if len(r.counter) == 0 || supp < r.base {
		return 0
	}
	i := int(supp - r.base)
	if i >= len(r.counter) {
		return 0
	}
	return r.counter[i]
}

func (r *row) add(supp Support, delta int64) {
	r.ensure(supp)
	r.counter[supp-r.base] += delta
}

func (r *row) set(supp Support, v int64) {
	r.ensure(supp)
	r.counter[supp-r.base] = v
}

// realRow is the real-support collapse of a row: spec.md §4.5 "real
// supports collapse to a per-row (min, max, sum)".
type realRow struct {
	n        int64
	min, max float64
	sum      float64
}

func (r *realRow) add(v float64, n int64) {
	if r.n == 0 {
		r.min, r.max = v, v
	} else {
		if v < r.min {
			r.min = v
		}
		if v > r.max {
			r.max = v
		}
	}
	r.sum += v * float64(n)
	r.n += n
}

// Spectrum is the two-dimensional (size, support) frequency table
// spec.md §4.5 specifies: one row per item-set size, grown on demand
// in both size and support range. RealSupport selects the
// (min,max,sum) collapse instead of a per-support counter array.
type Spectrum struct {
	RealSupport bool

	rows     []*row     // indexed by size; nil entries for unseen sizes
	realRows []*realRow // parallel to rows when RealSupport is set

	sigCount int64 // number of distinct (size, supp) signatures ever incremented
}

// NewSpectrum creates an empty pattern spectrum.
func NewSpectrum(real bool) *Spectrum {
	return &Spectrum{RealSupport: real}
}

func (p *Spectrum) ensureSize(size int) {
	for len(p.rows) <= size {
		p.rows = append(p.rows, nil)
	}
	if p.RealSupport {
		for len(p.realRows) <= size {
			p.realRows = append(p.realRows, nil)
		}
	}
}

// Add increments the cell for (size, supp) by delta, growing rows as
// needed. Real-support spectra treat delta as a sample multiplicity:
// the row's sum grows by supp*delta, its sample count by delta, and
// supp updates its min/max.
func (p *Spectrum) Add(size int, supp Support, delta int64) {
	p.ensureSize(size)
	if p.RealSupport {
		if p.realRows[size] == nil {
			p.realRows[size] = &realRow{}
		}
		wasEmpty := p.realRows[size].n == 0
		p.realRows[size].add(float64(supp), delta)
		if wasEmpty {
			p.sigCount++
		}
		return
	}
	if p.rows[size] == nil {
		p.rows[size] = &row{}
	}
	r := p.rows[size]
	before := r.get(supp)
	r.add(supp, delta)
	if before == 0 && r.get(supp) != 0 {
		p.sigCount++
	}
}

// Set assigns the cell for (size, supp) directly (integer variant only).
func (p *Spectrum) Set(size int, supp Support, v int64) {
	p.ensureSize(size)
	if p.rows[size] == nil {
		p.rows[size] = &row{}
	}
	p.rows[size].set(supp, v)
}

// Get returns the current cell value for (size, supp); 0 if unseen.
func (p *Spectrum) Get(size int, supp Support) int64 {
	if size < 0 || size >= len(p.rows) || p.rows[size] == nil {
		return 0
	}
	return p.rows[size].get(supp)
}

// SignatureCount returns the number of distinct (size, support)
// signatures that have ever been incremented.
func (p *Spectrum) SignatureCount() int64 { return p.sigCount }

// Clear resets the spectrum to empty, preserving the RealSupport mode.
func (p *Spectrum) Clear() {
	p.rows = nil
	p.realRows = nil
	p.sigCount = 0
}

// AddPSP merges other into p cell-by-cell, preserving signature
// counts: adapted from the original's patspec.c psp_addpsp, which
// adds a row's (min,max,sum) triple component-wise rather than
// re-deriving it from merged raw samples (SPEC_FULL.md §4.5).
func (p *Spectrum) AddPSP(other *Spectrum) {
	if other == nil {
		return
	}
	if p.RealSupport {
		for size, rr := range other.realRows {
			if rr == nil || rr.n == 0 {
				continue
			}
			p.ensureSize(size)
			if p.realRows[size] == nil {
				p.realRows[size] = &realRow{}
			}
			dst := p.realRows[size]
			wasEmpty := dst.n == 0
			if wasEmpty {
				dst.min, dst.max = rr.min, rr.max
			} else {
				if rr.min < dst.min {
					dst.min = rr.min
				}
				if rr.max > dst.max {
					dst.max = rr.max
				}
			}
			dst.sum += rr.sum
			dst.n += rr.n
			if wasEmpty {
				p.sigCount++
			}
		}
		return
	}
	for size, r := range other.rows {
		if r == nil {
			continue
		}
		for i, v := range r.counter {
			if v == 0 {
				continue
			}
			p.Add(size, r.base+Support(i), v)
		}
	}
}

// Rows returns the number of row slots: one more than the largest size
// seen so far, or 0 for an empty spectrum.
func (p *Spectrum) Rows() int { return len(p.rows) }

// RealRow returns the (min, max, sum, n) collapse for size, for
// real-support spectra; ok is false if size was never seen.
func (p *Spectrum) RealRow(size int) (min, max, sum float64, n int64, ok bool) {
	if !p.RealSupport || size < 0 || size >= len(p.realRows) || p.realRows[size] == nil {
		return 0, 0, 0, 0, false
	}
	rr := p.realRows[size]
	return rr.min, rr.max, rr.sum, rr.n, true
}

// Table renders the spectrum as size/support/count triples in
// ascending (size, support) order, for tabular output by a Sink or CLI
// (spec.md §4.5 "tabular output"); the core itself performs no I/O.
func (p *Spectrum) Table() [][3]int64 {
	var out [][3]int64
	for size, r := range p.rows {
		if r == nil {
			continue
		}
		for i, v := range r.counter {
			if v == 0 {
				continue
			}
			out = append(out, [3]int64{int64(size), int64(r.base) + int64(i), v})
		}
	}
	return out
}
