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

// Package sortutil adapts original_source/multinet/lib/eclat/arrays.c's
// generic introsort/binary-search/permutation helpers: the original
// factors these out as a shared utility used throughout the tree's
// mapped-layout node construction and the Eclat re-ordering pass, so
// this package does the same rather than re-deriving sort/search logic
// ad hoc at each call site.
package sortutil

// Int32s sorts a slice of int32 ascending in place. No code in this
// module calls it; SearchInt32 is the helper the tree uses.
func Int32s(a []int32) { introsort(a, 0, len(a)-1, 2*bitLen(len(a))) }

func bitLen(n int) int {
	b := 0
	for n > 0 {
		n >>= 1
		b++
	}
	return b
}

func introsort(a []int32, lo, hi, depth int) {
	for hi-lo > 16 {
		if depth == 0 {
			heapsort(a, lo, hi)
			return
		}
		depth--
		p := partition(a, lo, hi)
		if p-lo < hi-p {
			introsort(a, lo, p-1, depth)
			lo = p + 1
		} else {
			introsort(a, p+1, hi, depth)
			hi = p - 1
		}
	}
	insertionSort(a, lo, hi)
}

func partition(a []int32, lo, hi int) int {
	mid := lo + (hi-lo)/2
	if a[mid] < a[lo] {
		a[mid], a[lo] = a[lo], a[mid]
	}
	if a[hi] < a[lo] {
		a[hi], a[lo] = a[lo], a[hi]
	}
	if a[hi] < a[mid] {
		a[hi], a[mid] = a[mid], a[hi]
	}
	pivot := a[mid]
	a[mid], a[hi-1] = a[hi-1], a[mid]
	i, j := lo, hi-1
	for {
		for i++; a[i] < pivot; i++ {
		}
		for j--; a[j] > pivot; j-- {
		}
		if i >= j {
			break
		}
		a[i], a[j] = a[j], a[i]
	}
	a[i], a[hi-1] = a[hi-1], a[i]
	return i
}

func insertionSort(a []int32, lo, hi int) {
	for i := lo + 1; i <= hi; i++ {
		v := a[i]
		j := i - 1
		for j >= lo && a[j] > v {
			a[j+1] = a[j]
			j--
		}
		a[j+1] = v
	}
}

func heapsort(a []int32, lo, hi int) {
	n := hi - lo + 1
	seg := a[lo : hi+1]
	for i := n/2 - 1; i >= 0; i-- {
		siftDown(seg, i, n)
	}
	for i := n - 1; i > 0; i-- {
		seg[0], seg[i] = seg[i], seg[0]
		siftDown(seg, 0, i)
	}
}

func siftDown(a []int32, root, n int) {
	for {
		child := 2*root + 1
		if child >= n {
			return
		}
		if child+1 < n && a[child] < a[child+1] {
			child++
		}
		if a[root] >= a[child] {
			return
		}
		a[root], a[child] = a[child], a[root]
		root = child
	}
}

// SearchInt32 returns the index of x in the ascending-sorted slice a,
// or -1 if absent (used by mapped-node Down(item) lookups).
func SearchInt32(a []int32, x int32) int {
	lo, hi := 0, len(a)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		switch {
		case a[mid] == x:
			return mid
		case a[mid] < x:
			lo = mid + 1
		default:
			hi = mid - 1
		}
	}
	return -1
}

// Permute reorders a in place according to perm, where perm[i] gives
// the source index for destination slot i. No code in this module
// calls it; Eclat re-orders candidate items with sort.SliceStable.
func Permute(a []int32, perm []int) {
	out := make([]int32, len(a))
	for i, src := range perm {
		out[i] = a[src]
	}
	copy(a, out)
}
