// Copyright 2025 The Bitindex Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package bitindex

import (
	"math/bits"
	"sort"

	"github.com/gosuccinct/bitindex/internal/invariants"
)

const (
	// bitsPerSelect0Sample and bitsPerSelect1Sample are the sampling
	// intervals of the sparse select indexes: entry i of a sample records
	// the position of the (512*i)-th zero (resp. one). Density is typically
	// around 1/2, so the two intervals match.
	bitsPerSelect0Sample = 512
	bitsPerSelect1Sample = 512

	// maxLinearSearchBlocks is the largest candidate range, in rank index
	// entries, that findRankIndexEntry scans linearly instead of binary
	// searching. Benchmarks of the reference structure put the crossover at
	// 8 blocks. The inverted search always binary searches; linear search
	// never measured faster there.
	maxLinearSearchBlocks = 8
)

// BitmapIndex indexes a borrowed, word-packed bit vector for rank and
// select queries. The zero value is an empty index; populate it with
// BuildIndex or use New. See the package documentation for the structure's
// layout and complexity.
//
// A built index is immutable: any number of concurrent readers may query it
// without locking. BuildIndex requires exclusive access.
type BitmapIndex struct {
	// words is the caller-owned bit storage. The index never mutates or
	// copies it.
	words   []uint64
	numBits int

	// rankIndex has one entry per 512-bit block plus a trailing sentinel
	// whose absolute count is the total number of ones.
	rankIndex []rankIndexEntry

	// select0Index[i] == Select0(512*i), with a trailing numBits sentinel.
	// Nil means the sample index was not built and select queries search
	// the whole rank index. select1Index is the analogue for ones.
	select0Index []uint32
	select1Index []uint32
}

// New builds an index over the given word-packed bit vector. It is
// shorthand for a zero BitmapIndex followed by BuildIndex.
func New(words []uint64, numBits int, enableSelect0, enableSelect1 bool) (*BitmapIndex, error) {
	idx := &BitmapIndex{}
	if err := idx.BuildIndex(words, numBits, enableSelect0, enableSelect1); err != nil {
		return nil, err
	}
	return idx, nil
}

// Bits returns the length of the indexed bit vector. It doubles as the
// "not found" sentinel returned by the select queries.
func (idx *BitmapIndex) Bits() int { return idx.numBits }

// ArraySize returns the number of words of bit storage.
func (idx *BitmapIndex) ArraySize() int { return StorageSize(idx.numBits) }

// ArrayBytes returns the number of bytes of raw bit storage.
func (idx *BitmapIndex) ArrayBytes() uint64 {
	return uint64(idx.ArraySize()) * (wordBits / 8)
}

// IndexBytes returns the number of bytes used by all index structures,
// excluding the bit storage itself.
func (idx *BitmapIndex) IndexBytes() uint64 {
	return uint64(len(idx.rankIndex))*rankIndexEntrySize +
		uint64(len(idx.select0Index)+len(idx.select1Index))*4
}

// OnesCount returns the total number of set bits.
func (idx *BitmapIndex) OnesCount() int {
	// The sentinel entry holds the grand total.
	return int(idx.rankIndex[len(idx.rankIndex)-1].absoluteOnesCount)
}

// ZerosCount returns the total number of clear bits.
func (idx *BitmapIndex) ZerosCount() int { return idx.numBits - idx.OnesCount() }

// Get reports whether bit i of the indexed bit vector is set.
func (idx *BitmapIndex) Get(i int) bool { return Get(idx.words, i) }

// Rank1 returns the number of set bits in positions [0, end).
// REQUIRES: 0 <= end <= Bits(). Checked only in invariant builds.
func (idx *BitmapIndex) Rank1(end int) int {
	invariants.CheckBounds(end, idx.numBits+1)
	if end == 0 {
		return 0
	}
	// Rank1(Bits()) sits exactly at the support boundary of the index; it
	// is the grand total, answered from the sentinel entry.
	if end >= idx.numBits {
		return idx.OnesCount()
	}
	endWord := end >> wordLogBits
	sum := int(idx.indexOnesCount(endWord))
	bit := end & wordMask
	if bit == 0 {
		// The entire answer is in the index.
		return sum
	}
	return sum + bits.OnesCount64(idx.words[endWord]&lowBitsMask[bit])
}

// Rank0 returns the number of clear bits in positions [0, end).
// REQUIRES: 0 <= end <= Bits(). Checked only in invariant builds.
func (idx *BitmapIndex) Rank0(end int) int { return end - idx.Rank1(end) }

// indexOnesCount returns, from the index alone, the count of ones in words
// [0, wordIndex).
func (idx *BitmapIndex) indexOnesCount(wordIndex int) uint32 {
	e := &idx.rankIndex[wordIndex/wordsPerRankEntry]
	return e.absoluteOnesCount + e.relativeOnesCount(wordIndex%wordsPerRankEntry)
}

// Select1 returns the position of the n-th (0-based) set bit, or Bits() if
// n >= OnesCount().
func (idx *BitmapIndex) Select1(n int) int {
	if n >= idx.OnesCount() {
		return idx.numBits
	}
	invariants.CheckBounds(n, idx.OnesCount())
	block := idx.findRankIndexEntry(uint32(n))
	e := &idx.rankIndex[block]
	w, rem := e.findOnesWord(uint32(n) - e.absoluteOnesCount)
	wordIndex := block*wordsPerRankEntry + w
	return wordIndex<<wordLogBits + selectWord(idx.words[wordIndex], int(rem))
}

// Select0 returns the position of the n-th (0-based) clear bit, or Bits()
// if n >= ZerosCount().
func (idx *BitmapIndex) Select0(n int) int {
	if n >= idx.ZerosCount() {
		return idx.numBits
	}
	invariants.CheckBounds(n, idx.ZerosCount())
	block := idx.findInvertedRankIndexEntry(uint32(n))
	e := &idx.rankIndex[block]
	entryZeros := uint32(block*bitsPerRankEntry) - e.absoluteOnesCount
	w, rem := e.findZerosWord(uint32(n) - entryZeros)
	wordIndex := block*wordsPerRankEntry + w
	return wordIndex<<wordLogBits + selectWord(^idx.words[wordIndex], int(rem))
}

// Select0s returns the positions of the n-th and (n+1)-th clear bits,
// equivalent to (Select0(n), Select0(n+1)) but computed from a single
// narrowing pass. At the densities this index targets, consecutive zeros
// usually share a word; correctness does not depend on that, only speed.
func (idx *BitmapIndex) Select0s(n int) (int, int) {
	zeros := idx.ZerosCount()
	if n >= zeros {
		return idx.numBits, idx.numBits
	}
	if n+1 >= zeros {
		return idx.Select0(n), idx.numBits
	}

	block := idx.findInvertedRankIndexEntry(uint32(n))
	e := &idx.rankIndex[block]
	entryZeros := uint32(block*bitsPerRankEntry) - e.absoluteOnesCount
	w, rem := e.findZerosWord(uint32(n) - entryZeros)
	wordIndex := block*wordsPerRankEntry + w

	invWord := ^idx.words[wordIndex]
	nth := selectWord(invWord, int(rem))
	first := wordIndex<<wordLogBits + nth

	// Mask off the zero just found and everything below it; the lowest
	// surviving set bit of the inverted word is the next zero. The shift is
	// by nth+1, which correctly yields an empty mask when nth == 63.
	masked := invWord & (^uint64(0) << (nth + 1))
	if masked != 0 {
		return first, wordIndex<<wordLogBits + bits.TrailingZeros64(masked)
	}
	// The next zero lives in a later word.
	return first, idx.Select0(n + 1)
}

// Successor returns the position of the first set bit at or after i, or
// Bits() if there is none.
// REQUIRES: 0 <= i <= Bits(). Checked only in invariant builds.
func (idx *BitmapIndex) Successor(i int) int {
	return idx.Select1(idx.Rank1(i))
}

// Predecessor returns the position of the last set bit at or before i, or
// -1 if there is none.
// REQUIRES: 0 <= i < Bits(). Checked only in invariant builds.
func (idx *BitmapIndex) Predecessor(i int) int {
	r := idx.Rank1(i + 1)
	if r == 0 {
		return -1
	}
	return idx.Select1(r - 1)
}

// findRankIndexEntry returns the index of the rank entry for the block
// containing the n-th set bit.
// REQUIRES: n < OnesCount().
func (idx *BitmapIndex) findRankIndexEntry(n uint32) int {
	lo, hi := 0, len(idx.rankIndex)
	if idx.select1Index != nil {
		sample := int(n) / bitsPerSelect1Sample
		invariants.CheckBounds(sample+1, len(idx.select1Index))
		// The n-th one lies between these two sampled positions.
		loBit := int(idx.select1Index[sample])
		hiBit := int(idx.select1Index[sample+1])
		lo = loBit / bitsPerRankEntry
		hi = (hiBit + bitsPerRankEntry - 1) / bitsPerRankEntry
	}

	// Find the first entry whose absolute count exceeds n; the entry before
	// it covers the block containing the n-th one.
	var i int
	if hi-lo <= maxLinearSearchBlocks {
		for i = lo; i < hi; i++ {
			if idx.rankIndex[i].absoluteOnesCount > n {
				break
			}
		}
	} else {
		i = lo + sort.Search(hi-lo, func(j int) bool {
			return idx.rankIndex[lo+j].absoluteOnesCount > n
		})
	}

	if invariants.Enabled {
		invariants.CheckLE(idx.rankIndex[i-1].absoluteOnesCount, n)
		if idx.rankIndex[i].absoluteOnesCount <= n {
			panic("bitindex: found entry does not bracket the target rank")
		}
	}
	return i - 1
}

// findInvertedRankIndexEntry returns the index of the rank entry for the
// block containing the n-th clear bit. The zero count at a block boundary
// is derived as block*512 - absoluteOnesCount.
// REQUIRES: n < ZerosCount().
func (idx *BitmapIndex) findInvertedRankIndexEntry(n uint32) int {
	var lo, hi int
	if idx.select0Index == nil {
		hi = (idx.numBits + bitsPerRankEntry - 1) / bitsPerRankEntry
	} else {
		sample := int(n) / bitsPerSelect0Sample
		invariants.CheckBounds(sample+1, len(idx.select0Index))
		lo = int(idx.select0Index[sample]) / bitsPerRankEntry
		hi = (int(idx.select0Index[sample+1]) + bitsPerRankEntry - 1) / bitsPerRankEntry
	}

	invariants.CheckBounds(hi, len(idx.rankIndex)+1)
	for lo+1 < hi {
		mid := lo + (hi-lo)/2
		if n < uint32(mid*bitsPerRankEntry)-idx.rankIndex[mid].absoluteOnesCount {
			hi = mid
		} else {
			lo = mid
		}
	}

	if invariants.Enabled {
		invariants.CheckLE(uint32(lo*bitsPerRankEntry)-idx.rankIndex[lo].absoluteOnesCount, n)
		// The upper bracket is clamped to the vector length in the final,
		// possibly partial block.
		boundary := min((lo+1)*bitsPerRankEntry, idx.numBits)
		if uint32(boundary)-idx.rankIndex[lo+1].absoluteOnesCount <= n {
			panic("bitindex: found entry does not bracket the target rank")
		}
	}
	return lo
}

// findOnesWord locates, within the entry's block, the word containing the
// rem-th one, via a fixed comparison tree over the seven relative counts.
// It returns the word index within the block and the rank remaining within
// that word. Strict comparisons resolve boundary ranks to the lowest
// containing word.
// REQUIRES: rem < ones in the block.
func (e *rankIndexEntry) findOnesWord(rem uint32) (int, uint32) {
	rel4 := uint32(e.relativeOnesCount4)
	if rem < rel4 {
		rel2 := e.relativeOnesCount(2)
		if rem < rel2 {
			if rel1 := e.relativeOnesCount(1); rem >= rel1 {
				return 1, rem - rel1
			}
			return 0, rem
		}
		if rel3 := e.relativeOnesCount(3); rem < rel3 {
			return 2, rem - rel2
		} else {
			return 3, rem - rel3
		}
	}
	if rel6 := e.relativeOnesCount(6); rem < rel6 {
		if rel5 := e.relativeOnesCount(5); rem < rel5 {
			return 4, rem - rel4
		} else {
			return 5, rem - rel5
		}
	} else if rel7 := e.relativeOnesCount(7); rem < rel7 {
		return 6, rem - rel6
	} else {
		return 7, rem - rel7
	}
}

// findZerosWord is the mirror of findOnesWord for clear bits: the zero
// count at word boundary k is 64*k minus the relative ones count.
// REQUIRES: rem < zeros in the block.
func (e *rankIndexEntry) findZerosWord(rem uint32) (int, uint32) {
	if rem < 4*wordBits-uint32(e.relativeOnesCount4) {
		if rem < 2*wordBits-e.relativeOnesCount(2) {
			if z1 := wordBits - e.relativeOnesCount(1); rem >= z1 {
				return 1, rem - z1
			}
			return 0, rem
		}
		if z3 := 3*wordBits - e.relativeOnesCount(3); rem < z3 {
			return 2, rem - (2*wordBits - e.relativeOnesCount(2))
		} else {
			return 3, rem - z3
		}
	}
	if rem < 6*wordBits-e.relativeOnesCount(6) {
		if z5 := 5*wordBits - e.relativeOnesCount(5); rem < z5 {
			return 4, rem - (4*wordBits - uint32(e.relativeOnesCount4))
		} else {
			return 5, rem - z5
		}
	} else if z7 := 7*wordBits - e.relativeOnesCount(7); rem < z7 {
		return 6, rem - (6*wordBits - e.relativeOnesCount(6))
	} else {
		return 7, rem - z7
	}
}
