// Copyright 2025 The Bitindex Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package bitindex

import (
	"unsafe"

	"github.com/gosuccinct/bitindex/internal/invariants"
)

const (
	// wordsPerRankEntry is the number of storage words summarized by one
	// rankIndexEntry: 8 words, one cache line on x86_64 and ARM.
	wordsPerRankEntry = 8
	// bitsPerRankEntry is the number of bits covered by one rankIndexEntry.
	bitsPerRankEntry = wordsPerRankEntry * wordBits

	// rankIndexEntrySize is the packed size of a rankIndexEntry: 12 bytes
	// of index per 64 bytes of bits, an 18.75% overhead.
	rankIndexEntrySize = 12
)

// rankIndexEntry summarizes one 512-bit block of the bit vector. It holds
// one absolute count of all the ones before the block and seven relative
// counts of the ones within it, where
//
//	relativeOnesCount(k) == Rank1(512*i + 64*k) - Rank1(512*i)
//
// for the i-th entry. The whole record packs into 12 bytes: counts 1-3 fit
// a byte each (three words hold at most 192 ones), count 4 is stored wide
// because the select decision tree probes it first, and counts 5-7 are
// stored as single-byte deltas from count 4.
type rankIndexEntry struct {
	absoluteOnesCount uint32
	// relativeOnesCount4 is kept as a 16-bit field so decoding it needs no
	// delta addition.
	relativeOnesCount4 uint16
	// relativeOnesCounts[0..2] hold relative counts 1-3 directly;
	// [3..5] hold relative counts 5-7 minus relative count 4.
	relativeOnesCounts [6]uint8
}

func init() {
	// The layout above must meet the 12-byte packing budget; a padded entry
	// would silently inflate IndexBytes.
	if unsafe.Sizeof(rankIndexEntry{}) != rankIndexEntrySize {
		panic("bitindex: rankIndexEntry must pack into 12 bytes")
	}
}

// relativeOnesCount returns the count of ones in the first k words of the
// block, k in [0, 8).
func (e *rankIndexEntry) relativeOnesCount(k int) uint32 {
	invariants.CheckBounds(k, wordsPerRankEntry)
	switch {
	case k == 0:
		return 0
	case k < 4:
		return uint32(e.relativeOnesCounts[k-1])
	case k == 4:
		return uint32(e.relativeOnesCount4)
	default:
		return uint32(e.relativeOnesCount4) + uint32(e.relativeOnesCounts[k-2])
	}
}

// setRelativeOnesCount records the count of ones in the first k words of
// the block, k in [1, 8). Counts must be set in increasing k order: setting
// count 4 after any of counts 5-7 would leave their deltas against a stale
// base, so it panics in invariant builds.
func (e *rankIndexEntry) setRelativeOnesCount(k int, v uint32) {
	invariants.CheckBounds(k-1, wordsPerRankEntry-1)
	invariants.CheckLE(v, uint32(k*wordBits))
	switch {
	case k < 4:
		e.relativeOnesCounts[k-1] = uint8(v)
	case k == 4:
		if invariants.Enabled && (e.relativeOnesCounts[3] != 0 ||
			e.relativeOnesCounts[4] != 0 || e.relativeOnesCounts[5] != 0) {
			panic("bitindex: relative count 4 set after counts 5-7")
		}
		e.relativeOnesCount4 = uint16(v)
	default:
		e.relativeOnesCounts[k-2] = uint8(v - uint32(e.relativeOnesCount4))
	}
}
