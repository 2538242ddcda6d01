// Copyright 2025 The Bitindex Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package bitindex

import "math/bits"

const (
	// wordBits is the number of bits in one storage word.
	wordBits = 64
	// wordLogBits is log2(wordBits), used to convert bit positions to word
	// indexes with a shift.
	wordLogBits = 6
	// wordMask extracts the in-word bit offset from a bit position.
	wordMask = wordBits - 1
)

// lowBitsMask[i] has the low i bits set.
var lowBitsMask = func() (m [wordBits]uint64) {
	for i := range m {
		m[i] = uint64(1)<<i - 1
	}
	return m
}()

// StorageSize returns the number of 64-bit words required to hold numBits
// bits.
func StorageSize(numBits int) int {
	return (numBits + wordMask) >> wordLogBits
}

// Get reports whether bit i of the word-packed bit vector is set. Bits are
// packed least-significant-bit first.
func Get(words []uint64, i int) bool {
	return words[i>>wordLogBits]&(uint64(1)<<(i&wordMask)) != 0
}

// Set sets bit i of the word-packed bit vector.
//
// Get, Set and Clear operate directly on the caller's words, independent of
// any built index, so callers may mutate bits between rebuilds.
func Set(words []uint64, i int) {
	words[i>>wordLogBits] |= uint64(1) << (i & wordMask)
}

// Clear clears bit i of the word-packed bit vector.
func Clear(words []uint64, i int) {
	words[i>>wordLogBits] &^= uint64(1) << (i & wordMask)
}

// selectWord returns the position of the n-th (0-based) set bit of w.
// REQUIRES: n < bits.OnesCount64(w).
func selectWord(w uint64, n int) int {
	// Halve the search space twice by popcount, then walk the remaining
	// byte bit by bit.
	var pos int
	if c := bits.OnesCount32(uint32(w)); n >= c {
		n -= c
		pos += 32
		w >>= 32
	}
	if c := bits.OnesCount16(uint16(w)); n >= c {
		n -= c
		pos += 16
		w >>= 16
	}
	if c := bits.OnesCount8(uint8(w)); n >= c {
		n -= c
		pos += 8
		w >>= 8
	}
	for {
		if w&1 != 0 {
			if n == 0 {
				return pos
			}
			n--
		}
		pos++
		w >>= 1
	}
}
