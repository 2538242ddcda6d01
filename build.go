// Copyright 2025 The Bitindex Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package bitindex

import (
	"math/bits"
	"slices"

	"github.com/cockroachdb/errors"
)

// maxBits bounds the supported vector length. Absolute counts are stored as
// uint32, so only vectors with fewer than 2^32 ones are representable; the
// input length is checked against the same bound to keep things simple.
const maxBits = 1 << 32

// BuildIndex (re)builds the index over the given word-packed bit vector of
// numBits bits. The slice is borrowed, not copied: the caller owns its
// lifetime and must call BuildIndex again after mutating any bits, or every
// subsequent query result is undefined. enableSelect0 and enableSelect1
// independently enable the sparse select sample indexes.
//
// Construction is a single pass over the words. It either completes fully
// or returns an error before any state is modified.
func (idx *BitmapIndex) BuildIndex(words []uint64, numBits int, enableSelect0, enableSelect1 bool) error {
	if numBits < 0 || uint64(numBits) >= maxBits {
		return errors.Errorf("bitindex: vector of %d bits exceeds the index capacity of %d", numBits, uint64(maxBits)-1)
	}
	arraySize := StorageSize(numBits)
	if len(words) < arraySize {
		return errors.Errorf("bitindex: %d words cannot hold %d bits (need %d)", len(words), numBits, arraySize)
	}

	idx.words = words
	idx.numBits = numBits
	idx.rankIndex = make([]rankIndexEntry, (arraySize+wordsPerRankEntry-1)/wordsPerRankEntry+1)

	idx.select0Index = nil
	if enableSelect0 {
		// Reserve approximately enough for density 1/2.
		idx.select0Index = make([]uint32, 0, numBits/(2*bitsPerSelect0Sample)+1)
	}
	idx.select1Index = nil
	if enableSelect1 {
		idx.select1Index = make([]uint32, 0, numBits/(2*bitsPerSelect1Sample)+1)
	}

	var onesCount, zerosCount int
	for wordIndex := 0; wordIndex < arraySize; wordIndex += wordsPerRankEntry {
		// Virtual words past the end of the array are zero.
		var block [wordsPerRankEntry]uint64
		var wordOnes [wordsPerRankEntry]int
		for i := range block {
			if wordIndex+i < arraySize {
				block[i] = words[wordIndex+i]
				wordOnes[i] = bits.OnesCount64(block[i])
			}
		}

		e := &idx.rankIndex[wordIndex/wordsPerRankEntry]
		absOnes := onesCount
		e.absoluteOnesCount = uint32(absOnes)
		for k := 1; k < wordsPerRankEntry; k++ {
			onesCount += wordOnes[k-1]
			e.setRelativeOnesCount(k, uint32(onesCount-absOnes))
		}
		onesCount += wordOnes[wordsPerRankEntry-1]

		if enableSelect0 {
			s0 := zerosCount
			for i := 0; i < wordsPerRankEntry; i++ {
				bitOffset := (wordIndex + i) * wordBits
				if bitOffset >= numBits {
					break
				}
				// The last word has padding zeros in its high bits; clamp
				// the effective width before subtracting the popcount so
				// they are not counted.
				wordZeros := min(numBits-bitOffset, wordBits) - wordOnes[i]

				// A sample is recorded every bitsPerSelect0Sample zeros:
				// with s0 zeros seen, the next sampled zero is
				// -s0 mod bitsPerSelect0Sample zeros away.
				zerosToSkip := (bitsPerSelect0Sample - s0%bitsPerSelect0Sample) % bitsPerSelect0Sample
				if wordZeros > zerosToSkip {
					nth := selectWord(^block[i], zerosToSkip)
					idx.select0Index = append(idx.select0Index, uint32(bitOffset+nth))
					// One block holds at most 512 bits, so a second sample
					// cannot fall in it.
					break
				}
				s0 += wordZeros
			}
			zerosCount += bitsPerRankEntry - (onesCount - absOnes)
		}

		if enableSelect1 {
			s1 := absOnes
			for i := 0; i < wordsPerRankEntry; i++ {
				onesToSkip := (bitsPerSelect1Sample - s1%bitsPerSelect1Sample) % bitsPerSelect1Sample
				if wordOnes[i] > onesToSkip {
					nth := selectWord(block[i], onesToSkip)
					idx.select1Index = append(idx.select1Index, uint32((wordIndex+i)*wordBits+nth))
					break
				}
				s1 += wordOnes[i]
			}
		}
	}

	// The sentinel entry holds the grand total.
	idx.rankIndex[len(idx.rankIndex)-1].absoluteOnesCount = uint32(onesCount)

	if enableSelect0 {
		idx.select0Index = append(idx.select0Index, uint32(numBits))
		idx.select0Index = slices.Clip(idx.select0Index)
	}
	if enableSelect1 {
		idx.select1Index = append(idx.select1Index, uint32(numBits))
		idx.select1Index = slices.Clip(idx.select1Index)
	}
	return nil
}
