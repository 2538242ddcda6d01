// Copyright 2025 The Bitindex Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package bitindex

import (
	"math/bits"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestSelectWord(t *testing.T) {
	// Exhaustive positions in hand-picked words.
	for _, w := range []uint64{
		1, 1 << 63, 0b1010, ^uint64(0), 0xaaaaaaaaaaaaaaaa,
		0x5555555555555555, 0x8000000000000001, 0x00000000ffffffff,
		0xffffffff00000000, 0x0123456789abcdef,
	} {
		n := 0
		for pos := 0; pos < 64; pos++ {
			if w&(1<<pos) != 0 {
				require.Equal(t, pos, selectWord(w, n), "word %#x n %d", w, n)
				n++
			}
		}
		require.Equal(t, bits.OnesCount64(w), n)
	}
}

func TestSelectWordRandom(t *testing.T) {
	seed := uint64(time.Now().UnixNano())
	t.Logf("seed: %d", seed)
	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < 1000; i++ {
		w := rng.Uint64()
		n := 0
		for pos := 0; pos < 64; pos++ {
			if w&(1<<pos) != 0 {
				if got := selectWord(w, n); got != pos {
					t.Fatalf("selectWord(%#x, %d) = %d; want %d", w, n, got, pos)
				}
				n++
			}
		}
	}
}

func TestBitAccessors(t *testing.T) {
	seed := uint64(time.Now().UnixNano())
	t.Logf("seed: %d", seed)
	rng := rand.New(rand.NewSource(seed))

	const numBits = 1000
	words := make([]uint64, StorageSize(numBits))
	ref := make([]bool, numBits)
	for step := 0; step < 10000; step++ {
		i := rng.Intn(numBits)
		if rng.Intn(2) == 0 {
			Set(words, i)
			ref[i] = true
		} else {
			Clear(words, i)
			ref[i] = false
		}
	}
	for i := 0; i < numBits; i++ {
		require.Equal(t, ref[i], Get(words, i), "bit %d", i)
	}
}

func TestStorageSize(t *testing.T) {
	testCases := []struct {
		numBits int
		want    int
	}{
		{0, 0}, {1, 1}, {63, 1}, {64, 1}, {65, 2},
		{511, 8}, {512, 8}, {513, 9}, {100000, 1563},
	}
	for _, tc := range testCases {
		require.Equal(t, tc.want, StorageSize(tc.numBits), "numBits %d", tc.numBits)
	}
}
