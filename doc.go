// Copyright 2025 The Bitindex Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

// Package bitindex provides constant and near-constant-time rank and select
// queries over a large, static bit vector packed into 64-bit words.
//
// The bit vector itself is owned by the caller; BitmapIndex holds only a
// borrowed view of it. On top of the raw words the index maintains a primary
// rank index of packed 12-byte entries, one per 512-bit block: an absolute
// count of the ones before the block and seven relative popcount checkpoints
// within it, one per word boundary. Rank1 answers in O(1) from one entry and
// one masked popcount. Select1 and Select0 binary search the absolute counts
// (or linearly scan when the candidate range spans at most eight blocks),
// then walk a fixed comparison tree over the relative counts to find the
// word, then locate the n-th set bit within that word.
//
// Optional sparse select samples, enabled independently for zeros and ones,
// record the position of every 512th zero (resp. one) and narrow the search
// range for select queries from the whole index to a handful of blocks.
// Enabling or disabling them never changes query results, only latency.
//
// The structure targets succinct encodings in which a bit vector records
// structural presence and rank/select translate bit positions into dense
// array offsets, such as compacted n-gram or trie representations. Overhead
// is 12 bytes of index per 64 bytes of bits (18.75%), plus 6.25% scaled by
// the zero/one density for each enabled select sample.
//
// A built index is immutable and safe for concurrent readers without
// locking. Building requires exclusive access, and mutating the underlying
// words invalidates all queries until BuildIndex is called again; no
// staleness detection exists.
package bitindex
