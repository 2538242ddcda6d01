// Copyright 2025 The Bitindex Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package bitindex

import (
	"github.com/cockroachdb/crlib/crhumanize"
	"github.com/cockroachdb/redact"
)

// Metrics describes the space consumed by an indexed bit vector, split into
// the raw bit storage (owned by the caller) and the index structures built
// on top of it. Callers embedding the index in a persistent format use it
// for space budgeting.
type Metrics struct {
	// ArrayBytes is the size of the borrowed bit storage.
	ArrayBytes uint64
	// IndexBytes is the size of the rank index and any select samples.
	IndexBytes uint64
}

// Metrics returns the space accounting for the built index.
func (idx *BitmapIndex) Metrics() Metrics {
	return Metrics{
		ArrayBytes: idx.ArrayBytes(),
		IndexBytes: idx.IndexBytes(),
	}
}

// Total returns the combined size of bit storage and index.
func (m Metrics) Total() uint64 { return m.ArrayBytes + m.IndexBytes }

func (m Metrics) String() string {
	return redact.StringWithoutMarkers(m)
}

// SafeFormat implements redact.SafeFormatter.
func (m Metrics) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("array: %s  index: %s",
		crhumanize.Bytes(m.ArrayBytes, crhumanize.Compact, crhumanize.OmitI),
		crhumanize.Bytes(m.IndexBytes, crhumanize.Compact, crhumanize.OmitI))
}
