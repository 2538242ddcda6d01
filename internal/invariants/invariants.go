// Copyright 2025 The Bitindex Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

// Package invariants provides assertion helpers that compile to no-ops
// unless the "invariants" or "race" build tags are set. Hot-path bounds and
// bracketing checks in the index are routed through this package so that
// release builds trust their callers.
package invariants

import "github.com/gosuccinct/bitindex/internal/buildtags"

// RaceEnabled is true if we were built with the "race" build tag.
const RaceEnabled = buildtags.Race

// Integer is a constraint that permits any integer type.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}
