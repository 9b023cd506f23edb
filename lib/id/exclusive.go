// Copyright 2026 The Trible Authors
// SPDX-License-Identifier: Apache-2.0

package id

import "sync/atomic"

// Exclusive is a single-use claim over a freshly minted identifier.
// Holding one proves that no fact naming the identifier as its entity
// has been committed by this process yet, which is what makes "build
// all facts for a new entity, then commit them together" safe against
// accidental reuse.
//
// The claim is consumed exactly once by Release. Using the claim after
// release (or releasing twice) is a programming error and panics —
// this is deliberate linear-capability behavior, not a recoverable
// condition.
type Exclusive struct {
	id       ID
	released atomic.Bool
}

// Mint allocates a fresh random identifier and returns the exclusive
// claim over it.
func Mint() *Exclusive {
	return &Exclusive{id: Random()}
}

// ID returns the claimed identifier. Panics if the claim was already
// released.
func (e *Exclusive) ID() ID {
	if e.released.Load() {
		panic("id: use of released exclusive claim")
	}
	return e.id
}

// Release consumes the claim and returns the identifier for the final
// commit step. Panics on double release.
func (e *Exclusive) Release() ID {
	if e.released.Swap(true) {
		panic("id: double release of exclusive claim")
	}
	return e.id
}
