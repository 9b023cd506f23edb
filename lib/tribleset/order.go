// Copyright 2026 The Trible Authors
// SPDX-License-Identifier: Apache-2.0

package tribleset

import "github.com/trible-foundation/trible/lib/trible"

// Column permutations for the maintained key orders. EAV keys are the
// fact's own byte layout; AEV and VEA reorder the three columns so
// the trie's leading bytes match the columns a pattern binds first.
//
// Offsets within a fact: entity 0..16, attribute 16..32, value 32..64.

// permuteAEV rewrites an EAV record into attribute-major key order.
func permuteAEV(t trible.Trible) (key [keySize]byte) {
	copy(key[0:16], t[16:32])  // attribute
	copy(key[16:32], t[0:16])  // entity
	copy(key[32:64], t[32:64]) // value
	return key
}

// restoreAEV recovers the fact from an attribute-major key.
func restoreAEV(key [keySize]byte) (t trible.Trible) {
	copy(t[0:16], key[16:32])
	copy(t[16:32], key[0:16])
	copy(t[32:64], key[32:64])
	return t
}

// permuteVEA rewrites an EAV record into value-major key order.
func permuteVEA(t trible.Trible) (key [keySize]byte) {
	copy(key[0:32], t[32:64])  // value
	copy(key[32:48], t[0:16])  // entity
	copy(key[48:64], t[16:32]) // attribute
	return key
}

// restoreVEA recovers the fact from a value-major key.
func restoreVEA(key [keySize]byte) (t trible.Trible) {
	copy(t[32:64], key[0:32])
	copy(t[0:16], key[32:48])
	copy(t[16:32], key[48:64])
	return t
}
