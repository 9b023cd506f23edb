// Copyright 2026 The Trible Authors
// SPDX-License-Identifier: Apache-2.0

package value

import "errors"

// ErrInvalidBoolean is returned for boolean bytes that are neither all
// 0x00 nor all 0xFF.
var ErrInvalidBoolean = errors.New("value: boolean bytes must be all 0x00 or all 0xFF")

// Boolean encodes false as 32 zero bytes and true as 32 0xFF bytes.
// The encoding spends 32 bytes on one bit so that the truth test is a
// single byte load with no masking, and so that vectorized scans over
// packed value columns can test 32 lanes at once.
type Boolean struct{}

// Validate rejects any mixed byte pattern.
func (Boolean) Validate(raw [Size]byte) error {
	first := raw[0]
	if first != 0x00 && first != 0xFF {
		return ErrInvalidBoolean
	}
	for _, b := range raw[1:] {
		if b != first {
			return ErrInvalidBoolean
		}
	}
	return nil
}

// FromBool encodes a host boolean.
func FromBool(b bool) Value[Boolean] {
	var raw [Size]byte
	if b {
		for i := range raw {
			raw[i] = 0xFF
		}
	}
	return Value[Boolean]{raw: raw}
}

// ToBool decodes a validated boolean value. Only byte 0 is consulted;
// validation already guarantees all bytes agree.
func ToBool(v Value[Boolean]) bool {
	return v.raw[0] != 0
}
