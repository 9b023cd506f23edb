// Copyright 2026 The Trible Authors
// SPDX-License-Identifier: Apache-2.0

package value

import (
	"encoding/binary"
	"math/big"
)

// U256 is an unsigned 256-bit integer, big-endian. Every byte pattern
// is a valid value. A uint64 occupies bytes 24..31.
type U256 struct{}

// Validate accepts any byte pattern.
func (U256) Validate([Size]byte) error { return nil }

// FromUint64 encodes a host unsigned integer into the low eight bytes.
func FromUint64(u uint64) Value[U256] {
	var raw [Size]byte
	binary.BigEndian.PutUint64(raw[24:], u)
	return Value[U256]{raw: raw}
}

// ToUint64 decodes a U256 that fits in a uint64, or returns ErrRange.
func ToUint64(v Value[U256]) (uint64, error) {
	for _, b := range v.raw[:24] {
		if b != 0 {
			return 0, ErrRange
		}
	}
	return binary.BigEndian.Uint64(v.raw[24:]), nil
}

// U256FromBigInt encodes a non-negative integer below 2^256.
func U256FromBigInt(i *big.Int) (Value[U256], error) {
	if i.Sign() < 0 || i.BitLen() > 256 {
		return Value[U256]{}, ErrRange
	}
	var raw [Size]byte
	i.FillBytes(raw[:])
	return Value[U256]{raw: raw}, nil
}

// U256ToBigInt decodes the full 256-bit value.
func U256ToBigInt(v Value[U256]) *big.Int {
	return new(big.Int).SetBytes(v.raw[:])
}

// two256 is 2^256, used for two's-complement conversion.
var two256 = new(big.Int).Lsh(big.NewInt(1), 256)

// I256 is a signed 256-bit integer, big-endian two's complement.
// Every byte pattern is a valid value. An int64 occupies bytes 24..31
// with sign extension through bytes 0..23.
type I256 struct{}

// Validate accepts any byte pattern.
func (I256) Validate([Size]byte) error { return nil }

// FromInt64 encodes a host signed integer with sign extension.
func FromInt64(i int64) Value[I256] {
	var raw [Size]byte
	if i < 0 {
		for j := range raw[:24] {
			raw[j] = 0xFF
		}
	}
	binary.BigEndian.PutUint64(raw[24:], uint64(i))
	return Value[I256]{raw: raw}
}

// ToInt64 decodes an I256 that fits in an int64, or returns ErrRange.
func ToInt64(v Value[I256]) (int64, error) {
	low := int64(binary.BigEndian.Uint64(v.raw[24:]))

	var fill byte
	if v.raw[0]&0x80 != 0 {
		fill = 0xFF
	}
	for _, b := range v.raw[:24] {
		if b != fill {
			return 0, ErrRange
		}
	}
	// The sign of the low word must agree with the extension bytes,
	// otherwise the value needs more than 64 bits.
	if (fill == 0xFF) != (low < 0) {
		return 0, ErrRange
	}
	return low, nil
}

// I256FromBigInt encodes an integer in [-2^255, 2^255).
func I256FromBigInt(i *big.Int) (Value[I256], error) {
	if i.Cmp(minI256) < 0 || i.Cmp(maxI256) > 0 {
		return Value[I256]{}, ErrRange
	}
	encoded := new(big.Int).Set(i)
	if encoded.Sign() < 0 {
		encoded.Add(encoded, two256)
	}
	var raw [Size]byte
	encoded.FillBytes(raw[:])
	return Value[I256]{raw: raw}, nil
}

// I256ToBigInt decodes the full signed 256-bit value.
func I256ToBigInt(v Value[I256]) *big.Int {
	out := new(big.Int).SetBytes(v.raw[:])
	if v.raw[0]&0x80 != 0 {
		out.Sub(out, two256)
	}
	return out
}

// I256 bounds: [-2^255, 2^255 - 1].
var (
	minI256 = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 255))
	maxI256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 255), big.NewInt(1))
)
