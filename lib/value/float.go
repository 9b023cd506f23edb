// Copyright 2026 The Trible Authors
// SPDX-License-Identifier: Apache-2.0

package value

import (
	"encoding/binary"
	"errors"
	"math"
	"math/big"
)

// ErrInvalidFloat is returned for F256 byte patterns that use the
// reserved exponent or encode a nonzero fraction with a zero exponent,
// and for attempts to encode non-finite host floats.
var ErrInvalidFloat = errors.New("value: invalid 256-bit float encoding")

// F256 is a 256-bit binary float, big-endian:
//
//	byte 0, bit 7      sign (1 = negative)
//	byte 0 bits 0..6,
//	byte 1             15-bit exponent, bias 16383
//	bytes 2..31        240-bit fraction with an implicit leading 1
//
// Exponent 0 encodes zero (the fraction must also be zero; there are
// no subnormals). Exponent 0x7FFF is reserved; infinities and NaNs
// are not representable.
type F256 struct{}

const (
	f256ExpBias = 16383
	f256ExpMax  = 0x7FFF
	f256Frac    = 240 // fraction width in bits
)

// Validate rejects the reserved exponent and nonzero fractions with a
// zero exponent.
func (F256) Validate(raw [Size]byte) error {
	exp := f256Exponent(raw)
	if exp == f256ExpMax {
		return ErrInvalidFloat
	}
	if exp == 0 {
		for _, b := range raw[2:] {
			if b != 0 {
				return ErrInvalidFloat
			}
		}
	}
	return nil
}

// FromFloat64 encodes a finite host float exactly (float64 has 53
// significant bits, well within the 241 available).
func FromFloat64(f float64) (Value[F256], error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value[F256]{}, ErrInvalidFloat
	}

	var raw [Size]byte
	if f == 0 {
		if math.Signbit(f) {
			raw[0] = 0x80
		}
		return Value[F256]{raw: raw}, nil
	}

	// Frexp normalizes to |frac| in [0.5, 1), so f = 1.m * 2^(exp-1)
	// where m is frac's own 52-bit mantissa. frac is a normal float64
	// even when f is subnormal, so the implicit-1 extraction is safe.
	frac, exp := math.Frexp(f)
	mantissa := math.Float64bits(math.Abs(frac)) & (1<<52 - 1)

	stored := uint16(exp - 1 + f256ExpBias)
	raw[0] = byte(stored >> 8)
	raw[1] = byte(stored)
	if math.Signbit(f) {
		raw[0] |= 0x80
	}

	// Left-align the 52 mantissa bits within the 240-bit fraction.
	fraction := new(big.Int).Lsh(new(big.Int).SetUint64(mantissa), f256Frac-52)
	fraction.FillBytes(raw[2:])
	return Value[F256]{raw: raw}, nil
}

// ToFloat64 decodes to the nearest host float. Values outside the
// float64 range come back as ±Inf or ±0 per big.Float rounding; the
// encoding itself is always finite.
func ToFloat64(v Value[F256]) float64 {
	f, _ := ToBigFloat(v).Float64()
	return f
}

// FromBigFloat encodes a finite big.Float. Mantissas wider than 241
// bits are rounded to nearest; exponents outside the 15-bit biased
// range return ErrRange.
func FromBigFloat(f *big.Float) (Value[F256], error) {
	if f.IsInf() {
		return Value[F256]{}, ErrInvalidFloat
	}

	var raw [Size]byte
	if f.Sign() == 0 {
		if f.Signbit() {
			raw[0] = 0x80
		}
		return Value[F256]{raw: raw}, nil
	}

	mant := new(big.Float)
	exp := f.MantExp(mant) // |mant| in [0.5, 1), f = mant * 2^exp

	stored := exp - 1 + f256ExpBias
	if stored < 1 || stored >= f256ExpMax {
		return Value[F256]{}, ErrRange
	}

	// fraction = (|mant| * 2 - 1) * 2^240, the bits after the
	// implicit 1. SetMantExp(x, k) computes x * 2^k, so the two calls
	// are plain shifts. Rounding |mant| to 241 bits can carry all the
	// way up to 2.0, in which case the exponent bumps and the fraction
	// clears.
	scaled := new(big.Float).SetPrec(f256Frac + 1).Abs(mant)
	scaled.SetMantExp(scaled, 1)        // [1, 2]
	scaled.Sub(scaled, big.NewFloat(1)) // [0, 1]
	scaled.SetMantExp(scaled, f256Frac) // [0, 2^240]
	fraction, _ := scaled.Int(nil)
	if fraction.BitLen() > f256Frac {
		stored++
		if stored >= f256ExpMax {
			return Value[F256]{}, ErrRange
		}
		fraction.SetInt64(0)
	}

	raw[0] = byte(stored >> 8)
	raw[1] = byte(stored)
	if f.Signbit() {
		raw[0] |= 0x80
	}
	fraction.FillBytes(raw[2:])
	return Value[F256]{raw: raw}, nil
}

// ToBigFloat decodes the exact value with 241 bits of precision.
func ToBigFloat(v Value[F256]) *big.Float {
	exp := f256Exponent(v.raw)
	negative := v.raw[0]&0x80 != 0

	out := new(big.Float).SetPrec(f256Frac + 1)
	if exp == 0 {
		if negative {
			out.Neg(out)
		}
		return out
	}

	// significand = 2^240 + fraction; value = significand * 2^(e-240)
	// where e is the unbiased exponent.
	significand := new(big.Int).SetBytes(v.raw[2:])
	significand.SetBit(significand, f256Frac, 1)
	out.SetInt(significand)
	out.SetMantExp(out, int(exp)-f256ExpBias-f256Frac)
	if negative {
		out.Neg(out)
	}
	return out
}

// f256Exponent extracts the 15-bit biased exponent.
func f256Exponent(raw [Size]byte) uint16 {
	return binary.BigEndian.Uint16(raw[:2]) & 0x7FFF
}
