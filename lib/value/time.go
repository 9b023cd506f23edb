// Copyright 2026 The Trible Authors
// SPDX-License-Identifier: Apache-2.0

package value

import "time"

// Epoch is an instant encoded as a signed 256-bit big-endian count of
// nanoseconds since the Unix epoch, the I256 layout with a temporal
// interpretation. The width is deliberate overkill: instants far
// outside the int64 range round-trip through archives untouched, and
// only the conversion to time.Time is range-checked.
type Epoch struct{}

// Validate accepts any byte pattern.
func (Epoch) Validate([Size]byte) error { return nil }

// FromTime encodes an instant at nanosecond precision. The monotonic
// clock reading, if any, is discarded.
func FromTime(t time.Time) Value[Epoch] {
	return Value[Epoch]{raw: FromInt64(t.UnixNano()).raw}
}

// ToTime decodes an instant that fits the int64 nanosecond range, or
// returns ErrRange.
func ToTime(v Value[Epoch]) (time.Time, error) {
	nanos, err := ToInt64(Value[I256]{raw: v.raw})
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(0, nanos).UTC(), nil
}
