// Copyright 2026 The Trible Authors
// SPDX-License-Identifier: Apache-2.0

package value

import (
	"bytes"
	"errors"
	"strings"
	"unicode/utf8"
)

// ErrInvalidString is returned for short-string bytes that are not
// NUL-padded UTF-8, and for host strings that do not fit the inline
// encoding. Longer strings belong in the blob layer as LongString.
var ErrInvalidString = errors.New("value: short string must be NUL-padded UTF-8 of at most 32 bytes")

// ShortString is an inline UTF-8 string of up to 32 bytes, padded with
// trailing NUL bytes. Interior NUL is forbidden so the padding
// boundary is unambiguous.
type ShortString struct{}

// Validate checks NUL padding and UTF-8 well-formedness.
func (ShortString) Validate(raw [Size]byte) error {
	content := raw[:]
	if i := bytes.IndexByte(content, 0); i >= 0 {
		for _, b := range content[i:] {
			if b != 0 {
				return ErrInvalidString
			}
		}
		content = content[:i]
	}
	if !utf8.Valid(content) {
		return ErrInvalidString
	}
	return nil
}

// FromString encodes a host string that fits the inline form.
func FromString(s string) (Value[ShortString], error) {
	if len(s) > Size || strings.IndexByte(s, 0) >= 0 || !utf8.ValidString(s) {
		return Value[ShortString]{}, ErrInvalidString
	}
	var raw [Size]byte
	copy(raw[:], s)
	return Value[ShortString]{raw: raw}, nil
}

// ToString decodes a validated short string, dropping the padding.
func ToString(v Value[ShortString]) string {
	content := v.raw[:]
	if i := bytes.IndexByte(content, 0); i >= 0 {
		content = content[:i]
	}
	return string(content)
}
