// Copyright 2026 The Trible Authors
// SPDX-License-Identifier: Apache-2.0

// Package blob implements the variable-length payload layer. Facts
// only embed 32 bytes; anything longer lives in a blob store and is
// referenced by a Handle, the content hash of the blob, typed by
// both the hash protocol and the blob's schema so dereferencing is
// statically tied to the expected interpretation.
//
// Two handles are equal exactly when the referenced bytes are equal;
// that is the system's deduplication mechanism for large payloads.
package blob

import (
	"errors"
	"unicode/utf8"
)

// Schema is the constraint for blob schema markers: a validation
// predicate over the raw bytes plus a stable name recorded in store
// metadata.
type Schema interface {
	Name() string
	Validate(data []byte) error
}

// ErrInvalidUTF8 is returned when LongString bytes are not
// well-formed UTF-8.
var ErrInvalidUTF8 = errors.New("blob: long string must be valid UTF-8")

// LongString is the schema for UTF-8 text too large for the inline
// 32-byte ShortString value.
type LongString struct{}

// Name returns "longstring".
func (LongString) Name() string { return "longstring" }

// Validate checks UTF-8 well-formedness.
func (LongString) Validate(data []byte) error {
	if !utf8.Valid(data) {
		return ErrInvalidUTF8
	}
	return nil
}

// Bytes is the schema for raw, uninterpreted file content.
type Bytes struct{}

// Name returns "bytes".
func (Bytes) Name() string { return "bytes" }

// Validate accepts anything.
func (Bytes) Validate([]byte) error { return nil }

// Blob is a schema-tagged byte payload. A Blob that exists has passed
// its schema's validation (or was forced by internal code).
type Blob[S Schema] struct {
	data []byte
}

// New constructs a blob after running S's validation.
func New[S Schema](data []byte) (Blob[S], error) {
	var s S
	if err := s.Validate(data); err != nil {
		return Blob[S]{}, err
	}
	return Blob[S]{data: data}, nil
}

// Force constructs a blob without validation, for code that produced
// the bytes itself (for example the archive encoder).
func Force[S Schema](data []byte) Blob[S] {
	return Blob[S]{data: data}
}

// Data returns the underlying bytes. Blobs are logically immutable;
// callers must not modify the returned slice.
func (b Blob[S]) Data() []byte {
	return b.data
}

// Len returns the payload size in bytes.
func (b Blob[S]) Len() int {
	return len(b.data)
}

// FromString builds a LongString blob. Go strings are not guaranteed
// UTF-8, so validation still runs.
func FromString(s string) (Blob[LongString], error) {
	return New[LongString]([]byte(s))
}

// AsString decodes a LongString blob.
func AsString(b Blob[LongString]) string {
	return string(b.data)
}
