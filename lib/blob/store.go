// Copyright 2026 The Trible Authors
// SPDX-License-Identifier: Apache-2.0

package blob

import (
	"errors"
	"fmt"
	"iter"

	"github.com/trible-foundation/trible/lib/hash"
)

// Store is the minimal contract a blob store backend satisfies. It
// deals in raw bytes keyed by digest; the typed Put/Get functions
// layer schema checking on top.
//
// Put must be idempotent by content: storing identical bytes twice
// yields the same digest and at most one stored copy. Get for absent
// content returns a NotFoundError, never panics.
type Store[P hash.Protocol] interface {
	// PutBytes stores data and returns its digest.
	PutBytes(data []byte) (hash.Hash[P], error)

	// GetBytes retrieves the content for a digest.
	GetBytes(digest hash.Hash[P]) ([]byte, error)

	// All yields a point-in-time snapshot of stored digests. Content
	// added after the call may or may not appear.
	All() iter.Seq[hash.Hash[P]]
}

// NotFoundError reports that a store holds no content for a digest.
// The digest is carried for diagnosis; the core never retries on the
// caller's behalf.
type NotFoundError struct {
	Digest string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("blob: no content stored for %s", e.Digest)
}

// IsNotFound reports whether err (or anything it wraps) is a
// NotFoundError.
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}

// Put validates nothing (the Blob already passed its schema) and
// stores its bytes, returning the typed handle.
func Put[P hash.Protocol, S Schema](store Store[P], b Blob[S]) (Handle[P, S], error) {
	digest, err := store.PutBytes(b.data)
	if err != nil {
		return Handle[P, S]{}, fmt.Errorf("blob: storing %d bytes: %w", len(b.data), err)
	}
	return Handle[P, S]{digest: digest}, nil
}

// Get retrieves the content a handle points to and re-validates it
// against the handle's schema, so a corrupted or mistyped blob is
// caught at the boundary rather than downstream.
func Get[P hash.Protocol, S Schema](store Store[P], h Handle[P, S]) (Blob[S], error) {
	data, err := store.GetBytes(h.digest)
	if err != nil {
		return Blob[S]{}, err
	}
	out, err := New[S](data)
	if err != nil {
		return Blob[S]{}, fmt.Errorf("blob: content for %s failed schema check: %w", h.digest, err)
	}
	return out, nil
}
