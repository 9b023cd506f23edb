// Copyright 2026 The Trible Authors
// SPDX-License-Identifier: Apache-2.0

package blob

import (
	"iter"
	"sync"

	"github.com/trible-foundation/trible/lib/hash"
)

// MemoryStore is the in-memory reference store, safe for concurrent
// use. It is the backend of choice for tests and for ephemeral
// imports whose blobs never need to outlive the process.
type MemoryStore[P hash.Protocol] struct {
	mu    sync.RWMutex
	blobs map[hash.Hash[P]][]byte
}

// NewMemoryStore returns an empty store.
func NewMemoryStore[P hash.Protocol]() *MemoryStore[P] {
	return &MemoryStore[P]{blobs: make(map[hash.Hash[P]][]byte)}
}

// PutBytes stores a private copy of data. Duplicate content is a
// no-op returning the same digest.
func (s *MemoryStore[P]) PutBytes(data []byte) (hash.Hash[P], error) {
	digest := hash.Sum[P](data)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.blobs[digest]; !ok {
		stored := make([]byte, len(data))
		copy(stored, data)
		s.blobs[digest] = stored
	}
	return digest, nil
}

// GetBytes returns a copy of the stored content, or NotFoundError.
func (s *MemoryStore[P]) GetBytes(digest hash.Hash[P]) ([]byte, error) {
	s.mu.RLock()
	stored, ok := s.blobs[digest]
	s.mu.RUnlock()
	if !ok {
		return nil, &NotFoundError{Digest: digest.String()}
	}
	out := make([]byte, len(stored))
	copy(out, stored)
	return out, nil
}

// All yields the digests present when the iteration starts.
func (s *MemoryStore[P]) All() iter.Seq[hash.Hash[P]] {
	s.mu.RLock()
	snapshot := make([]hash.Hash[P], 0, len(s.blobs))
	for digest := range s.blobs {
		snapshot = append(snapshot, digest)
	}
	s.mu.RUnlock()

	return func(yield func(hash.Hash[P]) bool) {
		for _, digest := range snapshot {
			if !yield(digest) {
				return
			}
		}
	}
}

// Len returns the number of distinct blobs stored.
func (s *MemoryStore[P]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}
