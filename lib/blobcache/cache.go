// Copyright 2026 The Trible Authors
// SPDX-License-Identifier: Apache-2.0

// Package blobcache implements a concurrent, capacity-bounded
// memoization layer over a gettable blob store. It caches decoded
// objects, not raw bytes: the expensive part of a blob read is
// usually the decode (an archive blob decodes into a whole fact set),
// so that is what gets shared.
//
// The cache guarantees at most one in-flight fetch+decode per digest.
// Concurrent requesters for the same digest wait on the first flight
// and share its result; a failed flight propagates its error to every
// waiter and is then forgotten, so the next request retries.
package blobcache

import (
	"container/list"
	"sync"

	"github.com/trible-foundation/trible/lib/hash"
)

// Getter is the narrow read-side store contract the cache wraps.
type Getter[P hash.Protocol] interface {
	GetBytes(digest hash.Hash[P]) ([]byte, error)
}

// DefaultCapacity bounds the number of decoded entries kept when the
// caller passes a non-positive capacity.
const DefaultCapacity = 256

// Cache memoizes decoded blobs keyed by digest. T is the decoded
// representation; decode runs at most once per digest per residency.
type Cache[P hash.Protocol, T any] struct {
	store    Getter[P]
	decode   func([]byte) (T, error)
	capacity int

	mu      sync.Mutex
	entries map[hash.Hash[P]]*entry[P, T]
	// lru tracks completed entries, most recent at the front.
	// In-flight entries are not listed, so eviction can never drop a
	// computation out from under its waiters.
	lru *list.List
}

// entry is one cache slot. ready is closed when the flight finishes;
// value and err are written before the close and only read after it.
type entry[P hash.Protocol, T any] struct {
	digest  hash.Hash[P]
	ready   chan struct{}
	done    bool
	value   T
	err     error
	element *list.Element
}

// New wraps a store with a decode function and a capacity bound on
// resident decoded entries.
func New[P hash.Protocol, T any](store Getter[P], capacity int, decode func([]byte) (T, error)) *Cache[P, T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache[P, T]{
		store:    store,
		decode:   decode,
		capacity: capacity,
		entries:  make(map[hash.Hash[P]]*entry[P, T]),
		lru:      list.New(),
	}
}

// Get returns the decoded object for a digest, fetching and decoding
// at most once concurrently per digest. Hits refresh recency.
func (c *Cache[P, T]) Get(digest hash.Hash[P]) (T, error) {
	c.mu.Lock()
	if e, ok := c.entries[digest]; ok {
		if e.done {
			c.lru.MoveToFront(e.element)
			c.mu.Unlock()
			return e.value, e.err
		}
		// A flight is in progress; wait for it outside the lock.
		c.mu.Unlock()
		<-e.ready
		return e.value, e.err
	}

	// First requester: become the flight owner.
	e := &entry[P, T]{digest: digest, ready: make(chan struct{})}
	c.entries[digest] = e
	c.mu.Unlock()

	value, err := c.fetch(digest)

	c.mu.Lock()
	if err != nil {
		// Failed flights are not cached: forget the entry so the
		// next request retries, then release the waiters.
		delete(c.entries, digest)
		c.mu.Unlock()
		e.err = err
		close(e.ready)
		var zero T
		return zero, err
	}

	e.value = value
	e.done = true
	e.element = c.lru.PushFront(e)
	c.evictLocked()
	c.mu.Unlock()
	close(e.ready)
	return value, nil
}

// fetch performs the underlying read and decode.
func (c *Cache[P, T]) fetch(digest hash.Hash[P]) (T, error) {
	data, err := c.store.GetBytes(digest)
	if err != nil {
		var zero T
		return zero, err
	}
	return c.decode(data)
}

// evictLocked drops least-recently-used completed entries until the
// capacity bound holds. Caller holds mu.
func (c *Cache[P, T]) evictLocked() {
	for c.lru.Len() > c.capacity {
		oldest := c.lru.Back()
		c.lru.Remove(oldest)
		evicted := oldest.Value.(*entry[P, T])
		delete(c.entries, evicted.digest)
	}
}

// Len returns the number of resident decoded entries.
func (c *Cache[P, T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Contains reports whether a completed entry for the digest is
// resident. In-flight digests report false.
func (c *Cache[P, T]) Contains(digest hash.Hash[P]) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[digest]
	return ok && e.done
}
