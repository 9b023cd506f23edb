// Copyright 2026 The Trible Authors
// SPDX-License-Identifier: Apache-2.0

package blobcache

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/trible-foundation/trible/lib/blob"
	"github.com/trible-foundation/trible/lib/hash"
)

// blockingStore wraps a memory store and can hold GetBytes calls open
// until released, to widen concurrency windows deterministically.
type blockingStore struct {
	inner *blob.MemoryStore[hash.Blake3]
	gate  chan struct{}
	calls atomic.Int64
}

func (s *blockingStore) GetBytes(digest hash.Hash[hash.Blake3]) ([]byte, error) {
	s.calls.Add(1)
	if s.gate != nil {
		<-s.gate
	}
	return s.inner.GetBytes(digest)
}

func put(t *testing.T, store *blob.MemoryStore[hash.Blake3], content string) hash.Hash[hash.Blake3] {
	t.Helper()
	digest, err := store.PutBytes([]byte(content))
	if err != nil {
		t.Fatalf("PutBytes: %v", err)
	}
	return digest
}

func TestGetDecodesOnce(t *testing.T) {
	backing := blob.NewMemoryStore[hash.Blake3]()
	digest := put(t, backing, "content")

	var decodes atomic.Int64
	cache := New[hash.Blake3](backing, 4, func(data []byte) (string, error) {
		decodes.Add(1)
		return string(data), nil
	})

	for range 3 {
		got, err := cache.Get(digest)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got != "content" {
			t.Fatalf("Get = %q", got)
		}
	}
	if n := decodes.Load(); n != 1 {
		t.Fatalf("decoded %d times, want 1", n)
	}
}

func TestConcurrentGetsShareOneFlight(t *testing.T) {
	backing := blob.NewMemoryStore[hash.Blake3]()
	digest := put(t, backing, "shared")

	store := &blockingStore{inner: backing, gate: make(chan struct{})}
	var decodes atomic.Int64
	cache := New[hash.Blake3](store, 4, func(data []byte) (string, error) {
		decodes.Add(1)
		return string(data), nil
	})

	const workers = 16
	var wg sync.WaitGroup
	results := make([]string, workers)
	errs := make([]error, workers)
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = cache.Get(digest)
		}()
	}

	close(store.gate)
	wg.Wait()

	for i := range workers {
		if errs[i] != nil {
			t.Fatalf("worker %d: %v", i, errs[i])
		}
		if results[i] != "shared" {
			t.Fatalf("worker %d got %q", i, results[i])
		}
	}
	if n := decodes.Load(); n != 1 {
		t.Fatalf("decoded %d times under concurrency, want 1", n)
	}
	if n := store.calls.Load(); n != 1 {
		t.Fatalf("fetched %d times under concurrency, want 1", n)
	}
}

func TestFailedFlightIsRetried(t *testing.T) {
	backing := blob.NewMemoryStore[hash.Blake3]()
	digest := put(t, backing, "flaky")

	failures := 1
	cache := New[hash.Blake3](backing, 4, func(data []byte) (string, error) {
		if failures > 0 {
			failures--
			return "", fmt.Errorf("transient decode failure")
		}
		return string(data), nil
	})

	if _, err := cache.Get(digest); err == nil {
		t.Fatal("first Get should have failed")
	}
	if cache.Contains(digest) {
		t.Fatal("failed flight was cached")
	}

	got, err := cache.Get(digest)
	if err != nil {
		t.Fatalf("retry Get: %v", err)
	}
	if got != "flaky" {
		t.Fatalf("retry Get = %q", got)
	}
}

func TestMissingBlobPropagatesNotFound(t *testing.T) {
	backing := blob.NewMemoryStore[hash.Blake3]()
	cache := New[hash.Blake3](backing, 4, func(data []byte) (string, error) {
		return string(data), nil
	})

	_, err := cache.Get(hash.Sum[hash.Blake3]([]byte("absent")))
	var notFound *blob.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v, want NotFoundError", err)
	}
}

func TestEvictionRespectsCapacityAndRecency(t *testing.T) {
	backing := blob.NewMemoryStore[hash.Blake3]()
	first := put(t, backing, "first")
	second := put(t, backing, "second")
	third := put(t, backing, "third")

	cache := New[hash.Blake3](backing, 2, func(data []byte) (string, error) {
		return string(data), nil
	})

	mustGet := func(digest hash.Hash[hash.Blake3]) {
		t.Helper()
		if _, err := cache.Get(digest); err != nil {
			t.Fatalf("Get: %v", err)
		}
	}

	mustGet(first)
	mustGet(second)
	mustGet(first) // refresh: second is now least recent
	mustGet(third) // evicts second

	if cache.Len() != 2 {
		t.Fatalf("Len = %d, want 2", cache.Len())
	}
	if cache.Contains(second) {
		t.Fatal("least recently used entry survived eviction")
	}
	if !cache.Contains(first) || !cache.Contains(third) {
		t.Fatal("recently used entries were evicted")
	}
}

func TestDefaultCapacity(t *testing.T) {
	backing := blob.NewMemoryStore[hash.Blake3]()
	cache := New[hash.Blake3](backing, 0, func(data []byte) (string, error) {
		return string(data), nil
	})
	if cache.capacity != DefaultCapacity {
		t.Fatalf("capacity = %d, want %d", cache.capacity, DefaultCapacity)
	}
}
