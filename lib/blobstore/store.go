// Copyright 2026 The Trible Authors
// SPDX-License-Identifier: Apache-2.0

// Package blobstore implements the persistent on-disk blob store: a
// content-addressed directory tree where each blob is stored once
// under its digest, optionally compressed, with a small CBOR metadata
// sidecar recording how to read it back.
//
// Layout under the store root:
//
//	blobs/aa/bb/<hex>       payload (possibly compressed)
//	meta/aa/bb/<hex>.cbor   metadata record
//	tmp/                    staging for atomic writes
//
// Payloads and sidecars are written to tmp and renamed into place, so
// a crash never leaves a partially written blob at its final path.
// Reads re-verify the digest over the decompressed payload before
// returning it.
package blobstore

import (
	"fmt"
	"io/fs"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/trible-foundation/trible/lib/blob"
	"github.com/trible-foundation/trible/lib/codec"
	"github.com/trible-foundation/trible/lib/hash"
)

// Directory names within the store root.
const (
	blobsDir = "blobs"
	metaDir  = "meta"
	tmpDir   = "tmp"
)

// recordVersion is the metadata sidecar format version.
const recordVersion = 1

// record is the CBOR metadata sidecar for one stored blob.
type record struct {
	Version     int    `cbor:"version"`
	Digest      string `cbor:"digest"`
	Size        int64  `cbor:"size"`
	StoredSize  int64  `cbor:"stored_size"`
	Compression uint8  `cbor:"compression"`
}

// CorruptError reports a blob whose on-disk payload no longer matches
// its digest or metadata. It usually means filesystem damage or an
// external modification of the store directory.
type CorruptError struct {
	Digest string
	Reason string
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("blobstore: corrupt blob %s: %s", e.Digest, e.Reason)
}

// Options configures a Store.
type Options struct {
	// Compression is the algorithm attempted for new payloads.
	// Incompressible payloads fall back to CompressionNone per blob.
	Compression CompressionTag

	// Logger receives debug-level write and read events. Nil means
	// slog.Default.
	Logger *slog.Logger
}

// Store is the disk-backed implementation of blob.Store. It is safe
// for concurrent use: writes are idempotent per digest and land via
// atomic rename, so two racing writers of the same content converge
// on identical files.
type Store[P hash.Protocol] struct {
	root        string
	compression CompressionTag
	log         *slog.Logger
}

// Open creates a Store rooted at the given directory, creating the
// directory structure if needed.
func Open[P hash.Protocol](root string, options Options) (*Store[P], error) {
	for _, dir := range []string{
		root,
		filepath.Join(root, blobsDir),
		filepath.Join(root, metaDir),
		filepath.Join(root, tmpDir),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating store directory %s: %w", dir, err)
		}
	}
	log := options.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Store[P]{
		root:        root,
		compression: options.Compression,
		log:         log,
	}, nil
}

// PutBytes stores content under its digest. Storing the same content
// twice is a no-op returning the same digest.
func (s *Store[P]) PutBytes(data []byte) (hash.Hash[P], error) {
	digest := hash.Sum[P](data)

	// Dedup: the sidecar is written last, so its presence means the
	// payload is already complete on disk.
	if _, err := os.Stat(s.metaPath(digest)); err == nil {
		return digest, nil
	}

	payload, tag, err := compressWithFallback(data, s.compression)
	if err != nil {
		return hash.Hash[P]{}, fmt.Errorf("compressing blob %s: %w", digest, err)
	}

	if err := s.writeAtomic(s.blobPath(digest), payload); err != nil {
		return hash.Hash[P]{}, fmt.Errorf("writing blob %s: %w", digest, err)
	}

	sidecar, err := codec.Marshal(record{
		Version:     recordVersion,
		Digest:      digest.String(),
		Size:        int64(len(data)),
		StoredSize:  int64(len(payload)),
		Compression: uint8(tag),
	})
	if err != nil {
		return hash.Hash[P]{}, fmt.Errorf("marshaling metadata for %s: %w", digest, err)
	}
	if err := s.writeAtomic(s.metaPath(digest), sidecar); err != nil {
		return hash.Hash[P]{}, fmt.Errorf("writing metadata for %s: %w", digest, err)
	}

	s.log.Debug("blob stored",
		"digest", digest.String(),
		"size", len(data),
		"stored_size", len(payload),
		"compression", tag.String())
	return digest, nil
}

// GetBytes returns the content stored under the digest. Missing blobs
// report blob.NotFoundError; payloads that fail digest re-verification
// report CorruptError.
func (s *Store[P]) GetBytes(digest hash.Hash[P]) ([]byte, error) {
	sidecar, err := os.ReadFile(s.metaPath(digest))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &blob.NotFoundError{Digest: digest.String()}
		}
		return nil, fmt.Errorf("reading metadata for %s: %w", digest, err)
	}

	var meta record
	if err := codec.Unmarshal(sidecar, &meta); err != nil {
		return nil, &CorruptError{Digest: digest.String(), Reason: "unreadable metadata: " + err.Error()}
	}

	payload, err := os.ReadFile(s.blobPath(digest))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &CorruptError{Digest: digest.String(), Reason: "metadata present but payload missing"}
		}
		return nil, fmt.Errorf("reading blob %s: %w", digest, err)
	}
	if int64(len(payload)) != meta.StoredSize {
		return nil, &CorruptError{
			Digest: digest.String(),
			Reason: fmt.Sprintf("payload is %d bytes, metadata records %d", len(payload), meta.StoredSize),
		}
	}

	data, err := decompress(payload, CompressionTag(meta.Compression), int(meta.Size))
	if err != nil {
		return nil, &CorruptError{Digest: digest.String(), Reason: err.Error()}
	}

	if hash.Sum[P](data) != digest {
		return nil, &CorruptError{Digest: digest.String(), Reason: "digest mismatch"}
	}
	return data, nil
}

// All yields the digests of every stored blob by walking the metadata
// tree. Entries that do not parse as digests are skipped.
func (s *Store[P]) All() iter.Seq[hash.Hash[P]] {
	return func(yield func(hash.Hash[P]) bool) {
		root := filepath.Join(s.root, metaDir)
		filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
			if err != nil || entry.IsDir() {
				return nil
			}
			name, ok := strings.CutSuffix(entry.Name(), ".cbor")
			if !ok {
				return nil
			}
			digest, err := hash.FromHex[P](name)
			if err != nil {
				return nil
			}
			if !yield(digest) {
				return fs.SkipAll
			}
			return nil
		})
	}
}

// writeAtomic writes data to path via a temp file and rename. The
// shard directory is created on demand. If the final path already
// exists the temp file is discarded: identical content by
// construction.
func (s *Store[P]) writeAtomic(path string, data []byte) error {
	tmpFile, err := os.CreateTemp(filepath.Join(s.root, tmpDir), "blob-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating shard directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		os.Remove(tmpPath)
		success = true
		return nil
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming into place: %w", err)
	}
	success = true
	return nil
}

// blobPath returns the sharded payload path for a digest:
// blobs/a3/f9/a3f9b2c1e7d4...
func (s *Store[P]) blobPath(digest hash.Hash[P]) string {
	hex := digest.Hex()
	return filepath.Join(s.root, blobsDir, hex[:2], hex[2:4], hex)
}

// metaPath returns the sharded sidecar path for a digest.
func (s *Store[P]) metaPath(digest hash.Hash[P]) string {
	hex := digest.Hex()
	return filepath.Join(s.root, metaDir, hex[:2], hex[2:4], hex+".cbor")
}
