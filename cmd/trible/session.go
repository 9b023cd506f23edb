// Copyright 2026 The Trible Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/trible-foundation/trible/lib/archive"
	"github.com/trible-foundation/trible/lib/blob"
	"github.com/trible-foundation/trible/lib/blobcache"
	"github.com/trible-foundation/trible/lib/blobstore"
	"github.com/trible-foundation/trible/lib/config"
	"github.com/trible-foundation/trible/lib/hash"
	"github.com/trible-foundation/trible/lib/jsonimport"
	"github.com/trible-foundation/trible/lib/tribleset"
	"github.com/trible-foundation/trible/lib/value"
)

// session is the protocol-erased surface the commands call. The
// digest protocol is a compile-time type parameter everywhere else;
// here it is chosen at runtime from configuration, so the generic
// machinery is instantiated once per protocol behind this interface.
type session interface {
	// Import ingests a JSON document, archives the resulting facts,
	// and returns the archive digest plus the exported root entities
	// (as hex identifiers).
	Import(document []byte) (digest string, roots []string, err error)

	// Inspect decodes the archive blob under ref and prints one fact
	// per line.
	Inspect(ref string, w io.Writer) error

	// Put stores raw bytes and returns the digest reference.
	Put(data []byte) (string, error)

	// Get reads the bytes stored under ref.
	Get(ref string) ([]byte, error)
}

// openSession builds a session from configuration.
func openSession(cfg *config.Config) (session, error) {
	switch cfg.Hash.Protocol {
	case "blake3":
		return newProtocolSession[hash.Blake3](cfg)
	case "blake2b":
		return newProtocolSession[hash.Blake2b](cfg)
	default:
		return nil, fmt.Errorf("unknown hash protocol %q", cfg.Hash.Protocol)
	}
}

// protocolSession is the generic session implementation.
type protocolSession[P hash.Protocol] struct {
	store *blobstore.Store[P]
	cache *blobcache.Cache[P, tribleset.Set]
	salt  *[value.Size]byte
}

func newProtocolSession[P hash.Protocol](cfg *config.Config) (*protocolSession[P], error) {
	compression, err := blobstore.ParseCompressionTag(cfg.Store.Compression)
	if err != nil {
		return nil, err
	}

	store, err := blobstore.Open[P](cfg.Store.Root, blobstore.Options{
		Compression: compression,
	})
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	var salt *[value.Size]byte
	if cfg.Import.Salt != "" {
		raw, err := hex.DecodeString(cfg.Import.Salt)
		if err != nil || len(raw) != value.Size {
			return nil, fmt.Errorf("import.salt must be %d hex bytes", value.Size)
		}
		salt = new([value.Size]byte)
		copy(salt[:], raw)
	}

	return &protocolSession[P]{
		store: store,
		cache: blobcache.New[P](store, cfg.Cache.Capacity, archive.Decode),
		salt:  salt,
	}, nil
}

func (s *protocolSession[P]) Import(document []byte) (string, []string, error) {
	importer := jsonimport.New[P](s.store, s.salt)
	frag, err := importer.Import(document)
	if err != nil {
		return "", nil, err
	}

	handle, err := blob.Put[P](s.store, archive.ToBlob(frag.Facts()))
	if err != nil {
		return "", nil, fmt.Errorf("storing archive: %w", err)
	}

	roots := make([]string, 0, len(frag.Exports()))
	for _, root := range frag.Exports() {
		roots = append(roots, root.Hex())
	}
	return handle.Hash().String(), roots, nil
}

func (s *protocolSession[P]) Inspect(ref string, w io.Writer) error {
	digest, err := hash.Parse[P](ref)
	if err != nil {
		return err
	}
	facts, err := s.cache.Get(digest)
	if err != nil {
		return err
	}
	for fact := range facts.All() {
		fmt.Fprintln(w, fact.String())
	}
	fmt.Fprintf(w, "%d facts\n", facts.Len())
	return nil
}

func (s *protocolSession[P]) Put(data []byte) (string, error) {
	digest, err := s.store.PutBytes(data)
	if err != nil {
		return "", err
	}
	return digest.String(), nil
}

func (s *protocolSession[P]) Get(ref string) ([]byte, error) {
	digest, err := hash.Parse[P](ref)
	if err != nil {
		return nil, err
	}
	return s.store.GetBytes(digest)
}
