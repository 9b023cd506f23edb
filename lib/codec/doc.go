// Copyright 2026 The Trible Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the deterministic CBOR encoding used for
// blob store metadata records. Centralizing the encoder and decoder
// configuration keeps every record on disk byte-stable for the same
// logical content.
package codec
