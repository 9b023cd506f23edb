// Copyright 2026 The Trible Authors
// SPDX-License-Identifier: Apache-2.0

package hash

import (
	"errors"
	"strings"
	"testing"
)

func TestSumIsDeterministic(t *testing.T) {
	a := Sum[Blake3]([]byte("hello"))
	b := Sum[Blake3]([]byte("hello"))
	if a != b {
		t.Fatal("same content produced different digests")
	}

	c := Sum[Blake3]([]byte("hello!"))
	if a == c {
		t.Fatal("different content produced the same digest")
	}
}

func TestProtocolsDisagree(t *testing.T) {
	a := Sum[Blake3]([]byte("hello"))
	b := Sum[Blake2b]([]byte("hello"))
	if a.Raw() == b.Raw() {
		t.Fatal("blake3 and blake2b agree on a digest, which is absurd")
	}
}

func TestStringParseRoundTrip(t *testing.T) {
	h := Sum[Blake3]([]byte("round trip"))

	s := h.String()
	if !strings.HasPrefix(s, "blake3:") {
		t.Fatalf("String() = %q, want blake3: prefix", s)
	}

	parsed, err := Parse[Blake3](s)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if parsed != h {
		t.Fatal("round trip changed digest")
	}
}

func TestParseRejectsWrongProtocol(t *testing.T) {
	h := Sum[Blake2b]([]byte("content"))
	if _, err := Parse[Blake3](h.String()); !errors.Is(err, ErrBadProtocol) {
		t.Fatalf("error = %v, want ErrBadProtocol", err)
	}
}

func TestParseRejectsMalformedInput(t *testing.T) {
	cases := []string{
		"",
		"blake3",
		"blake3:",
		"blake3:zz",
		"blake3:abcd",
	}
	for _, input := range cases {
		if _, err := Parse[Blake3](input); err == nil {
			t.Errorf("Parse(%q) accepted malformed input", input)
		}
	}
}

func TestFromBytesLength(t *testing.T) {
	if _, err := FromBytes[Blake3](make([]byte, Size-1)); err == nil {
		t.Fatal("short input accepted")
	}
	raw := make([]byte, Size)
	raw[0] = 1
	h, err := FromBytes[Blake3](raw)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	if h.Raw()[0] != 1 {
		t.Fatal("bytes not preserved")
	}
}
