// Copyright 2026 The Trible Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"errors"
	"testing"

	"github.com/trible-foundation/trible/lib/id"
	"github.com/trible-foundation/trible/lib/trible"
	"github.com/trible-foundation/trible/lib/tribleset"
	"github.com/trible-foundation/trible/lib/value"
)

func fact(t *testing.T, s string) trible.Trible {
	t.Helper()
	v, err := value.FromString(s)
	if err != nil {
		t.Fatalf("FromString(%q): %v", s, err)
	}
	return trible.New(id.Random(), id.Random(), v)
}

func sampleSet(t *testing.T, n int) tribleset.Set {
	t.Helper()
	s := tribleset.New()
	for i := 0; i < n; i++ {
		s = s.Insert(fact(t, "v"))
	}
	return s
}

func TestRoundTrip(t *testing.T) {
	s := sampleSet(t, 40)

	decoded, err := Decode(Encode(s))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !decoded.Equal(s) {
		t.Fatal("round trip changed the set")
	}
}

func TestEncodeIsCanonical(t *testing.T) {
	a := fact(t, "one")
	b := fact(t, "two")
	c := fact(t, "three")

	forward := tribleset.Of(a, b, c)
	backward := tribleset.Of(c, b, a)

	left := Encode(forward)
	right := Encode(backward)
	if string(left) != string(right) {
		t.Fatal("equal sets encoded differently")
	}
	if len(left) != 3*trible.Size {
		t.Fatalf("encoded %d bytes, want %d", len(left), 3*trible.Size)
	}
}

func TestEmptyArchive(t *testing.T) {
	if got := Encode(tribleset.New()); len(got) != 0 {
		t.Fatalf("empty set encoded to %d bytes", len(got))
	}
	decoded, err := Decode(nil)
	if err != nil {
		t.Fatalf("Decode(nil): %v", err)
	}
	if decoded.Len() != 0 {
		t.Fatal("empty archive decoded to nonempty set")
	}
}

func TestDecodeRejectsBadLength(t *testing.T) {
	if _, err := Decode(make([]byte, trible.Size+1)); !errors.Is(err, ErrBadLength) {
		t.Fatalf("error = %v, want ErrBadLength", err)
	}
}

func TestDecodeRejectsBadRecord(t *testing.T) {
	// A record with a nil entity is not a valid fact.
	if _, err := Decode(make([]byte, trible.Size)); !errors.Is(err, trible.ErrBadTrible) {
		t.Fatalf("error = %v, want ErrBadTrible", err)
	}
}

func TestDecodeRejectsDuplicates(t *testing.T) {
	f := fact(t, "dup")
	data := append(append([]byte{}, f[:]...), f[:]...)
	if _, err := Decode(data); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("error = %v, want ErrDuplicate", err)
	}
}

func TestDecodeRejectsMisordering(t *testing.T) {
	a := fact(t, "a")
	b := fact(t, "b")
	if trible.Compare(a, b) > 0 {
		a, b = b, a
	}

	data := append(append([]byte{}, b[:]...), a[:]...)
	if _, err := Decode(data); !errors.Is(err, ErrOutOfOrder) {
		t.Fatalf("error = %v, want ErrOutOfOrder", err)
	}
}

func TestSchemaValidatesByDecoding(t *testing.T) {
	s := sampleSet(t, 5)

	if err := (Schema{}).Validate(Encode(s)); err != nil {
		t.Fatalf("canonical bytes rejected: %v", err)
	}
	if err := (Schema{}).Validate(make([]byte, 7)); err == nil {
		t.Fatal("ragged bytes accepted")
	}
}

func TestBlobRoundTrip(t *testing.T) {
	s := sampleSet(t, 10)

	decoded, err := FromBlob(ToBlob(s))
	if err != nil {
		t.Fatalf("FromBlob: %v", err)
	}
	if !decoded.Equal(s) {
		t.Fatal("blob round trip changed the set")
	}
}
