// Copyright 2026 The Trible Authors
// SPDX-License-Identifier: Apache-2.0

package tribleset

import (
	"testing"

	"github.com/trible-foundation/trible/lib/id"
	"github.com/trible-foundation/trible/lib/trible"
	"github.com/trible-foundation/trible/lib/value"
)

func fact(t *testing.T, e, a id.ID, s string) trible.Trible {
	t.Helper()
	v, err := value.FromString(s)
	if err != nil {
		t.Fatalf("FromString(%q): %v", s, err)
	}
	return trible.New(e, a, v)
}

func randomFacts(t *testing.T, n int) []trible.Trible {
	t.Helper()
	out := make([]trible.Trible, n)
	for i := range out {
		out[i] = fact(t, id.Random(), id.Random(), "v")
	}
	return out
}

func TestInsertIsIdempotent(t *testing.T) {
	f := fact(t, id.Random(), id.Random(), "once")

	s := New().Insert(f)
	again := s.Insert(f)

	if again.Len() != 1 {
		t.Fatalf("Len = %d after duplicate insert, want 1", again.Len())
	}
	if !again.Equal(s) {
		t.Fatal("duplicate insert changed the set")
	}
}

func TestHasAndLen(t *testing.T) {
	facts := randomFacts(t, 20)
	s := Of(facts...)

	if s.Len() != len(facts) {
		t.Fatalf("Len = %d, want %d", s.Len(), len(facts))
	}
	for _, f := range facts {
		if !s.Has(f) {
			t.Fatalf("missing inserted fact %s", f)
		}
	}
	if s.Has(fact(t, id.Random(), id.Random(), "absent")) {
		t.Fatal("reported an absent fact as present")
	}
}

func TestAllYieldsCanonicalOrder(t *testing.T) {
	facts := randomFacts(t, 50)
	s := Of(facts...)

	var previous trible.Trible
	count := 0
	for f := range s.All() {
		if count > 0 && trible.Compare(previous, f) >= 0 {
			t.Fatalf("iteration out of order at %d: %s then %s", count, previous, f)
		}
		previous = f
		count++
	}
	if count != len(facts) {
		t.Fatalf("iterated %d facts, want %d", count, len(facts))
	}
}

// Entity-major ordering means all facts about one entity are adjacent
// in iteration, regardless of interleaved insertion.
func TestEntityFactsAreAdjacent(t *testing.T) {
	alice := id.Random()
	bob := id.Random()
	name := id.Random()
	age := id.Random()
	city := id.Random()

	s := Of(
		fact(t, alice, name, "alice"),
		fact(t, bob, name, "bob"),
		fact(t, alice, age, "30"),
		fact(t, bob, city, "berlin"),
		fact(t, alice, city, "paris"),
	)

	var entities []id.ID
	for f := range s.All() {
		if len(entities) == 0 || entities[len(entities)-1] != f.Entity() {
			entities = append(entities, f.Entity())
		}
	}
	if len(entities) != 2 {
		t.Fatalf("entities appeared in %d runs, want 2 contiguous runs", len(entities))
	}
}

func TestUnionLaws(t *testing.T) {
	facts := randomFacts(t, 30)
	a := Of(facts[:20]...)
	b := Of(facts[10:]...) // overlaps a on facts[10:20]

	ab := a.Union(b)
	ba := b.Union(a)
	if !ab.Equal(ba) {
		t.Fatal("union is not commutative")
	}
	if ab.Len() != len(facts) {
		t.Fatalf("union Len = %d, want %d", ab.Len(), len(facts))
	}

	c := Of(facts[5:25]...)
	if !a.Union(b).Union(c).Equal(a.Union(b.Union(c))) {
		t.Fatal("union is not associative")
	}

	if !a.Union(a).Equal(a) {
		t.Fatal("union is not idempotent")
	}
	if !a.Union(New()).Equal(a) {
		t.Fatal("empty set is not a union identity")
	}
}

func TestUnionDoesNotDisturbInputs(t *testing.T) {
	facts := randomFacts(t, 10)
	a := Of(facts[:5]...)
	b := Of(facts[5:]...)

	_ = a.Union(b)

	if a.Len() != 5 || b.Len() != 5 {
		t.Fatal("union mutated an input set")
	}
	for _, f := range facts[5:] {
		if a.Has(f) {
			t.Fatal("union leaked facts into an input set")
		}
	}
}

func TestEqualIsStructural(t *testing.T) {
	facts := randomFacts(t, 25)

	forward := New()
	for _, f := range facts {
		forward = forward.Insert(f)
	}
	backward := New()
	for i := len(facts) - 1; i >= 0; i-- {
		backward = backward.Insert(facts[i])
	}

	if !forward.Equal(backward) {
		t.Fatal("insertion order affected equality")
	}
	if forward.Equal(backward.Insert(fact(t, id.Random(), id.Random(), "extra"))) {
		t.Fatal("sets of different size compared equal")
	}
}

func TestMatchByEntity(t *testing.T) {
	alice := id.Random()
	bob := id.Random()
	name := id.Random()
	age := id.Random()

	aliceName := fact(t, alice, name, "alice")
	aliceAge := fact(t, alice, age, "30")
	bobName := fact(t, bob, name, "bob")
	s := Of(aliceName, aliceAge, bobName)

	got := collect(s.Match(&alice, nil, nil))
	if len(got) != 2 {
		t.Fatalf("entity match yielded %d facts, want 2", len(got))
	}
	for _, f := range got {
		if f.Entity() != alice {
			t.Fatalf("entity match leaked fact %s", f)
		}
	}
}

func TestMatchByAttribute(t *testing.T) {
	name := id.Random()
	age := id.Random()
	s := Of(
		fact(t, id.Random(), name, "a"),
		fact(t, id.Random(), name, "b"),
		fact(t, id.Random(), age, "1"),
	)

	got := collect(s.Match(nil, &name, nil))
	if len(got) != 2 {
		t.Fatalf("attribute match yielded %d facts, want 2", len(got))
	}
	for _, f := range got {
		if f.Attribute() != name {
			t.Fatalf("attribute match leaked fact %s", f)
		}
	}
}

func TestMatchByValue(t *testing.T) {
	shared, err := value.FromString("shared")
	if err != nil {
		t.Fatal(err)
	}
	raw := shared.Raw()

	a := trible.New(id.Random(), id.Random(), shared)
	b := trible.New(id.Random(), id.Random(), shared)
	s := Of(a, b, fact(t, id.Random(), id.Random(), "other"))

	got := collect(s.Match(nil, nil, &raw))
	if len(got) != 2 {
		t.Fatalf("value match yielded %d facts, want 2", len(got))
	}
}

func TestMatchFullyBoundAndUnbound(t *testing.T) {
	e := id.Random()
	a := id.Random()
	v, err := value.FromString("exact")
	if err != nil {
		t.Fatal(err)
	}
	raw := v.Raw()
	f := trible.New(e, a, v)
	s := Of(f, fact(t, id.Random(), id.Random(), "noise"))

	got := collect(s.Match(&e, &a, &raw))
	if len(got) != 1 || got[0] != f {
		t.Fatalf("fully bound match = %v, want exactly %s", got, f)
	}

	if n := len(collect(s.Match(nil, nil, nil))); n != 2 {
		t.Fatalf("unbound match yielded %d facts, want 2", n)
	}
}

// Non-prefix binding patterns fall back to a scan with filtering.
func TestMatchEntityAndValue(t *testing.T) {
	e := id.Random()
	v, err := value.FromString("pin")
	if err != nil {
		t.Fatal(err)
	}
	raw := v.Raw()

	want := trible.New(e, id.Random(), v)
	s := Of(
		want,
		fact(t, e, id.Random(), "other"),
		trible.New(id.Random(), id.Random(), v),
	)

	got := collect(s.Match(&e, nil, &raw))
	if len(got) != 1 || got[0] != want {
		t.Fatalf("match = %v, want exactly %s", got, want)
	}
}

// Every binding mask must agree with a naive filter over All,
// including the non-prefix masks where early facts under the scanned
// prefix fail the filter and the scan has to keep going.
func TestMatchAgreesWithNaiveFilter(t *testing.T) {
	entities := []id.ID{id.Random(), id.Random(), id.Random()}
	attrs := []id.ID{id.Random(), id.Random()}
	vals := make([][value.Size]byte, 2)
	for i, s := range []string{"left", "right"} {
		v, err := value.FromString(s)
		if err != nil {
			t.Fatal(err)
		}
		vals[i] = v.Raw()
	}

	s := New()
	var facts []trible.Trible
	for i, e := range entities {
		for j, a := range attrs {
			f := trible.New(e, a, value.Force[value.Unknown](vals[(i+j)%len(vals)]))
			facts = append(facts, f)
			s = s.Insert(f)
		}
	}

	for mask := range 8 {
		var e, a *id.ID
		var v *[value.Size]byte
		if mask&1 != 0 {
			e = &entities[0]
		}
		if mask&2 != 0 {
			a = &attrs[1]
		}
		if mask&4 != 0 {
			v = &vals[0]
		}

		want := map[trible.Trible]bool{}
		for _, f := range facts {
			if e != nil && f.Entity() != *e {
				continue
			}
			if a != nil && f.Attribute() != *a {
				continue
			}
			if v != nil && f.ValueRaw() != *v {
				continue
			}
			want[f] = true
		}

		got := collect(s.Match(e, a, v))
		if len(got) != len(want) {
			t.Fatalf("mask %d: got %d matches, want %d", mask, len(got), len(want))
		}
		for _, f := range got {
			if !want[f] {
				t.Fatalf("mask %d: unexpected fact %s", mask, f)
			}
		}
	}
}

func TestZeroSetIsEmpty(t *testing.T) {
	var s Set
	if s.Len() != 0 {
		t.Fatal("zero set has nonzero length")
	}
	if n := len(collect(s.All())); n != 0 {
		t.Fatalf("zero set yielded %d facts", n)
	}
	if !s.Equal(New()) {
		t.Fatal("zero set differs from New()")
	}
}

func TestOrderPermutationsRoundTrip(t *testing.T) {
	f := fact(t, id.Random(), id.Random(), "permute")

	if restoreAEV(permuteAEV(f)) != f {
		t.Fatal("AEV permutation does not round-trip")
	}
	if restoreVEA(permuteVEA(f)) != f {
		t.Fatal("VEA permutation does not round-trip")
	}
}

func collect(seq func(func(trible.Trible) bool)) []trible.Trible {
	var out []trible.Trible
	seq(func(f trible.Trible) bool {
		out = append(out, f)
		return true
	})
	return out
}
