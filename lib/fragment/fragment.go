// Copyright 2026 The Trible Authors
// SPDX-License-Identifier: Apache-2.0

// Package fragment implements rooted fact bundles and deterministic
// identity derivation. It is the composition layer that lets
// independently authored producers (importers, schema description
// routines) emit facts without coordinating.
//
// A Fragment is a fact set plus the identifiers its producer wants to
// hand back to the caller: the root of an imported document, or an
// attribute's own identifier after emitting its descriptive metadata.
// Exports are informational and carry no privilege inside the fact
// set. Merging fragments unions both the facts and the export sets.
package fragment

import (
	"bytes"
	"sort"

	"github.com/trible-foundation/trible/lib/id"
	"github.com/trible-foundation/trible/lib/trible"
	"github.com/trible-foundation/trible/lib/tribleset"
)

// Fragment is an immutable fact bundle with exported entry points.
// The zero value is the empty fragment. Like tribleset.Set, methods
// return new fragments and never mutate the receiver.
type Fragment struct {
	facts   tribleset.Set
	exports map[id.ID]struct{}
}

// New returns the empty fragment.
func New() Fragment {
	return Fragment{}
}

// FromSet wraps a fact set and marks the given identifiers exported.
func FromSet(facts tribleset.Set, exports ...id.ID) Fragment {
	out := Fragment{facts: facts}
	if len(exports) > 0 {
		out.exports = make(map[id.ID]struct{}, len(exports))
		for _, e := range exports {
			out.exports[e] = struct{}{}
		}
	}
	return out
}

// Facts returns the underlying fact set.
func (f Fragment) Facts() tribleset.Set {
	return f.facts
}

// Exports returns the exported identifiers in bytewise order, so the
// surface of a fragment is deterministic regardless of how it was
// assembled.
func (f Fragment) Exports() []id.ID {
	out := make([]id.ID, 0, len(f.exports))
	for e := range f.exports {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(out[i][:], out[j][:]) < 0
	})
	return out
}

// IsExported reports whether the identifier is part of the export
// surface.
func (f Fragment) IsExported(e id.ID) bool {
	_, ok := f.exports[e]
	return ok
}

// WithFact returns a fragment that additionally contains the fact.
func (f Fragment) WithFact(t trible.Trible) Fragment {
	return Fragment{facts: f.facts.Insert(t), exports: f.exports}
}

// WithFacts returns a fragment whose facts additionally include the
// given set.
func (f Fragment) WithFacts(s tribleset.Set) Fragment {
	return Fragment{facts: f.facts.Union(s), exports: f.exports}
}

// WithExport returns a fragment that additionally exports the
// identifier.
func (f Fragment) WithExport(e id.ID) Fragment {
	exports := make(map[id.ID]struct{}, len(f.exports)+1)
	for existing := range f.exports {
		exports[existing] = struct{}{}
	}
	exports[e] = struct{}{}
	return Fragment{facts: f.facts, exports: exports}
}

// Merge combines two fragments: the facts union and the exports
// union. Merge is commutative and idempotent, so independent
// producers compose in any order.
func Merge(a, b Fragment) Fragment {
	out := Fragment{facts: a.facts.Union(b.facts)}
	if len(a.exports)+len(b.exports) > 0 {
		out.exports = make(map[id.ID]struct{}, len(a.exports)+len(b.exports))
		for e := range a.exports {
			out.exports[e] = struct{}{}
		}
		for e := range b.exports {
			out.exports[e] = struct{}{}
		}
	}
	return out
}
