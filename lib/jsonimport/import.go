// Copyright 2026 The Trible Authors
// SPDX-License-Identifier: Apache-2.0

// Package jsonimport converts JSON documents into fact fragments.
//
// Each JSON object becomes an entity whose identifier is derived from
// its content, so importing the same document twice (or the same
// subtree from two documents) converges on the same entities and the
// resulting fact sets deduplicate under union. Field names map to
// derived attribute identifiers; scalar values map to typed 32-byte
// values; strings too long for inline storage are stored as blobs and
// referenced by handle.
//
// Input may be JSONC: comments and trailing commas are stripped
// before parsing.
package jsonimport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/tidwall/jsonc"

	"github.com/trible-foundation/trible/lib/blob"
	"github.com/trible-foundation/trible/lib/fragment"
	"github.com/trible-foundation/trible/lib/hash"
	"github.com/trible-foundation/trible/lib/id"
	"github.com/trible-foundation/trible/lib/value"
)

// attributeDomain separates attribute identifier derivation from
// entity identifier derivation, so a field named like an entity's
// content can never collide with it.
const attributeDomain = "trible:attribute:"

// AttributeID derives the attribute identifier for a JSON field name.
// The same name always derives the same identifier, which is what
// lets independently imported documents share attributes.
func AttributeID[P hash.Protocol](name string) id.ID {
	var p P
	digest := p.Digest([]byte(attributeDomain + name))
	var raw [id.Size]byte
	copy(raw[:], digest[hash.Size-id.Size:])
	if raw == ([id.Size]byte{}) {
		raw[0] = 1
	}
	return id.Force(raw)
}

// Importer converts parsed JSON values into fragments. Long strings
// are written to the store as they are encountered; facts reference
// them by handle.
type Importer[P hash.Protocol] struct {
	store blob.Store[P]
	salt  *[value.Size]byte
}

// New returns an importer writing oversized strings to store. A
// non-nil salt namespaces every derived entity identifier.
func New[P hash.Protocol](store blob.Store[P], salt *[value.Size]byte) *Importer[P] {
	return &Importer[P]{store: store, salt: salt}
}

// Import parses a JSON or JSONC document and converts its root object
// into a fragment. The root entity is exported.
func (imp *Importer[P]) Import(data []byte) (fragment.Fragment, error) {
	decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	decoder.UseNumber()

	var document any
	if err := decoder.Decode(&document); err != nil {
		return fragment.Fragment{}, fmt.Errorf("parsing document: %w", err)
	}

	object, ok := document.(map[string]any)
	if !ok {
		return fragment.Fragment{}, fmt.Errorf("document root must be an object, got %T", document)
	}

	root, out, err := imp.importObject(object)
	if err != nil {
		return fragment.Fragment{}, err
	}
	return out.WithExport(root), nil
}

// importObject converts one JSON object into an entity. The returned
// fragment contains the entity's facts plus those of all nested
// objects.
func (imp *Importer[P]) importObject(object map[string]any) (id.ID, fragment.Fragment, error) {
	out := fragment.New()
	var pairs []fragment.Pair

	for name, field := range object {
		attribute := AttributeID[P](name)
		values, nested, err := imp.importField(name, field)
		if err != nil {
			return id.ID{}, fragment.Fragment{}, err
		}
		out = fragment.Merge(out, nested)
		for _, v := range values {
			pairs = append(pairs, fragment.Pair{Attribute: attribute, Value: v})
		}
	}

	entity, facts := fragment.Entity[P](imp.salt, pairs)
	return entity, out.WithFacts(facts), nil
}

// importField converts one field value into zero or more 32-byte
// values. Arrays flatten into multiple values under the same
// attribute; nulls produce none. Nested objects are imported
// recursively and referenced by identifier.
func (imp *Importer[P]) importField(name string, field any) ([][value.Size]byte, fragment.Fragment, error) {
	switch v := field.(type) {
	case nil:
		return nil, fragment.New(), nil

	case bool:
		return [][value.Size]byte{value.FromBool(v).Raw()}, fragment.New(), nil

	case json.Number:
		raw, err := importNumber(v)
		if err != nil {
			return nil, fragment.Fragment{}, fmt.Errorf("field %q: %w", name, err)
		}
		return [][value.Size]byte{raw}, fragment.New(), nil

	case string:
		raw, out, err := imp.importString(v)
		if err != nil {
			return nil, fragment.Fragment{}, fmt.Errorf("field %q: %w", name, err)
		}
		return [][value.Size]byte{raw}, out, nil

	case map[string]any:
		child, out, err := imp.importObject(v)
		if err != nil {
			return nil, fragment.Fragment{}, err
		}
		return [][value.Size]byte{value.FromID(child).Raw()}, out, nil

	case []any:
		var values [][value.Size]byte
		out := fragment.New()
		for i, element := range v {
			if _, isArray := element.([]any); isArray {
				return nil, fragment.Fragment{}, fmt.Errorf("field %q: nested arrays are not representable", name)
			}
			elementValues, nested, err := imp.importField(fmt.Sprintf("%s[%d]", name, i), element)
			if err != nil {
				return nil, fragment.Fragment{}, err
			}
			values = append(values, elementValues...)
			out = fragment.Merge(out, nested)
		}
		return values, out, nil

	default:
		return nil, fragment.Fragment{}, fmt.Errorf("field %q: unsupported JSON value %T", name, field)
	}
}

// importNumber maps a JSON number to I256 when integral, F256
// otherwise.
func importNumber(number json.Number) ([value.Size]byte, error) {
	text := string(number)
	if integer, ok := new(big.Int).SetString(text, 10); ok {
		v, err := value.I256FromBigInt(integer)
		if err != nil {
			return [value.Size]byte{}, err
		}
		return v.Raw(), nil
	}

	float, _, err := big.ParseFloat(text, 10, 256, big.ToNearestEven)
	if err != nil {
		return [value.Size]byte{}, fmt.Errorf("unparseable number %q: %w", text, err)
	}
	v, err := value.FromBigFloat(float)
	if err != nil {
		return [value.Size]byte{}, err
	}
	return v.Raw(), nil
}

// importString stores short strings inline and long strings as blobs
// referenced by handle.
func (imp *Importer[P]) importString(s string) ([value.Size]byte, fragment.Fragment, error) {
	if short, err := value.FromString(s); err == nil {
		return short.Raw(), fragment.New(), nil
	}

	long, err := blob.FromString(s)
	if err != nil {
		return [value.Size]byte{}, fragment.Fragment{}, err
	}
	handle, err := blob.Put(imp.store, long)
	if err != nil {
		return [value.Size]byte{}, fragment.Fragment{}, fmt.Errorf("storing long string: %w", err)
	}
	return handle.Value().Raw(), fragment.New(), nil
}
