// Copyright 2026 The Trible Authors
// SPDX-License-Identifier: Apache-2.0

package tribleset

import "math/bits"

// keySize is the trie key width. Keys are always full 64-byte fact
// records (possibly column-permuted, see order.go).
const keySize = 64

// bitmap tracks which of the 256 possible branch bytes have children.
// Child pointers are stored densely, sorted by branch byte; rank maps
// a byte to its slot.
type bitmap [4]uint64

func (b *bitmap) set(i uint8) {
	b[i>>6] |= 1 << (i & 63)
}

func (b *bitmap) has(i uint8) bool {
	return b[i>>6]&(1<<(i&63)) != 0
}

// rank returns the number of set bits strictly below i, which is the
// child slice index for branch byte i.
func (b *bitmap) rank(i uint8) int {
	r := bits.OnesCount64(b[i>>6] & (1<<(i&63) - 1))
	for w := 0; w < int(i>>6); w++ {
		r += bits.OnesCount64(b[w])
	}
	return r
}

// node is an immutable, path-compressed trie node. All keys below a
// node share the prefix key[:depth]; key itself is any full key from
// the subtree, kept so inner nodes never materialize prefixes. A node
// with depth == keySize is a leaf. Nodes are never modified after
// construction: insert and union clone along the touched path and
// share everything else, which is what makes sets cheap snapshots.
type node struct {
	key      [keySize]byte
	depth    int
	count    int
	bitmap   bitmap
	children []*node
}

func newLeaf(key [keySize]byte) *node {
	return &node{key: key, depth: keySize, count: 1}
}

func (n *node) isLeaf() bool {
	return n.depth == keySize
}

// mismatch returns the first position in [from, limit) where a and b
// differ, or limit if the range matches.
func mismatch(a, b *[keySize]byte, from, limit int) int {
	for i := from; i < limit; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return limit
}

// shallowClone copies the node and its child slice so one child slot
// can be swapped without touching the original.
func (n *node) shallowClone() *node {
	clone := *n
	clone.children = make([]*node, len(n.children))
	copy(clone.children, n.children)
	return &clone
}

// branch2 builds the smallest branch covering two subtrees whose keys
// first diverge at the given depth.
func branch2(depth int, a, b *node) *node {
	out := &node{key: a.key, depth: depth, count: a.count + b.count}
	byteA, byteB := a.key[depth], b.key[depth]
	out.bitmap.set(byteA)
	out.bitmap.set(byteB)
	if byteA < byteB {
		out.children = []*node{a, b}
	} else {
		out.children = []*node{b, a}
	}
	return out
}

// insertChild splices child into a cloned child slice at index i.
func insertChild(children []*node, i int, child *node) []*node {
	out := make([]*node, len(children)+1)
	copy(out, children[:i])
	out[i] = child
	copy(out[i+1:], children[i:])
	return out
}

// insert returns the root of a trie containing key in addition to
// everything below n. Returns n itself when the key is already
// present. Comparison starts at byte position from, the first byte n
// discriminates on.
func (n *node) insert(key [keySize]byte, from int) *node {
	if i := mismatch(&n.key, &key, from, n.depth); i < n.depth {
		return branch2(i, n, newLeaf(key))
	}
	if n.isLeaf() {
		return n // identical key, idempotent
	}

	branchByte := key[n.depth]
	if n.bitmap.has(branchByte) {
		slot := n.bitmap.rank(branchByte)
		child := n.children[slot]
		updated := child.insert(key, n.depth+1)
		if updated == child {
			return n
		}
		clone := n.shallowClone()
		clone.children[slot] = updated
		clone.count += updated.count - child.count
		return clone
	}

	clone := *n
	clone.bitmap.set(branchByte)
	clone.children = insertChild(n.children, clone.bitmap.rank(branchByte), newLeaf(key))
	clone.count++
	return &clone
}

// has reports whether key is present below n.
func (n *node) has(key [keySize]byte, from int) bool {
	if n == nil {
		return false
	}
	if mismatch(&n.key, &key, from, n.depth) < n.depth {
		return false
	}
	if n.isLeaf() {
		return true
	}
	branchByte := key[n.depth]
	if !n.bitmap.has(branchByte) {
		return false
	}
	return n.children[n.bitmap.rank(branchByte)].has(key, n.depth+1)
}

// union merges two tries into one containing every key from either.
// Shared subtrees (pointer-equal nodes, the common case when both
// sets grew from one ancestor) are reused without descending. When
// one input already contains the other's keys, that input's node is
// returned unchanged, so union(a, a) is pointer-identical to a.
func union(a, b *node, from int) *node {
	if a == b {
		return a
	}

	limit := min(a.depth, b.depth)
	if i := mismatch(&a.key, &b.key, from, limit); i < limit {
		return branch2(i, a, b)
	}

	switch {
	case a.depth < b.depth:
		return mergeIn(a, b)
	case b.depth < a.depth:
		return mergeIn(b, a)
	}

	if a.isLeaf() {
		return a // identical keys
	}

	// Equal-depth branches: merge child lists byte by byte, tracking
	// whether the result is structurally one of the inputs so the
	// original node (and its sharing) can be kept.
	var (
		outBitmap   bitmap
		outChildren []*node
		outCount    int
		slotA, slotB int
		sameAsA     = true
		sameAsB     = true
	)
	for branchByte := 0; branchByte < 256; branchByte++ {
		inA := a.bitmap.has(uint8(branchByte))
		inB := b.bitmap.has(uint8(branchByte))
		var child *node
		switch {
		case inA && inB:
			childA, childB := a.children[slotA], b.children[slotB]
			child = union(childA, childB, a.depth+1)
			if child != childA {
				sameAsA = false
			}
			if child != childB {
				sameAsB = false
			}
			slotA++
			slotB++
		case inA:
			child = a.children[slotA]
			slotA++
			sameAsB = false
		case inB:
			child = b.children[slotB]
			slotB++
			sameAsA = false
		default:
			continue
		}
		outBitmap.set(uint8(branchByte))
		outChildren = append(outChildren, child)
		outCount += child.count
	}

	if sameAsA {
		return a
	}
	if sameAsB {
		return b
	}
	return &node{key: a.key, depth: a.depth, count: outCount, bitmap: outBitmap, children: outChildren}
}

// mergeIn folds sub into branch. branch.depth < sub.depth and their
// keys agree through branch.depth, so sub nests under one of branch's
// child slots.
func mergeIn(branch, sub *node) *node {
	branchByte := sub.key[branch.depth]
	if branch.bitmap.has(branchByte) {
		slot := branch.bitmap.rank(branchByte)
		child := branch.children[slot]
		merged := union(child, sub, branch.depth+1)
		if merged == child {
			return branch
		}
		clone := branch.shallowClone()
		clone.children[slot] = merged
		clone.count += merged.count - child.count
		return clone
	}

	clone := *branch
	clone.bitmap.set(branchByte)
	clone.children = insertChild(branch.children, clone.bitmap.rank(branchByte), sub)
	clone.count += sub.count
	return &clone
}

// walk visits every key below n in ascending byte order. Returns
// false if the yield function stopped the walk.
func (n *node) walk(yield func([keySize]byte) bool) bool {
	if n == nil {
		return true
	}
	if n.isLeaf() {
		return yield(n.key)
	}
	for _, child := range n.children {
		if !child.walk(yield) {
			return false
		}
	}
	return true
}

// walkPrefix visits, in ascending order, every key that begins with
// prefix[:prefixLen]. Keys outside the prefix are skipped without
// descending into their subtrees.
func (n *node) walkPrefix(prefix *[keySize]byte, prefixLen, from int, yield func([keySize]byte) bool) bool {
	if n == nil {
		return true
	}
	limit := min(n.depth, prefixLen)
	if mismatch(&n.key, prefix, from, limit) < limit {
		return true // subtree disjoint from prefix
	}
	if n.depth >= prefixLen {
		return n.walk(yield)
	}
	branchByte := prefix[n.depth]
	if !n.bitmap.has(branchByte) {
		return true
	}
	return n.children[n.bitmap.rank(branchByte)].walkPrefix(prefix, prefixLen, n.depth+1, yield)
}

// equal reports structural equality: both tries contain exactly the
// same key set. Compressed tries over equal key sets have identical
// shape, so this is a direct recursive comparison with a pointer
// fast path for shared subtrees.
func equal(a, b *node, from int) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.depth != b.depth || a.count != b.count || a.bitmap != b.bitmap {
		return false
	}
	if mismatch(&a.key, &b.key, from, a.depth) < a.depth {
		return false
	}
	if a.isLeaf() {
		return true
	}
	for i := range a.children {
		if !equal(a.children[i], b.children[i], a.depth+1) {
			return false
		}
	}
	return true
}
