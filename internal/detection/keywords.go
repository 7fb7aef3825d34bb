// LocShield - Real-Time GPS Spoofing Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/locshield

package detection

import "strings"

// keywordSet is a case-insensitive Aho-Corasick automaton over a fixed list of
// keywords. One pass over a line finds every keyword it contains, which keeps
// classification linear in line length however many keywords are configured.
//
// A keywordSet is immutable after construction and safe for concurrent use.
type keywordSet struct {
	root     *kwNode
	keywords []string // as configured, for display
}

type kwNode struct {
	next   map[rune]*kwNode
	fail   *kwNode
	output []int // indexes into keywords ending at this node
}

func newKWNode() *kwNode {
	return &kwNode{next: make(map[rune]*kwNode)}
}

// newKeywordSet compiles the non-empty keywords. Matching is on the
// lowercased form; results report the keyword as configured.
func newKeywordSet(keywords []string) *keywordSet {
	ks := &keywordSet{root: newKWNode()}
	seen := make(map[string]bool, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		lower := strings.ToLower(kw)
		if kw == "" || seen[lower] {
			continue
		}
		seen[lower] = true
		ks.insert(len(ks.keywords), lower)
		ks.keywords = append(ks.keywords, kw)
	}
	ks.link()
	return ks
}

func (ks *keywordSet) insert(idx int, kw string) {
	node := ks.root
	for _, ch := range kw {
		child, ok := node.next[ch]
		if !ok {
			child = newKWNode()
			node.next[ch] = child
		}
		node = child
	}
	node.output = append(node.output, idx)
}

// link computes failure links breadth-first.
func (ks *keywordSet) link() {
	queue := make([]*kwNode, 0, len(ks.root.next))
	for _, child := range ks.root.next {
		child.fail = ks.root
		queue = append(queue, child)
	}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		for ch, child := range node.next {
			queue = append(queue, child)
			f := node.fail
			for f != nil && f.next[ch] == nil {
				f = f.fail
			}
			if f == nil {
				child.fail = ks.root
				continue
			}
			child.fail = f.next[ch]
			child.output = append(child.output, child.fail.output...)
		}
	}
}

// Empty reports whether no keyword was compiled.
func (ks *keywordSet) Empty() bool { return len(ks.keywords) == 0 }

// Len returns the number of distinct keywords.
func (ks *keywordSet) Len() int { return len(ks.keywords) }

// step advances the automaton by one rune.
func (ks *keywordSet) step(node *kwNode, ch rune) *kwNode {
	for node != ks.root && node.next[ch] == nil {
		node = node.fail
	}
	if child, ok := node.next[ch]; ok {
		return child
	}
	return ks.root
}

// First returns the keyword that ends earliest in lower, which must already
// be lowercased.
func (ks *keywordSet) First(lower string) (string, bool) {
	if ks.Empty() {
		return "", false
	}
	node := ks.root
	for _, ch := range lower {
		node = ks.step(node, ch)
		if len(node.output) > 0 {
			return ks.keywords[node.output[0]], true
		}
	}
	return "", false
}

// Contains reports whether lower contains any keyword.
func (ks *keywordSet) Contains(lower string) bool {
	_, ok := ks.First(lower)
	return ok
}
