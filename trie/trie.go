// Copyright 2019 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2019 Charles University, Faculty of Arts,
//                Institute of the Czech National Corpus
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package trie provides a byte-keyed prefix tree with an
// incremental cursor. The tree is filled once at dictionary load
// time and is immutable afterwards, so it can be shared by any
// number of analyzers.
package trie

// NoWord is the word id reported when the consumed byte sequence
// does not form a dictionary word.
const NoWord int32 = -1

// node is one arena slot. Children map byte values to arena
// indices. wordID is NoWord unless a dictionary word ends here.
type node struct {
	children map[byte]int32
	wordID   int32
}

// Trie is a packed-node prefix tree over raw dictionary bytes.
// Each distinct byte sequence maps to at most one word id.
type Trie struct {
	nodes []node
	words int
}

func New() *Trie {
	return &Trie{nodes: []node{{wordID: NoWord}}}
}

// NumWords returns the number of distinct words inserted.
func (t *Trie) NumWords() int {
	return t.words
}

// Insert stores word with the provided id (id >= 0). Inserting the
// same word twice keeps the first id and reports it.
func (t *Trie) Insert(word []byte, id int32) int32 {
	cur := int32(0)
	for _, b := range word {
		nd := &t.nodes[cur]
		if nd.children == nil {
			nd.children = make(map[byte]int32)
		}
		next, ok := nd.children[b]
		if !ok {
			next = int32(len(t.nodes))
			nd.children[b] = next
			t.nodes = append(t.nodes, node{wordID: NoWord})
		}
		cur = next
	}
	if t.nodes[cur].wordID != NoWord {
		return t.nodes[cur].wordID
	}
	t.nodes[cur].wordID = id
	t.words++
	return id
}

// Search performs a full-word lookup and returns the word id or
// NoWord.
func (t *Trie) Search(word []byte) int32 {
	cur := int32(0)
	for _, b := range word {
		next, ok := t.nodes[cur].children[b]
		if !ok {
			return NoWord
		}
		cur = next
	}
	return t.nodes[cur].wordID
}

// Cursor is an incremental pointer into the tree advanced one byte
// at a time. The zero Cursor is not usable; obtain one via Root.
type Cursor struct {
	t    *Trie
	idx  int32
	dead bool
}

// Root returns a cursor positioned at the tree root.
func (t *Trie) Root() Cursor {
	return Cursor{t: t}
}

// Reset moves the cursor back to the root.
func (c *Cursor) Reset() {
	c.idx = 0
	c.dead = false
}

// Find advances the cursor by one byte. It returns the word id at
// the new position (NoWord if none) and whether any longer match
// may still follow. Once an advance fails the cursor stays dead
// until Reset.
func (c *Cursor) Find(b byte) (wordID int32, moreLong bool) {
	if c.dead {
		return NoWord, false
	}
	next, ok := c.t.nodes[c.idx].children[b]
	if !ok {
		c.dead = true
		return NoWord, false
	}
	c.idx = next
	return c.t.nodes[next].wordID, len(c.t.nodes[next].children) > 0
}

// MoreLong reports whether the current position has any children.
func (c *Cursor) MoreLong() bool {
	return !c.dead && len(c.t.nodes[c.idx].children) > 0
}

// WordID returns the word id at the current position.
func (c *Cursor) WordID() int32 {
	if c.dead {
		return NoWord
	}
	return c.t.nodes[c.idx].wordID
}
