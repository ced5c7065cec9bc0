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

package analyzer

import (
	"strings"

	"github.com/czcorpus/gocma/ctype"
	"github.com/czcorpus/gocma/trie"
)

// combineWithTrie walks the word sequence src through the
// dictionary byte by byte and greedily collapses the longest run
// of consecutive words whose concatenation is a known entry.
// Words that take part in no match pass through verbatim, except
// spaces which are dropped.
func combineWithTrie(tr *trie.Trie, ct *ctype.CType, src []string) []string {
	dest := make([]string, 0, len(src))
	begin := -1
	lastWordEnd := -1
	cur := tr.Root()
	moreLong := true
	wordID := trie.NoWord

	n := len(src)
	for i := 0; i < n; i++ {
		str := src[i]
		j := 0
		for ; moreLong && j < len(str); j++ {
			wordID, moreLong = cur.Find(str[j])
		}

		if j < len(str) {
			// the match broke inside the current word
			if begin < 0 {
				if !ct.IsSpace([]byte(str)) {
					dest = append(dest, str)
				}
			} else {
				if lastWordEnd < begin {
					lastWordEnd = begin
				}
				dest = emitRun(dest, ct, src, begin, lastWordEnd)
				begin = -1
				i = lastWordEnd // resumes at lastWordEnd+1
			}
			cur.Reset()
			moreLong = true
			wordID = trie.NoWord
			continue
		}

		if moreLong && i < n-1 {
			// the match may still grow
			if begin < 0 {
				begin = i
			}
			if wordID >= 0 {
				lastWordEnd = i
			}
			continue
		}

		if begin < 0 {
			if !ct.IsSpace([]byte(str)) {
				dest = append(dest, str)
			}
		} else {
			if wordID >= 0 {
				lastWordEnd = i
			} else if lastWordEnd < begin {
				lastWordEnd = begin
			}
			dest = emitRun(dest, ct, src, begin, lastWordEnd)
			begin = -1
			i = lastWordEnd
		}
		cur.Reset()
		moreLong = true
		wordID = trie.NoWord
	}

	if begin >= 0 {
		dest = emitRun(dest, ct, src, begin, n-1)
	}
	return dest
}

// emitRun appends the concatenation src[begin..end] (inclusive) as
// one word; a run of length one passes through with the space
// filter applied.
func emitRun(dest []string, ct *ctype.CType, src []string, begin, end int) []string {
	if begin == end {
		if !ct.IsSpace([]byte(src[begin])) {
			dest = append(dest, src[begin])
		}
		return dest
	}
	return append(dest, strings.Join(src[begin:end+1], ""))
}
