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
	"github.com/czcorpus/gocma/ctype"
	"github.com/czcorpus/gocma/trie"
)

// parseFMinCover segments chars[0..n) into the fewest words such
// that every emitted word is either a dictionary entry or a single
// character. Equal word counts are resolved in favour of the
// longer leading match. Space characters are dropped.
func parseFMinCover(
	tr *trie.Trie,
	chars [][]byte,
	types []ctype.CharType,
) []string {
	n := len(chars)
	cost := make([]int, n+1)
	choice := make([]int, n) // chosen word length in characters; 0 = skip a space
	for i := n - 1; i >= 0; i-- {
		if types[i] == ctype.CharTypeSpace {
			cost[i] = cost[i+1]
			choice[i] = 0
			continue
		}
		best := 1 + cost[i+1]
		bestLen := 1
		cur := tr.Root()
		moreLong := true
		wordID := trie.NoWord
	match:
		for k := i; k < n && moreLong; k++ {
			for _, b := range chars[k] {
				wordID, moreLong = cur.Find(b)
				if wordID < 0 && !moreLong {
					break match
				}
			}
			if wordID >= 0 && k > i {
				length := k - i + 1
				c := 1 + cost[k+1]
				if c < best || (c == best && length > bestLen) {
					best = c
					bestLen = length
				}
			}
		}
		cost[i] = best
		choice[i] = bestLen
	}

	var words []string
	for i := 0; i < n; {
		if choice[i] == 0 {
			i++
			continue
		}
		var buf []byte
		for k := i; k < i+choice[i]; k++ {
			buf = append(buf, chars[k]...)
		}
		words = append(words, string(buf))
		i += choice[i]
	}
	return words
}
