// Copyright 2020 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2020 Charles University, Faculty of Arts,
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

// Package freq accumulates word/POS unigram frequencies from
// analysis output and exports them to a SQL database.
package freq

import "sort"

// WordDict is basically a bidirectional map for mapping
// between words and ints and ints and words. It is used to
// reduce memory usage when collecting frequencies.
type WordDict struct {
	counter int
	data    map[string]int
	dataRev map[int]string
}

// Add adds a word to the dictionary and returns
// its numeric representation.
func (w *WordDict) Add(word string) int {
	v, ok := w.data[word]
	if !ok {
		w.counter++
		w.data[word] = w.counter
		w.dataRev[w.counter] = word
		return w.counter
	}
	return v
}

// Get returns a word based on its integer representation.
func (w *WordDict) Get(idx int) string {
	return w.dataRev[idx]
}

func (w *WordDict) Size() int {
	return len(w.data)
}

func NewWordDict() *WordDict {
	return &WordDict{
		data:    make(map[string]int),
		dataRev: make(map[int]string),
	}
}

type pairKey struct {
	word int
	pos  int
}

// Record is one exported frequency row.
type Record struct {
	Word  string
	POS   string
	Count int
}

// Counter counts (word, POS) unigrams. POS may be empty when the
// analysis runs without POS tagging.
type Counter struct {
	words  *WordDict
	poses  *WordDict
	counts map[pairKey]int
}

func NewCounter() *Counter {
	return &Counter{
		words:  NewWordDict(),
		poses:  NewWordDict(),
		counts: make(map[pairKey]int),
	}
}

// AddToken counts one analyzed token.
func (c *Counter) AddToken(word, pos string) {
	key := pairKey{word: c.words.Add(word), pos: c.poses.Add(pos)}
	c.counts[key]++
}

func (c *Counter) NumTypes() int {
	return len(c.counts)
}

// Records materializes the counts ordered by word then POS so the
// export is reproducible.
func (c *Counter) Records() []Record {
	ans := make([]Record, 0, len(c.counts))
	for key, cnt := range c.counts {
		ans = append(ans, Record{
			Word:  c.words.Get(key.word),
			POS:   c.poses.Get(key.pos),
			Count: cnt,
		})
	}
	sort.Slice(ans, func(i, j int) bool {
		if ans[i].Word != ans[j].Word {
			return ans[i].Word < ans[j].Word
		}
		return ans[i].POS < ans[j].POS
	})
	return ans
}
