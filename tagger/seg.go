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

// Package tagger contains the character-based segmentation tagger
// and the POS tagger, both scoring with a frozen maxent model.
package tagger

import (
	"fmt"
	"math"
	"sort"

	"github.com/czcorpus/gocma/ctype"
	"github.com/czcorpus/gocma/maxent"
)

// TagScheme selects the segmentation tag alphabet, fixed at model
// training time and recovered from the model's tag vocabulary.
type TagScheme int

const (
	// SchemeBE tags characters as word begin/end.
	SchemeBE TagScheme = iota
	// SchemeILMR tags characters as independent/left/middle/right.
	SchemeILMR
)

// ScoredWords is one segmentation candidate: the word sequence and
// the path score (higher = better; positive after exponentiation).
type ScoredWords struct {
	Words []string
	Score float64
}

// SegTagger assigns boundary tags to characters and extracts up to
// N best tag paths via a beam lattice search. It is immutable after
// construction; per-call scratch lives on the stack of SegSentence.
type SegTagger struct {
	model     *maxent.Model
	scheme    TagScheme
	legal     [][]bool
	initial   []bool
	wordBegin []bool
	wordEnd   []bool
}

// NewSegTagger wires a segmentation model. The tag vocabulary must
// be {B, E} or {I, L, M, R}.
func NewSegTagger(model *maxent.Model) (*SegTagger, error) {
	st := &SegTagger{model: model}
	b, e := model.TagID("B"), model.TagID("E")
	i, l, m, r := model.TagID("I"), model.TagID("L"), model.TagID("M"), model.TagID("R")
	switch {
	case model.NumTags() == 2 && b >= 0 && e >= 0:
		st.scheme = SchemeBE
		st.legal = allow(2, [][2]int{{b, b}, {b, e}, {e, b}, {e, e}})
		st.initial = allowOne(2, b)
		st.wordBegin = allowOne(2, b)
		st.wordEnd = allowOne(2, e)
	case model.NumTags() == 4 && i >= 0 && l >= 0 && m >= 0 && r >= 0:
		st.scheme = SchemeILMR
		st.legal = allow(4, [][2]int{
			{i, i}, {i, l}, {r, i}, {r, l},
			{l, m}, {l, r}, {m, m}, {m, r},
		})
		st.initial = allowOne(4, i, l)
		st.wordBegin = allowOne(4, i, l)
		st.wordEnd = allowOne(4, i, r)
	default:
		return nil, fmt.Errorf("unsupported segmentation tag set %v", model.Tags())
	}
	return st, nil
}

func (st *SegTagger) Scheme() TagScheme {
	return st.scheme
}

func allow(n int, pairs [][2]int) [][]bool {
	t := make([][]bool, n)
	for i := range t {
		t[i] = make([]bool, n)
	}
	for _, p := range pairs {
		t[p[0]][p[1]] = true
	}
	return t
}

func allowOne(n int, ids ...int) []bool {
	t := make([]bool, n)
	for _, id := range ids {
		t[id] = true
	}
	return t
}

type hypo struct {
	tags  []uint8
	score float64
}

// staticContext builds the position-bound part of the feature set;
// prevtag/prev2tag are appended per lattice path.
func (st *SegTagger) staticContext(words []string, types []ctype.CharType, i int) []string {
	n := len(words)
	ctx := make([]string, 0, 8)
	ctx = append(ctx, "curword="+words[i])
	if i > 0 {
		ctx = append(ctx, "prevword="+words[i-1])
	}
	if i > 1 {
		ctx = append(ctx, "prev2word="+words[i-2])
	}
	if i+1 < n {
		ctx = append(ctx, "nextword="+words[i+1])
	}
	if i+2 < n {
		ctx = append(ctx, "next2word="+words[i+2])
	}
	ctx = append(ctx, "curtype="+types[i].String())
	return ctx
}

// SegSentence runs the lattice search and returns up to n tag
// paths materialized as word sequences with exponentiated path
// scores. Characters typed as Space never appear in the output.
func (st *SegTagger) SegSentence(
	chars [][]byte,
	types []ctype.CharType,
	n int,
) []ScoredWords {
	paths := st.decode(chars, types, n)
	ans := make([]ScoredWords, len(paths))
	for i, p := range paths {
		ans[i] = ScoredWords{
			Words: st.wordsFromTags(chars, types, p.tags),
			Score: math.Exp(p.score),
		}
	}
	return ans
}

// SegSentenceBest is the single-best shortcut used by the default
// analysis strategy.
func (st *SegTagger) SegSentenceBest(chars [][]byte, types []ctype.CharType) []string {
	paths := st.decode(chars, types, 1)
	if len(paths) == 0 {
		return nil
	}
	return st.wordsFromTags(chars, types, paths[0].tags)
}

// decode keeps, at every lattice column, the top-K partial paths
// per (previous tag, ending tag) state, K sized to make the final
// n-best exact for the legal transition structure of both alphabets.
func (st *SegTagger) decode(chars [][]byte, types []ctype.CharType, n int) []hypo {
	if len(chars) == 0 {
		return nil
	}
	if n < 1 {
		n = 1
	}
	perState := n
	if perState < 2 {
		perState = 2
	}
	numTags := st.model.NumTags()
	words := make([]string, len(chars))
	for i, c := range chars {
		words[i] = string(c)
	}

	var beam []hypo
	lp := make([]float64, 0, numTags)
	ctxBuf := make([]string, 0, 10)

	for i := range words {
		static := st.staticContext(words, types, i)
		var next []hypo
		if i == 0 {
			lp = st.model.LogProbs(static, lp)
			for tag := 0; tag < numTags; tag++ {
				if !st.initial[tag] {
					continue
				}
				next = append(next, hypo{tags: []uint8{uint8(tag)}, score: lp[tag]})
			}
		} else {
			for _, h := range beam {
				ctxBuf = append(ctxBuf[:0], static...)
				prev := int(h.tags[len(h.tags)-1])
				ctxBuf = append(ctxBuf, "prevtag="+st.model.TagName(prev))
				if len(h.tags) > 1 {
					ctxBuf = append(ctxBuf,
						"prev2tag="+st.model.TagName(int(h.tags[len(h.tags)-2])))
				}
				lp = st.model.LogProbs(ctxBuf, lp)
				for tag := 0; tag < numTags; tag++ {
					if !st.legal[prev][tag] {
						continue
					}
					tags := make([]uint8, len(h.tags)+1)
					copy(tags, h.tags)
					tags[len(h.tags)] = uint8(tag)
					next = append(next, hypo{tags: tags, score: h.score + lp[tag]})
				}
			}
		}
		beam = prune(next, numTags, perState)
	}

	sortHypos(beam)
	if len(beam) > n {
		beam = beam[:n]
	}
	return beam
}

// prune keeps the top-k hypotheses per (previous tag, ending tag)
// state, the part of a path that the prevtag/prev2tag features of
// the next column depend on.
func prune(hs []hypo, numTags, k int) []hypo {
	sortHypos(hs)
	kept := hs[:0]
	counts := make([]int, numTags*(numTags+1))
	for _, h := range hs {
		n := len(h.tags)
		state := int(h.tags[n-1])
		if n > 1 {
			state += (int(h.tags[n-2]) + 1) * numTags
		}
		if counts[state] >= k {
			continue
		}
		counts[state]++
		kept = append(kept, h)
	}
	return kept
}

// sortHypos orders by score descending; equal scores fall back to
// the tag id sequence ascending, which is a stable comparator.
func sortHypos(hs []hypo) {
	sort.SliceStable(hs, func(a, b int) bool {
		if hs[a].score != hs[b].score {
			return hs[a].score > hs[b].score
		}
		ta, tb := hs[a].tags, hs[b].tags
		for i := 0; i < len(ta) && i < len(tb); i++ {
			if ta[i] != tb[i] {
				return ta[i] < tb[i]
			}
		}
		return len(ta) < len(tb)
	})
}

// wordsFromTags walks the tag path left to right: a word-beginning
// tag flushes any open word, a word-ending tag closes the current
// one, and the sentence end closes whatever remains. Space
// characters are dropped.
func (st *SegTagger) wordsFromTags(
	chars [][]byte,
	types []ctype.CharType,
	tags []uint8,
) []string {
	var words []string
	var buf []byte
	for i, c := range chars {
		if types[i] == ctype.CharTypeSpace {
			continue
		}
		if st.wordBegin[tags[i]] && len(buf) > 0 {
			words = append(words, string(buf))
			buf = buf[:0]
		}
		buf = append(buf, c...)
		if st.wordEnd[tags[i]] {
			words = append(words, string(buf))
			buf = buf[:0]
		}
	}
	if len(buf) > 0 {
		words = append(words, string(buf))
	}
	return words
}
