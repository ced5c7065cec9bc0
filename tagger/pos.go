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

package tagger

import (
	"math"
	"strconv"

	"github.com/czcorpus/gocma/ctype"
	"github.com/czcorpus/gocma/maxent"
)

// Lexicon provides the per-word candidate POS sets observed during
// training. An empty slice means the word is unknown.
type Lexicon interface {
	CandidatePOS(word string) []string
}

// POSTagger assigns the best POS to each word of a segmented
// sentence, restricted to the word's dictionary candidate set when
// one exists.
type POSTagger struct {
	model      *maxent.Model
	defaultPOS string
}

func NewPOSTagger(model *maxent.Model, defaultPOS string) *POSTagger {
	return &POSTagger{model: model, defaultPOS: defaultPOS}
}

func (pt *POSTagger) DefaultPOS() string {
	return pt.defaultPOS
}

// wordContext mirrors the training feature template. The
// character-type oracle is passed in rather than stored so the
// tagger keeps no per-encoding state.
func (pt *POSTagger) wordContext(ct *ctype.CType, words, poses []string, j int) []string {
	ctx := make([]string, 0, 6)
	ctx = append(ctx, "curword="+words[j])
	if j > 0 {
		ctx = append(ctx, "prevword="+words[j-1])
		ctx = append(ctx, "prevpos="+poses[j-1])
	}
	if j+1 < len(words) {
		ctx = append(ctx, "nextword="+words[j+1])
	}
	hasDigit := false
	wordLen := 0
	tok := ctype.NewTokenizer(ct, []byte(words[j]))
	for {
		_, r, ok := tok.Next()
		if !ok {
			break
		}
		wordLen++
		if ct.GetBaseType(r) == ctype.CharTypeDigit {
			hasDigit = true
		}
	}
	ctx = append(ctx, "word_has_digit="+strconv.FormatBool(hasDigit))
	if wordLen > 5 {
		wordLen = 5
	}
	ctx = append(ctx, "word_len="+strconv.Itoa(wordLen))
	return ctx
}

// TagBest assigns one POS per word, left to right, choosing the
// maxent argmax within the candidate set. Words whose candidate
// set has no overlap with the model's tag vocabulary fall back to
// the default POS recorded with the model.
func (pt *POSTagger) TagBest(ct *ctype.CType, lex Lexicon, words []string) []string {
	poses := make([]string, len(words))
	for j := range words {
		poses[j] = pt.tagOne(ct, lex, words, poses, j)
	}
	return poses
}

func (pt *POSTagger) tagOne(ct *ctype.CType, lex Lexicon, words, poses []string, j int) string {
	ctx := pt.wordContext(ct, words, poses, j)
	cands := lex.CandidatePOS(words[j])
	if len(cands) == 0 {
		best, _ := pt.model.BestTag(ctx)
		if best < 0 {
			return pt.defaultPOS
		}
		return pt.model.TagName(best)
	}
	best := ""
	bestScore := math.Inf(-1)
	for _, cand := range cands {
		id := pt.model.TagID(cand)
		if id < 0 {
			continue
		}
		if s := pt.model.Score(ctx, id); s > bestScore {
			best = cand
			bestScore = s
		}
	}
	if best == "" {
		return pt.defaultPOS
	}
	return best
}
