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

// Morpheme is one analyzed word. PosCode is -1 when POS tagging
// was off for the run that produced it.
type Morpheme struct {
	Lexicon   string
	PosCode   int
	PosStr    string
	IsIndexed bool
}

// MorphemeList is one segmentation candidate of a sentence.
type MorphemeList []Morpheme

// equal compares two candidates; POS codes take part only when
// the analysis ran with POS tagging on.
func (ml MorphemeList) equal(other MorphemeList, withPOS bool) bool {
	if len(ml) != len(other) {
		return false
	}
	for i := range ml {
		if ml[i].Lexicon != other[i].Lexicon {
			return false
		}
		if withPOS && ml[i].PosCode != other[i].PosCode {
			return false
		}
	}
	return true
}

// Sentence owns one raw input and the candidate analyses produced
// for it. Instances are transient per call and not shared.
type Sentence struct {
	raw        []byte
	candidates []MorphemeList
	scores     []float64
}

func NewSentence(raw []byte) *Sentence {
	return &Sentence{raw: raw}
}

// SetString replaces the raw input and drops any candidates.
func (s *Sentence) SetString(raw []byte) {
	s.raw = raw
	s.candidates = nil
	s.scores = nil
}

func (s *Sentence) Raw() []byte {
	return s.raw
}

// ListSize returns the number of stored candidates.
func (s *Sentence) ListSize() int {
	return len(s.candidates)
}

// List returns the i-th candidate (nil when out of range).
func (s *Sentence) List(i int) MorphemeList {
	if i < 0 || i >= len(s.candidates) {
		return nil
	}
	return s.candidates[i]
}

func (s *Sentence) Score(i int) float64 {
	if i < 0 || i >= len(s.scores) {
		return 0
	}
	return s.scores[i]
}

// OneBestIndex returns the index of the highest scoring candidate
// or -1 when the sentence has none.
func (s *Sentence) OneBestIndex() int {
	if len(s.scores) == 0 {
		return -1
	}
	best := 0
	for i, sc := range s.scores {
		if sc > s.scores[best] {
			best = i
		}
	}
	return best
}

func (s *Sentence) addList(ml MorphemeList, score float64) {
	s.candidates = append(s.candidates, ml)
	s.scores = append(s.scores, score)
}
