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

// Package maxent implements the frozen log-linear scoring model
// shared by the segmentation and POS taggers.
package maxent

import (
	"math"
)

// Model is a read-only (feature x tag) weight table plus the tag
// vocabulary. A context feature contributes to a tag's score iff
// the trainer emitted the combined "feature_tag" key; this
// membership rule doubles as the rare-word predicate at inference.
type Model struct {
	tags    []string
	tagIDs  map[string]int
	weights map[string]float64
}

// NewModel creates an empty model over a fixed tag vocabulary.
// Used by the loader and by tests which build models by hand.
func NewModel(tags []string) *Model {
	m := &Model{
		tags:    append([]string(nil), tags...),
		tagIDs:  make(map[string]int, len(tags)),
		weights: make(map[string]float64),
	}
	for i, t := range m.tags {
		m.tagIDs[t] = i
	}
	return m
}

// AddWeight binds a context feature (e.g. "curword=X") to a tag
// with the given weight. Unknown tags are ignored.
func (m *Model) AddWeight(feature, tag string, w float64) {
	if _, ok := m.tagIDs[tag]; !ok {
		return
	}
	m.weights[feature+"_"+tag] = w
}

func (m *Model) NumTags() int {
	return len(m.tags)
}

func (m *Model) Tags() []string {
	return m.tags
}

// TagID returns the dense id of a tag name or -1.
func (m *Model) TagID(tag string) int {
	if id, ok := m.tagIDs[tag]; ok {
		return id
	}
	return -1
}

func (m *Model) TagName(id int) string {
	if id < 0 || id >= len(m.tags) {
		return ""
	}
	return m.tags[id]
}

// Score sums the weights of all context features present in the
// feature dictionary for the candidate tag. Absent combinations
// contribute nothing, which is exactly how unseen (rare) material
// behaves.
func (m *Model) Score(context []string, tag int) float64 {
	if tag < 0 || tag >= len(m.tags) {
		return math.Inf(-1)
	}
	suffix := "_" + m.tags[tag]
	var s float64
	for _, f := range context {
		s += m.weights[f+suffix]
	}
	return s
}

// AllScores fills dst (allocating when too small) with the raw
// linear score of every tag for the context. Only ranks and
// relative magnitudes matter to callers.
func (m *Model) AllScores(context []string, dst []float64) []float64 {
	if cap(dst) < len(m.tags) {
		dst = make([]float64, len(m.tags))
	}
	dst = dst[:len(m.tags)]
	for i := range dst {
		dst[i] = m.Score(context, i)
	}
	return dst
}

// LogProbs is AllScores followed by log-softmax normalization, so
// the per-tag values are log-probabilities of the local decision.
func (m *Model) LogProbs(context []string, dst []float64) []float64 {
	dst = m.AllScores(context, dst)
	max := math.Inf(-1)
	for _, v := range dst {
		if v > max {
			max = v
		}
	}
	var sum float64
	for _, v := range dst {
		sum += math.Exp(v - max)
	}
	logZ := max + math.Log(sum)
	for i := range dst {
		dst[i] -= logZ
	}
	return dst
}

// BestTag returns the highest scoring tag id for the context. Ties
// go to the lower tag id which is stable across runs.
func (m *Model) BestTag(context []string) (int, float64) {
	best := -1
	bestScore := math.Inf(-1)
	for i := range m.tags {
		s := m.Score(context, i)
		if s > bestScore {
			best = i
			bestScore = s
		}
	}
	return best, bestScore
}
