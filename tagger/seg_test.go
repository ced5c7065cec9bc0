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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/czcorpus/gocma/ctype"
	"github.com/czcorpus/gocma/maxent"
)

// beModel prefers to close a word after "B" and to open a new one
// on "C": the best path for "ABC" is B,E,B; the runner-up is B,B,E.
func beModel() *maxent.Model {
	m := maxent.NewModel([]string{"B", "E"})
	m.AddWeight("curword=B", "E", 1)
	m.AddWeight("curword=C", "B", 1)
	m.AddWeight("prevtag=B", "E", 2)
	m.AddWeight("prevtag=E", "E", -5)
	return m
}

func toChars(s string) ([][]byte, []ctype.CharType) {
	ct, _ := ctype.NewCType("utf8")
	chars, runes := ctype.Extract(ct, []byte(s))
	return chars, ct.SetTypes(runes)
}

func TestNewSegTaggerSchemes(t *testing.T) {
	st, err := NewSegTagger(maxent.NewModel([]string{"B", "E"}))
	require.NoError(t, err)
	assert.Equal(t, SchemeBE, st.Scheme())

	st, err = NewSegTagger(maxent.NewModel([]string{"I", "L", "M", "R"}))
	require.NoError(t, err)
	assert.Equal(t, SchemeILMR, st.Scheme())

	_, err = NewSegTagger(maxent.NewModel([]string{"X", "Y"}))
	assert.Error(t, err)
}

func TestSegSentenceBestBE(t *testing.T) {
	st, err := NewSegTagger(beModel())
	require.NoError(t, err)
	chars, types := toChars("ABC")
	assert.Equal(t, []string{"AB", "C"}, st.SegSentenceBest(chars, types))
}

func TestSegSentenceNBest(t *testing.T) {
	st, err := NewSegTagger(beModel())
	require.NoError(t, err)
	chars, types := toChars("ABC")
	res := st.SegSentence(chars, types, 2)
	require.Equal(t, 2, len(res))
	assert.Equal(t, []string{"AB", "C"}, res[0].Words)
	assert.Equal(t, []string{"A", "BC"}, res[1].Words)
	assert.Greater(t, res[0].Score, res[1].Score)
	for _, r := range res {
		assert.Greater(t, r.Score, 0.0)
	}
}

func TestSegSentenceNLargerThanPaths(t *testing.T) {
	st, err := NewSegTagger(beModel())
	require.NoError(t, err)
	chars, types := toChars("A")
	res := st.SegSentence(chars, types, 10)
	// a single character admits only the initial tag B
	require.Equal(t, 1, len(res))
	assert.Equal(t, []string{"A"}, res[0].Words)
}

func TestSegSentenceSkipsSpaces(t *testing.T) {
	st, err := NewSegTagger(beModel())
	require.NoError(t, err)
	chars, types := toChars("A B")
	words := st.SegSentenceBest(chars, types)
	for _, w := range words {
		assert.NotContains(t, w, " ")
	}
}

func TestSegSentenceILMR(t *testing.T) {
	m := maxent.NewModel([]string{"I", "L", "M", "R"})
	m.AddWeight("curword=A", "L", 2)
	m.AddWeight("curword=B", "R", 2)
	m.AddWeight("curword=C", "I", 2)
	st, err := NewSegTagger(m)
	require.NoError(t, err)
	chars, types := toChars("ABC")
	assert.Equal(t, []string{"AB", "C"}, st.SegSentenceBest(chars, types))
}

// every path delivered by the n-best search respects the legal
// transition table
func TestSegSentenceTagLegality(t *testing.T) {
	st, err := NewSegTagger(beModel())
	require.NoError(t, err)
	chars, types := toChars("ABCAB")
	paths := st.decode(chars, types, 8)
	require.NotEmpty(t, paths)
	for _, p := range paths {
		assert.True(t, st.initial[p.tags[0]])
		for i := 1; i < len(p.tags); i++ {
			assert.True(t, st.legal[p.tags[i-1]][p.tags[i]],
				"illegal pair at %d in %v", i, p.tags)
		}
	}
}

func TestSegSentenceEmpty(t *testing.T) {
	st, err := NewSegTagger(beModel())
	require.NoError(t, err)
	assert.Nil(t, st.SegSentenceBest(nil, nil))
	assert.Empty(t, st.SegSentence(nil, nil, 3))
}
