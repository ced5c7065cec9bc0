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

type mapLexicon map[string][]string

func (m mapLexicon) CandidatePOS(word string) []string {
	return m[word]
}

func posModel() *maxent.Model {
	m := maxent.NewModel([]string{"n", "v", "w"})
	m.AddWeight("curword=run", "v", 2)
	m.AddWeight("curword=run", "n", 1)
	m.AddWeight("prevpos=v", "n", 3)
	m.AddWeight("word_has_digit=true", "w", 4)
	return m
}

func newUTF8CType(t *testing.T) *ctype.CType {
	ct, err := ctype.NewCType("utf8")
	require.NoError(t, err)
	return ct
}

func TestTagBestRestrictsToCandidates(t *testing.T) {
	pt := NewPOSTagger(posModel(), "n")
	lex := mapLexicon{"run": {"n", "v"}}
	poses := pt.TagBest(newUTF8CType(t), lex, []string{"run"})
	assert.Equal(t, []string{"v"}, poses)

	// the restriction wins even when another tag scores higher
	lex = mapLexicon{"run": {"n"}}
	poses = pt.TagBest(newUTF8CType(t), lex, []string{"run"})
	assert.Equal(t, []string{"n"}, poses)
}

func TestTagBestUnknownWordAdmitsAllTags(t *testing.T) {
	pt := NewPOSTagger(posModel(), "n")
	poses := pt.TagBest(newUTF8CType(t), mapLexicon{}, []string{"123"})
	assert.Equal(t, []string{"w"}, poses)
}

func TestTagBestFallsBackToDefault(t *testing.T) {
	pt := NewPOSTagger(posModel(), "n")
	// candidate set disjoint from the model vocabulary
	lex := mapLexicon{"xyz": {"adj"}}
	poses := pt.TagBest(newUTF8CType(t), lex, []string{"xyz"})
	assert.Equal(t, []string{"n"}, poses)
}

func TestTagBestUsesPrevPOS(t *testing.T) {
	pt := NewPOSTagger(posModel(), "w")
	lex := mapLexicon{"run": {"v"}, "fast": {"n", "w"}}
	poses := pt.TagBest(newUTF8CType(t), lex, []string{"run", "fast"})
	assert.Equal(t, []string{"v", "n"}, poses)
}
