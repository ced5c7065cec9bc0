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

package maxent

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testModel() *Model {
	m := NewModel([]string{"B", "E"})
	m.AddWeight("curword=X", "B", 1.5)
	m.AddWeight("curword=X", "E", -0.5)
	m.AddWeight("prevtag=B", "E", 2)
	m.AddWeight("curtype=letter", "B", 0.25)
	return m
}

func TestScore(t *testing.T) {
	m := testModel()
	b, e := m.TagID("B"), m.TagID("E")
	assert.InDelta(t, 1.75, m.Score([]string{"curword=X", "curtype=letter"}, b), 1e-9)
	assert.InDelta(t, -0.5, m.Score([]string{"curword=X", "curtype=letter"}, e), 1e-9)
	// unseen features contribute nothing
	assert.InDelta(t, 1.5, m.Score([]string{"curword=X", "curword=ZZZ"}, b), 1e-9)
	assert.True(t, math.IsInf(m.Score([]string{"curword=X"}, 7), -1))
}

func TestBestTag(t *testing.T) {
	m := testModel()
	id, score := m.BestTag([]string{"prevtag=B"})
	assert.Equal(t, m.TagID("E"), id)
	assert.InDelta(t, 2.0, score, 1e-9)

	// equal scores resolve to the lower tag id
	id, _ = m.BestTag([]string{"curword=X", "prevtag=B"})
	assert.Equal(t, m.TagID("B"), id)
}

func TestLogProbsNormalized(t *testing.T) {
	m := testModel()
	lp := m.LogProbs([]string{"curword=X"}, nil)
	require.Equal(t, 2, len(lp))
	sum := 0.0
	for _, v := range lp {
		assert.LessOrEqual(t, v, 0.0)
		sum += math.Exp(v)
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	modelPath := filepath.Join(dir, "cate.model")
	tagPath := filepath.Join(dir, "cate.tag")
	m := testModel()
	require.NoError(t, m.Save(modelPath, tagPath))

	loaded, err := Load(modelPath, tagPath)
	require.NoError(t, err)
	assert.Equal(t, m.Tags(), loaded.Tags())
	ctx := []string{"curword=X", "prevtag=B", "curtype=letter"}
	for tag := 0; tag < m.NumTags(); tag++ {
		assert.InDelta(t, m.Score(ctx, tag), loaded.Score(ctx, tag), 1e-12)
	}
}

func TestLoadBadMagic(t *testing.T) {
	dir := t.TempDir()
	modelPath := filepath.Join(dir, "cate.model")
	tagPath := filepath.Join(dir, "cate.tag")
	require.NoError(t, os.WriteFile(tagPath, []byte("curword=X_B 3\n"), 0o644))
	require.NoError(t, os.WriteFile(modelPath, []byte("NOPEnope"), 0o644))
	_, err := Load(modelPath, tagPath)
	assert.ErrorIs(t, err, ErrCorruptModel)
}

func TestLoadTrailingGarbage(t *testing.T) {
	dir := t.TempDir()
	modelPath := filepath.Join(dir, "cate.model")
	tagPath := filepath.Join(dir, "cate.tag")
	m := testModel()
	require.NoError(t, m.Save(modelPath, tagPath))
	f, err := os.OpenFile(modelPath, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.Write([]byte{0xff})
	require.NoError(t, err)
	require.NoError(t, f.Close())
	_, err = Load(modelPath, tagPath)
	assert.ErrorIs(t, err, ErrCorruptModel)
}

func TestLoadFeatureCountMismatch(t *testing.T) {
	dir := t.TempDir()
	modelPath := filepath.Join(dir, "cate.model")
	tagPath := filepath.Join(dir, "cate.tag")
	m := testModel()
	require.NoError(t, m.Save(modelPath, tagPath))
	// keep only one of the four features in the dictionary
	require.NoError(t, os.WriteFile(tagPath, []byte("curword=X_B\n"), 0o644))
	_, err := Load(modelPath, tagPath)
	assert.ErrorIs(t, err, ErrCorruptModel)
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(filepath.Join(dir, "no.model"), filepath.Join(dir, "no.tag"))
	assert.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}
