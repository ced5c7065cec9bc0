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

package library

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/czcorpus/gocma/cnf"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver load
)

// the FMM strategy needs no trained model which makes it a handy
// end-to-end fixture
func fmmConf(t *testing.T, dictLines string) *cnf.AnalyzerConf {
	dir := t.TempDir()
	dictPath := filepath.Join(dir, "user.dic")
	require.NoError(t, os.WriteFile(dictPath, []byte(dictLines), 0o644))
	conf := &cnf.AnalyzerConf{
		Encoding:     "utf8",
		UserDict:     dictPath,
		NBest:        1,
		PosTagging:   false,
		AnalysisType: 2,
	}
	require.NoError(t, conf.Validate())
	return conf
}

func TestAnalyzeFile(t *testing.T) {
	conf := fmmConf(t, "AB n\n")
	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.txt")
	outPath := filepath.Join(dir, "out.txt")
	require.NoError(t, os.WriteFile(inPath, []byte("ABX\nAB\n"), 0o644))

	status, err := AnalyzeFile(conf, inPath, outPath)
	require.NoError(t, err)
	assert.Equal(t, 2, status.Lines)
	assert.Equal(t, 3, status.Morphemes)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "AB X \nAB \n", string(data))
}

func TestAnalyzeFileWithFreqExport(t *testing.T) {
	conf := fmmConf(t, "AB n\n")
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "freq.db")
	conf.DB = cnf.DBConf{Type: "sqlite", Path: dbPath}
	inPath := filepath.Join(dir, "in.txt")
	outPath := filepath.Join(dir, "out.txt")
	require.NoError(t, os.WriteFile(inPath, []byte("AB\nAB\n"), 0o644))

	_, err := AnalyzeFile(conf, inPath, outPath)
	require.NoError(t, err)

	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	defer db.Close()
	var cnt int
	require.NoError(t, db.QueryRow(
		"SELECT count FROM word_freq WHERE word = ?", "AB").Scan(&cnt))
	assert.Equal(t, 2, cnt)
}

func TestAnalyzeFileMissingInput(t *testing.T) {
	conf := fmmConf(t, "AB n\n")
	dir := t.TempDir()
	_, err := AnalyzeFile(conf, filepath.Join(dir, "no.txt"), filepath.Join(dir, "out.txt"))
	assert.Error(t, err)
}

func TestOpenKnowledgeAppliesDelimiters(t *testing.T) {
	conf := fmmConf(t, "AB n\n")
	conf.PosDelimiter = "_"
	conf.WordDelimiter = "|"
	k, err := OpenKnowledge(conf)
	require.NoError(t, err)
	a, err := NewAnalyzer(conf, k)
	require.NoError(t, err)
	posDelim, wordDelim, _ := a.Delimiters()
	assert.Equal(t, "_", posDelim)
	assert.Equal(t, "|", wordDelim)
}
