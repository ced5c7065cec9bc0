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

package freq

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/czcorpus/gocma/cnf"
)

func TestWordDict(t *testing.T) {
	wd := NewWordDict()
	a := wd.Add("foo")
	b := wd.Add("bar")
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, wd.Add("foo"))
	assert.Equal(t, "foo", wd.Get(a))
	assert.Equal(t, 2, wd.Size())
}

func TestCounterRecordsSorted(t *testing.T) {
	c := NewCounter()
	c.AddToken("b", "n")
	c.AddToken("a", "v")
	c.AddToken("a", "n")
	c.AddToken("a", "n")
	recs := c.Records()
	require.Equal(t, 3, len(recs))
	assert.Equal(t, Record{Word: "a", POS: "n", Count: 2}, recs[0])
	assert.Equal(t, Record{Word: "a", POS: "v", Count: 1}, recs[1])
	assert.Equal(t, Record{Word: "b", POS: "n", Count: 1}, recs[2])
	assert.Equal(t, 3, c.NumTypes())
}

func TestSqliteExport(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "freq.db")
	c := NewCounter()
	c.AddToken("word", "n")
	c.AddToken("word", "n")
	c.AddToken("other", "v")

	w, err := NewWriter(cnf.DBConf{Type: "sqlite", Path: dbPath})
	require.NoError(t, err)
	require.NoError(t, Export(c, w))
	require.NoError(t, w.Close())

	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	defer db.Close()
	var cnt int
	require.NoError(t, db.QueryRow(
		"SELECT count FROM word_freq WHERE word = ? AND pos = ?", "word", "n").Scan(&cnt))
	assert.Equal(t, 2, cnt)
	var rows int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM word_freq").Scan(&rows))
	assert.Equal(t, 2, rows)
}

func TestNewWriterUnknownType(t *testing.T) {
	_, err := NewWriter(cnf.DBConf{Type: "oracle"})
	assert.Error(t, err)
}
