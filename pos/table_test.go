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

package pos

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddAssignsDenseCodes(t *testing.T) {
	tbl := NewTable()
	assert.Equal(t, 0, tbl.Add("n"))
	assert.Equal(t, 1, tbl.Add("v"))
	assert.Equal(t, 0, tbl.Add("n"))
	assert.Equal(t, 2, tbl.Size())
	assert.Equal(t, "v", tbl.Name(1))
	assert.Equal(t, 1, tbl.Code("v"))
	assert.Equal(t, -1, tbl.Code("adj"))
	assert.Equal(t, "", tbl.Name(5))
}

func TestIndexFlags(t *testing.T) {
	tbl := NewTable()
	tbl.Add("n")
	tbl.Add("v")
	tbl.Add("w")
	assert.True(t, tbl.IsIndex(0))

	tbl.ResetIndexList(false)
	assert.False(t, tbl.IsIndex(0))
	assert.False(t, tbl.IsIndex(2))

	n := tbl.SetIndexList([]string{"n", "v", "adj"})
	assert.Equal(t, 2, n)
	assert.True(t, tbl.IsIndex(0))
	assert.True(t, tbl.IsIndex(1))
	assert.False(t, tbl.IsIndex(2))
	assert.False(t, tbl.IsIndex(-1))
}
