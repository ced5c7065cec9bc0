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

// Package pos maps part-of-speech names to dense integer codes.
package pos

// Table is a bidirectional POS name/code mapping with a per-code
// "indexable" flag. It is an ordinary value owned by the knowledge
// handle; codes are assigned in insertion order.
type Table struct {
	codes   map[string]int
	names   []string
	indexed []bool
}

func NewTable() *Table {
	return &Table{codes: make(map[string]int)}
}

// Add registers a POS name and returns its code. Re-adding an
// existing name returns the original code.
func (t *Table) Add(name string) int {
	if code, ok := t.codes[name]; ok {
		return code
	}
	code := len(t.names)
	t.codes[name] = code
	t.names = append(t.names, name)
	t.indexed = append(t.indexed, true)
	return code
}

// Code returns the dense code of a POS name or -1 when unknown.
func (t *Table) Code(name string) int {
	if code, ok := t.codes[name]; ok {
		return code
	}
	return -1
}

// Name returns the POS string of a code or an empty string when
// the code is out of range.
func (t *Table) Name(code int) string {
	if code < 0 || code >= len(t.names) {
		return ""
	}
	return t.names[code]
}

func (t *Table) Size() int {
	return len(t.names)
}

// IsIndex tells whether words of the provided POS code should be
// marked as indexable in the analysis output.
func (t *Table) IsIndex(code int) bool {
	if code < 0 || code >= len(t.indexed) {
		return false
	}
	return t.indexed[code]
}

// ResetIndexList sets the indexable flag of every known POS.
func (t *Table) ResetIndexList(value bool) {
	for i := range t.indexed {
		t.indexed[i] = value
	}
}

// SetIndexList marks the provided POS names as indexable and
// returns how many of them were known to the table.
func (t *Table) SetIndexList(names []string) int {
	n := 0
	for _, name := range names {
		if code, ok := t.codes[name]; ok {
			t.indexed[code] = true
			n++
		}
	}
	return n
}
