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

// Package knowledge owns all the frozen artifacts of one trained
// analyzer category: the dictionary trie, the POS table, the
// segmentation and POS models and the word filters. A Knowledge is
// immutable once loading is finished and can be shared by any
// number of analyzers.
package knowledge

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/czcorpus/cnc-gokit/collections"
	"github.com/rs/zerolog/log"

	"github.com/czcorpus/gocma/ctype"
	"github.com/czcorpus/gocma/fs"
	"github.com/czcorpus/gocma/maxent"
	"github.com/czcorpus/gocma/pos"
	"github.com/czcorpus/gocma/tagger"
	"github.com/czcorpus/gocma/trie"
)

// ErrBadDictLine marks a malformed dictionary entry. Such lines
// are logged and skipped, never fatal.
var ErrBadDictLine = errors.New("malformed dictionary line")

// Knowledge bundles the knowledge artifacts of one category.
type Knowledge struct {
	ct        *ctype.CType
	dict      *trie.Trie
	posTable  *pos.Table
	posVec    [][]string
	segModel  *maxent.Model
	posModel  *maxent.Model
	segTagger *tagger.SegTagger
	posTagger *tagger.POSTagger
	stop      *collections.Set[string]
	black     *collections.Set[string]
	props     map[string]string
}

// NewKnowledge creates an empty knowledge handle for the provided
// encoding name (one of gb2312, big5, gb18030, utf8).
func NewKnowledge(encName string) (*Knowledge, error) {
	ct, err := ctype.NewCType(encName)
	if err != nil {
		return nil, err
	}
	return &Knowledge{
		ct:       ct,
		dict:     trie.New(),
		posTable: pos.NewTable(),
		stop:     collections.NewSet[string](),
		black:    collections.NewSet[string](),
		props:    make(map[string]string),
	}, nil
}

func (k *Knowledge) CType() *ctype.CType {
	return k.ct
}

func (k *Knowledge) Dict() *trie.Trie {
	return k.dict
}

func (k *Knowledge) POSTable() *pos.Table {
	return k.posTable
}

func (k *Knowledge) SegTagger() *tagger.SegTagger {
	return k.segTagger
}

func (k *Knowledge) POSTagger() *tagger.POSTagger {
	return k.posTagger
}

// SupportsPOS tells whether a POS model has been loaded; without
// one the analyzer switches POS output off.
func (k *Knowledge) SupportsPOS() bool {
	return k.posModel != nil
}

// CandidatePOS returns the (sorted) POS candidate set observed for
// a dictionary word, implementing tagger.Lexicon.
func (k *Knowledge) CandidatePOS(word string) []string {
	id := k.dict.Search([]byte(word))
	if id < 0 || int(id) >= len(k.posVec) {
		return nil
	}
	return k.posVec[id]
}

func (k *Knowledge) IsStopWord(word string) bool {
	return k.stop.Contains(word)
}

// Property returns a system property loaded from configuration
// (delimiters etc.).
func (k *Knowledge) Property(name string) (string, bool) {
	v, ok := k.props[name]
	return v, ok
}

func (k *Knowledge) SetProperty(name, value string) {
	k.props[name] = value
}

// LoadStatModel loads the segmentation model pair prefix.model and
// prefix.tag.
func (k *Knowledge) LoadStatModel(prefix string) error {
	model, err := maxent.Load(prefix+".model", prefix+".tag")
	if err != nil {
		return fmt.Errorf("failed to load segmentation model: %w", err)
	}
	st, err := tagger.NewSegTagger(model)
	if err != nil {
		return err
	}
	k.segModel = model
	k.segTagger = st
	return nil
}

// LoadPOSModel loads the POS list (prefix.pos, order defines the
// dense codes, the first entry doubles as the default POS), the
// POS maxent model pair and, when present, the black-word list
// prefix.black whose entries are refused at dictionary load.
func (k *Knowledge) LoadPOSModel(prefix string) error {
	posNames, err := readLines(prefix + ".pos")
	if err != nil {
		return fmt.Errorf("failed to load POS table: %w", err)
	}
	defaultPOS := ""
	for _, name := range posNames {
		if defaultPOS == "" {
			defaultPOS = name
		}
		k.posTable.Add(name)
	}
	model, err := maxent.Load(prefix+".model", prefix+".tag")
	if err != nil {
		return fmt.Errorf("failed to load POS model: %w", err)
	}
	k.posModel = model
	k.posTagger = tagger.NewPOSTagger(model, defaultPOS)

	if black, err := readLines(prefix + ".black"); err == nil {
		for _, w := range black {
			k.black.Add(w)
		}

	} else if !os.IsNotExist(err) {
		return err
	}
	return nil
}

// LoadStopWords reads the stop-word list; morphemes matching an
// entry are dropped from analysis output.
func (k *Knowledge) LoadStopWords(path string) error {
	lines, err := readLines(path)
	if err != nil {
		return err
	}
	for _, w := range lines {
		k.stop.Add(w)
	}
	return nil
}

// LoadUserDict loads a plain-text dictionary and its shard chain
// (path, path.1, path.2, ... until the first missing file). The
// number of files read is returned.
func (k *Knowledge) LoadUserDict(path string) (int, error) {
	return k.loadShards(path, k.loadUserDictFile)
}

// LoadSystemDict loads the obfuscated binary dictionary and its
// shard chain.
func (k *Knowledge) LoadSystemDict(path string) (int, error) {
	return k.loadShards(path, k.loadSystemDictFile)
}

func (k *Knowledge) loadShards(path string, loadOne func(string) error) (int, error) {
	shards := fs.ListShards(path)
	if len(shards) == 0 {
		return 0, &os.PathError{Op: "open", Path: path, Err: os.ErrNotExist}
	}
	for n, shard := range shards {
		if err := loadOne(shard); err != nil {
			return n, err
		}
	}
	log.Info().Str("dict", path).Int("files", len(shards)).Msg("loaded dictionary")
	return len(shards), nil
}

func (k *Knowledge) loadUserDictFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		k.AppendWordPOS(sc.Text())
	}
	return sc.Err()
}

func (k *Knowledge) loadSystemDictFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	rd := bufio.NewReader(f)
	for {
		line, err := readRecord(rd)
		if err != nil {
			if errors.Is(err, errEndOfDict) {
				return nil
			}
			return fmt.Errorf("%s: %w", path, err)
		}
		k.AppendWordPOS(line)
	}
}

// AppendWordPOS merges one dictionary line ("word pos1 pos2 ...")
// into the trie and the POS candidate vector. Underscores in the
// word unescape to spaces. Black-listed words are refused;
// malformed lines are logged and skipped.
func (k *Knowledge) AppendWordPOS(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	word := strings.ReplaceAll(fields[0], "_", " ")
	if strings.TrimSpace(word) == "" {
		log.Warn().Err(ErrBadDictLine).Str("line", line).Msg("skipping dictionary entry")
		return false
	}
	if k.black.Contains(word) {
		return false
	}
	id := k.dict.Search([]byte(word))
	if id < 0 {
		id = int32(len(k.posVec))
		k.posVec = append(k.posVec, nil)
		k.dict.Insert([]byte(word), id)
	}
	for _, p := range fields[1:] {
		k.posVec[id] = insertSorted(k.posVec[id], p)
	}
	return true
}

// insertSorted keeps candidate sets small, unique and ordered so
// that "first candidate" lookups are deterministic.
func insertSorted(set []string, v string) []string {
	i := sort.SearchStrings(set, v)
	if i < len(set) && set[i] == v {
		return set
	}
	set = append(set, "")
	copy(set[i+1:], set[i:])
	set[i] = v
	return set
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
