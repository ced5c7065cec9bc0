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

// Package analyzer is the public facade of the morphological
// analyzer: it orchestrates segmentation, dictionary merging and
// POS tagging over a shared immutable knowledge handle.
package analyzer

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/czcorpus/gocma/ctype"
	"github.com/czcorpus/gocma/knowledge"
)

// ErrConfig marks an unknown option name or a rejected option
// value.
var ErrConfig = errors.New("invalid analyzer option")

// Strategy selects how a sentence is segmented.
type Strategy int

const (
	// StrategyModelMM runs the segmentation model, merges the best
	// path against the dictionary and POS-tags with the POS model.
	StrategyModelMM Strategy = 1
	// StrategyFMM is a pure forward-maximum-match dictionary parse.
	StrategyFMM Strategy = 2
	// StrategyFMinCover picks the dictionary cover with the fewest
	// words.
	StrategyFMinCover Strategy = 3
)

// Analyzer option names accepted by SetOption.
const (
	OptNBest        = "NBest"
	OptPosTagging   = "PosTagging"
	OptAnalysisType = "AnalysisType"
)

// Default output delimiters; overridable via knowledge system
// properties or setters.
const (
	DefaultPosDelim  = "/"
	DefaultWordDelim = " "
	DefaultSentDelim = ""
)

// Analyzer holds per-instance analysis state: the option values,
// the delimiters and a reusable output buffer. The knowledge
// handle is shared and never written; one Analyzer must not be
// used from multiple goroutines but any number of Analyzers may
// share one Knowledge.
type Analyzer struct {
	k        *knowledge.Knowledge
	nbest    int
	posOn    bool
	strategy Strategy

	posDelim  string
	wordDelim string
	sentDelim string

	strBuf bytes.Buffer
}

// NewAnalyzer wires an analyzer to a loaded knowledge handle. POS
// tagging switches off automatically when the knowledge carries no
// POS model.
func NewAnalyzer(k *knowledge.Knowledge) *Analyzer {
	a := &Analyzer{
		k:         k,
		nbest:     1,
		posOn:     k.SupportsPOS(),
		strategy:  StrategyModelMM,
		posDelim:  DefaultPosDelim,
		wordDelim: DefaultWordDelim,
		sentDelim: DefaultSentDelim,
	}
	if v, ok := k.Property("pos_delimiter"); ok {
		a.posDelim = v
	}
	if v, ok := k.Property("word_delimiter"); ok {
		a.wordDelim = v
	}
	if v, ok := k.Property("sentence_delimiter"); ok {
		a.sentDelim = v
	}
	return a
}

// SetOption updates one analysis option. NBest below 1 is silently
// ignored (the current value is kept); an unknown name or an
// out-of-range strategy is rejected.
func (a *Analyzer) SetOption(name string, value float64) error {
	switch name {
	case OptNBest:
		if value >= 1 {
			a.nbest = int(value)
		}
	case OptPosTagging:
		a.posOn = value > 0 && a.k.SupportsPOS()
	case OptAnalysisType:
		switch Strategy(int(value)) {
		case StrategyModelMM, StrategyFMM, StrategyFMinCover:
			a.strategy = Strategy(int(value))
		default:
			return fmt.Errorf("%w: analysis type %v", ErrConfig, value)
		}
	default:
		return fmt.Errorf("%w: unknown option %s", ErrConfig, name)
	}
	return nil
}

func (a *Analyzer) NBest() int {
	return a.nbest
}

func (a *Analyzer) POSTaggingOn() bool {
	return a.posOn
}

func (a *Analyzer) StrategyType() Strategy {
	return a.strategy
}

// Delimiters returns the POS, word and sentence delimiters used
// when rendering output.
func (a *Analyzer) Delimiters() (string, string, string) {
	return a.posDelim, a.wordDelim, a.sentDelim
}

func (a *Analyzer) SetDelimiters(posDelim, wordDelim, sentDelim string) {
	a.posDelim = posDelim
	a.wordDelim = wordDelim
	a.sentDelim = sentDelim
}

type scoredWords struct {
	words []string
	score float64
}

// analyze runs the selected strategy and returns the segmentation
// candidates together with their POS rows (nil when POS is off).
func (a *Analyzer) analyze(input []byte, n int, tagPOS bool) ([]scoredWords, [][]string) {
	ct := a.k.CType()
	chars, runes := ctype.Extract(ct, input)
	if len(chars) == 0 {
		return nil, nil
	}
	types := ct.SetTypes(runes)

	var segs []scoredWords
	switch a.strategy {
	case StrategyFMM:
		charWords := make([]string, len(chars))
		for i, c := range chars {
			charWords[i] = string(c)
		}
		segs = []scoredWords{{
			words: combineWithTrie(a.k.Dict(), ct, charWords),
			score: 1,
		}}
		return segs, a.dictPOS(segs, tagPOS)

	case StrategyFMinCover:
		segs = []scoredWords{{
			words: parseFMinCover(a.k.Dict(), chars, types),
			score: 1,
		}}
		return segs, a.dictPOS(segs, tagPOS)
	}

	// model-based maximum match
	st := a.k.SegTagger()
	if st == nil {
		return nil, nil
	}
	if n <= 1 {
		segs = []scoredWords{{words: st.SegSentenceBest(chars, types), score: 1}}
	} else {
		for _, sw := range st.SegSentence(chars, types, n) {
			segs = append(segs, scoredWords{words: sw.Words, score: sw.Score})
		}
	}
	// only the best candidate goes through the dictionary merge
	if len(segs) > 0 {
		segs[0].words = combineWithTrie(a.k.Dict(), ct, segs[0].words)
	}
	if !tagPOS {
		return segs, nil
	}
	poses := make([][]string, len(segs))
	pt := a.k.POSTagger()
	for i := range segs {
		poses[i] = pt.TagBest(ct, a.k, segs[i].words)
	}
	return segs, poses
}

// dictPOS attaches POS rows for the dictionary-only strategies:
// the first candidate POS of each word, or the default POS.
func (a *Analyzer) dictPOS(segs []scoredWords, tagPOS bool) [][]string {
	if !tagPOS {
		return nil
	}
	defaultPOS := ""
	if pt := a.k.POSTagger(); pt != nil {
		defaultPOS = pt.DefaultPOS()
	}
	poses := make([][]string, len(segs))
	for i, seg := range segs {
		row := make([]string, len(seg.words))
		for j, w := range seg.words {
			if cands := a.k.CandidatePOS(w); len(cands) > 0 {
				row[j] = cands[0]
			} else {
				row[j] = defaultPOS
			}
		}
		poses[i] = row
	}
	return poses
}

// AnalyzeSentence fills the sentence's candidate lists. It always
// reports success; pathological inputs simply produce no
// candidates.
func (a *Analyzer) AnalyzeSentence(s *Sentence) int {
	if len(s.Raw()) == 0 {
		return 1
	}
	n := a.nbest
	tagPOS := a.posOn
	segs, poses := a.analyze(s.Raw(), n, tagPOS)
	if len(segs) == 0 {
		return 1
	}

	if n <= 1 {
		if len(segs[0].words) > 0 {
			s.addList(a.buildList(segs[0].words, rowAt(poses, 0), tagPOS), 1)
		}
		return 1
	}

	total := 0.0
	for i := range segs {
		if len(segs[i].words) == 0 {
			continue
		}
		list := a.buildList(segs[i].words, rowAt(poses, i), tagPOS)
		dup := false
		for j := s.ListSize() - 1; j >= 0; j-- {
			if s.List(j).equal(list, tagPOS) {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		total += segs[i].score
		s.addList(list, segs[i].score)
	}
	for i := range s.scores {
		if total > 0 {
			s.scores[i] /= total
		} else {
			s.scores[i] = 1 / float64(len(s.scores))
		}
	}
	return 1
}

func rowAt(poses [][]string, i int) []string {
	if i < len(poses) {
		return poses[i]
	}
	return nil
}

// buildList converts one segmentation (plus its POS row) into a
// MorphemeList, dropping stop words.
func (a *Analyzer) buildList(words, posRow []string, tagPOS bool) MorphemeList {
	list := make(MorphemeList, 0, len(words))
	posTable := a.k.POSTable()
	for j, w := range words {
		if a.k.IsStopWord(w) {
			continue
		}
		m := Morpheme{Lexicon: w, PosCode: -1}
		if tagPOS && j < len(posRow) {
			m.PosStr = posRow[j]
			m.PosCode = posTable.Code(m.PosStr)
			m.IsIndexed = posTable.IsIndex(m.PosCode)
		}
		list = append(list, m)
	}
	return list
}

// AnalyzeString analyzes one input and renders the one-best
// candidate with the configured delimiters. The output buffer is
// reused across calls.
func (a *Analyzer) AnalyzeString(input []byte) string {
	a.strBuf.Reset()
	if len(input) == 0 {
		return ""
	}
	segs, poses := a.analyze(input, 1, a.posOn)
	if len(segs) == 0 {
		return ""
	}
	a.renderBest(segs, poses)
	return a.strBuf.String()
}

func (a *Analyzer) renderBest(segs []scoredWords, poses [][]string) {
	posRow := rowAt(poses, 0)
	for j, w := range segs[0].words {
		if a.k.IsStopWord(w) {
			continue
		}
		a.strBuf.WriteString(w)
		if a.posOn && j < len(posRow) {
			a.strBuf.WriteString(a.posDelim)
			a.strBuf.WriteString(posRow[j])
		}
		a.strBuf.WriteString(a.wordDelim)
	}
}

// AnalyzeStream analyzes inPath line by line into outPath.
// Returns 1 on success, 0 when either file cannot be used.
func (a *Analyzer) AnalyzeStream(inPath, outPath string) int {
	in, err := os.Open(inPath)
	if err != nil {
		return 0
	}
	defer in.Close()
	out, err := os.Create(outPath)
	if err != nil {
		return 0
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			w.WriteByte('\n')
			continue
		}
		w.WriteString(a.AnalyzeString(line))
		w.WriteString(a.sentDelim)
		w.WriteByte('\n')
	}
	if sc.Err() != nil {
		return 0
	}
	if w.Flush() != nil {
		return 0
	}
	return 1
}

// SplitSentence splits a paragraph into sentences: sentence
// separators close a sentence and stay part of it, whitespace
// closes a sentence and is dropped.
func (a *Analyzer) SplitSentence(paragraph []byte) []*Sentence {
	ct := a.k.CType()
	var sentences []*Sentence
	var buf []byte
	flush := func() {
		if len(buf) > 0 {
			sentences = append(sentences, NewSentence(append([]byte(nil), buf...)))
			buf = buf[:0]
		}
	}
	tok := ctype.NewTokenizer(ct, paragraph)
	for {
		raw, r, ok := tok.Next()
		if !ok {
			break
		}
		switch ct.GetBaseType(r) {
		case ctype.CharTypeSentenceEnd:
			buf = append(buf, raw...)
			flush()
		case ctype.CharTypeSpace:
			flush()
		default:
			buf = append(buf, raw...)
		}
	}
	flush()
	return sentences
}

// NGrams returns all n-grams of the input's Chinese fragments.
// Digits, letters, punctuation and sentence separators break
// fragments; spaces are dropped without breaking one. None of
// them occur in the output.
func (a *Analyzer) NGrams(input []byte, n int) []string {
	if n < 1 {
		return nil
	}
	var output []string
	a.ngramsInto(input, n, &output)
	return output
}

// NGramArray extracts n-grams for every order in sizes.
func (a *Analyzer) NGramArray(input []byte, sizes []int) []string {
	var output []string
	for _, n := range sizes {
		if n < 1 {
			continue
		}
		a.ngramsInto(input, n, &output)
	}
	return output
}

func (a *Analyzer) ngramsInto(input []byte, n int, output *[]string) {
	ct := a.k.CType()
	var fragments [][]string
	cur := []string{}
	tok := ctype.NewTokenizer(ct, input)
	for {
		raw, r, ok := tok.Next()
		if !ok {
			break
		}
		switch ct.GetBaseType(r) {
		case ctype.CharTypeDigit, ctype.CharTypeLetter,
			ctype.CharTypePunct, ctype.CharTypeSentenceEnd:
			if len(cur) > 0 {
				fragments = append(fragments, cur)
				cur = nil
			}
		case ctype.CharTypeSpace:
			// dropped without breaking the fragment
		default:
			cur = append(cur, string(raw))
		}
	}
	if len(cur) > 0 {
		fragments = append(fragments, cur)
	}
	for _, frag := range fragments {
		for i := 0; i+n <= len(frag); i++ {
			var buf bytes.Buffer
			for j := 0; j < n; j++ {
				buf.WriteString(frag[i+j])
			}
			*output = append(*output, buf.String())
		}
	}
}
