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

// Package library exposes the high level analysis entry points
// used by the CLI and by embedding applications.
package library

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/czcorpus/gocma/analyzer"
	"github.com/czcorpus/gocma/cnf"
	"github.com/czcorpus/gocma/freq"
	"github.com/czcorpus/gocma/fs"
	"github.com/czcorpus/gocma/knowledge"
)

// Status stores some basic information about input file processing.
type Status struct {
	Datetime  time.Time
	File      string
	Lines     int
	Morphemes int
	Error     error
}

// OpenKnowledge loads every knowledge artifact the configuration
// names. Dictionaries load after the POS model so that the words
// of its black-word list are refused.
func OpenKnowledge(conf *cnf.AnalyzerConf) (*knowledge.Knowledge, error) {
	k, err := knowledge.NewKnowledge(conf.Encoding)
	if err != nil {
		return nil, err
	}
	if conf.StatModel != "" {
		if err := k.LoadStatModel(conf.StatModel); err != nil {
			return nil, err
		}
	}
	if conf.POSModel != "" {
		if err := k.LoadPOSModel(conf.POSModel); err != nil {
			return nil, err
		}
	}
	if conf.SystemDict != "" {
		if _, err := k.LoadSystemDict(conf.SystemDict); err != nil {
			return nil, fmt.Errorf("failed to load system dictionary: %w", err)
		}
	}
	if conf.UserDict != "" {
		if _, err := k.LoadUserDict(conf.UserDict); err != nil {
			return nil, fmt.Errorf("failed to load user dictionary: %w", err)
		}
	}
	if conf.StopWords != "" {
		if err := k.LoadStopWords(conf.StopWords); err != nil {
			return nil, fmt.Errorf("failed to load stop words: %w", err)
		}
	}
	if conf.PosDelimiter != "" {
		k.SetProperty("pos_delimiter", conf.PosDelimiter)
	}
	if conf.WordDelimiter != "" {
		k.SetProperty("word_delimiter", conf.WordDelimiter)
	}
	if conf.SentenceDelimiter != "" {
		k.SetProperty("sentence_delimiter", conf.SentenceDelimiter)
	}
	return k, nil
}

// NewAnalyzer creates an analyzer over loaded knowledge with the
// configured options applied.
func NewAnalyzer(conf *cnf.AnalyzerConf, k *knowledge.Knowledge) (*analyzer.Analyzer, error) {
	a := analyzer.NewAnalyzer(k)
	if err := a.SetOption(analyzer.OptNBest, float64(conf.NBest)); err != nil {
		return nil, err
	}
	posVal := 0.0
	if conf.PosTagging {
		posVal = 1
	}
	if err := a.SetOption(analyzer.OptPosTagging, posVal); err != nil {
		return nil, err
	}
	if err := a.SetOption(analyzer.OptAnalysisType, float64(conf.AnalysisType)); err != nil {
		return nil, err
	}
	return a, nil
}

// AnalyzeFile analyzes inPath line by line into outPath. When the
// configuration carries a db block, word/POS frequencies of the
// one-best analyses are collected and exported after the run.
func AnalyzeFile(conf *cnf.AnalyzerConf, inPath, outPath string) (Status, error) {
	status := Status{Datetime: time.Now(), File: inPath}
	k, err := OpenKnowledge(conf)
	if err != nil {
		return status, err
	}
	a, err := NewAnalyzer(conf, k)
	if err != nil {
		return status, err
	}

	if !fs.IsFile(inPath) {
		err := fmt.Errorf("input %s is not a regular file", inPath)
		return status, err
	}
	log.Info().Str("file", inPath).Int64("size", fs.FileSize(inPath)).Msg("starting analysis")
	in, err := os.Open(inPath)
	if err != nil {
		return status, err
	}
	defer in.Close()
	out, err := os.Create(outPath)
	if err != nil {
		return status, err
	}
	defer out.Close()

	var counter *freq.Counter
	if conf.DB.IsConfigured() {
		counter = freq.NewCounter()
	}
	posDelim, wordDelim, sentDelim := a.Delimiters()

	w := bufio.NewWriter(out)
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := sc.Bytes()
		status.Lines++
		if len(line) == 0 {
			w.WriteByte('\n')
			continue
		}
		sent := analyzer.NewSentence(append([]byte(nil), line...))
		a.AnalyzeSentence(sent)
		best := sent.OneBestIndex()
		if best < 0 {
			w.WriteByte('\n')
			continue
		}
		for _, m := range sent.List(best) {
			w.WriteString(m.Lexicon)
			if a.POSTaggingOn() {
				w.WriteString(posDelim)
				w.WriteString(m.PosStr)
			}
			w.WriteString(wordDelim)
			status.Morphemes++
			if counter != nil {
				counter.AddToken(m.Lexicon, m.PosStr)
			}
		}
		w.WriteString(sentDelim)
		w.WriteByte('\n')
	}
	if err := sc.Err(); err != nil {
		status.Error = err
		return status, err
	}
	if err := w.Flush(); err != nil {
		status.Error = err
		return status, err
	}

	if counter != nil {
		writer, err := freq.NewWriter(conf.DB)
		if err != nil {
			status.Error = err
			return status, err
		}
		defer writer.Close()
		if err := freq.Export(counter, writer); err != nil {
			status.Error = err
			return status, err
		}
	}
	log.Info().
		Str("file", inPath).
		Int("lines", status.Lines).
		Int("morphemes", status.Morphemes).
		Msg("finished analysis")
	return status, nil
}
