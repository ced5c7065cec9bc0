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

package cnf

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"

	"github.com/czcorpus/gocma/ctype"
)

// DBConf configures the optional frequency export target.
type DBConf struct {
	// Type is either "sqlite" or "mysql"
	Type   string `json:"type"`
	Path   string `json:"path,omitempty"`
	Host   string `json:"host,omitempty"`
	User   string `json:"user,omitempty"`
	Passwd string `json:"passwd,omitempty"`
	Name   string `json:"name,omitempty"`
}

func (c DBConf) IsConfigured() bool {
	return c.Type != ""
}

// AnalyzerConf holds the configuration of a concrete analysis
// task: which knowledge files to load and how to run and render
// the analysis.
type AnalyzerConf struct {
	Encoding string `json:"encoding"`

	// StatModel is the path prefix of the segmentation model
	// (<prefix>.model + <prefix>.tag)
	StatModel string `json:"statModel"`

	// POSModel is the path prefix of the POS model
	// (<prefix>.model, <prefix>.tag, <prefix>.pos and the optional
	// <prefix>.black)
	POSModel string `json:"posModel,omitempty"`

	// SystemDict is the binary system dictionary; shard-extended
	// files (.1, .2, ...) load automatically
	SystemDict string `json:"systemDict,omitempty"`

	// UserDict is a plain-text dictionary, also shard-extended
	UserDict string `json:"userDict,omitempty"`

	StopWords string `json:"stopWords,omitempty"`

	NBest        int  `json:"nBest"`
	PosTagging   bool `json:"posTagging"`
	AnalysisType int  `json:"analysisType"`

	PosDelimiter      string `json:"posDelimiter,omitempty"`
	WordDelimiter     string `json:"wordDelimiter,omitempty"`
	SentenceDelimiter string `json:"sentenceDelimiter,omitempty"`

	// DB, when configured, receives word/POS frequency counts
	// collected during file analysis
	DB DBConf `json:"db"`

	Verbosity int `json:"verbosity"`
}

// Validate normalizes defaults and rejects impossible values.
func (c *AnalyzerConf) Validate() error {
	if _, err := ctype.ParseEncodeType(c.Encoding); err != nil {
		return err
	}
	if c.AnalysisType == 0 {
		c.AnalysisType = 1
	}
	if c.StatModel == "" && c.AnalysisType == 1 {
		return fmt.Errorf("statModel is required for the model-based analysis")
	}
	if c.NBest < 1 {
		c.NBest = 1
	}
	return nil
}

// LoadConf reads and validates a task configuration file.
func LoadConf(confPath string) (*AnalyzerConf, error) {
	rawData, err := os.ReadFile(confPath)
	if err != nil {
		return nil, err
	}
	var conf AnalyzerConf
	if err := sonic.Unmarshal(rawData, &conf); err != nil {
		return nil, err
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &conf, nil
}

// Example returns a template configuration ready to be dumped for
// the user to edit.
func Example() *AnalyzerConf {
	return &AnalyzerConf{
		Encoding:     "utf8",
		StatModel:    "./models/cate-poc",
		POSModel:     "./models/cate",
		SystemDict:   "./models/cate.bin",
		NBest:        1,
		PosTagging:   true,
		AnalysisType: 1,
	}
}
