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

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/czcorpus/gocma/cnf"
	"github.com/czcorpus/gocma/knowledge"
	"github.com/czcorpus/gocma/library"
)

var (
	version   string
	build     string
	gitCommit string
)

func dumpNewConf() {
	b, err := sonic.MarshalIndent(cnf.Example(), "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to dump a new config")
	}
	fmt.Println(string(b))
}

func analyzeAction(confPath, inFile, outFile string) {
	conf, err := cnf.LoadConf(confPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if conf.Verbosity > 0 {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	status, err := library.AnalyzeFile(conf, inFile, outFile)
	if err != nil {
		log.Fatal().Err(err).Msg("analysis failed")
	}
	log.Info().
		Int("lines", status.Lines).
		Int("morphemes", status.Morphemes).
		Msg("done")
}

func encodeDictAction(inFile, outFile string) {
	if err := knowledge.EncodeSystemDict(inFile, outFile); err != nil {
		log.Fatal().Err(err).Msg("failed to encode dictionary")
	}
}

func main() {
	inFile := flag.String("in", "", "input file (analyze: plain text, encode-dict: text dictionary)")
	outFile := flag.String("out", "", "output file")
	confPath := flag.String("conf", "", "path to a task configuration (see the new-conf action)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "gocma - Chinese morphological analyzer\n\nUsage:\n")
		fmt.Fprintf(os.Stderr, "\tgocma -conf conf.json -in in.txt -out out.txt analyze\n")
		fmt.Fprintf(os.Stderr, "\tgocma -in cate.dic -out cate.bin encode-dict\n")
		fmt.Fprintf(os.Stderr, "\tgocma new-conf\n")
		fmt.Fprintf(os.Stderr, "\tgocma version\n\nOptions:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	switch flag.Arg(0) {
	case "analyze":
		if *confPath == "" || *inFile == "" || *outFile == "" {
			flag.Usage()
			os.Exit(0)
		}
		analyzeAction(*confPath, *inFile, *outFile)
	case "encode-dict":
		if *inFile == "" || *outFile == "" {
			flag.Usage()
			os.Exit(0)
		}
		encodeDictAction(*inFile, *outFile)
	case "new-conf":
		dumpNewConf()
	case "version":
		fmt.Printf("gocma %s\nbuild date: %s\nlast commit: %s\n", version, build, gitCommit)
	default:
		flag.Usage()
		os.Exit(0)
	}
	os.Exit(1)
}
