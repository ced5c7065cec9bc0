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
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/edsrzf/mmap-go"
	"github.com/rs/zerolog/log"
)

// ErrCorruptModel covers bad magic, impossible counts and trailing
// garbage in a binary model file.
var ErrCorruptModel = errors.New("corrupt model file")

var modelMagic = [4]byte{'C', 'M', 'A', 'M'}

const modelVersion = 1

// Load reads a frozen model: the binary weight table from
// modelPath and the feature dictionary from tagPath. The binary
// file is memory-mapped when possible and decoded into a native
// table, so no I/O happens after Load returns.
func Load(modelPath, tagPath string) (*Model, error) {
	feats, err := loadFeatureDict(tagPath)
	if err != nil {
		return nil, err
	}
	data, cleanup, err := readModelBytes(modelPath)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	m, err := decodeModel(data, feats)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", modelPath, err)
	}
	log.Debug().
		Str("model", modelPath).
		Int("tags", m.NumTags()).
		Int("features", len(feats)).
		Msg("loaded maxent model")
	return m, nil
}

// readModelBytes maps the file read-only; plain reading is the
// fallback (some filesystems refuse mapping).
func readModelBytes(path string) ([]byte, func(), error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	if mapped, merr := mmap.Map(f, mmap.RDONLY, 0); merr == nil {
		return mapped, func() {
			mapped.Unmap()
			f.Close()
		}, nil
	}
	defer f.Close()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	return data, func() {}, nil
}

// loadFeatureDict reads one feature key per line; a trailing
// frequency count column is tolerated and dropped.
func loadFeatureDict(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var feats []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if i := strings.LastIndexByte(line, ' '); i > 0 {
			line = line[:i]
		}
		feats = append(feats, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return feats, nil
}

func decodeModel(data []byte, feats []string) (*Model, error) {
	rd := byteReader{data: data}
	magic, ok := rd.bytes(4)
	if !ok || !bytes.Equal(magic, modelMagic[:]) {
		return nil, fmt.Errorf("%w: bad magic", ErrCorruptModel)
	}
	version, ok := rd.uint32()
	if !ok || version != modelVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorruptModel, version)
	}
	numTags, ok := rd.uint32()
	if !ok || numTags == 0 || numTags > 1<<10 {
		return nil, fmt.Errorf("%w: tag count", ErrCorruptModel)
	}
	tags := make([]string, numTags)
	for i := range tags {
		n, ok := rd.uint16()
		if !ok {
			return nil, fmt.Errorf("%w: truncated tag table", ErrCorruptModel)
		}
		b, ok := rd.bytes(int(n))
		if !ok {
			return nil, fmt.Errorf("%w: truncated tag table", ErrCorruptModel)
		}
		tags[i] = string(b)
	}
	numFeats, ok := rd.uint32()
	if !ok {
		return nil, fmt.Errorf("%w: feature count", ErrCorruptModel)
	}
	if int(numFeats) != len(feats) {
		return nil, fmt.Errorf(
			"%w: feature count %d does not match feature dictionary size %d",
			ErrCorruptModel, numFeats, len(feats))
	}
	m := NewModel(tags)
	for i := uint32(0); i < numFeats; i++ {
		featID, ok1 := rd.uint32()
		tagID, ok2 := rd.uint32()
		w, ok3 := rd.float64()
		if !ok1 || !ok2 || !ok3 {
			return nil, fmt.Errorf("%w: truncated weight table", ErrCorruptModel)
		}
		if int(featID) >= len(feats) || int(tagID) >= len(tags) {
			return nil, fmt.Errorf("%w: weight record out of range", ErrCorruptModel)
		}
		m.weights[feats[featID]] = w
	}
	if rd.pos != len(data) {
		return nil, fmt.Errorf("%w: trailing garbage", ErrCorruptModel)
	}
	return m, nil
}

// Save writes the model in the loadable binary + feature
// dictionary pair. Features are emitted in sorted order so the
// output is reproducible.
func (m *Model) Save(modelPath, tagPath string) error {
	feats := make([]string, 0, len(m.weights))
	for k := range m.weights {
		feats = append(feats, k)
	}
	sort.Strings(feats)

	tf, err := os.Create(tagPath)
	if err != nil {
		return err
	}
	tw := bufio.NewWriter(tf)
	for _, f := range feats {
		// the count column keeps the trainer's format and protects
		// keys whose value contains a space
		fmt.Fprintf(tw, "%s 1\n", f)
	}
	if err := tw.Flush(); err != nil {
		tf.Close()
		return err
	}
	if err := tf.Close(); err != nil {
		return err
	}

	mf, err := os.Create(modelPath)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(mf)
	w.Write(modelMagic[:])
	writeUint32(w, modelVersion)
	writeUint32(w, uint32(len(m.tags)))
	for _, t := range m.tags {
		writeUint16(w, uint16(len(t)))
		w.WriteString(t)
	}
	writeUint32(w, uint32(len(feats)))
	for i, f := range feats {
		tagID := m.tagOfFeature(f)
		writeUint32(w, uint32(i))
		writeUint32(w, uint32(tagID))
		writeFloat64(w, m.weights[f])
	}
	if err := w.Flush(); err != nil {
		mf.Close()
		return err
	}
	return mf.Close()
}

// tagOfFeature recovers the bound tag from the combined key by the
// longest matching "_tag" suffix.
func (m *Model) tagOfFeature(feat string) int {
	best := 0
	bestLen := -1
	for id, t := range m.tags {
		if len(t) > bestLen && strings.HasSuffix(feat, "_"+t) {
			best = id
			bestLen = len(t)
		}
	}
	return best
}

type byteReader struct {
	data []byte
	pos  int
}

func (r *byteReader) bytes(n int) ([]byte, bool) {
	if r.pos+n > len(r.data) {
		return nil, false
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, true
}

func (r *byteReader) uint16() (uint16, bool) {
	b, ok := r.bytes(2)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint16(b), true
}

func (r *byteReader) uint32() (uint32, bool) {
	b, ok := r.bytes(4)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint32(b), true
}

func (r *byteReader) float64() (float64, bool) {
	b, ok := r.bytes(8)
	if !ok {
		return 0, false
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b)), true
}

func writeUint16(w *bufio.Writer, v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.Write(b[:])
}

func writeUint32(w *bufio.Writer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.Write(b[:])
}

func writeFloat64(w *bufio.Writer, v float64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
	w.Write(b[:])
}
