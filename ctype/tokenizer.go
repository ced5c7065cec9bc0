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

package ctype

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding"
)

// RuneNone marks a missing neighbour codepoint (before the first
// or after the last character).
const RuneNone rune = -1

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// Tokenizer iterates over the codepoints of a byte buffer in the
// oracle's encoding. Concatenating the emitted raw slices
// reconstructs the input byte-exactly (minus a leading UTF-8 BOM).
// A Tokenizer is single-use scratch state; the oracle it borrows
// stays immutable.
type Tokenizer struct {
	ct  *CType
	buf []byte
	pos int
	dec *encoding.Decoder
	tmp [8]byte
}

// NewTokenizer starts iterating input from the beginning. A UTF-8
// byte order mark is skipped when the encoding is utf8.
func NewTokenizer(ct *CType, input []byte) *Tokenizer {
	t := &Tokenizer{ct: ct, buf: input, dec: ct.decoder()}
	if ct.enc == EncodeTypeUTF8 && bytes.HasPrefix(input, utf8BOM) {
		t.pos = len(utf8BOM)
	}
	return t
}

// Next returns the raw bytes of the next codepoint together with
// its decoded rune. The raw slice aliases the input buffer.
func (t *Tokenizer) Next() ([]byte, rune, bool) {
	if t.pos >= len(t.buf) {
		return nil, RuneNone, false
	}
	rest := t.buf[t.pos:]
	n := t.ct.charLen(rest)
	raw := rest[:n]
	t.pos += n

	if t.ct.enc == EncodeTypeUTF8 {
		r, _ := utf8.DecodeRune(raw)
		return raw, r, true
	}
	t.dec.Reset()
	nDst, _, err := t.dec.Transform(t.tmp[:], raw, true)
	if err != nil || nDst == 0 {
		return raw, utf8.RuneError, true
	}
	r, _ := utf8.DecodeRune(t.tmp[:nDst])
	return raw, r, true
}

// Extract tokenizes the whole input into parallel codepoint and
// rune vectors.
func Extract(ct *CType, input []byte) ([][]byte, []rune) {
	var chars [][]byte
	var runes []rune
	tok := NewTokenizer(ct, input)
	for {
		raw, r, ok := tok.Next()
		if !ok {
			break
		}
		chars = append(chars, raw)
		runes = append(runes, r)
	}
	return chars, runes
}
