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
	"errors"
	"fmt"
	"unicode"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
)

var ErrUnknownEncoding = errors.New("unknown encoding")

// EncodeType identifies the byte encoding of analyzed text
// and of all dictionary files.
type EncodeType int

const (
	EncodeTypeGB2312 EncodeType = iota
	EncodeTypeBig5
	EncodeTypeGB18030
	EncodeTypeUTF8
)

// ParseEncodeType translates an encoding name as found in
// configuration files. Names are matched case-sensitively
// the way the trainer writes them.
func ParseEncodeType(name string) (EncodeType, error) {
	switch name {
	case "gb2312":
		return EncodeTypeGB2312, nil
	case "big5":
		return EncodeTypeBig5, nil
	case "gb18030":
		return EncodeTypeGB18030, nil
	case "utf8":
		return EncodeTypeUTF8, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownEncoding, name)
}

func (e EncodeType) String() string {
	switch e {
	case EncodeTypeGB2312:
		return "gb2312"
	case EncodeTypeBig5:
		return "big5"
	case EncodeTypeGB18030:
		return "gb18030"
	case EncodeTypeUTF8:
		return "utf8"
	}
	return "unknown"
}

// CharType is the closed character class alphabet used to shape
// segmentation features and tokenization decisions.
type CharType int

const (
	CharTypeOther CharType = iota
	CharTypeDigit
	CharTypeLetter
	CharTypePunct
	CharTypeSpace
	CharTypeChinese
	CharTypeSentenceEnd
	// CharTypeInit is the pseudo-type preceding the first character
	// of a sentence.
	CharTypeInit
)

func (c CharType) String() string {
	switch c {
	case CharTypeDigit:
		return "digit"
	case CharTypeLetter:
		return "letter"
	case CharTypePunct:
		return "punct"
	case CharTypeSpace:
		return "space"
	case CharTypeChinese:
		return "chinese"
	case CharTypeSentenceEnd:
		return "send"
	case CharTypeInit:
		return "init"
	}
	return "other"
}

// chineseDigits also covers the financial variants which occur
// in bank-note style numbers.
var chineseDigits = map[rune]bool{
	'〇': true, '零': true, '一': true, '二': true, '两': true,
	'三': true, '四': true, '五': true, '六': true, '七': true,
	'八': true, '九': true, '十': true, '百': true, '千': true,
	'万': true, '亿': true, '壹': true, '贰': true, '叁': true,
	'肆': true, '伍': true, '陆': true, '柒': true, '捌': true,
	'玖': true, '拾': true, '佰': true, '仟': true,
}

var sentenceSeps = map[rune]bool{
	'。': true, '！': true, '？': true, '；': true,
	'!': true, '?': true, ';': true,
}

// CType is the character type oracle for one encoding. It is
// immutable and can be shared by any number of analyzers.
type CType struct {
	enc EncodeType
}

// NewCType returns the oracle for the provided encoding name.
func NewCType(encName string) (*CType, error) {
	enc, err := ParseEncodeType(encName)
	if err != nil {
		return nil, err
	}
	return &CType{enc: enc}, nil
}

func (ct *CType) Encoding() EncodeType {
	return ct.enc
}

// decoder returns a fresh transformer for the oracle's encoding.
// UTF-8 input needs no transformation and yields a nil decoder.
func (ct *CType) decoder() *encoding.Decoder {
	switch ct.enc {
	case EncodeTypeGB2312:
		// GB2312 byte sequences are a subset of GBK
		return simplifiedchinese.GBK.NewDecoder()
	case EncodeTypeGB18030:
		return simplifiedchinese.GB18030.NewDecoder()
	case EncodeTypeBig5:
		return traditionalchinese.Big5.NewDecoder()
	}
	return nil
}

// charLen returns the byte length of the codepoint starting at b[0].
// The value never exceeds len(b).
func (ct *CType) charLen(b []byte) int {
	if len(b) == 0 {
		return 0
	}
	n := 1
	switch ct.enc {
	case EncodeTypeUTF8:
		c := b[0]
		switch {
		case c < 0x80:
			n = 1
		case c>>5 == 0x6:
			n = 2
		case c>>4 == 0xe:
			n = 3
		case c>>3 == 0x1e:
			n = 4
		}
	case EncodeTypeGB2312, EncodeTypeBig5:
		if b[0] >= 0x81 {
			n = 2
		}
	case EncodeTypeGB18030:
		if b[0] >= 0x81 {
			n = 2
			if len(b) > 1 && b[1] >= 0x30 && b[1] <= 0x39 {
				n = 4
			}
		}
	}
	if n > len(b) {
		n = len(b)
	}
	return n
}

// GetCharType classifies codepoint r given the type of the previous
// codepoint and the next codepoint (or RuneNone at sentence end).
// The previous type makes it possible to tell a decimal dot or a
// thousands separator from a sentence-final period.
func (ct *CType) GetCharType(r rune, prev CharType, next rune) CharType {
	if r == '.' {
		if prev == CharTypeDigit && next >= '0' && next <= '9' {
			return CharTypeDigit
		}
		return CharTypeSentenceEnd
	}
	if r == ',' && prev == CharTypeDigit && next >= '0' && next <= '9' {
		return CharTypeDigit
	}
	return ct.GetBaseType(r)
}

// GetBaseType classifies a codepoint without any context.
func (ct *CType) GetBaseType(r rune) CharType {
	switch {
	case r >= '0' && r <= '9' || r >= '０' && r <= '９':
		return CharTypeDigit
	case r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' ||
		r >= 'ａ' && r <= 'ｚ' || r >= 'Ａ' && r <= 'Ｚ':
		return CharTypeLetter
	case r == '　' || unicode.IsSpace(r):
		return CharTypeSpace
	case sentenceSeps[r]:
		return CharTypeSentenceEnd
	case chineseDigits[r]:
		return CharTypeDigit
	case unicode.Is(unicode.Han, r):
		return CharTypeChinese
	case unicode.IsPunct(r) || unicode.IsSymbol(r):
		return CharTypePunct
	}
	return CharTypeOther
}

// IsSpace tests the first codepoint of cp.
func (ct *CType) IsSpace(cp []byte) bool {
	if len(cp) == 1 && cp[0] < 0x80 {
		return ct.GetBaseType(rune(cp[0])) == CharTypeSpace
	}
	r, ok := ct.decodeOne(cp)
	if !ok {
		return false
	}
	return ct.GetBaseType(r) == CharTypeSpace
}

// IsSentenceSeparator tests the first codepoint of cp.
func (ct *CType) IsSentenceSeparator(cp []byte) bool {
	if len(cp) == 1 && cp[0] < 0x80 {
		return ct.GetBaseType(rune(cp[0])) == CharTypeSentenceEnd
	}
	r, ok := ct.decodeOne(cp)
	if !ok {
		return false
	}
	return ct.GetBaseType(r) == CharTypeSentenceEnd
}

// SetTypes fills a type vector for a tokenized sentence. The
// previous type chains through the sentence starting from
// CharTypeInit (mirrors feature extraction at training time).
func (ct *CType) SetTypes(runes []rune) []CharType {
	types := make([]CharType, len(runes))
	prev := CharTypeInit
	for i, r := range runes {
		next := RuneNone
		if i+1 < len(runes) {
			next = runes[i+1]
		}
		types[i] = ct.GetCharType(r, prev, next)
		prev = types[i]
	}
	return types
}

func (ct *CType) decodeOne(cp []byte) (rune, bool) {
	tok := NewTokenizer(ct, cp)
	_, r, ok := tok.Next()
	return r, ok
}
