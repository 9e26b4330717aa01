package jsonast

import (
	"bytes"
	"encoding/json"
	"io"
)

type tokenKind int

const (
	tokBeginObject tokenKind = iota
	tokEndObject
	tokBeginArray
	tokEndArray
	tokString
	tokNumber
	tokBool
	tokNull
)

// token is a single lexical JSON token with its byte span in the input.
type token struct {
	kind  tokenKind
	str   string
	num   json.Number
	b     bool
	start int
	end   int
}

// tokenSource wraps encoding/json's Decoder.Token and recovers the start
// offset of every token from InputOffset, which only reports token ends.
type tokenSource struct {
	data []byte
	dec  *json.Decoder
}

func newTokenSource(data []byte) *tokenSource {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return &tokenSource{data: data, dec: dec}
}

func (s *tokenSource) next() (token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		if err == io.EOF {
			return token{}, io.EOF
		}
		return token{}, err
	}
	end := int(s.dec.InputOffset())

	switch v := tok.(type) {
	case json.Delim:
		t := token{start: end - 1, end: end}
		switch v {
		case '{':
			t.kind = tokBeginObject
		case '}':
			t.kind = tokEndObject
		case '[':
			t.kind = tokBeginArray
		default:
			t.kind = tokEndArray
		}
		return t, nil
	case string:
		return token{kind: tokString, str: v, start: stringStart(s.data, end), end: end}, nil
	case json.Number:
		return token{kind: tokNumber, num: v, start: end - len(v), end: end}, nil
	case bool:
		n := 5
		if v {
			n = 4
		}
		return token{kind: tokBool, b: v, start: end - n, end: end}, nil
	default:
		return token{kind: tokNull, start: end - 4, end: end}, nil
	}
}

// stringStart returns the offset of the opening quote of the string literal
// whose closing quote sits at end-1. A quote is the opener when it is
// preceded by an even number of backslashes.
func stringStart(data []byte, end int) int {
	for i := end - 2; i >= 0; i-- {
		if data[i] != '"' {
			continue
		}
		n := 0
		for j := i - 1; j >= 0 && data[j] == '\\'; j-- {
			n++
		}
		if n%2 == 0 {
			return i
		}
	}
	return 0
}
