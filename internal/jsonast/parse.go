package jsonast

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// Options bounds the work done by Parse. Zero values disable a limit.
type Options struct {
	MaxDepth int
	MaxBytes int64
}

// Error reports why the input could not be parsed.
type Error struct {
	Offset  int64  // byte offset where the problem was detected (-1 when unknown)
	Pointer string // JSON Pointer of the enclosing value
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s at offset %d", e.Message, e.Offset)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

type parser struct {
	src *tokenSource
	opt Options
}

// Parse builds the syntax tree of data. The whole input must be exactly one
// JSON value, optionally surrounded by whitespace.
func Parse(data []byte, opt Options) (*Node, error) {
	if opt.MaxBytes > 0 && int64(len(data)) > opt.MaxBytes {
		return nil, &Error{Offset: opt.MaxBytes, Message: "max bytes exceeded"}
	}
	p := &parser{src: newTokenSource(data), opt: opt}
	tok, err := p.next("")
	if err != nil {
		return nil, err
	}
	root, err := p.value(tok, "", 0)
	if err != nil {
		return nil, err
	}
	if _, err := p.src.next(); err != io.EOF {
		off := p.src.dec.InputOffset()
		return nil, &Error{Offset: off, Message: "unexpected data after top-level value", Err: err}
	}
	return root, nil
}

func (p *parser) next(pointer string) (token, error) {
	tok, err := p.src.next()
	if err == nil {
		return tok, nil
	}
	if errors.Is(err, io.EOF) {
		return token{}, &Error{Offset: p.src.dec.InputOffset(), Pointer: pointer, Message: "unexpected end of JSON input", Err: io.ErrUnexpectedEOF}
	}
	var se *json.SyntaxError
	if errors.As(err, &se) {
		return token{}, &Error{Offset: se.Offset, Pointer: pointer, Message: se.Error(), Err: err}
	}
	return token{}, &Error{Offset: -1, Pointer: pointer, Message: err.Error(), Err: err}
}

func (p *parser) value(tok token, pointer string, depth int) (*Node, error) {
	switch tok.kind {
	case tokBeginObject:
		if err := p.enter(depth, tok, pointer); err != nil {
			return nil, err
		}
		return p.object(tok, pointer, depth+1)
	case tokBeginArray:
		if err := p.enter(depth, tok, pointer); err != nil {
			return nil, err
		}
		return p.array(tok, pointer, depth+1)
	case tokString:
		return &Node{Kind: String, Offset: tok.start, Length: tok.end - tok.start, Pointer: pointer, Value: tok.str}, nil
	case tokNumber:
		return &Node{Kind: Number, Offset: tok.start, Length: tok.end - tok.start, Pointer: pointer, Value: tok.num}, nil
	case tokBool:
		return &Node{Kind: Boolean, Offset: tok.start, Length: tok.end - tok.start, Pointer: pointer, Value: tok.b}, nil
	case tokNull:
		return &Node{Kind: Null, Offset: tok.start, Length: tok.end - tok.start, Pointer: pointer}, nil
	}
	return nil, &Error{Offset: int64(tok.start), Pointer: pointer, Message: "unexpected delimiter"}
}

func (p *parser) enter(depth int, tok token, pointer string) error {
	if p.opt.MaxDepth > 0 && depth+1 > p.opt.MaxDepth {
		return &Error{Offset: int64(tok.start), Pointer: pointer, Message: "max depth exceeded"}
	}
	return nil
}

func (p *parser) object(open token, pointer string, depth int) (*Node, error) {
	n := &Node{Kind: Object, Offset: open.start, Pointer: pointer}
	for {
		tok, err := p.next(pointer)
		if err != nil {
			return nil, err
		}
		if tok.kind == tokEndObject {
			n.Length = tok.end - n.Offset
			return n, nil
		}
		if tok.kind != tokString {
			return nil, &Error{Offset: int64(tok.start), Pointer: pointer, Message: "expected object key"}
		}
		child := joinPointer(pointer, tok.str)
		key := &Node{Kind: String, Offset: tok.start, Length: tok.end - tok.start, Pointer: child, Value: tok.str}

		vt, err := p.next(child)
		if err != nil {
			return nil, err
		}
		val, err := p.value(vt, child, depth)
		if err != nil {
			return nil, err
		}
		n.Properties = append(n.Properties, Property{Key: key, Value: val})
	}
}

func (p *parser) array(open token, pointer string, depth int) (*Node, error) {
	n := &Node{Kind: Array, Offset: open.start, Pointer: pointer}
	for i := 0; ; i++ {
		tok, err := p.next(pointer)
		if err != nil {
			return nil, err
		}
		if tok.kind == tokEndArray {
			n.Length = tok.end - n.Offset
			return n, nil
		}
		el, err := p.value(tok, joinPointer(pointer, strconv.Itoa(i)), depth)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, el)
	}
}
