// Package jsonast parses JSON text into a read-only syntax tree that keeps
// byte offsets for every node, preserves property order and retains
// duplicate keys.
package jsonast

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Kind is the JSON type of a node.
type Kind int

const (
	Object Kind = iota
	Array
	String
	Number
	Boolean
	Null
)

func (k Kind) String() string {
	switch k {
	case Object:
		return "object"
	case Array:
		return "array"
	case String:
		return "string"
	case Number:
		return "number"
	case Boolean:
		return "boolean"
	case Null:
		return "null"
	}
	return "unknown"
}

// Node is a positioned JSON value.
type Node struct {
	Kind   Kind
	Offset int // byte offset of the first byte of the value
	Length int // length in bytes
	// Pointer is the RFC 6901 JSON Pointer of the node ("" for the root).
	Pointer string

	Properties []Property // Object only, in document order
	Children   []*Node    // Array only

	// Value holds the scalar: string, json.Number, bool or nil.
	Value any
}

// Property is an object member. Value is nil only when the parser could not
// produce one.
type Property struct {
	Key   *Node
	Value *Node
}

// End returns the offset just past the node.
func (n *Node) End() int { return n.Offset + n.Length }

// KeyString returns the property name.
func (p Property) KeyString() string {
	s, _ := p.Key.Value.(string)
	return s
}

// Scalar returns the node value converted for comparison: strings as string,
// numbers as float64, booleans as bool and null as nil. ok is false for
// containers and for numbers that do not fit a float64.
func (n *Node) Scalar() (v any, ok bool) {
	switch n.Kind {
	case String, Boolean, Null:
		return n.Value, true
	case Number:
		num, _ := n.Value.(json.Number)
		f, err := strconv.ParseFloat(string(num), 64)
		if err != nil {
			return nil, false
		}
		return f, true
	}
	return nil, false
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func joinPointer(base, token string) string {
	return base + "/" + pointerEscaper.Replace(token)
}
