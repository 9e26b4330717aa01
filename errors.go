package jsonldlint

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a call could not analyze its input.
type ErrorKind int

const (
	// ParsingError: the input is not JSON, or its root is not an object.
	ParsingError ErrorKind = iota + 1
	// JsonLdDetectionError: the root object has no @context.
	JsonLdDetectionError
	// ProcessingError: a collaborator failed while walking the document.
	ProcessingError
)

func (k ErrorKind) String() string {
	switch k {
	case ParsingError:
		return "ParsingError"
	case JsonLdDetectionError:
		return "JsonLdDetectionError"
	case ProcessingError:
		return "ProcessingError"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

const (
	msgNotJSON        = "Unable to parse input document as JSON"
	msgSyntaxTree     = "An error occurred while processing the JSON document"
	msgRootNotObject  = "Expected a JSON object at the root of the JSON-LD document"
	msgNoContext      = "JSON Document not a valid JSON-LD document, no @context found"
	msgProcessingFail = "An error occurred while processing the JSON-LD document"
)

// Error is the only error type returned by Process and Lint.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error // underlying cause, may be nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind ErrorKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Err: cause}
}

// AsError extracts an *Error from err using errors.As.
func AsError(err error) (*Error, bool) {
	if err == nil {
		return nil, false
	}
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	e, ok := AsError(err)
	return ok && e.Kind == kind
}
