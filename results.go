package jsonldlint

import (
	"github.com/goccy/go-json"
)

// ResultKind tags the variants of Result.
type ResultKind int

const (
	KindSyntaxError ResultKind = iota + 1
	KindLintResult
	KindTerm
	KindTermValue
)

func (k ResultKind) String() string {
	switch k {
	case KindSyntaxError:
		return "jsonld-lint-result/syntax-error"
	case KindLintResult:
		return "jsonld-lint-result/linting-result"
	case KindTerm:
		return "jsonld-lint-result/term-definition"
	case KindTermValue:
		return "jsonld-lint-result/term-value"
	}
	return "jsonld-lint-result/unknown"
}

// SyntaxErrorRule identifies a grammar violation.
type SyntaxErrorRule string

const (
	EmptyJsonPropertyKey               SyntaxErrorRule = "jsonld-lint/empty-json-property-key"
	DuplicatePropertyInJsonObject      SyntaxErrorRule = "jsonld-lint/duplicate-property-in-json-object"
	DuplicateAliasPropertyInJsonObject SyntaxErrorRule = "jsonld-lint/duplicate-alias-property-in-json-object"
	UnexpectedUseOfJsonLdKeyword       SyntaxErrorRule = "jsonld-lint/unexpected-use-of-jsonld-keyword"
	UnexpectedJsonLdKeywordValueType   SyntaxErrorRule = "jsonld-lint/unexpected-jsonld-keyword-value-type"
	UnexpectedJsonLdKeywordValue       SyntaxErrorRule = "jsonld-lint/unexpected-jsonld-keyword-value"
)

// LintRule identifies a non-fatal finding. Lint rules can be switched off
// with WithLintingRules.
type LintRule string

const (
	UnrecognizedJsonLdKeyword LintRule = "jsonld-lint/unrecognized-jsonld-keyword"
	UnmappedTerm              LintRule = "jsonld-lint/unmapped-term"
)

// DefaultLintingRules are enabled when WithLintingRules is not given.
var DefaultLintingRules = []LintRule{UnrecognizedJsonLdKeyword, UnmappedTerm}

// Result is one entry of the output of Process. The set of implementations
// is closed: SyntaxError, LintResult, Term and TermValue.
type Result interface {
	Kind() ResultKind
	Pos() Position
	isResult()
}

// SyntaxError is a grammar or structural violation.
type SyntaxError struct {
	Rule     SyntaxErrorRule
	Message  string
	Position Position
	Value    string // offending key or term name, may be empty
	Pointer  string // JSON Pointer of the offending node
}

// LintResult is a style or mapping warning.
type LintResult struct {
	Rule     LintRule
	Message  string
	Position Position
	Value    string
	Pointer  string
}

// Term is a classified property key.
type Term struct {
	Name         string
	IsKeyword    bool
	IRI          string // empty when the term could not be resolved
	ValueTypeIRI string
	Position     Position
	Pointer      string
}

// TermValue annotates a property value. No rule produces it yet.
type TermValue struct {
	Name     string
	Position Position
	Pointer  string
}

func (SyntaxError) Kind() ResultKind { return KindSyntaxError }
func (LintResult) Kind() ResultKind  { return KindLintResult }
func (Term) Kind() ResultKind        { return KindTerm }
func (TermValue) Kind() ResultKind   { return KindTermValue }

func (r SyntaxError) Pos() Position { return r.Position }
func (r LintResult) Pos() Position  { return r.Position }
func (r Term) Pos() Position        { return r.Position }
func (r TermValue) Pos() Position   { return r.Position }

func (SyntaxError) isResult() {}
func (LintResult) isResult()  {}
func (Term) isResult()        {}
func (TermValue) isResult()   {}

func (r SyntaxError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     string          `json:"type"`
		Rule     SyntaxErrorRule `json:"rule"`
		Message  string          `json:"message"`
		Position Position        `json:"documentPosition"`
		Value    string          `json:"value,omitempty"`
		Pointer  string          `json:"pointer"`
	}{r.Kind().String(), r.Rule, r.Message, r.Position, r.Value, r.Pointer})
}

func (r LintResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     string   `json:"type"`
		Rule     LintRule `json:"rule"`
		Message  string   `json:"message"`
		Position Position `json:"documentPosition"`
		Value    string   `json:"value,omitempty"`
		Pointer  string   `json:"pointer"`
	}{r.Kind().String(), r.Rule, r.Message, r.Position, r.Value, r.Pointer})
}

func (r Term) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type         string   `json:"type"`
		Name         string   `json:"name"`
		IsKeyword    bool     `json:"isJsonLdKeyword"`
		IRI          string   `json:"iri,omitempty"`
		ValueTypeIRI string   `json:"valueTypeIri,omitempty"`
		Position     Position `json:"documentPosition"`
		Pointer      string   `json:"pointer"`
	}{r.Kind().String(), r.Name, r.IsKeyword, r.IRI, r.ValueTypeIRI, r.Position, r.Pointer})
}

func (r TermValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     string   `json:"type"`
		Name     string   `json:"name"`
		Position Position `json:"documentPosition"`
		Pointer  string   `json:"pointer"`
	}{r.Kind().String(), r.Name, r.Position, r.Pointer})
}

// IsFinding reports whether r is a SyntaxError or a LintResult.
func IsFinding(r Result) bool {
	switch r.(type) {
	case SyntaxError, LintResult:
		return true
	}
	return false
}

// Findings filters results to SyntaxError and LintResult entries, keeping order.
func Findings(results []Result) []Result {
	out := make([]Result, 0, len(results))
	for _, r := range results {
		if IsFinding(r) {
			out = append(out, r)
		}
	}
	return out
}

// TermAt returns the Term whose key covers offset.
func TermAt(results []Result, offset int) (Term, bool) {
	for _, r := range results {
		if t, ok := r.(Term); ok && t.Position.Contains(offset) {
			return t, true
		}
	}
	return Term{}, false
}

func hasSyntaxError(results []Result) bool {
	for _, r := range results {
		if _, ok := r.(SyntaxError); ok {
			return true
		}
	}
	return false
}
