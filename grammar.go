package jsonldlint

import (
	"regexp"
	"slices"
	"sync"

	"github.com/reoring/jsonldlint/internal/jsonast"
)

// GrammarPosition is the structural role of a JSON object in JSON-LD syntax.
// See https://www.w3.org/TR/json-ld11/#json-ld-grammar.
type GrammarPosition int

const (
	NodeObject GrammarPosition = iota + 1
	FrameObject
	GraphObject
	ValueObject
	LocalContextDefinition
	ExpandedTermDefinition
)

func (p GrammarPosition) String() string {
	switch p {
	case NodeObject:
		return "NodeObject"
	case FrameObject:
		return "FrameObject"
	case GraphObject:
		return "GraphObject"
	case ValueObject:
		return "ValueObject"
	case LocalContextDefinition:
		return "LocalContextDefinition"
	case ExpandedTermDefinition:
		return "ExpandedTermDefinition"
	}
	return "Unknown"
}

// ValueType is a JSON value type name.
type ValueType string

const (
	TypeObject  ValueType = "object"
	TypeArray   ValueType = "array"
	TypeString  ValueType = "string"
	TypeNumber  ValueType = "number"
	TypeBoolean ValueType = "boolean"
	TypeNull    ValueType = "null"
)

func valueTypeOf(n *jsonast.Node) ValueType { return ValueType(n.Kind.String()) }

// ValueValidator checks a scalar keyword value. Strings arrive as string,
// numbers as float64 and booleans as bool.
type ValueValidator func(value any) bool

// KnownTerm describes a JSON-LD keyword.
type KnownTerm struct {
	Name  string
	Alias string // non-@ spelling accepted in place of Name, e.g. "id"
	IRI   string
	// Positions lists where the keyword may appear as an object member.
	Positions []GrammarPosition
	// ValueTypes restricts the JSON type of the value; empty means any.
	ValueTypes []ValueType
	// ElementTypes restricts array elements; empty means any.
	ElementTypes []ValueType
	// Values restricts scalar values.
	Values []any
	// Validators apply to scalar values of the keyed JSON type.
	Validators map[ValueType]ValueValidator
}

// LegalIn reports whether the keyword may be used in an object at pos.
func (k KnownTerm) LegalIn(pos GrammarPosition) bool { return slices.Contains(k.Positions, pos) }

// AliasOf returns the other spelling of name, or "" when there is none.
func (k KnownTerm) AliasOf(name string) string {
	if name == k.Name {
		return k.Alias
	}
	return k.Name
}

var (
	keywordPattern     = regexp.MustCompile(`^@[a-zA-Z]+$`)
	absoluteIRIPattern = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9+-.]*|_):[^\s]*$`)
)

// IsAbsoluteIRI reports whether s is an absolute IRI or a blank node identifier.
func IsAbsoluteIRI(s string) bool { return absoluteIRIPattern.MatchString(s) }

func absoluteIRIValue(v any) bool {
	s, ok := v.(string)
	return ok && IsAbsoluteIRI(s)
}

// termDefinitionTypes are the JSON types a context entry may take.
var termDefinitionTypes = []ValueType{TypeString, TypeObject}

const specBase = "https://www.w3.org/TR/json-ld11/"

var (
	inNode    = []GrammarPosition{NodeObject, GraphObject}
	inContext = []GrammarPosition{LocalContextDefinition}
)

var keywords = []KnownTerm{
	{Name: "@base", IRI: specBase + "#base-iri", Positions: inContext, ValueTypes: []ValueType{TypeString, TypeNull}},
	{
		Name: "@container", IRI: specBase + "#keywords-and-keywords",
		Positions:    []GrammarPosition{LocalContextDefinition, ExpandedTermDefinition},
		ValueTypes:   []ValueType{TypeString, TypeArray},
		ElementTypes: []ValueType{TypeString},
		Values:       []any{"@list", "@language", "@set", "@index", "@id", "@type", "@graph", "@none"},
	},
	{
		Name: "@context", IRI: specBase + "#the-context",
		Positions:    []GrammarPosition{NodeObject, GraphObject, ExpandedTermDefinition},
		ValueTypes:   []ValueType{TypeString, TypeArray, TypeObject, TypeNull},
		ElementTypes: []ValueType{TypeString, TypeObject, TypeNull},
		Validators:   map[ValueType]ValueValidator{TypeString: absoluteIRIValue},
	},
	{
		Name: "@direction", IRI: specBase + "#base-direction",
		Positions:  []GrammarPosition{LocalContextDefinition, ExpandedTermDefinition, NodeObject},
		ValueTypes: []ValueType{TypeString, TypeNull},
		Values:     []any{"ltr", "rtl"},
	},
	{
		Name: "@graph", IRI: specBase + "#named-graphs",
		Positions:    inNode,
		ValueTypes:   []ValueType{TypeArray, TypeObject},
		ElementTypes: []ValueType{TypeObject},
	},
	{
		Name: "@id", Alias: "id", IRI: specBase + "#node-identifiers",
		Positions:  []GrammarPosition{NodeObject, GraphObject, ExpandedTermDefinition, LocalContextDefinition},
		ValueTypes: []ValueType{TypeString},
	},
	{Name: "@import", IRI: specBase + "#imported-contexts", Positions: inContext, ValueTypes: []ValueType{TypeString}},
	{
		Name: "@included", IRI: specBase + "#included-blocks",
		Positions:    inNode,
		ValueTypes:   []ValueType{TypeObject, TypeArray},
		ElementTypes: []ValueType{TypeObject},
	},
	{
		Name: "@index", IRI: specBase + "#property-based-data-indexing",
		Positions:  []GrammarPosition{NodeObject, GraphObject, ExpandedTermDefinition},
		ValueTypes: []ValueType{TypeString},
	},
	{Name: "@json", IRI: specBase + "#json-literals", Positions: inContext},
	{
		Name: "@language", IRI: specBase + "#string-internationalization",
		Positions:  []GrammarPosition{LocalContextDefinition, ExpandedTermDefinition, NodeObject},
		ValueTypes: []ValueType{TypeString, TypeNull},
	},
	{Name: "@list", IRI: specBase + "#lists", Positions: []GrammarPosition{NodeObject}, ValueTypes: []ValueType{TypeArray}},
	{
		Name: "@nest", IRI: specBase + "#nested-properties",
		Positions:  []GrammarPosition{NodeObject, ExpandedTermDefinition},
		ValueTypes: []ValueType{TypeString, TypeObject},
	},
	{
		Name: "@none", IRI: specBase + "#keywords-and-keywords",
		Positions:  inContext,
		ValueTypes: []ValueType{TypeArray, TypeObject, TypeString},
	},
	{
		Name: "@prefix", IRI: specBase + "#keywords-and-keywords",
		Positions:  []GrammarPosition{LocalContextDefinition, ExpandedTermDefinition},
		ValueTypes: []ValueType{TypeBoolean},
	},
	{Name: "@propagate", IRI: specBase + "#keywords-and-keywords", Positions: inContext, ValueTypes: []ValueType{TypeBoolean}},
	{
		Name: "@protected", IRI: specBase + "#protected-term-definitions",
		Positions:  []GrammarPosition{LocalContextDefinition, ExpandedTermDefinition},
		ValueTypes: []ValueType{TypeBoolean},
	},
	{
		Name: "@reverse", IRI: specBase + "#reverse-properties",
		Positions:  []GrammarPosition{NodeObject, ExpandedTermDefinition},
		ValueTypes: []ValueType{TypeString, TypeObject},
	},
	{Name: "@set", IRI: specBase + "#sets", Positions: []GrammarPosition{NodeObject}, ValueTypes: []ValueType{TypeArray}},
	{
		Name: "@type", Alias: "type", IRI: specBase + "#typed-values",
		Positions:    []GrammarPosition{NodeObject, GraphObject, ExpandedTermDefinition, LocalContextDefinition},
		ValueTypes:   []ValueType{TypeString, TypeArray},
		ElementTypes: []ValueType{TypeString},
	},
	{
		Name: "@value", IRI: specBase + "#typed-values",
		Positions:  []GrammarPosition{NodeObject, ExpandedTermDefinition},
		ValueTypes: []ValueType{TypeString, TypeNumber, TypeBoolean},
	},
	{
		Name: "@version", IRI: specBase + "#json-ld-1-1-processing-mode",
		Positions:  inContext,
		ValueTypes: []ValueType{TypeNumber},
		Values:     []any{1.0, 1.1},
	},
	{Name: "@vocab", IRI: specBase + "#default-vocabulary", Positions: inContext, ValueTypes: []ValueType{TypeString, TypeNull}},
}

var keywordIndex = sync.OnceValue(func() map[string]int {
	m := make(map[string]int, len(keywords)+2)
	for i, k := range keywords {
		m[k.Name] = i
		if k.Alias != "" {
			m[k.Alias] = i
		}
	}
	return m
})

// LookupKeyword returns the canonical record for a keyword or one of its
// aliases.
func LookupKeyword(name string) (KnownTerm, bool) {
	i, ok := keywordIndex()[name]
	if !ok {
		return KnownTerm{}, false
	}
	return keywords[i], true
}

// Keywords returns the canonical records in table order.
func Keywords() []KnownTerm { return slices.Clone(keywords) }

// IsKeyword reports whether name is a recognized keyword or keyword alias.
func IsKeyword(name string) bool {
	_, ok := keywordIndex()[name]
	return ok
}

// LooksLikeKeyword reports whether name follows the keyword convention of
// "@" followed by letters, whether or not it is recognized.
func LooksLikeKeyword(name string) bool { return keywordPattern.MatchString(name) }

// IsLegalIn reports whether the keyword name may be used at pos. Unknown
// names are never legal.
func IsLegalIn(name string, pos GrammarPosition) bool {
	k, ok := LookupKeyword(name)
	return ok && k.LegalIn(pos)
}
