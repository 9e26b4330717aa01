package jsonldlint

import (
	"fmt"
	"slices"
	"strings"

	"github.com/reoring/jsonldlint/internal/jsonast"
)

// processObject walks one object: keyword-shaped members first, then, unless
// those produced a syntax error, the remaining members. Outside of context
// definitions the document context is attached for them.
func processObject(pc processingContext, obj *jsonast.Node) ([]Result, error) {
	pc = pc.withPosition(classify(pc))

	var keywordProps, termProps []jsonast.Property
	for _, p := range obj.Properties {
		if LooksLikeKeyword(p.KeyString()) {
			keywordProps = append(keywordProps, p)
		} else {
			termProps = append(termProps, p)
		}
	}

	var results []Result
	for _, p := range keywordProps {
		rs, err := processProperty(pc, p, obj)
		if err != nil {
			return nil, err
		}
		results = append(results, rs...)
	}
	if hasSyntaxError(results) || len(termProps) == 0 {
		return results, nil
	}

	if !pc.inContextDefinition() {
		var ok bool
		var err error
		pc, ok, err = pc.enrich()
		if err != nil {
			return nil, err
		}
		if !ok {
			return results, nil
		}
	}
	for _, p := range termProps {
		rs, err := processProperty(pc, p, obj)
		if err != nil {
			return nil, err
		}
		results = append(results, rs...)
	}
	return results, nil
}

func processProperty(pc processingContext, prop jsonast.Property, obj *jsonast.Node) ([]Result, error) {
	results, term := processKey(pc, prop.Key, obj)
	if term == nil || prop.Value == nil {
		return results, nil
	}
	rs, err := processValue(pc.withTerm(term), prop.Value, false)
	if err != nil {
		return nil, err
	}
	return append(results, rs...), nil
}

// processKey classifies a property key. The returned term, when non-nil,
// drives validation of the property value. Term definitions inside a local
// context return a term without emitting it.
func processKey(pc processingContext, key *jsonast.Node, obj *jsonast.Node) ([]Result, *Term) {
	name, _ := key.Value.(string)
	pos := positionOf(key)

	if name == "" {
		return []Result{pc.syntaxError(EmptyJsonPropertyKey, "Empty JSON property encountered", pos, "", key.Pointer)}, nil
	}
	if isDuplicateProperty(obj, name) {
		msg := fmt.Sprintf("Duplicate property of %q encountered", name)
		return []Result{pc.syntaxError(DuplicatePropertyInJsonObject, msg, pos, name, key.Pointer)}, nil
	}
	if IsKeyword(name) && hasDuplicateAlias(obj, name) {
		msg := fmt.Sprintf("Duplicate aliased property of JSON-LD term of %q encountered", name)
		return []Result{pc.syntaxError(DuplicateAliasPropertyInJsonObject, msg, pos, name, key.Pointer)}, nil
	}

	if kt, ok := LookupKeyword(name); ok {
		if !kt.LegalIn(pc.position) {
			msg := fmt.Sprintf("Usage of JSON-LD syntax token %q in the JSON-LD object type of %q is invalid", name, pc.position)
			return []Result{pc.syntaxError(UnexpectedUseOfJsonLdKeyword, msg, pos, name, key.Pointer)}, nil
		}
		t := Term{Name: name, IsKeyword: true, IRI: kt.IRI, Position: pos, Pointer: key.Pointer}
		return []Result{t}, &t
	}

	if LooksLikeKeyword(name) {
		t := Term{Name: name, Position: pos, Pointer: key.Pointer}
		var results []Result
		if pc.lintEnabled(UnrecognizedJsonLdKeyword) {
			results = append(results, LintResult{
				Rule:     UnrecognizedJsonLdKeyword,
				Message:  fmt.Sprintf("The term %q matches the convention of a JSON-LD syntax token but is un-recognized", name),
				Position: pos,
				Value:    name,
				Pointer:  key.Pointer,
			})
		}
		return append(results, t), &t
	}

	if pc.inContextDefinition() {
		return nil, &Term{Name: name, Position: pos, Pointer: key.Pointer}
	}

	if _, ok := pc.unmapped[name]; ok && pc.lintEnabled(UnmappedTerm) {
		return []Result{LintResult{
			Rule:     UnmappedTerm,
			Message:  fmt.Sprintf("The term %q is not defined in the document context (unmapped)", name),
			Position: pos,
			Value:    name,
			Pointer:  key.Pointer,
		}}, nil
	}

	iri, typeIRI := pc.documentContext.Resolve(name)
	t := Term{Name: name, IRI: iri, ValueTypeIRI: typeIRI, Position: pos, Pointer: key.Pointer}
	return []Result{t}, &t
}

// processValue validates the value of pc.term and descends into containers.
// element is true for members of an array value.
func processValue(pc processingContext, value *jsonast.Node, element bool) ([]Result, error) {
	term := pc.term
	vt := valueTypeOf(value)
	pos := positionOf(value)

	kt, isKeyword := LookupKeyword(term.Name)
	if isKeyword {
		allowed := kt.ValueTypes
		if element {
			allowed = kt.ElementTypes
		}
		if len(allowed) > 0 && !slices.Contains(allowed, vt) {
			return []Result{pc.syntaxError(UnexpectedJsonLdKeywordValueType, valueTypeMessage(term.Name, vt, allowed), pos, term.Name, value.Pointer)}, nil
		}
	}

	if pc.position == LocalContextDefinition && !isKeyword && !LooksLikeKeyword(term.Name) &&
		!slices.Contains(termDefinitionTypes, vt) {
		msg := fmt.Sprintf("Value type for the JSON-LD term definition for term %q of %q is invalid, expected one of: %s",
			term.Name, vt, joinTypes(termDefinitionTypes))
		return []Result{pc.syntaxError(UnexpectedJsonLdKeywordValueType, msg, pos, term.Name, value.Pointer)}, nil
	}

	switch value.Kind {
	case jsonast.Object:
		return processObject(pc, value)
	case jsonast.Array:
		var results []Result
		for _, el := range value.Children {
			rs, err := processValue(pc, el, true)
			if err != nil {
				return nil, err
			}
			results = append(results, rs...)
		}
		return results, nil
	}

	if !isKeyword {
		return nil, nil
	}
	scalar, _ := value.Scalar()
	if len(kt.Values) > 0 && !slices.Contains(kt.Values, scalar) {
		msg := fmt.Sprintf("Value for the JSON-LD keyword %q of %q is invalid, expected one of: %s",
			term.Name, scalarText(value), joinValues(kt.Values))
		return []Result{pc.syntaxError(UnexpectedJsonLdKeywordValue, msg, pos, term.Name, value.Pointer)}, nil
	}
	if validate, ok := kt.Validators[vt]; ok && !validate(scalar) {
		msg := fmt.Sprintf("Value for the JSON-LD syntax token %q of %q is invalid", term.Name, scalarText(value))
		return []Result{pc.syntaxError(UnexpectedJsonLdKeywordValue, msg, pos, term.Name, value.Pointer)}, nil
	}
	return nil, nil
}

func isDuplicateProperty(obj *jsonast.Node, key string) bool {
	n := 0
	for _, p := range obj.Properties {
		if p.KeyString() == key {
			n++
		}
	}
	return n > 1
}

// hasDuplicateAlias reports whether the other spelling of the keyword key is
// also a member of obj. Unrecognized names report true; callers only ask
// about recognized keywords.
func hasDuplicateAlias(obj *jsonast.Node, key string) bool {
	kt, ok := LookupKeyword(key)
	if !ok {
		return true
	}
	alias := kt.AliasOf(key)
	if alias == "" {
		return false
	}
	for _, p := range obj.Properties {
		if p.KeyString() == alias {
			return true
		}
	}
	return false
}

func valueTypeMessage(name string, got ValueType, allowed []ValueType) string {
	if len(allowed) > 1 {
		return fmt.Sprintf("Value type for the JSON-LD keyword %q of %q is invalid, expected one of type: %s", name, got, joinTypes(allowed))
	}
	return fmt.Sprintf("Value type for the JSON-LD keyword %q of %q is invalid, expected type: %s", name, got, joinTypes(allowed))
}

func joinTypes(ts []ValueType) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = string(t)
	}
	return strings.Join(parts, ",")
}

func joinValues(vs []any) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ",")
}

func scalarText(n *jsonast.Node) string {
	switch v := n.Value.(type) {
	case string:
		return v
	case nil:
		return "null"
	default:
		return fmt.Sprint(v)
	}
}
