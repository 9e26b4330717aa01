package jsonldlint

import (
	"context"
	"errors"
	"fmt"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("jsonldlint")

// termDefinition is the part of a JSON-LD term definition the walker uses.
type termDefinition struct {
	IRI        string
	TypeIRI    string
	Context    any // term-scoped context, nil when absent
	HasContext bool
	Container  []string
	Reverse    bool
}

// activeContext is a processed JSON-LD context.
type activeContext interface {
	// Terms lists the terms that have a definition, sorted.
	Terms() []string
	Term(name string) (termDefinition, bool)
	// ExpandIRI expands name as a property (vocab-relative).
	ExpandIRI(name string) (string, bool)
}

// contextProcessor merges a local context onto a base. A nil base means the
// initial context. Merge must not modify base.
type contextProcessor interface {
	Merge(ctx context.Context, base activeContext, local any) (activeContext, error)
}

// expander runs JSON-LD expansion over the document and calls onUnmapped
// for every property it had to drop for lack of a mapping.
type expander interface {
	Expand(ctx context.Context, document any, onUnmapped func(term string)) error
}

// engineFactory binds collaborators to a resolver for one Process call.
type engineFactory func(ctx context.Context, resolver ContextResolver) (contextProcessor, expander)

// DocumentContext is the merged term mapping of a document.
type DocumentContext struct {
	terms  map[string]termDefinition
	active activeContext
}

// Len returns the number of defined terms.
func (dc *DocumentContext) Len() int {
	if dc == nil {
		return 0
	}
	return len(dc.terms)
}

// Resolve returns the IRI a term maps to and, for typed terms, the IRI of
// its value type. Terms without a definition are expanded through the active
// context so a default vocabulary still applies.
func (dc *DocumentContext) Resolve(name string) (iri, valueTypeIRI string) {
	if dc == nil {
		return "", ""
	}
	if def, ok := dc.terms[name]; ok {
		iri = def.IRI
		if def.TypeIRI != "" && !LooksLikeKeyword(def.TypeIRI) {
			valueTypeIRI = def.TypeIRI
		}
		return iri, valueTypeIRI
	}
	if dc.active != nil {
		if s, ok := dc.active.ExpandIRI(name); ok && IsAbsoluteIRI(s) {
			return s, ""
		}
	}
	return "", ""
}

type contextBuilder struct {
	processor contextProcessor
	expander  expander
}

var errNoContext = errors.New("document has no @context")

// build expands the document once to learn its unmapped terms, then merges
// the root @context and every term-scoped context defined directly on the
// resulting mapping. Each scoped context is merged at most once.
func (b contextBuilder) build(ctx context.Context, document any) (*DocumentContext, map[string]struct{}, error) {
	unmapped := map[string]struct{}{}
	err := b.expander.Expand(ctx, document, func(term string) { unmapped[term] = struct{}{} })
	if err != nil {
		return nil, nil, fmt.Errorf("expand document: %w", err)
	}

	root, _ := document.(map[string]any)
	local, ok := root["@context"]
	if !ok {
		return nil, nil, errNoContext
	}
	base, err := b.processor.Merge(ctx, nil, local)
	if err != nil {
		return nil, nil, fmt.Errorf("process @context: %w", err)
	}

	merged := base
	worklist := base.Terms()
	done := make(map[string]struct{}, len(worklist))
	for len(worklist) > 0 {
		name := worklist[0]
		worklist = worklist[1:]
		if _, seen := done[name]; seen {
			continue
		}
		def, ok := base.Term(name)
		if !ok || !def.HasContext {
			continue
		}
		done[name] = struct{}{}
		next, err := b.processor.Merge(ctx, merged, def.Context)
		if err != nil {
			return nil, nil, fmt.Errorf("process scoped context of %q: %w", name, err)
		}
		merged = next
	}

	names := merged.Terms()
	dc := &DocumentContext{terms: make(map[string]termDefinition, len(names)), active: merged}
	for _, name := range names {
		if def, ok := merged.Term(name); ok {
			dc.terms[name] = def
		}
	}
	log.Debugf("document context: %d terms, %d scoped contexts, %d unmapped", len(dc.terms), len(done), len(unmapped))
	return dc, unmapped, nil
}
