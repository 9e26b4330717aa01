package jsonldlint

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// withEngine swaps the JSON-LD collaborators for one call.
func withEngine(f engineFactory) Option {
	return func(o *options) { o.engine = f }
}

// fakeActive is a processed context made of plain term definitions.
type fakeActive struct {
	terms map[string]termDefinition
	vocab string
}

func (a fakeActive) Terms() []string {
	out := make([]string, 0, len(a.terms))
	for k := range a.terms {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (a fakeActive) Term(name string) (termDefinition, bool) {
	d, ok := a.terms[name]
	return d, ok
}

func (a fakeActive) ExpandIRI(name string) (string, bool) {
	if a.vocab == "" {
		return "", false
	}
	return a.vocab + name, true
}

// fakeEngine merges contexts given as maps of term -> IRI string or
// term -> {"@id", "@type", "@context"}. String contexts are loaded through
// the resolver.
type fakeEngine struct {
	mu        sync.Mutex
	unmapped  []string
	expandErr error
	mergeErr  error
	merges    []any
	expands   int
	resolver  ContextResolver
}

func (e *fakeEngine) factory(_ context.Context, r ContextResolver) (contextProcessor, expander) {
	e.resolver = r
	return e, e
}

func (e *fakeEngine) Expand(ctx context.Context, _ any, onUnmapped func(string)) error {
	e.mu.Lock()
	e.expands++
	e.mu.Unlock()
	if e.expandErr != nil {
		return e.expandErr
	}
	for _, u := range e.unmapped {
		onUnmapped(u)
	}
	return nil
}

func (e *fakeEngine) Merge(ctx context.Context, base activeContext, local any) (activeContext, error) {
	e.mu.Lock()
	e.merges = append(e.merges, local)
	e.mu.Unlock()
	if e.mergeErr != nil {
		return nil, e.mergeErr
	}
	out := fakeActive{terms: map[string]termDefinition{}}
	if b, ok := base.(fakeActive); ok {
		for k, v := range b.terms {
			out.terms[k] = v
		}
		out.vocab = b.vocab
	}
	if err := e.apply(ctx, &out, local); err != nil {
		return nil, err
	}
	return out, nil
}

func (e *fakeEngine) apply(ctx context.Context, out *fakeActive, local any) error {
	switch v := local.(type) {
	case string:
		doc, err := e.resolver.Resolve(ctx, v)
		if err != nil {
			return err
		}
		m, _ := doc.(map[string]any)
		return e.apply(ctx, out, m["@context"])
	case []any:
		for _, item := range v {
			if err := e.apply(ctx, out, item); err != nil {
				return err
			}
		}
	case map[string]any:
		for k, raw := range v {
			if k == "@vocab" {
				out.vocab, _ = raw.(string)
				continue
			}
			if LooksLikeKeyword(k) {
				continue
			}
			switch d := raw.(type) {
			case string:
				out.terms[k] = termDefinition{IRI: d}
			case map[string]any:
				def := termDefinition{}
				def.IRI, _ = d["@id"].(string)
				def.TypeIRI, _ = d["@type"].(string)
				if sc, ok := d["@context"]; ok {
					def.Context, def.HasContext = sc, true
				}
				out.terms[k] = def
			}
		}
	case nil:
	default:
		return errors.New("unsupported context")
	}
	return nil
}

// staticResolver serves fixed documents and counts lookups.
type staticResolver struct {
	mu    sync.Mutex
	docs  map[string]any
	calls int
}

func (r *staticResolver) Resolve(_ context.Context, ref string) (any, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	doc, ok := r.docs[ref]
	if !ok {
		return nil, errors.New("not found: " + ref)
	}
	return doc, nil
}
