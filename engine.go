package jsonldlint

import (
	"context"

	"github.com/reoring/jsonldlint/internal/ldproc"
)

// jsonGoldEngine backs the context processor and expander with json-gold,
// loading remote contexts through resolver.
func jsonGoldEngine(ctx context.Context, resolver ContextResolver) (contextProcessor, expander) {
	e := ldEngine{p: ldproc.New(resolverLoader{ctx: ctx, resolver: resolver})}
	return e, e
}

type ldEngine struct{ p *ldproc.Processor }

type ldActive struct{ c *ldproc.Context }

func (e ldEngine) Merge(_ context.Context, base activeContext, local any) (activeContext, error) {
	var b *ldproc.Context
	if a, ok := base.(ldActive); ok {
		b = a.c
	}
	c, err := e.p.Merge(b, local)
	if err != nil {
		return nil, err
	}
	return ldActive{c: c}, nil
}

func (e ldEngine) Expand(_ context.Context, document any, onUnmapped func(string)) error {
	return e.p.Expand(document, onUnmapped)
}

func (a ldActive) Terms() []string { return a.c.Terms() }

func (a ldActive) Term(name string) (termDefinition, bool) {
	d, ok := a.c.Term(name)
	if !ok {
		return termDefinition{}, false
	}
	return termDefinition{
		IRI:        d.IRI,
		TypeIRI:    d.Type,
		Context:    d.Context,
		HasContext: d.HasContext,
		Container:  d.Container,
		Reverse:    d.Reverse,
	}, true
}

func (a ldActive) ExpandIRI(name string) (string, bool) { return a.c.ExpandIRI(name) }
