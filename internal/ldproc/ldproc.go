// Package ldproc runs JSON-LD context processing and expansion with
// json-gold on behalf of the linter.
package ldproc

import (
	"regexp"
	"sort"
	"strings"

	"github.com/piprate/json-gold/ld"
)

const maxWalkDepth = 256

var keywordPattern = regexp.MustCompile(`^@[a-zA-Z]+$`)

// Processor wraps a json-gold processor bound to one document loader.
type Processor struct {
	loader ld.DocumentLoader
	opts   *ld.JsonLdOptions
	proc   *ld.JsonLdProcessor
}

// New returns a Processor that loads remote contexts through loader.
func New(loader ld.DocumentLoader) *Processor {
	opts := ld.NewJsonLdOptions("")
	opts.DocumentLoader = loader
	opts.ProcessingMode = ld.JsonLd_1_1
	return &Processor{loader: loader, opts: opts, proc: ld.NewJsonLdProcessor()}
}

// Definition is a processed term definition.
type Definition struct {
	IRI        string
	Type       string
	Context    any
	HasContext bool
	Container  []string
	Reverse    bool
}

// Context is a processed active context plus the names of the terms it
// defines. json-gold does not enumerate terms, so names are collected from
// the local contexts that were merged.
type Context struct {
	active *ld.Context
	terms  []string
}

// Terms returns the defined term names, sorted.
func (c *Context) Terms() []string { return append([]string(nil), c.terms...) }

// Term returns the definition of name.
func (c *Context) Term(name string) (Definition, bool) {
	raw := c.active.GetTermDefinition(name)
	if raw == nil {
		return Definition{}, false
	}
	return toDefinition(raw), true
}

// ExpandIRI expands name as a vocabulary-relative property IRI.
func (c *Context) ExpandIRI(name string) (string, bool) {
	s, err := c.active.ExpandIri(name, false, true, nil, nil)
	if err != nil || s == "" {
		return "", false
	}
	return s, true
}

func toDefinition(raw map[string]any) Definition {
	var d Definition
	d.IRI, _ = raw["@id"].(string)
	d.Type, _ = raw["@type"].(string)
	if sc, ok := raw["@context"]; ok {
		d.Context, d.HasContext = sc, true
	}
	switch c := raw["@container"].(type) {
	case string:
		d.Container = []string{c}
	case []any:
		for _, v := range c {
			if s, ok := v.(string); ok {
				d.Container = append(d.Container, s)
			}
		}
	}
	d.Reverse, _ = raw["@reverse"].(bool)
	return d
}

// Merge processes local on top of base. A nil base starts from the initial
// context. base is left untouched.
func (p *Processor) Merge(base *Context, local any) (*Context, error) {
	active := ld.NewContext(nil, p.opts)
	names := map[string]struct{}{}
	if base != nil {
		active = base.active
		for _, n := range base.terms {
			names[n] = struct{}{}
		}
	}
	next, err := active.Parse(local)
	if err != nil {
		return nil, err
	}
	p.collectTerms(local, names, map[string]bool{})

	terms := make([]string, 0, len(names))
	for n := range names {
		if next.GetTermDefinition(n) != nil {
			terms = append(terms, n)
		}
	}
	sort.Strings(terms)
	return &Context{active: next, terms: terms}, nil
}

// collectTerms records every term name declared by a local context,
// following remote references and @import.
func (p *Processor) collectTerms(local any, names map[string]struct{}, visited map[string]bool) {
	switch v := local.(type) {
	case string:
		if visited[v] {
			return
		}
		visited[v] = true
		rd, err := p.loader.LoadDocument(v)
		if err != nil {
			return
		}
		if doc, ok := rd.Document.(map[string]any); ok {
			p.collectTerms(doc["@context"], names, visited)
		}
	case []any:
		for _, item := range v {
			p.collectTerms(item, names, visited)
		}
	case map[string]any:
		for k, val := range v {
			if k == "@import" {
				if s, ok := val.(string); ok {
					p.collectTerms(s, names, visited)
				}
				continue
			}
			if !keywordPattern.MatchString(k) {
				names[k] = struct{}{}
			}
		}
	}
}

// Expand expands document, failing on JSON-LD processing errors, then
// reports every property the expansion drops because it maps to neither a
// keyword nor an absolute IRI. Values of dropped properties are not visited.
func (p *Processor) Expand(document any, onUnmapped func(term string)) error {
	if _, err := p.proc.Expand(document, p.opts); err != nil {
		return err
	}
	root, ok := document.(map[string]any)
	if !ok {
		return nil
	}
	return p.walkNode(ld.NewContext(nil, p.opts), root, onUnmapped, 0)
}

func (p *Processor) walkNode(active *ld.Context, node map[string]any, onUnmapped func(string), depth int) error {
	if depth > maxWalkDepth {
		return nil
	}
	if local, ok := node["@context"]; ok {
		next, err := active.Parse(local)
		if err != nil {
			return err
		}
		active = next
	}

	// Type-scoped contexts apply to the properties of this node only.
	typed := active
	for _, t := range nodeTypes(active, node) {
		def := typed.GetTermDefinition(t)
		if sc, ok := def["@context"]; ok {
			next, err := typed.Parse(sc)
			if err != nil {
				return err
			}
			typed = next
		}
	}

	keys := make([]string, 0, len(node))
	for k := range node {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if k == "@context" {
			continue
		}
		v := node[k]
		expanded, err := typed.ExpandIri(k, false, true, nil, nil)
		if err != nil {
			return err
		}
		if strings.HasPrefix(expanded, "@") || keywordPattern.MatchString(k) {
			switch expanded {
			case "@graph", "@included", "@list", "@set", "@reverse", "@nest":
				if err := p.walkValue(active, v, onUnmapped, depth+1); err != nil {
					return err
				}
			}
			continue
		}
		if expanded == "" || !strings.Contains(expanded, ":") {
			onUnmapped(k)
			continue
		}

		valueCtx := active
		if def := typed.GetTermDefinition(k); def != nil {
			if def["@type"] == "@json" {
				continue
			}
			if sc, ok := def["@context"]; ok {
				next, err := active.Parse(sc)
				if err != nil {
					return err
				}
				valueCtx = next
			}
		}
		if err := p.walkValue(valueCtx, v, onUnmapped, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (p *Processor) walkValue(active *ld.Context, v any, onUnmapped func(string), depth int) error {
	switch v := v.(type) {
	case map[string]any:
		if _, ok := v["@value"]; ok {
			return nil
		}
		return p.walkNode(active, v, onUnmapped, depth)
	case []any:
		for _, item := range v {
			if err := p.walkValue(active, item, onUnmapped, depth); err != nil {
				return err
			}
		}
	}
	return nil
}

// nodeTypes returns the sorted type values of node, including those given
// under an alias of @type.
func nodeTypes(active *ld.Context, node map[string]any) []string {
	var types []string
	for k, v := range node {
		if k != "@type" {
			expanded, err := active.ExpandIri(k, false, true, nil, nil)
			if err != nil || expanded != "@type" {
				continue
			}
		}
		switch tv := v.(type) {
		case string:
			types = append(types, tv)
		case []any:
			for _, item := range tv {
				if s, ok := item.(string); ok {
					types = append(types, s)
				}
			}
		}
	}
	sort.Strings(types)
	return types
}
