package jsonldlint

import (
	"context"

	"github.com/goccy/go-json"

	"github.com/reoring/jsonldlint/internal/jsonast"
)

const defaultMaxDepth = 512

// Process analyzes a compact JSON-LD document and returns its results in
// document order. The returned error, if any, is an *Error.
func Process(ctx context.Context, text []byte, opts ...Option) ([]Result, error) {
	o := newOptions(opts)

	var document any
	if err := json.Unmarshal(text, &document); err != nil {
		return nil, newError(ParsingError, msgNotJSON, err)
	}
	root, err := jsonast.Parse(text, jsonast.Options{MaxDepth: defaultMaxDepth})
	if err != nil {
		return nil, newError(ParsingError, msgSyntaxTree, err)
	}
	obj, isObject := document.(map[string]any)
	if root.Kind != jsonast.Object || !isObject {
		return nil, newError(ParsingError, msgRootNotObject, nil)
	}
	if _, ok := obj["@context"]; !ok {
		return nil, newError(JsonLdDetectionError, msgNoContext, nil)
	}

	processor, exp := o.engine(ctx, o.resolver)
	run := &walkRun{
		ctx:     ctx,
		builder: contextBuilder{processor: processor, expander: exp},
		rules:   o.ruleSet(),
	}
	pc := processingContext{document: document, resolver: o.resolver, run: run}
	results, err := processObject(pc, root)
	if err != nil {
		return nil, newError(ProcessingError, msgProcessingFail, err)
	}
	log.Debugf("processed document: %d results, %d syntax errors", len(results), run.syntaxErrors)
	return results, nil
}

// Lint is Process filtered to SyntaxError and LintResult entries.
func Lint(ctx context.Context, text []byte, opts ...Option) ([]Result, error) {
	results, err := Process(ctx, text, opts...)
	if err != nil {
		return nil, err
	}
	return Findings(results), nil
}
