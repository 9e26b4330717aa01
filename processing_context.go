package jsonldlint

import "context"

// processingContext is passed down the walk by value. Children receive
// copies extended through the with* methods; no call mutates the context
// it was given.
type processingContext struct {
	document        any
	resolver        ContextResolver
	position        GrammarPosition
	term            *Term
	documentContext *DocumentContext
	unmapped        map[string]struct{}

	run *walkRun
}

// walkRun is the state of one Process call shared by every processingContext
// derived from its root: the memoized document context and counters.
type walkRun struct {
	ctx     context.Context
	builder contextBuilder
	rules   map[LintRule]bool

	syntaxErrors int

	built           bool
	documentContext *DocumentContext
	unmapped        map[string]struct{}
	buildErr        error
	degraded        bool
	builds          int
}

func (pc processingContext) withPosition(p GrammarPosition) processingContext {
	pc.position = p
	return pc
}

func (pc processingContext) withTerm(t *Term) processingContext {
	pc.term = t
	return pc
}

func (pc processingContext) withDocumentContext(dc *DocumentContext, unmapped map[string]struct{}) processingContext {
	pc.documentContext = dc
	pc.unmapped = unmapped
	return pc
}

// enrich returns pc with the document context attached, building it on the
// first request of the call. ok is false when building failed and the
// failure was absorbed because syntax errors were already found; the rest of
// the walk then stops enriching too.
func (pc processingContext) enrich() (next processingContext, ok bool, err error) {
	if pc.documentContext != nil {
		return pc, true, nil
	}
	run := pc.run
	if !run.built {
		run.built = true
		run.builds++
		run.documentContext, run.unmapped, run.buildErr = run.builder.build(run.ctx, pc.document)
	}
	if run.buildErr == nil {
		return pc.withDocumentContext(run.documentContext, run.unmapped), true, nil
	}
	if run.degraded || run.syntaxErrors > 0 {
		if !run.degraded {
			log.Warningf("document context unavailable, term resolution skipped: %s", run.buildErr)
			run.degraded = true
		}
		return pc, false, nil
	}
	return pc, false, run.buildErr
}

// inContextDefinition reports whether pc is inside a local context or one of
// its term definitions, where members are definitions rather than data.
func (pc processingContext) inContextDefinition() bool {
	return pc.position == LocalContextDefinition || pc.position == ExpandedTermDefinition
}

func (pc processingContext) lintEnabled(rule LintRule) bool { return pc.run.rules[rule] }

func (pc processingContext) syntaxError(rule SyntaxErrorRule, msg string, pos Position, value, pointer string) SyntaxError {
	pc.run.syntaxErrors++
	return SyntaxError{Rule: rule, Message: msg, Position: pos, Value: value, Pointer: pointer}
}
