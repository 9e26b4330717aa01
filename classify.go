package jsonldlint

// classify returns the grammar position of the object about to be walked,
// given the context of the property that holds it. pc.position is the
// position of the enclosing object.
func classify(pc processingContext) GrammarPosition {
	if pc.term == nil {
		return NodeObject
	}
	switch {
	case pc.term.Name == "@context":
		return LocalContextDefinition
	case pc.term.Name == "@graph":
		return GraphObject
	case pc.position == LocalContextDefinition && !IsKeyword(pc.term.Name):
		return ExpandedTermDefinition
	}
	return NodeObject
}
