// Package jsonldlint analyzes compact JSON-LD documents.
//
// Process walks the positioned syntax tree of a document and returns, in
// document order:
//
//   - SyntaxError results for violations of the JSON-LD grammar
//     (illegal keyword usage, duplicate or aliased properties, bad keyword values)
//   - LintResult results for suspicious terms (unmapped terms, keyword-shaped
//     terms that are not keywords)
//   - Term results carrying the IRI and value-type IRI each property key
//     resolves to through the document context
//
// Lint returns only the SyntaxError and LintResult entries.
//
// Design policy:
//   - Keep only public APIs in the root package; put the parser and the
//     JSON-LD processor adapters under internal/.
//   - Remote contexts are fetched through a ContextResolver. Construct one
//     with NewContextResolver and share it between calls so contexts are
//     fetched once.
//
// Typical usage:
//
//	resolver := jsonldlint.NewContextResolver()
//	results, err := jsonldlint.Lint(ctx, data, jsonldlint.WithContextResolver(resolver))
//	if e, ok := jsonldlint.AsError(err); ok && e.Kind == jsonldlint.JsonLdDetectionError {
//		// not a JSON-LD document
//	}
package jsonldlint
