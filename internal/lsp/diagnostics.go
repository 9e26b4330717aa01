package lsp

import (
	"fmt"
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/reoring/jsonldlint"
	"github.com/reoring/jsonldlint/internal/textpos"
)

func toDiagnostics(idx *textpos.Index, results []jsonldlint.Result) []protocol.Diagnostic {
	out := []protocol.Diagnostic{}
	for _, res := range results {
		var (
			severity protocol.DiagnosticSeverity
			rule     string
			message  string
		)
		switch v := res.(type) {
		case jsonldlint.SyntaxError:
			severity, rule, message = protocol.DiagnosticSeverityError, string(v.Rule), v.Message
		case jsonldlint.LintResult:
			severity, rule, message = protocol.DiagnosticSeverityWarning, string(v.Rule), v.Message
		default:
			continue
		}
		out = append(out, protocol.Diagnostic{
			Range:    toRange(idx, res.Pos()),
			Severity: &severity,
			Code:     &protocol.IntegerOrString{Value: rule},
			Source:   strPtr(lsName),
			Message:  message,
		})
	}
	return out
}

func processingDiagnostic(err error) protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityError
	return protocol.Diagnostic{
		Severity: &severity,
		Source:   strPtr(lsName),
		Message:  err.Error(),
	}
}

func toRange(idx *textpos.Index, p jsonldlint.Position) protocol.Range {
	sl, sc := idx.UTF16Position(p.StartOffset)
	el, ec := idx.UTF16Position(p.EndOffset)
	return protocol.Range{
		Start: protocol.Position{Line: protocol.UInteger(sl), Character: protocol.UInteger(sc)},
		End:   protocol.Position{Line: protocol.UInteger(el), Character: protocol.UInteger(ec)},
	}
}

func hoverText(t jsonldlint.Term) string {
	var b strings.Builder
	if t.IsKeyword {
		fmt.Fprintf(&b, "JSON-LD keyword `%s`", t.Name)
	} else {
		fmt.Fprintf(&b, "Term `%s`", t.Name)
	}
	if t.IRI != "" {
		fmt.Fprintf(&b, "\n\nIRI: <%s>", t.IRI)
	}
	if t.ValueTypeIRI != "" {
		fmt.Fprintf(&b, "\n\nValue type: <%s>", t.ValueTypeIRI)
	}
	return b.String()
}

func strPtr(s string) *string {
	return &s
}
