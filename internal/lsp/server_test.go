package lsp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/reoring/jsonldlint"
	"github.com/reoring/jsonldlint/internal/textpos"
)

const (
	docURI      = "file:///tmp/doc.jsonld"
	unmappedDoc = `{
  "@context": {"name": "http://schema.org/name"},
  "name": "x",
  "foo": 1
}`
)

func newTestServer(t *testing.T) (*Server, *glsp.Context, chan protocol.PublishDiagnosticsParams) {
	t.Helper()
	ls := NewServer("test", jsonldlint.WithContextResolver(jsonldlint.NewContextResolver()))
	ls.delay = 10 * time.Millisecond
	ch := make(chan protocol.PublishDiagnosticsParams, 8)
	ctx := &glsp.Context{Notify: func(method string, params any) {
		if method == protocol.ServerTextDocumentPublishDiagnostics {
			ch <- params.(protocol.PublishDiagnosticsParams)
		}
	}}
	return ls, ctx, ch
}

func receive(t *testing.T, ch chan protocol.PublishDiagnosticsParams) protocol.PublishDiagnosticsParams {
	t.Helper()
	select {
	case p := <-ch:
		return p
	case <-time.After(5 * time.Second):
		t.Fatal("no diagnostics published")
	}
	return protocol.PublishDiagnosticsParams{}
}

func open(t *testing.T, ls *Server, ctx *glsp.Context, version int32, text string) {
	t.Helper()
	require.NoError(t, ls.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: docURI, LanguageID: "json", Version: protocol.Integer(version), Text: text},
	}))
}

func TestInitialize_Capabilities(t *testing.T) {
	ls, ctx, _ := newTestServer(t)
	res, err := ls.initialize(ctx, &protocol.InitializeParams{})
	require.NoError(t, err)
	result := res.(protocol.InitializeResult)
	require.Equal(t, true, result.Capabilities.HoverProvider)
	require.Equal(t, lsName, result.ServerInfo.Name)
}

func TestDidOpen_PublishesDiagnostics(t *testing.T) {
	ls, ctx, ch := newTestServer(t)
	open(t, ls, ctx, 1, unmappedDoc)

	p := receive(t, ch)
	require.Equal(t, protocol.DocumentUri(docURI), p.URI)
	require.Len(t, p.Diagnostics, 1)
	d := p.Diagnostics[0]
	require.Equal(t, protocol.DiagnosticSeverityWarning, *d.Severity)
	require.Equal(t, string(jsonldlint.UnmappedTerm), d.Code.Value)
	require.Equal(t, protocol.Position{Line: 3, Character: 2}, d.Range.Start)
	require.Equal(t, protocol.Position{Line: 3, Character: 7}, d.Range.End)
}

func TestHover_ShowsTermIRI(t *testing.T) {
	ls, ctx, ch := newTestServer(t)
	open(t, ls, ctx, 1, unmappedDoc)
	receive(t, ch)

	h, err := ls.textDocumentHover(ctx, &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: docURI},
			Position:     protocol.Position{Line: 2, Character: 4},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, h)
	require.Contains(t, h.Contents.(protocol.MarkupContent).Value, "http://schema.org/name")

	h, err = ls.textDocumentHover(ctx, &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: docURI},
			Position:     protocol.Position{Line: 2, Character: 10},
		},
	})
	require.NoError(t, err)
	require.Nil(t, h)
}

func TestDidChange_DropsStaleVersions(t *testing.T) {
	ls, ctx, ch := newTestServer(t)
	ls.delay = 50 * time.Millisecond
	open(t, ls, ctx, 1, unmappedDoc)
	require.NoError(t, ls.textDocumentDidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: docURI},
			Version:                2,
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: `{"@context": {"name": "http://schema.org/name"}, "name": "x"}`}},
	}))

	p := receive(t, ch)
	require.Equal(t, protocol.UInteger(2), *p.Version)
	require.Empty(t, p.Diagnostics)
	select {
	case extra := <-ch:
		t.Fatalf("unexpected publication for version %d", *extra.Version)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestNonJsonLdClearsDiagnostics(t *testing.T) {
	ls, ctx, ch := newTestServer(t)
	open(t, ls, ctx, 1, `{"name": "x"}`)
	p := receive(t, ch)
	require.NotNil(t, p.Diagnostics)
	require.Empty(t, p.Diagnostics)

	open(t, ls, ctx, 2, `not json`)
	p = receive(t, ch)
	require.Empty(t, p.Diagnostics)
}

func TestDidClose_ClearsDiagnostics(t *testing.T) {
	ls, ctx, ch := newTestServer(t)
	open(t, ls, ctx, 1, unmappedDoc)
	receive(t, ch)

	require.NoError(t, ls.textDocumentDidClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: docURI},
	}))
	p := receive(t, ch)
	require.Empty(t, p.Diagnostics)
	require.Nil(t, p.Version)
}

func TestToDiagnostics_Severities(t *testing.T) {
	idx := textpos.New([]byte("{\"😀\": 1}"))
	ds := toDiagnostics(idx, []jsonldlint.Result{
		jsonldlint.SyntaxError{Rule: jsonldlint.EmptyJsonPropertyKey, Message: "s", Position: jsonldlint.NewPosition(1, 6)},
		jsonldlint.Term{Name: "😀"},
		jsonldlint.LintResult{Rule: jsonldlint.UnmappedTerm, Message: "l", Position: jsonldlint.NewPosition(1, 6)},
	})
	require.Len(t, ds, 2)
	require.Equal(t, protocol.DiagnosticSeverityError, *ds[0].Severity)
	require.Equal(t, protocol.DiagnosticSeverityWarning, *ds[1].Severity)
	require.Equal(t, protocol.UInteger(1), ds[0].Range.Start.Character)
	require.Equal(t, protocol.UInteger(5), ds[0].Range.End.Character, "emoji counts as two UTF-16 units")
}

func TestHoverText(t *testing.T) {
	require.Equal(t, "JSON-LD keyword `@id`", hoverText(jsonldlint.Term{Name: "@id", IsKeyword: true}))
	require.Equal(t, "Term `knows`\n\nIRI: <http://xmlns.com/foaf/0.1/knows>\n\nValue type: <http://www.w3.org/2001/XMLSchema#string>",
		hoverText(jsonldlint.Term{Name: "knows", IRI: "http://xmlns.com/foaf/0.1/knows", ValueTypeIRI: "http://www.w3.org/2001/XMLSchema#string"}))
}

func TestURIToPath(t *testing.T) {
	require.Equal(t, "/tmp/a b.jsonld", uriToPath("file:///tmp/a%20b.jsonld"))
	require.Equal(t, "untitled:1", uriToPath("untitled:1"))
}
