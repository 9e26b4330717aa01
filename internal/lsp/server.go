// Package lsp serves lint diagnostics and term hovers over the Language
// Server Protocol.
package lsp

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/reoring/jsonldlint"
	"github.com/reoring/jsonldlint/internal/textpos"
)

const lsName = "jsonld-lint"

// DefaultDelay is how long the server waits after the last edit before
// re-analyzing a document.
const DefaultDelay = 300 * time.Millisecond

var log = commonlog.GetLogger("jsonldlint.lsp")

type document struct {
	version int32
	text    []byte
	index   *textpos.Index
	results []jsonldlint.Result
	timer   *time.Timer
}

// Server is a stdio language server. All documents share one context
// resolver.
type Server struct {
	handler protocol.Handler
	server  *server.Server
	version string
	options []jsonldlint.Option
	delay   time.Duration

	mu   sync.Mutex
	docs map[protocol.DocumentUri]*document
}

// NewServer creates a server processing documents with opts.
func NewServer(version string, opts ...jsonldlint.Option) *Server {
	ls := &Server{
		version: version,
		options: opts,
		delay:   DefaultDelay,
		docs:    map[protocol.DocumentUri]*document{},
	}

	ls.handler = protocol.Handler{
		Initialize:            ls.initialize,
		Initialized:           ls.initialized,
		Shutdown:              ls.shutdown,
		SetTrace:              ls.setTrace,
		TextDocumentDidOpen:   ls.textDocumentDidOpen,
		TextDocumentDidChange: ls.textDocumentDidChange,
		TextDocumentDidClose:  ls.textDocumentDidClose,
		TextDocumentHover:     ls.textDocumentHover,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *Server) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
	}
	capabilities.HoverProvider = true

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (ls *Server) shutdown(ctx *glsp.Context) error {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	for _, doc := range ls.docs {
		if doc.timer != nil {
			doc.timer.Stop()
		}
	}
	return nil
}

func (ls *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	ls.update(ctx.Notify, params.TextDocument.URI, int32(params.TextDocument.Version), params.TextDocument.Text)
	return nil
}

func (ls *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	switch change := params.ContentChanges[len(params.ContentChanges)-1].(type) {
	case protocol.TextDocumentContentChangeEventWhole:
		ls.update(ctx.Notify, params.TextDocument.URI, int32(params.TextDocument.Version), change.Text)
	case protocol.TextDocumentContentChangeEvent:
		if change.Range == nil {
			ls.update(ctx.Notify, params.TextDocument.URI, int32(params.TextDocument.Version), change.Text)
		}
	}
	return nil
}

func (ls *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	ls.mu.Lock()
	if doc, ok := ls.docs[params.TextDocument.URI]; ok {
		if doc.timer != nil {
			doc.timer.Stop()
		}
		delete(ls.docs, params.TextDocument.URI)
	}
	ls.mu.Unlock()
	publish(ctx.Notify, params.TextDocument.URI, nil, []protocol.Diagnostic{})
	return nil
}

func (ls *Server) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	doc, ok := ls.docs[params.TextDocument.URI]
	if !ok || doc.index == nil {
		return nil, nil
	}
	offset := doc.index.OffsetUTF16(int(params.Position.Line), int(params.Position.Character))
	term, ok := jsonldlint.TermAt(doc.results, offset)
	if !ok {
		return nil, nil
	}
	r := toRange(doc.index, term.Position)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: hoverText(term),
		},
		Range: &r,
	}, nil
}

// update stores the new text and schedules analysis after the debounce
// delay. Results for an older version are dropped when they arrive.
func (ls *Server) update(notify glsp.NotifyFunc, uri protocol.DocumentUri, version int32, text string) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	doc, ok := ls.docs[uri]
	if !ok {
		doc = &document{}
		ls.docs[uri] = doc
	}
	doc.version = version
	doc.text = []byte(text)
	if doc.timer != nil {
		doc.timer.Stop()
	}
	doc.timer = time.AfterFunc(ls.delay, func() { ls.analyze(notify, uri, version) })
}

func (ls *Server) analyze(notify glsp.NotifyFunc, uri protocol.DocumentUri, version int32) {
	ls.mu.Lock()
	doc, ok := ls.docs[uri]
	if !ok || doc.version != version {
		ls.mu.Unlock()
		return
	}
	text := doc.text
	ls.mu.Unlock()

	results, err := jsonldlint.Process(context.Background(), text, ls.options...)
	idx := textpos.New(text)
	diagnostics := []protocol.Diagnostic{}
	if err != nil {
		results = nil
		if jsonldlint.IsKind(err, jsonldlint.ProcessingError) {
			log.Warningf("%s: %v", uriToPath(string(uri)), err)
			diagnostics = append(diagnostics, processingDiagnostic(err))
		} else {
			log.Debugf("%s: %v", uriToPath(string(uri)), err)
		}
	} else {
		diagnostics = toDiagnostics(idx, results)
	}

	ls.mu.Lock()
	doc, ok = ls.docs[uri]
	if !ok || doc.version != version {
		ls.mu.Unlock()
		log.Debugf("dropping stale results for %s version %d", uri, version)
		return
	}
	doc.index = idx
	doc.results = results
	ls.mu.Unlock()

	v := protocol.UInteger(version)
	publish(notify, uri, &v, diagnostics)
}

func publish(notify glsp.NotifyFunc, uri protocol.DocumentUri, version *protocol.UInteger, diagnostics []protocol.Diagnostic) {
	if notify == nil {
		return
	}
	notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Version:     version,
		Diagnostics: diagnostics,
	})
}

func uriToPath(uri string) string {
	if strings.HasPrefix(uri, "file://") {
		if parsed, err := url.Parse(uri); err == nil {
			return filepath.Clean(parsed.Path)
		}
	}
	return uri
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
