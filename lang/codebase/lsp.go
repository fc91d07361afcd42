package codebase

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/dhamidi/weft/lang/syntax"
)

const lsName = "weft"

var lspLog = commonlog.GetLogger("weft.lsp")

type LSPServer struct {
	codebase *Codebase
	handler  protocol.Handler
	server   *server.Server
	version  string
	options  []Option
	watch    time.Duration

	mu      sync.Mutex
	notify  glsp.NotifyFunc
	watcher *FileWatcher
}

type LSPOption func(*LSPServer)

// WithCodebaseOptions is applied to the codebase created on initialize.
func WithCodebaseOptions(opts ...Option) LSPOption {
	return func(ls *LSPServer) {
		ls.options = append(ls.options, opts...)
	}
}

// WithWatchInterval enables polling of the workspace for changes made
// outside the editor.
func WithWatchInterval(d time.Duration) LSPOption {
	return func(ls *LSPServer) {
		ls.watch = d
	}
}

func NewLSPServer(version string, opts ...LSPOption) *LSPServer {
	ls := &LSPServer{
		version: version,
	}
	for _, opt := range opts {
		opt(ls)
	}

	ls.handler = protocol.Handler{
		Initialize:                 ls.initialize,
		Initialized:                ls.initialized,
		Shutdown:                   ls.shutdown,
		SetTrace:                   ls.setTrace,
		TextDocumentDidOpen:        ls.textDocumentDidOpen,
		TextDocumentDidChange:      ls.textDocumentDidChange,
		TextDocumentDidClose:       ls.textDocumentDidClose,
		TextDocumentDidSave:        ls.textDocumentDidSave,
		TextDocumentDocumentSymbol: ls.textDocumentDocumentSymbol,
		TextDocumentHover:          ls.textDocumentHover,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	ls.codebase = New(rootDir, ls.options...)
	ls.setNotify(ctx.Notify)

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	ls.setNotify(ctx.Notify)
	if err := ls.codebase.ScanAll(context.Background()); err != nil {
		lspLog.Errorf("scan %s: %s", ls.codebase.RootDir(), err)
	}
	files := ls.codebase.Files()
	for _, f := range files {
		ls.publish(f.Path)
	}
	lspLog.Infof("initialized with %d files from %s", len(files), ls.codebase.RootDir())
	if ls.watch > 0 {
		w := NewFileWatcher(ls.codebase, ls.watch)
		w.OnChange = ls.publish
		ls.mu.Lock()
		ls.watcher = w
		ls.mu.Unlock()
		w.Start()
	}
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if ls.watcher != nil {
		ls.watcher.Stop()
		ls.watcher = nil
	}
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) setNotify(notify glsp.NotifyFunc) {
	if notify == nil {
		return
	}
	ls.mu.Lock()
	ls.notify = notify
	ls.mu.Unlock()
}

// publish sends the current diagnostics of path. A removed file gets an
// empty list so the client clears stale markers.
func (ls *LSPServer) publish(path string) {
	ls.mu.Lock()
	notify := ls.notify
	ls.mu.Unlock()
	if notify == nil {
		return
	}
	diagnostics := []protocol.Diagnostic{}
	if f := ls.codebase.GetFile(path); f != nil {
		diagnostics = toDiagnostics(f)
	}
	notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         pathToURI(path),
		Diagnostics: diagnostics,
	})
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.update(ctx, path, []byte(params.TextDocument.Text))
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			ls.update(ctx, path, []byte(textChange.Text))
		}
	}
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if params.Text != nil {
		ls.update(ctx, path, []byte(*params.Text))
		return nil
	}
	if err := ls.codebase.ScanFile(path); err != nil {
		lspLog.Warningf("%s: %s", path, err)
	}
	ls.publish(path)
	return nil
}

func (ls *LSPServer) update(ctx *glsp.Context, path string, content []byte) {
	ls.setNotify(ctx.Notify)
	if err := ls.codebase.UpdateFile(path, content); err != nil {
		lspLog.Errorf("%s: %s", path, err)
	}
	ls.publish(path)
}

func (ls *LSPServer) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	f := ls.codebase.GetFile(path)
	if f == nil {
		return nil, nil
	}
	return toDocumentSymbols(f.Symbols), nil
}

func (ls *LSPServer) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	line := int(params.Position.Line) + 1
	column := int(params.Position.Character) + 1
	f := ls.codebase.GetFile(path)
	if f == nil {
		return nil, nil
	}
	text, span, ok := hoverAt(f, line, column)
	if !ok {
		return nil, nil
	}
	r := toRange(span)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: text,
		},
		Range: &r,
	}, nil
}

// hoverAt describes the syntax under the cursor: the chain of node kinds
// from the declaration down, and any diagnostics at that point.
func hoverAt(f *FileInfo, line, column int) (string, syntax.Span, bool) {
	if f.Tree == nil {
		return "", syntax.Span{}, false
	}
	chain := nodesAt(f.Tree, line, column)
	if len(chain) < 2 {
		return "", syntax.Span{}, false
	}
	innermost := chain[len(chain)-1]

	var kinds []string
	for _, n := range chain[1:] {
		if n.IsToken() {
			kinds = append(kinds, "`"+n.Token.Kind.String()+"`")
			continue
		}
		kinds = append(kinds, n.Kind.String())
	}

	var sb strings.Builder
	sb.WriteString(strings.Join(kinds, " > "))
	for _, d := range f.Diagnostics {
		if covers(d.Span, line, column) || (d.Span.Len() == 0 && d.Span.Start.Line == line && d.Span.Start.Column == column) {
			fmt.Fprintf(&sb, "\n\n**error**: %s", d.Message)
		}
	}
	return sb.String(), innermost.Span, true
}

func toDiagnostics(f *FileInfo) []protocol.Diagnostic {
	out := []protocol.Diagnostic{}
	source := lsName
	severity := protocol.DiagnosticSeverityError
	if f.ParseErr != nil {
		out = append(out, protocol.Diagnostic{
			Severity: &severity,
			Source:   &source,
			Message:  f.ParseErr.Error(),
		})
	}
	for _, d := range f.Diagnostics {
		out = append(out, protocol.Diagnostic{
			Range:    toRange(d.Span),
			Severity: &severity,
			Source:   &source,
			Message:  d.Message,
		})
	}
	return out
}

func toDocumentSymbols(symbols []Symbol) []protocol.DocumentSymbol {
	out := make([]protocol.DocumentSymbol, 0, len(symbols))
	for _, sym := range symbols {
		detail := sym.Kind.String()
		out = append(out, protocol.DocumentSymbol{
			Name:           sym.Name,
			Detail:         &detail,
			Kind:           toProtocolKind(sym.Kind),
			Range:          toRange(sym.Span),
			SelectionRange: toRange(sym.NameSpan),
			Children:       toDocumentSymbols(sym.Children),
		})
	}
	return out
}

func toProtocolKind(kind SymbolKind) protocol.SymbolKind {
	switch kind {
	case SymbolFunction:
		return protocol.SymbolKindFunction
	case SymbolSignature:
		return protocol.SymbolKindMethod
	case SymbolEnum:
		return protocol.SymbolKindEnum
	case SymbolCase:
		return protocol.SymbolKindEnumMember
	case SymbolTypeAlias, SymbolAssocType:
		return protocol.SymbolKindTypeParameter
	case SymbolTrait:
		return protocol.SymbolKindInterface
	case SymbolInstance:
		return protocol.SymbolKindClass
	case SymbolEffect:
		return protocol.SymbolKindEvent
	case SymbolModule:
		return protocol.SymbolKindModule
	default:
		return protocol.SymbolKindVariable
	}
}

// toRange converts 1-based line and column positions to the 0-based
// positions of the protocol. Columns are byte offsets within the line.
func toRange(span syntax.Span) protocol.Range {
	return protocol.Range{
		Start: toPosition(span.Start),
		End:   toPosition(span.End),
	}
}

func toPosition(p syntax.Position) protocol.Position {
	return protocol.Position{
		Line:      protocol.UInteger(max(p.Line-1, 0)),
		Character: protocol.UInteger(max(p.Column-1, 0)),
	}
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func pathToURI(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(kind protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &kind
}
