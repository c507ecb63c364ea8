package lsp

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/segmentio/encoding/json"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"

	"github.com/tangzhangming/jscheck/internal/errors"
	"github.com/tangzhangming/jscheck/internal/token"
)

// ============================================================================
// 测试辅助
// ============================================================================

type testClient struct {
	conn        jsonrpc2.Conn
	diagnostics chan protocol.PublishDiagnosticsParams
}

// startServer 通过内存管道连接服务器和测试客户端
func startServer(t *testing.T) (*testClient, context.Context) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	serverSide, clientSide := net.Pipe()
	server := NewServer(nil, "test")
	done := make(chan error, 1)
	go func() { done <- server.Serve(ctx, serverSide) }()

	c := &testClient{
		conn:        jsonrpc2.NewConn(jsonrpc2.NewStream(clientSide)),
		diagnostics: make(chan protocol.PublishDiagnosticsParams, 16),
	}
	c.conn.Go(ctx, func(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
		if req.Method() == protocol.MethodTextDocumentPublishDiagnostics {
			var p protocol.PublishDiagnosticsParams
			if err := json.Unmarshal(req.Params(), &p); err != nil {
				t.Errorf("bad diagnostics params: %v", err)
			}
			c.diagnostics <- p
		}
		return reply(ctx, nil, nil)
	})
	t.Cleanup(func() {
		c.conn.Close()
		<-done
	})

	var result protocol.InitializeResult
	root := uri.File(t.TempDir())
	if _, err := c.conn.Call(ctx, protocol.MethodInitialize, &protocol.InitializeParams{RootURI: root}, &result); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	if result.ServerInfo == nil || result.ServerInfo.Name != ServerName {
		t.Fatalf("unexpected server info: %+v", result.ServerInfo)
	}
	if err := c.conn.Notify(ctx, protocol.MethodInitialized, &protocol.InitializedParams{}); err != nil {
		t.Fatalf("initialized failed: %v", err)
	}
	return c, ctx
}

func (c *testClient) waitDiagnostics(t *testing.T) protocol.PublishDiagnosticsParams {
	t.Helper()
	select {
	case p := <-c.diagnostics:
		return p
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for diagnostics")
	}
	return protocol.PublishDiagnosticsParams{}
}

func findCode(diags []protocol.Diagnostic, code errors.ProblemID) *protocol.Diagnostic {
	for i := range diags {
		if s, ok := diags[i].Code.(string); ok && s == string(code) {
			return &diags[i]
		}
	}
	return nil
}

// ============================================================================
// 协议往返
// ============================================================================

func TestDiagnosticsOnOpenAndChange(t *testing.T) {
	c, ctx := startServer(t)
	docURI := uri.File(filepath.Join(t.TempDir(), "main.js"))

	err := c.conn.Notify(ctx, protocol.MethodTextDocumentDidOpen, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        docURI,
			LanguageID: "javascript",
			Version:    1,
			Text:       "function f(): int {\n    return 1;\n    f();\n}\n",
		},
	})
	if err != nil {
		t.Fatalf("didOpen failed: %v", err)
	}

	p := c.waitDiagnostics(t)
	if p.URI != docURI {
		t.Errorf("expected diagnostics for %s, got %s", docURI, p.URI)
	}
	d := findCode(p.Diagnostics, errors.UnreachableCode)
	if d == nil {
		t.Fatalf("expected unreachable code diagnostic, got %+v", p.Diagnostics)
	}
	if len(d.Tags) != 1 || d.Tags[0] != protocol.DiagnosticTagUnnecessary {
		t.Errorf("expected Unnecessary tag, got %v", d.Tags)
	}
	if d.Range.Start.Line != 2 {
		t.Errorf("expected diagnostic on line 2, got %d", d.Range.Start.Line)
	}
	if d.Source != ServerName {
		t.Errorf("expected source %q, got %q", ServerName, d.Source)
	}

	// 删掉不可达的那一行
	err = c.conn.Notify(ctx, protocol.MethodTextDocumentDidChange, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: docURI},
			Version:                2,
		},
		ContentChanges: []protocol.TextDocumentContentChangeEvent{{
			Range: protocol.Range{
				Start: protocol.Position{Line: 2, Character: 0},
				End:   protocol.Position{Line: 3, Character: 0},
			},
			Text: "",
		}},
	})
	if err != nil {
		t.Fatalf("didChange failed: %v", err)
	}

	p = c.waitDiagnostics(t)
	if p.Version != 2 {
		t.Errorf("expected version 2, got %d", p.Version)
	}
	if d := findCode(p.Diagnostics, errors.UnreachableCode); d != nil {
		t.Errorf("unexpected unreachable code diagnostic after edit: %+v", d)
	}
}

func TestDiagnosticsClearedOnClose(t *testing.T) {
	c, ctx := startServer(t)
	docURI := uri.File(filepath.Join(t.TempDir(), "a.js"))

	_ = c.conn.Notify(ctx, protocol.MethodTextDocumentDidOpen, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: docURI, Version: 1, Text: "var x = ;\n"},
	})
	if p := c.waitDiagnostics(t); len(p.Diagnostics) == 0 {
		t.Fatal("expected syntax diagnostics")
	}

	_ = c.conn.Notify(ctx, protocol.MethodTextDocumentDidClose, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: docURI},
	})
	if p := c.waitDiagnostics(t); len(p.Diagnostics) != 0 {
		t.Errorf("expected diagnostics cleared, got %+v", p.Diagnostics)
	}
}

func TestUnknownMethod(t *testing.T) {
	c, ctx := startServer(t)
	var result interface{}
	if _, err := c.conn.Call(ctx, "textDocument/unknown", struct{}{}, &result); err == nil {
		t.Error("expected method not found error")
	}
}

// ============================================================================
// 文档与位置
// ============================================================================

func TestApplyTextEdit(t *testing.T) {
	tests := []struct {
		content string
		rng     protocol.Range
		text    string
		want    string
	}{
		{"abc\ndef", protocol.Range{Start: protocol.Position{Line: 0, Character: 1}, End: protocol.Position{Line: 0, Character: 2}}, "X", "aXc\ndef"},
		{"abc\ndef", protocol.Range{Start: protocol.Position{Line: 0, Character: 3}, End: protocol.Position{Line: 1, Character: 0}}, "", "abcdef"},
		{"abc", protocol.Range{Start: protocol.Position{Line: 5, Character: 0}, End: protocol.Position{Line: 5, Character: 0}}, "!", "abc!"},
		{"abc\ndef", protocol.Range{Start: protocol.Position{Line: 1, Character: 1}, End: protocol.Position{Line: 9, Character: 0}}, "", "abc\nd"},
		// "中" 是一个 UTF-16 码元、三个字节
		{"中a", protocol.Range{Start: protocol.Position{Line: 0, Character: 1}, End: protocol.Position{Line: 0, Character: 2}}, "b", "中b"},
	}
	for _, tt := range tests {
		if got := applyTextEdit(tt.content, tt.rng, tt.text); got != tt.want {
			t.Errorf("applyTextEdit(%q) = %q, want %q", tt.content, got, tt.want)
		}
	}
}

func TestDocumentPosition(t *testing.T) {
	doc := NewDocumentManager().Open("file:///x.js", "var s = \"中文\"; y;\n", 1)

	// 第 1 行第 18 列（字节）前面有两个三字节字符
	got := doc.Position(token.Position{Line: 1, Column: 18})
	if got.Line != 0 || got.Character != 13 {
		t.Errorf("expected 0:13, got %d:%d", got.Line, got.Character)
	}

	// 空区间延伸到单词末尾
	r := doc.Range(token.Span{Start: token.Position{Line: 1, Column: 1}, End: token.Position{Line: 1, Column: 1}})
	if r.End.Character != 3 {
		t.Errorf("expected empty span widened to 3, got %d", r.End.Character)
	}
}

func TestToDiagnosticTags(t *testing.T) {
	doc := NewDocumentManager().Open("file:///x.js", "x;\n", 1)
	span := token.Span{Start: token.Position{Line: 1, Column: 1}, End: token.Position{Line: 1, Column: 2}}

	tests := []struct {
		id       errors.ProblemID
		severity errors.Severity
		wantTag  protocol.DiagnosticTag
		wantSev  protocol.DiagnosticSeverity
	}{
		{errors.UnreachableCode, errors.SeverityWarning, protocol.DiagnosticTagUnnecessary, protocol.DiagnosticSeverityWarning},
		{errors.DeprecatedUse, errors.SeverityInfo, protocol.DiagnosticTagDeprecated, protocol.DiagnosticSeverityInformation},
		{errors.SyntaxError, errors.SeverityError, 0, protocol.DiagnosticSeverityError},
	}
	for _, tt := range tests {
		d := toDiagnostic(doc, &errors.Problem{ID: tt.id, Severity: tt.severity, Message: "m", Span: span})
		if d.Severity != tt.wantSev {
			t.Errorf("%s: expected severity %v, got %v", tt.id, tt.wantSev, d.Severity)
		}
		if tt.wantTag == 0 {
			if len(d.Tags) != 0 {
				t.Errorf("%s: expected no tags, got %v", tt.id, d.Tags)
			}
			continue
		}
		if len(d.Tags) != 1 || d.Tags[0] != tt.wantTag {
			t.Errorf("%s: expected tag %v, got %v", tt.id, tt.wantTag, d.Tags)
		}
	}
}

func TestRangeFormatting(t *testing.T) {
	s := NewServer(nil, "test")
	docURI := protocol.DocumentURI("file:///r.js")
	s.documents.Open(docURI, "function f() {\n    x=1;\n\ty=x+2;\n}\n", 1)

	tests := []struct {
		name  string
		rng   protocol.Range
		want  string
		start uint32
		end   uint32
	}{
		{"single line", protocol.Range{Start: protocol.Position{Line: 1, Character: 2}, End: protocol.Position{Line: 1, Character: 3}}, "    x = 1;", 1, 1},
		{"ends at line start", protocol.Range{Start: protocol.Position{Line: 2}, End: protocol.Position{Line: 3}}, "    y = x + 2;", 2, 2},
	}
	for _, tt := range tests {
		edits := s.rangeFormatting(&protocol.DocumentRangeFormattingParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: docURI},
			Range:        tt.rng,
			Options:      protocol.FormattingOptions{InsertSpaces: true, TabSize: 4},
		})
		if len(edits) != 1 {
			t.Fatalf("%s: expected one edit, got %+v", tt.name, edits)
		}
		e := edits[0]
		if e.NewText != tt.want {
			t.Errorf("%s: expected %q, got %q", tt.name, tt.want, e.NewText)
		}
		if e.Range.Start.Line != tt.start || e.Range.End.Line != tt.end || e.Range.Start.Character != 0 {
			t.Errorf("%s: unexpected range %+v", tt.name, e.Range)
		}
	}

	// 已经格式化好的行不产生编辑
	s.documents.Open(docURI, "    x = 1;\n", 2)
	edits := s.rangeFormatting(&protocol.DocumentRangeFormattingParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: docURI},
		Range:        protocol.Range{End: protocol.Position{Line: 0, Character: 4}},
		Options:      protocol.FormattingOptions{InsertSpaces: true, TabSize: 4},
	})
	if len(edits) != 0 {
		t.Errorf("expected no edits, got %+v", edits)
	}
}
