package lsp

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"

	"github.com/segmentio/encoding/json"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
	"go.uber.org/zap"

	"github.com/tangzhangming/jscheck/internal/compiler"
	"github.com/tangzhangming/jscheck/internal/config"
)

// ServerName 在 initialize 响应和诊断的 Source 中使用
const ServerName = "jscheck"

// Server LSP 服务器
type Server struct {
	// 文档管理
	documents *DocumentManager

	// 编译选项，initialize 时按工作区的 jscheck.toml 重新加载
	opts   compiler.Options
	optsMu sync.RWMutex

	// 工作区根目录
	workspaceRoot string

	log     *zap.Logger
	version string

	conn jsonrpc2.Conn

	// 服务器状态
	mu          sync.Mutex
	initialized bool
	shutdown    bool
}

// NewServer 创建 LSP 服务器；log 为 nil 时不记录日志
func NewServer(log *zap.Logger, version string) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		documents: NewDocumentManager(),
		opts:      compiler.Options{Logger: log},
		log:       log,
		version:   version,
	}
}

// Run 通过标准输入输出提供服务，直到客户端断开或收到 exit
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, stdrwc{})
}

// Serve 在给定连接上提供服务
func (s *Server) Serve(ctx context.Context, rwc io.ReadWriteCloser) error {
	s.log.Info("jscheck language server started", zap.String("version", s.version))

	s.conn = jsonrpc2.NewConn(jsonrpc2.NewStream(rwc))
	s.conn.Go(ctx, s.handle)

	select {
	case <-ctx.Done():
		s.conn.Close()
		return ctx.Err()
	case <-s.conn.Done():
	}

	err := s.conn.Err()
	if err == nil || errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) || s.isShutdown() {
		s.log.Info("server stopped")
		return nil
	}
	return err
}

// handle 根据方法分发处理
func (s *Server) handle(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	s.log.Debug("received", zap.String("method", req.Method()))

	switch req.Method() {
	case protocol.MethodInitialize:
		var p protocol.InitializeParams
		if err := json.Unmarshal(req.Params(), &p); err != nil {
			return reply(ctx, nil, jsonrpc2.NewError(jsonrpc2.ParseError, err.Error()))
		}
		return reply(ctx, s.initialize(&p), nil)

	case protocol.MethodInitialized:
		s.mu.Lock()
		s.initialized = true
		s.mu.Unlock()
		return reply(ctx, nil, nil)

	case protocol.MethodShutdown:
		s.mu.Lock()
		s.shutdown = true
		s.mu.Unlock()
		s.documents.CloseAll()
		return reply(ctx, nil, nil)

	case protocol.MethodExit:
		err := reply(ctx, nil, nil)
		s.conn.Close()
		return err

	case protocol.MethodTextDocumentDidOpen:
		var p protocol.DidOpenTextDocumentParams
		if err := json.Unmarshal(req.Params(), &p); err != nil {
			return reply(ctx, nil, jsonrpc2.NewError(jsonrpc2.ParseError, err.Error()))
		}
		doc := s.documents.Open(p.TextDocument.URI, p.TextDocument.Text, p.TextDocument.Version)
		s.publishDiagnostics(ctx, doc)
		return reply(ctx, nil, nil)

	case protocol.MethodTextDocumentDidChange:
		var p protocol.DidChangeTextDocumentParams
		if err := json.Unmarshal(req.Params(), &p); err != nil {
			return reply(ctx, nil, jsonrpc2.NewError(jsonrpc2.ParseError, err.Error()))
		}
		for _, change := range p.ContentChanges {
			s.documents.ApplyChange(p.TextDocument.URI, change, p.TextDocument.Version)
		}
		if doc := s.documents.Get(p.TextDocument.URI); doc != nil {
			s.publishDiagnostics(ctx, doc)
		}
		return reply(ctx, nil, nil)

	case protocol.MethodTextDocumentDidSave:
		var p protocol.DidSaveTextDocumentParams
		if err := json.Unmarshal(req.Params(), &p); err != nil {
			return reply(ctx, nil, jsonrpc2.NewError(jsonrpc2.ParseError, err.Error()))
		}
		if p.Text != "" {
			s.documents.UpdateContent(p.TextDocument.URI, p.Text)
		}
		if doc := s.documents.Get(p.TextDocument.URI); doc != nil {
			s.publishDiagnostics(ctx, doc)
		}
		return reply(ctx, nil, nil)

	case protocol.MethodTextDocumentDidClose:
		var p protocol.DidCloseTextDocumentParams
		if err := json.Unmarshal(req.Params(), &p); err != nil {
			return reply(ctx, nil, jsonrpc2.NewError(jsonrpc2.ParseError, err.Error()))
		}
		s.documents.Close(p.TextDocument.URI)
		// 清空已关闭文档的诊断
		s.notify(ctx, protocol.MethodTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
			URI:         p.TextDocument.URI,
			Diagnostics: []protocol.Diagnostic{},
		})
		return reply(ctx, nil, nil)

	case protocol.MethodTextDocumentFormatting:
		var p protocol.DocumentFormattingParams
		if err := json.Unmarshal(req.Params(), &p); err != nil {
			return reply(ctx, nil, jsonrpc2.NewError(jsonrpc2.ParseError, err.Error()))
		}
		return reply(ctx, s.formatting(&p), nil)

	case protocol.MethodTextDocumentRangeFormatting:
		var p protocol.DocumentRangeFormattingParams
		if err := json.Unmarshal(req.Params(), &p); err != nil {
			return reply(ctx, nil, jsonrpc2.NewError(jsonrpc2.ParseError, err.Error()))
		}
		return reply(ctx, s.rangeFormatting(&p), nil)
	}

	return jsonrpc2.MethodNotFoundHandler(ctx, reply, req)
}

func (s *Server) initialize(p *protocol.InitializeParams) *protocol.InitializeResult {
	if p.RootURI != "" {
		s.workspaceRoot = uri.URI(p.RootURI).Filename()
		s.loadConfig(s.workspaceRoot)
	}

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: protocol.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    protocol.TextDocumentSyncKindIncremental,
				Save:      &protocol.SaveOptions{IncludeText: true},
			},
			DocumentFormattingProvider:      true,
			DocumentRangeFormattingProvider: true,
		},
		ServerInfo: &protocol.ServerInfo{
			Name:    ServerName,
			Version: s.version,
		},
	}
}

// loadConfig 读取工作区配置；失败时保留默认选项
func (s *Server) loadConfig(root string) {
	cfg, path, err := config.Discover(root)
	if err != nil {
		s.log.Warn("invalid configuration, using defaults", zap.String("path", path), zap.Error(err))
		return
	}
	opts, err := cfg.Options(s.log)
	if err != nil {
		s.log.Warn("invalid severity overrides, using defaults", zap.String("path", path), zap.Error(err))
		return
	}
	s.optsMu.Lock()
	s.opts = opts
	s.optsMu.Unlock()
	if path != "" {
		s.log.Info("configuration loaded", zap.String("path", path))
	}
}

func (s *Server) options() compiler.Options {
	s.optsMu.RLock()
	defer s.optsMu.RUnlock()
	return s.opts
}

func (s *Server) isShutdown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shutdown
}

func (s *Server) notify(ctx context.Context, method string, params interface{}) {
	if err := s.conn.Notify(ctx, method, params); err != nil {
		s.log.Warn("notify failed", zap.String("method", method), zap.Error(err))
	}
}

// stdrwc 把标准输入输出组合成一个连接
type stdrwc struct{}

func (stdrwc) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdrwc) Write(p []byte) (int, error) { return os.Stdout.Write(p) }

func (stdrwc) Close() error {
	if err := os.Stdin.Close(); err != nil {
		return err
	}
	return os.Stdout.Close()
}
