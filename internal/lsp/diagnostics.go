package lsp

import (
	"context"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/tangzhangming/jscheck/internal/compiler"
	"github.com/tangzhangming/jscheck/internal/errors"
)

// publishDiagnostics 检查文档并把问题推送给客户端
func (s *Server) publishDiagnostics(ctx context.Context, doc *Document) {
	diagnostics := s.getDiagnostics(ctx, doc)
	s.notify(ctx, protocol.MethodTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         doc.URI,
		Version:     uint32(doc.Version),
		Diagnostics: diagnostics,
	})
}

// getDiagnostics 获取文档的诊断信息
func (s *Server) getDiagnostics(ctx context.Context, doc *Document) []protocol.Diagnostic {
	u, err := compiler.Compile(ctx, doc.Filename(), doc.Content, s.options())
	if err != nil {
		s.log.Debug("check aborted", zap.String("uri", string(doc.URI)), zap.Error(err))
	}

	problems := u.Sink.Sorted()
	diagnostics := make([]protocol.Diagnostic, 0, len(problems))
	for _, p := range problems {
		if p.Severity == errors.SeverityIgnore {
			continue
		}
		diagnostics = append(diagnostics, toDiagnostic(doc, p))
	}
	return diagnostics
}

// toDiagnostic 将问题转换为诊断信息
func toDiagnostic(doc *Document, p *errors.Problem) protocol.Diagnostic {
	d := protocol.Diagnostic{
		Range:    doc.Range(p.Span),
		Severity: severityOf(p.Severity),
		Code:     string(p.ID),
		Source:   ServerName,
		Message:  p.Message,
	}
	for _, hint := range p.Hints {
		d.Message += "\n" + hint
	}
	switch p.Tag() {
	case errors.TagUnnecessary:
		d.Tags = []protocol.DiagnosticTag{protocol.DiagnosticTagUnnecessary}
	case errors.TagDeprecated:
		d.Tags = []protocol.DiagnosticTag{protocol.DiagnosticTagDeprecated}
	}
	return d
}

func severityOf(s errors.Severity) protocol.DiagnosticSeverity {
	switch s {
	case errors.SeverityError:
		return protocol.DiagnosticSeverityError
	case errors.SeverityWarning:
		return protocol.DiagnosticSeverityWarning
	case errors.SeverityInfo:
		return protocol.DiagnosticSeverityInformation
	}
	return protocol.DiagnosticSeverityHint
}
