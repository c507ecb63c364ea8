package lsp

import (
	"strings"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/tangzhangming/jscheck/internal/formatter"
)

// formatOptions 把编辑器的格式化选项转换为格式化器选项
func formatOptions(o protocol.FormattingOptions) *formatter.Options {
	options := formatter.DefaultOptions()
	if o.TabSize > 0 {
		options.IndentSize = int(o.TabSize)
	}
	if o.InsertSpaces {
		options.IndentStyle = "spaces"
	} else {
		options.IndentStyle = "tabs"
	}
	return options
}

// formatting 处理文档格式化请求；失败或无变化时返回空编辑
func (s *Server) formatting(p *protocol.DocumentFormattingParams) []protocol.TextEdit {
	doc := s.documents.Get(p.TextDocument.URI)
	if doc == nil {
		return []protocol.TextEdit{}
	}

	formatted, err := formatter.Format(doc.Content, doc.Filename(), formatOptions(p.Options))
	if err != nil {
		s.log.Debug("format failed", zap.String("uri", string(doc.URI)), zap.Error(err))
		return []protocol.TextEdit{}
	}
	if formatted == doc.Content {
		return []protocol.TextEdit{}
	}

	// 整个文档替换
	return []protocol.TextEdit{{
		Range:   protocol.Range{End: doc.End()},
		NewText: formatted,
	}}
}

// rangeFormatting 格式化选中的整行；片段按首行的缩进层级输出
func (s *Server) rangeFormatting(p *protocol.DocumentRangeFormattingParams) []protocol.TextEdit {
	doc := s.documents.Get(p.TextDocument.URI)
	if doc == nil || len(doc.Lines) == 0 {
		return []protocol.TextEdit{}
	}

	first := int(p.Range.Start.Line)
	last := int(p.Range.End.Line)
	// 选区结束在行首时不包含那一行
	if last > first && p.Range.End.Character == 0 {
		last--
	}
	if last >= len(doc.Lines) {
		last = len(doc.Lines) - 1
	}
	if first > last {
		return []protocol.TextEdit{}
	}

	options := formatOptions(p.Options)
	source := strings.Join(doc.Lines[first:last+1], "\n")
	formatted, err := formatter.FormatPartial(source, doc.Filename(), options, indentLevel(doc.Lines[first], options))
	if err != nil {
		s.log.Debug("range format failed", zap.String("uri", string(doc.URI)), zap.Error(err))
		return []protocol.TextEdit{}
	}
	formatted = strings.TrimSuffix(formatted, "\n")
	if formatted == source {
		return []protocol.TextEdit{}
	}

	end := doc.Lines[last]
	return []protocol.TextEdit{{
		Range: protocol.Range{
			Start: protocol.Position{Line: uint32(first)},
			End:   protocol.Position{Line: uint32(last), Character: uint32(utf16Len(end, len(end)))},
		},
		NewText: formatted,
	}}
}

// indentLevel 一行开头的缩进层数
func indentLevel(line string, options *formatter.Options) int {
	level, spaces := 0, 0
	for _, ch := range line {
		switch ch {
		case '\t':
			level++
		case ' ':
			spaces++
		default:
			return level + spaces/max(options.IndentSize, 1)
		}
	}
	return 0
}
