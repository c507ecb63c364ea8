package lsp

import (
	"strings"
	"sync"
	"unicode/utf16"
	"unicode/utf8"

	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"

	"github.com/tangzhangming/jscheck/internal/token"
)

// Document 表示一个打开的文档
type Document struct {
	URI     protocol.DocumentURI
	Content string
	Version int32
	Lines   []string // 按行分割的内容
}

// Filename 文档对应的本地路径；非 file URI 原样返回
func (doc *Document) Filename() string {
	if strings.HasPrefix(string(doc.URI), "file:") {
		return uri.URI(doc.URI).Filename()
	}
	return string(doc.URI)
}

// DocumentManager 文档管理器
type DocumentManager struct {
	documents map[protocol.DocumentURI]*Document
	mu        sync.RWMutex
}

// NewDocumentManager 创建文档管理器
func NewDocumentManager() *DocumentManager {
	return &DocumentManager{
		documents: make(map[protocol.DocumentURI]*Document),
	}
}

// Open 打开文档
func (dm *DocumentManager) Open(u protocol.DocumentURI, content string, version int32) *Document {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	doc := &Document{
		URI:     u,
		Content: content,
		Version: version,
		Lines:   splitLines(content),
	}
	dm.documents[u] = doc
	return doc
}

// Close 关闭文档
func (dm *DocumentManager) Close(u protocol.DocumentURI) {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	delete(dm.documents, u)
}

// CloseAll 关闭全部文档
func (dm *DocumentManager) CloseAll() {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	dm.documents = make(map[protocol.DocumentURI]*Document)
}

// Get 获取文档
func (dm *DocumentManager) Get(u protocol.DocumentURI) *Document {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return dm.documents[u]
}

// UpdateContent 用保存时的完整内容替换文档
func (dm *DocumentManager) UpdateContent(u protocol.DocumentURI, content string) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	doc, ok := dm.documents[u]
	if !ok {
		return
	}
	doc.Content = content
	doc.Lines = splitLines(content)
}

// ApplyChange 应用一次变更；没有范围的变更是完整替换
func (dm *DocumentManager) ApplyChange(u protocol.DocumentURI, change protocol.TextDocumentContentChangeEvent, version int32) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	doc, ok := dm.documents[u]
	if !ok {
		return
	}

	isFullReplace := change.Range == (protocol.Range{}) && change.RangeLength == 0
	if isFullReplace {
		doc.Content = change.Text
	} else {
		doc.Content = applyTextEdit(doc.Content, change.Range, change.Text)
	}
	doc.Lines = splitLines(doc.Content)
	doc.Version = version
}

// Position 把编译器的位置（行列从 1 开始，列按字节计）换算成 LSP 位置（列按 UTF-16 计）
func (doc *Document) Position(pos token.Position) protocol.Position {
	line := pos.Line - 1
	if line < 0 {
		line = 0
	}
	col := pos.Column - 1
	if col < 0 {
		col = 0
	}
	if line >= len(doc.Lines) {
		return protocol.Position{Line: uint32(line), Character: uint32(col)}
	}
	return protocol.Position{Line: uint32(line), Character: uint32(utf16Len(doc.Lines[line], col))}
}

// Range 把编译器的区间换算成 LSP 区间；空区间延伸到所在单词末尾
func (doc *Document) Range(span token.Span) protocol.Range {
	r := protocol.Range{Start: doc.Position(span.Start), End: doc.Position(span.End)}
	if span.End.Line < span.Start.Line || (span.End.Line == span.Start.Line && span.End.Column <= span.Start.Column) {
		r.End = doc.wordEnd(span.Start)
	}
	return r
}

func (doc *Document) wordEnd(pos token.Position) protocol.Position {
	line := pos.Line - 1
	if line < 0 || line >= len(doc.Lines) {
		return doc.Position(pos)
	}
	text := doc.Lines[line]
	end := pos.Column - 1
	if end < 0 {
		end = 0
	}
	for end < len(text) && isWordChar(text[end]) {
		end++
	}
	if end == pos.Column-1 && end < len(text) {
		end++
	}
	return protocol.Position{Line: uint32(line), Character: uint32(utf16Len(text, end))}
}

// End 文档末尾的位置
func (doc *Document) End() protocol.Position {
	last := len(doc.Lines) - 1
	if last < 0 {
		return protocol.Position{}
	}
	return protocol.Position{Line: uint32(last), Character: uint32(utf16Len(doc.Lines[last], len(doc.Lines[last])))}
}

// utf16Len 一行前 n 个字节对应的 UTF-16 码元数
func utf16Len(line string, n int) int {
	if n > len(line) {
		n = len(line)
	}
	count := 0
	for _, r := range line[:n] {
		if r == utf8.RuneError {
			count++
			continue
		}
		count += utf16.RuneLen(r)
	}
	return count
}

// byteOffset 一行中第 character 个 UTF-16 码元对应的字节偏移
func byteOffset(line string, character int) int {
	units := 0
	for i, r := range line {
		if units >= character {
			return i
		}
		n := utf16.RuneLen(r)
		if n < 0 {
			n = 1
		}
		units += n
	}
	return len(line)
}

// splitLines 将内容按行分割
func splitLines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	return strings.Split(content, "\n")
}

// applyTextEdit 应用文本编辑
func applyTextEdit(content string, rang protocol.Range, newText string) string {
	lines := splitLines(content)

	startLine, startChar := editPosition(lines, rang.Start)
	endLine, endChar := editPosition(lines, rang.End)
	startLineText := lines[startLine]
	endLineText := lines[endLine]

	var result strings.Builder
	for i := 0; i < startLine; i++ {
		result.WriteString(lines[i])
		result.WriteString("\n")
	}
	result.WriteString(startLineText[:startChar])
	result.WriteString(newText)
	result.WriteString(endLineText[endChar:])
	for i := endLine + 1; i < len(lines); i++ {
		result.WriteString("\n")
		result.WriteString(lines[i])
	}
	return result.String()
}

// editPosition 把编辑位置换算成行号和字节偏移；超过最后一行的位置落在文档末尾
func editPosition(lines []string, pos protocol.Position) (int, int) {
	line := int(pos.Line)
	if line >= len(lines) {
		last := len(lines) - 1
		return last, len(lines[last])
	}
	return line, byteOffset(lines[line], int(pos.Character))
}

// isWordChar 判断是否是单词字符
func isWordChar(c byte) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') ||
		c == '_' || c == '$'
}
