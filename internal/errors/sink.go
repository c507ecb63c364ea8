package errors

import (
	"fmt"
	"sort"

	"github.com/tangzhangming/jscheck/internal/i18n"
	"github.com/tangzhangming/jscheck/internal/token"
)

// ============================================================================
// Problem - 诊断记录
// ============================================================================

// Problem 一条诊断：编号、严重级别、消息和源码范围
type Problem struct {
	ID       ProblemID
	Severity Severity
	Message  string
	Args     []interface{}
	Span     token.Span
	Hints    []string
}

// File 返回问题所在的文件
func (p *Problem) File() string {
	return p.Span.Start.Filename
}

// Tag 返回问题的附加标记
func (p *Problem) Tag() Tag {
	return problemInfos[p.ID].Tag
}

func (p *Problem) String() string {
	return fmt.Sprintf("%s: %s[%s]: %s", p.Span.Start, p.Severity, p.ID, p.Message)
}

// ToCompileError 转换为格式化器使用的 CompileError
func (p *Problem) ToCompileError() *CompileError {
	endCol := 0
	if p.Span.End.Line == p.Span.Start.Line {
		endCol = p.Span.End.Column
	}
	return &CompileError{
		Code:      string(p.ID),
		Level:     p.Severity.Level(),
		Message:   p.Message,
		File:      p.Span.Start.Filename,
		Line:      p.Span.Start.Line,
		Column:    p.Span.Start.Column,
		EndColumn: endCol,
		Hints:     p.Hints,
	}
}

// ============================================================================
// Sink - 诊断收集器
// ============================================================================
//
// Sink 从不中断分析：Report 只记录问题并返回。
// 同一编号、同一范围的问题只记录一次，因此重复解析同一节点不会产生重复诊断。
// 问题数达到上限后 Exceeded 返回 true，由调用方在合适的边界决定是否中止。
//
// ============================================================================

type problemKey struct {
	id    ProblemID
	start int
	end   int
	file  string
}

// Sink 诊断收集器（单个编译单元独占，不需要加锁）
type Sink struct {
	table    *SeverityTable
	problems []*Problem
	seen     map[problemKey]struct{}
	errors   int
	warnings int
	limit    int

	// OnReport 每记录一条问题时调用（可选）
	OnReport func(*Problem)
}

// NewSink 创建诊断收集器；limit 为 0 表示不限制问题数
func NewSink(table *SeverityTable, limit int) *Sink {
	if table == nil {
		table = NewSeverityTable()
	}
	return &Sink{
		table: table,
		seen:  make(map[problemKey]struct{}),
		limit: limit,
	}
}

// Report 记录一条问题；被忽略或重复的问题返回 nil
func (s *Sink) Report(id ProblemID, span token.Span, args ...interface{}) *Problem {
	sev := s.table.Lookup(id)
	if sev == SeverityIgnore {
		return nil
	}

	key := problemKey{id: id, start: span.Start.Offset, end: span.End.Offset, file: span.Start.Filename}
	if _, dup := s.seen[key]; dup {
		return nil
	}
	s.seen[key] = struct{}{}

	info := problemInfos[id]
	p := &Problem{
		ID:       id,
		Severity: sev,
		Message:  i18n.T(info.MessageID, args...),
		Args:     args,
		Span:     span,
	}
	s.problems = append(s.problems, p)

	switch sev {
	case SeverityError:
		s.errors++
	case SeverityWarning:
		s.warnings++
	}
	if s.OnReport != nil {
		s.OnReport(p)
	}
	return p
}

// Problems 按报告顺序返回全部问题
func (s *Sink) Problems() []*Problem {
	return s.problems
}

// Sorted 按源码位置排序返回全部问题
func (s *Sink) Sorted() []*Problem {
	out := make([]*Problem, len(s.problems))
	copy(out, s.problems)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Span.Start, out[j].Span.Start
		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}
		return a.Offset < b.Offset
	})
	return out
}

// Count 返回某个编号的问题数
func (s *Sink) Count(id ProblemID) int {
	n := 0
	for _, p := range s.problems {
		if p.ID == id {
			n++
		}
	}
	return n
}

// Len 返回问题总数
func (s *Sink) Len() int {
	return len(s.problems)
}

// ErrorCount 错误数量
func (s *Sink) ErrorCount() int {
	return s.errors
}

// WarningCount 警告数量
func (s *Sink) WarningCount() int {
	return s.warnings
}

// HasErrors 是否有错误级别的问题
func (s *Sink) HasErrors() bool {
	return s.errors > 0
}

// Exceeded 问题数是否达到上限
func (s *Sink) Exceeded() bool {
	return s.limit > 0 && len(s.problems) >= s.limit
}

// Table 返回严重级别表
func (s *Sink) Table() *SeverityTable {
	return s.table
}
