package errors

import (
	"io"
	"strings"
)

// ============================================================================
// 报告器
// ============================================================================

// Reporter 把各文件的问题格式化后写到输出，并累计错误与警告数量
type Reporter struct {
	out         io.Writer
	formatter   *Formatter
	sourceCache map[string][]string
	errors      int
	warnings    int
	files       int
}

// NewReporter 创建写到 out 的报告器
func NewReporter(out io.Writer) *Reporter {
	return &Reporter{
		out:         out,
		formatter:   NewFormatter(),
		sourceCache: make(map[string][]string),
	}
}

// SetFormatter 设置格式化器
func (r *Reporter) SetFormatter(f *Formatter) {
	r.formatter = f
}

// Formatter 返回当前格式化器
func (r *Reporter) Formatter() *Formatter {
	return r.formatter
}

// SetSource 登记源代码，用于在诊断中显示出错行
func (r *Reporter) SetSource(filename string, content string) {
	r.sourceCache[filename] = strings.Split(content, "\n")
}

// ReportFile 输出一个文件的全部问题
func (r *Reporter) ReportFile(filename string, problems []*Problem) error {
	r.files++
	for _, p := range problems {
		switch p.Severity {
		case SeverityError:
			r.errors++
		case SeverityWarning:
			r.warnings++
		}
	}
	if len(problems) == 0 {
		return nil
	}
	_, err := io.WriteString(r.out, r.formatter.FormatProblems(problems, r.sourceCache[filename])+"\n")
	return err
}

// ReportNote 输出一行提示（例如 "unit not fully investigated"）
func (r *Reporter) ReportNote(message string) error {
	_, err := io.WriteString(r.out, r.formatter.colorize("note", ColorCyan)+": "+message+"\n")
	return err
}

// Finish 输出统计行
func (r *Reporter) Finish() error {
	_, err := io.WriteString(r.out, r.formatter.FormatSummary(r.errors, r.warnings, r.files))
	return err
}

// HasErrors 是否有错误
func (r *Reporter) HasErrors() bool {
	return r.errors > 0
}

// ErrorCount 错误数量
func (r *Reporter) ErrorCount() int {
	return r.errors
}

// WarningCount 警告数量
func (r *Reporter) WarningCount() int {
	return r.warnings
}
