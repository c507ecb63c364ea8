package errors

import (
	"fmt"
	"strings"

	"github.com/tangzhangming/jscheck/internal/i18n"
)

// ============================================================================
// 编译错误
// ============================================================================

// Label 代码标签（用于标注额外位置）
type Label struct {
	Line    int    // 行号（1-based）
	Column  int    // 列号（1-based）
	Length  int    // 标注长度
	Message string // 标签消息
	Primary bool   // 是否为主要标签
}

// CompileError 格式化输出用的诊断
type CompileError struct {
	Code      string   // 问题编号 (E0200)
	Level     Level    // 错误级别
	Message   string   // 主消息
	File      string   // 文件路径
	Line      int      // 行号
	Column    int      // 列号
	EndColumn int      // 结束列（同一行内）
	Labels    []Label  // 代码标签
	Hints     []string // 修复建议
	Notes     []string // 附加说明
}

// Error 实现 error 接口
func (e *CompileError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, e.Message)
}

// ============================================================================
// 格式化器
// ============================================================================

// Formatter 诊断格式化器
type Formatter struct {
	Colors     bool // 是否使用颜色
	ShowSource bool // 是否显示源代码
	ShowHints  bool // 是否显示修复建议
	TabWidth   int  // Tab 宽度
}

// NewFormatter 创建默认格式化器，颜色取决于终端检测结果
func NewFormatter() *Formatter {
	return &Formatter{
		Colors:     ColorsEnabled(),
		ShowSource: true,
		ShowHints:  true,
		TabWidth:   4,
	}
}

// FormatCompileError 格式化一条诊断
//
//	error[E0300]: the local variable x may not have been initialized
//	 --> main.js:3:5
//	  |
//	3 | use(x);
//	  |     ^
func (f *Formatter) FormatCompileError(err *CompileError, sourceLines []string) string {
	var sb strings.Builder

	levelStr := f.colorize(err.Level.String(), f.levelColor(err.Level))
	codeStr := f.colorize(fmt.Sprintf("[%s]", err.Code), f.levelColor(err.Level))
	sb.WriteString(fmt.Sprintf("%s%s: %s\n", levelStr, codeStr, err.Message))

	arrow := f.colorize("-->", ColorCyan)
	location := f.colorize(fmt.Sprintf("%s:%d:%d", err.File, err.Line, err.Column), ColorCyan)
	sb.WriteString(fmt.Sprintf(" %s %s\n", arrow, location))

	if f.ShowSource && err.Line > 0 && err.Line <= len(sourceLines) {
		sb.WriteString(f.formatSourceContext(sourceLines, err.Line, err.Column, err.EndColumn, err.Labels, err.Level))
	}

	if f.ShowHints {
		for _, hint := range err.Hints {
			hintLabel := f.colorize(" = help:", ColorCyan)
			sb.WriteString(fmt.Sprintf("%s %s\n", hintLabel, hint))
		}
	}

	for _, note := range err.Notes {
		noteLabel := f.colorize(" = note:", ColorCyan)
		sb.WriteString(fmt.Sprintf("%s %s\n", noteLabel, note))
	}

	return sb.String()
}

// FormatProblems 格式化一个文件的全部问题，末尾附带统计
func (f *Formatter) FormatProblems(problems []*Problem, sourceLines []string) string {
	var sb strings.Builder
	for i, p := range problems {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(f.FormatCompileError(p.ToCompileError(), sourceLines))
	}
	return sb.String()
}

// FormatSummary 格式化统计行
func (f *Formatter) FormatSummary(errors, warnings, files int) string {
	msg := i18n.T(i18n.CliSummary, errors, warnings, files)
	if errors > 0 {
		return f.colorize(msg, ColorBoldRed) + "\n"
	}
	if warnings > 0 {
		return f.colorize(msg, ColorBoldYellow) + "\n"
	}
	return f.colorize(msg, ColorBoldGreen) + "\n"
}

// formatSourceContext 显示出错行并在下方用 ^ 标注范围
func (f *Formatter) formatSourceContext(lines []string, errorLine, startCol, endCol int, labels []Label, level Level) string {
	var sb strings.Builder

	maxLine := errorLine
	for _, label := range labels {
		if label.Line > maxLine && label.Line <= len(lines) {
			maxLine = label.Line
		}
	}
	lineNumWidth := len(fmt.Sprintf("%d", maxLine))

	separator := f.colorize(strings.Repeat(" ", lineNumWidth)+" |", ColorBlue)
	sb.WriteString(separator + "\n")

	line := lines[errorLine-1]
	lineNum := f.colorize(fmt.Sprintf("%*d", lineNumWidth, errorLine), ColorBlue)
	pipe := f.colorize(" |", ColorBlue)
	sb.WriteString(fmt.Sprintf("%s%s %s\n", lineNum, pipe, f.expandTabs(line)))

	if endCol <= startCol {
		endCol = startCol + 1
	}
	actualCol := f.calculateActualColumn(line, startCol)
	underline := strings.Repeat(" ", lineNumWidth+3+actualCol) +
		f.colorize(strings.Repeat("^", endCol-startCol), f.levelColor(level))
	sb.WriteString(underline + "\n")

	for _, label := range labels {
		if label.Line == errorLine || label.Line <= 0 || label.Line > len(lines) {
			continue
		}
		line := lines[label.Line-1]
		lineNum := f.colorize(fmt.Sprintf("%*d", lineNumWidth, label.Line), ColorBlue)
		sb.WriteString(fmt.Sprintf("%s%s %s\n", lineNum, pipe, f.expandTabs(line)))

		if label.Message != "" {
			actualCol := f.calculateActualColumn(line, label.Column)
			length := label.Length
			if length < 1 {
				length = 1
			}
			msgLine := strings.Repeat(" ", lineNumWidth+3+actualCol) +
				f.colorize(strings.Repeat("^", length)+" "+label.Message, f.labelColor(label.Primary))
			sb.WriteString(msgLine + "\n")
		}
	}

	return sb.String()
}

func (f *Formatter) expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", f.TabWidth))
}

// calculateActualColumn 计算第 col 列之前的显示宽度（考虑 Tab）
func (f *Formatter) calculateActualColumn(line string, col int) int {
	if col <= 0 {
		return 0
	}
	actual := 0
	i := 0
	for _, r := range line {
		if i >= col-1 {
			break
		}
		if r == '\t' {
			actual += f.TabWidth
		} else {
			actual++
		}
		i++
	}
	return actual
}

func (f *Formatter) levelColor(level Level) Color {
	switch level {
	case LevelError:
		return ColorRed
	case LevelWarning:
		return ColorYellow
	case LevelNote:
		return ColorCyan
	case LevelHelp:
		return ColorGreen
	default:
		return ColorWhite
	}
}

func (f *Formatter) labelColor(primary bool) Color {
	if primary {
		return ColorRed
	}
	return ColorYellow
}

func (f *Formatter) colorize(s string, color Color) string {
	if !f.Colors {
		return s
	}
	return Colorize(s, color)
}
