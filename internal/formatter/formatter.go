package formatter

import (
	"strings"

	"go.uber.org/multierr"

	"github.com/tangzhangming/jscheck/internal/parser"
)

// Format 格式化源代码
//
// 有语法错误时不输出，返回全部错误的合并。
func Format(source, filename string, options *Options) (string, error) {
	// 解析源代码
	p := parser.New(source, filename)
	file := p.Parse()

	if p.HasErrors() {
		var err error
		for _, e := range p.Errors() {
			err = multierr.Append(err, e)
		}
		for _, e := range p.LexErrors() {
			err = multierr.Append(err, e)
		}
		return "", err
	}

	// 使用打印器生成格式化的代码
	printer := NewPrinter(options)
	formatted := printer.Print(file)

	return formatted, nil
}

// FormatWithDefaultOptions 使用默认选项格式化
func FormatWithDefaultOptions(source, filename string) (string, error) {
	return Format(source, filename, DefaultOptions())
}

// FormatPartial 格式化部分代码
// baseIndent 是基础缩进级别（缩进层数）
func FormatPartial(source, filename string, options *Options, baseIndent int) (string, error) {
	// 首先尝试直接格式化
	formatted, err := Format(source, filename, options)
	if err != nil {
		// 语句片段（如 return）包装进函数体后再试
		wrapped, werr := Format(wrapPartialCode(source), filename, options)
		if werr != nil {
			// 如果仍然失败，返回原始错误
			return "", err
		}
		formatted = extractFormattedPart(wrapped, options)
	}

	if baseIndent <= 0 {
		return formatted, nil
	}
	prefix := strings.Repeat(options.IndentString(), baseIndent)
	lines := strings.Split(strings.TrimSuffix(formatted, "\n"), "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n") + "\n", nil
}

// wrapPartialCode 包装部分代码以便解析
func wrapPartialCode(source string) string {
	return "function __wrapper__() {\n" + source + "\n}"
}

// extractFormattedPart 从包装的格式化代码中提取原始部分
func extractFormattedPart(formatted string, options *Options) string {
	lines := strings.Split(strings.TrimSuffix(formatted, "\n"), "\n")
	if len(lines) < 3 {
		return formatted
	}

	// 跳过第一行（function __wrapper__() {）和最后一行（}）
	resultLines := lines[1 : len(lines)-1]

	// 移除包装函数添加的额外缩进
	indentStr := options.IndentString()
	result := make([]string, 0, len(resultLines))
	for _, line := range resultLines {
		result = append(result, strings.TrimPrefix(line, indentStr))
	}

	return strings.Join(result, "\n") + "\n"
}
