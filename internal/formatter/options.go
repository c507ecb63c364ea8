package formatter

import "strings"

// Options 格式化选项
//
// 字段带 toml 标签，可以直接作为配置文件的 [format] 段解码。
type Options struct {
	// 缩进设置
	IndentStyle string `toml:"indent_style"` // "tabs" 或 "spaces"
	IndentSize  int    `toml:"indent_size"`  // 空格数（当使用 spaces 时）

	// 代码风格
	SpaceBeforeParen bool `toml:"space_before_paren"` // 关键字与括号之间是否有空格 (if (x) vs if(x))
	SpaceAroundOps   bool `toml:"space_around_ops"`   // 二元运算符周围是否有空格

	// 换行设置
	NewlineBeforeBrace bool `toml:"newline_before_brace"` // 大括号前是否换行 (Allman)
	BlankLineBetween   bool `toml:"blank_line_between"`   // 顶层声明与类成员之间空一行

	// 其他
	RemoveTrailingSpace bool `toml:"remove_trailing_space"` // 移除行尾空格
	EnsureNewlineAtEOF  bool `toml:"ensure_newline_at_eof"` // 确保文件末尾有换行符
}

// DefaultOptions 返回默认格式化选项（K&R 风格 + 4空格缩进）
func DefaultOptions() *Options {
	return &Options{
		IndentStyle:         "spaces",
		IndentSize:          4,
		SpaceBeforeParen:    true,
		SpaceAroundOps:      true,
		NewlineBeforeBrace:  false,
		BlankLineBetween:    true,
		RemoveTrailingSpace: true,
		EnsureNewlineAtEOF:  true,
	}
}

// IndentString 一级缩进的文本
func (o *Options) IndentString() string {
	if o.IndentStyle == "tabs" {
		return "\t"
	}
	return strings.Repeat(" ", o.IndentSize)
}
