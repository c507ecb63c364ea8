package errors

import (
	"os"
	"strings"

	"go.uber.org/atomic"
)

// Color 终端颜色
type Color int

const (
	ColorReset Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBoldRed
	ColorBoldGreen
	ColorBoldYellow
	ColorBoldBlue
	ColorBoldCyan
)

// ANSI 颜色代码
var ansiCodes = map[Color]string{
	ColorReset:      "\033[0m",
	ColorRed:        "\033[31m",
	ColorGreen:      "\033[32m",
	ColorYellow:     "\033[33m",
	ColorBlue:       "\033[34m",
	ColorMagenta:    "\033[35m",
	ColorCyan:       "\033[36m",
	ColorWhite:      "\033[37m",
	ColorBoldRed:    "\033[1;31m",
	ColorBoldGreen:  "\033[1;32m",
	ColorBoldYellow: "\033[1;33m",
	ColorBoldBlue:   "\033[1;34m",
	ColorBoldCyan:   "\033[1;36m",
}

// colorsEnabled 是否启用颜色（语言服务器与命令行可能并发读取）
var colorsEnabled = atomic.NewBool(detectColorSupport(os.Stdout))

// detectColorSupport 检测输出是否为支持颜色的终端
//
// 依次检查 NO_COLOR、TERM=dumb 和 FORCE_COLOR，最后询问终端驱动
// （Unix 上读取 termios，Windows 上开启虚拟终端处理）。
func detectColorSupport(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if strings.EqualFold(os.Getenv("TERM"), "dumb") {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	return isTerminal(f.Fd())
}

// EnableColors 启用颜色
func EnableColors() {
	colorsEnabled.Store(true)
}

// DisableColors 禁用颜色
func DisableColors() {
	colorsEnabled.Store(false)
}

// ColorsEnabled 检查颜色是否启用
func ColorsEnabled() bool {
	return colorsEnabled.Load()
}

// Colorize 着色字符串
func Colorize(s string, color Color) string {
	if !colorsEnabled.Load() {
		return s
	}
	code, ok := ansiCodes[color]
	if !ok {
		return s
	}
	return code + s + ansiCodes[ColorReset]
}
