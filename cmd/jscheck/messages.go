package main

import (
	"os"
	"runtime"
	"strings"
)

// Language 语言类型
type Language string

const (
	LangEnglish Language = "en"
	LangChinese Language = "zh"
)

// Messages 命令行界面的消息
type Messages struct {
	// 版本信息
	VersionTitle string
	VersionDesc  string

	// 帮助信息
	HelpUsage    string
	HelpOptions  string
	HelpExamples string

	CmdVersion string

	// 选项
	OptConfig  string
	OptFormat  string
	OptJobs    string
	OptDiet    string
	OptNoColor string
	OptVerbose string
	OptPrint   string
	OptInit    string

	OptProfile       string
	OptProfileFormat string
	OptCPUProfile    string
	OptMemProfile    string

	// 错误信息
	ErrNoInput      string
	ErrReadFile     string
	ErrBadFormat    string
	ErrConfig       string
	ErrWrite        string
	ErrProfile      string
	ErrFormatFailed string
	ErrGetWorkDir   string
	ErrConfigExists string
	ErrCreateConfig string

	// 提示
	NoteSkipped         string
	NoteNotInvestigated string
	InitCreating        string
}

// 英文消息
var messagesEN = Messages{
	VersionTitle: "jscheck v%s",
	VersionDesc:  "Semantic checker for a typed JavaScript dialect",

	HelpUsage:    "Usage:",
	HelpOptions:  "Options:",
	HelpExamples: "Examples:",

	CmdVersion: "Show version information",

	OptConfig:  "Path to jscheck.toml (default: search upwards from the first file)",
	OptFormat:  "Output format: text or json",
	OptJobs:    "Number of files checked in parallel (0 = number of CPUs)",
	OptDiet:    "Parse method bodies lazily",
	OptNoColor: "Disable colored output",
	OptVerbose: "Verbose logging",
	OptPrint:   "Print the formatted source instead of checking",
	OptInit:    "Write a default jscheck.toml in the current directory",

	OptProfile:       "Write per-phase timings to `file` (- for stderr)",
	OptProfileFormat: "Timing report format: text or json",
	OptCPUProfile:    "Write a CPU profile to `file`",
	OptMemProfile:    "Write a memory profile to `file`",

	ErrNoInput:      "Error: no input file specified",
	ErrReadFile:     "Error reading file: %v",
	ErrBadFormat:    "Error: unknown output format %q (expected text or json)",
	ErrConfig:       "Error loading configuration: %v",
	ErrWrite:        "Error writing output: %v",
	ErrProfile:      "Profiling error: %v",
	ErrFormatFailed: "%s: formatting failed: %v",
	ErrGetWorkDir:   "Error getting working directory: %v",
	ErrConfigExists: "Error: %s already exists",
	ErrCreateConfig: "Error creating configuration: %v",

	NoteSkipped:         "%s: not checked, compilation was aborted",
	NoteNotInvestigated: "%s: unit not fully investigated",
	InitCreating:        "Creating %s",
}

// 中文消息
var messagesZH = Messages{
	VersionTitle: "jscheck v%s",
	VersionDesc:  "带类型 JavaScript 方言的语义检查器",

	HelpUsage:    "用法:",
	HelpOptions:  "选项:",
	HelpExamples: "示例:",

	CmdVersion: "显示版本信息",

	OptConfig:  "jscheck.toml 路径（默认从第一个文件向上查找）",
	OptFormat:  "输出格式：text 或 json",
	OptJobs:    "并行检查的文件数（0 表示按 CPU 数）",
	OptDiet:    "惰性解析方法体",
	OptNoColor: "禁用彩色输出",
	OptVerbose: "详细日志",
	OptPrint:   "输出格式化后的源代码，不做检查",
	OptInit:    "在当前目录生成默认的 jscheck.toml",

	OptProfile:       "把各阶段耗时写入 `file`（- 表示标准错误）",
	OptProfileFormat: "耗时报告格式：text 或 json",
	OptCPUProfile:    "把 CPU 分析数据写入 `file`",
	OptMemProfile:    "把内存分析数据写入 `file`",

	ErrNoInput:      "错误: 未指定输入文件",
	ErrReadFile:     "读取文件错误: %v",
	ErrBadFormat:    "错误: 未知的输出格式 %q（应为 text 或 json）",
	ErrConfig:       "加载配置错误: %v",
	ErrWrite:        "输出错误: %v",
	ErrProfile:      "性能分析错误: %v",
	ErrFormatFailed: "%s: 格式化失败: %v",
	ErrGetWorkDir:   "获取工作目录错误: %v",
	ErrConfigExists: "错误: %s 已存在",
	ErrCreateConfig: "创建配置文件错误: %v",

	NoteSkipped:         "%s: 编译已中止，未检查",
	NoteNotInvestigated: "%s: 编译单元未完整分析",
	InitCreating:        "创建 %s",
}

// 当前消息
var msg = messagesEN

// 当前语言
var currentLang = LangEnglish

// InitLanguage 初始化语言设置
// 优先级: 命令行参数 > 环境变量 JSCHECK_LANG > 操作系统语言 > 默认英文
func InitLanguage(langOverride string) {
	if langOverride != "" {
		setLanguage(langOverride)
		return
	}
	if envLang := os.Getenv("JSCHECK_LANG"); envLang != "" {
		setLanguage(envLang)
		return
	}
	if detectChineseOS() {
		setLanguage("zh")
		return
	}
	setLanguage("en")
}

// setLanguage 设置语言
func setLanguage(lang string) {
	lang = strings.ToLower(strings.TrimSpace(lang))
	switch lang {
	case "zh", "zh-cn", "zh-tw", "zh-hk", "chinese":
		currentLang = LangChinese
		msg = messagesZH
	default:
		currentLang = LangEnglish
		msg = messagesEN
	}
}

// detectChineseOS 检测操作系统是否为中文环境
func detectChineseOS() bool {
	if runtime.GOOS == "windows" {
		for _, l := range preferredUILanguages() {
			if strings.HasPrefix(strings.ToLower(l), "zh") {
				return true
			}
		}
	}

	// Unix/Linux/Mac: 检查环境变量
	langVars := []string{"LANG", "LANGUAGE", "LC_ALL", "LC_MESSAGES"}
	for _, v := range langVars {
		if val := os.Getenv(v); val != "" {
			lower := strings.ToLower(val)
			if strings.Contains(lower, "zh") || strings.Contains(lower, "chinese") {
				return true
			}
		}
	}
	return false
}

// GetLanguage 获取当前语言
func GetLanguage() Language {
	return currentLang
}

// Msg 获取当前消息对象
func Msg() *Messages {
	return &msg
}
