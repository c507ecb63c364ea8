// Package config 读取 jscheck.toml 项目配置
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"

	"github.com/tangzhangming/jscheck/internal/compiler"
	"github.com/tangzhangming/jscheck/internal/errors"
)

// 常量定义
const (
	ConfigFileName = "jscheck.toml" // 配置文件名
)

// Config 项目配置
type Config struct {
	Compiler CompilerConfig    `toml:"compiler"`
	Severity map[string]string `toml:"severity"` // 问题名或编号 -> error/warning/info/ignore
	Cache    CacheConfig       `toml:"cache"`
}

// CompilerConfig [compiler] 段
type CompilerConfig struct {
	// Language 诊断消息语言（en 或 zh）
	Language string `toml:"language"`

	// MaxProblems 整个编译的问题数上限，0 表示不限
	MaxProblems int `toml:"max-problems"`

	// MaxUnitProblems 单个文件的问题数上限，0 表示不限
	MaxUnitProblems int `toml:"max-unit-problems"`

	// Diet 惰性解析方法体
	Diet bool `toml:"diet"`

	// Parallelism 并行检查的文件数，0 表示按 CPU 数
	Parallelism int `toml:"parallelism"`

	// Color 彩色输出：auto、always 或 never
	Color string `toml:"color"`
}

// CacheConfig [cache] 段
type CacheConfig struct {
	Enabled    bool   `toml:"enabled"`
	Dir        string `toml:"dir"`
	MaxEntries int    `toml:"max-entries"`
}

// Default 内置默认配置
func Default() *Config {
	return &Config{
		Compiler: CompilerConfig{
			Language:    "en",
			MaxProblems: 1000,
			Color:       "auto",
		},
		Severity: map[string]string{},
		Cache: CacheConfig{
			Dir:        compiler.DefaultCacheDir,
			MaxEntries: compiler.MaxCacheEntries,
		},
	}
}

// LoadConfig 从文件加载配置；文件中没有出现的项保持默认值
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse 解析配置内容
func Parse(data []byte) (*Config, error) {
	config := Default()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate 检查取值范围和严重级别表
func (c *Config) Validate() error {
	switch strings.ToLower(c.Compiler.Color) {
	case "", "auto", "always", "never":
	default:
		return fmt.Errorf("compiler.color: unknown value %q", c.Compiler.Color)
	}
	if c.Compiler.MaxProblems < 0 || c.Compiler.MaxUnitProblems < 0 {
		return fmt.Errorf("compiler: problem limits must not be negative")
	}
	if c.Compiler.Parallelism < 0 {
		return fmt.Errorf("compiler.parallelism must not be negative")
	}
	if _, err := c.SeverityTable(); err != nil {
		return fmt.Errorf("severity: %w", err)
	}
	return nil
}

// SeverityTable 由 [severity] 段构造严重级别表
func (c *Config) SeverityTable() (*errors.SeverityTable, error) {
	t := errors.NewSeverityTable()
	if err := t.SetAll(c.Severity); err != nil {
		return nil, err
	}
	return t, nil
}

// Options 转换成编译选项
func (c *Config) Options(log *zap.Logger) (compiler.Options, error) {
	table, err := c.SeverityTable()
	if err != nil {
		return compiler.Options{}, err
	}
	return compiler.Options{
		Diet:            c.Compiler.Diet,
		MaxProblems:     c.Compiler.MaxProblems,
		MaxUnitProblems: c.Compiler.MaxUnitProblems,
		Severity:        table,
		Logger:          log,
	}, nil
}

// OpenCache 按 [cache] 段创建结果缓存；未启用时返回 nil
func (c *Config) OpenCache(root string) (*compiler.ResultCache, error) {
	if !c.Cache.Enabled {
		return nil, nil
	}
	dir := c.Cache.Dir
	if dir != "" && !filepath.IsAbs(dir) {
		dir = filepath.Join(root, dir)
	}
	return compiler.NewResultCache(dir, c.Cache.MaxEntries)
}

// Save 保存配置到文件
func (c *Config) Save(path string) error {
	content := generateConfigWithComments(c)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// generateConfigWithComments 生成带注释的配置文件内容
func generateConfigWithComments(c *Config) string {
	var sb strings.Builder

	sb.WriteString("[compiler]\n")
	sb.WriteString("# 诊断消息语言（en 或 zh）\n")
	sb.WriteString(fmt.Sprintf("language = %q\n\n", c.Compiler.Language))
	sb.WriteString("# 问题数上限（0 表示不限）\n")
	sb.WriteString(fmt.Sprintf("max-problems = %d\n", c.Compiler.MaxProblems))
	sb.WriteString(fmt.Sprintf("max-unit-problems = %d\n\n", c.Compiler.MaxUnitProblems))
	sb.WriteString("# 惰性解析方法体\n")
	sb.WriteString(fmt.Sprintf("diet = %t\n\n", c.Compiler.Diet))
	sb.WriteString("# 并行检查的文件数（0 表示按 CPU 数）\n")
	sb.WriteString(fmt.Sprintf("parallelism = %d\n\n", c.Compiler.Parallelism))
	sb.WriteString("# 彩色输出：auto、always 或 never\n")
	sb.WriteString(fmt.Sprintf("color = %q\n\n", c.Compiler.Color))

	sb.WriteString("[severity]\n")
	sb.WriteString("# 问题名或编号 = \"error\" | \"warning\" | \"info\" | \"ignore\"\n")
	keys := make([]string, 0, len(c.Severity))
	for k := range c.Severity {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteString(fmt.Sprintf("%s = %q\n", k, c.Severity[k]))
	}
	sb.WriteString("\n")

	sb.WriteString("[cache]\n")
	sb.WriteString(fmt.Sprintf("enabled = %t\n", c.Cache.Enabled))
	sb.WriteString(fmt.Sprintf("dir = %q\n", c.Cache.Dir))
	sb.WriteString(fmt.Sprintf("max-entries = %d\n", c.Cache.MaxEntries))

	return sb.String()
}

// FindConfigFile 从指定路径向上查找配置文件
// 返回配置文件的完整路径，如果找不到则返回空字符串
func FindConfigFile(startPath string) string {
	info, err := os.Stat(startPath)
	if err != nil {
		return ""
	}

	var dir string
	if info.IsDir() {
		dir = startPath
	} else {
		dir = filepath.Dir(startPath)
	}

	dir, err = filepath.Abs(dir)
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Discover 从 startPath 向上查找并加载配置；找不到时返回默认配置和空路径
func Discover(startPath string) (*Config, string, error) {
	path := FindConfigFile(startPath)
	if path == "" {
		return Default(), "", nil
	}
	c, err := LoadConfig(path)
	if err != nil {
		return nil, path, err
	}
	return c, path, nil
}
