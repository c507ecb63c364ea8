// Package loader 把命令行给出的路径展开成待检查的源文件
//
// 文件直接加载；目录递归查找 .js 文件，跳过隐藏目录、
// node_modules 和结果缓存目录。同一个文件只加载一次。
package loader

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"go.uber.org/multierr"

	"github.com/tangzhangming/jscheck/internal/compiler"
)

const (
	SourceFileExtension = ".js" // 源文件扩展名
)

// skippedDirs 遍历目录时不进入的目录
var skippedDirs = map[string]bool{
	"node_modules":           true,
	compiler.DefaultCacheDir: true,
}

// Loader 源文件加载器
type Loader struct {
	loadedFiles map[string]bool
}

// New 创建加载器
func New() *Loader {
	return &Loader{loadedFiles: make(map[string]bool)}
}

// Load 按参数顺序展开并读取所有源文件；目录内的文件按路径排序
//
// 读取失败的路径被跳过，错误合并后返回，其余文件照常加载。
func (l *Loader) Load(paths []string) ([]compiler.Source, error) {
	var (
		sources []compiler.Source
		errs    error
	)
	for _, path := range paths {
		files, err := l.Expand(path)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		for _, file := range files {
			text, err := l.LoadFile(file)
			if err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			sources = append(sources, compiler.Source{Name: file, Text: text})
		}
	}
	return sources, errs
}

// Expand 把一个路径展开成尚未加载过的源文件列表，并标记为已加载
//
// 显式给出的文件不检查扩展名。
func (l *Loader) Expand(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		if l.IsLoaded(path) {
			return nil, nil
		}
		l.MarkLoaded(path)
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != path && (skippedDirs[d.Name()] || strings.HasPrefix(d.Name(), ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(p) != SourceFileExtension || l.IsLoaded(p) {
			return nil
		}
		l.MarkLoaded(p)
		files = append(files, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", path, err)
	}
	sort.Strings(files)
	return files, nil
}

// LoadFile 加载源文件内容
func (l *Loader) LoadFile(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

// MarkLoaded 标记文件已加载
func (l *Loader) MarkLoaded(path string) {
	l.loadedFiles[normalizePath(path)] = true
}

// IsLoaded 检查文件是否已加载
func (l *Loader) IsLoaded(path string) bool {
	return l.loadedFiles[normalizePath(path)]
}

// normalizePath 规范化路径
func normalizePath(path string) string {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	cleanPath := filepath.Clean(absPath)
	// Windows 不区分大小写
	if runtime.GOOS == "windows" {
		return strings.ToLower(cleanPath)
	}
	return cleanPath
}
