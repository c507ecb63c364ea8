package errors

import (
	"fmt"
	"sort"
	"strings"
)

// Severity 问题的严重级别（可配置）
type Severity int

const (
	SeverityIgnore Severity = iota // 丢弃
	SeverityInfo                   // 提示
	SeverityWarning                // 警告
	SeverityError                  // 错误
)

func (s Severity) String() string {
	switch s {
	case SeverityIgnore:
		return "ignore"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Level 将严重级别映射到格式化输出使用的错误级别
func (s Severity) Level() Level {
	switch s {
	case SeverityError:
		return LevelError
	case SeverityWarning:
		return LevelWarning
	default:
		return LevelNote
	}
}

// ParseSeverity 解析配置文件中的严重级别
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ignore", "off", "none":
		return SeverityIgnore, nil
	case "info", "note":
		return SeverityInfo, nil
	case "warning", "warn":
		return SeverityWarning, nil
	case "error":
		return SeverityError, nil
	}
	return SeverityIgnore, fmt.Errorf("unknown severity %q", s)
}

// ============================================================================
// SeverityTable - 严重级别表
// ============================================================================

// SeverityTable 问题编号到严重级别的映射；未覆盖的编号使用默认级别。
// 中止类问题始终是错误，不能被降级。
type SeverityTable struct {
	overrides map[ProblemID]Severity
}

// NewSeverityTable 创建只含默认级别的表
func NewSeverityTable() *SeverityTable {
	return &SeverityTable{overrides: make(map[ProblemID]Severity)}
}

// Set 覆盖某个问题的严重级别；key 可以是编号或配置名
func (t *SeverityTable) Set(key string, severity Severity) error {
	id, ok := LookupProblem(key)
	if !ok {
		return fmt.Errorf("unknown problem %q", key)
	}
	if info := problemInfos[id]; info.Category == "abort" {
		return fmt.Errorf("severity of %s (%s) cannot be changed", info.Name, id)
	}
	t.overrides[id] = severity
	return nil
}

// SetAll 批量覆盖严重级别，返回第一个错误
func (t *SeverityTable) SetAll(m map[string]string) error {
	for key, value := range m {
		sev, err := ParseSeverity(value)
		if err != nil {
			return fmt.Errorf("severity of %s: %w", key, err)
		}
		if err := t.Set(key, sev); err != nil {
			return err
		}
	}
	return nil
}

// Lookup 返回问题的严重级别
func (t *SeverityTable) Lookup(id ProblemID) Severity {
	if t != nil {
		if sev, ok := t.overrides[id]; ok {
			return sev
		}
	}
	if info, ok := problemInfos[id]; ok {
		return info.Severity
	}
	return SeverityError
}

// Fingerprint 覆盖项的稳定文本形式，用于结果缓存的键
func (t *SeverityTable) Fingerprint() string {
	if t == nil || len(t.overrides) == 0 {
		return ""
	}
	keys := make([]string, 0, len(t.overrides))
	for id, sev := range t.overrides {
		keys = append(keys, string(id)+"="+sev.String())
	}
	sort.Strings(keys)
	return strings.Join(keys, ";")
}
