package errors

import (
	"strings"

	"github.com/tangzhangming/jscheck/internal/i18n"
)

// ============================================================================
// 修复建议
// ============================================================================

// Suggest 根据问题编号和上下文给问题附加修复建议
//
// 上下文键：
//   - "name":    出问题的名字
//   - "similar": 作用域中与之相近的名字（由 FindSimilar 给出）
func (p *Problem) Suggest(context map[string]string) *Problem {
	if p == nil {
		return nil
	}
	p.Hints = append(p.Hints, suggestions(p.ID, context)...)
	return p
}

func suggestions(id ProblemID, context map[string]string) []string {
	name := context["name"]
	similar := context["similar"]

	switch id {
	case UndefinedName:
		var out []string
		if similar != "" {
			out = append(out, i18n.T(i18n.MsgDidYouMean, similar))
		}
		return append(out, i18n.T(i18n.MsgDeclareBeforeUse, name))
	case UndefinedType, UndefinedField, UndefinedMethod:
		if similar != "" {
			return []string{i18n.T(i18n.MsgDidYouMean, similar)}
		}
	case StaticReference:
		return []string{i18n.T(i18n.MsgClassMembersQualified)}
	case UninitializedLocal:
		return []string{i18n.T(i18n.MsgInitializeVariableHint, name)}
	}
	return nil
}

// ============================================================================
// 相似名称查找
// ============================================================================

// FindSimilar 查找编辑距离不超过 maxDistance 的最相近名称
func FindSimilar(name string, candidates []string, maxDistance int) string {
	bestMatch := ""
	bestDistance := maxDistance + 1

	for _, candidate := range candidates {
		if candidate == name {
			continue
		}
		distance := levenshteinDistance(name, candidate)
		if distance < bestDistance {
			bestDistance = distance
			bestMatch = candidate
		}
	}

	if bestDistance <= maxDistance {
		return bestMatch
	}
	return ""
}

// levenshteinDistance 计算忽略大小写的 Levenshtein 编辑距离（按 rune）
func levenshteinDistance(s1, s2 string) int {
	r1 := []rune(strings.ToLower(s1))
	r2 := []rune(strings.ToLower(s2))
	if len(r1) == 0 {
		return len(r2)
	}
	if len(r2) == 0 {
		return len(r1)
	}

	// 只保留两行
	prev := make([]int, len(r2)+1)
	cur := make([]int, len(r2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		cur[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			cur[j] = min(
				prev[j]+1,      // 删除
				cur[j-1]+1,     // 插入
				prev[j-1]+cost, // 替换
			)
		}
		prev, cur = cur, prev
	}

	return prev[len(r2)]
}
