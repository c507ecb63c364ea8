// Package i18n 提供诊断消息的多语言支持（英文、中文）
package i18n

import (
	"fmt"
	"strings"
	"sync"
)

// Language 语言类型
type Language string

const (
	LangEnglish Language = "en"
	LangChinese Language = "zh"
)

// 全局语言设置
var (
	currentLang Language = LangEnglish
	mu          sync.RWMutex
)

// SetLanguage 设置当前语言
func SetLanguage(lang Language) {
	mu.Lock()
	defer mu.Unlock()
	currentLang = lang
}

// SetLanguageFromString 从字符串设置语言，无法识别时回退到英文
func SetLanguageFromString(lang string) {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case "zh", "zh-cn", "zh-tw", "zh-hk", "zh_cn", "chinese":
		SetLanguage(LangChinese)
	default:
		SetLanguage(LangEnglish)
	}
}

// GetLanguage 获取当前语言
func GetLanguage() Language {
	mu.RLock()
	defer mu.RUnlock()
	return currentLang
}

// T 按当前语言翻译消息（支持格式化参数）
func T(msgID string, args ...interface{}) string {
	return TIn(GetLanguage(), msgID, args...)
}

// TIn 按指定语言翻译消息；找不到时回退到英文，再找不到返回消息 ID
func TIn(lang Language, msgID string, args ...interface{}) string {
	msg, ok := table(lang)[msgID]
	if !ok {
		msg, ok = messagesEN[msgID]
	}
	if !ok {
		return msgID
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}

// Has 报告消息 ID 是否有英文翻译
func Has(msgID string) bool {
	_, ok := messagesEN[msgID]
	return ok
}

func table(lang Language) map[string]string {
	if lang == LangChinese {
		return messagesZH
	}
	return messagesEN
}
