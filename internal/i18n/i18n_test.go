package i18n

import "testing"

func TestEveryMessageHasChineseTranslation(t *testing.T) {
	for id := range messagesEN {
		if _, ok := messagesZH[id]; !ok {
			t.Errorf("message %q has no Chinese translation", id)
		}
	}
	for id := range messagesZH {
		if _, ok := messagesEN[id]; !ok {
			t.Errorf("message %q has no English translation", id)
		}
	}
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		lang Language
		id   string
		args []interface{}
		want string
	}{
		{LangEnglish, MsgUndefinedName, []interface{}{"foo"}, "foo cannot be resolved"},
		{LangChinese, MsgUndefinedName, []interface{}{"foo"}, "无法解析 foo"},
		{LangEnglish, MsgUnreachableCode, nil, "unreachable code"},
		{LangChinese, MsgUndefinedField, []interface{}{"x", "Point"}, "类型 Point 中未定义字段 x"},
		{LangEnglish, "no.such.message", nil, "no.such.message"},
	}

	for _, tt := range tests {
		if got := TIn(tt.lang, tt.id, tt.args...); got != tt.want {
			t.Errorf("TIn(%s, %s) = %q, want %q", tt.lang, tt.id, got, tt.want)
		}
	}
}

func TestSetLanguageFromString(t *testing.T) {
	defer SetLanguage(LangEnglish)

	SetLanguageFromString("zh-CN")
	if GetLanguage() != LangChinese {
		t.Fatalf("expected Chinese, got %s", GetLanguage())
	}
	SetLanguageFromString("fr")
	if GetLanguage() != LangEnglish {
		t.Fatalf("unknown languages should fall back to English, got %s", GetLanguage())
	}
}
