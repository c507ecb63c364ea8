//go:build windows

package main

import "golang.org/x/sys/windows"

// preferredUILanguages 用户界面语言列表（如 zh-CN、en-US）
func preferredUILanguages() []string {
	langs, err := windows.GetUserPreferredUILanguages(windows.MUI_LANGUAGE_NAME)
	if err != nil {
		return nil
	}
	return langs
}
