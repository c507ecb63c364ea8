package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tangzhangming/jscheck/internal/config"
)

// cmdInit 在当前目录生成默认配置文件
func cmdInit() int {
	m := Msg()

	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, m.ErrGetWorkDir+"\n", err)
		return exitFailure
	}

	configPath := filepath.Join(dir, config.ConfigFileName)
	if _, err := os.Stat(configPath); err == nil {
		fmt.Fprintf(os.Stderr, m.ErrConfigExists+"\n", config.ConfigFileName)
		return exitFailure
	}

	c := config.Default()
	c.Compiler.Language = string(GetLanguage())

	fmt.Printf(m.InitCreating+"\n", config.ConfigFileName)
	if err := c.Save(configPath); err != nil {
		fmt.Fprintf(os.Stderr, m.ErrCreateConfig+"\n", err)
		return exitFailure
	}
	return exitOK
}
