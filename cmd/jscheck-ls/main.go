package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/tangzhangming/jscheck/internal/lsp"
)

const Version = "0.1.0"

func main() {
	showVersion := flag.Bool("version", false, "显示版本信息")
	showHelp := flag.Bool("help", false, "显示帮助信息")
	logFile := flag.String("log", "", "日志文件路径（默认不记录日志，设置环境变量 JSCHECK_LSP_DEBUG=1 启用日志）")

	flag.Parse()

	if *showVersion {
		fmt.Printf("jscheck language server v%s\n", Version)
		os.Exit(0)
	}

	if *showHelp {
		printUsage()
		os.Exit(0)
	}

	log := newLogger(*logFile)
	defer log.Sync()

	server := lsp.NewServer(log, Version)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := server.Run(ctx); err != nil {
		log.Error("server error", zap.Error(err))
		fmt.Fprintf(os.Stderr, "LSP server error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger 标准输出被协议占用，日志只能写文件
func newLogger(path string) *zap.Logger {
	if path == "" && os.Getenv("JSCHECK_LSP_DEBUG") != "" {
		path = "jscheck-ls.log"
	}
	if path == "" {
		return zap.NewNop()
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	cfg.DisableStacktrace = true
	log, err := cfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot open log file %s: %v\n", path, err)
		return zap.NewNop()
	}
	return log
}

func printUsage() {
	fmt.Println("jscheck language server")
	fmt.Println()
	fmt.Println("用法:")
	fmt.Println("  jscheck-ls [options]")
	fmt.Println()
	fmt.Println("选项:")
	fmt.Println("  --version    显示版本信息")
	fmt.Println("  --help       显示帮助信息")
	fmt.Println("  --log <file> 日志文件路径")
	fmt.Println()
	fmt.Println("环境变量:")
	fmt.Println("  JSCHECK_LSP_DEBUG=1  启用调试日志，写入当前目录的 jscheck-ls.log")
	fmt.Println()
	fmt.Println("服务器通过标准输入输出 (stdio) 与编辑器通信，在打开、修改和保存文件时推送诊断。")
}
