package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/segmentio/encoding/json"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tangzhangming/jscheck/internal/compiler"
	"github.com/tangzhangming/jscheck/internal/config"
	"github.com/tangzhangming/jscheck/internal/errors"
	"github.com/tangzhangming/jscheck/internal/formatter"
	"github.com/tangzhangming/jscheck/internal/i18n"
	"github.com/tangzhangming/jscheck/internal/loader"
	"github.com/tangzhangming/jscheck/internal/profiler"
)

const (
	Version = "0.1.0"
)

// 退出码
const (
	exitOK       = 0
	exitProblems = 1 // 有错误级别的问题
	exitFailure  = 2 // 用法错误或读写失败
)

// 全局语言参数
var globalLang string

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	// 预扫描全局参数 --lang 或 -lang
	args := preprocessArgs(argv)
	InitLanguage(globalLang)
	m := Msg()

	fs := flag.NewFlagSet("jscheck", flag.ContinueOnError)
	configPath := fs.String("config", "", m.OptConfig)
	format := fs.String("format", "text", m.OptFormat)
	jobs := fs.Int("j", -1, m.OptJobs)
	diet := fs.Bool("diet", false, m.OptDiet)
	noColor := fs.Bool("no-color", false, m.OptNoColor)
	verbose := fs.Bool("v", false, m.OptVerbose)
	printSource := fs.Bool("print", false, m.OptPrint)
	initConfig := fs.Bool("init", false, m.OptInit)
	showVersion := fs.Bool("version", false, m.CmdVersion)
	profileOut := fs.String("profile", "", m.OptProfile)
	profileFormat := fs.String("profile-format", "text", m.OptProfileFormat)
	cpuProfile := fs.String("cpuprofile", "", m.OptCPUProfile)
	memProfile := fs.String("memprofile", "", m.OptMemProfile)

	fs.Usage = func() { printUsage(fs) }
	if err := fs.Parse(args); err != nil {
		return exitFailure
	}

	if *showVersion {
		fmt.Printf(m.VersionTitle+"\n", Version)
		fmt.Println(m.VersionDesc)
		return exitOK
	}
	if *initConfig {
		return cmdInit()
	}
	if fs.NArg() < 1 {
		fs.Usage()
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, m.ErrNoInput)
		return exitFailure
	}
	if *format != "text" && *format != "json" {
		fmt.Fprintf(os.Stderr, m.ErrBadFormat+"\n", *format)
		return exitFailure
	}

	// 配置：显式指定的文件，否则从第一个输入向上查找
	var (
		cfg  *config.Config
		root string
		err  error
	)
	if *configPath != "" {
		cfg, err = config.LoadConfig(*configPath)
		root = filepath.Dir(*configPath)
	} else {
		var found string
		cfg, found, err = config.Discover(fs.Arg(0))
		root = filepath.Dir(found)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, m.ErrConfig+"\n", err)
		return exitFailure
	}

	// 命令行参数覆盖配置文件
	if globalLang == "" && cfg.Compiler.Language != "" {
		setLanguage(cfg.Compiler.Language)
		m = Msg()
	}
	i18n.SetLanguageFromString(string(GetLanguage()))
	if *diet {
		cfg.Compiler.Diet = true
	}
	if *jobs >= 0 {
		cfg.Compiler.Parallelism = *jobs
	}
	switch {
	case *noColor || *format == "json" || cfg.Compiler.Color == "never":
		errors.DisableColors()
	case cfg.Compiler.Color == "always":
		errors.EnableColors()
	}

	log := newLogger(*verbose)
	defer log.Sync()

	opts, err := cfg.Options(log)
	if err != nil {
		fmt.Fprintf(os.Stderr, m.ErrConfig+"\n", err)
		return exitFailure
	}
	cache, err := cfg.OpenCache(root)
	if err != nil {
		log.Warn("result cache disabled", zap.Error(err))
		cache = nil
	}

	sources, err := loader.New().Load(fs.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, m.ErrReadFile+"\n", err)
		return exitFailure
	}

	if *printSource {
		return printFormatted(sources)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	reportFormat, err := profiler.ParseFormat(*profileFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, m.ErrProfile+"\n", err)
		return exitFailure
	}
	if *cpuProfile != "" {
		cpu, err := profiler.StartCPUProfile(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, m.ErrProfile+"\n", err)
			return exitFailure
		}
		defer func() {
			if err := cpu.Stop(); err != nil {
				log.Warn("cpu profile not written", zap.Error(err))
			}
		}()
	}

	driver := compiler.NewDriver(opts, cfg.Compiler.Parallelism, cache)
	var prof *profiler.Profiler
	if *profileOut != "" {
		prof = profiler.NewProfiler(0)
		driver.SetProfiler(prof)
	}
	results, checkErr := driver.Check(ctx, sources)
	if prof != nil {
		if err := writeProfile(prof, *profileOut, reportFormat); err != nil {
			fmt.Fprintf(os.Stderr, m.ErrProfile+"\n", err)
		}
	}
	if *memProfile != "" {
		if err := profiler.WriteHeapProfile(*memProfile); err != nil {
			fmt.Fprintf(os.Stderr, m.ErrProfile+"\n", err)
		}
	}
	if *verbose {
		log.Debug("memory", zap.String("stats", profiler.MemStats()))
	}
	if checkErr != nil {
		for _, e := range multierr.Errors(checkErr) {
			log.Warn("check stopped", zap.Error(e))
		}
	}
	stats := driver.Stats()
	log.Debug("check finished",
		zap.Int64("units", stats.Units),
		zap.Int64("problems", stats.Problems),
		zap.Int64("aborted", stats.Aborted),
		zap.Int64("cache_hits", stats.CacheHits))

	if *format == "json" {
		err = writeJSON(os.Stdout, results)
	} else {
		err = writeText(sources, results)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, m.ErrWrite+"\n", err)
		return exitFailure
	}

	for _, r := range results {
		if r.HasErrors() {
			return exitProblems
		}
	}
	if checkErr != nil {
		return exitProblems
	}
	return exitOK
}

// preprocessArgs 预处理参数，提取全局 --lang 参数
func preprocessArgs(args []string) []string {
	var result []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--lang" || arg == "-lang" {
			if i+1 < len(args) {
				globalLang = args[i+1]
				i++
				continue
			}
		} else if strings.HasPrefix(arg, "--lang=") {
			globalLang = strings.TrimPrefix(arg, "--lang=")
			continue
		} else if strings.HasPrefix(arg, "-lang=") {
			globalLang = strings.TrimPrefix(arg, "-lang=")
			continue
		}
		result = append(result, arg)
	}
	return result
}

func printUsage(fs *flag.FlagSet) {
	m := Msg()
	fmt.Printf(m.VersionTitle+"\n\n", Version)
	fmt.Println(m.HelpUsage)
	fmt.Println("  jscheck [--lang en|zh] [options] <file|dir>...")
	fmt.Println()
	fmt.Println(m.HelpOptions)
	fs.PrintDefaults()
	fmt.Println()
	fmt.Println(m.HelpExamples)
	fmt.Println("  jscheck main.js util.js")
	fmt.Println("  jscheck -format json -j 4 src/*.js")
	fmt.Println("  jscheck -profile - src")
	fmt.Println("  jscheck -init")
	fmt.Println("  jscheck --lang zh main.js")
}

// newLogger 输出到标准错误的日志；默认只记录警告以上
func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg.Level.SetLevel(zapcore.DebugLevel)
	}
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true
	log, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

// writeProfile 把阶段耗时报告写到文件或标准错误
func writeProfile(p *profiler.Profiler, path string, format profiler.OutputFormat) (err error) {
	if path == "-" {
		return p.WriteProfile(os.Stderr, format)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, f.Close()) }()
	return p.WriteProfile(f, format)
}

// printFormatted 输出格式化后的源代码（不检查）
func printFormatted(sources []compiler.Source) int {
	m := Msg()
	code := exitOK
	for _, src := range sources {
		out, err := formatter.FormatWithDefaultOptions(src.Text, src.Name)
		if err != nil {
			fmt.Fprintf(os.Stderr, m.ErrFormatFailed+"\n", src.Name, err)
			code = exitProblems
			continue
		}
		fmt.Print(out)
	}
	return code
}

func writeText(sources []compiler.Source, results []*compiler.Result) error {
	m := Msg()
	reporter := errors.NewReporter(os.Stdout)
	for _, src := range sources {
		reporter.SetSource(src.Name, src.Text)
	}
	for _, r := range results {
		if r == nil {
			continue
		}
		if err := reporter.ReportFile(r.Name, r.Problems); err != nil {
			return err
		}
		switch {
		case r.Skipped:
			if err := reporter.ReportNote(fmt.Sprintf(m.NoteSkipped, r.Name)); err != nil {
				return err
			}
		case !r.Investigated:
			if err := reporter.ReportNote(fmt.Sprintf(m.NoteNotInvestigated, r.Name)); err != nil {
				return err
			}
		}
	}
	return reporter.Finish()
}

// jsonProblem --format=json 的输出项
type jsonProblem struct {
	File      string   `json:"file"`
	Line      int      `json:"line"`
	Column    int      `json:"column"`
	EndLine   int      `json:"endLine"`
	EndColumn int      `json:"endColumn"`
	Code      string   `json:"code"`
	Name      string   `json:"name"`
	Severity  string   `json:"severity"`
	Message   string   `json:"message"`
	Hints     []string `json:"hints,omitempty"`
}

type jsonUnit struct {
	File         string        `json:"file"`
	Investigated bool          `json:"investigated"`
	Skipped      bool          `json:"skipped,omitempty"`
	Cached       bool          `json:"cached,omitempty"`
	Problems     []jsonProblem `json:"problems"`
}

func writeJSON(out *os.File, results []*compiler.Result) error {
	units := make([]jsonUnit, 0, len(results))
	for _, r := range results {
		if r == nil {
			continue
		}
		u := jsonUnit{
			File:         r.Name,
			Investigated: r.Investigated,
			Skipped:      r.Skipped,
			Cached:       r.Cached,
			Problems:     make([]jsonProblem, 0, len(r.Problems)),
		}
		for _, p := range r.Problems {
			u.Problems = append(u.Problems, jsonProblem{
				File:      r.Name,
				Line:      p.Span.Start.Line,
				Column:    p.Span.Start.Column,
				EndLine:   p.Span.End.Line,
				EndColumn: p.Span.End.Column,
				Code:      string(p.ID),
				Name:      problemName(p.ID),
				Severity:  p.Severity.String(),
				Message:   p.Message,
				Hints:     p.Hints,
			})
		}
		units = append(units, u)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(units)
}

func problemName(id errors.ProblemID) string {
	if info, ok := errors.GetProblemInfo(id); ok {
		return info.Name
	}
	return string(id)
}
