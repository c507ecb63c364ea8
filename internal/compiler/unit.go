// Package compiler 语义前端：局部声明提升、名称与类型解析、流分析以及批量驱动
//
// 一个编译单元依次经过：
//
//	Parse   → 语法树与语法问题
//	Resolve → 绑定、类型、常量（写入 Info）
//	Analyse → 确定赋值、可达性、空值检查
//
// 每个阶段都可能产生中止信号；方法、类型、单元三个边界各自吞掉
// 不超过自身粒度的中止，并给对应节点打上 IgnoreFurtherInvestigation。
package compiler

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/tangzhangming/jscheck/internal/ast"
	"github.com/tangzhangming/jscheck/internal/errors"
	"github.com/tangzhangming/jscheck/internal/lookup"
	"github.com/tangzhangming/jscheck/internal/parser"
	"github.com/tangzhangming/jscheck/internal/token"
)

// Options 编译选项
type Options struct {
	Diet            bool                  // 惰性解析方法体
	MaxProblems     int                   // 整个编译的问题数上限，0 表示不限
	MaxUnitProblems int                   // 单个编译单元的问题数上限，0 表示不限
	Severity        *errors.SeverityTable // nil 使用默认级别
	Logger          *zap.Logger           // nil 不输出日志
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// Unit 一个编译单元及其全部分析结果
type Unit struct {
	Name   string
	Source string
	File   *ast.File
	Env    *lookup.Environment

	Scope   *lookup.Scope // 编译单元作用域
	Program *lookup.Scope // 顶层语句所在的隐式方法作用域
	Info    *Info
	Sink    *errors.Sink

	// Investigated 为 false 表示有方法、类型或整个单元因中止而没有分析完
	Investigated bool

	opts     Options
	log      *zap.Logger
	budget   *problemBudget // 批量编译时所有单元共享；单独编译时为 nil
	resolved bool
	analysed bool
}

// Parse 解析源代码，语法问题记入单元的诊断收集器
func Parse(name, source string, opts Options) *Unit {
	p := parser.New(source, name, parser.WithDiet(opts.Diet))
	file := p.Parse()

	env := lookup.NewEnvironment()
	unitScope := lookup.NewUnitScope(env)
	u := &Unit{
		Name:         name,
		Source:       source,
		File:         file,
		Env:          env,
		Scope:        unitScope,
		Program:      lookup.NewMethodScope(unitScope, nil, file.ID(), false),
		Info:         newInfo(file.Arena.Len()),
		Sink:         errors.NewSink(opts.Severity, opts.MaxProblems),
		Investigated: true,
		opts:         opts,
		log:          opts.logger(),
	}
	u.Info.Scopes[file.ID()] = u.Program

	for _, e := range p.LexErrors() {
		u.Sink.Report(errors.LexicalError, token.Span{Start: e.Pos, End: e.Pos}, e.Message)
	}
	u.reportSyntax(p.Errors())
	return u
}

func (u *Unit) reportSyntax(errs []parser.Error) {
	for _, e := range errs {
		id := errors.SyntaxError
		if e.Lexical {
			id = errors.LexicalError
		}
		u.Sink.Report(id, e.Span, e.Message)
	}
}

// reportBodyErrors 把惰性解析方法体时合并的语法错误拆开记录
func (u *Unit) reportBodyErrors(err error) {
	for _, e := range multierr.Errors(err) {
		if pe, ok := e.(parser.Error); ok {
			u.reportSyntax([]parser.Error{pe})
			continue
		}
		u.Sink.Report(errors.SyntaxError, u.File.Span(), e.Error())
	}
}

// Compile 解析并检查一个编译单元
//
// 返回的 error 只可能是整个编译级别的中止（问题数超限或 ctx 被取消）；
// 单元级及以下的中止体现在 Unit.Investigated 上。
func Compile(ctx context.Context, name, source string, opts Options) (*Unit, error) {
	u := Parse(name, source, opts)
	return u, u.Check(ctx)
}

// Check 依次执行解析与流分析，并在单元边界处理中止
func (u *Unit) Check(ctx context.Context) error {
	err := u.Resolve(ctx)
	if err == nil {
		err = u.Analyse(ctx)
	}
	return u.unitBoundary(err)
}

// Resolve 名称与类型解析；重复调用不会产生新的绑定或诊断
func (u *Unit) Resolve(ctx context.Context) error {
	if u.File.Has(ast.IgnoreFurtherInvestigation) {
		return nil
	}
	c := newChecker(u)
	err := c.resolveProgram(ctx)
	u.resolved = true
	return err
}

// Analyse 流分析；必须在 Resolve 之后调用，只执行一次
func (u *Unit) Analyse(ctx context.Context) error {
	if u.analysed || !u.resolved || u.File.Has(ast.IgnoreFurtherInvestigation) {
		return nil
	}
	u.analysed = true
	c := newChecker(u)
	return c.analyseProgram(ctx)
}

func (u *Unit) unitBoundary(err error) error {
	a, rest := errors.Catch(err, errors.AbortCompilationUnit)
	if a != nil {
		u.File.Set(ast.IgnoreFurtherInvestigation)
		u.Investigated = false
		u.log.Debug("unit aborted", zap.String("unit", u.Name), zap.Stringer("level", a.Level))
	}
	return rest
}

// Problems 按源码位置排序的全部问题
func (u *Unit) Problems() []*errors.Problem {
	return u.Sink.Sorted()
}

// HasErrors 是否有错误级别的问题
func (u *Unit) HasErrors() bool {
	return u.Sink.HasErrors()
}

func (u *Unit) String() string {
	return fmt.Sprintf("unit %s (%d problems)", u.Name, u.Sink.Len())
}
