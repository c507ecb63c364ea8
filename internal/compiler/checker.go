package compiler

import (
	"context"

	"go.uber.org/zap"

	"github.com/tangzhangming/jscheck/internal/ast"
	"github.com/tangzhangming/jscheck/internal/errors"
	"github.com/tangzhangming/jscheck/internal/lookup"
	"github.com/tangzhangming/jscheck/internal/token"
	"github.com/tangzhangming/jscheck/internal/types"
)

// 相似名字的最大编辑距离
const maxSuggestDistance = 2

// checker 一次解析或分析过程的状态
type checker struct {
	u    *Unit
	env  *lookup.Environment
	sink *errors.Sink
	info *Info
	log  *zap.Logger

	scope  *lookup.Scope
	method *lookup.MethodBinding // 当前方法；顶层语句与字段初始化为 nil
	ret    lookup.TypeBinding    // 当前函数声明的返回类型，nil 表示不检查

	// 流分析中正在分析的方法作用域；只有它的局部变量参与确定赋值检查
	fscope *lookup.Scope

	// 表达式内部无法直接返回的更大粒度中止，由外层语句取走
	pending error
}

func newChecker(u *Unit) *checker {
	return &checker{
		u:     u,
		env:   u.Env,
		sink:  u.Sink,
		info:  u.Info,
		log:   u.log,
		scope: u.Program,
	}
}

// ============================================================================
// 诊断
// ============================================================================

func (c *checker) report(id errors.ProblemID, n ast.Node, args ...interface{}) *errors.Problem {
	return c.sink.Report(id, n.Span(), args...)
}

func (c *checker) reportAt(id errors.ProblemID, span token.Span, args ...interface{}) *errors.Problem {
	return c.sink.Report(id, span, args...)
}

// checkLimit 问题总数达到上限时中止整个编译，单元问题数达到上限时中止本单元
func (c *checker) checkLimit() error {
	if c.sink.Exceeded() || c.u.budget.exceeded() {
		p := c.reportAt(errors.TooManyProblems, c.u.File.Span())
		return errors.NewAbort(errors.AbortCompilation, p)
	}
	if limit := c.u.opts.MaxUnitProblems; limit > 0 && c.sink.Len() >= limit {
		p := c.reportAt(errors.UnitTooManyProblems, c.u.File.Span(), c.u.Name)
		return errors.NewAbort(errors.AbortCompilationUnit, p)
	}
	return nil
}

// checkCancelled 在顶层语句之间检查取消
func (c *checker) checkCancelled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		p := c.reportAt(errors.Cancelled, c.u.File.Span(), err.Error())
		return errors.NewAbort(errors.AbortCompilation, p)
	}
	return nil
}

// takePending 取走表达式内部记下的中止
func (c *checker) takePending() error {
	err := c.pending
	c.pending = nil
	return err
}

// ============================================================================
// 中止边界
// ============================================================================

// methodBoundary 吞掉方法级中止并标记方法
func (c *checker) methodBoundary(fn *ast.FunctionDecl, err error) error {
	a, rest := errors.Catch(err, errors.AbortMethod)
	if a != nil {
		fn.Set(ast.IgnoreFurtherInvestigation)
		c.u.Investigated = false
		c.log.Debug("method aborted", zap.String("unit", c.u.Name), zap.String("method", functionName(fn)))
	}
	return rest
}

// typeBoundary 吞掉类型级中止并标记类
func (c *checker) typeBoundary(decl *ast.ClassDecl, err error) error {
	a, rest := errors.Catch(err, errors.AbortType)
	if a != nil {
		decl.Set(ast.IgnoreFurtherInvestigation)
		c.u.Investigated = false
		c.log.Debug("type aborted", zap.String("unit", c.u.Name), zap.String("type", decl.Name))
	}
	return rest
}

func functionName(fn *ast.FunctionDecl) string {
	switch {
	case fn.Kind == ast.FuncConstructor:
		return "constructor"
	case fn.Name == "":
		return "<anonymous>"
	}
	return fn.Name
}

// ============================================================================
// 类型辅助
// ============================================================================

func (c *checker) base(id types.TypeID) lookup.TypeBinding {
	return c.env.Base(id)
}

func (c *checker) anyType() lookup.TypeBinding {
	return c.env.Base(types.Any)
}

// isAny 未知或 any：不做进一步检查
func isAny(t lookup.TypeBinding) bool {
	return t == nil || !lookup.IsValid(t) || t.ID() == types.Any
}

// typeName 诊断里使用的类型名
func typeName(t lookup.TypeBinding) string {
	if t == nil {
		return "any"
	}
	return t.String()
}

// enclosingClass 当前位置所在的类
func (c *checker) enclosingClass() *lookup.ClassBinding {
	return c.scope.EnclosingClass()
}

// deprecated 报告对废弃成员的使用；废弃代码内部和声明类内部不报告
func (c *checker) deprecated(n ast.Node, name string, isDeprecated bool, declaring *lookup.ClassBinding) {
	if !isDeprecated || c.scope.InDeprecatedCode() {
		return
	}
	if declaring != nil && declaring == c.enclosingClass() {
		return
	}
	c.report(errors.DeprecatedUse, n, name)
}

// suggest 给名字类问题附加 "你是不是想写"
func suggest(p *errors.Problem, name string, candidates []string) {
	if p == nil {
		return
	}
	p.Suggest(map[string]string{
		"name":    name,
		"similar": errors.FindSimilar(name, candidates, maxSuggestDistance),
	})
}

// resolveTypeRef 解析类型注解；失败时报告一次并返回问题类型
func (c *checker) resolveTypeRef(tr *ast.TypeRef) lookup.TypeBinding {
	if tr == nil {
		return nil
	}
	if t := c.info.TypeOf(tr); t != nil {
		return t
	}
	t := c.scope.ResolveType(tr.Name, tr.Dims)
	if _, ok := t.(*lookup.ProblemType); ok {
		p := c.report(errors.UndefinedType, tr, tr.Name)
		suggest(p, tr.Name, c.scope.VisibleNames(lookup.KindType))
	} else if cls, ok := t.(*lookup.ClassBinding); ok {
		c.deprecated(tr, cls.Name(), cls.IsDeprecated(), cls)
	}
	return c.info.setType(tr, t)
}
