package compiler

import (
	"context"

	"github.com/tangzhangming/jscheck/internal/ast"
	"github.com/tangzhangming/jscheck/internal/errors"
	"github.com/tangzhangming/jscheck/internal/flow"
	"github.com/tangzhangming/jscheck/internal/lookup"
	"github.com/tangzhangming/jscheck/internal/types"
)

// ============================================================================
// 流分析
// ============================================================================
//
// 一次遍历，流信息在兄弟语句之间按值传递：每个语句接收进入时的信息，
// 返回离开时的信息。条件结构把信息拆成为真/为假两份，在汇合点用 Join 合并。
// 跳转语句把当时的信息记进目标上下文，自身返回死路。
//
// 死路之后的第一条语句报告一次不可达，同一段死区内的其余语句不再分析。
// ============================================================================

// analyseProgram 分析顶层语句；顶层函数与类各自作为独立的方法分析
func (c *checker) analyseProgram(ctx context.Context) error {
	f := c.u.File
	c.fscope = c.u.Program
	mctx := flow.NewContext(flow.MethodContext, nil, f)

	info := flow.New()
	complained := false
	for _, s := range f.Body {
		if err := c.checkCancelled(ctx); err != nil {
			return err
		}
		info = c.analyseListed(s, mctx, info, &complained)
		if err := c.checkLimit(); err != nil {
			return err
		}
	}
	c.reportNullChecks(mctx)
	return nil
}

// analyseListed 语句列表中的一条：死路上报告一次不可达，否则分析
func (c *checker) analyseListed(s ast.Statement, fc *flow.Context, info *flow.Unconditional, complained *bool) *flow.Unconditional {
	switch s.(type) {
	case *ast.FunctionDecl, *ast.ClassDecl:
		// 声明不产生控制流，函数声明还会被提升
		return c.analyseStmt(s, fc, info)
	}
	if info.IsDeadEnd() {
		if !*complained {
			if _, empty := s.(*ast.EmptyStmt); !empty {
				c.report(errors.UnreachableCode, s)
				*complained = true
			}
		}
		return info
	}
	return c.analyseStmt(s, fc, info)
}

func (c *checker) analyseStmts(list []ast.Statement, fc *flow.Context, info *flow.Unconditional) *flow.Unconditional {
	complained := false
	for _, s := range list {
		info = c.analyseListed(s, fc, info, &complained)
	}
	return info
}

// analyseBody 单条语句作为分支或循环体
func (c *checker) analyseBody(s ast.Statement, fc *flow.Context, info *flow.Unconditional) *flow.Unconditional {
	complained := false
	return c.analyseListed(s, fc, info, &complained)
}

func (c *checker) analyseStmt(s ast.Statement, fc *flow.Context, info *flow.Unconditional) *flow.Unconditional {
	if info.Reachable() {
		s.Set(ast.Reachable)
	}

	switch s := s.(type) {
	case *ast.ExprStmt:
		return c.analyseExpr(s.X, fc, info)

	case *ast.VarDecl:
		for _, d := range s.Decls {
			if d.Init == nil {
				continue
			}
			info = c.analyseExpr(d.Init, fc, info)
			if v, ok := c.info.BindingOf(d).(*lookup.VariableBinding); ok && c.tracked(v) {
				c.markAssigned(info, v, c.nullStatusOf(d.Init, info))
			}
		}
		return info

	case *ast.Block:
		return c.analyseStmts(s.Stmts, fc, info)

	case *ast.IfStmt:
		return c.analyseIf(s, fc, info)

	case *ast.WhileStmt:
		return c.analyseWhile(s, fc, info)

	case *ast.DoWhileStmt:
		return c.analyseDoWhile(s, fc, info)

	case *ast.ForStmt:
		return c.analyseFor(s, fc, info)

	case *ast.ForInStmt:
		return c.analyseForIn(s, fc, info)

	case *ast.SwitchStmt:
		return c.analyseSwitch(s, fc, info)

	case *ast.TryStmt:
		return c.analyseTry(s, fc, info)

	case *ast.LabeledStmt:
		lab := flow.NewLabel(fc, s, s.Label)
		out := c.analyseBody(s.Body, lab, info)
		if lab.InitsOnBreak != nil {
			out = flow.Join(out, lab.InitsOnBreak)
		}
		if !s.Has(ast.LabelUsed) {
			c.report(errors.UnusedLabel, s, s.Label)
		}
		return out

	case *ast.BreakStmt:
		target := fc.BreakTarget(s.Label)
		switch {
		case target == nil && s.Label != "":
			c.report(errors.UndefinedLabel, s, s.Label)
		case target == nil:
			c.report(errors.BreakOutside, s)
		default:
			if s.Label != "" {
				target.Node.Set(ast.LabelUsed)
			}
			if !fc.RecordJump(target, flow.Break, info) {
				s.Set(ast.AnySubRoutineEscaping)
			}
		}
		return flow.Dead()

	case *ast.ContinueStmt:
		target, found := fc.ContinueTarget(s.Label)
		switch {
		case s.Label == "" && target == nil:
			c.report(errors.ContinueOutside, s)
		case !found:
			c.report(errors.UndefinedLabel, s, s.Label)
		case target == nil:
			c.report(errors.InvalidContinueLabel, s, s.Label)
		default:
			if s.Label != "" {
				target.Parent.Node.Set(ast.LabelUsed)
			}
			if !fc.RecordJump(target, flow.Continue, info) {
				s.Set(ast.AnySubRoutineEscaping)
			}
		}
		return flow.Dead()

	case *ast.ReturnStmt:
		if s.Value != nil {
			info = c.analyseExpr(s.Value, fc, info)
		}
		if !fc.RecordJump(nil, flow.Return, info) {
			s.Set(ast.AnySubRoutineEscaping)
		}
		return flow.Dead()

	case *ast.ThrowStmt:
		info = c.analyseExpr(s.Value, fc, info)
		fc.RecordRaise(info, c.throwCatches(c.info.TypeOf(s.Value)))
		return flow.Dead()

	case *ast.FunctionDecl:
		c.analyseFunction(s)
		return info

	case *ast.ClassDecl:
		c.analyseClass(s)
		return info
	}
	return info
}

// ============================================================================
// 条件与循环
// ============================================================================

func (c *checker) analyseIf(s *ast.IfStmt, fc *flow.Context, info *flow.Unconditional) *flow.Unconditional {
	cond := c.analyseCondition(s.Cond, fc, info)
	thenInfo := cond.SafeInitsWhenTrue()
	elseInfo := cond.SafeInitsWhenFalse()

	thenOut := c.analyseBody(s.Then, fc, thenInfo)
	if !thenOut.Reachable() {
		s.Set(ast.ThenExit)
	}
	elseOut := elseInfo
	if s.Else != nil {
		elseOut = c.analyseBody(s.Else, fc, elseInfo)
	}
	return flow.Join(thenOut, elseOut)
}

// loopExit 循环出口：条件为假的路径加上循环体的可能赋值，再并入 break
func loopExit(falseInfo, backEdge *flow.Unconditional, loop *flow.Context, infinite bool) *flow.Unconditional {
	exit := flow.Dead()
	if !infinite {
		exit = falseInfo.AddPotentialInitializationsFrom(backEdge)
	}
	if loop.InitsOnBreak != nil {
		exit = flow.Join(exit, loop.InitsOnBreak)
	}
	return exit
}

// bodyEntry 条件恒假时循环体是死路
func (c *checker) bodyEntry(cond ast.Expression, info flow.Info) *flow.Unconditional {
	if cond != nil && c.info.isFalse(cond) {
		return flow.Dead()
	}
	return info.SafeInitsWhenTrue()
}

func (c *checker) analyseWhile(s *ast.WhileStmt, fc *flow.Context, info *flow.Unconditional) *flow.Unconditional {
	loop := flow.NewContext(flow.LoopContext, fc, s)
	cond := c.analyseCondition(s.Cond, loop, c.loopEntry(info, s.Cond, s.Body))

	bodyOut := c.analyseBody(s.Body, loop, c.bodyEntry(s.Cond, cond))
	backEdge := bodyOut
	if loop.InitsOnContinue != nil {
		backEdge = flow.Join(backEdge, loop.InitsOnContinue)
	}
	loop.CompleteNullChecks(flow.Join(info, backEdge))
	return loopExit(cond.SafeInitsWhenFalse(), backEdge, loop, c.info.isTrue(s.Cond))
}

func (c *checker) analyseDoWhile(s *ast.DoWhileStmt, fc *flow.Context, info *flow.Unconditional) *flow.Unconditional {
	loop := flow.NewContext(flow.LoopContext, fc, s)
	bodyOut := c.analyseBody(s.Body, loop, c.loopEntry(info, s.Body, s.Cond))
	if loop.InitsOnContinue != nil {
		bodyOut = flow.Join(bodyOut, loop.InitsOnContinue)
	}
	cond := c.analyseCondition(s.Cond, loop, bodyOut)
	loop.CompleteNullChecks(flow.Join(info, cond.SafeInitsWhenTrue()))

	exit := flow.Dead()
	if !c.info.isTrue(s.Cond) {
		exit = cond.SafeInitsWhenFalse()
		if bodyOut.IsDeadEnd() {
			exit = flow.Dead()
		}
	}
	if loop.InitsOnBreak != nil {
		exit = flow.Join(exit, loop.InitsOnBreak)
	}
	return exit
}

func (c *checker) analyseFor(s *ast.ForStmt, fc *flow.Context, info *flow.Unconditional) *flow.Unconditional {
	if s.Init != nil {
		info = c.analyseStmt(s.Init, fc, info)
	}
	loop := flow.NewContext(flow.LoopContext, fc, s)
	parts := []ast.Node{s.Cond, s.Body}
	for _, u := range s.Update {
		parts = append(parts, u)
	}
	head := c.loopEntry(info, parts...)

	var cond flow.Info = head
	infinite := s.Cond == nil
	if s.Cond != nil {
		cond = c.analyseCondition(s.Cond, loop, head)
		infinite = c.info.isTrue(s.Cond)
	}

	bodyOut := c.analyseBody(s.Body, loop, c.bodyEntry(s.Cond, cond))
	backEdge := bodyOut
	if loop.InitsOnContinue != nil {
		backEdge = flow.Join(backEdge, loop.InitsOnContinue)
	}
	if backEdge.Reachable() {
		for _, u := range s.Update {
			backEdge = c.analyseExpr(u, loop, backEdge)
		}
	}
	loop.CompleteNullChecks(flow.Join(info, backEdge))

	falseInfo := flow.Dead()
	if !infinite {
		falseInfo = cond.SafeInitsWhenFalse()
	}
	return loopExit(falseInfo, backEdge, loop, infinite)
}

func (c *checker) analyseForIn(s *ast.ForInStmt, fc *flow.Context, info *flow.Unconditional) *flow.Unconditional {
	info = c.analyseExpr(s.Object, fc, info)
	loop := flow.NewContext(flow.LoopContext, fc, s)

	bodyInfo := c.loopEntry(info, s.Body)
	if s.Decl != nil {
		for _, d := range s.Decl.Decls {
			if v, ok := c.info.BindingOf(d).(*lookup.VariableBinding); ok && c.tracked(v) {
				c.markAssigned(bodyInfo, v, flow.IsNonNull)
			}
		}
	} else {
		bodyInfo = c.analyseAssignTarget(s.Target, loop, bodyInfo, false)
		if v, ok := c.trackedLocal(s.Target); ok {
			c.markAssigned(bodyInfo, v, flow.IsNonNull)
		}
	}

	bodyOut := c.analyseBody(s.Body, loop, bodyInfo)
	backEdge := bodyOut
	if loop.InitsOnContinue != nil {
		backEdge = flow.Join(backEdge, loop.InitsOnContinue)
	}
	loop.CompleteNullChecks(flow.Join(info, backEdge))
	return loopExit(info.UnconditionalCopy(), backEdge, loop, false)
}

// ============================================================================
// switch
// ============================================================================

func (c *checker) analyseSwitch(s *ast.SwitchStmt, fc *flow.Context, info *flow.Unconditional) *flow.Unconditional {
	entry := c.analyseExpr(s.Tag, fc, info)
	sw := flow.NewContext(flow.SwitchContext, fc, s)

	caseInfo := flow.Dead()
	hasDefault := false
	prevBody := false
	for _, cc := range s.Cases {
		if cc.Expr == nil {
			hasDefault = true
		} else {
			entry = c.analyseExpr(cc.Expr, sw, entry)
		}
		if prevBody && caseInfo.Reachable() && !cc.Has(ast.DocumentedFallthrough) {
			c.report(errors.Fallthrough, cc)
		}
		caseInfo = flow.Join(caseInfo, entry)
		caseInfo = c.analyseStmts(cc.Body, sw, caseInfo)
		prevBody = len(cc.Body) > 0
	}

	exit := caseInfo
	if sw.InitsOnBreak != nil {
		exit = flow.Join(exit, sw.InitsOnBreak)
	}
	if !hasDefault {
		exit = flow.Join(exit, entry)
	}
	return exit
}

// ============================================================================
// try / catch / finally
// ============================================================================

func (c *checker) analyseTry(s *ast.TryStmt, fc *flow.Context, info *flow.Unconditional) *flow.Unconditional {
	outer := fc
	var fin *flow.Context
	var subInfo *flow.Unconditional

	if s.Finally != nil {
		// finally 先于 try 块分析一次，结果补到每条离开路径上
		sub := flow.NewContext(flow.SubRoutineContext, fc, s.Finally)
		subInfo = c.analyseStmts(s.Finally.Stmts, sub, info.NullInfoLessUnconditionalCopy())
		fin = flow.NewContext(flow.FinallyContext, fc, s)
		fin.FinallyInits = subInfo
		if subInfo.IsDeadEnd() {
			fin.Escaping = true
			s.Set(ast.SubRoutineEscaping)
			c.report(errors.FinallyNotNormal, s.Finally)
		}
		outer = fin
	}

	exc := flow.NewContext(flow.ExceptionContext, outer, s)
	for _, cc := range s.Catches {
		var t lookup.TypeBinding
		if v, ok := c.info.BindingOf(cc.Param).(*lookup.VariableBinding); ok {
			t = v.Type
		}
		exc.Handlers = append(exc.Handlers, &flow.Handler{Type: t, Node: cc})
	}

	tryOut := c.analyseStmts(s.Body.Stmts, exc, info.UnconditionalCopy())
	if !tryOut.Reachable() {
		s.Set(ast.TryBlockExiting)
	}

	merged := tryOut
	for i, cc := range s.Catches {
		h := exc.Handlers[i]
		checked := h.Type != nil && c.env.IsChecked(h.Type)

		catchInfo := info.UnconditionalCopy()
		if h.Inits != nil {
			catchInfo.AddPotentialInitializationsFrom(h.Inits)
		}
		if checked {
			catchInfo.AddPotentialInitializationsFrom(tryOut.NullInfoLessUnconditionalCopy())
			if exc.InitsOnReturn != nil {
				catchInfo.AddPotentialInitializationsFrom(exc.InitsOnReturn.NullInfoLessUnconditionalCopy())
			}
		} else {
			// 任何语句都可能抛出非受检异常
			catchInfo.AddPotentialInitializationsFrom(tryOut)
			if exc.InitsOnReturn != nil {
				catchInfo.AddPotentialInitializationsFrom(exc.InitsOnReturn)
			}
		}
		if v, ok := c.info.BindingOf(cc.Param).(*lookup.VariableBinding); ok && c.tracked(v) {
			c.markAssigned(catchInfo, v, flow.IsNonNull)
		}
		if checked && !h.Raised {
			c.report(errors.UnreachableCatch, cc.Param, h.Type.String())
			catchInfo.SetReach(flow.Unreachable)
		}
		if len(s.Body.Stmts) == 0 {
			catchInfo.SetReach(flow.Unreachable)
		}

		catchOut := c.analyseStmts(cc.Body.Stmts, outer, catchInfo)
		merged = flow.Join(merged, catchOut)
	}

	if fin == nil {
		return merged
	}
	if fin.Escaping {
		return flow.Dead()
	}
	return merged.AddInitializationsFrom(subInfo)
}

// throwCatches throw 表达式类型为 t 时各处理器的捕获关系
func (c *checker) throwCatches(t lookup.TypeBinding) flow.Catches {
	thrown, _ := t.(*lookup.ClassBinding)
	return func(h *flow.Handler) (may, definitely bool) {
		hc, ok := h.Type.(*lookup.ClassBinding)
		switch {
		case !ok:
			// 没有注解或 any 的 catch 捕获一切
			return true, true
		case thrown == nil:
			return true, false
		case thrown.IsSubclassOf(hc):
			return true, true
		case hc.IsSubclassOf(thrown):
			return true, false
		}
		return false, false
	}
}

// callCatches 调用没有异常声明，可能抛出任何东西
func callCatches(h *flow.Handler) (may, definitely bool) {
	_, typed := h.Type.(*lookup.ClassBinding)
	return true, !typed
}

// ============================================================================
// 函数与类
// ============================================================================

// analyseFunction 每个函数有自己的方法上下文和槽位
func (c *checker) analyseFunction(fn *ast.FunctionDecl) {
	if fn.Has(ast.IgnoreFurtherInvestigation) || fn.Body == nil {
		return
	}
	ms := c.info.ScopeOf(fn)
	if ms == nil {
		return
	}
	saved := c.fscope
	c.fscope = ms
	defer func() { c.fscope = saved }()

	mctx := flow.NewContext(flow.MethodContext, nil, fn)
	info := flow.New()
	for _, p := range fn.Params {
		if v, ok := c.info.BindingOf(p).(*lookup.VariableBinding); ok && v.HasSlot() {
			info.MarkAsDefinitelyAssigned(v.Slot)
		}
	}
	out := c.analyseStmts(fn.Body.Stmts, mctx, info)

	if m := ms.Method; m != nil && out.Reachable() && !m.IsConstructor() {
		if r := m.Return; r != nil && !isAny(r) && r.ID() != types.Void {
			c.reportAt(errors.MissingReturn, fn.NameSpan, r.String())
		}
	}
	c.reportNullChecks(mctx)
}

func (c *checker) analyseClass(d *ast.ClassDecl) {
	if d.Has(ast.IgnoreFurtherInvestigation) {
		return
	}
	saved := c.fscope
	defer func() { c.fscope = saved }()

	for _, f := range d.Fields {
		ms := c.info.ScopeOf(f)
		if f.Init == nil || ms == nil {
			continue
		}
		c.fscope = ms
		mctx := flow.NewContext(flow.MethodContext, nil, f)
		c.analyseExpr(f.Init, mctx, flow.New())
		c.reportNullChecks(mctx)
	}
	for _, fn := range d.Methods {
		c.analyseFunction(fn)
	}
}

// reportNullChecks 方法分析结束后报告延迟的空引用
func (c *checker) reportNullChecks(mctx *flow.Context) {
	for _, check := range mctx.NullChecks() {
		switch check.Status {
		case flow.IsNull:
			c.report(errors.NullReference, check.Node, check.Name)
		case flow.MaybeNull:
			c.report(errors.PotentialNullReference, check.Node, check.Name)
		}
	}
}
