package compiler

import (
	"github.com/tangzhangming/jscheck/internal/ast"
	"github.com/tangzhangming/jscheck/internal/errors"
	"github.com/tangzhangming/jscheck/internal/flow"
	"github.com/tangzhangming/jscheck/internal/lookup"
	"github.com/tangzhangming/jscheck/internal/types"
)

// ============================================================================
// 表达式的流分析
// ============================================================================
//
// analyseExpr 可能原地修改 info，调用方总是使用返回值。

func (c *checker) analyseExpr(e ast.Expression, fc *flow.Context, info *flow.Unconditional) *flow.Unconditional {
	switch e := e.(type) {
	case nil:
		return info

	case *ast.Ident:
		c.checkRead(e, info)
		return info

	case *ast.FieldRef:
		info = c.analyseExpr(e.Receiver, fc, info)
		return c.deref(e.Receiver, fc, info)

	case *ast.IndexExpr:
		info = c.analyseExpr(e.X, fc, info)
		info = c.deref(e.X, fc, info)
		return c.analyseExpr(e.Index, fc, info)

	case *ast.CallExpr:
		if f, ok := e.Callee.(*ast.FieldRef); ok {
			info = c.analyseExpr(f.Receiver, fc, info)
			info = c.deref(f.Receiver, fc, info)
		} else {
			info = c.analyseExpr(e.Callee, fc, info)
			info = c.deref(e.Callee, fc, info)
		}
		info = c.analyseExprs(e.Args, fc, info)
		return c.raise(fc, info)

	case *ast.SuperCall:
		info = c.analyseExprs(e.Args, fc, info)
		return c.raise(fc, info)

	case *ast.NewExpr:
		info = c.analyseExprs(e.Args, fc, info)
		return c.raise(fc, info)

	case *ast.AssignExpr:
		return c.analyseAssign(e, fc, info)

	case *ast.UpdateExpr:
		info = c.analyseAssignTarget(e.X, fc, info, true)
		if v, ok := c.trackedLocal(e.X); ok {
			c.markAssigned(info, v, flow.IsNonNull)
		}
		return info

	case *ast.BinaryExpr:
		switch e.Op {
		case types.AndAnd, types.OrOr,
			types.EqualEqual, types.NotEqual, types.EqualEqualEqual, types.NotEqualEqual:
			return c.analyseCondition(e, fc, info).UnconditionalInits()
		}
		info = c.analyseExpr(e.Left, fc, info)
		if e.Op == types.InstanceOf {
			// 右侧是类型名
			return info
		}
		return c.analyseExpr(e.Right, fc, info)

	case *ast.ChainExpr:
		if e.Op == types.AndAnd || e.Op == types.OrOr {
			return c.analyseCondition(e, fc, info).UnconditionalInits()
		}
		return c.analyseExprs(e.Operands, fc, info)

	case *ast.UnaryExpr:
		switch e.Op {
		case types.Not:
			return c.analyseCondition(e, fc, info).UnconditionalInits()
		case types.TypeOf:
			// typeof 未赋值的变量是合法的
			if _, ok := e.X.(*ast.Ident); ok {
				return info
			}
		}
		return c.analyseExpr(e.X, fc, info)

	case *ast.ConditionalExpr:
		cond := c.analyseCondition(e.Cond, fc, info)
		t := c.analyseExpr(e.Then, fc, cond.SafeInitsWhenTrue())
		f := c.analyseExpr(e.Else, fc, cond.SafeInitsWhenFalse())
		return flow.Join(t, f)

	case *ast.FunctionExpr:
		c.analyseFunction(e.Func)
		return info

	case *ast.ArrayLit:
		return c.analyseExprs(e.Elems, fc, info)

	case *ast.ObjectLit:
		for _, p := range e.Props {
			info = c.analyseExpr(p.Value, fc, info)
		}
		return info
	}
	return info
}

func (c *checker) analyseExprs(list []ast.Expression, fc *flow.Context, info *flow.Unconditional) *flow.Unconditional {
	for _, x := range list {
		info = c.analyseExpr(x, fc, info)
	}
	return info
}

// raise 调用与构造可能抛出任何异常
func (c *checker) raise(fc *flow.Context, info *flow.Unconditional) *flow.Unconditional {
	if info.Reachable() {
		fc.RecordRaise(info, callCatches)
	}
	return info
}

// ============================================================================
// 局部变量
// ============================================================================

// tracked 变量是否属于正在分析的方法并占有槽位
func (c *checker) tracked(v *lookup.VariableBinding) bool {
	return !v.IsField() && v.HasSlot() && v.Scope != nil && v.Scope.MethodScope() == c.fscope
}

// trackedLocal e 是否直接引用当前方法的局部变量（闭包捕获的不算）
func (c *checker) trackedLocal(e ast.Expression) (*lookup.VariableBinding, bool) {
	id, ok := e.(*ast.Ident)
	if !ok || id.Depth != 0 {
		return nil, false
	}
	v, ok := c.info.BindingOf(id).(*lookup.VariableBinding)
	if !ok || !c.tracked(v) {
		return nil, false
	}
	return v, true
}

// checkRead 读取前必须确定赋值
func (c *checker) checkRead(e *ast.Ident, info *flow.Unconditional) {
	v, ok := c.trackedLocal(e)
	if !ok || !info.Reachable() || info.IsDefinitelyAssigned(v.Slot) {
		return
	}
	p := c.report(errors.UninitializedLocal, e, e.Name)
	suggest(p, e.Name, nil)
}

func (c *checker) markAssigned(info *flow.Unconditional, v *lookup.VariableBinding, status flow.NullStatus) {
	info.MarkAsDefinitelyAssigned(v.Slot)
	switch status {
	case flow.IsNull:
		info.MarkAsDefinitelyNull(v.Slot)
	case flow.IsNonNull:
		info.MarkAsDefinitelyNonNull(v.Slot)
	case flow.MaybeNull:
		info.MarkAsPotentiallyNull(v.Slot)
	default:
		info.MarkNullStatusUnknown(v.Slot)
	}
}

// nullStatusOf 赋给变量的值的空值状态
func (c *checker) nullStatusOf(e ast.Expression, info *flow.Unconditional) flow.NullStatus {
	switch {
	case ast.IsNullLiteral(e):
		return flow.IsNull
	case e.Has(ast.NonNull), c.info.ConstantOf(e).IsValid():
		return flow.IsNonNull
	}
	switch x := e.(type) {
	case *ast.Ident:
		if v, ok := c.trackedLocal(x); ok {
			return info.NullStatus(v.Slot)
		}
	case *ast.AssignExpr:
		if x.Op == types.OpNone {
			return c.nullStatusOf(x.Value, info)
		}
		return flow.IsNonNull
	}
	return flow.NullUnknown
}

// deref x 被解引用：登记一次空检查，之后 x 确定非空
func (c *checker) deref(x ast.Expression, fc *flow.Context, info *flow.Unconditional) *flow.Unconditional {
	v, ok := c.trackedLocal(x)
	if !ok || !info.Reachable() {
		return info
	}
	if status := info.NullStatus(v.Slot); status != flow.IsNonNull {
		fc.RecordNullCheck(flow.NullCheck{Slot: v.Slot, Name: v.Name(), Node: x, Status: status})
	}
	return info.MarkAsDefinitelyNonNull(v.Slot)
}

// ============================================================================
// 赋值
// ============================================================================

func (c *checker) analyseAssign(e *ast.AssignExpr, fc *flow.Context, info *flow.Unconditional) *flow.Unconditional {
	compound := e.Op != types.OpNone
	info = c.analyseAssignTarget(e.Target, fc, info, compound)
	info = c.analyseExpr(e.Value, fc, info)

	v, ok := c.trackedLocal(e.Target)
	if !ok {
		return info
	}
	if !info.IsPotentiallyAssigned(v.Slot) {
		e.Target.Set(ast.FirstAssignmentToLocal)
	}
	status := flow.IsNonNull
	if !compound {
		status = c.nullStatusOf(e.Value, info)
	}
	c.markAssigned(info, v, status)
	return info
}

// analyseAssignTarget 赋值目标本身的求值；复合赋值先读旧值
func (c *checker) analyseAssignTarget(t ast.Expression, fc *flow.Context, info *flow.Unconditional, compound bool) *flow.Unconditional {
	switch t := t.(type) {
	case *ast.Ident:
		if compound {
			c.checkRead(t, info)
		}
		return info
	case *ast.FieldRef:
		info = c.analyseExpr(t.Receiver, fc, info)
		return c.deref(t.Receiver, fc, info)
	case *ast.IndexExpr:
		info = c.analyseExpr(t.X, fc, info)
		info = c.deref(t.X, fc, info)
		return c.analyseExpr(t.Index, fc, info)
	}
	return c.analyseExpr(t, fc, info)
}

// ============================================================================
// 条件
// ============================================================================

// analyseCondition 分析用作条件的表达式，结果区分为真与为假两条路径
func (c *checker) analyseCondition(e ast.Expression, fc *flow.Context, info *flow.Unconditional) flow.Info {
	switch x := e.(type) {
	case *ast.BinaryExpr:
		switch x.Op {
		case types.AndAnd, types.OrOr:
			return c.analyseLogical(x, x.Op, []ast.Expression{x.Left, x.Right}, fc, info)
		case types.EqualEqual, types.NotEqual, types.EqualEqualEqual, types.NotEqualEqual:
			return c.analyseEquality(x, fc, info)
		}
	case *ast.ChainExpr:
		if x.Op == types.AndAnd || x.Op == types.OrOr {
			return c.analyseLogical(x, x.Op, x.Operands, fc, info)
		}
	case *ast.UnaryExpr:
		if x.Op == types.Not {
			cond := c.analyseCondition(x.X, fc, info)
			return c.conditionOf(x,
				cond.InitsWhenFalse().UnconditionalCopy(),
				cond.InitsWhenTrue().UnconditionalCopy())
		}
	}
	out := c.analyseExpr(e, fc, info)
	return c.conditionOf(e, out, out.UnconditionalCopy())
}

// conditionOf 恒真或恒假的条件让另一条路径静默不可达
func (c *checker) conditionOf(e ast.Expression, whenTrue, whenFalse *flow.Unconditional) flow.Info {
	if c.info.isTrue(e) && whenFalse.Reachable() {
		whenFalse = whenFalse.UnconditionalCopy().SetReach(flow.Unreachable)
	}
	if c.info.isFalse(e) && whenTrue.Reachable() {
		whenTrue = whenTrue.UnconditionalCopy().SetReach(flow.Unreachable)
	}
	return flow.NewConditional(whenTrue, whenFalse)
}

// analyseLogical a && b && ... 或 a || b || ...：后一项只在短路没有发生时求值
func (c *checker) analyseLogical(e ast.Expression, op types.Operator, operands []ast.Expression, fc *flow.Context, info *flow.Unconditional) flow.Info {
	cond := c.analyseCondition(operands[0], fc, info)
	var cont, done *flow.Unconditional
	if op == types.AndAnd {
		cont, done = cond.InitsWhenTrue().UnconditionalCopy(), cond.InitsWhenFalse().UnconditionalCopy()
	} else {
		cont, done = cond.InitsWhenFalse().UnconditionalCopy(), cond.InitsWhenTrue().UnconditionalCopy()
	}

	for _, x := range operands[1:] {
		cond = c.analyseCondition(x, fc, cont)
		if op == types.AndAnd {
			done = flow.Join(done, cond.InitsWhenFalse())
			cont = cond.InitsWhenTrue().UnconditionalCopy()
		} else {
			done = flow.Join(done, cond.InitsWhenTrue())
			cont = cond.InitsWhenFalse().UnconditionalCopy()
		}
	}

	if op == types.AndAnd {
		return c.conditionOf(e, cont, done)
	}
	return c.conditionOf(e, done, cont)
}

// boolConstant e 是否布尔常量
func (c *checker) boolConstant(e ast.Expression) (value, ok bool) {
	k := c.info.ConstantOf(e)
	if !k.IsValid() || k.Type() != types.Boolean {
		return false, false
	}
	return k.BoolVal(), true
}

// analyseEquality == != === !==：与 null 比较时细化空值状态，与布尔常量比较时化为另一侧的条件
func (c *checker) analyseEquality(e *ast.BinaryExpr, fc *flow.Context, info *flow.Unconditional) flow.Info {
	negated := e.Op == types.NotEqual || e.Op == types.NotEqualEqual

	other, value, isBool := e.Left, false, false
	if value, isBool = c.boolConstant(e.Right); !isBool {
		other = e.Right
		value, isBool = c.boolConstant(e.Left)
	}
	if isBool {
		cond := c.analyseCondition(other, fc, info)
		t, f := cond.InitsWhenTrue().UnconditionalCopy(), cond.InitsWhenFalse().UnconditionalCopy()
		if value == negated {
			t, f = f, t
		}
		return c.conditionOf(e, t, f)
	}

	info = c.analyseExpr(e.Left, fc, info)
	info = c.analyseExpr(e.Right, fc, info)

	var checked ast.Expression
	switch {
	case ast.IsNullLiteral(e.Right):
		checked = e.Left
	case ast.IsNullLiteral(e.Left):
		checked = e.Right
	}
	v, ok := c.trackedLocal(checked)
	if checked == nil || !ok {
		return c.conditionOf(e, info, info.UnconditionalCopy())
	}

	if info.Reachable() {
		switch info.NullStatus(v.Slot) {
		case flow.IsNull:
			c.report(errors.RedundantNullCheck, e, v.Name())
		case flow.IsNonNull:
			c.report(errors.RedundantNonNullCheck, e, v.Name())
		}
	}
	isNull := info.UnconditionalCopy().MarkAsDefinitelyNull(v.Slot)
	nonNull := info.MarkAsDefinitelyNonNull(v.Slot)
	if negated {
		return c.conditionOf(e, nonNull, isNull)
	}
	return c.conditionOf(e, isNull, nonNull)
}

// ============================================================================
// 循环中的空值状态
// ============================================================================

// loopEntry 循环头部的信息：循环内被赋值的变量空值状态未知，
// 对它们的解引用挂在循环上，等回边合并后再判定
func (c *checker) loopEntry(info *flow.Unconditional, parts ...ast.Node) *flow.Unconditional {
	head := info.UnconditionalCopy()
	for _, n := range parts {
		if n == nil {
			continue
		}
		ast.Inspect(n, func(x ast.Node) bool {
			var target ast.Expression
			switch x := x.(type) {
			case *ast.FunctionExpr, *ast.FunctionDecl, *ast.ClassDecl:
				return false
			case *ast.AssignExpr:
				target = x.Target
			case *ast.UpdateExpr:
				target = x.X
			case *ast.Declarator:
				if v, ok := c.info.BindingOf(x).(*lookup.VariableBinding); ok && c.tracked(v) {
					head.MarkNullStatusUnknown(v.Slot)
				}
			}
			if v, ok := c.trackedLocal(target); ok {
				head.MarkNullStatusUnknown(v.Slot)
			}
			return true
		})
	}
	return head
}
