package compiler

import (
	"strings"

	"github.com/tangzhangming/jscheck/internal/ast"
	"github.com/tangzhangming/jscheck/internal/constant"
	"github.com/tangzhangming/jscheck/internal/errors"
	"github.com/tangzhangming/jscheck/internal/lookup"
	"github.com/tangzhangming/jscheck/internal/operators"
	"github.com/tangzhangming/jscheck/internal/token"
	"github.com/tangzhangming/jscheck/internal/types"
)

// ============================================================================
// 表达式解析
// ============================================================================
//
// resolveExpr 计算表达式的类型，顺带记录绑定与常量。
// 节点上的 HasBeenResolved 保证每个表达式只解析一次：
// 重复解析直接返回旁表中的类型，不会产生新的绑定或诊断。
// 返回 nil 表示类型未知（通常已经报告过问题），调用方据此跳过后续检查。
// ============================================================================

const (
	valueMask    = lookup.KindVariable | lookup.KindMethod
	receiverMask = lookup.KindVariable | lookup.KindMethod | lookup.KindType
)

func (c *checker) resolveExpr(e ast.Expression) lookup.TypeBinding {
	if e == nil {
		return nil
	}
	if e.Has(ast.HasBeenResolved) {
		return c.info.TypeOf(e)
	}
	e.Set(ast.HasBeenResolved)
	return c.info.setType(e, c.exprType(e))
}

func (c *checker) exprType(e ast.Expression) lookup.TypeBinding {
	switch e := e.(type) {
	case *ast.Literal:
		return c.literal(e)
	case *ast.Ident:
		return c.ident(e, valueMask)
	case *ast.ThisExpr:
		return c.this(e)
	case *ast.SuperExpr:
		return c.super(e)
	case *ast.FieldRef:
		return c.fieldAccess(e)
	case *ast.IndexExpr:
		return c.index(e)
	case *ast.CallExpr:
		return c.call(e)
	case *ast.SuperCall:
		return c.superCall(e)
	case *ast.NewExpr:
		return c.newExpr(e)
	case *ast.AssignExpr:
		return c.assign(e)
	case *ast.BinaryExpr:
		return c.binary(e)
	case *ast.ChainExpr:
		return c.chain(e)
	case *ast.UnaryExpr:
		return c.unary(e)
	case *ast.UpdateExpr:
		return c.update(e)
	case *ast.ConditionalExpr:
		return c.conditional(e)
	case *ast.ArrayLit:
		return c.arrayLit(e)
	case *ast.ObjectLit:
		e.Set(ast.NonNull)
		for _, p := range e.Props {
			c.resolveExpr(p.Value)
		}
		return c.anyType()
	case *ast.FunctionExpr:
		return c.functionExpr(e)
	}
	return nil
}

func (c *checker) literal(e *ast.Literal) lookup.TypeBinding {
	var k constant.Value
	switch e.Kind {
	case token.NULL:
		return c.base(types.Null)
	case token.TRUE:
		k = constant.Bool(true)
	case token.FALSE:
		k = constant.Bool(false)
	case token.INT:
		k = constant.FromLiteral(e.Value).Convert(types.Int)
	case token.FLOAT:
		k = constant.FromLiteral(e.Value).Convert(types.Float)
	default:
		k = constant.FromLiteral(e.Value)
	}
	e.Set(ast.NonNull)
	c.info.setConstant(e, k)
	switch {
	case !k.IsValid():
		return c.anyType()
	case k.Type() == types.String:
		return c.env.String
	}
	return c.base(k.Type())
}

// ============================================================================
// 名字
// ============================================================================

func (c *checker) ident(e *ast.Ident, mask lookup.Kind) lookup.TypeBinding {
	b, depth := c.scope.LookupDepth(e.Name, mask)
	c.info.setBinding(e, b)
	if !lookup.IsValid(b) {
		c.nameProblem(e, b)
		e.Set(ast.Invalid)
		return nil
	}
	e.Depth = depth

	switch b := b.(type) {
	case *lookup.VariableBinding:
		b.Uses++
		if b.IsField() && b.Class != nil && !b.IsStatic() {
			e.Set(ast.ImplicitThis)
		}
		c.deprecated(e, b.Name(), b.IsDeprecated(), b.Class)
		if b.Constant.IsValid() {
			c.info.setConstant(e, b.Constant)
		}
		if b.Type == nil {
			// 没有注解、初始化尚未解析的变量
			return c.anyType()
		}
		return b.Type
	case *lookup.MethodBinding:
		c.deprecated(e, b.Name(), b.IsDeprecated(), b.Class)
		return &lookup.FunctionType{Method: b}
	case lookup.TypeBinding:
		return b
	}
	return nil
}

// nameProblem 把问题绑定的原因翻译成诊断
func (c *checker) nameProblem(e *ast.Ident, b lookup.Binding) {
	pb, ok := b.(*lookup.ProblemBinding)
	if !ok {
		return
	}
	switch pb.Reason {
	case lookup.NotFound:
		p := c.report(errors.UndefinedName, e, e.Name)
		suggest(p, e.Name, c.scope.VisibleNames(lookup.KindAny))
	case lookup.NotVisible:
		c.report(errors.NotVisible, e, e.Name)
	case lookup.Ambiguous:
		c.report(errors.AmbiguousName, e, e.Name)
	case lookup.NonStaticReferenceInStaticContext:
		p := c.report(errors.StaticReference, e, e.Name)
		suggest(p, e.Name, nil)
	case lookup.NonStaticReferenceInConstructorInvocation:
		c.report(errors.ConstructorCallRef, e, e.Name)
	case lookup.InheritedNameHidesEnclosingName:
		c.report(errors.InheritedNameHides, e, e.Name)
	}
}

// receiver 解析成员访问的接收者；接收者是类型名时 static 为 true
func (c *checker) receiver(x ast.Expression) (t lookup.TypeBinding, static bool) {
	id, ok := x.(*ast.Ident)
	if !ok {
		return c.resolveExpr(x), false
	}
	if !id.Has(ast.HasBeenResolved) {
		id.Set(ast.HasBeenResolved)
		c.info.setType(id, c.ident(id, receiverMask))
	}
	_, static = c.info.BindingOf(id).(lookup.TypeBinding)
	return c.info.TypeOf(id), static
}

// ============================================================================
// this 与 super
// ============================================================================

// classMethodScope 当前位置直接属于某个类的方法作用域；嵌套函数里没有
func (c *checker) classMethodScope() *lookup.Scope {
	ms := c.scope.MethodScope()
	if ms == nil || ms.Parent == nil || ms.Parent.Kind != lookup.ClassScope {
		return nil
	}
	return ms
}

// inCtorCall 是否位于 super(...) 的实参中
func (c *checker) inCtorCall() bool {
	for sc := c.scope; sc != nil && sc.Kind == lookup.BlockScope; sc = sc.Parent {
		if sc.CtorCall {
			return true
		}
	}
	return false
}

func (c *checker) this(e *ast.ThisExpr) lookup.TypeBinding {
	e.Set(ast.NonNull)
	ms := c.classMethodScope()
	if ms == nil {
		return c.anyType()
	}
	if ms.Static {
		c.report(errors.ThisInStaticContext, e)
		return nil
	}
	if c.inCtorCall() {
		c.report(errors.ConstructorCallRef, e, "this")
		return nil
	}
	return ms.Parent.Class
}

func (c *checker) super(e *ast.SuperExpr) lookup.TypeBinding {
	e.Set(ast.NonNull)
	ms := c.classMethodScope()
	if ms == nil {
		c.report(errors.InvalidSuperCall, e)
		return nil
	}
	if ms.Static {
		c.report(errors.ThisInStaticContext, e)
		return nil
	}
	if s := ms.Parent.Class.Super; s != nil {
		return s
	}
	return c.env.Object
}

// ============================================================================
// 赋值
// ============================================================================

func (c *checker) assign(e *ast.AssignExpr) lookup.TypeBinding {
	compound := e.Op != types.OpNone
	lt := c.target(e.Target, compound)
	rt := c.resolveExpr(e.Value)

	if !compound {
		if !c.isInferredTarget(e.Target) {
			c.checkAssignable(e.Value, rt, lt)
		}
		c.noEffect(e)
		if lt == nil {
			return rt
		}
		return lt
	}

	sig, ok := c.operatorSignature(e, e.Op, lt, rt)
	if !ok {
		return lt
	}
	e.Implicit = uint32(sig)
	return lt
}

// target 解析赋值目标并检查可写性
func (c *checker) target(t ast.Expression, compound bool) lookup.TypeBinding {
	if compound {
		t.Set(ast.CompoundAssigned)
	} else {
		t.Set(ast.StrictlyAssigned)
	}

	switch x := t.(type) {
	case *ast.Ident, *ast.FieldRef:
		tt := c.resolveExpr(x)
		switch b := c.info.BindingOf(x).(type) {
		case *lookup.VariableBinding:
			c.checkFinal(x, b)
		case *lookup.MethodBinding, lookup.TypeBinding:
			c.report(errors.NotWritable, x)
			return nil
		}
		return tt
	case *ast.IndexExpr:
		return c.resolveExpr(x)
	}
	c.resolveExpr(t)
	c.report(errors.NotWritable, t)
	return nil
}

// checkFinal final 字段只能在同一类的构造函数或字段初始化中赋值；const 局部变量不能再赋值
func (c *checker) checkFinal(n ast.Node, v *lookup.VariableBinding) {
	if !v.IsConst() {
		return
	}
	if v.IsField() && v.Class != nil && v.Class == c.enclosingClass() {
		if c.method == nil || (c.method.IsConstructor() && c.method.Class == v.Class) {
			return
		}
	}
	c.report(errors.FinalAssignment, n, v.Name())
}

func (c *checker) isInferredTarget(t ast.Expression) bool {
	v, ok := c.info.BindingOf(t).(*lookup.VariableBinding)
	return ok && v.Inferred
}

// noEffect x = x 与 this.f = this.f
func (c *checker) noEffect(e *ast.AssignExpr) {
	if e.Has(ast.IgnoreNoEffectAssign) {
		return
	}
	var name string
	switch l := e.Target.(type) {
	case *ast.Ident:
		if _, ok := e.Value.(*ast.Ident); !ok {
			return
		}
		name = l.Name
	case *ast.FieldRef:
		r, ok := e.Value.(*ast.FieldRef)
		if !ok {
			return
		}
		_, lthis := l.Receiver.(*ast.ThisExpr)
		_, rthis := r.Receiver.(*ast.ThisExpr)
		if !lthis || !rthis {
			return
		}
		name = l.Name
	default:
		return
	}
	lb, rb := c.info.BindingOf(e.Target), c.info.BindingOf(e.Value)
	if lb != nil && lb == rb && lookup.IsValid(lb) {
		c.report(errors.NoEffectAssignment, e, name)
	}
}

// ============================================================================
// 运算符
// ============================================================================

// operatorSignature 查运算符表；组合未定义且两侧都不是 any 时报告
func (c *checker) operatorSignature(n ast.Node, op types.Operator, lt, rt lookup.TypeBinding) (operators.Signature, bool) {
	if lt == nil || rt == nil || !lookup.IsValid(lt) || !lookup.IsValid(rt) {
		return 0, false
	}
	sig := operators.Lookup(op, c.env.OperandID(lt), c.env.OperandID(rt))
	if sig.Valid() {
		return sig, true
	}
	if lt.ID() != types.Any && rt.ID() != types.Any {
		c.report(errors.InvalidOperator, n, op.String(), lt.String(), rt.String())
	}
	return 0, false
}

// unknownResult 运算没有签名时的结果：一侧是 any 时为 any，否则未知
func (c *checker) unknownResult(lt, rt lookup.TypeBinding) lookup.TypeBinding {
	if lt == nil || rt == nil || !lookup.IsValid(lt) || !lookup.IsValid(rt) {
		return nil
	}
	if lt.ID() == types.Any || rt.ID() == types.Any {
		return c.anyType()
	}
	return nil
}

func (c *checker) binary(e *ast.BinaryExpr) lookup.TypeBinding {
	lt := c.resolveExpr(e.Left)
	if e.Op == types.InstanceOf {
		return c.instanceOf(e, lt)
	}
	rt := c.resolveExpr(e.Right)

	sig, ok := c.operatorSignature(e, e.Op, lt, rt)
	if !ok {
		return c.unknownResult(lt, rt)
	}
	e.Implicit = uint32(sig)

	res := c.env.FromID(sig.Result())
	if e.Op == types.In {
		res = c.base(types.Boolean)
	}
	k := constant.Binary(e.Op, c.info.ConstantOf(e.Left), sig.Left(), c.info.ConstantOf(e.Right), sig.Right(), sig.Result())
	if k.IsValid() {
		c.info.setConstant(e, k)
	} else {
		c.optimizeLogical(e, e.Op, []ast.Expression{e.Left, e.Right})
	}
	return res
}

// optimizeLogical && 与 || 的短路常量：不是常量但能确定真假
func (c *checker) optimizeLogical(e ast.Expression, op types.Operator, operands []ast.Expression) {
	var stop, keep func(ast.Expression) bool
	switch op {
	case types.AndAnd:
		stop, keep = c.info.isFalse, c.info.isTrue
	case types.OrOr:
		stop, keep = c.info.isTrue, c.info.isFalse
	default:
		return
	}
	all := true
	for _, x := range operands {
		if stop(x) {
			c.info.setOptimized(e, constant.Bool(op == types.OrOr))
			return
		}
		all = all && keep(x)
	}
	if all {
		c.info.setOptimized(e, constant.Bool(op == types.AndAnd))
	}
}

// instanceOf 右侧必须是类型名
func (c *checker) instanceOf(e *ast.BinaryExpr, lt lookup.TypeBinding) lookup.TypeBinding {
	boolean := c.base(types.Boolean)
	id, ok := e.Right.(*ast.Ident)
	if !ok {
		c.resolveExpr(e.Right)
		c.report(errors.InstanceofRequiresType, e.Right)
		return boolean
	}
	id.Set(ast.HasBeenResolved)
	t := c.scope.ResolveType(id.Name, 0)
	c.info.setBinding(id, t)
	c.info.setType(id, t)
	if _, bad := t.(*lookup.ProblemType); bad {
		p := c.report(errors.UndefinedType, id, id.Name)
		suggest(p, id.Name, c.scope.VisibleNames(lookup.KindType))
		return boolean
	}
	if sig, ok := c.operatorSignature(e, types.InstanceOf, lt, t); ok {
		e.Implicit = uint32(sig)
	}
	return boolean
}

// chain 左结合的同一运算符长链，迭代处理避免深递归
//
// 字符串拼接的折叠结果先写进 strings.Builder，整条链结束时才生成常量。
func (c *checker) chain(e *ast.ChainExpr) lookup.TypeBinding {
	if n := len(e.Operands) - 1; len(e.Steps) != n {
		e.Steps = make([]uint32, n)
	}
	acc := c.resolveExpr(e.Operands[0])
	k := c.info.ConstantOf(e.Operands[0])

	var sb strings.Builder
	concat := false
	for i, x := range e.Operands[1:] {
		rt := c.resolveExpr(x)
		sig, ok := c.operatorSignature(x, e.Op, acc, rt)
		if !ok {
			acc = c.unknownResult(acc, rt)
			k, concat = constant.NotAConstant, false
			continue
		}
		e.Steps[i] = uint32(sig)

		rk := c.info.ConstantOf(x)
		switch {
		case !k.IsValid() || !rk.IsValid():
			k, concat = constant.NotAConstant, false
		case e.Op == types.Plus && sig.Result() == types.String:
			if !concat {
				sb.Reset()
				sb.WriteString(k.String())
				concat = true
			}
			sb.WriteString(rk.String())
		default:
			if concat {
				k, concat = constant.String(sb.String()), false
			}
			k = constant.Binary(e.Op, k, sig.Left(), rk, sig.Right(), sig.Result())
		}
		acc = c.env.FromID(sig.Result())
	}
	if concat {
		k = constant.String(sb.String())
	}
	if k.IsValid() {
		c.info.setConstant(e, k)
	} else if acc != nil {
		c.optimizeLogical(e, e.Op, e.Operands)
	}
	return acc
}

func (c *checker) unary(e *ast.UnaryExpr) lookup.TypeBinding {
	t := c.resolveExpr(e.X)
	if e.Op == types.TypeOf {
		if k := constant.Unary(types.TypeOf, c.info.ConstantOf(e.X)); k.IsValid() {
			c.info.setConstant(e, k)
		}
		return c.env.String
	}
	if t == nil || !lookup.IsValid(t) {
		return nil
	}

	id := c.env.OperandID(t)
	var res lookup.TypeBinding
	switch e.Op {
	case types.Not:
		if id == types.Boolean || id == types.Any {
			res = c.base(types.Boolean)
		}
		switch {
		case c.info.isTrue(e.X):
			c.info.setOptimized(e, constant.Bool(false))
		case c.info.isFalse(e.X):
			c.info.setOptimized(e, constant.Bool(true))
		}
	case types.UnaryMinus, types.UnaryPlus, types.Twiddle:
		switch {
		case id == types.Any:
			res = c.anyType()
		case !id.IsNumeric(), e.Op == types.Twiddle && !id.IsIntegral():
		case id == types.Char || id == types.Short:
			res = c.base(types.Int)
		default:
			res = c.base(id)
		}
	}
	if res == nil {
		c.report(errors.InvalidUnaryOperator, e, e.Op.String(), t.String())
		return nil
	}
	if k := constant.Unary(e.Op, c.info.ConstantOf(e.X)); k.IsValid() {
		c.info.setConstant(e, k)
	}
	return res
}

func (c *checker) update(e *ast.UpdateExpr) lookup.TypeBinding {
	t := c.target(e.X, true)
	if t == nil || !lookup.IsValid(t) {
		return t
	}
	if id := c.env.OperandID(t); id != types.Any && !id.IsNumeric() {
		c.report(errors.InvalidUnaryOperator, e, e.Op.String(), t.String())
		return nil
	}
	return t
}

// ============================================================================
// 条件表达式
// ============================================================================

func (c *checker) conditional(e *ast.ConditionalExpr) lookup.TypeBinding {
	c.resolveExpr(e.Cond)
	tt := c.resolveExpr(e.Then)
	et := c.resolveExpr(e.Else)
	t := c.conditionalType(e, tt, et)

	var k constant.Value
	switch {
	case c.info.isTrue(e.Cond):
		k = c.info.ConstantOf(e.Then)
	case c.info.isFalse(e.Cond):
		k = c.info.ConstantOf(e.Else)
	}
	if k.IsValid() && t != nil {
		if id := t.ID(); id.IsNumeric() {
			k = k.Convert(id)
		}
		c.info.setConstant(e, k)
	}
	return t
}

// conditionalType ?: 的结果类型
func (c *checker) conditionalType(e *ast.ConditionalExpr, tt, et lookup.TypeBinding) lookup.TypeBinding {
	if tt == nil || et == nil || !lookup.IsValid(tt) || !lookup.IsValid(et) {
		return nil
	}
	if tt == et {
		return tt
	}
	lid, rid := tt.ID(), et.ID()
	if lid == types.Any || rid == types.Any {
		return c.anyType()
	}
	_, lbase := tt.(*lookup.BaseType)
	_, rbase := et.(*lookup.BaseType)
	if lbase && rbase && lid.IsNumeric() && rid.IsNumeric() {
		return c.base(c.numericConditional(e, lid, rid))
	}
	switch {
	case lid == types.Null:
		return et
	case rid == types.Null:
		return tt
	case c.env.Assignable(tt, et, constant.NotAConstant):
		return et
	case c.env.Assignable(et, tt, constant.NotAConstant):
		return tt
	}
	return c.anyType()
}

// numericConditional 两个不同数值类型的 ?: 阶梯
func (c *checker) numericConditional(e *ast.ConditionalExpr, l, r types.TypeID) types.TypeID {
	kl, kr := c.info.ConstantOf(e.Then), c.info.ConstantOf(e.Else)
	// short 或 char 与能放进它的 int 常量组合时保持较窄的类型
	narrow := func(t, other types.TypeID, k constant.Value) bool {
		return (t == types.Short || t == types.Char) && other == types.Int && constant.IsRepresentable(k, t)
	}
	switch {
	case l == types.Short && r == types.Char, l == types.Char && r == types.Short:
		return types.Int
	case narrow(l, r, kr):
		return l
	case narrow(r, l, kl):
		return r
	case l == types.Double || r == types.Double:
		return types.Double
	case l == types.Float || r == types.Float:
		return types.Float
	case l == types.Long || r == types.Long:
		return types.Long
	}
	return types.Int
}

// ============================================================================
// 下标、字面量、函数表达式
// ============================================================================

func (c *checker) index(e *ast.IndexExpr) lookup.TypeBinding {
	xt := c.resolveExpr(e.X)
	it := c.resolveExpr(e.Index)
	if xt == nil || !lookup.IsValid(xt) {
		return nil
	}
	switch t := xt.(type) {
	case *lookup.ArrayType:
		if it != nil && lookup.IsValid(it) {
			if id := c.env.OperandID(it); id != types.Any && !id.IsIntegral() {
				c.report(errors.TypeMismatch, e.Index, it.String(), types.Int.String())
			}
		}
		return t.Elem
	case *lookup.ClassBinding:
		if t == c.env.String {
			return c.env.String
		}
		return c.anyType()
	}
	if xt.ID() == types.Any {
		return c.anyType()
	}
	c.report(errors.PrimitiveReceiver, e, "[]", xt.String())
	return nil
}

func (c *checker) arrayLit(e *ast.ArrayLit) lookup.TypeBinding {
	e.Set(ast.NonNull)
	var elem lookup.TypeBinding
	uniform := len(e.Elems) > 0
	for i, x := range e.Elems {
		t := c.resolveExpr(x)
		if i == 0 {
			elem = t
		} else if t != elem {
			uniform = false
		}
	}
	if !uniform || elem == nil || !lookup.IsValid(elem) {
		elem = c.anyType()
	}
	switch elem.ID() {
	case types.Null, types.Void:
		elem = c.anyType()
	}
	return c.env.ArrayOf(elem, 1)
}

func (c *checker) functionExpr(e *ast.FunctionExpr) lookup.TypeBinding {
	e.Set(ast.NonNull)
	fn := e.Func
	m, ok := c.info.BindingOf(fn).(*lookup.MethodBinding)
	if !ok {
		m = lookup.NewFunction(fn.Name, fn.ID(), fn.NameSpan)
		c.signature(fn, m)
		c.info.setBinding(fn, m)
	}
	if err := c.resolveFunction(fn, c.scope, false); err != nil && c.pending == nil {
		c.pending = err
	}
	return &lookup.FunctionType{Method: m}
}
