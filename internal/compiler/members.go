package compiler

import (
	"github.com/tangzhangming/jscheck/internal/ast"
	"github.com/tangzhangming/jscheck/internal/errors"
	"github.com/tangzhangming/jscheck/internal/lookup"
	"github.com/tangzhangming/jscheck/internal/types"
)

// ============================================================================
// 成员访问与调用
// ============================================================================

// memberClass 接收者的成员类；null、void 或没有成员的基本类型报告 PrimitiveReceiver
func (c *checker) memberClass(recv lookup.TypeBinding, name string, f *ast.FieldRef) *lookup.ClassBinding {
	cls := c.env.MemberClass(recv)
	if cls == nil {
		c.reportAt(errors.PrimitiveReceiver, f.NameSpan, name, recv.String())
	}
	return cls
}

func (c *checker) fieldAccess(e *ast.FieldRef) lookup.TypeBinding {
	recv, static := c.receiver(e.Receiver)
	if recv == nil || !lookup.IsValid(recv) {
		return nil
	}
	if recv.ID() == types.Any {
		return c.anyType()
	}
	cls := c.memberClass(recv, e.Name, e)
	if cls == nil {
		return nil
	}

	if f := cls.FindField(e.Name); f != nil {
		c.info.setBinding(e, f)
		f.Uses++
		if !lookup.Visible(f.Modifiers, f.Class, c.enclosingClass()) {
			c.reportAt(errors.NotVisible, e.NameSpan, e.Name)
			return nil
		}
		if static && !f.IsStatic() {
			p := c.reportAt(errors.StaticReference, e.NameSpan, e.Name)
			suggest(p, e.Name, nil)
			return nil
		}
		if !static && f.IsStatic() {
			c.reportAt(errors.IndirectStaticAccess, e.NameSpan, e.Name)
		}
		c.deprecated(e, e.Name, f.IsDeprecated(), f.Class)
		if f.Constant.IsValid() {
			c.info.setConstant(e, f.Constant)
		}
		if f.Type == nil {
			return c.anyType()
		}
		return f.Type
	}

	if ms := cls.FindMethods(e.Name); len(ms) > 0 {
		c.info.setBinding(e, ms[0])
		return &lookup.FunctionType{Method: ms[0]}
	}
	if cls.Dynamic {
		return c.anyType()
	}
	p := c.reportAt(errors.UndefinedField, e.NameSpan, e.Name, recv.String())
	suggest(p, e.Name, cls.MemberNames())
	e.Set(ast.Invalid)
	return nil
}

func (c *checker) resolveArgs(args []ast.Expression) []lookup.TypeBinding {
	out := make([]lookup.TypeBinding, len(args))
	for i, a := range args {
		out[i] = c.resolveExpr(a)
	}
	return out
}

// checkArgs 逐个检查有注解的形参
func (c *checker) checkArgs(args []ast.Expression, m *lookup.MethodBinding, ts []lookup.TypeBinding) {
	for i, a := range args {
		if i < len(m.Params) && m.Params[i] != nil {
			c.checkAssignable(a, ts[i], m.Params[i])
		}
	}
}

// checkArity 实参个数不匹配时报告并返回 false
func (c *checker) checkArity(n ast.Node, m *lookup.MethodBinding, argc int) bool {
	if m.Accepts(argc) {
		return true
	}
	c.report(errors.ArgumentCount, n, m.Signature(), m.Arity(), argc)
	return false
}

func (c *checker) returnType(m *lookup.MethodBinding) lookup.TypeBinding {
	if m.Return == nil {
		return c.anyType()
	}
	return m.Return
}

func (c *checker) call(e *ast.CallExpr) lookup.TypeBinding {
	switch callee := e.Callee.(type) {
	case *ast.FieldRef:
		callee.Set(ast.HasBeenResolved)
		return c.methodCall(e, callee)

	case *ast.Ident:
		callee.Set(ast.HasBeenResolved)
		t := c.info.setType(callee, c.ident(callee, receiverMask))
		args := c.resolveArgs(e.Args)
		switch b := c.info.BindingOf(callee).(type) {
		case *lookup.MethodBinding:
			m := b
			if b.Class != nil {
				// 隐式 this 调用按实参个数重新选择重载
				if sel, _ := b.Class.SelectMethod(b.Name(), len(args)); sel != nil {
					m = sel
					c.info.setBinding(callee, m)
				}
			}
			if c.checkArity(e, m, len(args)) {
				c.checkArgs(e.Args, m, args)
			}
			return c.returnType(m)
		case *lookup.ClassBinding:
			return c.conversionCall(callee, b)
		case *lookup.VariableBinding:
			return c.callValue(e, t, args)
		}
		return nil
	}

	t := c.resolveExpr(e.Callee)
	return c.callValue(e, t, c.resolveArgs(e.Args))
}

// methodCall recv.name(args)
func (c *checker) methodCall(e *ast.CallExpr, f *ast.FieldRef) lookup.TypeBinding {
	recv, static := c.receiver(f.Receiver)
	args := c.resolveArgs(e.Args)
	if recv == nil || !lookup.IsValid(recv) {
		return nil
	}
	if recv.ID() == types.Any {
		return c.anyType()
	}
	cls := c.memberClass(recv, f.Name, f)
	if cls == nil {
		return nil
	}

	m, ok := cls.SelectMethod(f.Name, len(args))
	if m == nil {
		if fld := cls.FindField(f.Name); fld != nil {
			// 字段里保存的函数值
			fld.Uses++
			c.info.setBinding(f, fld)
			c.info.setType(f, fld.Type)
			return c.callValue(e, fld.Type, args)
		}
		if cls.Dynamic {
			return c.anyType()
		}
		p := c.reportAt(errors.UndefinedMethod, f.NameSpan, f.Name, recv.String())
		suggest(p, f.Name, cls.MemberNames())
		f.Set(ast.Invalid)
		return nil
	}

	c.info.setBinding(f, m)
	c.info.setType(f, &lookup.FunctionType{Method: m})
	if !ok {
		c.report(errors.ArgumentCount, e, m.Signature(), m.Arity(), len(args))
		return c.returnType(m)
	}
	if !lookup.Visible(m.Modifiers, m.Class, c.enclosingClass()) {
		c.reportAt(errors.NotVisible, f.NameSpan, f.Name)
	}
	if static && !m.IsStatic() {
		p := c.reportAt(errors.StaticReference, f.NameSpan, f.Name)
		suggest(p, f.Name, nil)
	}
	c.deprecated(f, f.Name, m.IsDeprecated(), m.Class)
	c.checkArgs(e.Args, m, args)
	return c.returnType(m)
}

// callValue 调用一个函数值
func (c *checker) callValue(e *ast.CallExpr, t lookup.TypeBinding, args []lookup.TypeBinding) lookup.TypeBinding {
	if t == nil || !lookup.IsValid(t) {
		return nil
	}
	if t.ID() == types.Any || t == lookup.TypeBinding(c.env.Function) {
		return c.anyType()
	}
	ft, ok := t.(*lookup.FunctionType)
	if !ok {
		c.report(errors.NotCallable, e.Callee, t.String())
		return nil
	}
	if c.checkArity(e, ft.Method, len(args)) {
		c.checkArgs(e.Args, ft.Method, args)
	}
	return c.returnType(ft.Method)
}

// conversionCall 以函数方式调用内置类做类型转换：String(x)、Number(x)、Boolean(x)
func (c *checker) conversionCall(callee *ast.Ident, cls *lookup.ClassBinding) lookup.TypeBinding {
	switch cls {
	case c.env.String:
		return c.env.String
	case c.env.Number:
		return c.base(types.Double)
	case c.env.Boolean:
		return c.base(types.Boolean)
	}
	if cls.Builtin {
		return c.anyType()
	}
	c.report(errors.NotCallable, callee, cls.Name())
	return nil
}

// ============================================================================
// 构造
// ============================================================================

// superCall super(args)：只能是构造函数的第一条语句
func (c *checker) superCall(e *ast.SuperCall) lookup.TypeBinding {
	void := c.base(types.Void)
	m := c.method
	ms := c.scope.MethodScope()
	if m == nil || !m.IsConstructor() || m.Class == nil || ms == nil || ms.Method != m || !c.isLeadingSuperCall(e, m) {
		c.report(errors.InvalidSuperCall, e)
		c.resolveArgs(e.Args)
		return void
	}

	scope := lookup.NewBlockScope(c.scope, e.ID())
	scope.CtorCall = true
	var args []lookup.TypeBinding
	_ = c.inScope(scope, func() error {
		args = c.resolveArgs(e.Args)
		return nil
	})

	super := m.Class.Super
	if super == nil {
		return void
	}
	if ctor := super.FindConstructor(); ctor != nil {
		if c.checkArity(e, ctor, len(args)) {
			c.checkArgs(e.Args, ctor, args)
		}
	} else if len(args) > 0 {
		c.report(errors.ArgumentCount, e, super.Name()+"()", 0, len(args))
	}
	return void
}

func (c *checker) isLeadingSuperCall(e *ast.SuperCall, m *lookup.MethodBinding) bool {
	fn, ok := c.u.File.Arena.Node(m.Decl).(*ast.FunctionDecl)
	if !ok || fn.Body == nil || len(fn.Body.Stmts) == 0 {
		return false
	}
	s, ok := fn.Body.Stmts[0].(*ast.ExprStmt)
	return ok && s.X == ast.Expression(e)
}

func (c *checker) newExpr(e *ast.NewExpr) lookup.TypeBinding {
	t := c.resolveTypeRef(e.Type)
	args := c.resolveArgs(e.Args)
	e.Set(ast.NonNull)
	if t == nil || !lookup.IsValid(t) {
		return nil
	}

	switch t := t.(type) {
	case *lookup.ArrayType:
		return t
	case *lookup.ClassBinding:
		if ctor := t.FindConstructor(); ctor != nil {
			if !lookup.Visible(ctor.Modifiers, t, c.enclosingClass()) {
				c.report(errors.NotVisible, e.Type, ctor.Signature())
			}
			if c.checkArity(e, ctor, len(args)) {
				c.checkArgs(e.Args, ctor, args)
			}
		} else if len(args) > 0 && !t.Builtin {
			c.report(errors.ArgumentCount, e, t.Name()+"()", 0, len(args))
		}
		return t
	}
	if t.ID() == types.Any {
		return t
	}
	c.report(errors.NotConstructible, e.Type, t.String())
	return nil
}
