package compiler

import (
	"github.com/tangzhangming/jscheck/internal/ast"
	"github.com/tangzhangming/jscheck/internal/constant"
	"github.com/tangzhangming/jscheck/internal/errors"
	"github.com/tangzhangming/jscheck/internal/lookup"
	"github.com/tangzhangming/jscheck/internal/types"
)

// ============================================================================
// 类
// ============================================================================
//
// 一个语句列表中的类分三步准备：先声明全部类名，再连接父类，最后建立成员。
// 这样同一列表里的类可以互相引用，与声明顺序无关。
// 方法体和字段初始化在类声明语句处解析，外面包一层类型级中止边界。
// ============================================================================

func (c *checker) prepareClasses(stmts []ast.Statement, scope *lookup.Scope) {
	var bound []*ast.ClassDecl
	for _, s := range stmts {
		d, ok := s.(*ast.ClassDecl)
		if !ok || d.Has(ast.LocalsBuilt) {
			continue
		}
		d.Set(ast.LocalsBuilt)
		if c.declareClass(d, scope) {
			bound = append(bound, d)
		}
	}
	if len(bound) == 0 {
		return
	}

	saved := c.scope
	c.scope = scope
	defer func() { c.scope = saved }()

	for _, d := range bound {
		c.connectSuper(d)
	}
	for _, d := range bound {
		c.buildMembers(d)
	}
}

func (c *checker) declareClass(d *ast.ClassDecl, scope *lookup.Scope) bool {
	if c.env.BaseNamed(d.Name) != nil || c.env.LookupType(d.Name) != nil {
		c.reportAt(errors.DuplicateType, d.NameSpan, d.Name)
		return false
	}
	cls := lookup.NewClass(d.Name, d.Modifiers, d.ID(), d.NameSpan)
	cls.Super = c.env.Object
	if prev, err := scope.Declare(cls); err != nil || prev != nil {
		c.reportAt(errors.DuplicateType, d.NameSpan, d.Name)
		return false
	}
	c.info.setBinding(d, cls)
	c.info.Scopes[d.ID()] = lookup.NewClassScope(scope, cls)
	return true
}

func (c *checker) connectSuper(d *ast.ClassDecl) {
	cls := c.info.BindingOf(d).(*lookup.ClassBinding)
	if d.Super == nil {
		return
	}
	switch st := c.resolveTypeRef(d.Super).(type) {
	case *lookup.ClassBinding:
		if st.IsSubclassOf(cls) {
			c.report(errors.HierarchyCycle, d.Super, d.Name)
			return
		}
		cls.Super = st
	case *lookup.ProblemType:
	default:
		c.report(errors.TypeMismatch, d.Super, typeName(st), "class")
	}
}

func (c *checker) buildMembers(d *ast.ClassDecl) {
	cls := c.info.BindingOf(d).(*lookup.ClassBinding)
	saved := c.scope
	c.scope = cls.Scope
	defer func() { c.scope = saved }()

	for _, f := range d.Fields {
		var t lookup.TypeBinding
		if f.Type != nil {
			t = c.resolveTypeRef(f.Type)
		}
		fb := lookup.NewField(f.Name, f.Modifiers, t, cls, f.ID(), f.Span())
		fb.Inferred = f.Type == nil
		if prev := cls.AddField(fb); prev != nil {
			c.report(errors.DuplicateField, f, f.Name, d.Name)
			continue
		}
		c.info.setBinding(f, fb)
	}

	for _, fn := range d.Methods {
		var m *lookup.MethodBinding
		if fn.Kind == ast.FuncConstructor {
			m = lookup.NewConstructor(cls, fn.ID(), fn.NameSpan)
		} else {
			m = lookup.NewMethod(fn.Name, fn.Modifiers, cls, fn.ID(), fn.NameSpan)
		}
		c.signature(fn, m)
		if prev := cls.AddMethod(m); prev != nil {
			// 没有绑定的方法在解析时触发方法级中止
			c.reportAt(errors.DuplicateMethod, fn.NameSpan, functionName(fn), d.Name)
			continue
		}
		c.info.setBinding(fn, m)
	}
}

// resolveClass 解析字段初始化和方法体
func (c *checker) resolveClass(d *ast.ClassDecl) error {
	if d.Has(ast.HasBeenResolved) || d.Has(ast.IgnoreFurtherInvestigation) {
		return nil
	}
	d.Set(ast.HasBeenResolved)
	return c.typeBoundary(d, c.resolveClassBody(d))
}

func (c *checker) resolveClassBody(d *ast.ClassDecl) error {
	cls, ok := c.info.BindingOf(d).(*lookup.ClassBinding)
	if !ok {
		p := c.reportAt(errors.MissingBinding, d.NameSpan, d.Name)
		return errors.NewAbort(errors.AbortType, p)
	}

	savedScope, savedMethod, savedRet := c.scope, c.method, c.ret
	defer func() { c.scope, c.method, c.ret = savedScope, savedMethod, savedRet }()

	for _, f := range d.Fields {
		if f.Init == nil {
			continue
		}
		c.resolveFieldInit(cls, f)
		if err := c.takePending(); err != nil {
			return err
		}
	}
	for _, fn := range d.Methods {
		if err := c.resolveFunction(fn, cls.Scope, fn.Modifiers.Has(ast.ModStatic)); err != nil {
			return err
		}
	}
	return nil
}

// resolveFieldInit 字段初始化在自己的方法作用域（没有方法绑定）中解析
func (c *checker) resolveFieldInit(cls *lookup.ClassBinding, f *ast.FieldDecl) {
	ms := lookup.NewMethodScope(cls.Scope, nil, f.ID(), f.Modifiers.Has(ast.ModStatic))
	c.info.Scopes[f.ID()] = ms
	c.scope, c.method, c.ret = ms, nil, nil

	t := c.resolveExpr(f.Init)
	ms.Freeze()

	fb, ok := c.info.BindingOf(f).(*lookup.VariableBinding)
	if !ok {
		return
	}
	if fb.Inferred {
		if fb.Type == nil {
			fb.Type = c.inferredType(t)
		}
	} else {
		c.checkAssignable(f.Init, t, fb.Type)
	}
	if fb.IsConst() {
		fb.Constant = c.constantFor(f.Init, fb.Type)
	}
}

// constantFor 初始化表达式的常量值，转换到声明类型
func (c *checker) constantFor(init ast.Expression, t lookup.TypeBinding) constant.Value {
	k := c.info.ConstantOf(init)
	if !k.IsValid() || t == nil {
		return k
	}
	if b, ok := t.(*lookup.BaseType); ok && b.ID().IsNumeric() {
		return k.Convert(b.ID())
	}
	if t.ID() == types.String && k.Type() == types.String {
		return k
	}
	if t.ID() == types.Any {
		return k
	}
	return constant.NotAConstant
}
