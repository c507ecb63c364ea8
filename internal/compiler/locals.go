package compiler

import (
	"github.com/tangzhangming/jscheck/internal/ast"
	"github.com/tangzhangming/jscheck/internal/errors"
	"github.com/tangzhangming/jscheck/internal/lookup"
	"github.com/tangzhangming/jscheck/internal/token"
)

// ============================================================================
// 局部声明提升
// ============================================================================
//
// 在解析函数体之前，先把 var 声明和函数声明登记到方法作用域，
// 使同一函数内的向前引用不需要第二遍解析。
// 提升不进入嵌套的函数和类；owner 上的 LocalsBuilt 标志让重复调用成为空操作。
// ============================================================================

// buildLocals 提升 stmts 中的 var 与函数声明到 scope
func (c *checker) buildLocals(owner ast.Node, stmts []ast.Statement, scope *lookup.Scope) {
	if owner.Has(ast.LocalsBuilt) {
		return
	}
	owner.Set(ast.LocalsBuilt)

	saved := c.scope
	c.scope = scope
	defer func() { c.scope = saved }()

	for _, s := range stmts {
		c.hoist(s, scope)
	}
	if scope == c.u.Program {
		c.preDeclareGlobals(stmts)
	}
}

func (c *checker) hoist(s ast.Statement, scope *lookup.Scope) {
	switch s := s.(type) {
	case *ast.VarDecl:
		if s.Kind == token.VAR {
			for _, d := range s.Decls {
				c.declareVar(scope, d, lookup.VarLocal)
			}
		}
	case *ast.FunctionDecl:
		c.declareFunction(scope, s)
	case *ast.Block:
		for _, x := range s.Stmts {
			c.hoist(x, scope)
		}
	case *ast.IfStmt:
		c.hoist(s.Then, scope)
		if s.Else != nil {
			c.hoist(s.Else, scope)
		}
	case *ast.WhileStmt:
		c.hoist(s.Body, scope)
	case *ast.DoWhileStmt:
		c.hoist(s.Body, scope)
	case *ast.ForStmt:
		if s.Init != nil {
			c.hoist(s.Init, scope)
		}
		c.hoist(s.Body, scope)
	case *ast.ForInStmt:
		if s.Decl != nil {
			c.hoist(s.Decl, scope)
		}
		c.hoist(s.Body, scope)
	case *ast.SwitchStmt:
		for _, cc := range s.Cases {
			for _, x := range cc.Body {
				c.hoist(x, scope)
			}
		}
	case *ast.TryStmt:
		c.hoist(s.Body, scope)
		for _, cc := range s.Catches {
			c.hoist(cc.Body, scope)
		}
		if s.Finally != nil {
			c.hoist(s.Finally, scope)
		}
	case *ast.LabeledStmt:
		c.hoist(s.Body, scope)
	}
}

// preDeclareGlobals 顶层 let/const 提前登记为全局名字，类方法可以向前引用；
// 它们仍在声明语句处进入程序作用域并获得槽位。
func (c *checker) preDeclareGlobals(stmts []ast.Statement) {
	for _, s := range stmts {
		vd, ok := s.(*ast.VarDecl)
		if !ok || vd.Kind == token.VAR {
			continue
		}
		kind := lookup.LetLocal
		if vd.Kind == token.CONST {
			kind = lookup.ConstLocal
		}
		for _, d := range vd.Decls {
			if c.info.BindingOf(d) != nil {
				continue
			}
			v := c.newLocal(d, kind)
			c.info.setBinding(d, v)
			c.u.Scope.RegisterGlobal(v)
		}
	}
}

// ============================================================================
// 声明
// ============================================================================

func (c *checker) newLocal(d *ast.Declarator, kind lookup.LocalKind) *lookup.VariableBinding {
	var t lookup.TypeBinding
	if d.Type != nil {
		t = c.resolveTypeRef(d.Type)
	}
	v := lookup.NewLocal(d.Name, kind, t, d.ID(), d.Span())
	v.Inferred = d.Type == nil
	return v
}

// declareVar 在 scope 中声明 d
//
// 同一声明节点再次声明时复用已记录的绑定；var 重复声明复用已有的同名变量。
// 返回 nil 表示名字属于一个函数声明（var 与函数同名）。
func (c *checker) declareVar(scope *lookup.Scope, d *ast.Declarator, kind lookup.LocalKind) *lookup.VariableBinding {
	v, _ := c.info.BindingOf(d).(*lookup.VariableBinding)
	if v != nil && v.Scope != nil {
		return v
	}
	if c.info.BindingOf(d) != nil && v == nil {
		return nil
	}
	if v == nil {
		v = c.newLocal(d, kind)
	}

	prev, err := scope.Declare(v)
	if err != nil {
		c.info.setBinding(d, v)
		return v
	}
	if prev != nil {
		if kind == lookup.VarLocal {
			c.info.setBinding(d, prev)
			pv, _ := prev.(*lookup.VariableBinding)
			return pv
		}
		c.report(errors.DuplicateLocal, d, d.Name)
		c.info.setBinding(d, v)
		return v
	}

	c.checkHiding(scope, d, d.Name)
	c.info.setBinding(d, v)
	if scope == c.u.Program {
		c.u.Scope.RegisterGlobal(v)
	}
	return v
}

// declareFunction 为函数声明创建绑定并登记到 scope
func (c *checker) declareFunction(scope *lookup.Scope, fn *ast.FunctionDecl) *lookup.MethodBinding {
	if m, ok := c.info.BindingOf(fn).(*lookup.MethodBinding); ok {
		return m
	}
	m := lookup.NewFunction(fn.Name, fn.ID(), fn.NameSpan)
	c.signature(fn, m)
	c.info.setBinding(fn, m)

	prev, err := scope.Declare(m)
	switch {
	case err != nil:
	case prev != nil:
		// 与 var 同名是合法的，两个同名函数声明不是
		if _, isFunc := prev.(*lookup.MethodBinding); isFunc {
			c.reportAt(errors.DuplicateLocal, fn.NameSpan, fn.Name)
		}
	case scope == c.u.Program:
		c.u.Scope.RegisterGlobal(m)
	}
	return m
}

// signature 解析参数与返回类型注解
func (c *checker) signature(fn *ast.FunctionDecl, m *lookup.MethodBinding) {
	m.Params = make([]lookup.TypeBinding, len(fn.Params))
	m.ParamNames = make([]string, len(fn.Params))
	for i, p := range fn.Params {
		m.ParamNames[i] = p.Name
		if p.Type != nil {
			m.Params[i] = c.resolveTypeRef(p.Type)
		}
	}
	if fn.ReturnType != nil {
		m.Return = c.resolveTypeRef(fn.ReturnType)
	}
	m.Modifiers |= fn.Modifiers
}

// checkHiding 局部名字遮蔽同一函数内的外层局部变量或所在类的字段
func (c *checker) checkHiding(scope *lookup.Scope, n ast.Node, name string) {
	if scope.Kind != lookup.MethodScope {
		for sc := scope.Parent; sc != nil; sc = sc.Parent {
			if v, ok := sc.Local(name).(*lookup.VariableBinding); ok && !v.IsField() {
				c.report(errors.LocalHidesLocal, n, name)
				return
			}
			if sc.Kind == lookup.MethodScope {
				break
			}
		}
	}
	ms := scope.MethodScope()
	if ms == nil || ms.Method == nil || ms.Method.Class == nil {
		return
	}
	if f := ms.Method.Class.FindField(name); f != nil {
		c.report(errors.LocalHidesField, n, name, ms.Method.Class.Name())
	}
}
