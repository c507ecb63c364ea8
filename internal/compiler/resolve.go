package compiler

import (
	"context"

	"github.com/tangzhangming/jscheck/internal/ast"
	"github.com/tangzhangming/jscheck/internal/errors"
	"github.com/tangzhangming/jscheck/internal/lookup"
	"github.com/tangzhangming/jscheck/internal/token"
	"github.com/tangzhangming/jscheck/internal/types"
)

// ============================================================================
// 语句解析
// ============================================================================

// resolveProgram 解析顶层语句；HasBeenResolved 让重复调用成为空操作
func (c *checker) resolveProgram(ctx context.Context) error {
	f := c.u.File
	if f.Has(ast.HasBeenResolved) {
		return nil
	}
	f.Set(ast.HasBeenResolved)

	c.prepareClasses(f.Body, c.u.Scope)
	c.buildLocals(f, f.Body, c.u.Program)

	for _, s := range f.Body {
		if err := c.checkCancelled(ctx); err != nil {
			return err
		}
		if err := c.resolveStmt(s); err != nil {
			return err
		}
		if err := c.checkLimit(); err != nil {
			return err
		}
	}
	c.u.Program.Freeze()
	c.u.Scope.Freeze()
	return nil
}

func (c *checker) resolveStmts(list []ast.Statement) error {
	for _, s := range list {
		if err := c.resolveStmt(s); err != nil {
			return err
		}
	}
	return nil
}

// inScope 在 scope 中执行 fn
func (c *checker) inScope(scope *lookup.Scope, fn func() error) error {
	saved := c.scope
	c.scope = scope
	defer func() { c.scope = saved }()
	return fn()
}

func (c *checker) newBlockScope(n ast.Node) *lookup.Scope {
	scope := lookup.NewBlockScope(c.scope, n.ID())
	c.info.Scopes[n.ID()] = scope
	return scope
}

func (c *checker) resolveStmt(s ast.Statement) error {
	switch s := s.(type) {
	case *ast.ExprStmt:
		c.resolveExpr(s.X)

	case *ast.VarDecl:
		c.resolveVarDecl(s)

	case *ast.Block:
		if err := c.resolveBlock(s); err != nil {
			return err
		}

	case *ast.IfStmt:
		c.resolveExpr(s.Cond)
		if err := c.resolveStmt(s.Then); err != nil {
			return err
		}
		if s.Else != nil {
			if err := c.resolveStmt(s.Else); err != nil {
				return err
			}
		}

	case *ast.WhileStmt:
		c.resolveExpr(s.Cond)
		if err := c.resolveStmt(s.Body); err != nil {
			return err
		}

	case *ast.DoWhileStmt:
		if err := c.resolveStmt(s.Body); err != nil {
			return err
		}
		c.resolveExpr(s.Cond)

	case *ast.ForStmt:
		if err := c.inScope(c.newBlockScope(s), func() error {
			if s.Init != nil {
				if err := c.resolveStmt(s.Init); err != nil {
					return err
				}
			}
			c.resolveExpr(s.Cond)
			for _, u := range s.Update {
				c.resolveExpr(u)
			}
			return c.resolveStmt(s.Body)
		}); err != nil {
			return err
		}

	case *ast.ForInStmt:
		if err := c.resolveForIn(s); err != nil {
			return err
		}

	case *ast.SwitchStmt:
		if err := c.resolveSwitch(s); err != nil {
			return err
		}

	case *ast.ReturnStmt:
		c.resolveReturn(s)

	case *ast.ThrowStmt:
		c.resolveExpr(s.Value)

	case *ast.TryStmt:
		if err := c.resolveTry(s); err != nil {
			return err
		}

	case *ast.LabeledStmt:
		if err := c.resolveStmt(s.Body); err != nil {
			return err
		}

	case *ast.FunctionDecl:
		c.declareFunction(c.scope, s)
		if err := c.resolveFunction(s, c.scope, false); err != nil {
			return err
		}

	case *ast.ClassDecl:
		if err := c.resolveClass(s); err != nil {
			return err
		}
	}
	return c.takePending()
}

func (c *checker) resolveBlock(b *ast.Block) error {
	scope := c.newBlockScope(b)
	return c.inScope(scope, func() error {
		c.prepareClasses(b.Stmts, scope)
		err := c.resolveStmts(b.Stmts)
		scope.Freeze()
		return err
	})
}

// ============================================================================
// 变量声明
// ============================================================================

func (c *checker) resolveVarDecl(s *ast.VarDecl) {
	for _, d := range s.Decls {
		var v *lookup.VariableBinding
		switch s.Kind {
		case token.VAR:
			if b := c.info.BindingOf(d); b != nil {
				v, _ = b.(*lookup.VariableBinding)
			} else {
				scope := c.scope.MethodScope()
				if scope == nil {
					scope = c.scope
				}
				v = c.declareVar(scope, d, lookup.VarLocal)
			}
		case token.LET:
			v = c.declareVar(c.scope, d, lookup.LetLocal)
		case token.CONST:
			v = c.declareVar(c.scope, d, lookup.ConstLocal)
			if d.Init == nil {
				c.report(errors.ConstWithoutInit, d, d.Name)
			}
		}

		if d.Init == nil {
			if v != nil {
				c.info.setType(d, v.Type)
			}
			continue
		}
		t := c.resolveExpr(d.Init)
		if v == nil {
			continue
		}
		if v.Inferred {
			if v.Type == nil {
				v.Type = c.inferredType(t)
			}
		} else {
			c.checkAssignable(d.Init, t, v.Type)
		}
		if v.Local == lookup.ConstLocal && !v.Constant.IsValid() {
			v.Constant = c.constantFor(d.Init, v.Type)
		}
		c.info.setType(d, v.Type)
	}
}

// inferredType 没有注解的变量从初始化表达式得到的类型
func (c *checker) inferredType(t lookup.TypeBinding) lookup.TypeBinding {
	if t == nil || !lookup.IsValid(t) {
		return c.anyType()
	}
	switch t.ID() {
	case types.Null, types.Void, types.Undefined:
		return c.anyType()
	}
	return t
}

// checkAssignable 报告 from 不能赋给 to；任一侧未知时不检查
func (c *checker) checkAssignable(e ast.Node, from, to lookup.TypeBinding) {
	if from == nil || to == nil {
		return
	}
	if !c.env.Assignable(from, to, c.info.ConstantOf(e)) {
		c.report(errors.TypeMismatch, e, typeName(from), typeName(to))
	}
}

// ============================================================================
// 复合语句
// ============================================================================

func (c *checker) resolveForIn(s *ast.ForInStmt) error {
	c.resolveExpr(s.Object)
	return c.inScope(c.newBlockScope(s), func() error {
		if s.Decl != nil {
			for _, d := range s.Decl.Decls {
				var v *lookup.VariableBinding
				switch s.Decl.Kind {
				case token.VAR:
					v, _ = c.info.BindingOf(d).(*lookup.VariableBinding)
				case token.LET:
					v = c.declareVar(c.scope, d, lookup.LetLocal)
				default:
					v = c.declareVar(c.scope, d, lookup.ConstLocal)
				}
				if v == nil {
					continue
				}
				if v.Inferred && v.Type == nil {
					v.Type = c.env.String
				} else {
					c.checkAssignable(d, c.env.String, v.Type)
				}
				c.info.setType(d, v.Type)
			}
		} else {
			t := c.target(s.Target, false)
			if !c.isInferredTarget(s.Target) {
				c.checkAssignable(s.Target, c.env.String, t)
			}
		}
		return c.resolveStmt(s.Body)
	})
}

func (c *checker) resolveSwitch(s *ast.SwitchStmt) error {
	tag := c.resolveExpr(s.Tag)
	scope := c.newBlockScope(s)
	return c.inScope(scope, func() error {
		for _, cc := range s.Cases {
			c.prepareClasses(cc.Body, scope)
		}
		for _, cc := range s.Cases {
			if cc.Expr != nil {
				t := c.resolveExpr(cc.Expr)
				c.operatorSignature(cc.Expr, types.EqualEqualEqual, tag, t)
			}
			if err := c.resolveStmts(cc.Body); err != nil {
				return err
			}
		}
		scope.Freeze()
		return nil
	})
}

func (c *checker) resolveTry(s *ast.TryStmt) error {
	if err := c.resolveBlock(s.Body); err != nil {
		return err
	}
	for _, cc := range s.Catches {
		scope := c.newBlockScope(cc)
		err := c.inScope(scope, func() error {
			p := cc.Param
			var t lookup.TypeBinding
			if p.Type != nil {
				t = c.resolveTypeRef(p.Type)
			}
			v := lookup.NewLocal(p.Name, lookup.CatchLocal, t, p.ID(), p.Span())
			v.Inferred = p.Type == nil
			if _, err := scope.Declare(v); err == nil {
				c.checkHiding(scope, p, p.Name)
			}
			c.info.setBinding(p, v)
			c.info.setType(p, t)

			c.info.Scopes[cc.Body.ID()] = scope
			c.prepareClasses(cc.Body.Stmts, scope)
			err := c.resolveStmts(cc.Body.Stmts)
			scope.Freeze()
			return err
		})
		if err != nil {
			return err
		}
	}
	if s.Finally != nil {
		return c.resolveBlock(s.Finally)
	}
	return nil
}

func (c *checker) resolveReturn(s *ast.ReturnStmt) {
	var t lookup.TypeBinding
	if s.Value != nil {
		t = c.resolveExpr(s.Value)
	}
	ret := c.ret
	if ret == nil || !lookup.IsValid(ret) {
		return
	}
	switch {
	case ret.ID() == types.Void:
		if s.Value != nil {
			c.report(errors.VoidReturnValue, s.Value)
		}
	case s.Value == nil:
		if ret.ID() != types.Any {
			c.report(errors.MissingReturnValue, s, ret.String())
		}
	default:
		c.checkAssignable(s.Value, t, ret)
	}
}

// ============================================================================
// 函数
// ============================================================================

// resolveFunction 解析函数体；方法级中止在这里被吞掉
func (c *checker) resolveFunction(fn *ast.FunctionDecl, parent *lookup.Scope, static bool) error {
	if fn.Has(ast.HasBeenResolved) || fn.Has(ast.IgnoreFurtherInvestigation) {
		return nil
	}
	fn.Set(ast.HasBeenResolved)
	return c.methodBoundary(fn, c.resolveFunctionBody(fn, parent, static))
}

func (c *checker) resolveFunctionBody(fn *ast.FunctionDecl, parent *lookup.Scope, static bool) error {
	m, ok := c.info.BindingOf(fn).(*lookup.MethodBinding)
	if !ok {
		p := c.reportAt(errors.MissingBinding, fn.NameSpan, functionName(fn))
		return errors.NewAbort(errors.AbortMethod, p)
	}
	if fn.HasLazyBody() && c.u.File.Bodies != nil {
		if err := c.u.File.Bodies.ParseBody(fn); err != nil {
			c.u.reportBodyErrors(err)
		}
		c.info.grow(c.u.File.Arena.Len() + 1)
	}

	savedScope, savedMethod, savedRet := c.scope, c.method, c.ret
	defer func() { c.scope, c.method, c.ret = savedScope, savedMethod, savedRet }()

	ms := lookup.NewMethodScope(parent, m, fn.ID(), static || m.IsStatic())
	c.info.Scopes[fn.ID()] = ms
	c.scope, c.method, c.ret = ms, m, m.Return
	if m.IsConstructor() {
		c.ret = c.base(types.Void)
	}

	for i, p := range fn.Params {
		var t lookup.TypeBinding
		if i < len(m.Params) {
			t = m.Params[i]
		}
		v := lookup.NewLocal(p.Name, lookup.ParamLocal, t, p.ID(), p.Span())
		v.Inferred = p.Type == nil
		if prev, _ := ms.Declare(v); prev != nil {
			c.report(errors.DuplicateLocal, p, p.Name)
		}
		c.info.setBinding(p, v)
		c.info.setType(p, t)
	}
	// 具名函数表达式的名字只在自身内部可见
	if fn.Kind == ast.FuncExpression && fn.Name != "" {
		ms.Declare(m)
	}

	if fn.Body == nil {
		ms.Freeze()
		return nil
	}
	c.info.Scopes[fn.Body.ID()] = ms
	c.prepareClasses(fn.Body.Stmts, ms)
	c.buildLocals(fn, fn.Body.Stmts, ms)
	err := c.resolveStmts(fn.Body.Stmts)
	ms.Freeze()
	return err
}
