package ast

// ============================================================================
// AST 遍历
// ============================================================================

// Visitor 访问函数，返回 false 时不再进入该节点的子节点
type Visitor func(node Node) bool

// Walk 深度优先遍历 AST 节点
//
// 惰性方法体尚未解析时不会进入。展平链的操作数按顺序逐个访问，
// 不会因为链长而加深递归。
func Walk(node Node, visitor Visitor) {
	if isNil(node) {
		return
	}

	if !visitor(node) {
		return
	}

	switch n := node.(type) {
	case *File:
		walkStmts(n.Body, visitor)

	case *FunctionDecl:
		for _, p := range n.Params {
			Walk(p, visitor)
		}
		walkOpt(n.ReturnType, visitor)
		if n.Body != nil {
			Walk(n.Body, visitor)
		}

	case *Param:
		walkOpt(n.Type, visitor)

	case *FieldDecl:
		walkOpt(n.Type, visitor)
		Walk(n.Init, visitor)

	case *ClassDecl:
		walkOpt(n.Super, visitor)
		for _, f := range n.Fields {
			Walk(f, visitor)
		}
		for _, m := range n.Methods {
			Walk(m, visitor)
		}

	case *Declarator:
		walkOpt(n.Type, visitor)
		Walk(n.Init, visitor)

	case *VarDecl:
		for _, d := range n.Decls {
			Walk(d, visitor)
		}

	case *Block:
		walkStmts(n.Stmts, visitor)

	case *ExprStmt:
		Walk(n.X, visitor)

	case *IfStmt:
		Walk(n.Cond, visitor)
		Walk(n.Then, visitor)
		Walk(n.Else, visitor)

	case *WhileStmt:
		Walk(n.Cond, visitor)
		Walk(n.Body, visitor)

	case *DoWhileStmt:
		Walk(n.Body, visitor)
		Walk(n.Cond, visitor)

	case *ForStmt:
		Walk(n.Init, visitor)
		Walk(n.Cond, visitor)
		walkExprs(n.Update, visitor)
		Walk(n.Body, visitor)

	case *ForInStmt:
		if n.Decl != nil {
			Walk(n.Decl, visitor)
		}
		Walk(n.Target, visitor)
		Walk(n.Object, visitor)
		Walk(n.Body, visitor)

	case *SwitchStmt:
		Walk(n.Tag, visitor)
		for _, c := range n.Cases {
			Walk(c, visitor)
		}

	case *CaseClause:
		Walk(n.Expr, visitor)
		walkStmts(n.Body, visitor)

	case *ReturnStmt:
		Walk(n.Value, visitor)

	case *ThrowStmt:
		Walk(n.Value, visitor)

	case *TryStmt:
		Walk(n.Body, visitor)
		for _, c := range n.Catches {
			Walk(c, visitor)
		}
		if n.Finally != nil {
			Walk(n.Finally, visitor)
		}

	case *CatchClause:
		Walk(n.Param, visitor)
		Walk(n.Body, visitor)

	case *LabeledStmt:
		Walk(n.Body, visitor)

	case *FieldRef:
		Walk(n.Receiver, visitor)

	case *IndexExpr:
		Walk(n.X, visitor)
		Walk(n.Index, visitor)

	case *CallExpr:
		Walk(n.Callee, visitor)
		walkExprs(n.Args, visitor)

	case *SuperCall:
		walkExprs(n.Args, visitor)

	case *NewExpr:
		Walk(n.Type, visitor)
		walkExprs(n.Args, visitor)

	case *AssignExpr:
		Walk(n.Target, visitor)
		Walk(n.Value, visitor)

	case *BinaryExpr:
		Walk(n.Left, visitor)
		Walk(n.Right, visitor)

	case *ChainExpr:
		walkExprs(n.Operands, visitor)

	case *UnaryExpr:
		Walk(n.X, visitor)

	case *UpdateExpr:
		Walk(n.X, visitor)

	case *ConditionalExpr:
		Walk(n.Cond, visitor)
		Walk(n.Then, visitor)
		Walk(n.Else, visitor)

	case *FunctionExpr:
		Walk(n.Func, visitor)

	case *ArrayLit:
		walkExprs(n.Elems, visitor)

	case *ObjectLit:
		for _, p := range n.Props {
			Walk(p, visitor)
		}

	case *Property:
		Walk(n.Value, visitor)
	}
}

// Inspect 遍历并对每个节点调用 f；f 返回 false 时跳过子节点
func Inspect(node Node, f func(Node) bool) {
	Walk(node, Visitor(f))
}

// Count 统计子树中的节点数（含根）
func Count(node Node) int {
	count := 0
	Walk(node, func(Node) bool {
		count++
		return true
	})
	return count
}

func walkStmts(list []Statement, visitor Visitor) {
	for _, s := range list {
		Walk(s, visitor)
	}
}

func walkExprs(list []Expression, visitor Visitor) {
	for _, e := range list {
		Walk(e, visitor)
	}
}

func walkOpt(t *TypeRef, visitor Visitor) {
	if t != nil {
		Walk(t, visitor)
	}
}

// isNil 识别 nil 接口与装在接口里的 nil 指针
func isNil(n Node) bool {
	if n == nil {
		return true
	}
	switch n := n.(type) {
	case *Block:
		return n == nil
	case *VarDecl:
		return n == nil
	case *TypeRef:
		return n == nil
	case *Param:
		return n == nil
	case *FunctionDecl:
		return n == nil
	}
	return false
}
