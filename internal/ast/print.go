package ast

import (
	"strconv"
	"strings"

	"github.com/tangzhangming/jscheck/internal/token"
	"github.com/tangzhangming/jscheck/internal/types"
)

// ============================================================================
// 单行打印
// ============================================================================
//
// Sprint 把节点打印成单行源代码，用于 String() 和诊断消息。
// 多行带缩进的输出见 formatter 包。

// Sprint 返回节点的单行源代码形式
func Sprint(n Node) string {
	var sb strings.Builder
	sprint(&sb, n)
	return sb.String()
}

// LiteralText 字面量的源代码文本
func LiteralText(lit *Literal) string {
	if lit.Raw != "" {
		return lit.Raw
	}
	switch v := lit.Value.(type) {
	case string:
		return strconv.Quote(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10) + "L"
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32) + "f"
	case float64:
		s := strconv.FormatFloat(v, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eEIN") {
			s += ".0"
		}
		return s
	}
	switch lit.Kind {
	case token.TRUE:
		return "true"
	case token.FALSE:
		return "false"
	}
	return "null"
}

func sprintList(sb *strings.Builder, list []Expression) {
	for i, x := range list {
		if i > 0 {
			sb.WriteString(", ")
		}
		sprint(sb, x)
	}
}

func sprintParams(sb *strings.Builder, params []*Param) {
	sb.WriteByte('(')
	for i, p := range params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.String())
	}
	sb.WriteByte(')')
}

func sprintFunc(sb *strings.Builder, f *FunctionDecl) {
	if m := f.Modifiers.String(); m != "" {
		sb.WriteString(m)
		sb.WriteByte(' ')
	}
	switch f.Kind {
	case FuncDeclaration, FuncExpression:
		sb.WriteString("function")
		if f.Name != "" {
			sb.WriteByte(' ')
			sb.WriteString(f.Name)
		}
	case FuncConstructor:
		sb.WriteString("constructor")
	default:
		sb.WriteString(f.Name)
	}
	sprintParams(sb, f.Params)
	if f.ReturnType != nil {
		sb.WriteString(": ")
		sb.WriteString(f.ReturnType.String())
	}
	sb.WriteByte(' ')
	if f.Body != nil {
		sprint(sb, f.Body)
	} else {
		sb.WriteString("{...}")
	}
}

func sprint(sb *strings.Builder, n Node) {
	if n == nil {
		return
	}
	if e, ok := n.(Expression); ok {
		for i := 0; i < e.Parens(); i++ {
			sb.WriteByte('(')
		}
		sprintExpr(sb, e)
		for i := 0; i < e.Parens(); i++ {
			sb.WriteByte(')')
		}
		return
	}

	switch n := n.(type) {
	case *File:
		for i, s := range n.Body {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sprint(sb, s)
		}
	case *TypeRef:
		sb.WriteString(n.String())
	case *Param:
		sb.WriteString(n.String())
	case *FunctionDecl:
		sprintFunc(sb, n)
	case *FieldDecl:
		if m := n.Modifiers.String(); m != "" {
			sb.WriteString(m)
			sb.WriteByte(' ')
		}
		sb.WriteString(n.Name)
		if n.Type != nil {
			sb.WriteString(": ")
			sb.WriteString(n.Type.String())
		}
		if n.Init != nil {
			sb.WriteString(" = ")
			sprint(sb, n.Init)
		}
		sb.WriteByte(';')
	case *ClassDecl:
		sb.WriteString("class ")
		sb.WriteString(n.Name)
		if n.Super != nil {
			sb.WriteString(" extends ")
			sb.WriteString(n.Super.String())
		}
		sb.WriteString(" {")
		for _, f := range n.Fields {
			sb.WriteByte(' ')
			sprint(sb, f)
		}
		for _, m := range n.Methods {
			sb.WriteByte(' ')
			sprintFunc(sb, m)
		}
		sb.WriteString(" }")
	case *Declarator:
		sb.WriteString(n.Name)
		if n.Type != nil {
			sb.WriteString(": ")
			sb.WriteString(n.Type.String())
		}
		if n.Init != nil {
			sb.WriteString(" = ")
			sprint(sb, n.Init)
		}
	case *VarDecl:
		sprintVarDecl(sb, n)
		sb.WriteByte(';')
	case *Block:
		sb.WriteByte('{')
		for _, s := range n.Stmts {
			sb.WriteByte(' ')
			sprint(sb, s)
		}
		sb.WriteString(" }")
	case *ExprStmt:
		sprint(sb, n.X)
		sb.WriteByte(';')
	case *IfStmt:
		sb.WriteString("if (")
		sprint(sb, n.Cond)
		sb.WriteString(") ")
		sprint(sb, n.Then)
		if n.Else != nil {
			sb.WriteString(" else ")
			sprint(sb, n.Else)
		}
	case *WhileStmt:
		sb.WriteString("while (")
		sprint(sb, n.Cond)
		sb.WriteString(") ")
		sprint(sb, n.Body)
	case *DoWhileStmt:
		sb.WriteString("do ")
		sprint(sb, n.Body)
		sb.WriteString(" while (")
		sprint(sb, n.Cond)
		sb.WriteString(");")
	case *ForStmt:
		sb.WriteString("for (")
		switch init := n.Init.(type) {
		case *VarDecl:
			sprintVarDecl(sb, init)
		case *ExprStmt:
			sprint(sb, init.X)
		}
		sb.WriteString("; ")
		sprint(sb, n.Cond)
		sb.WriteString("; ")
		sprintList(sb, n.Update)
		sb.WriteString(") ")
		sprint(sb, n.Body)
	case *ForInStmt:
		sb.WriteString("for (")
		if n.Decl != nil {
			sprintVarDecl(sb, n.Decl)
		} else {
			sprint(sb, n.Target)
		}
		sb.WriteString(" in ")
		sprint(sb, n.Object)
		sb.WriteString(") ")
		sprint(sb, n.Body)
	case *CaseClause:
		if n.Expr == nil {
			sb.WriteString("default:")
		} else {
			sb.WriteString("case ")
			sprint(sb, n.Expr)
			sb.WriteByte(':')
		}
		for _, s := range n.Body {
			sb.WriteByte(' ')
			sprint(sb, s)
		}
	case *SwitchStmt:
		sb.WriteString("switch (")
		sprint(sb, n.Tag)
		sb.WriteString(") {")
		for _, c := range n.Cases {
			sb.WriteByte(' ')
			sprint(sb, c)
		}
		sb.WriteString(" }")
	case *BreakStmt:
		sb.WriteString("break")
		if n.Label != "" {
			sb.WriteByte(' ')
			sb.WriteString(n.Label)
		}
		sb.WriteByte(';')
	case *ContinueStmt:
		sb.WriteString("continue")
		if n.Label != "" {
			sb.WriteByte(' ')
			sb.WriteString(n.Label)
		}
		sb.WriteByte(';')
	case *ReturnStmt:
		sb.WriteString("return")
		if n.Value != nil {
			sb.WriteByte(' ')
			sprint(sb, n.Value)
		}
		sb.WriteByte(';')
	case *ThrowStmt:
		sb.WriteString("throw ")
		sprint(sb, n.Value)
		sb.WriteByte(';')
	case *CatchClause:
		sb.WriteString("catch (")
		sb.WriteString(n.Param.String())
		sb.WriteString(") ")
		sprint(sb, n.Body)
	case *TryStmt:
		sb.WriteString("try ")
		sprint(sb, n.Body)
		for _, c := range n.Catches {
			sb.WriteByte(' ')
			sprint(sb, c)
		}
		if n.Finally != nil {
			sb.WriteString(" finally ")
			sprint(sb, n.Finally)
		}
	case *LabeledStmt:
		sb.WriteString(n.Label)
		sb.WriteString(": ")
		sprint(sb, n.Body)
	case *EmptyStmt:
		sb.WriteByte(';')
	case *Property:
		sb.WriteString(n.Key)
		sb.WriteString(": ")
		sprint(sb, n.Value)
	}
}

func sprintVarDecl(sb *strings.Builder, n *VarDecl) {
	sb.WriteString(n.Kind.String())
	sb.WriteByte(' ')
	for i, d := range n.Decls {
		if i > 0 {
			sb.WriteString(", ")
		}
		sprint(sb, d)
	}
}

func sprintExpr(sb *strings.Builder, e Expression) {
	switch e := e.(type) {
	case *Literal:
		sb.WriteString(LiteralText(e))
	case *Ident:
		sb.WriteString(e.Name)
	case *ThisExpr:
		sb.WriteString("this")
	case *SuperExpr:
		sb.WriteString("super")
	case *FieldRef:
		sprint(sb, e.Receiver)
		sb.WriteByte('.')
		sb.WriteString(e.Name)
	case *IndexExpr:
		sprint(sb, e.X)
		sb.WriteByte('[')
		sprint(sb, e.Index)
		sb.WriteByte(']')
	case *CallExpr:
		sprint(sb, e.Callee)
		sb.WriteByte('(')
		sprintList(sb, e.Args)
		sb.WriteByte(')')
	case *SuperCall:
		sb.WriteString("super(")
		sprintList(sb, e.Args)
		sb.WriteByte(')')
	case *NewExpr:
		sb.WriteString("new ")
		sb.WriteString(e.Type.String())
		sb.WriteByte('(')
		sprintList(sb, e.Args)
		sb.WriteByte(')')
	case *AssignExpr:
		sprint(sb, e.Target)
		sb.WriteByte(' ')
		if e.Op != types.OpNone {
			sb.WriteString(e.Op.String())
		}
		sb.WriteString("= ")
		sprint(sb, e.Value)
	case *BinaryExpr:
		sprint(sb, e.Left)
		sb.WriteByte(' ')
		sb.WriteString(e.Op.String())
		sb.WriteByte(' ')
		sprint(sb, e.Right)
	case *ChainExpr:
		for i, x := range e.Operands {
			if i > 0 {
				sb.WriteByte(' ')
				sb.WriteString(e.Op.String())
				sb.WriteByte(' ')
			}
			sprint(sb, x)
		}
	case *UnaryExpr:
		sb.WriteString(e.Op.String())
		if e.Op == types.TypeOf || signClash(e) {
			sb.WriteByte(' ')
		}
		sprint(sb, e.X)
	case *UpdateExpr:
		if e.Prefix {
			sb.WriteString(e.Op.String())
			sprint(sb, e.X)
		} else {
			sprint(sb, e.X)
			sb.WriteString(e.Op.String())
		}
	case *ConditionalExpr:
		sprint(sb, e.Cond)
		sb.WriteString(" ? ")
		sprint(sb, e.Then)
		sb.WriteString(" : ")
		sprint(sb, e.Else)
	case *FunctionExpr:
		sprintFunc(sb, e.Func)
	case *ArrayLit:
		sb.WriteByte('[')
		sprintList(sb, e.Elems)
		sb.WriteByte(']')
	case *ObjectLit:
		sb.WriteByte('{')
		for i, p := range e.Props {
			if i > 0 {
				sb.WriteString(", ")
			}
			sprint(sb, p)
		}
		sb.WriteByte('}')
	}
}

// signClash - -x 与 + +x 必须隔开，否则会读成 -- 与 ++
func signClash(e *UnaryExpr) bool {
	if e.Op != types.UnaryMinus && e.Op != types.UnaryPlus || e.X.Parens() > 0 {
		return false
	}
	switch x := e.X.(type) {
	case *UnaryExpr:
		return x.Op == types.UnaryMinus || x.Op == types.UnaryPlus
	case *UpdateExpr:
		return x.Prefix
	}
	return false
}
