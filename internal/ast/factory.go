package ast

import (
	"github.com/tangzhangming/jscheck/internal/token"
	"github.com/tangzhangming/jscheck/internal/types"
)

// ============================================================================
// AST 节点工厂函数
// ============================================================================
//
// 工厂函数创建节点并登记到 Arena，保证每个节点都有 NodeID。
//
// 使用方式：
//   arena := NewArena(1024)
//   id := arena.NewIdent(span, "x")
//
// ============================================================================

// NewFile 创建文件节点
func (a *Arena) NewFile(span token.Span, name string, body []Statement) *File {
	return New(a, &File{Name: name, Body: body, Arena: a}, span)
}

// NewTypeRef 创建类型注解
func (a *Arena) NewTypeRef(span token.Span, name string, dims int) *TypeRef {
	return New(a, &TypeRef{Name: name, Dims: dims}, span)
}

// NewParam 创建参数
func (a *Arena) NewParam(span token.Span, name string, typ *TypeRef) *Param {
	return New(a, &Param{Name: name, Type: typ}, span)
}

// NewFunction 创建函数；方法体和修饰符由调用方填写
func (a *Arena) NewFunction(span token.Span, kind FuncKind, name string, nameSpan token.Span, params []*Param, ret *TypeRef) *FunctionDecl {
	return New(a, &FunctionDecl{Kind: kind, Name: name, NameSpan: nameSpan, Params: params, ReturnType: ret}, span)
}

// NewField 创建字段
func (a *Arena) NewField(span token.Span, mods Modifiers, name string, typ *TypeRef, init Expression) *FieldDecl {
	return New(a, &FieldDecl{Modifiers: mods, Name: name, Type: typ, Init: init}, span)
}

// NewClass 创建类声明
func (a *Arena) NewClass(span token.Span, mods Modifiers, name string, nameSpan token.Span, super *TypeRef) *ClassDecl {
	return New(a, &ClassDecl{Modifiers: mods, Name: name, NameSpan: nameSpan, Super: super}, span)
}

// ============================================================================
// 语句
// ============================================================================

// NewDeclarator 创建变量声明项
func (a *Arena) NewDeclarator(span token.Span, name string, typ *TypeRef, init Expression) *Declarator {
	return New(a, &Declarator{Name: name, Type: typ, Init: init}, span)
}

// NewVarDecl 创建 var/let/const 声明
func (a *Arena) NewVarDecl(span token.Span, kind token.TokenType, decls []*Declarator) *VarDecl {
	return New(a, &VarDecl{Kind: kind, Decls: decls}, span)
}

// NewBlock 创建语句块
func (a *Arena) NewBlock(span token.Span, stmts []Statement) *Block {
	return New(a, &Block{Stmts: stmts}, span)
}

// NewExprStmt 创建表达式语句
func (a *Arena) NewExprStmt(span token.Span, x Expression) *ExprStmt {
	return New(a, &ExprStmt{X: x}, span)
}

// NewIf 创建 if 语句
func (a *Arena) NewIf(span token.Span, cond Expression, then, els Statement) *IfStmt {
	return New(a, &IfStmt{Cond: cond, Then: then, Else: els}, span)
}

// NewWhile 创建 while 循环
func (a *Arena) NewWhile(span token.Span, cond Expression, body Statement) *WhileStmt {
	return New(a, &WhileStmt{Cond: cond, Body: body}, span)
}

// NewDoWhile 创建 do/while 循环
func (a *Arena) NewDoWhile(span token.Span, body Statement, cond Expression) *DoWhileStmt {
	return New(a, &DoWhileStmt{Body: body, Cond: cond}, span)
}

// NewFor 创建 for 循环
func (a *Arena) NewFor(span token.Span, init Statement, cond Expression, update []Expression, body Statement) *ForStmt {
	return New(a, &ForStmt{Init: init, Cond: cond, Update: update, Body: body}, span)
}

// NewForIn 创建 for-in 循环
func (a *Arena) NewForIn(span token.Span, decl *VarDecl, target, object Expression, body Statement) *ForInStmt {
	return New(a, &ForInStmt{Decl: decl, Target: target, Object: object, Body: body}, span)
}

// NewCase 创建 case 分支
func (a *Arena) NewCase(span token.Span, x Expression, body []Statement) *CaseClause {
	return New(a, &CaseClause{Expr: x, Body: body}, span)
}

// NewSwitch 创建 switch 语句
func (a *Arena) NewSwitch(span token.Span, tag Expression, cases []*CaseClause) *SwitchStmt {
	return New(a, &SwitchStmt{Tag: tag, Cases: cases}, span)
}

// NewBreak 创建 break
func (a *Arena) NewBreak(span token.Span, label string) *BreakStmt {
	return New(a, &BreakStmt{Label: label}, span)
}

// NewContinue 创建 continue
func (a *Arena) NewContinue(span token.Span, label string) *ContinueStmt {
	return New(a, &ContinueStmt{Label: label}, span)
}

// NewReturn 创建 return
func (a *Arena) NewReturn(span token.Span, value Expression) *ReturnStmt {
	return New(a, &ReturnStmt{Value: value}, span)
}

// NewThrow 创建 throw
func (a *Arena) NewThrow(span token.Span, value Expression) *ThrowStmt {
	return New(a, &ThrowStmt{Value: value}, span)
}

// NewCatch 创建 catch 子句
func (a *Arena) NewCatch(span token.Span, param *Param, body *Block) *CatchClause {
	return New(a, &CatchClause{Param: param, Body: body}, span)
}

// NewTry 创建 try 语句
func (a *Arena) NewTry(span token.Span, body *Block, catches []*CatchClause, finally *Block) *TryStmt {
	return New(a, &TryStmt{Body: body, Catches: catches, Finally: finally}, span)
}

// NewLabeled 创建带标签语句
func (a *Arena) NewLabeled(span token.Span, label string, body Statement) *LabeledStmt {
	return New(a, &LabeledStmt{Label: label, Body: body}, span)
}

// NewEmpty 创建空语句
func (a *Arena) NewEmpty(span token.Span) *EmptyStmt {
	return New(a, &EmptyStmt{}, span)
}

// ============================================================================
// 表达式
// ============================================================================

// NewLiteral 创建字面量
func (a *Arena) NewLiteral(span token.Span, kind token.TokenType, raw string, value any) *Literal {
	return New(a, &Literal{Kind: kind, Raw: raw, Value: value}, span)
}

// NewIdent 创建名称引用
func (a *Arena) NewIdent(span token.Span, name string) *Ident {
	return New(a, &Ident{Name: name}, span)
}

// NewThis 创建 this
func (a *Arena) NewThis(span token.Span) *ThisExpr {
	return New(a, &ThisExpr{}, span)
}

// NewSuper 创建 super 接收者
func (a *Arena) NewSuper(span token.Span) *SuperExpr {
	return New(a, &SuperExpr{}, span)
}

// NewFieldRef 创建字段引用
func (a *Arena) NewFieldRef(span token.Span, receiver Expression, name string, nameSpan token.Span) *FieldRef {
	return New(a, &FieldRef{Receiver: receiver, Name: name, NameSpan: nameSpan}, span)
}

// NewIndex 创建下标表达式
func (a *Arena) NewIndex(span token.Span, x, index Expression) *IndexExpr {
	return New(a, &IndexExpr{X: x, Index: index}, span)
}

// NewCall 创建调用
func (a *Arena) NewCall(span token.Span, callee Expression, args []Expression) *CallExpr {
	return New(a, &CallExpr{Callee: callee, Args: args}, span)
}

// NewSuperCall 创建 super(...) 调用
func (a *Arena) NewSuperCall(span token.Span, args []Expression) *SuperCall {
	return New(a, &SuperCall{Args: args}, span)
}

// NewNew 创建 new 表达式
func (a *Arena) NewNew(span token.Span, typ *TypeRef, args []Expression) *NewExpr {
	return New(a, &NewExpr{Type: typ, Args: args}, span)
}

// NewAssign 创建赋值；op 为 types.OpNone 表示简单赋值
func (a *Arena) NewAssign(span token.Span, op types.Operator, target, value Expression) *AssignExpr {
	return New(a, &AssignExpr{Op: op, Target: target, Value: value}, span)
}

// NewBinary 创建二元运算
func (a *Arena) NewBinary(span token.Span, op types.Operator, left, right Expression) *BinaryExpr {
	return New(a, &BinaryExpr{Op: op, Left: left, Right: right}, span)
}

// NewChain 用已有的操作数创建展平链
func (a *Arena) NewChain(span token.Span, op types.Operator, operands []Expression) *ChainExpr {
	c := &ChainExpr{Op: op}
	c.Operands = make([]Expression, 0, max(initialChainCapacity, len(operands)))
	c.Operands = append(c.Operands, operands...)
	return New(a, c, span)
}

// NewUnary 创建一元运算
func (a *Arena) NewUnary(span token.Span, op types.Operator, x Expression) *UnaryExpr {
	return New(a, &UnaryExpr{Op: op, X: x}, span)
}

// NewUpdate 创建自增自减
func (a *Arena) NewUpdate(span token.Span, op types.Operator, prefix bool, x Expression) *UpdateExpr {
	return New(a, &UpdateExpr{Op: op, Prefix: prefix, X: x}, span)
}

// NewConditional 创建条件表达式
func (a *Arena) NewConditional(span token.Span, cond, then, els Expression) *ConditionalExpr {
	return New(a, &ConditionalExpr{Cond: cond, Then: then, Else: els}, span)
}

// NewFunctionExpr 创建函数表达式
func (a *Arena) NewFunctionExpr(span token.Span, fn *FunctionDecl) *FunctionExpr {
	return New(a, &FunctionExpr{Func: fn}, span)
}

// NewArrayLit 创建数组字面量
func (a *Arena) NewArrayLit(span token.Span, elems []Expression) *ArrayLit {
	return New(a, &ArrayLit{Elems: elems}, span)
}

// NewProperty 创建对象字面量项
func (a *Arena) NewProperty(span token.Span, key string, value Expression) *Property {
	return New(a, &Property{Key: key, Value: value}, span)
}

// NewObjectLit 创建对象字面量
func (a *Arena) NewObjectLit(span token.Span, props []*Property) *ObjectLit {
	return New(a, &ObjectLit{Props: props}, span)
}
