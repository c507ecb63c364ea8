package ast

import (
	"strings"

	"github.com/tangzhangming/jscheck/internal/token"
	"github.com/tangzhangming/jscheck/internal/types"
)

// Node 是所有 AST 节点的基接口
//
// 只有本包内的类型能实现 Node（base 方法未导出），
// 所以对节点的类型分支是封闭的。
type Node interface {
	ID() NodeID          // 节点编号
	Span() token.Span    // 源代码范围
	Pos() token.Position // 起始位置
	End() token.Position // 结束位置
	Flags() Flags        // 标志位
	Has(f Flags) bool    // 是否带有全部给定标志
	Set(f Flags)         // 设置标志
	Clear(f Flags)       // 清除标志
	String() string      // 节点的源代码形式（用于调试和诊断）
	base() *node
}

// Expression 表示一个表达式节点
type Expression interface {
	Node
	Parens() int     // 包围该表达式的括号层数
	SetParens(n int) // 设置括号层数
	exprNode()
}

// Statement 表示一个语句节点
type Statement interface {
	Node
	stmtNode()
}

// node 所有节点共用的头部
type node struct {
	id    NodeID
	span  token.Span
	flags Flags
}

func (n *node) ID() NodeID          { return n.id }
func (n *node) Span() token.Span    { return n.span }
func (n *node) Pos() token.Position { return n.span.Start }
func (n *node) End() token.Position { return n.span.End }
func (n *node) Flags() Flags        { return n.flags }
func (n *node) Has(f Flags) bool    { return n.flags&f == f }
func (n *node) Set(f Flags)         { n.flags |= f }
func (n *node) Clear(f Flags)       { n.flags &^= f }
func (n *node) base() *node         { return n }

// expr 表达式头部
type expr struct {
	node
	parens uint8
}

func (e *expr) Parens() int { return int(e.parens) }
func (e *expr) SetParens(n int) {
	if n > 255 {
		n = 255
	}
	e.parens = uint8(n)
}
func (e *expr) exprNode() {}

// stmt 语句头部
type stmt struct {
	node
}

func (s *stmt) stmtNode() {}

// ============================================================================
// 标志位
// ============================================================================

// Flags 节点标志集合；每一位在所有节点上含义相同
type Flags uint32

const (
	Reachable                  Flags = 1 << iota // 语句可达
	ElseIf                                       // if 语句是 else if 链的一环
	ThenExit                                     // if 的 then 分支不能正常结束
	TryBlockExiting                              // try 块不能正常结束
	SubRoutineEscaping                           // finally 块不能正常结束
	AnySubRoutineEscaping                        // 外层某个 finally 不能正常结束
	LabelUsed                                    // 标签被 break/continue 引用
	HasBeenResolved                              // 已完成名称解析
	LocalsBuilt                                  // 已完成局部声明提升
	IgnoreFurtherInvestigation                   // 因中止而跳过后续分析
	NonNull                                      // 表达式确定非空
	StrictlyAssigned                             // 赋值目标（不读旧值）
	CompoundAssigned                             // 复合赋值目标（读旧值）
	IgnoreNoEffectAssign                         // 不报告 "赋值无效果"
	FirstAssignmentToLocal                       // 局部变量的首次赋值
	ImplicitThis                                 // 字段引用省略了 this
	DocumentedFallthrough                        // case 前有 "falls through" 注释
	Invalid                                      // 解析得到的是问题绑定
)

var flagNames = [...]string{
	"Reachable", "ElseIf", "ThenExit", "TryBlockExiting", "SubRoutineEscaping",
	"AnySubRoutineEscaping", "LabelUsed", "HasBeenResolved", "LocalsBuilt",
	"IgnoreFurtherInvestigation", "NonNull", "StrictlyAssigned", "CompoundAssigned",
	"IgnoreNoEffectAssign", "FirstAssignmentToLocal", "ImplicitThis",
	"DocumentedFallthrough", "Invalid",
}

func (f Flags) String() string {
	if f == 0 {
		return "0"
	}
	var parts []string
	for i, name := range flagNames {
		if f&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, "|")
}

// Modifiers 声明修饰符
type Modifiers uint8

const (
	ModStatic Modifiers = 1 << iota
	ModFinal
	ModDeprecated
	ModPublic
	ModProtected
	ModPrivate
)

// Has 是否包含全部给定修饰符
func (m Modifiers) Has(x Modifiers) bool { return m&x == x }

// FromToken 修饰符关键字对应的位
func FromToken(t token.TokenType) Modifiers {
	switch t {
	case token.STATIC:
		return ModStatic
	case token.FINAL:
		return ModFinal
	case token.DEPRECATED:
		return ModDeprecated
	case token.PUBLIC:
		return ModPublic
	case token.PROTECTED:
		return ModProtected
	case token.PRIVATE:
		return ModPrivate
	}
	return 0
}

func (m Modifiers) String() string {
	var parts []string
	for _, x := range []struct {
		bit  Modifiers
		name string
	}{
		{ModPublic, "public"}, {ModProtected, "protected"}, {ModPrivate, "private"},
		{ModStatic, "static"}, {ModFinal, "final"}, {ModDeprecated, "deprecated"},
	} {
		if m&x.bit != 0 {
			parts = append(parts, x.name)
		}
	}
	return strings.Join(parts, " ")
}

// ============================================================================
// 文件与声明
// ============================================================================

// BodyParser 惰性解析方法体的钩子（diet 模式下由解析器安装）
type BodyParser interface {
	// ParseBody 为 fn 解析方法体；方法体已存在时什么也不做
	ParseBody(fn *FunctionDecl) error
}

// File 一个编译单元
type File struct {
	node
	Name   string
	Body   []Statement
	Arena  *Arena
	Bodies BodyParser // diet 模式下非 nil
}

func (f *File) String() string { return "file " + f.Name }

// TypeRef 类型注解 (int, String, Point[], ...)
type TypeRef struct {
	node
	Name string
	Dims int // 数组维数
}

func (t *TypeRef) String() string { return t.Name + strings.Repeat("[]", t.Dims) }

// Param 参数 (也用于 catch 参数)
type Param struct {
	node
	Name string
	Type *TypeRef // 可为 nil
}

func (p *Param) String() string {
	if p.Type != nil {
		return p.Name + ": " + p.Type.String()
	}
	return p.Name
}

// FuncKind 函数种类
type FuncKind uint8

const (
	FuncDeclaration FuncKind = iota // function f() {}
	FuncExpression                  // function () {} 作为值
	FuncMethod                      // 类方法
	FuncConstructor                 // 类构造函数
	FuncProgram                     // 文件顶层语句的隐式函数
)

// FunctionDecl 函数声明、函数表达式、方法或构造函数
type FunctionDecl struct {
	stmt
	Kind       FuncKind
	Modifiers  Modifiers
	Name       string // 匿名函数表达式为空
	NameSpan   token.Span
	Params     []*Param
	ReturnType *TypeRef // 可为 nil
	Body       *Block   // diet 模式下可能暂为 nil

	// 惰性方法体的 token 范围 [BodyStart, BodyEnd)
	BodyStart, BodyEnd int
}

// HasLazyBody 方法体是否尚待解析
func (f *FunctionDecl) HasLazyBody() bool {
	return f.Body == nil && f.BodyEnd > f.BodyStart
}

func (f *FunctionDecl) String() string { return Sprint(f) }

// FieldDecl 类字段
type FieldDecl struct {
	node
	Modifiers Modifiers
	Name      string
	Type      *TypeRef   // 可为 nil
	Init      Expression // 可为 nil
}

func (f *FieldDecl) String() string { return Sprint(f) }

// ClassDecl 类声明（可出现在顶层或函数体内）
type ClassDecl struct {
	stmt
	Modifiers Modifiers
	Name      string
	NameSpan  token.Span
	Super     *TypeRef // 可为 nil
	Fields    []*FieldDecl
	Methods   []*FunctionDecl // 含构造函数
}

// Constructor 返回构造函数，没有时返回 nil
func (c *ClassDecl) Constructor() *FunctionDecl {
	for _, m := range c.Methods {
		if m.Kind == FuncConstructor {
			return m
		}
	}
	return nil
}

func (c *ClassDecl) String() string { return Sprint(c) }

// ============================================================================
// 语句
// ============================================================================

// Declarator var/let/const 中的一个变量
type Declarator struct {
	node
	Name string
	Type *TypeRef   // 可为 nil
	Init Expression // 可为 nil
}

func (d *Declarator) String() string { return Sprint(d) }

// VarDecl var / let / const 声明
type VarDecl struct {
	stmt
	Kind  token.TokenType // token.VAR, token.LET 或 token.CONST
	Decls []*Declarator
}

func (s *VarDecl) String() string { return Sprint(s) }

// Block 语句块
type Block struct {
	stmt
	Stmts []Statement
}

func (s *Block) String() string { return Sprint(s) }

// ExprStmt 表达式语句
type ExprStmt struct {
	stmt
	X Expression
}

func (s *ExprStmt) String() string { return Sprint(s) }

// IfStmt if 语句
type IfStmt struct {
	stmt
	Cond Expression
	Then Statement
	Else Statement // 可为 nil
}

func (s *IfStmt) String() string { return Sprint(s) }

// WhileStmt while 循环
type WhileStmt struct {
	stmt
	Cond Expression
	Body Statement
}

func (s *WhileStmt) String() string { return Sprint(s) }

// DoWhileStmt do/while 循环
type DoWhileStmt struct {
	stmt
	Body Statement
	Cond Expression
}

func (s *DoWhileStmt) String() string { return Sprint(s) }

// ForStmt for(;;) 循环
type ForStmt struct {
	stmt
	Init   Statement    // *VarDecl 或 *ExprStmt，可为 nil
	Cond   Expression   // 可为 nil
	Update []Expression // 可为空
	Body   Statement
}

func (s *ForStmt) String() string { return Sprint(s) }

// ForInStmt for (x in obj) 循环；Decl 与 Target 恰有一个非 nil
type ForInStmt struct {
	stmt
	Decl   *VarDecl
	Target Expression
	Object Expression
	Body   Statement
}

func (s *ForInStmt) String() string { return Sprint(s) }

// CaseClause case/default 分支；Expr 为 nil 表示 default
type CaseClause struct {
	node
	Expr Expression
	Body []Statement
}

func (c *CaseClause) String() string { return Sprint(c) }

// SwitchStmt switch 语句
type SwitchStmt struct {
	stmt
	Tag   Expression
	Cases []*CaseClause
}

func (s *SwitchStmt) String() string { return Sprint(s) }

// BreakStmt break [label]
type BreakStmt struct {
	stmt
	Label string
}

func (s *BreakStmt) String() string { return Sprint(s) }

// ContinueStmt continue [label]
type ContinueStmt struct {
	stmt
	Label string
}

func (s *ContinueStmt) String() string { return Sprint(s) }

// ReturnStmt return [value]
type ReturnStmt struct {
	stmt
	Value Expression // 可为 nil
}

func (s *ReturnStmt) String() string { return Sprint(s) }

// ThrowStmt throw value
type ThrowStmt struct {
	stmt
	Value Expression
}

func (s *ThrowStmt) String() string { return Sprint(s) }

// CatchClause catch (e[: T]) { ... }
type CatchClause struct {
	node
	Param *Param
	Body  *Block
}

func (c *CatchClause) String() string { return Sprint(c) }

// TryStmt try/catch/finally
type TryStmt struct {
	stmt
	Body    *Block
	Catches []*CatchClause
	Finally *Block // 可为 nil
}

func (s *TryStmt) String() string { return Sprint(s) }

// LabeledStmt label: stmt
type LabeledStmt struct {
	stmt
	Label string
	Body  Statement
}

func (s *LabeledStmt) String() string { return Sprint(s) }

// EmptyStmt 空语句 ;
type EmptyStmt struct {
	stmt
}

func (s *EmptyStmt) String() string { return ";" }

// ============================================================================
// 表达式
// ============================================================================

// Literal 字面量
//
// Kind 为 token.INT / LONG / DOUBLE / FLOAT / STRING / TRUE / FALSE / NULL，
// Value 是词法分析器给出的值（int32、int64、float64、float32、string）。
type Literal struct {
	expr
	Kind  token.TokenType
	Raw   string
	Value any
}

func (e *Literal) String() string { return Sprint(e) }

// Ident 名称引用
type Ident struct {
	expr
	Name  string
	Depth int // 引用处与声明处之间跨越的函数层数（闭包捕获）
}

func (e *Ident) String() string { return Sprint(e) }

// ThisExpr this
type ThisExpr struct {
	expr
}

func (e *ThisExpr) String() string { return Sprint(e) }

// SuperExpr super（只作为 super.m 的接收者）
type SuperExpr struct {
	expr
}

func (e *SuperExpr) String() string { return Sprint(e) }

// FieldRef receiver.name
type FieldRef struct {
	expr
	Receiver Expression
	Name     string
	NameSpan token.Span
}

func (e *FieldRef) String() string { return Sprint(e) }

// IndexExpr x[index]
type IndexExpr struct {
	expr
	X     Expression
	Index Expression
}

func (e *IndexExpr) String() string { return Sprint(e) }

// CallExpr callee(args)
type CallExpr struct {
	expr
	Callee Expression
	Args   []Expression
}

func (e *CallExpr) String() string { return Sprint(e) }

// SuperCall super(args)，只在构造函数中合法
type SuperCall struct {
	expr
	Args []Expression
}

func (e *SuperCall) String() string { return Sprint(e) }

// NewExpr new T(args)
type NewExpr struct {
	expr
	Type *TypeRef
	Args []Expression
}

func (e *NewExpr) String() string { return Sprint(e) }

// AssignExpr 赋值与复合赋值；Op 为 OpNone 表示简单赋值
type AssignExpr struct {
	expr
	Op       types.Operator
	Target   Expression
	Value    Expression
	Implicit uint32 // 复合赋值的打包签名
}

func (e *AssignExpr) String() string { return Sprint(e) }

// BinaryExpr 二元运算（含 instanceof、in、&&、||）
type BinaryExpr struct {
	expr
	Op       types.Operator
	Left     Expression
	Right    Expression
	Implicit uint32 // 打包签名：左转换、右转换、结果类型
}

func (e *BinaryExpr) String() string { return Sprint(e) }

// UnaryExpr 前缀一元运算 ! - + ~ typeof
type UnaryExpr struct {
	expr
	Op types.Operator
	X  Expression
}

func (e *UnaryExpr) String() string { return Sprint(e) }

// UpdateExpr ++x / x++ / --x / x--
type UpdateExpr struct {
	expr
	Op     types.Operator // types.PlusPlus 或 types.MinusMinus
	Prefix bool
	X      Expression
}

func (e *UpdateExpr) String() string { return Sprint(e) }

// ConditionalExpr cond ? then : else
type ConditionalExpr struct {
	expr
	Cond Expression
	Then Expression
	Else Expression
}

func (e *ConditionalExpr) String() string { return Sprint(e) }

// FunctionExpr 函数表达式
type FunctionExpr struct {
	expr
	Func *FunctionDecl
}

func (e *FunctionExpr) String() string { return Sprint(e) }

// ArrayLit [a, b, c]
type ArrayLit struct {
	expr
	Elems []Expression
}

func (e *ArrayLit) String() string { return Sprint(e) }

// Property 对象字面量的一项
type Property struct {
	node
	Key   string
	Value Expression
}

func (p *Property) String() string { return Sprint(p) }

// ObjectLit {k: v, ...}
type ObjectLit struct {
	expr
	Props []*Property
}

func (e *ObjectLit) String() string { return Sprint(e) }

// ============================================================================
// 辅助函数
// ============================================================================

// IsConstantTrue 是否字面量 true
func IsConstantTrue(e Expression) bool {
	lit, ok := e.(*Literal)
	return ok && lit.Kind == token.TRUE
}

// IsConstantFalse 是否字面量 false
func IsConstantFalse(e Expression) bool {
	lit, ok := e.(*Literal)
	return ok && lit.Kind == token.FALSE
}

// IsNullLiteral 是否字面量 null
func IsNullLiteral(e Expression) bool {
	lit, ok := e.(*Literal)
	return ok && lit.Kind == token.NULL
}
