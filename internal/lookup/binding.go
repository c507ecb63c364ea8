// Package lookup 绑定、类型绑定、作用域链与内置环境
//
// 名称查找永远不返回 nil：找不到或不可用时返回带原因的 ProblemBinding，
// 调用方只需要判断 IsValid。
package lookup

import (
	"fmt"

	"github.com/tangzhangming/jscheck/internal/ast"
	"github.com/tangzhangming/jscheck/internal/constant"
	"github.com/tangzhangming/jscheck/internal/token"
)

// ============================================================================
// 绑定种类
// ============================================================================

// Kind 绑定种类掩码；查找时可以组合
type Kind uint8

const (
	KindField Kind = 1 << iota
	KindLocal
	KindType
	KindMethod

	KindVariable = KindField | KindLocal
	KindAny      = KindVariable | KindType | KindMethod
)

func (k Kind) String() string {
	switch k {
	case KindField:
		return "field"
	case KindLocal:
		return "local"
	case KindType:
		return "type"
	case KindMethod:
		return "method"
	case KindVariable:
		return "variable"
	}
	return fmt.Sprintf("Kind(%#x)", uint8(k))
}

// ProblemReason 问题绑定的原因
type ProblemReason uint8

const (
	NoProblem ProblemReason = iota
	NotFound
	NotVisible
	Ambiguous
	InheritedNameHidesEnclosingName
	NonStaticReferenceInStaticContext
	NonStaticReferenceInConstructorInvocation
)

var reasonNames = [...]string{
	NoProblem:                                 "NoProblem",
	NotFound:                                  "NotFound",
	NotVisible:                                "NotVisible",
	Ambiguous:                                 "Ambiguous",
	InheritedNameHidesEnclosingName:           "InheritedNameHidesEnclosingName",
	NonStaticReferenceInStaticContext:         "NonStaticReferenceInStaticContext",
	NonStaticReferenceInConstructorInvocation: "NonStaticReferenceInConstructorInvocation",
}

func (r ProblemReason) String() string {
	if int(r) < len(reasonNames) {
		return reasonNames[r]
	}
	return fmt.Sprintf("ProblemReason(%d)", uint8(r))
}

// Binding 名称解析的结果
type Binding interface {
	Name() string
	Kind() Kind
	Problem() ProblemReason
}

// IsValid 绑定是否非 nil 且不是问题绑定
func IsValid(b Binding) bool {
	return b != nil && b.Problem() == NoProblem
}

// ============================================================================
// 变量绑定
// ============================================================================

// LocalKind 局部变量的声明方式
type LocalKind uint8

const (
	VarLocal   LocalKind = iota // var
	LetLocal                    // let
	ConstLocal                  // const
	ParamLocal                  // 参数
	CatchLocal                  // catch 参数
)

// VariableBinding 局部变量、字段或全局变量
type VariableBinding struct {
	name      string
	kind      Kind
	Type      TypeBinding // nil 表示未知
	Inferred  bool        // 没有类型注解，类型来自初始化表达式
	Modifiers ast.Modifiers
	Local     LocalKind
	Decl      ast.NodeID
	Span      token.Span
	Scope     *Scope        // 声明作用域（局部变量）
	Class     *ClassBinding // 声明类（字段）
	Slot      int           // 方法作用域内的槽位，字段与全局为 -1
	Constant  constant.Value
	Uses      int
}

// NewLocal 创建局部变量绑定
func NewLocal(name string, kind LocalKind, typ TypeBinding, decl ast.NodeID, span token.Span) *VariableBinding {
	return &VariableBinding{name: name, kind: KindLocal, Type: typ, Local: kind, Decl: decl, Span: span, Slot: -1}
}

// NewField 创建字段绑定
func NewField(name string, mods ast.Modifiers, typ TypeBinding, class *ClassBinding, decl ast.NodeID, span token.Span) *VariableBinding {
	return &VariableBinding{name: name, kind: KindField, Type: typ, Modifiers: mods, Class: class, Decl: decl, Span: span, Slot: -1}
}

func (v *VariableBinding) Name() string           { return v.name }
func (v *VariableBinding) Kind() Kind             { return v.kind }
func (v *VariableBinding) Problem() ProblemReason { return NoProblem }

// IsField 是否字段
func (v *VariableBinding) IsField() bool { return v.kind == KindField }

// IsStatic 是否静态字段
func (v *VariableBinding) IsStatic() bool { return v.Modifiers.Has(ast.ModStatic) }

// IsConst 是否不可再赋值（const 或 final）
func (v *VariableBinding) IsConst() bool {
	return v.Local == ConstLocal || v.Modifiers.Has(ast.ModFinal)
}

// IsDeprecated 是否废弃
func (v *VariableBinding) IsDeprecated() bool { return v.Modifiers.Has(ast.ModDeprecated) }

// HasSlot 是否参与流分析
func (v *VariableBinding) HasSlot() bool { return v.Slot >= 0 }

func (v *VariableBinding) String() string {
	if v.Type != nil {
		return v.name + ": " + v.Type.String()
	}
	return v.name
}

// ============================================================================
// 方法绑定
// ============================================================================

// MethodBinding 方法、构造函数或函数声明
type MethodBinding struct {
	name       string
	kind       Kind
	Params     []TypeBinding // 元素为 nil 表示未注解
	ParamNames []string
	Return     TypeBinding // nil 表示未注解
	Variadic   bool        // 在固定参数之后接受任意多个参数
	Modifiers  ast.Modifiers
	Class      *ClassBinding // 声明类；函数为 nil
	Decl       ast.NodeID
	Span       token.Span
	Scope      *Scope // 方法体作用域
	Builtin    bool
	isCtor     bool
}

// NewMethod 创建类方法绑定
func NewMethod(name string, mods ast.Modifiers, class *ClassBinding, decl ast.NodeID, span token.Span) *MethodBinding {
	return &MethodBinding{name: name, kind: KindMethod, Modifiers: mods, Class: class, Decl: decl, Span: span}
}

// NewConstructor 创建构造函数绑定
func NewConstructor(class *ClassBinding, decl ast.NodeID, span token.Span) *MethodBinding {
	m := NewMethod("constructor", 0, class, decl, span)
	m.isCtor = true
	return m
}

// NewFunction 创建函数声明绑定；它同时是局部名字
func NewFunction(name string, decl ast.NodeID, span token.Span) *MethodBinding {
	return &MethodBinding{name: name, kind: KindMethod | KindLocal, Decl: decl, Span: span}
}

func (m *MethodBinding) Name() string           { return m.name }
func (m *MethodBinding) Kind() Kind             { return m.kind }
func (m *MethodBinding) Problem() ProblemReason { return NoProblem }

// IsConstructor 是否构造函数
func (m *MethodBinding) IsConstructor() bool { return m.isCtor }

// IsStatic 是否静态方法
func (m *MethodBinding) IsStatic() bool { return m.Modifiers.Has(ast.ModStatic) }

// IsDeprecated 是否废弃
func (m *MethodBinding) IsDeprecated() bool { return m.Modifiers.Has(ast.ModDeprecated) }

// Arity 固定参数个数
func (m *MethodBinding) Arity() int { return len(m.Params) }

// Accepts 能否接受 n 个实参
func (m *MethodBinding) Accepts(n int) bool {
	if m.Variadic {
		return n >= len(m.Params)
	}
	return n == len(m.Params)
}

// Signature 形如 name(int, String) 的描述
func (m *MethodBinding) Signature() string {
	s := m.name + "("
	for i, p := range m.Params {
		if i > 0 {
			s += ", "
		}
		if p == nil {
			s += "any"
		} else {
			s += p.String()
		}
	}
	if m.Variadic {
		if len(m.Params) > 0 {
			s += ", "
		}
		s += "..."
	}
	return s + ")"
}

func (m *MethodBinding) String() string { return m.Signature() }

// ============================================================================
// 问题绑定
// ============================================================================

// ProblemBinding 查找失败的哨兵绑定
//
// Closest 保留最接近的候选（可能为 nil），供工具使用。
type ProblemBinding struct {
	name    string
	mask    Kind
	Reason  ProblemReason
	Closest Binding
}

// NewProblem 创建问题绑定
func NewProblem(name string, mask Kind, reason ProblemReason, closest Binding) *ProblemBinding {
	return &ProblemBinding{name: name, mask: mask, Reason: reason, Closest: closest}
}

func (p *ProblemBinding) Name() string           { return p.name }
func (p *ProblemBinding) Kind() Kind             { return p.mask }
func (p *ProblemBinding) Problem() ProblemReason { return p.Reason }

func (p *ProblemBinding) String() string {
	return fmt.Sprintf("%s(%s)", p.Reason, p.name)
}
