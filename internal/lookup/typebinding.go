package lookup

import (
	"sort"

	"github.com/tangzhangming/jscheck/internal/ast"
	"github.com/tangzhangming/jscheck/internal/token"
	"github.com/tangzhangming/jscheck/internal/types"
)

// TypeBinding 类型绑定
//
// ID 是运算符表使用的 4 位类型编号：基本类型是自身编号，
// String 与 Function 有专门编号，其余引用类型（含数组）都是 Object。
type TypeBinding interface {
	Binding
	ID() types.TypeID
	String() string
}

// IsBaseType 是否基本类型绑定
func IsBaseType(t TypeBinding) bool {
	_, ok := t.(*BaseType)
	return ok
}

// ============================================================================
// 基本类型
// ============================================================================

// BaseType 基本类型（int、boolean、any、null、void ...）
//
// 每个环境中每种基本类型只有一个实例，可以用指针比较。
type BaseType struct {
	id types.TypeID
}

func (b *BaseType) Name() string           { return b.id.String() }
func (b *BaseType) Kind() Kind             { return KindType }
func (b *BaseType) Problem() ProblemReason { return NoProblem }
func (b *BaseType) ID() types.TypeID       { return b.id }
func (b *BaseType) String() string         { return b.id.String() }

// ============================================================================
// 类
// ============================================================================

// ClassBinding 类（内置类或源码中声明的类）
type ClassBinding struct {
	name      string
	id        types.TypeID
	Super     *ClassBinding
	Modifiers ast.Modifiers
	Decl      ast.NodeID
	Span      token.Span
	Builtin   bool
	Dynamic   bool // 未声明的成员按 any 处理（Object、Array ...）
	Scope     *Scope

	Constructor *MethodBinding

	fields  map[string]*VariableBinding
	order   []*VariableBinding
	methods map[string][]*MethodBinding
}

// NewClass 创建类绑定
func NewClass(name string, mods ast.Modifiers, decl ast.NodeID, span token.Span) *ClassBinding {
	return &ClassBinding{
		name:      name,
		id:        types.Object,
		Modifiers: mods,
		Decl:      decl,
		Span:      span,
		fields:    make(map[string]*VariableBinding),
		methods:   make(map[string][]*MethodBinding),
	}
}

func (c *ClassBinding) Name() string           { return c.name }
func (c *ClassBinding) Kind() Kind             { return KindType }
func (c *ClassBinding) Problem() ProblemReason { return NoProblem }
func (c *ClassBinding) ID() types.TypeID       { return c.id }
func (c *ClassBinding) String() string         { return c.name }

// IsDeprecated 是否废弃
func (c *ClassBinding) IsDeprecated() bool { return c.Modifiers.Has(ast.ModDeprecated) }

// AddField 添加字段；同名字段已存在时返回已有字段
func (c *ClassBinding) AddField(f *VariableBinding) *VariableBinding {
	if prev, ok := c.fields[f.name]; ok {
		return prev
	}
	f.Class = c
	c.fields[f.name] = f
	c.order = append(c.order, f)
	return nil
}

// AddMethod 添加方法；同名且参数个数相同的方法已存在时返回已有方法
func (c *ClassBinding) AddMethod(m *MethodBinding) *MethodBinding {
	m.Class = c
	if m.isCtor {
		if c.Constructor != nil {
			return c.Constructor
		}
		c.Constructor = m
		return nil
	}
	for _, prev := range c.methods[m.name] {
		if prev.Arity() == m.Arity() {
			return prev
		}
	}
	c.methods[m.name] = append(c.methods[m.name], m)
	return nil
}

// Field 本类声明的字段
func (c *ClassBinding) Field(name string) *VariableBinding {
	return c.fields[name]
}

// Fields 本类声明的字段（声明顺序）
func (c *ClassBinding) Fields() []*VariableBinding {
	return c.order
}

// Methods 本类声明的同名方法
func (c *ClassBinding) Methods(name string) []*MethodBinding {
	return c.methods[name]
}

// FindField 沿父类链查找字段
func (c *ClassBinding) FindField(name string) *VariableBinding {
	for k, n := c, 0; k != nil && n < maxHierarchyDepth; k, n = k.Super, n+1 {
		if f := k.fields[name]; f != nil {
			return f
		}
	}
	return nil
}

// FindMethods 沿父类链查找方法：返回第一个声明了该名字的类中的全部重载
func (c *ClassBinding) FindMethods(name string) []*MethodBinding {
	for k, n := c, 0; k != nil && n < maxHierarchyDepth; k, n = k.Super, n+1 {
		if ms := k.methods[name]; len(ms) > 0 {
			return ms
		}
	}
	return nil
}

// SelectMethod 按名字再按实参个数选择方法
//
// 没有个数匹配的重载时返回第一个候选作为最接近的匹配，ok 为 false。
func (c *ClassBinding) SelectMethod(name string, argc int) (m *MethodBinding, ok bool) {
	candidates := c.FindMethods(name)
	if len(candidates) == 0 {
		return nil, false
	}
	for _, cand := range candidates {
		if cand.Accepts(argc) {
			return cand, true
		}
	}
	return candidates[0], false
}

// FindConstructor 沿父类链查找构造函数
func (c *ClassBinding) FindConstructor() *MethodBinding {
	for k, n := c, 0; k != nil && n < maxHierarchyDepth; k, n = k.Super, n+1 {
		if k.Constructor != nil {
			return k.Constructor
		}
	}
	return nil
}

// IsSubclassOf c 是否等于 other 或是它的（间接）子类
func (c *ClassBinding) IsSubclassOf(other *ClassBinding) bool {
	for k, n := c, 0; k != nil && n < maxHierarchyDepth; k, n = k.Super, n+1 {
		if k == other {
			return true
		}
	}
	return false
}

// MemberNames 沿父类链收集的成员名（用于 "你是不是想写"）
func (c *ClassBinding) MemberNames() []string {
	seen := make(map[string]bool)
	var names []string
	for k, n := c, 0; k != nil && n < maxHierarchyDepth; k, n = k.Super, n+1 {
		for name := range k.fields {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
		for name := range k.methods {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}

// 父类链遍历的上限，防止未断开的环导致死循环
const maxHierarchyDepth = 256

// ============================================================================
// 数组与函数类型
// ============================================================================

// ArrayType 数组类型；多维数组是数组的数组
type ArrayType struct {
	Elem TypeBinding
}

func (a *ArrayType) Name() string           { return a.String() }
func (a *ArrayType) Kind() Kind             { return KindType }
func (a *ArrayType) Problem() ProblemReason { return NoProblem }
func (a *ArrayType) ID() types.TypeID       { return types.Object }
func (a *ArrayType) String() string         { return a.Elem.String() + "[]" }

// FunctionType 具名函数作为值时的类型
type FunctionType struct {
	Method *MethodBinding
}

func (f *FunctionType) Name() string           { return "Function" }
func (f *FunctionType) Kind() Kind             { return KindType }
func (f *FunctionType) Problem() ProblemReason { return NoProblem }
func (f *FunctionType) ID() types.TypeID       { return types.Function }
func (f *FunctionType) String() string         { return "Function" }

// ============================================================================
// 问题类型
// ============================================================================

// ProblemType 无法解析的类型名
type ProblemType struct {
	name    string
	Reason  ProblemReason
	Closest TypeBinding
}

func (p *ProblemType) Name() string           { return p.name }
func (p *ProblemType) Kind() Kind             { return KindType }
func (p *ProblemType) Problem() ProblemReason { return p.Reason }
func (p *ProblemType) ID() types.TypeID       { return types.Undefined }
func (p *ProblemType) String() string         { return p.name }
