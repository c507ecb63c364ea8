package lookup

import (
	stderrors "errors"
	"sort"

	"github.com/tangzhangming/jscheck/internal/ast"
)

// ============================================================================
// 作用域链
// ============================================================================
//
// 编译单元作用域 ← 程序方法作用域 ← 类作用域 ← 方法作用域 ← 块作用域
//
// 块作用域和方法作用域保存局部名字；类作用域通过类绑定查找成员；
// 单元作用域先查本单元声明的名字，再查内置环境。
// 方法作用域为局部变量分配稠密槽位（参数在前），槽位数决定 FlowInfo 的大小。
// ============================================================================

// ScopeKind 作用域种类
type ScopeKind uint8

const (
	UnitScope ScopeKind = iota
	ClassScope
	MethodScope
	BlockScope
)

func (k ScopeKind) String() string {
	switch k {
	case UnitScope:
		return "unit"
	case ClassScope:
		return "class"
	case MethodScope:
		return "method"
	default:
		return "block"
	}
}

// ErrFrozen 向已冻结的作用域声明名字
var ErrFrozen = stderrors.New("scope is frozen")

// Scope 作用域
type Scope struct {
	Kind   ScopeKind
	Parent *Scope
	Env    *Environment
	Node   ast.NodeID

	Class    *ClassBinding  // ClassScope
	Method   *MethodBinding // MethodScope；程序和字段初始化为 nil
	Static   bool           // MethodScope：静态上下文
	CtorCall bool           // BlockScope：super(...) 的实参

	names  map[string]Binding
	locals []*VariableBinding // MethodScope：按槽位排列
	frozen bool
}

func newScope(kind ScopeKind, parent *Scope, node ast.NodeID) *Scope {
	s := &Scope{Kind: kind, Parent: parent, Node: node, names: make(map[string]Binding)}
	if parent != nil {
		s.Env = parent.Env
	}
	return s
}

// NewUnitScope 创建编译单元作用域
func NewUnitScope(env *Environment) *Scope {
	s := newScope(UnitScope, nil, 0)
	s.Env = env
	return s
}

// NewClassScope 创建类作用域并挂到类绑定上
func NewClassScope(parent *Scope, class *ClassBinding) *Scope {
	s := newScope(ClassScope, parent, class.Decl)
	s.Class = class
	class.Scope = s
	return s
}

// NewMethodScope 创建方法作用域
func NewMethodScope(parent *Scope, method *MethodBinding, node ast.NodeID, static bool) *Scope {
	s := newScope(MethodScope, parent, node)
	s.Method = method
	s.Static = static
	if method != nil {
		method.Scope = s
	}
	return s
}

// NewBlockScope 创建块作用域
func NewBlockScope(parent *Scope, node ast.NodeID) *Scope {
	return newScope(BlockScope, parent, node)
}

// ============================================================================
// 声明
// ============================================================================

// Declare 在本作用域声明 b
//
// 同名绑定已存在时不做修改并返回已有绑定；作用域已冻结时返回 ErrFrozen。
// 局部变量在最近的方法作用域里分配槽位。
func (s *Scope) Declare(b Binding) (Binding, error) {
	if s.frozen {
		return nil, ErrFrozen
	}
	if prev, ok := s.names[b.Name()]; ok {
		return prev, nil
	}
	s.names[b.Name()] = b
	if v, ok := b.(*VariableBinding); ok && v.kind == KindLocal {
		v.Scope = s
		if ms := s.MethodScope(); ms != nil {
			v.Slot = len(ms.locals)
			ms.locals = append(ms.locals, v)
		}
	}
	return nil, nil
}

// RegisterGlobal 把程序作用域的顶层名字登记到单元作用域，不改变其槽位和声明作用域
func (s *Scope) RegisterGlobal(b Binding) {
	if s.Kind != UnitScope || s.frozen {
		return
	}
	if _, ok := s.names[b.Name()]; !ok {
		s.names[b.Name()] = b
	}
}

// Local 只在本作用域查找
func (s *Scope) Local(name string) Binding {
	return s.names[name]
}

// Freeze 冻结作用域，之后的声明被拒绝
func (s *Scope) Freeze() { s.frozen = true }

// Frozen 是否已冻结
func (s *Scope) Frozen() bool { return s.frozen }

// SlotCount 方法作用域的槽位数
func (s *Scope) SlotCount() int {
	if ms := s.MethodScope(); ms != nil {
		return len(ms.locals)
	}
	return 0
}

// Locals 方法作用域的局部变量（按槽位）
func (s *Scope) Locals() []*VariableBinding {
	if ms := s.MethodScope(); ms != nil {
		return ms.locals
	}
	return nil
}

// ============================================================================
// 导航
// ============================================================================

// MethodScope 最近的方法作用域（可以是自身），不跨过类作用域
func (s *Scope) MethodScope() *Scope {
	for sc := s; sc != nil; sc = sc.Parent {
		switch sc.Kind {
		case MethodScope:
			return sc
		case ClassScope, UnitScope:
			return nil
		}
	}
	return nil
}

// EnclosingClass 最近的外层类
func (s *Scope) EnclosingClass() *ClassBinding {
	for sc := s; sc != nil; sc = sc.Parent {
		if sc.Kind == ClassScope {
			return sc.Class
		}
	}
	return nil
}

// EnclosingMethod 最近的外层方法绑定
func (s *Scope) EnclosingMethod() *MethodBinding {
	for sc := s; sc != nil; sc = sc.Parent {
		if sc.Kind == MethodScope && sc.Method != nil {
			return sc.Method
		}
	}
	return nil
}

// IsStatic 当前位置是否处于静态上下文（到最近的类作用域为止）
func (s *Scope) IsStatic() bool {
	for sc := s; sc != nil; sc = sc.Parent {
		switch sc.Kind {
		case MethodScope:
			if sc.Static {
				return true
			}
		case ClassScope:
			return false
		}
	}
	return false
}

// InDeprecatedCode 当前位置是否位于废弃的方法或类中
func (s *Scope) InDeprecatedCode() bool {
	for sc := s; sc != nil; sc = sc.Parent {
		switch sc.Kind {
		case MethodScope:
			if sc.Method != nil && sc.Method.IsDeprecated() {
				return true
			}
		case ClassScope:
			if sc.Class.IsDeprecated() {
				return true
			}
		}
	}
	return false
}

// ============================================================================
// 查找
// ============================================================================

// Lookup 按种类掩码查找名字；永远不返回 nil
func (s *Scope) Lookup(name string, mask Kind) Binding {
	b, _ := s.LookupDepth(name, mask)
	return b
}

// LookupDepth 查找名字并返回引用处到声明处跨越的方法作用域层数
func (s *Scope) LookupDepth(name string, mask Kind) (Binding, int) {
	depth := 0
	static := false
	ctorCall := false
	for sc := s; sc != nil; sc = sc.Parent {
		switch sc.Kind {
		case BlockScope, MethodScope:
			if b, ok := sc.names[name]; ok && b.Kind()&mask != 0 {
				return b, depth
			}
			if sc.CtorCall {
				ctorCall = true
			}
			if sc.Kind == MethodScope {
				if sc.Static {
					static = true
				}
				depth++
			}

		case ClassScope:
			if b, declaring := sc.Class.member(name, mask); b != nil {
				return sc.checkMember(b, declaring, name, mask, static, ctorCall), depth
			}
			// 离开局部类后回到外层方法的上下文
			static, ctorCall = false, false

		case UnitScope:
			if b := sc.lookupUnit(name, mask); b != nil {
				return b, depth
			}
		}
	}
	return NewProblem(name, mask, NotFound, nil), depth
}

// checkMember 对类作用域中找到的成员做静态性、可见性和遮蔽检查
func (s *Scope) checkMember(b Binding, declaring *ClassBinding, name string, mask Kind, static, ctorCall bool) Binding {
	mods, isStatic := memberModifiers(b)
	if !isStatic {
		if ctorCall {
			return NewProblem(name, mask, NonStaticReferenceInConstructorInvocation, b)
		}
		if static {
			return NewProblem(name, mask, NonStaticReferenceInStaticContext, b)
		}
	}
	if !Visible(mods, declaring, s.Class) {
		return NewProblem(name, mask, NotVisible, b)
	}
	if declaring != s.Class && s.Parent != nil {
		// 继承来的成员遮蔽了外层方法的局部名字
		if outer, _ := s.Parent.LookupDepth(name, KindLocal); IsValid(outer) {
			if v, isLocal := outer.(*VariableBinding); isLocal && v.Scope != nil {
				// 程序顶层的变量相当于全局变量，不算外层局部名字
				if ms := v.Scope.MethodScope(); ms != nil && ms.Method != nil {
					return NewProblem(name, mask, InheritedNameHidesEnclosingName, b)
				}
			}
		}
	}
	return b
}

func memberModifiers(b Binding) (mods ast.Modifiers, static bool) {
	switch m := b.(type) {
	case *VariableBinding:
		return m.Modifiers, m.IsStatic()
	case *MethodBinding:
		return m.Modifiers, m.IsStatic()
	}
	return 0, true
}

// member 在类及其父类中查找字段或方法，返回绑定和声明它的类
func (c *ClassBinding) member(name string, mask Kind) (Binding, *ClassBinding) {
	for k, n := c, 0; k != nil && n < maxHierarchyDepth; k, n = k.Super, n+1 {
		if mask&KindField != 0 {
			if f := k.fields[name]; f != nil {
				return f, k
			}
		}
		if mask&KindMethod != 0 {
			if ms := k.methods[name]; len(ms) > 0 {
				return ms[0], k
			}
		}
	}
	return nil, nil
}

// Visible 从 from 类中能否访问 declaring 类声明的、修饰符为 mods 的成员
func Visible(mods ast.Modifiers, declaring, from *ClassBinding) bool {
	switch {
	case mods.Has(ast.ModPrivate):
		return from == declaring
	case mods.Has(ast.ModProtected):
		return from != nil && from.IsSubclassOf(declaring)
	}
	return true
}

// lookupUnit 在单元作用域查找：本单元的名字优先于内置环境，
// 二者种类不同且掩码同时接受时视为歧义。
func (s *Scope) lookupUnit(name string, mask Kind) Binding {
	var own Binding
	if b, ok := s.names[name]; ok && b.Kind()&mask != 0 {
		own = b
	}
	var builtin Binding
	if s.Env != nil {
		builtin = s.Env.lookup(name, mask)
	}
	switch {
	case own != nil && builtin != nil && own.Kind()&builtin.Kind() == 0:
		return NewProblem(name, mask, Ambiguous, own)
	case own != nil:
		return own
	case builtin != nil:
		return builtin
	}
	return nil
}

// ResolveType 解析类型名；失败时返回 ProblemType
func (s *Scope) ResolveType(name string, dims int) TypeBinding {
	var t TypeBinding
	if s.Env != nil {
		t = s.Env.BaseNamed(name)
	}
	if t == nil {
		b := s.Lookup(name, KindType)
		switch b := b.(type) {
		case TypeBinding:
			t = b
		case *ProblemBinding:
			var closest TypeBinding
			if ct, ok := b.Closest.(TypeBinding); ok {
				closest = ct
			}
			return &ProblemType{name: name, Reason: b.Reason, Closest: closest}
		default:
			return &ProblemType{name: name, Reason: NotFound}
		}
	}
	if dims > 0 && s.Env != nil {
		t = s.Env.ArrayOf(t, dims)
	}
	return t
}

// VisibleNames 从本作用域可见的名字（用于 "你是不是想写"）
func (s *Scope) VisibleNames(mask Kind) []string {
	seen := make(map[string]bool)
	var names []string
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	for sc := s; sc != nil; sc = sc.Parent {
		for name, b := range sc.names {
			if b.Kind()&mask != 0 {
				add(name)
			}
		}
		if sc.Kind == ClassScope && mask&(KindField|KindMethod) != 0 {
			for _, name := range sc.Class.MemberNames() {
				add(name)
			}
		}
		if sc.Kind == UnitScope && sc.Env != nil {
			for _, name := range sc.Env.names(mask) {
				add(name)
			}
		}
	}
	sort.Strings(names)
	return names
}
