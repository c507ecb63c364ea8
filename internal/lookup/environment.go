package lookup

import (
	"sort"

	"github.com/tangzhangming/jscheck/internal/ast"
	"github.com/tangzhangming/jscheck/internal/constant"
	"github.com/tangzhangming/jscheck/internal/token"
	"github.com/tangzhangming/jscheck/internal/types"
)

// 内置绑定没有源码位置
var noSpan token.Span

// ============================================================================
// Environment 内置环境
// ============================================================================
//
// 每个编译单元拥有自己的环境：基本类型单例、内置类、全局值和全局函数。
// 环境在单元之间不共享，所以解析时可以随意挂接成员而不需要加锁。
// ============================================================================

// Environment 内置类型、全局值与全局函数
type Environment struct {
	base      [types.NumTypeIDs]*BaseType
	types     map[string]TypeBinding
	globals   map[string]*VariableBinding
	functions map[string]*MethodBinding
	arrays    map[TypeBinding]*ArrayType

	Object    *ClassBinding
	String    *ClassBinding
	Number    *ClassBinding
	Boolean   *ClassBinding
	Function  *ClassBinding
	Array     *ClassBinding
	Error     *ClassBinding
	Exception *ClassBinding
	Console   *ClassBinding
}

// NewEnvironment 创建带全部内置绑定的环境
func NewEnvironment() *Environment {
	e := &Environment{
		types:     make(map[string]TypeBinding),
		globals:   make(map[string]*VariableBinding),
		functions: make(map[string]*MethodBinding),
		arrays:    make(map[TypeBinding]*ArrayType),
	}
	for id := types.TypeID(0); id < types.NumTypeIDs; id++ {
		if id.IsBase() {
			e.base[id] = &BaseType{id: id}
		}
	}
	e.installClasses()
	e.installGlobals()
	return e
}

// Base 基本类型单例；id 不是基本类型时返回 nil
func (e *Environment) Base(id types.TypeID) *BaseType {
	if id >= types.NumTypeIDs {
		return nil
	}
	return e.base[id]
}

// BaseNamed 按注解关键字取基本类型
func (e *Environment) BaseNamed(name string) TypeBinding {
	if id, ok := types.LookupBase(name); ok {
		return e.base[id]
	}
	return nil
}

// FromID 运算结果类型编号对应的类型绑定
func (e *Environment) FromID(id types.TypeID) TypeBinding {
	switch id {
	case types.Undefined:
		return nil
	case types.Object:
		return e.Object
	case types.String:
		return e.String
	case types.Function:
		return e.Function
	}
	if b := e.Base(id); b != nil {
		return b
	}
	return nil
}

// ArrayOf dims 维数组类型；同一元素类型的数组类型是单例
func (e *Environment) ArrayOf(elem TypeBinding, dims int) TypeBinding {
	t := elem
	for i := 0; i < dims; i++ {
		a, ok := e.arrays[t]
		if !ok {
			a = &ArrayType{Elem: t}
			e.arrays[t] = a
		}
		t = a
	}
	return t
}

// LookupType 按名字查找内置类型
func (e *Environment) LookupType(name string) TypeBinding {
	return e.types[name]
}

// Global 内置全局值
func (e *Environment) Global(name string) *VariableBinding {
	return e.globals[name]
}

// GlobalFunction 内置全局函数
func (e *Environment) GlobalFunction(name string) *MethodBinding {
	return e.functions[name]
}

func (e *Environment) lookup(name string, mask Kind) Binding {
	if mask&KindType != 0 {
		if t := e.types[name]; t != nil {
			return t
		}
	}
	if mask&KindVariable != 0 {
		if g := e.globals[name]; g != nil {
			return g
		}
	}
	if mask&(KindMethod|KindLocal) != 0 {
		if f := e.functions[name]; f != nil {
			return f
		}
	}
	return nil
}

func (e *Environment) names(mask Kind) []string {
	var out []string
	if mask&KindType != 0 {
		for name := range e.types {
			out = append(out, name)
		}
	}
	if mask&KindVariable != 0 {
		for name := range e.globals {
			out = append(out, name)
		}
	}
	if mask&KindMethod != 0 {
		for name := range e.functions {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// ============================================================================
// 内置类与全局名字
// ============================================================================

func (e *Environment) class(name string, super *ClassBinding) *ClassBinding {
	c := NewClass(name, ast.ModPublic, 0, noSpan)
	c.Builtin = true
	c.Super = super
	e.types[name] = c
	return c
}

// method 给内置类添加方法；params 为 nil 的元素表示 any
func (e *Environment) method(c *ClassBinding, name string, mods ast.Modifiers, ret TypeBinding, params ...TypeBinding) *MethodBinding {
	m := NewMethod(name, ast.ModPublic|mods, c, 0, noSpan)
	m.Builtin = true
	m.Return = ret
	m.Params = params
	c.AddMethod(m)
	return m
}

func (e *Environment) variadic(c *ClassBinding, name string, ret TypeBinding) *MethodBinding {
	m := e.method(c, name, 0, ret)
	m.Variadic = true
	return m
}

func (e *Environment) field(c *ClassBinding, name string, mods ast.Modifiers, t TypeBinding) {
	c.AddField(NewField(name, ast.ModPublic|mods, t, c, 0, noSpan))
}

func (e *Environment) installClasses() {
	intT, boolT, doubleT := e.base[types.Int], e.base[types.Boolean], e.base[types.Double]
	voidT, anyT := e.base[types.Void], e.base[types.Any]

	e.Object = e.class("Object", nil)
	e.Object.Dynamic = true

	e.String = e.class("String", e.Object)
	e.String.id = types.String
	e.Function = e.class("Function", e.Object)
	e.Function.id = types.Function
	e.Function.Dynamic = true
	e.Number = e.class("Number", e.Object)
	e.Boolean = e.class("Boolean", e.Object)
	e.Array = e.class("Array", e.Object)
	e.Array.Dynamic = true
	e.Error = e.class("Error", e.Object)
	e.Exception = e.class("Exception", e.Error)
	e.Console = e.class("Console", e.Object)

	strT := TypeBinding(e.String)

	e.method(e.Object, "toString", 0, strT)
	e.method(e.Object, "hasOwnProperty", 0, boolT, strT)

	e.field(e.String, "length", ast.ModFinal, intT)
	e.method(e.String, "charAt", 0, strT, intT)
	e.method(e.String, "indexOf", 0, intT, strT)
	e.method(e.String, "substring", 0, strT, intT, intT)
	e.method(e.String, "toUpperCase", 0, strT)
	e.method(e.String, "toLowerCase", 0, strT)
	e.method(e.String, "trim", 0, strT)
	e.method(e.String, "split", 0, e.ArrayOf(strT, 1), strT)

	e.field(e.Number, "MAX_VALUE", ast.ModStatic|ast.ModFinal, doubleT)
	e.field(e.Number, "MIN_VALUE", ast.ModStatic|ast.ModFinal, doubleT)
	e.method(e.Number, "toFixed", 0, strT, intT)

	e.method(e.Boolean, "valueOf", 0, boolT)

	e.variadic(e.Function, "call", anyT)
	e.variadic(e.Function, "apply", anyT)

	e.field(e.Array, "length", 0, intT)
	e.method(e.Array, "push", 0, intT, nil)
	e.method(e.Array, "pop", 0, anyT)
	e.method(e.Array, "join", 0, strT, strT)

	e.field(e.Error, "message", 0, strT)
	e.ctor(e.Error)
	e.ctor(e.Exception)

	e.variadic(e.Console, "log", voidT)
	e.variadic(e.Console, "warn", voidT)
	e.variadic(e.Console, "error", voidT)
}

func (e *Environment) ctor(c *ClassBinding) {
	m := NewConstructor(c, 0, noSpan)
	m.Builtin = true
	m.Variadic = true
	c.AddMethod(m)
}

func (e *Environment) installGlobals() {
	anyT, doubleT := e.base[types.Any], e.base[types.Double]
	strT := TypeBinding(e.String)

	global := func(name string, t TypeBinding) {
		v := NewField(name, ast.ModPublic|ast.ModFinal|ast.ModStatic, t, nil, 0, noSpan)
		e.globals[name] = v
	}
	global("undefined", anyT)
	global("NaN", doubleT)
	global("Infinity", doubleT)
	global("console", e.Console)

	function := func(name string, mods ast.Modifiers, ret TypeBinding, params ...TypeBinding) *MethodBinding {
		m := NewFunction(name, 0, noSpan)
		m.Builtin = true
		m.Modifiers = mods
		m.Return = ret
		m.Params = params
		e.functions[name] = m
		return m
	}
	function("print", 0, e.base[types.Void]).Variadic = true
	function("parseInt", 0, e.base[types.Int], strT)
	function("parseFloat", 0, doubleT, strT)
	function("isNaN", 0, e.base[types.Boolean], nil)
	function("escape", ast.ModDeprecated, strT, strT)
}

// ============================================================================
// 装箱与赋值兼容性
// ============================================================================

// Box 基本类型装箱后的类：数值到 Number，boolean 到 Boolean，char 到 String
func (e *Environment) Box(t TypeBinding) *ClassBinding {
	b, ok := t.(*BaseType)
	if !ok {
		return nil
	}
	switch {
	case b.id == types.Char:
		return e.String
	case b.id.IsNumeric():
		return e.Number
	case b.id == types.Boolean:
		return e.Boolean
	}
	return nil
}

// Unbox 包装类拆箱后的基本类型：Number 到 double，Boolean 到 boolean
func (e *Environment) Unbox(t TypeBinding) *BaseType {
	switch t {
	case TypeBinding(e.Number):
		return e.base[types.Double]
	case TypeBinding(e.Boolean):
		return e.base[types.Boolean]
	}
	return nil
}

// OperandID 类型作为运算符操作数时的编号：包装类先拆箱
func (e *Environment) OperandID(t TypeBinding) types.TypeID {
	if t == nil {
		return types.Undefined
	}
	if u := e.Unbox(t); u != nil {
		return u.id
	}
	return t.ID()
}

// Assignable 赋值兼容性阶梯：
// 完全相同 → 常量收窄 → 基本类型拓宽 → 装箱后拓宽 → any / 函数类型的结构性放行。
//
// c 是被赋值表达式的常量值（不是常量时为 NotAConstant）。
// 任一侧未知或是问题类型时返回 true，避免连锁诊断。
func (e *Environment) Assignable(from, to TypeBinding, c constant.Value) bool {
	if from == nil || to == nil || !IsValid(from) || !IsValid(to) {
		return true
	}
	if from == to {
		return true
	}
	fid, tid := from.ID(), to.ID()
	if fid == types.Any || tid == types.Any {
		return true
	}

	fb, fromBase := from.(*BaseType)
	tb, toBase := to.(*BaseType)

	// 常量收窄：int（或能拓宽到 int 的类型）常量赋给比 int 窄的类型
	if fromBase && toBase && c.IsValid() {
		if (fb.id == types.Int || types.IsWidening(fb.id, types.Int)) && types.IsNarrowing(types.Int, tb.id) {
			if constant.IsRepresentable(c, tb.id) {
				return true
			}
		}
	}

	switch {
	case fromBase && toBase:
		return types.IsWidening(fid, tid)
	case fromBase && fid == types.Null:
		return true
	case fromBase:
		// 装箱后按引用类型比较
		boxed := e.Box(from)
		return boxed != nil && e.isSubtype(boxed, to)
	case toBase:
		// 拆箱后拓宽
		unboxed := e.Unbox(from)
		return unboxed != nil && types.IsWidening(unboxed.id, tid)
	}

	if e.isFunction(from) && e.isFunction(to) {
		return true
	}
	return e.isSubtype(from, to)
}

// isFunction 是否函数类型或 Function 类
func (e *Environment) isFunction(t TypeBinding) bool {
	switch t := t.(type) {
	case *FunctionType:
		return true
	case *ClassBinding:
		return t == e.Function
	}
	return false
}

// isSubtype 引用类型之间的子类型关系
func (e *Environment) isSubtype(from, to TypeBinding) bool {
	if from == to {
		return true
	}
	if to == TypeBinding(e.Object) {
		return true
	}
	switch f := from.(type) {
	case *ClassBinding:
		if tc, ok := to.(*ClassBinding); ok {
			return f.IsSubclassOf(tc)
		}
	case *ArrayType:
		switch t := to.(type) {
		case *ArrayType:
			if IsBaseType(f.Elem) || IsBaseType(t.Elem) {
				return f.Elem == t.Elem
			}
			return e.isSubtype(f.Elem, t.Elem)
		case *ClassBinding:
			return t == e.Array
		}
	case *FunctionType:
		return to == TypeBinding(e.Function)
	}
	return false
}

// IsChecked 是否受检异常：Exception 及其子类
func (e *Environment) IsChecked(t TypeBinding) bool {
	c, ok := t.(*ClassBinding)
	return ok && c.IsSubclassOf(e.Exception)
}

// MemberClass 访问成员时接收者对应的类：数组用 Array，基本类型装箱，函数用 Function
//
// null、void 与 any 没有成员类，返回 nil。
func (e *Environment) MemberClass(t TypeBinding) *ClassBinding {
	switch t := t.(type) {
	case *ClassBinding:
		return t
	case *ArrayType:
		return e.Array
	case *FunctionType:
		return e.Function
	case *BaseType:
		return e.Box(t)
	}
	return nil
}
