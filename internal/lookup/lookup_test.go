package lookup

import (
	"testing"

	"github.com/tangzhangming/jscheck/internal/ast"
	"github.com/tangzhangming/jscheck/internal/constant"
	"github.com/tangzhangming/jscheck/internal/token"
	"github.com/tangzhangming/jscheck/internal/types"
)

var span token.Span

func newProgram() (*Environment, *Scope, *Scope) {
	env := NewEnvironment()
	unit := NewUnitScope(env)
	program := NewMethodScope(unit, nil, 0, false)
	return env, unit, program
}

func TestLookupNeverNil(t *testing.T) {
	_, _, program := newProgram()

	b := program.Lookup("missing", KindVariable)
	if b == nil {
		t.Fatal("lookup returned nil")
	}
	if IsValid(b) || b.Problem() != NotFound {
		t.Errorf("expected NotFound problem, got %v", b)
	}
}

func TestLookupBuiltins(t *testing.T) {
	env, _, program := newProgram()

	tests := []struct {
		name string
		mask Kind
		want Binding
	}{
		{"String", KindType, env.String},
		{"Exception", KindType, env.Exception},
		{"console", KindVariable, env.Global("console")},
		{"print", KindMethod, env.GlobalFunction("print")},
		{"parseInt", KindVariable | KindMethod, env.GlobalFunction("parseInt")},
	}
	for _, tt := range tests {
		if got := program.Lookup(tt.name, tt.mask); got != tt.want {
			t.Errorf("Lookup(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
	if !env.GlobalFunction("escape").IsDeprecated() {
		t.Error("escape should be deprecated")
	}
}

func TestSlotsAndDepth(t *testing.T) {
	_, _, program := newProgram()

	x := NewLocal("x", VarLocal, nil, 1, span)
	program.Declare(x)

	fn := NewFunction("f", 2, span)
	inner := NewMethodScope(program, fn, 2, false)
	p := NewLocal("p", ParamLocal, nil, 3, span)
	inner.Declare(p)
	block := NewBlockScope(inner, 4)
	y := NewLocal("y", LetLocal, nil, 5, span)
	block.Declare(y)

	if x.Slot != 0 || p.Slot != 0 || y.Slot != 1 {
		t.Errorf("unexpected slots: x=%d p=%d y=%d", x.Slot, p.Slot, y.Slot)
	}
	if inner.SlotCount() != 2 || block.SlotCount() != 2 {
		t.Errorf("slot count = %d", inner.SlotCount())
	}

	tests := []struct {
		name  string
		want  Binding
		depth int
	}{
		{"y", y, 0},
		{"p", p, 0},
		{"x", x, 1},
	}
	for _, tt := range tests {
		b, depth := block.LookupDepth(tt.name, KindVariable)
		if b != tt.want || depth != tt.depth {
			t.Errorf("%s: got %v at depth %d, want depth %d", tt.name, b, depth, tt.depth)
		}
	}
}

func TestDeclareExistingAndFrozen(t *testing.T) {
	_, _, program := newProgram()
	block := NewBlockScope(program, 1)

	a := NewLocal("a", LetLocal, nil, 1, span)
	if prev, err := block.Declare(a); prev != nil || err != nil {
		t.Fatalf("first declaration: %v %v", prev, err)
	}
	if prev, _ := block.Declare(NewLocal("a", LetLocal, nil, 2, span)); prev != a {
		t.Errorf("redeclaration should return the existing binding")
	}

	block.Freeze()
	if _, err := block.Declare(NewLocal("b", LetLocal, nil, 3, span)); err != ErrFrozen {
		t.Errorf("expected ErrFrozen, got %v", err)
	}
}

func TestClassMemberProblems(t *testing.T) {
	env, unit, program := newProgram()

	base := NewClass("Base", 0, 1, span)
	base.Super = env.Object
	base.AddField(NewField("secret", ast.ModPrivate, nil, base, 2, span))
	base.AddField(NewField("shared", 0, nil, base, 3, span))
	unit.Declare(base)

	derived := NewClass("Derived", 0, 4, span)
	derived.Super = base
	derived.AddField(NewField("count", 0, nil, derived, 5, span))
	derived.AddField(NewField("total", ast.ModStatic, nil, derived, 6, span))
	classScope := NewClassScope(program, derived)

	instance := NewMethodScope(classScope, NewMethod("run", 0, derived, 7, span), 7, false)
	static := NewMethodScope(classScope, NewMethod("make", ast.ModStatic, derived, 8, span), 8, true)
	ctorArgs := NewBlockScope(NewMethodScope(classScope, NewConstructor(derived, 9, span), 9, false), 10)
	ctorArgs.CtorCall = true

	tests := []struct {
		name   string
		scope  *Scope
		reason ProblemReason
	}{
		{"count", instance, NoProblem},
		{"shared", instance, NoProblem},
		{"total", static, NoProblem},
		{"count", static, NonStaticReferenceInStaticContext},
		{"count", ctorArgs, NonStaticReferenceInConstructorInvocation},
		{"secret", instance, NotVisible},
	}
	for _, tt := range tests {
		b := tt.scope.Lookup(tt.name, KindVariable)
		if b.Problem() != tt.reason {
			t.Errorf("%s: got %v, want %v", tt.name, b.Problem(), tt.reason)
		}
		if p, ok := b.(*ProblemBinding); ok && p.Closest == nil {
			t.Errorf("%s: problem binding lost its closest match", tt.name)
		}
	}
}

func TestInheritedNameHidesEnclosingLocal(t *testing.T) {
	env, _, program := newProgram()

	outer := NewMethodScope(program, NewFunction("outer", 1, span), 1, false)
	outer.Declare(NewLocal("shared", VarLocal, nil, 2, span))

	base := NewClass("Base", 0, 3, span)
	base.Super = env.Object
	base.AddField(NewField("shared", 0, nil, base, 4, span))
	local := NewClass("Local", 0, 5, span)
	local.Super = base
	method := NewMethodScope(NewClassScope(outer, local), NewMethod("m", 0, local, 6, span), 6, false)

	if b := method.Lookup("shared", KindVariable); b.Problem() != InheritedNameHidesEnclosingName {
		t.Errorf("got %v", b)
	}
}

func TestAmbiguousUnitName(t *testing.T) {
	_, unit, program := newProgram()

	v := NewLocal("String", VarLocal, nil, 1, span)
	program.Declare(v)
	unit.RegisterGlobal(v)

	inner := NewMethodScope(NewClassScope(program, NewClass("C", 0, 2, span)), nil, 3, false)
	if b := unit.Lookup("String", KindVariable|KindType); b.Problem() != Ambiguous {
		t.Errorf("expected ambiguity, got %v", b)
	}
	if b := inner.Lookup("String", KindVariable); b != v {
		t.Errorf("variable-only lookup should find the local, got %v", b)
	}
}

func TestResolveType(t *testing.T) {
	env, _, program := newProgram()

	if got := program.ResolveType("int", 0); got != env.Base(types.Int) {
		t.Errorf("int: %v", got)
	}
	arr := program.ResolveType("String", 2)
	if arr.String() != "String[][]" || arr != env.ArrayOf(env.String, 2) {
		t.Errorf("String[][]: %v", arr)
	}
	if p, ok := program.ResolveType("Unknown", 0).(*ProblemType); !ok || p.Reason != NotFound {
		t.Errorf("expected problem type")
	}
}

func TestAssignable(t *testing.T) {
	env := NewEnvironment()
	intT := env.Base(types.Int)
	shortT := env.Base(types.Short)
	charT := env.Base(types.Char)
	doubleT := env.Base(types.Double)
	boolT := env.Base(types.Boolean)
	nullT := env.Base(types.Null)
	anyT := env.Base(types.Any)

	point := NewClass("Point", 0, 1, span)
	point.Super = env.Object
	point3 := NewClass("Point3", 0, 2, span)
	point3.Super = point

	nc := constant.NotAConstant
	tests := []struct {
		name     string
		from, to TypeBinding
		c        constant.Value
		want     bool
	}{
		{"identity", intT, intT, nc, true},
		{"widening", intT, doubleT, nc, true},
		{"narrowing", doubleT, intT, nc, false},
		{"constant fits short", intT, shortT, constant.Int(100), true},
		{"constant too big", intT, shortT, constant.Int(70000), false},
		{"constant char", intT, charT, constant.Int(65), true},
		{"no constant", intT, shortT, nc, false},
		{"long constant not narrowed", env.Base(types.Long), intT, constant.Long(1), false},
		{"any source", anyT, point, nc, true},
		{"any target", point, anyT, nc, true},
		{"null to reference", nullT, point, nc, true},
		{"null to primitive", nullT, intT, nc, false},
		{"subclass", point3, point, nc, true},
		{"superclass", point, point3, nc, false},
		{"box int", intT, env.Number, nc, true},
		{"box to object", boolT, env.Object, nc, true},
		{"box mismatch", boolT, env.Number, nc, false},
		{"unbox widen", env.Number, doubleT, nc, true},
		{"unbox narrow", env.Number, intT, nc, false},
		{"char boxes to String", charT, env.String, nc, true},
		{"function type", &FunctionType{}, env.Function, nc, true},
		{"array covariance", env.ArrayOf(point3, 1), env.ArrayOf(point, 1), nc, true},
		{"primitive arrays", env.ArrayOf(intT, 1), env.ArrayOf(doubleT, 1), nc, false},
		{"array to Array", env.ArrayOf(intT, 1), env.Array, nc, true},
		{"void", env.Base(types.Void), intT, nc, false},
		{"unknown", nil, intT, nc, true},
	}
	for _, tt := range tests {
		if got := env.Assignable(tt.from, tt.to, tt.c); got != tt.want {
			t.Errorf("%s: Assignable(%v, %v) = %v, want %v", tt.name, tt.from, tt.to, got, tt.want)
		}
	}
}

func TestClassHierarchy(t *testing.T) {
	env := NewEnvironment()
	c := NewClass("MyError", 0, 1, span)
	c.Super = env.Exception

	if !env.IsChecked(c) || env.IsChecked(env.Error) {
		t.Error("only Exception subclasses are checked")
	}
	if c.FindField("message") == nil {
		t.Error("inherited field not found")
	}
	if c.FindConstructor() != env.Exception.Constructor {
		t.Error("inherited constructor not found")
	}

	m := NewMethod("f", 0, c, 2, span)
	m.Params = []TypeBinding{nil}
	if prev := c.AddMethod(m); prev != nil {
		t.Fatal("unexpected duplicate")
	}
	dup := NewMethod("f", 0, c, 3, span)
	dup.Params = []TypeBinding{nil}
	if c.AddMethod(dup) != m {
		t.Error("same-arity method should be reported as duplicate")
	}
	if got, ok := c.SelectMethod("f", 2); ok || got != m {
		t.Errorf("SelectMethod should return the closest match, got %v %v", got, ok)
	}
}
