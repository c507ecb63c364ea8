package compiler

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/tangzhangming/jscheck/internal/ast"
	"github.com/tangzhangming/jscheck/internal/errors"
	"github.com/tangzhangming/jscheck/internal/formatter"
	"github.com/tangzhangming/jscheck/internal/lookup"
	"github.com/tangzhangming/jscheck/internal/types"
)

// ============================================================================
// 测试辅助
// ============================================================================

func compileOK(t *testing.T, src string) *Unit {
	t.Helper()
	return compileWith(t, src, Options{})
}

func compileWith(t *testing.T, src string, opts Options) *Unit {
	t.Helper()
	u, err := Compile(context.Background(), "test.js", src, opts)
	if err != nil {
		t.Fatalf("compile aborted: %v", err)
	}
	if n := u.Sink.Count(errors.SyntaxError) + u.Sink.Count(errors.LexicalError); n > 0 {
		t.Fatalf("unexpected syntax errors: %v", describe(u))
	}
	return u
}

func describe(u *Unit) string {
	var parts []string
	for _, p := range u.Problems() {
		parts = append(parts, string(p.ID)+" "+p.Message)
	}
	return strings.Join(parts, "; ")
}

func expectCount(t *testing.T, u *Unit, id errors.ProblemID, want int) {
	t.Helper()
	if got := u.Sink.Count(id); got != want {
		t.Errorf("expected %d %s, got %d (%s)", want, id, got, describe(u))
	}
}

func firstInit(t *testing.T, u *Unit, index int) ast.Expression {
	t.Helper()
	vd, ok := u.File.Body[index].(*ast.VarDecl)
	if !ok {
		t.Fatalf("statement %d: expected VarDecl, got %T", index, u.File.Body[index])
	}
	return vd.Decls[0].Init
}

// findIdent 第 n 个（从 0 开始）名为 name 的标识符
func findIdent(root ast.Node, name string, n int) *ast.Ident {
	var found *ast.Ident
	ast.Inspect(root, func(x ast.Node) bool {
		if found != nil {
			return false
		}
		if id, ok := x.(*ast.Ident); ok && id.Name == name {
			if n == 0 {
				found = id
				return false
			}
			n--
		}
		return true
	})
	return found
}

// ============================================================================
// 常量与类型
// ============================================================================

func TestConstantFolding(t *testing.T) {
	tests := []struct {
		src      string
		typ      types.TypeID
		constant string
	}{
		{"var a = 1 + 2;", types.Int, "3"},
		{`var s = "a" + 1;`, types.String, "a1"},
		{"var b = 1 < 2;", types.Boolean, "true"},
		{"var m = 7 % 4 * 2;", types.Int, "6"},
		{"var m = -2147483648;", types.Int, "-2147483648"},
		{"var l = -9223372036854775808L;", types.Long, "-9223372036854775808"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			u := compileOK(t, tt.src)
			expectCount(t, u, errors.TypeMismatch, 0)

			init := firstInit(t, u, 0)
			typ := u.Info.TypeOf(init)
			if typ == nil || typ.ID() != tt.typ {
				t.Fatalf("expected type %v, got %v", tt.typ, typ)
			}
			k := u.Info.ConstantOf(init)
			if !k.IsValid() {
				t.Fatalf("expected a constant")
			}
			if got := k.String(); got != tt.constant {
				t.Errorf("expected constant %q, got %q", tt.constant, got)
			}
		})
	}
}

func TestLongConcatenationChain(t *testing.T) {
	const terms = 10000
	src := "var s = " + strings.TrimSuffix(strings.Repeat(`"x" + `, terms), " + ") + ";"

	u := compileOK(t, src)
	if u.Sink.Len() != 0 {
		t.Fatalf("unexpected problems: %s", describe(u))
	}
	k := u.Info.ConstantOf(firstInit(t, u, 0))
	if got := len(k.StringVal()); got != terms {
		t.Errorf("expected folded string of length %d, got %d", terms, got)
	}
}

// ============================================================================
// 名字与绑定
// ============================================================================

func TestBindingsAndDepth(t *testing.T) {
	u := compileWith(t, `
var g = 1;
function f(): int {
    return g;
}
missing;
`, Options{})

	g := findIdent(u.File.Body[1], "g", 0)
	if g == nil {
		t.Fatal("reference to g not found")
	}
	if g.Depth != 1 {
		t.Errorf("expected depth 1 for captured global, got %d", g.Depth)
	}
	if _, ok := u.Info.BindingOf(g).(*lookup.VariableBinding); !ok {
		t.Errorf("expected variable binding, got %T", u.Info.BindingOf(g))
	}

	m := findIdent(u.File.Body[2], "missing", 0)
	pb, ok := u.Info.BindingOf(m).(*lookup.ProblemBinding)
	if !ok {
		t.Fatalf("expected problem binding, got %T", u.Info.BindingOf(m))
	}
	if pb.Reason != lookup.NotFound {
		t.Errorf("expected NotFound, got %v", pb.Reason)
	}
	if !m.Has(ast.Invalid) {
		t.Error("unresolved identifier should be marked invalid")
	}
	expectCount(t, u, errors.UndefinedName, 1)
}

func TestResolveIsIdempotent(t *testing.T) {
	u := compileOK(t, `
var a = 1;
function f(x: int): int {
    return x + a + b;
}
`)
	before := u.Sink.Len()
	x := findIdent(u.File, "x", 0)
	binding := u.Info.BindingOf(x)

	if err := u.Resolve(context.Background()); err != nil {
		t.Fatalf("second resolve failed: %v", err)
	}
	if got := u.Sink.Len(); got != before {
		t.Errorf("second resolve changed problem count from %d to %d", before, got)
	}
	if u.Info.BindingOf(x) != binding {
		t.Error("second resolve changed a binding")
	}
	expectCount(t, u, errors.UndefinedName, 1)
}

// identSignature 按遍历顺序列出每个标识符的绑定种类和类型
func identSignature(u *Unit) []string {
	var sig []string
	ast.Inspect(u.File, func(n ast.Node) bool {
		id, ok := n.(*ast.Ident)
		if !ok {
			return true
		}
		typ := "-"
		if tb := u.Info.TypeOf(id); tb != nil {
			typ = tb.String()
		}
		sig = append(sig, fmt.Sprintf("%s %T %s", id.Name, u.Info.BindingOf(id), typ))
		return true
	})
	for _, p := range u.Problems() {
		sig = append(sig, string(p.ID))
	}
	return sig
}

func TestForInRedeclaredVar(t *testing.T) {
	u := compileOK(t, `
var o = {};
var k: int;
var s: String;
for (var k in o) {}
for (var s in o) {}
`)
	expectCount(t, u, errors.TypeMismatch, 1)
	for _, p := range u.Problems() {
		if p.ID == errors.TypeMismatch && p.Span.Start.Line != 5 {
			t.Errorf("expected the mismatch on the int loop variable, got line %d", p.Span.Start.Line)
		}
	}
}

func TestPrintedTreeResolvesTheSame(t *testing.T) {
	src := `var total=0;var name="n"+1;
function add(a:int,b:int):int{var c=a+b;if(c>10){return c;}else return 0;}
for(var i=0;i<3;i++){total=total+add(i,2);}
while(total>0){total--;if(total==5)break;}
try{print(name);}catch(e:Error){print(e);}finally{total=0;}
undefinedThing;`

	first := compileWith(t, src, Options{})
	printed, err := formatter.FormatWithDefaultOptions(src, "test.js")
	if err != nil {
		t.Fatalf("format failed: %v", err)
	}
	second := compileWith(t, printed, Options{})

	a, b := identSignature(first), identSignature(second)
	if len(a) != len(b) {
		t.Fatalf("signature length differs: %d vs %d\n%s", len(a), len(b), printed)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("entry %d differs: %q vs %q", i, a[i], b[i])
		}
	}
	expectCount(t, second, errors.UndefinedName, 1)
}

func TestDeprecatedUse(t *testing.T) {
	u := compileOK(t, `escape("a");`)
	expectCount(t, u, errors.DeprecatedUse, 1)
}

// ============================================================================
// 确定赋值
// ============================================================================

func TestDefiniteAssignment(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		uninit int
	}{
		{"both branches", `
function f(c: boolean): int {
    var x: int;
    if (c) {
        x = 1;
    } else {
        x = 2;
    }
    return x;
}`, 0},
		{"then only", `
function f(c: boolean): int {
    var x: int;
    if (c) {
        x = 1;
    }
    return x;
}`, 1},
		{"while body", `
function f(c: boolean): int {
    var x: int;
    while (c) {
        x = 1;
    }
    return x;
}`, 1},
		{"infinite loop with break", `
function f(): int {
    var x: int;
    while (true) {
        x = 1;
        break;
    }
    return x;
}`, 0},
		{"assigned in condition", `
function f(a: boolean): boolean {
    var x: boolean;
    if (a && (x = true)) {
        return x;
    }
    return false;
}`, 0},
		{"parameter", `
function f(p: int): int {
    return p;
}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := compileOK(t, tt.src)
			expectCount(t, u, errors.UninitializedLocal, tt.uninit)
		})
	}
}

func TestFirstAssignmentFlag(t *testing.T) {
	u := compileOK(t, `
function f(): int {
    var x: int;
    x = 1;
    x = 2;
    return x;
}`)
	first := findIdent(u.File, "x", 0)
	second := findIdent(u.File, "x", 1)
	if !first.Has(ast.FirstAssignmentToLocal) {
		t.Error("first assignment should be flagged")
	}
	if second.Has(ast.FirstAssignmentToLocal) {
		t.Error("second assignment should not be flagged")
	}
}

// ============================================================================
// 可达性
// ============================================================================

func TestUnreachableReportedOnce(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"after return", `
function f(): int {
    return 1;
    f();
    f();
    f();
}`},
		{"after top-level throw", `
throw new Error("x");
print(1);
print(2);
`},
		{"after break", `
function f(c: boolean): void {
    while (c) {
        break;
        print(1);
        print(2);
    }
}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := compileOK(t, tt.src)
			expectCount(t, u, errors.UnreachableCode, 1)
			expectCount(t, u, errors.MissingReturn, 0)
		})
	}
}

func TestMissingReturn(t *testing.T) {
	u := compileOK(t, `
function f(c: boolean): int {
    if (c) {
        return 1;
    }
}
function g(c: boolean): void {
    if (c) {
        return;
    }
}`)
	expectCount(t, u, errors.MissingReturn, 1)
}

func TestFinallyNotNormal(t *testing.T) {
	u := compileOK(t, `
function f(): int {
    try {
        return 1;
    } finally {
        return 2;
    }
}`)
	expectCount(t, u, errors.FinallyNotNormal, 1)
	expectCount(t, u, errors.MissingReturn, 0)

	var try *ast.TryStmt
	ast.Inspect(u.File, func(n ast.Node) bool {
		if s, ok := n.(*ast.TryStmt); ok {
			try = s
		}
		return true
	})
	if try == nil || !try.Has(ast.SubRoutineEscaping) {
		t.Error("try statement should be marked as having an escaping finally")
	}
}

func TestUnreachableCatch(t *testing.T) {
	u := compileOK(t, `
class MyException extends Exception {}
function f(): void {
    try {
        var x = 1;
    } catch (e: MyException) {
    }
}
function g(): void {
    try {
        print(1);
    } catch (e: MyException) {
    }
}`)
	expectCount(t, u, errors.UnreachableCatch, 1)
}

func TestLabelsAndJumps(t *testing.T) {
	tests := []struct {
		name string
		src  string
		id   errors.ProblemID
		want int
	}{
		{"unused label", `
function f(c: boolean): void {
    outer: while (c) {
        break;
    }
}`, errors.UnusedLabel, 1},
		{"used label", `
function f(c: boolean): void {
    outer: while (c) {
        while (c) {
            break outer;
        }
    }
}`, errors.UnusedLabel, 0},
		{"break outside", "break;", errors.BreakOutside, 1},
		{"continue outside", "continue;", errors.ContinueOutside, 1},
		{"undefined label", `
function f(c: boolean): void {
    while (c) {
        break nowhere;
    }
}`, errors.UndefinedLabel, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := compileOK(t, tt.src)
			expectCount(t, u, tt.id, tt.want)
		})
	}
}

func TestSwitchFallthrough(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want int
	}{
		{"undocumented", `
function f(x: int): void {
    switch (x) {
    case 1:
        print(1);
    case 2:
        print(2);
        break;
    }
}`, 1},
		{"documented", `
function f(x: int): void {
    switch (x) {
    case 1:
        print(1);
        // falls through
    case 2:
        print(2);
        break;
    }
}`, 0},
		{"empty case", `
function f(x: int): void {
    switch (x) {
    case 1:
    case 2:
        print(2);
    }
}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := compileOK(t, tt.src)
			expectCount(t, u, errors.Fallthrough, tt.want)
		})
	}
}

// ============================================================================
// 空值分析
// ============================================================================

func TestNullAnalysis(t *testing.T) {
	tests := []struct {
		name string
		src  string
		id   errors.ProblemID
		want int
	}{
		{"definitely null", `
function f(): void {
    var s: String = null;
    s.length;
}`, errors.NullReference, 1},
		{"redundant null check", `
function f(): void {
    var s: String = null;
    if (s == null) {
        print(1);
    }
}`, errors.RedundantNullCheck, 1},
		{"redundant non-null check", `
function f(): void {
    var s: String = "a";
    if (s != null) {
        print(1);
    }
}`, errors.RedundantNonNullCheck, 1},
		{"checked before use", `
function f(s: String): void {
    if (s != null) {
        s.length;
    }
}`, errors.PotentialNullReference, 0},
		{"null assigned inside loop", `
function f(): void {
    var s: String = "a";
    while (s.length > 0) {
        s = null;
    }
}`, errors.PotentialNullReference, 1},
		{"non-null assigned inside loop", `
function f(): void {
    var s: String = "a";
    while (s.length > 0) {
        s = "b";
    }
}`, errors.PotentialNullReference, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := compileOK(t, tt.src)
			expectCount(t, u, tt.id, tt.want)
		})
	}
}

// ============================================================================
// 中止
// ============================================================================

func classDecl(t *testing.T, u *Unit, index int) *ast.ClassDecl {
	t.Helper()
	d, ok := u.File.Body[index].(*ast.ClassDecl)
	if !ok {
		t.Fatalf("statement %d: expected ClassDecl, got %T", index, u.File.Body[index])
	}
	return d
}

func TestMethodAbortBoundary(t *testing.T) {
	u := compileOK(t, `
class A {
    function m() {}
    function m() { var x; print(x); }
    function n() { var y; print(y); }
}
`)
	expectCount(t, u, errors.DuplicateMethod, 1)
	expectCount(t, u, errors.MissingBinding, 1)
	// 只有 n 里的 y 被报告，被中止的 m 不再分析
	expectCount(t, u, errors.UninitializedLocal, 1)

	d := classDecl(t, u, 0)
	if d.Has(ast.IgnoreFurtherInvestigation) {
		t.Error("class should not be marked by a method abort")
	}
	for i, want := range []bool{false, true, false} {
		if got := d.Methods[i].Has(ast.IgnoreFurtherInvestigation); got != want {
			t.Errorf("method %d: IgnoreFurtherInvestigation = %v, want %v", i, got, want)
		}
	}
	if u.File.Has(ast.IgnoreFurtherInvestigation) {
		t.Error("unit should not be marked by a method abort")
	}
	if u.Investigated {
		t.Error("unit with an aborted method should not count as investigated")
	}
}

func TestTypeAbortBoundary(t *testing.T) {
	u := compileOK(t, `
class A {}
class A {
    function m() { var x; print(x); }
}
class B {
    function k() { var y; print(y); }
}
`)
	expectCount(t, u, errors.DuplicateType, 1)
	expectCount(t, u, errors.MissingBinding, 1)
	expectCount(t, u, errors.UninitializedLocal, 1)

	for i, want := range []bool{false, true, false} {
		if got := classDecl(t, u, i).Has(ast.IgnoreFurtherInvestigation); got != want {
			t.Errorf("class %d: IgnoreFurtherInvestigation = %v, want %v", i, got, want)
		}
	}
	if m := classDecl(t, u, 1).Methods[0]; m.Has(ast.HasBeenResolved) {
		t.Error("methods of an aborted class should not be resolved")
	}
	if u.File.Has(ast.IgnoreFurtherInvestigation) || u.Investigated {
		t.Error("type abort should stop at the class boundary and clear Investigated")
	}
}

func TestUnitProblemLimit(t *testing.T) {
	u, err := Compile(context.Background(), "limit.js", "a;\nb;\nc;\nd;\n", Options{MaxUnitProblems: 2})
	if err != nil {
		t.Fatalf("unit abort should not escape the unit: %v", err)
	}
	if u.Investigated {
		t.Error("unit should be marked as not fully investigated")
	}
	if !u.File.Has(ast.IgnoreFurtherInvestigation) {
		t.Error("file should be marked IgnoreFurtherInvestigation")
	}
	expectCount(t, u, errors.UndefinedName, 2)
	expectCount(t, u, errors.UnitTooManyProblems, 1)

	// 中止后的单元不再分析
	before := u.Sink.Len()
	if err := u.Analyse(context.Background()); err != nil {
		t.Fatalf("analyse after abort: %v", err)
	}
	if u.Sink.Len() != before {
		t.Error("aborted unit produced more problems")
	}
}

func TestCompilationProblemLimit(t *testing.T) {
	u, err := Compile(context.Background(), "limit.js", "a;\nb;\nc;\nd;\n", Options{MaxProblems: 2})
	a, ok := errors.AsAbort(err)
	if !ok {
		t.Fatalf("expected compilation abort, got %v", err)
	}
	if a.Level != errors.AbortCompilation {
		t.Errorf("expected AbortCompilation, got %v", a.Level)
	}
	expectCount(t, u, errors.UndefinedName, 2)
	expectCount(t, u, errors.TooManyProblems, 1)
}

func TestCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	u, err := Compile(ctx, "cancel.js", "var a = 1;\n", Options{})
	a, ok := errors.AsAbort(err)
	if !ok || a.Level != errors.AbortCompilation {
		t.Fatalf("expected compilation abort, got %v", err)
	}
	expectCount(t, u, errors.Cancelled, 1)
}

func TestSeverityOverride(t *testing.T) {
	table := errors.NewSeverityTable()
	if err := table.Set("unreachable-code", errors.SeverityIgnore); err != nil {
		t.Fatal(err)
	}
	u := compileWith(t, `
function f(): int {
    return 1;
    f();
}`, Options{Severity: table})
	expectCount(t, u, errors.UnreachableCode, 0)
}
