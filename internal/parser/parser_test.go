package parser

import (
	"strings"
	"testing"

	"github.com/tangzhangming/jscheck/internal/ast"
	"github.com/tangzhangming/jscheck/internal/types"
)

func parseOK(t *testing.T, input string, opts ...Option) (*Parser, *ast.File) {
	t.Helper()
	p := New(input, "test.js", opts...)
	file := p.Parse()
	if p.HasErrors() {
		for _, err := range p.Errors() {
			t.Errorf("parser error: %v", err)
		}
		for _, err := range p.LexErrors() {
			t.Errorf("lexer error: %v", err.Message)
		}
		t.FailNow()
	}
	return p, file
}

func TestParseVariableDeclaration(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`var x = 100;`, "var x = 100;"},
		{`let name: String = "test";`, `let name: String = "test";`},
		{`const a = 1, b;`, "const a = 1, b;"},
		{`var grid: int[][]`, "var grid: int[][];"},
	}

	for _, tt := range tests {
		_, file := parseOK(t, tt.input)
		if len(file.Body) != 1 {
			t.Errorf("expected 1 statement, got %d", len(file.Body))
			continue
		}
		if _, ok := file.Body[0].(*ast.VarDecl); !ok {
			t.Errorf("expected VarDecl, got %T", file.Body[0])
			continue
		}
		if got := file.Body[0].String(); got != tt.expected {
			t.Errorf("%q: expected %q, got %q", tt.input, tt.expected, got)
		}
	}
}

func TestParseExpressions(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 + 2 * 3;", "1 + 2 * 3;"},
		{"(1 + 2) * 3;", "(1 + 2) * 3;"},
		{"a = b = c;", "a = b = c;"},
		{"x += y << 2;", "x += y << 2;"},
		{"a ? b : c ? d : e;", "a ? b : c ? d : e;"},
		{"a || b && !c;", "a || b && !c;"},
		{"typeof x == \"number\";", "typeof x == \"number\";"},
		{"o.f(1, 2)[i]++;", "o.f(1, 2)[i]++;"},
		{"--n;", "--n;"},
		{"x instanceof Point;", "x instanceof Point;"},
		{"\"k\" in o;", "\"k\" in o;"},
		{"new Point(1, 2);", "new Point(1, 2);"},
		{"new Point;", "new Point();"},
		{"[1, 2.5, 3L];", "[1, 2.5, 3L];"},
		{"o = {a: 1, b: null};", "o = {a: 1, b: null};"},
		{"e.default;", "e.default;"},
		{"f = function (a, b) { return a; };", "f = function(a, b) { return a; };"},
	}

	for _, tt := range tests {
		_, file := parseOK(t, tt.input)
		if len(file.Body) != 1 {
			t.Errorf("%q: expected 1 statement, got %d", tt.input, len(file.Body))
			continue
		}
		if got := file.Body[0].String(); got != tt.expected {
			t.Errorf("%q: expected %q, got %q", tt.input, tt.expected, got)
		}
	}
}

func TestParseOperators(t *testing.T) {
	tests := []struct {
		input string
		op    types.Operator
	}{
		{"a & b;", types.And},
		{"a | b;", types.Or},
		{"a ^ b;", types.Xor},
		{"a && b;", types.AndAnd},
		{"a || b;", types.OrOr},
		{"a === b;", types.EqualEqualEqual},
		{"a !== b;", types.NotEqualEqual},
		{"a >>> b;", types.UnsignedRightShift},
		{"a % b;", types.Remainder},
	}

	for _, tt := range tests {
		_, file := parseOK(t, tt.input)
		bin, ok := file.Body[0].(*ast.ExprStmt).X.(*ast.BinaryExpr)
		if !ok {
			t.Errorf("%q: expected BinaryExpr, got %T", tt.input, file.Body[0].(*ast.ExprStmt).X)
			continue
		}
		if bin.Op != tt.op {
			t.Errorf("%q: expected %s, got %s", tt.input, tt.op, bin.Op)
		}
	}
}

func TestParseIfStatement(t *testing.T) {
	input := `
if (x > 0) {
    y = 1;
} else if (x < 0) {
    y = -1;
} else {
    y = 0;
}
`
	_, file := parseOK(t, input)

	stmt, ok := file.Body[0].(*ast.IfStmt)
	if !ok {
		t.Fatalf("expected IfStmt, got %T", file.Body[0])
	}
	if stmt.Has(ast.ElseIf) {
		t.Error("outer if should not be marked ElseIf")
	}
	elif, ok := stmt.Else.(*ast.IfStmt)
	if !ok {
		t.Fatalf("expected else-if, got %T", stmt.Else)
	}
	if !elif.Has(ast.ElseIf) {
		t.Error("nested if should be marked ElseIf")
	}
	if _, ok := elif.Else.(*ast.Block); !ok {
		t.Errorf("expected final else block, got %T", elif.Else)
	}
}

func TestParseLoops(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"for (var i = 0; i < 10; i++) { s += i; }", "for (var i = 0; i < 10; i++) { s += i; }"},
		{"for (;;) break;", "for (; ; ) break;"},
		{"for (var k in o) n++;", "for (var k in o) n++;"},
		{"for (k in o) n++;", "for (k in o) n++;"},
		{"while (true) { continue; }", "while (true) { continue; }"},
		{"do x--; while (x > 0)", "do x--; while (x > 0);"},
		{"outer: for (;;) { break outer; }", "outer: for (; ; ) { break outer; }"},
	}

	for _, tt := range tests {
		_, file := parseOK(t, tt.input)
		if len(file.Body) != 1 {
			t.Errorf("%q: expected 1 statement, got %d", tt.input, len(file.Body))
			continue
		}
		if got := file.Body[0].String(); got != tt.expected {
			t.Errorf("%q: expected %q, got %q", tt.input, tt.expected, got)
		}
	}
}

func TestParseForInTarget(t *testing.T) {
	_, file := parseOK(t, "for (var k in o) {}\nfor (k in o) {}")

	withDecl := file.Body[0].(*ast.ForInStmt)
	if withDecl.Decl == nil || withDecl.Target != nil {
		t.Errorf("expected declaration form, got decl=%v target=%v", withDecl.Decl, withDecl.Target)
	}
	withTarget := file.Body[1].(*ast.ForInStmt)
	if withTarget.Decl != nil || withTarget.Target == nil {
		t.Errorf("expected target form, got decl=%v target=%v", withTarget.Decl, withTarget.Target)
	}
}

func TestParseSwitch(t *testing.T) {
	input := `
switch (x) {
case 1:
    a();
    // falls through
case 2:
    b();
    break;
default:
    c();
}
`
	_, file := parseOK(t, input)

	sw, ok := file.Body[0].(*ast.SwitchStmt)
	if !ok {
		t.Fatalf("expected SwitchStmt, got %T", file.Body[0])
	}
	if len(sw.Cases) != 3 {
		t.Fatalf("expected 3 cases, got %d", len(sw.Cases))
	}
	if sw.Cases[0].Has(ast.DocumentedFallthrough) {
		t.Error("first case should not be marked")
	}
	if !sw.Cases[1].Has(ast.DocumentedFallthrough) {
		t.Error("case after 'falls through' comment should be marked")
	}
	if sw.Cases[2].Expr != nil {
		t.Error("default clause should have nil Expr")
	}
	if len(sw.Cases[1].Body) != 2 {
		t.Errorf("expected 2 statements in case 2, got %d", len(sw.Cases[1].Body))
	}
}

func TestParseClass(t *testing.T) {
	input := `
public class Point extends Shape {
    private x: int = 0;
    static final ORIGIN = null;

    constructor(x: int) {
        super(x);
        this.x = x;
    }

    function length(): double {
        return this.x;
    }

    deprecated move(dx) {
        this.x += dx;
    }
}
`
	_, file := parseOK(t, input)

	class, ok := file.Body[0].(*ast.ClassDecl)
	if !ok {
		t.Fatalf("expected ClassDecl, got %T", file.Body[0])
	}
	if class.Name != "Point" {
		t.Errorf("expected class name Point, got %s", class.Name)
	}
	if !class.Modifiers.Has(ast.ModPublic) {
		t.Error("expected public modifier")
	}
	if class.Super == nil || class.Super.Name != "Shape" {
		t.Errorf("expected super Shape, got %v", class.Super)
	}
	if len(class.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(class.Fields))
	}
	if !class.Fields[1].Modifiers.Has(ast.ModStatic | ast.ModFinal) {
		t.Errorf("expected static final, got %s", class.Fields[1].Modifiers)
	}
	if len(class.Methods) != 3 {
		t.Fatalf("expected 3 methods, got %d", len(class.Methods))
	}

	ctor := class.Constructor()
	if ctor == nil {
		t.Fatal("expected constructor")
	}
	first := ctor.Body.Stmts[0].(*ast.ExprStmt)
	if _, ok := first.X.(*ast.SuperCall); !ok {
		t.Errorf("expected super call, got %T", first.X)
	}

	length := class.Methods[1]
	if length.Kind != ast.FuncMethod || length.ReturnType == nil || length.ReturnType.Name != "double" {
		t.Errorf("unexpected method %s", length)
	}
	if !class.Methods[2].Modifiers.Has(ast.ModDeprecated) {
		t.Error("expected deprecated method")
	}
}

func TestParseTryCatch(t *testing.T) {
	input := `
try {
    risky();
} catch (e: IOError) {
    log(e);
} catch (e) {
} finally {
    cleanup();
}
`
	_, file := parseOK(t, input)

	stmt, ok := file.Body[0].(*ast.TryStmt)
	if !ok {
		t.Fatalf("expected TryStmt, got %T", file.Body[0])
	}
	if len(stmt.Catches) != 2 {
		t.Errorf("expected 2 catch clauses, got %d", len(stmt.Catches))
	}
	if stmt.Catches[0].Param.Type == nil || stmt.Catches[0].Param.Type.Name != "IOError" {
		t.Errorf("expected typed catch parameter, got %v", stmt.Catches[0].Param)
	}
	if stmt.Finally == nil {
		t.Error("expected finally block")
	}
}

func TestParseAutomaticSemicolon(t *testing.T) {
	input := "var a = 1\nvar b = a\nreturn\nb"
	_, file := parseOK(t, input)
	if len(file.Body) != 4 {
		t.Fatalf("expected 4 statements, got %d", len(file.Body))
	}
	ret := file.Body[2].(*ast.ReturnStmt)
	if ret.Value != nil {
		t.Errorf("return followed by newline should have no value, got %s", ret.Value)
	}
}

func TestParseLongConcatenation(t *testing.T) {
	const terms = 10000
	var sb strings.Builder
	sb.WriteString("var s = ")
	for i := 0; i < terms; i++ {
		if i > 0 {
			sb.WriteString(" + ")
		}
		sb.WriteString(`"x"`)
	}
	sb.WriteString(";")

	_, file := parseOK(t, sb.String())

	init := file.Body[0].(*ast.VarDecl).Decls[0].Init
	chain, ok := init.(*ast.ChainExpr)
	if !ok {
		t.Fatalf("expected ChainExpr, got %T", init)
	}
	if chain.Arity() != terms {
		t.Errorf("expected %d operands, got %d", terms, chain.Arity())
	}
	if chain.Op != types.Plus {
		t.Errorf("expected +, got %s", chain.Op)
	}
}

func TestChainThreshold(t *testing.T) {
	expr := func(n int) string {
		parts := make([]string, n)
		for i := range parts {
			parts[i] = "a"
		}
		return strings.Join(parts, " * ") + ";\n"
	}

	tests := []struct {
		name  string
		input string
		chain bool
	}{
		{"short", expr(initialChainThreshold - 1), false},
		{"at threshold", expr(initialChainThreshold), true},
		{"logical stays binary", strings.Repeat("a && ", 40) + "a;", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, file := parseOK(t, tt.input)
			_, isChain := file.Body[0].(*ast.ExprStmt).X.(*ast.ChainExpr)
			if isChain != tt.chain {
				t.Errorf("expected chain=%v, got %T", tt.chain, file.Body[0].(*ast.ExprStmt).X)
			}
		})
	}
}

func TestChainThresholdDoubles(t *testing.T) {
	line := strings.Repeat("a - ", initialChainThreshold-1) + "a;\n"
	p, file := parseOK(t, line+line)

	if _, ok := file.Body[0].(*ast.ExprStmt).X.(*ast.ChainExpr); !ok {
		t.Errorf("first expression should be flattened")
	}
	if _, ok := file.Body[1].(*ast.ExprStmt).X.(*ast.BinaryExpr); !ok {
		t.Errorf("second expression should stay binary after threshold doubled")
	}
	if p.chainThreshold != 2*initialChainThreshold {
		t.Errorf("expected threshold %d, got %d", 2*initialChainThreshold, p.chainThreshold)
	}
}

func TestParseParenthesisedChainBoundary(t *testing.T) {
	_, file := parseOK(t, "(a + b) + c;")
	bin := file.Body[0].(*ast.ExprStmt).X.(*ast.BinaryExpr)
	left, ok := bin.Left.(*ast.BinaryExpr)
	if !ok || left.Parens() != 1 {
		t.Fatalf("expected parenthesised left operand, got %T", bin.Left)
	}
	if got := ast.Flatten(bin); len(got) != 2 {
		t.Errorf("flatten should stop at parentheses, got %d operands", len(got))
	}
}

func TestDietParse(t *testing.T) {
	input := `
function f(a) {
    var b = a + 1;
    function g() { return b; }
    return g();
}
class C {
    m() { return 1; }
}
`
	p, file := parseOK(t, input, WithDiet(true))

	if file.Bodies == nil {
		t.Fatal("diet parse should install body parser")
	}
	fn := file.Body[0].(*ast.FunctionDecl)
	if !fn.HasLazyBody() {
		t.Fatal("expected lazy body")
	}
	before := p.Arena().Len()

	if err := file.Bodies.ParseBody(fn); err != nil {
		t.Fatalf("ParseBody: %v", err)
	}
	if fn.HasLazyBody() || fn.Body == nil {
		t.Fatal("body should be parsed")
	}
	if len(fn.Body.Stmts) != 3 {
		t.Errorf("expected 3 statements, got %d", len(fn.Body.Stmts))
	}
	// 嵌套函数体随外层一起解析
	inner := fn.Body.Stmts[1].(*ast.FunctionDecl)
	if inner.Body == nil {
		t.Error("nested body should be parsed eagerly")
	}
	if p.Arena().Len() <= before {
		t.Error("arena should grow after ParseBody")
	}

	// 再次调用是空操作
	n := p.Arena().Len()
	if err := file.Bodies.ParseBody(fn); err != nil || p.Arena().Len() != n {
		t.Error("second ParseBody should be a no-op")
	}

	method := file.Body[1].(*ast.ClassDecl).Methods[0]
	if !method.HasLazyBody() {
		t.Error("method body should be lazy")
	}
}

func TestDietParseBodyErrors(t *testing.T) {
	p := New("function f() { var = ; }\nvar ok = 1;", "test.js", WithDiet(true))
	file := p.Parse()
	if len(p.Errors()) != 0 {
		t.Fatalf("diet parse should not see body errors, got %v", p.Errors())
	}
	if len(file.Body) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(file.Body))
	}

	fn := file.Body[0].(*ast.FunctionDecl)
	if err := p.ParseBody(fn); err == nil {
		t.Error("expected error from ParseBody")
	}
	if fn.Body == nil {
		t.Error("body should be non-nil even after errors")
	}
}

func TestParseErrorRecovery(t *testing.T) {
	input := `
var a = ;
var b = 2;
if (a { }
var c = 3;
`
	p := New(input, "test.js")
	file := p.Parse()

	if len(p.Errors()) < 2 {
		t.Errorf("expected at least 2 errors, got %d", len(p.Errors()))
	}
	var names []string
	for _, s := range file.Body {
		if v, ok := s.(*ast.VarDecl); ok {
			names = append(names, v.Decls[0].Name)
		}
	}
	if strings.Join(names, ",") != "b,c" {
		t.Errorf("expected recovery to keep b and c, got %v", names)
	}
}

func TestParseInvalidAssignTarget(t *testing.T) {
	p := New("1 = 2;", "test.js")
	p.Parse()
	if len(p.Errors()) != 1 {
		t.Fatalf("expected 1 error, got %d", len(p.Errors()))
	}
}

func TestParseNegatedMinimum(t *testing.T) {
	tests := []struct {
		input string
		raw   string
	}{
		{"-2147483648;", "-2147483648"},
		{"-9223372036854775808L;", "-9223372036854775808L"},
	}
	for _, tt := range tests {
		_, file := parseOK(t, tt.input)
		stmt, ok := file.Body[0].(*ast.ExprStmt)
		if !ok {
			t.Fatalf("input %q: expected ExprStmt, got %T", tt.input, file.Body[0])
		}
		lit, ok := stmt.X.(*ast.Literal)
		if !ok || lit.Raw != tt.raw {
			t.Errorf("input %q: expected literal %s, got %#v", tt.input, tt.raw, stmt.X)
		}
	}

	for _, input := range []string{
		"2147483648;",
		"x = 1 - 2147483648;",
		"-(2147483648);",
		"-2147483648.length;",
		"9223372036854775808L;",
	} {
		p := New(input, "test.js")
		p.Parse()
		errs := p.Errors()
		if len(errs) != 1 || !errs[0].Lexical {
			t.Errorf("input %q: expected one out-of-range error, got %v", input, errs)
		}
	}
}

func TestParseTryWithoutHandler(t *testing.T) {
	p := New("try { }", "test.js")
	p.Parse()
	if !p.HasErrors() {
		t.Error("expected error for try without catch or finally")
	}
}

func TestParseTooManyErrors(t *testing.T) {
	input := strings.Repeat("var = ;\n", maxParseErrors+10)
	p := New(input, "test.js")
	p.Parse()
	if len(p.Errors()) != maxParseErrors+1 {
		t.Errorf("expected %d errors, got %d", maxParseErrors+1, len(p.Errors()))
	}
}

func TestArenaIDs(t *testing.T) {
	p, file := parseOK(t, "var x = y + 1;")
	seen := make(map[ast.NodeID]bool)
	ast.Inspect(file, func(n ast.Node) bool {
		if !n.ID().Valid() {
			t.Errorf("node %T has no id", n)
		}
		if seen[n.ID()] {
			t.Errorf("duplicate id %d", n.ID())
		}
		seen[n.ID()] = true
		if p.Arena().Node(n.ID()) != n {
			t.Errorf("arena lookup mismatch for %T", n)
		}
		return true
	})
}
