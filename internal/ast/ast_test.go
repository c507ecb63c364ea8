package ast

import (
	"testing"

	"github.com/tangzhangming/jscheck/internal/token"
	"github.com/tangzhangming/jscheck/internal/types"
)

func sp(offset, length int) token.Span {
	start := token.Position{Line: 1, Column: offset + 1, Offset: offset}
	end := start
	end.Column += length
	end.Offset += length
	return token.Span{Start: start, End: end}
}

func TestArenaAssignsDenseIDs(t *testing.T) {
	a := NewArena(0)
	x := a.NewIdent(sp(0, 1), "x")
	one := a.NewLiteral(sp(4, 1), token.INT, "1", int32(1))
	assign := a.NewAssign(sp(0, 5), types.OpNone, x, one)

	if x.ID() != 1 || one.ID() != 2 || assign.ID() != 3 {
		t.Fatalf("ids = %d %d %d, want 1 2 3", x.ID(), one.ID(), assign.ID())
	}
	if a.Node(assign.ID()) != Node(assign) {
		t.Error("Node(id) must return the registered node")
	}
	if a.Node(0) != nil || a.Node(99) != nil {
		t.Error("invalid ids map to nil")
	}
	if st := a.Stats(); st.Nodes != 3 || st.Expressions != 3 || st.Statements != 0 {
		t.Errorf("unexpected stats %+v", st)
	}

	// 重复登记只更新范围
	New(a, x, sp(0, 2))
	if a.Len() != 3 || x.Span().Length() != 2 {
		t.Error("re-registering must not allocate a new id")
	}
}

func TestFlags(t *testing.T) {
	a := NewArena(0)
	s := a.NewEmpty(sp(0, 1))
	s.Set(Reachable | LabelUsed)
	if !s.Has(Reachable) || !s.Has(Reachable|LabelUsed) || s.Has(ElseIf) {
		t.Fatalf("unexpected flags %v", s.Flags())
	}
	s.Clear(Reachable)
	if s.Has(Reachable) {
		t.Error("Clear failed")
	}
	if got := (Reachable | Invalid).String(); got != "Reachable|Invalid" {
		t.Errorf("Flags.String() = %q", got)
	}
}

func TestChainAppendDoublesCapacity(t *testing.T) {
	a := NewArena(0)
	c := a.NewChain(sp(0, 1), types.Plus, []Expression{a.NewIdent(sp(0, 1), "a")})
	if cap(c.Operands) != initialChainCapacity {
		t.Fatalf("initial capacity %d", cap(c.Operands))
	}
	for i := 1; i < initialChainCapacity+1; i++ {
		c.Append(a.NewIdent(sp(4*i, 1), "b"))
	}
	if c.Arity() != initialChainCapacity+1 {
		t.Fatalf("arity %d", c.Arity())
	}
	if cap(c.Operands) != 2*initialChainCapacity {
		t.Errorf("capacity %d, want %d", cap(c.Operands), 2*initialChainCapacity)
	}
	if c.End().Offset != 4*initialChainCapacity+1 {
		t.Errorf("chain span must grow with its operands, end = %d", c.End().Offset)
	}
}

func TestFlatten(t *testing.T) {
	a := NewArena(0)
	id := func(name string) Expression { return a.NewIdent(sp(0, 1), name) }
	// ((a + b) + c) + (d + e)
	inner := a.NewBinary(sp(0, 1), types.Plus, id("a"), id("b"))
	mid := a.NewBinary(sp(0, 1), types.Plus, inner, id("c"))
	right := a.NewBinary(sp(0, 1), types.Plus, id("d"), id("e"))
	root := a.NewBinary(sp(0, 1), types.Plus, mid, right)

	ops := Flatten(root)
	if len(ops) != 4 {
		t.Fatalf("got %d operands", len(ops))
	}
	if ops[0].String() != "a" || ops[2].String() != "c" || ops[3] != Expression(right) {
		t.Errorf("unexpected operands %v", ops)
	}

	// 括号阻止展平
	mid.SetParens(1)
	if got := len(Flatten(root)); got != 2 {
		t.Errorf("parenthesized spine flattened to %d operands", got)
	}
}

func TestSprint(t *testing.T) {
	a := NewArena(0)
	x := a.NewIdent(sp(0, 1), "x")
	sum := a.NewBinary(sp(0, 1), types.Plus, a.NewIdent(sp(0, 1), "a"), a.NewLiteral(sp(0, 1), token.INT, "1", int32(1)))
	sum.SetParens(1)
	mul := a.NewBinary(sp(0, 1), types.Multiply, sum, a.NewIdent(sp(0, 1), "b"))
	stmt := a.NewExprStmt(sp(0, 1), a.NewAssign(sp(0, 1), types.Plus, x, mul))

	if got, want := stmt.String(), "x += (a + 1) * b;"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	neg := a.NewUnary(sp(0, 1), types.UnaryMinus, a.NewUnary(sp(0, 1), types.UnaryMinus, a.NewIdent(sp(0, 1), "y")))
	if got := neg.String(); got != "- -y" {
		t.Errorf("nested negation printed as %q", got)
	}

	folded := a.NewLiteral(sp(0, 1), token.DOUBLE, "", float64(2))
	if got := folded.String(); got != "2.0" {
		t.Errorf("synthesized double printed as %q", got)
	}
}

func TestWalkSkipsChildren(t *testing.T) {
	a := NewArena(0)
	body := a.NewBlock(sp(0, 1), []Statement{a.NewExprStmt(sp(0, 1), a.NewIdent(sp(0, 1), "inner"))})
	fn := a.NewFunction(sp(0, 1), FuncDeclaration, "f", sp(0, 1), nil, nil)
	fn.Body = body
	file := a.NewFile(sp(0, 1), "a.js", []Statement{fn, a.NewExprStmt(sp(0, 1), a.NewIdent(sp(0, 1), "outer"))})

	var names []string
	Walk(file, func(n Node) bool {
		if id, ok := n.(*Ident); ok {
			names = append(names, id.Name)
		}
		_, isFunc := n.(*FunctionDecl)
		return !isFunc
	})
	if len(names) != 1 || names[0] != "outer" {
		t.Errorf("visited %v", names)
	}
	if Count(file) != 7 {
		t.Errorf("Count = %d, want 7", Count(file))
	}
}
