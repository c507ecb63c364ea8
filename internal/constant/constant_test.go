package constant

import (
	"math"
	"testing"

	"github.com/tangzhangming/jscheck/internal/operators"
	"github.com/tangzhangming/jscheck/internal/types"
)

// fold 按运算符表折叠，模拟编译器的用法
func fold(op types.Operator, x, y Value) Value {
	sig := operators.Lookup(op, x.Type(), y.Type())
	return Binary(op, x, sig.Left(), y, sig.Right(), sig.Result())
}

func TestFoldArithmetic(t *testing.T) {
	tests := []struct {
		name string
		op   types.Operator
		x, y Value
		want Value
	}{
		{"int plus", types.Plus, Int(1), Int(2), Int(3)},
		{"int overflow wraps", types.Plus, Int(math.MaxInt32), Int(1), Int(math.MinInt32)},
		{"long times", types.Multiply, Long(1 << 40), Int(2), Long(1 << 41)},
		{"int divide truncates", types.Divide, Int(-7), Int(2), Int(-3)},
		{"remainder", types.Remainder, Int(-7), Int(2), Int(-1)},
		{"double minus", types.Minus, Double(1.5), Int(1), Double(0.5)},
		{"float stays float", types.Multiply, Float(1.5), Float(2), Float(3)},
		{"short promotes", types.Plus, Short(1), Short(2), Int(3)},
		{"shift masks", types.LeftShift, Int(1), Int(33), Int(2)},
		{"unsigned shift", types.UnsignedRightShift, Int(-1), Int(28), Int(15)},
		{"bitwise and", types.And, Int(6), Int(3), Int(2)},
		{"boolean xor", types.Xor, Bool(true), Bool(false), Bool(true)},
		{"less", types.Less, Int(1), Double(1.5), Bool(true)},
		{"equal mixed", types.EqualEqual, Long(2), Double(2), Bool(true)},
		{"strings equal", types.EqualEqual, String("a"), String("a"), Bool(true)},
		{"logical and", types.AndAnd, Bool(true), Bool(false), Bool(false)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fold(tt.op, tt.x, tt.y)
			if got != tt.want {
				t.Errorf("got %s (%s), want %s (%s)", got, got.Type(), tt.want, tt.want.Type())
			}
		})
	}
}

func TestFoldConcatenation(t *testing.T) {
	tests := []struct {
		x, y Value
		want string
	}{
		{String("a"), Int(1), "a1"},
		{Int(1), String("a"), "1a"},
		{String("x"), Double(1.0), "x1"},
		{String("x"), Double(1.5), "x1.5"},
		{String("x"), Double(1e21), "x1e+21"},
		{String("x"), Double(1.5e-7), "x1.5e-7"},
		{String("x"), Double(math.Inf(-1)), "x-Infinity"},
		{String("x"), Bool(false), "xfalse"},
		{String("x"), Char('y'), "xy"},
		{String("x"), Long(-5), "x-5"},
	}

	for _, tt := range tests {
		got := fold(types.Plus, tt.x, tt.y)
		if got.Type() != types.String || got.StringVal() != tt.want {
			t.Errorf("%s + %s = %q (%s), want %q", tt.x, tt.y, got.StringVal(), got.Type(), tt.want)
		}
	}
}

func TestFoldNotAConstant(t *testing.T) {
	tests := []struct {
		name string
		op   types.Operator
		x, y Value
	}{
		{"int divide by zero", types.Divide, Int(1), Int(0)},
		{"long remainder by zero", types.Remainder, Long(1), Long(0)},
		{"missing operand", types.Plus, Int(1), NotAConstant},
		{"string minus", types.Minus, String("a"), Int(1)},
	}

	for _, tt := range tests {
		if got := fold(tt.op, tt.x, tt.y); got.IsValid() {
			t.Errorf("%s: expected NotAConstant, got %s", tt.name, got)
		}
	}

	// 浮点除零是合法常量
	if got := fold(types.Divide, Double(1), Int(0)); !math.IsInf(got.Float64(), 1) {
		t.Errorf("1.0/0 = %s, want Infinity", got)
	}
}

func TestUnary(t *testing.T) {
	tests := []struct {
		op   types.Operator
		v    Value
		want Value
	}{
		{types.Not, Bool(true), Bool(false)},
		{types.UnaryMinus, Int(5), Int(-5)},
		{types.UnaryMinus, Char('a'), Int(-97)},
		{types.Twiddle, Int(0), Int(-1)},
		{types.UnaryPlus, Short(3), Int(3)},
		{types.TypeOf, Int(1), String("number")},
		{types.TypeOf, String("s"), String("string")},
	}

	for _, tt := range tests {
		if got := Unary(tt.op, tt.v); got != tt.want {
			t.Errorf("%s %s = %s, want %s", tt.op, tt.v, got, tt.want)
		}
	}
	if Unary(types.Not, Int(1)).IsValid() {
		t.Error("!1 should not fold")
	}
}

func TestIsRepresentable(t *testing.T) {
	tests := []struct {
		v    Value
		t    types.TypeID
		want bool
	}{
		{Int(100), types.Short, true},
		{Int(40000), types.Short, false},
		{Int(65535), types.Char, true},
		{Int(-1), types.Char, false},
		{Char('a'), types.Short, true},
		{Long(1 << 40), types.Int, false},
		{Double(1.5), types.Int, false},
		{Double(2), types.Int, true},
		{String("a"), types.Int, false},
		{NotAConstant, types.Int, false},
	}

	for _, tt := range tests {
		if got := IsRepresentable(tt.v, tt.t); got != tt.want {
			t.Errorf("IsRepresentable(%s %s, %s) = %v, want %v", tt.v.Type(), tt.v, tt.t, got, tt.want)
		}
	}
}

func TestFromLiteral(t *testing.T) {
	if v := FromLiteral(int32(7)); v != Int(7) {
		t.Errorf("int32 literal: %v", v)
	}
	if v := FromLiteral("s"); v != String("s") {
		t.Errorf("string literal: %v", v)
	}
	if FromLiteral(nil).IsValid() {
		t.Error("null literal must not be a constant")
	}
}
