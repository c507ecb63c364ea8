// Package constant 编译期常量值与常量折叠
//
// 常量折叠由运算符签名驱动：先按签名里的左右转换把操作数转换到运算类型，
// 再在该类型上求值；结果类型为 String 的 + 按字符串拼接处理。
package constant

import (
	"math"
	"strconv"
	"strings"

	"github.com/tangzhangming/jscheck/internal/types"
)

// Value 编译期常量
//
// 零值就是 NotAConstant。
type Value struct {
	typ types.TypeID
	i   int64   // boolean(0/1)、char、short、int、long
	f   float64 // float、double
	s   string  // String
}

// NotAConstant 表示 "不是常量"
var NotAConstant = Value{}

// Bool 布尔常量
func Bool(b bool) Value {
	v := Value{typ: types.Boolean}
	if b {
		v.i = 1
	}
	return v
}

// Char 字符常量
func Char(c uint16) Value { return Value{typ: types.Char, i: int64(c)} }

// Short 短整型常量
func Short(n int16) Value { return Value{typ: types.Short, i: int64(n)} }

// Int 整型常量
func Int(n int32) Value { return Value{typ: types.Int, i: int64(n)} }

// Long 长整型常量
func Long(n int64) Value { return Value{typ: types.Long, i: n} }

// Float 单精度常量
func Float(f float32) Value { return Value{typ: types.Float, f: float64(f)} }

// Double 双精度常量
func Double(f float64) Value { return Value{typ: types.Double, f: f} }

// String 字符串常量
func String(s string) Value { return Value{typ: types.String, s: s} }

// FromLiteral 把词法分析器给出的字面量值转换为常量
//
// null 字面量不是常量。
func FromLiteral(v any) Value {
	switch x := v.(type) {
	case bool:
		return Bool(x)
	case int32:
		return Int(x)
	case int64:
		return Long(x)
	case float32:
		return Float(x)
	case float64:
		return Double(x)
	case string:
		return String(x)
	}
	return NotAConstant
}

// Type 常量的类型；NotAConstant 为 types.Undefined
func (v Value) Type() types.TypeID { return v.typ }

// IsValid 是否真正的常量
func (v Value) IsValid() bool { return v.typ != types.Undefined }

// BoolVal 布尔值
func (v Value) BoolVal() bool { return v.i != 0 }

// Int64 整数值（浮点常量按截断取整）
func (v Value) Int64() int64 {
	switch v.typ {
	case types.Float, types.Double:
		return int64(v.f)
	}
	return v.i
}

// Float64 浮点值
func (v Value) Float64() float64 {
	switch v.typ {
	case types.Float, types.Double:
		return v.f
	}
	return float64(v.i)
}

// StringVal 字符串常量的值
func (v Value) StringVal() string { return v.s }

// String 拼接时使用的文本形式
func (v Value) String() string {
	switch v.typ {
	case types.Boolean:
		if v.i != 0 {
			return "true"
		}
		return "false"
	case types.Char:
		return string(rune(v.i))
	case types.Short, types.Int, types.Long:
		return strconv.FormatInt(v.i, 10)
	case types.Float:
		return formatNumber(v.f, 32)
	case types.Double:
		return formatNumber(v.f, 64)
	case types.String:
		return v.s
	}
	return "<not a constant>"
}

// formatNumber 按 JavaScript 的 Number#toString 规则格式化浮点数
func formatNumber(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, bits)
		// 1.5e-07 -> 1.5e-7
		mant, exp, _ := strings.Cut(s, "e")
		sign := exp[:1]
		exp = strings.TrimLeft(exp[1:], "0")
		return mant + "e" + sign + exp
	}
	return strconv.FormatFloat(f, 'f', -1, bits)
}

// ============================================================================
// 转换
// ============================================================================

// Convert 把常量转换到 t；无法转换时返回 NotAConstant
func (v Value) Convert(t types.TypeID) Value {
	if !v.IsValid() {
		return NotAConstant
	}
	if v.typ == t {
		return v
	}
	switch v.typ {
	case types.Boolean, types.String:
		// 布尔与字符串只能转换到自身（字符串可以视作 Object）
		if t == types.Object && v.typ == types.String {
			return v
		}
		return NotAConstant
	}
	switch t {
	case types.Char:
		return Char(uint16(v.Int64()))
	case types.Short:
		return Short(int16(v.Int64()))
	case types.Int:
		return Int(int32(v.Int64()))
	case types.Long:
		return Long(v.Int64())
	case types.Float:
		return Float(float32(v.Float64()))
	case types.Double:
		return Double(v.Float64())
	}
	return NotAConstant
}

// IsRepresentable 常量 v 转换到 t 后能否无损地转换回来
func IsRepresentable(v Value, t types.TypeID) bool {
	if !v.IsValid() {
		return false
	}
	if v.typ == t {
		return true
	}
	if !v.typ.IsNumeric() || !t.IsNumeric() {
		return false
	}
	c := v.Convert(t)
	if !c.IsValid() {
		return false
	}
	back := c.Convert(v.typ)
	if v.typ == types.Float || v.typ == types.Double {
		return back.f == v.f
	}
	return back.i == v.i
}

// ============================================================================
// 折叠
// ============================================================================

// Binary 折叠二元运算
//
// lc、rc 是签名给出的左右转换，result 是结果类型。
// 任一操作数不是常量、签名没有转换信息或运算在编译期无定义（例如整数除零）时返回 NotAConstant。
func Binary(op types.Operator, x Value, lc types.Conversion, y Value, rc types.Conversion, result types.TypeID) Value {
	if !x.IsValid() || !y.IsValid() {
		return NotAConstant
	}

	// 字符串拼接用操作数原本的文本
	if op == types.Plus && result == types.String {
		return String(x.String() + y.String())
	}

	lt, rt := lc.To(), rc.To()
	if lt == types.Undefined || rt == types.Undefined {
		return NotAConstant
	}
	x, y = x.Convert(lt), y.Convert(rt)
	if !x.IsValid() || !y.IsValid() {
		return NotAConstant
	}

	switch op {
	case types.EqualEqual, types.EqualEqualEqual:
		return compare(x, y, func(c int) bool { return c == 0 })
	case types.NotEqual, types.NotEqualEqual:
		return compare(x, y, func(c int) bool { return c != 0 })
	case types.Less:
		return compare(x, y, func(c int) bool { return c < 0 })
	case types.LessEqual:
		return compare(x, y, func(c int) bool { return c <= 0 })
	case types.Greater:
		return compare(x, y, func(c int) bool { return c > 0 })
	case types.GreaterEqual:
		return compare(x, y, func(c int) bool { return c >= 0 })
	case types.AndAnd:
		if x.typ != types.Boolean || y.typ != types.Boolean {
			return NotAConstant
		}
		return Bool(x.BoolVal() && y.BoolVal())
	case types.OrOr:
		if x.typ != types.Boolean || y.typ != types.Boolean {
			return NotAConstant
		}
		return Bool(x.BoolVal() || y.BoolVal())
	case types.LeftShift, types.RightShift, types.UnsignedRightShift:
		return shift(op, x, y)
	}

	switch lt {
	case types.Boolean:
		return logic(op, x, y)
	case types.Int:
		return intArith(op, x, y)
	case types.Long:
		return longArith(op, x, y)
	case types.Float:
		f, ok := floatArith(op, x.f, y.f)
		if !ok {
			return NotAConstant
		}
		return Float(float32(f))
	case types.Double:
		f, ok := floatArith(op, x.f, y.f)
		if !ok {
			return NotAConstant
		}
		return Double(f)
	}
	return NotAConstant
}

// compare 在同一运算类型上比较；NaN 与任何值都不相等也不可比
func compare(x, y Value, pred func(int) bool) Value {
	switch {
	case x.typ == types.Boolean && y.typ == types.Boolean:
		return Bool(pred(int(x.i - y.i)))
	case x.typ == types.String && y.typ == types.String:
		return Bool(pred(strings.Compare(x.s, y.s)))
	case x.typ == types.Float || x.typ == types.Double:
		if math.IsNaN(x.f) || math.IsNaN(y.f) {
			// 只有 != 对 NaN 成立
			return Bool(pred(1) && pred(-1))
		}
		switch {
		case x.f < y.f:
			return Bool(pred(-1))
		case x.f > y.f:
			return Bool(pred(1))
		}
		return Bool(pred(0))
	case x.typ.IsIntegral() && y.typ.IsIntegral():
		switch {
		case x.i < y.i:
			return Bool(pred(-1))
		case x.i > y.i:
			return Bool(pred(1))
		}
		return Bool(pred(0))
	}
	return NotAConstant
}

func logic(op types.Operator, x, y Value) Value {
	a, b := x.BoolVal(), y.BoolVal()
	switch op {
	case types.And:
		return Bool(a && b)
	case types.Or:
		return Bool(a || b)
	case types.Xor:
		return Bool(a != b)
	}
	return NotAConstant
}

func intArith(op types.Operator, x, y Value) Value {
	a, b := int32(x.i), int32(y.i)
	switch op {
	case types.Plus:
		return Int(a + b)
	case types.Minus:
		return Int(a - b)
	case types.Multiply:
		return Int(a * b)
	case types.Divide:
		if b == 0 {
			return NotAConstant
		}
		return Int(a / b)
	case types.Remainder:
		if b == 0 {
			return NotAConstant
		}
		return Int(a % b)
	case types.And:
		return Int(a & b)
	case types.Or:
		return Int(a | b)
	case types.Xor:
		return Int(a ^ b)
	}
	return NotAConstant
}

func longArith(op types.Operator, x, y Value) Value {
	a, b := x.i, y.i
	switch op {
	case types.Plus:
		return Long(a + b)
	case types.Minus:
		return Long(a - b)
	case types.Multiply:
		return Long(a * b)
	case types.Divide:
		if b == 0 {
			return NotAConstant
		}
		return Long(a / b)
	case types.Remainder:
		if b == 0 {
			return NotAConstant
		}
		return Long(a % b)
	case types.And:
		return Long(a & b)
	case types.Or:
		return Long(a | b)
	case types.Xor:
		return Long(a ^ b)
	}
	return NotAConstant
}

func floatArith(op types.Operator, a, b float64) (float64, bool) {
	switch op {
	case types.Plus:
		return a + b, true
	case types.Minus:
		return a - b, true
	case types.Multiply:
		return a * b, true
	case types.Divide:
		return a / b, true
	case types.Remainder:
		return math.Mod(a, b), true
	}
	return 0, false
}

// shift 移位：右操作数只取低 5 位（int）或低 6 位（long）
func shift(op types.Operator, x, y Value) Value {
	n := uint(y.i)
	switch x.typ {
	case types.Int:
		a := int32(x.i)
		n &= 31
		switch op {
		case types.LeftShift:
			return Int(a << n)
		case types.RightShift:
			return Int(a >> n)
		default:
			return Int(int32(uint32(a) >> n))
		}
	case types.Long:
		a := x.i
		n &= 63
		switch op {
		case types.LeftShift:
			return Long(a << n)
		case types.RightShift:
			return Long(a >> n)
		default:
			return Long(int64(uint64(a) >> n))
		}
	}
	return NotAConstant
}

// Unary 折叠一元运算；char 与 short 先提升为 int
func Unary(op types.Operator, v Value) Value {
	if !v.IsValid() {
		return NotAConstant
	}
	if op == types.TypeOf {
		return String(TypeOf(v.typ))
	}
	if v.typ == types.Char || v.typ == types.Short {
		v = v.Convert(types.Int)
	}
	switch op {
	case types.Not:
		if v.typ != types.Boolean {
			return NotAConstant
		}
		return Bool(!v.BoolVal())
	case types.UnaryPlus:
		if !v.typ.IsNumeric() {
			return NotAConstant
		}
		return v
	case types.UnaryMinus:
		switch v.typ {
		case types.Int:
			return Int(-int32(v.i))
		case types.Long:
			return Long(-v.i)
		case types.Float:
			return Float(-float32(v.f))
		case types.Double:
			return Double(-v.f)
		}
	case types.Twiddle:
		switch v.typ {
		case types.Int:
			return Int(^int32(v.i))
		case types.Long:
			return Long(^v.i)
		}
	}
	return NotAConstant
}

// TypeOf typeof 作用于该类型的值时的结果
func TypeOf(t types.TypeID) string {
	switch {
	case t.IsNumeric():
		if t == types.Char {
			return "string"
		}
		return "number"
	case t == types.Boolean:
		return "boolean"
	case t == types.String:
		return "string"
	case t == types.Function:
		return "function"
	case t == types.Void:
		return "undefined"
	}
	return "object"
}
