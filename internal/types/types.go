// Package types 定义类型编号、隐式转换编码和运算符编号
//
// 类型编号只占 4 位，运算符表用 (left<<4 | right) 索引；
// 转换编码占 8 位，高半字节是目标类型，低半字节是源类型。
package types

import "fmt"

// ============================================================================
// 类型编号
// ============================================================================

// TypeID 基本类型编号（4 位）
type TypeID uint8

const (
	Undefined TypeID = iota
	Object
	Char
	Any
	Short
	Boolean
	Void
	Long
	Double
	Float
	Int
	String
	Null
	Function

	// NumTypeIDs 运算符表每一维的大小
	NumTypeIDs = 16
)

var typeNames = [...]string{
	Undefined: "undefined",
	Object:    "Object",
	Char:      "char",
	Any:       "any",
	Short:     "short",
	Boolean:   "boolean",
	Void:      "void",
	Long:      "long",
	Double:    "double",
	Float:     "float",
	Int:       "int",
	String:    "String",
	Null:      "null",
	Function:  "Function",
}

func (t TypeID) String() string {
	if int(t) < len(typeNames) && typeNames[t] != "" {
		return typeNames[t]
	}
	return fmt.Sprintf("TypeID(%d)", uint8(t))
}

// baseKeywords 类型注解中的基本类型关键字
var baseKeywords = map[string]TypeID{
	"char":    Char,
	"any":     Any,
	"short":   Short,
	"boolean": Boolean,
	"void":    Void,
	"long":    Long,
	"double":  Double,
	"float":   Float,
	"int":     Int,
}

// LookupBase 按注解名查找基本类型
func LookupBase(name string) (TypeID, bool) {
	id, ok := baseKeywords[name]
	return id, ok
}

// IsNumeric 是否数值类型（char 参与数值运算）
func (t TypeID) IsNumeric() bool {
	switch t {
	case Char, Short, Int, Long, Float, Double:
		return true
	}
	return false
}

// IsIntegral 是否整数类型
func (t TypeID) IsIntegral() bool {
	switch t {
	case Char, Short, Int, Long:
		return true
	}
	return false
}

// IsBase 是否基本类型（含 void、null、any）
func (t TypeID) IsBase() bool {
	switch t {
	case Object, String, Function, Undefined:
		return false
	}
	return int(t) < len(typeNames)
}

// ============================================================================
// 拓宽与收窄
// ============================================================================

// widening[from] 是 from 可以拓宽到的类型集合（位集）
var widening = [NumTypeIDs]uint16{
	Short:   1<<Short | 1<<Int | 1<<Long | 1<<Float | 1<<Double,
	Char:    1<<Char | 1<<Int | 1<<Long | 1<<Float | 1<<Double,
	Int:     1<<Int | 1<<Long | 1<<Float | 1<<Double,
	Long:    1<<Long | 1<<Float | 1<<Double,
	Float:   1<<Float | 1<<Double,
	Double:  1 << Double,
	Boolean: 1 << Boolean,
}

// IsWidening from 到 to 是否恒等或拓宽的基本类型转换
func IsWidening(from, to TypeID) bool {
	if from >= NumTypeIDs || to >= NumTypeIDs {
		return false
	}
	return widening[from]&(1<<to) != 0
}

// IsNarrowing from 到 to 是否收窄的数值转换
func IsNarrowing(from, to TypeID) bool {
	return from != to && from.IsNumeric() && to.IsNumeric() && !IsWidening(from, to)
}

// ============================================================================
// 隐式转换编码
// ============================================================================

// Conversion 隐式转换编码：(to<<4) | from
type Conversion uint8

// Conv 构造 from 到 to 的转换编码
func Conv(from, to TypeID) Conversion {
	return Conversion(to&0xF)<<4 | Conversion(from&0xF)
}

// From 源类型
func (c Conversion) From() TypeID { return TypeID(c & 0xF) }

// To 目标类型
func (c Conversion) To() TypeID { return TypeID(c >> 4) }

func (c Conversion) String() string {
	if c == 0 {
		return "none"
	}
	return c.From().String() + "2" + c.To().String()
}

// 运算符表中出现的转换
const (
	Boolean2Boolean = Conversion(Boolean)<<4 | Conversion(Boolean)
	Char2Char       = Conversion(Char)<<4 | Conversion(Char)
	Char2Int        = Conversion(Int)<<4 | Conversion(Char)
	Char2Long       = Conversion(Long)<<4 | Conversion(Char)
	Char2Float      = Conversion(Float)<<4 | Conversion(Char)
	Char2Double     = Conversion(Double)<<4 | Conversion(Char)
	Short2Short     = Conversion(Short)<<4 | Conversion(Short)
	Short2Int       = Conversion(Int)<<4 | Conversion(Short)
	Short2Long      = Conversion(Long)<<4 | Conversion(Short)
	Short2Float     = Conversion(Float)<<4 | Conversion(Short)
	Short2Double    = Conversion(Double)<<4 | Conversion(Short)
	Int2Int         = Conversion(Int)<<4 | Conversion(Int)
	Int2Long        = Conversion(Long)<<4 | Conversion(Int)
	Int2Float       = Conversion(Float)<<4 | Conversion(Int)
	Int2Double      = Conversion(Double)<<4 | Conversion(Int)
	Long2Int        = Conversion(Int)<<4 | Conversion(Long)
	Long2Long       = Conversion(Long)<<4 | Conversion(Long)
	Long2Float      = Conversion(Float)<<4 | Conversion(Long)
	Long2Double     = Conversion(Double)<<4 | Conversion(Long)
	Float2Float     = Conversion(Float)<<4 | Conversion(Float)
	Float2Double    = Conversion(Double)<<4 | Conversion(Float)
	Double2Double   = Conversion(Double)<<4 | Conversion(Double)
	String2String   = Conversion(String)<<4 | Conversion(String)
	String2Object   = Conversion(Object)<<4 | Conversion(String)
	Object2Object   = Conversion(Object)<<4 | Conversion(Object)
	Null2Null       = Conversion(Null)<<4 | Conversion(Null)
	Null2Object     = Conversion(Object)<<4 | Conversion(Null)
)

// ============================================================================
// 运算符
// ============================================================================

// Operator 运算符编号
type Operator uint8

const (
	OpNone Operator = iota

	// 二元运算符（有签名表）
	AndAnd
	OrOr
	And
	Or
	Xor
	Less
	LessEqual
	Greater
	GreaterEqual
	Plus
	Minus
	Multiply
	Divide
	Remainder
	LeftShift
	RightShift
	UnsignedRightShift
	EqualEqual
	NotEqual
	EqualEqualEqual
	NotEqualEqual
	InstanceOf
	In

	numBinary

	// 一元运算符
	Not
	Twiddle
	UnaryMinus
	UnaryPlus
	TypeOf
	PlusPlus
	MinusMinus

	// 其他
	QuestionColon
	Equal

	NumOperators
)

// NumBinary 二元运算符数量上界（签名表大小）
const NumBinary = int(numBinary)

var operatorNames = [...]string{
	OpNone:             "?",
	AndAnd:             "&&",
	OrOr:               "||",
	And:                "&",
	Or:                 "|",
	Xor:                "^",
	Less:               "<",
	LessEqual:          "<=",
	Greater:            ">",
	GreaterEqual:       ">=",
	Plus:               "+",
	Minus:              "-",
	Multiply:           "*",
	Divide:             "/",
	Remainder:          "%",
	LeftShift:          "<<",
	RightShift:         ">>",
	UnsignedRightShift: ">>>",
	EqualEqual:         "==",
	NotEqual:           "!=",
	EqualEqualEqual:    "===",
	NotEqualEqual:      "!==",
	InstanceOf:         "instanceof",
	In:                 "in",
	Not:                "!",
	Twiddle:            "~",
	UnaryMinus:         "-",
	UnaryPlus:          "+",
	TypeOf:             "typeof",
	PlusPlus:           "++",
	MinusMinus:         "--",
	QuestionColon:      "?:",
	Equal:              "=",
}

func (op Operator) String() string {
	if int(op) < len(operatorNames) && operatorNames[op] != "" {
		return operatorNames[op]
	}
	return fmt.Sprintf("Operator(%d)", uint8(op))
}

// IsBinary 是否带签名表的二元运算符
func (op Operator) IsBinary() bool {
	return op > OpNone && op < numBinary
}

// IsEquality 相等类运算符
func (op Operator) IsEquality() bool {
	switch op {
	case EqualEqual, NotEqual, EqualEqualEqual, NotEqualEqual:
		return true
	}
	return false
}

// IsNegatedEquality != 与 !==
func (op Operator) IsNegatedEquality() bool {
	return op == NotEqual || op == NotEqualEqual
}

// IsRelational 比较运算符
func (op Operator) IsRelational() bool {
	switch op {
	case Less, LessEqual, Greater, GreaterEqual:
		return true
	}
	return false
}

// IsLogical 短路运算符
func (op Operator) IsLogical() bool {
	return op == AndAnd || op == OrOr
}
