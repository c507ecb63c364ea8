// Package operators 提供二元运算符的类型签名表
//
// 每个运算符一张 16x16 的表，以 (左类型<<4 | 右类型) 索引。
// 表项打包了左操作数转换、右操作数转换和结果类型：
//
//	(leftConversion << 12) | (rightConversion << 4) | resultType
//
// 表在包初始化时构建一次，之后只读，可以被多个编译单元并发共享。
package operators

import "github.com/tangzhangming/jscheck/internal/types"

// ============================================================================
// 签名
// ============================================================================

// Signature 签名表的一项
type Signature uint32

// Pack 打包一项签名
func Pack(left, right types.Conversion, result types.TypeID) Signature {
	return Signature(left)<<12 | Signature(right)<<4 | Signature(result&0xF)
}

// Left 左操作数的隐式转换
func (s Signature) Left() types.Conversion { return types.Conversion(s >> 12) }

// Right 右操作数的隐式转换
func (s Signature) Right() types.Conversion { return types.Conversion(s >> 4) }

// Result 结果类型
func (s Signature) Result() types.TypeID { return types.TypeID(s & 0xF) }

// Valid 运算符对这对类型是否有定义
func (s Signature) Valid() bool { return s.Result() != types.Undefined }

func (s Signature) String() string {
	return s.Left().String() + " " + s.Right().String() + " -> " + s.Result().String()
}

// ============================================================================
// 表
// ============================================================================

// Table 一个运算符的签名表
type Table [types.NumTypeIDs * types.NumTypeIDs]Signature

// Index 类型对的表下标
func Index(left, right types.TypeID) int {
	return int(left&0xF)<<4 | int(right&0xF)
}

func (t *Table) set(left, right types.TypeID, lc, rc types.Conversion, result types.TypeID) {
	t[Index(left, right)] = Pack(lc, rc, result)
}

// result 只给出结果类型、不带转换的表项
func (t *Table) result(left, right, result types.TypeID) {
	t[Index(left, right)] = Signature(result)
}

// signatures 按运算符编号索引；共用生成器的运算符共享同一张表
var signatures = buildSignatures()

func buildSignatures() [types.NumBinary]*Table {
	var s [types.NumBinary]*Table

	bitwise := bitwiseTable()
	s[types.And], s[types.Or], s[types.Xor] = bitwise, bitwise, bitwise

	logical := logicalTable()
	s[types.AndAnd], s[types.OrOr] = logical, logical

	s[types.InstanceOf] = instanceofTable()

	equality := equalityTable()
	s[types.EqualEqual], s[types.NotEqual] = equality, equality
	s[types.EqualEqualEqual], s[types.NotEqualEqual] = equality, equality
	s[types.In] = equality

	shift := shiftTable()
	s[types.LeftShift], s[types.RightShift], s[types.UnsignedRightShift] = shift, shift, shift

	relational := relationalTable()
	s[types.Less], s[types.LessEqual] = relational, relational
	s[types.Greater], s[types.GreaterEqual] = relational, relational

	s[types.Plus] = plusTable()

	minus := minusTable()
	s[types.Minus], s[types.Multiply], s[types.Divide], s[types.Remainder] = minus, minus, minus, minus

	return s
}

// Lookup 查询运算符 op 作用于 (left, right) 的签名
//
// 非二元运算符或未定义的组合返回 0（结果类型为 Undefined）。
func Lookup(op types.Operator, left, right types.TypeID) Signature {
	if !op.IsBinary() {
		return 0
	}
	t := signatures[op]
	if t == nil {
		return 0
	}
	return t[Index(left, right)]
}

// Shares 两个运算符是否使用同一张签名表
func Shares(a, b types.Operator) bool {
	if !a.IsBinary() || !b.IsBinary() {
		return false
	}
	return signatures[a] == signatures[b]
}
