package operators

import "github.com/tangzhangming/jscheck/internal/types"

// ============================================================================
// 签名表生成器
//
// 表项内容是这门方言的编译期运算符类型规则，沿用既有取值。
// 未列出的组合为 0，即结果 Undefined。
// ============================================================================

// bitwiseTable 位运算 & | ^ 共用
func bitwiseTable() *Table {
	t := new(Table)
	t.set(types.Long, types.Long, types.Long2Long, types.Long2Long, types.Long)
	t.set(types.Long, types.Short, types.Long2Long, types.Short2Long, types.Long)
	t.set(types.Long, types.Char, types.Long2Long, types.Char2Long, types.Long)
	t.set(types.Long, types.Int, types.Long2Long, types.Int2Long, types.Long)
	t.result(types.Long, types.Any, types.Any)

	t.set(types.Short, types.Long, types.Short2Long, types.Long2Long, types.Long)
	t.set(types.Short, types.Short, types.Short2Int, types.Short2Int, types.Int)
	t.set(types.Short, types.Char, types.Short2Int, types.Char2Int, types.Int)
	t.set(types.Short, types.Int, types.Short2Int, types.Int2Int, types.Int)
	t.result(types.Short, types.Any, types.Any)

	t.result(types.Void, types.Any, types.Any)

	t.result(types.String, types.Any, types.Any)

	t.result(types.Object, types.Any, types.Any)

	t.result(types.Double, types.Any, types.Any)

	t.result(types.Float, types.Any, types.Any)

	t.set(types.Boolean, types.Boolean, types.Boolean2Boolean, types.Boolean2Boolean, types.Boolean)
	t.result(types.Boolean, types.Any, types.Any)

	t.set(types.Char, types.Long, types.Char2Long, types.Long2Long, types.Long)
	t.set(types.Char, types.Short, types.Char2Int, types.Short2Int, types.Int)
	t.set(types.Char, types.Char, types.Char2Int, types.Char2Int, types.Int)
	t.set(types.Char, types.Int, types.Char2Int, types.Int2Int, types.Int)
	t.result(types.Char, types.Any, types.Any)

	t.set(types.Int, types.Long, types.Int2Long, types.Long2Long, types.Long)
	t.set(types.Int, types.Short, types.Int2Int, types.Short2Int, types.Int)
	t.set(types.Int, types.Char, types.Int2Int, types.Char2Int, types.Int)
	t.set(types.Int, types.Int, types.Int2Int, types.Int2Int, types.Int)
	t.result(types.Int, types.Any, types.Any)

	t.result(types.Null, types.Any, types.Any)

	t.result(types.Any, types.Undefined, types.Any)
	t.result(types.Any, types.Long, types.Any)
	t.result(types.Any, types.Short, types.Any)
	t.result(types.Any, types.Void, types.Any)
	t.result(types.Any, types.String, types.Any)
	t.result(types.Any, types.Object, types.Any)
	t.result(types.Any, types.Double, types.Any)
	t.result(types.Any, types.Float, types.Any)
	t.result(types.Any, types.Boolean, types.Any)
	t.result(types.Any, types.Char, types.Any)
	t.result(types.Any, types.Int, types.Any)
	t.result(types.Any, types.Null, types.Any)
	t.result(types.Any, types.Any, types.Any)
	return t
}

// logicalTable 短路运算 && || 共用
func logicalTable() *Table {
	t := new(Table)
	t.result(types.Undefined, types.String, types.String)
	t.result(types.Undefined, types.Boolean, types.Boolean)
	t.result(types.Undefined, types.Char, types.String)
	t.result(types.Undefined, types.Int, types.Int)

	t.result(types.Long, types.Any, types.Boolean)

	t.result(types.Short, types.Any, types.Boolean)

	t.result(types.String, types.Undefined, types.String)
	t.result(types.String, types.String, types.String)
	t.result(types.String, types.Boolean, types.Boolean)
	t.result(types.String, types.Int, types.Any)
	t.result(types.String, types.Any, types.Boolean)

	t.result(types.Object, types.String, types.Boolean)
	t.result(types.Object, types.Boolean, types.Boolean)
	t.result(types.Object, types.Int, types.Int)
	t.result(types.Object, types.Any, types.Boolean)

	t.result(types.Double, types.Any, types.Boolean)

	t.result(types.Float, types.Any, types.Boolean)

	t.result(types.Boolean, types.String, types.String)
	t.result(types.Boolean, types.Object, types.Object)
	t.set(types.Boolean, types.Boolean, types.Boolean2Boolean, types.Boolean2Boolean, types.Boolean)
	t.result(types.Boolean, types.Int, types.Boolean)
	t.result(types.Boolean, types.Any, types.Boolean)

	t.result(types.Char, types.String, types.String)
	t.result(types.Char, types.Char, types.String)
	t.result(types.Char, types.Any, types.Boolean)

	t.result(types.Int, types.String, types.Any)
	t.result(types.Int, types.Boolean, types.Boolean)
	t.result(types.Int, types.Int, types.Int)
	t.result(types.Int, types.Function, types.Boolean)
	t.result(types.Int, types.Any, types.Boolean)

	t.result(types.Null, types.Any, types.Boolean)

	t.result(types.Any, types.Undefined, types.Boolean)

	t.result(types.Function, types.Undefined, types.Boolean)
	t.result(types.Function, types.Any, types.Function)
	t.result(types.Function, types.Int, types.Boolean)
	t.result(types.Function, types.Function, types.Function)

	t.result(types.Any, types.Long, types.Boolean)
	t.result(types.Any, types.Short, types.Boolean)
	t.result(types.Any, types.Void, types.Boolean)
	t.result(types.Any, types.String, types.String)
	t.result(types.Any, types.Object, types.Object)
	t.result(types.Any, types.Double, types.Boolean)
	t.result(types.Any, types.Float, types.Boolean)
	t.result(types.Any, types.Boolean, types.Boolean)
	t.result(types.Any, types.Char, types.Boolean)
	t.result(types.Any, types.Int, types.Int)
	t.result(types.Any, types.Null, types.Boolean)
	t.result(types.Any, types.Any, types.Any)
	t.result(types.Any, types.Function, types.Function)
	return t
}

// instanceofTable instanceof
func instanceofTable() *Table {
	t := new(Table)
	t.result(types.Any, types.String, types.Boolean)
	t.result(types.Any, types.Object, types.Boolean)
	t.result(types.Any, types.Function, types.Boolean)
	t.result(types.Any, types.Boolean, types.Boolean)
	t.result(types.Any, types.Int, types.Boolean)
	t.result(types.Any, types.Any, types.Boolean)

	t.result(types.Null, types.Object, types.Boolean)
	t.result(types.Null, types.String, types.Boolean)
	t.result(types.Null, types.Function, types.Boolean)
	t.result(types.Null, types.Boolean, types.Boolean)
	t.result(types.Null, types.Int, types.Boolean)
	t.result(types.Null, types.Any, types.Boolean)

	t.result(types.String, types.Object, types.Boolean)
	t.result(types.String, types.String, types.Boolean)
	t.result(types.String, types.Function, types.Boolean)
	t.result(types.String, types.Boolean, types.Boolean)
	t.result(types.String, types.Int, types.Boolean)
	t.result(types.String, types.Any, types.Boolean)

	t.result(types.Object, types.Object, types.Boolean)
	t.result(types.Object, types.String, types.Boolean)
	t.result(types.Object, types.Function, types.Boolean)
	t.result(types.Object, types.Boolean, types.Boolean)
	t.result(types.Object, types.Int, types.Boolean)
	t.result(types.Object, types.Any, types.Boolean)

	t.result(types.Function, types.Int, types.Boolean)
	t.result(types.Function, types.Object, types.Boolean)
	t.result(types.Function, types.String, types.Boolean)
	t.result(types.Function, types.Function, types.Boolean)
	t.result(types.Function, types.Boolean, types.Boolean)
	t.result(types.Function, types.Any, types.Boolean)

	t.result(types.Boolean, types.Int, types.Boolean)
	t.result(types.Boolean, types.Object, types.Boolean)
	t.result(types.Boolean, types.String, types.Boolean)
	t.result(types.Boolean, types.Function, types.Boolean)
	t.result(types.Boolean, types.Boolean, types.Boolean)
	t.result(types.Boolean, types.Any, types.Boolean)

	t.result(types.Int, types.Int, types.Boolean)
	t.result(types.Int, types.Object, types.Boolean)
	t.result(types.Int, types.String, types.Boolean)
	t.result(types.Int, types.Function, types.Boolean)
	t.result(types.Int, types.Boolean, types.Boolean)
	t.result(types.Int, types.Any, types.Boolean)
	return t
}

// equalityTable == != === !== 与 in 共用
func equalityTable() *Table {
	t := new(Table)
	t.set(types.Long, types.Long, types.Long2Long, types.Long2Long, types.Boolean)
	t.set(types.Long, types.Short, types.Long2Long, types.Short2Long, types.Boolean)
	t.set(types.Long, types.Double, types.Long2Double, types.Double2Double, types.Boolean)
	t.set(types.Long, types.Float, types.Long2Float, types.Float2Float, types.Boolean)
	t.set(types.Long, types.Char, types.Long2Long, types.Char2Long, types.Boolean)
	t.set(types.Long, types.Int, types.Long2Long, types.Int2Long, types.Boolean)
	t.set(types.Long, types.Any, types.Long2Long, types.Int2Long, types.Boolean)

	t.set(types.Short, types.Long, types.Short2Long, types.Long2Long, types.Boolean)
	t.set(types.Short, types.Short, types.Short2Int, types.Short2Int, types.Boolean)
	t.set(types.Short, types.Double, types.Short2Double, types.Double2Double, types.Boolean)
	t.set(types.Short, types.Float, types.Short2Float, types.Float2Float, types.Boolean)
	t.set(types.Short, types.Char, types.Short2Int, types.Char2Int, types.Boolean)
	t.set(types.Short, types.Int, types.Short2Int, types.Int2Int, types.Boolean)
	t.set(types.Short, types.Any, types.Short2Int, types.Int2Int, types.Boolean)

	t.set(types.String, types.String, types.String2Object, types.String2Object, types.Boolean)
	t.set(types.String, types.Object, types.String2Object, types.Object2Object, types.Boolean)
	t.result(types.String, types.Char, types.Boolean)
	t.set(types.String, types.Null, types.String2Object, types.Null2Object, types.Boolean)
	t.result(types.String, types.Any, types.Any)

	t.set(types.Object, types.String, types.Object2Object, types.String2Object, types.Boolean)
	t.set(types.Object, types.Object, types.Object2Object, types.Object2Object, types.Boolean)
	t.set(types.Object, types.Null, types.Object2Object, types.Null2Object, types.Boolean)
	t.result(types.Object, types.Any, types.Boolean)

	t.set(types.Double, types.Long, types.Double2Double, types.Long2Double, types.Boolean)
	t.set(types.Double, types.Short, types.Double2Double, types.Short2Double, types.Boolean)
	t.set(types.Double, types.Double, types.Double2Double, types.Double2Double, types.Boolean)
	t.set(types.Double, types.Float, types.Double2Double, types.Float2Double, types.Boolean)
	t.set(types.Double, types.Char, types.Double2Double, types.Char2Double, types.Boolean)
	t.set(types.Double, types.Int, types.Double2Double, types.Int2Double, types.Boolean)
	t.result(types.Double, types.Any, types.Boolean)

	t.set(types.Float, types.Long, types.Float2Float, types.Long2Float, types.Boolean)
	t.set(types.Float, types.Short, types.Float2Float, types.Short2Float, types.Boolean)
	t.set(types.Float, types.Double, types.Float2Double, types.Double2Double, types.Boolean)
	t.set(types.Float, types.Float, types.Float2Float, types.Float2Float, types.Boolean)
	t.set(types.Float, types.Char, types.Float2Float, types.Char2Float, types.Boolean)
	t.set(types.Float, types.Int, types.Float2Float, types.Int2Float, types.Boolean)
	t.result(types.Float, types.Any, types.Boolean)

	t.set(types.Boolean, types.Boolean, types.Boolean2Boolean, types.Boolean2Boolean, types.Boolean)
	t.result(types.Boolean, types.Any, types.Boolean)

	t.set(types.Char, types.Long, types.Char2Long, types.Long2Long, types.Boolean)
	t.set(types.Char, types.Short, types.Char2Int, types.Short2Int, types.Boolean)
	t.result(types.Char, types.String, types.Boolean)
	t.set(types.Char, types.Double, types.Char2Double, types.Double2Double, types.Boolean)
	t.set(types.Char, types.Float, types.Char2Float, types.Float2Float, types.Boolean)
	t.set(types.Char, types.Char, types.Char2Int, types.Char2Int, types.Boolean)
	t.set(types.Char, types.Int, types.Char2Int, types.Int2Int, types.Boolean)
	t.result(types.Char, types.Any, types.Boolean)

	t.set(types.Int, types.Long, types.Int2Long, types.Long2Long, types.Boolean)
	t.set(types.Int, types.Short, types.Int2Int, types.Short2Int, types.Boolean)
	t.set(types.Int, types.Double, types.Int2Double, types.Double2Double, types.Boolean)
	t.set(types.Int, types.Float, types.Int2Float, types.Float2Float, types.Boolean)
	t.set(types.Int, types.Char, types.Int2Int, types.Char2Int, types.Boolean)
	t.set(types.Int, types.Int, types.Int2Int, types.Int2Int, types.Boolean)
	t.result(types.Int, types.Any, types.Boolean)

	t.set(types.Null, types.String, types.Null2Object, types.String2Object, types.Boolean)
	t.set(types.Null, types.Object, types.Null2Object, types.Object2Object, types.Boolean)
	t.set(types.Null, types.Null, types.Null2Object, types.Null2Object, types.Boolean)
	t.result(types.Null, types.Function, types.Boolean)
	t.result(types.Null, types.Any, types.Boolean)

	t.result(types.Any, types.Long, types.Boolean)
	t.result(types.Any, types.Short, types.Boolean)
	t.result(types.Any, types.String, types.Boolean)
	t.result(types.Any, types.Object, types.Boolean)
	t.result(types.Any, types.Double, types.Boolean)
	t.result(types.Any, types.Float, types.Boolean)
	t.result(types.Any, types.Boolean, types.Boolean)
	t.result(types.Any, types.Char, types.Boolean)
	t.result(types.Any, types.Int, types.Boolean)
	t.result(types.Any, types.Null, types.Boolean)
	t.result(types.Any, types.Any, types.Boolean)
	t.result(types.Any, types.Function, types.Boolean)

	t.result(types.Function, types.Undefined, types.Boolean)
	t.result(types.Function, types.String, types.Boolean)
	t.result(types.Function, types.Object, types.Boolean)
	t.result(types.Function, types.Null, types.Boolean)
	t.result(types.Function, types.Any, types.Boolean)
	t.result(types.Function, types.Function, types.Boolean)
	return t
}

// shiftTable 移位运算 << >> >>> 共用
func shiftTable() *Table {
	t := new(Table)
	t.set(types.Long, types.Long, types.Long2Long, types.Long2Int, types.Long)
	t.set(types.Long, types.Short, types.Long2Long, types.Short2Int, types.Long)
	t.set(types.Long, types.Char, types.Long2Long, types.Char2Int, types.Long)
	t.set(types.Long, types.Int, types.Long2Long, types.Int2Int, types.Long)
	t.result(types.Long, types.Any, types.Any)

	t.set(types.Short, types.Long, types.Short2Int, types.Long2Int, types.Int)
	t.set(types.Short, types.Short, types.Short2Int, types.Short2Int, types.Int)
	t.set(types.Short, types.Char, types.Short2Int, types.Char2Int, types.Int)
	t.set(types.Short, types.Int, types.Short2Int, types.Int2Int, types.Int)

	t.result(types.Void, types.Any, types.Any)

	t.result(types.String, types.Any, types.Any)

	t.result(types.Object, types.Any, types.Any)

	t.result(types.Double, types.Any, types.Any)

	t.result(types.Float, types.Any, types.Any)

	t.result(types.Boolean, types.Any, types.Any)

	t.set(types.Char, types.Long, types.Char2Int, types.Long2Int, types.Int)
	t.set(types.Char, types.Short, types.Char2Int, types.Short2Int, types.Int)
	t.set(types.Char, types.Char, types.Char2Int, types.Char2Int, types.Int)
	t.set(types.Char, types.Int, types.Char2Int, types.Int2Int, types.Int)
	t.result(types.Char, types.Any, types.Any)

	t.set(types.Int, types.Long, types.Int2Int, types.Long2Int, types.Int)
	t.set(types.Int, types.Short, types.Int2Int, types.Short2Int, types.Int)
	t.set(types.Int, types.Char, types.Int2Int, types.Char2Int, types.Int)
	t.set(types.Int, types.Int, types.Int2Int, types.Int2Int, types.Int)
	t.result(types.Int, types.Any, types.Any)

	t.result(types.Null, types.Any, types.Any)

	t.result(types.Any, types.Undefined, types.Any)
	t.result(types.Any, types.Long, types.Any)
	t.result(types.Any, types.Short, types.Any)
	t.result(types.Any, types.Void, types.Any)
	t.result(types.Any, types.String, types.Any)
	t.result(types.Any, types.Object, types.Any)
	t.result(types.Any, types.Double, types.Any)
	t.result(types.Any, types.Float, types.Any)
	t.result(types.Any, types.Boolean, types.Any)
	t.result(types.Any, types.Char, types.Any)
	t.result(types.Any, types.Int, types.Any)
	t.result(types.Any, types.Null, types.Any)
	t.result(types.Any, types.Any, types.Any)
	return t
}

// relationalTable 比较运算 < <= > >= 共用
func relationalTable() *Table {
	t := new(Table)
	t.set(types.Long, types.Long, types.Long2Long, types.Long2Long, types.Boolean)
	t.set(types.Long, types.Short, types.Long2Long, types.Short2Long, types.Boolean)
	t.set(types.Long, types.Double, types.Long2Double, types.Double2Double, types.Boolean)
	t.set(types.Long, types.Float, types.Long2Float, types.Float2Float, types.Boolean)
	t.set(types.Long, types.Char, types.Long2Long, types.Char2Long, types.Boolean)
	t.set(types.Long, types.Int, types.Long2Long, types.Int2Long, types.Boolean)
	t.result(types.Long, types.Any, types.Boolean)

	t.set(types.Short, types.Long, types.Short2Long, types.Long2Long, types.Boolean)
	t.set(types.Short, types.Short, types.Short2Int, types.Short2Int, types.Boolean)
	t.set(types.Short, types.Double, types.Short2Double, types.Double2Double, types.Boolean)
	t.set(types.Short, types.Float, types.Short2Float, types.Float2Float, types.Boolean)
	t.set(types.Short, types.Char, types.Short2Int, types.Char2Int, types.Boolean)
	t.set(types.Short, types.Int, types.Short2Int, types.Int2Int, types.Boolean)
	t.result(types.Short, types.Any, types.Boolean)

	t.result(types.String, types.String, types.Boolean)
	t.result(types.String, types.Char, types.Boolean)
	t.result(types.String, types.Int, types.Boolean)
	t.result(types.String, types.Any, types.Boolean)

	t.result(types.Object, types.Any, types.Boolean)

	t.set(types.Double, types.Long, types.Double2Double, types.Long2Double, types.Boolean)
	t.set(types.Double, types.Short, types.Double2Double, types.Short2Double, types.Boolean)
	t.set(types.Double, types.Double, types.Double2Double, types.Double2Double, types.Boolean)
	t.set(types.Double, types.Float, types.Double2Double, types.Float2Double, types.Boolean)
	t.set(types.Double, types.Char, types.Double2Double, types.Char2Double, types.Boolean)
	t.set(types.Double, types.Int, types.Double2Double, types.Int2Double, types.Boolean)
	t.result(types.Double, types.Any, types.Boolean)

	t.set(types.Float, types.Long, types.Float2Float, types.Long2Float, types.Boolean)
	t.set(types.Float, types.Short, types.Float2Float, types.Short2Float, types.Boolean)
	t.set(types.Float, types.Double, types.Float2Double, types.Double2Double, types.Boolean)
	t.set(types.Float, types.Float, types.Float2Float, types.Float2Float, types.Boolean)
	t.set(types.Float, types.Char, types.Float2Float, types.Char2Float, types.Boolean)
	t.set(types.Float, types.Int, types.Float2Float, types.Int2Float, types.Boolean)
	t.result(types.Float, types.Any, types.Boolean)

	t.set(types.Char, types.Long, types.Char2Long, types.Long2Long, types.Boolean)
	t.set(types.Char, types.Short, types.Char2Int, types.Short2Int, types.Boolean)
	t.set(types.Char, types.String, types.Char2Int, types.Char2Int, types.Boolean)
	t.set(types.Char, types.Double, types.Char2Double, types.Double2Double, types.Boolean)
	t.set(types.Char, types.Float, types.Char2Float, types.Float2Float, types.Boolean)
	t.set(types.Char, types.Int, types.Char2Int, types.Int2Int, types.Boolean)
	t.result(types.Char, types.Any, types.Boolean)

	t.set(types.Int, types.Long, types.Int2Long, types.Long2Long, types.Boolean)
	t.set(types.Int, types.Short, types.Int2Int, types.Short2Int, types.Boolean)
	t.result(types.Int, types.String, types.Boolean)
	t.set(types.Int, types.Double, types.Int2Double, types.Double2Double, types.Boolean)
	t.set(types.Int, types.Float, types.Int2Float, types.Float2Float, types.Boolean)
	t.set(types.Int, types.Char, types.Int2Int, types.Char2Int, types.Boolean)
	t.set(types.Int, types.Int, types.Int2Int, types.Int2Int, types.Boolean)
	t.result(types.Int, types.Any, types.Boolean)

	t.result(types.Any, types.Undefined, types.Boolean)
	t.result(types.Any, types.Long, types.Boolean)
	t.result(types.Any, types.Short, types.Boolean)
	t.result(types.Any, types.Void, types.Boolean)
	t.result(types.Any, types.String, types.Boolean)
	t.result(types.Any, types.Object, types.Boolean)
	t.result(types.Any, types.Double, types.Boolean)
	t.result(types.Any, types.Float, types.Boolean)
	t.result(types.Any, types.Boolean, types.Boolean)
	t.result(types.Any, types.Char, types.Boolean)
	t.result(types.Any, types.Int, types.Boolean)
	t.result(types.Any, types.Null, types.Boolean)
	t.result(types.Any, types.Any, types.Boolean)
	return t
}

// plusTable + 负责字符串拼接
func plusTable() *Table {
	t := new(Table)
	t.set(types.Long, types.Long, types.Long2Long, types.Long2Long, types.Long)
	t.set(types.Long, types.Short, types.Long2Long, types.Short2Long, types.Long)
	t.set(types.Long, types.String, types.Long2Long, types.String2String, types.String)
	t.set(types.Long, types.Double, types.Long2Double, types.Double2Double, types.Double)
	t.set(types.Long, types.Float, types.Long2Float, types.Float2Float, types.Float)
	t.set(types.Long, types.Char, types.Long2Long, types.Char2Long, types.Long)
	t.set(types.Long, types.Int, types.Long2Long, types.Int2Long, types.Long)
	t.result(types.Long, types.Any, types.Any)

	t.set(types.Short, types.Long, types.Short2Long, types.Long2Long, types.Long)
	t.set(types.Short, types.Short, types.Short2Int, types.Short2Int, types.Int)
	t.set(types.Short, types.String, types.Short2Short, types.String2String, types.String)
	t.set(types.Short, types.Double, types.Short2Double, types.Double2Double, types.Double)
	t.set(types.Short, types.Float, types.Short2Float, types.Float2Float, types.Float)
	t.set(types.Short, types.Char, types.Short2Int, types.Char2Int, types.Int)
	t.set(types.Short, types.Int, types.Short2Int, types.Int2Int, types.Int)
	t.result(types.Short, types.Any, types.Any)

	t.result(types.Void, types.Any, types.Any)

	t.set(types.String, types.Long, types.String2String, types.Long2Long, types.String)
	t.set(types.String, types.Short, types.String2String, types.Short2Short, types.String)
	t.result(types.String, types.Void, types.String)
	t.set(types.String, types.String, types.String2String, types.String2String, types.String)
	t.set(types.String, types.Object, types.String2String, types.Object2Object, types.String)
	t.set(types.String, types.Double, types.String2String, types.Double2Double, types.String)
	t.set(types.String, types.Float, types.String2String, types.Float2Float, types.String)
	t.set(types.String, types.Boolean, types.String2String, types.Boolean2Boolean, types.String)
	t.set(types.String, types.Char, types.String2String, types.Char2Char, types.String)
	t.set(types.String, types.Int, types.String2String, types.Int2Int, types.String)
	t.set(types.String, types.Null, types.String2String, types.Null2Null, types.String)
	t.result(types.String, types.Any, types.String)
	t.result(types.String, types.Function, types.Any)

	t.set(types.Object, types.String, types.Object2Object, types.String2String, types.String)
	t.result(types.Object, types.Int, types.Int)
	t.result(types.Object, types.Any, types.Any)

	t.set(types.Double, types.Long, types.Double2Double, types.Long2Double, types.Double)
	t.set(types.Double, types.Short, types.Double2Double, types.Short2Double, types.Double)
	t.set(types.Double, types.String, types.Double2Double, types.String2String, types.String)
	t.set(types.Double, types.Double, types.Double2Double, types.Double2Double, types.Double)
	t.set(types.Double, types.Float, types.Double2Double, types.Float2Double, types.Double)
	t.set(types.Double, types.Char, types.Double2Double, types.Char2Double, types.Double)
	t.set(types.Double, types.Int, types.Double2Double, types.Int2Double, types.Double)
	t.result(types.Double, types.Any, types.Any)

	t.set(types.Float, types.Long, types.Float2Float, types.Long2Float, types.Float)
	t.set(types.Float, types.Short, types.Float2Float, types.Short2Float, types.Float)
	t.set(types.Float, types.String, types.Float2Float, types.String2String, types.String)
	t.set(types.Float, types.Double, types.Float2Double, types.Double2Double, types.Double)
	t.set(types.Float, types.Float, types.Float2Float, types.Float2Float, types.Float)
	t.set(types.Float, types.Char, types.Float2Float, types.Char2Float, types.Float)
	t.set(types.Float, types.Int, types.Float2Float, types.Int2Float, types.Float)
	t.result(types.Float, types.Any, types.Any)

	t.set(types.Boolean, types.String, types.Boolean2Boolean, types.String2String, types.String)
	t.result(types.Boolean, types.Any, types.Any)

	t.result(types.Char, types.Undefined, types.String)
	t.set(types.Char, types.Long, types.Char2Long, types.Long2Long, types.String)
	t.set(types.Char, types.Short, types.Char2Int, types.Short2Int, types.String)
	t.set(types.Char, types.String, types.Char2Char, types.String2String, types.String)
	t.set(types.Char, types.Double, types.Char2Double, types.Double2Double, types.String)
	t.set(types.Char, types.Float, types.Char2Float, types.Float2Float, types.String)
	t.result(types.Char, types.Boolean, types.String)
	t.set(types.Char, types.Char, types.Char2Int, types.Char2Int, types.String)
	t.set(types.Char, types.Int, types.Char2Int, types.Int2Int, types.String)
	t.result(types.Char, types.Any, types.String)

	t.set(types.Int, types.Long, types.Int2Long, types.Long2Long, types.Long)
	t.set(types.Int, types.Short, types.Int2Int, types.Short2Int, types.Int)
	t.set(types.Int, types.String, types.Int2Int, types.String2String, types.String)
	t.set(types.Int, types.Double, types.Int2Double, types.Double2Double, types.Double)
	t.set(types.Int, types.Float, types.Int2Float, types.Float2Float, types.Float)
	t.set(types.Int, types.Char, types.Int2Int, types.Char2Int, types.Int)
	t.set(types.Int, types.Int, types.Int2Int, types.Int2Int, types.Int)
	t.result(types.Int, types.Any, types.Any)

	t.set(types.Null, types.String, types.Null2Null, types.String2String, types.String)
	t.result(types.Null, types.Int, types.Int)
	t.result(types.Null, types.Any, types.Any)

	t.result(types.Any, types.Undefined, types.Any)
	t.result(types.Any, types.Long, types.Any)
	t.result(types.Any, types.Short, types.Any)
	t.result(types.Any, types.Void, types.Any)
	t.result(types.Any, types.String, types.Any)
	t.result(types.Any, types.Object, types.Any)
	t.result(types.Any, types.Double, types.Any)
	t.result(types.Any, types.Float, types.Any)
	t.result(types.Any, types.Boolean, types.Any)
	t.result(types.Any, types.Char, types.Any)
	t.result(types.Any, types.Int, types.Any)
	t.result(types.Any, types.Null, types.Any)
	t.result(types.Any, types.Any, types.Any)
	return t
}

// minusTable - * / % 共用：复制加法表后把字符串操作数改成数值转换或未定义
func minusTable() *Table {
	t := plusTable()
	t.result(types.String, types.Long, types.Undefined)
	t.result(types.String, types.Short, types.Undefined)
	t.result(types.String, types.Void, types.Undefined)
	t.result(types.String, types.String, types.Int)
	t.result(types.String, types.Object, types.Undefined)
	t.result(types.String, types.Double, types.Undefined)
	t.result(types.String, types.Float, types.Undefined)
	t.result(types.String, types.Boolean, types.Undefined)
	t.result(types.String, types.Char, types.Undefined)
	t.result(types.String, types.Int, types.Int)
	t.result(types.String, types.Null, types.Undefined)
	t.result(types.String, types.Any, types.Int)

	t.result(types.Long, types.String, types.Undefined)

	t.result(types.Short, types.String, types.Undefined)

	t.result(types.Void, types.String, types.Undefined)

	t.result(types.Object, types.String, types.Undefined)

	t.result(types.Double, types.String, types.Undefined)

	t.result(types.Float, types.String, types.Undefined)

	t.result(types.Boolean, types.String, types.Undefined)

	t.result(types.Char, types.String, types.Undefined)

	t.result(types.Int, types.String, types.Int)

	t.result(types.Null, types.String, types.Undefined)
	t.result(types.Null, types.Null, types.Undefined)

	t.result(types.Any, types.Undefined, types.Any)
	t.result(types.Any, types.Long, types.Any)
	t.result(types.Any, types.Short, types.Any)
	t.result(types.Any, types.Void, types.Any)
	t.result(types.Any, types.String, types.Any)
	t.result(types.Any, types.Object, types.Any)
	t.result(types.Any, types.Double, types.Any)
	t.result(types.Any, types.Float, types.Any)
	t.result(types.Any, types.Boolean, types.Any)
	t.result(types.Any, types.Char, types.Any)
	t.result(types.Any, types.Int, types.Any)
	t.result(types.Any, types.Null, types.Any)
	t.result(types.Any, types.Any, types.Any)
	return t
}
