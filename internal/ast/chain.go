package ast

import "github.com/tangzhangming/jscheck/internal/types"

// ============================================================================
// 展平的二元运算链
// ============================================================================
//
// a + b + c + ... 这样左结合的同运算符长链如果保持成二叉树，
// 深度会随项数线性增长，递归的解析、遍历和流分析都可能爆栈。
// 解析器在链足够长时把左脊展平成 ChainExpr：
//
//	Operands[0] op Operands[1] op ... op Operands[n-1]
//
// 第 i 步（i >= 1）把前 i 项的结果与 Operands[i] 结合，
// Steps[i-1] 记录这一步的打包签名。

// 操作数表的初始容量
const initialChainCapacity = 16

// ChainExpr 展平的左结合同运算符链
type ChainExpr struct {
	expr
	Op       types.Operator
	Operands []Expression
	Steps    []uint32 // 每一步的打包签名，长度 len(Operands)-1
}

func (e *ChainExpr) String() string { return Sprint(e) }

// Arity 操作数个数
func (e *ChainExpr) Arity() int {
	return len(e.Operands)
}

// Append 追加一个右操作数；容量不足时加倍
func (e *ChainExpr) Append(operand Expression) {
	if len(e.Operands) == cap(e.Operands) {
		n := 2 * cap(e.Operands)
		if n < initialChainCapacity {
			n = initialChainCapacity
		}
		grown := make([]Expression, len(e.Operands), n)
		copy(grown, e.Operands)
		e.Operands = grown
	}
	e.Operands = append(e.Operands, operand)
	e.span.End = operand.End()
}

// Last 最后一步的签名（整个链的结果）
func (e *ChainExpr) Last() uint32 {
	if len(e.Steps) == 0 {
		return 0
	}
	return e.Steps[len(e.Steps)-1]
}

// Flatten 把以 root 为根、运算符为 op 的左脊收集成操作数列表
//
// 只沿着不带括号、同运算符的左子树下降，与求值顺序一致。
func Flatten(root *BinaryExpr) []Expression {
	var spine []*BinaryExpr
	cur := Expression(root)
	for {
		b, ok := cur.(*BinaryExpr)
		if !ok || b.Op != root.Op || (b != root && b.Parens() > 0) {
			break
		}
		spine = append(spine, b)
		cur = b.Left
	}
	operands := make([]Expression, 0, len(spine)+1)
	operands = append(operands, cur)
	for i := len(spine) - 1; i >= 0; i-- {
		operands = append(operands, spine[i].Right)
	}
	return operands
}
