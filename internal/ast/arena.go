package ast

import "github.com/tangzhangming/jscheck/internal/token"

// ============================================================================
// Arena 节点池
// ============================================================================
//
// Arena 登记一个文件的全部 AST 节点，并给每个节点分配稠密的 NodeID。
// 编译器的旁表（类型、绑定、常量）都以 NodeID 为下标，
// 重新解析或惰性解析方法体时只需要按新的 Len() 扩容旁表。
//
// 使用方式：
//   arena := NewArena(1024)
//   id := arena.NewIdent(span, "x").ID()
//   n := arena.Node(id)
//
// Arena 不是线程安全的，一个编译单元独占一个。
// ============================================================================

// NodeID 节点编号，0 表示无效
type NodeID uint32

// Valid 是否有效编号
func (id NodeID) Valid() bool { return id != 0 }

// 默认预分配的节点数
const defaultCapacity = 256

// Arena 节点池
type Arena struct {
	nodes []Node
	exprs int
	stmts int
}

// NewArena 创建节点池
//
// capacity <= 0 时使用默认容量。
func NewArena(capacity int) *Arena {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &Arena{nodes: make([]Node, 0, capacity)}
}

// New 把节点登记到 arena 并设置范围，返回同一个节点
func New[T Node](a *Arena, n T, span token.Span) T {
	b := n.base()
	if b.id != 0 {
		// 已登记的节点只更新范围
		b.span = span
		return n
	}
	a.nodes = append(a.nodes, n)
	b.id = NodeID(len(a.nodes))
	b.span = span
	switch Node(n).(type) {
	case Expression:
		a.exprs++
	case Statement:
		a.stmts++
	}
	return n
}

// Node 按编号取节点；编号无效时返回 nil
func (a *Arena) Node(id NodeID) Node {
	if id == 0 || int(id) > len(a.nodes) {
		return nil
	}
	return a.nodes[id-1]
}

// Len 已登记的节点数，也是最大的有效 NodeID
func (a *Arena) Len() int {
	return len(a.nodes)
}

// Reset 清空节点池，保留底层数组以便复用
//
// 调用 Reset 后，之前的 NodeID 全部失效。
func (a *Arena) Reset() {
	clear(a.nodes)
	a.nodes = a.nodes[:0]
	a.exprs = 0
	a.stmts = 0
}

// ArenaStats 节点池统计（用于调试）
type ArenaStats struct {
	Nodes       int // 节点总数
	Expressions int // 表达式节点数
	Statements  int // 语句节点数
	Capacity    int // 底层数组容量
}

// Stats 获取统计信息
func (a *Arena) Stats() ArenaStats {
	return ArenaStats{
		Nodes:       len(a.nodes),
		Expressions: a.exprs,
		Statements:  a.stmts,
		Capacity:    cap(a.nodes),
	}
}
