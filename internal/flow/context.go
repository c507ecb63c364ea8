package flow

import (
	"github.com/tangzhangming/jscheck/internal/ast"
	"github.com/tangzhangming/jscheck/internal/lookup"
)

// ============================================================================
// 流上下文
// ============================================================================
//
// 流上下文是分析期间的一条栈，记录 break/continue/return 的目标、
// 离开 try 块时的流信息、catch 能捕获的异常以及延迟的空检查。
// 跳转语句从当前上下文向外遍历，沿途的 finally 把自己的赋值补进路径。
// ============================================================================

// ContextKind 上下文种类
type ContextKind uint8

const (
	MethodContext     ContextKind = iota // 方法（或程序）体
	LoopContext                          // while/do/for/for-in
	SwitchContext                        // switch：break 目标
	LabelContext                         // 带标签语句
	ExceptionContext                     // try 块：catch 处理器
	FinallyContext                       // 拥有 finally 的 try
	SubRoutineContext                    // finally 块自身
)

func (k ContextKind) String() string {
	switch k {
	case MethodContext:
		return "method"
	case LoopContext:
		return "loop"
	case SwitchContext:
		return "switch"
	case LabelContext:
		return "label"
	case ExceptionContext:
		return "exception"
	case FinallyContext:
		return "finally"
	default:
		return "subroutine"
	}
}

// JumpKind 跳转种类
type JumpKind uint8

const (
	Break JumpKind = iota
	Continue
	Return
)

// Handler catch 处理器
type Handler struct {
	Type   lookup.TypeBinding // nil 表示捕获一切
	Node   ast.Node           // catch 子句
	Raised bool               // try 块中是否可能抛出它能捕获的异常
	Inits  *Unconditional     // 抛出点流信息的汇合
}

// NullCheck 一次待判定的解引用
type NullCheck struct {
	Slot   int
	Name   string
	Node   ast.Node
	Status NullStatus
}

// Context 流上下文
type Context struct {
	Kind   ContextKind
	Parent *Context
	Node   ast.Node
	Label  string // LabelContext

	// 跳转累加的流信息；nil 表示没有这类跳转
	InitsOnBreak    *Unconditional
	InitsOnContinue *Unconditional
	InitsOnReturn   *Unconditional

	Handlers []*Handler // ExceptionContext

	// FinallyContext：finally 块先于 try 块分析
	FinallyInits *Unconditional
	Escaping     bool // finally 不能正常完成，穿过它的路径在此终止

	nullChecks []NullCheck // LoopContext、MethodContext
}

// NewContext 创建上下文
func NewContext(kind ContextKind, parent *Context, node ast.Node) *Context {
	return &Context{Kind: kind, Parent: parent, Node: node}
}

// NewLabel 创建标签上下文
func NewLabel(parent *Context, node ast.Node, label string) *Context {
	c := NewContext(LabelContext, parent, node)
	c.Label = label
	return c
}

// Method 最近的方法上下文
func (c *Context) Method() *Context {
	for ctx := c; ctx != nil; ctx = ctx.Parent {
		if ctx.Kind == MethodContext {
			return ctx
		}
	}
	return nil
}

// InsideSubRoutine 是否位于 finally 块中
func (c *Context) InsideSubRoutine() bool {
	for ctx := c; ctx != nil && ctx.Kind != MethodContext; ctx = ctx.Parent {
		if ctx.Kind == SubRoutineContext {
			return true
		}
	}
	return false
}

// ============================================================================
// 跳转目标
// ============================================================================

// BreakTarget 返回 break 的目标；无标签时是最近的循环或 switch。找不到返回 nil。
func (c *Context) BreakTarget(label string) *Context {
	for ctx := c; ctx != nil && ctx.Kind != MethodContext; ctx = ctx.Parent {
		if label == "" {
			if ctx.Kind == LoopContext || ctx.Kind == SwitchContext {
				return ctx
			}
		} else if ctx.Kind == LabelContext && ctx.Label == label {
			return ctx
		}
	}
	return nil
}

// ContinueTarget 返回 continue 的目标循环
//
// 带标签时 found 报告标签是否存在：标签存在但没有直接标注循环时返回 (nil, true)。
func (c *Context) ContinueTarget(label string) (target *Context, found bool) {
	var inner *Context
	for ctx := c; ctx != nil && ctx.Kind != MethodContext; inner, ctx = ctx, ctx.Parent {
		if label == "" {
			if ctx.Kind == LoopContext {
				return ctx, true
			}
			continue
		}
		if ctx.Kind == LabelContext && ctx.Label == label {
			if inner != nil && inner.Kind == LoopContext && inner.Parent == ctx {
				return inner, true
			}
			return nil, true
		}
	}
	return nil, false
}

// RecordJump 记录一次从 c 跳到 target 的路径
//
// 沿途的 try 块记下离开时的流信息；finally 把赋值补进路径；
// 不能正常完成的 finally 截断路径，此时返回 false。
// target 为 nil 的 Return 一直走到方法上下文。
func (c *Context) RecordJump(target *Context, kind JumpKind, info *Unconditional) bool {
	cur := info.clone()
	for ctx := c; ctx != nil; ctx = ctx.Parent {
		if ctx == target {
			break
		}
		switch ctx.Kind {
		case ExceptionContext:
			JoinInto(&ctx.InitsOnReturn, cur)
		case FinallyContext:
			if ctx.Escaping {
				return false
			}
			if ctx.FinallyInits != nil {
				cur.AddInitializationsFrom(ctx.FinallyInits)
			}
		case MethodContext:
			if kind == Return {
				JoinInto(&ctx.InitsOnReturn, cur)
			}
			return true
		}
	}
	if target == nil {
		return true
	}
	switch kind {
	case Break:
		JoinInto(&target.InitsOnBreak, cur)
	case Continue:
		JoinInto(&target.InitsOnContinue, cur)
	case Return:
		JoinInto(&target.InitsOnReturn, cur)
	}
	return true
}

// ============================================================================
// 异常
// ============================================================================

// Catches 判断处理器对某次抛出的捕获关系：
// may 表示它可能捕获，definitely 表示这次抛出一定被它捕获
type Catches func(h *Handler) (may, definitely bool)

// RecordRaise 记录一次可能的抛出
//
// 可能捕获它的处理器记下抛出点的流信息；一定被捕获后停止向外传播，
// 不能正常完成的 finally 同样吞掉异常。
func (c *Context) RecordRaise(info *Unconditional, catches Catches) {
	for ctx := c; ctx != nil && ctx.Kind != MethodContext; ctx = ctx.Parent {
		switch ctx.Kind {
		case ExceptionContext:
			done := false
			for _, h := range ctx.Handlers {
				may, definitely := catches(h)
				if !may {
					continue
				}
				h.Raised = true
				JoinInto(&h.Inits, info)
				if definitely {
					done = true
					break
				}
			}
			if done {
				return
			}
		case FinallyContext:
			if ctx.Escaping {
				return
			}
		}
	}
}

// ============================================================================
// 延迟的空检查
// ============================================================================

// RecordNullCheck 登记一次解引用
//
// 状态未知且位于循环内时挂在最近的循环上，等回边合并后判定；
// 已知为空或可能为空时挂在方法上下文，分析结束时统一报告。
func (c *Context) RecordNullCheck(check NullCheck) {
	for ctx := c; ctx != nil; ctx = ctx.Parent {
		switch ctx.Kind {
		case LoopContext:
			if check.Status == NullUnknown {
				ctx.nullChecks = append(ctx.nullChecks, check)
				return
			}
		case MethodContext:
			if check.Status == IsNull || check.Status == MaybeNull {
				ctx.nullChecks = append(ctx.nullChecks, check)
			}
			return
		}
	}
}

// CompleteNullChecks 用循环头部的流信息判定挂在本循环上的检查；
// 仍未知的交给外层
func (c *Context) CompleteNullChecks(head *Unconditional) {
	checks := c.nullChecks
	c.nullChecks = nil
	if c.Parent == nil {
		return
	}
	for _, check := range checks {
		if head.IsDeadEnd() {
			continue
		}
		switch head.NullStatus(check.Slot) {
		case IsNull:
			check.Status = IsNull
		case MaybeNull:
			check.Status = MaybeNull
		case IsNonNull:
			continue
		}
		c.Parent.RecordNullCheck(check)
	}
}

// NullChecks 方法上下文中已判定为空或可能为空的解引用（登记顺序）
func (c *Context) NullChecks() []NullCheck {
	return c.nullChecks
}
