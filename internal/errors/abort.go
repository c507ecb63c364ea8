package errors

import (
	stderrors "errors"
	"fmt"
)

// ============================================================================
// Abort - 结构化中止
// ============================================================================
//
// 四个中止粒度按展开范围递增：Method < Type < CompilationUnit < Compilation。
// 可能中止的函数返回 error；每个结构边界用 Catch 判断：
// 级别不超过边界的中止在此被吞掉，更大的中止原样向上返回。
//
// ============================================================================

// AbortLevel 中止粒度
type AbortLevel int

const (
	AbortMethod          AbortLevel = iota + 1 // 放弃当前方法
	AbortType                                  // 放弃当前类型
	AbortCompilationUnit                       // 放弃当前编译单元
	AbortCompilation                           // 放弃整个编译
)

func (l AbortLevel) String() string {
	switch l {
	case AbortMethod:
		return "method"
	case AbortType:
		return "type"
	case AbortCompilationUnit:
		return "compilation unit"
	case AbortCompilation:
		return "compilation"
	default:
		return fmt.Sprintf("AbortLevel(%d)", int(l))
	}
}

// Abort 中止信号，携带粒度和触发它的问题（问题可能为 nil）
type Abort struct {
	Level   AbortLevel
	Problem *Problem
}

// NewAbort 创建中止信号
func NewAbort(level AbortLevel, problem *Problem) *Abort {
	return &Abort{Level: level, Problem: problem}
}

func (a *Abort) Error() string {
	if a.Problem != nil {
		return fmt.Sprintf("abort %s: %s", a.Level, a.Problem.Message)
	}
	return fmt.Sprintf("abort %s", a.Level)
}

// AsAbort 从错误链中取出中止信号
func AsAbort(err error) (*Abort, bool) {
	var a *Abort
	if stderrors.As(err, &a) {
		return a, true
	}
	return nil, false
}

// Catch 在粒度为 boundary 的边界处理 err。
// 返回被吞掉的中止（可能为 nil）和需要继续向上返回的错误。
func Catch(err error, boundary AbortLevel) (*Abort, error) {
	if err == nil {
		return nil, nil
	}
	a, ok := AsAbort(err)
	if !ok || a.Level > boundary {
		return nil, err
	}
	return a, nil
}
