package compiler

import (
	"github.com/tangzhangming/jscheck/internal/ast"
	"github.com/tangzhangming/jscheck/internal/constant"
	"github.com/tangzhangming/jscheck/internal/lookup"
	"github.com/tangzhangming/jscheck/internal/types"
)

// Info 解析结果旁表，全部以 NodeID 为下标
//
// 代码生成读取每个表达式的最终类型、每个引用的最终绑定和常量；
// 语言服务器用它们做定义跳转和悬停提示。
type Info struct {
	Types     []lookup.TypeBinding
	Bindings  []lookup.Binding
	Constants []constant.Value
	Optimized []constant.Value // 只用于分支裁剪的布尔常量
	Scopes    map[ast.NodeID]*lookup.Scope
}

func newInfo(nodes int) *Info {
	in := &Info{Scopes: make(map[ast.NodeID]*lookup.Scope)}
	in.grow(nodes + 1)
	return in
}

// grow 扩容到能容纳 n 个下标；惰性解析方法体后节点数会增加
func (in *Info) grow(n int) {
	if n <= len(in.Types) {
		return
	}
	extra := n - len(in.Types)
	in.Types = append(in.Types, make([]lookup.TypeBinding, extra)...)
	in.Bindings = append(in.Bindings, make([]lookup.Binding, extra)...)
	in.Constants = append(in.Constants, make([]constant.Value, extra)...)
	in.Optimized = append(in.Optimized, make([]constant.Value, extra)...)
}

func (in *Info) index(n ast.Node) (int, bool) {
	if n == nil {
		return 0, false
	}
	id := int(n.ID())
	return id, id > 0 && id < len(in.Types)
}

// TypeOf 节点解析得到的类型；未解析时为 nil
func (in *Info) TypeOf(n ast.Node) lookup.TypeBinding {
	if i, ok := in.index(n); ok {
		return in.Types[i]
	}
	return nil
}

// BindingOf 引用或声明节点的绑定；未解析时为 nil
func (in *Info) BindingOf(n ast.Node) lookup.Binding {
	if i, ok := in.index(n); ok {
		return in.Bindings[i]
	}
	return nil
}

// ConstantOf 表达式的编译期常量
func (in *Info) ConstantOf(n ast.Node) constant.Value {
	if i, ok := in.index(n); ok {
		return in.Constants[i]
	}
	return constant.NotAConstant
}

// OptimizedOf 表达式的布尔常量：真正的常量或能确定真假的短路组合
func (in *Info) OptimizedOf(n ast.Node) constant.Value {
	if i, ok := in.index(n); ok {
		if c := in.Constants[i]; c.IsValid() {
			return c
		}
		return in.Optimized[i]
	}
	return constant.NotAConstant
}

// ScopeOf 函数、类或块节点的作用域
func (in *Info) ScopeOf(n ast.Node) *lookup.Scope {
	if n == nil {
		return nil
	}
	return in.Scopes[n.ID()]
}

func (in *Info) setType(n ast.Node, t lookup.TypeBinding) lookup.TypeBinding {
	in.grow(int(n.ID()) + 1)
	in.Types[n.ID()] = t
	return t
}

func (in *Info) setBinding(n ast.Node, b lookup.Binding) {
	in.grow(int(n.ID()) + 1)
	in.Bindings[n.ID()] = b
}

func (in *Info) setConstant(n ast.Node, c constant.Value) {
	in.grow(int(n.ID()) + 1)
	in.Constants[n.ID()] = c
}

func (in *Info) setOptimized(n ast.Node, c constant.Value) {
	in.grow(int(n.ID()) + 1)
	in.Optimized[n.ID()] = c
}

// isTrue / isFalse 表达式是否（优化后）恒真或恒假
func (in *Info) isTrue(e ast.Expression) bool {
	c := in.OptimizedOf(e)
	return c.IsValid() && c.Type() == types.Boolean && c.BoolVal()
}

func (in *Info) isFalse(e ast.Expression) bool {
	c := in.OptimizedOf(e)
	return c.IsValid() && c.Type() == types.Boolean && !c.BoolVal()
}
