// Package flow 流信息格与流上下文
//
// FlowInfo 记录每个局部变量槽位在某个程序点的赋值状态和空值状态。
// 分支结构把它拆成 whenTrue/whenFalse 两份，汇合点用 Join 合并；
// 顺序结构用 AddInitializationsFrom 等辅助函数累加。
package flow

import (
	"fmt"
	"math/bits"
	"strings"
)

// ============================================================================
// 位集
// ============================================================================

// bitset 按 64 位字增长的位集；缺失的高位字视为 0
type bitset []uint64

func (b bitset) get(i int) bool {
	w := i >> 6
	return w < len(b) && b[w]&(1<<(uint(i)&63)) != 0
}

func (b *bitset) set(i int) {
	w := i >> 6
	for len(*b) <= w {
		*b = append(*b, 0)
	}
	(*b)[w] |= 1 << (uint(i) & 63)
}

func (b *bitset) clear(i int) {
	w := i >> 6
	if w < len(*b) {
		(*b)[w] &^= 1 << (uint(i) & 63)
	}
}

func (b bitset) clone() bitset {
	if len(b) == 0 {
		return nil
	}
	return append(bitset(nil), b...)
}

func (b bitset) word(i int) uint64 {
	if i < len(b) {
		return b[i]
	}
	return 0
}

func combine(a, b bitset, op func(x, y uint64) uint64) bitset {
	n := max(len(a), len(b))
	if n == 0 {
		return nil
	}
	out := make(bitset, n)
	for i := range out {
		out[i] = op(a.word(i), b.word(i))
	}
	return out
}

func and(a, b bitset) bitset    { return combine(a, b, func(x, y uint64) uint64 { return x & y }) }
func or(a, b bitset) bitset     { return combine(a, b, func(x, y uint64) uint64 { return x | y }) }
func andNot(a, b bitset) bitset { return combine(a, b, func(x, y uint64) uint64 { return x &^ y }) }

func (b bitset) equal(o bitset) bool {
	n := max(len(b), len(o))
	for i := 0; i < n; i++ {
		if b.word(i) != o.word(i) {
			return false
		}
	}
	return true
}

func (b bitset) count() int {
	n := 0
	for _, w := range b {
		n += bits.OnesCount64(w)
	}
	return n
}

// ============================================================================
// 可达性与空值状态
// ============================================================================

// Reach 可达性等级；Join 取较大者，Meet 取较小者
type Reach uint8

const (
	DeadEnd     Reach = iota // 死路：其后的语句要报告不可达
	Unreachable              // 静默的不可达（如 if (false) 的分支）
	Reachable
)

func (r Reach) String() string {
	switch r {
	case DeadEnd:
		return "dead"
	case Unreachable:
		return "unreachable"
	default:
		return "reachable"
	}
}

// NullStatus 变量在某点的空值状态
type NullStatus uint8

const (
	NullUnknown NullStatus = iota
	IsNull                 // 只能是 null
	IsNonNull              // 不可能是 null
	MaybeNull              // 某条路径上是 null
)

func (s NullStatus) String() string {
	switch s {
	case IsNull:
		return "null"
	case IsNonNull:
		return "non-null"
	case MaybeNull:
		return "maybe-null"
	default:
		return "unknown"
	}
}

// ============================================================================
// Info
// ============================================================================

// Info 流信息：无条件信息或条件信息
type Info interface {
	// UnconditionalInits 合并成一份无条件信息（Unconditional 返回自身）
	UnconditionalInits() *Unconditional
	// UnconditionalCopy 合并成一份新的无条件信息
	UnconditionalCopy() *Unconditional
	// InitsWhenTrue 条件为真时的信息（Unconditional 返回自身）
	InitsWhenTrue() *Unconditional
	// InitsWhenFalse 条件为假时的信息（Unconditional 返回自身）
	InitsWhenFalse() *Unconditional
	// SafeInitsWhenTrue 条件为真时信息的副本；死路被折叠成静默不可达
	SafeInitsWhenTrue() *Unconditional
	// SafeInitsWhenFalse 条件为假时信息的副本；死路被折叠成静默不可达
	SafeInitsWhenFalse() *Unconditional
	// Copy 深拷贝
	Copy() Info
	// Reachable 是否至少一条路径可达
	Reachable() bool
	// IsDefinitelyAssigned 槽位在所有路径上都已赋值
	IsDefinitelyAssigned(slot int) bool
	// IsPotentiallyAssigned 槽位在某条路径上已赋值
	IsPotentiallyAssigned(slot int) bool
	// NullStatus 槽位的空值状态
	NullStatus(slot int) NullStatus
	String() string
}

// Unconditional 无条件流信息
//
// 不变式：definite ⊆ potential，null ⊆ potNull，null ∩ nonNull = ∅（Meet 的结果除外）。
type Unconditional struct {
	reach     Reach
	definite  bitset
	potential bitset
	null      bitset
	nonNull   bitset
	potNull   bitset
}

// New 可达的空信息
func New() *Unconditional {
	return &Unconditional{reach: Reachable}
}

// Dead 死路
func Dead() *Unconditional {
	return &Unconditional{reach: DeadEnd}
}

// Reach 可达性等级
func (u *Unconditional) Reach() Reach { return u.reach }

// SetReach 设置可达性等级，返回接收者
func (u *Unconditional) SetReach(r Reach) *Unconditional {
	u.reach = r
	return u
}

// IsDeadEnd 是否死路
func (u *Unconditional) IsDeadEnd() bool { return u.reach == DeadEnd }

func (u *Unconditional) Reachable() bool                     { return u.reach == Reachable }
func (u *Unconditional) UnconditionalInits() *Unconditional  { return u }
func (u *Unconditional) UnconditionalCopy() *Unconditional   { return u.clone() }
func (u *Unconditional) InitsWhenTrue() *Unconditional       { return u }
func (u *Unconditional) InitsWhenFalse() *Unconditional      { return u }
func (u *Unconditional) SafeInitsWhenTrue() *Unconditional   { return safe(u) }
func (u *Unconditional) SafeInitsWhenFalse() *Unconditional  { return safe(u) }
func (u *Unconditional) Copy() Info                          { return u.clone() }
func (u *Unconditional) IsDefinitelyAssigned(slot int) bool  { return u.definite.get(slot) }
func (u *Unconditional) IsPotentiallyAssigned(slot int) bool { return u.potential.get(slot) }

func safe(u *Unconditional) *Unconditional {
	c := u.clone()
	if c.reach == DeadEnd {
		c.reach = Unreachable
	}
	return c
}

func (u *Unconditional) clone() *Unconditional {
	return &Unconditional{
		reach:     u.reach,
		definite:  u.definite.clone(),
		potential: u.potential.clone(),
		null:      u.null.clone(),
		nonNull:   u.nonNull.clone(),
		potNull:   u.potNull.clone(),
	}
}

// NullStatus 槽位的空值状态
func (u *Unconditional) NullStatus(slot int) NullStatus {
	switch {
	case u.null.get(slot):
		return IsNull
	case u.nonNull.get(slot):
		return IsNonNull
	case u.potNull.get(slot):
		return MaybeNull
	}
	return NullUnknown
}

// ============================================================================
// 标记
// ============================================================================

// MarkAsDefinitelyAssigned 标记槽位已赋值
func (u *Unconditional) MarkAsDefinitelyAssigned(slot int) *Unconditional {
	u.definite.set(slot)
	u.potential.set(slot)
	return u
}

// MarkAsDefinitelyNull 标记槽位只能是 null
func (u *Unconditional) MarkAsDefinitelyNull(slot int) *Unconditional {
	u.null.set(slot)
	u.potNull.set(slot)
	u.nonNull.clear(slot)
	return u
}

// MarkAsDefinitelyNonNull 标记槽位不可能是 null
func (u *Unconditional) MarkAsDefinitelyNonNull(slot int) *Unconditional {
	u.nonNull.set(slot)
	u.null.clear(slot)
	u.potNull.clear(slot)
	return u
}

// MarkAsPotentiallyNull 标记槽位可能是 null
func (u *Unconditional) MarkAsPotentiallyNull(slot int) *Unconditional {
	u.potNull.set(slot)
	u.null.clear(slot)
	u.nonNull.clear(slot)
	return u
}

// MarkNullStatusUnknown 清除槽位的空值信息
func (u *Unconditional) MarkNullStatusUnknown(slot int) *Unconditional {
	u.null.clear(slot)
	u.nonNull.clear(slot)
	u.potNull.clear(slot)
	return u
}

// ============================================================================
// 格运算
// ============================================================================

// Join 控制流汇合：确定赋值取交、可能赋值取并、空值事实取交、可能为空取并。
// 死路是单位元；可达性等级不同时取等级高的一方。
func Join(a, b *Unconditional) *Unconditional {
	if a.reach != b.reach {
		if a.reach > b.reach {
			return a.clone()
		}
		return b.clone()
	}
	if a.reach == DeadEnd {
		return Dead()
	}
	return &Unconditional{
		reach:     a.reach,
		definite:  and(a.definite, b.definite),
		potential: or(a.potential, b.potential),
		null:      and(a.null, b.null),
		nonNull:   and(a.nonNull, b.nonNull),
		potNull:   or(a.potNull, b.potNull),
	}
}

// Meet 顺序事实的合取：全部位集取并；死路吸收一切
func Meet(a, b *Unconditional) *Unconditional {
	r := min(a.reach, b.reach)
	if r == DeadEnd {
		return Dead()
	}
	return &Unconditional{
		reach:     r,
		definite:  or(a.definite, b.definite),
		potential: or(a.potential, b.potential),
		null:      or(a.null, b.null),
		nonNull:   or(a.nonNull, b.nonNull),
		potNull:   or(a.potNull, b.potNull),
	}
}

// Equal 两份信息是否相同；所有死路彼此相等
func Equal(a, b *Unconditional) bool {
	if a.reach != b.reach {
		return false
	}
	if a.reach == DeadEnd {
		return true
	}
	return a.definite.equal(b.definite) &&
		a.potential.equal(b.potential) &&
		a.null.equal(b.null) &&
		a.nonNull.equal(b.nonNull) &&
		a.potNull.equal(b.potNull)
}

// JoinInto 把 info 合并进累加器 *acc（*acc 为 nil 时直接取副本）
func JoinInto(acc **Unconditional, info *Unconditional) {
	if *acc == nil {
		*acc = info.clone()
		return
	}
	*acc = Join(*acc, info)
}

// ============================================================================
// 顺序辅助函数（原地修改接收者并返回它）
// ============================================================================

// AddInitializationsFrom 顺序累加：other 中的赋值全部加入，other 给出的空值事实覆盖原有事实
func (u *Unconditional) AddInitializationsFrom(other *Unconditional) *Unconditional {
	if u.reach == DeadEnd || other.reach == DeadEnd {
		return u
	}
	u.definite = or(u.definite, other.definite)
	u.potential = or(u.potential, other.potential)
	known := or(or(other.null, other.nonNull), other.potNull)
	u.null = or(andNot(u.null, known), other.null)
	u.nonNull = or(andNot(u.nonNull, known), other.nonNull)
	u.potNull = or(andNot(u.potNull, known), other.potNull)
	return u
}

// AddPotentialInitializationsFrom 只把 other 的可能赋值和可能为空加入
func (u *Unconditional) AddPotentialInitializationsFrom(other *Unconditional) *Unconditional {
	if u.reach == DeadEnd || other.reach == DeadEnd {
		return u
	}
	u.potential = or(u.potential, other.potential)
	u.potNull = or(u.potNull, other.potNull)
	u.nonNull = andNot(u.nonNull, other.potNull)
	u.null = andNot(u.null, other.nonNull)
	return u
}

// NullInfoLessUnconditionalCopy 去掉全部空值信息的副本
func (u *Unconditional) NullInfoLessUnconditionalCopy() *Unconditional {
	c := u.clone()
	c.null, c.nonNull, c.potNull = nil, nil, nil
	return c
}

// AssignedCount 确定赋值的槽位数（用于调试输出）
func (u *Unconditional) AssignedCount() int {
	return u.definite.count()
}

func (u *Unconditional) String() string {
	if u.reach == DeadEnd {
		return "FlowInfo<dead>"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "FlowInfo<%s def=%s pot=%s", u.reach, u.definite.text(), u.potential.text())
	if len(u.null)+len(u.nonNull)+len(u.potNull) > 0 {
		fmt.Fprintf(&sb, " null=%s nonnull=%s maybenull=%s", u.null.text(), u.nonNull.text(), u.potNull.text())
	}
	sb.WriteString(">")
	return sb.String()
}

func (b bitset) text() string {
	var parts []string
	for i := 0; i < len(b)*64; i++ {
		if b.get(i) {
			parts = append(parts, fmt.Sprint(i))
		}
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// ============================================================================
// Conditional
// ============================================================================

// Conditional 条件流信息：分别记录条件为真和为假时的信息
type Conditional struct {
	whenTrue  *Unconditional
	whenFalse *Unconditional
}

// NewConditional 创建条件流信息
func NewConditional(whenTrue, whenFalse *Unconditional) *Conditional {
	return &Conditional{whenTrue: whenTrue, whenFalse: whenFalse}
}

func (c *Conditional) UnconditionalInits() *Unconditional { return Join(c.whenTrue, c.whenFalse) }
func (c *Conditional) UnconditionalCopy() *Unconditional  { return Join(c.whenTrue, c.whenFalse) }
func (c *Conditional) InitsWhenTrue() *Unconditional      { return c.whenTrue }
func (c *Conditional) InitsWhenFalse() *Unconditional     { return c.whenFalse }
func (c *Conditional) SafeInitsWhenTrue() *Unconditional  { return safe(c.whenTrue) }
func (c *Conditional) SafeInitsWhenFalse() *Unconditional { return safe(c.whenFalse) }

func (c *Conditional) Copy() Info {
	return &Conditional{whenTrue: c.whenTrue.clone(), whenFalse: c.whenFalse.clone()}
}

func (c *Conditional) Reachable() bool {
	return c.whenTrue.Reachable() || c.whenFalse.Reachable()
}

func (c *Conditional) IsDefinitelyAssigned(slot int) bool {
	return c.whenTrue.IsDefinitelyAssigned(slot) && c.whenFalse.IsDefinitelyAssigned(slot)
}

func (c *Conditional) IsPotentiallyAssigned(slot int) bool {
	return c.whenTrue.IsPotentiallyAssigned(slot) || c.whenFalse.IsPotentiallyAssigned(slot)
}

func (c *Conditional) NullStatus(slot int) NullStatus {
	return c.UnconditionalInits().NullStatus(slot)
}

func (c *Conditional) String() string {
	return "Conditional<true=" + c.whenTrue.String() + " false=" + c.whenFalse.String() + ">"
}
