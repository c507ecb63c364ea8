// Package errors 提供 jscheck 的诊断系统：问题编号、严重级别表、
// 不会中断分析的诊断收集器、四级中止信号以及终端格式化输出。
package errors

import (
	"sort"

	"github.com/tangzhangming/jscheck/internal/i18n"
)

// ============================================================================
// 错误级别
// ============================================================================

// Level 错误级别（用于格式化输出）
type Level int

const (
	LevelError   Level = iota // 错误
	LevelWarning              // 警告
	LevelNote                 // 提示
	LevelHelp                 // 帮助
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarning:
		return "warning"
	case LevelNote:
		return "note"
	case LevelHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ============================================================================
// 问题编号
// ============================================================================
//
// E 开头的问题默认是错误，W 开头的默认是警告。
// 实际严重级别由 SeverityTable 决定，可以在 jscheck.toml 中覆盖。
//
// ============================================================================

// ProblemID 问题编号
type ProblemID string

const (
	// E0001-E0099: 语法错误
	SyntaxError  ProblemID = "E0001"
	LexicalError ProblemID = "E0002"

	// E0100-E0199: 绑定与作用域
	UndefinedName          ProblemID = "E0100"
	UndefinedType          ProblemID = "E0101"
	DuplicateLocal         ProblemID = "E0102"
	DuplicateField         ProblemID = "E0103"
	DuplicateMethod        ProblemID = "E0104"
	DuplicateType          ProblemID = "E0105"
	NotVisible             ProblemID = "E0106"
	AmbiguousName          ProblemID = "E0107"
	StaticReference        ProblemID = "E0108"
	ConstructorCallRef     ProblemID = "E0109"
	InheritedNameHides     ProblemID = "E0110"
	HierarchyCycle         ProblemID = "E0111"
	LocalHidesField        ProblemID = "W0100"
	LocalHidesLocal        ProblemID = "W0101"
	DeprecatedUse          ProblemID = "W0102"
	ConstWithoutInit       ProblemID = "E0112"
	ThisInStaticContext    ProblemID = "E0113"
	InvalidSuperCall       ProblemID = "E0114"
	IndirectStaticAccess   ProblemID = "W0103"

	// E0200-E0299: 类型
	TypeMismatch           ProblemID = "E0200"
	InvalidOperator        ProblemID = "E0201"
	InvalidUnaryOperator   ProblemID = "E0202"
	NotWritable            ProblemID = "E0203"
	FinalAssignment        ProblemID = "E0204"
	MissingReturnValue     ProblemID = "E0205"
	VoidReturnValue        ProblemID = "E0206"
	UndefinedField         ProblemID = "E0207"
	UndefinedMethod        ProblemID = "E0208"
	ArgumentCount          ProblemID = "E0209"
	NotConstructible       ProblemID = "E0210"
	InstanceofRequiresType ProblemID = "E0211"
	NotCallable            ProblemID = "E0212"
	PrimitiveReceiver      ProblemID = "E0213"
	NoEffectAssignment     ProblemID = "W0200"

	// E0300-E0399: 流分析
	UninitializedLocal     ProblemID = "E0300"
	BreakOutside           ProblemID = "E0301"
	ContinueOutside        ProblemID = "E0302"
	UndefinedLabel         ProblemID = "E0303"
	UnreachableCatch       ProblemID = "E0304"
	MissingReturn          ProblemID = "E0305"
	InvalidContinueLabel   ProblemID = "E0306"
	UnreachableCode        ProblemID = "W0300"
	Fallthrough            ProblemID = "W0301"
	FinallyNotNormal       ProblemID = "W0302"
	NullReference          ProblemID = "W0303"
	PotentialNullReference ProblemID = "W0304"
	RedundantNonNullCheck  ProblemID = "W0305"
	RedundantNullCheck     ProblemID = "W0306"
	UnusedLabel            ProblemID = "W0307"

	// E0900-E0999: 中止
	TooManyProblems     ProblemID = "E0900"
	UnitTooManyProblems ProblemID = "E0901"
	MissingBinding      ProblemID = "E0902"
	Cancelled           ProblemID = "E0903"
	InternalError       ProblemID = "E0904"
)

// ============================================================================
// 问题信息表
// ============================================================================

// Tag 问题的附加标记（语言服务器用它生成 DiagnosticTag）
type Tag int

const (
	TagNone        Tag = iota
	TagUnnecessary     // 不可达或未使用的代码
	TagDeprecated      // 使用了废弃的成员
)

// ErrorInfo 问题编号信息
type ErrorInfo struct {
	Code      ProblemID // 问题编号
	Name      string    // 配置文件中使用的名字
	Severity  Severity  // 默认严重级别
	MessageID string    // i18n 消息 ID
	Category  string    // 分类
	Tag       Tag       // 附加标记
}

var problemInfos = map[ProblemID]ErrorInfo{
	SyntaxError:  {SyntaxError, "syntax-error", SeverityError, i18n.MsgSyntaxError, "syntax", TagNone},
	LexicalError: {LexicalError, "lexical-error", SeverityError, i18n.MsgLexicalError, "syntax", TagNone},

	UndefinedName:        {UndefinedName, "undefined-name", SeverityError, i18n.MsgUndefinedName, "binding", TagNone},
	UndefinedType:        {UndefinedType, "undefined-type", SeverityError, i18n.MsgUndefinedType, "binding", TagNone},
	DuplicateLocal:       {DuplicateLocal, "duplicate-local", SeverityError, i18n.MsgDuplicateLocal, "binding", TagNone},
	DuplicateField:       {DuplicateField, "duplicate-field", SeverityError, i18n.MsgDuplicateField, "binding", TagNone},
	DuplicateMethod:      {DuplicateMethod, "duplicate-method", SeverityError, i18n.MsgDuplicateMethod, "binding", TagNone},
	DuplicateType:        {DuplicateType, "duplicate-type", SeverityError, i18n.MsgDuplicateType, "binding", TagNone},
	NotVisible:           {NotVisible, "not-visible", SeverityError, i18n.MsgNotVisible, "binding", TagNone},
	AmbiguousName:        {AmbiguousName, "ambiguous-name", SeverityError, i18n.MsgAmbiguousName, "binding", TagNone},
	StaticReference:      {StaticReference, "static-reference", SeverityError, i18n.MsgStaticReference, "binding", TagNone},
	ConstructorCallRef:   {ConstructorCallRef, "constructor-call-reference", SeverityError, i18n.MsgConstructorCallRef, "binding", TagNone},
	InheritedNameHides:   {InheritedNameHides, "inherited-name-hides", SeverityError, i18n.MsgInheritedNameHides, "binding", TagNone},
	HierarchyCycle:       {HierarchyCycle, "hierarchy-cycle", SeverityError, i18n.MsgHierarchyCycle, "binding", TagNone},
	LocalHidesField:      {LocalHidesField, "local-hides-field", SeverityWarning, i18n.MsgLocalHidesField, "binding", TagNone},
	LocalHidesLocal:      {LocalHidesLocal, "local-hides-local", SeverityWarning, i18n.MsgLocalHidesLocal, "binding", TagNone},
	DeprecatedUse:        {DeprecatedUse, "deprecated", SeverityWarning, i18n.MsgDeprecated, "binding", TagDeprecated},
	ConstWithoutInit:     {ConstWithoutInit, "const-without-initializer", SeverityError, i18n.MsgConstWithoutInit, "binding", TagNone},
	ThisInStaticContext:  {ThisInStaticContext, "this-in-static", SeverityError, i18n.MsgThisInStatic, "binding", TagNone},
	InvalidSuperCall:     {InvalidSuperCall, "invalid-super-call", SeverityError, i18n.MsgInvalidSuperCall, "binding", TagNone},
	IndirectStaticAccess: {IndirectStaticAccess, "indirect-static-access", SeverityWarning, i18n.MsgIndirectStaticAccess, "binding", TagNone},

	TypeMismatch:           {TypeMismatch, "type-mismatch", SeverityError, i18n.MsgTypeMismatch, "type", TagNone},
	InvalidOperator:        {InvalidOperator, "invalid-operator", SeverityError, i18n.MsgInvalidOperator, "type", TagNone},
	InvalidUnaryOperator:   {InvalidUnaryOperator, "invalid-unary-operator", SeverityError, i18n.MsgInvalidUnaryOperator, "type", TagNone},
	NotWritable:            {NotWritable, "not-writable", SeverityError, i18n.MsgNotWritable, "type", TagNone},
	FinalAssignment:        {FinalAssignment, "final-assignment", SeverityError, i18n.MsgFinalAssignment, "type", TagNone},
	MissingReturnValue:     {MissingReturnValue, "missing-return-value", SeverityError, i18n.MsgMissingReturnValue, "type", TagNone},
	VoidReturnValue:        {VoidReturnValue, "void-return-value", SeverityError, i18n.MsgVoidReturnValue, "type", TagNone},
	UndefinedField:         {UndefinedField, "undefined-field", SeverityError, i18n.MsgUndefinedField, "type", TagNone},
	UndefinedMethod:        {UndefinedMethod, "undefined-method", SeverityError, i18n.MsgUndefinedMethod, "type", TagNone},
	ArgumentCount:          {ArgumentCount, "argument-count", SeverityError, i18n.MsgArgumentCount, "type", TagNone},
	NotConstructible:       {NotConstructible, "not-constructible", SeverityError, i18n.MsgNotConstructible, "type", TagNone},
	InstanceofRequiresType: {InstanceofRequiresType, "instanceof-requires-type", SeverityError, i18n.MsgInstanceofRequiresType, "type", TagNone},
	NotCallable:            {NotCallable, "not-callable", SeverityError, i18n.MsgNotCallable, "type", TagNone},
	PrimitiveReceiver:      {PrimitiveReceiver, "primitive-receiver", SeverityError, i18n.MsgPrimitiveReceiver, "type", TagNone},
	NoEffectAssignment:     {NoEffectAssignment, "no-effect-assignment", SeverityWarning, i18n.MsgNoEffectAssignment, "type", TagNone},

	UninitializedLocal:     {UninitializedLocal, "uninitialized-local", SeverityError, i18n.MsgUninitializedLocal, "flow", TagNone},
	BreakOutside:           {BreakOutside, "break-outside", SeverityError, i18n.MsgBreakOutside, "flow", TagNone},
	ContinueOutside:        {ContinueOutside, "continue-outside", SeverityError, i18n.MsgContinueOutside, "flow", TagNone},
	UndefinedLabel:         {UndefinedLabel, "undefined-label", SeverityError, i18n.MsgUndefinedLabel, "flow", TagNone},
	UnreachableCatch:       {UnreachableCatch, "unreachable-catch", SeverityError, i18n.MsgUnreachableCatch, "flow", TagUnnecessary},
	MissingReturn:          {MissingReturn, "missing-return", SeverityError, i18n.MsgMissingReturn, "flow", TagNone},
	InvalidContinueLabel:   {InvalidContinueLabel, "invalid-continue-label", SeverityError, i18n.MsgInvalidContinueLabel, "flow", TagNone},
	UnreachableCode:        {UnreachableCode, "unreachable-code", SeverityWarning, i18n.MsgUnreachableCode, "flow", TagUnnecessary},
	Fallthrough:            {Fallthrough, "fallthrough", SeverityWarning, i18n.MsgFallthrough, "flow", TagNone},
	FinallyNotNormal:       {FinallyNotNormal, "finally-not-normal", SeverityWarning, i18n.MsgFinallyNotNormal, "flow", TagNone},
	NullReference:          {NullReference, "null-reference", SeverityWarning, i18n.MsgNullReference, "flow", TagNone},
	PotentialNullReference: {PotentialNullReference, "potential-null-reference", SeverityWarning, i18n.MsgPotentialNullReference, "flow", TagNone},
	RedundantNonNullCheck:  {RedundantNonNullCheck, "redundant-non-null-check", SeverityWarning, i18n.MsgRedundantNonNullCheck, "flow", TagNone},
	RedundantNullCheck:     {RedundantNullCheck, "redundant-null-check", SeverityWarning, i18n.MsgRedundantNullCheck, "flow", TagNone},
	UnusedLabel:            {UnusedLabel, "unused-label", SeverityWarning, i18n.MsgUnusedLabel, "flow", TagUnnecessary},

	TooManyProblems:     {TooManyProblems, "too-many-problems", SeverityError, i18n.MsgTooManyProblems, "abort", TagNone},
	UnitTooManyProblems: {UnitTooManyProblems, "unit-too-many-problems", SeverityError, i18n.MsgUnitTooManyProblems, "abort", TagNone},
	MissingBinding:      {MissingBinding, "missing-binding", SeverityError, i18n.MsgMissingBinding, "abort", TagNone},
	Cancelled:           {Cancelled, "cancelled", SeverityError, i18n.MsgCancelled, "abort", TagNone},
	InternalError:       {InternalError, "internal-error", SeverityError, i18n.MsgInternalError, "abort", TagNone},
}

// problemsByName 配置名到编号的反查表
var problemsByName = func() map[string]ProblemID {
	m := make(map[string]ProblemID, len(problemInfos))
	for id, info := range problemInfos {
		m[info.Name] = id
	}
	return m
}()

// GetProblemInfo 获取问题编号信息
func GetProblemInfo(id ProblemID) (ErrorInfo, bool) {
	info, ok := problemInfos[id]
	return info, ok
}

// LookupProblem 按编号（E0300）或配置名（uninitialized-local）查找问题
func LookupProblem(key string) (ProblemID, bool) {
	if _, ok := problemInfos[ProblemID(key)]; ok {
		return ProblemID(key), true
	}
	id, ok := problemsByName[key]
	return id, ok
}

// AllProblems 按编号排序返回全部问题编号
func AllProblems() []ProblemID {
	ids := make([]ProblemID, 0, len(problemInfos))
	for id := range problemInfos {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
