package i18n

// ============================================================================
// 消息 ID
// ============================================================================
//
// 消息 ID 按 "阶段.名称" 命名；en.go 与 zh.go 中的映射表以这些常量为键。
//
// ============================================================================

// 词法分析
const (
	ErrUnexpectedChar      = "lexer.unexpected_char"
	ErrUnterminatedComment = "lexer.unterminated_comment"
	ErrUnterminatedString  = "lexer.unterminated_string"
	ErrInvalidEscape       = "lexer.invalid_escape"
	ErrInvalidHexNumber    = "lexer.invalid_hex_number"
	ErrInvalidExponent     = "lexer.invalid_exponent"
	ErrInvalidFloat        = "lexer.invalid_float"
	ErrIntegerOutOfRange   = "lexer.integer_out_of_range"
)

// 语法分析
const (
	ErrExpectedToken       = "parser.expected_token"
	ErrUnexpectedToken     = "parser.unexpected_token"
	ErrExpectedExpression  = "parser.expected_expression"
	ErrExpectedIdentifier  = "parser.expected_identifier"
	ErrExpectedType        = "parser.expected_type"
	ErrExpectedMember      = "parser.expected_member"
	ErrExpectedCaseDefault = "parser.expected_case_default"
	ErrDuplicateDefault    = "parser.duplicate_default"
	ErrCatchOrFinally      = "parser.catch_or_finally"
	ErrInvalidAssignTarget = "parser.invalid_assign_target"
	ErrTooManyErrors       = "parser.too_many_errors"
	ErrNestingTooDeep      = "parser.nesting_too_deep"
)

// 语义分析（与 errors 包中的问题编号一一对应）
const (
	MsgSyntaxError  = "compiler.syntax_error"
	MsgLexicalError = "compiler.lexical_error"

	// 绑定与作用域
	MsgUndefinedName          = "compiler.undefined_name"
	MsgUndefinedType          = "compiler.undefined_type"
	MsgDuplicateLocal         = "compiler.duplicate_local"
	MsgDuplicateField         = "compiler.duplicate_field"
	MsgDuplicateMethod        = "compiler.duplicate_method"
	MsgDuplicateType          = "compiler.duplicate_type"
	MsgNotVisible             = "compiler.not_visible"
	MsgAmbiguousName          = "compiler.ambiguous_name"
	MsgStaticReference        = "compiler.static_reference"
	MsgConstructorCallRef     = "compiler.constructor_call_reference"
	MsgInheritedNameHides     = "compiler.inherited_name_hides"
	MsgHierarchyCycle         = "compiler.hierarchy_cycle"
	MsgLocalHidesField        = "compiler.local_hides_field"
	MsgLocalHidesLocal        = "compiler.local_hides_local"
	MsgDeprecated             = "compiler.deprecated"
	MsgDidYouMean             = "compiler.did_you_mean"
	MsgDeclareBeforeUse       = "compiler.declare_before_use"
	MsgClassMembersQualified  = "compiler.class_members_qualified"
	MsgInitializeVariableHint = "compiler.initialize_variable_hint"

	// 类型
	MsgTypeMismatch           = "compiler.type_mismatch"
	MsgInvalidOperator        = "compiler.invalid_operator"
	MsgInvalidUnaryOperator   = "compiler.invalid_unary_operator"
	MsgNotWritable            = "compiler.not_writable"
	MsgFinalAssignment        = "compiler.final_assignment"
	MsgMissingReturnValue     = "compiler.missing_return_value"
	MsgVoidReturnValue        = "compiler.void_return_value"
	MsgUndefinedField         = "compiler.undefined_field"
	MsgUndefinedMethod        = "compiler.undefined_method"
	MsgArgumentCount          = "compiler.argument_count"
	MsgNotConstructible       = "compiler.not_constructible"
	MsgInstanceofRequiresType = "compiler.instanceof_requires_type"
	MsgNotCallable            = "compiler.not_callable"
	MsgThisInStatic           = "compiler.this_in_static"
	MsgInvalidSuperCall       = "compiler.invalid_super_call"
	MsgConstWithoutInit       = "compiler.const_without_initializer"
	MsgPrimitiveReceiver      = "compiler.primitive_receiver"
	MsgNoEffectAssignment     = "compiler.no_effect_assignment"
	MsgIndirectStaticAccess   = "compiler.indirect_static_access"

	// 流分析
	MsgUninitializedLocal     = "compiler.uninitialized_local"
	MsgUnreachableCode        = "compiler.unreachable_code"
	MsgBreakOutside           = "compiler.break_outside"
	MsgContinueOutside        = "compiler.continue_outside"
	MsgUndefinedLabel         = "compiler.undefined_label"
	MsgInvalidContinueLabel   = "compiler.invalid_continue_label"
	MsgFallthrough            = "compiler.fallthrough"
	MsgFinallyNotNormal       = "compiler.finally_not_normal"
	MsgUnreachableCatch       = "compiler.unreachable_catch"
	MsgNullReference          = "compiler.null_reference"
	MsgPotentialNullReference = "compiler.potential_null_reference"
	MsgRedundantNonNullCheck  = "compiler.redundant_non_null_check"
	MsgRedundantNullCheck     = "compiler.redundant_null_check"
	MsgUnusedLabel            = "compiler.unused_label"
	MsgMissingReturn          = "compiler.missing_return"

	// 中止
	MsgTooManyProblems     = "compiler.too_many_problems"
	MsgUnitTooManyProblems = "compiler.unit_too_many_problems"
	MsgMissingBinding      = "compiler.missing_binding"
	MsgCancelled           = "compiler.cancelled"
	MsgInternalError       = "compiler.internal_error"
)

// 命令行与语言服务器
const (
	CliUsage           = "cli.usage"
	CliNoInput         = "cli.no_input"
	CliReadFailed      = "cli.read_failed"
	CliSummary         = "cli.summary"
	CliNotInvestigated = "cli.not_investigated"
)
