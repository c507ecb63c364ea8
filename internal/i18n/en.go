package i18n

var messagesEN = map[string]string{
	// ========== Lexer ==========
	ErrUnexpectedChar:      "unexpected character '%c'",
	ErrUnterminatedComment: "unterminated block comment",
	ErrUnterminatedString:  "unterminated string",
	ErrInvalidEscape:       "invalid escape sequence: \\%s",
	ErrInvalidHexNumber:    "invalid hex number: %s",
	ErrInvalidExponent:     "invalid number: expected exponent",
	ErrInvalidFloat:        "invalid float number: %s",
	ErrIntegerOutOfRange:   "the literal %s is out of range",

	// ========== Parser ==========
	ErrExpectedToken:       "expected %s",
	ErrUnexpectedToken:     "unexpected token: %s",
	ErrExpectedExpression:  "expected expression",
	ErrExpectedIdentifier:  "expected identifier",
	ErrExpectedType:        "expected type",
	ErrExpectedMember:      "expected class member",
	ErrExpectedCaseDefault: "expected 'case' or 'default'",
	ErrDuplicateDefault:    "duplicate 'default' label",
	ErrCatchOrFinally:      "expected 'catch' or 'finally'",
	ErrInvalidAssignTarget: "invalid assignment target",
	ErrTooManyErrors:       "too many syntax errors, giving up",
	ErrNestingTooDeep:      "expression nested too deeply",

	// ========== Compiler ==========
	MsgSyntaxError:  "%s",
	MsgLexicalError: "%s",

	MsgUndefinedName:          "%s cannot be resolved",
	MsgUndefinedType:          "%s cannot be resolved to a type",
	MsgDuplicateLocal:         "duplicate local variable %s",
	MsgDuplicateField:         "duplicate field %s in type %s",
	MsgDuplicateMethod:        "duplicate method %s in type %s",
	MsgDuplicateType:          "duplicate type %s",
	MsgNotVisible:             "%s is not visible",
	MsgAmbiguousName:          "%s is ambiguous",
	MsgStaticReference:        "cannot make a static reference to the non-static member %s",
	MsgConstructorCallRef:     "cannot refer to the instance member %s while explicitly invoking a constructor",
	MsgInheritedNameHides:     "%s is an inherited member and hides a name of the enclosing scope",
	MsgHierarchyCycle:         "cycle detected in the hierarchy of type %s",
	MsgLocalHidesField:        "the local variable %s hides a field of type %s",
	MsgLocalHidesLocal:        "the local variable %s hides another local variable",
	MsgDeprecated:             "%s is deprecated",
	MsgDidYouMean:             "did you mean '%s'?",
	MsgDeclareBeforeUse:       "declare '%s' with var, let or const before using it",
	MsgClassMembersQualified:  "instance members are reached through 'this'",
	MsgInitializeVariableHint: "initialize '%s' where it is declared",

	MsgTypeMismatch:           "type mismatch: cannot convert from %s to %s",
	MsgInvalidOperator:        "the operator %s is undefined for the argument type(s) %s, %s",
	MsgInvalidUnaryOperator:   "the operator %s is undefined for the argument type %s",
	MsgNotWritable:            "the left-hand side of an assignment must be a variable",
	MsgFinalAssignment:        "%s cannot be assigned because it is constant",
	MsgMissingReturnValue:     "this function must return a result of type %s",
	MsgVoidReturnValue:        "void functions cannot return a value",
	MsgUndefinedField:         "the field %s is undefined for the type %s",
	MsgUndefinedMethod:        "the method %s is undefined for the type %s",
	MsgArgumentCount:          "%s expects %d argument(s) but got %d",
	MsgNotConstructible:       "cannot instantiate %s",
	MsgInstanceofRequiresType: "the right operand of instanceof must be a type",
	MsgNotCallable:            "an expression of type %s is not callable",
	MsgThisInStatic:           "cannot use this in a static context",
	MsgInvalidSuperCall:       "a super constructor call must be the first statement of a constructor",
	MsgConstWithoutInit:       "the constant %s must be initialized",
	MsgPrimitiveReceiver:      "cannot access %s on the primitive type %s",
	MsgNoEffectAssignment:     "the assignment to variable %s has no effect",
	MsgIndirectStaticAccess:   "the static member %s should be accessed in a static way",

	MsgUninitializedLocal:     "the local variable %s may not have been initialized",
	MsgUnreachableCode:        "unreachable code",
	MsgBreakOutside:           "break cannot be used outside of a loop or a switch",
	MsgContinueOutside:        "continue cannot be used outside of a loop",
	MsgUndefinedLabel:         "the label %s is missing",
	MsgInvalidContinueLabel:   "continue cannot target the label %s because it does not denote a loop",
	MsgFallthrough:            "switch case may be entered by falling through the previous case",
	MsgFinallyNotNormal:       "finally block does not complete normally",
	MsgUnreachableCatch:       "unreachable catch block for %s, it is never thrown from the try statement body",
	MsgNullReference:          "null pointer access: the variable %s can only be null at this location",
	MsgPotentialNullReference: "potential null pointer access: the variable %s may be null at this location",
	MsgRedundantNonNullCheck:  "redundant null check: the variable %s cannot be null at this location",
	MsgRedundantNullCheck:     "redundant null check: the variable %s can only be null at this location",
	MsgUnusedLabel:            "the label %s is never explicitly referenced",
	MsgMissingReturn:          "this function must return a result of type %s",

	MsgTooManyProblems:     "too many problems, compilation stopped",
	MsgUnitTooManyProblems: "too many problems in %s, the rest of the unit was not investigated",
	MsgMissingBinding:      "%s could not be bound and was not investigated",
	MsgCancelled:           "compilation cancelled: %s",
	MsgInternalError:       "internal error while analysing %s: %v",

	// ========== CLI ==========
	CliUsage:           "usage: jscheck [options] files...",
	CliNoInput:         "no input files",
	CliReadFailed:      "cannot read %s: %v",
	CliSummary:         "%d error(s), %d warning(s) in %d file(s)",
	CliNotInvestigated: "%s was not fully investigated",
}
